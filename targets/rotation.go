package targets

import (
	"fmt"

	"gonum.org/v1/gonum/mat"
	"gonum.org/v1/gonum/stat"
)

// NewMatrix builds a dense matrix from rows. It fails with ErrNotMatrix if
// rows is empty or ragged.
func NewMatrix(rows [][]float64) (*mat.Dense, error) {
	if len(rows) == 0 || len(rows[0]) == 0 {
		return nil, fmt.Errorf("%w: no data", ErrNotMatrix)
	}
	cols := len(rows[0])
	data := make([]float64, 0, len(rows)*cols)
	for i, row := range rows {
		if len(row) != cols {
			return nil, fmt.Errorf("%w: row %d has %d columns, want %d", ErrNotMatrix, i, len(row), cols)
		}
		data = append(data, row...)
	}
	return mat.NewDense(len(rows), cols, data), nil
}

/**
* RotationMatrix returns the eigenvectors (as columns) of the covariance of x,
* where the rows of x are observations and the columns are variables.
* Right-multiplying x by the result expresses the samples in the basis that
* diagonalises their covariance. Eigenvalues are in ascending order.
 */
func RotationMatrix(x mat.Matrix) (*mat.Dense, error) {
	if r, _ := x.Dims(); r < 2 {
		return nil, fmt.Errorf("%w: covariance needs at least 2 samples, got %d", ErrInvalidSize, r)
	}
	var cov mat.SymDense
	stat.CovarianceMatrix(&cov, x, nil)

	var eig mat.EigenSym
	if ok := eig.Factorize(&cov, true); !ok {
		return nil, fmt.Errorf("eigendecomposition of covariance failed")
	}
	var vectors mat.Dense
	eig.VectorsTo(&vectors)
	return &vectors, nil
}

// Transform returns x·r.
func Transform(x, r mat.Matrix) (*mat.Dense, error) {
	if err := checkRotation(x, r); err != nil {
		return nil, err
	}
	var out mat.Dense
	out.Mul(x, r)
	return &out, nil
}

// InverseTransform returns x·rᵀ, the inverse of Transform for orthonormal r.
func InverseTransform(x, r mat.Matrix) (*mat.Dense, error) {
	if err := checkRotation(x, r); err != nil {
		return nil, err
	}
	var out mat.Dense
	out.Mul(x, r.T())
	return &out, nil
}

func checkRotation(x, r mat.Matrix) error {
	rr, rc := r.Dims()
	if rr != rc {
		return fmt.Errorf("%w: rotation is %d×%d", ErrNotSquare, rr, rc)
	}
	if _, xc := x.Dims(); xc != rr {
		return fmt.Errorf("%w: samples have %d columns, rotation is %d×%d", ErrDimMismatch, xc, rr, rc)
	}
	return nil
}
