package targets

import (
	"fmt"
	"math"
	"math/cmplx"

	"gonum.org/v1/gonum/mat"
	"gonum.org/v1/gonum/stat/distuv"
)

// imagTolerance bounds the imaginary part treated as numerical noise in IsPosDef.
const imagTolerance = 1e-10

/**
* RandSPD generates a random symmetric positive-definite n×n matrix.
*
* A ~ U[0,1)^{n×n}; AᵀA = U S Vᵀ; result = U (J + diag(u)) Vᵀ with u ~ U[0,1)^n
* and J the all-ones matrix, so every entry of the middle factor is shifted
* by 1, not only its diagonal.
 */
func RandSPD(n int, seed int64) (*mat.SymDense, error) {
	if n < 1 {
		return nil, fmt.Errorf("%w: n=%d", ErrInvalidSize, n)
	}
	src := NewSeeds(seed).Array()
	a := uniformDense(src, n, n, 1)

	var ata mat.Dense
	ata.Mul(a.T(), a)
	var svd mat.SVD
	if ok := svd.Factorize(&ata, mat.SVDFull); !ok {
		return nil, fmt.Errorf("svd factorization failed")
	}
	var u, v mat.Dense
	svd.UTo(&u)
	svd.VTo(&v)

	u01 := distuv.Uniform{Min: 0, Max: 1, Src: src}
	middle := mat.NewDense(n, n, nil)
	for i := range n {
		for j := range n {
			middle.Set(i, j, 1)
		}
		middle.Set(i, i, 1+u01.Rand())
	}

	var x mat.Dense
	x.Product(&u, middle, v.T())

	spd := mat.NewSymDense(n, nil)
	for i := range n {
		for j := i; j < n; j++ {
			spd.SetSym(i, j, (x.At(i, j)+x.At(j, i))/2)
		}
	}
	return spd, nil
}

// RandCorr returns a random n×n correlation matrix: RandSPD normalised to a
// unit diagonal by D^{-1/2}·S·D^{-1/2}.
func RandCorr(n int, seed int64) (*mat.SymDense, error) {
	spd, err := RandSPD(n, seed)
	if err != nil {
		return nil, err
	}
	d := make([]float64, n)
	for i := range d {
		d[i] = math.Sqrt(spd.At(i, i))
	}
	corr := mat.NewSymDense(n, nil)
	for i := range n {
		corr.SetSym(i, i, 1)
		for j := i + 1; j < n; j++ {
			corr.SetSym(i, j, spd.At(i, j)/(d[i]*d[j]))
		}
	}
	return corr, nil
}

// RandCov returns a covariance matrix with marginal standard deviations std
// and a random correlation structure: diag(std)·RandCorr·diag(std).
func RandCov(std []float64, seed int64) (*mat.SymDense, error) {
	corr, err := RandCorr(len(std), seed)
	if err != nil {
		return nil, err
	}
	n := len(std)
	cov := mat.NewSymDense(n, nil)
	for i := range n {
		for j := i; j < n; j++ {
			cov.SetSym(i, j, std[i]*corr.At(i, j)*std[j])
		}
	}
	return cov, nil
}

// IsPosDef reports whether every eigenvalue of m is strictly positive.
// It fails with ErrNotSquare if m is not square.
func IsPosDef(m mat.Matrix) (bool, error) {
	r, c := m.Dims()
	if r != c {
		return false, fmt.Errorf("%w: %d×%d", ErrNotSquare, r, c)
	}

	if sym, ok := m.(mat.Symmetric); ok {
		var eig mat.EigenSym
		if ok := eig.Factorize(sym, false); !ok {
			return false, fmt.Errorf("eigendecomposition failed")
		}
		for _, v := range eig.Values(nil) {
			if v <= 0 {
				return false, nil
			}
		}
		return true, nil
	}

	var eig mat.Eigen
	if ok := eig.Factorize(m, mat.EigenNone); !ok {
		return false, fmt.Errorf("eigendecomposition failed")
	}
	for _, v := range eig.Values(nil) {
		if real(v) <= 0 || math.Abs(imag(v)) > imagTolerance*math.Max(1, cmplx.Abs(v)) {
			return false, nil
		}
	}
	return true, nil
}
