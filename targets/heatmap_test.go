package targets

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestPlotCorrelation_WritesPNG(t *testing.T) {
	dist, err := TargetDistribution(3, 5, 0)
	require.NoError(t, err)
	samples := dist.Sample(200)

	path := filepath.Join(t.TempDir(), "correlation.png")
	require.NoError(t, PlotCorrelation(samples, path))

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	require.Greater(t, len(data), 8)
	require.Equal(t, []byte("\x89PNG"), data[:4])
}

func TestCorrelationMatrix_UnitDiagonal(t *testing.T) {
	dist, err := MixNormal1(2, 3, 4)
	require.NoError(t, err)
	corr, err := CorrelationMatrix(dist.Sample(100))
	require.NoError(t, err)
	for i := range 3 {
		require.InDelta(t, 1.0, corr.At(i, i), 1e-12)
	}
}
