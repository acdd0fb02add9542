package targets

import (
	"fmt"
	"os"

	"gonum.org/v1/gonum/mat"
	"gonum.org/v1/gonum/stat"
	"gonum.org/v1/plot"
	"gonum.org/v1/plot/palette/moreland"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/vg"
	"gonum.org/v1/plot/vg/draw"
	"gonum.org/v1/plot/vg/vgimg"
)

const (
	heatmapSize   = 6 * vg.Inch
	colorBarWidth = 1.2 * vg.Inch
	paletteSize   = 255
)

// CorrelationMatrix returns the Pearson correlation matrix of the columns of x.
func CorrelationMatrix(x mat.Matrix) (*mat.SymDense, error) {
	if r, _ := x.Dims(); r < 2 {
		return nil, fmt.Errorf("%w: correlation needs at least 2 samples, got %d", ErrInvalidSize, r)
	}
	var corr mat.SymDense
	stat.CorrelationMatrix(&corr, x, nil)
	return &corr, nil
}

// correlationGrid adapts a square matrix to plotter.GridXYZ with row 0 drawn on top.
type correlationGrid struct {
	m mat.Matrix
}

func (g correlationGrid) Dims() (c, r int) {
	r, c = g.m.Dims()
	return c, r
}

func (g correlationGrid) Z(c, r int) float64 {
	n, _ := g.m.Dims()
	return g.m.At(n-1-r, c)
}

func (g correlationGrid) X(c int) float64 { return float64(c) }

func (g correlationGrid) Y(r int) float64 { return float64(r) }

// PlotCorrelation renders the correlation matrix of x as a heatmap with a
// colour bar and writes it to path as PNG.
func PlotCorrelation(x mat.Matrix, path string) error {
	corr, err := CorrelationMatrix(x)
	if err != nil {
		return err
	}

	colors := moreland.SmoothBlueRed()
	colors.SetMin(-1)
	colors.SetMax(1)

	hm := plotter.NewHeatMap(correlationGrid{m: corr}, colors.Palette(paletteSize))
	hm.Min, hm.Max = -1, 1

	p := plot.New()
	p.Title.Text = "Correlation matrix"
	p.X.Label.Text = "variable"
	p.Y.Label.Text = "variable"
	p.Add(hm)

	legend := plot.New()
	legend.HideX()
	legend.Add(&plotter.ColorBar{ColorMap: colors, Vertical: true})

	img := vgimg.New(heatmapSize+colorBarWidth, heatmapSize)
	dc := draw.New(img)
	p.Draw(draw.Crop(dc, 0, -colorBarWidth, 0, 0))
	legend.Draw(draw.Crop(dc, heatmapSize, 0, 0, 0))

	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer f.Close()
	if _, err := (vgimg.PngCanvas{Canvas: img}).WriteTo(f); err != nil {
		return fmt.Errorf("failed to write heatmap %s: %w", path, err)
	}
	return f.Close()
}
