package main

import (
	"fmt"
	"io"
	"os"

	"gonum.org/v1/plot"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/vg"
	"gonum.org/v1/plot/vg/draw"
	"gonum.org/v1/plot/vg/vgimg"
)

const (
	chartWidth  = 12 * vg.Inch
	chartHeight = 5 * vg.Inch
)

type series struct {
	Title  string
	YLabel string
	Y      []float64
}

// chartSeries picks the two panels: speedup on the left, efficiency or mean
// time on the right.
func chartSeries(samples []benchmarkSample, m derivedMetrics, secondPanel string) (series, series) {
	left := series{Title: "Speedup vs. Number of Processes", YLabel: "Speedup", Y: m.Speedup}
	if secondPanel == panelTime {
		return left, series{Title: "Time vs. Number of Processes", YLabel: "Time (s)", Y: meanTimes(samples)}
	}
	return left, series{Title: "Efficiency vs. Number of Processes", YLabel: "Efficiency", Y: m.Efficiency}
}

func newPanel(x []int, s series) (*plot.Plot, error) {
	if len(x) != len(s.Y) {
		return nil, fmt.Errorf("%s: %d x values but %d y values", s.YLabel, len(x), len(s.Y))
	}
	pts := make(plotter.XYs, len(x))
	for i := range x {
		pts[i].X = float64(x[i])
		pts[i].Y = s.Y[i]
	}

	p := plot.New()
	p.Title.Text = s.Title
	p.X.Label.Text = "Number of Processes"
	p.Y.Label.Text = s.YLabel
	p.Add(plotter.NewGrid())

	line, points, err := plotter.NewLinePoints(pts)
	if err != nil {
		return nil, err
	}
	points.Shape = draw.CircleGlyph{}
	p.Add(line, points)
	return p, nil
}

// renderChart draws the two panels side by side as a PNG.
func renderChart(w io.Writer, x []int, left, right series) error {
	lp, err := newPanel(x, left)
	if err != nil {
		return err
	}
	rp, err := newPanel(x, right)
	if err != nil {
		return err
	}

	img := vgimg.New(chartWidth, chartHeight)
	dc := draw.New(img)
	tiles := draw.Tiles{
		Rows:      1,
		Cols:      2,
		PadX:      vg.Millimeter * 5,
		PadTop:    vg.Millimeter * 2,
		PadBottom: vg.Millimeter * 2,
		PadLeft:   vg.Millimeter * 2,
		PadRight:  vg.Millimeter * 2,
	}
	plots := [][]*plot.Plot{{lp, rp}}
	canvases := plot.Align(plots, tiles, dc)
	lp.Draw(canvases[0][0])
	rp.Draw(canvases[0][1])

	png := vgimg.PngCanvas{Canvas: img}
	_, err = png.WriteTo(w)
	return err
}

func renderChartFile(path string, x []int, left, right series) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	if err := renderChart(f, x, left, right); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}
