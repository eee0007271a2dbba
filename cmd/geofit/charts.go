package main

import (
	"bytes"
	"fmt"
	"image/color"
	"math"
	"os"

	"github.com/go-echarts/go-echarts/v2/charts"
	"github.com/go-echarts/go-echarts/v2/opts"
	"gonum.org/v1/plot"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/vg"
	"gonum.org/v1/plot/vg/draw"

	"github.com/banshee-data/geofit/internal/geom"
)

// ellipseSamples is the number of vertices used to draw the ellipse outline.
const ellipseSamples = 256

// writeEllipsePlot renders the ellipse, the query points and their closest
// points to a PNG.
func writeEllipsePlot(path string, e geom.EllipseRotated, queries, closests []geom.Point2D) error {
	if len(queries) != len(closests) {
		return fmt.Errorf("plot: %d queries but %d closest points", len(queries), len(closests))
	}

	p := plot.New()
	p.Title.Text = fmt.Sprintf("Closest points on ellipse a=%g b=%g", e.A, e.B)
	p.X.Label.Text = "X"
	p.Y.Label.Text = "Y"

	outline := make(plotter.XYs, ellipseSamples+1)
	for i := range outline {
		pt := e.PointAt(2 * math.Pi * float64(i) / ellipseSamples)
		outline[i] = plotter.XY{X: pt.X, Y: pt.Y}
	}
	curveLine, err := plotter.NewLine(outline)
	if err != nil {
		return fmt.Errorf("plot: ellipse outline: %w", err)
	}
	curveLine.Color = color.RGBA{R: 40, G: 40, B: 40, A: 255}
	curveLine.Width = vg.Points(1)
	p.Add(curveLine)
	p.Legend.Add("ellipse", curveLine)

	for i := range queries {
		seg, err := plotter.NewLine(plotter.XYs{
			{X: queries[i].X, Y: queries[i].Y},
			{X: closests[i].X, Y: closests[i].Y},
		})
		if err != nil {
			return fmt.Errorf("plot: segment %d: %w", i, err)
		}
		seg.Color = color.RGBA{R: 160, G: 160, B: 160, A: 255}
		seg.Width = vg.Points(0.5)
		p.Add(seg)
	}

	qs, err := scatterOf(queries, color.RGBA{R: 31, G: 119, B: 180, A: 255})
	if err != nil {
		return fmt.Errorf("plot: queries: %w", err)
	}
	cs, err := scatterOf(closests, color.RGBA{R: 214, G: 39, B: 40, A: 255})
	if err != nil {
		return fmt.Errorf("plot: closest points: %w", err)
	}
	p.Add(qs, cs)
	p.Legend.Add("query", qs)
	p.Legend.Add("closest", cs)

	if err := p.Save(8*vg.Inch, 8*vg.Inch, path); err != nil {
		return fmt.Errorf("plot: save %s: %w", path, err)
	}
	return nil
}

func scatterOf(pts []geom.Point2D, c color.Color) (*plotter.Scatter, error) {
	xys := make(plotter.XYs, len(pts))
	for i, pt := range pts {
		xys[i] = plotter.XY{X: pt.X, Y: pt.Y}
	}
	s, err := plotter.NewScatter(xys)
	if err != nil {
		return nil, err
	}
	s.GlyphStyle.Color = c
	s.GlyphStyle.Shape = draw.CircleGlyph{}
	s.GlyphStyle.Radius = vg.Points(2)
	return s, nil
}

// writeRMSEChart renders a bar chart of per-scenario RMSE to an HTML file.
func writeRMSEChart(path, runID string, results []scenarioResult) error {
	names := make([]string, 0, len(results))
	data := make([]opts.BarData, 0, len(results))
	for _, r := range results {
		names = append(names, r.Name)
		v := r.Report.RMSE
		if math.IsNaN(v) {
			v = 0
		}
		data = append(data, opts.BarData{Name: string(r.Report.Quality), Value: v})
	}

	bar := charts.NewBar()
	bar.SetGlobalOptions(
		charts.WithInitializationOpts(opts.Initialization{PageTitle: "geofit", Width: "900px", Height: "520px"}),
		charts.WithTitleOpts(opts.Title{Title: "Fit residuals", Subtitle: fmt.Sprintf("run=%s scenarios=%d", runID, len(results))}),
		charts.WithTooltipOpts(opts.Tooltip{Show: opts.Bool(true)}),
		charts.WithYAxisOpts(opts.YAxis{Name: "RMSE", NameLocation: "middle", NameGap: 50}),
	)
	bar.SetXAxis(names).
		AddSeries("rmse", data,
			charts.WithLabelOpts(opts.Label{Show: opts.Bool(true), Position: "top"}),
		)

	var buf bytes.Buffer
	if err := bar.Render(&buf); err != nil {
		return fmt.Errorf("chart: render: %w", err)
	}
	if err := os.WriteFile(path, buf.Bytes(), 0644); err != nil {
		return fmt.Errorf("chart: write %s: %w", path, err)
	}
	return nil
}
