package render

import (
	"fmt"

	"gonum.org/v1/plot"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/vg"

	"github.com/kshitijrajsharma/vcube/internal/timestack"
)

// TrendPlot renders the per-date reduced value series together with its
// fitted linear trend and saves it as a PNG at path.
func TrendPlot(path string, series []timestack.ValueOverTime, fitted []float64, title, yLabel string) error {
	if len(series) == 0 {
		return fmt.Errorf("trendplot: empty series")
	}

	p := plot.New()
	p.Title.Text = title
	p.X.Label.Text = "Date"
	p.Y.Label.Text = yLabel

	observed := make(plotter.XYs, len(series))
	trend := make(plotter.XYs, len(series))
	for i, pt := range series {
		x := float64(pt.Date.Unix())
		observed[i] = plotter.XY{X: x, Y: pt.Value}
		if i < len(fitted) {
			trend[i] = plotter.XY{X: x, Y: fitted[i]}
		}
	}

	scatter, err := plotter.NewScatter(observed)
	if err != nil {
		return fmt.Errorf("trendplot: scatter: %w", err)
	}
	p.Add(scatter)
	p.Legend.Add("observed", scatter)

	if len(fitted) == len(series) {
		line, err := plotter.NewLine(trend)
		if err != nil {
			return fmt.Errorf("trendplot: line: %w", err)
		}
		p.Add(line)
		p.Legend.Add("trend", line)
	}

	p.Legend.Top = true

	if err := p.Save(10*vg.Inch, 5*vg.Inch, path); err != nil {
		return fmt.Errorf("trendplot: save %s: %w", path, err)
	}
	return nil
}
