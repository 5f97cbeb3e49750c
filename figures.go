package popgrowth

import (
	"fmt"

	"gonum.org/v1/plot"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/plotutil"
	"gonum.org/v1/plot/vg"
)

// Figure dimensions shared by all outputs.
const (
	figWidth  = 6 * vg.Inch
	figHeight = 4 * vg.Inch
)

// SaveProjectionFigure renders the age-structured trajectory: one line per
// age class plus the total, against projection step.
func SaveProjectionFigure(proj *Projection, path string) error {
	if proj == nil || len(proj.Steps) == 0 {
		return fmt.Errorf("figures: empty projection")
	}

	p := plot.New()
	p.Title.Text = "Age-structured population projection"
	p.X.Label.Text = "time step"
	p.Y.Label.Text = "individuals"

	classes := len(proj.Steps[0])
	for c := 0; c < classes; c++ {
		pts := make(plotter.XYs, len(proj.Steps))
		for t, step := range proj.Steps {
			pts[t].X = float64(t)
			pts[t].Y = step[c]
		}
		line, err := plotter.NewLine(pts)
		if err != nil {
			return fmt.Errorf("figures: class %d line: %w", c, err)
		}
		line.Color = plotutil.Color(c)
		p.Add(line)
		p.Legend.Add(fmt.Sprintf("class %d", c), line)
	}

	totals := proj.Totals()
	pts := make(plotter.XYs, len(totals))
	for t, n := range totals {
		pts[t].X = float64(t)
		pts[t].Y = n
	}
	line, err := plotter.NewLine(pts)
	if err != nil {
		return fmt.Errorf("figures: total line: %w", err)
	}
	line.Color = plotutil.Color(classes)
	line.Dashes = plotutil.Dashes(1)
	p.Add(line)
	p.Legend.Add("total", line)
	p.Legend.Top = true
	p.Legend.Left = true

	if err := p.Save(figWidth, figHeight, path); err != nil {
		return fmt.Errorf("figures: %w", err)
	}
	return nil
}

// SaveGrowthFitFigure renders the log census totals with the fitted
// log-linear growth line overlaid.
func SaveGrowthFitFigure(proj *Projection, f GrowthFit, path string) error {
	if proj == nil || len(proj.Steps) == 0 {
		return fmt.Errorf("figures: empty projection")
	}

	p := plot.New()
	p.Title.Text = fmt.Sprintf("Log-linear fit: r = %.4f (R² = %.4f)", f.R, f.RSquared)
	p.X.Label.Text = "time step"
	p.Y.Label.Text = "ln N"

	logs := proj.LogTotals()
	obs := make(plotter.XYs, 0, len(logs))
	for t, y := range logs {
		obs = append(obs, plotter.XY{X: float64(t), Y: y})
	}
	scatter, err := plotter.NewScatter(obs)
	if err != nil {
		return fmt.Errorf("figures: census scatter: %w", err)
	}
	scatter.Color = plotutil.Color(0)
	p.Add(scatter)
	p.Legend.Add("ln N_t", scatter)

	fitted := make(plotter.XYs, len(logs))
	for t := range logs {
		fitted[t].X = float64(t)
		fitted[t].Y = f.Intercept + f.R*float64(t)
	}
	line, err := plotter.NewLine(fitted)
	if err != nil {
		return fmt.Errorf("figures: fit line: %w", err)
	}
	line.Color = plotutil.Color(1)
	p.Add(line)
	p.Legend.Add("fit", line)
	p.Legend.Top = true
	p.Legend.Left = true

	if err := p.Save(figWidth, figHeight, path); err != nil {
		return fmt.Errorf("figures: %w", err)
	}
	return nil
}

// SaveSurvivorshipFigure renders l_x against age on a log y-axis, the
// conventional presentation of a survivorship curve. Ages with l_x = 0 are
// dropped (the log axis cannot carry them).
func SaveSurvivorshipFigure(lt *LifeTable, path string) error {
	if lt == nil || lt.Len() == 0 {
		return fmt.Errorf("figures: empty life table")
	}

	p := plot.New()
	p.Title.Text = "Cohort survivorship"
	p.X.Label.Text = "age"
	p.Y.Label.Text = "l(x)"
	p.Y.Scale = plot.LogScale{}
	p.Y.Tick.Marker = plot.LogTicks{Prec: -1}

	pts := make(plotter.XYs, 0, lt.Len())
	for i := range lt.Age {
		if lt.Survivorship[i] <= 0 {
			continue
		}
		pts = append(pts, plotter.XY{X: lt.Age[i], Y: lt.Survivorship[i]})
	}
	if len(pts) == 0 {
		return fmt.Errorf("figures: no positive survivorship values")
	}

	line, scatter, err := plotter.NewLinePoints(pts)
	if err != nil {
		return fmt.Errorf("figures: survivorship curve: %w", err)
	}
	line.Color = plotutil.Color(0)
	scatter.Color = plotutil.Color(0)
	p.Add(line, scatter)

	if err := p.Save(figWidth, figHeight, path); err != nil {
		return fmt.Errorf("figures: %w", err)
	}
	return nil
}

// SaveFecundityFigure renders the fecundity schedule m_x against age.
func SaveFecundityFigure(lt *LifeTable, path string) error {
	if lt == nil || lt.Len() == 0 {
		return fmt.Errorf("figures: empty life table")
	}

	p := plot.New()
	p.Title.Text = "Cohort fecundity schedule"
	p.X.Label.Text = "age"
	p.Y.Label.Text = "m(x)"

	pts := make(plotter.XYs, lt.Len())
	for i := range lt.Age {
		pts[i].X = lt.Age[i]
		pts[i].Y = lt.Fecundity[i]
	}
	line, scatter, err := plotter.NewLinePoints(pts)
	if err != nil {
		return fmt.Errorf("figures: fecundity curve: %w", err)
	}
	line.Color = plotutil.Color(1)
	scatter.Color = plotutil.Color(1)
	p.Add(line, scatter)

	if err := p.Save(figWidth, figHeight, path); err != nil {
		return fmt.Errorf("figures: %w", err)
	}
	return nil
}
