package popgrowth

import (
	"fmt"
	"math"

	"github.com/aclements/go-moremath/fit"
)

// GrowthFit contains the log-linear regression estimate of the intrinsic
// rate of increase.
//
// The model is ln N_t = ln N_0 + r·t, so the slope of an ordinary least
// squares fit on the log census totals is r and the intercept is ln N_0.
type GrowthFit struct {
	R            float64 // Slope: intrinsic rate of increase per step
	Intercept    float64 // ln N at t = 0
	Lambda       float64 // e^R: finite rate of increase
	RSquared     float64 // Goodness of fit on the log scale (1.0 = perfect)
	DoublingTime float64 // ln 2 / R (+Inf for a stationary population)
	Points       int     // Observations used after burn-in
}

// FitConfig controls the regression.
type FitConfig struct {
	// Burnin is the number of leading observations dropped before fitting.
	// An age-structured projection started away from the stable age
	// distribution oscillates before settling into geometric growth, and
	// those transients bias the slope.
	Burnin int
}

// DefaultFitConfig returns sensible defaults.
func DefaultFitConfig() FitConfig {
	return FitConfig{Burnin: 5}
}

// FitGrowthRate estimates r from a census series of total population sizes
// by least squares on the log scale. At least 3 observations must remain
// after burn-in, and every fitted total must be positive.
func FitGrowthRate(totals []float64, cfg FitConfig) (GrowthFit, error) {
	if cfg.Burnin < 0 {
		return GrowthFit{}, fmt.Errorf("growthrate: negative burn-in %d", cfg.Burnin)
	}
	if len(totals)-cfg.Burnin < 3 {
		return GrowthFit{}, fmt.Errorf("growthrate: need at least 3 observations after burn-in, got %d",
			len(totals)-cfg.Burnin)
	}

	ts := make([]float64, 0, len(totals)-cfg.Burnin)
	logs := make([]float64, 0, len(totals)-cfg.Burnin)
	for t := cfg.Burnin; t < len(totals); t++ {
		if totals[t] <= 0 || math.IsNaN(totals[t]) {
			return GrowthFit{}, fmt.Errorf("growthrate: total N_%d = %v is not positive, cannot take log",
				t, totals[t])
		}
		ts = append(ts, float64(t))
		logs = append(logs, math.Log(totals[t]))
	}

	// Design matrix terms: an intercept column and the time column.
	params := fit.LinearLeastSquares(ts, logs, nil,
		func(xs, out []float64) {
			for i := range out {
				out[i] = 1
			}
		},
		func(xs, out []float64) {
			copy(out, xs)
		},
	)
	intercept, slope := params[0], params[1]

	// R² on the log scale.
	var meanLog float64
	for _, y := range logs {
		meanLog += y
	}
	meanLog /= float64(len(logs))

	var ssRes, ssTot float64
	for i, y := range logs {
		predicted := intercept + slope*ts[i]
		ssRes += (y - predicted) * (y - predicted)
		ssTot += (y - meanLog) * (y - meanLog)
	}
	rSquared := 1.0
	if ssTot > 0 {
		rSquared = 1 - ssRes/ssTot
	}

	doubling := math.Inf(1)
	if slope != 0 {
		doubling = math.Ln2 / slope
	}

	return GrowthFit{
		R:            slope,
		Intercept:    intercept,
		Lambda:       math.Exp(slope),
		RSquared:     rSquared,
		DoublingTime: doubling,
		Points:       len(ts),
	}, nil
}

// Predict returns the fitted population size at time t (on the natural,
// not log, scale).
func (f GrowthFit) Predict(t float64) float64 {
	return math.Exp(f.Intercept + f.R*t)
}
