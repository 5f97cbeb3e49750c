package popgrowth

import (
	"math"
	"testing"
)

// GrowthAssertionConfig contains tolerances for growth properties.
type GrowthAssertionConfig struct {
	// Relative tolerance between asymptotic step ratios and λ
	LambdaTolerance float64

	// Absolute tolerance between age distributions
	AgeTolerance float64

	// Minimum R² for the log-linear fit
	MinRSquared float64

	// Absolute tolerance on the Euler–Lotka residual
	LotkaTolerance float64
}

// DefaultGrowthAssertionConfig returns conservative tolerances.
func DefaultGrowthAssertionConfig() GrowthAssertionConfig {
	return GrowthAssertionConfig{
		LambdaTolerance: 1e-3,
		AgeTolerance:    1e-3,
		MinRSquared:     0.99,
		LotkaTolerance:  1e-6,
	}
}

// AssertGeometricGrowth verifies that once transients have decayed the total
// population grows by λ each step.
//
// Mathematical property:
//
//	N_{t+1}/N_t → λ as t → ∞
func AssertGeometricGrowth(t *testing.T, proj *Projection, lambda float64, cfg GrowthAssertionConfig) {
	t.Helper()

	totals := proj.Totals()
	if len(totals) < 3 {
		t.Fatalf("Projection too short to assess asymptotic growth: %d steps", len(totals)-1)
	}

	last := len(totals) - 1
	ratio := totals[last] / totals[last-1]
	relErr := math.Abs(ratio-lambda) / lambda

	if relErr > cfg.LambdaTolerance {
		t.Errorf("Asymptotic step ratio %.6f differs from λ = %.6f (relative error %.2e)",
			ratio, lambda, relErr)
		return
	}

	t.Logf("✓ Geometric growth: N_%d/N_%d = %.6f ≈ λ = %.6f", last, last-1, ratio, lambda)
}

// AssertStableAgeConvergence verifies that the simulated age distribution
// converges to the dominant right eigenvector.
func AssertStableAgeConvergence(t *testing.T, proj *Projection, dem Demography, cfg GrowthAssertionConfig) {
	t.Helper()

	last := len(proj.Steps) - 1
	dist, err := proj.AgeDistribution(last)
	if err != nil {
		t.Fatalf("Failed to read final age distribution: %v", err)
	}

	var maxDiff float64
	for i := range dist {
		diff := math.Abs(dist[i] - dem.StableAge[i])
		if diff > maxDiff {
			maxDiff = diff
		}
	}

	if maxDiff > cfg.AgeTolerance {
		t.Errorf("Final age distribution differs from stable age distribution by %.2e (max: %.2e)\n"+
			"Transients may not have decayed; damping ratio is %.4f, project longer.",
			maxDiff, cfg.AgeTolerance, dem.DampingRatio)
		return
	}

	t.Logf("✓ Stable age distribution reached: max deviation %.2e after %d steps", maxDiff, last)
}

// AssertGrowthRateRecovered verifies the log-linear regression recovers the
// eigenvalue growth rate.
//
// Mathematical property:
//
//	slope of ln N_t on t → ln λ
func AssertGrowthRateRecovered(t *testing.T, fit GrowthFit, dem Demography, cfg GrowthAssertionConfig) {
	t.Helper()

	if fit.RSquared < cfg.MinRSquared {
		t.Errorf("Poor fit: R² = %.4f (min: %.4f)\n"+
			"The census series is not log-linear; increase burn-in.",
			fit.RSquared, cfg.MinRSquared)
	}

	if math.Abs(fit.R-dem.R) > cfg.LambdaTolerance {
		t.Errorf("Regression r = %.6f differs from eigenvalue r = ln λ = %.6f", fit.R, dem.R)
		return
	}

	t.Logf("✓ Growth rate recovered: regression r = %.6f, ln λ = %.6f, R² = %.4f",
		fit.R, dem.R, fit.RSquared)
}

// AssertEulerLotkaConsistent verifies the exact rate actually solves the
// renewal equation and dominates or matches the Lotka approximation in the
// expected direction.
//
// Mathematical property:
//
//	Σ e^{-r·x}·l_x·m_x = 1 at r = RExact
func AssertEulerLotkaConsistent(t *testing.T, lt *LifeTable, stats CohortStats, cfg GrowthAssertionConfig) {
	t.Helper()

	residual := lt.lotka(stats.RExact) - 1
	if math.Abs(residual) > cfg.LotkaTolerance {
		t.Errorf("Euler–Lotka residual %.2e at r = %.6f (max: %.2e)",
			residual, stats.RExact, cfg.LotkaTolerance)
		return
	}

	t.Logf("✓ Euler–Lotka satisfied: Σ e^(-rx)·lx·mx - 1 = %.2e at r = %.6f", residual, stats.RExact)
	t.Logf("  R₀ = %.4f, T_c = %.4f, r ≈ %.6f (approx) vs %.6f (exact)",
		stats.R0, stats.GenerationTime, stats.RApprox, stats.RExact)
}
