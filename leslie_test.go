package popgrowth

import (
	"math"
	"testing"
)

// TestNewLeslie_Validation verifies schedule validation.
func TestNewLeslie_Validation(t *testing.T) {
	tests := []struct {
		name      string
		fecundity []float64
		survival  []float64
		wantErr   bool
	}{
		{"Valid four class", []float64{0, 2, 6, 4}, []float64{0.4, 0.6, 0.8}, false},
		{"Valid single class", []float64{2}, nil, false},
		{"No classes", nil, nil, true},
		{"Survival length mismatch", []float64{0, 2}, []float64{0.5, 0.5}, true},
		{"Negative fecundity", []float64{0, -1}, []float64{0.5}, true},
		{"Survival above one", []float64{0, 2}, []float64{1.2}, true},
		{"Negative survival", []float64{0, 2}, []float64{-0.1}, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := NewLeslie(tt.fecundity, tt.survival)
			if (err != nil) != tt.wantErr {
				t.Errorf("NewLeslie error = %v, wantErr = %v", err, tt.wantErr)
			}
		})
	}
}

// TestLeslie_SingleClassGeometric verifies the degenerate one-class model is
// plain geometric growth N_t = λ^t·N_0.
func TestLeslie_SingleClassGeometric(t *testing.T) {
	l, err := NewLeslie([]float64{2}, nil)
	if err != nil {
		t.Fatalf("NewLeslie: %v", err)
	}

	proj, err := l.Project([]float64{50}, 10)
	if err != nil {
		t.Fatalf("Project: %v", err)
	}

	totals := proj.Totals()
	for step, n := range totals {
		want := 50 * math.Pow(2, float64(step))
		if math.Abs(n-want) > 1e-9*want {
			t.Errorf("N_%d = %v, want %v", step, n, want)
		}
	}

	dem, err := l.Eigen()
	if err != nil {
		t.Fatalf("Eigen: %v", err)
	}
	if math.Abs(dem.Lambda-2) > 1e-12 {
		t.Errorf("λ = %v, want 2", dem.Lambda)
	}

	t.Logf("✓ One age class degenerates to N_t = λ^t·N_0 with λ = %.4f", dem.Lambda)
}

// TestLeslie_GoldenRatio uses the two-class schedule whose characteristic
// equation is λ² = λ + 1, so λ is the golden ratio.
func TestLeslie_GoldenRatio(t *testing.T) {
	l, err := NewLeslie([]float64{1, 2}, []float64{0.5})
	if err != nil {
		t.Fatalf("NewLeslie: %v", err)
	}

	phi := (1 + math.Sqrt(5)) / 2

	dem, err := l.Eigen()
	if err != nil {
		t.Fatalf("Eigen: %v", err)
	}
	if math.Abs(dem.Lambda-phi) > 1e-9 {
		t.Errorf("λ = %.12f, want golden ratio %.12f", dem.Lambda, phi)
	}
	if math.Abs(dem.R-math.Log(phi)) > 1e-9 {
		t.Errorf("r = %.12f, want ln φ = %.12f", dem.R, math.Log(phi))
	}

	// Stable age distribution for a Leslie matrix is w_i ∝ l_i·λ^{-i}
	// with l_0 = 1, l_1 = P_0.
	w0 := 1.0
	w1 := 0.5 / phi
	sum := w0 + w1
	if math.Abs(dem.StableAge[0]-w0/sum) > 1e-9 || math.Abs(dem.StableAge[1]-w1/sum) > 1e-9 {
		t.Errorf("Stable age distribution = %v, want [%v %v]", dem.StableAge, w0/sum, w1/sum)
	}

	proj, err := l.Project([]float64{100, 0}, 30)
	if err != nil {
		t.Fatalf("Project: %v", err)
	}

	cfg := DefaultGrowthAssertionConfig()
	AssertGeometricGrowth(t, proj, dem.Lambda, cfg)
	AssertStableAgeConvergence(t, proj, dem, cfg)

	t.Logf("✓ Golden-ratio schedule: λ = %.6f, damping ratio = %.4f", dem.Lambda, dem.DampingRatio)
}

// TestLeslie_EigenFourClass checks the dominant eigenvalue of the article's
// insect schedule against the characteristic equation
//
//	1 = Σ F_i·l_i·λ^{-(i+1)}
//
// where l_i is cumulative survival to class i.
func TestLeslie_EigenFourClass(t *testing.T) {
	fecundity := []float64{0, 2, 6, 4}
	survival := []float64{0.4, 0.6, 0.8}

	l, err := NewLeslie(fecundity, survival)
	if err != nil {
		t.Fatalf("NewLeslie: %v", err)
	}
	dem, err := l.Eigen()
	if err != nil {
		t.Fatalf("Eigen: %v", err)
	}

	cumSurvival := []float64{1, 0.4, 0.4 * 0.6, 0.4 * 0.6 * 0.8}
	var characteristic float64
	for i := range fecundity {
		characteristic += fecundity[i] * cumSurvival[i] * math.Pow(dem.Lambda, -float64(i+1))
	}
	if math.Abs(characteristic-1) > 1e-9 {
		t.Errorf("Characteristic equation residual %.2e at λ = %.6f", characteristic-1, dem.Lambda)
	}

	if dem.Lambda <= 1 {
		t.Errorf("λ = %.6f, schedule with R0 > 1 must grow", dem.Lambda)
	}
	if dem.Reproductive[0] != 1 {
		t.Errorf("Reproductive value of class 0 = %v, want 1 by normalization", dem.Reproductive[0])
	}
	for i, v := range dem.Reproductive {
		if v <= 0 {
			t.Errorf("Reproductive value of class %d = %v, want positive", i, v)
		}
	}

	t.Logf("✓ Four-class schedule: λ = %.6f, r = %.6f", dem.Lambda, dem.R)
	t.Logf("  Stable age distribution: %v", dem.StableAge)
	t.Logf("  Reproductive values:     %v", dem.Reproductive)
}

// TestLeslie_ProjectValidation verifies projection input checks.
func TestLeslie_ProjectValidation(t *testing.T) {
	l, err := NewLeslie([]float64{0, 2}, []float64{0.5})
	if err != nil {
		t.Fatalf("NewLeslie: %v", err)
	}

	if _, err := l.Project([]float64{1, 2, 3}, 5); err == nil {
		t.Error("Expected error for dimension mismatch")
	}
	if _, err := l.Project([]float64{1, 2}, 0); err == nil {
		t.Error("Expected error for zero steps")
	}
	if _, err := l.Project([]float64{-1, 2}, 5); err == nil {
		t.Error("Expected error for negative initial count")
	}
}

// TestLeslie_ProjectWith verifies the config-driven entry point matches an
// explicit projection and that defaults seed a newborn cohort.
func TestLeslie_ProjectWith(t *testing.T) {
	l, err := NewLeslie([]float64{0, 2, 6, 4}, []float64{0.4, 0.6, 0.8})
	if err != nil {
		t.Fatalf("NewLeslie: %v", err)
	}

	cfg := DefaultProjectionConfig()
	got, err := l.ProjectWith(cfg)
	if err != nil {
		t.Fatalf("ProjectWith: %v", err)
	}
	want, err := l.Project([]float64{100, 0, 0, 0}, cfg.Steps)
	if err != nil {
		t.Fatalf("Project: %v", err)
	}

	if len(got.Steps) != len(want.Steps) {
		t.Fatalf("ProjectWith recorded %d steps, explicit projection %d", len(got.Steps), len(want.Steps))
	}
	for step := range got.Steps {
		for i := range got.Steps[step] {
			if got.Steps[step][i] != want.Steps[step][i] {
				t.Fatalf("Step %d class %d: %v != %v", step, i, got.Steps[step][i], want.Steps[step][i])
			}
		}
	}

	// A configured initial vector overrides the default cohort.
	cfg.Initial = []float64{1, 2, 3}
	if _, err := l.ProjectWith(cfg); err == nil {
		t.Error("Expected dimension mismatch error for a three-class initial vector")
	}

	t.Logf("✓ Default config projects 100 newborns over %d steps", cfg.Steps)
}

// TestLeslie_EigenDegenerate verifies a schedule with no reproduction is
// rejected by eigen-analysis rather than yielding NaNs: the matrix is
// nilpotent, every eigenvalue is 0, and there is no growth rate to report.
func TestLeslie_EigenDegenerate(t *testing.T) {
	l, err := NewLeslie([]float64{0, 0, 0}, []float64{0.5, 0.5})
	if err != nil {
		t.Fatalf("NewLeslie: %v", err)
	}

	dem, err := l.Eigen()
	if err == nil {
		t.Fatalf("Expected error for a nilpotent schedule, got λ = %v", dem.Lambda)
	}
	if math.IsNaN(dem.Lambda) || math.IsNaN(dem.R) {
		t.Errorf("Degenerate schedule leaked NaNs: λ = %v, r = %v", dem.Lambda, dem.R)
	}

	t.Logf("✓ Nilpotent schedule rejected: %v", err)
}

// TestLeslie_Nonnegativity verifies a nonnegative vector stays nonnegative
// under projection.
func TestLeslie_Nonnegativity(t *testing.T) {
	l, err := NewLeslie([]float64{0, 1, 3}, []float64{0.3, 0.7})
	if err != nil {
		t.Fatalf("NewLeslie: %v", err)
	}

	proj, err := l.Project([]float64{10, 5, 1}, 40)
	if err != nil {
		t.Fatalf("Project: %v", err)
	}

	for step, vec := range proj.Steps {
		for i, v := range vec {
			if v < 0 {
				t.Fatalf("Negative count %v in class %d at step %d", v, i, step)
			}
		}
	}

	t.Logf("✓ Projection stays nonnegative over %d steps", len(proj.Steps)-1)
}

// TestProjection_AgeDistribution verifies normalization and bounds checks.
func TestProjection_AgeDistribution(t *testing.T) {
	l, err := NewLeslie([]float64{0, 2}, []float64{0.5})
	if err != nil {
		t.Fatalf("NewLeslie: %v", err)
	}
	proj, err := l.Project([]float64{100, 0}, 5)
	if err != nil {
		t.Fatalf("Project: %v", err)
	}

	dist, err := proj.AgeDistribution(3)
	if err != nil {
		t.Fatalf("AgeDistribution: %v", err)
	}
	var sum float64
	for _, v := range dist {
		sum += v
	}
	if math.Abs(sum-1) > 1e-12 {
		t.Errorf("Age distribution sums to %v, want 1", sum)
	}

	if _, err := proj.AgeDistribution(-1); err == nil {
		t.Error("Expected error for negative step")
	}
	if _, err := proj.AgeDistribution(len(proj.Steps)); err == nil {
		t.Error("Expected error for step past projection end")
	}
}
