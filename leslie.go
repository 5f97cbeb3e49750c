package popgrowth

import (
	"fmt"
	"math"
	"math/cmplx"
	"sort"

	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/mat"
)

// Leslie is an age-structured projection matrix.
//
// Row 0 holds per-class fecundities F_i (offspring entering class 0 per
// individual in class i per step). The subdiagonal holds survival
// probabilities P_i (fraction of class i surviving into class i+1). All
// other entries are zero.
type Leslie struct {
	a       *mat.Dense
	classes int
}

// Projection records a trajectory of age-class vectors under repeated
// multiplication by the Leslie matrix. Steps[0] is the initial vector, so a
// projection over k steps holds k+1 entries.
type Projection struct {
	Steps [][]float64
}

// ProjectionConfig controls a projection run.
type ProjectionConfig struct {
	Steps   int       // Projection steps
	Initial []float64 // Founding age-class vector; nil seeds 100 newborns into class 0
}

// DefaultProjectionConfig returns sensible defaults.
func DefaultProjectionConfig() ProjectionConfig {
	return ProjectionConfig{Steps: 25}
}

// Demography contains the asymptotic quantities of a Leslie matrix.
type Demography struct {
	Lambda       float64   // Dominant eigenvalue (finite rate of increase)
	R            float64   // Intrinsic rate of increase, ln λ
	StableAge    []float64 // Dominant right eigenvector, normalized to sum 1
	Reproductive []float64 // Dominant left eigenvector, class 0 scaled to 1
	DampingRatio float64   // λ₁/|λ₂|: convergence speed to the stable age distribution
}

// NewLeslie builds a projection matrix from a fecundity schedule and a
// survival schedule. len(survival) must be len(fecundity)-1: the last class
// has no class to survive into.
func NewLeslie(fecundity, survival []float64) (*Leslie, error) {
	n := len(fecundity)
	if n == 0 {
		return nil, fmt.Errorf("leslie: no age classes")
	}
	if len(survival) != n-1 {
		return nil, fmt.Errorf("leslie: %d age classes need %d survival probabilities, got %d",
			n, n-1, len(survival))
	}
	for i, f := range fecundity {
		if f < 0 || math.IsNaN(f) {
			return nil, fmt.Errorf("leslie: fecundity F_%d = %v out of range", i, f)
		}
	}
	for i, p := range survival {
		if p < 0 || p > 1 || math.IsNaN(p) {
			return nil, fmt.Errorf("leslie: survival P_%d = %v outside [0,1]", i, p)
		}
	}

	a := mat.NewDense(n, n, nil)
	a.SetRow(0, fecundity)
	for i, p := range survival {
		a.Set(i+1, i, p)
	}

	return &Leslie{a: a, classes: n}, nil
}

// Classes returns the number of age classes.
func (l *Leslie) Classes() int { return l.classes }

// Matrix returns a copy of the projection matrix.
func (l *Leslie) Matrix() *mat.Dense {
	return mat.DenseCopyOf(l.a)
}

// Project iterates n_{t+1} = A·n_t for the given number of steps, recording
// every intermediate vector including the initial one.
func (l *Leslie) Project(n0 []float64, steps int) (*Projection, error) {
	if len(n0) != l.classes {
		return nil, fmt.Errorf("leslie: initial vector has %d classes, matrix has %d",
			len(n0), l.classes)
	}
	if steps < 1 {
		return nil, fmt.Errorf("leslie: steps = %d, need at least 1", steps)
	}
	for i, v := range n0 {
		if v < 0 || math.IsNaN(v) {
			return nil, fmt.Errorf("leslie: initial count n_%d = %v out of range", i, v)
		}
	}

	proj := &Projection{Steps: make([][]float64, 0, steps+1)}

	cur := mat.NewVecDense(l.classes, append([]float64(nil), n0...))
	proj.Steps = append(proj.Steps, vecSlice(cur))

	next := mat.NewVecDense(l.classes, nil)
	for t := 0; t < steps; t++ {
		next.MulVec(l.a, cur)
		cur.CopyVec(next)
		proj.Steps = append(proj.Steps, vecSlice(cur))
	}

	return proj, nil
}

// ProjectWith runs the projection described by cfg. With a nil Initial
// vector the population starts as a founding cohort of 100 newborns.
func (l *Leslie) ProjectWith(cfg ProjectionConfig) (*Projection, error) {
	n0 := cfg.Initial
	if n0 == nil {
		n0 = make([]float64, l.classes)
		n0[0] = 100
	}
	return l.Project(n0, cfg.Steps)
}

// Totals returns total population size at each recorded step.
func (p *Projection) Totals() []float64 {
	totals := make([]float64, len(p.Steps))
	for t, step := range p.Steps {
		totals[t] = floats.Sum(step)
	}
	return totals
}

// LogTotals returns ln of the total population size at each step. Steps with
// zero total (extinct population) yield -Inf.
func (p *Projection) LogTotals() []float64 {
	totals := p.Totals()
	logs := make([]float64, len(totals))
	for t, n := range totals {
		logs[t] = math.Log(n)
	}
	return logs
}

// AgeDistribution returns the proportion in each age class at step t,
// normalized to sum 1. An extinct population returns a zero vector.
func (p *Projection) AgeDistribution(t int) ([]float64, error) {
	if t < 0 || t >= len(p.Steps) {
		return nil, fmt.Errorf("leslie: step %d outside projection of %d steps", t, len(p.Steps)-1)
	}
	step := p.Steps[t]
	total := floats.Sum(step)
	dist := make([]float64, len(step))
	if total == 0 {
		return dist, nil
	}
	for i, v := range step {
		dist[i] = v / total
	}
	return dist, nil
}

// Eigen computes the asymptotic demography of the matrix: the dominant
// eigenvalue λ (Perron root, real and positive for any reproducing
// schedule), the stable age distribution, the reproductive values and the
// damping ratio.
func (l *Leslie) Eigen() (Demography, error) {
	var eig mat.Eigen
	if ok := eig.Factorize(l.a, mat.EigenBoth); !ok {
		return Demography{}, fmt.Errorf("leslie: eigendecomposition failed")
	}

	values := eig.Values(nil)

	// Locate the eigenvalue of largest modulus.
	dominant := 0
	for i, v := range values {
		if cmplx.Abs(v) > cmplx.Abs(values[dominant]) {
			dominant = i
		}
	}

	lambda := real(values[dominant])
	if lambda <= 0 || math.Abs(imag(values[dominant])) > 1e-9*cmplx.Abs(values[dominant]) {
		return Demography{}, fmt.Errorf("leslie: dominant eigenvalue %v is not real positive (degenerate schedule)",
			values[dominant])
	}

	var right, left mat.CDense
	eig.VectorsTo(&right)
	eig.LeftVectorsTo(&left)

	stable := realColumn(&right, dominant, l.classes)
	// Eigenvectors come back with arbitrary sign.
	if stable[0] < 0 {
		floats.Scale(-1, stable)
	}
	floats.Scale(1/floats.Sum(stable), stable)

	repro := realColumn(&left, dominant, l.classes)
	if repro[0] == 0 {
		return Demography{}, fmt.Errorf("leslie: reproductive value of class 0 is zero")
	}
	floats.Scale(1/repro[0], repro)

	// Damping ratio: dominant modulus over the runner-up.
	moduli := make([]float64, len(values))
	for i, v := range values {
		moduli[i] = cmplx.Abs(v)
	}
	sort.Sort(sort.Reverse(sort.Float64Slice(moduli)))
	damping := math.Inf(1)
	if len(moduli) > 1 && moduli[1] > 0 {
		damping = moduli[0] / moduli[1]
	}

	return Demography{
		Lambda:       lambda,
		R:            math.Log(lambda),
		StableAge:    stable,
		Reproductive: repro,
		DampingRatio: damping,
	}, nil
}

// vecSlice copies a vector into a plain slice.
func vecSlice(v *mat.VecDense) []float64 {
	out := make([]float64, v.Len())
	for i := range out {
		out[i] = v.AtVec(i)
	}
	return out
}

// realColumn extracts the real parts of column j of a complex matrix.
func realColumn(m *mat.CDense, j, n int) []float64 {
	out := make([]float64, n)
	for i := 0; i < n; i++ {
		out[i] = real(m.At(i, j))
	}
	return out
}
