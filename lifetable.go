package popgrowth

import (
	"fmt"
	"io"
	"math"
	"os"

	"github.com/gwenn/yacr"
)

// LifeTable holds an observed cohort schedule: for each age x, the fraction
// of the cohort surviving to x (l_x) and the per-capita fecundity at x
// (m_x). Ages need not start at reproduction; pre-reproductive rows carry
// m_x = 0.
type LifeTable struct {
	Age          []float64 // x
	Survivorship []float64 // l_x, l_0 = 1, nonincreasing
	Fecundity    []float64 // m_x, offspring per individual at age x
}

// CohortStats contains the growth quantities derived from a life table.
type CohortStats struct {
	R0             float64 // Net reproductive rate, Σ l_x·m_x
	GenerationTime float64 // Cohort generation time T_c, Σ x·l_x·m_x / R₀
	RApprox        float64 // Lotka's approximation, ln R₀ / T_c
	RExact         float64 // Root of the Euler–Lotka equation
	Lambda         float64 // e^RExact
}

// LotkaConfig controls the Euler–Lotka root solve.
type LotkaConfig struct {
	MinR      float64 // Lower bracket for r
	MaxR      float64 // Upper bracket for r
	Tolerance float64 // Bisection stops when the bracket is this narrow
	MaxWiden  int     // Bracket doublings allowed before giving up
}

// DefaultLotkaConfig returns sensible defaults. The bracket covers any
// biologically plausible rate per unit age; it is widened automatically if
// the root falls outside.
func DefaultLotkaConfig() LotkaConfig {
	return LotkaConfig{
		MinR:      -2.0,
		MaxR:      2.0,
		Tolerance: 1e-10,
		MaxWiden:  16,
	}
}

// ReadLifeTable decodes a CSV cohort schedule with columns age, lx and mx
// (any column order). The schedule must start at l_0 = 1, survivorship must
// be nonincreasing within [0,1], and fecundities must be nonnegative.
func ReadLifeTable(r io.Reader) (*LifeTable, error) {
	csv := yacr.DefaultReader(r)
	if err := csv.ScanHeaders(); err != nil {
		return nil, fmt.Errorf("lifetable: reading header: %w", err)
	}
	for _, col := range []string{"age", "lx", "mx"} {
		if _, ok := csv.Headers[col]; !ok {
			return nil, fmt.Errorf("lifetable: missing column %q in header", col)
		}
	}

	lt := &LifeTable{}
	for {
		var age, lx, mx float64
		n, err := csv.ScanRecordByName("age", &age, "lx", &lx, "mx", &mx)
		if err != nil {
			return nil, fmt.Errorf("lifetable: line %d: %w", csv.LineNumber(), err)
		}
		if n == 0 {
			break
		}
		if n < len(csv.Headers) {
			return nil, fmt.Errorf("lifetable: line %d: short record (%d of %d fields)",
				csv.LineNumber(), n, len(csv.Headers))
		}
		lt.Age = append(lt.Age, age)
		lt.Survivorship = append(lt.Survivorship, lx)
		lt.Fecundity = append(lt.Fecundity, mx)
	}

	if err := lt.validate(); err != nil {
		return nil, err
	}
	return lt, nil
}

// LoadLifeTable reads a cohort schedule from a CSV file.
func LoadLifeTable(path string) (*LifeTable, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("lifetable: %w", err)
	}
	defer f.Close()
	return ReadLifeTable(f)
}

func (lt *LifeTable) validate() error {
	if len(lt.Age) == 0 {
		return fmt.Errorf("lifetable: no rows")
	}
	if lt.Survivorship[0] != 1 {
		return fmt.Errorf("lifetable: l_0 = %v, cohort schedules start at 1", lt.Survivorship[0])
	}
	for i := range lt.Age {
		// NaN compares false against every bound below, so reject it first.
		if math.IsNaN(lt.Age[i]) || math.IsNaN(lt.Survivorship[i]) || math.IsNaN(lt.Fecundity[i]) {
			return fmt.Errorf("lifetable: NaN value at row %d (age %v, lx %v, mx %v)",
				i, lt.Age[i], lt.Survivorship[i], lt.Fecundity[i])
		}
		if i > 0 {
			if lt.Age[i] <= lt.Age[i-1] {
				return fmt.Errorf("lifetable: ages not strictly increasing at row %d", i)
			}
			if lt.Survivorship[i] > lt.Survivorship[i-1] {
				return fmt.Errorf("lifetable: survivorship rises at age %v (the dead do not return)", lt.Age[i])
			}
		}
		if lt.Survivorship[i] < 0 || lt.Survivorship[i] > 1 {
			return fmt.Errorf("lifetable: l_%v = %v outside [0,1]", lt.Age[i], lt.Survivorship[i])
		}
		if lt.Fecundity[i] < 0 {
			return fmt.Errorf("lifetable: m_%v = %v negative", lt.Age[i], lt.Fecundity[i])
		}
	}
	return nil
}

// Len returns the number of age rows.
func (lt *LifeTable) Len() int { return len(lt.Age) }

// NetReproductiveRate returns R₀ = Σ l_x·m_x, the expected lifetime
// offspring of a newborn.
func (lt *LifeTable) NetReproductiveRate() float64 {
	var r0 float64
	for i := range lt.Age {
		r0 += lt.Survivorship[i] * lt.Fecundity[i]
	}
	return r0
}

// GenerationTime returns the cohort generation time T_c = Σ x·l_x·m_x / R₀,
// the mean age of the mothers of a newborn cohort. NaN for a sterile
// cohort.
func (lt *LifeTable) GenerationTime() float64 {
	r0 := lt.NetReproductiveRate()
	var weighted float64
	for i := range lt.Age {
		weighted += lt.Age[i] * lt.Survivorship[i] * lt.Fecundity[i]
	}
	return weighted / r0
}

// SurvivalRate returns p_x = l_{x+1}/l_x for row i, the probability of
// surviving the interval. The final row has no following interval and
// returns 0.
func (lt *LifeTable) SurvivalRate(i int) float64 {
	if i < 0 || i >= lt.Len()-1 || lt.Survivorship[i] == 0 {
		return 0
	}
	return lt.Survivorship[i+1] / lt.Survivorship[i]
}

// MortalityRate returns q_x = 1 - p_x for row i.
func (lt *LifeTable) MortalityRate(i int) float64 {
	if i < 0 || i >= lt.Len()-1 || lt.Survivorship[i] == 0 {
		return 1
	}
	return 1 - lt.SurvivalRate(i)
}

// LifeExpectancy returns e_x for row i: the mean further lifetime of an
// individual alive at age x, from the standard trapezoid person-time
// columns L_x = (l_x + l_{x+1})/2 and T_x = Σ L_y for y ≥ x.
func (lt *LifeTable) LifeExpectancy(i int) float64 {
	if i < 0 || i >= lt.Len() || lt.Survivorship[i] == 0 {
		return 0
	}
	var personTime float64
	for j := i; j < lt.Len(); j++ {
		width := 1.0
		if j < lt.Len()-1 {
			width = lt.Age[j+1] - lt.Age[j]
			personTime += width * (lt.Survivorship[j] + lt.Survivorship[j+1]) / 2
		} else {
			// Final open interval: survivors die midway through one step.
			personTime += lt.Survivorship[j] / 2
		}
	}
	return personTime / lt.Survivorship[i]
}

// lotka evaluates Σ e^{-r·x}·l_x·m_x, the left side of the Euler–Lotka
// equation. Strictly decreasing in r whenever any l_x·m_x > 0.
func (lt *LifeTable) lotka(r float64) float64 {
	var sum float64
	for i := range lt.Age {
		sum += math.Exp(-r*lt.Age[i]) * lt.Survivorship[i] * lt.Fecundity[i]
	}
	return sum
}

// Analyze derives the cohort growth quantities: R₀, generation time,
// Lotka's approximate r and the exact Euler–Lotka r by bisection.
func (lt *LifeTable) Analyze(cfg LotkaConfig) (CohortStats, error) {
	r0 := lt.NetReproductiveRate()
	if r0 <= 0 {
		return CohortStats{}, fmt.Errorf("lifetable: R0 = %v, sterile cohort has no growth rate", r0)
	}

	tc := lt.GenerationTime()
	approx := math.Log(r0) / tc

	exact, err := lt.solveLotka(cfg)
	if err != nil {
		return CohortStats{}, err
	}

	return CohortStats{
		R0:             r0,
		GenerationTime: tc,
		RApprox:        approx,
		RExact:         exact,
		Lambda:         math.Exp(exact),
	}, nil
}

// solveLotka finds r with Σ e^{-r·x}·l_x·m_x = 1 by bisection. The sum is
// strictly decreasing in r, so a bracket with f(lo) > 1 > f(hi) pins the
// unique root; the configured bracket is doubled until it does.
func (lt *LifeTable) solveLotka(cfg LotkaConfig) (float64, error) {
	if cfg.Tolerance <= 0 {
		return 0, fmt.Errorf("lifetable: tolerance %v not positive", cfg.Tolerance)
	}
	lo, hi := cfg.MinR, cfg.MaxR
	if lo >= hi {
		return 0, fmt.Errorf("lifetable: bracket [%v, %v] is empty", lo, hi)
	}

	widen := 0
	for lt.lotka(lo) < 1 {
		lo -= hi - lo
		if widen++; widen > cfg.MaxWiden {
			return 0, fmt.Errorf("lifetable: no lower bracket for Euler–Lotka root below r = %v", lo)
		}
	}
	for lt.lotka(hi) > 1 {
		hi += hi - lo
		if widen++; widen > cfg.MaxWiden {
			return 0, fmt.Errorf("lifetable: no upper bracket for Euler–Lotka root above r = %v", hi)
		}
	}

	for hi-lo > cfg.Tolerance {
		mid := lo + (hi-lo)/2
		if lt.lotka(mid) > 1 {
			lo = mid
		} else {
			hi = mid
		}
	}

	return lo + (hi-lo)/2, nil
}
