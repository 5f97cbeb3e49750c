// Package popgrowth derives and illustrates unconstrained (exponential)
// population growth models.
//
// # Overview
//
// When resources do not limit reproduction, a population grows geometrically
// in discrete time and exponentially in continuous time:
//
//	N_{t+1} = λ·N_t        (discrete)
//	N_t     = N_0·e^{r·t}  (continuous)
//
// where λ is the finite rate of increase and r = ln λ is the intrinsic rate
// of increase. The package works through three classical routes to these
// quantities:
//
//   - leslie.go     - age-structured matrix projection (the Leslie matrix)
//   - growthrate.go - recovery of r by log-linear regression on census totals
//   - lifetable.go  - R₀, generation time and r from cohort life-table data
//     via the Euler–Lotka equation
//   - figures.go    - the static figures for the accompanying article
//   - assertions.go - test helpers for growth properties
//
// # The Leslie matrix
//
// Individuals are grouped into age classes. Each projection step, class i
// produces F_i offspring into class 0 and survives into class i+1 with
// probability P_i:
//
//	          ⎡F₀ F₁ F₂ F₃⎤
//	n_{t+1} = ⎢P₀  0  0  0⎥ · n_t
//	          ⎢ 0 P₁  0  0⎥
//	          ⎣ 0  0 P₂  0⎦
//
// After transient oscillations decay, total population size grows by the
// dominant eigenvalue λ each step and the age distribution converges to the
// dominant right eigenvector (the stable age distribution):
//
//	l, err := popgrowth.NewLeslie(
//	    []float64{0, 2, 6, 4},    // fecundity per class
//	    []float64{0.4, 0.6, 0.8}, // survival into the next class
//	)
//	proj, err := l.Project([]float64{100, 0, 0, 0}, 25)
//	dem, err := l.Eigen()
//	fmt.Printf("λ = %.4f, r = %.4f\n", dem.Lambda, dem.R)
//
// # Recovering r by regression
//
// Taking logs of N_t = N_0·e^{r·t} gives a straight line,
//
//	ln N_t = ln N_0 + r·t
//
// so ordinary least squares on the log census totals recovers r as the
// slope. FitGrowthRate drops a configurable burn-in so the transient
// age-structure wobble does not bias the estimate:
//
//	fit, err := popgrowth.FitGrowthRate(proj.Totals(), popgrowth.DefaultFitConfig())
//	fmt.Printf("r = %.4f (R² = %.4f)\n", fit.R, fit.RSquared)
//
// # Life tables and the Euler–Lotka equation
//
// For an observed cohort, l_x is the fraction surviving to age x and m_x the
// offspring produced per individual at age x. Then:
//
//	R₀  = Σ l_x·m_x             (net reproductive rate)
//	T_c = Σ x·l_x·m_x / R₀      (cohort generation time)
//	r   ≈ ln R₀ / T_c           (Lotka's approximation)
//	1   = Σ e^{-r·x}·l_x·m_x    (Euler–Lotka, exact r)
//
// The left side of the Euler–Lotka equation is strictly decreasing in r, so
// the exact rate is found by bisection. The data/mite.csv file carries the
// mite cohort schedule used in the article:
//
//	lt, err := popgrowth.LoadLifeTable("data/mite.csv")
//	stats, err := lt.Analyze(popgrowth.DefaultLotkaConfig())
//	fmt.Printf("R₀ = %.2f, T = %.2f d, r = %.4f /d\n",
//	    stats.R0, stats.GenerationTime, stats.RExact)
//
// # Figures
//
// cmd/popgrowth replays the whole derivation and writes the article's four
// figures (age-structured projection, log-linear fit, survivorship curve,
// fecundity schedule) as PNG files.
package popgrowth
