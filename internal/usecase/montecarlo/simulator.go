package montecarlo

import (
	"context"
	"math"
	"math/rand"
	"sort"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/codingisforpros/wealthtracker/internal/domain"
)

const (
	// MinSimulations is the floor below which percentile estimates are
	// statistically unreliable
	MinSimulations = 100

	// pathSeedStride decorrelates per-path rand sources derived from the
	// base seed (64-bit golden ratio, the splitmix64 increment)
	pathSeedStride uint64 = 0x9E3779B97F4A7C15
)

// Input holds the parameters of one simulation run. Seed makes the run
// bit-for-bit reproducible; a nil Seed draws a fresh one and is
// non-reproducible by design
type Input struct {
	StartingValue     float64
	ExpectedReturnPct float64
	VolatilityPct     float64
	HorizonYears      int
	Simulations       int
	Seed              *int64
}

// Result carries the percentile bands of the simulated outcome
// distribution, one value per year per band, plus the final-year value of
// each band keyed by its label
type Result struct {
	Years       []int
	P10         []float64
	P25         []float64
	P50         []float64
	P75         []float64
	P90         []float64
	FinalValues map[string]float64
}

// Service runs Monte Carlo simulations over a portfolio value. Paths are
// independent, so large runs are split into batches across workers; the
// outcome is identical whatever the worker count because every path draws
// from its own sub-source derived from (seed, path index)
type Service struct {
	workers   int
	batchSize int
}

// NewService creates a simulator that fans path generation out over the
// given number of workers. Values below 1 run everything on the calling
// goroutine
func NewService(workers int) *Service {
	if workers < 1 {
		workers = 1
	}
	return &Service{workers: workers, batchSize: 256}
}

// Simulate generates the requested number of random return paths and
// reduces them to percentile bands per year. Cancellation is checked
// between path batches; a cancelled run returns the context error and no
// partial result
func (s *Service) Simulate(ctx context.Context, in Input) (*Result, error) {
	if err := in.validate(); err != nil {
		return nil, err
	}

	baseSeed := time.Now().UnixNano()
	if in.Seed != nil {
		baseSeed = *in.Seed
	}

	mean := in.ExpectedReturnPct / 100
	stddev := in.VolatilityPct / 100

	// values[year][path]; workers write disjoint path ranges
	values := make([][]float64, in.HorizonYears)
	for y := range values {
		values[y] = make([]float64, in.Simulations)
	}

	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(s.workers)

	for start := 0; start < in.Simulations; start += s.batchSize {
		end := start + s.batchSize
		if end > in.Simulations {
			end = in.Simulations
		}
		start, end := start, end
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			for path := start; path < end; path++ {
				src := rand.New(rand.NewSource(baseSeed + int64(uint64(path+1)*pathSeedStride)))
				value := in.StartingValue
				for year := 0; year < in.HorizonYears; year++ {
					annualReturn := mean + stddev*src.NormFloat64()
					// Total value cannot go negative within a year
					if annualReturn < -1 {
						annualReturn = -1
					}
					value *= 1 + annualReturn
					values[year][path] = value
				}
			}
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, err
	}

	return reduce(values, in.HorizonYears), nil
}

func (in Input) validate() error {
	if in.StartingValue < 0 {
		return domain.NewValidationError("starting_value", "cannot be negative")
	}
	if in.VolatilityPct < 0 {
		return domain.NewValidationError("volatility_pct", "cannot be negative")
	}
	if in.HorizonYears < 1 || in.HorizonYears > 50 {
		return domain.NewValidationError("horizon_years", "must be between 1 and 50, got %d", in.HorizonYears)
	}
	if in.Simulations < MinSimulations {
		return domain.NewValidationError("simulations", "must be at least %d, got %d", MinSimulations, in.Simulations)
	}
	return nil
}

func reduce(values [][]float64, horizon int) *Result {
	result := &Result{
		Years: make([]int, horizon),
		P10:   make([]float64, horizon),
		P25:   make([]float64, horizon),
		P50:   make([]float64, horizon),
		P75:   make([]float64, horizon),
		P90:   make([]float64, horizon),
	}

	scratch := make([]float64, len(values[0]))
	for year := 0; year < horizon; year++ {
		copy(scratch, values[year])
		sort.Float64s(scratch)

		result.Years[year] = year + 1
		result.P10[year] = percentile(scratch, 10)
		result.P25[year] = percentile(scratch, 25)
		result.P50[year] = percentile(scratch, 50)
		result.P75[year] = percentile(scratch, 75)
		result.P90[year] = percentile(scratch, 90)
	}

	last := horizon - 1
	result.FinalValues = map[string]float64{
		"p10": result.P10[last],
		"p25": result.P25[last],
		"p50": result.P50[last],
		"p75": result.P75[last],
		"p90": result.P90[last],
	}
	return result
}

// percentile computes the q-th percentile of sorted values using linear
// interpolation between order statistics
func percentile(sorted []float64, q float64) float64 {
	if len(sorted) == 1 {
		return sorted[0]
	}
	rank := q / 100 * float64(len(sorted)-1)
	lo := int(math.Floor(rank))
	if lo >= len(sorted)-1 {
		return sorted[len(sorted)-1]
	}
	frac := rank - float64(lo)
	return sorted[lo] + (sorted[lo+1]-sorted[lo])*frac
}
