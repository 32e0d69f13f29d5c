package corpus

import (
	"context"
	"fmt"
	"io"
	"runtime"
	"sync"

	"src.gdsl.dev/pkg/cost"
	"src.gdsl.dev/pkg/logutil"
	"src.gdsl.dev/pkg/parse"
	"src.gdsl.dev/pkg/score"
)

var logger = logutil.GetLogger("[corpus] ")

// Config keeps configuration options for Evaluate.
type Config struct {
	// Number of samples evaluated concurrently. If not positive,
	// runtime.GOMAXPROCS(0) is used.
	Workers int
	Parse   parse.Config
}

// Result is the outcome of evaluating one sample.
type Result struct {
	Name      string
	Cost      int
	Breakdown []int
	NaiveCost int
	Ratio     float64
	// Error from the parser, if the sample was rejected.
	ParseErr error
	// Why the sample disagrees with its record, or nil. A rejection is only a
	// failure if the sample records a cost.
	Err error
}

// OK returns whether the sample agrees with its record.
func (r Result) OK() bool { return r.Err == nil }

// CostMismatchError is returned when a computed cost differs from the one
// recorded in a sample.
type CostMismatchError struct {
	Sample string
	Field  string
	Want   int
	Got    int
}

func (e *CostMismatchError) Error() string {
	return fmt.Sprintf("sample %s: %s is %d, computed %d", e.Sample, e.Field, e.Want, e.Got)
}

// UnexpectedAcceptError is returned when a sample that is expected to be
// rejected parses successfully.
type UnexpectedAcceptError struct {
	Sample string
	Cost   int
}

func (e *UnexpectedAcceptError) Error() string {
	return fmt.Sprintf("sample %s: expected to be rejected, parsed with cost %d", e.Sample, e.Cost)
}

// Evaluate parses and costs every sample of c. The results are in the order
// of c.Samples. Samples not yet started when ctx is done get ctx.Err() as
// their error.
func Evaluate(ctx context.Context, c *Corpus, cfg Config) []Result {
	workers := cfg.Workers
	if workers <= 0 {
		workers = runtime.GOMAXPROCS(0)
	}
	if cfg.Parse.WarningWriter != nil {
		cfg.Parse.WarningWriter = &syncWriter{w: cfg.Parse.WarningWriter}
	}

	results := make([]Result, len(c.Samples))
	jobs := make(chan int, len(c.Samples))
	for i := range c.Samples {
		jobs <- i
	}
	close(jobs)

	var wg sync.WaitGroup
	for w := 0; w < workers; w++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for i := range jobs {
				s := &c.Samples[i]
				if err := ctx.Err(); err != nil {
					results[i] = Result{Name: s.Name, Err: err}
					continue
				}
				results[i] = EvaluateSample(s, cfg.Parse)
				logger.Printf("%s: cost %d, naive %d, err %v",
					s.Name, results[i].Cost, results[i].NaiveCost, results[i].Err)
			}
		}()
	}
	wg.Wait()
	return results
}

// EvaluateSample parses and costs a single sample.
func EvaluateSample(s *Sample, cfg parse.Config) Result {
	res := Result{Name: s.Name, NaiveCost: s.NaiveCost}
	if len(s.AdjacencyMatrix) > 0 {
		g, err := score.FromAdjacencyMatrix(s.AdjacencyMatrix)
		if err != nil {
			res.Err = fmt.Errorf("sample %s: %w", s.Name, err)
			return res
		}
		res.NaiveCost = score.NaiveCost(g)
		if s.NaiveCost != 0 && s.NaiveCost != res.NaiveCost {
			res.Err = &CostMismatchError{s.Name, "naive_cost", s.NaiveCost, res.NaiveCost}
			return res
		}
	}

	prog, err := parse.Parse(parse.Source{Name: s.Name, Code: s.Code}, cfg)
	if err != nil {
		res.ParseErr = err
		if s.DSLCost != nil {
			res.Err = err
		}
		return res
	}
	breakdown, err := cost.Breakdown(prog)
	if err != nil {
		res.Err = err
		return res
	}
	for _, c := range breakdown {
		res.Cost += c
	}
	res.Breakdown = breakdown
	res.Ratio = score.Ratio(res.NaiveCost, res.Cost)

	switch {
	case s.DSLCost == nil:
		res.Err = &UnexpectedAcceptError{s.Name, res.Cost}
	case *s.DSLCost != res.Cost:
		res.Err = &CostMismatchError{s.Name, "dsl_cost", *s.DSLCost, res.Cost}
	}
	return res
}

// Summary aggregates the results of a corpus evaluation.
type Summary struct {
	Total, Accepted, Rejected, Failed int
	// Mean over all samples of the naive cost divided by the cost actually
	// achieved. A rejected sample counts as no improvement.
	MeanImprovement float64
}

// Summarize aggregates results.
func Summarize(results []Result) Summary {
	s := Summary{Total: len(results)}
	var sum float64
	for _, r := range results {
		accepted := r.ParseErr == nil && r.Breakdown != nil
		switch {
		case r.Err != nil:
			s.Failed++
		case accepted:
			s.Accepted++
		default:
			s.Rejected++
		}
		sum += score.Improvement(r.NaiveCost, r.Cost, accepted)
	}
	if s.Total > 0 {
		s.MeanImprovement = sum / float64(s.Total)
	}
	return s
}

type syncWriter struct {
	mu sync.Mutex
	w  io.Writer
}

func (sw *syncWriter) Write(p []byte) (int, error) {
	sw.mu.Lock()
	defer sw.mu.Unlock()
	return sw.w.Write(p)
}
