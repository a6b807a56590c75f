package export

import (
	"context"
	"math"
	"runtime"

	"github.com/san-kum/splitflap/internal/flap"
	"golang.org/x/sync/errgroup"
)

// Ensemble records the same letter under consecutive seeds. Each run gets
// its own scheduler, so runs are independent and recorded in parallel.
type Ensemble struct {
	Lines     []flap.Line
	Options   flap.Options
	Runs      int
	SeedStart int64
	// Workers bounds concurrent runs; zero means GOMAXPROCS.
	Workers int
}

func (e Ensemble) Record(ctx context.Context) ([]*Trace, error) {
	traces := make([]*Trace, e.Runs)
	g, ctx := errgroup.WithContext(ctx)
	workers := e.Workers
	if workers <= 0 {
		workers = runtime.GOMAXPROCS(0)
	}
	g.SetLimit(workers)

	for i := 0; i < e.Runs; i++ {
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			tr, err := Record(e.Lines, e.Options, e.SeedStart+int64(i))
			if err != nil {
				return err
			}
			traces[i] = tr
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return traces, nil
}

// Summary describes the spread of total run time across an ensemble.
type Summary struct {
	Runs     int
	MinMS    float64
	MaxMS    float64
	MeanMS   float64
	StdDevMS float64
}

func Summarize(traces []*Trace) Summary {
	s := Summary{Runs: len(traces)}
	if len(traces) == 0 {
		return s
	}
	s.MinMS = math.Inf(1)
	s.MaxMS = math.Inf(-1)
	var sum float64
	for _, tr := range traces {
		s.MinMS = math.Min(s.MinMS, tr.TotalMS)
		s.MaxMS = math.Max(s.MaxMS, tr.TotalMS)
		sum += tr.TotalMS
	}
	s.MeanMS = sum / float64(len(traces))
	var sq float64
	for _, tr := range traces {
		d := tr.TotalMS - s.MeanMS
		sq += d * d
	}
	s.StdDevMS = math.Sqrt(sq / float64(len(traces)))
	return s
}
