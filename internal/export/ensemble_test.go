package export

import (
	"context"
	"testing"
	"time"

	"github.com/san-kum/splitflap/internal/flap"
)

func TestEnsembleSeeds(t *testing.T) {
	e := Ensemble{Lines: testLines, Options: testOptions(), Runs: 4, SeedStart: 10, Workers: 2}
	traces, err := e.Record(context.Background())
	if err != nil {
		t.Fatalf("record: %v", err)
	}
	if len(traces) != 4 {
		t.Fatalf("expected 4 traces, got %d", len(traces))
	}
	for i, tr := range traces {
		if tr.Seed != int64(10+i) {
			t.Errorf("trace %d: expected seed %d, got %d", i, 10+i, tr.Seed)
		}
	}

	// lookahead timing does not depend on the seed
	s := Summarize(traces)
	if s.MinMS != s.MaxMS || s.StdDevMS != 0 {
		t.Errorf("expected identical totals, got %+v", s)
	}
}

func TestEnsemblePerLetterSpread(t *testing.T) {
	opts := flap.Options{
		Budget:       200 * time.Millisecond,
		FlipInterval: 8 * time.Millisecond,
		CharsPerFlip: 1,
		SpaceFactor:  0.3,
		PunctFactor:  0.5,
	}
	lines := []flap.Line{{Text: "a longer line of letters to flip"}}
	traces, err := Ensemble{Lines: lines, Options: opts, Runs: 8, SeedStart: 1}.Record(context.Background())
	if err != nil {
		t.Fatalf("record: %v", err)
	}
	s := Summarize(traces)
	if s.MinMS > s.MeanMS || s.MeanMS > s.MaxMS {
		t.Errorf("expected min <= mean <= max, got %+v", s)
	}
	if s.Runs != 8 {
		t.Errorf("expected 8 runs, got %d", s.Runs)
	}
}

func TestEnsembleCancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err := Ensemble{Lines: testLines, Options: testOptions(), Runs: 3}.Record(ctx)
	if err == nil {
		t.Error("expected error from cancelled context")
	}
}

func TestSummarizeEmpty(t *testing.T) {
	if s := Summarize(nil); s.Runs != 0 || s.MeanMS != 0 {
		t.Errorf("expected zero summary, got %+v", s)
	}
}
