package export

import (
	"bytes"
	"encoding/csv"
	"encoding/json"
	"errors"
	"io"
	"math"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/san-kum/splitflap/internal/flap"
)

func testOptions() flap.Options {
	opts := flap.DefaultOptions()
	opts.Budget = 100 * time.Millisecond
	return opts
}

var testLines = []flap.Line{{Text: "He**llo**"}, {Text: "Bye", Signature: true}}

func TestRecordMatchesPlan(t *testing.T) {
	opts := testOptions()
	tr, err := Record(testLines, opts, 7)
	if err != nil {
		t.Fatalf("record: %v", err)
	}
	plan := flap.Plan(testLines, opts)

	if len(tr.Settles) != len(plan.Entries) {
		t.Fatalf("expected %d settles, got %d", len(plan.Entries), len(tr.Settles))
	}
	if math.Abs(tr.TotalMS-millis(plan.Total)) > 1e-6 {
		t.Errorf("expected total %v, got %v", millis(plan.Total), tr.TotalMS)
	}
	if tr.ID == "" {
		t.Error("expected run id")
	}
	if tr.Settles[0].Glyph != "H" || tr.Settles[len(tr.Settles)-1].Glyph != "e" {
		t.Errorf("unexpected first/last glyphs %q %q", tr.Settles[0].Glyph, tr.Settles[len(tr.Settles)-1].Glyph)
	}
}

func TestRecordRejectsBadOptions(t *testing.T) {
	opts := testOptions()
	opts.FlipInterval = 0
	if _, err := Record(testLines, opts, 1); !errors.Is(err, flap.ErrInvalidOptions) {
		t.Errorf("expected ErrInvalidOptions, got %v", err)
	}
}

func TestPlanCSV(t *testing.T) {
	plan := flap.Plan(testLines, testOptions())
	var buf bytes.Buffer
	if err := PlanCSV(&buf, plan); err != nil {
		t.Fatal(err)
	}
	rows, err := csv.NewReader(&buf).ReadAll()
	if err != nil {
		t.Fatal(err)
	}
	if len(rows) != len(plan.Entries)+1 {
		t.Fatalf("expected %d rows, got %d", len(plan.Entries)+1, len(rows))
	}
	if rows[0][0] != "line" || rows[1][2] != "H" {
		t.Errorf("unexpected rows %v", rows[:2])
	}
}

func TestPlanJSON(t *testing.T) {
	plan := flap.Plan(testLines, testOptions())
	var buf bytes.Buffer
	if err := PlanJSON(&buf, plan); err != nil {
		t.Fatal(err)
	}
	var out planJSON
	if err := json.Unmarshal(buf.Bytes(), &out); err != nil {
		t.Fatal(err)
	}
	if out.PerCharMS != 12.5 {
		t.Errorf("expected per char 12.5, got %v", out.PerCharMS)
	}
	if len(out.LineEndsMS) != 2 {
		t.Errorf("expected 2 line ends, got %d", len(out.LineEndsMS))
	}
}

func TestStoreSaveLoadList(t *testing.T) {
	st := NewStore(filepath.Join(t.TempDir(), "runs"))
	if err := st.Init(); err != nil {
		t.Fatalf("init failed: %v", err)
	}

	tr, err := Record(testLines, testOptions(), 3)
	if err != nil {
		t.Fatal(err)
	}
	tr.Preset = "cascade"
	dir, err := st.Save(tr)
	if err != nil {
		t.Fatalf("save failed: %v", err)
	}
	if _, err := os.Stat(filepath.Join(dir, "settles.csv")); err != nil {
		t.Errorf("expected settles.csv: %v", err)
	}

	got, err := st.Load(tr.ID)
	if err != nil {
		t.Fatalf("load failed: %v", err)
	}
	if got.Preset != "cascade" || got.Seed != 3 {
		t.Errorf("expected cascade/3, got %s/%d", got.Preset, got.Seed)
	}
	if len(got.Settles) != len(tr.Settles) {
		t.Errorf("expected %d settles, got %d", len(tr.Settles), len(got.Settles))
	}

	runs, err := st.List()
	if err != nil {
		t.Fatal(err)
	}
	if len(runs) != 1 || runs[0].ID != tr.ID {
		t.Errorf("expected one listed run, got %v", runs)
	}
}

func TestStoreListMissingDir(t *testing.T) {
	runs, err := NewStore(filepath.Join(t.TempDir(), "none")).List()
	if err != nil || len(runs) != 0 {
		t.Errorf("expected empty list, got %v, %v", runs, err)
	}
}

type closeFailer struct {
	bytes.Buffer
	closed bool
}

func (c *closeFailer) Close() error {
	c.closed = true
	return errors.New("disk full")
}

func TestWriteCloseReportsCloseError(t *testing.T) {
	f := &closeFailer{}
	err := writeClose(f, func(w io.Writer) error {
		_, err := io.WriteString(w, "id,line\n")
		return err
	})
	if err == nil {
		t.Fatal("expected close error to be returned")
	}
	if !f.closed {
		t.Error("expected file to be closed")
	}

	f = &closeFailer{}
	writeErr := errors.New("encode failed")
	if err := writeClose(f, func(io.Writer) error { return writeErr }); !errors.Is(err, writeErr) {
		t.Errorf("expected write error, got %v", err)
	}
	if !f.closed {
		t.Error("expected file closed after a write error")
	}
}

func TestStoreSaveUnwritableDir(t *testing.T) {
	base := filepath.Join(t.TempDir(), "data")
	if err := os.WriteFile(base, []byte("not a dir"), 0644); err != nil {
		t.Fatal(err)
	}
	tr := &Trace{ID: "run-1"}
	if _, err := NewStore(base).Save(tr); err == nil {
		t.Error("expected error when the data dir is a file")
	}
}
