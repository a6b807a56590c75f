package export

import (
	"encoding/csv"
	"encoding/json"
	"io"
	"strconv"

	"github.com/san-kum/splitflap/internal/flap"
)

type planJSON struct {
	PerCharMS   float64     `json:"per_char_ms"`
	SettleSumMS float64     `json:"settle_sum_ms"`
	TotalMS     float64     `json:"total_ms"`
	LineEndsMS  []float64   `json:"line_ends_ms"`
	Entries     []entryJSON `json:"entries"`
}

type entryJSON struct {
	Line    int     `json:"line"`
	Index   int     `json:"index"`
	Char    string  `json:"char"`
	Role    string  `json:"role"`
	AtMS    float64 `json:"at_ms"`
	DelayMS float64 `json:"delay_ms"`
}

func PlanJSON(w io.Writer, s flap.Schedule) error {
	out := planJSON{
		PerCharMS:   millis(s.PerChar),
		SettleSumMS: millis(s.SettleSum),
		TotalMS:     millis(s.Total),
		LineEndsMS:  make([]float64, len(s.LineEnds)),
		Entries:     make([]entryJSON, len(s.Entries)),
	}
	for i, t := range s.LineEnds {
		out.LineEndsMS[i] = millis(t)
	}
	for i, e := range s.Entries {
		out.Entries[i] = entryJSON{
			Line:    e.Line,
			Index:   e.Index,
			Char:    string(e.Char),
			Role:    e.Role.String(),
			AtMS:    millis(e.At),
			DelayMS: millis(e.Delay),
		}
	}
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(out)
}

func PlanCSV(w io.Writer, s flap.Schedule) error {
	cw := csv.NewWriter(w)
	if err := cw.Write([]string{"line", "index", "char", "role", "at_ms", "delay_ms"}); err != nil {
		return err
	}
	for _, e := range s.Entries {
		row := []string{
			strconv.Itoa(e.Line),
			strconv.Itoa(e.Index),
			string(e.Char),
			e.Role.String(),
			formatMS(millis(e.At)),
			formatMS(millis(e.Delay)),
		}
		if err := cw.Write(row); err != nil {
			return err
		}
	}
	cw.Flush()
	return cw.Error()
}

func TraceCSV(w io.Writer, tr *Trace) error {
	cw := csv.NewWriter(w)
	if err := cw.Write([]string{"line", "index", "glyph", "role", "at_ms"}); err != nil {
		return err
	}
	for _, st := range tr.Settles {
		row := []string{
			strconv.Itoa(st.Line),
			strconv.Itoa(st.Index),
			st.Glyph,
			st.Role,
			formatMS(st.AtMS),
		}
		if err := cw.Write(row); err != nil {
			return err
		}
	}
	cw.Flush()
	return cw.Error()
}

func formatMS(v float64) string {
	return strconv.FormatFloat(v, 'f', 3, 64)
}
