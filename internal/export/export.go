// Package export writes solve artifacts: a JSON summary, a CSV tension
// table, and a plotted side view of the converged line profiles.
package export

import (
	"encoding/csv"
	"encoding/json"
	"fmt"
	"os"
	"strconv"
	"time"

	"moorstat/internal/model"
	"moorstat/internal/report"
	"moorstat/internal/solver"
)

// LineResult is one line's converged tension state.
type LineResult struct {
	Index    int     `json:"index"`
	Type     string  `json:"type"`
	H        float64 `json:"h"`
	V        float64 `json:"v"`
	Tension  float64 `json:"tension"`
	Length   float64 `json:"length"`
	Anchor   string  `json:"anchor"`
	Fairlead string  `json:"fairlead"`
}

// NodeResult is one node's final position.
type NodeResult struct {
	Name     string     `json:"name"`
	Kind     string     `json:"kind"`
	Position [3]float64 `json:"position"`
}

// Summary is the JSON solve record.
type Summary struct {
	Timestamp    time.Time    `json:"timestamp"`
	StatusCode   int          `json:"status_code"`
	Status       string       `json:"status"`
	Converged    bool         `json:"converged"`
	Iterations   int          `json:"iterations"`
	ResidualNorm float64      `json:"residual_norm"`
	Lines        []LineResult `json:"lines"`
	Nodes        []NodeResult `json:"nodes"`
}

// NewSummary collects the solve record from a finished session's model.
func NewSummary(m *model.Model, res solver.Result, st report.Status) *Summary {
	s := &Summary{
		Timestamp:    time.Now().UTC(),
		StatusCode:   st.Code,
		Status:       st.Message,
		Converged:    res.Converged(),
		Iterations:   res.Iterations,
		ResidualNorm: res.ResidualNorm,
	}
	for i, l := range m.Lines {
		s.Lines = append(s.Lines, LineResult{
			Index:    i,
			Type:     l.Type.Name,
			H:        l.H,
			V:        l.V,
			Tension:  l.Tension(),
			Length:   l.Length,
			Anchor:   l.Anchor.Name,
			Fairlead: l.Fairlead.Name,
		})
	}
	for _, n := range m.Nodes {
		s.Nodes = append(s.Nodes, NodeResult{
			Name:     n.Name,
			Kind:     n.Kind.String(),
			Position: n.Position,
		})
	}
	return s
}

// WriteJSON writes the summary record to path.
func (s *Summary) WriteJSON(path string) error {
	data, err := json.MarshalIndent(s, "", "  ")
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0644)
}

// WriteTensionsCSV writes the per-line tension table to path.
func WriteTensionsCSV(path string, m *model.Model) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer f.Close()

	w := csv.NewWriter(f)
	defer w.Flush()

	if err := w.Write([]string{"line", "type", "anchor", "fairlead", "h_n", "v_n", "tension_n"}); err != nil {
		return err
	}
	for i, l := range m.Lines {
		rec := []string{
			strconv.Itoa(i),
			l.Type.Name,
			l.Anchor.Name,
			l.Fairlead.Name,
			fmt.Sprintf("%.6f", l.H),
			fmt.Sprintf("%.6f", l.V),
			fmt.Sprintf("%.6f", l.Tension()),
		}
		if err := w.Write(rec); err != nil {
			return err
		}
	}
	return nil
}
