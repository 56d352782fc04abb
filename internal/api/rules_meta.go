package api

import (
	"net/http"

	"github.com/codewithboateng/jstyle/internal/ir"
)

// GET /api/v1/rules (no auth needed for read-only)
func (s *Server) handleRulesMeta(w http.ResponseWriter, r *http.Request) {
	type R struct {
		ID              string      `json:"id"`
		Summary         string      `json:"summary"`
		Kinds           []string    `json:"kinds"`
		DefaultSeverity ir.Severity `json:"default_severity"`
	}
	var out []R
	if s.Registry != nil {
		for _, rr := range s.Registry.All() {
			out = append(out, R{
				ID: rr.ID, Summary: rr.Summary, Kinds: rr.Kinds,
				DefaultSeverity: rr.DefaultSeverity,
			})
		}
	}
	// stable order guaranteed by Registry.All()
	writeJSON(w, http.StatusOK, map[string]any{"items": out, "count": len(out)})
}
