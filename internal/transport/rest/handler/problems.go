package handler

import (
	"net/http"
	"strconv"

	"rechenraum/internal/problems"
)

const defaultProblemCount = 100

// ProblemsHandler serves server-generated problem sets for clients that
// don't generate locally.
type ProblemsHandler struct{}

// NewProblemsHandler creates a new problems handler.
func NewProblemsHandler() *ProblemsHandler {
	return &ProblemsHandler{}
}

// Generate handles GET /v1/problems?category=&count=.
func (h *ProblemsHandler) Generate(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()

	category := problems.Category(q.Get("category"))

	count := defaultProblemCount
	if raw := q.Get("count"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n < 1 {
			writeError(w, http.StatusBadRequest, "invalid count")
			return
		}
		count = n
	}

	settings := problems.Settings{
		IncludeSquares11To20: q.Get("includeSquares11_20") == "true",
		IncludeSquares21To25: q.Get("includeSquares21_25") == "true",
	}

	set, err := problems.Generate(count, category, settings)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	writeJSON(w, http.StatusOK, set)
}
