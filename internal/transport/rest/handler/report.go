package handler

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"

	"github.com/gorilla/mux"

	"rechenraum/internal/model"
	"rechenraum/internal/service"
)

// ReportHandler handles report endpoints.
type ReportHandler struct {
	reportSvc *service.ReportService
}

// NewReportHandler creates a new report handler.
func NewReportHandler(reportSvc *service.ReportService) *ReportHandler {
	return &ReportHandler{reportSvc: reportSvc}
}

// Download handles GET /v1/rooms/{code}/report. The PDF is rendered
// into a buffer first so a rendering failure doesn't leave a half-sent
// response.
func (h *ReportHandler) Download(w http.ResponseWriter, r *http.Request) {
	code := mux.Vars(r)["code"]

	var buf bytes.Buffer
	if err := h.reportSvc.WritePDF(&buf, code); err != nil {
		switch {
		case errors.Is(err, model.ErrRoomNotFound):
			writeError(w, http.StatusNotFound, err.Error())
		case errors.Is(err, model.ErrNoFinishedPlayers):
			writeError(w, http.StatusBadRequest, err.Error())
		default:
			writeError(w, http.StatusInternalServerError, err.Error())
		}
		return
	}

	w.Header().Set("Content-Type", "application/pdf")
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", "report-"+code+".pdf"))
	w.WriteHeader(http.StatusOK)
	w.Write(buf.Bytes())
}

func writeJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(data)
}

func writeError(w http.ResponseWriter, status int, message string) {
	writeJSON(w, status, map[string]string{"error": message})
}
