package web

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/contactsheet/formatter/internal/core"
	"github.com/contactsheet/formatter/internal/sheet"
	"github.com/go-chi/chi/v5"
)

var errNoCompletedImport = errors.New("no completed import in this session")

// handleDashboard renders the single-page import UI.
func (s *Server) handleDashboard(w http.ResponseWriter, r *http.Request) {
	data := dashboardData{
		Profiles:       s.service.ListProfiles(),
		DefaultProfile: s.cfg.Import.DefaultProfile,
		MaxFileSizeMB:  s.cfg.Import.MaxFileSize / (1024 * 1024),
		EnhanceEnabled: s.cfg.Enhance.Enabled && s.cfg.Enhance.APIKey != "",
	}
	s.pages.renderDashboard(w, data)
}

// profileResponse is the JSON shape for a mapping profile.
type profileResponse struct {
	Key          string `json:"key"`
	Label        string `json:"label"`
	StrictExtras bool   `json:"strictExtras"`
}

// handleListProfiles returns the registered mapping profiles.
func (s *Server) handleListProfiles(w http.ResponseWriter, r *http.Request) {
	profiles := s.service.ListProfiles()

	out := make([]profileResponse, len(profiles))
	for i, p := range profiles {
		out[i] = profileResponse{Key: p.Key, Label: p.Label, StrictExtras: p.StrictExtras}
	}

	writeJSON(w, map[string]interface{}{
		"profiles": out,
		"default":  s.cfg.Import.DefaultProfile,
	})
}

// handleImport accepts a spreadsheet upload and starts an asynchronous
// import. Form fields:
//
//   - file:    the .csv or .xlsx upload (required)
//   - profile: mapping profile key (optional, falls back to the default)
//   - enhance: "true"/"on" to request the LLM cleanup pass (optional)
func (s *Server) handleImport(w http.ResponseWriter, r *http.Request) {
	maxSize := s.cfg.Import.MaxFileSize
	r.Body = http.MaxBytesReader(w, r.Body, maxSize)

	if err := r.ParseMultipartForm(maxSize); err != nil {
		s.respondError(w, r, fmt.Errorf("file too large or invalid form: %w", err), http.StatusBadRequest)
		return
	}

	file, header, err := r.FormFile("file")
	if err != nil {
		s.respondError(w, r, errors.New("no file provided"), http.StatusBadRequest)
		return
	}
	defer file.Close()

	data, err := io.ReadAll(file)
	if err != nil {
		s.respondError(w, r, fmt.Errorf("failed to read file: %w", err), http.StatusInternalServerError)
		return
	}

	profile := r.FormValue("profile")
	enhance := parseBoolField(r.FormValue("enhance"))

	importID, err := s.service.StartImport(r.Context(), profile, header.Filename, data, enhance)
	if err != nil {
		status := http.StatusBadRequest
		if errors.Is(err, core.ErrTooManyImports) {
			status = http.StatusServiceUnavailable
		}
		s.respondError(w, r, err, status)
		return
	}

	writeJSON(w, map[string]string{"import_id": importID})
}

// parseBoolField interprets checkbox and boolean form values.
func parseBoolField(v string) bool {
	if v == "on" {
		return true
	}
	b, err := strconv.ParseBool(v)
	return err == nil && b
}

// handleImportProgress streams import progress via Server-Sent Events.
// Supports resumption via lastEventId query parameter for reconnection.
func (s *Server) handleImportProgress(w http.ResponseWriter, r *http.Request) {
	importID := chi.URLParam(r, "importID")
	if importID == "" {
		s.respondError(w, r, errors.New("missing import ID"), http.StatusBadRequest)
		return
	}

	// Support resumption from last event ID
	// The event ID is the progress percentage, allowing clients to skip
	// already-received events after reconnection
	lastEventIDStr := r.URL.Query().Get("lastEventId")
	var lastEventID int
	if lastEventIDStr != "" {
		lastEventID, _ = strconv.Atoi(lastEventIDStr)
	}

	progressCh, err := s.service.SubscribeProgress(importID)
	if err != nil {
		s.respondError(w, r, err, http.StatusNotFound)
		return
	}

	w.Header().Set("Content-Type", "text/event-stream")
	w.Header().Set("Cache-Control", "no-cache")
	w.Header().Set("Connection", "keep-alive")
	w.Header().Set("X-Accel-Buffering", "no")

	flusher, ok := w.(http.Flusher)
	if !ok {
		s.respondError(w, r, errors.New("streaming not supported"), http.StatusInternalServerError)
		return
	}

	// Track event ID for resumption support
	// Using progress percentage as event ID provides natural deduplication
	eventID := lastEventID

	for {
		select {
		case progress, ok := <-progressCh:
			if !ok {
				// Channel closed - import complete or cancelled
				fmt.Fprintf(w, "event: complete\ndata: {}\n\n")
				flusher.Flush()
				return
			}

			currentPercent := progress.Percent()

			// Skip events that were already sent (for resumption)
			// Only skip if we have a lastEventId and current is not greater
			if lastEventIDStr != "" && currentPercent <= lastEventID {
				continue
			}

			eventID = currentPercent
			data, _ := json.Marshal(progress)

			// Include event ID for client-side tracking and resumption
			fmt.Fprintf(w, "id: %d\nevent: progress\ndata: %s\n\n", eventID, data)
			flusher.Flush()

		case <-r.Context().Done():
			return
		}
	}
}

// handleCancelImport cancels an in-progress import.
func (s *Server) handleCancelImport(w http.ResponseWriter, r *http.Request) {
	importID := chi.URLParam(r, "importID")
	if importID == "" {
		s.respondError(w, r, errors.New("missing import ID"), http.StatusBadRequest)
		return
	}

	if err := s.service.CancelImport(importID); err != nil {
		s.respondError(w, r, err, http.StatusNotFound)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.Write([]byte(`{"status":"cancelled"}`))
}

// ImportResultResponse wraps the import result for JSON encoding.
// Records themselves live behind /api/records; the result carries counts.
type ImportResultResponse struct {
	ImportID    string `json:"import_id"`
	Profile     string `json:"profile"`
	FileName    string `json:"file_name"`
	TotalRows   int    `json:"total_rows"`
	RecordCount int    `json:"record_count"`
	Enhanced    bool   `json:"enhanced"`
	Duration    string `json:"duration"`
	Error       string `json:"error,omitempty"`
}

func toResponse(result *core.ImportResult) ImportResultResponse {
	return ImportResultResponse{
		ImportID:    result.ImportID,
		Profile:     result.Profile,
		FileName:    result.FileName,
		TotalRows:   result.TotalRows,
		RecordCount: len(result.Records),
		Enhanced:    result.Enhanced,
		Duration:    result.Duration.String(),
		Error:       result.Error,
	}
}

// handleImportResult returns the final result of an import.
// Blocks until the import finishes.
func (s *Server) handleImportResult(w http.ResponseWriter, r *http.Request) {
	importID := chi.URLParam(r, "importID")
	if importID == "" {
		s.respondError(w, r, errors.New("missing import ID"), http.StatusBadRequest)
		return
	}

	result, err := s.service.GetImportResult(importID)
	if err != nil {
		s.respondError(w, r, err, http.StatusNotFound)
		return
	}

	writeJSON(w, toResponse(result))
}

// handleImportQueueStatus returns the current state of the import limiter.
// Used for monitoring and to check if the system can accept more imports.
func (s *Server) handleImportQueueStatus(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, s.service.LimiterStatus())
}

// handleRecords returns the formatted records from the latest successful
// import, along with the extra columns an export would include.
func (s *Server) handleRecords(w http.ResponseWriter, r *http.Request) {
	result, ok := s.service.CurrentResult()
	if !ok {
		s.respondError(w, r, errNoCompletedImport, http.StatusNotFound)
		return
	}

	writeJSON(w, map[string]interface{}{
		"profile":       result.Profile,
		"file_name":     result.FileName,
		"total_rows":    result.TotalRows,
		"enhanced":      result.Enhanced,
		"extra_columns": sheet.ExtraColumns(result.Records),
		"records":       result.Records,
	})
}

// handleExportCSV writes the current records as a CSV download.
func (s *Server) handleExportCSV(w http.ResponseWriter, r *http.Request) {
	records, ok := s.service.CurrentRecords()
	if !ok {
		s.respondError(w, r, errNoCompletedImport, http.StatusNotFound)
		return
	}

	w.Header().Set("Content-Type", "text/csv")
	w.Header().Set("Content-Disposition", fmt.Sprintf(`attachment; filename="%s"`, sheet.ExportCSVName))

	if err := sheet.WriteCSV(w, records); err != nil {
		// Headers are already sent; all we can do is log.
		logExportError(r, "csv", err)
	}
}

// handleExportXLSX writes the current records as a workbook download.
func (s *Server) handleExportXLSX(w http.ResponseWriter, r *http.Request) {
	records, ok := s.service.CurrentRecords()
	if !ok {
		s.respondError(w, r, errNoCompletedImport, http.StatusNotFound)
		return
	}

	w.Header().Set("Content-Type", "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet")
	w.Header().Set("Content-Disposition", fmt.Sprintf(`attachment; filename="%s"`, sheet.ExportXLSXName))

	if err := sheet.WriteXLSX(w, records); err != nil {
		logExportError(r, "xlsx", err)
	}
}

func logExportError(r *http.Request, format string, err error) {
	slog.Error("export write failed",
		"format", format,
		"path", r.URL.Path,
		"error", err,
	)
}
