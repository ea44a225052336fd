package server

import (
	"bytes"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/nao1215/sitepulse/internal/config"
	"github.com/nao1215/sitepulse/internal/export"
	"github.com/nao1215/sitepulse/internal/model"
	"github.com/nao1215/sitepulse/internal/report"
)

// GET /healthz
func (s *Server) handleHealth(w http.ResponseWriter, _ *http.Request) error {
	return writeJSON(w, http.StatusOK, map[string]any{
		"status": "ok",
		"live":   s.analyzer.LiveEnabled(),
	})
}

type analyzeRequest struct {
	URL  string `json:"url"`
	Save bool   `json:"save"`
}

// POST /api/analyze
func (s *Server) handleAnalyze(w http.ResponseWriter, r *http.Request) error {
	var body analyzeRequest
	if err := decodeJSON(w, r, &body); err != nil {
		return err
	}
	body.URL = strings.TrimSpace(body.URL)
	if body.URL == "" {
		return badRequest("url is required")
	}

	result, err := s.analyzer.Analyze(r.Context(), body.URL)
	if err != nil {
		return err
	}
	if body.Save {
		if _, err := s.history.Save(r.Context(), result); err != nil {
			return err
		}
	}
	return writeJSON(w, http.StatusOK, result)
}

// maxBatchURLs bounds the number of URLs in one batch request.
const maxBatchURLs = 50

type batchRequest struct {
	URLs []string `json:"urls"`
	Save bool     `json:"save"`
}

type batchItem struct {
	URL    string                `json:"url"`
	Result *model.AnalysisResult `json:"result,omitempty"`
	Error  string                `json:"error,omitempty"`
}

// POST /api/analyze/batch
func (s *Server) handleAnalyzeBatch(w http.ResponseWriter, r *http.Request) error {
	var body batchRequest
	if err := decodeJSON(w, r, &body); err != nil {
		return err
	}
	if len(body.URLs) == 0 {
		return badRequest("urls must not be empty")
	}
	if len(body.URLs) > maxBatchURLs {
		return badRequest("too many urls: %d (max %d)", len(body.URLs), maxBatchURLs)
	}
	for i, u := range body.URLs {
		body.URLs[i] = strings.TrimSpace(u)
		if body.URLs[i] == "" {
			return badRequest("urls[%d] is empty", i)
		}
	}

	outcomes, err := s.analyzer.AnalyzeBatch(r.Context(), body.URLs)
	if err != nil {
		return err
	}

	items := make([]batchItem, len(outcomes))
	for i, o := range outcomes {
		items[i] = batchItem{URL: o.URL, Result: o.Result}
		if o.Err != nil {
			items[i].Error = o.Err.Error()
			continue
		}
		if body.Save {
			if _, err := s.history.Save(r.Context(), o.Result); err != nil {
				return err
			}
		}
	}
	return writeJSON(w, http.StatusOK, items)
}

// GET /api/history
func (s *Server) handleHistoryList(w http.ResponseWriter, r *http.Request) error {
	entries, err := s.history.List(r.Context())
	if err != nil {
		return err
	}
	return writeJSON(w, http.StatusOK, entries)
}

// GET /api/history/{id}
func (s *Server) handleHistoryGet(w http.ResponseWriter, r *http.Request) error {
	entry, ok, err := s.history.Get(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		return err
	}
	if !ok {
		return ErrNotFound
	}
	return writeJSON(w, http.StatusOK, entry)
}

// DELETE /api/history
func (s *Server) handleHistoryClear(w http.ResponseWriter, r *http.Request) error {
	if err := s.history.Clear(r.Context()); err != nil {
		return err
	}
	w.WriteHeader(http.StatusNoContent)
	return nil
}

// GET /api/history/export?format=csv|json
func (s *Server) handleHistoryExport(w http.ResponseWriter, r *http.Request) error {
	format, err := export.ParseFormat(r.URL.Query().Get("format"))
	if err != nil {
		return badRequest("%v", err)
	}
	entries, err := s.history.List(r.Context())
	if err != nil {
		return err
	}
	data, err := export.EncodeHistory(format, entries)
	if err != nil {
		return err
	}

	w.Header().Set("Content-Type", format.ContentType())
	w.Header().Set("Content-Disposition", `attachment; filename="`+format.FileName(s.now())+`"`)
	_, err = w.Write(data)
	return err
}

// GET /api/compare?a=<id>&b=<id>
func (s *Server) handleCompare(w http.ResponseWriter, r *http.Request) error {
	a, b := r.URL.Query().Get("a"), r.URL.Query().Get("b")
	if a == "" || b == "" {
		return badRequest("both a and b are required")
	}
	comparison, err := s.history.Compare(r.Context(), a, b)
	if err != nil {
		return err
	}
	if comparison == nil {
		return ErrNotFound
	}
	return writeJSON(w, http.StatusOK, comparison)
}

// POST /api/report?format=text|markdown|json
func (s *Server) handleReport(w http.ResponseWriter, r *http.Request) error {
	format, err := report.ParseFormat(r.URL.Query().Get("format"))
	if err != nil {
		return badRequest("%v", err)
	}

	var result model.AnalysisResult
	if err := decodeJSON(w, r, &result); err != nil {
		return err
	}
	if result.URL == "" {
		return badRequest("result url is required")
	}

	var buf bytes.Buffer
	if _, err := report.NewWriter(format, &buf, report.WithClock(s.now)).Write(&result); err != nil {
		return err
	}
	w.Header().Set("Content-Type", format.ContentType())
	_, err = w.Write(buf.Bytes())
	return err
}

type settingsRequest struct {
	APIKey *string `json:"apiKey"`
}

type settingsResponse struct {
	APIKeySet bool `json:"apiKeySet"`
	Live      bool `json:"live"`
}

// GET /api/settings
func (s *Server) handleSettingsGet(w http.ResponseWriter, r *http.Request) error {
	settings, err := config.LoadSettings(r.Context(), s.kv)
	if err != nil {
		return err
	}
	return writeJSON(w, http.StatusOK, settingsResponse{
		APIKeySet: settings.APIKey != "",
		Live:      s.analyzer.LiveEnabled(),
	})
}

// PUT /api/settings
func (s *Server) handleSettingsPut(w http.ResponseWriter, r *http.Request) error {
	var body settingsRequest
	if err := decodeJSON(w, r, &body); err != nil {
		return err
	}
	if body.APIKey == nil {
		return badRequest("apiKey is required")
	}

	settings := config.Settings{APIKey: strings.TrimSpace(*body.APIKey)}
	if err := config.SaveSettings(r.Context(), s.kv, settings); err != nil {
		return err
	}
	if s.keys != nil {
		s.keys.SetAPIKey(settings.APIKey)
	}
	return writeJSON(w, http.StatusOK, settingsResponse{
		APIKeySet: settings.APIKey != "",
		Live:      s.analyzer.LiveEnabled(),
	})
}

// GET /api/check?url=
func (s *Server) handleCheck(w http.ResponseWriter, r *http.Request) error {
	target := strings.TrimSpace(r.URL.Query().Get("url"))
	if target == "" {
		return badRequest("url is required")
	}
	return writeJSON(w, http.StatusOK, s.prober.Check(r.Context(), target))
}
