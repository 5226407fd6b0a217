package ui

import (
	"encoding/json"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"nsfgstats/domain/dataset"
	"nsfgstats/domain/stats"
	"nsfgstats/internal/errors"
	"nsfgstats/internal/report"
)

func (a *App) handleReportHTML(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.Write(report.HTML(a.report))
}

func (a *App) handleReportMarkdown(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "text/markdown; charset=utf-8")
	w.Write(report.Markdown(a.report))
}

func (a *App) handleHealth(w http.ResponseWriter, r *http.Request) {
	a.writeJSON(w, http.StatusOK, map[string]interface{}{"status": "ok", "run_id": a.report.RunID})
}

func (a *App) handleReportJSON(w http.ResponseWriter, r *http.Request) {
	a.writeJSON(w, http.StatusOK, a.report)
}

func (a *App) handleHist(w http.ResponseWriter, r *http.Request) {
	hist, err := a.hist(r)
	if err != nil {
		a.writeError(w, err)
		return
	}
	a.writeJSON(w, http.StatusOK, map[string]interface{}{
		"variable": chi.URLParam(r, "variable"),
		"total":    hist.Total(),
		"items":    hist.Items(),
	})
}

func (a *App) handleModes(w http.ResponseWriter, r *http.Request) {
	hist, err := a.hist(r)
	if err != nil {
		a.writeError(w, err)
		return
	}

	modes := stats.AllModes(hist)
	if topStr := r.URL.Query().Get("top"); topStr != "" {
		top, err := strconv.Atoi(topStr)
		if err != nil || top < 1 {
			a.writeError(w, errors.InvalidInput("top must be a positive integer"))
			return
		}
		modes = modes[:min(top, len(modes))]
	}

	mode, err := stats.Mode(hist)
	if err != nil {
		a.writeError(w, err)
		return
	}
	a.writeJSON(w, http.StatusOK, map[string]interface{}{
		"variable": chi.URLParam(r, "variable"),
		"mode":     mode,
		"modes":    modes,
	})
}

func (a *App) handleEffect(w http.ResponseWriter, r *http.Request) {
	variable := chi.URLParam(r, "variable")
	if c, ok := a.report.Comparison(variable); ok {
		a.writeJSON(w, http.StatusOK, c)
		return
	}

	c, err := report.Compare(a.groups, variable)
	if err != nil {
		a.writeError(w, err)
		return
	}
	a.writeJSON(w, http.StatusOK, c)
}

func (a *App) hist(r *http.Request) (*stats.Hist, error) {
	frame, err := a.group(chi.URLParam(r, "group"))
	if err != nil {
		return nil, err
	}
	return frame.Hist(chi.URLParam(r, "variable"))
}

func (a *App) group(name string) (*dataset.Frame, error) {
	switch name {
	case "live":
		return a.groups.Live, nil
	case "firsts":
		return a.groups.Firsts, nil
	case "others":
		return a.groups.Others, nil
	}
	return nil, errors.NotFound("group " + name)
}

func (a *App) writeJSON(w http.ResponseWriter, status int, body interface{}) {
	payload, err := json.Marshal(body)
	if err != nil {
		a.log.WithError(err).Error("failed to encode response")
		http.Error(w, `{"error":"failed to encode response"}`, http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	w.Write(payload)
}

func (a *App) writeError(w http.ResponseWriter, err error) {
	status := http.StatusInternalServerError
	switch errors.GetCode(err) {
	case errors.CodeNotFound:
		status = http.StatusNotFound
	case errors.CodeInvalidInput, errors.CodeInsufficientData:
		status = http.StatusBadRequest
	}
	if status == http.StatusInternalServerError {
		a.log.WithError(err).Error("request failed")
	}
	a.writeJSON(w, status, map[string]interface{}{
		"error": err.Error(),
		"code":  errors.GetCode(err),
	})
}
