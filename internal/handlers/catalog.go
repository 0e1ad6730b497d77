package handlers

import (
	"iter"
	"net/http"
	"slices"

	"github.com/kimjaeduck-99/NICKMOONG-AI-agriculture-test/internal/catalog"
	"github.com/kimjaeduck-99/NICKMOONG-AI-agriculture-test/internal/models"
)

type catalogSource interface {
	catalog.CropProvider
	catalog.MarketDataProvider
	catalog.PestAlertProvider
	catalog.ExpertDirectoryProvider
}

type CatalogHandler struct {
	source catalogSource
}

func NewCatalogHandler(source catalogSource) *CatalogHandler {
	return &CatalogHandler{source: source}
}

func (h *CatalogHandler) Crops(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]interface{}{
		"crops": collect(h.source.Crops()),
	})
}

func (h *CatalogHandler) Prices(w http.ResponseWriter, r *http.Request) {
	q := catalog.MarketQuery{Crop: r.URL.Query().Get("crop")}
	writeJSON(w, http.StatusOK, map[string]interface{}{
		"prices": collect(h.source.Prices(r.Context(), q)),
	})
}

func (h *CatalogHandler) PestAlerts(w http.ResponseWriter, r *http.Request) {
	q := catalog.AlertQuery{Crop: r.URL.Query().Get("crop")}
	if v := r.URL.Query().Get("severity"); v != "" {
		sev, err := models.ParseSeverity(v)
		if err != nil {
			writeJSON(w, http.StatusBadRequest, errorRespWithDetails(models.CodeValidation, "Invalid severity", err.Error(), r))
			return
		}
		q.MinSeverity = sev
	}

	writeJSON(w, http.StatusOK, map[string]interface{}{
		"alerts": collect(h.source.Alerts(r.Context(), q)),
	})
}

func (h *CatalogHandler) Experts(w http.ResponseWriter, r *http.Request) {
	q := catalog.ExpertQuery{Specialty: r.URL.Query().Get("specialty")}
	writeJSON(w, http.StatusOK, map[string]interface{}{
		"experts": collect(h.source.Experts(r.Context(), q)),
	})
}

// collect never returns nil so empty results encode as [].
func collect[T any](seq iter.Seq[T]) []T {
	out := slices.Collect(seq)
	if out == nil {
		out = []T{}
	}
	return out
}
