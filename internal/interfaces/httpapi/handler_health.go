package httpapi

import "net/http"

type healthResponse struct {
	Status string `json:"status"`
}

type healthFullResponse struct {
	Status        string `json:"status"`
	SchemaVersion string `json:"schema_version,omitempty"`
}

// Health is a liveness probe: it never touches a dependency.
func (h *Handler) Health(w http.ResponseWriter, r *http.Request) {
	writeJSON(r.Context(), w, http.StatusOK, healthResponse{Status: "ok"})
}

// HealthFull is a readiness probe: it reports the schema version the store
// is currently running, surfacing a store outage as a non-200.
func (h *Handler) HealthFull(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	if h.schemaVersion == nil {
		writeJSON(ctx, w, http.StatusOK, healthFullResponse{Status: "ok"})
		return
	}

	version, err := h.schemaVersion.Current(ctx)
	if err != nil {
		writeJSON(ctx, w, http.StatusServiceUnavailable, healthFullResponse{Status: "degraded"})
		return
	}
	writeJSON(ctx, w, http.StatusOK, healthFullResponse{Status: "ok", SchemaVersion: version.String()})
}
