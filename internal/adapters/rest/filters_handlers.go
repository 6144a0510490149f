package rest

import (
	"net/http"

	"rental-search-service/internal/contextkeys"
	"rental-search-service/internal/contracts"
	"rental-search-service/internal/core/domain"
	"rental-search-service/internal/core/port"
	"rental-search-service/internal/core/port/usecases_port"
)

// SearchFilterHandler - операции над состоянием фильтров текущей сессии
type SearchFilterHandler struct {
	sessions usecases_port.FilterSessionsPort
}

func NewSearchFilterHandler(sessions usecases_port.FilterSessionsPort) *SearchFilterHandler {
	return &SearchFilterHandler{sessions: sessions}
}

// provider достает состояние сессии из реестра; при ошибке ответ уже записан
func (h *SearchFilterHandler) provider(w http.ResponseWriter, r *http.Request) (usecases_port.SearchFilterProvider, bool) {
	return acquireProvider(w, r, h.sessions)
}

func acquireProvider(w http.ResponseWriter, r *http.Request, sessions usecases_port.FilterSessionsPort) (usecases_port.SearchFilterProvider, bool) {
	sessionID, ok := contextkeys.SessionIDFromContext(r.Context())
	if !ok {
		WriteJSONError(w, http.StatusBadRequest, "Session is required")
		return nil, false
	}
	p, err := sessions.Acquire(r.Context(), sessionID)
	if err != nil {
		writeError(w, r, err, "Failed to load search session")
		return nil, false
	}
	return p, true
}

// GetFilters обрабатывает GET /api/v1/filters
func (h *SearchFilterHandler) GetFilters(w http.ResponseWriter, r *http.Request) {
	p, ok := h.provider(w, r)
	if !ok {
		return
	}
	RespondWithJSON(w, http.StatusOK, toSnapshotResponse(p.Snapshot()))
}

// SetFilters обрабатывает PUT /api/v1/filters: полная замена без синхронизации с URL
func (h *SearchFilterHandler) SetFilters(w http.ResponseWriter, r *http.Request) {
	var state domain.FilterState
	if err := decodeValidated(w, r, contracts.FilterStateRequest, &state); err != nil {
		writeError(w, r, err, "Failed to set filters")
		return
	}
	if err := state.Validate(); err != nil {
		writeError(w, r, err, "Failed to set filters")
		return
	}

	p, ok := h.provider(w, r)
	if !ok {
		return
	}
	p.SetFilters(state)

	RespondWithJSON(w, http.StatusOK, toSnapshotResponse(p.Snapshot()))
}

// UpdateFilter обрабатывает PATCH /api/v1/filters: одно поле, URL не меняется
func (h *SearchFilterHandler) UpdateFilter(w http.ResponseWriter, r *http.Request) {
	var req FilterUpdateRequest
	if err := decodeValidated(w, r, contracts.FilterUpdateRequest, &req); err != nil {
		writeError(w, r, err, "Failed to update filter")
		return
	}

	key, err := domain.ParseFilterKey(req.Key)
	if err != nil {
		writeError(w, r, err, "Failed to update filter")
		return
	}

	p, ok := h.provider(w, r)
	if !ok {
		return
	}
	if err := p.UpdateFilter(key, req.Value); err != nil {
		writeError(w, r, err, "Failed to update filter")
		return
	}

	contextkeys.LoggerFromContext(r.Context()).Debug("Filter updated", port.Fields{"key": string(key)})
	RespondWithJSON(w, http.StatusOK, toSnapshotResponse(p.Snapshot()))
}

// ClearFilters обрабатывает DELETE /api/v1/filters: состояние и URL очищаются сразу
func (h *SearchFilterHandler) ClearFilters(w http.ResponseWriter, r *http.Request) {
	p, ok := h.provider(w, r)
	if !ok {
		return
	}
	p.ClearFilters()
	RespondWithJSON(w, http.StatusOK, toSnapshotResponse(p.Snapshot()))
}

// ApplyFilters обрабатывает POST /api/v1/filters/apply
func (h *SearchFilterHandler) ApplyFilters(w http.ResponseWriter, r *http.Request) {
	p, ok := h.provider(w, r)
	if !ok {
		return
	}
	url := p.ApplyFiltersToURL()
	RespondWithJSON(w, http.StatusOK, ApplyFiltersResponse{
		URL:               url,
		ActiveFilterCount: p.ActiveFilterCount(),
	})
}

// SetUserLocation обрабатывает PUT /api/v1/session/location
func (h *SearchFilterHandler) SetUserLocation(w http.ResponseWriter, r *http.Request) {
	var loc domain.UserLocation
	if err := decodeValidated(w, r, contracts.UserLocationRequest, &loc); err != nil {
		writeError(w, r, err, "Failed to set user location")
		return
	}

	p, ok := h.provider(w, r)
	if !ok {
		return
	}
	if err := p.SetUserLocation(r.Context(), &loc); err != nil {
		writeError(w, r, err, "Failed to set user location")
		return
	}
	RespondWithJSON(w, http.StatusOK, toSnapshotResponse(p.Snapshot()))
}

// ClearUserLocation обрабатывает DELETE /api/v1/session/location
func (h *SearchFilterHandler) ClearUserLocation(w http.ResponseWriter, r *http.Request) {
	p, ok := h.provider(w, r)
	if !ok {
		return
	}
	if err := p.SetUserLocation(r.Context(), nil); err != nil {
		writeError(w, r, err, "Failed to clear user location")
		return
	}
	RespondWithJSON(w, http.StatusOK, toSnapshotResponse(p.Snapshot()))
}

// SetNearMe обрабатывает PUT /api/v1/session/near-me
func (h *SearchFilterHandler) SetNearMe(w http.ResponseWriter, r *http.Request) {
	var req NearMeRequest
	if err := decodeValidated(w, r, contracts.NearMeRequest, &req); err != nil {
		writeError(w, r, err, "Failed to set near-me flag")
		return
	}

	p, ok := h.provider(w, r)
	if !ok {
		return
	}
	if err := p.SetNearMeActive(r.Context(), req.Active); err != nil {
		writeError(w, r, err, "Failed to set near-me flag")
		return
	}
	RespondWithJSON(w, http.StatusOK, toSnapshotResponse(p.Snapshot()))
}
