package rest

import (
	"net/http"
	"strings"

	"rental-search-service/internal/core/port/usecases_port"

	"github.com/go-chi/chi/v5"
)

type FilterOptionsHandler struct {
	getFilterOptionsUC usecases_port.GetFilterOptionsUseCase
	getDictionariesUC  usecases_port.GetDictionariesUseCase
}

func NewFilterOptionsHandler(getFilterOptionsUC usecases_port.GetFilterOptionsUseCase,
	getDictionariesUC usecases_port.GetDictionariesUseCase) *FilterOptionsHandler {
	return &FilterOptionsHandler{
		getFilterOptionsUC: getFilterOptionsUC,
		getDictionariesUC:  getDictionariesUC,
	}
}

// GetFilterOptions обрабатывает GET /api/v1/filters/options?city=
func (h *FilterOptionsHandler) GetFilterOptions(w http.ResponseWriter, r *http.Request) {
	city := strings.TrimSpace(r.URL.Query().Get("city"))

	options, err := h.getFilterOptionsUC.Execute(r.Context(), city)
	if err != nil {
		writeError(w, r, err, "Failed to get filter options")
		return
	}

	RespondWithJSON(w, http.StatusOK, FilterOptionsResponse{
		PriceMin:  options.PriceMin,
		PriceMax:  options.PriceMax,
		Types:     emptyIfNil(options.Types),
		Amenities: emptyIfNil(options.Amenities),
	})
}

// GetCities обрабатывает GET /api/v1/dictionaries/cities
func (h *FilterOptionsHandler) GetCities(w http.ResponseWriter, r *http.Request) {
	items, err := h.getDictionariesUC.Cities(r.Context())
	if err != nil {
		writeError(w, r, err, "Failed to retrieve cities")
		return
	}
	RespondWithJSON(w, http.StatusOK, toDictionaryResponse(items))
}

// GetLocalities обрабатывает GET /api/v1/dictionaries/cities/{city}/localities
func (h *FilterOptionsHandler) GetLocalities(w http.ResponseWriter, r *http.Request) {
	items, err := h.getDictionariesUC.Localities(r.Context(), chi.URLParam(r, "city"))
	if err != nil {
		writeError(w, r, err, "Failed to retrieve localities")
		return
	}
	RespondWithJSON(w, http.StatusOK, toDictionaryResponse(items))
}
