package rest

import (
	"net/http"

	"rental-search-service/internal/contextkeys"
	"rental-search-service/internal/core/domain"
	"rental-search-service/internal/core/port"
	"rental-search-service/internal/core/port/usecases_port"
)

// параметры пагинации не входят в состояние фильтров
var paginationParams = []string{"page", "perPage"}

type SearchHandler struct {
	sessions       usecases_port.FilterSessionsPort
	findListingsUC usecases_port.FindListingsUseCase
}

func NewSearchHandler(sessions usecases_port.FilterSessionsPort, findListingsUC usecases_port.FindListingsUseCase) *SearchHandler {
	return &SearchHandler{sessions: sessions, findListingsUC: findListingsUC}
}

// Search обрабатывает GET /api/v1/search.
// Переход на URL заменяет состояние фильтров сессии, затем ищутся объявления.
func (h *SearchHandler) Search(w http.ResponseWriter, r *http.Request) {
	page, perPage := getPagination(r)

	query := r.URL.Query()
	for _, param := range paginationParams {
		query.Del(param)
	}

	p, ok := acquireProvider(w, r, h.sessions)
	if !ok {
		return
	}
	p.Navigate(query.Encode())
	snapshot := p.Snapshot()

	handlerLogger := contextkeys.LoggerFromContext(r.Context()).WithFields(port.Fields{
		"handler":  "Search",
		"page":     page,
		"per_page": perPage,
		"filters":  snapshot.Query,
	})
	handlerLogger.Debug("Processing search request", nil)

	result, err := h.findListingsUC.Execute(r.Context(), domain.NewListingQuery(snapshot), perPage, (page-1)*perPage)
	if err != nil {
		writeError(w, r, err, "Failed to search listings")
		return
	}

	cards := make([]ListingCardResponse, 0, len(result.Listings))
	for _, card := range result.Listings {
		cards = append(cards, toListingCardResponse(card))
	}

	RespondWithJSON(w, http.StatusOK, SearchResponse{
		Data:    cards,
		Total:   result.TotalCount,
		Page:    page,
		PerPage: perPage,
		State:   toSnapshotResponse(snapshot),
	})
}
