package rest

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strconv"

	"rental-search-service/internal/contextkeys"
	"rental-search-service/internal/contracts"
	"rental-search-service/internal/core/domain"
	"rental-search-service/internal/core/port"
)

const (
	maxBodyBytes   = 64 << 10
	defaultPerPage = 20
	maxPerPage     = 100
)

// WriteJSONError отправляет JSON-ответ с полем "error" и заданным статусом
func WriteJSONError(w http.ResponseWriter, statusCode int, message string) {
	RespondWithJSON(w, statusCode, map[string]string{"error": message})
}

// RespondWithJSON отправляет JSON-ответ
func RespondWithJSON(w http.ResponseWriter, code int, payload interface{}) {
	response, err := json.Marshal(payload)
	if err != nil {
		http.Error(w, "Failed to marshal JSON response", http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(code)
	w.Write(response)
}

// getPagination читает page/perPage; некорректные значения заменяются дефолтными
func getPagination(r *http.Request) (page, perPage int) {
	query := r.URL.Query()

	page, _ = strconv.Atoi(query.Get("page"))
	if page < 1 {
		page = 1
	}
	perPage, _ = strconv.Atoi(query.Get("perPage"))
	if perPage < 1 || perPage > maxPerPage {
		perPage = defaultPerPage
	}
	return page, perPage
}

// decodeValidated читает тело, проверяет его JSON-схемой и разбирает в dst
func decodeValidated(w http.ResponseWriter, r *http.Request, requestType string, dst interface{}) error {
	body, err := io.ReadAll(http.MaxBytesReader(w, r.Body, maxBodyBytes))
	if err != nil {
		return fmt.Errorf("%w: failed to read body: %v", contracts.ErrSchemaValidation, err)
	}
	if err := contracts.ValidateRequest(requestType, contracts.V1, body); err != nil {
		return err
	}
	if err := json.Unmarshal(body, dst); err != nil {
		return fmt.Errorf("%w: %v", contracts.ErrSchemaValidation, err)
	}
	return nil
}

// writeError переводит ошибки ядра в HTTP-статусы
func writeError(w http.ResponseWriter, r *http.Request, err error, fallback string) {
	switch {
	case errors.Is(err, contracts.ErrSchemaValidation),
		errors.Is(err, domain.ErrUnknownFilterKey),
		errors.Is(err, domain.ErrInvalidFilterValue),
		errors.Is(err, domain.ErrInvalidLocation),
		errors.Is(err, domain.ErrInvalidPhone):
		WriteJSONError(w, http.StatusBadRequest, err.Error())
	case errors.Is(err, domain.ErrListingNotFound):
		WriteJSONError(w, http.StatusNotFound, "Listing not found")
	default:
		contextkeys.LoggerFromContext(r.Context()).Error(fallback, err, port.Fields{"http_path": r.URL.Path})
		WriteJSONError(w, http.StatusInternalServerError, fallback)
	}
}
