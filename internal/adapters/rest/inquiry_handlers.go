package rest

import (
	"fmt"
	"net/http"
	"time"

	"rental-search-service/internal/contextkeys"
	"rental-search-service/internal/contracts"
	"rental-search-service/internal/core/domain"
	"rental-search-service/internal/core/port/usecases_port"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
)

type InquiryHandler struct {
	createInquiryUC usecases_port.CreateInquiryUseCase
}

func NewInquiryHandler(createInquiryUC usecases_port.CreateInquiryUseCase) *InquiryHandler {
	return &InquiryHandler{createInquiryUC: createInquiryUC}
}

// CreateInquiry обрабатывает POST /api/v1/listings/{listingID}/inquiries
func (h *InquiryHandler) CreateInquiry(w http.ResponseWriter, r *http.Request) {
	listingID, err := uuid.Parse(chi.URLParam(r, "listingID"))
	if err != nil {
		WriteJSONError(w, http.StatusBadRequest, "Invalid listing ID format")
		return
	}

	var req InquiryRequest
	if err := decodeValidated(w, r, contracts.BookingInquiryRequest, &req); err != nil {
		writeError(w, r, err, "Failed to create inquiry")
		return
	}

	newInquiry := domain.NewInquiry{
		ListingID: listingID,
		Name:      req.Name,
		Phone:     req.Phone,
		Email:     req.Email,
		Message:   req.Message,
	}
	if sessionID, ok := contextkeys.SessionIDFromContext(r.Context()); ok {
		newInquiry.SessionID = sessionID
	}
	if req.MoveInDate != "" {
		// формат уже проверен схемой
		moveIn, err := time.Parse(time.DateOnly, req.MoveInDate)
		if err != nil {
			writeError(w, r, fmt.Errorf("%w: move_in_date: %v", contracts.ErrSchemaValidation, err), "Failed to create inquiry")
			return
		}
		newInquiry.MoveInDate = &moveIn
	}

	inquiry, err := h.createInquiryUC.Execute(r.Context(), newInquiry)
	if err != nil {
		writeError(w, r, err, "Failed to create inquiry")
		return
	}

	RespondWithJSON(w, http.StatusCreated, InquiryResponse{
		ID:        inquiry.ID.String(),
		ListingID: inquiry.ListingID.String(),
		Phone:     inquiry.Phone,
		CreatedAt: inquiry.CreatedAt,
	})
}
