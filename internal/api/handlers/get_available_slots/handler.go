package get_available_slots

import (
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/gorilla/mux"

	"github.com/edspace/lesson-booking-service/internal/api/handlers"
	"github.com/edspace/lesson-booking-service/internal/domain"
	"github.com/edspace/lesson-booking-service/internal/service/slots"
	"github.com/edspace/lesson-booking-service/internal/service/slots/models"
)

const (
	msgInvalidBranchID = "некорректный ID филиала"
	msgInvalidDate     = "некорректный формат даты, ожидается YYYY-MM-DD"
	msgBranchNotFound  = "филиал не найден"
)

type Handler struct {
	service SlotService
	logger  Logger
}

func NewHandler(service SlotService, logger Logger) *Handler {
	return &Handler{
		service: service,
		logger:  logger,
	}
}

// Handle GET /api/v1/branches/{branchId}/available-slots?date=YYYY-MM-DD
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	vars := mux.Vars(r)
	branchID, err := strconv.ParseInt(vars["branchId"], 10, 64)
	if err != nil {
		h.logger.Warn("GET /branches/{id}/available-slots - Invalid branch ID: %v", err)
		handlers.RespondBadRequest(w, msgInvalidBranchID)
		return
	}

	date, err := time.Parse(domain.DateFormat, r.URL.Query().Get("date"))
	if err != nil {
		h.logger.Warn("GET /branches/{id}/available-slots - Invalid date: %v", err)
		handlers.RespondBadRequest(w, msgInvalidDate)
		return
	}

	result, err := h.service.GetAvailableSlots(r.Context(), &models.GetAvailableSlotsRequest{
		BranchID: branchID,
		Date:     date,
	})
	if err != nil {
		switch {
		case errors.Is(err, slots.ErrBranchNotFound):
			h.logger.Warn("GET /branches/{id}/available-slots - Branch not found: branch_id=%d", branchID)
			handlers.RespondNotFound(w, msgBranchNotFound)

		default:
			h.logger.Error("GET /branches/{id}/available-slots - Failed to get slots: branch_id=%d, error=%v", branchID, err)
			handlers.RespondInternalError(w)
		}
		return
	}

	h.logger.Info("GET /branches/{id}/available-slots - Retrieved %d slots: branch_id=%d", result.Total, branchID)
	handlers.RespondJSON(w, http.StatusOK, result)
}
