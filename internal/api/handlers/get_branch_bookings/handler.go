package get_branch_bookings

import (
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/gorilla/mux"

	"github.com/edspace/lesson-booking-service/internal/api/handlers"
	"github.com/edspace/lesson-booking-service/internal/api/middleware"
	"github.com/edspace/lesson-booking-service/internal/domain"
	"github.com/edspace/lesson-booking-service/internal/service/bookings"
	"github.com/edspace/lesson-booking-service/internal/service/bookings/models"
	"github.com/edspace/lesson-booking-service/pkg/ptr"
)

const (
	msgInvalidBranchID = "некорректный ID филиала"
	msgInvalidFilter   = "некорректные параметры фильтрации"
	msgMissingUserID   = "отсутствует ID пользователя"
	msgForbidden       = "доступ запрещен"
)

type Handler struct {
	service BookingService
	logger  Logger
}

func NewHandler(service BookingService, logger Logger) *Handler {
	return &Handler{
		service: service,
		logger:  logger,
	}
}

// Handle GET /api/v1/branches/{branchId}/bookings
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	vars := mux.Vars(r)
	branchID, err := strconv.ParseInt(vars["branchId"], 10, 64)
	if err != nil {
		h.logger.Warn("GET /branches/{id}/bookings - Invalid branch ID: %v", err)
		handlers.RespondBadRequest(w, msgInvalidBranchID)
		return
	}

	callerID, ok := middleware.GetUserID(r.Context())
	if !ok {
		h.logger.Warn("GET /branches/{id}/bookings - Missing user ID")
		handlers.RespondUnauthorized(w, msgMissingUserID)
		return
	}

	req, err := parseFilter(r, branchID, callerID)
	if err != nil {
		h.logger.Warn("GET /branches/{id}/bookings - Invalid filter: %v", err)
		handlers.RespondBadRequest(w, msgInvalidFilter)
		return
	}

	result, err := h.service.GetBranchBookings(r.Context(), req)
	if err != nil {
		switch {
		case errors.Is(err, bookings.ErrAccessDenied):
			h.logger.Warn("GET /branches/{id}/bookings - Access denied: branch_id=%d, user_id=%d", branchID, callerID)
			handlers.RespondForbidden(w, msgForbidden)

		case errors.Is(err, bookings.ErrInvalidInput):
			h.logger.Warn("GET /branches/{id}/bookings - Invalid filter: branch_id=%d", branchID)
			handlers.RespondBadRequest(w, msgInvalidFilter)

		default:
			h.logger.Error("GET /branches/{id}/bookings - Failed to get bookings: branch_id=%d, error=%v", branchID, err)
			handlers.RespondInternalError(w)
		}
		return
	}

	h.logger.Info("GET /branches/{id}/bookings - Retrieved %d bookings: branch_id=%d", result.Total, branchID)
	handlers.RespondJSON(w, http.StatusOK, result)
}

// parseFilter разбирает query-параметры фильтрации
func parseFilter(r *http.Request, branchID, callerID int64) (*models.GetBranchBookingsRequest, error) {
	req := &models.GetBranchBookingsRequest{
		BranchID: branchID,
		CallerID: callerID,
	}

	query := r.URL.Query()

	if raw := query.Get("startDate"); raw != "" {
		startDate, err := time.Parse(domain.DateFormat, raw)
		if err != nil {
			return nil, err
		}
		req.StartDate = ptr.Ptr(startDate)
	}

	if raw := query.Get("endDate"); raw != "" {
		endDate, err := time.Parse(domain.DateFormat, raw)
		if err != nil {
			return nil, err
		}
		req.EndDate = ptr.Ptr(endDate)
	}

	if status := query.Get("status"); status != "" {
		req.Status = ptr.Ptr(status)
	}

	if raw := query.Get("includeInactive"); raw != "" {
		includeInactive, err := strconv.ParseBool(raw)
		if err != nil {
			return nil, err
		}
		req.IncludeInactive = includeInactive
	}

	return req, nil
}
