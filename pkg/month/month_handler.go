package month

import (
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"github.com/gorilla/mux"
	"github.com/koperta/koperta/internal/rest"
	"github.com/koperta/koperta/pkg/budget"
	log "github.com/sirupsen/logrus"
)

type MonthDTO struct {
	ID        string    `json:"id"`
	Month     string    `json:"month"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

type createMonthRequest struct {
	Month    string `json:"month"`
	CopyFrom string `json:"copy_from"`
	Empty    bool   `json:"empty"`
}

type MonthHandler struct {
	service MonthService
}

func NewMonthHandler(service MonthService) *MonthHandler {
	return &MonthHandler{service: service}
}

func (h *MonthHandler) List(w http.ResponseWriter, r *http.Request) {
	months, err := h.service.ListAll(r.Context())
	if err != nil {
		writeMonthError(w, err)
		return
	}
	dtos := make([]MonthDTO, 0, len(months))
	for _, m := range months {
		dtos = append(dtos, monthToDTO(m))
	}
	rest.WriteJSON(w, http.StatusOK, dtos)
}

func (h *MonthHandler) Get(w http.ResponseWriter, r *http.Request) {
	m, err := h.service.FindByID(r.Context(), mux.Vars(r)["id"])
	if err != nil {
		writeMonthError(w, err)
		return
	}
	rest.WriteJSON(w, http.StatusOK, monthToDTO(m))
}

func (h *MonthHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req createMonthRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		rest.WriteError(w, http.StatusBadRequest, "BAD_REQUEST", map[string]any{"reason": err.Error()})
		return
	}

	budgetMonth, err := budget.ParseBudgetMonth(req.Month)
	if err != nil {
		rest.WriteError(w, http.StatusUnprocessableEntity, "MONTH_INVALID_FORMAT", map[string]any{"value": req.Month})
		return
	}

	created, err := h.service.Create(r.Context(), budgetMonth, req.CopyFrom, req.Empty)
	if err != nil {
		writeMonthError(w, err)
		return
	}
	rest.WriteJSON(w, http.StatusCreated, monthToDTO(created))
}

func monthToDTO(m Month) MonthDTO {
	return MonthDTO{
		ID:        m.ID,
		Month:     m.Month.String(),
		CreatedAt: m.CreatedAt,
		UpdatedAt: m.UpdatedAt,
	}
}

func writeMonthError(w http.ResponseWriter, err error) {
	var alreadyExists AlreadyExistsError
	switch {
	case errors.Is(err, ErrMonthNotFound):
		rest.WriteError(w, http.StatusNotFound, "MONTH_NOT_FOUND", nil)
	case errors.As(err, &alreadyExists):
		rest.WriteError(w, http.StatusConflict, "MONTH_ALREADY_EXISTS", map[string]any{"month": alreadyExists.Month})
	default:
		log.Errorf("month repository error: %v", err)
		rest.WriteError(w, http.StatusInternalServerError, "INTERNAL_ERROR", nil)
	}
}
