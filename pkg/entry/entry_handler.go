package entry

import (
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"github.com/gorilla/mux"
	"github.com/koperta/koperta/internal/patch"
	"github.com/koperta/koperta/internal/rest"
	"github.com/koperta/koperta/pkg/budget"
	"github.com/koperta/koperta/pkg/category"
	"github.com/koperta/koperta/pkg/month"
	log "github.com/sirupsen/logrus"
)

type CategorySummaryDTO struct {
	ID    string  `json:"id"`
	Name  string  `json:"name"`
	Label *string `json:"label,omitempty"`
}

type EntryDTO struct {
	ID        string             `json:"id"`
	Category  CategorySummaryDTO `json:"category"`
	Budgeted  int64              `json:"budgeted"`
	DueDay    *int               `json:"due_day,omitempty"`
	CreatedAt time.Time          `json:"created_at"`
	UpdatedAt time.Time          `json:"updated_at"`
}

type createEntryRequest struct {
	CategoryID string `json:"category_id"`
	Budgeted   int64  `json:"budgeted"`
	DueDay     *int   `json:"due_day"`
}

type updateEntryRequest struct {
	Budgeted *int64           `json:"budgeted"`
	DueDay   patch.Field[int] `json:"due_day"`
}

type EntryHandler struct {
	service EntryService
}

func NewEntryHandler(service EntryService) *EntryHandler {
	return &EntryHandler{service: service}
}

func (h *EntryHandler) List(w http.ResponseWriter, r *http.Request) {
	entries, err := h.service.ListByMonth(r.Context(), mux.Vars(r)["id"])
	if err != nil {
		writeEntryError(w, err)
		return
	}
	dtos := make([]EntryDTO, 0, len(entries))
	for _, e := range entries {
		dtos = append(dtos, entryToDTO(e))
	}
	rest.WriteJSON(w, http.StatusOK, dtos)
}

func (h *EntryHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req createEntryRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		rest.WriteError(w, http.StatusBadRequest, "BAD_REQUEST", map[string]any{"reason": err.Error()})
		return
	}

	var dueDay *budget.DueDay
	if req.DueDay != nil {
		parsed, err := budget.NewDueDay(*req.DueDay)
		if err != nil {
			writeEntryError(w, err)
			return
		}
		dueDay = &parsed
	}

	created, err := h.service.Create(r.Context(), mux.Vars(r)["id"], req.CategoryID, budget.NewMoney(req.Budgeted), dueDay)
	if err != nil {
		writeEntryError(w, err)
		return
	}
	rest.WriteJSON(w, http.StatusCreated, entryToDTO(created))
}

func (h *EntryHandler) Update(w http.ResponseWriter, r *http.Request) {
	var req updateEntryRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		rest.WriteError(w, http.StatusBadRequest, "BAD_REQUEST", map[string]any{"reason": err.Error()})
		return
	}

	var budgeted *budget.Money
	if req.Budgeted != nil {
		money := budget.NewMoney(*req.Budgeted)
		budgeted = &money
	}

	dueDay := patch.Keep[budget.DueDay]()
	if req.DueDay.IsClear() {
		dueDay = patch.Clear[budget.DueDay]()
	} else if value, ok := req.DueDay.Value(); ok {
		parsed, err := budget.NewDueDay(value)
		if err != nil {
			writeEntryError(w, err)
			return
		}
		dueDay = patch.Set(parsed)
	}

	updated, err := h.service.Update(r.Context(), mux.Vars(r)["entryId"], budgeted, dueDay)
	if err != nil {
		writeEntryError(w, err)
		return
	}
	rest.WriteJSON(w, http.StatusOK, entryToDTO(updated))
}

func (h *EntryHandler) Delete(w http.ResponseWriter, r *http.Request) {
	if err := h.service.Delete(r.Context(), mux.Vars(r)["entryId"]); err != nil {
		writeEntryError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func entryToDTO(e BudgetEntryWithCategory) EntryDTO {
	var dueDay *int
	if e.DueDay != nil {
		value := e.DueDay.Value()
		dueDay = &value
	}
	return EntryDTO{
		ID: e.ID,
		Category: CategorySummaryDTO{
			ID:    e.Category.ID,
			Name:  e.Category.Name.String(),
			Label: e.Category.Label,
		},
		Budgeted:  e.Budgeted.Value(),
		DueDay:    dueDay,
		CreatedAt: e.CreatedAt,
		UpdatedAt: e.UpdatedAt,
	}
}

func writeEntryError(w http.ResponseWriter, err error) {
	var (
		alreadyInMonth  CategoryAlreadyInMonthError
		hasTransactions HasTransactionsError
		invalidDueDay   budget.InvalidDueDayError
	)
	switch {
	case errors.Is(err, ErrEntryNotFound):
		rest.WriteError(w, http.StatusNotFound, "ENTRY_NOT_FOUND", nil)
	case errors.Is(err, month.ErrMonthNotFound):
		rest.WriteError(w, http.StatusNotFound, "MONTH_NOT_FOUND", nil)
	case errors.Is(err, category.ErrCategoryNotFound):
		rest.WriteError(w, http.StatusNotFound, "CATEGORY_NOT_FOUND", nil)
	case errors.As(err, &alreadyInMonth):
		rest.WriteError(w, http.StatusConflict, "ENTRY_CATEGORY_ALREADY_IN_MONTH", map[string]any{
			"category_id": alreadyInMonth.CategoryID,
			"month":       alreadyInMonth.Month,
		})
	case errors.As(err, &hasTransactions):
		rest.WriteError(w, http.StatusConflict, "ENTRY_HAS_TRANSACTIONS", map[string]any{
			"transaction_count": hasTransactions.TransactionCount,
		})
	case errors.As(err, &invalidDueDay):
		rest.WriteError(w, http.StatusUnprocessableEntity, "ENTRY_INVALID_DUE_DAY", map[string]any{"value": invalidDueDay.Value})
	default:
		log.Errorf("budget entry repository error: %v", err)
		rest.WriteError(w, http.StatusInternalServerError, "INTERNAL_ERROR", nil)
	}
}
