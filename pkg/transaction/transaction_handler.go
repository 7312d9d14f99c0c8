package transaction

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/gorilla/mux"
	"github.com/koperta/koperta/internal/patch"
	"github.com/koperta/koperta/internal/rest"
	"github.com/koperta/koperta/pkg/budget"
	"github.com/koperta/koperta/pkg/entry"
	log "github.com/sirupsen/logrus"
)

const defaultPageSize = 50

type TransactionDTO struct {
	ID        string    `json:"id"`
	EntryID   string    `json:"entry_id"`
	Amount    int64     `json:"amount"`
	Date      string    `json:"date"`
	Title     *string   `json:"title,omitempty"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

type createTransactionRequest struct {
	EntryID string  `json:"entry_id"`
	Amount  int64   `json:"amount"`
	Date    string  `json:"date"`
	Title   *string `json:"title"`
}

type updateTransactionRequest struct {
	EntryID *string             `json:"entry_id"`
	Amount  *int64              `json:"amount"`
	Date    *string             `json:"date"`
	Title   patch.Field[string] `json:"title"`
}

type TransactionHandler struct {
	service TransactionService
}

func NewTransactionHandler(service TransactionService) *TransactionHandler {
	return &TransactionHandler{service: service}
}

// List serves either a month listing (?month=<month id>) or a paginated
// entry listing (?entry_id=<entry id>&limit=&offset=). One of the two
// selectors is required.
func (h *TransactionHandler) List(w http.ResponseWriter, r *http.Request) {
	query := r.URL.Query()

	if entryID := query.Get("entry_id"); entryID != "" {
		limit := queryInt(query.Get("limit"), defaultPageSize)
		offset := queryInt(query.Get("offset"), 0)
		transactions, err := h.service.ListByEntry(r.Context(), entryID, limit, offset)
		if err != nil {
			writeTransactionError(w, err)
			return
		}
		rest.WriteJSON(w, http.StatusOK, transactionsToDTOs(transactions))
		return
	}

	monthID := query.Get("month")
	if monthID == "" {
		rest.WriteError(w, http.StatusBadRequest, "TRANSACTIONS_MONTH_REQUIRED", nil)
		return
	}
	transactions, err := h.service.ListByMonth(r.Context(), monthID)
	if err != nil {
		writeTransactionError(w, err)
		return
	}
	rest.WriteJSON(w, http.StatusOK, transactionsToDTOs(transactions))
}

func (h *TransactionHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req createTransactionRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		rest.WriteError(w, http.StatusBadRequest, "BAD_REQUEST", map[string]any{"reason": err.Error()})
		return
	}

	date, err := budget.ParseTransactionDate(req.Date)
	if err != nil {
		writeTransactionError(w, err)
		return
	}

	created, err := h.service.Create(r.Context(), req.EntryID, budget.NewMoney(req.Amount), date, req.Title)
	if err != nil {
		writeTransactionError(w, err)
		return
	}
	rest.WriteJSON(w, http.StatusCreated, transactionToDTO(created))
}

func (h *TransactionHandler) Update(w http.ResponseWriter, r *http.Request) {
	var req updateTransactionRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		rest.WriteError(w, http.StatusBadRequest, "BAD_REQUEST", map[string]any{"reason": err.Error()})
		return
	}

	update := TransactionUpdate{EntryID: req.EntryID, Title: req.Title}
	if req.Amount != nil {
		amount := budget.NewMoney(*req.Amount)
		update.Amount = &amount
	}
	if req.Date != nil {
		date, err := budget.ParseTransactionDate(*req.Date)
		if err != nil {
			writeTransactionError(w, err)
			return
		}
		update.Date = &date
	}

	updated, err := h.service.Update(r.Context(), mux.Vars(r)["id"], update)
	if err != nil {
		writeTransactionError(w, err)
		return
	}
	rest.WriteJSON(w, http.StatusOK, transactionToDTO(updated))
}

func (h *TransactionHandler) Delete(w http.ResponseWriter, r *http.Request) {
	if err := h.service.Delete(r.Context(), mux.Vars(r)["id"]); err != nil {
		writeTransactionError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func transactionsToDTOs(transactions []Transaction) []TransactionDTO {
	dtos := make([]TransactionDTO, 0, len(transactions))
	for _, t := range transactions {
		dtos = append(dtos, transactionToDTO(t))
	}
	return dtos
}

func transactionToDTO(t Transaction) TransactionDTO {
	return TransactionDTO{
		ID:        t.ID,
		EntryID:   t.EntryID,
		Amount:    t.Amount.Value(),
		Date:      t.Date.String(),
		Title:     t.Title,
		CreatedAt: t.CreatedAt,
		UpdatedAt: t.UpdatedAt,
	}
}

func queryInt(raw string, fallback int) int {
	if raw == "" {
		return fallback
	}
	value, err := strconv.Atoi(raw)
	if err != nil || value < 0 {
		return fallback
	}
	return value
}

func writeTransactionError(w http.ResponseWriter, err error) {
	var (
		invalidAmount InvalidAmountError
		titleTooLong  TitleTooLongError
		invalidDate   budget.InvalidTransactionDateError
	)
	switch {
	case errors.Is(err, ErrTransactionNotFound):
		rest.WriteError(w, http.StatusNotFound, "TRANSACTION_NOT_FOUND", nil)
	case errors.Is(err, entry.ErrEntryNotFound):
		rest.WriteError(w, http.StatusNotFound, "ENTRY_NOT_FOUND", nil)
	case errors.As(err, &invalidAmount):
		rest.WriteError(w, http.StatusUnprocessableEntity, "TRANSACTION_INVALID_AMOUNT", map[string]any{"value": invalidAmount.Value})
	case errors.As(err, &titleTooLong):
		rest.WriteError(w, http.StatusUnprocessableEntity, "TRANSACTION_TITLE_TOO_LONG", map[string]any{
			"length": titleTooLong.Length,
			"max":    titleTooLong.Max,
		})
	case errors.As(err, &invalidDate):
		rest.WriteError(w, http.StatusUnprocessableEntity, "TRANSACTION_INVALID_DATE", map[string]any{"value": invalidDate.Value})
	default:
		log.Errorf("transaction repository error: %v", err)
		rest.WriteError(w, http.StatusInternalServerError, "INTERNAL_ERROR", nil)
	}
}
