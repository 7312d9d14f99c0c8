package summary

import (
	"errors"
	"net/http"

	"github.com/gorilla/mux"
	"github.com/koperta/koperta/internal/rest"
	"github.com/koperta/koperta/pkg/month"
	log "github.com/sirupsen/logrus"
)

type CategorySummaryDTO struct {
	ID    string  `json:"id"`
	Name  string  `json:"name"`
	Label *string `json:"label,omitempty"`
}

type CategoryBudgetSummaryDTO struct {
	EntryID   string             `json:"entry_id"`
	Category  CategorySummaryDTO `json:"category"`
	Budgeted  int64              `json:"budgeted"`
	Paid      int64              `json:"paid"`
	Remaining int64              `json:"remaining"`
	DueDay    *int               `json:"due_day,omitempty"`
	Status    string             `json:"status"`
}

type MonthSummaryDTO struct {
	MonthID       string                     `json:"month_id"`
	Month         string                     `json:"month"`
	TotalBudgeted int64                      `json:"total_budgeted"`
	TotalPaid     int64                      `json:"total_paid"`
	Remaining     int64                      `json:"remaining"`
	Categories    []CategoryBudgetSummaryDTO `json:"categories"`
}

type SummaryHandler struct {
	service SummaryService
}

func NewSummaryHandler(service SummaryService) *SummaryHandler {
	return &SummaryHandler{service: service}
}

func (h *SummaryHandler) Get(w http.ResponseWriter, r *http.Request) {
	result, err := h.service.GetMonthSummary(r.Context(), mux.Vars(r)["id"])
	if err != nil {
		if errors.Is(err, month.ErrMonthNotFound) {
			rest.WriteError(w, http.StatusNotFound, "MONTH_NOT_FOUND", nil)
			return
		}
		log.Errorf("month summary error: %v", err)
		rest.WriteError(w, http.StatusInternalServerError, "INTERNAL_ERROR", nil)
		return
	}
	rest.WriteJSON(w, http.StatusOK, summaryToDTO(result))
}

func summaryToDTO(s MonthSummary) MonthSummaryDTO {
	categories := make([]CategoryBudgetSummaryDTO, 0, len(s.Categories))
	for _, c := range s.Categories {
		var dueDay *int
		if c.DueDay != nil {
			value := c.DueDay.Value()
			dueDay = &value
		}
		categories = append(categories, CategoryBudgetSummaryDTO{
			EntryID: c.EntryID,
			Category: CategorySummaryDTO{
				ID:    c.Category.ID,
				Name:  c.Category.Name.String(),
				Label: c.Category.Label,
			},
			Budgeted:  c.Budgeted.Value(),
			Paid:      c.Paid.Value(),
			Remaining: c.Remaining.Value(),
			DueDay:    dueDay,
			Status:    string(c.Status),
		})
	}
	return MonthSummaryDTO{
		MonthID:       s.MonthID,
		Month:         s.Month.String(),
		TotalBudgeted: s.TotalBudgeted.Value(),
		TotalPaid:     s.TotalPaid.Value(),
		Remaining:     s.Remaining.Value(),
		Categories:    categories,
	}
}
