package category

import (
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"github.com/gorilla/mux"
	"github.com/koperta/koperta/internal/patch"
	"github.com/koperta/koperta/internal/rest"
	"github.com/koperta/koperta/pkg/budget"
	log "github.com/sirupsen/logrus"
)

type CategoryDTO struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	Label     *string   `json:"label,omitempty"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

type createCategoryRequest struct {
	Name  string  `json:"name"`
	Label *string `json:"label"`
}

type updateCategoryRequest struct {
	Name  *string             `json:"name"`
	Label patch.Field[string] `json:"label"`
}

type CategoryHandler struct {
	service CategoryService
}

func NewCategoryHandler(service CategoryService) *CategoryHandler {
	return &CategoryHandler{service: service}
}

func (h *CategoryHandler) List(w http.ResponseWriter, r *http.Request) {
	categories, err := h.service.ListAll(r.Context())
	if err != nil {
		writeCategoryError(w, err)
		return
	}
	dtos := make([]CategoryDTO, 0, len(categories))
	for _, category := range categories {
		dtos = append(dtos, categoryToDTO(category))
	}
	rest.WriteJSON(w, http.StatusOK, dtos)
}

func (h *CategoryHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req createCategoryRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		rest.WriteError(w, http.StatusBadRequest, "BAD_REQUEST", map[string]any{"reason": err.Error()})
		return
	}

	name, err := budget.NewCategoryName(req.Name)
	if err != nil {
		writeCategoryError(w, err)
		return
	}

	created, err := h.service.Create(r.Context(), name, req.Label)
	if err != nil {
		writeCategoryError(w, err)
		return
	}
	rest.WriteJSON(w, http.StatusCreated, categoryToDTO(created))
}

func (h *CategoryHandler) Update(w http.ResponseWriter, r *http.Request) {
	id := mux.Vars(r)["id"]

	var req updateCategoryRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		rest.WriteError(w, http.StatusBadRequest, "BAD_REQUEST", map[string]any{"reason": err.Error()})
		return
	}

	var name *budget.CategoryName
	if req.Name != nil {
		parsed, err := budget.NewCategoryName(*req.Name)
		if err != nil {
			writeCategoryError(w, err)
			return
		}
		name = &parsed
	}

	updated, err := h.service.Update(r.Context(), id, name, req.Label)
	if err != nil {
		writeCategoryError(w, err)
		return
	}
	rest.WriteJSON(w, http.StatusOK, categoryToDTO(updated))
}

func categoryToDTO(category Category) CategoryDTO {
	return CategoryDTO{
		ID:        category.ID,
		Name:      category.Name.String(),
		Label:     category.Label,
		CreatedAt: category.CreatedAt,
		UpdatedAt: category.UpdatedAt,
	}
}

func writeCategoryError(w http.ResponseWriter, err error) {
	var (
		nameExists  NameAlreadyExistsError
		invalidName budget.InvalidCategoryNameError
	)
	switch {
	case errors.Is(err, ErrCategoryNotFound):
		rest.WriteError(w, http.StatusNotFound, "CATEGORY_NOT_FOUND", nil)
	case errors.As(err, &nameExists):
		rest.WriteError(w, http.StatusConflict, "CATEGORY_NAME_ALREADY_EXISTS", map[string]any{"name": nameExists.Name})
	case errors.As(err, &invalidName):
		rest.WriteError(w, http.StatusUnprocessableEntity, "CATEGORY_INVALID_NAME", map[string]any{"reason": invalidName.Reason})
	default:
		log.Errorf("category repository error: %v", err)
		rest.WriteError(w, http.StatusInternalServerError, "INTERNAL_ERROR", nil)
	}
}
