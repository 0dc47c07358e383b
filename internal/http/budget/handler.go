package budget

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/MrJamesThe3rd/kitty/internal/budget"
	"github.com/MrJamesThe3rd/kitty/internal/http/respond"
	"github.com/MrJamesThe3rd/kitty/internal/transaction"
)

type Handler struct {
	svc *budget.Service
}

func NewHandler(svc *budget.Service) *Handler {
	return &Handler{svc: svc}
}

func (h *Handler) Routes(r chi.Router) {
	r.Post("/", h.create)
	r.Get("/", h.list)
	r.Patch("/{id}/limit", h.updateLimit)
	r.Post("/{id}/archive", h.archive)
	r.Post("/archive-expired", h.archiveExpired)
}

type createBudgetRequest struct {
	Category transaction.Category `json:"category"`
	Limit    int64                `json:"limit"`
	Period   budget.Period        `json:"period"`
}

func (h *Handler) create(w http.ResponseWriter, r *http.Request) {
	userID, err := uuid.Parse(chi.URLParam(r, "userID"))
	if err != nil {
		http.Error(w, "invalid user id", http.StatusBadRequest)
		return
	}

	var req createBudgetRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	b, err := h.svc.Create(r.Context(), userID, req.Category, req.Limit, req.Period)
	if err != nil {
		respond.Error(w, err)
		return
	}

	respond.JSON(w, http.StatusCreated, toResponse(b))
}

func (h *Handler) list(w http.ResponseWriter, r *http.Request) {
	userID, err := uuid.Parse(chi.URLParam(r, "userID"))
	if err != nil {
		http.Error(w, "invalid user id", http.StatusBadRequest)
		return
	}

	budgets, err := h.svc.List(r.Context(), userID)
	if err != nil {
		respond.Error(w, err)
		return
	}

	resp := make([]budgetResponse, len(budgets))
	for i, b := range budgets {
		resp[i] = toResponse(b)
	}

	respond.JSON(w, http.StatusOK, resp)
}

type updateLimitRequest struct {
	Limit int64 `json:"limit"`
}

func (h *Handler) updateLimit(w http.ResponseWriter, r *http.Request) {
	userID, id, ok := ids(w, r)
	if !ok {
		return
	}

	var req updateLimitRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	b, err := h.svc.UpdateLimit(r.Context(), id, userID, req.Limit)
	if err != nil {
		respond.Error(w, err)
		return
	}

	respond.JSON(w, http.StatusOK, toResponse(b))
}

func (h *Handler) archive(w http.ResponseWriter, r *http.Request) {
	userID, id, ok := ids(w, r)
	if !ok {
		return
	}

	if err := h.svc.Archive(r.Context(), id, userID); err != nil {
		respond.Error(w, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

func (h *Handler) archiveExpired(w http.ResponseWriter, r *http.Request) {
	userID, err := uuid.Parse(chi.URLParam(r, "userID"))
	if err != nil {
		http.Error(w, "invalid user id", http.StatusBadRequest)
		return
	}

	archived, err := h.svc.ArchiveExpired(r.Context(), userID)
	if err != nil {
		respond.Error(w, err)
		return
	}

	respond.JSON(w, http.StatusOK, map[string]int{"archived": archived})
}

func ids(w http.ResponseWriter, r *http.Request) (userID, id uuid.UUID, ok bool) {
	userID, err := uuid.Parse(chi.URLParam(r, "userID"))
	if err != nil {
		http.Error(w, "invalid user id", http.StatusBadRequest)
		return uuid.Nil, uuid.Nil, false
	}

	id, err = uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		http.Error(w, "invalid id", http.StatusBadRequest)
		return uuid.Nil, uuid.Nil, false
	}

	return userID, id, true
}

type budgetResponse struct {
	ID           uuid.UUID            `json:"id"`
	UserID       uuid.UUID            `json:"user_id"`
	Category     transaction.Category `json:"category"`
	Limit        int64                `json:"limit"`
	Period       budget.Period        `json:"period"`
	PeriodStart  time.Time            `json:"period_start"`
	PeriodEnd    time.Time            `json:"period_end"`
	CurrentSpend int64                `json:"current_spend"`
	Status       budget.Status        `json:"status"`
	CreatedAt    time.Time            `json:"created_at"`
	UpdatedAt    time.Time            `json:"updated_at"`
}

func toResponse(b *budget.Budget) budgetResponse {
	return budgetResponse{
		ID:           b.ID,
		UserID:       b.UserID,
		Category:     b.Category,
		Limit:        b.Limit,
		Period:       b.Period,
		PeriodStart:  b.PeriodStart,
		PeriodEnd:    b.PeriodEnd,
		CurrentSpend: b.CurrentSpend,
		Status:       b.Status,
		CreatedAt:    b.CreatedAt,
		UpdatedAt:    b.UpdatedAt,
	}
}
