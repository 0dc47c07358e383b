package goal

import (
	"context"
	"encoding/json"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/MrJamesThe3rd/kitty/internal/goal"
	"github.com/MrJamesThe3rd/kitty/internal/http/respond"
)

type Handler struct {
	svc *goal.Service
}

func NewHandler(svc *goal.Service) *Handler {
	return &Handler{svc: svc}
}

func (h *Handler) Routes(r chi.Router) {
	r.Post("/", h.create)
	r.Get("/", h.list)
	r.Get("/{id}", h.get)
	r.Post("/{id}/pause", h.transition((*goal.Service).Pause))
	r.Post("/{id}/resume", h.transition((*goal.Service).Resume))
	r.Post("/{id}/cancel", h.transition((*goal.Service).Cancel))
}

type createGoalRequest struct {
	Name         string    `json:"name"`
	TargetAmount int64     `json:"target_amount"`
	Deadline     time.Time `json:"deadline"`
	Kind         goal.Kind `json:"kind"`
}

func (h *Handler) create(w http.ResponseWriter, r *http.Request) {
	userID, err := uuid.Parse(chi.URLParam(r, "userID"))
	if err != nil {
		http.Error(w, "invalid user id", http.StatusBadRequest)
		return
	}

	var req createGoalRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	g, err := h.svc.Create(r.Context(), userID, goal.CreateParams{
		Name:         req.Name,
		TargetAmount: req.TargetAmount,
		Deadline:     req.Deadline,
		Kind:         req.Kind,
	})
	if err != nil {
		respond.Error(w, err)
		return
	}

	respond.JSON(w, http.StatusCreated, toResponse(g))
}

func (h *Handler) list(w http.ResponseWriter, r *http.Request) {
	userID, err := uuid.Parse(chi.URLParam(r, "userID"))
	if err != nil {
		http.Error(w, "invalid user id", http.StatusBadRequest)
		return
	}

	var statuses []goal.Status
	if s := r.URL.Query().Get("status"); s != "" {
		statuses = append(statuses, goal.Status(s))
	}

	goals, err := h.svc.List(r.Context(), userID, statuses...)
	if err != nil {
		respond.Error(w, err)
		return
	}

	resp := make([]goalResponse, len(goals))
	for i, g := range goals {
		resp[i] = toResponse(g)
	}

	respond.JSON(w, http.StatusOK, resp)
}

func (h *Handler) get(w http.ResponseWriter, r *http.Request) {
	userID, id, ok := ids(w, r)
	if !ok {
		return
	}

	g, err := h.svc.Get(r.Context(), id, userID)
	if err != nil {
		respond.Error(w, err)
		return
	}

	respond.JSON(w, http.StatusOK, toResponse(g))
}

func (h *Handler) transition(fn func(*goal.Service, context.Context, uuid.UUID, uuid.UUID) error) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		userID, id, ok := ids(w, r)
		if !ok {
			return
		}

		if err := fn(h.svc, r.Context(), id, userID); err != nil {
			respond.Error(w, err)
			return
		}

		w.WriteHeader(http.StatusNoContent)
	}
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

type goalResponse struct {
	ID            uuid.UUID   `json:"id"`
	UserID        uuid.UUID   `json:"user_id"`
	Name          string      `json:"name"`
	TargetAmount  int64       `json:"target_amount"`
	CurrentAmount int64       `json:"current_amount"`
	Deadline      time.Time   `json:"deadline"`
	Kind          goal.Kind   `json:"kind"`
	Status        goal.Status `json:"status"`
	CreatedAt     time.Time   `json:"created_at"`
	UpdatedAt     time.Time   `json:"updated_at"`
}

func toResponse(g *goal.Goal) goalResponse {
	return goalResponse{
		ID:            g.ID,
		UserID:        g.UserID,
		Name:          g.Name,
		TargetAmount:  g.TargetAmount,
		CurrentAmount: g.CurrentAmount,
		Deadline:      g.Deadline,
		Kind:          g.Kind,
		Status:        g.Status,
		CreatedAt:     g.CreatedAt,
		UpdatedAt:     g.UpdatedAt,
	}
}
