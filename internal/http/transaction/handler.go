package transaction

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/MrJamesThe3rd/kitty/internal/http/respond"
	"github.com/MrJamesThe3rd/kitty/internal/ledger"
	"github.com/MrJamesThe3rd/kitty/internal/transaction"
)

type Handler struct {
	svc *ledger.Service
}

func NewHandler(svc *ledger.Service) *Handler {
	return &Handler{svc: svc}
}

func (h *Handler) Routes(r chi.Router) {
	r.Post("/", h.create)
	r.Get("/", h.list)
	r.Get("/{id}", h.get)
	r.Patch("/{id}", h.update)
	r.Delete("/{id}", h.delete)
	r.Post("/{id}/reactivate", h.reactivate)
}

type createTransactionRequest struct {
	Amount      int64                `json:"amount"`
	Description string               `json:"description"`
	Category    transaction.Category `json:"category"`
	Date        time.Time            `json:"date"`
	Kind        transaction.Kind     `json:"kind"`
}

func (h *Handler) create(w http.ResponseWriter, r *http.Request) {
	userID, err := uuid.Parse(chi.URLParam(r, "userID"))
	if err != nil {
		http.Error(w, "invalid user id", http.StatusBadRequest)
		return
	}

	var req createTransactionRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	t, err := h.svc.CreateTransaction(r.Context(), userID, ledger.CreateParams{
		Amount:      req.Amount,
		Description: req.Description,
		Category:    req.Category,
		Date:        req.Date,
		Kind:        req.Kind,
	})
	if err != nil {
		respond.Error(w, err)
		return
	}

	respond.JSON(w, http.StatusCreated, toResponse(t))
}

func (h *Handler) list(w http.ResponseWriter, r *http.Request) {
	userID, err := uuid.Parse(chi.URLParam(r, "userID"))
	if err != nil {
		http.Error(w, "invalid user id", http.StatusBadRequest)
		return
	}

	filter := ledger.ListFilter{}

	if s := r.URL.Query().Get("kind"); s != "" {
		kind := transaction.Kind(s)
		filter.Kind = &kind
	}

	if s := r.URL.Query().Get("category"); s != "" {
		category := transaction.Category(s)
		filter.Category = &category
	}

	if s := r.URL.Query().Get("active"); s != "" {
		active := s == "true"
		filter.Active = &active
	}

	if s := r.URL.Query().Get("start_date"); s != "" {
		if t, err := time.Parse(time.DateOnly, s); err == nil {
			filter.StartDate = &t
		}
	}

	if s := r.URL.Query().Get("end_date"); s != "" {
		if t, err := time.Parse(time.DateOnly, s); err == nil {
			filter.EndDate = &t
		}
	}

	txs, err := h.svc.ListTransactions(r.Context(), userID, filter)
	if err != nil {
		respond.Error(w, err)
		return
	}

	respond.JSON(w, http.StatusOK, toResponseList(txs))
}

func (h *Handler) get(w http.ResponseWriter, r *http.Request) {
	userID, id, ok := h.ids(w, r)
	if !ok {
		return
	}

	t, err := h.svc.GetTransaction(r.Context(), id, userID)
	if err != nil {
		respond.Error(w, err)
		return
	}

	respond.JSON(w, http.StatusOK, toResponse(t))
}

type updateTransactionRequest struct {
	Amount      *int64                `json:"amount,omitempty"`
	Description *string               `json:"description,omitempty"`
	Category    *transaction.Category `json:"category,omitempty"`
}

func (h *Handler) update(w http.ResponseWriter, r *http.Request) {
	userID, id, ok := h.ids(w, r)
	if !ok {
		return
	}

	var req updateTransactionRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	t, err := h.svc.UpdateTransaction(r.Context(), id, userID, ledger.UpdateParams{
		Amount:      req.Amount,
		Description: req.Description,
		Category:    req.Category,
	})
	if err != nil {
		respond.Error(w, err)
		return
	}

	respond.JSON(w, http.StatusOK, toResponse(t))
}

func (h *Handler) delete(w http.ResponseWriter, r *http.Request) {
	userID, id, ok := h.ids(w, r)
	if !ok {
		return
	}

	// Soft delete by default; permanent removal is for cleanup only.
	var err error
	if r.URL.Query().Get("permanent") == "true" {
		err = h.svc.HardDeleteTransaction(r.Context(), id, userID)
	} else {
		err = h.svc.DeleteTransaction(r.Context(), id, userID)
	}

	if err != nil {
		respond.Error(w, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

func (h *Handler) reactivate(w http.ResponseWriter, r *http.Request) {
	userID, id, ok := h.ids(w, r)
	if !ok {
		return
	}

	t, err := h.svc.ReactivateTransaction(r.Context(), id, userID)
	if err != nil {
		respond.Error(w, err)
		return
	}

	respond.JSON(w, http.StatusOK, toResponse(t))
}

func (h *Handler) ids(w http.ResponseWriter, r *http.Request) (userID, id uuid.UUID, ok bool) {
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
