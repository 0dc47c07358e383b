package transaction

import (
	"time"

	"github.com/google/uuid"

	"github.com/MrJamesThe3rd/kitty/internal/transaction"
)

type transactionResponse struct {
	ID           uuid.UUID            `json:"id"`
	UserID       uuid.UUID            `json:"user_id"`
	Amount       int64                `json:"amount"`
	SignedAmount int64                `json:"signed_amount"`
	Description  string               `json:"description"`
	Category     transaction.Category `json:"category"`
	Date         time.Time            `json:"date"`
	Kind         transaction.Kind     `json:"kind"`
	Active       bool                 `json:"active"`
	CreatedAt    time.Time            `json:"created_at"`
	UpdatedAt    time.Time            `json:"updated_at"`
}

func toResponse(t *transaction.Transaction) transactionResponse {
	return transactionResponse{
		ID:           t.ID,
		UserID:       t.UserID,
		Amount:       t.Amount,
		SignedAmount: t.SignedAmount(),
		Description:  t.Description,
		Category:     t.Category,
		Date:         t.Date,
		Kind:         t.Kind,
		Active:       t.Active,
		CreatedAt:    t.CreatedAt,
		UpdatedAt:    t.UpdatedAt,
	}
}

func toResponseList(txs []*transaction.Transaction) []transactionResponse {
	resp := make([]transactionResponse, len(txs))
	for i, t := range txs {
		resp[i] = toResponse(t)
	}

	return resp
}
