// Package user holds the minimal account model the ledger depends on.
// Registration and authentication live outside this service.
package user

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/MrJamesThe3rd/kitty/internal/domain"
)

// ErrNotFound is returned by stores when no user matches the lookup.
var ErrNotFound = domain.Statef("user not found")

type User struct {
	ID        uuid.UUID
	Email     string
	Name      string
	Active    bool
	CreatedAt time.Time
}

// IsActive reports whether the account may perform operations.
func (u *User) IsActive() bool {
	return u.Active
}

//go:generate mockgen -source=user.go -destination=repository_mock.go -package=user
type Repository interface {
	FindByID(ctx context.Context, id uuid.UUID) (*User, error)
}
