// Package notify provides ledger.Notifier implementations. Notifications are
// fire-and-forget: implementations log failures and never return them.
package notify

import (
	"context"
	"log/slog"

	"github.com/MrJamesThe3rd/kitty/internal/budget"
	"github.com/MrJamesThe3rd/kitty/internal/goal"
)

// Log writes notifications to slog. It is the default sink.
type Log struct{}

func NewLog() *Log {
	return &Log{}
}

func (*Log) NearLimit(ctx context.Context, b *budget.Budget) {
	slog.InfoContext(ctx, "budget near limit",
		"budget_id", b.ID, "user_id", b.UserID, "category", b.Category,
		"spend", b.CurrentSpend, "limit", b.Limit)
}

func (*Log) Exceeded(ctx context.Context, b *budget.Budget) {
	slog.WarnContext(ctx, "budget exceeded",
		"budget_id", b.ID, "user_id", b.UserID, "category", b.Category,
		"spend", b.CurrentSpend, "limit", b.Limit)
}

func (*Log) GoalReached(ctx context.Context, g *goal.Goal) {
	slog.InfoContext(ctx, "goal reached",
		"goal_id", g.ID, "user_id", g.UserID, "name", g.Name,
		"amount", g.CurrentAmount, "target", g.TargetAmount)
}
