// Package amqpnotify publishes ledger notifications to RabbitMQ. Publishing
// is fire-and-forget: failures are logged and never surfaced to the
// coordinators.
package amqpnotify

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"time"

	"github.com/rabbitmq/amqp091-go"

	"github.com/MrJamesThe3rd/kitty/internal/budget"
	"github.com/MrJamesThe3rd/kitty/internal/goal"
)

const (
	routingNearLimit   = "budget.near_limit"
	routingExceeded    = "budget.exceeded"
	routingGoalReached = "goal.reached"

	publishTimeout = 5 * time.Second
)

type Publisher struct {
	conn     *amqp091.Connection
	channel  *amqp091.Channel
	exchange string
}

func New(url, exchange string) (*Publisher, error) {
	conn, err := amqp091.Dial(url)
	if err != nil {
		return nil, fmt.Errorf("dial AMQP: %w", err)
	}

	channel, err := conn.Channel()
	if err != nil {
		conn.Close()
		return nil, fmt.Errorf("open channel: %w", err)
	}

	err = channel.ExchangeDeclare(
		exchange, // name
		"topic",  // type
		true,     // durable
		false,    // auto-deleted
		false,    // internal
		false,    // no-wait
		nil,      // arguments
	)
	if err != nil {
		channel.Close()
		conn.Close()

		return nil, fmt.Errorf("declare exchange: %w", err)
	}

	return &Publisher{conn: conn, channel: channel, exchange: exchange}, nil
}

func (p *Publisher) Close() error {
	if err := p.channel.Close(); err != nil {
		p.conn.Close()
		return err
	}

	return p.conn.Close()
}

// BudgetMessage is the payload for budget threshold notifications.
type BudgetMessage struct {
	BudgetID  string    `json:"budget_id"`
	UserID    string    `json:"user_id"`
	Category  string    `json:"category"`
	Spend     int64     `json:"spend"`
	Limit     int64     `json:"limit"`
	Status    string    `json:"status"`
	Timestamp time.Time `json:"timestamp"`
}

// GoalMessage is the payload for goal completion notifications.
type GoalMessage struct {
	GoalID    string    `json:"goal_id"`
	UserID    string    `json:"user_id"`
	Name      string    `json:"name"`
	Amount    int64     `json:"amount"`
	Target    int64     `json:"target"`
	Timestamp time.Time `json:"timestamp"`
}

func (p *Publisher) NearLimit(ctx context.Context, b *budget.Budget) {
	p.publish(ctx, routingNearLimit, budgetMessage(b))
}

func (p *Publisher) Exceeded(ctx context.Context, b *budget.Budget) {
	p.publish(ctx, routingExceeded, budgetMessage(b))
}

func (p *Publisher) GoalReached(ctx context.Context, g *goal.Goal) {
	p.publish(ctx, routingGoalReached, GoalMessage{
		GoalID:    g.ID.String(),
		UserID:    g.UserID.String(),
		Name:      g.Name,
		Amount:    g.CurrentAmount,
		Target:    g.TargetAmount,
		Timestamp: time.Now().UTC(),
	})
}

func budgetMessage(b *budget.Budget) BudgetMessage {
	return BudgetMessage{
		BudgetID:  b.ID.String(),
		UserID:    b.UserID.String(),
		Category:  string(b.Category),
		Spend:     b.CurrentSpend,
		Limit:     b.Limit,
		Status:    string(b.Status),
		Timestamp: time.Now().UTC(),
	}
}

func (p *Publisher) publish(ctx context.Context, routingKey string, payload any) {
	body, err := json.Marshal(payload)
	if err != nil {
		slog.ErrorContext(ctx, "marshaling notification", "routing_key", routingKey, "error", err)
		return
	}

	ctx, cancel := context.WithTimeout(ctx, publishTimeout)
	defer cancel()

	err = p.channel.PublishWithContext(ctx,
		p.exchange,
		routingKey,
		false, // mandatory
		false, // immediate
		amqp091.Publishing{
			ContentType:  "application/json",
			DeliveryMode: amqp091.Persistent,
			Timestamp:    time.Now(),
			Body:         body,
		},
	)
	if err != nil {
		slog.ErrorContext(ctx, "publishing notification", "routing_key", routingKey, "error", err)
	}
}
