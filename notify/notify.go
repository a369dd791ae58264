// Package notify queues customer and back-office emails through Redis so the
// request path never blocks on SMTP. A single worker drains the channel and
// delivers.
package notify

import (
	"context"
	"encoding/json"
	"log"

	"github.com/Prabhu6626/Glonix-Website/models"
	"github.com/redis/go-redis/v9"
)

const channel = "notify-events"

// Event is one queued notification.
type Event struct {
	Kind        string `json:"kind"` // "order_confirmed" or "contact_message"
	OrderID     string `json:"order_id,omitempty"`
	OrderNumber string `json:"order_number,omitempty"`
	UserID      string `json:"user_id,omitempty"`
	TotalMinor  int64  `json:"total_minor,omitempty"`
	Currency    string `json:"currency,omitempty"`
	Name        string `json:"name,omitempty"`
	Email       string `json:"email,omitempty"`
	Subject     string `json:"subject,omitempty"`
	Message     string `json:"message,omitempty"`
}

// Queue publishes notification events to Redis.
type Queue struct {
	rdb *redis.Client
}

func NewQueue(rdb *redis.Client) *Queue {
	return &Queue{rdb: rdb}
}

func (q *Queue) publish(ctx context.Context, ev Event) {
	data, err := json.Marshal(ev)
	if err != nil {
		log.Printf("notify: marshal %s event: %v", ev.Kind, err)
		return
	}
	if err := q.rdb.Publish(ctx, channel, data).Err(); err != nil {
		log.Printf("notify: publish %s event: %v", ev.Kind, err)
	}
}

// NotifyOrderConfirmed queues the order confirmation email. Fire-and-forget;
// the caller's request context may already be near its deadline, so publish
// with a background context.
func (q *Queue) NotifyOrderConfirmed(order models.Order) {
	q.publish(context.Background(), Event{
		Kind:        "order_confirmed",
		OrderID:     order.OrderID,
		OrderNumber: order.OrderNumber,
		UserID:      order.UserID,
		TotalMinor:  order.TotalMinor,
		Currency:    order.Currency,
	})
}

// NotifyContactMessage queues the back-office alert for a contact form
// submission.
func (q *Queue) NotifyContactMessage(_ context.Context, msg models.ContactMessage) {
	q.publish(context.Background(), Event{
		Kind:    "contact_message",
		Name:    msg.Name,
		Email:   msg.Email,
		Subject: msg.Subject,
		Message: msg.Message,
	})
}

// Sender delivers one notification. Backed by SMTP in production, a fake in
// tests.
type Sender interface {
	Send(ev Event) error
}

// UserEmails resolves a user ID to the address the confirmation goes to.
type UserEmails interface {
	EmailForUser(ctx context.Context, userID string) (string, error)
}

// Worker drains the Redis channel and delivers events.
type Worker struct {
	rdb    *redis.Client
	sender Sender
	users  UserEmails
}

func NewWorker(rdb *redis.Client, sender Sender, users UserEmails) *Worker {
	return &Worker{rdb: rdb, sender: sender, users: users}
}

// Run blocks until ctx is cancelled.
func (w *Worker) Run(ctx context.Context) {
	sub := w.rdb.Subscribe(ctx, channel)
	defer sub.Close()
	ch := sub.Channel()

	log.Println("notify: worker listening")
	for {
		select {
		case <-ctx.Done():
			return
		case msg, ok := <-ch:
			if !ok {
				return
			}
			var ev Event
			if err := json.Unmarshal([]byte(msg.Payload), &ev); err != nil {
				log.Printf("notify: parse event: %v", err)
				continue
			}
			w.handle(ctx, ev)
		}
	}
}

func (w *Worker) handle(ctx context.Context, ev Event) {
	if ev.Kind == "order_confirmed" && ev.Email == "" && ev.UserID != "" {
		email, err := w.users.EmailForUser(ctx, ev.UserID)
		if err != nil {
			log.Printf("notify: resolve email for %s: %v", ev.UserID, err)
			return
		}
		ev.Email = email
	}
	if err := w.sender.Send(ev); err != nil {
		log.Printf("notify: deliver %s event: %v", ev.Kind, err)
		return
	}
	log.Printf("notify: delivered %s event", ev.Kind)
}
