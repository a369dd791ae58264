// Package funnel derives a coarse purchase-journey state per user
// (browsing -> engaged -> active cart / purchased) from cart, enquiry and
// order events. Allowed transitions are encoded in the update filters so an
// out-of-order event is a no-op rather than a regression.
package funnel

import (
	"context"

	"github.com/Prabhu6626/Glonix-Website/models"
)

// StateStore applies a funnel transition only when the user currently sits in
// one of the listed states. Backed by a conditional single-document update.
type StateStore interface {
	SetStateIf(ctx context.Context, userID string, to models.FunnelState, from ...models.FunnelState) error
}

// OrderChecker answers whether the user has a confirmed order.
type OrderChecker interface {
	HasConfirmedOrder(ctx context.Context, userID string) (bool, error)
}

type Tracker struct {
	states StateStore
	orders OrderChecker
}

func NewTracker(states StateStore, orders OrderChecker) *Tracker {
	return &Tracker{states: states, orders: orders}
}

// OnEnquirySubmitted moves a browsing user to engaged. Users already at
// engaged or active stay where they are.
func (t *Tracker) OnEnquirySubmitted(ctx context.Context, userID string) error {
	return t.states.SetStateIf(ctx, userID, models.FunnelEngaged, models.FunnelBrowsing)
}

// OnCartNonEmpty marks the user active.
func (t *Tracker) OnCartNonEmpty(ctx context.Context, userID string) error {
	return t.states.SetStateIf(ctx, userID, models.FunnelActive,
		models.FunnelBrowsing, models.FunnelEngaged)
}

// OnCartCleared regresses an active user back to browsing, but only when no
// completed purchase exists: a confirmed order pins the state at active for
// good, regardless of what happens to the cart afterwards.
func (t *Tracker) OnCartCleared(ctx context.Context, userID string) error {
	purchased, err := t.orders.HasConfirmedOrder(ctx, userID)
	if err != nil {
		return err
	}
	if purchased {
		return nil
	}
	return t.states.SetStateIf(ctx, userID, models.FunnelBrowsing, models.FunnelActive)
}

// OnOrderConfirmed marks the user active. Terminal as far as this tracker is
// concerned; OnCartCleared will find the confirmed order and refuse to
// regress.
func (t *Tracker) OnOrderConfirmed(ctx context.Context, userID string) error {
	return t.states.SetStateIf(ctx, userID, models.FunnelActive,
		models.FunnelBrowsing, models.FunnelEngaged)
}
