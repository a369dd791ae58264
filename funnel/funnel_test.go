package funnel

import (
	"context"
	"testing"

	"github.com/Prabhu6626/Glonix-Website/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fakeStates applies the same conditional-transition rule as the Mongo
// implementation: the update only lands when the current state is listed.
type fakeStates struct {
	state models.FunnelState
}

func (f *fakeStates) SetStateIf(_ context.Context, _ string, to models.FunnelState, from ...models.FunnelState) error {
	for _, s := range from {
		if f.state == s {
			f.state = to
			return nil
		}
	}
	return nil
}

type fakeOrders struct {
	purchased bool
}

func (f *fakeOrders) HasConfirmedOrder(_ context.Context, _ string) (bool, error) {
	return f.purchased, nil
}

func TestEnquiryAdvancesBrowsingToEngaged(t *testing.T) {
	states := &fakeStates{state: models.FunnelBrowsing}
	tr := NewTracker(states, &fakeOrders{})

	require.NoError(t, tr.OnEnquirySubmitted(context.Background(), "u1"))
	assert.Equal(t, models.FunnelEngaged, states.state)
}

func TestEnquiryDoesNotRegressActive(t *testing.T) {
	states := &fakeStates{state: models.FunnelActive}
	tr := NewTracker(states, &fakeOrders{})

	require.NoError(t, tr.OnEnquirySubmitted(context.Background(), "u1"))
	assert.Equal(t, models.FunnelActive, states.state)
}

func TestCartNonEmptyMarksActive(t *testing.T) {
	for _, start := range []models.FunnelState{models.FunnelBrowsing, models.FunnelEngaged} {
		states := &fakeStates{state: start}
		tr := NewTracker(states, &fakeOrders{})

		require.NoError(t, tr.OnCartNonEmpty(context.Background(), "u1"))
		assert.Equal(t, models.FunnelActive, states.state)
	}
}

func TestCartClearedRegressesWithoutPurchase(t *testing.T) {
	states := &fakeStates{state: models.FunnelActive}
	tr := NewTracker(states, &fakeOrders{purchased: false})

	require.NoError(t, tr.OnCartCleared(context.Background(), "u1"))
	assert.Equal(t, models.FunnelBrowsing, states.state)
}

func TestCartClearedAfterPurchaseStaysActive(t *testing.T) {
	states := &fakeStates{state: models.FunnelActive}
	tr := NewTracker(states, &fakeOrders{purchased: true})

	require.NoError(t, tr.OnCartCleared(context.Background(), "u1"))
	assert.Equal(t, models.FunnelActive, states.state)
}

func TestOrderConfirmedMarksActive(t *testing.T) {
	states := &fakeStates{state: models.FunnelEngaged}
	tr := NewTracker(states, &fakeOrders{})

	require.NoError(t, tr.OnOrderConfirmed(context.Background(), "u1"))
	assert.Equal(t, models.FunnelActive, states.state)
}
