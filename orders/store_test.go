package orders

import (
	"testing"

	"github.com/Prabhu6626/Glonix-Website/models"
	"github.com/stretchr/testify/assert"
)

// A cancelled order is not a purchase; if it counted, the funnel would stay
// pinned at the confirmed state after a refund.
func TestSettledStatusesExcludeUnpaidStates(t *testing.T) {
	assert.NotContains(t, settledStatuses, models.OrderPending)
	assert.NotContains(t, settledStatuses, models.OrderCancelled)

	assert.ElementsMatch(t, []models.OrderStatus{
		models.OrderConfirmed,
		models.OrderProcessing,
		models.OrderShipped,
		models.OrderDelivered,
	}, settledStatuses)
}
