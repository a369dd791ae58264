package checkout

// State names the stations a checkout attempt moves through. Attempts are
// request-driven; the state is not persisted on its own, the ledger record
// and the order document together imply it. Used for logging.
type State string

const (
	StateCartOpen         State = "CART_OPEN"
	StateIntentCreated    State = "INTENT_CREATED"
	StatePaymentSubmitted State = "PAYMENT_SUBMITTED"
	StateVerified         State = "VERIFIED"
	StateOrderCreated     State = "ORDER_CREATED"
	StateFailed           State = "FAILED"
)

func (s State) IsTerminal() bool {
	return s == StateOrderCreated || s == StateFailed
}

func (s State) String() string {
	return string(s)
}
