package checkout

import "errors"

// Failure taxonomy for the checkout path. Handlers map these onto HTTP
// responses; everything else wraps them with %w so errors.Is keeps working
// through the stack.
var (
	// ErrInvalidCart: the cart is empty or unusable for checkout.
	ErrInvalidCart = errors.New("cart is empty or invalid")

	// ErrProductUnavailable: a cart line references a product that no longer
	// exists or is out of stock.
	ErrProductUnavailable = errors.New("product unavailable")

	// ErrGateway: transport or provider failure talking to the payment
	// gateway. The outcome is ambiguous; never tell the user the payment
	// failed, or they may pay twice.
	ErrGateway = errors.New("payment gateway error")

	// ErrVerificationFailed: the payment signature did not match. Definitive
	// rejection; no order is created and the cart is untouched.
	ErrVerificationFailed = errors.New("payment verification failed")

	// ErrDuplicateInFlight: another request is already finalizing this exact
	// payment. The caller should poll for the winner's result.
	ErrDuplicateInFlight = errors.New("duplicate checkout in flight")

	// ErrOrderPersistence: storage failed after the payment verified. Money
	// has moved with no order to show for it, so this must surface loudly.
	ErrOrderPersistence = errors.New("order persistence failed after payment")
)
