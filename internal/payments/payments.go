// Package payments wraps the external checkout provider: creating checkout
// sessions and verifying that a session has been paid.
package payments

import (
	"context"
	"errors"
)

// ErrNotConfigured is returned when no payment provider credentials are set.
var ErrNotConfigured = errors.New("payment provider not configured")

// Verification is what the provider reports about a checkout session.
type Verification struct {
	PaymentID       string
	Paid            bool
	PaymentStatus   string
	ClientSessionID string
}

// Verifier checks a checkout session with the provider. It must be queried
// fresh on every call; results are never cached.
type Verifier interface {
	Verify(ctx context.Context, paymentID string) (Verification, error)
}

// CheckoutRequest describes a checkout session to create.
type CheckoutRequest struct {
	ClientSessionID string
}

// Checkout is a created checkout session.
type Checkout struct {
	ID  string
	URL string
}

// CheckoutCreator starts a hosted checkout for one purchase.
type CheckoutCreator interface {
	CreateCheckout(ctx context.Context, req CheckoutRequest) (Checkout, error)
}

// Unconfigured fails every call with ErrNotConfigured. It lets the service
// boot in dev without provider credentials.
type Unconfigured struct{}

func (Unconfigured) Verify(ctx context.Context, paymentID string) (Verification, error) {
	return Verification{}, ErrNotConfigured
}

func (Unconfigured) CreateCheckout(ctx context.Context, req CheckoutRequest) (Checkout, error) {
	return Checkout{}, ErrNotConfigured
}
