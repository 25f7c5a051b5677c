package payments

import (
	"context"
	"fmt"
	"strings"

	"github.com/stripe/stripe-go/v76"
	"github.com/stripe/stripe-go/v76/client"
)

// ClientSessionMetadataKey links a checkout session back to the prepared resume.
const ClientSessionMetadataKey = "clientSessionId"

// StripeOptions configures StripeGateway.
type StripeOptions struct {
	SecretKey  string
	PriceID    string
	AppBaseURL string
	// Backends overrides the Stripe API backends; nil uses the live API.
	Backends *stripe.Backends
}

// StripeGateway implements Verifier and CheckoutCreator on Stripe Checkout.
type StripeGateway struct {
	api        *client.API
	priceID    string
	appBaseURL string
}

// NewStripeGateway constructs a StripeGateway.
func NewStripeGateway(opts StripeOptions) (*StripeGateway, error) {
	if strings.TrimSpace(opts.SecretKey) == "" {
		return nil, fmt.Errorf("STRIPE_SECRET_KEY is required")
	}
	if strings.TrimSpace(opts.PriceID) == "" {
		return nil, fmt.Errorf("STRIPE_PRICE_ID is required")
	}
	return &StripeGateway{
		api:        client.New(opts.SecretKey, opts.Backends),
		priceID:    opts.PriceID,
		appBaseURL: strings.TrimRight(opts.AppBaseURL, "/"),
	}, nil
}

// Verify retrieves the checkout session and reports whether it is paid.
func (g *StripeGateway) Verify(ctx context.Context, paymentID string) (Verification, error) {
	params := &stripe.CheckoutSessionParams{}
	params.Context = ctx
	sess, err := g.api.CheckoutSessions.Get(paymentID, params)
	if err != nil {
		return Verification{}, fmt.Errorf("retrieve checkout session: %w", err)
	}
	return Verification{
		PaymentID:       sess.ID,
		Paid:            sess.PaymentStatus == stripe.CheckoutSessionPaymentStatusPaid,
		PaymentStatus:   string(sess.PaymentStatus),
		ClientSessionID: sess.Metadata[ClientSessionMetadataKey],
	}, nil
}

// CreateCheckout opens a one-off payment session for the configured price.
func (g *StripeGateway) CreateCheckout(ctx context.Context, req CheckoutRequest) (Checkout, error) {
	params := &stripe.CheckoutSessionParams{
		Mode: stripe.String(string(stripe.CheckoutSessionModePayment)),
		LineItems: []*stripe.CheckoutSessionLineItemParams{
			{
				Price:    stripe.String(g.priceID),
				Quantity: stripe.Int64(1),
			},
		},
		SuccessURL: stripe.String(g.appBaseURL + "/success.html?session_id={CHECKOUT_SESSION_ID}"),
		CancelURL:  stripe.String(g.appBaseURL + "/cancel.html"),
	}
	params.Context = ctx
	params.AddMetadata(ClientSessionMetadataKey, req.ClientSessionID)

	sess, err := g.api.CheckoutSessions.New(params)
	if err != nil {
		return Checkout{}, fmt.Errorf("create checkout session: %w", err)
	}
	return Checkout{ID: sess.ID, URL: sess.URL}, nil
}
