package payments

import (
	"context"
	"fmt"

	"github.com/stripe/stripe-go/v79"
	"github.com/stripe/stripe-go/v79/checkout/session"
)

// StripeProvider creates Stripe Checkout sessions. The success URL
// routes the browser back to the frontend payment-success page, which
// then invokes the mark-paid endpoint.
type StripeProvider struct {
	successURL string // e.g. https://app.example.com/payment-success/%s
	cancelURL  string
	currency   string
}

func NewStripeProvider(apiKey, successURL, cancelURL, currency string) *StripeProvider {
	stripe.Key = apiKey
	if currency == "" {
		currency = "usd"
	}
	return &StripeProvider{
		successURL: successURL,
		cancelURL:  cancelURL,
		currency:   currency,
	}
}

func (p *StripeProvider) CreateSession(ctx context.Context, applicationID, description string, amountCents int64) (*Session, error) {
	params := &stripe.CheckoutSessionParams{
		Mode:              stripe.String(string(stripe.CheckoutSessionModePayment)),
		ClientReferenceID: stripe.String(applicationID),
		SuccessURL:        stripe.String(fmt.Sprintf(p.successURL, applicationID)),
		CancelURL:         stripe.String(p.cancelURL),
		LineItems: []*stripe.CheckoutSessionLineItemParams{
			{
				PriceData: &stripe.CheckoutSessionLineItemPriceDataParams{
					Currency: stripe.String(p.currency),
					ProductData: &stripe.CheckoutSessionLineItemPriceDataProductDataParams{
						Name: stripe.String(description),
					},
					UnitAmount: stripe.Int64(amountCents),
				},
				Quantity: stripe.Int64(1),
			},
		},
	}
	params.Context = ctx

	s, err := session.New(params)
	if err != nil {
		return nil, err
	}
	return &Session{ID: s.ID, URL: s.URL}, nil
}

func (p *StripeProvider) ConfirmPaid(ctx context.Context, sessionID string) (bool, error) {
	params := &stripe.CheckoutSessionParams{}
	params.Context = ctx

	s, err := session.Get(sessionID, params)
	if err != nil {
		return false, err
	}
	return s.PaymentStatus == stripe.CheckoutSessionPaymentStatusPaid, nil
}
