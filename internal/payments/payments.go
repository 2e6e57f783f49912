package payments

import "context"

// Session is an opaque provider checkout handle. The URL is where the
// browser gets redirected to complete payment.
type Session struct {
	ID  string
	URL string
}

// Provider is the payment boundary. Exactly two calls exist: create a
// checkout session for an application, and confirm that a session was
// actually paid (the completion path never trusts the redirect alone).
type Provider interface {
	CreateSession(ctx context.Context, applicationID, description string, amountCents int64) (*Session, error)
	ConfirmPaid(ctx context.Context, sessionID string) (bool, error)
}
