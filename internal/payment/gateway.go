// Package payment wraps the external payment capability behind a small
// interface so the settlement workflow can be exercised without the real
// gateway. Amounts cross this boundary in minor units (cents).
package payment

import "context"

// Intent is the gateway's handle for a payment attempt. ClientSecret is
// opaque to this service and handed straight to the client, which completes
// the payment against the gateway directly.
type Intent struct {
	ID           string
	ClientSecret string
}

// StatusSucceeded is the gateway status required before a booking may be
// settled.
const StatusSucceeded = "succeeded"

// Gateway is the consumed surface of the payment provider.
type Gateway interface {
	// CreateIntent registers a payment attempt for the given amount in
	// minor units and returns its handle.
	CreateIntent(ctx context.Context, amountMinor int64, currency string, metadata map[string]string) (Intent, error)

	// Retrieve returns the current gateway status of an intent.
	Retrieve(ctx context.Context, id string) (string, error)
}
