// Package payment drives the subscription purchase: obtaining a client-secret
// from the backend's intent function, presenting the provider's payment UI,
// and recording the activated subscription.
package payment

import "context"

// SheetConfig configures one payment attempt.
type SheetConfig struct {
	MerchantDisplayName string
	ClientSecret        string
	// AllowsDelayedPaymentMethods accepts payment methods that settle after
	// the sheet closes (e.g. bank debits).
	AllowsDelayedPaymentMethods bool
}

// Sheet is the platform payment UI. Init validates configuration without side
// effects; Present blocks the calling flow until the user completes or
// abandons the payment.
type Sheet interface {
	Init(cfg SheetConfig) error
	Present(ctx context.Context) error
}
