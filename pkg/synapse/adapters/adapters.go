// Package adapters mounts webhook ingestion onto popular Go web
// frameworks. Each adapter wires a synapse.WebhookHandler into one
// framework's router and exposes a uniform lifecycle, so applications can
// pick a framework at startup without changing their event code.
package adapters

import "context"

// Adapter is the contract webhook server implementations satisfy
type Adapter interface {
	// Webhook mounting
	Mount(prefix string)

	// Server lifecycle
	Start(addr string) error
	Stop(ctx context.Context) error

	// Server information
	Name() string
}
