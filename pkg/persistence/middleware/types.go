// Package middleware decorates observation stores.
package middleware

import "github.com/aretw0/nvimsul/pkg/ports"

// Middleware allows wrapping an ObservationStore to add behavior.
type Middleware func(ports.ObservationStore) ports.ObservationStore

// Chain wraps store with mws; the first middleware is the outermost.
func Chain(store ports.ObservationStore, mws ...Middleware) ports.ObservationStore {
	for i := len(mws) - 1; i >= 0; i-- {
		store = mws[i](store)
	}
	return store
}
