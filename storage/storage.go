package storage

import (
	"context"
	"errors"

	"github.com/kylycht/apex/model"
	"github.com/kylycht/apex/widget"
)

// ErrNotFound is returned for unknown session ids
var ErrNotFound = errors.New("storage: widget session not found")

// Catalog interface describes the source
// of selectable currencies
type Catalog interface {
	// Load returns the selectable currencies
	// in display order
	Load(ctx context.Context) ([]model.CurrencyDescriptor, error)
}

// Registry interface describes non-persistent
// storage of mounted widget sessions
type Registry interface {
	// Put stores a mounted widget
	// and returns its session id
	Put(w *widget.Controller) string

	// Get returns the widget for id
	// and marks the session as used
	Get(id string) (*widget.Controller, error)

	// Delete unmounts and forgets the widget
	Delete(id string) error

	// Len returns the number of mounted widgets
	Len() int

	// Close unmounts every widget and stops housekeeping
	Close()
}
