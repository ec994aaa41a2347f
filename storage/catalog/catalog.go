package catalog

import (
	"context"

	"github.com/kylycht/apex/model"
	"github.com/kylycht/apex/storage"
)

// Static serves the built-in currency table
type Static struct{}

func New() storage.Catalog {
	return Static{}
}

// Load implements storage.Catalog.
func (Static) Load(context.Context) ([]model.CurrencyDescriptor, error) {
	return append([]model.CurrencyDescriptor(nil), model.Currencies...), nil
}
