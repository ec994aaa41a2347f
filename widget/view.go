package widget

import (
	"fmt"
	"time"

	"github.com/kylycht/apex/conversion"
	"github.com/kylycht/apex/model"
)

// View is everything the page needs to render the widget
type View struct {
	AmountA     string                     `json:"amount_a"`
	AmountB     string                     `json:"amount_b"`
	CurrencyA   model.CurrencyCode         `json:"currency_a"`
	CurrencyB   model.CurrencyCode         `json:"currency_b"`
	Currencies  []model.CurrencyDescriptor `json:"currencies"`
	Status      string                     `json:"status"`
	Loading     bool                       `json:"loading"`
	Error       string                     `json:"error,omitempty"`
	UpdatedAt   *time.Time                 `json:"updated_at,omitempty"`
	LastUpdated string                     `json:"last_updated,omitempty"`
	UnitRate    string                     `json:"unit_rate,omitempty"` // e.g. "1 USD ≈ 7.1000 CNY"
}

// View returns a snapshot of the widget.
// The unit rate line is only filled in once rates are Ready.
func (c *Controller) View() View {
	c.mu.Lock()
	defer c.mu.Unlock()

	v := View{
		AmountA:    c.state.AmountA,
		AmountB:    c.state.AmountB,
		CurrencyA:  c.state.CurrencyA,
		CurrencyB:  c.state.CurrencyB,
		Currencies: append([]model.CurrencyDescriptor(nil), c.catalog...),
		Status:     c.status.Phase.String(),
		Loading:    c.status.Phase == model.Loading,
	}

	switch c.status.Phase {
	case model.Failed:
		v.Error = c.status.Reason
	case model.Ready:
		updated := c.status.UpdatedAt
		v.UpdatedAt = &updated
		v.LastUpdated = updated.In(c.loc).Format(timestampLayout)
		v.UnitRate = fmt.Sprintf("1 %s ≈ %s %s",
			c.state.CurrencyA,
			conversion.FormatUnitRate(c.table, c.state.CurrencyA, c.state.CurrencyB),
			c.state.CurrencyB,
		)
	}

	return v
}
