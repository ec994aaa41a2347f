// Package widget implements the currency converter state machine.
//
// A Controller owns one ConversionState, one RateTable and one FetchStatus.
// Rates are fetched once on Mount, or again only when Refresh is called.
// Every callback is a single transition taken under the controller lock,
// so concurrent HTTP requests observe the same sequence a single UI thread would.
package widget

import (
	"context"
	"errors"
	"fmt"
	"maps"
	"sync"
	"time"

	"github.com/eapache/go-resiliency/deadline"
	"github.com/kylycht/apex/conversion"
	"github.com/kylycht/apex/model"
	"github.com/kylycht/apex/service"
	"github.com/rs/zerolog/log"
)

const (
	defaultFetchTimeout = 10 * time.Second
	timestampLayout     = "2006-01-02 15:04:05"
)

// ErrClosed is returned by callbacks on an unmounted widget.
var ErrClosed = errors.New("widget: unmounted")

// side marks which amount field holds the user's entered value
type side int

const (
	sideA side = iota
	sideB
)

// FetchObserver is notified after every settled fetch that was applied
type FetchObserver func(status model.FetchStatus, kind service.ErrorKind, elapsed time.Duration)

// Option configures a Controller
type Option func(*Controller)

// WithFetchTimeout bounds a single fetch. Zero disables the bound.
func WithFetchTimeout(d time.Duration) Option {
	return func(c *Controller) {
		c.timeout = d
	}
}

// WithBase sets the currency rates are requested against.
func WithBase(base model.CurrencyCode) Option {
	return func(c *Controller) {
		c.base = base
	}
}

// WithLocation sets the time zone of the last-updated label.
func WithLocation(loc *time.Location) Option {
	return func(c *Controller) {
		c.loc = loc
	}
}

// WithObserver registers fn to be called with each applied fetch outcome.
func WithObserver(fn FetchObserver) Option {
	return func(c *Controller) {
		c.observer = fn
	}
}

type Controller struct {
	source   service.RateSource         // rates provider
	catalog  []model.CurrencyDescriptor // selectable currencies
	base     model.CurrencyCode         // base currency of every fetch
	timeout  time.Duration              // upper bound of a single fetch
	loc      *time.Location             // zone of the last-updated label
	observer FetchObserver              // optional outcome hook

	mu        sync.Mutex            // guards everything below
	state     model.ConversionState // both fields
	authority side                  // field the user last typed into
	status    model.FetchStatus     // Loading | Ready | Failed
	table     model.RateTable       // non-empty iff status is Ready
	gen       uint64                // generation of the latest fetch
	cancel    context.CancelFunc    // cancels the in-flight fetch
	done      chan struct{}         // closed when the latest fetch settles
	mounted   bool                  // Mount was called
	closed    bool                  // Close was called, results are discarded
}

// New returns a controller in the Loading state with default fields.
// No request is made until Mount.
func New(source service.RateSource, catalog []model.CurrencyDescriptor, opts ...Option) *Controller {
	if len(catalog) == 0 {
		catalog = model.Currencies
	}

	done := make(chan struct{})
	close(done)

	c := &Controller{
		source:  source,
		catalog: catalog,
		base:    model.BaseCurrency,
		timeout: defaultFetchTimeout,
		loc:     time.Local,
		state:   model.DefaultConversionState(),
		status:  model.FetchStatus{Phase: model.Loading},
		done:    done,
	}
	for _, opt := range opts {
		opt(c)
	}

	return c
}

// Mount starts the initial fetch. Calling it again is a no-op.
func (c *Controller) Mount() error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.closed {
		return ErrClosed
	}
	if c.mounted {
		return nil
	}

	c.mounted = true
	c.startFetchLocked()

	return nil
}

// Refresh discards any in-flight fetch and starts a new one.
// The widget goes back to Loading until it settles.
func (c *Controller) Refresh() error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.closed {
		return ErrClosed
	}

	c.mounted = true
	c.startFetchLocked()

	return nil
}

// Wait blocks until the latest fetch has settled or ctx is done.
func (c *Controller) Wait(ctx context.Context) error {
	c.mu.Lock()
	done := c.done
	c.mu.Unlock()

	select {
	case <-done:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

// Close unmounts the widget. An in-flight fetch is cancelled and
// its result is never applied.
func (c *Controller) Close() {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.closed {
		return
	}

	c.closed = true
	if c.cancel != nil {
		c.cancel()
		c.cancel = nil
	}
}

func (c *Controller) startFetchLocked() {
	if c.cancel != nil {
		c.cancel()
	}

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})

	c.gen++
	c.cancel = cancel
	c.done = done
	c.status = model.FetchStatus{Phase: model.Loading}
	c.table = nil
	c.recomputeLocked()

	go c.run(ctx, c.gen, done)
}

func (c *Controller) run(ctx context.Context, gen uint64, done chan struct{}) {
	defer close(done)

	start := time.Now()
	rates, err := c.fetch(ctx)
	c.apply(gen, rates, err, time.Since(start))
}

func (c *Controller) fetch(ctx context.Context) (model.Rates, error) {
	if c.timeout <= 0 {
		return c.source.FetchRates(ctx, c.base)
	}

	var rates model.Rates
	err := deadline.New(c.timeout).Run(func(stopper <-chan struct{}) error {
		fetchCtx, cancel := context.WithCancel(ctx)
		defer cancel()

		go func() {
			select {
			case <-stopper:
				cancel()
			case <-fetchCtx.Done():
			}
		}()

		r, err := c.source.FetchRates(fetchCtx, c.base)
		if err != nil {
			return err
		}

		rates = r
		return nil
	})
	if errors.Is(err, deadline.ErrTimedOut) {
		return model.Rates{}, service.NetworkError("exchange rate request timed out", err)
	}
	if err != nil {
		return model.Rates{}, err
	}

	return rates, nil
}

// apply is the only transition out of Loading
func (c *Controller) apply(gen uint64, rates model.Rates, err error, elapsed time.Duration) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.closed || gen != c.gen {
		log.Debug().Uint64("gen", gen).Msg("discarding stale exchange rate result")
		return
	}
	c.cancel = nil

	var kind service.ErrorKind
	if err == nil && len(rates.Table) == 0 {
		err = service.InvalidResponseError("exchange rate response contains no rates", nil)
	}

	if err != nil {
		fe := service.AsFetchError(err)
		kind = fe.Kind
		c.table = nil
		c.status = model.FetchStatus{Phase: model.Failed, Reason: fe.Message}
		c.recomputeLocked()
		log.Error().Err(err).Str("kind", fe.Kind.String()).Msg("unable to load exchange rates")
	} else {
		c.table = maps.Clone(rates.Table)
		c.status = model.FetchStatus{Phase: model.Ready, UpdatedAt: rates.UpdatedAt}
		c.recomputeLocked()
		log.Debug().Int("rates", len(c.table)).Time("updated", rates.UpdatedAt).Msg("exchange rates ready")
	}

	if c.observer != nil {
		c.observer(c.status, kind, elapsed)
	}
}

// SetAmountA records an edit of field A and derives field B.
func (c *Controller) SetAmountA(value string) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.closed {
		return ErrClosed
	}

	c.state.AmountA = value
	c.authority = sideA
	c.recomputeLocked()

	return nil
}

// SetAmountB records an edit of field B and derives field A.
func (c *Controller) SetAmountB(value string) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.closed {
		return ErrClosed
	}

	c.state.AmountB = value
	c.authority = sideB
	c.recomputeLocked()

	return nil
}

// SetCurrencyA selects the currency of field A.
// A currency change always derives field B from field A.
func (c *Controller) SetCurrencyA(code model.CurrencyCode) error {
	return c.setCurrency(code, func(s *model.ConversionState) { s.CurrencyA = code })
}

// SetCurrencyB selects the currency of field B.
func (c *Controller) SetCurrencyB(code model.CurrencyCode) error {
	return c.setCurrency(code, func(s *model.ConversionState) { s.CurrencyB = code })
}

func (c *Controller) setCurrency(code model.CurrencyCode, set func(*model.ConversionState)) error {
	if !c.selectable(code) {
		return fmt.Errorf("currency %s is not selectable", code)
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	if c.closed {
		return ErrClosed
	}

	set(&c.state)
	c.authority = sideA
	c.recomputeLocked()

	return nil
}

// Swap exchanges both currencies and both amounts in one transition.
// The entered value moves with its amount, so nothing is recomputed.
func (c *Controller) Swap() error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.closed {
		return ErrClosed
	}

	c.state = conversion.Swap(c.state)
	if c.authority == sideA {
		c.authority = sideB
	} else {
		c.authority = sideA
	}

	return nil
}

// recomputeLocked derives the dependent field from the authoritative one.
// Outside Ready, or for an unparsable entry, the dependent field is cleared.
func (c *Controller) recomputeLocked() {
	var (
		entered = c.state.AmountA
		derived = &c.state.AmountB
		convert = conversion.ConvertForward
	)
	if c.authority == sideB {
		entered = c.state.AmountB
		derived = &c.state.AmountA
		convert = conversion.ConvertBackward
	}

	if c.status.Phase != model.Ready {
		*derived = ""
		return
	}

	out, err := convert(c.table, c.state.CurrencyA, c.state.CurrencyB, entered)
	if err != nil {
		log.Debug().Err(err).
			Str("currency_a", c.state.CurrencyA.String()).
			Str("currency_b", c.state.CurrencyB.String()).
			Msg("skipping conversion")
		*derived = ""
		return
	}

	*derived = out
}

func (c *Controller) selectable(code model.CurrencyCode) bool {
	for _, d := range c.catalog {
		if d.Code == code {
			return true
		}
	}

	return false
}

// State returns the current fields.
func (c *Controller) State() model.ConversionState {
	c.mu.Lock()
	defer c.mu.Unlock()

	return c.state
}

// Status returns the current fetch status.
func (c *Controller) Status() model.FetchStatus {
	c.mu.Lock()
	defer c.mu.Unlock()

	return c.status
}

// Rates returns a copy of the current rate table.
func (c *Controller) Rates() model.RateTable {
	c.mu.Lock()
	defer c.mu.Unlock()

	return maps.Clone(c.table)
}
