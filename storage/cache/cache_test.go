package cache

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/kylycht/apex/model"
	"github.com/kylycht/apex/service"
	"github.com/kylycht/apex/storage"
	"github.com/kylycht/apex/widget"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type clock struct {
	mu  sync.Mutex
	now time.Time
}

func (c *clock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.now
}

func (c *clock) Advance(d time.Duration) {
	c.mu.Lock()
	c.now = c.now.Add(d)
	c.mu.Unlock()
}

func newWidget(t *testing.T) *widget.Controller {
	t.Helper()

	src := service.RateSourceFunc(func(context.Context, model.CurrencyCode) (model.Rates, error) {
		return model.Rates{Table: model.RateTable{"USD": 1, "CNY": 7.1}, UpdatedAt: time.Now()}, nil
	})
	w := widget.New(src, nil)
	require.NoError(t, w.Mount())
	require.NoError(t, w.Wait(t.Context()))

	return w
}

func TestPutGetDelete(t *testing.T) {
	var sizes []int
	m := newCache(time.Minute, WithSizeObserver(func(n int) { sizes = append(sizes, n) }))
	defer m.Close()

	w := newWidget(t)
	id := m.Put(w)
	require.NotEmpty(t, id)
	assert.Equal(t, 1, m.Len())

	got, err := m.Get(id)
	require.NoError(t, err)
	assert.Same(t, w, got)

	require.NoError(t, m.Delete(id))
	assert.Equal(t, 0, m.Len())
	assert.ErrorIs(t, w.SetAmountA("1"), widget.ErrClosed)

	_, err = m.Get(id)
	assert.ErrorIs(t, err, storage.ErrNotFound)
	assert.ErrorIs(t, m.Delete(id), storage.ErrNotFound)

	assert.Equal(t, []int{1, 0}, sizes)
}

func TestSweep(t *testing.T) {
	clk := &clock{now: time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)}
	m := newCache(10*time.Minute, WithClock(clk.Now))
	defer m.Close()

	idle := newWidget(t)
	active := newWidget(t)
	idleID := m.Put(idle)
	activeID := m.Put(active)

	clk.Advance(6 * time.Minute)
	_, err := m.Get(activeID)
	require.NoError(t, err)

	clk.Advance(6 * time.Minute)
	assert.Equal(t, 1, m.sweep())

	_, err = m.Get(idleID)
	assert.ErrorIs(t, err, storage.ErrNotFound)
	assert.ErrorIs(t, idle.SetAmountA("1"), widget.ErrClosed)

	_, err = m.Get(activeID)
	assert.NoError(t, err)
}

func TestClose(t *testing.T) {
	m := New(time.Minute, 10*time.Millisecond)

	w := newWidget(t)
	m.Put(w)
	m.Close()
	m.Close()

	assert.Equal(t, 0, m.Len())
	assert.ErrorIs(t, w.Swap(), widget.ErrClosed)
}
