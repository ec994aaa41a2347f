package converter_test

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/kylycht/apex/controller/converter"
	"github.com/kylycht/apex/model"
	"github.com/kylycht/apex/service"
	"github.com/kylycht/apex/storage/cache"
	"github.com/kylycht/apex/widget"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newApp(t *testing.T, src service.RateSource) *fiber.App {
	t.Helper()

	registry := cache.New(0, 0)
	t.Cleanup(registry.Close)

	factory := func() *widget.Controller {
		return widget.New(src, model.Currencies, widget.WithLocation(time.UTC))
	}

	app := fiber.New(fiber.Config{ErrorHandler: converter.ErrorHandler})
	converter.New(registry, factory, model.Currencies).Register(app.Group("/api"))

	return app
}

func okSource() service.RateSource {
	return service.RateSourceFunc(func(context.Context, model.CurrencyCode) (model.Rates, error) {
		return model.Rates{
			Table:     model.RateTable{"USD": 1, "CNY": 7.1, "EUR": 0.92},
			UpdatedAt: time.Date(2025, 1, 2, 3, 4, 5, 0, time.UTC),
		}, nil
	})
}

func do(t *testing.T, app *fiber.App, method, target, body string, out any) int {
	t.Helper()

	var r io.Reader
	if body != "" {
		r = strings.NewReader(body)
	}
	req := httptest.NewRequest(method, target, r)
	if body != "" {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := app.Test(req, -1)
	require.NoError(t, err)
	defer resp.Body.Close()

	if out != nil {
		require.NoError(t, json.NewDecoder(resp.Body).Decode(out))
	}

	return resp.StatusCode
}

func mount(t *testing.T, app *fiber.App) converter.MountResponse {
	t.Helper()

	var m converter.MountResponse
	require.Equal(t, http.StatusCreated, do(t, app, http.MethodPost, "/api/widgets?wait=true", "", &m))
	require.NotEmpty(t, m.ID)

	return m
}

func TestCurrencies(t *testing.T) {
	app := newApp(t, okSource())

	var got []model.CurrencyDescriptor
	assert.Equal(t, http.StatusOK, do(t, app, http.MethodGet, "/api/currencies", "", &got))
	assert.Equal(t, model.Currencies, got)
}

func TestWidgetFlow(t *testing.T) {
	app := newApp(t, okSource())
	m := mount(t, app)
	base := "/api/widgets/" + m.ID

	assert.Equal(t, "ready", m.Widget.Status)
	assert.Equal(t, "7.1000", m.Widget.AmountB)
	assert.Equal(t, "1 USD ≈ 7.1000 CNY", m.Widget.UnitRate)

	var v widget.View
	require.Equal(t, http.StatusOK, do(t, app, http.MethodPut, base+"/amount-b", `{"value":"71"}`, &v))
	assert.Equal(t, "10.0000", v.AmountA)

	require.Equal(t, http.StatusOK, do(t, app, http.MethodPut, base+"/amount-a", `{"value":""}`, &v))
	assert.Empty(t, v.AmountB)

	require.Equal(t, http.StatusOK, do(t, app, http.MethodPut, base+"/amount-a", `{"value":"2"}`, &v))
	require.Equal(t, http.StatusOK, do(t, app, http.MethodPut, base+"/currency-b", `{"code":"eur"}`, &v))
	assert.Equal(t, model.EUR, v.CurrencyB)
	assert.Equal(t, "1.8400", v.AmountB)

	require.Equal(t, http.StatusOK, do(t, app, http.MethodPost, base+"/swap", "", &v))
	assert.Equal(t, model.EUR, v.CurrencyA)
	assert.Equal(t, model.USD, v.CurrencyB)
	assert.Equal(t, "1.8400", v.AmountA)
	assert.Equal(t, "2", v.AmountB)

	require.Equal(t, http.StatusOK, do(t, app, http.MethodPost, base+"/refresh?wait=true", "", &v))
	assert.Equal(t, "ready", v.Status)

	require.Equal(t, http.StatusOK, do(t, app, http.MethodGet, base, "", &v))
	assert.Equal(t, "2", v.AmountB)

	assert.Equal(t, http.StatusNoContent, do(t, app, http.MethodDelete, base, "", nil))
	assert.Equal(t, http.StatusNotFound, do(t, app, http.MethodGet, base, "", nil))
}

func TestFailedFetch(t *testing.T) {
	app := newApp(t, service.RateSourceFunc(func(context.Context, model.CurrencyCode) (model.Rates, error) {
		return model.Rates{}, service.InvalidResponseError("invalid-base-currency", nil)
	}))
	m := mount(t, app)

	assert.Equal(t, "failed", m.Widget.Status)
	assert.Equal(t, "invalid-base-currency", m.Widget.Error)
	assert.Empty(t, m.Widget.UnitRate)
}

func TestBadRequests(t *testing.T) {
	app := newApp(t, okSource())
	m := mount(t, app)
	base := "/api/widgets/" + m.ID

	var e converter.ErrorResponse
	assert.Equal(t, http.StatusBadRequest, do(t, app, http.MethodPut, base+"/currency-a", `{"code":"BTC"}`, &e))
	assert.Contains(t, e.Error, "unsupported currency")

	assert.Equal(t, http.StatusBadRequest, do(t, app, http.MethodPut, base+"/amount-a", `{"value":`, nil))
	assert.Equal(t, http.StatusNotFound, do(t, app, http.MethodPut, "/api/widgets/missing/amount-a", `{"value":"1"}`, nil))
	assert.Equal(t, http.StatusNotFound, do(t, app, http.MethodDelete, "/api/widgets/missing", "", nil))
}
