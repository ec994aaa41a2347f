package converter

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/kylycht/apex/model"
	"github.com/kylycht/apex/storage"
	"github.com/kylycht/apex/widget"
	"github.com/rs/zerolog/log"
)

const maxWait = 15 * time.Second

// Factory builds a new, unmounted widget
type Factory func() *widget.Controller

func New(registry storage.Registry, newWidget Factory, currencies []model.CurrencyDescriptor) *Converter {
	return &Converter{
		registry:   registry,
		newWidget:  newWidget,
		currencies: currencies,
	}
}

type Converter struct {
	registry   storage.Registry           // mounted widget sessions
	newWidget  Factory                    // builds a widget per mount
	currencies []model.CurrencyDescriptor // selectable currencies
}

// MountResponse is returned when a widget is mounted
type MountResponse struct {
	ID     string      `json:"id"`
	Widget widget.View `json:"widget"`
}

// AmountRequest carries the raw text of an amount field
type AmountRequest struct {
	Value string `json:"value" example:"100"`
}

// CurrencyRequest carries a selected currency code
type CurrencyRequest struct {
	Code string `json:"code" example:"EUR"`
}

// ErrorResponse is the body of every non-2xx response
type ErrorResponse struct {
	Error string `json:"error"`
}

// Register mounts the widget routes on router
func (c *Converter) Register(router fiber.Router) {
	router.Get("/currencies", c.Currencies)

	widgets := router.Group("/widgets")
	widgets.Post("/", c.Mount)
	widgets.Get("/:id", c.View)
	widgets.Put("/:id/amount-a", c.AmountA)
	widgets.Put("/:id/amount-b", c.AmountB)
	widgets.Put("/:id/currency-a", c.CurrencyA)
	widgets.Put("/:id/currency-b", c.CurrencyB)
	widgets.Post("/:id/swap", c.Swap)
	widgets.Post("/:id/refresh", c.Refresh)
	widgets.Delete("/:id", c.Unmount)
}

// Currencies godoc
//
//	@Summary		List selectable currencies
//	@Tags			widget
//	@Produce		json
//	@Success		200	{array}	model.CurrencyDescriptor
//	@Router			/api/currencies [get]
func (c *Converter) Currencies(ctx *fiber.Ctx) error {
	return ctx.JSON(c.currencies)
}

// Mount godoc
//
//	@Summary		Mount a widget
//	@Description	creates a widget session and starts loading exchange rates
//	@Tags			widget
//	@Produce		json
//	@Param			wait	query	bool	false	"block until rates have loaded"
//	@Success		201	{object}	MountResponse
//	@Router			/api/widgets [post]
func (c *Converter) Mount(ctx *fiber.Ctx) error {
	w := c.newWidget()
	if err := w.Mount(); err != nil {
		return fail(ctx, http.StatusInternalServerError, err)
	}

	id := c.registry.Put(w)
	log.Debug().Str("id", id).Msg("widget mounted")

	if ctx.QueryBool("wait") {
		if err := wait(ctx, w); err != nil {
			return fail(ctx, http.StatusGatewayTimeout, err)
		}
	}

	return ctx.Status(http.StatusCreated).JSON(MountResponse{ID: id, Widget: w.View()})
}

// View godoc
//
//	@Summary		Current widget state
//	@Tags			widget
//	@Produce		json
//	@Param			id		path	string	true	"Widget session id"
//	@Param			wait	query	bool	false	"block until rates have loaded"
//	@Success		200	{object}	widget.View
//	@Failure		404	{object}	ErrorResponse
//	@Router			/api/widgets/{id} [get]
func (c *Converter) View(ctx *fiber.Ctx) error {
	w, err := c.registry.Get(ctx.Params("id"))
	if err != nil {
		return fail(ctx, statusOf(err), err)
	}

	if ctx.QueryBool("wait") {
		if err := wait(ctx, w); err != nil {
			return fail(ctx, http.StatusGatewayTimeout, err)
		}
	}

	return ctx.JSON(w.View())
}

// AmountA godoc
//
//	@Summary		Amount A changed
//	@Description	records the raw text of field A and derives field B
//	@Tags			widget
//	@Accept			json
//	@Produce		json
//	@Param			id		path	string			true	"Widget session id"
//	@Param			body	body	AmountRequest	true	"Raw field value"
//	@Success		200	{object}	widget.View
//	@Failure		400	{object}	ErrorResponse
//	@Failure		404	{object}	ErrorResponse
//	@Router			/api/widgets/{id}/amount-a [put]
func (c *Converter) AmountA(ctx *fiber.Ctx) error {
	return c.amount(ctx, (*widget.Controller).SetAmountA)
}

// AmountB godoc
//
//	@Summary		Amount B changed
//	@Description	records the raw text of field B and derives field A
//	@Tags			widget
//	@Accept			json
//	@Produce		json
//	@Param			id		path	string			true	"Widget session id"
//	@Param			body	body	AmountRequest	true	"Raw field value"
//	@Success		200	{object}	widget.View
//	@Failure		400	{object}	ErrorResponse
//	@Failure		404	{object}	ErrorResponse
//	@Router			/api/widgets/{id}/amount-b [put]
func (c *Converter) AmountB(ctx *fiber.Ctx) error {
	return c.amount(ctx, (*widget.Controller).SetAmountB)
}

// CurrencyA godoc
//
//	@Summary		Currency A changed
//	@Tags			widget
//	@Accept			json
//	@Produce		json
//	@Param			id		path	string			true	"Widget session id"
//	@Param			body	body	CurrencyRequest	true	"Currency code"
//	@Success		200	{object}	widget.View
//	@Failure		400	{object}	ErrorResponse
//	@Failure		404	{object}	ErrorResponse
//	@Router			/api/widgets/{id}/currency-a [put]
func (c *Converter) CurrencyA(ctx *fiber.Ctx) error {
	return c.currency(ctx, (*widget.Controller).SetCurrencyA)
}

// CurrencyB godoc
//
//	@Summary		Currency B changed
//	@Tags			widget
//	@Accept			json
//	@Produce		json
//	@Param			id		path	string			true	"Widget session id"
//	@Param			body	body	CurrencyRequest	true	"Currency code"
//	@Success		200	{object}	widget.View
//	@Failure		400	{object}	ErrorResponse
//	@Failure		404	{object}	ErrorResponse
//	@Router			/api/widgets/{id}/currency-b [put]
func (c *Converter) CurrencyB(ctx *fiber.Ctx) error {
	return c.currency(ctx, (*widget.Controller).SetCurrencyB)
}

// Swap godoc
//
//	@Summary		Swap currencies and amounts
//	@Tags			widget
//	@Produce		json
//	@Param			id	path	string	true	"Widget session id"
//	@Success		200	{object}	widget.View
//	@Failure		404	{object}	ErrorResponse
//	@Router			/api/widgets/{id}/swap [post]
func (c *Converter) Swap(ctx *fiber.Ctx) error {
	w, err := c.registry.Get(ctx.Params("id"))
	if err != nil {
		return fail(ctx, statusOf(err), err)
	}

	if err := w.Swap(); err != nil {
		return fail(ctx, statusOf(err), err)
	}

	return ctx.JSON(w.View())
}

// Refresh godoc
//
//	@Summary		Reload exchange rates
//	@Description	discards the current rates and fetches them again
//	@Tags			widget
//	@Produce		json
//	@Param			id		path	string	true	"Widget session id"
//	@Param			wait	query	bool	false	"block until rates have loaded"
//	@Success		200	{object}	widget.View
//	@Failure		404	{object}	ErrorResponse
//	@Router			/api/widgets/{id}/refresh [post]
func (c *Converter) Refresh(ctx *fiber.Ctx) error {
	w, err := c.registry.Get(ctx.Params("id"))
	if err != nil {
		return fail(ctx, statusOf(err), err)
	}

	if err := w.Refresh(); err != nil {
		return fail(ctx, statusOf(err), err)
	}

	if ctx.QueryBool("wait") {
		if err := wait(ctx, w); err != nil {
			return fail(ctx, http.StatusGatewayTimeout, err)
		}
	}

	return ctx.JSON(w.View())
}

// Unmount godoc
//
//	@Summary		Unmount a widget
//	@Tags			widget
//	@Param			id	path	string	true	"Widget session id"
//	@Success		204
//	@Failure		404	{object}	ErrorResponse
//	@Router			/api/widgets/{id} [delete]
func (c *Converter) Unmount(ctx *fiber.Ctx) error {
	id := ctx.Params("id")
	if err := c.registry.Delete(id); err != nil {
		return fail(ctx, statusOf(err), err)
	}

	log.Debug().Str("id", id).Msg("widget unmounted")
	return ctx.SendStatus(http.StatusNoContent)
}

func (c *Converter) amount(ctx *fiber.Ctx, set func(*widget.Controller, string) error) error {
	w, err := c.registry.Get(ctx.Params("id"))
	if err != nil {
		return fail(ctx, statusOf(err), err)
	}

	var req AmountRequest
	if err := ctx.BodyParser(&req); err != nil {
		return fail(ctx, http.StatusBadRequest, err)
	}

	if err := set(w, req.Value); err != nil {
		return fail(ctx, statusOf(err), err)
	}

	return ctx.JSON(w.View())
}

func (c *Converter) currency(ctx *fiber.Ctx, set func(*widget.Controller, model.CurrencyCode) error) error {
	w, err := c.registry.Get(ctx.Params("id"))
	if err != nil {
		return fail(ctx, statusOf(err), err)
	}

	var req CurrencyRequest
	if err := ctx.BodyParser(&req); err != nil {
		return fail(ctx, http.StatusBadRequest, err)
	}

	code, err := model.ParseCurrencyCode(req.Code)
	if err != nil {
		return fail(ctx, http.StatusBadRequest, err)
	}

	if err := set(w, code); err != nil {
		return fail(ctx, statusOf(err), err)
	}

	return ctx.JSON(w.View())
}

// ErrorHandler renders errors that escape handlers, such as
// unknown routes or rejected requests, as ErrorResponse
func ErrorHandler(ctx *fiber.Ctx, err error) error {
	var fe *fiber.Error
	if errors.As(err, &fe) {
		return ctx.Status(fe.Code).JSON(ErrorResponse{Error: fe.Message})
	}

	log.Error().Err(err).Str("path", ctx.Path()).Msg("unhandled error")
	return ctx.Status(http.StatusInternalServerError).JSON(ErrorResponse{Error: "internal server error"})
}

func wait(ctx *fiber.Ctx, w *widget.Controller) error {
	waitCtx, cancel := context.WithTimeout(ctx.UserContext(), maxWait)
	defer cancel()

	return w.Wait(waitCtx)
}

func fail(ctx *fiber.Ctx, status int, err error) error {
	return ctx.Status(status).JSON(ErrorResponse{Error: err.Error()})
}

func statusOf(err error) int {
	switch {
	case errors.Is(err, storage.ErrNotFound), errors.Is(err, widget.ErrClosed):
		return http.StatusNotFound
	default:
		return http.StatusBadRequest
	}
}
