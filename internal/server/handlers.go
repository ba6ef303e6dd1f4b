// Package server provides the HTTP surface over the dispatch layer.
package server

import (
	"context"
	"errors"
	"net/http"

	"github.com/labstack/echo/v4"

	"launchpad/internal/core"
	"launchpad/internal/dispatch"
	"launchpad/internal/drafts"
)

// Dispatcher routes a prompt pair to a provider and normalizes the result.
type Dispatcher interface {
	Dispatch(ctx context.Context, req dispatch.Request) (*dispatch.Result, error)
}

// Drafter generates the built-in draft documents.
type Drafter interface {
	Generate(ctx context.Context, kind drafts.Kind, input string) (*dispatch.Result, error)
	MarketingCopy(ctx context.Context, productName, features string) (*dispatch.Result, error)
}

// Handler holds the HTTP handlers.
type Handler struct {
	dispatcher Dispatcher
	drafter    Drafter
}

// NewHandler creates a handler over the given dispatch and drafts services.
func NewHandler(dispatcher Dispatcher, drafter Drafter) *Handler {
	return &Handler{
		dispatcher: dispatcher,
		drafter:    drafter,
	}
}

// dispatchRequest is the POST /v1/dispatch body.
type dispatchRequest struct {
	Engine       string   `json:"engine"`
	Model        string   `json:"model"`
	SystemPrompt string   `json:"system_prompt"`
	UserPrompt   string   `json:"user_prompt"`
	Temperature  *float64 `json:"temperature"`
	MaxTokens    *int     `json:"max_tokens"`
}

// Dispatch handles POST /v1/dispatch.
func (h *Handler) Dispatch(c echo.Context) error {
	var req dispatchRequest
	if err := c.Bind(&req); err != nil {
		return handleError(c, core.NewInvalidRequestError("invalid request body: "+err.Error(), err))
	}
	if req.UserPrompt == "" {
		return handleError(c, core.NewInvalidRequestError("user_prompt is required", nil))
	}

	result, err := h.dispatcher.Dispatch(c.Request().Context(), dispatch.Request{
		Engine:       req.Engine,
		Model:        req.Model,
		SystemPrompt: req.SystemPrompt,
		UserPrompt:   req.UserPrompt,
		Temperature:  req.Temperature,
		MaxTokens:    req.MaxTokens,
	})
	if err != nil {
		return handleError(c, err)
	}
	return c.JSON(http.StatusOK, result)
}

// draftRequest is the POST /v1/drafts/:kind body. Input carries the idea,
// niche, or project data; marketing-copy takes product_name and features.
type draftRequest struct {
	Input       string `json:"input"`
	ProductName string `json:"product_name"`
	Features    string `json:"features"`
}

// Draft handles POST /v1/drafts/:kind.
func (h *Handler) Draft(c echo.Context) error {
	kind, ok := drafts.ParseKind(c.Param("kind"))
	if !ok {
		return handleError(c, core.NewInvalidRequestError("unknown draft kind: "+c.Param("kind"), nil))
	}

	var req draftRequest
	if err := c.Bind(&req); err != nil {
		return handleError(c, core.NewInvalidRequestError("invalid request body: "+err.Error(), err))
	}

	var result *dispatch.Result
	var err error
	if kind == drafts.KindMarketingCopy {
		result, err = h.drafter.MarketingCopy(c.Request().Context(), req.ProductName, req.Features)
	} else {
		result, err = h.drafter.Generate(c.Request().Context(), kind, req.Input)
	}
	if err != nil {
		return handleError(c, err)
	}
	return c.JSON(http.StatusOK, result)
}

// ListDraftKinds handles GET /v1/drafts.
func (h *Handler) ListDraftKinds(c echo.Context) error {
	return c.JSON(http.StatusOK, map[string][]drafts.Kind{"kinds": drafts.Kinds()})
}

// Health handles GET /health.
func (h *Handler) Health(c echo.Context) error {
	return c.JSON(http.StatusOK, map[string]string{"status": "ok"})
}

// handleError converts dispatch errors to appropriate HTTP responses.
func handleError(c echo.Context, err error) error {
	var dispatchErr *core.DispatchError
	if errors.As(err, &dispatchErr) {
		return c.JSON(dispatchErr.HTTPStatusCode(), dispatchErr.ToJSON())
	}

	return c.JSON(http.StatusInternalServerError, map[string]interface{}{
		"error": map[string]interface{}{
			"type":    "internal_error",
			"message": "an unexpected error occurred",
		},
	})
}
