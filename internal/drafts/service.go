// Package drafts exposes the product-research drafting use-cases: each one
// pairs a feature-authored system instruction with end-user input and
// dispatches it to the engine that suits the task.
package drafts

import (
	"context"
	"fmt"
	"strings"

	"launchpad/internal/core"
	"launchpad/internal/dispatch"
)

// Dispatcher is the slice of the dispatch layer this service needs.
type Dispatcher interface {
	Dispatch(ctx context.Context, req dispatch.Request) (*dispatch.Result, error)
}

// Service turns drafting requests into dispatch calls.
type Service struct {
	dispatcher Dispatcher
}

// NewService creates a drafting service on top of a dispatcher.
func NewService(d Dispatcher) *Service {
	return &Service{dispatcher: d}
}

// Generate produces one draft of the given kind from the user's input.
// Input presence is enforced here — the adapter below never sees an empty
// user prompt from this path.
func (s *Service) Generate(ctx context.Context, kind Kind, input string) (*dispatch.Result, error) {
	spec, ok := draftSpecs[kind]
	if !ok {
		return nil, core.NewInvalidRequestError(fmt.Sprintf("unknown draft kind: %q", kind), nil)
	}
	input = strings.TrimSpace(input)
	if input == "" {
		return nil, core.NewInvalidRequestError("input is required: describe the product or paste the project details", nil)
	}

	temperature := spec.temperature
	maxTokens := spec.maxTokens
	return s.dispatcher.Dispatch(ctx, dispatch.Request{
		Engine:       spec.engine,
		SystemPrompt: spec.system,
		UserPrompt:   input,
		Temperature:  &temperature,
		MaxTokens:    &maxTokens,
	})
}

// Canvas drafts a business-model canvas from an idea description.
func (s *Service) Canvas(ctx context.Context, idea string) (*dispatch.Result, error) {
	return s.Generate(ctx, KindCanvas, idea)
}

// CompetitorAnalysis drafts a competitor analysis for a product niche.
func (s *Service) CompetitorAnalysis(ctx context.Context, niche string) (*dispatch.Result, error) {
	return s.Generate(ctx, KindCompetitors, niche)
}

// GateReview drafts a go/no-go assessment from project data.
func (s *Service) GateReview(ctx context.Context, projectData string) (*dispatch.Result, error) {
	return s.Generate(ctx, KindGateReview, projectData)
}

// MarketingCopy drafts launch copy for a named product and its selling points.
// Both fields are required; they are composed into a single user prompt.
func (s *Service) MarketingCopy(ctx context.Context, productName, features string) (*dispatch.Result, error) {
	if strings.TrimSpace(productName) == "" || strings.TrimSpace(features) == "" {
		return nil, core.NewInvalidRequestError("product name and features are both required", nil)
	}
	return s.Generate(ctx, KindMarketingCopy, fmt.Sprintf("Product: %s\nFeatures: %s", productName, features))
}

// Storyboard drafts a launch video storyboard from a product description.
func (s *Service) Storyboard(ctx context.Context, description string) (*dispatch.Result, error) {
	return s.Generate(ctx, KindStoryboard, description)
}

// RiskAudit drafts a launch risk audit from a product description.
func (s *Service) RiskAudit(ctx context.Context, description string) (*dispatch.Result, error) {
	return s.Generate(ctx, KindRiskAudit, description)
}
