package drafts

import (
	"sort"

	"launchpad/internal/dispatch"
)

// Kind names one drafting use-case. Each kind is hard-bound to an engine and
// carries its own system instruction and tuning parameters.
type Kind string

const (
	KindCanvas        Kind = "canvas"
	KindCompetitors   Kind = "competitor-analysis"
	KindGateReview    Kind = "gate-review"
	KindMarketingCopy Kind = "marketing-copy"
	KindStoryboard    Kind = "storyboard"
	KindRiskAudit     Kind = "risk-audit"
)

// draftSpec pins the prompt, engine, and tuning for one kind. Generation-heavy
// kinds run on the fast engine; analysis-heavy kinds run on the reasoning one.
type draftSpec struct {
	system      string
	engine      string
	temperature float64
	maxTokens   int
}

var draftSpecs = map[Kind]draftSpec{
	KindCanvas: {
		system: "You are a startup expert. Generate a Business Model Canvas based on the user's idea. " +
			"Output a clean, structured Markdown response with sections: Target Audience, Value Proposition, " +
			"Channels, Revenue Streams, Cost Structure.",
		engine:      dispatch.EngineFast,
		temperature: 0.7,
		maxTokens:   1500,
	},
	KindCompetitors: {
		system: "You are a Senior Market Researcher. Analyze the given niche. Identify 3 potential competitors, " +
			"their strengths, weaknesses, and a potential market gap for a new entrant. Use deep reasoning.",
		engine:      dispatch.EngineReasoning,
		temperature: 0.7,
		maxTokens:   2000,
	},
	KindGateReview: {
		system: "You are a Stage-Gate review board AI. Analyze the project details. Assess Market Attractiveness, " +
			"Technical Feasibility, and Risk. Give a GO or NO-GO recommendation with 3 bullet points.",
		engine:      dispatch.EngineReasoning,
		temperature: 0.6,
		maxTokens:   1500,
	},
	KindMarketingCopy: {
		system: "You are a master copywriter. Create a compelling landing page headline, a subheadline, " +
			"and 3 bullet points for a launch campaign.",
		engine:      dispatch.EngineFast,
		temperature: 0.7,
		maxTokens:   1024,
	},
	KindStoryboard: {
		system: "You are a product storyteller. Draft a 6-panel launch video storyboard for the described product: " +
			"one line of voiceover and one visual direction per panel.",
		engine:      dispatch.EngineFast,
		temperature: 0.7,
		maxTokens:   1500,
	},
	KindRiskAudit: {
		system: "You are a risk auditor for new product launches. List the top operational, market, and technical " +
			"risks for the described product, each with likelihood, impact, and one mitigation. Use deep reasoning.",
		engine:      dispatch.EngineReasoning,
		temperature: 0.6,
		maxTokens:   2000,
	},
}

// Kinds returns all supported draft kinds, sorted for stable output.
func Kinds() []Kind {
	kinds := make([]Kind, 0, len(draftSpecs))
	for k := range draftSpecs {
		kinds = append(kinds, k)
	}
	sort.Slice(kinds, func(i, j int) bool { return kinds[i] < kinds[j] })
	return kinds
}

// ParseKind validates a kind string from the wire.
func ParseKind(s string) (Kind, bool) {
	k := Kind(s)
	_, ok := draftSpecs[k]
	return k, ok
}
