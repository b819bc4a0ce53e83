package model

import (
	"strings"

	"service-sales-platform/internal/domain"
)

// Plan is the canonical service tier a lead can buy.
type Plan string

const (
	PlanBasic Plan = "Basic"
	PlanPro   Plan = "Pro"
	PlanPlus  Plan = "Plus"
)

// planLabels maps the labels accepted from the funnel UI onto canonical plans.
// The marketing site historically used starter/growth/full.
var planLabels = map[string]Plan{
	"starter": PlanBasic,
	"basic":   PlanBasic,
	"growth":  PlanPro,
	"pro":     PlanPro,
	"full":    PlanPlus,
	"plus":    PlanPlus,
}

// ResolvePlan maps a user-supplied plan label to a canonical Plan.
func ResolvePlan(label string) (Plan, error) {
	p, ok := planLabels[strings.ToLower(strings.TrimSpace(label))]
	if !ok {
		return "", domain.ErrInvalidPlan
	}
	return p, nil
}
