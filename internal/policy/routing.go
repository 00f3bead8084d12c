// Package policy assigns handling teams to tickets with an OPA policy.
package policy

import (
	"context"
	"fmt"

	"github.com/open-policy-agent/opa/rego"

	"github.com/GeorgeJbara/prod-comp-assistant/internal/domain"
)

// DefaultTeam is assigned when the policy yields nothing usable.
const DefaultTeam = "Customer Service"

// Router evaluates the team routing policy.
type Router struct {
	query rego.PreparedEvalQuery
}

// NewRouter prepares the routing policy. The module must define
// data.ticket_routing.team.
func NewRouter(ctx context.Context, policyContent string) (*Router, error) {
	r := rego.New(
		rego.Query("data.ticket_routing.team"),
		rego.Module("ticket_routing.rego", policyContent),
	)

	query, err := r.PrepareForEval(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to prepare rego: %w", err)
	}

	return &Router{query: query}, nil
}

// NewDefaultRouter prepares DefaultRoutingPolicy.
func NewDefaultRouter(ctx context.Context) (*Router, error) {
	return NewRouter(ctx, DefaultRoutingPolicy)
}

// AssignTeam returns the team that handles tickets of the given priority.
func (r *Router) AssignTeam(ctx context.Context, priority domain.Priority) (string, error) {
	results, err := r.query.Eval(ctx, rego.EvalInput(map[string]interface{}{
		"priority": string(priority),
	}))
	if err != nil {
		return "", fmt.Errorf("failed to evaluate policy: %w", err)
	}

	if len(results) == 0 || len(results[0].Expressions) == 0 {
		return DefaultTeam, nil
	}
	if team, ok := results[0].Expressions[0].Value.(string); ok && team != "" {
		return team, nil
	}
	return DefaultTeam, nil
}

// DefaultRoutingPolicy maps priorities to teams.
const DefaultRoutingPolicy = `
package ticket_routing

import rego.v1

default team := "Customer Service"

teams := {
	"CRITICAL": "Emergency Response",
	"HIGH": "Priority Support",
	"MEDIUM": "Customer Service",
	"LOW": "General Support",
}

team := t if {
	t := teams[input.priority]
}
`
