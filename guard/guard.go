// Package guard gates destructive operations behind a rego policy.
package guard

import (
	"context"
	_ "embed"
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/open-policy-agent/opa/v1/rego"

	"github.com/ohjain/ohjain/types"
)

//go:embed default.rego
var defaultPolicy string

// ErrDenied reports a policy denial.
var ErrDenied = errors.New("denied by guard policy")

// Guard evaluates destructive actions against a compiled rego policy.
type Guard struct {
	query         rego.PreparedEvalQuery
	protectedTags []string
}

// checkInput is what the policy sees.
type checkInput struct {
	Action        string     `json:"action"`
	InstanceID    string     `json:"instance_id"`
	Tags          types.Tags `json:"tags"`
	ProtectedTags []string   `json:"protected_tags"`
}

// New compiles the built-in policy.
func New(ctx context.Context, protectedTags []string) (*Guard, error) {
	return NewWithPolicy(ctx, "default.rego", defaultPolicy, protectedTags)
}

// NewFromFile compiles a policy loaded from disk.
func NewFromFile(ctx context.Context, path string, protectedTags []string) (*Guard, error) {
	source, err := os.ReadFile(path) // #nosec G304 -- path is intentional user input
	if err != nil {
		return nil, fmt.Errorf("failed to read policy file: %w", err)
	}
	return NewWithPolicy(ctx, path, string(source), protectedTags)
}

// NewWithPolicy compiles the given rego source.
func NewWithPolicy(ctx context.Context, name, source string, protectedTags []string) (*Guard, error) {
	query, err := rego.New(
		rego.Query("data.ohjain.guard.deny"),
		rego.Module(name, source),
	).PrepareForEval(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to compile guard policy: %w", err)
	}

	return &Guard{
		query:         query,
		protectedTags: protectedTags,
	}, nil
}

// Check evaluates the policy for an action on an instance. A nil instance
// means no metadata could be fetched; the policy then has nothing to deny
// on and the action proceeds.
func (g *Guard) Check(ctx context.Context, action string, instance *types.Instance) error {
	input := checkInput{
		Action:        action,
		ProtectedTags: g.protectedTags,
	}
	if instance != nil {
		input.InstanceID = instance.ID
		input.Tags = instance.Tags
	}

	results, err := g.query.Eval(ctx, rego.EvalInput(input))
	if err != nil {
		return fmt.Errorf("guard evaluation failed: %w", err)
	}

	reasons := denyReasons(results)
	if len(reasons) > 0 {
		return fmt.Errorf("%w: %s", ErrDenied, strings.Join(reasons, "; "))
	}
	return nil
}

func denyReasons(results rego.ResultSet) []string {
	var reasons []string
	for _, result := range results {
		for _, expr := range result.Expressions {
			values, ok := expr.Value.([]any)
			if !ok {
				continue
			}
			for _, value := range values {
				if msg, ok := value.(string); ok {
					reasons = append(reasons, msg)
				}
			}
		}
	}
	return reasons
}
