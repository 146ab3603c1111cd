package manager

import (
	"context"

	"github.com/ohjain/ohjain/providers"
	"github.com/ohjain/ohjain/types"
)

// Manage is the one-call surface: it builds a provider from the request's
// credentials, executes the (possibly inferred) action and returns the
// result. The provider name must be registered; callers import the
// backend package for that.
func Manage(ctx context.Context, req types.Request, opts ...Option) types.Result {
	req.Normalize()
	action := req.Resolve()

	if err := req.Validate(); err != nil {
		return types.Failed(action, err)
	}

	provider, err := providers.GetProvider(ctx, "aws", providers.ProviderConfig{
		Region:          req.Region,
		AccessKeyID:     req.AccessKey,
		SecretAccessKey: req.SecretKey,
	})
	if err != nil {
		return types.Failed(action, err)
	}

	return New(provider, opts...).Manage(ctx, req)
}
