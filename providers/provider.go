package providers

import (
	"context"
	"fmt"

	"github.com/ohjain/ohjain/types"
)

// InstanceProvider is the management surface every cloud backend
// implements. All mutation semantics live behind it.
type InstanceProvider interface {
	Create(ctx context.Context, spec types.InstanceSpec) (*types.Instance, error)
	Update(ctx context.Context, id string, spec types.InstanceSpec) (*types.Instance, error)
	Delete(ctx context.Context, id string) error
	Get(ctx context.Context, id string) (*types.Instance, error)
	List(ctx context.Context) ([]types.Instance, error)

	Name() string
	Region() string
}

// ProviderConfig holds the settings a factory needs to build a provider.
type ProviderConfig struct {
	Region          string
	AccessKeyID     string
	SecretAccessKey string
	SessionToken    string
}

// ProviderFactory creates a provider instance.
type ProviderFactory func(ctx context.Context, config ProviderConfig) (InstanceProvider, error)

var factories = make(map[string]ProviderFactory)

// RegisterProvider registers a new provider factory.
func RegisterProvider(name string, factory ProviderFactory) {
	factories[name] = factory
}

// GetProvider creates a provider instance by name.
func GetProvider(ctx context.Context, name string, config ProviderConfig) (InstanceProvider, error) {
	factory, exists := factories[name]
	if !exists {
		return nil, fmt.Errorf("provider %s not found", name)
	}
	return factory(ctx, config)
}

// ListProviders returns available provider names.
func ListProviders() []string {
	names := make([]string, 0, len(factories))
	for name := range factories {
		names = append(names, name)
	}
	return names
}
