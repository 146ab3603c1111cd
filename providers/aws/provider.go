package aws

import (
	"context"
	"fmt"
	"time"

	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/ec2"

	"github.com/ohjain/ohjain/providers"
)

// How long we wait for an instance to reach its target state. RunInstances
// itself returns quickly; the waiters do the slow part.
const defaultWaitTimeout = 5 * time.Minute

// Provider implements providers.InstanceProvider against EC2.
type Provider struct {
	api         EC2API
	region      string
	waitTimeout time.Duration
}

func init() {
	providers.RegisterProvider("aws", NewProviderFactory)
}

// NewProviderFactory builds an AWS provider from provider config.
func NewProviderFactory(ctx context.Context, config providers.ProviderConfig) (providers.InstanceProvider, error) {
	return NewProvider(ctx, config)
}

// NewProvider creates a provider backed by a real EC2 client. Credentials
// are taken from the config when present, otherwise the default chain
// applies.
func NewProvider(ctx context.Context, config providers.ProviderConfig) (*Provider, error) {
	opts := []func(*awsconfig.LoadOptions) error{
		awsconfig.WithRegion(config.Region),
	}
	if config.AccessKeyID != "" {
		opts = append(opts, awsconfig.WithCredentialsProvider(
			credentials.NewStaticCredentialsProvider(
				config.AccessKeyID, config.SecretAccessKey, config.SessionToken)))
	}

	cfg, err := awsconfig.LoadDefaultConfig(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("failed to load AWS config: %w", err)
	}

	return &Provider{
		api:         ec2.NewFromConfig(cfg),
		region:      config.Region,
		waitTimeout: defaultWaitTimeout,
	}, nil
}

// NewProviderWithClient creates a provider over an existing EC2 client.
// Used by tests and by callers that manage their own SDK config.
func NewProviderWithClient(api EC2API, region string) *Provider {
	return &Provider{
		api:         api,
		region:      region,
		waitTimeout: defaultWaitTimeout,
	}
}

// Name returns the provider name.
func (p *Provider) Name() string {
	return "aws"
}

// Region returns the provider region.
func (p *Provider) Region() string {
	return p.region
}
