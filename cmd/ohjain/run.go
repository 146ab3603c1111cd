package main

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"sync"

	"github.com/spf13/cobra"

	"github.com/ohjain/ohjain/config"
	"github.com/ohjain/ohjain/guard"
	"github.com/ohjain/ohjain/journal"
	"github.com/ohjain/ohjain/manager"
	"github.com/ohjain/ohjain/telemetry"
	"github.com/ohjain/ohjain/types"
)

// requestFlags carries the flag values shared by the operation commands.
type requestFlags struct {
	accessKey        string
	secretKey        string
	region           string
	instanceID       string
	ami              string
	instanceType     string
	keyName          string
	subnetID         string
	securityGroupIDs []string
	tags             map[string]string
	project          string
	stack            string
	force            bool
}

func addRequestFlags(cmd *cobra.Command, flags *requestFlags) {
	cmd.Flags().StringVar(&flags.accessKey, "access-key", "", "AWS access key (default: AWS_ACCESS_KEY_ID)")
	cmd.Flags().StringVar(&flags.secretKey, "secret-key", "", "AWS secret key (default: AWS_SECRET_ACCESS_KEY)")
	cmd.Flags().StringVarP(&flags.region, "region", "r", "", "AWS region")
	cmd.Flags().StringVarP(&flags.instanceID, "instance-id", "i", "", "EC2 instance ID")
	cmd.Flags().StringVar(&flags.ami, "ami", "", "AMI ID")
	cmd.Flags().StringVarP(&flags.instanceType, "instance-type", "t", "", "Instance type")
	cmd.Flags().StringVar(&flags.keyName, "key-name", "", "SSH key pair name")
	cmd.Flags().StringVar(&flags.subnetID, "subnet-id", "", "Subnet ID")
	cmd.Flags().StringSliceVar(&flags.securityGroupIDs, "security-group-ids", nil, "Security group IDs")
	cmd.Flags().StringToStringVar(&flags.tags, "tag", nil, "Instance tags as key=value")
	cmd.Flags().StringVar(&flags.project, "project", "", "Project name recorded in the journal")
	cmd.Flags().StringVar(&flags.stack, "stack", "", "Stack name recorded in the journal")
	cmd.Flags().BoolVar(&flags.force, "force", false, "Bypass the destructive-action guard")
}

// loadConfig returns the file config when --config is set, defaults
// otherwise.
func loadConfig() (*config.Config, error) {
	if cfgPath == "" {
		return config.DefaultConfig(), nil
	}
	return config.LoadConfig(cfgPath)
}

// buildRequest merges flags, config defaults and environment credentials.
func buildRequest(flags *requestFlags, cfg *config.Config, action string) types.Request {
	accessKey, secretKey := flags.accessKey, flags.secretKey
	if accessKey == "" || secretKey == "" {
		envAccess, envSecret := config.Credentials()
		if accessKey == "" {
			accessKey = envAccess
		}
		if secretKey == "" {
			secretKey = envSecret
		}
	}

	region := flags.region
	if region == "" {
		region = cfg.Region
	}
	instanceType := flags.instanceType
	if instanceType == "" {
		instanceType = cfg.InstanceType
	}

	tags := cfg.Tags.Merge(flags.tags)

	return types.Request{
		AccessKey:        accessKey,
		SecretKey:        secretKey,
		Region:           region,
		Action:           action,
		InstanceID:       flags.instanceID,
		AMI:              flags.ami,
		InstanceType:     instanceType,
		KeyName:          flags.keyName,
		SubnetID:         flags.subnetID,
		SecurityGroupIDs: flags.securityGroupIDs,
		Tags:             tags,
		ProjectName:      flags.project,
		StackName:        flags.stack,
		Force:            flags.force,
	}
}

// managerOptions wires the journal and guard per config. The returned
// cleanup is safe to call more than once.
func managerOptions(ctx context.Context, cfg *config.Config) ([]manager.Option, func(), error) {
	logger := telemetry.NewConsoleLogger("ohjain", debug)
	opts := []manager.Option{manager.WithLogger(logger)}

	j, err := journal.Open(cfg.JournalDir)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to open journal: %w", err)
	}
	opts = append(opts, manager.WithJournal(j))
	var once sync.Once
	cleanup := func() { once.Do(func() { _ = j.Close() }) }

	if cfg.Guard.Enabled {
		var g *guard.Guard
		if cfg.Guard.PolicyPath != "" {
			g, err = guard.NewFromFile(ctx, cfg.Guard.PolicyPath, cfg.Guard.ProtectedTags)
		} else {
			g, err = guard.New(ctx, cfg.Guard.ProtectedTags)
		}
		if err != nil {
			cleanup()
			return nil, nil, fmt.Errorf("failed to build guard: %w", err)
		}
		opts = append(opts, manager.WithGuard(g))
	}

	return opts, cleanup, nil
}

// runOperation executes one management call and prints the result.
func runOperation(cmd *cobra.Command, flags *requestFlags, action string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	ctx := cmd.Context()
	opts, cleanup, err := managerOptions(ctx, cfg)
	if err != nil {
		return err
	}
	defer cleanup()

	req := buildRequest(flags, cfg, action)
	result := manager.Manage(ctx, req, opts...)

	if err := printResult(result); err != nil {
		return err
	}
	if !result.Success {
		cleanup()
		os.Exit(1)
	}
	return nil
}

func printResult(result types.Result) error {
	encoded, err := json.MarshalIndent(result, "", "  ")
	if err != nil {
		return err
	}
	fmt.Println(string(encoded))
	return nil
}
