package aws

import (
	"context"
	"errors"
	"fmt"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/ec2"
	ec2types "github.com/aws/aws-sdk-go-v2/service/ec2/types"
	"github.com/aws/smithy-go"

	"github.com/ohjain/ohjain/types"
)

// EC2API is the slice of the EC2 client the provider needs. It matches the
// SDK signatures so the generated waiters and paginators accept it too.
type EC2API interface {
	DescribeInstances(ctx context.Context, params *ec2.DescribeInstancesInput, optFns ...func(*ec2.Options)) (*ec2.DescribeInstancesOutput, error)
	RunInstances(ctx context.Context, params *ec2.RunInstancesInput, optFns ...func(*ec2.Options)) (*ec2.RunInstancesOutput, error)
	TerminateInstances(ctx context.Context, params *ec2.TerminateInstancesInput, optFns ...func(*ec2.Options)) (*ec2.TerminateInstancesOutput, error)
	StopInstances(ctx context.Context, params *ec2.StopInstancesInput, optFns ...func(*ec2.Options)) (*ec2.StopInstancesOutput, error)
	StartInstances(ctx context.Context, params *ec2.StartInstancesInput, optFns ...func(*ec2.Options)) (*ec2.StartInstancesOutput, error)
	ModifyInstanceAttribute(ctx context.Context, params *ec2.ModifyInstanceAttributeInput, optFns ...func(*ec2.Options)) (*ec2.ModifyInstanceAttributeOutput, error)
	CreateTags(ctx context.Context, params *ec2.CreateTagsInput, optFns ...func(*ec2.Options)) (*ec2.CreateTagsOutput, error)
}

// ErrInstanceNotFound reports a get/update/delete against an unknown ID.
var ErrInstanceNotFound = errors.New("instance not found")

// Create launches one instance from the spec, waits until it runs and
// returns it with addresses populated.
func (p *Provider) Create(ctx context.Context, spec types.InstanceSpec) (*types.Instance, error) {
	input := &ec2.RunInstancesInput{
		ImageId:      aws.String(spec.AMI),
		InstanceType: ec2types.InstanceType(spec.InstanceType),
		MinCount:     aws.Int32(1),
		MaxCount:     aws.Int32(1),
		TagSpecifications: []ec2types.TagSpecification{
			{
				ResourceType: ec2types.ResourceTypeInstance,
				Tags:         toEC2Tags(spec.Tags),
			},
		},
	}
	if spec.KeyName != "" {
		input.KeyName = aws.String(spec.KeyName)
	}
	if spec.SubnetID != "" {
		input.SubnetId = aws.String(spec.SubnetID)
	}
	if len(spec.SecurityGroupIDs) > 0 {
		input.SecurityGroupIds = spec.SecurityGroupIDs
	}

	output, err := p.api.RunInstances(ctx, input)
	if err != nil {
		return nil, fmt.Errorf("failed to run instance: %w", err)
	}
	if len(output.Instances) == 0 {
		return nil, fmt.Errorf("run instances returned no instances")
	}
	id := aws.ToString(output.Instances[0].InstanceId)

	if err := p.waitRunning(ctx, id); err != nil {
		return nil, fmt.Errorf("instance %s did not reach running: %w", id, err)
	}

	// Re-describe for addresses assigned after launch
	return p.Get(ctx, id)
}

// Update changes the instance type of an existing instance. EC2 only
// allows that while stopped, so the flow is stop, modify, retag, start.
func (p *Provider) Update(ctx context.Context, id string, spec types.InstanceSpec) (*types.Instance, error) {
	if _, err := p.api.StopInstances(ctx, &ec2.StopInstancesInput{
		InstanceIds: []string{id},
	}); err != nil {
		return nil, fmt.Errorf("failed to stop instance %s: %w", id, wrapNotFound(err))
	}
	if err := p.waitStopped(ctx, id); err != nil {
		return nil, fmt.Errorf("instance %s did not stop: %w", id, err)
	}

	if _, err := p.api.ModifyInstanceAttribute(ctx, &ec2.ModifyInstanceAttributeInput{
		InstanceId:   aws.String(id),
		InstanceType: &ec2types.AttributeValue{Value: aws.String(spec.InstanceType)},
	}); err != nil {
		return nil, fmt.Errorf("failed to modify instance %s: %w", id, err)
	}

	if len(spec.Tags) > 0 {
		if _, err := p.api.CreateTags(ctx, &ec2.CreateTagsInput{
			Resources: []string{id},
			Tags:      toEC2Tags(spec.Tags),
		}); err != nil {
			return nil, fmt.Errorf("failed to tag instance %s: %w", id, err)
		}
	}

	if _, err := p.api.StartInstances(ctx, &ec2.StartInstancesInput{
		InstanceIds: []string{id},
	}); err != nil {
		return nil, fmt.Errorf("failed to start instance %s: %w", id, err)
	}
	if err := p.waitRunning(ctx, id); err != nil {
		return nil, fmt.Errorf("instance %s did not restart: %w", id, err)
	}

	return p.Get(ctx, id)
}

// Delete terminates an instance and waits for termination.
func (p *Provider) Delete(ctx context.Context, id string) error {
	if _, err := p.api.TerminateInstances(ctx, &ec2.TerminateInstancesInput{
		InstanceIds: []string{id},
	}); err != nil {
		return fmt.Errorf("failed to terminate instance %s: %w", id, wrapNotFound(err))
	}

	waiter := ec2.NewInstanceTerminatedWaiter(p.api)
	if err := waiter.Wait(ctx, &ec2.DescribeInstancesInput{
		InstanceIds: []string{id},
	}, p.waitTimeout); err != nil {
		return fmt.Errorf("instance %s did not terminate: %w", id, err)
	}
	return nil
}

// Get returns a single instance by ID.
func (p *Provider) Get(ctx context.Context, id string) (*types.Instance, error) {
	output, err := p.api.DescribeInstances(ctx, &ec2.DescribeInstancesInput{
		InstanceIds: []string{id},
	})
	if err != nil {
		return nil, fmt.Errorf("failed to describe instance %s: %w", id, wrapNotFound(err))
	}

	for _, reservation := range output.Reservations {
		for _, instance := range reservation.Instances {
			converted := convertInstance(instance)
			return &converted, nil
		}
	}
	return nil, fmt.Errorf("instance %s: %w", id, ErrInstanceNotFound)
}

// List returns all instances in the region, terminated ones included.
func (p *Provider) List(ctx context.Context) ([]types.Instance, error) {
	var instances []types.Instance

	paginator := ec2.NewDescribeInstancesPaginator(p.api, &ec2.DescribeInstancesInput{})
	for paginator.HasMorePages() {
		output, err := paginator.NextPage(ctx)
		if err != nil {
			return nil, fmt.Errorf("failed to describe instances: %w", err)
		}
		for _, reservation := range output.Reservations {
			for _, instance := range reservation.Instances {
				instances = append(instances, convertInstance(instance))
			}
		}
	}

	return instances, nil
}

func (p *Provider) waitRunning(ctx context.Context, id string) error {
	waiter := ec2.NewInstanceRunningWaiter(p.api)
	return waiter.Wait(ctx, &ec2.DescribeInstancesInput{
		InstanceIds: []string{id},
	}, p.waitTimeout)
}

func (p *Provider) waitStopped(ctx context.Context, id string) error {
	waiter := ec2.NewInstanceStoppedWaiter(p.api)
	return waiter.Wait(ctx, &ec2.DescribeInstancesInput{
		InstanceIds: []string{id},
	}, p.waitTimeout)
}

// wrapNotFound translates the EC2 unknown-ID error codes so callers can
// test with errors.Is.
func wrapNotFound(err error) error {
	var apiErr smithy.APIError
	if errors.As(err, &apiErr) {
		switch apiErr.ErrorCode() {
		case "InvalidInstanceID.NotFound", "InvalidInstanceID.Malformed":
			return fmt.Errorf("%w: %s", ErrInstanceNotFound, apiErr.ErrorMessage())
		}
	}
	return err
}
