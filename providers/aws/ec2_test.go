package aws

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/ec2"
	ec2types "github.com/aws/aws-sdk-go-v2/service/ec2/types"
	"github.com/aws/smithy-go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ohjain/ohjain/types"
)

// mockEC2 is a stateful in-memory EC2. Lifecycle calls flip instance
// state immediately so the waiters return on their first describe.
type mockEC2 struct {
	instances map[string]*ec2types.Instance

	runInput    *ec2.RunInstancesInput
	modifyInput *ec2.ModifyInstanceAttributeInput
	tagInputs   []*ec2.CreateTagsInput
	stopCalls   int
	startCalls  int
}

func newMockEC2() *mockEC2 {
	return &mockEC2{instances: make(map[string]*ec2types.Instance)}
}

func (m *mockEC2) addInstance(id, state string, tags types.Tags) {
	m.instances[id] = &ec2types.Instance{
		InstanceId:       aws.String(id),
		ImageId:          aws.String("ami-existing"),
		InstanceType:     ec2types.InstanceTypeT2Micro,
		State:            &ec2types.InstanceState{Name: ec2types.InstanceStateName(state)},
		PublicIpAddress:  aws.String("54.0.0.1"),
		PrivateIpAddress: aws.String("10.0.0.1"),
		LaunchTime:       aws.Time(time.Now()),
		Tags:             toEC2Tags(tags),
	}
}

func (m *mockEC2) setState(ids []string, state ec2types.InstanceStateName) error {
	for _, id := range ids {
		instance, ok := m.instances[id]
		if !ok {
			return &smithy.GenericAPIError{
				Code:    "InvalidInstanceID.NotFound",
				Message: fmt.Sprintf("The instance ID '%s' does not exist", id),
			}
		}
		instance.State = &ec2types.InstanceState{Name: state}
	}
	return nil
}

func (m *mockEC2) DescribeInstances(ctx context.Context, params *ec2.DescribeInstancesInput, optFns ...func(*ec2.Options)) (*ec2.DescribeInstancesOutput, error) {
	var matched []ec2types.Instance
	if len(params.InstanceIds) > 0 {
		for _, id := range params.InstanceIds {
			instance, ok := m.instances[id]
			if !ok {
				return nil, &smithy.GenericAPIError{
					Code:    "InvalidInstanceID.NotFound",
					Message: fmt.Sprintf("The instance ID '%s' does not exist", id),
				}
			}
			matched = append(matched, *instance)
		}
	} else {
		for _, instance := range m.instances {
			matched = append(matched, *instance)
		}
	}

	output := &ec2.DescribeInstancesOutput{}
	if len(matched) > 0 {
		output.Reservations = []ec2types.Reservation{{Instances: matched}}
	}
	return output, nil
}

func (m *mockEC2) RunInstances(ctx context.Context, params *ec2.RunInstancesInput, optFns ...func(*ec2.Options)) (*ec2.RunInstancesOutput, error) {
	m.runInput = params

	instance := &ec2types.Instance{
		InstanceId:       aws.String("i-0new1234567890abc"),
		ImageId:          params.ImageId,
		InstanceType:     params.InstanceType,
		State:            &ec2types.InstanceState{Name: ec2types.InstanceStateNameRunning},
		PublicIpAddress:  aws.String("54.1.2.3"),
		PrivateIpAddress: aws.String("10.1.2.3"),
		KeyName:          params.KeyName,
		SubnetId:         params.SubnetId,
		LaunchTime:       aws.Time(time.Now()),
	}
	for _, spec := range params.TagSpecifications {
		instance.Tags = append(instance.Tags, spec.Tags...)
	}
	m.instances["i-0new1234567890abc"] = instance

	return &ec2.RunInstancesOutput{Instances: []ec2types.Instance{*instance}}, nil
}

func (m *mockEC2) TerminateInstances(ctx context.Context, params *ec2.TerminateInstancesInput, optFns ...func(*ec2.Options)) (*ec2.TerminateInstancesOutput, error) {
	if err := m.setState(params.InstanceIds, ec2types.InstanceStateNameTerminated); err != nil {
		return nil, err
	}
	return &ec2.TerminateInstancesOutput{}, nil
}

func (m *mockEC2) StopInstances(ctx context.Context, params *ec2.StopInstancesInput, optFns ...func(*ec2.Options)) (*ec2.StopInstancesOutput, error) {
	m.stopCalls++
	if err := m.setState(params.InstanceIds, ec2types.InstanceStateNameStopped); err != nil {
		return nil, err
	}
	return &ec2.StopInstancesOutput{}, nil
}

func (m *mockEC2) StartInstances(ctx context.Context, params *ec2.StartInstancesInput, optFns ...func(*ec2.Options)) (*ec2.StartInstancesOutput, error) {
	m.startCalls++
	if m.modifyInput == nil {
		return nil, fmt.Errorf("instance started before attribute modification")
	}
	if err := m.setState(params.InstanceIds, ec2types.InstanceStateNameRunning); err != nil {
		return nil, err
	}
	return &ec2.StartInstancesOutput{}, nil
}

func (m *mockEC2) ModifyInstanceAttribute(ctx context.Context, params *ec2.ModifyInstanceAttributeInput, optFns ...func(*ec2.Options)) (*ec2.ModifyInstanceAttributeOutput, error) {
	if m.stopCalls == 0 {
		return nil, fmt.Errorf("attribute modified while instance running")
	}
	m.modifyInput = params
	instance, ok := m.instances[aws.ToString(params.InstanceId)]
	if ok && params.InstanceType != nil {
		instance.InstanceType = ec2types.InstanceType(aws.ToString(params.InstanceType.Value))
	}
	return &ec2.ModifyInstanceAttributeOutput{}, nil
}

func (m *mockEC2) CreateTags(ctx context.Context, params *ec2.CreateTagsInput, optFns ...func(*ec2.Options)) (*ec2.CreateTagsOutput, error) {
	m.tagInputs = append(m.tagInputs, params)
	return &ec2.CreateTagsOutput{}, nil
}

func newTestProvider(api EC2API) *Provider {
	p := NewProviderWithClient(api, "us-east-1")
	p.waitTimeout = 2 * time.Second
	return p
}

func TestProvider_Create(t *testing.T) {
	mock := newMockEC2()
	p := newTestProvider(mock)

	instance, err := p.Create(context.Background(), types.InstanceSpec{
		AMI:              "ami-0c55b159cbfafe1f0",
		InstanceType:     "t2.micro",
		KeyName:          "my-ssh-key",
		SubnetID:         "subnet-123",
		SecurityGroupIDs: []string{"sg-1", "sg-2"},
		Tags:             types.Tags{"Name": "web", "ManagedBy": "ohjain"},
	})
	require.NoError(t, err)

	assert.Equal(t, "i-0new1234567890abc", instance.ID)
	assert.Equal(t, "running", instance.State)
	assert.Equal(t, "54.1.2.3", instance.PublicIP)
	assert.Equal(t, "10.1.2.3", instance.PrivateIP)
	assert.Equal(t, "web", instance.Name())

	require.NotNil(t, mock.runInput)
	assert.Equal(t, "ami-0c55b159cbfafe1f0", aws.ToString(mock.runInput.ImageId))
	assert.Equal(t, "my-ssh-key", aws.ToString(mock.runInput.KeyName))
	assert.Equal(t, "subnet-123", aws.ToString(mock.runInput.SubnetId))
	assert.Equal(t, []string{"sg-1", "sg-2"}, mock.runInput.SecurityGroupIds)
	require.Len(t, mock.runInput.TagSpecifications, 1)
	assert.Len(t, mock.runInput.TagSpecifications[0].Tags, 2)
}

func TestProvider_Create_OptionalFieldsOmitted(t *testing.T) {
	mock := newMockEC2()
	p := newTestProvider(mock)

	_, err := p.Create(context.Background(), types.InstanceSpec{
		AMI:          "ami-xyz",
		InstanceType: "t2.micro",
	})
	require.NoError(t, err)

	assert.Nil(t, mock.runInput.KeyName)
	assert.Nil(t, mock.runInput.SubnetId)
	assert.Nil(t, mock.runInput.SecurityGroupIds)
}

func TestProvider_Update(t *testing.T) {
	mock := newMockEC2()
	mock.addInstance("i-abc", "running", types.Tags{"Name": "web"})
	p := newTestProvider(mock)

	instance, err := p.Update(context.Background(), "i-abc", types.InstanceSpec{
		AMI:          "ami-xyz",
		InstanceType: "m5.large",
		Tags:         types.Tags{"Name": "web-v2"},
	})
	require.NoError(t, err)

	// stop before modify, modify before start, running at the end
	assert.Equal(t, 1, mock.stopCalls)
	assert.Equal(t, 1, mock.startCalls)
	require.NotNil(t, mock.modifyInput)
	assert.Equal(t, "m5.large", aws.ToString(mock.modifyInput.InstanceType.Value))
	require.Len(t, mock.tagInputs, 1)
	assert.Equal(t, "running", instance.State)
	assert.Equal(t, "m5.large", instance.InstanceType)
}

func TestProvider_Update_NotFound(t *testing.T) {
	mock := newMockEC2()
	p := newTestProvider(mock)

	_, err := p.Update(context.Background(), "i-missing", types.InstanceSpec{
		InstanceType: "m5.large",
	})
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrInstanceNotFound)
}

func TestProvider_Delete(t *testing.T) {
	mock := newMockEC2()
	mock.addInstance("i-abc", "running", nil)
	p := newTestProvider(mock)

	err := p.Delete(context.Background(), "i-abc")
	require.NoError(t, err)
	assert.Equal(t, ec2types.InstanceStateNameTerminated, mock.instances["i-abc"].State.Name)
}

func TestProvider_Delete_NotFound(t *testing.T) {
	mock := newMockEC2()
	p := newTestProvider(mock)

	err := p.Delete(context.Background(), "i-missing")
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrInstanceNotFound)
}

func TestProvider_Get(t *testing.T) {
	mock := newMockEC2()
	mock.addInstance("i-abc", "running", types.Tags{"Name": "web", "Environment": "dev"})
	p := newTestProvider(mock)

	instance, err := p.Get(context.Background(), "i-abc")
	require.NoError(t, err)

	assert.Equal(t, "i-abc", instance.ID)
	assert.Equal(t, "ami-existing", instance.AMI)
	assert.Equal(t, "running", instance.State)
	assert.Equal(t, "54.0.0.1", instance.PublicIP)
	assert.Equal(t, "dev", instance.Tags["Environment"])
}

func TestProvider_Get_NotFound(t *testing.T) {
	mock := newMockEC2()
	p := newTestProvider(mock)

	_, err := p.Get(context.Background(), "i-missing")
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrInstanceNotFound)
}

func TestProvider_List(t *testing.T) {
	mock := newMockEC2()
	mock.addInstance("i-1", "running", nil)
	mock.addInstance("i-2", "stopped", nil)
	p := newTestProvider(mock)

	instances, err := p.List(context.Background())
	require.NoError(t, err)
	assert.Len(t, instances, 2)
}

func TestProvider_List_Empty(t *testing.T) {
	mock := newMockEC2()
	p := newTestProvider(mock)

	instances, err := p.List(context.Background())
	require.NoError(t, err)
	assert.Empty(t, instances)
}

func TestWrapNotFound_PassesThroughOtherErrors(t *testing.T) {
	err := errors.New("connection reset")
	assert.Equal(t, err, wrapNotFound(err))

	authErr := &smithy.GenericAPIError{Code: "UnauthorizedOperation", Message: "denied"}
	assert.NotErrorIs(t, wrapNotFound(authErr), ErrInstanceNotFound)
}
