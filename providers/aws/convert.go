package aws

import (
	"github.com/aws/aws-sdk-go-v2/aws"
	ec2types "github.com/aws/aws-sdk-go-v2/service/ec2/types"

	"github.com/ohjain/ohjain/types"
)

// convertInstance maps an SDK instance to the ohjain shape.
func convertInstance(instance ec2types.Instance) types.Instance {
	converted := types.Instance{
		ID:           aws.ToString(instance.InstanceId),
		AMI:          aws.ToString(instance.ImageId),
		InstanceType: string(instance.InstanceType),
		PublicIP:     aws.ToString(instance.PublicIpAddress),
		PrivateIP:    aws.ToString(instance.PrivateIpAddress),
		KeyName:      aws.ToString(instance.KeyName),
		SubnetID:     aws.ToString(instance.SubnetId),
		LaunchTime:   aws.ToTime(instance.LaunchTime),
		Tags:         fromEC2Tags(instance.Tags),
	}
	if instance.State != nil {
		converted.State = string(instance.State.Name)
	}
	if instance.Placement != nil {
		converted.AZ = aws.ToString(instance.Placement.AvailabilityZone)
	}
	return converted
}

func toEC2Tags(tags types.Tags) []ec2types.Tag {
	converted := make([]ec2types.Tag, 0, len(tags))
	for key, value := range tags {
		converted = append(converted, ec2types.Tag{
			Key:   aws.String(key),
			Value: aws.String(value),
		})
	}
	return converted
}

func fromEC2Tags(tags []ec2types.Tag) types.Tags {
	if len(tags) == 0 {
		return nil
	}
	converted := make(types.Tags, len(tags))
	for _, tag := range tags {
		converted[aws.ToString(tag.Key)] = aws.ToString(tag.Value)
	}
	return converted
}
