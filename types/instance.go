package types

import "time"

// Instance represents an EC2 instance as ohjain sees it.
type Instance struct {
	ID           string    `json:"instance_id"`
	AMI          string    `json:"ami,omitempty"`
	InstanceType string    `json:"instance_type,omitempty"`
	State        string    `json:"state,omitempty"`
	PublicIP     string    `json:"public_ip,omitempty"`
	PrivateIP    string    `json:"private_ip,omitempty"`
	AZ           string    `json:"availability_zone,omitempty"`
	KeyName      string    `json:"key_name,omitempty"`
	SubnetID     string    `json:"subnet_id,omitempty"`
	LaunchTime   time.Time `json:"launch_time,omitempty"`
	Tags         Tags      `json:"tags,omitempty"`
}

// InstanceSpec defines the desired configuration for create/update.
type InstanceSpec struct {
	AMI              string   `yaml:"ami,omitempty" json:"ami,omitempty"`
	InstanceType     string   `yaml:"instance_type,omitempty" json:"instance_type,omitempty"`
	KeyName          string   `yaml:"key_name,omitempty" json:"key_name,omitempty"`
	SubnetID         string   `yaml:"subnet_id,omitempty" json:"subnet_id,omitempty"`
	SecurityGroupIDs []string `yaml:"security_group_ids,omitempty" json:"security_group_ids,omitempty"`
	Tags             Tags     `yaml:"tags,omitempty" json:"tags,omitempty"`
}

// Name returns the instance's Name tag.
func (i *Instance) Name() string {
	return i.Tags["Name"]
}
