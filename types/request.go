package types

import (
	"fmt"
	"strings"
)

// Actions understood by the manager
const (
	ActionAuto   = "auto"   // infer from instance_id/ami presence
	ActionCreate = "create" // launch a new instance
	ActionUpdate = "update" // change instance type / tags of an existing instance
	ActionDelete = "delete" // terminate an instance
	ActionGet    = "get"    // query one instance, or all when no ID given
)

// Defaults applied by Request.Normalize
const (
	DefaultRegion       = "us-east-1"
	DefaultInstanceType = "t2.micro"
	DefaultProjectName  = "ohjain"
	DefaultStackName    = "dev"
)

// Request describes one EC2 management call. It is built per call and
// discarded once the result comes back.
type Request struct {
	// AWS credentials, passed through opaque
	AccessKey string `json:"access_key"`
	SecretKey string `json:"secret_key"`
	Region    string `json:"region,omitempty"`

	// Operation
	Action     string `json:"action,omitempty"`
	InstanceID string `json:"instance_id,omitempty"`

	// Instance configuration
	AMI              string   `json:"ami,omitempty"`
	InstanceType     string   `json:"instance_type,omitempty"`
	KeyName          string   `json:"key_name,omitempty"`
	SubnetID         string   `json:"subnet_id,omitempty"`
	SecurityGroupIDs []string `json:"security_group_ids,omitempty"`
	Tags             Tags     `json:"tags,omitempty"`

	// Bookkeeping, recorded in the journal
	ProjectName string `json:"project_name,omitempty"`
	StackName   string `json:"stack_name,omitempty"`

	// Force bypasses the destructive-action guard
	Force bool `json:"force,omitempty"`
}

// Normalize fills in defaults for absent fields.
func (r *Request) Normalize() {
	if r.Region == "" {
		r.Region = DefaultRegion
	}
	if r.Action == "" {
		r.Action = ActionAuto
	}
	r.Action = strings.ToLower(r.Action)
	if r.InstanceType == "" {
		r.InstanceType = DefaultInstanceType
	}
	if r.Tags == nil {
		r.Tags = DefaultTags()
	}
	if r.ProjectName == "" {
		r.ProjectName = DefaultProjectName
	}
	if r.StackName == "" {
		r.StackName = DefaultStackName
	}
}

// Validate ensures the request carries credentials.
func (r *Request) Validate() error {
	if r.AccessKey == "" {
		return fmt.Errorf("access key is required")
	}
	if r.SecretKey == "" {
		return fmt.Errorf("secret key is required")
	}
	return nil
}

// Resolve returns the concrete action for this request. Explicit actions
// are trusted and returned verbatim. For "auto" the action is inferred
// from which identifying fields are present:
//
//	instance_id  ami   action
//	no           yes   create
//	yes          yes   update
//	yes          no    delete
//	no           no    get (query all instances)
func (r *Request) Resolve() string {
	if r.Action != "" && r.Action != ActionAuto {
		return strings.ToLower(r.Action)
	}

	hasInstanceID := r.InstanceID != ""
	hasAMI := r.AMI != ""

	switch {
	case hasInstanceID && hasAMI:
		return ActionUpdate
	case hasInstanceID:
		return ActionDelete
	case hasAMI:
		return ActionCreate
	default:
		return ActionGet
	}
}

// Spec converts the request's instance configuration into an InstanceSpec.
func (r *Request) Spec() InstanceSpec {
	return InstanceSpec{
		AMI:              r.AMI,
		InstanceType:     r.InstanceType,
		KeyName:          r.KeyName,
		SubnetID:         r.SubnetID,
		SecurityGroupIDs: r.SecurityGroupIDs,
		Tags:             r.Tags,
	}
}
