package types

import (
	"testing"
)

func TestRequest_Resolve_Auto(t *testing.T) {
	tests := []struct {
		name       string
		instanceID string
		ami        string
		want       string
	}{
		{
			name: "ami only launches a new instance",
			ami:  "ami-0c55b159cbfafe1f0",
			want: ActionCreate,
		},
		{
			name:       "both fields updates the existing instance",
			instanceID: "i-abc",
			ami:        "ami-xyz",
			want:       ActionUpdate,
		},
		{
			name:       "instance id only terminates it",
			instanceID: "i-abc",
			want:       ActionDelete,
		},
		{
			name: "neither field queries all instances",
			want: ActionGet,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := Request{
				Action:     ActionAuto,
				InstanceID: tt.instanceID,
				AMI:        tt.ami,
			}
			if got := req.Resolve(); got != tt.want {
				t.Errorf("Resolve() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestRequest_Resolve_Explicit(t *testing.T) {
	// Explicit actions pass through untouched, whatever fields are set.
	for _, action := range []string{ActionCreate, ActionUpdate, ActionDelete, ActionGet} {
		combos := []struct {
			instanceID string
			ami        string
		}{
			{"", ""},
			{"i-abc", ""},
			{"", "ami-xyz"},
			{"i-abc", "ami-xyz"},
		}
		for _, c := range combos {
			req := Request{Action: action, InstanceID: c.instanceID, AMI: c.ami}
			if got := req.Resolve(); got != action {
				t.Errorf("Resolve() with action=%q id=%q ami=%q = %q, want %q",
					action, c.instanceID, c.ami, got, action)
			}
		}
	}
}

func TestRequest_Resolve_CaseInsensitive(t *testing.T) {
	req := Request{Action: "DELETE", InstanceID: "i-abc"}
	if got := req.Resolve(); got != ActionDelete {
		t.Errorf("Resolve() = %q, want %q", got, ActionDelete)
	}
}

func TestRequest_Normalize(t *testing.T) {
	req := Request{AccessKey: "AKIA", SecretKey: "secret"}
	req.Normalize()

	if req.Region != DefaultRegion {
		t.Errorf("Region = %q, want %q", req.Region, DefaultRegion)
	}
	if req.Action != ActionAuto {
		t.Errorf("Action = %q, want %q", req.Action, ActionAuto)
	}
	if req.InstanceType != DefaultInstanceType {
		t.Errorf("InstanceType = %q, want %q", req.InstanceType, DefaultInstanceType)
	}
	if req.Tags[ManagedByTag] != "ohjain" {
		t.Errorf("Tags = %v, want default managed-by tag", req.Tags)
	}
	if req.ProjectName != DefaultProjectName || req.StackName != DefaultStackName {
		t.Errorf("project/stack = %q/%q, want defaults", req.ProjectName, req.StackName)
	}
}

func TestRequest_Normalize_KeepsExplicitValues(t *testing.T) {
	req := Request{
		AccessKey:    "AKIA",
		SecretKey:    "secret",
		Region:       "eu-west-1",
		Action:       "Create",
		InstanceType: "m5.large",
		Tags:         Tags{"Name": "web"},
	}
	req.Normalize()

	if req.Region != "eu-west-1" {
		t.Errorf("Region = %q, want eu-west-1", req.Region)
	}
	if req.Action != ActionCreate {
		t.Errorf("Action = %q, want %q", req.Action, ActionCreate)
	}
	if req.InstanceType != "m5.large" {
		t.Errorf("InstanceType = %q, want m5.large", req.InstanceType)
	}
	if req.Tags["Name"] != "web" {
		t.Errorf("Tags = %v, want caller tags kept", req.Tags)
	}
}

func TestRequest_Validate(t *testing.T) {
	tests := []struct {
		name    string
		req     Request
		wantErr bool
	}{
		{
			name: "credentials present",
			req:  Request{AccessKey: "AKIA", SecretKey: "secret"},
		},
		{
			name:    "missing access key",
			req:     Request{SecretKey: "secret"},
			wantErr: true,
		},
		{
			name:    "missing secret key",
			req:     Request{AccessKey: "AKIA"},
			wantErr: true,
		},
		{
			name:    "missing both",
			req:     Request{},
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.req.Validate()
			if (err != nil) != tt.wantErr {
				t.Errorf("Validate() error = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}
