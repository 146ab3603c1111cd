package types

// Result is the outcome of one management call. It is always returned,
// success or not; failures carry the message in Error.
type Result struct {
	Success       bool           `json:"success"`
	Action        string         `json:"action"`
	InstanceID    string         `json:"instance_id,omitempty"`
	InstanceState string         `json:"instance_state,omitempty"`
	Outputs       map[string]any `json:"outputs,omitempty"`
	Error         string         `json:"error,omitempty"`
}

// Failed builds a failure result for the given action.
func Failed(action string, err error) Result {
	return Result{
		Success: false,
		Action:  action,
		Error:   err.Error(),
	}
}

// InstanceOutputs maps an instance to the outputs block returned for
// create/update/get.
func InstanceOutputs(inst *Instance) map[string]any {
	return map[string]any{
		"public_ip":     inst.PublicIP,
		"private_ip":    inst.PrivateIP,
		"ami":           inst.AMI,
		"instance_type": inst.InstanceType,
	}
}
