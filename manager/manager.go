// Package manager resolves and dispatches EC2 management requests.
package manager

import (
	"context"
	"fmt"
	"time"

	"github.com/rs/zerolog"

	"github.com/ohjain/ohjain/guard"
	"github.com/ohjain/ohjain/journal"
	"github.com/ohjain/ohjain/providers"
	"github.com/ohjain/ohjain/telemetry"
	"github.com/ohjain/ohjain/types"
)

// Manager executes management requests against one provider. Guard,
// journal and metrics are optional collaborators.
type Manager struct {
	provider providers.InstanceProvider
	guard    *guard.Guard
	journal  *journal.Journal
	metrics  *telemetry.OperationMetrics
	logger   *telemetry.Logger
}

// Option configures a Manager.
type Option func(*Manager)

// WithGuard installs the destructive-action gate.
func WithGuard(g *guard.Guard) Option {
	return func(m *Manager) { m.guard = g }
}

// WithJournal installs the operation journal.
func WithJournal(j *journal.Journal) Option {
	return func(m *Manager) { m.journal = j }
}

// WithMetrics installs operation metrics.
func WithMetrics(om *telemetry.OperationMetrics) Option {
	return func(m *Manager) { m.metrics = om }
}

// WithLogger replaces the default logger.
func WithLogger(l *telemetry.Logger) Option {
	return func(m *Manager) { m.logger = l }
}

// New creates a manager over the given provider.
func New(provider providers.InstanceProvider, opts ...Option) *Manager {
	m := &Manager{
		provider: provider,
		logger:   telemetry.NewLogger("manager"),
	}
	for _, opt := range opts {
		opt(m)
	}
	return m
}

// Manage resolves the request's action, dispatches it and returns the
// outcome. It never panics and never retries; provider failures come
// back in Result.Error.
func (m *Manager) Manage(ctx context.Context, req types.Request) types.Result {
	req.Normalize()
	action := req.Resolve()

	if err := req.Validate(); err != nil {
		return types.Failed(action, err)
	}

	m.logger.WithContext(ctx).Info().
		Str("action", action).
		Str("region", req.Region).
		Str("instance_id", req.InstanceID).
		Msg("executing operation")

	start := time.Now()
	result := m.dispatch(ctx, action, req)
	m.record(ctx, req, result, time.Since(start))

	return result
}

func (m *Manager) dispatch(ctx context.Context, action string, req types.Request) types.Result {
	switch action {
	case types.ActionCreate:
		return m.doCreate(ctx, req)
	case types.ActionUpdate:
		return m.doUpdate(ctx, req)
	case types.ActionDelete:
		return m.doDelete(ctx, req)
	case types.ActionGet:
		return m.doGet(ctx, req)
	default:
		return types.Failed(action, fmt.Errorf("unsupported action: %s", action))
	}
}

func (m *Manager) doCreate(ctx context.Context, req types.Request) types.Result {
	instance, err := m.provider.Create(ctx, req.Spec())
	if err != nil {
		return types.Failed(types.ActionCreate, err)
	}
	return types.Result{
		Success:       true,
		Action:        types.ActionCreate,
		InstanceID:    instance.ID,
		InstanceState: instance.State,
		Outputs:       types.InstanceOutputs(instance),
	}
}

func (m *Manager) doUpdate(ctx context.Context, req types.Request) types.Result {
	instance, err := m.provider.Update(ctx, req.InstanceID, req.Spec())
	if err != nil {
		return types.Failed(types.ActionUpdate, err)
	}
	return types.Result{
		Success:       true,
		Action:        types.ActionUpdate,
		InstanceID:    instance.ID,
		InstanceState: instance.State,
		Outputs:       types.InstanceOutputs(instance),
	}
}

func (m *Manager) doDelete(ctx context.Context, req types.Request) types.Result {
	if m.guard != nil && !req.Force {
		// Fetch metadata for the policy. A failed describe is not fatal;
		// the terminate call reports its own error if the ID is bogus.
		instance, err := m.provider.Get(ctx, req.InstanceID)
		if err != nil {
			m.logger.WithContext(ctx).Warn().
				Err(err).
				Str("instance_id", req.InstanceID).
				Msg("could not describe instance for guard check")
		}
		if err := m.guard.Check(ctx, types.ActionDelete, instance); err != nil {
			if m.metrics != nil {
				m.metrics.RecordGuardDenial(ctx, types.ActionDelete, req.Region)
			}
			return types.Failed(types.ActionDelete, err)
		}
	}

	if err := m.provider.Delete(ctx, req.InstanceID); err != nil {
		return types.Failed(types.ActionDelete, err)
	}
	return types.Result{
		Success:       true,
		Action:        types.ActionDelete,
		InstanceID:    req.InstanceID,
		InstanceState: "terminated",
		Outputs:       map[string]any{"message": "Instance deleted successfully"},
	}
}

func (m *Manager) doGet(ctx context.Context, req types.Request) types.Result {
	if req.InstanceID != "" {
		instance, err := m.provider.Get(ctx, req.InstanceID)
		if err != nil {
			return types.Failed(types.ActionGet, err)
		}
		outputs := types.InstanceOutputs(instance)
		outputs["tags"] = instance.Tags
		outputs["launch_time"] = instance.LaunchTime
		return types.Result{
			Success:       true,
			Action:        types.ActionGet,
			InstanceID:    instance.ID,
			InstanceState: instance.State,
			Outputs:       outputs,
		}
	}

	instances, err := m.provider.List(ctx)
	if err != nil {
		return types.Failed(types.ActionGet, err)
	}
	return types.Result{
		Success: true,
		Action:  types.ActionGet,
		Outputs: map[string]any{
			"instances": instances,
			"count":     len(instances),
		},
	}
}

func (m *Manager) record(ctx context.Context, req types.Request, result types.Result, elapsed time.Duration) {
	if m.metrics != nil {
		m.metrics.RecordOperation(ctx, result.Action, req.Region, result.Success, elapsed.Seconds())
	}

	if m.journal != nil {
		entry := journal.Entry{
			Action:     result.Action,
			InstanceID: result.InstanceID,
			Region:     req.Region,
			Project:    req.ProjectName,
			Stack:      req.StackName,
			Success:    result.Success,
			Error:      result.Error,
		}
		if _, err := m.journal.Append(entry); err != nil {
			m.logger.WithContext(ctx).Error().
				Err(err).
				Msg("failed to journal operation")
		}
	}

	logger := m.logger.WithContext(ctx)
	var event *zerolog.Event
	if result.Success {
		event = logger.Info()
	} else {
		event = logger.Error().Str("error", result.Error)
	}
	event.
		Str("action", result.Action).
		Str("instance_id", result.InstanceID).
		Bool("success", result.Success).
		Dur("elapsed", elapsed).
		Msg("operation finished")
}
