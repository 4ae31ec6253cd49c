// Package orchestrate executes confirmed pending actions against the
// storage backend: it resolves the target batch, runs the per-object
// calls sequentially with independent failure isolation, and reports
// classified outcomes to the status log.
package orchestrate

import (
	"context"
	"fmt"
	"io"
	"log/slog"

	"github.com/sgaunet/s3migrate/pkg/dto"
	"github.com/sgaunet/s3migrate/pkg/mask"
	"github.com/sgaunet/s3migrate/pkg/policy"
	"github.com/sgaunet/s3migrate/pkg/s3err"
	"github.com/sgaunet/s3migrate/pkg/state"
)

// RestoreBeforeTransitionDays is the restore duration used by the
// restore-first step of a transition.
const RestoreBeforeTransitionDays int32 = 7

// Backend is the storage collaborator consumed by the orchestrator.
// *s3svc.Service satisfies it.
type Backend interface {
	ListBuckets(ctx context.Context) ([]dto.Bucket, error)
	ListObjects(ctx context.Context, bucket string, prefix string) ([]dto.Object, error)
	RefreshObject(ctx context.Context, bucket string, key string) (dto.Object, error)
	TransitionStorageClass(ctx context.Context, bucket string, key string, target dto.StorageClass) error
	RequestRestore(ctx context.Context, bucket string, key string, days int32) error
}

// Orchestrator runs confirmed actions for a state machine.
type Orchestrator struct {
	backend     Backend
	store       *policy.Store
	st          *state.Machine
	log         *slog.Logger
	restoreDays int32
}

// New creates an orchestrator.
// By default the logger is set to write to /dev/null.
func New(backend Backend, store *policy.Store, st *state.Machine) *Orchestrator {
	return &Orchestrator{
		backend:     backend,
		store:       store,
		st:          st,
		log:         slog.New(slog.NewTextHandler(io.Discard, nil)),
		restoreDays: RestoreBeforeTransitionDays,
	}
}

// SetLogger sets the logger.
func (o *Orchestrator) SetLogger(log *slog.Logger) {
	o.log = log
}

// SetRestoreDays overrides the default restore duration. Non-positive
// values are ignored.
func (o *Orchestrator) SetRestoreDays(days int32) {
	if days > 0 {
		o.restoreDays = days
	}
}

// RestoreDays returns the restore duration used when no explicit value
// is given.
func (o *Orchestrator) RestoreDays() int32 {
	return o.restoreDays
}

// Execute runs a confirmed pending action. Per-object failures are
// reported and never abort the batch.
func (o *Orchestrator) Execute(ctx context.Context, action state.PendingAction) {
	switch a := action.(type) {
	case *state.TransitionAction:
		o.executeTransition(ctx, a)
	case *state.RestoreAction:
		o.executeRestore(ctx, a)
	case *state.SavePolicyAction:
		o.executeSavePolicy(a)
	}
}

func (o *Orchestrator) executeTransition(ctx context.Context, a *state.TransitionAction) {
	sel := o.st.Selection()
	bucket := sel.SelectedBucketName()
	if bucket == "" {
		o.st.Push("Select a bucket before transitioning")
		return
	}
	keys := sel.TargetKeys()
	if len(keys) == 0 {
		o.st.Push("No objects selected for transition")
		return
	}
	for _, key := range keys {
		if a.RestoreFirst {
			if err := o.backend.RequestRestore(ctx, bucket, key, o.restoreDays); err != nil {
				detail := s3err.Classify(err)
				o.st.Push(fmt.Sprintf("Restore failed for %s: %s", key, detail.Error()))
				o.log.Warn("restore-first failed",
					slog.String("key", key),
					slog.String("category", string(detail.Category)))
				continue
			}
		}
		if err := o.backend.TransitionStorageClass(ctx, bucket, key, a.Target); err != nil {
			detail := s3err.Classify(err)
			o.st.Push(fmt.Sprintf("Transition failed for %s: %s", key, detail.Error()))
			o.log.Warn("transition failed",
				slog.String("key", key),
				slog.String("category", string(detail.Category)))
			continue
		}
		o.st.Push(fmt.Sprintf("Transitioned %s to %s", key, a.Target.Label()))
	}
	// displayed tiers must reflect reality after the batch
	o.LoadObjects(ctx)
}

func (o *Orchestrator) executeRestore(ctx context.Context, a *state.RestoreAction) {
	sel := o.st.Selection()
	bucket := sel.SelectedBucketName()
	if bucket == "" {
		o.st.Push("Select a bucket before restoring")
		return
	}
	for _, key := range sel.TargetKeys() {
		if err := o.backend.RequestRestore(ctx, bucket, key, a.Days); err != nil {
			detail := s3err.Classify(err)
			o.st.Push(fmt.Sprintf("Restore failed for %s: %s", key, detail.Error()))
			continue
		}
		o.st.Push(fmt.Sprintf("Restore requested for %s", key))
	}
}

func (o *Orchestrator) executeSavePolicy(a *state.SavePolicyAction) {
	sel := o.st.Selection()
	bucket := sel.SelectedBucketName()
	if bucket == "" {
		o.st.Push("Select a bucket before saving policy")
		return
	}
	active := sel.ActiveMask()
	if active == nil {
		o.st.Push("Apply a mask before saving policy")
		return
	}
	p := policy.Policy{
		Bucket:      bucket,
		Mask:        *active,
		TargetClass: a.Target,
	}
	if err := o.store.Add(p); err != nil {
		o.st.Push(fmt.Sprintf("Policy save failed: %v", err))
		return
	}
	o.st.SetPolicies(o.store.Policies())
	o.st.Push("Policy saved")
}

// LoadBuckets refreshes the bucket list from the backend.
func (o *Orchestrator) LoadBuckets(ctx context.Context) {
	buckets, err := o.backend.ListBuckets(ctx)
	if err != nil {
		o.st.Push(fmt.Sprintf("Failed to load buckets: %s", s3err.Classify(err).Error()))
		return
	}
	o.st.Selection().SetBuckets(buckets)
	o.st.Push(fmt.Sprintf("Loaded %d buckets", len(buckets)))
}

// LoadObjects refreshes the object list of the selected bucket and
// reapplies the active mask.
func (o *Orchestrator) LoadObjects(ctx context.Context) {
	sel := o.st.Selection()
	bucket := sel.SelectedBucketName()
	if bucket == "" {
		return
	}
	objects, err := o.backend.ListObjects(ctx, bucket, "")
	if err != nil {
		o.st.Push(fmt.Sprintf("Failed to load objects: %s", s3err.Classify(err).Error()))
		return
	}
	active := sel.ActiveMask()
	sel.SetObjects(objects)
	if active != nil {
		sel.ApplyMask(active)
	}
	o.st.Push(fmt.Sprintf("Loaded objects for bucket %s", bucket))
}

// RefreshSelectedObject re-fetches the metadata of the object under the
// cursor, including its restore status.
func (o *Orchestrator) RefreshSelectedObject(ctx context.Context) {
	sel := o.st.Selection()
	bucket := sel.SelectedBucketName()
	if bucket == "" {
		o.st.Push("Select a bucket first")
		return
	}
	obj := sel.SelectedObject()
	if obj == nil {
		o.st.Push("Select an object to inspect")
		return
	}
	refreshed, err := o.backend.RefreshObject(ctx, bucket, obj.Key)
	if err != nil {
		o.st.Push(fmt.Sprintf("Inspect failed: %s", s3err.Classify(err).Error()))
		return
	}
	sel.UpdateObject(refreshed)
	o.st.Push("Object metadata refreshed")
}

// ApplyPolicy runs a saved policy headlessly: list the bucket, select
// the mask matches, transition them sequentially with per-key
// isolation. Used by the daemon scheduler.
func (o *Orchestrator) ApplyPolicy(ctx context.Context, p policy.Policy) error {
	compiled, err := mask.Compile(p.Mask.Name, p.Mask.Pattern, p.Mask.Kind, p.Mask.CaseSensitive)
	if err != nil {
		return fmt.Errorf("ApplyPolicy: error compiling mask of policy %s: %w", p.ID, err)
	}
	objects, err := o.backend.ListObjects(ctx, p.Bucket, "")
	if err != nil {
		return fmt.Errorf("ApplyPolicy: error listing %s: %w", p.Bucket, err)
	}
	matched, failed := 0, 0
	for _, obj := range objects {
		if !compiled.Matches(obj.Key) {
			continue
		}
		matched++
		if obj.StorageClass == p.TargetClass {
			continue
		}
		if err := o.backend.TransitionStorageClass(ctx, p.Bucket, obj.Key, p.TargetClass); err != nil {
			failed++
			detail := s3err.Classify(err)
			o.log.Warn("policy transition failed",
				slog.String("policy", p.ID),
				slog.String("key", obj.Key),
				slog.String("category", string(detail.Category)),
				slog.String("error", detail.Error()))
		}
	}
	o.log.Info("policy applied",
		slog.String("policy", p.ID),
		slog.String("bucket", p.Bucket),
		slog.Int("matched", matched),
		slog.Int("failed", failed))
	return nil
}
