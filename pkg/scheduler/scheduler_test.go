package scheduler_test

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/sgaunet/s3migrate/pkg/dto"
	"github.com/sgaunet/s3migrate/pkg/mask"
	"github.com/sgaunet/s3migrate/pkg/policy"
	"github.com/sgaunet/s3migrate/pkg/scheduler"
)

type recordingRunner struct {
	applied []string
}

func (r *recordingRunner) ApplyPolicy(ctx context.Context, p policy.Policy) error {
	r.applied = append(r.applied, p.ID)
	return nil
}

func TestStartStop_RegistersScheduledPoliciesOnly(t *testing.T) {
	store := policy.NewStore(filepath.Join(t.TempDir(), "policies.jsonl"))
	require.NoError(t, store.Load())
	require.NoError(t, store.Add(policy.Policy{
		Bucket:      "b",
		Mask:        mask.Mask{Name: "m", Pattern: "a/", Kind: mask.KindPrefix},
		TargetClass: dto.ClassGlacier,
	}))
	require.NoError(t, store.Add(policy.Policy{
		Bucket:      "b",
		Mask:        mask.Mask{Name: "m", Pattern: "a/", Kind: mask.KindPrefix},
		TargetClass: dto.ClassGlacier,
		Scheduled:   true,
		Schedule:    "0 3 * * *",
	}))

	runner := &recordingRunner{}
	s := scheduler.New(store, runner)
	require.NoError(t, s.Start(context.Background()))
	s.Stop()
	// entries fire on their cron schedule, none within this test window
	require.Empty(t, runner.applied)
}
