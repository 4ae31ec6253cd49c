package policy_test

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sgaunet/s3migrate/pkg/dto"
	"github.com/sgaunet/s3migrate/pkg/mask"
	"github.com/sgaunet/s3migrate/pkg/policy"
)

func testPolicy() policy.Policy {
	return policy.Policy{
		Bucket: "backups",
		Mask: mask.Mask{
			Name:    "old logs",
			Pattern: "logs/",
			Kind:    mask.KindPrefix,
		},
		TargetClass: dto.ClassGlacier,
	}
}

func storePath(t *testing.T) string {
	t.Helper()
	return filepath.Join(t.TempDir(), "policies.jsonl")
}

func TestLoad_MissingFileIsEmptyStore(t *testing.T) {
	s := policy.NewStore(storePath(t))
	require.NoError(t, s.Load())
	assert.Empty(t, s.Policies())
}

func TestAdd_PersistsAndMirrors(t *testing.T) {
	path := storePath(t)
	s := policy.NewStore(path)
	require.NoError(t, s.Load())

	require.NoError(t, s.Add(testPolicy()))
	got := s.Policies()
	require.Len(t, got, 1)
	assert.NotEmpty(t, got[0].ID)
	assert.False(t, got[0].CreatedAt.IsZero())
	assert.Equal(t, "backups", got[0].Bucket)

	// a fresh store sees the same record: full round trip
	reloaded := policy.NewStore(path)
	require.NoError(t, reloaded.Load())
	require.Len(t, reloaded.Policies(), 1)
	assert.Equal(t, got[0], reloaded.Policies()[0])
}

func TestAdd_DuplicatesAllowed(t *testing.T) {
	s := policy.NewStore(storePath(t))
	require.NoError(t, s.Load())
	require.NoError(t, s.Add(testPolicy()))
	require.NoError(t, s.Add(testPolicy()))
	got := s.Policies()
	require.Len(t, got, 2)
	assert.NotEqual(t, got[0].ID, got[1].ID)
}

func TestAdd_Validation(t *testing.T) {
	s := policy.NewStore(storePath(t))
	require.NoError(t, s.Load())

	p := testPolicy()
	p.Bucket = ""
	assert.ErrorIs(t, s.Add(p), policy.ErrNoBucket)

	p = testPolicy()
	p.Mask.Pattern = ""
	assert.ErrorIs(t, s.Add(p), policy.ErrNoMask)

	p = testPolicy()
	p.TargetClass = dto.ClassUnknown
	assert.ErrorIs(t, s.Add(p), policy.ErrBadTarget)

	assert.Empty(t, s.Policies(), "failed adds must not mutate the store")
}

func TestAdd_ScheduleValidation(t *testing.T) {
	s := policy.NewStore(storePath(t))
	require.NoError(t, s.Load())

	p := testPolicy()
	p.Scheduled = true
	p.Schedule = "not a cron expression"
	assert.Error(t, s.Add(p))
	assert.Empty(t, s.Policies())

	p.Schedule = "0 3 * * *"
	require.NoError(t, s.Add(p))
	require.Len(t, s.Policies(), 1)
	assert.True(t, s.Policies()[0].Scheduled)
}

func TestLoad_MalformedRecordIsAnError(t *testing.T) {
	path := storePath(t)
	require.NoError(t, os.WriteFile(path, []byte("{not json}\n"), 0o600))
	s := policy.NewStore(path)
	assert.Error(t, s.Load(), "a partial policy set must not load silently")
}

func TestLoad_RoundTripsMaskFields(t *testing.T) {
	path := storePath(t)
	s := policy.NewStore(path)
	require.NoError(t, s.Load())

	p := testPolicy()
	p.Mask.Kind = mask.KindRegex
	p.Mask.Pattern = `\.log$`
	p.Mask.CaseSensitive = true
	require.NoError(t, s.Add(p))

	reloaded := policy.NewStore(path)
	require.NoError(t, reloaded.Load())
	got := reloaded.Policies()[0].Mask
	assert.Equal(t, mask.KindRegex, got.Kind)
	assert.Equal(t, `\.log$`, got.Pattern)
	assert.True(t, got.CaseSensitive)
}
