package state_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sgaunet/s3migrate/pkg/dto"
	"github.com/sgaunet/s3migrate/pkg/mask"
	"github.com/sgaunet/s3migrate/pkg/state"
)

func objects(keys ...string) []dto.Object {
	out := make([]dto.Object, 0, len(keys))
	for _, k := range keys {
		out = append(out, dto.Object{Key: k, StorageClass: dto.ClassStandard})
	}
	return out
}

func machineWithObjects(t *testing.T, keys ...string) *state.Machine {
	t.Helper()
	m := state.NewMachine(nil)
	m.Selection().SetBuckets([]dto.Bucket{{Name: "bucket-a"}})
	m.Selection().SetObjects(objects(keys...))
	return m
}

func mustMask(t *testing.T, pattern string, kind mask.Kind) *mask.Mask {
	t.Helper()
	m, err := mask.Compile("test", pattern, kind, false)
	require.NoError(t, err)
	return m
}

func TestApplyMaskThenClearRestoresFullList(t *testing.T) {
	m := machineWithObjects(t, "a/1", "b/1", "a/2")
	sel := m.Selection()
	before := sel.ActiveObjects()

	sel.ApplyMask(mustMask(t, "a/", mask.KindPrefix))
	assert.Len(t, sel.ActiveObjects(), 2)

	sel.ApplyMask(nil)
	assert.Equal(t, before, sel.ActiveObjects(), "clearing the mask restores the exact pre-filter list and order")
}

func TestApplyMaskZeroMatchesIsReportedNotAnError(t *testing.T) {
	m := machineWithObjects(t, "a/1", "a/2")
	sel := m.Selection()
	sel.ApplyMask(mustMask(t, "zzz", mask.KindPrefix))
	assert.Empty(t, sel.ActiveObjects())
	assert.Equal(t, "Mask applied but matched no objects", m.Status().Last())
}

func TestTargetKeys(t *testing.T) {
	m := machineWithObjects(t, "a/1", "b/1", "a/2")
	sel := m.Selection()

	// no mask: the single selected row
	sel.MoveObject(1)
	assert.Equal(t, []string{"a/2"}, sel.TargetKeys())

	// active mask: all matches
	sel.ApplyMask(mustMask(t, "a/", mask.KindPrefix))
	assert.ElementsMatch(t, []string{"a/1", "a/2"}, sel.TargetKeys())

	// empty bucket: no targets
	sel.ApplyMask(nil)
	sel.SetObjects(nil)
	assert.Empty(t, sel.TargetKeys())
	assert.Zero(t, sel.TargetCount())
}

func TestMovementClampsAndIgnoresEmptyLists(t *testing.T) {
	m := machineWithObjects(t, "a", "b", "c")
	sel := m.Selection()

	sel.MoveObject(-10)
	assert.Equal(t, 0, sel.ObjectIndex())
	sel.MoveObject(10)
	assert.Equal(t, 2, sel.ObjectIndex())
	sel.JumpObject(true)
	assert.Equal(t, 0, sel.ObjectIndex())
	sel.JumpObject(false)
	assert.Equal(t, 2, sel.ObjectIndex())

	sel.SetObjects(nil)
	sel.MoveObject(1)
	assert.Equal(t, 0, sel.ObjectIndex(), "moving in an empty list is a no-op")

	sel.SetBuckets(nil)
	sel.MoveBucket(1)
	assert.Equal(t, 0, sel.BucketIndex())
	assert.Equal(t, "", sel.SelectedBucketName())
}

func TestSetObjectsResetsFilterAndCursor(t *testing.T) {
	m := machineWithObjects(t, "a/1", "a/2")
	sel := m.Selection()
	sel.ApplyMask(mustMask(t, "a/", mask.KindPrefix))
	sel.MoveObject(1)

	sel.SetObjects(objects("x", "y", "z"))
	assert.Equal(t, 0, sel.ObjectIndex())
	// the mask object stays active but must be reapplied by the caller
	sel.ReapplyMask()
	assert.Empty(t, sel.ActiveObjects())
}

func TestUpdateObjectRecomputesFilteredList(t *testing.T) {
	m := machineWithObjects(t, "a/1", "a/2")
	sel := m.Selection()
	sel.ApplyMask(mustMask(t, "a/", mask.KindPrefix))

	updated := dto.Object{Key: "a/1", StorageClass: dto.ClassGlacier}
	sel.UpdateObject(updated)
	assert.Equal(t, dto.ClassGlacier, sel.ActiveObjects()[0].StorageClass)
}
