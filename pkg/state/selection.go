package state

import (
	"fmt"

	"github.com/sgaunet/s3migrate/pkg/dto"
	"github.com/sgaunet/s3migrate/pkg/mask"
)

// Selection holds the bucket list, the object lists of the current
// bucket and the active mask. It decides what "selected" means: the
// mask-matched set when a mask is active, the highlighted row otherwise.
type Selection struct {
	buckets  []dto.Bucket
	objects  []dto.Object
	filtered []dto.Object
	active   *mask.Mask

	bucketIdx int
	objectIdx int

	log *StatusLog
}

// Buckets returns the bucket list.
func (s *Selection) Buckets() []dto.Bucket { return s.buckets }

// Objects returns the unfiltered object list.
func (s *Selection) Objects() []dto.Object { return s.objects }

// ActiveMask returns the active mask, nil when no filter is applied.
func (s *Selection) ActiveMask() *mask.Mask { return s.active }

// BucketIndex returns the selected bucket index.
func (s *Selection) BucketIndex() int { return s.bucketIdx }

// ObjectIndex returns the selected object index within ActiveObjects.
func (s *Selection) ObjectIndex() int { return s.objectIdx }

// SetBuckets replaces the bucket list and resets the bucket cursor.
func (s *Selection) SetBuckets(buckets []dto.Bucket) {
	s.buckets = buckets
	s.bucketIdx = 0
}

// SetObjects replaces the object list of the current bucket, clears the
// filtered list and resets the object cursor.
func (s *Selection) SetObjects(objects []dto.Object) {
	s.objects = objects
	s.filtered = nil
	s.objectIdx = 0
}

// ApplyMask filters the object list with m, or clears the filter when m
// is nil. Zero matches is a valid, reported outcome.
func (s *Selection) ApplyMask(m *mask.Mask) {
	s.active = m
	if m == nil {
		s.filtered = nil
		s.push("Cleared mask filter")
		return
	}
	filtered := []dto.Object{}
	for _, obj := range s.objects {
		if m.Matches(obj.Key) {
			filtered = append(filtered, obj)
		}
	}
	s.filtered = filtered
	s.objectIdx = 0
	if len(filtered) == 0 {
		s.push("Mask applied but matched no objects")
	} else {
		s.push(fmt.Sprintf("Mask '%s' matched %d objects", m.Name, len(filtered)))
	}
}

// ReapplyMask recomputes the filtered list after the underlying objects
// changed, without emitting a status message.
func (s *Selection) ReapplyMask() {
	if s.active == nil {
		return
	}
	filtered := []dto.Object{}
	for _, obj := range s.objects {
		if s.active.Matches(obj.Key) {
			filtered = append(filtered, obj)
		}
	}
	s.filtered = filtered
	s.clampObject()
}

// ActiveObjects returns the filtered list when a mask is active, else
// the full list.
func (s *Selection) ActiveObjects() []dto.Object {
	if s.active != nil {
		return s.filtered
	}
	return s.objects
}

// SelectedBucketName returns the name of the selected bucket, or "".
func (s *Selection) SelectedBucketName() string {
	if s.bucketIdx < 0 || s.bucketIdx >= len(s.buckets) {
		return ""
	}
	return s.buckets[s.bucketIdx].Name
}

// SelectedObject returns the object under the cursor, or nil.
func (s *Selection) SelectedObject() *dto.Object {
	objects := s.ActiveObjects()
	if s.objectIdx < 0 || s.objectIdx >= len(objects) {
		return nil
	}
	return &objects[s.objectIdx]
}

// UpdateObject replaces the stored metadata of key and recomputes the
// filtered list.
func (s *Selection) UpdateObject(obj dto.Object) {
	for i := range s.objects {
		if s.objects[i].Key == obj.Key {
			s.objects[i] = obj
			break
		}
	}
	s.ReapplyMask()
}

// TargetKeys resolves the batch for an operation: all mask matches when
// a mask is active, otherwise the single selected row. Empty when
// nothing is selected.
func (s *Selection) TargetKeys() []string {
	if s.active != nil {
		keys := make([]string, 0, len(s.filtered))
		for _, obj := range s.filtered {
			keys = append(keys, obj.Key)
		}
		return keys
	}
	if s.objectIdx < 0 || s.objectIdx >= len(s.objects) {
		return nil
	}
	return []string{s.objects[s.objectIdx].Key}
}

// TargetCount returns the number of keys TargetKeys would resolve.
func (s *Selection) TargetCount() int {
	if s.active != nil {
		return len(s.filtered)
	}
	if s.objectIdx < 0 || s.objectIdx >= len(s.objects) {
		return 0
	}
	return 1
}

// MoveBucket moves the bucket cursor by delta, clamped. No-op on an
// empty list.
func (s *Selection) MoveBucket(delta int) {
	s.bucketIdx = clampMove(s.bucketIdx, delta, len(s.buckets))
}

// MoveObject moves the object cursor by delta within ActiveObjects.
func (s *Selection) MoveObject(delta int) {
	s.objectIdx = clampMove(s.objectIdx, delta, len(s.ActiveObjects()))
}

// JumpBucket moves the bucket cursor to the start or end of the list.
func (s *Selection) JumpBucket(toStart bool) {
	s.bucketIdx = jump(toStart, s.bucketIdx, len(s.buckets))
}

// JumpObject moves the object cursor to the start or end of the list.
func (s *Selection) JumpObject(toStart bool) {
	s.objectIdx = jump(toStart, s.objectIdx, len(s.ActiveObjects()))
}

func (s *Selection) clampObject() {
	n := len(s.ActiveObjects())
	if n == 0 {
		s.objectIdx = 0
		return
	}
	if s.objectIdx >= n {
		s.objectIdx = n - 1
	}
}

func (s *Selection) push(msg string) {
	if s.log != nil {
		s.log.Push(msg)
	}
}

func clampMove(idx, delta, n int) int {
	if n == 0 {
		return idx
	}
	idx += delta
	if idx < 0 {
		idx = 0
	}
	if idx >= n {
		idx = n - 1
	}
	return idx
}

func jump(toStart bool, idx, n int) int {
	if n == 0 {
		return idx
	}
	if toStart {
		return 0
	}
	return n - 1
}
