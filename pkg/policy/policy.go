// Package policy persists saved migration policies as an append-only
// JSON-lines file.
package policy

import (
	"bufio"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"time"

	"github.com/google/uuid"
	"github.com/robfig/cron/v3"

	"github.com/sgaunet/s3migrate/pkg/dto"
	"github.com/sgaunet/s3migrate/pkg/mask"
)

var (
	// ErrNoBucket is returned when a policy has no bucket name.
	ErrNoBucket = errors.New("policy requires a bucket")
	// ErrNoMask is returned when a policy has no mask pattern.
	ErrNoMask = errors.New("policy requires a mask with a pattern")
	// ErrBadTarget is returned for target classes that cannot be migrated to.
	ErrBadTarget = errors.New("policy target is not a selectable storage class")
)

// Policy is a saved (bucket, mask, target class) migration rule.
// Records are immutable once stored.
type Policy struct {
	ID          string           `json:"id"`
	Bucket      string           `json:"bucket"`
	Mask        mask.Mask        `json:"mask"`
	TargetClass dto.StorageClass `json:"targetClass"`
	Scheduled   bool             `json:"scheduled"`
	Schedule    string           `json:"schedule,omitempty"`
	CreatedAt   time.Time        `json:"createdAt"`
}

// Store is an append log of policies backed by a JSON-lines file.
type Store struct {
	path     string
	policies []Policy
}

// NewStore creates a store over the given file path. Call Load before
// using it.
func NewStore(path string) *Store {
	return &Store{path: path}
}

// Load reads all persisted policies into the in-memory mirror. A
// missing file is an empty store; a malformed record is an error, the
// caller treats it as fatal rather than start with a partial policy set.
func (s *Store) Load() error {
	f, err := os.Open(s.path)
	if err != nil {
		if os.IsNotExist(err) {
			s.policies = nil
			return nil
		}
		return fmt.Errorf("Load: error opening %s: %w", s.path, err)
	}
	defer f.Close()

	var loaded []Policy
	scanner := bufio.NewScanner(f)
	for scanner.Scan() {
		line := scanner.Bytes()
		if len(line) == 0 {
			continue
		}
		var p Policy
		if err := json.Unmarshal(line, &p); err != nil {
			return fmt.Errorf("Load: malformed policy record in %s: %w", s.path, err)
		}
		loaded = append(loaded, p)
	}
	if err := scanner.Err(); err != nil {
		return fmt.Errorf("Load: error reading %s: %w", s.path, err)
	}
	s.policies = loaded
	return nil
}

// Add validates the policy, persists it and appends it to the mirror.
// The stored record gets a fresh ID and creation timestamp.
func (s *Store) Add(p Policy) error {
	if p.Bucket == "" {
		return ErrNoBucket
	}
	if p.Mask.Pattern == "" {
		return ErrNoMask
	}
	if !p.TargetClass.IsSelectable() {
		return ErrBadTarget
	}
	if p.Scheduled {
		if _, err := cron.ParseStandard(p.Schedule); err != nil {
			return fmt.Errorf("Add: invalid schedule %q: %w", p.Schedule, err)
		}
	}
	p.ID = uuid.NewString()
	p.CreatedAt = time.Now().UTC()

	line, err := json.Marshal(p)
	if err != nil {
		return fmt.Errorf("Add: error marshaling policy: %w", err)
	}
	f, err := os.OpenFile(s.path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o600)
	if err != nil {
		return fmt.Errorf("Add: error opening %s: %w", s.path, err)
	}
	defer f.Close()
	if _, err := f.Write(append(line, '\n')); err != nil {
		return fmt.Errorf("Add: error writing %s: %w", s.path, err)
	}
	if err := f.Sync(); err != nil {
		return fmt.Errorf("Add: error syncing %s: %w", s.path, err)
	}
	s.policies = append(s.policies, p)
	return nil
}

// Policies returns a copy of the in-memory mirror.
func (s *Store) Policies() []Policy {
	out := make([]Policy, len(s.policies))
	copy(out, s.policies)
	return out
}
