package state

import (
	"errors"
	"fmt"
	"time"
)

// Target date bucket layout.
const (
	TargetBucketName = "countdown"
	TargetKey        = "target_date"
)

// TargetLayout is the ISO-8601 form the target date is persisted in.
const TargetLayout = "2006-01-02T15:04:05.000Z07:00"

// ErrInvalidValue is returned when a stored value cannot be decoded.
var ErrInvalidValue = errors.New("stored value is invalid")

// TargetBucket persists the single user-chosen target date.
type TargetBucket struct {
	store Store
}

// NewTargetBucket creates the target bucket if needed.
func NewTargetBucket(store Store) (*TargetBucket, error) {
	if err := store.CreateBucket(TargetBucketName); err != nil && err != ErrBucketExists {
		return nil, err
	}
	return &TargetBucket{store: store}, nil
}

// GetTarget returns the stored target date, or ErrNotFound if none is set.
func (b *TargetBucket) GetTarget() (time.Time, error) {
	data, err := b.store.Get(TargetBucketName, TargetKey)
	if err != nil {
		return time.Time{}, err
	}
	t, err := time.Parse(time.RFC3339Nano, string(data))
	if err != nil {
		return time.Time{}, fmt.Errorf("%w: %q: %v", ErrInvalidValue, data, err)
	}
	return t, nil
}

// SetTarget replaces the stored target date.
func (b *TargetBucket) SetTarget(t time.Time) error {
	return b.store.Set(TargetBucketName, TargetKey, []byte(t.Format(TargetLayout)))
}

// ClearTarget removes the stored target date. Clearing an unset target is not an error.
func (b *TargetBucket) ClearTarget() error {
	if err := b.store.Delete(TargetBucketName, TargetKey); err != nil && err != ErrNotFound {
		return err
	}
	return nil
}
