package valueobject

import (
	"errors"
	"fmt"
)

// ErrInvalidStatusTransition is returned when an adjustment is asked to move
// out of a status that does not allow it, e.g. cancelling an APPROVED record.
var ErrInvalidStatusTransition = errors.New("invalid status transition")

// AdjustmentStatus is the outcome of a payment adjustment request.
type AdjustmentStatus struct {
	value string
}

const (
	adjustmentStatusApproved          = "APPROVED"
	adjustmentStatusPartiallyApproved = "PARTIALLY_APPROVED"
	adjustmentStatusRejected          = "REJECTED"
	adjustmentStatusPendingReview     = "PENDING_REVIEW"
)

var (
	AdjustmentStatusApproved          = AdjustmentStatus{value: adjustmentStatusApproved}
	AdjustmentStatusPartiallyApproved = AdjustmentStatus{value: adjustmentStatusPartiallyApproved}
	AdjustmentStatusRejected          = AdjustmentStatus{value: adjustmentStatusRejected}
	AdjustmentStatusPendingReview     = AdjustmentStatus{value: adjustmentStatusPendingReview}
)

var validAdjustmentStatuses = map[string]AdjustmentStatus{
	adjustmentStatusApproved:          AdjustmentStatusApproved,
	adjustmentStatusPartiallyApproved: AdjustmentStatusPartiallyApproved,
	adjustmentStatusRejected:          AdjustmentStatusRejected,
	adjustmentStatusPendingReview:     AdjustmentStatusPendingReview,
}

// NewAdjustmentStatus creates an AdjustmentStatus from a raw string.
func NewAdjustmentStatus(s string) (AdjustmentStatus, error) {
	v, ok := validAdjustmentStatuses[s]
	if !ok {
		return AdjustmentStatus{}, fmt.Errorf("invalid adjustment status: %q", s)
	}
	return v, nil
}

// String returns the string representation of the status.
func (s AdjustmentStatus) String() string { return s.value }

// IsZero returns true if the status has not been initialised.
func (s AdjustmentStatus) IsZero() bool { return s.value == "" }

// Equal returns true when both statuses carry the same value.
func (s AdjustmentStatus) Equal(other AdjustmentStatus) bool { return s.value == other.value }

// IsCancellable reports whether a record in this status may still be withdrawn.
// Only records awaiting review can be cancelled; every decided record is final.
func (s AdjustmentStatus) IsCancellable() bool {
	return s.value == adjustmentStatusPendingReview
}

// MarshalText implements encoding.TextMarshaler.
func (s AdjustmentStatus) MarshalText() ([]byte, error) { return []byte(s.value), nil }

// UnmarshalText implements encoding.TextUnmarshaler. Empty input leaves the
// value unset.
func (s *AdjustmentStatus) UnmarshalText(b []byte) error {
	if len(b) == 0 {
		*s = AdjustmentStatus{}
		return nil
	}
	v, err := NewAdjustmentStatus(string(b))
	if err != nil {
		return err
	}
	*s = v
	return nil
}
