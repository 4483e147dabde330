package adapter

import (
	"strings"
	"time"

	"github.com/google/uuid"
)

const adjustmentIDPrefix = "ADJ-"

// UUIDAdjustmentIDs issues adjustment ids of the form ADJ-XXXXXXXX from the
// first eight hex digits of a random UUID.
type UUIDAdjustmentIDs struct{}

// NewUUIDAdjustmentIDs creates an id generator.
func NewUUIDAdjustmentIDs() UUIDAdjustmentIDs {
	return UUIDAdjustmentIDs{}
}

// NewAdjustmentID implements port.IDGenerator.
func (UUIDAdjustmentIDs) NewAdjustmentID() string {
	return adjustmentIDPrefix + strings.ToUpper(uuid.NewString()[:8])
}

// SystemClock implements port.Clock with the wall clock in UTC.
type SystemClock struct{}

// Now returns the current UTC time.
func (SystemClock) Now() time.Time {
	return time.Now().UTC()
}
