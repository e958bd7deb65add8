// Package profile keeps a row per user in the profiles table.
//
// The table is optional: without a database, NoopStore skips every request.
package profile

import (
	"context"
	"time"

	"github.com/google/uuid"
)

// PlanFree is the plan every new profile starts on.
const PlanFree = "free"

// An Outcome reports what Ensure did.
type Outcome string

const (
	OutcomeCreated Outcome = "created"
	OutcomeExists  Outcome = "exists"
	OutcomeSkipped Outcome = "skipped"
	OutcomeFailed  Outcome = "failed"
)

// String implements fmt.Stringer.
func (o Outcome) String() string { return string(o) }

// A Profile is a user's row in the profiles table.
type Profile struct {
	ID        uuid.UUID `gorm:"type:uuid;primaryKey"`
	Plan      string
	CreatedAt time.Time
}

// TableName overrides gorm's naming.
func (Profile) TableName() string { return "profiles" }

// A Store makes sure a profile exists for a user.
type Store interface {
	// Ensure creates the user's profile unless it exists.
	// An error is only returned alongside OutcomeFailed.
	Ensure(ctx context.Context, userID uuid.UUID) (Outcome, error)
}

// NoopStore is the Store used when no database is configured.
type NoopStore struct{}

// Ensure implements Store.
func (NoopStore) Ensure(context.Context, uuid.UUID) (Outcome, error) { return OutcomeSkipped, nil }
