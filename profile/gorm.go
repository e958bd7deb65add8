package profile

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/tep-hq/playbook"
	"github.com/tep-hq/playbook/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// GormStore is a Store kept in PostgreSQL.
type GormStore struct {
	db *gorm.DB
}

// NewGormStore constructs a *GormStore using db.
func NewGormStore(db *gorm.DB) *GormStore { return &GormStore{db: db} }

// Ensure implements Store.
//
// When two requests race, the losing insert does nothing and reports OutcomeExists.
func (s *GormStore) Ensure(ctx context.Context, userID uuid.UUID) (Outcome, error) {
	if userID == uuid.Nil {
		return OutcomeFailed, fmt.Errorf("%w: user ID", playbook.ErrMissingData)
	}

	db := s.db.WithContext(ctx)

	var existing Profile
	err := db.Select("id").Where("id = ?", userID).Take(&existing).Error
	switch {
	case err == nil:
		return OutcomeExists, nil
	case !errors.Is(err, gorm.ErrRecordNotFound):
		return OutcomeFailed, postgres.Err(err)
	}

	res := db.
		Clauses(clause.OnConflict{DoNothing: true}).
		Create(&Profile{ID: userID, Plan: PlanFree})
	if res.Error != nil {
		return OutcomeFailed, postgres.Err(res.Error)
	}

	if res.RowsAffected == 0 {
		return OutcomeExists, nil
	}

	return OutcomeCreated, nil
}

// Migrations creates the profiles table.
var Migrations = []postgres.Migration{
	{
		Key: "create-profiles",
		Executor: func(db *gorm.DB) error {
			return db.Exec(`
				CREATE TABLE IF NOT EXISTS profiles (
					id uuid PRIMARY KEY,
					plan text NOT NULL DEFAULT 'free',
					created_at timestamptz NOT NULL DEFAULT now()
				)
			`).Error
		},
	},
}
