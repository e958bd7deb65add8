package profile

import (
	"context"
	"errors"
	"sync"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/suite"
	"github.com/tep-hq/playbook"
	"github.com/tep-hq/playbook/postgres"
)

type GormStoreSuite struct {
	suite.Suite

	store *GormStore
}

func TestGormStoreSuite(t *testing.T) {
	cfg := postgres.NewCxnConfig(playbook.Testing)
	if !cfg.Configured() {
		t.Skip("set DATABASE_TEST_URL or DATABASE_TEST_NAME to run database tests")
	}

	suite.Run(t, new(GormStoreSuite))
}

func (s *GormStoreSuite) SetupSuite() {
	db, err := postgres.Connect(postgres.NewCxnConfig(playbook.Testing), Migrations, playbook.Testing)
	s.Require().Nil(err)

	s.store = NewGormStore(db)
}

func (s *GormStoreSuite) TearDownTest() {
	s.Require().Nil(postgres.WipeDB(s.store.db))
}

func (s *GormStoreSuite) TestEnsure() {
	// Arrange
	id := uuid.New()
	ctx := context.Background()

	// Act
	first, err := s.store.Ensure(ctx, id)
	s.Require().Nil(err)

	second, err := s.store.Ensure(ctx, id)
	s.Require().Nil(err)

	// Assert
	s.Require().Equal(OutcomeCreated, first)
	s.Require().Equal(OutcomeExists, second)

	var p Profile
	s.Require().Nil(s.store.db.First(&p, "id = ?", id).Error)
	s.Require().Equal(PlanFree, p.Plan)
	s.Require().False(p.CreatedAt.IsZero())
}

func (s *GormStoreSuite) TestEnsureConcurrent() {
	// Arrange
	id := uuid.New()
	outs := make([]Outcome, 5)
	errs := make([]error, 5)

	// Act
	var wg sync.WaitGroup
	for i := range outs {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			outs[i], errs[i] = s.store.Ensure(context.Background(), id)
		}(i)
	}
	wg.Wait()

	// Assert
	var created int
	for i, out := range outs {
		s.Require().Nil(errs[i])
		if out == OutcomeCreated {
			created++
		}
	}
	s.Require().Equal(1, created)
}

func (s *GormStoreSuite) TestEnsureNilID() {
	out, err := s.store.Ensure(context.Background(), uuid.Nil)
	s.Require().Equal(OutcomeFailed, out)
	s.Require().True(errors.Is(err, playbook.ErrMissingData))
}

func (s *GormStoreSuite) TestEnsureMissingTable() {
	// Arrange
	s.Require().Nil(s.store.db.Exec("DROP TABLE profiles").Error)
	defer func() { s.Require().Nil(Migrations[0].Executor(s.store.db)) }()

	// Act
	out, err := s.store.Ensure(context.Background(), uuid.New())

	// Assert
	s.Require().Equal(OutcomeFailed, out)
	s.Require().True(errors.Is(err, playbook.ErrBadConfig))
}
