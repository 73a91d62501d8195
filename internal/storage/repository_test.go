package storage

import (
	"context"
	"errors"
	"path/filepath"
	"testing"

	"gastos/internal/core"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/stretchr/testify/suite"
)

type RepositoryTestSuite struct {
	suite.Suite
	repo *Repository
	ctx  context.Context
}

func (s *RepositoryTestSuite) SetupTest() {
	dbPath := filepath.Join(s.T().TempDir(), "gastos.db")
	repo, err := NewRepository(dbPath)
	require.NoError(s.T(), err, "failed to create test database")
	s.repo = repo
	s.ctx = context.Background()
}

func (s *RepositoryTestSuite) TearDownTest() {
	if s.repo != nil {
		s.repo.Close()
	}
}

func testUser(username, email string) core.User {
	return core.User{
		FirstName:     "Maria",
		LastName:      "Santos",
		Email:         email,
		Age:           28,
		Sex:           "Female",
		ContactNumber: "09171234567",
		Username:      username,
		Password:      "secret",
	}
}

func (s *RepositoryTestSuite) TestEnsureAdminIdempotent() {
	require.NoError(s.T(), s.repo.EnsureAdmin(s.ctx))
	require.NoError(s.T(), s.repo.EnsureAdmin(s.ctx))

	users, err := s.repo.ListUsers(s.ctx)
	require.NoError(s.T(), err)
	assert.Len(s.T(), users, 1)
	assert.Equal(s.T(), "admin", users[0].Username)
	assert.True(s.T(), users[0].IsAdmin())
}

func (s *RepositoryTestSuite) TestCreateAndAuthenticateUser() {
	id, err := s.repo.CreateUser(s.ctx, testUser("maria", "maria@example.com"))
	require.NoError(s.T(), err)
	assert.Greater(s.T(), id, int64(0))

	u, err := s.repo.GetUserByCredentials(s.ctx, "maria", "secret")
	require.NoError(s.T(), err)
	assert.Equal(s.T(), id, u.ID)
	assert.Equal(s.T(), "maria@example.com", u.Email)
}

func (s *RepositoryTestSuite) TestCredentialsMismatch() {
	_, err := s.repo.CreateUser(s.ctx, testUser("maria", "maria@example.com"))
	require.NoError(s.T(), err)

	_, err = s.repo.GetUserByCredentials(s.ctx, "maria", "wrong")
	assert.ErrorIs(s.T(), err, core.ErrInvalidCredentials)

	_, err = s.repo.GetUserByCredentials(s.ctx, "nobody", "secret")
	assert.ErrorIs(s.T(), err, core.ErrInvalidCredentials)
}

func (s *RepositoryTestSuite) TestDuplicateUsernameConflict() {
	_, err := s.repo.CreateUser(s.ctx, testUser("maria", "maria@example.com"))
	require.NoError(s.T(), err)

	_, err = s.repo.CreateUser(s.ctx, testUser("maria", "other@example.com"))
	var conflict *core.ConflictError
	require.ErrorAs(s.T(), err, &conflict)
	assert.Equal(s.T(), "username", conflict.Field)

	// The second user was not persisted.
	users, err := s.repo.ListUsers(s.ctx)
	require.NoError(s.T(), err)
	assert.Len(s.T(), users, 1)
}

func (s *RepositoryTestSuite) TestDuplicateEmailConflict() {
	_, err := s.repo.CreateUser(s.ctx, testUser("maria", "maria@example.com"))
	require.NoError(s.T(), err)

	_, err = s.repo.CreateUser(s.ctx, testUser("other", "maria@example.com"))
	var conflict *core.ConflictError
	require.ErrorAs(s.T(), err, &conflict)
	assert.Equal(s.T(), "email", conflict.Field)
}

func (s *RepositoryTestSuite) TestDeleteUserDoesNotCascade() {
	id, err := s.repo.CreateUser(s.ctx, testUser("maria", "maria@example.com"))
	require.NoError(s.T(), err)

	_, err = s.repo.CreateExpense(s.ctx, core.Expense{
		UserID:   &id,
		Amount:   core.Money{Cents: 1000},
		Category: "Food",
		Date:     core.NewDate(2024, 1, 15),
	})
	require.NoError(s.T(), err)

	require.NoError(s.T(), s.repo.DeleteUser(s.ctx, id))

	// Expenses survive their owner.
	expenses, err := s.repo.ListExpenses(s.ctx, &id, core.SortInsertion)
	require.NoError(s.T(), err)
	assert.Len(s.T(), expenses, 1)

	// Deleting again is a silent no-op.
	assert.NoError(s.T(), s.repo.DeleteUser(s.ctx, id))
}

func (s *RepositoryTestSuite) TestExpenseRoundTrip() {
	cents, err := core.ParseAmountToCents("12.5")
	require.NoError(s.T(), err)

	id, err := s.repo.CreateExpense(s.ctx, core.Expense{
		Amount:      core.Money{Cents: cents},
		Category:    "Food",
		Date:        core.NewDate(2024, 1, 15),
		Description: "lunch",
	})
	require.NoError(s.T(), err)

	expenses, err := s.repo.ListExpenses(s.ctx, nil, core.SortInsertion)
	require.NoError(s.T(), err)
	require.Len(s.T(), expenses, 1)

	e := expenses[0]
	assert.Equal(s.T(), id, e.ID)
	assert.Equal(s.T(), "12.50", e.Amount.String(), "amount scale normalized to 2 decimals")
	assert.Equal(s.T(), "2024-01-15", e.Date.String())
	assert.Equal(s.T(), "lunch", e.Description)
	assert.Nil(s.T(), e.UserID)
}

func (s *RepositoryTestSuite) TestGetExpenseNotFound() {
	_, err := s.repo.GetExpense(s.ctx, 42)
	var nf *core.NotFoundError
	require.ErrorAs(s.T(), err, &nf)
	assert.Equal(s.T(), "expense", nf.Entity)
}

func (s *RepositoryTestSuite) TestDeleteAbsentExpenseIsNoOp() {
	_, err := s.repo.CreateExpense(s.ctx, core.Expense{
		Amount:   core.Money{Cents: 500},
		Category: "Food",
		Date:     core.NewDate(2024, 1, 15),
	})
	require.NoError(s.T(), err)

	require.NoError(s.T(), s.repo.DeleteExpense(s.ctx, 9999))

	expenses, err := s.repo.ListExpenses(s.ctx, nil, core.SortInsertion)
	require.NoError(s.T(), err)
	assert.Len(s.T(), expenses, 1, "listing unchanged after deleting absent id")
}

func (s *RepositoryTestSuite) TestListExpensesSortModes() {
	dates := []core.Date{
		core.NewDate(2024, 1, 20),
		core.NewDate(2024, 1, 10),
		core.NewDate(2024, 1, 15),
	}
	for i, d := range dates {
		_, err := s.repo.CreateExpense(s.ctx, core.Expense{
			Amount:   core.Money{Cents: int64(100 * (i + 1))},
			Category: "Food",
			Date:     d,
		})
		require.NoError(s.T(), err)
	}

	byInsertion, err := s.repo.ListExpenses(s.ctx, nil, core.SortInsertion)
	require.NoError(s.T(), err)
	require.Len(s.T(), byInsertion, 3)
	assert.Equal(s.T(), "2024-01-20", byInsertion[0].Date.String())

	byDateAsc, err := s.repo.ListExpenses(s.ctx, nil, core.SortDateAsc)
	require.NoError(s.T(), err)
	assert.Equal(s.T(), "2024-01-10", byDateAsc[0].Date.String())
	assert.Equal(s.T(), "2024-01-20", byDateAsc[2].Date.String())

	byDateDesc, err := s.repo.ListExpenses(s.ctx, nil, core.SortDateDesc)
	require.NoError(s.T(), err)
	assert.Equal(s.T(), "2024-01-20", byDateDesc[0].Date.String())
	assert.Equal(s.T(), "2024-01-10", byDateDesc[2].Date.String())
}

func (s *RepositoryTestSuite) TestListExpensesByOwner() {
	owner, err := s.repo.CreateUser(s.ctx, testUser("maria", "maria@example.com"))
	require.NoError(s.T(), err)
	other, err := s.repo.CreateUser(s.ctx, testUser("juan", "juan@example.com"))
	require.NoError(s.T(), err)

	for _, uid := range []int64{owner, owner, other} {
		uid := uid
		_, err := s.repo.CreateExpense(s.ctx, core.Expense{
			UserID:   &uid,
			Amount:   core.Money{Cents: 100},
			Category: "Food",
			Date:     core.NewDate(2024, 1, 15),
		})
		require.NoError(s.T(), err)
	}

	mine, err := s.repo.ListExpenses(s.ctx, &owner, core.SortInsertion)
	require.NoError(s.T(), err)
	assert.Len(s.T(), mine, 2)

	all, err := s.repo.ListExpenses(s.ctx, nil, core.SortInsertion)
	require.NoError(s.T(), err)
	assert.Len(s.T(), all, 3)
}

func (s *RepositoryTestSuite) TestSumInRangeInclusiveEnds() {
	start := core.NewDate(2024, 1, 10)
	end := core.NewDate(2024, 1, 20)

	// Empty range sums to zero, not an error.
	total, err := s.repo.SumInRange(s.ctx, nil, start, end)
	require.NoError(s.T(), err)
	assert.Equal(s.T(), int64(0), total.Cents)

	rows := []struct {
		date  core.Date
		cents int64
	}{
		{core.NewDate(2024, 1, 10), 100}, // exactly start: included
		{core.NewDate(2024, 1, 20), 200}, // exactly end: included
		{core.NewDate(2024, 1, 9), 400},  // day before: excluded
		{core.NewDate(2024, 1, 21), 800}, // day after: excluded
	}
	for _, row := range rows {
		_, err := s.repo.CreateExpense(s.ctx, core.Expense{
			Amount:   core.Money{Cents: row.cents},
			Category: "Food",
			Date:     row.date,
		})
		require.NoError(s.T(), err)
	}

	total, err = s.repo.SumInRange(s.ctx, nil, start, end)
	require.NoError(s.T(), err)
	assert.Equal(s.T(), int64(300), total.Cents)
}

func (s *RepositoryTestSuite) TestSumInRangeByOwner() {
	owner, err := s.repo.CreateUser(s.ctx, testUser("maria", "maria@example.com"))
	require.NoError(s.T(), err)

	_, err = s.repo.CreateExpense(s.ctx, core.Expense{
		UserID:   &owner,
		Amount:   core.Money{Cents: 100},
		Category: "Food",
		Date:     core.NewDate(2024, 1, 15),
	})
	require.NoError(s.T(), err)
	_, err = s.repo.CreateExpense(s.ctx, core.Expense{
		Amount:   core.Money{Cents: 900},
		Category: "Food",
		Date:     core.NewDate(2024, 1, 15),
	})
	require.NoError(s.T(), err)

	total, err := s.repo.SumInRange(s.ctx, &owner, core.NewDate(2024, 1, 1), core.NewDate(2024, 1, 31))
	require.NoError(s.T(), err)
	assert.Equal(s.T(), int64(100), total.Cents)
}

func (s *RepositoryTestSuite) TestMigrationsIdempotent() {
	// A second migration pass over an up-to-date schema is a no-op.
	require.NoError(s.T(), RunMigrations(s.repo.db))

	_, err := s.repo.ListUsers(s.ctx)
	assert.NoError(s.T(), err)
}

func (s *RepositoryTestSuite) TestStoreErrorsAreTyped() {
	require.NoError(s.T(), s.repo.Close())

	_, err := s.repo.ListUsers(s.ctx)
	var se *core.StoreError
	assert.True(s.T(), errors.As(err, &se), "engine failures surface as StoreError")
}

func TestRepositorySuite(t *testing.T) {
	suite.Run(t, new(RepositoryTestSuite))
}
