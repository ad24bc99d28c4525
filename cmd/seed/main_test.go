package main

import (
	"bytes"
	"context"
	"errors"
	"strings"
	"sync"
	"testing"
	"time"

	"finance-tracker/internal/data/entity"
	"finance-tracker/internal/data/repository"
	"finance-tracker/pkg/utils"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type recordingStore struct {
	mu         sync.Mutex
	userIDs    []int64
	categories []*entity.Category
	users      [][]*entity.User
	expenses   [][]*entity.Expense
	loans      [][]*entity.Loan
	insurances [][]*entity.Insurance
	failAfter  int
}

type userRepo struct {
	repository.UserRepository
	s *recordingStore
}

func (r userRepo) ListIDs(context.Context) ([]int64, error) { return r.s.userIDs, nil }

func (r userRepo) CreateBatch(_ context.Context, users []*entity.User) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if r.s.failAfter > 0 && len(r.s.users) >= r.s.failAfter {
		return errors.New("batch rejected")
	}
	r.s.users = append(r.s.users, users)
	return nil
}

type categoryRepo struct {
	repository.CategoryRepository
	s *recordingStore
}

func (r categoryRepo) List(context.Context) ([]*entity.Category, error) { return r.s.categories, nil }

type expenseRepo struct {
	repository.ExpenseRepository
	s *recordingStore
}

func (r expenseRepo) CreateBatch(_ context.Context, expenses []*entity.Expense) error {
	r.s.expenses = append(r.s.expenses, expenses)
	return nil
}

type loanRepo struct {
	repository.LoanRepository
	s *recordingStore
}

func (r loanRepo) CreateBatch(_ context.Context, loans []*entity.Loan) error {
	r.s.loans = append(r.s.loans, loans)
	return nil
}

type insuranceRepo struct {
	repository.InsuranceRepository
	s *recordingStore
}

func (r insuranceRepo) CreateBatch(_ context.Context, insurances []*entity.Insurance) error {
	r.s.insurances = append(r.s.insurances, insurances)
	return nil
}

func (s *recordingStore) store() *store {
	return &store{
		users:      userRepo{s: s},
		categories: categoryRepo{s: s},
		expenses:   expenseRepo{s: s},
		loans:      loanRepo{s: s},
		insurances: insuranceRepo{s: s},
	}
}

func useStore(t *testing.T, rs *recordingStore) {
	t.Helper()
	orig := openStore
	openStore = func(context.Context) (*store, func(), error) {
		return rs.store(), func() {}, nil
	}
	t.Cleanup(func() { openStore = orig })
}

func TestParseFlags(t *testing.T) {
	opts, err := parseFlags([]string{"-kind", "loans", "-count", "7", "-batch", "3", "-yes"}, &bytes.Buffer{})
	require.NoError(t, err)
	assert.Equal(t, options{kind: "loans", count: 7, batch: 3, password: defaultSeedPassword, yes: true}, opts)
	ok, _ := utils.IsStrongPassword(opts.password)
	assert.True(t, ok, "default password follows the password rules")

	_, err = parseFlags([]string{"-kind", "cats"}, &bytes.Buffer{})
	assert.ErrorContains(t, err, "unknown -kind")

	_, err = parseFlags([]string{"-kind", "users", "-batch", "0"}, &bytes.Buffer{})
	assert.Error(t, err)

	_, err = parseFlags([]string{"-kind", "users", "-password", "password123"}, &bytes.Buffer{})
	assert.ErrorContains(t, err, "-password: Password must include uppercase")
}

func TestRunAbortsWithoutConfirmation(t *testing.T) {
	rs := &recordingStore{}
	useStore(t, rs)

	var out bytes.Buffer
	err := run(context.Background(), []string{"-kind", "users", "-count", "2"}, strings.NewReader("n\n"), &out, &bytes.Buffer{})

	require.NoError(t, err)
	assert.Contains(t, out.String(), "Aborted.")
	assert.Empty(t, rs.users)
}

func TestRunSeedsUsersInBatches(t *testing.T) {
	rs := &recordingStore{}
	useStore(t, rs)

	var out bytes.Buffer
	err := run(context.Background(), []string{"-kind", "users", "-count", "5", "-batch", "2"}, strings.NewReader("y\n"), &out, &bytes.Buffer{})
	require.NoError(t, err)

	require.Len(t, rs.users, 3)
	assert.Len(t, rs.users[0], 2)
	assert.Len(t, rs.users[2], 1)

	emails := map[string]bool{}
	hash := rs.users[0][0].PasswordHash
	for _, batch := range rs.users {
		for _, u := range batch {
			assert.False(t, emails[u.Email], "duplicate email %s", u.Email)
			emails[u.Email] = true
			assert.Equal(t, hash, u.PasswordHash, "users share one hash")
		}
	}
	assert.Contains(t, out.String(), "Done: inserted 5 users")
}

func TestSeedExpensesUsesExistingRows(t *testing.T) {
	rs := &recordingStore{
		userIDs:    []int64{11, 12},
		categories: []*entity.Category{{CategoryID: 3, Name: "Gas"}},
	}
	s := newSeeder(rs.store(), 42)
	now := time.Date(2024, 6, 1, 0, 0, 0, 0, time.UTC)
	s.now = func() time.Time { return now }

	n, err := s.seed(context.Background(), options{kind: "expenses", count: 20, batch: 20}, &bytes.Buffer{})
	require.NoError(t, err)
	assert.Equal(t, 20, n)

	for _, e := range rs.expenses[0] {
		assert.Contains(t, []int64{11, 12}, e.UserID)
		assert.Equal(t, 3, e.CategoryID)
		assert.GreaterOrEqual(t, e.Amount, 10.0)
		assert.LessOrEqual(t, e.Amount, 5000.0)
		assert.False(t, e.Date.After(now))
	}
}

func TestSeedLoansAndInsurancesUseReferenceLists(t *testing.T) {
	rs := &recordingStore{userIDs: []int64{1}}
	s := newSeeder(rs.store(), 7)

	_, err := s.seed(context.Background(), options{kind: "loans", count: 10, batch: 4}, &bytes.Buffer{})
	require.NoError(t, err)
	_, err = s.seed(context.Background(), options{kind: "insurances", count: 10, batch: 10}, &bytes.Buffer{})
	require.NoError(t, err)

	require.Len(t, rs.loans, 3)
	for _, batch := range rs.loans {
		for _, l := range batch {
			assert.Contains(t, entity.Lenders, l.Lender)
			assert.Contains(t, entity.LoanCategories, l.LoanCategory)
			require.NotNil(t, l.DueDate)
			require.NotNil(t, l.InterestRate)
		}
	}
	for _, in := range rs.insurances[0] {
		assert.Contains(t, entity.InsuranceProviders, in.Provider)
		assert.Contains(t, entity.PolicyTypes, in.PolicyType)
	}
}

func TestSeedRecordsNeedUsers(t *testing.T) {
	s := newSeeder((&recordingStore{}).store(), 1)

	_, err := s.seed(context.Background(), options{kind: "loans", count: 1, batch: 1}, &bytes.Buffer{})
	assert.ErrorIs(t, err, errNoUsers)
}

func TestSeedStopsOnBatchError(t *testing.T) {
	rs := &recordingStore{failAfter: 1}
	s := newSeeder(rs.store(), 1)

	n, err := s.seed(context.Background(), options{kind: "users", count: 6, batch: 3, password: "x"}, &bytes.Buffer{})
	assert.Error(t, err)
	assert.Equal(t, 3, n)
}
