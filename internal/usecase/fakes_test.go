package usecase

import (
	"context"
	"errors"
	"sync"
	"time"

	"finance-tracker/internal/data/entity"
	"finance-tracker/internal/data/repository"
	"finance-tracker/pkg/cache"

	"go.uber.org/zap"
)

type fakeUserRepo struct {
	mu            sync.Mutex
	nextID        int64
	users         map[int64]*entity.User
	markVerified  int
	failFindEmail error
}

func newFakeUserRepo() *fakeUserRepo {
	return &fakeUserRepo{users: make(map[int64]*entity.User)}
}

func (r *fakeUserRepo) Create(_ context.Context, user *entity.User) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, u := range r.users {
		if u.Email == user.Email {
			return repository.ErrDuplicate
		}
	}
	r.nextID++
	user.UserID = r.nextID
	user.CreatedAt = time.Now()
	cp := *user
	r.users[user.UserID] = &cp
	return nil
}

func (r *fakeUserRepo) FindByID(_ context.Context, id int64) (*entity.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if u, ok := r.users[id]; ok {
		cp := *u
		return &cp, nil
	}
	return nil, nil
}

func (r *fakeUserRepo) FindByEmail(_ context.Context, email string) (*entity.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.failFindEmail != nil {
		return nil, r.failFindEmail
	}
	for _, u := range r.users {
		if u.Email == email {
			cp := *u
			return &cp, nil
		}
	}
	return nil, nil
}

func (r *fakeUserRepo) UpdatePassword(_ context.Context, id int64, hash string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	u, ok := r.users[id]
	if !ok {
		return errors.New("not found")
	}
	u.PasswordHash = hash
	return nil
}

func (r *fakeUserRepo) MarkVerified(_ context.Context, id int64) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if u, ok := r.users[id]; ok {
		u.IsVerified = true
		r.markVerified++
	}
	return nil
}

func (r *fakeUserRepo) ListIDs(context.Context) ([]int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var ids []int64
	for id := range r.users {
		ids = append(ids, id)
	}
	return ids, nil
}

func (r *fakeUserRepo) CreateBatch(ctx context.Context, users []*entity.User) error {
	for _, u := range users {
		if err := r.Create(ctx, u); err != nil && !errors.Is(err, repository.ErrDuplicate) {
			return err
		}
	}
	return nil
}

type fakeSessionRepo struct {
	mu       sync.Mutex
	sessions map[string]*entity.Session
}

func newFakeSessionRepo() *fakeSessionRepo {
	return &fakeSessionRepo{sessions: make(map[string]*entity.Session)}
}

func (r *fakeSessionRepo) Create(_ context.Context, s *entity.Session) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	cp := *s
	r.sessions[s.Token.String()] = &cp
	return nil
}

func (r *fakeSessionRepo) FindValidSession(_ context.Context, token string) (*entity.Session, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	s, ok := r.sessions[token]
	if !ok || s.RevokedAt != nil {
		return nil, nil
	}
	cp := *s
	return &cp, nil
}

func (r *fakeSessionRepo) Revoke(_ context.Context, token string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if s, ok := r.sessions[token]; ok && s.RevokedAt == nil {
		now := time.Now()
		s.RevokedAt = &now
	}
	return nil
}

func (r *fakeSessionRepo) RevokeAllUserSessions(_ context.Context, userID int64) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	now := time.Now()
	for _, s := range r.sessions {
		if s.UserID == userID && s.RevokedAt == nil {
			s.RevokedAt = &now
		}
	}
	return nil
}

func (r *fakeSessionRepo) CleanExpiredSessions(context.Context) (int64, error) {
	return 0, nil
}

type fakeCategoryRepo struct {
	categories []*entity.Category
	seeded     []string
}

func (r *fakeCategoryRepo) List(context.Context) ([]*entity.Category, error) {
	return r.categories, nil
}

func (r *fakeCategoryRepo) FindByID(_ context.Context, id int) (*entity.Category, error) {
	for _, c := range r.categories {
		if c.CategoryID == id {
			return c, nil
		}
	}
	return nil, nil
}

func (r *fakeCategoryRepo) SeedDefaults(_ context.Context, names []string) error {
	r.seeded = append(r.seeded, names...)
	return nil
}

type fakeExpenseRepo struct {
	created    []*entity.Expense
	result     []*entity.Expense
	lastFilter entity.RecordFilter
	err        error
}

func (r *fakeExpenseRepo) Create(_ context.Context, e *entity.Expense) error {
	if r.err != nil {
		return r.err
	}
	e.ExpenseID = int64(len(r.created) + 1)
	r.created = append(r.created, e)
	return nil
}

func (r *fakeExpenseRepo) FindFiltered(_ context.Context, _ int64, f entity.RecordFilter) ([]*entity.Expense, error) {
	r.lastFilter = f
	return r.result, r.err
}

func (r *fakeExpenseRepo) CreateBatch(_ context.Context, e []*entity.Expense) error {
	r.created = append(r.created, e...)
	return nil
}

type fakeLoanRepo struct {
	created []*entity.Loan
	result  []*entity.Loan
}

func (r *fakeLoanRepo) Create(_ context.Context, l *entity.Loan) error {
	l.LoanID = int64(len(r.created) + 1)
	r.created = append(r.created, l)
	return nil
}

func (r *fakeLoanRepo) FindFiltered(context.Context, int64, entity.RecordFilter) ([]*entity.Loan, error) {
	return r.result, nil
}

func (r *fakeLoanRepo) CreateBatch(_ context.Context, l []*entity.Loan) error {
	r.created = append(r.created, l...)
	return nil
}

type fakeInsuranceRepo struct {
	created []*entity.Insurance
	result  []*entity.Insurance
}

func (r *fakeInsuranceRepo) Create(_ context.Context, i *entity.Insurance) error {
	i.InsuranceID = int64(len(r.created) + 1)
	r.created = append(r.created, i)
	return nil
}

func (r *fakeInsuranceRepo) FindFiltered(context.Context, int64, entity.RecordFilter) ([]*entity.Insurance, error) {
	return r.result, nil
}

func (r *fakeInsuranceRepo) CreateBatch(_ context.Context, i []*entity.Insurance) error {
	r.created = append(r.created, i...)
	return nil
}

type sentOTP struct {
	to, code, purpose string
	validFor          time.Duration
}

type fakeNotifier struct {
	mu   sync.Mutex
	sent []sentOTP
	fail error
}

func (n *fakeNotifier) SendOTP(_ context.Context, to, code, purpose string, validFor time.Duration) error {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.sent = append(n.sent, sentOTP{to: to, code: code, purpose: purpose, validFor: validFor})
	return n.fail
}

func (n *fakeNotifier) last() sentOTP {
	n.mu.Lock()
	defer n.mu.Unlock()
	if len(n.sent) == 0 {
		return sentOTP{}
	}
	return n.sent[len(n.sent)-1]
}

type fakes struct {
	users      *fakeUserRepo
	sessions   *fakeSessionRepo
	categories *fakeCategoryRepo
	expenses   *fakeExpenseRepo
	loans      *fakeLoanRepo
	insurances *fakeInsuranceRepo
	store      *cache.MemoryCache
}

func newFakeRepository() (*repository.Repository, *fakes) {
	f := &fakes{
		users:    newFakeUserRepo(),
		sessions: newFakeSessionRepo(),
		categories: &fakeCategoryRepo{categories: []*entity.Category{
			{CategoryID: 1, Name: "Groceries"},
			{CategoryID: 2, Name: "Gas"},
		}},
		expenses:   &fakeExpenseRepo{},
		loans:      &fakeLoanRepo{},
		insurances: &fakeInsuranceRepo{},
		store:      cache.NewMemoryCache(),
	}

	return &repository.Repository{
		User:      f.users,
		Session:   f.sessions,
		OTP:       repository.NewOTPRepository(f.store, zap.NewNop()),
		Category:  f.categories,
		Expense:   f.expenses,
		Loan:      f.loans,
		Insurance: f.insurances,
	}, f
}
