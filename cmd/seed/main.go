// Command seed fills the database with fake users, expenses, loans or
// insurances for local development.
package main

import (
	"bufio"
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"finance-tracker/internal/data/entity"
	"finance-tracker/internal/data/repository"
	"finance-tracker/pkg/cache"
	"finance-tracker/pkg/database"
	"finance-tracker/pkg/utils"

	"github.com/brianvoe/gofakeit/v7"
	"go.uber.org/zap"
)

var (
	errNoUsers      = errors.New("no users found, seed users first")
	errNoCategories = errors.New("no categories found, start the server once to create them")
)

type options struct {
	kind     string
	count    int
	batch    int
	password string
	yes      bool
}

// store is the subset of the repository layer the seeder writes through.
type store struct {
	users      repository.UserRepository
	categories repository.CategoryRepository
	expenses   repository.ExpenseRepository
	loans      repository.LoanRepository
	insurances repository.InsuranceRepository
}

// openStore connects to the configured database. Tests replace it.
var openStore = func(ctx context.Context) (*store, func(), error) {
	config, err := utils.LoadConfig()
	if err != nil {
		return nil, nil, err
	}

	logger, err := utils.InitLogger(config.App.LogPath, config.App.Debug)
	if err != nil {
		logger = zap.NewNop()
	}

	db, err := database.InitDB(config.Database)
	if err != nil {
		return nil, nil, fmt.Errorf("connect database: %w", err)
	}
	if err := database.RunMigrations(ctx, config.Database.URL); err != nil {
		db.Close()
		return nil, nil, err
	}

	repo := repository.NewRepository(db, cache.NewMemoryCache(), logger)
	closeFn := func() {
		db.Close()
		_ = logger.Sync()
	}

	return &store{
		users:      repo.User,
		categories: repo.Category,
		expenses:   repo.Expense,
		loans:      repo.Loan,
		insurances: repo.Insurance,
	}, closeFn, nil
}

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if err := run(ctx, os.Args[1:], os.Stdin, os.Stdout, os.Stderr); err != nil {
		if errors.Is(err, flag.ErrHelp) {
			os.Exit(0)
		}
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func run(ctx context.Context, args []string, stdin io.Reader, stdout, stderr io.Writer) error {
	opts, err := parseFlags(args, stderr)
	if err != nil {
		return err
	}

	if !opts.yes {
		ok, err := confirm(stdin, stdout, fmt.Sprintf("Insert %d %s?", opts.count, opts.kind))
		if err != nil {
			return err
		}
		if !ok {
			fmt.Fprintln(stdout, "Aborted.")
			return nil
		}
	}

	st, closeFn, err := openStore(ctx)
	if err != nil {
		return err
	}
	defer closeFn()

	s := newSeeder(st, 0)
	inserted, err := s.seed(ctx, opts, stdout)
	if err != nil {
		return err
	}

	fmt.Fprintf(stdout, "Done: inserted %d %s\n", inserted, opts.kind)
	if opts.kind == "users" {
		fmt.Fprintf(stdout, "All seeded users have password %q\n", opts.password)
	}
	return nil
}

// defaultSeedPassword passes the registration password rules so seeded
// accounts can also change it through the reset form.
const defaultSeedPassword = "Qw7!Rt5#"

func parseFlags(args []string, stderr io.Writer) (options, error) {
	fs := flag.NewFlagSet("seed", flag.ContinueOnError)
	fs.SetOutput(stderr)

	var opts options
	fs.StringVar(&opts.kind, "kind", "", "What to seed: users, expenses, loans or insurances")
	fs.IntVar(&opts.count, "count", 100, "Number of rows to insert")
	fs.IntVar(&opts.batch, "batch", 500, "Rows per transaction")
	fs.StringVar(&opts.password, "password", defaultSeedPassword, "Password shared by seeded users")
	fs.BoolVar(&opts.yes, "yes", false, "Skip the confirmation prompt")

	if err := fs.Parse(args); err != nil {
		return options{}, err
	}

	switch opts.kind {
	case "users", "expenses", "loans", "insurances":
	default:
		fs.Usage()
		return options{}, fmt.Errorf("unknown -kind %q", opts.kind)
	}
	if opts.count <= 0 {
		return options{}, fmt.Errorf("-count must be positive")
	}
	if opts.batch <= 0 {
		return options{}, fmt.Errorf("-batch must be positive")
	}
	if opts.kind == "users" {
		if ok, reason := utils.IsStrongPassword(opts.password); !ok {
			return options{}, fmt.Errorf("-password: %s", reason)
		}
	}

	return opts, nil
}

func confirm(stdin io.Reader, stdout io.Writer, question string) (bool, error) {
	fmt.Fprintf(stdout, "%s (y/n)> ", question)

	scanner := bufio.NewScanner(stdin)
	if !scanner.Scan() {
		if err := scanner.Err(); err != nil {
			return false, err
		}
		return false, nil
	}
	return strings.EqualFold(strings.TrimSpace(scanner.Text()), "y"), nil
}

type seeder struct {
	store *store
	fake  *gofakeit.Faker
	now   func() time.Time
}

// newSeeder uses a random seed when seed is 0.
func newSeeder(st *store, seed uint64) *seeder {
	return &seeder{
		store: st,
		fake:  gofakeit.New(seed),
		now:   time.Now,
	}
}

func (s *seeder) seed(ctx context.Context, opts options, out io.Writer) (int, error) {
	switch opts.kind {
	case "users":
		return s.seedUsers(ctx, opts, out)
	case "expenses":
		return s.seedExpenses(ctx, opts, out)
	case "loans":
		return s.seedLoans(ctx, opts, out)
	case "insurances":
		return s.seedInsurances(ctx, opts, out)
	default:
		return 0, fmt.Errorf("unknown kind %q", opts.kind)
	}
}

// insertInBatches generates total rows and hands them to insert size rows at a time.
func insertInBatches[T any](ctx context.Context, total, size int, label string, out io.Writer, gen func() T, insert func(context.Context, []T) error) (int, error) {
	inserted := 0
	for inserted < total {
		n := min(size, total-inserted)
		batch := make([]T, 0, n)
		for range n {
			batch = append(batch, gen())
		}

		if err := insert(ctx, batch); err != nil {
			return inserted, err
		}
		inserted += n
		fmt.Fprintf(out, "Inserted %d/%d %s\n", inserted, total, label)
	}
	return inserted, nil
}

func (s *seeder) seedUsers(ctx context.Context, opts options, out io.Writer) (int, error) {
	hash, err := utils.HashPassword(opts.password)
	if err != nil {
		return 0, fmt.Errorf("hash password: %w", err)
	}

	seen := make(map[string]struct{}, opts.count)
	gen := func() *entity.User {
		email := strings.ToLower(s.fake.Email())
		for {
			if _, dup := seen[email]; !dup {
				break
			}
			email = strings.ToLower(s.fake.Email())
		}
		seen[email] = struct{}{}

		return &entity.User{
			FirstName:    s.fake.FirstName(),
			LastName:     s.fake.LastName(),
			Email:        email,
			PasswordHash: hash,
			IsVerified:   s.fake.Bool(),
		}
	}

	return insertInBatches(ctx, opts.count, opts.batch, "users", out, gen, s.store.users.CreateBatch)
}

func (s *seeder) userIDs(ctx context.Context) ([]int64, error) {
	ids, err := s.store.users.ListIDs(ctx)
	if err != nil {
		return nil, err
	}
	if len(ids) == 0 {
		return nil, errNoUsers
	}
	return ids, nil
}

func (s *seeder) pickUser(ids []int64) int64 {
	return ids[s.fake.IntRange(0, len(ids)-1)]
}

func (s *seeder) money(lo, hi float64) float64 {
	return float64(int(s.fake.Float64Range(lo, hi)*100)) / 100
}

func (s *seeder) daysFromToday(lo, hi int) time.Time {
	today := s.now().UTC().Truncate(24 * time.Hour)
	return today.AddDate(0, 0, s.fake.IntRange(lo, hi))
}

func (s *seeder) seedExpenses(ctx context.Context, opts options, out io.Writer) (int, error) {
	ids, err := s.userIDs(ctx)
	if err != nil {
		return 0, err
	}
	categories, err := s.store.categories.List(ctx)
	if err != nil {
		return 0, err
	}
	if len(categories) == 0 {
		return 0, errNoCategories
	}

	gen := func() *entity.Expense {
		category := categories[s.fake.IntRange(0, len(categories)-1)]
		return &entity.Expense{
			Amount:      s.money(10, 5000),
			Description: s.fake.ProductName(),
			Date:        s.now().UTC().AddDate(0, 0, -s.fake.IntRange(0, 5*365)),
			UserID:      s.pickUser(ids),
			CategoryID:  category.CategoryID,
		}
	}

	return insertInBatches(ctx, opts.count, opts.batch, "expenses", out, gen, s.store.expenses.CreateBatch)
}

func (s *seeder) seedLoans(ctx context.Context, opts options, out io.Writer) (int, error) {
	ids, err := s.userIDs(ctx)
	if err != nil {
		return 0, err
	}

	gen := func() *entity.Loan {
		rate := s.money(2.5, 15)
		due := s.daysFromToday(30, 5*365)
		return &entity.Loan{
			Lender:       s.fake.RandomString(entity.Lenders),
			Amount:       s.money(1000, 100000),
			InterestRate: &rate,
			DueDate:      &due,
			LoanCategory: s.fake.RandomString(entity.LoanCategories),
			UserID:       s.pickUser(ids),
		}
	}

	return insertInBatches(ctx, opts.count, opts.batch, "loans", out, gen, s.store.loans.CreateBatch)
}

func (s *seeder) seedInsurances(ctx context.Context, opts options, out io.Writer) (int, error) {
	ids, err := s.userIDs(ctx)
	if err != nil {
		return 0, err
	}

	gen := func() *entity.Insurance {
		renewal := s.daysFromToday(30, 3*365)
		return &entity.Insurance{
			Provider:    s.fake.RandomString(entity.InsuranceProviders),
			PolicyType:  s.fake.RandomString(entity.PolicyTypes),
			Premium:     s.money(2000, 50000),
			RenewalDate: &renewal,
			UserID:      s.pickUser(ids),
		}
	}

	return insertInBatches(ctx, opts.count, opts.batch, "insurances", out, gen, s.store.insurances.CreateBatch)
}
