// Command adduser creates a verified user account from the command line.
package main

import (
	"bufio"
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"strings"

	"finance-tracker/internal/data/entity"
	"finance-tracker/internal/data/repository"
	"finance-tracker/internal/dto/request"
	"finance-tracker/pkg/database"
	"finance-tracker/pkg/utils"

	"go.uber.org/zap"
	"golang.org/x/term"
)

// openUsers connects to the configured database. Tests replace it.
var openUsers = func(ctx context.Context) (repository.UserRepository, func(), error) {
	config, err := utils.LoadConfig()
	if err != nil {
		return nil, nil, err
	}

	db, err := database.InitDB(config.Database)
	if err != nil {
		return nil, nil, fmt.Errorf("connect database: %w", err)
	}
	if err := database.RunMigrations(ctx, config.Database.URL); err != nil {
		db.Close()
		return nil, nil, err
	}

	return repository.NewUserRepository(db, zap.NewNop()), db.Close, nil
}

func main() {
	if err := run(context.Background(), os.Args[1:], os.Stdin, os.Stdout, os.Stderr); err != nil {
		if errors.Is(err, flag.ErrHelp) {
			os.Exit(0)
		}
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func run(ctx context.Context, args []string, stdin io.Reader, stdout, stderr io.Writer) error {
	fs := flag.NewFlagSet("adduser", flag.ContinueOnError)
	fs.SetOutput(stderr)

	email := fs.String("email", "", "Email address")
	firstName := fs.String("first", "", "First name")
	lastName := fs.String("last", "", "Last name")
	passwordFlag := fs.String("password", "", "Password (optional, will prompt if omitted)")

	if err := fs.Parse(args); err != nil {
		return err
	}

	if *email == "" || *firstName == "" || *lastName == "" {
		fmt.Fprintln(stdout, "Usage: adduser -email <email> -first <first name> -last <last name> [-password <password>]")
		fs.PrintDefaults()
		return fmt.Errorf("missing required flags: email, first, last")
	}

	password := *passwordFlag
	if password == "" {
		fmt.Fprint(stdout, "Password: ")
		var err error
		password, err = readPassword(stdin)
		if err != nil {
			return fmt.Errorf("failed to read password: %w", err)
		}
		fmt.Fprintln(stdout)
	}

	req := &request.NewUserRequest{
		FirstName: strings.TrimSpace(*firstName),
		LastName:  strings.TrimSpace(*lastName),
		Email:     strings.ToLower(strings.TrimSpace(*email)),
		Password:  password,
	}
	if err := validate(req); err != nil {
		return err
	}

	users, closeFn, err := openUsers(ctx)
	if err != nil {
		return err
	}
	defer closeFn()

	existing, err := users.FindByEmail(ctx, req.Email)
	if err != nil {
		return fmt.Errorf("failed to look up user: %w", err)
	}
	if existing != nil {
		return fmt.Errorf("user %s already exists", req.Email)
	}

	hash, err := utils.HashPassword(password)
	if err != nil {
		return fmt.Errorf("failed to hash password: %w", err)
	}

	user := &entity.User{
		FirstName:    req.FirstName,
		LastName:     req.LastName,
		Email:        req.Email,
		PasswordHash: hash,
		IsVerified:   true,
	}
	if err := users.Create(ctx, user); err != nil {
		return fmt.Errorf("failed to create user: %w", err)
	}

	fmt.Fprintf(stdout, "User %s created successfully with ID %d\n", user.Email, user.UserID)
	return nil
}

// validate applies the registration rules and reports the first failing
// field, checked in form order.
func validate(req *request.NewUserRequest) error {
	errs := utils.ValidateStruct(req)
	for _, field := range []string{"Email", "FirstName", "LastName", "Password"} {
		if msg, ok := errs[field]; ok {
			if field == "Email" {
				return fmt.Errorf("%s: %s", field, msg)
			}
			return errors.New(msg)
		}
	}
	return nil
}

func readPassword(stdin io.Reader) (string, error) {
	if f, ok := stdin.(*os.File); ok && term.IsTerminal(int(f.Fd())) {
		bytePassword, err := term.ReadPassword(int(f.Fd()))
		if err != nil {
			return "", err
		}
		return string(bytePassword), nil
	}

	// Pipes and tests
	scanner := bufio.NewScanner(stdin)
	if scanner.Scan() {
		return scanner.Text(), nil
	}
	if err := scanner.Err(); err != nil {
		return "", err
	}
	return "", io.EOF
}
