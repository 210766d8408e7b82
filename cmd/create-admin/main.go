// Command create-admin creates a WhatsFlow admin account or resets the
// password of an existing one.
package main

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"

	"golang.org/x/term"

	"whatsflow/internal/config"
	"whatsflow/internal/infrastructure"
	"whatsflow/internal/services"
	"whatsflow/internal/store"
	"whatsflow/pkg/contracts/domain"
)

// errCancelled is returned when the operator declines to update an account.
var errCancelled = errors.New("operation cancelled")

// adminAccounts is the part of the auth service the command uses.
type adminAccounts interface {
	FindUser(ctx context.Context, email string) (*domain.User, error)
	CreateAdmin(ctx context.Context, email, password string) (*domain.User, error)
	SetPassword(ctx context.Context, userID int64, password string) error
}

type prompter struct {
	in           *bufio.Reader
	out          io.Writer
	readPassword func() (string, error)
}

func (p *prompter) line(prompt string) (string, error) {
	fmt.Fprint(p.out, prompt)
	s, err := p.in.ReadString('\n')
	if err != nil && (err != io.EOF || s == "") {
		return "", err
	}
	return strings.TrimSpace(s), nil
}

func (p *prompter) password(prompt string) (string, error) {
	fmt.Fprint(p.out, prompt)
	s, err := p.readPassword()
	fmt.Fprintln(p.out)
	return s, err
}

func main() {
	cfg, err := config.Load()
	if err != nil {
		slog.Warn("Failed to load config, using defaults", slog.String("error", err.Error()))
		cfg = config.Default()
	}
	cfg.Logging.Level = "warn"
	logger, err := infrastructure.InitializeLogger(cfg.Logging)
	if err != nil {
		logger = slog.Default()
	}

	paths, err := cfg.GetPaths()
	if err != nil {
		logger.Error("Failed to resolve paths", slog.String("error", err.Error()))
		os.Exit(1)
	}

	ctx := context.Background()
	db, err := store.Open(ctx, paths.DatabaseFile, logger)
	if err != nil {
		logger.Error("Failed to open database", slog.String("error", err.Error()))
		os.Exit(1)
	}
	defer db.Close()
	if err := db.Migrate(ctx); err != nil {
		logger.Error("Failed to migrate database", slog.String("error", err.Error()))
		os.Exit(1)
	}

	in := bufio.NewReader(os.Stdin)
	p := &prompter{in: in, out: os.Stdout, readPassword: stdinPassword(in)}
	auth := services.NewAuthService(db, cfg.Admin.SessionTTL, nil, logger)

	if err := run(ctx, auth, p); err != nil {
		if errors.Is(err, errCancelled) {
			fmt.Println("Operation cancelled.")
			return
		}
		fmt.Fprintf(os.Stderr, "create-admin: %v\n", err)
		os.Exit(1)
	}
}

// stdinPassword reads without echo from a terminal and falls back to a
// plain line read when stdin is piped.
func stdinPassword(in *bufio.Reader) func() (string, error) {
	fd := int(os.Stdin.Fd())
	if !term.IsTerminal(fd) {
		return func() (string, error) {
			s, err := in.ReadString('\n')
			if err != nil && (err != io.EOF || s == "") {
				return "", err
			}
			return strings.TrimRight(s, "\r\n"), nil
		}
	}
	return func() (string, error) {
		b, err := term.ReadPassword(fd)
		return string(b), err
	}
}

func run(ctx context.Context, accounts adminAccounts, p *prompter) error {
	fmt.Fprintln(p.out, "=== WhatsFlow Admin User Creation ===")
	fmt.Fprintln(p.out)

	email, err := p.line("Enter admin email: ")
	if err != nil {
		return err
	}
	if email == "" {
		return fmt.Errorf("email is required")
	}

	existing, err := accounts.FindUser(ctx, email)
	if err != nil && !errors.Is(err, store.ErrNotFound) {
		return err
	}
	if existing != nil {
		fmt.Fprintf(p.out, "\nUser with email '%s' already exists!\n", email)
		answer, err := p.line("Do you want to update the password? (yes/no): ")
		if err != nil {
			return err
		}
		if strings.ToLower(answer) != "yes" {
			return errCancelled
		}
	}

	password, err := readNewPassword(p)
	if err != nil {
		return err
	}

	if existing != nil {
		if err := accounts.SetPassword(ctx, existing.ID, password); err != nil {
			return err
		}
		fmt.Fprintf(p.out, "\nPassword for '%s' updated successfully!\n", email)
		return nil
	}

	if _, err := accounts.CreateAdmin(ctx, email, password); err != nil {
		return err
	}
	fmt.Fprintf(p.out, "\nAdmin user '%s' created successfully!\n", email)
	fmt.Fprintln(p.out, "You can now log in to the admin panel.")
	return nil
}

func readNewPassword(p *prompter) (string, error) {
	for {
		password, err := p.password(fmt.Sprintf("Enter admin password (min %d characters): ", services.MinPasswordLength))
		if err != nil {
			return "", err
		}
		if len(password) < services.MinPasswordLength {
			fmt.Fprintf(p.out, "Password must be at least %d characters long!\n", services.MinPasswordLength)
			continue
		}

		confirm, err := p.password("Confirm password: ")
		if err != nil {
			return "", err
		}
		if err := services.ValidateNewPassword(password, confirm); err != nil {
			fmt.Fprintln(p.out, "Passwords do not match!")
			continue
		}
		return password, nil
	}
}
