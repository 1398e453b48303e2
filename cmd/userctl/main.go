package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"os"

	"github.com/hetulpatel/userstore/internal/config"
	"github.com/hetulpatel/userstore/internal/logging"
	"github.com/hetulpatel/userstore/internal/storage/sqlite"
)

func main() {
	logging.InitFromEnv()
	cfg := config.Load()
	if err := run(cfg, os.Args[1:], os.Stdout); err != nil {
		logging.Fatalf("userctl: %v", err)
	}
}

// run dispatches one subcommand against a fresh store session. The session
// is closed when the command returns, success or not.
func run(cfg config.Config, args []string, out io.Writer) error {
	if len(args) == 0 {
		usage(out)
		return errors.New("missing command")
	}
	cmd, rest := args[0], args[1:]
	if cmd == "help" || cmd == "-h" || cmd == "--help" {
		usage(out)
		return nil
	}

	store, err := sqlite.Open(cfg.DBPath)
	if err != nil {
		return fmt.Errorf("open store: %w", err)
	}
	defer store.Close()
	logging.Debugf("[userctl] session open at %s", store.Path())

	ctx := context.Background()
	switch cmd {
	case "initialize":
		return runInitialize(ctx, store, out)
	case "get-user":
		return runGetUser(ctx, store, rest, out)
	case "get-all-users":
		return runGetAllUsers(ctx, store, out)
	case "change-email":
		return runChangeEmail(ctx, store, rest, out)
	case "create-user":
		return runCreateUser(ctx, store, rest, out)
	case "delete-user":
		return runDeleteUser(ctx, store, rest, out)
	case "find-by-email":
		return runFindByEmail(ctx, store, rest, out)
	case "list-num-users":
		return runListNumUsers(ctx, store, rest, out)
	default:
		usage(out)
		return fmt.Errorf("unknown command %q", cmd)
	}
}

func usage(out io.Writer) {
	fmt.Fprintln(out, `usage: userctl <command> [args]

commands:
  initialize                              drop and recreate the schema, seed one user
  get-user <username>                     look up one user by exact username
  get-all-users                           print every user
  change-email <username> <new_email>     update a user's email
  create-user <username> <email> <password>
  delete-user <username>                  remove one user
  find-by-email <email>                   print users whose email contains the substring
  list-num-users [-limit N] [-offset M]   print a window of users (default 10 from 0)`)
}

func runInitialize(ctx context.Context, store *sqlite.Store, out io.Writer) error {
	user, err := store.Initialize(ctx)
	if err != nil {
		return fmt.Errorf("initialize: %w", err)
	}
	logging.Infof("[userctl] schema reset, seeded %s", user.Username)
	fmt.Fprintln(out, "Database Initialized")
	return nil
}

func runGetUser(ctx context.Context, store *sqlite.Store, args []string, out io.Writer) error {
	if len(args) != 1 {
		return errors.New("usage: userctl get-user <username>")
	}
	username := args[0]
	user, err := store.GetUser(ctx, username)
	if errors.Is(err, sqlite.ErrNotFound) {
		fmt.Fprintf(out, "%s not found!\n", username)
		return nil
	}
	if err != nil {
		return err
	}
	fmt.Fprintln(out, user)
	return nil
}

func runGetAllUsers(ctx context.Context, store *sqlite.Store, out io.Writer) error {
	users, err := store.AllUsers(ctx)
	if err != nil {
		return err
	}
	if len(users) == 0 {
		fmt.Fprintln(out, "No users found")
		return nil
	}
	for _, u := range users {
		fmt.Fprintln(out, u)
	}
	return nil
}

func runChangeEmail(ctx context.Context, store *sqlite.Store, args []string, out io.Writer) error {
	if len(args) != 2 {
		return errors.New("usage: userctl change-email <username> <new_email>")
	}
	username, newEmail := args[0], args[1]
	user, err := store.UpdateEmail(ctx, username, newEmail)
	if errors.Is(err, sqlite.ErrNotFound) {
		fmt.Fprintf(out, "%s not found! Unable to update email.\n", username)
		return nil
	}
	if err != nil {
		return err
	}
	logging.Infof("[userctl] email updated for %s", user.Username)
	fmt.Fprintf(out, "Updated %s's email to %s\n", user.Username, user.Email)
	return nil
}

func runCreateUser(ctx context.Context, store *sqlite.Store, args []string, out io.Writer) error {
	if len(args) != 3 {
		return errors.New("usage: userctl create-user <username> <email> <password>")
	}
	user, err := store.InsertUser(ctx, args[0], args[1], args[2])
	if errors.Is(err, sqlite.ErrConflict) {
		logging.Warnf("[userctl] conflict creating %s", args[0])
		fmt.Fprintln(out, "Username or email already taken!")
		return nil
	}
	if err != nil {
		return err
	}
	logging.Infof("[userctl] created user %s", user.Username)
	fmt.Fprintln(out, user)
	return nil
}

func runDeleteUser(ctx context.Context, store *sqlite.Store, args []string, out io.Writer) error {
	if len(args) != 1 {
		return errors.New("usage: userctl delete-user <username>")
	}
	username := args[0]
	err := store.DeleteUser(ctx, username)
	if errors.Is(err, sqlite.ErrNotFound) {
		fmt.Fprintf(out, "%s not found! Unable to delete user.\n", username)
		return nil
	}
	if err != nil {
		return err
	}
	logging.Infof("[userctl] deleted user %s", username)
	fmt.Fprintf(out, "%s deleted\n", username)
	return nil
}

func runFindByEmail(ctx context.Context, store *sqlite.Store, args []string, out io.Writer) error {
	if len(args) != 1 {
		return errors.New("usage: userctl find-by-email <email>")
	}
	matches, total, err := store.FindByEmail(ctx, args[0])
	if err != nil {
		return err
	}
	if total == 0 {
		fmt.Fprintln(out, "No users found")
		return nil
	}
	for _, u := range matches {
		fmt.Fprintln(out, u)
	}
	return nil
}

func runListNumUsers(ctx context.Context, store *sqlite.Store, args []string, out io.Writer) error {
	fs := flag.NewFlagSet("list-num-users", flag.ContinueOnError)
	fs.SetOutput(out)
	limit := fs.Int("limit", 10, "number of users to print")
	offset := fs.Int("offset", 0, "position to start from")
	if err := fs.Parse(args); err != nil {
		return err
	}
	window, total, err := store.ListRange(ctx, *limit, *offset)
	if err != nil {
		return err
	}
	if total == 0 {
		fmt.Fprintln(out, "No users found")
		return nil
	}
	for _, u := range window {
		fmt.Fprintln(out, u)
	}
	return nil
}
