package main

import (
	"bytes"
	"path/filepath"
	"strings"
	"testing"

	"github.com/hetulpatel/userstore/internal/config"
)

func testConfig(t *testing.T) config.Config {
	t.Helper()
	return config.Config{DBPath: filepath.Join(t.TempDir(), "users.db")}
}

func runCommand(t *testing.T, cfg config.Config, args ...string) string {
	t.Helper()
	var buf bytes.Buffer
	if err := run(cfg, args, &buf); err != nil {
		t.Fatalf("run %v: %v", args, err)
	}
	return buf.String()
}

func TestInitializeAndGetUser(t *testing.T) {
	cfg := testConfig(t)

	out := runCommand(t, cfg, "initialize")
	if out != "Database Initialized\n" {
		t.Fatalf("unexpected initialize output: %q", out)
	}

	out = runCommand(t, cfg, "get-user", "bob")
	if out != "#1 bob <bob@mail.com>\n" {
		t.Fatalf("unexpected get-user output: %q", out)
	}

	out = runCommand(t, cfg, "get-user", "alice")
	if out != "alice not found!\n" {
		t.Fatalf("unexpected miss output: %q", out)
	}
}

func TestCreateUserAndConflict(t *testing.T) {
	cfg := testConfig(t)
	runCommand(t, cfg, "initialize")

	out := runCommand(t, cfg, "create-user", "alice", "alice@mail.com", "alicepass")
	if out != "#2 alice <alice@mail.com>\n" {
		t.Fatalf("unexpected create output: %q", out)
	}

	out = runCommand(t, cfg, "create-user", "alice", "other@mail.com", "pw")
	if out != "Username or email already taken!\n" {
		t.Fatalf("unexpected conflict output: %q", out)
	}
	out = runCommand(t, cfg, "create-user", "other", "alice@mail.com", "pw")
	if out != "Username or email already taken!\n" {
		t.Fatalf("unexpected conflict output: %q", out)
	}

	out = runCommand(t, cfg, "get-all-users")
	if got := strings.Count(out, "\n"); got != 2 {
		t.Fatalf("expected 2 users after conflicts, output was: %q", out)
	}
}

func TestChangeEmail(t *testing.T) {
	cfg := testConfig(t)
	runCommand(t, cfg, "initialize")

	out := runCommand(t, cfg, "change-email", "bob", "bob@work.com")
	if out != "Updated bob's email to bob@work.com\n" {
		t.Fatalf("unexpected change-email output: %q", out)
	}

	out = runCommand(t, cfg, "get-user", "bob")
	if out != "#1 bob <bob@work.com>\n" {
		t.Fatalf("email change not persisted: %q", out)
	}

	out = runCommand(t, cfg, "change-email", "ghost", "x@mail.com")
	if out != "ghost not found! Unable to update email.\n" {
		t.Fatalf("unexpected miss output: %q", out)
	}
}

func TestDeleteUserTwice(t *testing.T) {
	cfg := testConfig(t)
	runCommand(t, cfg, "initialize")

	out := runCommand(t, cfg, "delete-user", "bob")
	if out != "bob deleted\n" {
		t.Fatalf("unexpected delete output: %q", out)
	}
	out = runCommand(t, cfg, "delete-user", "bob")
	if out != "bob not found! Unable to delete user.\n" {
		t.Fatalf("unexpected second delete output: %q", out)
	}
	out = runCommand(t, cfg, "get-all-users")
	if out != "No users found\n" {
		t.Fatalf("expected empty table, got: %q", out)
	}
}

func TestFindByEmail(t *testing.T) {
	cfg := testConfig(t)
	runCommand(t, cfg, "initialize")
	runCommand(t, cfg, "create-user", "carol", "carol@example.com", "pw")
	runCommand(t, cfg, "create-user", "dave", "dave@mail.net", "pw")

	out := runCommand(t, cfg, "find-by-email", "mail")
	want := "#1 bob <bob@mail.com>\n#3 dave <dave@mail.net>\n"
	if out != want {
		t.Fatalf("unexpected find output: %q, want %q", out, want)
	}

	// A non-empty table with zero matches prints nothing.
	out = runCommand(t, cfg, "find-by-email", "nomatch")
	if out != "" {
		t.Fatalf("expected no output for zero matches, got: %q", out)
	}
}

func TestListNumUsers(t *testing.T) {
	cfg := testConfig(t)
	runCommand(t, cfg, "initialize")
	for _, u := range []string{"carol", "dave", "erin", "frank"} {
		runCommand(t, cfg, "create-user", u, u+"@mail.com", "pw")
	}

	out := runCommand(t, cfg, "list-num-users", "-limit", "2", "-offset", "1")
	want := "#2 carol <carol@mail.com>\n#3 dave <dave@mail.com>\n"
	if out != want {
		t.Fatalf("unexpected window: %q, want %q", out, want)
	}

	out = runCommand(t, cfg, "list-num-users")
	if got := strings.Count(out, "\n"); got != 5 {
		t.Fatalf("expected all 5 users with defaults, output was: %q", out)
	}

	out = runCommand(t, cfg, "list-num-users", "-offset", "9")
	if out != "" {
		t.Fatalf("expected no output past the end, got: %q", out)
	}
}

func TestEmptyDatabaseMessages(t *testing.T) {
	cfg := testConfig(t)
	runCommand(t, cfg, "initialize")
	runCommand(t, cfg, "delete-user", "bob")

	for _, args := range [][]string{
		{"get-all-users"},
		{"find-by-email", "mail"},
		{"list-num-users"},
	} {
		if out := runCommand(t, cfg, args...); out != "No users found\n" {
			t.Fatalf("%v: expected empty-table message, got: %q", args, out)
		}
	}
}

func TestUnknownAndMissingCommand(t *testing.T) {
	cfg := testConfig(t)

	var buf bytes.Buffer
	if err := run(cfg, []string{"frobnicate"}, &buf); err == nil {
		t.Fatal("expected error for unknown command")
	}
	if !strings.Contains(buf.String(), "usage:") {
		t.Fatalf("expected usage output, got: %q", buf.String())
	}

	buf.Reset()
	if err := run(cfg, nil, &buf); err == nil {
		t.Fatal("expected error for missing command")
	}
}

func TestBadArgumentCounts(t *testing.T) {
	cfg := testConfig(t)
	runCommand(t, cfg, "initialize")

	for _, args := range [][]string{
		{"get-user"},
		{"change-email", "bob"},
		{"create-user", "alice", "alice@mail.com"},
		{"delete-user"},
		{"find-by-email"},
	} {
		var buf bytes.Buffer
		if err := run(cfg, args, &buf); err == nil {
			t.Fatalf("%v: expected usage error", args)
		}
	}
}
