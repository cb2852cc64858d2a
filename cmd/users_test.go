package main

import (
	"bytes"
	"context"
	"io"
	"path/filepath"
	"strings"
	"testing"

	"github.com/desertthunder/setlist/internal/models"
	"github.com/desertthunder/setlist/internal/repositories"
	"github.com/desertthunder/setlist/internal/shared"
	testutil "github.com/desertthunder/setlist/internal/testing"
)

// seedDatabase creates a migrated database file with two accounts, one
// onboarded.
func seedDatabase(t *testing.T) string {
	t.Helper()

	path := filepath.Join(t.TempDir(), "setlist.db")

	db, err := shared.OpenDatabase(shared.DatabaseConfig{Path: path})
	if err != nil {
		t.Fatalf("failed to open database: %v", err)
	}
	defer db.Close()

	if err := shared.RunMigrations(db); err != nil {
		t.Fatalf("failed to run migrations: %v", err)
	}

	users := repositories.NewUserRepository(db)

	first := models.NewUser(0, "first@example.com", "First User")
	if err := users.Create(first); err != nil {
		t.Fatalf("failed to create user: %v", err)
	}
	if err := users.SetOnboarded(first.ID(), true); err != nil {
		t.Fatalf("failed to set onboarded: %v", err)
	}

	second := models.NewUser(0, "second@example.com", "Second User")
	if err := users.Create(second); err != nil {
		t.Fatalf("failed to create user: %v", err)
	}

	return path
}

func newTestRunner(t *testing.T, dbPath string) (*Runner, *bytes.Buffer) {
	t.Helper()

	config := shared.DefaultConfig()
	config.Database.Path = dbPath

	var buf bytes.Buffer
	runner := NewRunner(RunnerOpts{
		Config: config,
		Logger: shared.NewLogger(io.Discard),
		Output: &buf,
	})

	return runner, &buf
}

func TestUsersCommand(t *testing.T) {
	t.Run("Text Output", func(t *testing.T) {
		dbPath := seedDatabase(t)
		runner, buf := newTestRunner(t, dbPath)

		if err := usersCommand(runner).Run(context.Background(), []string{"users"}); err != nil {
			t.Fatalf("command failed: %v", err)
		}

		out := buf.String()
		if !strings.Contains(out, "Accounts: 2") {
			t.Errorf("expected account count, got %s", out)
		}
		if !strings.Contains(out, "first@example.com") || !strings.Contains(out, "second@example.com") {
			t.Errorf("expected both accounts listed, got %s", out)
		}
	})

	t.Run("Onboarded Filter", func(t *testing.T) {
		dbPath := seedDatabase(t)
		runner, buf := newTestRunner(t, dbPath)

		err := usersCommand(runner).Run(context.Background(), []string{"users", "--onboarded"})
		if err != nil {
			t.Fatalf("command failed: %v", err)
		}

		out := buf.String()
		if !strings.Contains(out, "first@example.com") {
			t.Errorf("expected onboarded account, got %s", out)
		}
		if strings.Contains(out, "second@example.com") {
			t.Errorf("expected filter to drop fresh account, got %s", out)
		}
	})

	t.Run("CSV To File", func(t *testing.T) {
		dbPath := seedDatabase(t)
		runner, buf := newTestRunner(t, dbPath)

		outPath := filepath.Join(t.TempDir(), "accounts.csv")
		err := usersCommand(runner).Run(context.Background(),
			[]string{"users", "--format", "csv", "--output", outPath})
		if err != nil {
			t.Fatalf("command failed: %v", err)
		}

		testutil.AssertFileExists(t, outPath)
		content := testutil.MustReadFile(t, outPath)
		if !strings.Contains(content, "Sequence,Email,Name,Onboarded,Spotify,Created") {
			t.Errorf("expected CSV header, got %s", content)
		}
		if !strings.Contains(buf.String(), "2 accounts") {
			t.Errorf("expected confirmation message, got %s", buf.String())
		}
	})

	t.Run("Unknown Format", func(t *testing.T) {
		dbPath := seedDatabase(t)
		runner, _ := newTestRunner(t, dbPath)

		err := usersCommand(runner).Run(context.Background(), []string{"users", "--format", "xml"})
		if err == nil {
			t.Error("expected error for unknown format")
		}
	})
}
