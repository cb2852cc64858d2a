package formatter

import (
	"encoding/json"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/desertthunder/setlist/internal/models"
	testutil "github.com/desertthunder/setlist/internal/testing"
)

func sampleUsers() []*models.User {
	first := models.NewUser(1, "first@example.com", "First User")
	first.SetOnboarded(true)
	first.SetSpotify(models.ProviderLink{
		AccessToken:  "AT1",
		RefreshToken: "RT1",
		Expiry:       time.Now().Add(time.Hour),
	})

	second := models.NewUser(2, "second@example.com", "Second User")

	return []*models.User{first, second}
}

func TestExportToCSV(t *testing.T) {
	data, err := ExportToCSV(sampleUsers())
	if err != nil {
		t.Fatalf("failed to export CSV: %v", err)
	}

	lines := strings.Split(strings.TrimSpace(string(data)), "\n")
	if len(lines) != 3 {
		t.Fatalf("expected header plus 2 rows, got %d lines", len(lines))
	}
	if lines[0] != "Sequence,Email,Name,Onboarded,Spotify,Created" {
		t.Errorf("unexpected header: %s", lines[0])
	}
	if !strings.HasPrefix(lines[1], "1,first@example.com,First User,true,true,") {
		t.Errorf("unexpected first row: %s", lines[1])
	}
	if !strings.HasPrefix(lines[2], "2,second@example.com,Second User,false,false,") {
		t.Errorf("unexpected second row: %s", lines[2])
	}

	if strings.Contains(string(data), "AT1") {
		t.Error("expected tokens to stay out of exports")
	}
}

func TestExportToText(t *testing.T) {
	data, err := ExportToText(sampleUsers())
	if err != nil {
		t.Fatalf("failed to export text: %v", err)
	}

	out := string(data)
	if !strings.Contains(out, "Accounts: 2") {
		t.Errorf("expected account count, got %s", out)
	}
	if !strings.Contains(out, "1. First User <first@example.com> [onboarded] [spotify]") {
		t.Errorf("expected flags on first user, got %s", out)
	}
	if !strings.Contains(out, "2. Second User <second@example.com>\n") {
		t.Errorf("expected bare second user, got %s", out)
	}
}

func TestExportToJSON(t *testing.T) {
	data, err := ExportToJSON(sampleUsers())
	if err != nil {
		t.Fatalf("failed to export JSON: %v", err)
	}

	var rows []map[string]any
	if err := json.Unmarshal(data, &rows); err != nil {
		t.Fatalf("failed to parse export: %v", err)
	}
	if len(rows) != 2 {
		t.Fatalf("expected 2 rows, got %d", len(rows))
	}
	if rows[0]["email"] != "first@example.com" || rows[0]["spotifyConnected"] != true {
		t.Errorf("unexpected first row: %v", rows[0])
	}
	if _, ok := rows[0]["accessToken"]; ok {
		t.Error("expected tokens to stay out of exports")
	}
}

func TestExport(t *testing.T) {
	users := sampleUsers()

	for _, format := range []string{FormatCSV, FormatText, FormatJSON} {
		if _, err := Export(users, format); err != nil {
			t.Errorf("expected %s export to succeed: %v", format, err)
		}
	}

	if _, err := Export(users, "xml"); err == nil {
		t.Error("expected error for unknown format")
	}
}

func TestWriteExport(t *testing.T) {
	t.Run("Explicit Path", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "out.csv")

		written, err := WriteExport(sampleUsers(), FormatCSV, path)
		if err != nil {
			t.Fatalf("failed to write export: %v", err)
		}
		if written != path {
			t.Errorf("expected path %s, got %s", path, written)
		}

		testutil.AssertFileExists(t, path)
		content := testutil.MustReadFile(t, path)
		if !strings.Contains(content, "first@example.com") {
			t.Errorf("unexpected file content: %s", content)
		}
	})

	t.Run("Unknown Format", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "out.xml")

		if _, err := WriteExport(sampleUsers(), "xml", path); err == nil {
			t.Error("expected error for unknown format")
		}
	})
}
