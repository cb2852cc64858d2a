// package formatter exports account listings to various formats (CSV, plain text, JSON)
package formatter

import (
	"bytes"
	"encoding/csv"
	"encoding/json"
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/desertthunder/setlist/internal/models"
)

// Format identifiers accepted by WriteExport.
const (
	FormatCSV  = "csv"
	FormatText = "text"
	FormatJSON = "json"
)

// accountRow is the safe projection of a user for exports. Password hashes
// and provider tokens never leave the process.
type accountRow struct {
	Sequence  int    `json:"sequence"`
	Email     string `json:"email"`
	Name      string `json:"name"`
	Onboarded bool   `json:"onboarded"`
	Spotify   bool   `json:"spotifyConnected"`
	CreatedAt string `json:"createdAt"`
}

func toRow(user *models.User) accountRow {
	return accountRow{
		Sequence:  user.Sequence(),
		Email:     user.Email(),
		Name:      user.Name(),
		Onboarded: user.Onboarded(),
		Spotify:   user.Spotify().Present(),
		CreatedAt: user.CreatedAt().Format(time.RFC3339),
	}
}

// ExportToCSV converts users to CSV with columns: Sequence, Email, Name, Onboarded, Spotify, Created
func ExportToCSV(users []*models.User) ([]byte, error) {
	var buf bytes.Buffer
	writer := csv.NewWriter(&buf)

	headers := []string{"Sequence", "Email", "Name", "Onboarded", "Spotify", "Created"}
	if err := writer.Write(headers); err != nil {
		return nil, fmt.Errorf("failed to write CSV headers: %w", err)
	}

	for _, user := range users {
		row := toRow(user)
		record := []string{
			strconv.Itoa(row.Sequence),
			row.Email,
			row.Name,
			strconv.FormatBool(row.Onboarded),
			strconv.FormatBool(row.Spotify),
			row.CreatedAt,
		}
		if err := writer.Write(record); err != nil {
			return nil, fmt.Errorf("failed to write CSV record: %w", err)
		}
	}

	writer.Flush()
	if err := writer.Error(); err != nil {
		return nil, fmt.Errorf("CSV writer error: %w", err)
	}

	return buf.Bytes(), nil
}

// ExportToText converts users to a plain text listing
func ExportToText(users []*models.User) ([]byte, error) {
	var buf bytes.Buffer

	buf.WriteString(fmt.Sprintf("Accounts: %d\n\n", len(users)))

	for i, user := range users {
		row := toRow(user)
		flags := ""
		if row.Onboarded {
			flags += " [onboarded]"
		}
		if row.Spotify {
			flags += " [spotify]"
		}
		buf.WriteString(fmt.Sprintf("%d. %s <%s>%s\n", i+1, row.Name, row.Email, flags))
	}

	return buf.Bytes(), nil
}

// ExportToJSON converts users to an indented JSON array of safe projections
func ExportToJSON(users []*models.User) ([]byte, error) {
	rows := make([]accountRow, 0, len(users))
	for _, user := range users {
		rows = append(rows, toRow(user))
	}

	data, err := json.MarshalIndent(rows, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("failed to marshal accounts: %w", err)
	}

	return append(data, '\n'), nil
}

// Export renders users in the named format.
func Export(users []*models.User, format string) ([]byte, error) {
	switch format {
	case FormatCSV:
		return ExportToCSV(users)
	case FormatText:
		return ExportToText(users)
	case FormatJSON:
		return ExportToJSON(users)
	default:
		return nil, fmt.Errorf("unknown format: %s", format)
	}
}

// WriteExport renders users and writes the result to path.
//
// Defaults to "accounts.{format}" when path is empty. Returns the path written.
func WriteExport(users []*models.User, format, path string) (string, error) {
	data, err := Export(users, format)
	if err != nil {
		return "", err
	}

	if path == "" {
		path = "accounts." + format
	}

	if err := os.WriteFile(path, data, 0644); err != nil {
		return "", fmt.Errorf("failed to write export file: %w", err)
	}

	return path, nil
}
