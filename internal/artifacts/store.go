// Package artifacts persists generated drafts for human review. The store is
// append-only: one file per record per run, never overwritten. Writing the
// draft before dispatch is a deliberate manual checkpoint and cannot be
// disabled by configuration.
package artifacts

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"github.com/jonathan/internship-outreach/internal/types"
)

// Store writes review artifacts into a flat directory.
type Store struct {
	dir string
}

// NewStore creates the artifact directory if needed.
func NewStore(dir string) (*Store, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("artifacts: create dir: %w", err)
	}
	return &Store{dir: dir}, nil
}

// Write stores one draft and returns the file path. File names carry the
// company slug, a timestamp and the record ID so repeated runs append rather
// than replace.
func (s *Store) Write(rec *types.CompanyRecord, draft *types.DraftedEmail) (string, error) {
	name := fmt.Sprintf("%s_%s_%s.txt",
		slugify(rec.Company), time.Now().Format("20060102_150405"), rec.ID)
	path := filepath.Join(s.dir, name)

	var b strings.Builder
	fmt.Fprintf(&b, "Company: %s\n", rec.Company)
	fmt.Fprintf(&b, "To: %s\n", rec.Email)
	fmt.Fprintf(&b, "Generated: %s\n", time.Now().Format("2006-01-02 15:04:05"))
	fmt.Fprintf(&b, "%s\n\n", strings.Repeat("-", 50))
	fmt.Fprintf(&b, "Subject: %s\n\n", draft.Subject)
	b.WriteString(draft.Body)
	b.WriteString("\n")

	if err := os.WriteFile(path, []byte(b.String()), 0o644); err != nil {
		return "", fmt.Errorf("artifacts: write draft: %w", err)
	}
	return path, nil
}

// List returns the stored artifact file names, sorted.
func (s *Store) List() ([]string, error) {
	entries, err := os.ReadDir(s.dir)
	if err != nil {
		return nil, fmt.Errorf("artifacts: list dir: %w", err)
	}
	var names []string
	for _, e := range entries {
		if !e.IsDir() && strings.HasSuffix(e.Name(), ".txt") {
			names = append(names, e.Name())
		}
	}
	sort.Strings(names)
	return names, nil
}

// Dir returns the artifact directory, shown to the operator before sending.
func (s *Store) Dir() string {
	return s.dir
}

func slugify(name string) string {
	var b strings.Builder
	for _, r := range strings.TrimSpace(name) {
		switch {
		case r >= 'a' && r <= 'z', r >= '0' && r <= '9':
			b.WriteRune(r)
		case r >= 'A' && r <= 'Z':
			b.WriteRune(r + ('a' - 'A'))
		case r == ' ', r == '-', r == '_':
			b.WriteByte('_')
		}
	}
	if b.Len() == 0 {
		return "company"
	}
	return b.String()
}
