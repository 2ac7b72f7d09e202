// Package store maintains the deduplicated company list and its durable
// contact state. The state file is what makes re-runs idempotent: a company
// marked sent there is never emailed again.
package store

import (
	"encoding/csv"
	"os"
	"strings"

	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"

	"github.com/jonathan/internship-outreach/internal/types"
)

var validate = validator.New()

// Options configures a Store.
type Options struct {
	// StatePath is the JSON file holding per-record contact state.
	StatePath string
	// MaxAttempts is the retry ceiling; records failing this many times
	// surface as skipped and leave the unsent set.
	MaxAttempts int
	Logger      *zap.Logger
}

// Store holds the loaded records in spreadsheet order plus an ID index.
// The orchestrator is the sole writer; every outcome is flushed to the state
// file before the next record starts.
type Store struct {
	records []*types.CompanyRecord
	byID    map[string]*types.CompanyRecord

	statePath   string
	maxAttempts int
	logger      *zap.Logger

	invalidRows   int
	duplicateRows int
}

// New creates an empty store; call Load to populate it.
func New(opts Options) *Store {
	logger := opts.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	maxAttempts := opts.MaxAttempts
	if maxAttempts <= 0 {
		maxAttempts = 3
	}
	return &Store{
		byID:        make(map[string]*types.CompanyRecord),
		statePath:   opts.StatePath,
		maxAttempts: maxAttempts,
		logger:      logger,
	}
}

// Column aliases accepted in the spreadsheet header, matched case-insensitively.
// The original sheets used Turkish headers; English ones work too.
var columnAliases = map[string][]string{
	"company": {"company", "company name", "şirket adı", "sirket adi"},
	"email":   {"email", "e-mail", "mail"},
	"website": {"website", "web site", "web sitesi"},
	"notes":   {"notes", "notlar"},
}

// Load reads the spreadsheet, drops malformed rows, deduplicates by derived
// ID (first occurrence wins) and overlays persisted state so already-sent
// companies stay sent across process restarts.
func (s *Store) Load(csvPath string) error {
	f, err := os.Open(csvPath)
	if err != nil {
		return &LoadError{Path: csvPath, Cause: err}
	}
	defer f.Close()

	r := csv.NewReader(f)
	r.FieldsPerRecord = -1
	rows, err := r.ReadAll()
	if err != nil {
		return &LoadError{Path: csvPath, Cause: err}
	}
	if len(rows) == 0 {
		return &LoadError{Path: csvPath, Cause: errEmptySheet}
	}

	cols, err := mapColumns(rows[0])
	if err != nil {
		return &LoadError{Path: csvPath, Cause: err}
	}

	for i, row := range rows[1:] {
		rowNum := i + 2 // 1-based, after header
		rec, ok := s.parseRow(row, cols, rowNum)
		if !ok {
			continue
		}
		if _, dup := s.byID[rec.ID]; dup {
			s.duplicateRows++
			s.logger.Warn("duplicate row dropped",
				zap.String("company", rec.Company), zap.Int("row", rowNum))
			continue
		}
		s.byID[rec.ID] = rec
		s.records = append(s.records, rec)
	}

	state, err := readState(s.statePath)
	if err != nil {
		return err
	}
	for id, st := range state {
		rec, ok := s.byID[id]
		if !ok {
			continue // removed from the sheet since last run
		}
		rec.Attempts = st.Attempts
		rec.LastError = st.LastError
		rec.NonRetryable = st.NonRetryable
		rec.Status = s.effectiveStatus(st)
	}

	s.logger.Info("company list loaded",
		zap.Int("records", len(s.records)),
		zap.Int("invalid_rows", s.invalidRows),
		zap.Int("duplicate_rows", s.duplicateRows))
	return nil
}

func (s *Store) parseRow(row []string, cols map[string]int, rowNum int) (*types.CompanyRecord, bool) {
	get := func(name string) string {
		idx, ok := cols[name]
		if !ok || idx >= len(row) {
			return ""
		}
		return strings.TrimSpace(row[idx])
	}

	company := get("company")
	email := get("email")
	if company == "" || validate.Var(email, "required,email") != nil {
		s.invalidRows++
		s.logger.Warn("invalid row excluded",
			zap.Int("row", rowNum), zap.String("company", company), zap.String("email", email))
		return nil, false
	}

	return &types.CompanyRecord{
		ID:      types.RecordID(company, email),
		Company: company,
		Email:   email,
		Website: get("website"),
		Notes:   get("notes"),
		Row:     rowNum,
		Status:  types.StatusPending,
	}, true
}

// effectiveStatus maps persisted state onto the lifecycle: sent is terminal,
// non-retryable failures and exhausted retries surface as skipped.
func (s *Store) effectiveStatus(st recordState) types.Status {
	switch {
	case st.Status == types.StatusSent:
		return types.StatusSent
	case st.NonRetryable:
		return types.StatusSkipped
	case st.Attempts >= s.maxAttempts:
		return types.StatusSkipped
	case st.Status == types.StatusFailed:
		return types.StatusFailed
	default:
		return types.StatusPending
	}
}

// Unsent returns the records still eligible for this run, in original
// spreadsheet row order.
func (s *Store) Unsent() []*types.CompanyRecord {
	var out []*types.CompanyRecord
	for _, rec := range s.records {
		if (rec.Status == types.StatusPending || rec.Status == types.StatusFailed) &&
			rec.Attempts < s.maxAttempts {
			out = append(out, rec)
		}
	}
	return out
}

// All returns every loaded record in spreadsheet order.
func (s *Store) All() []*types.CompanyRecord {
	return s.records
}

// RecordOutcome writes an attempt outcome back to a record and flushes the
// state file immediately, so a crash loses at most the in-flight record.
func (s *Store) RecordOutcome(id string, status types.Status, attemptErr error, nonRetryable bool) error {
	rec, ok := s.byID[id]
	if !ok {
		return ErrUnknownRecord
	}
	if rec.Status == types.StatusSent {
		// Sent is monotonic; never regress it.
		return nil
	}

	rec.Attempts++
	rec.Status = status
	rec.NonRetryable = rec.NonRetryable || nonRetryable
	if status == types.StatusSent {
		rec.LastError = ""
	} else if attemptErr != nil {
		rec.LastError = attemptErr.Error()
	}

	return s.flush()
}

// Counts aggregates record counts per status, folding retry-exhausted failed
// records into skipped the same way the next load would.
func (s *Store) Counts() map[types.Status]int {
	counts := make(map[types.Status]int)
	for _, rec := range s.records {
		status := rec.Status
		if status == types.StatusFailed && (rec.NonRetryable || rec.Attempts >= s.maxAttempts) {
			status = types.StatusSkipped
		}
		counts[status]++
	}
	return counts
}

// InvalidRows reports how many spreadsheet rows were excluded at load time.
func (s *Store) InvalidRows() int {
	return s.invalidRows
}

// DuplicateRows reports how many rows were dropped as duplicates at load time.
func (s *Store) DuplicateRows() int {
	return s.duplicateRows
}

func (s *Store) flush() error {
	state := make(map[string]recordState, len(s.records))
	for _, rec := range s.records {
		if rec.Status == types.StatusPending && rec.Attempts == 0 {
			continue // nothing to persist yet
		}
		status := rec.Status
		if status == types.StatusDrafted {
			status = types.StatusPending // drafted is in-run state only
		}
		state[rec.ID] = recordState{
			Status:       status,
			Attempts:     rec.Attempts,
			LastError:    rec.LastError,
			NonRetryable: rec.NonRetryable,
		}
	}
	return writeState(s.statePath, state)
}

func mapColumns(header []string) (map[string]int, error) {
	cols := make(map[string]int)
	for i, raw := range header {
		name := strings.ToLower(strings.TrimSpace(strings.TrimPrefix(raw, "\uFEFF")))
		for canonical, aliases := range columnAliases {
			for _, alias := range aliases {
				if name == alias {
					cols[canonical] = i
				}
			}
		}
	}
	if _, ok := cols["company"]; !ok {
		return nil, errMissingColumn("company")
	}
	if _, ok := cols["email"]; !ok {
		return nil, errMissingColumn("email")
	}
	return cols, nil
}
