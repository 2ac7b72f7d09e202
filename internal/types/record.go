// Package types provides type definitions for structured data used throughout the outreach system.
//
//nolint:revive // types is a standard Go package name pattern
package types

import (
	"crypto/sha256"
	"encoding/hex"
	"strings"
)

// Status represents the lifecycle state of a company record.
type Status string

const (
	// StatusPending indicates the record has not been attempted yet.
	StatusPending Status = "pending"
	// StatusDrafted indicates an email draft exists but has not been sent.
	// Drafted is an in-run state; it is never written to the state file.
	StatusDrafted Status = "drafted"
	// StatusSent indicates the email was delivered. Sent is terminal: once a
	// record reaches it, no later run may re-attempt the record.
	StatusSent Status = "sent"
	// StatusFailed indicates the last attempt failed. Failed records are
	// retried on future runs until the attempt ceiling is reached.
	StatusFailed Status = "failed"
	// StatusSkipped indicates the record is permanently excluded: either a
	// non-retryable send failure or the attempt ceiling was exhausted.
	StatusSkipped Status = "skipped"
)

// Valid reports whether s is one of the known lifecycle states.
func (s Status) Valid() bool {
	switch s {
	case StatusPending, StatusDrafted, StatusSent, StatusFailed, StatusSkipped:
		return true
	}
	return false
}

// CompanyRecord represents one target company loaded from the spreadsheet.
type CompanyRecord struct {
	ID      string `json:"id"`
	Company string `json:"company"`
	Email   string `json:"email"`
	Website string `json:"website,omitempty"`
	Notes   string `json:"notes,omitempty"`

	// Row is the original spreadsheet row number, used for stable ordering.
	Row int `json:"row"`

	Status       Status `json:"status"`
	Attempts     int    `json:"attempts"`
	LastError    string `json:"last_error,omitempty"`
	NonRetryable bool   `json:"non_retryable,omitempty"`
}

// RecordID derives the stable identifier for a company from its name and
// contact email. The same company/email pair always yields the same ID, so
// duplicate spreadsheet rows collapse onto one record.
func RecordID(company, email string) string {
	norm := strings.ToLower(strings.TrimSpace(company)) + "|" + strings.ToLower(strings.TrimSpace(email))
	sum := sha256.Sum256([]byte(norm))
	return hex.EncodeToString(sum[:6])
}
