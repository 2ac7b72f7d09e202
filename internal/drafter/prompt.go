package drafter

import (
	"strings"

	"github.com/jonathan/internship-outreach/internal/prompts"
	"github.com/jonathan/internship-outreach/internal/types"
)

// Applicant carries the identity fields substituted into every prompt.
type Applicant struct {
	Name       string
	University string
	Department string
}

// noteInterests maps keywords in the spreadsheet notes column to an extra
// emphasis sentence for the prompt. Ordered so prompts stay deterministic
// when notes match several keywords.
var noteInterests = []struct {
	keyword  string
	sentence string
}{
	{"drone", "The applicant is especially interested in the company's work on drone technologies and unmanned aerial vehicles."},
	{"robot", "The applicant is especially interested in the company's robotics work."},
}

// BuildPrompt constructs the drafting prompt deterministically from record
// fields: the same record, applicant and website context always produce the
// same prompt, even though generator output may vary.
func BuildPrompt(rec *types.CompanyRecord, applicant Applicant, websiteContext string) (string, error) {
	template, err := prompts.Get("email_draft")
	if err != nil {
		return "", err
	}

	interest := ""
	if sentence := noteInterest(rec.Notes); sentence != "" {
		prefix, err := prompts.Get("special_interest_prefix")
		if err != nil {
			return "", err
		}
		interest = prefix + sentence
	}

	ctxLine := ""
	if websiteContext != "" {
		ctxLine = "Website context: " + websiteContext + "\n"
	}

	return prompts.Format(template, map[string]string{
		"Company":         rec.Company,
		"Website":         orDefault(rec.Website, "not provided"),
		"Notes":           orDefault(rec.Notes, "none"),
		"WebsiteContext":  ctxLine,
		"SpecialInterest": interest,
		"ApplicantName":   applicant.Name,
		"University":      applicant.University,
		"Department":      applicant.Department,
	}), nil
}

func noteInterest(notes string) string {
	lower := strings.ToLower(notes)
	for _, ni := range noteInterests {
		if strings.Contains(lower, ni.keyword) {
			return ni.sentence
		}
	}
	return ""
}

func orDefault(v, fallback string) string {
	if strings.TrimSpace(v) == "" {
		return fallback
	}
	return v
}
