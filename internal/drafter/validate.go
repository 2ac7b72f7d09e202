package drafter

import (
	"encoding/json"
	"strings"

	"github.com/xeipuuv/gojsonschema"

	_ "embed"

	"github.com/jonathan/internship-outreach/internal/llm"
)

//go:embed draft_schema.json
var draftSchema string

// headerEchoes are header-style prefixes a generator sometimes leaks into the
// body. A body line starting with one of these fails validation.
var headerEchoes = []string{"subject:", "from:", "to:", "cc:", "email body:"}

type rawDraft struct {
	Subject string `json:"subject"`
	Body    string `json:"body"`
}

// parseOutput validates raw generator output against the draft schema and the
// configured body length bounds, returning the cleaned subject and body.
func parseOutput(raw string, minBody, maxBody int) (string, string, error) {
	cleaned := llm.CleanJSONBlock(raw)

	result, err := gojsonschema.Validate(
		gojsonschema.NewStringLoader(draftSchema),
		gojsonschema.NewStringLoader(cleaned),
	)
	if err != nil {
		return "", "", &OutputError{Message: "response is not valid JSON", Cause: err}
	}
	if !result.Valid() {
		var problems []string
		for _, desc := range result.Errors() {
			problems = append(problems, desc.String())
		}
		return "", "", &OutputError{Message: strings.Join(problems, "; ")}
	}

	var draft rawDraft
	if err := json.Unmarshal([]byte(cleaned), &draft); err != nil {
		return "", "", &OutputError{Message: "decoding draft", Cause: err}
	}

	subject := strings.TrimSpace(draft.Subject)
	body := strings.TrimSpace(draft.Body)
	if subject == "" {
		return "", "", &OutputError{Message: "empty subject"}
	}
	if len(body) < minBody {
		return "", "", &OutputError{Message: "body too short, likely truncated"}
	}
	if len(body) > maxBody {
		return "", "", &OutputError{Message: "body exceeds length bound"}
	}
	for _, line := range strings.Split(body, "\n") {
		lower := strings.ToLower(strings.TrimSpace(line))
		for _, echo := range headerEchoes {
			if strings.HasPrefix(lower, echo) {
				return "", "", &OutputError{Message: "body echoes mail headers"}
			}
		}
	}

	return subject, collapseBlankLines(body), nil
}

// collapseBlankLines reduces runs of blank lines to a single blank line.
func collapseBlankLines(body string) string {
	lines := strings.Split(body, "\n")
	var out []string
	blank := false
	for _, line := range lines {
		if strings.TrimSpace(line) == "" {
			if !blank {
				out = append(out, "")
			}
			blank = true
			continue
		}
		blank = false
		out = append(out, strings.TrimRight(line, " \t"))
	}
	return strings.TrimSpace(strings.Join(out, "\n"))
}
