// Package prompts provides the externalized LLM prompt templates, stored as
// JSON and embedded at compile time.
package prompts

import (
	"encoding/json"
	"fmt"
	"strings"
	"sync"

	_ "embed"
)

//go:embed drafting.json
var draftingFile []byte

var (
	loadOnce sync.Once
	loaded   map[string]string
	loadErr  error
)

// Get retrieves a prompt template by key.
func Get(key string) (string, error) {
	loadOnce.Do(func() {
		loadErr = json.Unmarshal(draftingFile, &loaded)
	})
	if loadErr != nil {
		return "", fmt.Errorf("prompts: parse embedded templates: %w", loadErr)
	}
	prompt, ok := loaded[key]
	if !ok {
		return "", fmt.Errorf("prompts: key %q not found", key)
	}
	return prompt, nil
}

// Format replaces {{.Key}} placeholders with values from data. Placeholders
// without a value are replaced with an empty string by passing them in data.
func Format(template string, data map[string]string) string {
	result := template
	for key, value := range data {
		result = strings.ReplaceAll(result, fmt.Sprintf("{{.%s}}", key), value)
	}
	return result
}
