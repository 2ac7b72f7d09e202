package prompts

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGet_KnownKeys(t *testing.T) {
	for _, key := range []string{"email_draft", "special_interest_prefix"} {
		prompt, err := Get(key)
		require.NoError(t, err, key)
		assert.NotEmpty(t, prompt, key)
	}
}

func TestGet_UnknownKey(t *testing.T) {
	_, err := Get("does_not_exist")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "does_not_exist")
}

func TestFormat(t *testing.T) {
	out := Format("Hello {{.Name}}, welcome to {{.Company}}. Bye {{.Name}}.", map[string]string{
		"Name":    "Ada",
		"Company": "Baykar",
	})
	assert.Equal(t, "Hello Ada, welcome to Baykar. Bye Ada.", out)
}

func TestFormat_MissingKeyLeftAsIs(t *testing.T) {
	out := Format("Hello {{.Name}}", map[string]string{})
	assert.Equal(t, "Hello {{.Name}}", out)
}
