package drafter

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var testApplicant = Applicant{
	Name:       "Ada Yilmaz",
	University: "Istanbul Technical University",
	Department: "Computer Engineering",
}

func TestBuildPrompt_Deterministic(t *testing.T) {
	rec := testRecord()
	a, err := BuildPrompt(rec, testApplicant, "Baykar — UAV manufacturer")
	require.NoError(t, err)
	b, err := BuildPrompt(rec, testApplicant, "Baykar — UAV manufacturer")
	require.NoError(t, err)
	assert.Equal(t, a, b)
}

func TestBuildPrompt_SubstitutesFields(t *testing.T) {
	rec := testRecord()
	rec.Website = "baykar.com"

	prompt, err := BuildPrompt(rec, testApplicant, "")
	require.NoError(t, err)
	assert.Contains(t, prompt, "Baykar")
	assert.Contains(t, prompt, "baykar.com")
	assert.Contains(t, prompt, "Ada Yilmaz")
	assert.Contains(t, prompt, "Istanbul Technical University")
	assert.Contains(t, prompt, "Computer Engineering")
	assert.NotContains(t, prompt, "{{.")
}

func TestBuildPrompt_SpecialInterestFromNotes(t *testing.T) {
	rec := testRecord()
	rec.Notes = "works on DRONE systems"

	prompt, err := BuildPrompt(rec, testApplicant, "")
	require.NoError(t, err)
	assert.Contains(t, prompt, "drone technologies")

	rec.Notes = "general software"
	prompt, err = BuildPrompt(rec, testApplicant, "")
	require.NoError(t, err)
	assert.NotContains(t, prompt, "drone technologies")
}

func TestBuildPrompt_EmptyFieldsGetdefaults(t *testing.T) {
	rec := testRecord()
	rec.Website = ""
	rec.Notes = ""

	prompt, err := BuildPrompt(rec, testApplicant, "")
	require.NoError(t, err)
	assert.Contains(t, prompt, "not provided")
	assert.Contains(t, prompt, "none")
}

func TestNoteInterest_FirstMatchWins(t *testing.T) {
	// Notes matching several keywords always yield the same sentence.
	got := noteInterest("builds drone and robot platforms")
	assert.Contains(t, got, "drone")
}
