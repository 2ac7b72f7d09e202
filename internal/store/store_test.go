package store

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jonathan/internship-outreach/internal/types"
)

func writeCSV(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "companies.csv")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func newTestStore(t *testing.T, statePath string) *Store {
	t.Helper()
	return New(Options{StatePath: statePath, MaxAttempts: 3})
}

func TestLoad_BasicSheet(t *testing.T) {
	csv := writeCSV(t, "Company,Email,Website,Notes\nBaykar,info@baykar.com,baykar.com,drone\nAselsan,hr@aselsan.com,,\n")
	st := newTestStore(t, filepath.Join(t.TempDir(), "state.json"))
	require.NoError(t, st.Load(csv))

	recs := st.All()
	require.Len(t, recs, 2)
	assert.Equal(t, "Baykar", recs[0].Company)
	assert.Equal(t, "drone", recs[0].Notes)
	assert.Equal(t, 2, recs[0].Row)
	assert.Equal(t, types.StatusPending, recs[0].Status)
	assert.Equal(t, 3, recs[1].Row)
}

func TestLoad_TurkishHeaders(t *testing.T) {
	csv := writeCSV(t, "Şirket Adı,Mail,Web Sitesi,Notlar\nBaykar,info@baykar.com,baykar.com,İHA\n")
	st := newTestStore(t, "")
	require.NoError(t, st.Load(csv))

	recs := st.All()
	require.Len(t, recs, 1)
	assert.Equal(t, "Baykar", recs[0].Company)
	assert.Equal(t, "baykar.com", recs[0].Website)
}

func TestLoad_InvalidRowsExcluded(t *testing.T) {
	csv := writeCSV(t, "Company,Email\nBaykar,info@baykar.com\n,orphan@example.com\nNoMail,not-an-email\nAselsan,hr@aselsan.com\n")
	st := newTestStore(t, "")
	require.NoError(t, st.Load(csv))

	assert.Len(t, st.All(), 2)
	assert.Equal(t, 2, st.InvalidRows())
}

func TestLoad_DuplicatesFirstWins(t *testing.T) {
	csv := writeCSV(t, "Company,Email,Notes\nBaykar,info@baykar.com,first\nBAYKAR,Info@Baykar.com,second\nAselsan,hr@aselsan.com,\n")
	st := newTestStore(t, "")
	require.NoError(t, st.Load(csv))

	recs := st.All()
	require.Len(t, recs, 2)
	assert.Equal(t, "first", recs[0].Notes)
	assert.Equal(t, 1, st.DuplicateRows())
}

func TestLoad_MissingRequiredColumn(t *testing.T) {
	csv := writeCSV(t, "Company,Website\nBaykar,baykar.com\n")
	st := newTestStore(t, "")
	err := st.Load(csv)
	require.Error(t, err)

	var loadErr *LoadError
	require.ErrorAs(t, err, &loadErr)
	assert.Contains(t, err.Error(), "email")
}

func TestLoad_EmptySheet(t *testing.T) {
	csv := writeCSV(t, "")
	st := newTestStore(t, "")
	assert.Error(t, st.Load(csv))
}

func TestLoad_MissingFile(t *testing.T) {
	st := newTestStore(t, "")
	var loadErr *LoadError
	assert.ErrorAs(t, st.Load(filepath.Join(t.TempDir(), "nope.csv")), &loadErr)
}

func TestRecordOutcome_UnknownRecord(t *testing.T) {
	csv := writeCSV(t, "Company,Email\nBaykar,info@baykar.com\n")
	st := newTestStore(t, "")
	require.NoError(t, st.Load(csv))

	err := st.RecordOutcome("does-not-exist", types.StatusSent, nil, false)
	assert.ErrorIs(t, err, ErrUnknownRecord)
}

func TestRecordOutcome_SentIsTerminal(t *testing.T) {
	csv := writeCSV(t, "Company,Email\nBaykar,info@baykar.com\n")
	statePath := filepath.Join(t.TempDir(), "state.json")
	st := newTestStore(t, statePath)
	require.NoError(t, st.Load(csv))

	id := st.All()[0].ID
	require.NoError(t, st.RecordOutcome(id, types.StatusSent, nil, false))
	require.NoError(t, st.RecordOutcome(id, types.StatusFailed, errors.New("late failure"), false))

	rec := st.All()[0]
	assert.Equal(t, types.StatusSent, rec.Status)
	assert.Equal(t, 1, rec.Attempts)
	assert.Empty(t, rec.LastError)
}

func TestStateOverlay_SentSurvivesReload(t *testing.T) {
	csvContent := "Company,Email\nBaykar,info@baykar.com\nAselsan,hr@aselsan.com\n"
	csv := writeCSV(t, csvContent)
	statePath := filepath.Join(t.TempDir(), "state.json")

	st := newTestStore(t, statePath)
	require.NoError(t, st.Load(csv))
	require.NoError(t, st.RecordOutcome(st.All()[0].ID, types.StatusSent, nil, false))

	// Fresh process: reload from disk.
	st2 := newTestStore(t, statePath)
	require.NoError(t, st2.Load(csv))

	recs := st2.All()
	assert.Equal(t, types.StatusSent, recs[0].Status)
	assert.Equal(t, types.StatusPending, recs[1].Status)

	unsent := st2.Unsent()
	require.Len(t, unsent, 1)
	assert.Equal(t, "Aselsan", unsent[0].Company)
}

func TestStateOverlay_FailedStaysRetryable(t *testing.T) {
	csv := writeCSV(t, "Company,Email\nBaykar,info@baykar.com\n")
	statePath := filepath.Join(t.TempDir(), "state.json")

	st := newTestStore(t, statePath)
	require.NoError(t, st.Load(csv))
	require.NoError(t, st.RecordOutcome(st.All()[0].ID, types.StatusFailed, errors.New("connection reset"), false))

	st2 := newTestStore(t, statePath)
	require.NoError(t, st2.Load(csv))

	rec := st2.All()[0]
	assert.Equal(t, types.StatusFailed, rec.Status)
	assert.Equal(t, 1, rec.Attempts)
	assert.Equal(t, "connection reset", rec.LastError)
	assert.Len(t, st2.Unsent(), 1)
}

func TestStateOverlay_NonRetryableBecomesSkipped(t *testing.T) {
	csv := writeCSV(t, "Company,Email\nBaykar,info@baykar.com\n")
	statePath := filepath.Join(t.TempDir(), "state.json")

	st := newTestStore(t, statePath)
	require.NoError(t, st.Load(csv))
	require.NoError(t, st.RecordOutcome(st.All()[0].ID, types.StatusFailed, errors.New("recipient refused"), true))

	st2 := newTestStore(t, statePath)
	require.NoError(t, st2.Load(csv))

	assert.Equal(t, types.StatusSkipped, st2.All()[0].Status)
	assert.Empty(t, st2.Unsent())
}

func TestStateOverlay_AttemptCeilingBecomesSkipped(t *testing.T) {
	csv := writeCSV(t, "Company,Email\nBaykar,info@baykar.com\n")
	statePath := filepath.Join(t.TempDir(), "state.json")

	st := newTestStore(t, statePath)
	require.NoError(t, st.Load(csv))
	id := st.All()[0].ID
	for i := 0; i < 3; i++ {
		require.NoError(t, st.RecordOutcome(id, types.StatusFailed, errors.New("timeout"), false))
	}

	st2 := newTestStore(t, statePath)
	require.NoError(t, st2.Load(csv))

	assert.Equal(t, types.StatusSkipped, st2.All()[0].Status)
	assert.Empty(t, st2.Unsent())
}

func TestStateOverlay_StaleEntriesIgnored(t *testing.T) {
	statePath := filepath.Join(t.TempDir(), "state.json")

	// Record an outcome for a company, then reload with a sheet that no
	// longer contains it.
	csv1 := writeCSV(t, "Company,Email\nBaykar,info@baykar.com\n")
	st := newTestStore(t, statePath)
	require.NoError(t, st.Load(csv1))
	require.NoError(t, st.RecordOutcome(st.All()[0].ID, types.StatusSent, nil, false))

	csv2 := writeCSV(t, "Company,Email\nAselsan,hr@aselsan.com\n")
	st2 := newTestStore(t, statePath)
	require.NoError(t, st2.Load(csv2))

	require.Len(t, st2.All(), 1)
	assert.Equal(t, types.StatusPending, st2.All()[0].Status)
}

func TestFlush_WritesValidStateFile(t *testing.T) {
	csv := writeCSV(t, "Company,Email\nBaykar,info@baykar.com\nAselsan,hr@aselsan.com\n")
	statePath := filepath.Join(t.TempDir(), "state", "outreach_state.json")

	st := newTestStore(t, statePath)
	require.NoError(t, st.Load(csv))
	require.NoError(t, st.RecordOutcome(st.All()[0].ID, types.StatusSent, nil, false))

	state, err := readState(statePath)
	require.NoError(t, err)
	require.Len(t, state, 1) // untouched pending records are not persisted

	entry := state[st.All()[0].ID]
	assert.Equal(t, types.StatusSent, entry.Status)
	assert.Equal(t, 1, entry.Attempts)
	assert.False(t, entry.UpdatedAt.IsZero())

	// No temp file left behind.
	_, err = os.Stat(statePath + ".tmp")
	assert.True(t, os.IsNotExist(err))
}

func TestCounts_FoldsExhaustedIntoSkipped(t *testing.T) {
	csv := writeCSV(t, "Company,Email\nBaykar,info@baykar.com\nAselsan,hr@aselsan.com\nRoketsan,jobs@roketsan.com\n")
	st := newTestStore(t, filepath.Join(t.TempDir(), "state.json"))
	require.NoError(t, st.Load(csv))

	recs := st.All()
	require.NoError(t, st.RecordOutcome(recs[0].ID, types.StatusSent, nil, false))
	require.NoError(t, st.RecordOutcome(recs[1].ID, types.StatusFailed, errors.New("bad address"), true))

	counts := st.Counts()
	assert.Equal(t, 1, counts[types.StatusSent])
	assert.Equal(t, 1, counts[types.StatusSkipped])
	assert.Equal(t, 1, counts[types.StatusPending])
	assert.Equal(t, 0, counts[types.StatusFailed])
}
