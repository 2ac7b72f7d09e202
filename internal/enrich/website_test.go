package enrich

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/PuerkitoBio/goquery"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const samplePage = `<!DOCTYPE html>
<html>
<head>
  <title>Baykar Technologies</title>
  <meta name="description" content="Leading developer of unmanned aerial vehicles.">
</head>
<body>
  <h1>Baykar Technologies</h1>
  <h2>National UAV programs</h2>
  <h2>Careers</h2>
</body>
</html>`

func TestFetchContext(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, userAgent, r.Header.Get("User-Agent"))
		_, _ = w.Write([]byte(samplePage))
	}))
	defer srv.Close()

	f := NewFetcher()
	snippet, err := f.FetchContext(context.Background(), srv.URL)
	require.NoError(t, err)
	assert.Contains(t, snippet, "Baykar Technologies")
	assert.Contains(t, snippet, "unmanned aerial vehicles")
}

func TestFetchContext_Non200(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusForbidden)
	}))
	defer srv.Close()

	f := NewFetcher()
	_, err := f.FetchContext(context.Background(), srv.URL)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "403")
}

func TestFetchContext_BadURL(t *testing.T) {
	f := NewFetcher()
	_, err := f.FetchContext(context.Background(), "   ")
	assert.Error(t, err)
}

func TestSummarize_DeduplicatesAndCaps(t *testing.T) {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(samplePage))
	require.NoError(t, err)

	snippet := Summarize(doc)
	// Title and h1 are identical: only one survives.
	assert.Equal(t, 1, strings.Count(snippet, "Baykar Technologies"))
	assert.LessOrEqual(t, len(snippet), maxSnippetLen)
}

func TestSummarize_EmptyPage(t *testing.T) {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader("<html><body></body></html>"))
	require.NoError(t, err)
	assert.Empty(t, Summarize(doc))
}
