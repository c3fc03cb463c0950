package main

import (
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"os"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// withFakeResponse replaces doRequest for the duration of the test, recording
// the request and answering with the canned body.
func withFakeResponse(t *testing.T, body string, err error) *recordedRequest {
	t.Helper()
	rec := &recordedRequest{}
	original := doRequest
	doRequest = func(method, path string, reqBody any) ([]byte, error) {
		rec.Method = method
		rec.Path = path
		rec.Body = reqBody
		if err != nil {
			return nil, err
		}
		return []byte(body), nil
	}
	t.Cleanup(func() { doRequest = original })
	return rec
}

type recordedRequest struct {
	Method string
	Path   string
	Body   any
}

// captureStdout runs fn with os.Stdout redirected to a pipe and returns what
// it wrote.
func captureStdout(t *testing.T, fn func() error) (string, error) {
	t.Helper()
	r, w, err := os.Pipe()
	require.NoError(t, err)
	original := os.Stdout
	os.Stdout = w
	defer func() { os.Stdout = original }()

	runErr := fn()
	require.NoError(t, w.Close())
	out, err := io.ReadAll(r)
	require.NoError(t, err)
	return string(out), runErr
}

// ---------------------------------------------------------------------------
// recordsCmd
// ---------------------------------------------------------------------------

func TestRecordsCmd(t *testing.T) {
	cmd := recordsCmd()

	assert.Equal(t, "records", cmd.Use)
	assert.NotEmpty(t, cmd.Short)
	assert.NotEmpty(t, cmd.Long)
	assert.NotNil(t, cmd.RunE)
}

func TestRunRecords(t *testing.T) {
	rec := withFakeResponse(t, `[
		{"status":"success","token":"tok-1","candidate":{"fullName":"Dana Reyes","companyName":"Acme Inc","website":"acme.com"},"receivedAt":"2026-08-23T10:00:00Z"},
		{"status":"failed","receivedAt":"2026-08-23T10:00:01Z"}
	]`, nil)

	out, err := captureStdout(t, func() error {
		return runRecords(recordsCmd(), nil)
	})
	require.NoError(t, err)

	assert.Equal(t, http.MethodGet, rec.Method)
	assert.Equal(t, "/callbacks", rec.Path)
	assert.Contains(t, out, "TOTAL")
	assert.Contains(t, out, "Acme Inc")
	assert.Contains(t, out, "tok-1")
	assert.Contains(t, out, "failed")
}

func TestRunRecordsServerError(t *testing.T) {
	withFakeResponse(t, "", fmt.Errorf("server answered 500 Internal Server Error"))

	_, err := captureStdout(t, func() error {
		return runRecords(recordsCmd(), nil)
	})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to list records")
}

// ---------------------------------------------------------------------------
// resolveCmd
// ---------------------------------------------------------------------------

func TestResolveCmd(t *testing.T) {
	cmd := resolveCmd()

	assert.Equal(t, "resolve", cmd.Use)
	assert.NotEmpty(t, cmd.Short)
	assert.NotEmpty(t, cmd.Long)
	assert.NotNil(t, cmd.RunE)

	require.NotNil(t, cmd.Flags().Lookup("name"))
	require.NotNil(t, cmd.Flags().Lookup("website"))
	require.NotNil(t, cmd.Flags().Lookup("identifier"))
}

func TestRunResolve(t *testing.T) {
	rec := withFakeResponse(t, `{
		"outcome":"resolved",
		"candidate":{"fullName":"Dana Reyes","companyName":"Acme Inc","website":"acme.com","contacts":[{"type":"email","value":"dana@acme.com"}]}
	}`, nil)

	out, err := captureStdout(t, func() error {
		return runResolve(resolveRequest{Name: "Acme", Website: "acme.com"})
	})
	require.NoError(t, err)

	assert.Equal(t, http.MethodPost, rec.Method)
	assert.Equal(t, "/resolve", rec.Path)
	sent, ok := rec.Body.(resolveRequest)
	require.True(t, ok)
	assert.Equal(t, "Acme", sent.Name)

	assert.Contains(t, out, "resolved")
	assert.Contains(t, out, "Acme Inc")
	assert.Contains(t, out, "dana@acme.com")
}

func TestRunResolveTimedOut(t *testing.T) {
	withFakeResponse(t, `{"outcome":"timed_out","candidate":{"fullName":"Not found"}}`, nil)

	out, err := captureStdout(t, func() error {
		return runResolve(resolveRequest{Website: "ghost.example"})
	})
	require.NoError(t, err, "a timeout is an outcome, not a CLI error")
	assert.Contains(t, out, "timed_out")
	assert.Contains(t, out, "Not found")
}

func TestRunResolveRequiresTarget(t *testing.T) {
	err := runResolve(resolveRequest{})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "required")
}

// ---------------------------------------------------------------------------
// dispatchCmd
// ---------------------------------------------------------------------------

func TestDispatchCmd(t *testing.T) {
	cmd := dispatchCmd()

	assert.Equal(t, "dispatch", cmd.Use)
	assert.NotEmpty(t, cmd.Short)
	assert.NotNil(t, cmd.RunE)

	require.NotNil(t, cmd.Flags().Lookup("identifier"))
}

func TestRunDispatch(t *testing.T) {
	rec := withFakeResponse(t, `{"token":"4f7a"}`, nil)

	out, err := captureStdout(t, func() error {
		return runDispatch(resolveRequest{Identifier: "acme.com"})
	})
	require.NoError(t, err)

	assert.Equal(t, http.MethodPost, rec.Method)
	assert.Equal(t, "/dispatch", rec.Path)
	assert.Contains(t, out, "4f7a")
}

// ---------------------------------------------------------------------------
// searchCmd
// ---------------------------------------------------------------------------

func TestSearchCmd(t *testing.T) {
	cmd := searchCmd()

	assert.Equal(t, "search [query]", cmd.Use)
	assert.NotEmpty(t, cmd.Short)
	assert.NotNil(t, cmd.RunE)

	require.NotNil(t, cmd.Flags().Lookup("base-url"))
	require.NotNil(t, cmd.Flags().Lookup("api-key"))
	require.NotNil(t, cmd.Flags().Lookup("pages"))
	require.NotNil(t, cmd.Flags().Lookup("limit"))
}

func TestRunSearch(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "Acme Inc", r.URL.Query().Get("q"))
		fmt.Fprint(w, `{"organic_results":[
			{"link":"https://www.acme.com/"},
			{"link":"http://acme.com"},
			{"link":"https://other.example"}
		]}`)
	}))
	t.Cleanup(srv.Close)

	out, err := captureStdout(t, func() error {
		return runSearch(searchFlags{BaseURL: srv.URL, Pages: 1, Limit: 3}, "Acme Inc")
	})
	require.NoError(t, err)

	// Duplicate sites collapse after URL normalization.
	assert.Contains(t, out, "https://www.acme.com/")
	assert.Contains(t, out, "https://other.example")
	assert.NotContains(t, out, "http://acme.com", "same site listed once")
}

// ---------------------------------------------------------------------------
// output formats
// ---------------------------------------------------------------------------

func TestOutputJSON(t *testing.T) {
	out, err := captureStdout(t, func() error {
		return outputResult(DispatchResult{Token: "abc"}, "json")
	})
	require.NoError(t, err)
	assert.JSONEq(t, `{"token":"abc"}`, out)
}

func TestOutputYAML(t *testing.T) {
	out, err := captureStdout(t, func() error {
		return outputResult(DispatchResult{Token: "abc"}, "yaml")
	})
	require.NoError(t, err)
	assert.Contains(t, out, "token: abc")
}
