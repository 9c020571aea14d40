package executor

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/dkeye/CodeRoom/internal/core"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNew_Endpoint(t *testing.T) {
	assert.Equal(t, "https://emkc.org/api/v2/piston/execute", New("https://emkc.org/api/v2/piston", nil).Endpoint())
	assert.Equal(t, "https://emkc.org/api/v2/piston/execute", New("https://emkc.org/api/v2/piston/", nil).Endpoint())
	assert.Equal(t, "http://x/execute", New("http://x/execute", nil).Endpoint())
}

func TestExecute_ForwardsRequestAndReturnsBodyVerbatim(t *testing.T) {
	const body = `{"language":"python","version":"3.10.0","run":{"stdout":"1\n","stderr":"","code":0,"signal":null,"output":"1\n"}}`
	var got executeRequest
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "/api/v2/piston/execute", r.URL.Path)
		assert.Equal(t, "application/json", r.Header.Get("Content-Type"))
		require.NoError(t, json.NewDecoder(r.Body).Decode(&got))
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(body))
	}))
	defer srv.Close()

	c := New(srv.URL+"/api/v2/piston", srv.Client())
	res, err := c.Execute(context.Background(), core.ExecRequest{Language: "python", Code: "print(1)"})
	require.NoError(t, err)

	assert.JSONEq(t, body, string(res))
	assert.Equal(t, "python", got.Language)
	assert.Equal(t, core.AnyVersion, got.Version)
	require.Len(t, got.Files, 1)
	assert.Equal(t, "print(1)", got.Files[0].Content)
}

func TestExecute_Failures(t *testing.T) {
	cases := map[string]struct {
		status int
		body   string
		want   error
	}{
		"server error":   {http.StatusInternalServerError, `{"message":"boom"}`, ErrUpstreamStatus},
		"bad request":    {http.StatusBadRequest, `{"message":"runtime is unknown"}`, ErrUpstreamStatus},
		"not json":       {http.StatusOK, `<html>oops</html>`, ErrMalformedResponse},
		"empty":          {http.StatusOK, ``, ErrMalformedResponse},
		"array not obj":  {http.StatusOK, `[1,2]`, ErrMalformedResponse},
		"truncated json": {http.StatusOK, `{"run":`, ErrMalformedResponse},
	}
	for name, tc := range cases {
		t.Run(name, func(t *testing.T) {
			srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(tc.status)
				_, _ = w.Write([]byte(tc.body))
			}))
			defer srv.Close()

			_, err := New(srv.URL, srv.Client()).Execute(context.Background(), core.ExecRequest{Language: "python", Version: "*", Code: "1/0"})
			assert.ErrorIs(t, err, tc.want)
		})
	}
}

func TestExecute_NetworkErrorAndTimeout(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		select {
		case <-r.Context().Done():
		case <-time.After(2 * time.Second):
		}
	}))
	url := srv.URL

	ctx, cancel := context.WithTimeout(context.Background(), 50*time.Millisecond)
	defer cancel()
	_, err := New(url, srv.Client()).Execute(ctx, core.ExecRequest{Language: "python", Code: "x"})
	assert.ErrorIs(t, err, context.DeadlineExceeded)

	srv.Close()
	_, err = New(url, nil).Execute(context.Background(), core.ExecRequest{Language: "python", Code: "x"})
	assert.Error(t, err)
}
