//nolint:noctx // Test file uses http.Get for convenience; context not required in tests
package oauth

import (
	"context"
	"fmt"
	"io"
	"net"
	"net/http"
	"net/url"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// startServer starts a callback server on a free port.
func startServer(t *testing.T, state string) *CallbackServer {
	t.Helper()
	server := NewCallbackServer(0, state)
	require.NoError(t, server.Start())
	t.Cleanup(func() { _ = server.Stop() })
	return server
}

func callback(t *testing.T, server *CallbackServer, params url.Values) *http.Response {
	t.Helper()
	resp, err := http.Get(server.RedirectURI() + "?" + params.Encode())
	require.NoError(t, err)
	t.Cleanup(func() { resp.Body.Close() })
	return resp
}

func TestNewCallbackServer(t *testing.T) {
	server := NewCallbackServer(8080, "test-state-123")

	require.NotNil(t, server)
	assert.Equal(t, 8080, server.Port())
	assert.Equal(t, "test-state-123", server.expectedState)
	assert.Nil(t, server.server)
}

func TestCallbackServer_StartPicksPort(t *testing.T) {
	server := startServer(t, "s")

	assert.NotZero(t, server.Port())
	assert.Equal(t, fmt.Sprintf("http://localhost:%d/callback", server.Port()), server.RedirectURI())
}

func TestCallbackServer_Start_PortInUse(t *testing.T) {
	first := startServer(t, "s1")

	second := NewCallbackServer(first.Port(), "s2")
	err := second.Start()

	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to listen")
}

func TestCallbackServer_StopTwice(t *testing.T) {
	server := NewCallbackServer(0, "s")
	require.NoError(t, server.Start())

	require.NoError(t, server.Stop())
	require.NoError(t, server.Stop())
}

func TestCallbackServer_StopRightAfterStart(t *testing.T) {
	for i := 0; i < 500; i++ {
		server := NewCallbackServer(0, "s")
		require.NoError(t, server.Start())
		require.NoError(t, server.Stop())
	}
}

func TestCallbackServer_Stop_NotStarted(t *testing.T) {
	assert.NoError(t, NewCallbackServer(0, "s").Stop())
}

func TestCallbackServer_Success(t *testing.T) {
	server := startServer(t, "state-abc")

	resp := callback(t, server, url.Values{"code": {"code-xyz"}, "state": {"state-abc"}})

	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "text/html; charset=utf-8", resp.Header.Get("Content-Type"))
	body, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	assert.Contains(t, string(body), "Calendar connected")

	code, err := server.WaitForCode(context.Background(), time.Second)
	require.NoError(t, err)
	assert.Equal(t, "code-xyz", code)
}

func TestCallbackServer_StateMismatch(t *testing.T) {
	server := startServer(t, "correct")

	resp := callback(t, server, url.Values{"code": {"c"}, "state": {"wrong"}})

	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	_, err := server.WaitForCode(context.Background(), time.Second)
	assert.ErrorIs(t, err, ErrStateMismatch)
}

func TestCallbackServer_StateIsCaseSensitive(t *testing.T) {
	server := startServer(t, "State")

	callback(t, server, url.Values{"code": {"c"}, "state": {"state"}})

	_, err := server.WaitForCode(context.Background(), time.Second)
	assert.ErrorIs(t, err, ErrStateMismatch)
}

func TestCallbackServer_MissingCode(t *testing.T) {
	server := startServer(t, "s")

	resp := callback(t, server, url.Values{"state": {"s"}})

	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	_, err := server.WaitForCode(context.Background(), time.Second)
	assert.ErrorIs(t, err, ErrNoCode)
}

func TestCallbackServer_ProviderError(t *testing.T) {
	server := startServer(t, "s")

	resp := callback(t, server, url.Values{
		"error":             {"access_denied"},
		"error_description": {"<b>denied</b>"},
	})

	body, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	assert.Contains(t, string(body), "&lt;b&gt;denied&lt;/b&gt;")

	_, err = server.WaitForCode(context.Background(), time.Second)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "access_denied")
}

func TestCallbackServer_OnlyFirstCodeKept(t *testing.T) {
	server := startServer(t, "s")

	callback(t, server, url.Values{"code": {"first"}, "state": {"s"}})
	callback(t, server, url.Values{"code": {"second"}, "state": {"s"}})

	code, err := server.WaitForCode(context.Background(), time.Second)
	require.NoError(t, err)
	assert.Equal(t, "first", code)
}

func TestCallbackServer_OtherPathsNotFound(t *testing.T) {
	server := startServer(t, "s")

	resp, err := http.Get(fmt.Sprintf("http://localhost:%d/", server.Port()))
	require.NoError(t, err)
	defer resp.Body.Close()

	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
}

func TestCallbackServer_WaitForCodeTimeout(t *testing.T) {
	server := startServer(t, "s")

	_, err := server.WaitForCode(context.Background(), 20*time.Millisecond)

	assert.ErrorIs(t, err, context.DeadlineExceeded)
}

func TestCallbackServer_WaitForCodeCancelled(t *testing.T) {
	server := startServer(t, "s")
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := server.WaitForCode(ctx, time.Minute)

	assert.ErrorIs(t, err, context.Canceled)
}

func TestResultPage_EscapesInput(t *testing.T) {
	page := resultPage("<script>", "a & b")

	assert.Contains(t, page, "&lt;script&gt;")
	assert.Contains(t, page, "a &amp; b")
	assert.NotContains(t, page, "<script>")
}

func TestFindAvailablePort(t *testing.T) {
	port, err := FindAvailablePort(18080, 18180)

	require.NoError(t, err)
	assert.GreaterOrEqual(t, port, 18080)
	assert.LessOrEqual(t, port, 18180)
}

func TestFindAvailablePort_NoneFree(t *testing.T) {
	l, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)
	defer l.Close()
	port := l.Addr().(*net.TCPAddr).Port

	_, err = FindAvailablePort(port, port)

	require.Error(t, err)
	assert.Contains(t, err.Error(), "no available port")
}

func TestFindAvailablePort_InvalidRange(t *testing.T) {
	_, err := FindAvailablePort(9000, 8000)

	assert.Error(t, err)
}
