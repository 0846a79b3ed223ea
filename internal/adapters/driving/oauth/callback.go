// Package oauth receives OAuth redirects on a loopback listener and opens
// the user's browser, for desktop sign-in flows such as "agenda auth google".
package oauth

import (
	"context"
	"errors"
	"fmt"
	"html"
	"net"
	"net/http"
	"os/exec"
	"runtime"
	"sync"
	"time"
)

// CallbackPath is the path the authorization server redirects to.
const CallbackPath = "/callback"

// Errors reported through WaitForCode.
var (
	ErrStateMismatch = errors.New("oauth callback state mismatch")
	ErrNoCode        = errors.New("oauth callback carried no authorization code")
)

// CallbackServer handles OAuth redirect callbacks on 127.0.0.1.
type CallbackServer struct {
	mu            sync.Mutex
	port          int
	expectedState string
	codeChan      chan string
	errChan       chan error
	server        *http.Server
}

// NewCallbackServer creates a callback server that accepts only
// redirects echoing expectedState. Port 0 picks a free port on Start.
func NewCallbackServer(port int, expectedState string) *CallbackServer {
	return &CallbackServer{
		port:          port,
		expectedState: expectedState,
		codeChan:      make(chan string, 1),
		errChan:       make(chan error, 1),
	}
}

// Start listens and serves in the background.
func (s *CallbackServer) Start() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	mux := http.NewServeMux()
	mux.HandleFunc(CallbackPath, s.handleCallback)

	addr := fmt.Sprintf("127.0.0.1:%d", s.port)
	listener, err := net.Listen("tcp", addr)
	if err != nil {
		return fmt.Errorf("failed to listen on %s: %w", addr, err)
	}

	// Record the real port when 0 was requested
	if tcpAddr, ok := listener.Addr().(*net.TCPAddr); ok {
		s.port = tcpAddr.Port
	}

	srv := &http.Server{
		Handler:           mux,
		ReadHeaderTimeout: 10 * time.Second,
		WriteTimeout:      10 * time.Second,
	}
	s.server = srv

	// Stop may clear s.server before this goroutine runs
	go func() {
		if err := srv.Serve(listener); err != nil && !errors.Is(err, http.ErrServerClosed) {
			s.report(err)
		}
	}()

	return nil
}

// report delivers the first error; later ones are dropped.
func (s *CallbackServer) report(err error) {
	select {
	case s.errChan <- err:
	default:
	}
}

func (s *CallbackServer) handleCallback(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	w.Header().Set("Content-Type", "text/html; charset=utf-8")

	if errParam := q.Get("error"); errParam != "" {
		s.report(fmt.Errorf("oauth error: %s - %s", errParam, q.Get("error_description")))
		fmt.Fprint(w, resultPage("Sign-in failed", q.Get("error_description")))
		return
	}

	if q.Get("state") != s.expectedState {
		s.report(ErrStateMismatch)
		w.WriteHeader(http.StatusBadRequest)
		fmt.Fprint(w, resultPage("Sign-in failed", "The response did not match this sign-in attempt."))
		return
	}

	code := q.Get("code")
	if code == "" {
		s.report(ErrNoCode)
		w.WriteHeader(http.StatusBadRequest)
		fmt.Fprint(w, resultPage("Sign-in failed", "No authorization code was received."))
		return
	}

	select {
	case s.codeChan <- code:
	default:
	}
	fmt.Fprint(w, resultPage("Calendar connected", "You can close this window and return to the terminal."))
}

// WaitForCode blocks until a code arrives, the callback fails,
// timeout passes or ctx is done.
func (s *CallbackServer) WaitForCode(ctx context.Context, timeout time.Duration) (string, error) {
	ctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	select {
	case code := <-s.codeChan:
		return code, nil
	case err := <-s.errChan:
		return "", err
	case <-ctx.Done():
		return "", fmt.Errorf("waiting for authorization callback: %w", ctx.Err())
	}
}

// Stop shuts down the callback server. Stopping twice is harmless.
func (s *CallbackServer) Stop() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.server == nil {
		return nil
	}
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	err := s.server.Shutdown(ctx)
	s.server = nil
	return err
}

// Port returns the port the server is listening on.
func (s *CallbackServer) Port() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.port
}

// RedirectURI returns the redirect URI to register with the provider.
func (s *CallbackServer) RedirectURI() string {
	return fmt.Sprintf("http://localhost:%d%s", s.Port(), CallbackPath)
}

func resultPage(title, message string) string {
	return fmt.Sprintf(`<!DOCTYPE html>
<html>
<head>
    <meta charset="utf-8">
    <title>Agenda</title>
    <style>
        body { font-family: -apple-system, 'Segoe UI', Roboto, sans-serif; display: flex;
               justify-content: center; align-items: center; height: 100vh; margin: 0; background: #FAFAFA; }
        .card { text-align: center; background: #FFFFFF; padding: 48px 64px; border-radius: 12px;
                border: 1px solid #C7C8CC; }
        h1 { color: #0F6CBD; margin: 0 0 8px 0; font-size: 24px; }
        p { color: #616161; margin: 0; font-size: 16px; }
    </style>
</head>
<body>
    <div class="card">
        <h1>%s</h1>
        <p>%s</p>
    </div>
</body>
</html>`, html.EscapeString(title), html.EscapeString(message))
}

// OpenBrowser opens the default browser at url.
func OpenBrowser(url string) error {
	var cmd *exec.Cmd

	switch runtime.GOOS {
	case "darwin":
		cmd = exec.Command("open", url)
	case "linux":
		cmd = exec.Command("xdg-open", url)
	case "windows":
		cmd = exec.Command("rundll32", "url.dll,FileProtocolHandler", url)
	default:
		return fmt.Errorf("unsupported platform: %s", runtime.GOOS)
	}

	return cmd.Start()
}

// FindAvailablePort returns the first free loopback port in [startPort, endPort].
func FindAvailablePort(startPort, endPort int) (int, error) {
	for port := startPort; port <= endPort; port++ {
		listener, err := net.Listen("tcp", fmt.Sprintf("127.0.0.1:%d", port))
		if err == nil {
			listener.Close()
			return port, nil
		}
	}
	return 0, fmt.Errorf("no available port in range %d-%d", startPort, endPort)
}
