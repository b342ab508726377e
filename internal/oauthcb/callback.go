// Package oauthcb runs the localhost callback server used by the OAuth2
// authorization-code flows.
package oauthcb

import (
	"context"
	"fmt"
	"net"
	"net/http"
	"os/exec"
	"runtime"
)

// WaitForCode starts a one-shot callback server on addr, points the user's
// browser at authURL and blocks until the provider redirects back with an
// authorization code. A non-empty state must match the state query parameter
// of the redirect.
func WaitForCode(ctx context.Context, addr, path, state, authURL string) (string, error) {
	type result struct {
		code string
		err  error
	}
	resCh := make(chan result, 1)

	mux := http.NewServeMux()
	srv := &http.Server{Addr: addr, Handler: mux}

	mux.HandleFunc(path, func(w http.ResponseWriter, r *http.Request) {
		q := r.URL.Query()
		if state != "" && q.Get("state") != state {
			http.Error(w, "state mismatch", http.StatusBadRequest)
			resCh <- result{err: fmt.Errorf("state mismatch")}
			return
		}
		code := q.Get("code")
		if code == "" {
			http.Error(w, "no code in query", http.StatusBadRequest)
			resCh <- result{err: fmt.Errorf("no code in callback")}
			return
		}
		fmt.Fprintln(w, "Authorized. You can close this window.")
		resCh <- result{code: code}
		go func() { _ = srv.Shutdown(context.Background()) }()
	})

	ln, err := net.Listen("tcp", addr)
	if err != nil {
		return "", fmt.Errorf("listen %s: %w", addr, err)
	}
	go func() {
		// Serve returns http.ErrServerClosed on Shutdown, which is fine.
		_ = srv.Serve(ln)
	}()
	defer func() { _ = srv.Shutdown(context.Background()) }()

	fmt.Println("Open in browser:", authURL)
	if err := OpenBrowser(authURL); err != nil {
		fmt.Println("If the browser didn't open automatically, copy/paste the URL above.")
	}

	select {
	case res := <-resCh:
		if res.err != nil {
			return "", res.err
		}
		return res.code, nil
	case <-ctx.Done():
		return "", ctx.Err()
	}
}

// OpenBrowser opens a URL in the default browser.
func OpenBrowser(u string) error {
	switch runtime.GOOS {
	case "linux":
		return exec.Command("xdg-open", u).Start()
	case "windows":
		return exec.Command("rundll32", "url.dll,FileProtocolHandler", u).Start()
	case "darwin":
		return exec.Command("open", u).Start()
	default:
		return fmt.Errorf("unsupported platform: %s", runtime.GOOS)
	}
}
