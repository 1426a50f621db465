// Package browser hands web links (product cover images) to the desktop.
package browser

import (
	"errors"
	"fmt"
	"net/url"
	"os/exec"
	"runtime"
)

// ErrUnsupportedURL is returned for anything but an absolute http(s) URL.
var ErrUnsupportedURL = errors.New("browser: only http and https links can be opened")

// command returns the launcher for goos, or nil when there is none.
func command(goos, link string) *exec.Cmd {
	switch goos {
	case "darwin":
		return exec.Command("open", link)
	case "linux", "freebsd", "openbsd":
		return exec.Command("xdg-open", link)
	case "windows":
		return exec.Command("rundll32", "url.dll,FileProtocolHandler", link)
	default:
		return nil
	}
}

// check accepts absolute http(s) URLs only. Image links come from the
// backend and must not reach the launcher as file paths or flags.
func check(rawURL string) (string, error) {
	u, err := url.Parse(rawURL)
	if err != nil || (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
		return "", fmt.Errorf("%w: %q", ErrUnsupportedURL, rawURL)
	}
	return u.String(), nil
}

// Open opens rawURL in the user's default browser without waiting for it.
func Open(rawURL string) error {
	link, err := check(rawURL)
	if err != nil {
		return err
	}
	cmd := command(runtime.GOOS, link)
	if cmd == nil {
		return fmt.Errorf("unsupported OS: %s", runtime.GOOS)
	}
	_, err = launch(cmd)
	return err
}

// launch starts cmd and reaps it in the background. The returned channel
// receives the exit result once the process is gone.
func launch(cmd *exec.Cmd) (<-chan error, error) {
	if err := cmd.Start(); err != nil {
		return nil, err
	}
	done := make(chan error, 1)
	go func() {
		done <- cmd.Wait()
	}()
	return done, nil
}
