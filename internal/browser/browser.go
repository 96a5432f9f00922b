// Package browser opens article links in the user's default browser.
package browser

import (
	"fmt"
	"net/url"
	"os/exec"
	"runtime"
)

// start launches the command without waiting for it. Tests replace it.
var start = func(cmd *exec.Cmd) error { return cmd.Start() }

// Open launches the system browser on rawURL. Only http and https links are
// accepted.
func Open(rawURL string) error {
	u, err := url.Parse(rawURL)
	if err != nil {
		return fmt.Errorf("invalid URL: %w", err)
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return fmt.Errorf("refusing to open URL with scheme %q (only http/https allowed)", u.Scheme)
	}
	if err := start(Command(runtime.GOOS, rawURL)); err != nil {
		return fmt.Errorf("opening %s: %w", rawURL, err)
	}
	return nil
}

// Command returns the launcher for rawURL on the given OS.
func Command(goos, rawURL string) *exec.Cmd {
	switch goos {
	case "darwin":
		return exec.Command("open", rawURL)
	case "windows":
		// Use rundll32 instead of cmd /c start to avoid shell interpretation
		return exec.Command("rundll32", "url.dll,FileProtocolHandler", rawURL)
	default:
		return exec.Command("xdg-open", rawURL)
	}
}
