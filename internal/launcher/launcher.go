// Package launcher opens download links in the user's browser or a
// configured command.
package launcher

import (
	"fmt"
	"log/slog"
	"os/exec"
	"runtime"
)

// Launcher opens URLs with an external program
type Launcher struct {
	command string   // configured opener command, empty for system default
	args    []string // additional arguments placed before the URL
	logger  *slog.Logger
}

// New creates a launcher. With an empty command the platform opener is used.
func New(command string, args []string, logger *slog.Logger) *Launcher {
	return &Launcher{command: command, args: args, logger: logger}
}

// Open hands the URL to the opener. It returns once the process started;
// the opener's own exit status is not tracked.
func (l *Launcher) Open(url string) error {
	command, args := l.command, l.args
	if command == "" {
		command, args = systemOpener()
	}

	cmd := exec.Command(command, append(append([]string(nil), args...), url)...)
	if err := cmd.Start(); err != nil {
		l.logger.Error("failed to open link", "command", command, "url", url, "error", err)
		return fmt.Errorf("opening %s with %s: %w", url, command, err)
	}

	l.logger.Info("opened link", "command", command, "url", url)

	// Reap the opener in the background so it does not linger as a zombie.
	go cmd.Wait()
	return nil
}

// systemOpener returns the platform's default URL opener.
func systemOpener() (string, []string) {
	switch runtime.GOOS {
	case "darwin":
		return "open", nil
	case "windows":
		return "cmd", []string{"/c", "start", ""}
	default:
		return "xdg-open", nil
	}
}
