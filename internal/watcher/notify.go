package watcher

import (
	"fmt"
	"io"
	"os"
	"os/exec"
	"runtime"
)

const appName = "closetwatch"

// fallbackOut receives alerts that could not be shown on the desktop.
var fallbackOut io.Writer = os.Stderr

// Notify shows alert as a desktop notification, using osascript on macOS and
// notify-send on Linux. When neither works the alert is written to stderr.
func Notify(alert Alert) error {
	argv := notifyCommand(runtime.GOOS, alert)
	if argv != nil {
		if _, err := exec.LookPath(argv[0]); err == nil {
			if exec.Command(argv[0], argv[1:]...).Run() == nil {
				return nil
			}
		}
	}
	return writeFallback(fallbackOut, alert)
}

// notifyCommand builds the notifier invocation for goos, or nil when the
// platform has no supported notifier. Warnings are sent as critical on Linux
// so they stay on screen.
func notifyCommand(goos string, alert Alert) []string {
	switch goos {
	case "darwin":
		script := fmt.Sprintf(`display notification %q with title %q subtitle %q`,
			alert.Message, appName, alert.Title)
		return []string{"osascript", "-e", script}
	case "linux":
		urgency := "normal"
		if alert.Level == LevelWarning {
			urgency = "critical"
		}
		return []string{"notify-send", "--app-name=" + appName, "--urgency=" + urgency,
			appName + ": " + alert.Title, alert.Message}
	}
	return nil
}

func writeFallback(w io.Writer, alert Alert) error {
	_, err := fmt.Fprintf(w, "[%s] %s: %s\n", alert.Level, alert.Title, alert.Message)
	return err
}
