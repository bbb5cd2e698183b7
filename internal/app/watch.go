package app

import (
	"context"
	"errors"
	"fmt"
	"log"
	"os"
	"os/signal"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/blackwell-systems/closetwatch/internal/config"
	"github.com/blackwell-systems/closetwatch/internal/output"
	"github.com/blackwell-systems/closetwatch/internal/watcher"
)

// minWatchInterval is the shortest accepted polling interval.
const minWatchInterval = 30 * time.Second

var (
	watchDaemon   bool
	watchInterval string
	watchStop     bool
	watchQuiet    bool
	watchNotify   bool
)

var watchCmd = &cobra.Command{
	Use:   "watch",
	Short: "Monitor the wardrobe and alert on notable changes",
	Long: `Run a monitor that re-reads the wardrobe on an interval, and right away
when the SQLite database changes. New items, wears, removed items, plan
changes, shifts in the sustainability score and growth in never-worn items
are reported as alerts. Identical alerts are not repeated.

Examples:
  closetwatch watch                    # run in foreground (ctrl-c to stop)
  closetwatch watch --notify           # also send desktop notifications
  closetwatch watch --daemon           # write PID file, log alerts to file
  closetwatch watch --interval 5m      # check every 5 minutes
  closetwatch watch --stop             # stop the background daemon`,
	RunE: runWatch,
}

func init() {
	watchCmd.Flags().BoolVar(&watchDaemon, "daemon", false, "Run without terminal output, logging alerts to watch.log")
	watchCmd.Flags().StringVar(&watchInterval, "interval", "", "Check interval as duration string (default: watch.interval from config)")
	watchCmd.Flags().BoolVar(&watchStop, "stop", false, "Stop the running watch daemon")
	watchCmd.Flags().BoolVar(&watchQuiet, "quiet", false, "Suppress terminal output")
	watchCmd.Flags().BoolVar(&watchNotify, "notify", false, "Send desktop notifications for alerts")
	rootCmd.AddCommand(watchCmd)
}

func runWatch(cmd *cobra.Command, args []string) error {
	if watchStop {
		return stopDaemon()
	}

	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	interval, err := resolveInterval(watchInterval, cfg.Watch.Interval)
	if err != nil {
		return err
	}

	ctx, cancel := signal.NotifyContext(cmd.Context(), shutdownSignals...)
	defer cancel()

	source, release, err := openSource(ctx, cfg)
	if err != nil {
		return err
	}
	defer release()

	newWatcher := func(alertFn func(watcher.Alert)) *watcher.Watcher {
		w := watcher.New(source, cfg.User, interval, alertFn)
		if cfg.Source == config.SourceSQLite {
			w.WatchPath = cfg.DBPath
		}
		return w
	}

	if watchDaemon {
		return runDaemon(ctx, newWatcher, interval)
	}
	return runForeground(ctx, newWatcher, cfg.User, interval)
}

// resolveInterval parses the --interval flag, falling back to the configured
// interval, and enforces the minimum.
func resolveInterval(flag string, configured time.Duration) (time.Duration, error) {
	interval := configured
	if flag != "" {
		d, err := time.ParseDuration(flag)
		if err != nil {
			return 0, fmt.Errorf("invalid interval %q: %w", flag, err)
		}
		interval = d
	}
	if interval < minWatchInterval {
		return 0, fmt.Errorf("interval must be at least %s, got %s", minWatchInterval, interval)
	}
	return interval, nil
}

// runForeground runs the watcher in the foreground with live terminal output.
func runForeground(ctx context.Context, newWatcher func(func(watcher.Alert)) *watcher.Watcher, user string, interval time.Duration) error {
	if !watchQuiet {
		fmt.Printf("closetwatch watching %s's wardrobe... (checking every %s)\n", user, interval)
	}

	w := newWatcher(func(a watcher.Alert) {
		if watchNotify {
			_ = watcher.Notify(a)
		}
		if !watchQuiet {
			printAlert(a)
		}
	})

	initial, err := w.Snapshot(ctx)
	if err != nil {
		return fmt.Errorf("reading baseline: %w", err)
	}
	if !watchQuiet {
		fmt.Printf("%s baseline: %d items, %d wears, %d never worn\n",
			output.StyleMuted.Render(time.Now().Format("15:04:05")),
			initial.TotalItems, initial.TotalWorn, initial.NeverWorn)
	}

	err = w.Run(ctx)
	if errors.Is(err, context.Canceled) {
		if !watchQuiet {
			fmt.Println("\nStopped.")
		}
		return nil
	}
	return err
}

// runDaemon runs the watcher without terminal output, recording its PID and
// appending alerts to a log file. Detaching from the terminal is left to the
// caller (nohup, a service manager).
func runDaemon(ctx context.Context, newWatcher func(func(watcher.Alert)) *watcher.Watcher, interval time.Duration) error {
	files := defaultDaemonFiles()
	release, err := files.claim(os.Getpid())
	if err != nil {
		return err
	}
	defer release()

	logFile, err := os.OpenFile(files.logPath(), os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
	if err != nil {
		return fmt.Errorf("opening watch log: %w", err)
	}
	defer func() { _ = logFile.Close() }()
	logger := log.New(logFile, "", log.LstdFlags)

	logger.Printf("watch daemon started: pid=%d interval=%s", os.Getpid(), interval)
	w := newWatcher(func(a watcher.Alert) {
		if watchNotify {
			_ = watcher.Notify(a)
		}
		logger.Printf("%s: %s: %s", a.Level, a.Title, a.Message)
	})

	if err := w.Run(ctx); err != nil && !errors.Is(err, context.Canceled) {
		logger.Printf("watch daemon failed: %v", err)
		return err
	}
	logger.Print("watch daemon stopped")
	return nil
}

// daemonFiles locates the PID and log files of the watch daemon.
type daemonFiles struct {
	dir string
}

func defaultDaemonFiles() daemonFiles {
	return daemonFiles{dir: config.ConfigDir()}
}

func (d daemonFiles) pidPath() string { return filepath.Join(d.dir, "watch.pid") }
func (d daemonFiles) logPath() string { return filepath.Join(d.dir, "watch.log") }

func (d daemonFiles) readPID() (int, error) {
	data, err := os.ReadFile(d.pidPath())
	if err != nil {
		return 0, err
	}
	pid, err := strconv.Atoi(strings.TrimSpace(string(data)))
	if err != nil {
		return 0, fmt.Errorf("malformed PID file %s: %w", d.pidPath(), err)
	}
	return pid, nil
}

// claim records pid as the running daemon. It fails while another live
// process holds the PID file and silently replaces a stale one. The returned
// func removes the file.
func (d daemonFiles) claim(pid int) (func(), error) {
	if err := os.MkdirAll(d.dir, 0o755); err != nil {
		return nil, fmt.Errorf("creating %s: %w", d.dir, err)
	}
	if holder, err := d.readPID(); err == nil && processExists(holder) {
		return nil, fmt.Errorf("watch daemon already running (PID %d); stop it with --stop", holder)
	}
	if err := os.WriteFile(d.pidPath(), []byte(strconv.Itoa(pid)+"\n"), 0o644); err != nil {
		return nil, fmt.Errorf("writing PID file: %w", err)
	}
	return func() { _ = os.Remove(d.pidPath()) }, nil
}

// stopDaemon stops the daemon named in the PID file and removes the file.
func stopDaemon() error {
	files := defaultDaemonFiles()
	pid, err := files.readPID()
	if err != nil {
		return fmt.Errorf("no watch daemon found: %w", err)
	}
	defer func() { _ = os.Remove(files.pidPath()) }()

	if !processExists(pid) {
		return fmt.Errorf("watch daemon PID %d is not running; removed stale PID file", pid)
	}
	if err := terminate(pid); err != nil {
		return fmt.Errorf("stopping watch daemon (PID %d): %w", pid, err)
	}
	fmt.Printf("Stopped watch daemon (PID %d)\n", pid)
	return nil
}

func printAlert(a watcher.Alert) {
	marker := output.StyleSuccess.Render("•")
	if a.Level == watcher.LevelWarning {
		marker = output.StyleWarning.Render("!")
	}
	fmt.Printf("%s %s %s\n", output.StyleMuted.Render(a.Time.Format("15:04:05")), marker, a.Title)
	if a.Message != "" {
		fmt.Printf("           %s\n", a.Message)
	}
}
