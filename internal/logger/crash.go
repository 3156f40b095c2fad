// Package logger provides crash logging and slog setup for replan.
package logger

import (
	"fmt"
	"os"
	"path/filepath"
	"runtime"
	"runtime/debug"
	"strings"
	"sync"
	"time"
)

const (
	// crashLogDir is the directory for crash logs relative to the base path.
	crashLogDir = "crash_logs"

	// maxCrashLogs is the maximum number of crash logs to keep.
	maxCrashLogs = 10
)

// crashContext stores context for crash logging.
type crashContext struct {
	mu       sync.RWMutex
	command  string
	version  string
	basePath string
}

var globalContext = &crashContext{}

// SetBasePath sets the base path for crash logs.
func SetBasePath(path string) {
	globalContext.mu.Lock()
	defer globalContext.mu.Unlock()
	globalContext.basePath = path
}

// SetVersion sets the application version for crash logs.
func SetVersion(version string) {
	globalContext.mu.Lock()
	defer globalContext.mu.Unlock()
	globalContext.version = version
}

// SetCommand sets the current command being executed.
func SetCommand(cmd string) {
	globalContext.mu.Lock()
	defer globalContext.mu.Unlock()
	globalContext.command = cmd
}

// CrashLog represents a crash log entry.
type CrashLog struct {
	Timestamp  time.Time
	Version    string
	Command    string
	PanicValue string
	StackTrace string
	GoVersion  string
	OS         string
	Arch       string
}

// HandlePanic is a deferred function that recovers from panics and logs them.
// Usage: defer logger.HandlePanic()
func HandlePanic() {
	if r := recover(); r != nil {
		log := createCrashLog(r)
		if err := writeCrashLog(log); err != nil {
			fmt.Fprintf(os.Stderr, "\n[CRASH] Failed to write crash log: %v\n", err)
			fmt.Fprintf(os.Stderr, "[CRASH] Panic: %v\n%s\n", r, debug.Stack())
		} else {
			fmt.Fprintf(os.Stderr, "\nreplan encountered an unexpected error.\n")
			fmt.Fprintf(os.Stderr, "A crash log has been saved to:\n  %s\n", crashLogPath(log.Timestamp))
		}
		os.Exit(1)
	}
}

func createCrashLog(panicValue any) CrashLog {
	globalContext.mu.RLock()
	defer globalContext.mu.RUnlock()

	return CrashLog{
		Timestamp:  time.Now(),
		Version:    globalContext.version,
		Command:    globalContext.command,
		PanicValue: fmt.Sprintf("%v", panicValue),
		StackTrace: string(debug.Stack()),
		GoVersion:  runtime.Version(),
		OS:         runtime.GOOS,
		Arch:       runtime.GOARCH,
	}
}

func writeCrashLog(log CrashLog) error {
	dir := crashLogDirPath()
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("create crash log dir: %w", err)
	}
	if err := cleanOldCrashLogs(dir); err != nil {
		// Non-fatal, continue with writing
		fmt.Fprintf(os.Stderr, "[WARN] Failed to clean old crash logs: %v\n", err)
	}
	path := crashLogPath(log.Timestamp)
	if err := os.WriteFile(path, []byte(formatCrashLog(log)), 0o644); err != nil {
		return fmt.Errorf("write crash log: %w", err)
	}
	return nil
}

func crashLogDirPath() string {
	globalContext.mu.RLock()
	basePath := globalContext.basePath
	globalContext.mu.RUnlock()
	if basePath == "" {
		basePath = ".replan"
	}
	return filepath.Join(basePath, crashLogDir)
}

func crashLogPath(t time.Time) string {
	filename := fmt.Sprintf("crash_%s.log", t.Format("20060102_150405"))
	return filepath.Join(crashLogDirPath(), filename)
}

func formatCrashLog(log CrashLog) string {
	var sb strings.Builder
	rule := strings.Repeat("-", 80)

	sb.WriteString("REPLAN CRASH LOG\n\n")
	sb.WriteString(fmt.Sprintf("Timestamp: %s\n", log.Timestamp.Format(time.RFC3339)))
	sb.WriteString(fmt.Sprintf("Version:   %s\n", log.Version))
	sb.WriteString(fmt.Sprintf("Command:   %s\n", log.Command))
	sb.WriteString(fmt.Sprintf("Go:        %s\n", log.GoVersion))
	sb.WriteString(fmt.Sprintf("OS/Arch:   %s/%s\n", log.OS, log.Arch))

	sb.WriteString("\n" + rule + "\nPANIC VALUE\n" + rule + "\n")
	sb.WriteString(log.PanicValue + "\n")

	sb.WriteString("\n" + rule + "\nSTACK TRACE\n" + rule + "\n")
	sb.WriteString(log.StackTrace)

	return sb.String()
}

// cleanOldCrashLogs removes old crash logs, keeping the most recent
// maxCrashLogs. os.ReadDir returns entries sorted by name, and names embed
// the timestamp, so the oldest come first.
func cleanOldCrashLogs(dir string) error {
	entries, err := os.ReadDir(dir)
	if err != nil {
		if os.IsNotExist(err) {
			return nil
		}
		return err
	}

	var crashLogs []os.DirEntry
	for _, e := range entries {
		if !e.IsDir() && strings.HasPrefix(e.Name(), "crash_") && strings.HasSuffix(e.Name(), ".log") {
			crashLogs = append(crashLogs, e)
		}
	}
	if len(crashLogs) <= maxCrashLogs {
		return nil
	}
	toRemove := len(crashLogs) - maxCrashLogs
	for i := 0; i < toRemove; i++ {
		path := filepath.Join(dir, crashLogs[i].Name())
		if err := os.Remove(path); err != nil {
			return fmt.Errorf("remove old crash log %s: %w", crashLogs[i].Name(), err)
		}
	}
	return nil
}
