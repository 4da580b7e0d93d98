// Package logger configures structured logging and records crash reports.
package logger

import (
	"fmt"
	"os"
	"path/filepath"
	"runtime"
	"runtime/debug"
	"slices"
	"strings"
	"sync"
	"time"
)

const (
	// CrashLogDir is the directory for crash logs relative to the data directory
	CrashLogDir = "crash_logs"

	// MaxCrashLogs is the maximum number of crash logs to keep
	MaxCrashLogs = 10

	defaultBaseDir = ".taskpilot"
)

// CrashContext stores context for crash logging.
type CrashContext struct {
	mu       sync.RWMutex
	command  string
	version  string
	basePath string
	lastTool string
	lastArgs string
}

var globalContext = &CrashContext{}

// SetBasePath sets the directory crash logs are written under.
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

// SetLastToolCall records the tool invocation in flight.
func SetLastToolCall(tool, args string) {
	globalContext.mu.Lock()
	defer globalContext.mu.Unlock()
	globalContext.lastTool = tool
	globalContext.lastArgs = truncateForLog(strings.TrimSpace(args), 2000)
}

func truncateForLog(value string, maxLen int) string {
	if len(value) <= maxLen {
		return value
	}
	return value[:maxLen] + "... [truncated]"
}

// CrashLog represents a crash log entry.
type CrashLog struct {
	Timestamp  time.Time
	Version    string
	Command    string
	PanicValue string
	StackTrace string
	LastTool   string
	LastArgs   string
	GoVersion  string
	OS         string
	Arch       string
}

// HandlePanic recovers a panic, writes a crash log and exits with status 1.
// Usage: defer logger.HandlePanic()
func HandlePanic() {
	r := recover()
	if r == nil {
		return
	}
	log := createCrashLog(r)
	if err := writeCrashLog(log); err != nil {
		fmt.Fprintf(os.Stderr, "\n[CRASH] Failed to write crash log: %v\n", err)
		fmt.Fprintf(os.Stderr, "[CRASH] Panic: %v\n%s\n", r, log.StackTrace)
	} else {
		fmt.Fprintf(os.Stderr, "\ntaskpilot encountered an unexpected error.\n")
		fmt.Fprintf(os.Stderr, "A crash log has been saved to:\n  %s\n\n", getCrashLogPath(log.Timestamp))
	}
	os.Exit(1)
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
		LastTool:   globalContext.lastTool,
		LastArgs:   globalContext.lastArgs,
		GoVersion:  runtime.Version(),
		OS:         runtime.GOOS,
		Arch:       runtime.GOARCH,
	}
}

func writeCrashLog(log CrashLog) error {
	dir := getCrashLogDir()
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("create crash log dir: %w", err)
	}
	// Keep room for the new file.
	if err := cleanOldCrashLogs(dir, MaxCrashLogs-1); err != nil {
		fmt.Fprintf(os.Stderr, "[WARN] Failed to clean old crash logs: %v\n", err)
	}
	if err := os.WriteFile(getCrashLogPath(log.Timestamp), []byte(formatCrashLog(log)), 0o644); err != nil {
		return fmt.Errorf("write crash log: %w", err)
	}
	return nil
}

func getCrashLogDir() string {
	globalContext.mu.RLock()
	basePath := globalContext.basePath
	globalContext.mu.RUnlock()

	if basePath == "" {
		if home, err := os.UserHomeDir(); err == nil {
			basePath = filepath.Join(home, defaultBaseDir)
		} else {
			basePath = defaultBaseDir
		}
	}
	return filepath.Join(basePath, CrashLogDir)
}

func getCrashLogPath(t time.Time) string {
	filename := fmt.Sprintf("crash_%s.log", t.Format("20060102_150405"))
	return filepath.Join(getCrashLogDir(), filename)
}

func formatCrashLog(log CrashLog) string {
	var sb strings.Builder
	rule := strings.Repeat("=", 80)
	thin := strings.Repeat("-", 80)
	section := func(title, body string) {
		sb.WriteString("\n" + thin + "\n" + title + "\n" + thin + "\n")
		sb.WriteString(strings.TrimRight(body, "\n") + "\n")
	}

	sb.WriteString(rule + "\nTASKPILOT CRASH LOG\n" + rule + "\n\n")
	sb.WriteString(fmt.Sprintf("Timestamp: %s\n", log.Timestamp.Format(time.RFC3339)))
	sb.WriteString(fmt.Sprintf("Version:   %s\n", log.Version))
	sb.WriteString(fmt.Sprintf("Command:   %s\n", log.Command))
	sb.WriteString(fmt.Sprintf("Go:        %s\n", log.GoVersion))
	sb.WriteString(fmt.Sprintf("OS/Arch:   %s/%s\n", log.OS, log.Arch))

	section("PANIC VALUE", log.PanicValue)
	section("STACK TRACE", log.StackTrace)
	if log.LastTool != "" {
		section("LAST TOOL CALL", log.LastTool+" "+log.LastArgs)
	}

	sb.WriteString("\n" + rule + "\nEND OF CRASH LOG\n" + rule + "\n")
	return sb.String()
}

func crashLogNames(dir string) ([]string, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, err
	}
	var names []string
	for _, e := range entries {
		if !e.IsDir() && strings.HasPrefix(e.Name(), "crash_") && strings.HasSuffix(e.Name(), ".log") {
			names = append(names, e.Name())
		}
	}
	// Names embed the timestamp, so lexical order is oldest first.
	slices.Sort(names)
	return names, nil
}

// cleanOldCrashLogs removes the oldest crash logs until at most keep remain.
func cleanOldCrashLogs(dir string, keep int) error {
	names, err := crashLogNames(dir)
	if err != nil {
		return err
	}
	for i := 0; i < len(names)-keep; i++ {
		if err := os.Remove(filepath.Join(dir, names[i])); err != nil {
			return fmt.Errorf("remove old crash log %s: %w", names[i], err)
		}
	}
	return nil
}

// ListCrashLogs returns the paths of all crash logs, oldest first.
func ListCrashLogs() ([]string, error) {
	dir := getCrashLogDir()
	names, err := crashLogNames(dir)
	if err != nil {
		return nil, err
	}
	paths := make([]string, 0, len(names))
	for _, n := range names {
		paths = append(paths, filepath.Join(dir, n))
	}
	return paths, nil
}
