package log

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"
)

// Compile-time interface checks
var _ LibraryLogger = (*Logger)(nil)

// Logger manages the operation log files written under the logs directory.
// NewLogger recreates the files, so they hold only the latest run.
type Logger struct {
	resultsFile  *os.File
	installFile  *os.File
	removeFile   *os.File
	warningsFile *os.File
	debugFile    *os.File
	mu           sync.Mutex
}

// RunContext provides metadata for contextual logging
type RunContext struct {
	RunID string // Planning run UUID (full or short)
	Spec  string // Package spec (e.g., "curl:x64-linux")
}

// ContextLogger wraps Logger with context metadata for enriched log entries
type ContextLogger struct {
	logger *Logger
	ctx    RunContext
}

// NewLogger creates a new logger writing under logsPath
func NewLogger(logsPath string) (*Logger, error) {
	// Ensure logs directory exists
	if err := os.MkdirAll(logsPath, 0755); err != nil {
		return nil, fmt.Errorf("failed to create logs directory: %w", err)
	}

	l := &Logger{}

	// Open all log files
	var err error

	l.resultsFile, err = os.Create(filepath.Join(logsPath, "00_last_operations.log"))
	if err != nil {
		return nil, err
	}

	l.installFile, err = os.Create(filepath.Join(logsPath, "01_install_list.log"))
	if err != nil {
		return nil, err
	}

	l.removeFile, err = os.Create(filepath.Join(logsPath, "02_remove_list.log"))
	if err != nil {
		return nil, err
	}

	l.warningsFile, err = os.Create(filepath.Join(logsPath, "03_warnings.log"))
	if err != nil {
		return nil, err
	}

	l.debugFile, err = os.Create(filepath.Join(logsPath, "04_debug.log"))
	if err != nil {
		return nil, err
	}

	// Write headers
	l.writeHeaders()

	return l, nil
}

// Close closes all log files
func (l *Logger) Close() {
	l.mu.Lock()
	defer l.mu.Unlock()

	if l.resultsFile != nil {
		l.resultsFile.Close()
	}
	if l.installFile != nil {
		l.installFile.Close()
	}
	if l.removeFile != nil {
		l.removeFile.Close()
	}
	if l.warningsFile != nil {
		l.warningsFile.Close()
	}
	if l.debugFile != nil {
		l.debugFile.Close()
	}
}

// writeHeaders writes initial headers to log files
func (l *Logger) writeHeaders() {
	timestamp := time.Now().Format(time.RFC3339)

	fmt.Fprintf(l.resultsFile, "vcpkg operations log - %s\n", timestamp)
	fmt.Fprintf(l.resultsFile, "%s\n\n", strings.Repeat("=", 70))

	fmt.Fprintf(l.installFile, "Installed packages - %s\n\n", timestamp)
	fmt.Fprintf(l.removeFile, "Removed packages - %s\n\n", timestamp)
	fmt.Fprintf(l.warningsFile, "Warnings - %s\n\n", timestamp)
	fmt.Fprintf(l.debugFile, "Debug log - %s\n\n", timestamp)
}

// Installed logs a package scheduled for installation
func (l *Logger) Installed(spec string) {
	l.mu.Lock()
	defer l.mu.Unlock()

	timestamp := time.Now().Format("15:04:05")
	msg := fmt.Sprintf("[%s] INSTALL: %s\n", timestamp, spec)

	l.resultsFile.WriteString(msg)
	l.installFile.WriteString(spec + "\n")

	l.resultsFile.Sync()
	l.installFile.Sync()
}

// Removed logs a package scheduled for removal
func (l *Logger) Removed(spec string) {
	l.mu.Lock()
	defer l.mu.Unlock()

	timestamp := time.Now().Format("15:04:05")
	msg := fmt.Sprintf("[%s] REMOVE: %s\n", timestamp, spec)

	l.resultsFile.WriteString(msg)
	l.removeFile.WriteString(spec + "\n")

	l.resultsFile.Sync()
	l.removeFile.Sync()
}

// Debug logs debug information
func (l *Logger) Debug(format string, args ...any) {
	l.mu.Lock()
	defer l.mu.Unlock()

	timestamp := time.Now().Format("15:04:05")
	msg := fmt.Sprintf(format, args...)
	l.debugFile.WriteString(fmt.Sprintf("[%s] %s\n", timestamp, msg))
	l.debugFile.Sync()
}

// Error logs an error message
func (l *Logger) Error(format string, args ...any) {
	l.mu.Lock()
	defer l.mu.Unlock()

	timestamp := time.Now().Format("15:04:05")
	msg := fmt.Sprintf(format, args...)
	errMsg := fmt.Sprintf("[%s] ERROR: %s\n", timestamp, msg)

	l.resultsFile.WriteString(errMsg)
	l.debugFile.WriteString(errMsg)

	l.resultsFile.Sync()
	l.debugFile.Sync()
}

// Warn logs a warning message (non-fatal issues)
func (l *Logger) Warn(format string, args ...any) {
	l.mu.Lock()
	defer l.mu.Unlock()

	timestamp := time.Now().Format("15:04:05")
	msg := fmt.Sprintf(format, args...)
	warnMsg := fmt.Sprintf("[%s] WARN: %s\n", timestamp, msg)

	l.resultsFile.WriteString(warnMsg)
	l.warningsFile.WriteString(msg + "\n")

	l.resultsFile.Sync()
	l.warningsFile.Sync()
}

// Info logs an informational message
func (l *Logger) Info(format string, args ...any) {
	l.mu.Lock()
	defer l.mu.Unlock()

	timestamp := time.Now().Format("15:04:05")
	msg := fmt.Sprintf(format, args...)
	l.resultsFile.WriteString(fmt.Sprintf("[%s] INFO: %s\n", timestamp, msg))
	l.resultsFile.Sync()
}

// WriteSummary writes a plan summary to the results log
func (l *Logger) WriteSummary(removes, installs, alreadyInstalled int, duration time.Duration) {
	l.mu.Lock()
	defer l.mu.Unlock()

	fmt.Fprintf(l.resultsFile, "\n%s\n", strings.Repeat("=", 70))
	fmt.Fprintf(l.resultsFile, "PLAN SUMMARY\n")
	fmt.Fprintf(l.resultsFile, "%s\n", strings.Repeat("=", 70))
	fmt.Fprintf(l.resultsFile, "Removals:          %d\n", removes)
	fmt.Fprintf(l.resultsFile, "Installations:     %d\n", installs)
	fmt.Fprintf(l.resultsFile, "Already installed: %d\n", alreadyInstalled)
	fmt.Fprintf(l.resultsFile, "Duration:          %s\n", duration)
	fmt.Fprintf(l.resultsFile, "%s\n", strings.Repeat("=", 70))

	l.resultsFile.Sync()
}

// WithContext creates a ContextLogger with metadata for enriched logging.
// The RunID will be truncated to 8 characters for readability.
//
// Example:
//
//	ctxLogger := logger.WithContext(log.RunContext{
//	    RunID: runUUID,
//	    Spec:  "curl:x64-linux",
//	})
//	ctxLogger.Info("Seeding request")
//	// Output: [15:04:05] [a1b2c3d4] curl:x64-linux: INFO: Seeding request
func (l *Logger) WithContext(ctx RunContext) *ContextLogger {
	return &ContextLogger{
		logger: l,
		ctx:    ctx,
	}
}

// formatPrefix creates a log prefix with context metadata
func (cl *ContextLogger) formatPrefix() string {
	shortUUID := cl.ctx.RunID
	if len(shortUUID) > 8 {
		shortUUID = shortUUID[:8]
	}
	if cl.ctx.Spec == "" {
		return fmt.Sprintf("[%s] ", shortUUID)
	}
	return fmt.Sprintf("[%s] %s: ", shortUUID, cl.ctx.Spec)
}

// Info logs an informational message with context
func (cl *ContextLogger) Info(format string, args ...any) {
	prefix := cl.formatPrefix()
	cl.logger.mu.Lock()
	defer cl.logger.mu.Unlock()

	timestamp := time.Now().Format("15:04:05")
	msg := fmt.Sprintf(format, args...)
	fullMsg := fmt.Sprintf("[%s] %sINFO: %s\n", timestamp, prefix, msg)

	cl.logger.resultsFile.WriteString(fullMsg)
	cl.logger.resultsFile.Sync()
}

// Error logs an error message with context
func (cl *ContextLogger) Error(format string, args ...any) {
	prefix := cl.formatPrefix()
	cl.logger.mu.Lock()
	defer cl.logger.mu.Unlock()

	timestamp := time.Now().Format("15:04:05")
	msg := fmt.Sprintf(format, args...)
	fullMsg := fmt.Sprintf("[%s] %sERROR: %s\n", timestamp, prefix, msg)

	cl.logger.resultsFile.WriteString(fullMsg)
	cl.logger.debugFile.WriteString(fullMsg)

	cl.logger.resultsFile.Sync()
	cl.logger.debugFile.Sync()
}

// Debug logs debug information with context
func (cl *ContextLogger) Debug(format string, args ...any) {
	prefix := cl.formatPrefix()
	cl.logger.mu.Lock()
	defer cl.logger.mu.Unlock()

	timestamp := time.Now().Format("15:04:05")
	msg := fmt.Sprintf(format, args...)
	fullMsg := fmt.Sprintf("[%s] %sDEBUG: %s\n", timestamp, prefix, msg)

	cl.logger.debugFile.WriteString(fullMsg)
	cl.logger.debugFile.Sync()
}

// Warn logs a warning message with context
func (cl *ContextLogger) Warn(format string, args ...any) {
	prefix := cl.formatPrefix()
	cl.logger.mu.Lock()
	defer cl.logger.mu.Unlock()

	timestamp := time.Now().Format("15:04:05")
	msg := fmt.Sprintf(format, args...)
	fullMsg := fmt.Sprintf("[%s] %sWARN: %s\n", timestamp, prefix, msg)

	cl.logger.resultsFile.WriteString(fullMsg)
	cl.logger.warningsFile.WriteString(prefix + msg + "\n")

	cl.logger.resultsFile.Sync()
	cl.logger.warningsFile.Sync()
}
