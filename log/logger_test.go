package log

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestNewLoggerCreatesFiles(t *testing.T) {
	dir := t.TempDir()
	logger, err := NewLogger(dir)
	if err != nil {
		t.Fatalf("NewLogger failed: %v", err)
	}
	defer logger.Close()

	expected := []string{
		"00_last_operations.log",
		"01_install_list.log",
		"02_remove_list.log",
		"03_warnings.log",
		"04_debug.log",
	}
	for _, name := range expected {
		if _, err := os.Stat(filepath.Join(dir, name)); err != nil {
			t.Errorf("expected log file %s: %v", name, err)
		}
	}
}

func TestLoggerInstalledAndRemoved(t *testing.T) {
	dir := t.TempDir()
	logger, err := NewLogger(dir)
	if err != nil {
		t.Fatalf("NewLogger failed: %v", err)
	}

	logger.Installed("zlib:x64-linux")
	logger.Removed("curl:x64-linux")
	logger.Close()

	install, err := os.ReadFile(filepath.Join(dir, "01_install_list.log"))
	if err != nil {
		t.Fatalf("read install list: %v", err)
	}
	if !strings.Contains(string(install), "zlib:x64-linux") {
		t.Errorf("install list missing entry: %q", install)
	}

	remove, err := os.ReadFile(filepath.Join(dir, "02_remove_list.log"))
	if err != nil {
		t.Fatalf("read remove list: %v", err)
	}
	if !strings.Contains(string(remove), "curl:x64-linux") {
		t.Errorf("remove list missing entry: %q", remove)
	}
}

func TestContextLoggerPrefix(t *testing.T) {
	dir := t.TempDir()
	logger, err := NewLogger(dir)
	if err != nil {
		t.Fatalf("NewLogger failed: %v", err)
	}

	cl := logger.WithContext(RunContext{
		RunID: "0123456789abcdef",
		Spec:  "curl:x64-linux",
	})
	cl.Warn("could not reinstall feature %s", "ssl")
	logger.Close()

	warnings, err := os.ReadFile(filepath.Join(dir, "03_warnings.log"))
	if err != nil {
		t.Fatalf("read warnings: %v", err)
	}
	out := string(warnings)
	if !strings.Contains(out, "[01234567]") {
		t.Errorf("expected short run id in %q", out)
	}
	if !strings.Contains(out, "curl:x64-linux") {
		t.Errorf("expected spec in %q", out)
	}
	if !strings.Contains(out, "could not reinstall feature ssl") {
		t.Errorf("expected message in %q", out)
	}
}
