package logging

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

// TestAllCategoriesLog tests that all categories create log files when debug mode is on
func TestAllCategoriesLog(t *testing.T) {
	tempDir := t.TempDir()
	t.Cleanup(CloseAll)

	if err := Initialize(tempDir, Options{DebugMode: true, Level: "debug"}); err != nil {
		t.Fatalf("Failed to initialize logging: %v", err)
	}

	if !IsDebugMode() {
		t.Error("Expected debug mode to be enabled")
	}

	categories := []Category{
		CategoryBoot,
		CategoryLoader,
		CategoryChunker,
		CategoryClipboard,
		CategorySession,
		CategoryUI,
		CategoryWatch,
	}

	for _, cat := range categories {
		if !IsCategoryEnabled(cat) {
			t.Errorf("Category %s should be enabled", cat)
		}
		logger := Get(cat)
		logger.Info("Test info message for %s", cat)
		logger.Debug("Test debug message for %s", cat)
	}

	Loader("Convenience loader log")
	Chunker("Convenience chunker log")
	Clipboard("Convenience clipboard log")

	CloseAll()

	logsPath := filepath.Join(tempDir, ".chunker", "logs")
	for _, cat := range categories {
		content, err := os.ReadFile(filepath.Join(logsPath, string(cat)+".log"))
		if err != nil {
			t.Errorf("No log file for category %s: %v", cat, err)
			continue
		}
		if !strings.Contains(string(content), "Test info message for "+string(cat)) {
			t.Errorf("Log file for %s missing info line:\n%s", cat, content)
		}
		if !strings.Contains(string(content), "Test debug message") {
			t.Errorf("Log file for %s missing debug line", cat)
		}
	}
}

// TestDebugModeDisabled tests that no logs are created in production mode
func TestDebugModeDisabled(t *testing.T) {
	tempDir := t.TempDir()
	t.Cleanup(CloseAll)

	if err := Initialize(tempDir, Options{DebugMode: false}); err != nil {
		t.Fatalf("Failed to initialize logging: %v", err)
	}

	Loader("should not be written")
	Get(CategoryUI).Error("nor this")
	CloseAll()

	if _, err := os.Stat(filepath.Join(tempDir, ".chunker", "logs")); !os.IsNotExist(err) {
		t.Errorf("Expected no logs directory in production mode, stat err = %v", err)
	}
}

func TestCategoryFilter(t *testing.T) {
	tempDir := t.TempDir()
	t.Cleanup(CloseAll)

	err := Initialize(tempDir, Options{
		DebugMode:  true,
		Categories: map[string]bool{"ui": false, "loader": true},
	})
	if err != nil {
		t.Fatalf("Failed to initialize logging: %v", err)
	}

	if IsCategoryEnabled(CategoryUI) {
		t.Error("ui should be disabled")
	}
	if !IsCategoryEnabled(CategoryLoader) {
		t.Error("loader should be enabled")
	}
	if !IsCategoryEnabled(CategoryWatch) {
		t.Error("unlisted categories default to enabled")
	}

	UI("dropped")
	CloseAll()
	if _, err := os.Stat(filepath.Join(tempDir, ".chunker", "logs", "ui.log")); !os.IsNotExist(err) {
		t.Errorf("ui.log should not exist, stat err = %v", err)
	}
}

func TestLevelFiltersDebug(t *testing.T) {
	tempDir := t.TempDir()
	t.Cleanup(CloseAll)

	if err := Initialize(tempDir, Options{DebugMode: true, Level: "warn", JSONFormat: true}); err != nil {
		t.Fatalf("Failed to initialize logging: %v", err)
	}
	SetSessionID("sess-1")

	LoaderDebug("hidden debug")
	LoaderWarn("visible warn")
	CloseAll()

	content, err := os.ReadFile(filepath.Join(tempDir, ".chunker", "logs", "loader.log"))
	if err != nil {
		t.Fatalf("read loader.log: %v", err)
	}
	if strings.Contains(string(content), "hidden debug") {
		t.Error("debug line written at warn level")
	}
	if !strings.Contains(string(content), "visible warn") {
		t.Error("warn line missing")
	}
	if !strings.Contains(string(content), `"session":"sess-1"`) {
		t.Errorf("session field missing in JSON output:\n%s", content)
	}
}

func TestInitializeRequiresWorkspace(t *testing.T) {
	if err := Initialize("", Options{}); err == nil {
		t.Error("expected error for empty workspace")
	}
}

func TestBootHelpersWriteLevels(t *testing.T) {
	tempDir := t.TempDir()
	t.Cleanup(CloseAll)

	if err := Initialize(tempDir, Options{DebugMode: true, Level: "debug"}); err != nil {
		t.Fatalf("Failed to initialize logging: %v", err)
	}
	BootDebug("config loaded from %s", "a.yaml")
	BootWarn("no config at %s", "b.yaml")
	BootError("widget stopped: %v", "boom")
	ChunkerDebug("%d emails", 3)
	CloseAll()

	logsPath := filepath.Join(tempDir, ".chunker", "logs")
	boot, err := os.ReadFile(filepath.Join(logsPath, "boot.log"))
	if err != nil {
		t.Fatalf("read boot log: %v", err)
	}
	for _, want := range []string{"config loaded from a.yaml", "no config at b.yaml", "widget stopped: boom"} {
		if !strings.Contains(string(boot), want) {
			t.Errorf("boot log missing %q:\n%s", want, boot)
		}
	}
	chunker, err := os.ReadFile(filepath.Join(logsPath, "chunker.log"))
	if err != nil {
		t.Fatalf("read chunker log: %v", err)
	}
	if !strings.Contains(string(chunker), "3 emails") {
		t.Errorf("chunker log missing debug line:\n%s", chunker)
	}
}
