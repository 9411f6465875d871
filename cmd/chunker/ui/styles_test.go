package ui

import "testing"

func TestDetectTheme(t *testing.T) {
	t.Setenv("COLORFGBG", "")
	t.Setenv("CHUNKER_DARK_MODE", "1")
	dark := DetectTheme()
	if !dark.IsDark {
		t.Fatalf("expected dark theme when CHUNKER_DARK_MODE=1")
	}

	t.Setenv("CHUNKER_DARK_MODE", "")
	light := DetectTheme()
	if light.IsDark {
		t.Fatalf("expected light theme when CHUNKER_DARK_MODE is unset")
	}

	t.Setenv("COLORFGBG", "15;0")
	if !DetectTheme().IsDark {
		t.Fatalf("expected dark theme for COLORFGBG=15;0")
	}
}

func TestThemeByName(t *testing.T) {
	if !ThemeByName("dark").IsDark {
		t.Error("dark should be dark")
	}
	if ThemeByName("light").IsDark {
		t.Error("light should be light")
	}
}

func TestRenderDivider(t *testing.T) {
	s := NewStyles(LightTheme())
	if s.RenderDivider(0) != "" {
		t.Error("zero width divider should be empty")
	}
	if s.RenderDivider(5) == "" {
		t.Error("divider should render")
	}
}
