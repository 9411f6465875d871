package config

// Theme names accepted by ui.theme.
const (
	ThemeAuto  = "auto"
	ThemeLight = "light"
	ThemeDark  = "dark"
)

// UIConfig holds user interface configuration.
type UIConfig struct {
	// Theme is auto, light or dark. Auto inspects the terminal.
	Theme string `yaml:"theme"`

	// ShowHelpOnStart opens the help page when the widget starts.
	ShowHelpOnStart bool `yaml:"show_help_on_start"`

	// ConfirmCopy shows a modal notice after each successful copy.
	ConfirmCopy bool `yaml:"confirm_copy"`
}

// DefaultUIConfig returns sensible UI defaults.
func DefaultUIConfig() *UIConfig {
	return &UIConfig{
		Theme:       ThemeAuto,
		ConfirmCopy: true,
	}
}
