package cli

import (
	"os"
	"path/filepath"

	"github.com/BurntSushi/toml"

	"github.com/canopyviz/canopy/pkg/errors"
	"github.com/canopyviz/canopy/pkg/view"
)

// Config is the canopy configuration file (~/.config/canopy/config.toml).
type Config struct {
	// MaxVisibleChildren caps how many children of one parent are shown
	// before the rest collapse behind a "more" node. Zero disables.
	MaxVisibleChildren int `toml:"max_visible_children"`

	// CameraMode: "everything", "active-path", "current-node", or empty.
	CameraMode string `toml:"camera_mode"`

	// Animate enables entrance flags on fresh nodes.
	Animate bool `toml:"animate"`

	// AutoFocus centers on the activated node when no camera mode is set.
	AutoFocus bool `toml:"auto_focus"`

	// Listen is the serve command's bind address.
	Listen string `toml:"listen"`
}

// DefaultConfig returns the built-in defaults.
func DefaultConfig() Config {
	return Config{
		MaxVisibleChildren: 8,
		CameraMode:         string(view.ModeActivePath),
		Animate:            true,
		Listen:             "localhost:8412",
	}
}

// LoadConfig reads the config file at path. An empty path falls back to the
// default location; a missing file yields the defaults.
func LoadConfig(path string) (Config, error) {
	cfg := DefaultConfig()

	explicit := path != ""
	if !explicit {
		var err error
		if path, err = defaultConfigPath(); err != nil {
			return cfg, nil
		}
	}

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) && !explicit {
			return cfg, nil
		}
		return cfg, errors.Wrap(errors.ErrCodeInvalidConfig, err, "read config %s", path)
	}
	if err := toml.Unmarshal(data, &cfg); err != nil {
		return cfg, errors.Wrap(errors.ErrCodeInvalidConfig, err, "parse config %s", path)
	}
	if !view.Mode(cfg.CameraMode).Valid() {
		return cfg, errors.New(errors.ErrCodeInvalidConfig, "unknown camera mode %q in %s", cfg.CameraMode, path)
	}
	if cfg.MaxVisibleChildren < 0 {
		return cfg, errors.New(errors.ErrCodeInvalidConfig, "max_visible_children must not be negative")
	}
	return cfg, nil
}

// defaultConfigPath returns the XDG config location
// (~/.config/canopy/config.toml).
func defaultConfigPath() (string, error) {
	if configHome := os.Getenv("XDG_CONFIG_HOME"); configHome != "" {
		return filepath.Join(configHome, appName, "config.toml"), nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, ".config", appName, "config.toml"), nil
}
