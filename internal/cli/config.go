package cli

import (
	"errors"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/matzehuels/racktower/pkg/rack"
)

// Config keys. Each can come from a flag, RACKTOWER_<KEY> or config.toml.
const (
	keyState      = "state"
	keyHeight     = "height"
	keyWidth      = "width"
	keyResolution = "resolution"
	keyListen     = "listen"
)

// settings is the parsed configuration for one command run.
type settings struct {
	StatePath  string
	Height     int
	Width      rack.WidthClass
	Resolution rack.Resolution
	Listen     string
}

// bindFlags registers the global flags and ties them to the config keys.
func (c *CLI) bindFlags(root *cobra.Command) {
	f := root.PersistentFlags()
	f.StringVar(&c.cfgFile, "config", "", "config file (default ~/.config/racktower/config.toml)")
	f.String(keyState, "", "layout file (default ~/.config/racktower/layout.json)")
	f.Int(keyHeight, rack.DefaultHeight, "height in U of a new rack")
	f.String(keyWidth, string(rack.Width19Inch), "width of a new rack: 19inch, 10inch")
	f.String(keyResolution, rack.HalfU.String(), "slot resolution: half, whole")
	f.BoolVarP(&c.yes, "yes", "y", false, "apply destructive changes without asking")

	for _, key := range []string{keyState, keyHeight, keyWidth, keyResolution} {
		_ = c.config.BindPFlag(key, f.Lookup(key))
	}
	c.config.SetDefault(keyListen, defaultListen)
}

// loadConfig reads the config file and environment. A missing default
// config file is fine; a missing file named with --config is not.
func (c *CLI) loadConfig() error {
	v := c.config
	v.SetEnvPrefix("RACKTOWER")
	v.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	v.AutomaticEnv()

	if c.cfgFile != "" {
		v.SetConfigFile(c.cfgFile)
	} else {
		dir, err := configDir()
		if err != nil {
			return nil
		}
		v.SetConfigFile(filepath.Join(dir, "config.toml"))
		v.SetConfigType("toml")
	}

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if c.cfgFile == "" && (errors.As(err, &notFound) || errors.Is(err, os.ErrNotExist)) {
			return nil
		}
		return err
	}
	c.Logger.Debug("loaded config", "file", v.ConfigFileUsed())
	return nil
}

// settings parses the configured values.
func (c *CLI) settings() (settings, error) {
	v := c.config
	s := settings{
		StatePath: v.GetString(keyState),
		Height:    v.GetInt(keyHeight),
		Listen:    v.GetString(keyListen),
	}
	if err := rack.ValidateHeight(s.Height); err != nil {
		return s, err
	}

	var err error
	if s.Width, err = rack.ParseWidth(v.GetString(keyWidth)); err != nil {
		return s, err
	}
	if s.Resolution, err = rack.ParseResolution(v.GetString(keyResolution)); err != nil {
		return s, err
	}
	if s.StatePath == "" {
		dir, err := configDir()
		if err != nil {
			return s, err
		}
		s.StatePath = filepath.Join(dir, "layout.json")
	}
	return s, nil
}
