package radialaux

import (
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/soypat/gradial"
	"github.com/soypat/gradial/overlay"
	"gopkg.in/yaml.v3"
)

// Config is the YAML description of a radial menu and its overlay host.
//
//	radius: 0.25
//	inner_radius: 0.08
//	segments: 6
//	segment_gap: 0.1
//	preset: cpu
//	hotkey: Alt+R
//	labels: [Copy, Paste, Cut, Undo, Redo, Save]
//	actions: ["xdg-open .", "", "", "", "", ""]
type Config struct {
	gradial.Uniforms `yaml:",inline"`
	// Preset names a mode preset, see [gradial.Preset]. A non-nil Mode replaces it.
	Preset string        `yaml:"preset,omitempty"`
	Mode   *gradial.Mode `yaml:"mode,omitempty"`
	Window struct {
		Width  int `yaml:"width"`
		Height int `yaml:"height"`
	} `yaml:"window"`
	Hotkey overlay.Hotkey `yaml:"hotkey"`
	// Labels are drawn on segments in rendered images.
	Labels []string `yaml:"labels,omitempty"`
	// Actions are commands executed when the overlay is dismissed on a segment.
	Actions []string `yaml:"actions,omitempty"`
}

// DefaultConfig returns the configuration of the stock overlay: an 800x600
// window with a six segment menu shown with Alt+R.
func DefaultConfig() Config {
	var cfg Config
	cfg.Uniforms = gradial.DefaultUniforms()
	cfg.Preset = "cpu"
	cfg.Window.Width = 800
	cfg.Window.Height = 600
	cfg.Hotkey = overlay.DefaultHotkey
	return cfg
}

// LoadConfig decodes YAML from r over [DefaultConfig] and validates the result.
// Unknown fields are an error. An empty document yields the defaults.
func LoadConfig(r io.Reader) (Config, error) {
	cfg := DefaultConfig()
	dec := yaml.NewDecoder(r)
	dec.KnownFields(true)
	err := dec.Decode(&cfg)
	if err != nil && !errors.Is(err, io.EOF) {
		return Config{}, fmt.Errorf("decoding config: %w", err)
	}
	err = cfg.Validate()
	if err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// LoadConfigFile is [LoadConfig] over the contents of the named file.
func LoadConfigFile(filename string) (Config, error) {
	fp, err := os.Open(filename)
	if err != nil {
		return Config{}, err
	}
	defer fp.Close()
	cfg, err := LoadConfig(fp)
	if err != nil {
		return Config{}, fmt.Errorf("%s: %w", filename, err)
	}
	return cfg, nil
}

// WriteConfig encodes cfg as YAML.
func WriteConfig(w io.Writer, cfg Config) error {
	enc := yaml.NewEncoder(w)
	enc.SetIndent(2)
	err := enc.Encode(cfg)
	if err != nil {
		return err
	}
	return enc.Close()
}

// Validate checks the uniforms, mode and window of the configuration.
func (cfg *Config) Validate() error {
	var errs []error
	errs = append(errs, cfg.Uniforms.Validate())
	if _, err := cfg.Menu(); err != nil {
		errs = append(errs, err)
	}
	if cfg.Window.Width <= 0 || cfg.Window.Height <= 0 {
		errs = append(errs, fmt.Errorf("invalid window size %dx%d", cfg.Window.Width, cfg.Window.Height))
	}
	if len(cfg.Labels) > int(cfg.Segments) {
		errs = append(errs, fmt.Errorf("%d labels for %d segments", len(cfg.Labels), cfg.Segments))
	}
	if len(cfg.Actions) > int(cfg.Segments) {
		errs = append(errs, fmt.Errorf("%d actions for %d segments", len(cfg.Actions), cfg.Segments))
	}
	if cfg.Hotkey.Mod == 0 {
		errs = append(errs, errors.New("hotkey requires a modifier"))
	}
	return errors.Join(errs...)
}

// Menu returns the menu described by the preset and mode fields.
func (cfg *Config) Menu() (gradial.Menu, error) {
	var mode gradial.Mode
	if cfg.Preset != "" {
		var err error
		mode, err = gradial.Preset(cfg.Preset)
		if err != nil {
			return gradial.Menu{}, err
		}
	}
	if cfg.Mode != nil {
		mode = *cfg.Mode
	}
	return gradial.NewMenu(mode)
}

// BindActions binds the configured commands to h.
func (cfg *Config) BindActions(h *overlay.Host) error {
	for i, cmdline := range cfg.Actions {
		if cmdline == "" {
			continue
		}
		action, err := CommandAction(cmdline)
		if err != nil {
			return fmt.Errorf("segment %d action: %w", i, err)
		}
		err = h.Bind(i, action)
		if err != nil {
			return err
		}
	}
	return nil
}
