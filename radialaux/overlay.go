package radialaux

import (
	"context"
	"errors"
	"runtime"
	"time"

	"github.com/soypat/gradial/overlay"
)

// UIConfig configures the interactive overlay window.
type UIConfig struct {
	Width, Height int
	Hotkey        overlay.Hotkey
	// Context cancels the window loop when done. May be nil.
	Context context.Context
	// OnActionError is called with errors returned by segment actions.
	OnActionError func(error)
}

// UIConfig returns the window configuration described by cfg.
func (cfg *Config) UIConfig(ctx context.Context) UIConfig {
	return UIConfig{
		Width:   cfg.Window.Width,
		Height:  cfg.Window.Height,
		Hotkey:  cfg.Hotkey,
		Context: ctx,
	}
}

// NewHost builds an overlay host from cfg with its actions bound.
func NewHost(cfg Config) (*overlay.Host, error) {
	menu, err := cfg.Menu()
	if err != nil {
		return nil, err
	}
	h, err := overlay.NewHost(menu, cfg.Uniforms, time.Now())
	if err != nil {
		return nil, err
	}
	err = cfg.BindActions(h)
	if err != nil {
		return nil, err
	}
	return h, nil
}

// UI opens a transparent undecorated window which draws the menu of h while
// the hotkey is held. Releasing the hotkey modifier executes the action bound to
// the selected segment. Escape hides the overlay or closes the window when hidden.
// The window must be focused to receive the hotkey.
// UI locks the calling goroutine to its OS thread, which should be the main thread.
func UI(h *overlay.Host, cfg UIConfig) error {
	if h == nil {
		return errors.New("nil overlay host")
	} else if cfg.Width <= 0 || cfg.Height <= 0 {
		return errors.New("invalid window size")
	} else if cfg.Hotkey.Mod == 0 {
		return errors.New("hotkey requires a modifier")
	}
	runtime.LockOSThread()
	defer runtime.UnlockOSThread()
	return ui(h, cfg)
}

// Overlay runs the overlay described by cfg until the window closes or ctx is done.
func Overlay(ctx context.Context, cfg Config) error {
	h, err := NewHost(cfg)
	if err != nil {
		return err
	}
	ucfg := cfg.UIConfig(ctx)
	ucfg.OnActionError = func(err error) {
		overlay.Logger().Error("segment action", "err", err)
	}
	return UI(h, ucfg)
}

