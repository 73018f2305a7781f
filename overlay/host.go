// Package overlay implements the window-system independent state of a radial
// menu overlay host: visibility toggled by a global hotkey, pointer driven
// selection and per-segment actions executed when the hotkey modifier is released.
package overlay

import (
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/soypat/geometry/ms2"
	"github.com/soypat/gradial"
)

// NoSelection is the selected segment while no segment is selected.
const NoSelection = gradial.NoSegment

// Content is what the overlay currently shows.
type Content struct {
	Visible bool
	// Selected is the segment under the pointer or [NoSelection].
	Selected int
}

// Action is executed when the overlay is dismissed with segment selected.
type Action func(segment int) error

// Host tracks overlay visibility and selection from input events and produces
// the uniform block for each frame. Methods are safe for concurrent use.
type Host struct {
	mu       sync.Mutex
	menu     gradial.Menu
	uniforms gradial.Uniforms
	content  Content
	mouse    ms2.Vec
	start    time.Time
	modDown  bool
	actions  map[int]Action
}

// NewHost returns a hidden overlay host. The animation clock starts at start.
func NewHost(menu gradial.Menu, u gradial.Uniforms, start time.Time) (*Host, error) {
	err := u.Validate()
	if err != nil {
		return nil, err
	}
	_, err = gradial.NewMenu(menu.Mode)
	if err != nil {
		return nil, err
	}
	return &Host{
		menu:     menu,
		uniforms: u,
		content:  Content{Selected: NoSelection},
		start:    start,
		actions:  make(map[int]Action),
	}, nil
}

// Content returns the current overlay content.
func (h *Host) Content() Content {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.content
}

// Menu returns the menu drawn by the host.
func (h *Host) Menu() gradial.Menu { return h.menu }

// SetUniforms replaces the base uniforms, i.e: after a configuration reload.
func (h *Host) SetUniforms(u gradial.Uniforms) error {
	err := u.Validate()
	if err != nil {
		return err
	}
	h.mu.Lock()
	defer h.mu.Unlock()
	h.uniforms = u
	if h.content.Selected >= int(u.Segments) {
		h.content.Selected = NoSelection
	}
	return nil
}

// Bind sets the action executed when the overlay is dismissed with segment selected.
// A nil action unbinds the segment.
func (h *Host) Bind(segment int, action Action) error {
	h.mu.Lock()
	defer h.mu.Unlock()
	if segment < 0 || segment >= int(h.uniforms.Segments) {
		return fmt.Errorf("segment %d out of range [0,%d)", segment, h.uniforms.Segments)
	}
	if action == nil {
		delete(h.actions, segment)
	} else {
		h.actions[segment] = action
	}
	return nil
}

// HotkeyPressed shows the overlay. It returns true if the overlay was hidden,
// in which case the host window should be centered on the cursor.
func (h *Host) HotkeyPressed() (shown bool) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.modDown = true // The hotkey includes the modifier.
	if h.content.Visible {
		return false
	}
	h.content.Visible = true
	h.content.Selected = NoSelection
	Logger().Info("showing overlay")
	return true
}

// ModifierChanged reports the hotkey modifier state. Releasing the modifier
// while the overlay is visible hides it, executes the action bound to the
// selected segment and resets the selection. The action's error is logged and returned.
func (h *Host) ModifierChanged(pressed bool) (hidden bool, err error) {
	h.mu.Lock()
	if pressed == h.modDown {
		h.mu.Unlock()
		return false, nil
	}
	h.modDown = pressed
	if pressed || !h.content.Visible {
		h.mu.Unlock()
		return false, nil
	}
	selected := h.content.Selected
	h.content = Content{Visible: false, Selected: NoSelection}
	action := h.actions[selected]
	h.mu.Unlock()

	log := Logger()
	log.Info("hiding overlay", "selected", selected)
	if selected == NoSelection {
		return true, nil
	}
	if action == nil {
		log.Info("no action bound", "segment", selected)
		return true, nil
	}
	log.Info("executing action", "segment", selected)
	err = runAction(action, selected)
	if err != nil {
		log.Warn("action failed", "segment", selected, "err", err)
	}
	return true, err
}

func runAction(action Action, segment int) (err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("action for segment %d panicked: %v", segment, r)
		}
	}()
	return action(segment)
}

// Hide hides the overlay without executing any action.
func (h *Host) Hide() {
	h.mu.Lock()
	defer h.mu.Unlock()
	if h.content.Visible {
		Logger().Info("hiding overlay", "selected", NoSelection)
	}
	h.content = Content{Selected: NoSelection}
}

// CursorMoved updates the pointer position (NDC, y up, relative to the host
// window) and, while visible, the selection. The selection is computed with
// the current uniforms in the menu's fragment space so that it matches the
// segment drawn under the pointer. A pointer inside the cutout or exactly on
// its edge selects nothing. Menus centered on the pointer keep their selection.
func (h *Host) CursorMoved(ndc ms2.Vec) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.mouse = ndc
	if !h.content.Visible || h.menu.Mode.Center != gradial.CenterFixed {
		return
	}
	u := h.uniforms
	u.Mouse = ndc
	sel := gradial.HoverSegment(&u, h.menu.Center(&u), h.menu.Pointer(&u))
	if sel != h.content.Selected {
		h.content.Selected = sel
		Logger().Debug("selection changed", "segment", sel)
	}
}

// Frame returns the uniforms to draw at time now and whether the overlay is visible.
func (h *Host) Frame(now time.Time) (gradial.Uniforms, bool) {
	h.mu.Lock()
	defer h.mu.Unlock()
	u := h.uniforms
	u.Time = float32(now.Sub(h.start).Seconds())
	u.Mouse = h.mouse
	u.Selected = int32(h.content.Selected)
	return u, h.content.Visible
}

var errHidden = errors.New("overlay hidden")

// Select sets the selected segment directly, for keyboard navigation.
func (h *Host) Select(segment int) error {
	h.mu.Lock()
	defer h.mu.Unlock()
	if !h.content.Visible {
		return errHidden
	} else if segment != NoSelection && (segment < 0 || segment >= int(h.uniforms.Segments)) {
		return fmt.Errorf("segment %d out of range [0,%d)", segment, h.uniforms.Segments)
	}
	h.content.Selected = segment
	return nil
}
