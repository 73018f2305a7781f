package overlay_test

import (
	"bytes"
	"errors"
	"image"
	"log/slog"
	"strings"
	"testing"
	"time"

	"github.com/chewxy/math32"
	"github.com/soypat/geometry/ms2"
	"github.com/soypat/gradial"
	"github.com/soypat/gradial/overlay"
)

func newHost(t *testing.T, mode gradial.Mode) (*overlay.Host, time.Time) {
	t.Helper()
	start := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	h, err := overlay.NewHost(gradial.Menu{Mode: mode}, gradial.DefaultUniforms(), start)
	if err != nil {
		t.Fatal(err)
	}
	return h, start
}

// pointerAt returns the NDC pointer over the middle of segment idx for a
// menu which does not invert y.
func pointerAt(idx int) ms2.Vec {
	u := gradial.DefaultUniforms()
	angle := gradial.SegmentMidAngle(idx, int(u.Segments), u.SegmentGap)
	r := (u.Radius + u.InnerRadius) / 2
	s, c := math32.Sincos(angle)
	return ms2.Vec{X: r * c, Y: r * s}
}

func TestHostLifecycle(t *testing.T) {
	h, start := newHost(t, gradial.CPUSelected())
	var executed []int
	err := h.Bind(2, func(segment int) error {
		executed = append(executed, segment)
		return nil
	})
	if err != nil {
		t.Fatal(err)
	}
	if c := h.Content(); c.Visible || c.Selected != overlay.NoSelection {
		t.Fatalf("initial content %+v", c)
	}
	// Moving the pointer while hidden selects nothing.
	h.CursorMoved(pointerAt(2))
	if c := h.Content(); c.Selected != overlay.NoSelection {
		t.Fatalf("selection while hidden %+v", c)
	}
	if !h.HotkeyPressed() {
		t.Fatal("hotkey should show overlay")
	}
	if h.HotkeyPressed() {
		t.Error("repeated hotkey should not report shown")
	}
	h.CursorMoved(pointerAt(2))
	if c := h.Content(); !c.Visible || c.Selected != 2 {
		t.Fatalf("expected segment 2 selected, got %+v", c)
	}
	u, visible := h.Frame(start.Add(1500 * time.Millisecond))
	if !visible || u.Selected != 2 || u.Time != 1.5 || u.Mouse != pointerAt(2) {
		t.Errorf("unexpected frame uniforms %+v visible=%v", u, visible)
	}
	if err := u.Validate(); err != nil {
		t.Error(err)
	}

	hidden, err := h.ModifierChanged(false)
	if err != nil || !hidden {
		t.Fatalf("release should hide: hidden=%v err=%v", hidden, err)
	}
	if len(executed) != 1 || executed[0] != 2 {
		t.Errorf("expected action for segment 2, got %v", executed)
	}
	if c := h.Content(); c.Visible || c.Selected != overlay.NoSelection {
		t.Errorf("content after release %+v", c)
	}
	// Releasing again is not an edge.
	hidden, _ = h.ModifierChanged(false)
	if hidden {
		t.Error("second release should not hide")
	}
	if len(executed) != 1 {
		t.Error("action executed twice")
	}
}

func TestHostCutoutClearsSelection(t *testing.T) {
	h, _ := newHost(t, gradial.GPUHover())
	h.HotkeyPressed()
	h.CursorMoved(pointerAt(4))
	if h.Content().Selected != 4 {
		t.Fatalf("expected segment 4, got %d", h.Content().Selected)
	}
	h.CursorMoved(ms2.Vec{})
	if h.Content().Selected != overlay.NoSelection {
		t.Errorf("pointer at center should clear selection, got %d", h.Content().Selected)
	}
	h.CursorMoved(pointerAt(4))
	h.CursorMoved(ms2.Vec{X: gradial.DefaultUniforms().InnerRadius})
	if h.Content().Selected != overlay.NoSelection {
		t.Errorf("pointer on cutout edge should clear selection, got %d", h.Content().Selected)
	}
	hidden, err := h.ModifierChanged(false)
	if !hidden || err != nil {
		t.Errorf("hidden=%v err=%v", hidden, err)
	}
}

func TestHostInvertY(t *testing.T) {
	mode := gradial.CPUSelected()
	mode.InvertY = true
	h, _ := newHost(t, mode)
	h.HotkeyPressed()
	// Segment 1 is drawn mirrored below the x axis.
	p := pointerAt(1)
	p.Y = -p.Y
	h.CursorMoved(p)
	if got := h.Content().Selected; got != 1 {
		t.Errorf("inverted menu selected %d, want 1", got)
	}
}

func TestHostPointerCenteredKeepsSelection(t *testing.T) {
	h, _ := newHost(t, gradial.PointerWheel())
	h.HotkeyPressed()
	if err := h.Select(3); err != nil {
		t.Fatal(err)
	}
	h.CursorMoved(pointerAt(1))
	if got := h.Content().Selected; got != 3 {
		t.Errorf("pointer centered menu selection changed to %d", got)
	}
	if err := h.Select(6); err == nil {
		t.Error("expected out of range selection error")
	}
	h.Hide()
	if err := h.Select(1); err == nil {
		t.Error("expected error selecting while hidden")
	}
}

func TestHostActionErrors(t *testing.T) {
	var buf bytes.Buffer
	overlay.SetLogger(slog.New(slog.NewTextHandler(&buf, &slog.HandlerOptions{Level: slog.LevelDebug})))
	t.Cleanup(func() { overlay.SetLogger(nil) })

	h, _ := newHost(t, gradial.CPUSelected())
	errAction := errors.New("launch failed")
	if err := h.Bind(0, func(int) error { return errAction }); err != nil {
		t.Fatal(err)
	}
	if err := h.Bind(1, func(int) error { panic("boom") }); err != nil {
		t.Fatal(err)
	}
	if err := h.Bind(6, func(int) error { return nil }); err == nil {
		t.Error("expected error binding out of range segment")
	}

	h.HotkeyPressed()
	h.CursorMoved(pointerAt(0))
	_, err := h.ModifierChanged(false)
	if !errors.Is(err, errAction) {
		t.Errorf("expected action error, got %v", err)
	}
	h.HotkeyPressed()
	h.CursorMoved(pointerAt(1))
	_, err = h.ModifierChanged(false)
	if err == nil || !strings.Contains(err.Error(), "panicked") {
		t.Errorf("expected recovered panic, got %v", err)
	}
	// Unbound segment.
	h.HotkeyPressed()
	h.CursorMoved(pointerAt(5))
	if _, err = h.ModifierChanged(false); err != nil {
		t.Error(err)
	}
	logs := buf.String()
	for _, want := range []string{"showing overlay", "executing action", "action failed", "selection changed", "no action bound"} {
		if !strings.Contains(logs, want) {
			t.Errorf("log missing %q:\n%s", want, logs)
		}
	}
}

func TestSetUniforms(t *testing.T) {
	h, _ := newHost(t, gradial.CPUSelected())
	h.HotkeyPressed()
	h.CursorMoved(pointerAt(5))
	u := gradial.DefaultUniforms()
	u.Segments = 4
	if err := h.SetUniforms(u); err != nil {
		t.Fatal(err)
	}
	if got := h.Content().Selected; got != overlay.NoSelection {
		t.Errorf("selection %d kept after segment count shrank", got)
	}
	u.Segments = 0
	if err := h.SetUniforms(u); err == nil {
		t.Error("expected invalid uniforms error")
	}
	if _, err := overlay.NewHost(gradial.Menu{}, u, time.Now()); err == nil {
		t.Error("expected NewHost to validate uniforms")
	}
}

func TestParseHotkey(t *testing.T) {
	for _, tc := range []struct {
		in   string
		want overlay.Hotkey
		str  string
	}{
		{"Alt+R", overlay.DefaultHotkey, "Alt+R"},
		{"alt+r", overlay.DefaultHotkey, "Alt+R"},
		{"ctrl + shift + space", overlay.Hotkey{Mod: overlay.ModCtrl | overlay.ModShift, Key: ' '}, "Ctrl+Shift+Space"},
		{"Win+1", overlay.Hotkey{Mod: overlay.ModSuper, Key: '1'}, "Super+1"},
	} {
		got, err := overlay.ParseHotkey(tc.in)
		if err != nil {
			t.Errorf("%q: %s", tc.in, err)
			continue
		}
		if got != tc.want {
			t.Errorf("%q: got %+v, want %+v", tc.in, got, tc.want)
		}
		if got.String() != tc.str {
			t.Errorf("%q: String()=%q, want %q", tc.in, got.String(), tc.str)
		}
	}
	for _, bad := range []string{"R", "Alt+", "Hyper+R", "Alt+Alt+R", "Alt+F12", "Alt+#"} {
		if _, err := overlay.ParseHotkey(bad); err == nil {
			t.Errorf("%q: expected error", bad)
		}
	}
}

func TestNormalizeCursor(t *testing.T) {
	for _, tc := range []struct {
		x, y float64
		want ms2.Vec
	}{
		{0, 0, ms2.Vec{X: -1, Y: 1}},
		{400, 300, ms2.Vec{}},
		{800, 600, ms2.Vec{X: 1, Y: -1}},
		{600, 150, ms2.Vec{X: 0.5, Y: 0.5}},
	} {
		got := overlay.NormalizeCursor(tc.x, tc.y, 800, 600)
		if got != tc.want {
			t.Errorf("NormalizeCursor(%g,%g)=%v, want %v", tc.x, tc.y, got, tc.want)
		}
	}
	origin := overlay.WindowOrigin(image.Pt(1000, 700), 800, 600)
	if origin != image.Pt(600, 400) {
		t.Errorf("window origin %v", origin)
	}
}
