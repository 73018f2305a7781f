//go:build !tinygo && cgo

package radialaux

import (
	"bytes"
	"fmt"
	"image"
	"time"

	"github.com/go-gl/gl/v4.6-core/gl"
	"github.com/go-gl/glfw/v3.3/glfw"
	"github.com/soypat/glgl/v4.6-core/glgl"
	"github.com/soypat/gradial/glbuild"
	"github.com/soypat/gradial/gleval"
	"github.com/soypat/gradial/overlay"
)

func ui(h *overlay.Host, cfg UIConfig) error {
	if cfg.Hotkey.Key > 'Z' || cfg.Hotkey.Key < ' ' {
		return fmt.Errorf("hotkey %s has no GLFW key", cfg.Hotkey)
	}
	window, term, err := startGLFW(cfg.Width, cfg.Height)
	if err != nil {
		return err
	}
	defer term()

	programmer := glbuild.NewDefaultProgrammer()
	var vert, frag bytes.Buffer
	_, err = programmer.WriteVertex(&vert, glbuild.LangGLSLOpenGL)
	if err != nil {
		return err
	}
	_, objs, err := programmer.WriteFragment(&frag, h.Menu(), glbuild.LangGLSLOpenGL)
	if err != nil {
		return err
	}
	fragSrc := frag.String()
	vert.WriteByte(0)
	frag.WriteByte(0)
	prog, err := glgl.CompileProgram(glgl.ShaderSource{
		Vertex:   vert.String(),
		Fragment: frag.String(),
	})
	if err != nil {
		return fmt.Errorf("%s\n\n%w", fragSrc, err)
	}
	defer prog.Delete()
	prog.Bind()
	var vao uint32
	gl.GenVertexArrays(1, &vao)
	defer gl.DeleteVertexArrays(1, &vao)

	u, _ := h.Frame(time.Now())
	ubo, err := gleval.NewUniformBuffer(objs[0].Binding, &u)
	if err != nil {
		return err
	}
	defer ubo.Delete()

	log := overlay.Logger()
	want := glfwMods(cfg.Hotkey.Mod)
	hotkey := glfw.Key(cfg.Hotkey.Key)
	window.SetKeyCallback(func(w *glfw.Window, key glfw.Key, scancode int, action glfw.Action, mods glfw.ModifierKey) {
		if action == glfw.Repeat {
			return
		}
		if isModifierOf(key, cfg.Hotkey.Mod) {
			_, err := h.ModifierChanged(action == glfw.Press)
			if err != nil && cfg.OnActionError != nil {
				cfg.OnActionError(err)
			}
			return
		}
		if action != glfw.Press {
			return
		}
		switch {
		case key == hotkey && mods&want == want:
			if h.HotkeyPressed() {
				// Center the window on the cursor so the menu opens under it.
				cx, cy := w.GetCursorPos()
				wx, wy := w.GetPos()
				origin := overlay.WindowOrigin(image.Pt(wx+int(cx), wy+int(cy)), cfg.Width, cfg.Height)
				w.SetPos(origin.X, origin.Y)
				h.CursorMoved(overlay.NormalizeCursor(float64(cfg.Width)/2, float64(cfg.Height)/2, cfg.Width, cfg.Height))
			}
		case key == glfw.KeyEscape:
			if h.Content().Visible {
				h.Hide()
			} else {
				w.SetShouldClose(true)
			}
		case key >= glfw.Key1 && key <= glfw.Key9:
			err := h.Select(int(key - glfw.Key1))
			if err != nil {
				log.Debug("ignoring selection key", "err", err)
			}
		}
	})
	window.SetCursorPosCallback(func(w *glfw.Window, xpos, ypos float64) {
		width, height := w.GetSize()
		h.CursorMoved(overlay.NormalizeCursor(xpos, ypos, width, height))
	})

	ctx := cfg.Context
	for !window.ShouldClose() {
		if ctx != nil {
			select {
			case <-ctx.Done():
				return ctx.Err()
			default:
			}
		}
		width, height := window.GetFramebufferSize()
		gl.Viewport(0, 0, int32(width), int32(height))
		gl.ClearColor(0, 0, 0, 0)
		gl.Clear(gl.COLOR_BUFFER_BIT)
		u, visible := h.Frame(time.Now())
		if visible {
			err = ubo.Upload(&u)
			if err != nil {
				return err
			}
			prog.Bind()
			gl.BindVertexArray(vao)
			gl.DrawArrays(gl.TRIANGLES, 0, 6)
		}
		window.SwapBuffers()
		glfw.PollEvents()
		time.Sleep(16 * time.Millisecond)
	}
	return nil
}

func startGLFW(width, height int) (window *glfw.Window, term func(), err error) {
	if err := glfw.Init(); err != nil {
		return nil, nil, fmt.Errorf("initializing GLFW: %w", err)
	}
	glfw.WindowHint(glfw.ContextVersionMajor, 4)
	glfw.WindowHint(glfw.ContextVersionMinor, 6)
	glfw.WindowHint(glfw.OpenGLProfile, glfw.OpenGLCoreProfile)
	glfw.WindowHint(glfw.Resizable, glfw.False)
	glfw.WindowHint(glfw.Decorated, glfw.False)
	glfw.WindowHint(glfw.Floating, glfw.True)
	glfw.WindowHint(glfw.TransparentFramebuffer, glfw.True)

	window, err = glfw.CreateWindow(width, height, "gradial", nil, nil)
	if err != nil {
		glfw.Terminate()
		return nil, nil, fmt.Errorf("creating GLFW window: %w", err)
	}
	window.MakeContextCurrent()
	if err := gl.Init(); err != nil {
		glfw.Terminate()
		return nil, nil, fmt.Errorf("initializing OpenGL: %w", err)
	}
	gl.Enable(gl.BLEND)
	gl.BlendFunc(gl.SRC_ALPHA, gl.ONE_MINUS_SRC_ALPHA)
	return window, glfw.Terminate, nil
}

func glfwMods(m overlay.Modifier) (mods glfw.ModifierKey) {
	if m&overlay.ModAlt != 0 {
		mods |= glfw.ModAlt
	}
	if m&overlay.ModCtrl != 0 {
		mods |= glfw.ModControl
	}
	if m&overlay.ModShift != 0 {
		mods |= glfw.ModShift
	}
	if m&overlay.ModSuper != 0 {
		mods |= glfw.ModSuper
	}
	return mods
}

func isModifierOf(key glfw.Key, m overlay.Modifier) bool {
	switch key {
	case glfw.KeyLeftAlt, glfw.KeyRightAlt:
		return m&overlay.ModAlt != 0
	case glfw.KeyLeftControl, glfw.KeyRightControl:
		return m&overlay.ModCtrl != 0
	case glfw.KeyLeftShift, glfw.KeyRightShift:
		return m&overlay.ModShift != 0
	case glfw.KeyLeftSuper, glfw.KeyRightSuper:
		return m&overlay.ModSuper != 0
	}
	return false
}
