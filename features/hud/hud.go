// Package hud renders an always-on-top transparent overlay strip showing
// the current recording status, for use while a game occupies the screen.
package hud

import (
	"fmt"
	"os"
	"runtime"
	"sync"

	"github.com/go-gl/gl/all-core/gl"
	"github.com/go-gl/glfw/v3.3/glfw"
	"github.com/nullboundary/glfont"
)

func init() {
	runtime.LockOSThread()
}

const (
	defaultFontPath = "/usr/share/fonts/TTF/Roboto-Regular.ttf"
	fontScale       = 42
	barHeight       = 64
)

// Hud is the overlay. Construct with New, then run Start on its own
// goroutine; SetStatus may be called from any goroutine.
type Hud struct {
	mu     sync.Mutex
	status string
}

func New() *Hud {
	return &Hud{}
}

// SetStatus replaces the text shown in the overlay. An empty string makes
// the strip fully transparent.
func (h *Hud) SetStatus(status string) {
	h.mu.Lock()
	h.status = status
	h.mu.Unlock()
}

func (h *Hud) currentStatus() string {
	h.mu.Lock()
	defer h.mu.Unlock()

	return h.status
}

func fontPath() string {
	if p := os.Getenv("XLOGGER_HUD_FONT"); p != "" {
		return p
	}

	return defaultFontPath
}

// Start opens the overlay window and renders until the window closes.
// It locks its goroutine to the OS thread as required by GLFW.
func (h *Hud) Start() error {
	runtime.LockOSThread()

	if err := glfw.Init(); err != nil {
		return fmt.Errorf("failed to initialize glfw: %w", err)
	}
	defer glfw.Terminate()

	glfw.WindowHint(glfw.Resizable, glfw.False)
	glfw.WindowHint(glfw.Decorated, glfw.False)
	glfw.WindowHint(glfw.ContextVersionMajor, 3)
	glfw.WindowHint(glfw.ContextVersionMinor, 3)
	glfw.WindowHint(glfw.OpenGLProfile, glfw.OpenGLCoreProfile)
	glfw.WindowHint(glfw.OpenGLForwardCompatible, glfw.True)
	glfw.WindowHint(glfw.TransparentFramebuffer, glfw.True)
	glfw.WindowHint(glfw.Floating, glfw.True)

	_, _, w, _ := glfw.GetPrimaryMonitor().GetWorkarea()

	window, err := glfw.CreateWindow(w, barHeight, "xlogger", nil, nil)
	if err != nil {
		return fmt.Errorf("glfw.CreateWindow: %w", err)
	}

	x, _ := window.GetPos()
	window.SetPos(x, 0)
	window.MakeContextCurrent()
	glfw.SwapInterval(1)

	err = gl.Init()
	if err != nil {
		return fmt.Errorf("gl.Init: %w", err)
	}

	font, err := glfont.LoadFont(fontPath(), int32(fontScale), w, barHeight)
	if err != nil {
		return fmt.Errorf("glfont.LoadFont: %w", err)
	}

	gl.Enable(gl.DEPTH_TEST)
	gl.DepthFunc(gl.LESS)

	for !window.ShouldClose() {
		status := h.currentStatus()

		if status == "" {
			gl.ClearColor(0.0, 0.0, 0.0, 0.0)
		} else {
			gl.ClearColor(0.0, 0.0, 0.0, 0.5)
		}

		gl.Clear(gl.COLOR_BUFFER_BIT | gl.DEPTH_BUFFER_BIT)

		if status != "" {
			font.SetColor(1.0, 0.3, 0.3, 0.9)

			err = font.Printf(16, barHeight-16, 1.0, status)
			if err != nil {
				return fmt.Errorf("font.Printf: %w", err)
			}
		}

		window.SwapBuffers()
		glfw.PollEvents()
	}

	return nil
}
