// Package media owns camera acquisition and the conversion of a video frame
// or a user-picked file into an image payload. The actual capture hardware
// sits behind the Device port so workflows never touch a concrete device.
package media

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"image"
	"image/jpeg"
	"log/slog"
	"net/http"
	"os"
	"strings"
	"sync"
	"time"
)

// Facing is the camera facing preference.
type Facing string

const (
	FacingFront Facing = "front"
	FacingBack  Facing = "back"
)

// State is the capture controller lifecycle state.
type State int

const (
	StateIdle State = iota
	StateRequesting
	StateStreaming
	StateCaptured
)

func (s State) String() string {
	switch s {
	case StateIdle:
		return "idle"
	case StateRequesting:
		return "requesting"
	case StateStreaming:
		return "streaming"
	case StateCaptured:
		return "captured"
	}
	return "unknown"
}

var (
	// ErrPermissionDenied means the capture device refused access.
	ErrPermissionDenied = errors.New("camera access denied")
	// ErrUnsupported means no capture capability is available at all.
	ErrUnsupported = errors.New("camera capture not supported")
	// ErrNotStreaming means a frame was requested outside the Streaming state.
	ErrNotStreaming = errors.New("no active camera stream")
	// ErrNotImage means the selected file is not an image.
	ErrNotImage = errors.New("selected file is not an image")
)

// jpegQuality is the fixed encoding quality for captured frames.
const jpegQuality = 90

// DefaultErrorWindow is how long a transient camera error stays visible
// before it clears itself.
const DefaultErrorWindow = 2 * time.Second

// Stream is one live camera stream.
type Stream interface {
	// Frame returns the current frame at the stream's native resolution.
	Frame(ctx context.Context) (image.Image, error)
	// Release stops the stream and frees the device.
	Release()
}

// Device acquires camera streams for a facing preference.
type Device interface {
	Acquire(ctx context.Context, facing Facing) (Stream, error)
}

// CapturedImage is a single immutable image payload ready for feature
// extraction. Source records whether it came from the camera or a file.
type CapturedImage struct {
	Bytes    []byte
	MIMEType string
	Source   string
}

// Controller drives the camera lifecycle: Idle -> Requesting -> Streaming ->
// Captured, with Idle reachable from anywhere via StopCamera. At most one
// stream is live at a time.
type Controller struct {
	device      Device
	errorWindow time.Duration

	mu           sync.Mutex
	state        State
	stream       Stream
	startGen     uint64
	transientErr string
	errTimer     *time.Timer
}

// NewController creates a controller on top of the given device. A nil
// device models a host without capture capability.
func NewController(device Device) *Controller {
	return &Controller{
		device:      device,
		errorWindow: DefaultErrorWindow,
	}
}

// SetErrorWindow overrides the transient-error display window. Intended for
// tests.
func (c *Controller) SetErrorWindow(d time.Duration) {
	c.errorWindow = d
}

// State returns the current lifecycle state.
func (c *Controller) State() State {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.state
}

// TransientError returns the current user-facing camera error, or "" when
// none is displayed.
func (c *Controller) TransientError() string {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.transientErr
}

// StartCamera requests a live stream with the given facing preference. Any
// previous stream is stopped first. On denial or missing capture capability
// the controller returns to Idle and reports a transient error that clears
// itself after the error window.
func (c *Controller) StartCamera(ctx context.Context, facing Facing) error {
	c.mu.Lock()
	if c.stream != nil {
		c.stream.Release()
		c.stream = nil
	}
	c.transientErr = ""

	if c.device == nil {
		c.state = StateIdle
		c.setTransientErrorLocked("Seu dispositivo não suporta acesso à câmera.")
		c.mu.Unlock()
		return ErrUnsupported
	}

	c.startGen++
	gen := c.startGen
	c.state = StateRequesting
	device := c.device
	c.mu.Unlock()

	stream, err := device.Acquire(ctx, facing)

	c.mu.Lock()
	defer c.mu.Unlock()

	// A newer start or a stop superseded this request while the device was
	// being acquired; its stream must not stay live.
	if gen != c.startGen {
		if stream != nil {
			stream.Release()
		}
		return nil
	}

	if err != nil {
		c.state = StateIdle
		c.setTransientErrorLocked("Não foi possível acessar a câmera.")
		slog.Warn("Camera acquisition failed", "facing", facing, "err", err)
		if errors.Is(err, ErrUnsupported) {
			return ErrUnsupported
		}
		return fmt.Errorf("%w: %v", ErrPermissionDenied, err)
	}

	c.stream = stream
	c.state = StateStreaming
	slog.Debug("Camera stream started", "facing", facing)
	return nil
}

// StopCamera releases the active stream and returns to Idle. Calling it with
// no active stream is a no-op.
func (c *Controller) StopCamera() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.stopLocked()
}

func (c *Controller) stopLocked() {
	c.startGen++
	if c.stream != nil {
		c.stream.Release()
		c.stream = nil
	}
	c.state = StateIdle
	c.transientErr = ""
	if c.errTimer != nil {
		c.errTimer.Stop()
		c.errTimer = nil
	}
}

// CaptureFrame grabs the current frame, encodes it as JPEG at the fixed
// quality, and transitions to Captured. Outside the Streaming state it is a
// no-op and returns ErrNotStreaming.
func (c *Controller) CaptureFrame(ctx context.Context) (*CapturedImage, error) {
	c.mu.Lock()
	if c.state != StateStreaming || c.stream == nil {
		c.mu.Unlock()
		return nil, ErrNotStreaming
	}
	stream := c.stream
	c.mu.Unlock()

	frame, err := stream.Frame(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to capture frame: %w", err)
	}

	var buf bytes.Buffer
	if err := jpeg.Encode(&buf, frame, &jpeg.Options{Quality: jpegQuality}); err != nil {
		return nil, fmt.Errorf("failed to encode frame: %w", err)
	}

	c.mu.Lock()
	// The stream is paused, not released: review may still return to it.
	if c.state == StateStreaming {
		c.state = StateCaptured
	}
	c.mu.Unlock()

	bounds := frame.Bounds()
	slog.Debug("Frame captured", "width", bounds.Dx(), "height", bounds.Dy(), "bytes", buf.Len())

	return &CapturedImage{
		Bytes:    buf.Bytes(),
		MIMEType: "image/jpeg",
		Source:   "camera",
	}, nil
}

// CaptureFromFile loads a user-selected image file without ever touching the
// camera. Non-image files are rejected before any decode attempt.
func (c *Controller) CaptureFromFile(path string) (*CapturedImage, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read image file: %w", err)
	}

	mimeType := http.DetectContentType(data)
	if !strings.HasPrefix(mimeType, "image/") {
		return nil, fmt.Errorf("%w: %s", ErrNotImage, mimeType)
	}

	slog.Debug("Image loaded from file", "path", path, "mime_type", mimeType, "bytes", len(data))

	return &CapturedImage{
		Bytes:    data,
		MIMEType: mimeType,
		Source:   "file",
	}, nil
}

// Close releases the camera unconditionally. Owning workflows call it on
// every exit path.
func (c *Controller) Close() {
	c.StopCamera()
}

func (c *Controller) setTransientErrorLocked(msg string) {
	c.transientErr = msg
	if c.errTimer != nil {
		c.errTimer.Stop()
	}
	c.errTimer = time.AfterFunc(c.errorWindow, func() {
		c.mu.Lock()
		defer c.mu.Unlock()
		c.transientErr = ""
	})
}
