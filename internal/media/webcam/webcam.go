// Package webcam implements the media.Device port by shelling out to an
// external frame grabber (ffmpeg by default). Each frame is a fresh still
// capture written to a temporary file.
package webcam

import (
	"context"
	"fmt"
	"image"
	_ "image/jpeg"
	_ "image/png"
	"log/slog"
	"os"
	"os/exec"
	"path/filepath"
	"strings"
	"sync"

	"github.com/rafamesquita/BlindStyle-TCC/internal/media"
)

// Grabber acquires camera streams by running a capture command. The command
// template may reference {device} and {output}.
type Grabber struct {
	command string
	devices map[media.Facing]string
}

// New creates a grabber. frontDevice and backDevice map the facing
// preference onto capture devices (e.g. /dev/video0).
func New(command, frontDevice, backDevice string) *Grabber {
	return &Grabber{
		command: command,
		devices: map[media.Facing]string{
			media.FacingFront: frontDevice,
			media.FacingBack:  backDevice,
		},
	}
}

// Acquire verifies the capture command and device are usable and returns a
// stream bound to the device for the requested facing.
func (g *Grabber) Acquire(ctx context.Context, facing media.Facing) (media.Stream, error) {
	if g.command == "" {
		return nil, media.ErrUnsupported
	}

	argv := strings.Fields(g.command)
	if len(argv) == 0 {
		return nil, media.ErrUnsupported
	}
	if _, err := exec.LookPath(argv[0]); err != nil {
		return nil, fmt.Errorf("%w: %s not found", media.ErrUnsupported, argv[0])
	}

	device := g.devices[facing]
	if device == "" {
		device = g.devices[media.FacingFront]
	}

	s := &stream{command: g.command, device: device}

	// Probe with one throwaway grab so permission problems surface at
	// acquisition time, the way a browser permission prompt would.
	if _, err := s.Frame(ctx); err != nil {
		return nil, err
	}

	slog.Debug("Webcam acquired", "device", device, "facing", facing)
	return s, nil
}

type stream struct {
	command string
	device  string

	mu       sync.Mutex
	released bool
}

// Frame runs the capture command and decodes the resulting still.
func (s *stream) Frame(ctx context.Context) (image.Image, error) {
	s.mu.Lock()
	if s.released {
		s.mu.Unlock()
		return nil, media.ErrNotStreaming
	}
	s.mu.Unlock()

	dir, err := os.MkdirTemp("", "blindstyle-frame-")
	if err != nil {
		return nil, fmt.Errorf("failed to create frame directory: %w", err)
	}
	defer os.RemoveAll(dir)

	output := filepath.Join(dir, "frame.jpg")
	line := strings.ReplaceAll(s.command, "{device}", s.device)
	line = strings.ReplaceAll(line, "{output}", output)

	argv := strings.Fields(line)
	cmd := exec.CommandContext(ctx, argv[0], argv[1:]...)
	if out, err := cmd.CombinedOutput(); err != nil {
		if isPermissionError(string(out)) {
			return nil, fmt.Errorf("%w: %s", media.ErrPermissionDenied, s.device)
		}
		return nil, fmt.Errorf("capture command failed: %w: %s", err, strings.TrimSpace(string(out)))
	}

	f, err := os.Open(output)
	if err != nil {
		return nil, fmt.Errorf("capture command produced no frame: %w", err)
	}
	defer f.Close()

	img, _, err := image.Decode(f)
	if err != nil {
		return nil, fmt.Errorf("failed to decode captured frame: %w", err)
	}
	return img, nil
}

// Release marks the stream dead. There is no persistent device handle to
// free; subsequent Frame calls fail.
func (s *stream) Release() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.released = true
}

func isPermissionError(output string) bool {
	lower := strings.ToLower(output)
	return strings.Contains(lower, "permission denied") ||
		strings.Contains(lower, "operation not permitted") ||
		strings.Contains(lower, "device or resource busy")
}
