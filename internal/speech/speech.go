// Package speech is the narration boundary. Synthesis itself is external;
// the client only fires text at it and never waits.
package speech

import (
	"log/slog"
	"os/exec"
	"strings"
)

// Speaker narrates text to the user. Implementations must not block the
// caller.
type Speaker interface {
	Speak(text string)
}

// Command speaks by running an external text-to-speech command with the text
// appended as the final argument.
type Command struct {
	command string
}

// NewCommand creates a command-backed speaker. An empty command yields a
// silent speaker.
func NewCommand(command string) Speaker {
	if command == "" {
		return Noop{}
	}
	return &Command{command: command}
}

// Speak runs the TTS command in the background. Failures are logged and
// dropped; narration is fire-and-forget.
func (c *Command) Speak(text string) {
	if text == "" {
		return
	}
	argv := strings.Fields(c.command)
	go func() {
		cmd := exec.Command(argv[0], append(argv[1:], text)...)
		if err := cmd.Run(); err != nil {
			slog.Debug("Speech command failed", "err", err)
		}
	}()
}

// Noop is a speaker that says nothing.
type Noop struct{}

func (Noop) Speak(string) {}
