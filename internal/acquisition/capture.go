package acquisition

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/exec"
	"strings"
)

// OutputPlaceholder is replaced by the capture file path in a capture command.
const OutputPlaceholder = "{output}"

// Capturer hands off to an external capture tool that writes one image to
// output.
type Capturer interface {
	Capture(ctx context.Context, output string) error
}

// CommandCapturer runs a configured shell-free command line to capture an
// image, for example "fswebcam -r 1280x720 --no-banner {output}". When the
// command has no placeholder the output path is appended.
type CommandCapturer struct {
	Stdout  io.Writer
	Stderr  io.Writer
	Command string
}

// Capture runs the command and waits for it to exit.
func (c CommandCapturer) Capture(ctx context.Context, output string) error {
	fields := strings.Fields(c.Command)
	if len(fields) == 0 {
		return fmt.Errorf("no capture command configured")
	}

	args := make([]string, 0, len(fields))
	substituted := false
	for _, f := range fields[1:] {
		if strings.Contains(f, OutputPlaceholder) {
			f = strings.ReplaceAll(f, OutputPlaceholder, output)
			substituted = true
		}
		args = append(args, f)
	}
	if !substituted {
		args = append(args, output)
	}

	cmd := exec.CommandContext(ctx, fields[0], args...)
	cmd.Stdout = c.Stdout
	cmd.Stderr = c.Stderr

	if err := cmd.Run(); err != nil {
		return fmt.Errorf("capture command %q failed: %w", fields[0], err)
	}

	info, err := os.Stat(output)
	if err != nil {
		return fmt.Errorf("capture produced no image: %w", err)
	}
	if info.Size() == 0 {
		return fmt.Errorf("capture produced an empty file")
	}
	return nil
}
