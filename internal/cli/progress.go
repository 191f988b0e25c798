package cli

import (
	"io"
	"log/slog"

	"github.com/schollz/progressbar/v3"
)

// NewUploadProgress returns a factory for per-upload progress bars written
// to w, suitable for api.WithUploadProgress.
func NewUploadProgress(w io.Writer) func(size int64) io.Writer {
	return func(size int64) io.Writer {
		return progressbar.NewOptions64(size,
			progressbar.OptionSetWriter(w),
			progressbar.OptionEnableColorCodes(true),
			progressbar.OptionShowBytes(true),
			progressbar.OptionSetWidth(30),
			progressbar.OptionSetDescription("[cyan]Enviando radiografía...[reset]"),
			progressbar.OptionSetTheme(progressbar.Theme{
				Saucer:        "[green]=[reset]",
				SaucerHead:    "[green]>[reset]",
				SaucerPadding: " ",
				BarStart:      "[",
				BarEnd:        "]",
			}),
			progressbar.OptionOnCompletion(func() {
				if _, err := io.WriteString(w, "\n"); err != nil {
					slog.Warn("Failed to write newline after progress bar", "error", err)
				}
			}),
		)
	}
}
