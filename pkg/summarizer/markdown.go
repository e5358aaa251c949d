package summarizer

import (
	"fmt"
	"strings"
	"time"

	"github.com/ideamans/go-l10n"
)

// MarkdownFormatter renders a Summary as a Markdown report.
type MarkdownFormatter struct {
	translate func(string) string
	version   string
}

// MarkdownOption configures a MarkdownFormatter.
type MarkdownOption func(*MarkdownFormatter)

// WithTranslator replaces the label translator (default: l10n.T).
func WithTranslator(t func(string) string) MarkdownOption {
	return func(f *MarkdownFormatter) {
		f.translate = t
	}
}

// WithVersion adds the tool version to the report footer.
func WithVersion(v string) MarkdownOption {
	return func(f *MarkdownFormatter) {
		f.version = v
	}
}

// NewMarkdownFormatter creates a new MarkdownFormatter.
func NewMarkdownFormatter(opts ...MarkdownOption) *MarkdownFormatter {
	f := &MarkdownFormatter{translate: l10n.T}
	for _, opt := range opts {
		opt(f)
	}
	return f
}

// Format implements Formatter.
func (f *MarkdownFormatter) Format(s *Summary) string {
	t := f.translate
	var b strings.Builder

	fmt.Fprintf(&b, "# %s\n\n", t("Recording Summary"))
	if s.RunID != "" {
		fmt.Fprintf(&b, "- %s: `%s`\n", t("Run ID"), s.RunID)
	}
	fmt.Fprintf(&b, "- %s: %s\n\n", t("Generated At"), s.GeneratedAt.Format(time.RFC3339))

	status := t("Completed")
	if s.Capture.Aborted {
		status = t("Aborted")
	}

	fmt.Fprintf(&b, "## %s\n\n", t("Result"))
	row := tableWriter(&b, t("Item"), t("Value"))
	row(t("Status"), status)
	if s.Capture.Error != "" {
		row(t("Error"), "`"+s.Capture.Error+"`")
	}
	row(t("Frames Submitted"), fmt.Sprintf("%d / %d", s.Capture.FramesSubmitted, s.Settings.FrameCount))
	row(t("Samples Written"), fmt.Sprintf("%d", s.Capture.SamplesWritten))
	row(t("Skipped Frames"), fmt.Sprintf("%d", s.Capture.SkippedFrames))
	row(t("Loop Ticks"), fmt.Sprintf("%d", s.Capture.Ticks))
	row(t("Timestamps"), fmt.Sprintf("%d .. %d µs", s.Capture.FirstPtsUs, s.Capture.LastPtsUs))
	row(t("Elapsed"), s.Capture.Elapsed.Round(time.Millisecond).String())
	b.WriteString("\n")

	fmt.Fprintf(&b, "## %s\n\n", t("Settings"))
	row = tableWriter(&b, t("Item"), t("Value"))
	row(t("Codec"), orNA(s.Settings.Codec))
	row(t("Surface"), orNA(s.Settings.Surface))
	row(t("Resolution"), fmt.Sprintf("%dx%d", s.Settings.Width, s.Settings.Height))
	row(t("Frame Rate"), fmt.Sprintf("%d fps", s.Settings.FrameRate))
	row(t("Bitrate"), fmt.Sprintf("%d kbps", s.Settings.BitRate/1000))
	row(t("Key Frame Interval"), fmt.Sprintf("%d s", s.Settings.IFrameInterval))
	row(t("End of Stream"), orNA(s.Settings.EOSMode))
	b.WriteString("\n")

	fmt.Fprintf(&b, "## %s\n\n", t("Video"))
	row = tableWriter(&b, t("Item"), t("Value"))
	row(t("Output"), orNA(s.Settings.OutputPath))
	row(t("File Size"), formatBytes(s.Video.FileSize))
	row(t("Payload Bytes"), formatBytes(s.Capture.BytesWritten))
	if s.Video.Probed {
		row(t("Sample Entry"), s.Video.Codec)
		row(t("Profile / Level"), fmt.Sprintf("%d / %d", s.Video.Profile, s.Video.Level))
		row(t("Samples"), fmt.Sprintf("%d (%d %s)", s.Video.Samples, s.Video.SyncSamples, t("sync")))
		row(t("Duration"), s.Video.Duration.Round(time.Millisecond).String())
	}

	if f.version != "" {
		fmt.Fprintf(&b, "\n---\nuirecord %s\n", f.version)
	}
	return b.String()
}

// tableWriter writes a two-column table header and returns a row writer.
func tableWriter(b *strings.Builder, left, right string) func(k, v string) {
	fmt.Fprintf(b, "| %s | %s |\n|---|---|\n", left, right)
	return func(k, v string) {
		fmt.Fprintf(b, "| %s | %s |\n", k, v)
	}
}

func orNA(s string) string {
	if s == "" {
		return "N/A"
	}
	return s
}

// formatBytes formats a byte count with binary units.
func formatBytes(n int64) string {
	const unit = 1024
	if n < unit {
		return fmt.Sprintf("%d B", n)
	}
	div, exp := int64(unit), 0
	for m := n / unit; m >= unit && exp < 2; m /= unit {
		div *= unit
		exp++
	}
	return fmt.Sprintf("%.2f %cB", float64(n)/float64(div), "KMG"[exp])
}

var _ Formatter = (*MarkdownFormatter)(nil)
