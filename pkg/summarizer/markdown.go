package summarizer

import (
	"fmt"
	"strings"
)

// Formatter renders a Summary as text.
type Formatter interface {
	Format(summary *Summary) string
}

// FormatFunc adapts a function to Formatter.
type FormatFunc func(summary *Summary) string

// Format calls f.
func (f FormatFunc) Format(summary *Summary) string {
	return f(summary)
}

// Translator translates a label key. It is typically l10n.T.
type Translator func(key string) string

// MarkdownFormatter renders a Summary as a Markdown report.
type MarkdownFormatter struct {
	translate Translator
	version   string
}

// MarkdownOption configures a MarkdownFormatter.
type MarkdownOption func(*MarkdownFormatter)

// WithTranslator sets the label translator.
func WithTranslator(t Translator) MarkdownOption {
	return func(f *MarkdownFormatter) {
		f.translate = t
	}
}

// WithVersion adds the tool version to the report footer.
func WithVersion(version string) MarkdownOption {
	return func(f *MarkdownFormatter) {
		f.version = version
	}
}

// NewMarkdownFormatter creates a MarkdownFormatter.
func NewMarkdownFormatter(opts ...MarkdownOption) *MarkdownFormatter {
	f := &MarkdownFormatter{
		translate: func(key string) string { return key },
	}
	for _, opt := range opts {
		opt(f)
	}
	return f
}

// Format implements Formatter.
func (f *MarkdownFormatter) Format(s *Summary) string {
	t := f.translate
	var b strings.Builder

	fmt.Fprintf(&b, "# %s\n\n", t("Barcode Summary"))
	fmt.Fprintf(&b, "%s: %s\n\n", t("Generated"), s.GeneratedAt.Format("2006-01-02 15:04:05 MST"))

	fmt.Fprintf(&b, "## %s\n\n", t("Video"))
	fmt.Fprintf(&b, "| %s | %s |\n|---|---|\n", t("Item"), t("Value"))
	fmt.Fprintf(&b, "| %s | %s |\n", t("Path"), escapeCell(s.Video.Path))
	if s.Video.Width > 0 && s.Video.Height > 0 {
		fmt.Fprintf(&b, "| %s | %dx%d |\n", t("Resolution"), s.Video.Width, s.Video.Height)
	}
	if s.Video.Codec != "" {
		fmt.Fprintf(&b, "| %s | %s |\n", t("Codec"), escapeCell(s.Video.Codec))
	}
	fmt.Fprintf(&b, "| %s | %.3f fps |\n", t("Frame Rate"), s.Video.FPS)
	fmt.Fprintf(&b, "| %s | %d |\n", t("Frames"), s.Video.FrameCount)
	if s.Video.Backend != "" {
		fmt.Fprintf(&b, "| %s | %s |\n", t("Backend"), s.Video.Backend)
	}
	b.WriteString("\n")

	fmt.Fprintf(&b, "## %s\n\n", t("Sampling"))
	fmt.Fprintf(&b, "| %s | %s |\n|---|---|\n", t("Item"), t("Value"))
	fmt.Fprintf(&b, "| %s | %.2f / s |\n", t("Rate"), s.Sampling.Rate)
	fmt.Fprintf(&b, "| %s | %.2f |\n", t("Interval (frames)"), s.Sampling.Interval)
	sampled := fmt.Sprintf("%d / %d", s.Sampling.Sampled, s.Sampling.Requested)
	if s.Sampling.Truncated {
		sampled += " (" + t("Truncated") + ")"
	}
	fmt.Fprintf(&b, "| %s | %s |\n\n", t("Sampled"), sampled)

	if s.Colors.Count > 0 {
		fmt.Fprintf(&b, "## %s\n\n", t("Colors"))
		fmt.Fprintf(&b, "| %s | %s |\n|---|---|\n", t("Item"), t("Value"))
		fmt.Fprintf(&b, "| %s | `%s` |\n", t("Mean"), s.Colors.Mean.Hex())
		fmt.Fprintf(&b, "| %s | `%s` |\n", t("Darkest"), s.Colors.Darkest.Hex())
		fmt.Fprintf(&b, "| %s | `%s` |\n", t("Brightest"), s.Colors.Brightest.Hex())
		fmt.Fprintf(&b, "| %s | %.2f |\n", t("Mean Saturation"), s.Colors.MeanSaturation)
		fmt.Fprintf(&b, "| %s | %.2f |\n\n", t("Mean Brightness"), s.Colors.MeanValue)
	}

	if len(s.Outputs) > 0 {
		fmt.Fprintf(&b, "## %s\n\n", t("Outputs"))
		fmt.Fprintf(&b, "| %s | %s | %s |\n|---|---|---|\n", t("Kind"), t("Path"), t("Size"))
		for _, o := range s.Outputs {
			fmt.Fprintf(&b, "| %s | %s | %s |\n", o.Kind, escapeCell(o.Path), formatBytes(o.FileSize))
		}
		b.WriteString("\n")
		for _, o := range s.Outputs {
			if o.Title != "" {
				fmt.Fprintf(&b, "%s: `%s`\n\n", t("Embedded Title"), o.Title)
			}
		}
	}

	if f.version != "" {
		fmt.Fprintf(&b, "---\n\nmoviesigdb %s\n", f.version)
	}

	return b.String()
}

func escapeCell(s string) string {
	return strings.ReplaceAll(s, "|", `\|`)
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
