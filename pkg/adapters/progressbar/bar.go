// Package progressbar shows sampling progress on a terminal through
// github.com/schollz/progressbar/v3.
package progressbar

import (
	"fmt"
	"io"
	"os"
	"time"

	"github.com/ideamans/go-l10n"
	"github.com/mattn/go-isatty"
	pb "github.com/schollz/progressbar/v3"

	"github.com/user/moviesigdb/pkg/ports"
)

// DefaultLabel is shown in front of the bar.
const DefaultLabel = "Processing Video"

const barWidth = 30

// Bar adapts a schollz progress bar to ports.ProgressFunc. The underlying
// bar is created on the first update, when the planned total is known.
type Bar struct {
	out      io.Writer
	label    string
	throttle time.Duration
	enabled  bool
	bar      *pb.ProgressBar
}

// New creates a bar that always draws to out and redraws on every update.
func New(out io.Writer, label string) *Bar {
	return &Bar{out: out, label: label, enabled: true}
}

// NewStderr creates a bar on stderr that draws only when stderr is a terminal.
func NewStderr() *Bar {
	b := New(os.Stderr, l10n.T(DefaultLabel))
	b.enabled = isatty.IsTerminal(os.Stderr.Fd()) || isatty.IsCygwinTerminal(os.Stderr.Fd())
	b.throttle = 65 * time.Millisecond
	return b
}

// Enabled reports whether the bar draws anything.
func (b *Bar) Enabled() bool {
	return b.enabled
}

// Func returns the bar as a ports.ProgressFunc.
func (b *Bar) Func() ports.ProgressFunc {
	return b.Update
}

// Update records that sample index of total has been attempted.
func (b *Bar) Update(index, total int) {
	if !b.enabled || total <= 0 {
		return
	}
	if b.bar == nil {
		b.bar = b.newBar(total)
	}
	_ = b.bar.Set(min(index+1, total))
}

func (b *Bar) newBar(total int) *pb.ProgressBar {
	return pb.NewOptions(total,
		pb.OptionSetWriter(b.out),
		pb.OptionSetDescription(b.label),
		pb.OptionSetWidth(barWidth),
		pb.OptionShowCount(),
		pb.OptionSetPredictTime(false),
		pb.OptionThrottle(b.throttle),
		pb.OptionSetTheme(pb.Theme{
			Saucer:        "#",
			SaucerPadding: ".",
			BarStart:      "[",
			BarEnd:        "]",
		}),
	)
}

// Finish completes the bar and ends its line. Sampling may stop early, so
// the final state shows what was reached. It is a no-op when nothing was drawn.
func (b *Bar) Finish() {
	if b.bar == nil {
		return
	}
	_ = b.bar.Exit()
	fmt.Fprintln(b.out)
	b.bar = nil
}
