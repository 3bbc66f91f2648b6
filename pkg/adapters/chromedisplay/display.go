// Package chromedisplay shows rendered images in a visible Chrome window using chromedp.
package chromedisplay

import (
	"context"
	"encoding/base64"
	"fmt"
	"html"
	"image"
	"time"

	"github.com/chromedp/cdproto/browser"
	"github.com/chromedp/cdproto/inspector"
	"github.com/chromedp/cdproto/page"
	"github.com/chromedp/chromedp"

	"github.com/user/moviesigdb/pkg/ports"
)

// pollInterval is how often the window is checked for being closed.
const pollInterval = 500 * time.Millisecond

// Options configures the display window.
type Options struct {
	ChromePath string
	Headless   bool // For tests; the window is never visible
}

// Display implements ports.Display with a Chrome window.
type Display struct {
	renderer ports.Renderer
	opts     Options
	logger   ports.Logger
}

// New creates a new Display.
func New(renderer ports.Renderer, opts Options, logger ports.Logger) *Display {
	return &Display{
		renderer: renderer,
		opts:     opts,
		logger:   logger.WithComponent("chromedisplay"),
	}
}

// Show opens a window with the image and blocks until the user closes it
// or ctx is done. ctx.Err() is returned in the latter case.
func (d *Display) Show(ctx context.Context, title string, img image.Image) error {
	data, err := d.renderer.EncodeImage(img, ports.FormatPNG, 0)
	if err != nil {
		return fmt.Errorf("encode image: %w", err)
	}

	chromePath := ResolveChromePath(d.opts.ChromePath)
	if chromePath == "" {
		return fmt.Errorf("chrome not found: please install Chrome/Chromium, set CHROME_PATH environment variable, or use --chrome-path option")
	}

	bounds := img.Bounds()
	width, height := windowSize(bounds.Dx(), bounds.Dy())

	chromedpOpts := []chromedp.ExecAllocatorOption{
		chromedp.NoFirstRun,
		chromedp.NoDefaultBrowserCheck,
		chromedp.ExecPath(chromePath),
		chromedp.WindowSize(width, height),
		chromedp.Flag("disable-extensions", true),
		chromedp.Flag("disable-sync", true),
		chromedp.Flag("disable-translate", true),
		chromedp.Flag("mute-audio", true),
		chromedp.Flag("no-sandbox", true),
		chromedp.Flag("disable-dev-shm-usage", true),
	}
	if d.opts.Headless {
		chromedpOpts = append(chromedpOpts, chromedp.Flag("headless", "new"))
	}

	allocCtx, allocCancel := chromedp.NewExecAllocator(ctx, chromedpOpts...)
	defer allocCancel()
	tabCtx, tabCancel := chromedp.NewContext(allocCtx)
	defer tabCancel()

	closed := make(chan struct{})
	chromedp.ListenTarget(tabCtx, func(ev interface{}) {
		if _, ok := ev.(*inspector.EventDetached); ok {
			select {
			case <-closed:
			default:
				close(closed)
			}
		}
	})

	d.logger.Debug("Opening display window: %s", title)

	document := buildPage(title, "data:image/png;base64,"+base64.StdEncoding.EncodeToString(data))
	if err := chromedp.Run(tabCtx,
		chromedp.Navigate("about:blank"),
		chromedp.ActionFunc(func(ctx context.Context) error {
			tree, err := page.GetFrameTree().Do(ctx)
			if err != nil {
				return err
			}
			return page.SetDocumentContent(tree.Frame.ID, document).Do(ctx)
		}),
		chromedp.ActionFunc(func(ctx context.Context) error {
			windowID, _, err := browser.GetWindowForTarget().Do(ctx)
			if err != nil {
				return nil // Headless has no window
			}
			return browser.SetWindowBounds(windowID, &browser.Bounds{
				Width:  int64(width),
				Height: int64(height),
			}).Do(ctx)
		}),
	); err != nil {
		if ctx.Err() != nil {
			return ctx.Err()
		}
		return fmt.Errorf("open window: %w", err)
	}

	ticker := time.NewTicker(pollInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-closed:
			return nil
		case <-tabCtx.Done():
			if ctx.Err() != nil {
				return ctx.Err()
			}
			return nil
		case <-ticker.C:
			var current string
			if err := chromedp.Run(tabCtx, chromedp.Title(&current)); err != nil {
				if ctx.Err() != nil {
					return ctx.Err()
				}
				return nil
			}
		}
	}
}

// windowSize adds room for the page margin and browser chrome.
func windowSize(imgWidth, imgHeight int) (int, int) {
	return max(imgWidth+64, 400), max(imgHeight+160, 300)
}

// buildPage returns an HTML document showing the image under the title.
func buildPage(title, dataURL string) string {
	escaped := html.EscapeString(title)
	return `<!DOCTYPE html>
<html>
<head>
<meta charset="utf-8">
<title>` + escaped + `</title>
<style>
body { margin: 16px; background: #fff; font-family: sans-serif; }
h1 { font-size: 16px; margin: 0 0 12px; }
img { display: block; image-rendering: pixelated; }
</style>
</head>
<body>
<h1>` + escaped + `</h1>
<img src="` + dataURL + `" alt="` + escaped + `">
</body>
</html>`
}

var _ ports.Display = (*Display)(nil)
