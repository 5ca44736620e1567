// Package browser drives a real Chromium through rod and implements
// page.Driver on top of it.
package browser

import (
	"context"
	"fmt"
	"time"

	"github.com/go-rod/rod"
	"github.com/go-rod/rod/lib/launcher"
	"github.com/go-rod/rod/lib/proto"
	"github.com/sirupsen/logrus"
)

// Options configures the browser launch
type Options struct {
	Width      int
	Height     int
	Headless   bool
	ProfileDir string // Chrome/Chromium profile directory for authenticated sessions
	Logger     logrus.FieldLogger
}

// Browser wraps the rod browser and its single working page
type Browser struct {
	browser *rod.Browser
	page    *rod.Page
	log     logrus.FieldLogger
}

// Launch starts Chromium and opens a blank page
func Launch(opts Options) (*Browser, error) {
	log := opts.Logger
	if log == nil {
		log = logrus.StandardLogger()
	}

	path, _ := launcher.LookPath()
	l := launcher.New().Bin(path).Headless(opts.Headless)
	if opts.ProfileDir != "" {
		l = l.UserDataDir(opts.ProfileDir)
	}

	u, err := l.Launch()
	if err != nil {
		return nil, fmt.Errorf("launch browser: %w", err)
	}
	b := rod.New().ControlURL(u)
	if err := b.Connect(); err != nil {
		return nil, fmt.Errorf("connect browser: %w", err)
	}

	p, err := b.Page(proto.TargetCreateTarget{URL: ""})
	if err != nil {
		_ = b.Close()
		return nil, fmt.Errorf("open page: %w", err)
	}
	if opts.Width > 0 && opts.Height > 0 {
		err = p.SetViewport(&proto.EmulationSetDeviceMetricsOverride{
			Width:             opts.Width,
			Height:            opts.Height,
			DeviceScaleFactor: 1,
		})
		if err != nil {
			_ = b.Close()
			return nil, fmt.Errorf("set viewport: %w", err)
		}
	}

	log.WithFields(logrus.Fields{"headless": opts.Headless, "bin": path}).Debug("browser launched")
	return &Browser{browser: b, page: p, log: log}, nil
}

// Close cleans up browser resources
func (b *Browser) Close() {
	if b.page != nil {
		_ = b.page.Close()
	}
	if b.browser != nil {
		_ = b.browser.Close()
	}
}

// Page returns the underlying rod page
func (b *Browser) Page() *rod.Page {
	return b.page
}

// Driver returns a page.Driver bound to the working page
func (b *Browser) Driver() *Driver {
	return &Driver{page: b.page}
}

// Navigate opens url and waits for the load event and a short network idle
func (b *Browser) Navigate(ctx context.Context, url string) error {
	p := b.page.Context(ctx)
	if err := p.Navigate(url); err != nil {
		return fmt.Errorf("navigate %s: %w", url, err)
	}
	if err := p.WaitLoad(); err != nil {
		return fmt.Errorf("wait load %s: %w", url, err)
	}

	// Don't hang on persistent connections (WebSockets, polling).
	p.Timeout(5*time.Second).WaitRequestIdle(500*time.Millisecond, nil, nil, nil)()

	b.log.WithField("url", url).Debug("navigated")
	return nil
}

// Screenshot captures the visible viewport as PNG
func (b *Browser) Screenshot(ctx context.Context) ([]byte, error) {
	return b.page.Context(ctx).Screenshot(false, &proto.PageCaptureScreenshot{
		Format: proto.PageCaptureScreenshotFormatPng,
	})
}
