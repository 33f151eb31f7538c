package renderer

import (
	"context"
	"errors"
	"fmt"
	"io"
	"time"

	"github.com/go-rod/rod"
	"github.com/go-rod/rod/lib/launcher"
	"github.com/go-rod/rod/lib/launcher/flags"
	"github.com/go-rod/rod/lib/proto"
	"go.uber.org/zap"

	"github.com/sangkips/docgen-api/internal/application/render"
)

// CSS pixels per inch, used to convert page sizes for Chrome's print API
const pixelsPerInch = 96.0

// RodConfig configures how browser processes are started
type RodConfig struct {
	// Bin is the Chrome binary; empty lets rod find or download one
	Bin       string
	Headless  bool
	NoSandbox bool
	// NetworkIdle is how long the network must stay quiet after loading
	NetworkIdle time.Duration
	ExtraFlags  []string
}

// DefaultRodConfig starts headless Chrome without the setuid sandbox
func DefaultRodConfig() RodConfig {
	return RodConfig{
		Headless:    true,
		NoSandbox:   true,
		NetworkIdle: 500 * time.Millisecond,
	}
}

// RodEngine launches one headless Chrome per session
type RodEngine struct {
	cfg    RodConfig
	logger *zap.Logger
}

// NewRodEngine creates a Chrome engine
func NewRodEngine(cfg RodConfig, logger *zap.Logger) *RodEngine {
	if cfg.NetworkIdle <= 0 {
		cfg.NetworkIdle = DefaultRodConfig().NetworkIdle
	}
	return &RodEngine{cfg: cfg, logger: logger}
}

// Launch starts a private browser and opens a blank page in it
func (e *RodEngine) Launch(ctx context.Context) (render.Session, error) {
	l := launcher.New().Context(ctx).Headless(e.cfg.Headless)
	if e.cfg.Bin != "" {
		l = l.Bin(e.cfg.Bin)
	}
	if e.cfg.NoSandbox {
		l = l.NoSandbox(true).Set("disable-setuid-sandbox")
	}
	for _, f := range e.cfg.ExtraFlags {
		l = l.Set(flags.Flag(f))
	}

	controlURL, err := l.Launch()
	if err != nil {
		l.Cleanup()
		return nil, fmt.Errorf("failed to launch browser: %w", err)
	}

	browser := rod.New().ControlURL(controlURL).Context(ctx)
	if err := browser.Connect(); err != nil {
		l.Kill()
		l.Cleanup()
		return nil, fmt.Errorf("failed to connect to browser: %w", err)
	}

	page, err := browser.Page(proto.TargetCreateTarget{})
	if err != nil {
		_ = browser.Close()
		l.Kill()
		l.Cleanup()
		return nil, fmt.Errorf("failed to open page: %w", err)
	}

	e.logger.Debug("browser launched", zap.Int("pid", l.PID()))
	return &rodSession{
		launcher: l,
		browser:  browser,
		page:     page,
		idle:     e.cfg.NetworkIdle,
		logger:   e.logger,
	}, nil
}

type rodSession struct {
	launcher *launcher.Launcher
	browser  *rod.Browser
	page     *rod.Page
	idle     time.Duration
	logger   *zap.Logger
	closed   bool
}

func (s *rodSession) Load(ctx context.Context, html string, viewport render.Viewport) error {
	page := s.page.Context(ctx)
	if err := page.SetViewport(&proto.EmulationSetDeviceMetricsOverride{
		Width:             viewport.Width,
		Height:            viewport.Height,
		DeviceScaleFactor: 1,
	}); err != nil {
		return fmt.Errorf("failed to set viewport: %w", err)
	}

	waitIdle := page.WaitRequestIdle(s.idle, nil, nil, nil)
	if err := page.SetDocumentContent(html); err != nil {
		return fmt.Errorf("failed to set content: %w", err)
	}
	waitIdle()
	return ctx.Err()
}

func (s *rodSession) AwaitSettled(ctx context.Context, rootSelector string) error {
	page := s.page.Context(ctx)
	el, err := page.Element(rootSelector)
	if err != nil {
		return fmt.Errorf("root %q not found: %w", rootSelector, err)
	}
	if err := el.WaitVisible(); err != nil {
		return fmt.Errorf("root %q not visible: %w", rootSelector, err)
	}
	if _, err := page.Eval(`() => document.fonts.ready.then(() => true)`); err != nil {
		return fmt.Errorf("fonts not ready: %w", err)
	}
	return nil
}

const measureJS = `(selector) => {
	const root = document.querySelector(selector);
	if (!root) return null;
	const top = root.getBoundingClientRect().top;
	const last = root.lastElementChild || root;
	return { top: top, bottom: last.getBoundingClientRect().bottom };
}`

func (s *rodSession) Measure(ctx context.Context, rootSelector string) (render.Geometry, error) {
	res, err := s.page.Context(ctx).Eval(measureJS, rootSelector)
	if err != nil {
		return render.Geometry{}, fmt.Errorf("failed to measure: %w", err)
	}
	if res.Value.Nil() {
		return render.Geometry{}, fmt.Errorf("root %q disappeared before measuring", rootSelector)
	}
	return render.Geometry{
		ContainerTop:    res.Value.Get("top").Num(),
		LastChildBottom: res.Value.Get("bottom").Num(),
	}, nil
}

func (s *rodSession) Export(ctx context.Context, opts render.ExportOptions) ([]byte, error) {
	zero := 0.0
	scale := opts.Scale
	width := float64(opts.WidthPx) / pixelsPerInch
	height := float64(opts.HeightPx) / pixelsPerInch

	stream, err := s.page.Context(ctx).PDF(&proto.PagePrintToPDF{
		PaperWidth:        &width,
		PaperHeight:       &height,
		MarginTop:         &zero,
		MarginBottom:      &zero,
		MarginLeft:        &zero,
		MarginRight:       &zero,
		PrintBackground:   opts.PrintBackground,
		PreferCSSPageSize: false,
		Scale:             &scale,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to print pdf: %w", err)
	}

	data, err := io.ReadAll(stream)
	if err != nil {
		return nil, fmt.Errorf("failed to read pdf stream: %w", err)
	}
	return data, nil
}

// Close tears the browser down even if the page or connection is broken
func (s *rodSession) Close() error {
	if s.closed {
		return nil
	}
	s.closed = true

	var errs []error
	if err := s.page.Close(); err != nil {
		errs = append(errs, fmt.Errorf("close page: %w", err))
	}
	if err := s.browser.Close(); err != nil {
		errs = append(errs, fmt.Errorf("close browser: %w", err))
	}
	s.launcher.Kill()
	s.launcher.Cleanup()
	s.logger.Debug("browser closed")
	return errors.Join(errs...)
}
