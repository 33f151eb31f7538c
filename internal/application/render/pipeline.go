// Package render drives a rendering engine through the load, settle,
// measure and export protocol that sizes a PDF page to its content.
package render

import (
	"context"
	"encoding/base64"
	"errors"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/sangkips/docgen-api/internal/domain/enum"
	"github.com/sangkips/docgen-api/pkg/apperror"
)

// Config is the renderer setup shared by every request
type Config struct {
	Viewport      Viewport
	PageWidth     int
	RootSelector  string
	SettleTimeout time.Duration
	ExportTimeout time.Duration
	// HeightOffsets are added to the measured content height per variant
	HeightOffsets map[enum.DocumentVariant]int
}

// DefaultConfig matches the stock document templates
func DefaultConfig() Config {
	return Config{
		Viewport:      Viewport{Width: 800, Height: 1000},
		PageWidth:     786,
		RootSelector:  ".document-container",
		SettleTimeout: 60 * time.Second,
		ExportTimeout: 60 * time.Second,
		HeightOffsets: map[enum.DocumentVariant]int{
			enum.DocumentVariantQuotation:    -5,
			enum.DocumentVariantInvoice:      -5,
			enum.DocumentVariantDeliveryNote: 10,
		},
	}
}

// Request is one document to render
type Request struct {
	Variant enum.DocumentVariant
	Name    string
	HTML    string
}

// Result is a successfully exported page
type Result struct {
	PDF      []byte
	Height   int
	Geometry Geometry
	States   []State
}

// Base64 returns the PDF in standard base64 encoding
func (r *Result) Base64() string {
	return base64.StdEncoding.EncodeToString(r.PDF)
}

// Pipeline renders documents through an Engine
type Pipeline struct {
	engine Engine
	cfg    Config
	logger *zap.Logger
}

// NewPipeline creates a pipeline; zero config fields fall back to DefaultConfig
func NewPipeline(engine Engine, cfg Config, logger *zap.Logger) *Pipeline {
	def := DefaultConfig()
	if cfg.Viewport.Width <= 0 || cfg.Viewport.Height <= 0 {
		cfg.Viewport = def.Viewport
	}
	if cfg.PageWidth <= 0 {
		cfg.PageWidth = def.PageWidth
	}
	if cfg.RootSelector == "" {
		cfg.RootSelector = def.RootSelector
	}
	if cfg.SettleTimeout <= 0 {
		cfg.SettleTimeout = def.SettleTimeout
	}
	if cfg.ExportTimeout <= 0 {
		cfg.ExportTimeout = def.ExportTimeout
	}
	if cfg.HeightOffsets == nil {
		cfg.HeightOffsets = def.HeightOffsets
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Pipeline{engine: engine, cfg: cfg, logger: logger}
}

// Config returns the effective configuration
func (p *Pipeline) Config() Config {
	return p.cfg
}

// Render runs one session to completion. Caller cancellation is ignored once
// rendering starts; only the configured timeouts bound the waits. The
// session is closed on every return path and no bytes are returned on error.
//
// TODO: bound the number of concurrent browser sessions with a semaphore.
func (p *Pipeline) Render(ctx context.Context, req Request) (result *Result, err error) {
	ctx = context.WithoutCancel(ctx)
	log := p.logger.With(zap.String("variant", req.Variant.String()), zap.String("document", req.Name))
	machine := NewMachine()
	started := time.Now()

	session, err := p.engine.Launch(ctx)
	if err != nil {
		p.advance(log, machine, StateFailed)
		log.Error("renderer launch failed", zap.Error(err))
		return nil, classify(err)
	}
	p.advance(log, machine, StateLaunched)

	defer func() {
		if err != nil {
			failedAt := machine.State()
			p.advance(log, machine, StateFailed)
			log.Error("render failed", zap.String("state", failedAt.String()), zap.Error(err))
			result = nil
		}
		if cerr := session.Close(); cerr != nil {
			log.Warn("failed to close renderer session", zap.Error(cerr))
		}
		p.advance(log, machine, StateClosed)
		if result != nil {
			result.States = machine.History()
			log.Info("document rendered",
				zap.Int("height", result.Height),
				zap.Int("bytes", len(result.PDF)),
				zap.Duration("elapsed", time.Since(started)))
		}
	}()

	settleCtx, cancel := context.WithTimeout(ctx, p.cfg.SettleTimeout)
	defer cancel()

	if err := session.Load(settleCtx, req.HTML, p.cfg.Viewport); err != nil {
		return nil, classify(fmt.Errorf("load: %w", err))
	}
	p.advance(log, machine, StateLoaded)

	if err := session.AwaitSettled(settleCtx, p.cfg.RootSelector); err != nil {
		return nil, classify(fmt.Errorf("settle: %w", err))
	}
	p.advance(log, machine, StateSettled)

	exportCtx, cancelExport := context.WithTimeout(ctx, p.cfg.ExportTimeout)
	defer cancelExport()

	geometry, err := session.Measure(exportCtx, p.cfg.RootSelector)
	if err != nil {
		return nil, classify(fmt.Errorf("measure: %w", err))
	}
	height := geometry.ContentHeight() + p.cfg.HeightOffsets[req.Variant]
	if height <= 0 {
		return nil, apperror.NewRenderingFailure(fmt.Errorf("measured page height %d is not positive", height))
	}
	p.advance(log, machine, StateMeasured)

	pdf, err := session.Export(exportCtx, ExportOptions{
		WidthPx:         p.cfg.PageWidth,
		HeightPx:        height,
		PrintBackground: true,
		Scale:           1,
	})
	if err != nil {
		return nil, classify(fmt.Errorf("export: %w", err))
	}
	if len(pdf) == 0 {
		return nil, apperror.NewRenderingFailure(errors.New("export produced no bytes"))
	}
	p.advance(log, machine, StateExported)

	return &Result{PDF: pdf, Height: height, Geometry: geometry}, nil
}

func (p *Pipeline) advance(log *zap.Logger, m *Machine, to State) {
	from := m.State()
	if err := m.Transition(to); err != nil {
		log.Error("unexpected render transition", zap.Error(err))
		return
	}
	log.Debug("render state", zap.String("from", from.String()), zap.String("to", to.String()))
}

func classify(err error) error {
	if apperror.IsAppError(err) {
		return err
	}
	if errors.Is(err, context.DeadlineExceeded) {
		return apperror.NewRenderingTimeout(err)
	}
	return apperror.NewRenderingFailure(err)
}
