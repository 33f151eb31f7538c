// Package bootstrap builds the document generation stack from configuration.
// It is shared by the HTTP server and the command line tool.
package bootstrap

import (
	"fmt"

	"go.uber.org/zap"

	"github.com/sangkips/docgen-api/internal/application/render"
	"github.com/sangkips/docgen-api/internal/application/service"
	"github.com/sangkips/docgen-api/internal/config"
	"github.com/sangkips/docgen-api/internal/domain/enum"
	"github.com/sangkips/docgen-api/internal/infrastructure/export"
	"github.com/sangkips/docgen-api/internal/infrastructure/htmlview"
	"github.com/sangkips/docgen-api/internal/infrastructure/renderer"
	"github.com/sangkips/docgen-api/internal/infrastructure/storage"
)

// Stack is the wired generation pipeline
type Stack struct {
	Assets    *storage.AssetStore
	Pipeline  *render.Pipeline
	Generator *service.DocumentGenerator
}

// PipelineConfig maps renderer settings onto the render pipeline
func PipelineConfig(cfg *config.RendererConfig) render.Config {
	return render.Config{
		Viewport:      render.Viewport{Width: cfg.ViewportWidth, Height: cfg.ViewportHeight},
		PageWidth:     cfg.PageWidth,
		RootSelector:  cfg.RootSelector,
		SettleTimeout: cfg.SettleTimeout,
		ExportTimeout: cfg.ExportTimeout,
		HeightOffsets: map[enum.DocumentVariant]int{
			enum.DocumentVariantQuotation:    cfg.OffsetQuote,
			enum.DocumentVariantInvoice:      cfg.OffsetInvoice,
			enum.DocumentVariantDeliveryNote: cfg.OffsetDelivery,
		},
	}
}

// Branding maps brand settings onto the HTML view
func Branding(cfg *config.BrandConfig) htmlview.Branding {
	return htmlview.Branding{
		Name:            cfg.Name,
		LogoRef:         cfg.LogoRef,
		SealRef:         cfg.SealRef,
		FooterRef:       cfg.FooterRef,
		CurrencyIconRef: cfg.CurrencyIconRef,
		CurrencyLabel:   cfg.CurrencyLabel,
	}
}

// NewStack wires asset storage, templates, the Chrome engine and the
// spreadsheet exporter into a DocumentGenerator
func NewStack(cfg *config.Config, logger *zap.Logger) (*Stack, error) {
	if logger == nil {
		logger = zap.NewNop()
	}

	assets := storage.NewAssetStore(cfg.Storage.AssetsPath, logger)

	engine := renderer.NewRodEngine(renderer.RodConfig{
		Bin:         cfg.Renderer.Bin,
		Headless:    cfg.Renderer.Headless,
		NoSandbox:   cfg.Renderer.NoSandbox,
		NetworkIdle: cfg.Renderer.NetworkIdle,
	}, logger.Named("chrome"))
	pipeline := render.NewPipeline(engine, PipelineConfig(&cfg.Renderer), logger.Named("render"))

	// the container class must match the selector the pipeline measures
	views, err := htmlview.NewRenderer(assets, Branding(&cfg.Brand), pipeline.Config().RootSelector)
	if err != nil {
		return nil, fmt.Errorf("failed to prepare document templates: %w", err)
	}

	workbooks := export.NewWorkbookWriter(assets, logger.Named("xlsx"))

	return &Stack{
		Assets:    assets,
		Pipeline:  pipeline,
		Generator: service.NewDocumentGenerator(views, pipeline, workbooks, logger),
	}, nil
}
