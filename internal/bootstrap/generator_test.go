package bootstrap

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sangkips/docgen-api/internal/config"
	"github.com/sangkips/docgen-api/internal/domain/enum"
)

func TestPipelineConfig(t *testing.T) {
	cfg := config.RendererConfig{
		ViewportWidth:  800,
		ViewportHeight: 1000,
		PageWidth:      786,
		RootSelector:   ".document-container",
		SettleTimeout:  30 * time.Second,
		ExportTimeout:  45 * time.Second,
		OffsetQuote:    -5,
		OffsetInvoice:  -4,
		OffsetDelivery: 10,
	}

	got := PipelineConfig(&cfg)

	assert.Equal(t, 800, got.Viewport.Width)
	assert.Equal(t, 1000, got.Viewport.Height)
	assert.Equal(t, 786, got.PageWidth)
	assert.Equal(t, 30*time.Second, got.SettleTimeout)
	assert.Equal(t, 45*time.Second, got.ExportTimeout)
	assert.Equal(t, -5, got.HeightOffsets[enum.DocumentVariantQuotation])
	assert.Equal(t, -4, got.HeightOffsets[enum.DocumentVariantInvoice])
	assert.Equal(t, 10, got.HeightOffsets[enum.DocumentVariantDeliveryNote])
}

func TestNewStack(t *testing.T) {
	cfg := &config.Config{
		Storage:  config.StorageConfig{AssetsPath: t.TempDir()},
		Renderer: config.RendererConfig{},
		Brand:    config.BrandConfig{Name: "Acme", CurrencyLabel: "SAR"},
	}

	stack, err := NewStack(cfg, nil)
	require.NoError(t, err)

	assert.NotNil(t, stack.Assets)
	assert.NotNil(t, stack.Generator)
	// zero renderer settings fall back to the pipeline defaults
	assert.Equal(t, 786, stack.Pipeline.Config().PageWidth)
	assert.Equal(t, 60*time.Second, stack.Pipeline.Config().SettleTimeout)
}

func TestNewStack_RejectsBadSelector(t *testing.T) {
	cfg := &config.Config{
		Storage:  config.StorageConfig{AssetsPath: t.TempDir()},
		Renderer: config.RendererConfig{RootSelector: "#page"},
	}

	_, err := NewStack(cfg, nil)
	assert.Error(t, err)
}
