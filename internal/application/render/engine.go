package render

import (
	"context"
	"math"
)

// Viewport is the browser window used while laying out a page
type Viewport struct {
	Width  int
	Height int
}

// Geometry is what Measure reports about the root container, in CSS pixels
type Geometry struct {
	ContainerTop    float64
	LastChildBottom float64
}

// ContentHeight is the distance from the container top to the bottom of
// its last child, rounded up
func (g Geometry) ContentHeight() int {
	return int(math.Ceil(g.LastChildBottom - g.ContainerTop))
}

// ExportOptions describe the single PDF page to print
type ExportOptions struct {
	WidthPx         int
	HeightPx        int
	PrintBackground bool
	Scale           float64
}

// Engine starts isolated rendering sessions
type Engine interface {
	Launch(ctx context.Context) (Session, error)
}

// Session is one private browser instance. Close must release every
// resource the session holds and is safe to call after any failure.
type Session interface {
	Load(ctx context.Context, html string, viewport Viewport) error
	AwaitSettled(ctx context.Context, rootSelector string) error
	Measure(ctx context.Context, rootSelector string) (Geometry, error)
	Export(ctx context.Context, opts ExportOptions) ([]byte, error)
	Close() error
}
