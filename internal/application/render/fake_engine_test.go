package render

import (
	"context"
	"errors"
	"sync"
)

// scriptedEngine hands out scriptedSessions that fail at a chosen stage
type scriptedEngine struct {
	mu        sync.Mutex
	launchErr error
	session   *scriptedSession
	launched  int
}

func (e *scriptedEngine) Launch(ctx context.Context) (Session, error) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.launched++
	if e.launchErr != nil {
		return nil, e.launchErr
	}
	return e.session, nil
}

type scriptedSession struct {
	mu sync.Mutex

	loadErr    error
	settleErr  error
	measureErr error
	exportErr  error
	// blockSettle waits for the settle context to expire
	blockSettle bool

	geometry Geometry
	pdf      []byte

	loadedHTML string
	viewport   Viewport
	exported   ExportOptions
	closed     int
	ctxErrSeen error
}

func newScriptedSession() *scriptedSession {
	return &scriptedSession{
		geometry: Geometry{ContainerTop: 10, LastChildBottom: 1210.4},
		pdf:      []byte("%PDF-1.4 fake"),
	}
}

func (s *scriptedSession) Load(ctx context.Context, html string, viewport Viewport) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.loadedHTML = html
	s.viewport = viewport
	return s.loadErr
}

func (s *scriptedSession) AwaitSettled(ctx context.Context, rootSelector string) error {
	if s.blockSettle {
		<-ctx.Done()
		return ctx.Err()
	}
	if ctx.Err() != nil {
		s.ctxErrSeen = ctx.Err()
		return ctx.Err()
	}
	return s.settleErr
}

func (s *scriptedSession) Measure(ctx context.Context, rootSelector string) (Geometry, error) {
	return s.geometry, s.measureErr
}

func (s *scriptedSession) Export(ctx context.Context, opts ExportOptions) ([]byte, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.exported = opts
	if s.exportErr != nil {
		return nil, s.exportErr
	}
	return s.pdf, nil
}

func (s *scriptedSession) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.closed++
	return errors.New("already gone")
}
