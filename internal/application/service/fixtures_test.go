package service

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/sangkips/docgen-api/internal/application/render"
	"github.com/sangkips/docgen-api/internal/domain/entity"
	"github.com/sangkips/docgen-api/internal/domain/enum"
	"github.com/sangkips/docgen-api/internal/infrastructure/database"
	"github.com/sangkips/docgen-api/internal/infrastructure/export"
	"github.com/sangkips/docgen-api/internal/infrastructure/htmlview"
	"github.com/sangkips/docgen-api/internal/infrastructure/repository"
	"github.com/sangkips/docgen-api/internal/infrastructure/storage"
)

const fakePDF = "%PDF-1.4 fake"

// fakePages stands in for the browser pipeline and records every page it is given
type fakePages struct {
	err      error
	requests []render.Request
}

func (f *fakePages) Render(ctx context.Context, req render.Request) (*render.Result, error) {
	f.requests = append(f.requests, req)
	if f.err != nil {
		return nil, f.err
	}
	return &render.Result{PDF: []byte(fakePDF), Height: 700}, nil
}

func (f *fakePages) lastHTML(t *testing.T) string {
	t.Helper()
	require.NotEmpty(t, f.requests, "no page was rendered")
	return f.requests[len(f.requests)-1].HTML
}

type fixture struct {
	db        *gorm.DB
	pages     *fakePages
	store     *storage.AssetStore
	generator *DocumentGenerator
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	log := zap.NewNop()

	db, err := database.NewSQLiteDB(filepath.Join(t.TempDir(), "svc.db"), false, log)
	require.NoError(t, err)
	require.NoError(t, database.AutoMigrate(db, log))

	store := storage.NewAssetStore(t.TempDir(), log)
	views, err := htmlview.NewRenderer(store, htmlview.Branding{Name: "Test Co", CurrencyLabel: "SAR"}, ".document-container")
	require.NoError(t, err)

	pages := &fakePages{}
	return &fixture{
		db:        db,
		pages:     pages,
		store:     store,
		generator: NewDocumentGenerator(views, pages, export.NewWorkbookWriter(store, log), log),
	}
}

func (f *fixture) user(t *testing.T, name, email string, role enum.UserRole) Actor {
	t.Helper()
	u := &entity.User{Name: name, Email: email, Password: "x", Role: role}
	require.NoError(t, repository.NewUserRepository(f.db).Create(context.Background(), u))
	return Actor{ID: u.ID, Name: u.Name, Role: u.Role}
}
