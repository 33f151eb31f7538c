package repository

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/sangkips/docgen-api/internal/domain/entity"
	"github.com/sangkips/docgen-api/internal/domain/enum"
	domainRepo "github.com/sangkips/docgen-api/internal/domain/repository"
	"github.com/sangkips/docgen-api/internal/infrastructure/database"
	"github.com/sangkips/docgen-api/pkg/pagination"
)

func setupDB(t *testing.T) *gorm.DB {
	t.Helper()
	db, err := database.NewSQLiteDB(filepath.Join(t.TempDir(), "repo.db"), false, zap.NewNop())
	require.NoError(t, err)
	require.NoError(t, database.AutoMigrate(db, zap.NewNop()))
	return db
}

func createUser(t *testing.T, repo domainRepo.UserRepository, name, email string, role enum.UserRole) *entity.User {
	t.Helper()
	user := &entity.User{Name: name, Email: email, Password: "x", Role: role}
	require.NoError(t, repo.Create(context.Background(), user))
	return user
}

func newQuotation(number, company string, owner uuid.UUID) *entity.Quotation {
	return &entity.Quotation{
		Number:      number,
		CompanyName: company,
		Date:        time.Date(2024, 3, 5, 0, 0, 0, 0, time.UTC),
		Items: []entity.LineItem{{
			Name:     "Cabinet",
			Quantity: 2,
			Price:    decimal.NewFromInt(500),
			SubItems: []entity.SubItem{{Name: "Handle", Quantity: 4, Price: decimal.NewFromInt(25)}},
		}},
		Terms:        []string{"Valid for 30 days"},
		PreparedByID: owner,
		FinancialSummary: entity.FinancialSummary{
			TotalPrice:  decimal.NewFromInt(1100),
			VATAmount:   decimal.NewFromInt(165),
			FinalAmount: decimal.NewFromInt(1265),
		},
	}
}

func TestQuotationRepository_CRUD(t *testing.T) {
	db := setupDB(t)
	ctx := context.Background()
	users := NewUserRepository(db)
	repo := NewQuotationRepository(db)

	owner := createUser(t, users, "Sara", "sara@example.com", enum.UserRoleStaff)
	q := newQuotation("Q-001", "Acme Trading", owner.ID)
	require.NoError(t, repo.Create(ctx, q))
	assert.NotEqual(t, uuid.Nil, q.ID)

	got, err := repo.GetByID(ctx, q.ID)
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.Equal(t, "Q-001", got.Number)
	require.Len(t, got.Items, 1)
	require.Len(t, got.Items[0].SubItems, 1)
	assert.Equal(t, "Handle", got.Items[0].SubItems[0].Name)
	assert.True(t, decimal.NewFromInt(1265).Equal(got.FinalAmount))
	require.NotNil(t, got.PreparedBy)
	assert.Equal(t, "Sara", got.PreparedBy.Name)

	byNumber, err := repo.GetByNumber(ctx, "Q-001")
	require.NoError(t, err)
	require.NotNil(t, byNumber)
	assert.Equal(t, q.ID, byNumber.ID)

	got.CompanyName = "Acme Holdings"
	require.NoError(t, repo.Update(ctx, got))
	updated, err := repo.GetByID(ctx, q.ID)
	require.NoError(t, err)
	assert.Equal(t, "Acme Holdings", updated.CompanyName)

	require.NoError(t, repo.Delete(ctx, q.ID))
	missing, err := repo.GetByID(ctx, q.ID)
	require.NoError(t, err)
	assert.Nil(t, missing)
}

func TestQuotationRepository_DuplicateNumber(t *testing.T) {
	db := setupDB(t)
	ctx := context.Background()
	owner := createUser(t, NewUserRepository(db), "Sara", "sara@example.com", enum.UserRoleStaff)
	repo := NewQuotationRepository(db)

	require.NoError(t, repo.Create(ctx, newQuotation("Q-001", "Acme", owner.ID)))
	assert.Error(t, repo.Create(ctx, newQuotation("Q-001", "Other", owner.ID)))
}

func TestQuotationRepository_ListFilters(t *testing.T) {
	db := setupDB(t)
	ctx := context.Background()
	users := NewUserRepository(db)
	repo := NewQuotationRepository(db)

	alice := createUser(t, users, "Alice", "alice@example.com", enum.UserRoleStaff)
	bob := createUser(t, users, "Bob", "bob@example.com", enum.UserRoleStaff)

	require.NoError(t, repo.Create(ctx, newQuotation("Q-100", "Acme Trading", alice.ID)))
	require.NoError(t, repo.Create(ctx, newQuotation("Q-101", "Globex", alice.ID)))
	require.NoError(t, repo.Create(ctx, newQuotation("Q-200", "Acme Steel", bob.ID)))

	t.Run("all owners", func(t *testing.T) {
		items, total, err := repo.List(ctx, &domainRepo.DocumentFilterParams{})
		require.NoError(t, err)
		assert.EqualValues(t, 3, total)
		assert.Len(t, items, 3)
	})

	t.Run("owner scope", func(t *testing.T) {
		items, total, err := repo.List(ctx, &domainRepo.DocumentFilterParams{OwnerID: &bob.ID})
		require.NoError(t, err)
		assert.EqualValues(t, 1, total)
		assert.Equal(t, "Q-200", items[0].Number)
	})

	t.Run("search is case insensitive", func(t *testing.T) {
		_, total, err := repo.List(ctx, &domainRepo.DocumentFilterParams{Search: "ACME"})
		require.NoError(t, err)
		assert.EqualValues(t, 2, total)
	})

	t.Run("search matches number", func(t *testing.T) {
		items, _, err := repo.List(ctx, &domainRepo.DocumentFilterParams{Search: "q-101"})
		require.NoError(t, err)
		require.Len(t, items, 1)
		assert.Equal(t, "Globex", items[0].CompanyName)
	})

	t.Run("pagination keeps total", func(t *testing.T) {
		items, total, err := repo.List(ctx, &domainRepo.DocumentFilterParams{
			Pagination: &pagination.PaginationParams{Page: 2, PerPage: 2},
		})
		require.NoError(t, err)
		assert.EqualValues(t, 3, total)
		assert.Len(t, items, 1)
	})
}

func TestInvoiceRepository_CRUD(t *testing.T) {
	db := setupDB(t)
	ctx := context.Background()
	owner := createUser(t, NewUserRepository(db), "Omar", "omar@example.com", enum.UserRoleStaff)
	repo := NewInvoiceRepository(db)

	inv := &entity.Invoice{
		Number:      "INV-9",
		CompanyName: "Initech",
		Date:        time.Date(2024, 1, 2, 0, 0, 0, 0, time.UTC),
		Items:       []entity.LineItem{{Name: "Desk", Quantity: 1, Price: decimal.NewFromInt(300)}},
		CreatedByID: owner.ID,
	}
	require.NoError(t, repo.Create(ctx, inv))

	got, err := repo.GetByNumber(ctx, "INV-9")
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.Equal(t, inv.ID, got.ID)

	items, total, err := repo.List(ctx, &domainRepo.DocumentFilterParams{OwnerID: &owner.ID})
	require.NoError(t, err)
	assert.EqualValues(t, 1, total)
	require.NotNil(t, items[0].CreatedBy)
	assert.Equal(t, "Omar", items[0].CreatedBy.Name)

	require.NoError(t, repo.Delete(ctx, inv.ID))
	gone, err := repo.GetByNumber(ctx, "INV-9")
	require.NoError(t, err)
	assert.Nil(t, gone)
}

func TestDeliveryNoteRepository_CRUD(t *testing.T) {
	db := setupDB(t)
	ctx := context.Background()
	owner := createUser(t, NewUserRepository(db), "Lina", "lina@example.com", enum.UserRoleStaff)
	repo := NewDeliveryNoteRepository(db)

	sig := "asset://signatures/receiver.png"
	note := &entity.DeliveryNote{
		Number:       "DN-1",
		CompanyName:  "Umbrella",
		Date:         time.Date(2024, 6, 1, 0, 0, 0, 0, time.UTC),
		Items:        []entity.DeliveryItem{{Description: "Chairs", Quantity: 12}},
		ReceivedBy:   "Khalid",
		SignatureRef: &sig,
		CreatedByID:  owner.ID,
		PreparedByID: owner.ID,
	}
	require.NoError(t, repo.Create(ctx, note))

	got, err := repo.GetByID(ctx, note.ID)
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.Equal(t, 12, got.Items[0].Quantity)
	require.NotNil(t, got.SignatureRef)
	assert.Equal(t, sig, *got.SignatureRef)
	require.NotNil(t, got.PreparedBy)

	_, total, err := repo.List(ctx, &domainRepo.DocumentFilterParams{Search: "dn-"})
	require.NoError(t, err)
	assert.EqualValues(t, 1, total)
}

func TestUserRepository(t *testing.T) {
	db := setupDB(t)
	ctx := context.Background()
	repo := NewUserRepository(db)

	createUser(t, repo, "Alice", "alice@example.com", enum.UserRoleAdmin)
	createUser(t, repo, "Bob", "bob@example.com", enum.UserRoleStaff)

	got, err := repo.GetByEmail(ctx, "  ALICE@example.com ")
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.True(t, got.IsAdmin())

	missing, err := repo.GetByEmail(ctx, "nobody@example.com")
	require.NoError(t, err)
	assert.Nil(t, missing)

	users, total, err := repo.List(ctx, nil, "bob")
	require.NoError(t, err)
	assert.EqualValues(t, 1, total)
	assert.Equal(t, "Bob", users[0].Name)

	require.NoError(t, repo.Delete(ctx, got.ID))
	deleted, err := repo.GetByID(ctx, got.ID)
	require.NoError(t, err)
	assert.Nil(t, deleted)
}

func TestIdempotencyRepository(t *testing.T) {
	db := setupDB(t)
	ctx := context.Background()
	repo := NewIdempotencyRepository(db)
	userID := uuid.New()

	live := &entity.IdempotencyKey{
		Key:          "abc",
		UserID:       userID,
		Endpoint:     "POST /api/v1/invoices",
		ResponseCode: 201,
		ResponseBody: `{"success":true}`,
		ExpiresAt:    time.Now().Add(time.Hour),
	}
	stale := &entity.IdempotencyKey{
		Key:          "old",
		UserID:       userID,
		Endpoint:     "POST /api/v1/invoices",
		ResponseCode: 201,
		ExpiresAt:    time.Now().Add(-time.Hour),
	}
	require.NoError(t, repo.Create(ctx, live))
	require.NoError(t, repo.Create(ctx, stale))

	got, err := repo.GetByKey(ctx, "abc", userID)
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.Equal(t, 201, got.ResponseCode)

	other, err := repo.GetByKey(ctx, "abc", uuid.New())
	require.NoError(t, err)
	assert.Nil(t, other)

	expired, err := repo.GetByKey(ctx, "old", userID)
	require.NoError(t, err)
	assert.Nil(t, expired)

	removed, err := repo.DeleteExpired(ctx)
	require.NoError(t, err)
	assert.EqualValues(t, 1, removed)
}
