package routes

import (
	"bytes"
	"context"
	"encoding/base64"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/sangkips/docgen-api/internal/application/render"
	"github.com/sangkips/docgen-api/internal/application/service"
	"github.com/sangkips/docgen-api/internal/config"
	"github.com/sangkips/docgen-api/internal/domain/entity"
	"github.com/sangkips/docgen-api/internal/domain/enum"
	"github.com/sangkips/docgen-api/internal/infrastructure/database"
	"github.com/sangkips/docgen-api/internal/infrastructure/export"
	"github.com/sangkips/docgen-api/internal/infrastructure/htmlview"
	"github.com/sangkips/docgen-api/internal/infrastructure/repository"
	"github.com/sangkips/docgen-api/internal/infrastructure/storage"
	"github.com/sangkips/docgen-api/internal/presentation/http/handler"
	"github.com/sangkips/docgen-api/internal/presentation/http/middleware"
	"github.com/sangkips/docgen-api/pkg/utils"
)

const testPassword = "secret123"

type stubPages struct {
	calls int
}

func (s *stubPages) Render(ctx context.Context, req render.Request) (*render.Result, error) {
	s.calls++
	return &render.Result{PDF: []byte("%PDF-1.4 " + req.Name), Height: 640}, nil
}

type testServer struct {
	router *gin.Engine
	db     *gorm.DB
	pages  *stubPages
	jwt    *utils.JWTManager
	admin  *entity.User
	staff  *entity.User
}

type envelope struct {
	Success bool            `json:"success"`
	Message string          `json:"message"`
	Reason  string          `json:"reason"`
	Data    json.RawMessage `json:"data"`
}

func newTestServer(t *testing.T) *testServer {
	t.Helper()
	gin.SetMode(gin.TestMode)
	log := zap.NewNop()

	db, err := database.NewSQLiteDB(filepath.Join(t.TempDir(), "api.db"), false, log)
	require.NoError(t, err)
	require.NoError(t, database.AutoMigrate(db, log))

	userRepo := repository.NewUserRepository(db)
	hashed, err := utils.HashPassword(testPassword)
	require.NoError(t, err)
	sig := "data:image/png;base64," + base64.StdEncoding.EncodeToString([]byte("png"))
	admin := &entity.User{Name: "Admin", Email: "admin@example.com", Password: hashed, Role: enum.UserRoleAdmin}
	staff := &entity.User{Name: "Sara", Email: "sara@example.com", Password: hashed, Role: enum.UserRoleStaff, SignatureRef: &sig}
	require.NoError(t, userRepo.Create(context.Background(), admin))
	require.NoError(t, userRepo.Create(context.Background(), staff))

	store := storage.NewAssetStore(t.TempDir(), log)
	views, err := htmlview.NewRenderer(store, htmlview.Branding{Name: "Acme", CurrencyLabel: "SAR"}, ".document-container")
	require.NoError(t, err)
	pages := &stubPages{}
	generator := service.NewDocumentGenerator(views, pages, export.NewWorkbookWriter(store, log), log)

	jwtManager := utils.NewJWTManager("test-secret", time.Hour)
	handlers := &Handlers{
		Auth:      handler.NewAuthHandler(service.NewAuthService(userRepo, jwtManager)),
		User:      handler.NewUserHandler(service.NewUserService(userRepo, store, log)),
		Quotation: handler.NewQuotationHandler(service.NewQuotationService(repository.NewQuotationRepository(db), generator, log)),
		Invoice:   handler.NewInvoiceHandler(service.NewInvoiceService(repository.NewInvoiceRepository(db), generator, log)),
		Delivery:  handler.NewDeliveryHandler(service.NewDeliveryService(repository.NewDeliveryNoteRepository(db), userRepo, generator, log)),
	}

	router := Setup(handlers, &Deps{
		JWTManager:      jwtManager,
		Cfg:             &config.Config{App: config.AppConfig{Name: "docgen-api"}},
		IdempotencyRepo: repository.NewIdempotencyRepository(db),
		Logger:          log,
	})

	return &testServer{router: router, db: db, pages: pages, jwt: jwtManager, admin: admin, staff: staff}
}

func (s *testServer) token(t *testing.T, u *entity.User) string {
	t.Helper()
	tok, err := s.jwt.GenerateAccessToken(u.ID, u.Email, u.Name, u.Role.String())
	require.NoError(t, err)
	return tok
}

func (s *testServer) do(t *testing.T, method, path, token string, body interface{}, headers ...string) *httptest.ResponseRecorder {
	t.Helper()
	var reader *bytes.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(raw)
	} else {
		reader = bytes.NewReader(nil)
	}
	req := httptest.NewRequest(method, path, reader)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	for i := 0; i+1 < len(headers); i += 2 {
		req.Header.Set(headers[i], headers[i+1])
	}
	rec := httptest.NewRecorder()
	s.router.ServeHTTP(rec, req)
	return rec
}

func decode(t *testing.T, rec *httptest.ResponseRecorder) envelope {
	t.Helper()
	var env envelope
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &env), rec.Body.String())
	return env
}

func quotationBody(number string) gin.H {
	return gin.H{
		"quotationNumber": number,
		"companyName":     "Acme Trading",
		"date":            "2024-03-05",
		"items": []gin.H{
			{"name": "Cabinet", "quantity": 1, "price": "1000"},
			{"name": "Shelf", "quantity": 1, "price": "101"},
		},
		"terms": []string{"Valid for 30 days"},
	}
}

func TestHealth(t *testing.T) {
	s := newTestServer(t)

	rec := s.do(t, http.MethodGet, "/health", "", nil)

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "docgen-api")
}

func TestLogin(t *testing.T) {
	s := newTestServer(t)

	rec := s.do(t, http.MethodPost, "/api/v1/auth/login", "", gin.H{"email": "SARA@example.com", "password": testPassword})
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	var data struct {
		AccessToken string `json:"access_token"`
	}
	require.NoError(t, json.Unmarshal(decode(t, rec).Data, &data))
	require.NotEmpty(t, data.AccessToken)

	me := s.do(t, http.MethodGet, "/api/v1/auth/me", data.AccessToken, nil)
	assert.Equal(t, http.StatusOK, me.Code)
	assert.Contains(t, me.Body.String(), "sara@example.com")

	bad := s.do(t, http.MethodPost, "/api/v1/auth/login", "", gin.H{"email": "sara@example.com", "password": "wrong-pass"})
	assert.Equal(t, http.StatusUnauthorized, bad.Code)
	assert.Equal(t, "unauthorized", decode(t, bad).Reason)
}

func TestProtectedRoutesRequireToken(t *testing.T) {
	s := newTestServer(t)

	rec := s.do(t, http.MethodGet, "/api/v1/quotations", "", nil)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)

	rec = s.do(t, http.MethodGet, "/api/v1/quotations", "not-a-jwt", nil)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestQuotationLifecycle(t *testing.T) {
	s := newTestServer(t)
	tok := s.token(t, s.staff)

	rec := s.do(t, http.MethodPost, "/api/v1/quotations", tok, quotationBody("Q-100"))
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())

	var created struct {
		Document struct {
			ID          string `json:"id"`
			FinalAmount string `json:"finalAmount"`
			VATAmount   string `json:"VATAmount"`
		} `json:"document"`
		PDF        string `json:"pdf"`
		Filename   string `json:"filename"`
		PageHeight int    `json:"page_height"`
	}
	require.NoError(t, json.Unmarshal(decode(t, rec).Data, &created))
	assert.Equal(t, "1267", created.Document.FinalAmount)
	assert.Equal(t, "166", created.Document.VATAmount)
	assert.Equal(t, "quotation-q-100.pdf", created.Filename)
	assert.Equal(t, 640, created.PageHeight)
	pdf, err := base64.StdEncoding.DecodeString(created.PDF)
	require.NoError(t, err)
	assert.Equal(t, "%PDF-1.4 Q-100", string(pdf))

	id := created.Document.ID

	list := s.do(t, http.MethodGet, "/api/v1/quotations?search=acme", tok, nil)
	require.Equal(t, http.StatusOK, list.Code)
	assert.Contains(t, list.Body.String(), `"total":1`)

	download := s.do(t, http.MethodGet, "/api/v1/quotations/"+id+"/pdf/download", tok, nil)
	require.Equal(t, http.StatusOK, download.Code)
	assert.Equal(t, "application/pdf", download.Header().Get("Content-Type"))
	assert.Contains(t, download.Header().Get("Content-Disposition"), "quotation-q-100.pdf")

	xlsx := s.do(t, http.MethodGet, "/api/v1/quotations/"+id+"/xlsx", tok, nil)
	require.Equal(t, http.StatusOK, xlsx.Code)
	assert.Equal(t, service.ContentTypeXLSX, xlsx.Header().Get("Content-Type"))
	// xlsx files are zip archives
	assert.Equal(t, "PK", xlsx.Body.String()[:2])

	update := quotationBody("Q-100")
	update["items"] = []gin.H{{"name": "Desk", "quantity": 2, "price": "105"}}
	upd := s.do(t, http.MethodPut, "/api/v1/quotations/"+id, tok, update)
	require.Equal(t, http.StatusOK, upd.Code, upd.Body.String())
	assert.Contains(t, upd.Body.String(), `"finalAmount":"242"`)

	del := s.do(t, http.MethodDelete, "/api/v1/quotations/"+id, tok, nil)
	require.Equal(t, http.StatusOK, del.Code)

	missing := s.do(t, http.MethodGet, "/api/v1/quotations/"+id, tok, nil)
	assert.Equal(t, http.StatusNotFound, missing.Code)
	assert.Equal(t, "not_found", decode(t, missing).Reason)
}

func TestQuotationValidationAndConflicts(t *testing.T) {
	s := newTestServer(t)
	tok := s.token(t, s.staff)

	body := quotationBody("Q-200")
	body["items"] = []gin.H{{"name": "Cabinet", "quantity": 0, "price": "10"}}
	rec := s.do(t, http.MethodPost, "/api/v1/quotations", tok, body)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, "invalid_input", decode(t, rec).Reason)

	body = quotationBody("Q-200")
	body["date"] = "next tuesday"
	rec = s.do(t, http.MethodPost, "/api/v1/quotations", tok, body)
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	require.Equal(t, http.StatusCreated, s.do(t, http.MethodPost, "/api/v1/quotations", tok, quotationBody("Q-200")).Code)
	dup := s.do(t, http.MethodPost, "/api/v1/quotations", tok, quotationBody("Q-200"))
	assert.Equal(t, http.StatusConflict, dup.Code)
	assert.Equal(t, "conflict", decode(t, dup).Reason)

	bad := s.do(t, http.MethodGet, "/api/v1/quotations/not-a-uuid", tok, nil)
	assert.Equal(t, http.StatusBadRequest, bad.Code)
}

func TestIdempotentCreate(t *testing.T) {
	s := newTestServer(t)
	tok := s.token(t, s.staff)

	first := s.do(t, http.MethodPost, "/api/v1/invoices", tok, gin.H{
		"invoiceNumber": "INV-1", "companyName": "Acme", "date": "2024-03-05",
		"items": []gin.H{{"name": "Chair", "quantity": 3, "price": "20"}},
	}, middleware.IdempotencyKeyHeader, "key-1")
	require.Equal(t, http.StatusCreated, first.Code, first.Body.String())

	replay := s.do(t, http.MethodPost, "/api/v1/invoices", tok, gin.H{
		"invoiceNumber": "INV-1", "companyName": "Acme", "date": "2024-03-05",
		"items": []gin.H{{"name": "Chair", "quantity": 3, "price": "20"}},
	}, middleware.IdempotencyKeyHeader, "key-1")
	require.Equal(t, http.StatusCreated, replay.Code)
	assert.Equal(t, "true", replay.Header().Get(middleware.IdempotencyReplayedHeader))
	assert.Equal(t, first.Body.String(), replay.Body.String())
	assert.Equal(t, 1, s.pages.calls)

	reused := s.do(t, http.MethodPost, "/api/v1/invoices", tok, gin.H{
		"invoiceNumber": "INV-2", "companyName": "Acme", "date": "2024-03-05",
		"items": []gin.H{{"name": "Chair", "quantity": 1, "price": "20"}},
	}, middleware.IdempotencyKeyHeader, "key-1")
	assert.Equal(t, http.StatusConflict, reused.Code)

	var count int64
	require.NoError(t, s.db.Model(&entity.Invoice{}).Count(&count).Error)
	assert.Equal(t, int64(1), count)
}

func TestOwnershipAndAdminRoutes(t *testing.T) {
	s := newTestServer(t)
	adminTok := s.token(t, s.admin)
	staffTok := s.token(t, s.staff)

	rec := s.do(t, http.MethodPost, "/api/v1/quotations", adminTok, quotationBody("Q-300"))
	require.Equal(t, http.StatusCreated, rec.Code)
	var created struct {
		Document struct {
			ID string `json:"id"`
		} `json:"document"`
	}
	require.NoError(t, json.Unmarshal(decode(t, rec).Data, &created))

	forbidden := s.do(t, http.MethodGet, "/api/v1/quotations/"+created.Document.ID, staffTok, nil)
	assert.Equal(t, http.StatusForbidden, forbidden.Code)

	list := s.do(t, http.MethodGet, "/api/v1/quotations", staffTok, nil)
	require.Equal(t, http.StatusOK, list.Code)
	assert.Contains(t, list.Body.String(), `"total":0`)

	assert.Equal(t, http.StatusForbidden, s.do(t, http.MethodGet, "/api/v1/users", staffTok, nil).Code)

	users := s.do(t, http.MethodGet, "/api/v1/users", adminTok, nil)
	require.Equal(t, http.StatusOK, users.Code)
	assert.Contains(t, users.Body.String(), `"total":2`)

	newUser := s.do(t, http.MethodPost, "/api/v1/users", adminTok, gin.H{
		"name": "Omar", "email": "omar@example.com", "password": "pa55word", "role": "staff",
	})
	assert.Equal(t, http.StatusCreated, newUser.Code, newUser.Body.String())

	self := s.do(t, http.MethodDelete, "/api/v1/users/"+s.admin.ID.String(), adminTok, nil)
	assert.Equal(t, http.StatusBadRequest, self.Code)
}

func TestDeliveryNoteSignedByCaller(t *testing.T) {
	s := newTestServer(t)
	tok := s.token(t, s.staff)

	rec := s.do(t, http.MethodPost, "/api/v1/deliveries", tok, gin.H{
		"deliveryNumber": "D-1",
		"companyName":    "Acme",
		"date":           "05/03/2024",
		"items":          []gin.H{{"description": "Chairs", "quantity": 4}},
	})
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	assert.Contains(t, rec.Body.String(), `"receivedBy":"Sara"`)
	assert.Contains(t, rec.Body.String(), "delivery-d-1.pdf")

	empty := s.do(t, http.MethodPost, "/api/v1/deliveries", tok, gin.H{
		"deliveryNumber": "D-2", "companyName": "Acme", "date": "2024-03-05", "items": []gin.H{},
	})
	assert.Equal(t, http.StatusBadRequest, empty.Code)
}
