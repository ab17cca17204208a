package controllers

import (
	"bytes"
	"encoding/json"
	"io"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/restaurante-kishimoto/kishimoto-web/config"
	"github.com/restaurante-kishimoto/kishimoto-web/middleware"
	"github.com/restaurante-kishimoto/kishimoto-web/models"
	"github.com/restaurante-kishimoto/kishimoto-web/services"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

type testEnv struct {
	db       *gorm.DB
	cfg      *config.Config
	sessions *services.SessionService
	resets   *services.ResetTokenService
	mailer   *services.MockMailer
	s3       *services.MockS3Service
	ctl      *Controller
	router   *gin.Engine
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()
	gin.SetMode(gin.TestMode)

	db, err := gorm.Open(sqlite.Open("file::memory:?_foreign_keys=1"), &gorm.Config{
		Logger:         logger.Default.LogMode(logger.Silent),
		TranslateError: true,
	})
	require.NoError(t, err)
	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)
	t.Cleanup(func() { sqlDB.Close() })
	require.NoError(t, config.Migrate(db))

	cfg := &config.Config{
		GoEnv:             "test",
		SessionSecret:     "test-session-secret",
		SessionCookieName: "kishimoto_session",
		SessionTTL:        time.Hour,
		ResetTokenSecret:  "test-reset-secret",
		ResetTokenTTL:     30 * time.Minute,
		PublicBaseURL:     "http://kishimoto.test",
		AdminScope:        "admin:backoffice",
		UploadDir:         t.TempDir(),
	}

	env := &testEnv{
		db:       db,
		cfg:      cfg,
		sessions: services.NewSessionService(db, cfg.SessionTTL),
		resets:   services.NewResetTokenService(cfg.ResetTokenSecret, cfg.ResetTokenTTL),
		mailer:   services.NewMockMailer(),
		s3:       services.NewMockS3Service(),
	}
	env.ctl = New(db, cfg, env.sessions, env.resets, env.mailer, services.NewS3ImageService(env.s3))

	router := gin.New()
	env.ctl.RegisterAPIRoutes(router)
	site := router.Group("/")
	site.Use(middleware.SessionCookie(cfg), middleware.LoadSession(env.sessions))
	env.ctl.RegisterSiteRoutes(site)
	env.ctl.RegisterAdminRoutes(router.Group("/admin/api"))

	env.router = router
	return env
}

func (e *testEnv) createCustomer(t *testing.T, cpf, email, password string) *models.Customer {
	t.Helper()
	customer := &models.Customer{
		CPF:      cpf,
		Name:     "Cliente " + cpf,
		Phone:    "11999990000",
		Address:  "Rua das Flores, 100",
		Email:    email,
		Password: password,
	}
	require.NoError(t, e.db.Create(customer).Error)
	return customer
}

// browser replays the cookies the router hands out, the way a browser does
type browser struct {
	t       *testing.T
	router  *gin.Engine
	cookies map[string]*http.Cookie
}

func (e *testEnv) browser(t *testing.T) *browser {
	return &browser{t: t, router: e.router, cookies: map[string]*http.Cookie{}}
}

func (b *browser) do(req *http.Request) *httptest.ResponseRecorder {
	for _, cookie := range b.cookies {
		req.AddCookie(cookie)
	}
	w := httptest.NewRecorder()
	b.router.ServeHTTP(w, req)
	for _, cookie := range w.Result().Cookies() {
		if cookie.MaxAge < 0 {
			delete(b.cookies, cookie.Name)
			continue
		}
		b.cookies[cookie.Name] = cookie
	}
	return w
}

func (b *browser) get(path string) *httptest.ResponseRecorder {
	return b.do(httptest.NewRequest(http.MethodGet, path, nil))
}

func (b *browser) postForm(path string, form url.Values) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodPost, path, strings.NewReader(form.Encode()))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	return b.do(req)
}

func (b *browser) login(email, password string) {
	b.t.Helper()
	w := b.postForm("/login/", url.Values{"email": {email}, "password": {password}})
	require.Equal(b.t, http.StatusFound, w.Code, w.Body.String())
	require.Equal(b.t, "/home/", w.Header().Get("Location"))
}

func sendJSON(router *gin.Engine, method, path string, body any) *httptest.ResponseRecorder {
	var reader io.Reader
	if body != nil {
		raw, _ := json.Marshal(body)
		reader = bytes.NewReader(raw)
	}
	req := httptest.NewRequest(method, path, reader)
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	return w
}

func sendImage(t *testing.T, router *gin.Engine, path, filename string, content []byte) *httptest.ResponseRecorder {
	t.Helper()
	body := &bytes.Buffer{}
	writer := multipart.NewWriter(body)
	part, err := writer.CreateFormFile("image", filename)
	require.NoError(t, err)
	_, err = part.Write(content)
	require.NoError(t, err)
	require.NoError(t, writer.Close())

	req := httptest.NewRequest(http.MethodPost, path, body)
	req.Header.Set("Content-Type", writer.FormDataContentType())
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	return w
}

type envelope struct {
	Success  bool            `json:"success"`
	Page     string          `json:"page"`
	Messages []string        `json:"messages"`
	Data     json.RawMessage `json:"data"`
	Meta     map[string]any  `json:"meta"`
	Error    struct {
		Code    string `json:"code"`
		Message string `json:"message"`
	} `json:"error"`
}

func decode(t *testing.T, w *httptest.ResponseRecorder) envelope {
	t.Helper()
	var env envelope
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &env), w.Body.String())
	return env
}
