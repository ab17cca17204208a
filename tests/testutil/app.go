package testutil

import (
	"net/http"
	"net/http/cookiejar"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/restaurante-kishimoto/kishimoto-web/config"
	"github.com/restaurante-kishimoto/kishimoto-web/controllers"
	"github.com/restaurante-kishimoto/kishimoto-web/routes"
	"github.com/restaurante-kishimoto/kishimoto-web/services"
	"gorm.io/gorm"
)

// TestApp is the whole site wired against an in-memory database and mock
// mail and image backends
type TestApp struct {
	DB       *gorm.DB
	Config   *config.Config
	Sessions *services.SessionService
	Resets   *services.ResetTokenService
	Mailer   *services.MockMailer
	S3       *services.MockS3Service
	Router   *gin.Engine
}

// NewTestApp builds a TestApp. Product images go to the mock S3 backend and
// the back-office accepts the fake tokens from FakeTokenValidator.
func NewTestApp(t *testing.T) *TestApp {
	t.Helper()
	gin.SetMode(gin.TestMode)

	cfg := NewTestConfig(t)
	db := NewTestDB(t)
	sessions := services.NewSessionService(db, cfg.SessionTTL)
	resets := services.NewResetTokenService(cfg.ResetTokenSecret, cfg.ResetTokenTTL)
	mailer := services.NewMockMailer()
	s3 := services.NewMockS3Service()

	ctl := controllers.New(db, cfg, sessions, resets, mailer, services.NewS3ImageService(s3))
	router, err := routes.NewRouter(routes.Deps{
		Config:     cfg,
		Controller: ctl,
		Sessions:   sessions,
		AdminAuth:  FakeAdminAuth(cfg.AdminScope),
	})
	if err != nil {
		t.Fatalf("Failed to build router: %v", err)
	}

	return &TestApp{
		DB:       db,
		Config:   cfg,
		Sessions: sessions,
		Resets:   resets,
		Mailer:   mailer,
		S3:       s3,
		Router:   router,
	}
}

// NewBrowser starts a server for the app and returns a client that keeps
// cookies and does not follow redirects, like a browser tab whose
// navigation the test drives by hand
func (a *TestApp) NewBrowser(t *testing.T) (*httptest.Server, *http.Client) {
	t.Helper()

	server := httptest.NewServer(a.Router)
	t.Cleanup(server.Close)

	jar, err := cookiejar.New(nil)
	if err != nil {
		t.Fatalf("Failed to create cookie jar: %v", err)
	}

	client := &http.Client{
		Jar: jar,
		CheckRedirect: func(req *http.Request, via []*http.Request) error {
			return http.ErrUseLastResponse
		},
	}
	return server, client
}
