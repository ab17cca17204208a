package routes

import (
	"log"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/restaurante-kishimoto/kishimoto-web/config"
	"github.com/restaurante-kishimoto/kishimoto-web/controllers"
	"github.com/restaurante-kishimoto/kishimoto-web/middleware"
	"github.com/restaurante-kishimoto/kishimoto-web/services"
)

// Deps is what the router needs to mount every route
type Deps struct {
	Config     *config.Config
	Controller *controllers.Controller
	Sessions   *services.SessionService

	// AdminAuth validates back-office bearer tokens. When nil it is built
	// from the Auth0 settings, and the back-office stays unmounted if
	// those are missing.
	AdminAuth gin.HandlerFunc
}

// NewRouter builds the engine with the shared middleware and every route
func NewRouter(deps Deps) (*gin.Engine, error) {
	router := gin.New()
	router.Use(gin.Logger(), gin.Recovery())
	router.Use(middleware.CORS(deps.Config))

	if err := SetupRoutes(router, deps); err != nil {
		return nil, err
	}
	return router, nil
}

// SetupRoutes mounts the site pages, the health endpoints and the back-office
func SetupRoutes(router *gin.Engine, deps Deps) error {
	deps.Controller.RegisterAPIRoutes(router)

	site := router.Group("/")
	site.Use(middleware.SessionCookie(deps.Config), middleware.LoadSession(deps.Sessions))
	deps.Controller.RegisterSiteRoutes(site)

	return setupAdmin(router, deps)
}

func setupAdmin(router *gin.Engine, deps Deps) error {
	auth := deps.AdminAuth
	if auth == nil {
		if !deps.Config.AdminEnabled() {
			log.Println("WARNING: AUTH0_DOMAIN or AUTH0_AUDIENCE not set, admin back-office is disabled")
			return nil
		}
		var err error
		auth, err = middleware.EnsureValidToken(deps.Config)
		if err != nil {
			return err
		}
	}

	admin := router.Group("/admin/api")
	admin.Use(auth, middleware.RequireScope(deps.Config.AdminScope))
	names := deps.Controller.RegisterAdminRoutes(admin)

	log.Printf("Admin back-office mounted at /admin/api (%s)", strings.Join(names, ", "))
	return nil
}
