package controllers

import (
	"github.com/gin-gonic/gin"
	"github.com/restaurante-kishimoto/kishimoto-web/middleware"
)

// RegisterAPIRoutes mounts the health endpoints and the local image route
func (ctl *Controller) RegisterAPIRoutes(router gin.IRouter) {
	v1 := router.Group("/api/v1")
	{
		v1.GET("/health", ctl.HealthCheck)
		v1.GET("/database/status", ctl.DatabaseStatus)
	}

	router.GET("/uploads/:filename", ctl.GetUploadedImage)
}

// RegisterSiteRoutes mounts the customer pages. The group must already run
// the session middleware.
func (ctl *Controller) RegisterSiteRoutes(site *gin.RouterGroup) {
	site.GET("/", ctl.Index)
	site.GET("/home/", ctl.Page("home"))
	site.GET("/nossahistoria/", ctl.Page("nossahistoria"))
	site.GET("/cardapio/", ctl.Menu)
	site.GET("/carrinho/", ctl.Page("carrinho"))

	site.GET("/cadastro/", ctl.Page("cadastro"))
	site.POST("/cadastro/", ctl.Register)
	site.GET("/login/", ctl.Page("login"))
	site.POST("/login/", ctl.Login)
	site.GET("/sair/", ctl.Logout)
	site.POST("/sair/", ctl.Logout)

	site.GET("/esqueceu/", ctl.Page("esqueceu"))
	site.POST("/esqueceu/", ctl.RequestPasswordReset)
	site.GET("/novasenha/", ctl.NewPasswordPage)
	site.POST("/novasenha/", ctl.SetNewPassword)

	site.GET("/metodpag/", ctl.Page("metodpag"))
	site.POST("/metodpag/", ctl.ChoosePaymentMethod)
	site.GET("/sucesso/", ctl.Page("sucesso"))
	site.POST("/sucesso/", ctl.ConfirmPurchase)

	customer := site.Group("/")
	customer.Use(middleware.RequireLogin())
	{
		customer.GET("/meuperfil/", ctl.GetProfile)
		customer.POST("/meuperfil/", ctl.UpdateProfile)
		customer.GET("/telapagamento/", ctl.PaymentScreen)
	}
}

// RegisterAdminRoutes mounts every back-office resource on a group that
// already checks the admin token, and returns the resource names
func (ctl *Controller) RegisterAdminRoutes(admin *gin.RouterGroup) []string {
	resources := ctl.AdminResources()

	admin.GET("/resources", ListAdminResources(resources))
	names := make([]string, 0, len(resources))
	for _, resource := range resources {
		resource.Register(admin)
		names = append(names, resource.Name())
	}
	admin.POST("/products/:id/image", ctl.UploadProductImage)

	return names
}
