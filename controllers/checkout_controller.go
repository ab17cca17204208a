package controllers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/restaurante-kishimoto/kishimoto-web/middleware"
)

const msgPurchaseDone = "Compra realizada com sucesso!"

// ChoosePaymentMethod handles POST /metodpag/. Nothing is charged or stored.
func (ctl *Controller) ChoosePaymentMethod(c *gin.Context) {
	c.Redirect(http.StatusFound, "/sucesso/")
}

// ConfirmPurchase handles POST /sucesso/
func (ctl *Controller) ConfirmPurchase(c *gin.Context) {
	renderPage(c, "sucesso", nil, msgPurchaseDone)
}

// PaymentScreen handles GET /telapagamento/
func (ctl *Controller) PaymentScreen(c *gin.Context) {
	customer, err := middleware.GetCustomer(c)
	if err != nil {
		c.Redirect(http.StatusFound, middleware.LoginPath)
		return
	}
	renderPage(c, "telapagamento", customer)
}
