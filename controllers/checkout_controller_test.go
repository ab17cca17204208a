package controllers

import (
	"encoding/json"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestChoosePaymentMethod_RedirectsToSuccess(t *testing.T) {
	env := newTestEnv(t)

	w := env.browser(t).postForm("/metodpag/", nil)

	assert.Equal(t, http.StatusFound, w.Code)
	assert.Equal(t, "/sucesso/", w.Header().Get("Location"))
}

func TestConfirmPurchase_ShowsMessage(t *testing.T) {
	env := newTestEnv(t)

	w := env.browser(t).postForm("/sucesso/", nil)

	require.Equal(t, http.StatusOK, w.Code)
	page := decode(t, w)
	assert.Equal(t, "sucesso", page.Page)
	assert.Equal(t, []string{msgPurchaseDone}, page.Messages)
}

func TestPaymentScreen_RequiresLogin(t *testing.T) {
	env := newTestEnv(t)

	w := env.browser(t).get("/telapagamento/")

	assert.Equal(t, http.StatusFound, w.Code)
	assert.Equal(t, "/login/", w.Header().Get("Location"))
}

func TestPaymentScreen_ShowsCustomer(t *testing.T) {
	env := newTestEnv(t)
	env.createCustomer(t, "111", "a@a.com", "x")
	b := env.browser(t)
	b.login("a@a.com", "x")

	w := b.get("/telapagamento/")

	require.Equal(t, http.StatusOK, w.Code)
	page := decode(t, w)
	assert.Equal(t, "telapagamento", page.Page)
	var customer map[string]any
	require.NoError(t, json.Unmarshal(page.Data, &customer))
	assert.Equal(t, "Cliente 111", customer["name"])
}
