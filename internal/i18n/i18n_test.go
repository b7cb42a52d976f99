//go:build !integration

package i18n

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
)

func TestGetTranslator_IsShared(t *testing.T) {
	assert.Same(t, GetTranslator(), GetTranslator())
}

func TestTranslator_Translate(t *testing.T) {
	translator := NewTranslator()

	tests := []struct {
		key, locale, want string
	}{
		{ErrKeyEmptyCart, "en", "Cart is empty"},
		{ErrKeyEmptyCart, "pt", "O carrinho está vazio"},
		{ErrKeyEmptyCart, "nl", "Winkelwagen is leeg"},
		{ErrKeyItemNotInCart, "", "Product is not in the cart"},
		{ErrKeyUnknownPosterSize, "de", "Poster size is not offered for this product"},
		{SuccessKeyOrderCreated, "nl", "Bestelling aangemaakt"},
		{"cart.missing", "en", "cart.missing"},
		{"cart.missing", "de", "cart.missing"},
	}

	for _, tt := range tests {
		t.Run(tt.key+"/"+tt.locale, func(t *testing.T) {
			assert.Equal(t, tt.want, translator.Translate(tt.key, tt.locale))
		})
	}
}

func TestTranslator_Supports(t *testing.T) {
	translator := NewTranslator()

	assert.True(t, translator.Supports("en"))
	assert.True(t, translator.Supports("pt"))
	assert.False(t, translator.Supports("de"))
	assert.False(t, translator.Supports(""))
}

func TestGetLocale(t *testing.T) {
	gin.SetMode(gin.TestMode)

	tests := map[string]string{
		"":                        DefaultLocale,
		"pt":                      "pt",
		"nl-BE":                   "nl",
		"PT-br":                   "pt",
		"de-DE,nl;q=0.7,en;q=0.5": "nl",
		"en-GB,pt;q=0.9":          "en",
		"de, fr":                  DefaultLocale,
	}

	for header, want := range tests {
		t.Run(header, func(t *testing.T) {
			c, _ := gin.CreateTestContext(httptest.NewRecorder())
			c.Request = httptest.NewRequest(http.MethodGet, "/api/v1/cart", nil)
			if header != "" {
				c.Request.Header.Set(AcceptLanguageHeader, header)
			}

			assert.Equal(t, want, GetLocale(c))
		})
	}
}

func TestMessages_EveryLocaleCoversEveryKey(t *testing.T) {
	messages := getDefaultMessages()
	for key := range messages[DefaultLocale] {
		for locale, table := range messages {
			_, ok := table[key]
			assert.True(t, ok, "locale %s misses %s", locale, key)
		}
	}
}

func TestMessage(t *testing.T) {
	gin.SetMode(gin.TestMode)
	c, _ := gin.CreateTestContext(httptest.NewRecorder())
	c.Request = httptest.NewRequest(http.MethodPost, "/api/v1/checkout", nil)
	c.Request.Header.Set(AcceptLanguageHeader, "pt-BR")

	assert.Equal(t, "O carrinho está vazio", Message(c, ErrKeyEmptyCart))
}
