// Package i18n translates user-facing API messages into the storefront's
// supported locales.
package i18n

import (
	"strings"
	"sync"

	"github.com/gin-gonic/gin"
)

const (
	// DefaultLocale is the default language locale (English).
	DefaultLocale = "en"
	// AcceptLanguageHeader is the HTTP header name for language preference.
	AcceptLanguageHeader = "Accept-Language"
)

var (
	// defaultTranslator is the singleton translator instance.
	defaultTranslator *Translator
	translatorOnce    sync.Once
)

// Translator handles message translation for different locales.
type Translator struct {
	messages map[string]map[string]string
}

// NewTranslator creates a new translator with the default messages.
func NewTranslator() *Translator {
	return &Translator{
		messages: getDefaultMessages(),
	}
}

// GetTranslator returns the default singleton translator instance.
func GetTranslator() *Translator {
	translatorOnce.Do(func() {
		defaultTranslator = NewTranslator()
	})
	return defaultTranslator
}

// Translate returns the message for key in locale, then in DefaultLocale,
// then the key itself.
func (t *Translator) Translate(key, locale string) string {
	if msg, ok := t.messages[locale][key]; ok {
		return msg
	}
	if msg, ok := t.messages[DefaultLocale][key]; ok {
		return msg
	}
	return key
}

// Supports reports whether locale has a message table.
func (t *Translator) Supports(locale string) bool {
	_, ok := t.messages[locale]
	return ok
}

// GetLocale picks the first supported language from Accept-Language,
// ignoring region and quality values.
func GetLocale(c *gin.Context) string {
	header := c.GetHeader(AcceptLanguageHeader)
	if header == "" {
		return DefaultLocale
	}

	t := GetTranslator()
	for _, part := range strings.Split(header, ",") {
		lang := strings.TrimSpace(strings.SplitN(part, ";", 2)[0])
		if idx := strings.IndexByte(lang, '-'); idx > 0 {
			lang = lang[:idx]
		}
		lang = strings.ToLower(lang)
		if t.Supports(lang) {
			return lang
		}
	}
	return DefaultLocale
}

// Message translates key for the request's locale.
func Message(c *gin.Context, key string) string {
	return GetTranslator().Translate(key, GetLocale(c))
}

// getDefaultMessages returns the default message translations.
func getDefaultMessages() map[string]map[string]string {
	return map[string]map[string]string{
		"en": {
			ErrKeyInvalidRequest:     "Invalid request",
			ErrKeyInvalidRequestBody: "Invalid request body",
			ErrKeyInternalError:      "An unexpected error occurred",
			ErrKeyUnauthorized:       "Unauthorized",
			ErrKeyInvalidAPIKey:      "Invalid API key",
			ErrKeyInvalidToken:       "Invalid or expired token",
			ErrKeyForbidden:          "Forbidden",
			ErrKeyNotFound:           "Not found",
			ErrKeyRateLimitExceeded:  "Too many requests, please try again later",
			ErrKeyConflict:           "Conflict",
			ErrKeyUnavailable:        "Service temporarily unavailable",
			ErrKeyTimeout:            "Request timed out",

			ErrKeyInvalidSession:     "Cart session must be a valid UUID",
			ErrKeyProductNotFound:    "Product not found",
			ErrKeyItemNotInCart:      "Product is not in the cart",
			ErrKeyInvalidQuantity:    "Quantity must be a positive integer",
			ErrKeyQuantityTooLarge:   "Quantity exceeds the allowed maximum",
			ErrKeyInvalidSelection:   "Invalid product type selection",
			ErrKeyUnknownPosterSize:  "Poster size is not offered for this product",
			ErrKeyEmptyCart:          "Cart is empty",
			ErrKeyInvalidEmail:       "Customer email is invalid",
			ErrKeyCartChanged:        "Cart changed during checkout; the order was placed for the earlier contents",
			ErrKeyInvalidProductData: "Invalid product data",

			SuccessKeyCartCleared:  "Cart cleared",
			SuccessKeyOrderCreated: "Order created",
		},
		"pt": {
			ErrKeyInvalidRequest:     "Requisição inválida",
			ErrKeyInvalidRequestBody: "Corpo da requisição inválido",
			ErrKeyInternalError:      "Ocorreu um erro inesperado",
			ErrKeyUnauthorized:       "Não autorizado",
			ErrKeyInvalidAPIKey:      "Chave de API inválida",
			ErrKeyInvalidToken:       "Token inválido ou expirado",
			ErrKeyForbidden:          "Proibido",
			ErrKeyNotFound:           "Não encontrado",
			ErrKeyRateLimitExceeded:  "Muitas requisições, tente novamente mais tarde",
			ErrKeyConflict:           "Conflito",
			ErrKeyUnavailable:        "Serviço temporariamente indisponível",
			ErrKeyTimeout:            "Tempo limite da requisição esgotado",

			ErrKeyInvalidSession:     "A sessão do carrinho deve ser um UUID válido",
			ErrKeyProductNotFound:    "Produto não encontrado",
			ErrKeyItemNotInCart:      "O produto não está no carrinho",
			ErrKeyInvalidQuantity:    "A quantidade deve ser um inteiro positivo",
			ErrKeyQuantityTooLarge:   "A quantidade excede o máximo permitido",
			ErrKeyInvalidSelection:   "Seleção de tipo de produto inválida",
			ErrKeyUnknownPosterSize:  "Tamanho de pôster não oferecido para este produto",
			ErrKeyEmptyCart:          "O carrinho está vazio",
			ErrKeyInvalidEmail:       "E-mail do cliente inválido",
			ErrKeyCartChanged:        "O carrinho mudou durante o checkout; o pedido foi feito com o conteúdo anterior",
			ErrKeyInvalidProductData: "Dados do produto inválidos",

			SuccessKeyCartCleared:  "Carrinho esvaziado",
			SuccessKeyOrderCreated: "Pedido criado",
		},
		"nl": {
			ErrKeyInvalidRequest:     "Ongeldig verzoek",
			ErrKeyInvalidRequestBody: "Ongeldige aanvraag body",
			ErrKeyInternalError:      "Er is een onverwachte fout opgetreden",
			ErrKeyUnauthorized:       "Niet geautoriseerd",
			ErrKeyInvalidAPIKey:      "Ongeldige API-sleutel",
			ErrKeyInvalidToken:       "Ongeldig of verlopen token",
			ErrKeyForbidden:          "Verboden",
			ErrKeyNotFound:           "Niet gevonden",
			ErrKeyRateLimitExceeded:  "Te veel verzoeken, probeer het later opnieuw",
			ErrKeyConflict:           "Conflict",
			ErrKeyUnavailable:        "Dienst tijdelijk niet beschikbaar",
			ErrKeyTimeout:            "Time-out van het verzoek",

			ErrKeyInvalidSession:     "Winkelwagensessie moet een geldige UUID zijn",
			ErrKeyProductNotFound:    "Product niet gevonden",
			ErrKeyItemNotInCart:      "Product zit niet in de winkelwagen",
			ErrKeyInvalidQuantity:    "Aantal moet een positief geheel getal zijn",
			ErrKeyQuantityTooLarge:   "Aantal overschrijdt het maximum",
			ErrKeyInvalidSelection:   "Ongeldige keuze van producttype",
			ErrKeyUnknownPosterSize:  "Postergrootte wordt voor dit product niet aangeboden",
			ErrKeyEmptyCart:          "Winkelwagen is leeg",
			ErrKeyInvalidEmail:       "E-mailadres van de klant is ongeldig",
			ErrKeyCartChanged:        "Winkelwagen is tijdens het afrekenen gewijzigd; de bestelling is geplaatst met de eerdere inhoud",
			ErrKeyInvalidProductData: "Ongeldige productgegevens",

			SuccessKeyCartCleared:  "Winkelwagen geleegd",
			SuccessKeyOrderCreated: "Bestelling aangemaakt",
		},
	}
}
