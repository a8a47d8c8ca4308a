package checkout

import (
	"fmt"
	"net/url"
	"strings"
)

const whatsAppBaseURL = "https://wa.me/"

// uriComponent maps url.QueryEscape output onto JavaScript's
// encodeURIComponent so links match the ones the storefront already shares.
var uriComponent = strings.NewReplacer(
	"+", "%20",
	"%21", "!",
	"%27", "'",
	"%28", "(",
	"%29", ")",
	"%2A", "*",
)

func encodeURIComponent(s string) string {
	return uriComponent.Replace(url.QueryEscape(s))
}

// OrderMessage renders the order summary sent to the shop.
func OrderMessage(cart *Cart) string {
	var b strings.Builder
	b.WriteString("Olá, tenho interesse nos seguintes produtos:\n\n")
	for _, l := range cart.Items() {
		fmt.Fprintf(&b, "• %s (Quantidade: %d) - R$ %s\n", l.Product.Name, l.Quantity, l.Product.Price.StringFixed(2))
	}
	fmt.Fprintf(&b, "\nTotal: R$ %s", cart.Total().StringFixed(2))
	return b.String()
}

// ProductMessage is the single-product enquiry used by product pages.
func ProductMessage(name string) string {
	return "Olá, tenho interesse no produto " + name
}

func WhatsAppLink(phone, message string) string {
	return whatsAppBaseURL + phone + "?text=" + encodeURIComponent(message)
}
