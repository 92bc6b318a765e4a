package notifications

import (
	"fmt"

	"github.com/hardikpatel/shopkart-backend/pkg/enums"
)

// Message is one rendered notification ready for a channel sender.
type Message struct {
	Channel   enums.NotificationChannel
	Recipient string
	Subject   string
	Body      string
}

// Render produces the subject and body for a notification type. Data keys
// are the small fixed set each template expects; absent keys render as
// empty strings.
func Render(notificationType enums.NotificationType, data map[string]string) (subject string, body string) {
	get := func(key string) string { return data[key] }

	switch notificationType {
	case enums.NotificationTypeSignup:
		subject = "Welcome to ShopKart"
		body = fmt.Sprintf("Hi %s, your account is ready. Happy shopping!", get("name"))

	case enums.NotificationTypeOrderPlaced:
		subject = fmt.Sprintf("Order %s confirmed", get("order_id"))
		body = fmt.Sprintf("Hi %s, we received your order %s for %s. We'll notify you when it ships.",
			get("name"), get("order_id"), get("total"))

	case enums.NotificationTypeOrderStatus:
		subject = fmt.Sprintf("Order %s is %s", get("order_id"), get("status"))
		body = fmt.Sprintf("Hi %s, your order %s is now %s.",
			get("name"), get("order_id"), get("status"))

	case enums.NotificationTypeAbandonedCart:
		subject = "You left something behind"
		body = fmt.Sprintf("Hi %s, your cart is waiting with %s item(s). Complete your order before they sell out.",
			get("name"), get("item_count"))

	default:
		subject = "ShopKart update"
		body = "You have a new update from ShopKart."
	}
	return subject, body
}
