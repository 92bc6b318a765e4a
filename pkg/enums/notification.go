package enums

import "fmt"

// NotificationChannel identifies a delivery channel.
type NotificationChannel string

const (
	NotificationChannelEmail    NotificationChannel = "email"
	NotificationChannelSMS      NotificationChannel = "sms"
	NotificationChannelWhatsApp NotificationChannel = "whatsapp"
)

var validNotificationChannels = []NotificationChannel{
	NotificationChannelEmail,
	NotificationChannelSMS,
	NotificationChannelWhatsApp,
}

// String implements fmt.Stringer.
func (c NotificationChannel) String() string {
	return string(c)
}

// IsValid reports whether the value is a known NotificationChannel.
func (c NotificationChannel) IsValid() bool {
	for _, candidate := range validNotificationChannels {
		if candidate == c {
			return true
		}
	}
	return false
}

// NotificationType selects the message template for a dispatch.
type NotificationType string

const (
	NotificationTypeSignup        NotificationType = "signup"
	NotificationTypeOrderPlaced   NotificationType = "order_placed"
	NotificationTypeOrderStatus   NotificationType = "order_status"
	NotificationTypeAbandonedCart NotificationType = "abandoned_cart"
)

var validNotificationTypes = []NotificationType{
	NotificationTypeSignup,
	NotificationTypeOrderPlaced,
	NotificationTypeOrderStatus,
	NotificationTypeAbandonedCart,
}

// String implements fmt.Stringer.
func (t NotificationType) String() string {
	return string(t)
}

// IsValid reports whether the value is a known NotificationType.
func (t NotificationType) IsValid() bool {
	for _, candidate := range validNotificationTypes {
		if candidate == t {
			return true
		}
	}
	return false
}

// ParseNotificationType converts raw input into a NotificationType.
func ParseNotificationType(value string) (NotificationType, error) {
	for _, candidate := range validNotificationTypes {
		if string(candidate) == value {
			return candidate, nil
		}
	}
	return "", fmt.Errorf("invalid notification type %q", value)
}
