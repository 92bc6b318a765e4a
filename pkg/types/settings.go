package types

import "github.com/shopspring/decimal"

// CheckoutField configures one shipping-address field on the checkout form.
type CheckoutField struct {
	Name     string `json:"name"`
	Enabled  bool   `json:"enabled"`
	Required bool   `json:"required"`
}

// CheckoutSettings drives checkout-form validation.
type CheckoutSettings struct {
	Fields []CheckoutField `json:"fields"`
}

// RazorpaySettings holds the Razorpay gateway toggle and credentials.
type RazorpaySettings struct {
	Enabled   bool   `json:"enabled"`
	KeyID     string `json:"key_id"`
	KeySecret string `json:"key_secret"`
}

// CashfreeSettings holds the Cashfree gateway toggle and credentials.
type CashfreeSettings struct {
	Enabled      bool   `json:"enabled"`
	AppID        string `json:"app_id"`
	SecretKey    string `json:"secret_key"`
	Sandbox      bool   `json:"sandbox"`
	ReturnURL    string `json:"return_url"`
	NotifyURL    string `json:"notify_url,omitempty"`
	DefaultPhone string `json:"default_phone,omitempty"`
}

// PaymentSettings gathers the enabled payment surfaces.
type PaymentSettings struct {
	CODEnabled bool             `json:"cod_enabled"`
	Razorpay   RazorpaySettings `json:"razorpay"`
	Cashfree   CashfreeSettings `json:"cashfree"`
}

// ShippingSettings toggles shipping and carries the tax rate applied at checkout.
type ShippingSettings struct {
	Enabled    bool            `json:"enabled"`
	TaxRatePct decimal.Decimal `json:"tax_rate_pct"`
}

// CouponSettings toggles coupon redemption at checkout.
type CouponSettings struct {
	Enabled bool `json:"enabled"`
}

// EmailChannelSettings configures the transactional mail channel.
type EmailChannelSettings struct {
	Enabled   bool   `json:"enabled"`
	APIKey    string `json:"api_key"`
	FromEmail string `json:"from_email"`
}

// SMSChannelSettings configures the SMS channel.
type SMSChannelSettings struct {
	Enabled  bool   `json:"enabled"`
	APIKey   string `json:"api_key"`
	SenderID string `json:"sender_id"`
}

// WhatsAppChannelSettings configures the WhatsApp channel.
type WhatsAppChannelSettings struct {
	Enabled    bool   `json:"enabled"`
	APIKey     string `json:"api_key"`
	FromNumber string `json:"from_number"`
}

// NotificationSettings gathers the delivery channels.
type NotificationSettings struct {
	Email    EmailChannelSettings    `json:"email"`
	SMS      SMSChannelSettings      `json:"sms"`
	WhatsApp WhatsAppChannelSettings `json:"whatsapp"`
}
