package dto

import (
	"encoding/json"
	"time"
)

// LoginPayload describes a successful login.
type LoginPayload struct {
	UserID    string
	Username  string
	Name      string
	Email     string
	IP        string
	UserAgent string
}

// Message is what a Channel delivers.
type Message struct {
	Kind    string
	Target  string
	Subject string
	Body    string
}

type WebhookUser struct {
	ID       string `json:"id"`
	Username string `json:"username"`
	Name     string `json:"name,omitempty"`
	Email    string `json:"email,omitempty"`
}

type LoginMeta struct {
	IP        string `json:"ip"`
	UserAgent string `json:"userAgent"`
}

type LoginWebhook struct {
	Event     string      `json:"event"`
	User      WebhookUser `json:"user"`
	Meta      LoginMeta   `json:"meta"`
	Timestamp time.Time   `json:"timestamp"`
	APIKey    string      `json:"apiKey"`
}

type OrderItemWebhook struct {
	ProductID string `json:"product_id"`
	Quantity  int    `json:"quantity"`
	Price     string `json:"price"`
}

type OrderWebhookBody struct {
	ID          string             `json:"id"`
	OrderNumber string             `json:"order_number"`
	Status      string             `json:"status"`
	TotalAmount string             `json:"total_amount"`
	UserID      string             `json:"user_id"`
	Items       []OrderItemWebhook `json:"items"`
}

type OrderWebhook struct {
	Event     string           `json:"event"`
	Order     OrderWebhookBody `json:"order"`
	Timestamp time.Time        `json:"timestamp"`
	APIKey    string           `json:"apiKey"`
}

type TestWebhookPayload struct {
	Event     string      `json:"event"`
	Message   string      `json:"message"`
	User      WebhookUser `json:"user"`
	Timestamp time.Time   `json:"timestamp"`
}

type TestWebhookInput struct {
	URL      string          `json:"url"`
	Payload  json.RawMessage `json:"payload"`
	UserID   string          `json:"-"`
	Username string          `json:"-"`
}

type TestWebhookResult struct {
	OK          bool        `json:"ok"`
	DeliveredTo string      `json:"deliveredTo"`
	Payload     interface{} `json:"payload"`
}
