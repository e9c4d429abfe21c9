package utils

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"log"

	"learnhub/config"

	"github.com/go-resty/resty/v2"
)

// GatewayOrder is the subset of the gateway's order response we keep
type GatewayOrder struct {
	ID       string `json:"id"`
	Amount   int64  `json:"amount"`
	Currency string `json:"currency"`
	Receipt  string `json:"receipt"`
	Status   string `json:"status"`
}

// CreateGatewayOrder creates an order at the payment gateway. Amount is in
// the smallest currency unit (paise for INR).
func CreateGatewayOrder(amount int64, currency, receipt string) (*GatewayOrder, error) {
	cfg := config.AppConfig

	var order GatewayOrder
	resp, err := resty.New().R().
		SetBasicAuth(cfg.GatewayKeyID, cfg.GatewayKeySecret).
		SetBody(map[string]interface{}{
			"amount":   amount,
			"currency": currency,
			"receipt":  receipt,
		}).
		SetResult(&order).
		Post(cfg.GatewayApiURL + "/orders")
	if err != nil {
		log.Printf("Error creating gateway order: %v", err)
		return nil, err
	}
	if resp.IsError() {
		log.Printf("Gateway order creation failed: %d %s", resp.StatusCode(), resp.String())
		return nil, fmt.Errorf("gateway order creation failed, code: %d", resp.StatusCode())
	}

	return &order, nil
}

// VerifyPaymentSignature checks the client-side capture signature:
// HMAC-SHA256 of "orderID|paymentID" with the gateway secret.
func VerifyPaymentSignature(orderID, paymentID, signature string) bool {
	mac := hmac.New(sha256.New, []byte(config.AppConfig.GatewayKeySecret))
	mac.Write([]byte(orderID + "|" + paymentID))
	expected := hex.EncodeToString(mac.Sum(nil))
	return hmac.Equal([]byte(expected), []byte(signature))
}

// VerifyWebhookSignature checks the gateway webhook signature over the raw body
func VerifyWebhookSignature(body []byte, signature string) bool {
	mac := hmac.New(sha256.New, []byte(config.AppConfig.GatewayKeySecret))
	mac.Write(body)
	expected := hex.EncodeToString(mac.Sum(nil))
	return hmac.Equal([]byte(expected), []byte(signature))
}
