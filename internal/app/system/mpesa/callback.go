// internal/app/system/mpesa/callback.go
package mpesa

import (
	"encoding/json"
	"fmt"
	"io"
	"strconv"
	"time"
)

// CallbackResult is the payment outcome extracted from a Daraja callback.
type CallbackResult struct {
	MerchantRequestID string
	CheckoutRequestID string
	ResultCode        int
	ResultDesc        string

	// Set only when ResultCode == 0.
	Amount          float64
	ReceiptNumber   string
	Phone           string
	TransactionTime time.Time
}

// Success reports whether the customer completed the payment.
func (r CallbackResult) Success() bool { return r.ResultCode == 0 }

type callbackEnvelope struct {
	Body struct {
		StkCallback struct {
			MerchantRequestID string `json:"MerchantRequestID"`
			CheckoutRequestID string `json:"CheckoutRequestID"`
			ResultCode        int    `json:"ResultCode"`
			ResultDesc        string `json:"ResultDesc"`
			CallbackMetadata  struct {
				Item []struct {
					Name  string      `json:"Name"`
					Value interface{} `json:"Value"`
				} `json:"Item"`
			} `json:"CallbackMetadata"`
		} `json:"stkCallback"`
	} `json:"Body"`
}

// ParseCallback decodes the Daraja STK callback payload.
func ParseCallback(r io.Reader) (*CallbackResult, error) {
	var env callbackEnvelope
	if err := json.NewDecoder(r).Decode(&env); err != nil {
		return nil, fmt.Errorf("decode callback: %w", err)
	}

	cb := env.Body.StkCallback
	if cb.CheckoutRequestID == "" {
		return nil, fmt.Errorf("callback missing CheckoutRequestID")
	}

	result := &CallbackResult{
		MerchantRequestID: cb.MerchantRequestID,
		CheckoutRequestID: cb.CheckoutRequestID,
		ResultCode:        cb.ResultCode,
		ResultDesc:        cb.ResultDesc,
	}

	for _, item := range cb.CallbackMetadata.Item {
		switch item.Name {
		case "Amount":
			if v, ok := toFloat(item.Value); ok {
				result.Amount = v
			}
		case "MpesaReceiptNumber":
			if s, ok := item.Value.(string); ok {
				result.ReceiptNumber = s
			}
		case "PhoneNumber":
			result.Phone = phoneString(item.Value)
		case "TransactionDate":
			if v, ok := toFloat(item.Value); ok {
				// Format: YYYYMMDDHHMMSS as a number.
				if t, err := time.Parse("20060102150405", strconv.FormatInt(int64(v), 10)); err == nil {
					result.TransactionTime = t
				}
			}
		}
	}
	return result, nil
}

func toFloat(v interface{}) (float64, bool) {
	switch n := v.(type) {
	case float64:
		return n, true
	case json.Number:
		f, err := n.Float64()
		return f, err == nil
	case string:
		f, err := strconv.ParseFloat(n, 64)
		return f, err == nil
	}
	return 0, false
}

func phoneString(v interface{}) string {
	switch n := v.(type) {
	case string:
		return n
	case float64:
		return strconv.FormatInt(int64(n), 10)
	}
	return ""
}
