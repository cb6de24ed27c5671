// internal/app/system/mpesa/client.go
package mpesa

import (
	"bytes"
	"context"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"go.uber.org/zap"
	"golang.org/x/oauth2"
	"golang.org/x/oauth2/clientcredentials"
)

// Environments map to the Daraja base URLs.
const (
	EnvSandbox    = "sandbox"
	EnvProduction = "production"

	sandboxBaseURL    = "https://sandbox.safaricom.co.ke"
	productionBaseURL = "https://api.safaricom.co.ke"
)

// Config holds Daraja API credentials.
type Config struct {
	Env            string
	ConsumerKey    string
	ConsumerSecret string
	ShortCode      string
	Passkey        string
	CallbackURL    string
}

// Client talks to the Daraja API. The OAuth2 token is fetched and
// refreshed by the client-credentials token source.
type Client struct {
	cfg     Config
	baseURL string
	http    *http.Client
	log     *zap.Logger
}

// New creates a Daraja client for the configured environment.
func New(cfg Config, log *zap.Logger) *Client {
	baseURL := sandboxBaseURL
	if cfg.Env == EnvProduction {
		baseURL = productionBaseURL
	}

	cc := clientcredentials.Config{
		ClientID:     cfg.ConsumerKey,
		ClientSecret: cfg.ConsumerSecret,
		TokenURL:     baseURL + "/oauth/v1/generate?grant_type=client_credentials",
		AuthStyle:    oauth2.AuthStyleInHeader,
	}

	return &Client{
		cfg:     cfg,
		baseURL: baseURL,
		http:    cc.Client(context.Background()),
		log:     log,
	}
}

// STKRequest initiates a customer-to-business payment prompt.
type STKRequest struct {
	Phone            string // 2547XXXXXXXX
	Amount           int
	AccountReference string
	Description      string
}

// STKResponse is the synchronous acknowledgement from Daraja. The payment
// outcome arrives later on the callback URL.
type STKResponse struct {
	MerchantRequestID   string `json:"MerchantRequestID"`
	CheckoutRequestID   string `json:"CheckoutRequestID"`
	ResponseCode        string `json:"ResponseCode"`
	ResponseDescription string `json:"ResponseDescription"`
	CustomerMessage     string `json:"CustomerMessage"`
}

// stkPassword is base64(shortcode + passkey + timestamp) per the Daraja spec.
func stkPassword(shortCode, passkey, timestamp string) string {
	return base64.StdEncoding.EncodeToString([]byte(shortCode + passkey + timestamp))
}

// STKPush sends an STK push prompt to the customer's phone.
func (c *Client) STKPush(ctx context.Context, req STKRequest) (*STKResponse, error) {
	timestamp := time.Now().Format("20060102150405")

	payload := map[string]interface{}{
		"BusinessShortCode": c.cfg.ShortCode,
		"Password":          stkPassword(c.cfg.ShortCode, c.cfg.Passkey, timestamp),
		"Timestamp":         timestamp,
		"TransactionType":   "CustomerPayBillOnline",
		"Amount":            req.Amount,
		"PartyA":            req.Phone,
		"PartyB":            c.cfg.ShortCode,
		"PhoneNumber":       req.Phone,
		"CallBackURL":       c.cfg.CallbackURL,
		"AccountReference":  req.AccountReference,
		"TransactionDesc":   req.Description,
	}

	body, err := json.Marshal(payload)
	if err != nil {
		return nil, fmt.Errorf("marshal stk request: %w", err)
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost,
		c.baseURL+"/mpesa/stkpush/v1/processrequest", bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("build stk request: %w", err)
	}
	httpReq.Header.Set("Content-Type", "application/json")

	resp, err := c.http.Do(httpReq)
	if err != nil {
		return nil, fmt.Errorf("stk push: %w", err)
	}
	defer resp.Body.Close()

	var out STKResponse
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		return nil, fmt.Errorf("decode stk response: %w", err)
	}
	if resp.StatusCode != http.StatusOK || out.ResponseCode != "0" {
		c.log.Warn("stk push rejected",
			zap.Int("status", resp.StatusCode),
			zap.String("response_code", out.ResponseCode),
			zap.String("description", out.ResponseDescription))
		return &out, fmt.Errorf("stk push rejected: %s", out.ResponseDescription)
	}
	return &out, nil
}
