// Package recaptcha verifies bot-check tokens against the siteverify endpoint.
package recaptcha

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"

	commonhttp "lead-funnel/internal/common/http"
	"lead-funnel/internal/common/logger"
)

const (
	DefaultVerifyURL = "https://www.google.com/recaptcha/api/siteverify"
	DefaultMinScore  = 0.3
)

type Config struct {
	SecretKey string
	VerifyURL string
	MinScore  float64
	Timeout   time.Duration
}

// Result is the outcome of one verification.
type Result struct {
	Success bool
	Score   *float64
	Error   string
	Skipped bool
}

type siteverifyResponse struct {
	Success     bool     `json:"success"`
	Score       *float64 `json:"score"`
	Action      string   `json:"action"`
	ChallengeTS string   `json:"challenge_ts"`
	Hostname    string   `json:"hostname"`
	ErrorCodes  []string `json:"error-codes"`
}

type Verifier struct {
	cfg        Config
	httpClient *commonhttp.Client
	logger     logger.Logger
}

func NewVerifier(cfg Config, log logger.Logger) *Verifier {
	if cfg.VerifyURL == "" {
		cfg.VerifyURL = DefaultVerifyURL
	}
	if cfg.MinScore == 0 {
		cfg.MinScore = DefaultMinScore
	}
	if cfg.Timeout == 0 {
		cfg.Timeout = 10 * time.Second
	}
	return &Verifier{
		cfg:        cfg,
		httpClient: commonhttp.NewClient(cfg.Timeout),
		logger:     log.WithFields(map[string]interface{}{"component": "recaptcha"}),
	}
}

// Verify checks token. Without a configured secret every token is accepted.
func (v *Verifier) Verify(ctx context.Context, token string) Result {
	if v.cfg.SecretKey == "" {
		v.logger.Warn("reCAPTCHA secret not configured, skipping verification", nil)
		return Result{Success: true, Skipped: true}
	}
	if token == "" {
		return Result{Error: "No reCAPTCHA token provided"}
	}

	form := url.Values{"secret": {v.cfg.SecretKey}, "response": {token}}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, v.cfg.VerifyURL, strings.NewReader(form.Encode()))
	if err != nil {
		return v.failed(err)
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")

	resp, err := v.httpClient.Do(req)
	if err != nil {
		return v.failed(err)
	}
	defer resp.Body.Close()

	var body siteverifyResponse
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		return v.failed(fmt.Errorf("decode siteverify response (status %d): %w", resp.StatusCode, err))
	}

	if !body.Success {
		codes := "unknown error"
		if len(body.ErrorCodes) > 0 {
			codes = strings.Join(body.ErrorCodes, ", ")
		}
		v.logger.Warn("reCAPTCHA verification failed", map[string]interface{}{
			"errorCodes": body.ErrorCodes,
			"hostname":   body.Hostname,
		})
		return Result{Error: "reCAPTCHA verification failed: " + codes}
	}

	if body.Score != nil && *body.Score < v.cfg.MinScore {
		v.logger.Warn("reCAPTCHA score too low", map[string]interface{}{
			"score":    *body.Score,
			"minScore": v.cfg.MinScore,
		})
		return Result{Score: body.Score, Error: "Suspicious activity detected"}
	}

	return Result{Success: true, Score: body.Score}
}

func (v *Verifier) failed(err error) Result {
	v.logger.Error("reCAPTCHA verification error", map[string]interface{}{"error": err})
	return Result{Error: "reCAPTCHA verification error"}
}
