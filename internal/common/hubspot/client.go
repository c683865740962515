// Package hubspot is a client for the CRM contact directory.
package hubspot

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"regexp"
	"strconv"
	"strings"
	"time"

	"lead-funnel/internal/common/config"
	commonerrors "lead-funnel/internal/common/errors"
	commonhttp "lead-funnel/internal/common/http"
	"lead-funnel/internal/common/logger"
	"lead-funnel/internal/common/metrics"
	"lead-funnel/internal/models"
)

const (
	DefaultBaseURL    = "https://api.hubapi.com"
	DefaultPageSize   = 100
	DefaultMaxResults = 500

	contactsPath = "/crm/v3/objects/contacts"
	searchPath   = "/crm/v3/objects/contacts/search"

	maxErrorBody = 4096
)

var existingIDPattern = regexp.MustCompile(`Existing ID: (\d+)`)

type Config struct {
	BaseURL     string
	AccessToken string
	Timeout     time.Duration
	PageSize    int
	MaxResults  int
}

// ConfigFromApp maps the hubspot section of the application config.
func ConfigFromApp(cfg config.HubSpotConfig) Config {
	return Config{
		BaseURL:     cfg.BaseURL,
		AccessToken: cfg.AccessToken,
		Timeout:     config.GetDuration(cfg.Timeout),
		PageSize:    cfg.PageSize,
		MaxResults:  cfg.MaxResults,
	}
}

type Client struct {
	baseURL    string
	configured bool
	pageSize   int
	maxResults int
	httpClient *commonhttp.Client
	logger     logger.Logger
}

func NewClient(cfg Config, log logger.Logger) *Client {
	if cfg.BaseURL == "" {
		cfg.BaseURL = DefaultBaseURL
	}
	if cfg.Timeout == 0 {
		cfg.Timeout = 30 * time.Second
	}
	if cfg.PageSize <= 0 || cfg.PageSize > DefaultPageSize {
		cfg.PageSize = DefaultPageSize
	}
	if cfg.MaxResults <= 0 {
		cfg.MaxResults = DefaultMaxResults
	}

	return &Client{
		baseURL:    strings.TrimRight(cfg.BaseURL, "/"),
		configured: cfg.AccessToken != "",
		pageSize:   cfg.PageSize,
		maxResults: cfg.MaxResults,
		httpClient: commonhttp.NewBearerClient(cfg.AccessToken, cfg.Timeout),
		logger:     log.WithFields(map[string]interface{}{"component": "hubspot"}),
	}
}

// Configured reports whether an access token was supplied.
func (c *Client) Configured() bool {
	return c != nil && c.configured
}

// Search follows paging cursors until the directory stops returning one or
// MaxResults contacts are collected. On failure the contacts gathered so far
// are returned alongside the error.
func (c *Client) Search(ctx context.Context, req SearchRequest) (*SearchResult, error) {
	limit := req.MaxResults
	if limit <= 0 {
		limit = c.maxResults
	}
	if req.Limit <= 0 || req.Limit > c.pageSize {
		req.Limit = c.pageSize
	}
	if len(req.Properties) == 0 {
		req.Properties = ContactFields
	}

	result := &SearchResult{}
	for {
		var page searchResponse
		if err := c.doJSON(ctx, "search", http.MethodPost, searchPath, req, &page); err != nil {
			return result, err
		}
		result.Pages++
		result.Total = page.Total

		for _, rec := range page.Results {
			if len(result.Contacts) == limit {
				result.Truncated = true
				break
			}
			result.Contacts = append(result.Contacts, rec.toContact())
		}

		next := page.nextAfter()
		if len(result.Contacts) >= limit {
			if next != "" {
				result.Truncated = true
			}
			break
		}
		if next == "" || len(page.Results) == 0 {
			break
		}
		req.After = next
	}

	if result.Truncated {
		c.logger.Warn("Search result truncated at cap", map[string]interface{}{
			"cap":   limit,
			"total": result.Total,
			"pages": result.Pages,
		})
	}

	return result, nil
}

// Create inserts a contact. A 409 yields *AlreadyExistsError carrying the
// existing record's id when the directory reports one.
func (c *Client) Create(ctx context.Context, props ContactProperties) (*models.Contact, error) {
	var rec contactRecord
	err := c.doJSON(ctx, "create", http.MethodPost, contactsPath, propertiesBody{Properties: props}, &rec)
	if err != nil {
		var apiErr *APIError
		if errors.As(err, &apiErr) && apiErr.StatusCode == http.StatusConflict {
			return nil, &AlreadyExistsError{ExistingID: parseExistingID(apiErr.Message)}
		}
		return nil, err
	}
	contact := rec.toContact()
	return &contact, nil
}

// Update patches the given properties onto contact id.
func (c *Client) Update(ctx context.Context, id string, props ContactProperties) (*models.Contact, error) {
	var rec contactRecord
	path := contactsPath + "/" + url.PathEscape(id)
	if err := c.doJSON(ctx, "update", http.MethodPatch, path, propertiesBody{Properties: props}, &rec); err != nil {
		return nil, err
	}
	contact := rec.toContact()
	return &contact, nil
}

func (c *Client) Get(ctx context.Context, id string) (*models.Contact, error) {
	var rec contactRecord
	path := fmt.Sprintf("%s/%s?properties=%s", contactsPath, url.PathEscape(id), strings.Join(ContactFields, ","))
	if err := c.doJSON(ctx, "get", http.MethodGet, path, nil, &rec); err != nil {
		return nil, err
	}
	contact := rec.toContact()
	return &contact, nil
}

// FindByEmail returns the first contact with the given email, or nil.
func (c *Client) FindByEmail(ctx context.Context, email string) (*models.Contact, error) {
	res, err := c.Search(ctx, SearchRequest{
		FilterGroups: []FilterGroup{{Filters: []Filter{
			{PropertyName: "email", Operator: OpEQ, Value: email},
		}}},
		Properties: ContactFields,
		Limit:      1,
		MaxResults: 1,
	})
	if err != nil {
		return nil, err
	}
	if len(res.Contacts) == 0 {
		return nil, nil
	}
	return &res.Contacts[0], nil
}

// Upsert creates the contact, falling back to an update of the existing
// record on conflict.
func (c *Client) Upsert(ctx context.Context, props ContactProperties) (*models.Contact, error) {
	contact, err := c.Create(ctx, props)
	if err == nil {
		return contact, nil
	}

	var exists *AlreadyExistsError
	if !errors.As(err, &exists) {
		return nil, err
	}
	if exists.ExistingID == "" {
		return nil, commonerrors.NewContactAlreadyExistsError("unknown", err)
	}

	c.logger.Info("Contact exists, updating", map[string]interface{}{"contactId": exists.ExistingID})
	return c.Update(ctx, exists.ExistingID, props)
}

func (c *Client) doJSON(ctx context.Context, operation, method, path string, body, out interface{}) error {
	var reader io.Reader
	if body != nil {
		payload, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("failed to marshal %s request: %w", operation, err)
		}
		reader = bytes.NewReader(payload)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reader)
	if err != nil {
		return fmt.Errorf("failed to create %s request: %w", operation, err)
	}
	req.Header.Set("Accept", "application/json")
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		metrics.DirectoryRequests.WithLabelValues(operation, "error").Inc()
		return fmt.Errorf("hubspot %s request failed: %w", operation, err)
	}
	defer resp.Body.Close()

	metrics.DirectoryRequests.WithLabelValues(operation, strconv.Itoa(resp.StatusCode)).Inc()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		raw, _ := io.ReadAll(io.LimitReader(resp.Body, maxErrorBody))
		return &APIError{Operation: operation, StatusCode: resp.StatusCode, Message: errorMessage(raw)}
	}

	if out == nil {
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("failed to decode %s response: %w", operation, err)
	}
	return nil
}

func errorMessage(raw []byte) string {
	var body errorBody
	if err := json.Unmarshal(raw, &body); err == nil && body.Message != "" {
		return body.Message
	}
	return strings.TrimSpace(string(raw))
}

func parseExistingID(message string) string {
	if m := existingIDPattern.FindStringSubmatch(message); len(m) == 2 {
		return m[1]
	}
	return ""
}
