package planhat

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"planhat-usage-sync/internal/model"
)

// Client talks to the Planhat REST and analytics APIs with a Bearer token.
type Client struct {
	BaseURL      string
	AnalyticsURL string
	Token        string
	HTTPClient   *http.Client
}

func NewClient(baseURL, analyticsURL, token string) *Client {
	return &Client{
		BaseURL:      baseURL,
		AnalyticsURL: analyticsURL,
		Token:        token,
		HTTPClient:   &http.Client{Timeout: 30 * time.Second},
	}
}

// rawCompany mirrors the companies endpoint response. The "Org ID"
// custom field is nested and frequently absent.
type rawCompany struct {
	ID     string                 `json:"_id"`
	Name   string                 `json:"name"`
	Custom map[string]interface{} `json:"custom"`
}

// FetchCompanies pulls a single page of the company roster. One bounded
// request only: rosters larger than limit are silently truncated, which
// is a known limitation kept as-is.
func (c *Client) FetchCompanies(ctx context.Context, limit int) ([]model.Company, error) {
	log.Printf("🌐 Fetching a single batch of up to %d companies from Planhat...", limit)

	endpoint := fmt.Sprintf("%s/companies", c.BaseURL)
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return nil, fmt.Errorf("build companies request: %w", err)
	}
	q := url.Values{}
	q.Set("offset", "0")
	q.Set("limit", strconv.Itoa(limit))
	req.URL.RawQuery = q.Encode()
	req.Header.Set("Authorization", "Bearer "+c.Token)

	resp, err := c.HTTPClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("fetch companies: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return nil, fmt.Errorf("fetch companies: unexpected status %d: %s", resp.StatusCode, string(body))
	}

	var raw []rawCompany
	if err := json.NewDecoder(resp.Body).Decode(&raw); err != nil {
		return nil, fmt.Errorf("decode companies response: %w", err)
	}

	companies := make([]model.Company, 0, len(raw))
	for _, rc := range raw {
		companies = append(companies, model.Company{
			PlanhatID:   rc.ID,
			OrgID:       customString(rc.Custom, "Org ID"),
			CompanyName: rc.Name,
		})
	}
	log.Printf("🌐 Successfully fetched %d companies", len(companies))
	return companies, nil
}

// customString pulls a string field out of the custom map; missing or
// non-string values map to empty rather than failing.
func customString(custom map[string]interface{}, field string) string {
	if custom == nil {
		return ""
	}
	if s, ok := custom[field].(string); ok {
		return s
	}
	return ""
}

// PushDimensionData posts the given data points as one JSON array to the
// per-tenant dimension-data endpoint.
func (c *Client) PushDimensionData(ctx context.Context, tenantID string, points []model.DimensionPoint) error {
	endpoint := fmt.Sprintf("%s/dimensiondata/%s", c.AnalyticsURL, tenantID)

	payload, err := json.Marshal(points)
	if err != nil {
		return fmt.Errorf("marshal dimension data: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, bytes.NewReader(payload))
	if err != nil {
		return fmt.Errorf("build dimension data request: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+c.Token)
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.HTTPClient.Do(req)
	if err != nil {
		return fmt.Errorf("post dimension data: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return fmt.Errorf("post dimension data: unexpected status %d: %s", resp.StatusCode, string(body))
	}
	return nil
}
