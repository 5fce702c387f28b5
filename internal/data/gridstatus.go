// Package data fetches ERCOT market prices from the Grid Status API and
// loads JSON fixtures for offline runs. It is the upstream price source for
// the clearing pipeline; an empty data array from the API is a valid
// outcome (all-null clearing results), not a failure.
package data

import (
	"encoding/json"
	"fmt"
	"log"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"virtual-energy-trader/internal/model"
)

// Default ERCOT datasets. Both are overridable in config.
const (
	DatasetDayAheadSPP = "ercot_spp_day_ahead_hourly"
	DatasetRealTimeLMP = "ercot_lmp_by_settlement_point"
)

// Rate-limited requests are retried a fixed small number of times.
const maxAttempts = 3

// GridStatusClient provides methods to fetch price data from the Grid
// Status API.
type GridStatusClient struct {
	APIKey  string
	BaseURL string
	Client  *http.Client
}

// NewGridStatusClient creates a new Grid Status API client.
// If baseURL is empty, defaults to "https://api.gridstatus.io".
func NewGridStatusClient(apiKey string, baseURL string) *GridStatusClient {
	if baseURL == "" {
		baseURL = "https://api.gridstatus.io"
	}
	return &GridStatusClient{
		APIKey:  apiKey,
		BaseURL: baseURL,
		Client: &http.Client{
			Timeout: 30 * time.Second,
		},
	}
}

// QueryParams defines parameters for querying a price dataset at one
// settlement point.
type QueryParams struct {
	DatasetID       string    // e.g. DatasetDayAheadSPP
	SettlementPoint string    // e.g. "HB_NORTH" or "LZ_HOUSTON"
	StartTime       time.Time // start of date range
	EndTime         time.Time // end of date range
	Timezone        string    // e.g. "market", "UTC" (default: "market")
}

// GridStatusError represents an error response from the Grid Status API.
type GridStatusError struct {
	StatusCode int
	Code       string
	Message    string
	RetryAfter string // for rate limit errors
}

func (e *GridStatusError) Error() string {
	return e.Message
}

// QueryPrices fetches price intervals for a settlement point and date range.
//
// On a 429 the request is retried up to maxAttempts times: the delay honors
// a parseable Retry-After header when the server sends one, otherwise it
// grows with the attempt number. Other failures are returned immediately.
func (c *GridStatusClient) QueryPrices(params QueryParams) (*model.GridStatusLMPResponse, error) {
	if err := c.validateAPIKey(); err != nil {
		return nil, err
	}
	if params.DatasetID == "" {
		return nil, fmt.Errorf("dataset_id is required")
	}
	if params.SettlementPoint == "" {
		return nil, fmt.Errorf("settlement_point is required")
	}
	if params.StartTime.IsZero() || params.EndTime.IsZero() {
		return nil, fmt.Errorf("start_time and end_time are required")
	}
	if params.StartTime.After(params.EndTime) {
		return nil, fmt.Errorf("start_time must be before end_time")
	}

	if cache := GetCache(); cache != nil {
		key := cacheKey(params)
		if cached, found := cache.Get(key); found {
			log.Printf("[GridStatus] Cache hit: %d intervals (dataset=%s, point=%s)",
				len(cached.Data), params.DatasetID, params.SettlementPoint)
			return cached, nil
		}
	}

	var lastErr error
	for attempt := 1; attempt <= maxAttempts; attempt++ {
		resp, err := c.doQuery(params)
		if err == nil {
			if cache := GetCache(); cache != nil {
				cache.Set(cacheKey(params), resp)
			}
			return resp, nil
		}
		lastErr = err

		gsErr, ok := err.(*GridStatusError)
		if !ok || gsErr.StatusCode != http.StatusTooManyRequests || attempt == maxAttempts {
			return nil, err
		}
		delay := retryDelay(gsErr.RetryAfter, attempt)
		log.Printf("[GridStatus] Rate limited, retrying in %v (attempt %d/%d, dataset=%s, point=%s)",
			delay, attempt, maxAttempts, params.DatasetID, params.SettlementPoint)
		time.Sleep(delay)
	}
	return nil, lastErr
}

// retryDelay picks the wait before the next attempt after a 429. A usable
// server hint wins; otherwise the default delay grows with each attempt.
func retryDelay(retryAfter string, attempt int) time.Duration {
	if retryAfter != "" {
		if secs, err := strconv.Atoi(retryAfter); err == nil && secs > 0 {
			return time.Duration(secs) * time.Second
		}
	}
	return time.Duration(attempt) * 2 * time.Second
}

func (c *GridStatusClient) doQuery(params QueryParams) (*model.GridStatusLMPResponse, error) {
	// Build URL: /v1/datasets/{dataset_id}/query/location/{location_id}
	path := fmt.Sprintf("/v1/datasets/%s/query/location/%s", params.DatasetID, params.SettlementPoint)
	u, err := url.Parse(c.BaseURL + path)
	if err != nil {
		return nil, fmt.Errorf("invalid base URL: %w", err)
	}

	q := u.Query()
	q.Set("start_time", params.StartTime.Format("2006-01-02"))
	q.Set("end_time", params.EndTime.Format("2006-01-02"))
	if params.Timezone != "" {
		q.Set("timezone", params.Timezone)
	} else {
		q.Set("timezone", "market")
	}
	u.RawQuery = q.Encode()

	log.Printf("[GridStatus] Request: GET %s (dataset=%s, point=%s, start=%s, end=%s)",
		u.Path,
		params.DatasetID,
		params.SettlementPoint,
		params.StartTime.Format("2006-01-02"),
		params.EndTime.Format("2006-01-02"))

	req, err := http.NewRequest("GET", u.String(), nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("x-api-key", c.APIKey)
	req.Header.Set("Accept", "application/json")

	startTime := time.Now()
	resp, err := c.Client.Do(req)
	duration := time.Since(startTime)
	if err != nil {
		log.Printf("[GridStatus] Request failed: %v (duration: %v)", err, duration)
		return nil, fmt.Errorf("failed to execute request: %w", err)
	}
	defer resp.Body.Close()

	log.Printf("[GridStatus] Response: %d %s (duration: %v, dataset=%s, point=%s)",
		resp.StatusCode,
		resp.Status,
		duration,
		params.DatasetID,
		params.SettlementPoint)

	switch resp.StatusCode {
	case http.StatusOK:
		// Success, continue.
	case http.StatusForbidden:
		return nil, &GridStatusError{
			StatusCode: resp.StatusCode,
			Code:       "INVALID_API_KEY",
			Message:    "Invalid API key or insufficient permissions",
		}
	case http.StatusUnauthorized:
		return nil, &GridStatusError{
			StatusCode: resp.StatusCode,
			Code:       "UNAUTHORIZED",
			Message:    "Unauthorized: Invalid API key",
		}
	case http.StatusTooManyRequests:
		retryAfter := resp.Header.Get("Retry-After")
		return nil, &GridStatusError{
			StatusCode: resp.StatusCode,
			Code:       "RATE_LIMIT_EXCEEDED",
			Message:    fmt.Sprintf("Rate limit exceeded. Retry after: %s", retryAfter),
			RetryAfter: retryAfter,
		}
	default:
		return nil, &GridStatusError{
			StatusCode: resp.StatusCode,
			Code:       "API_ERROR",
			Message:    fmt.Sprintf("API returned status %d: %s", resp.StatusCode, resp.Status),
		}
	}

	var result model.GridStatusLMPResponse
	if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
		return nil, fmt.Errorf("failed to decode response: %w", err)
	}

	log.Printf("[GridStatus] Success: Received %d intervals (dataset=%s, point=%s)",
		len(result.Data), params.DatasetID, params.SettlementPoint)
	return &result, nil
}

func (c *GridStatusClient) validateAPIKey() error {
	if c.APIKey == "" {
		return &GridStatusError{
			Code:    "MISSING_API_KEY",
			Message: "API key is required",
		}
	}
	// Reject obviously bad keys; real format validation is the server's job.
	if len(c.APIKey) < 10 {
		return &GridStatusError{
			Code:    "INVALID_API_KEY_FORMAT",
			Message: "API key appears to be invalid (too short)",
		}
	}
	return nil
}

// QueryDay fetches one trading date of a dataset at a settlement point.
// date should be in "YYYY-MM-DD" format.
func (c *GridStatusClient) QueryDay(datasetID, settlementPoint, date string) (*model.GridStatusLMPResponse, error) {
	day, err := time.Parse("2006-01-02", date)
	if err != nil {
		return nil, fmt.Errorf("invalid date format (expected YYYY-MM-DD): %w", err)
	}
	return c.QueryPrices(QueryParams{
		DatasetID:       datasetID,
		SettlementPoint: settlementPoint,
		StartTime:       day,
		EndTime:         day.AddDate(0, 0, 1),
		Timezone:        "market",
	})
}
