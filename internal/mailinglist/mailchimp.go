package mailinglist

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"
)

// Remote is a list service subscribers are pushed to
type Remote interface {
	Subscribe(ctx context.Context, remoteListID string, emails []string) (*SubscribeResult, error)
}

// SubscribeResult summarizes a batch subscription
type SubscribeResult struct {
	Created int
	Updated int
	Errors  []string
}

// ErrRemoteNotConfigured is returned when no API key is set
var ErrRemoteNotConfigured = errors.New("mailchimp: api key not configured")

// batchSize is the largest member batch the Mailchimp API accepts
const batchSize = 500

// MailchimpClient talks to the Mailchimp marketing API
type MailchimpClient struct {
	apiKey  string
	baseURL string
	http    *http.Client
}

// NewMailchimpClient creates a client. An empty baseURL is derived from the
// data center suffix of the key, e.g. "...-us6".
func NewMailchimpClient(apiKey, baseURL string) *MailchimpClient {
	if baseURL == "" {
		if i := strings.LastIndex(apiKey, "-"); i >= 0 {
			baseURL = "https://" + apiKey[i+1:] + ".api.mailchimp.com/3.0"
		}
	}
	return &MailchimpClient{
		apiKey:  apiKey,
		baseURL: strings.TrimRight(baseURL, "/"),
		http:    &http.Client{Timeout: 30 * time.Second},
	}
}

type member struct {
	EmailAddress string `json:"email_address"`
	Status       string `json:"status"`
}

type batchRequest struct {
	Members        []member `json:"members"`
	UpdateExisting bool     `json:"update_existing"`
}

type batchResponse struct {
	TotalCreated int `json:"total_created"`
	TotalUpdated int `json:"total_updated"`
	Errors       []struct {
		EmailAddress string `json:"email_address"`
		Error        string `json:"error"`
	} `json:"errors"`
}

// Subscribe adds or updates emails as subscribed members of the list
func (c *MailchimpClient) Subscribe(ctx context.Context, remoteListID string, emails []string) (*SubscribeResult, error) {
	if c.apiKey == "" {
		return nil, ErrRemoteNotConfigured
	}

	result := &SubscribeResult{}
	for start := 0; start < len(emails); start += batchSize {
		end := min(start+batchSize, len(emails))

		batch := batchRequest{UpdateExisting: true}
		for _, e := range emails[start:end] {
			batch.Members = append(batch.Members, member{EmailAddress: e, Status: "subscribed"})
		}

		resp, err := c.post(ctx, "/lists/"+remoteListID, batch)
		if err != nil {
			return nil, err
		}
		result.Created += resp.TotalCreated
		result.Updated += resp.TotalUpdated
		for _, e := range resp.Errors {
			result.Errors = append(result.Errors, e.EmailAddress+": "+e.Error)
		}
	}
	return result, nil
}

func (c *MailchimpClient) post(ctx context.Context, path string, body any) (*batchResponse, error) {
	payload, err := json.Marshal(body)
	if err != nil {
		return nil, fmt.Errorf("failed to encode request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+path, bytes.NewReader(payload))
	if err != nil {
		return nil, fmt.Errorf("failed to build request: %w", err)
	}
	req.SetBasicAuth("membership", c.apiKey)
	req.Header.Set("Content-Type", "application/json")

	res, err := c.http.Do(req)
	if err != nil {
		return nil, fmt.Errorf("mailchimp request failed: %w", err)
	}
	defer res.Body.Close()

	if res.StatusCode >= 300 {
		detail, _ := io.ReadAll(io.LimitReader(res.Body, 1024))
		return nil, fmt.Errorf("mailchimp responded %d: %s", res.StatusCode, strings.TrimSpace(string(detail)))
	}

	var out batchResponse
	if err := json.NewDecoder(res.Body).Decode(&out); err != nil {
		return nil, fmt.Errorf("failed to decode mailchimp response: %w", err)
	}
	return &out, nil
}
