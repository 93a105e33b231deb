package broker

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"gorm.io/datatypes"

	"brokerledger/internal/models"
)

const operationsPath = "/tinkoff.public.invest.api.contract.v1.OperationsService/GetOperations"

type Client struct {
	host       string
	token      string
	httpClient *http.Client
}

type APIError struct {
	Status int
	Body   string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("broker API error (%d): %s", e.Status, e.Body)
}

func NewClient(httpClient *http.Client, host, token string) *Client {
	host = strings.TrimRight(host, "/")
	return &Client{
		host:       host,
		token:      token,
		httpClient: httpClient,
	}
}

// GetOperations fetches executed ledger operations for an account over
// [from, to]. Each wire row is normalized into a models.Operation with
// an exact decimal amount; the raw row is kept alongside for audit.
func (c *Client) GetOperations(ctx context.Context, accountID string, from, to time.Time) ([]models.Operation, error) {
	reqBody := getOperationsRequest{
		AccountID: accountID,
		From:      from.UTC().Format(time.RFC3339),
		To:        to.UTC().Format(time.RFC3339),
		State:     "OPERATION_STATE_EXECUTED",
	}
	raw, err := c.doRequest(ctx, operationsPath, reqBody)
	if err != nil {
		return nil, err
	}

	var resp getOperationsResponse
	if err := json.Unmarshal(raw, &resp); err != nil {
		return nil, fmt.Errorf("decode operations response: %w", err)
	}

	ops := make([]models.Operation, 0, len(resp.Operations))
	for _, w := range resp.Operations {
		executedAt, err := time.Parse(time.RFC3339, w.Date)
		if err != nil {
			return nil, fmt.Errorf("operation %s: parse date %q: %w", w.ID, w.Date, err)
		}
		rawRow, _ := json.Marshal(w)
		ops = append(ops, models.Operation{
			ExternalID: w.ID,
			AccountID:  accountID,
			Kind:       normalizeKind(w.Type),
			ExecutedAt: executedAt,
			Amount:     w.Payment.Decimal(),
			Currency:   w.Payment.Currency,
			Raw:        datatypes.JSON(rawRow),
		})
	}
	return ops, nil
}

func (c *Client) doRequest(ctx context.Context, path string, body any) ([]byte, error) {
	payload, err := json.Marshal(body)
	if err != nil {
		return nil, fmt.Errorf("encode request: %w", err)
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.host+path, bytes.NewReader(payload))
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")
	req.Header.Set("Authorization", "Bearer "+c.token)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("request failed: %w", err)
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read response: %w", err)
	}
	if resp.StatusCode != http.StatusOK {
		return nil, &APIError{Status: resp.StatusCode, Body: string(respBody)}
	}
	return respBody, nil
}
