package token

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"path"
	"strconv"
	"time"

	domainErrors "github.com/polkiloo/merchpay/internal/domain/errors"
	"github.com/polkiloo/merchpay/internal/domain/model"
)

// TooManyRequestsError represents rate limiting signal from the token service.
type TooManyRequestsError struct {
	RetryAfter time.Duration
}

func (e TooManyRequestsError) Error() string {
	return fmt.Sprintf("too many requests, retry after %s", e.RetryAfter)
}

// Is reports the throttling as ErrTransferThrottled. A throttled transfer was
// not applied.
func (e TooManyRequestsError) Is(target error) bool {
	return target == domainErrors.ErrTransferThrottled
}

// Client moves tokens between wallets.
type Client interface {
	Transfer(ctx context.Context, transfer model.Transfer) error
}

// HTTPClient implements Client via the token service HTTP API.
type HTTPClient struct {
	baseURL    *url.URL
	httpClient *http.Client
	logger     *slog.Logger
}

type transferRequest struct {
	ID     string `json:"id"`
	From   string `json:"from"`
	To     string `json:"to"`
	Amount uint64 `json:"amount"`
	Reason string `json:"reason"`
}

// NewHTTPClient creates HTTP token client with default timeout.
func NewHTTPClient(baseURL string, logger *slog.Logger) (*HTTPClient, error) {
	parsed, err := url.Parse(baseURL)
	if err != nil {
		return nil, fmt.Errorf("parse token service url: %w", err)
	}
	if !parsed.IsAbs() {
		return nil, fmt.Errorf("token service url must be absolute")
	}
	return &HTTPClient{
		baseURL: parsed,
		logger:  logger,
		httpClient: &http.Client{
			Timeout: 10 * time.Second,
		},
	}, nil
}

// Transfer asks the token service to move transfer.Amount of transfer.Token.
// The transfer ID is sent so the service can deduplicate retries.
func (c *HTTPClient) Transfer(ctx context.Context, transfer model.Transfer) error {
	endpoint := *c.baseURL
	endpoint.Path = path.Join(endpoint.Path, "/api/tokens/", transfer.Token, "transfers")

	payload, err := json.Marshal(transferRequest{
		ID:     transfer.ID,
		From:   transfer.From,
		To:     transfer.To,
		Amount: transfer.Amount,
		Reason: string(transfer.Reason),
	})
	if err != nil {
		return err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint.String(), bytes.NewReader(payload))
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Idempotency-Key", transfer.ID)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	switch resp.StatusCode {
	case http.StatusOK, http.StatusCreated, http.StatusAccepted:
		_, _ = io.Copy(io.Discard, resp.Body)
		return nil
	case http.StatusPaymentRequired, http.StatusConflict, http.StatusUnprocessableEntity:
		body, _ := io.ReadAll(resp.Body)
		c.logger.Warn("token transfer rejected",
			slog.String("transfer_id", transfer.ID),
			slog.Int("status", resp.StatusCode),
			slog.String("body", string(body)),
		)
		return fmt.Errorf("%w: %s", domainErrors.ErrTransferRejected, resp.Status)
	case http.StatusTooManyRequests:
		return TooManyRequestsError{RetryAfter: parseRetryAfter(resp.Header.Get("Retry-After"))}
	default:
		body, _ := io.ReadAll(resp.Body)
		c.logger.Error("token service request failed", slog.Int("status", resp.StatusCode), slog.String("body", string(body)))
		return fmt.Errorf("token service error: %s", resp.Status)
	}
}

func parseRetryAfter(header string) time.Duration {
	if header == "" {
		return 5 * time.Second
	}
	if seconds, err := strconv.Atoi(header); err == nil {
		return time.Duration(seconds) * time.Second
	}
	if t, err := http.ParseTime(header); err == nil {
		return time.Until(t)
	}
	return 5 * time.Second
}
