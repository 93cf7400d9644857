package testevents

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"sync"
	"sync/atomic"
	"time"

	"github.com/okian/hacksphere/pkg/logger"
)

// errRateLimited reports a 429 from the service.
var errRateLimited = errors.New("rate limited")

// HTTPClient wraps http.Client with timeout
type HTTPClient struct {
	client  *http.Client
	baseURL string
}

// newHTTPClient creates a new HTTP client with timeout
func newHTTPClient(baseURL string, timeout time.Duration) *HTTPClient {
	return &HTTPClient{
		client:  &http.Client{Timeout: timeout},
		baseURL: baseURL,
	}
}

// Get fetches path and decodes a 200 response into out.
func (c *HTTPClient) Get(ctx context.Context, path string, out any) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+path, nil)
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}
	_, err = c.do(req, out, http.StatusOK)
	return err
}

// Post sends body as JSON and decodes the response into out. It returns the
// response status, which is one of want.
func (c *HTTPClient) Post(ctx context.Context, path string, body, out any, want ...int) (int, error) {
	data, err := json.Marshal(body)
	if err != nil {
		return 0, fmt.Errorf("failed to marshal request body: %w", err)
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+path, bytes.NewReader(data))
	if err != nil {
		return 0, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	return c.do(req, out, want...)
}

func (c *HTTPClient) do(req *http.Request, out any, want ...int) (int, error) {
	resp, err := c.client.Do(req)
	if err != nil {
		return 0, err
	}
	defer func() {
		if err := resp.Body.Close(); err != nil {
			logger.Get().Error(context.Background(), "failed to close response body", logger.Error(err))
		}
	}()
	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return resp.StatusCode, fmt.Errorf("failed to read response: %w", err)
	}
	if resp.StatusCode == http.StatusTooManyRequests {
		return resp.StatusCode, errRateLimited
	}
	for _, code := range want {
		if resp.StatusCode != code {
			continue
		}
		if out != nil {
			if err := json.Unmarshal(body, out); err != nil {
				return resp.StatusCode, fmt.Errorf("failed to decode %s %s: %w", req.Method, req.URL.Path, err)
			}
		}
		return resp.StatusCode, nil
	}
	return resp.StatusCode, fmt.Errorf("%s %s: unexpected status %d: %s", req.Method, req.URL.Path, resp.StatusCode, bytes.TrimSpace(body))
}

// submitScorecards writes scorecards concurrently using a worker pool.
// A rate-limited write is retried after a backoff.
func submitScorecards(ctx context.Context, config *Config, client *HTTPClient, submissionIDs []string, cards []Scorecard, stats *Stats) error {
	logger.Get().Info(ctx, "submitting scorecards",
		logger.Int("scorecards", len(cards)),
		logger.Int("workers", config.Workers))

	var (
		submitted   int64
		created     int64
		replaced    int64
		failed      int64
		rateLimited int64
	)

	cardChan := make(chan Scorecard, config.Workers*WorkerChannelMultiplier)
	var wg sync.WaitGroup

	for i := 0; i < config.Workers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for card := range cardChan {
				res, retries, err := submitScorecard(ctx, client, submissionIDs[card.Submission], card)
				atomic.AddInt64(&submitted, 1)
				atomic.AddInt64(&rateLimited, int64(retries))
				switch {
				case err != nil:
					atomic.AddInt64(&failed, 1)
					logger.Get().Warn(ctx, "scorecard rejected",
						logger.String("judge", card.JudgeID),
						logger.Int("submission", card.Submission),
						logger.Error(err))
				case res.Replaced:
					atomic.AddInt64(&replaced, 1)
				default:
					atomic.AddInt64(&created, 1)
				}
				if config.Verbose && err == nil {
					logger.Get().Debug(ctx, "scorecard stored",
						logger.String("id", res.Score.ID),
						logger.Int("total", res.Score.Total),
						logger.Bool("replaced", res.Replaced))
				}
			}
		}()
	}

	go func() {
		defer close(cardChan)
		for _, card := range cards {
			select {
			case <-ctx.Done():
				return
			case cardChan <- card:
			}
		}
	}()

	wg.Wait()

	stats.ScorecardsSent += int(atomic.LoadInt64(&submitted))
	stats.ScorecardsCreated += int(atomic.LoadInt64(&created))
	stats.ScorecardsReplaced += int(atomic.LoadInt64(&replaced))
	stats.ScorecardsFailed += int(atomic.LoadInt64(&failed))
	stats.RateLimited += int(atomic.LoadInt64(&rateLimited))

	if err := ctx.Err(); err != nil {
		return err
	}
	if n := atomic.LoadInt64(&failed); n > 0 {
		return fmt.Errorf("%d of %d scorecards failed", n, len(cards))
	}
	return nil
}

// submitScorecard writes one scorecard and returns how many times it was
// rate limited on the way.
func submitScorecard(ctx context.Context, client *HTTPClient, submissionID string, card Scorecard) (scoreResponse, int, error) {
	body := map[string]any{
		"judge_id":   card.JudgeID,
		"round":      card.Round,
		"innovation": card.Innovation,
		"technical":  card.Technical,
		"design":     card.Design,
		"impact":     card.Impact,
		"feedback":   card.Feedback,
	}
	path := "/api/submissions/" + submissionID + "/scores"
	for attempt := 0; attempt < MaxRateLimitAttempts; attempt++ {
		var res scoreResponse
		_, err := client.Post(ctx, path, body, &res, http.StatusCreated, http.StatusOK)
		if !errors.Is(err, errRateLimited) {
			return res, attempt, err
		}
		select {
		case <-ctx.Done():
			return scoreResponse{}, attempt + 1, ctx.Err()
		case <-time.After(RateLimitBackoff):
		}
	}
	return scoreResponse{}, MaxRateLimitAttempts, errRateLimited
}
