package search

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

	"github.com/justinabrahms/cez/internal/chess"
	"github.com/rs/zerolog/log"
)

// ErrRemoteService covers transport failures, timeouts, non-2xx statuses and
// undecodable responses.
var ErrRemoteService = errors.New("remote search service failure")

const movePath = "/cez/move/"

// Request is the body posted to the move endpoint.
type Request struct {
	Position   string     `json:"position"`
	Difficulty Difficulty `json:"difficulty"`
}

// Response is the service's suggested move. Capture is null for quiet moves.
type Response struct {
	From    chess.Coord  `json:"from_"`
	To      chess.Coord  `json:"to"`
	Capture *chess.Coord `json:"capture"`
}

type Client struct {
	baseURL    string
	httpClient *http.Client
}

func NewClient(baseURL string, timeout time.Duration) *Client {
	if timeout <= 0 {
		timeout = 30 * time.Second
	}
	return &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		httpClient: &http.Client{
			Timeout: timeout,
		},
	}
}

func (c *Client) BaseURL() string {
	return c.baseURL
}

// SearchMove asks the service for a move in the position given as FEN.
func (c *Client) SearchMove(ctx context.Context, fen string, difficulty Difficulty) (*Response, error) {
	if !difficulty.Valid() {
		return nil, fmt.Errorf("%w: %d", ErrInvalidDifficulty, int(difficulty))
	}

	var resp Response
	start := time.Now()
	if err := c.doRequest(ctx, http.MethodPost, movePath, &Request{Position: fen, Difficulty: difficulty}, &resp); err != nil {
		log.Error().Err(err).Str("fen", fen).Int("difficulty", int(difficulty)).Msg("Move search failed")
		return nil, err
	}

	log.Debug().
		Str("fen", fen).
		Int("difficulty", int(difficulty)).
		Interface("from", resp.From).
		Interface("to", resp.To).
		Dur("elapsed", time.Since(start)).
		Msg("Move search completed")
	return &resp, nil
}

// TestConnection checks that the service answers on its root path.
func (c *Client) TestConnection(ctx context.Context) error {
	return c.doRequest(ctx, http.MethodGet, "/", nil, nil)
}

func (c *Client) doRequest(ctx context.Context, method, path string, body, result interface{}) error {
	var bodyReader io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("failed to encode request: %w", err)
		}
		bodyReader = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, bodyReader)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrRemoteService, err)
	}
	req.Header.Set("Accept", "application/json")
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("%w: %w", ErrRemoteService, err)
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(io.LimitReader(resp.Body, 1<<20))
	if err != nil {
		return fmt.Errorf("%w: failed to read response: %v", ErrRemoteService, err)
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return fmt.Errorf("%w: %s %s returned %d: %s", ErrRemoteService, method, path, resp.StatusCode, strings.TrimSpace(string(respBody)))
	}

	if result == nil {
		return nil
	}
	if err := json.Unmarshal(respBody, result); err != nil {
		return fmt.Errorf("%w: failed to decode response: %v", ErrRemoteService, err)
	}
	return nil
}
