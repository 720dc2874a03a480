// Package valve talks to the Steam Web API endpoint that exposes a user's
// match history as a forward-linked chain of sharing codes. For details see:
// https://developer.valvesoftware.com/wiki/Counter-Strike:_Global_Offensive_Access_Match_History
package valve

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/matchforge/gatherer/internal/gatherer/models"
	"github.com/matchforge/gatherer/internal/logging"
	"github.com/sethvargo/go-retry"
)

const defaultBaseURL = "https://api.steampowered.com"

// invalidAPIKeyMarker is the fragment Valve puts into a Forbidden response
// when the key= parameter itself is bad, as opposed to the user's token.
const invalidAPIKeyMarker = "Please verify your <pre>key=</pre> parameter."

// noMoreCodes is the next-code value the API returns on an exhausted chain.
const noMoreCodes = "n/a"

// Client queries the next sharing code for a user. Transient transport
// faults (network errors, generic 5xx) are retried with fibonacci backoff;
// the classified outcomes in errors.go are returned as-is.
type Client struct {
	http        *http.Client
	logger      logging.Logger
	baseURL     string
	apiKey      string
	maxRetries  uint64
	baseBackoff time.Duration
}

type Option func(*Client)

// WithBaseURL points the client at a different API host, used by tests.
func WithBaseURL(u string) Option {
	return func(c *Client) { c.baseURL = strings.TrimRight(u, "/") }
}

// WithHTTPClient replaces the underlying HTTP client.
func WithHTTPClient(h *http.Client) Option {
	return func(c *Client) { c.http = h }
}

// WithRetries configures how many times a transient fault is retried and the
// initial backoff step.
func WithRetries(n uint64, base time.Duration) Option {
	return func(c *Client) {
		c.maxRetries = n
		c.baseBackoff = base
	}
}

func NewClient(apiKey string, logger logging.Logger, opts ...Option) *Client {
	c := &Client{
		http:        &http.Client{Timeout: 30 * time.Second},
		logger:      logger.With("module", "valve_api"),
		baseURL:     defaultBaseURL,
		apiKey:      apiKey,
		maxRetries:  2,
		baseBackoff: 500 * time.Millisecond,
	}
	for _, o := range opts {
		o(c)
	}
	return c
}

type nextCodeResponse struct {
	Result struct {
		NextCode string `json:"nextcode"`
	} `json:"result"`
}

// NextSharingCode fetches the chain element following the user's current
// cursor. It returns one of the sentinel errors from errors.go, a wrapped
// transport error, or the next code.
func (c *Client) NextSharingCode(ctx context.Context, user *models.User) (string, error) {
	q := url.Values{}
	q.Set("key", c.apiKey)
	q.Set("steamidkey", user.SteamAuthToken)
	q.Set("steamid", strconv.FormatInt(user.SteamID, 10))
	q.Set("knowncode", user.LastKnownSharingCode)

	endpoint := c.baseURL + "/ICSGOPlayers_730/GetNextMatchSharingCode/v1?" + q.Encode()

	var code string
	backoff := retry.WithMaxRetries(c.maxRetries, retry.NewFibonacci(c.baseBackoff))

	err := retry.Do(ctx, backoff, func(ctx context.Context) error {
		var err error
		code, err = c.queryOnce(ctx, endpoint, user)
		return err
	})
	if err != nil {
		return "", err
	}

	return code, nil
}

func (c *Client) queryOnce(ctx context.Context, endpoint string, user *models.User) (string, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return "", fmt.Errorf("building request: %w", err)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return "", retry.RetryableError(fmt.Errorf("steam api request: %w", err))
	}
	defer resp.Body.Close()

	switch resp.StatusCode {
	case http.StatusOK, http.StatusAccepted:
		body, err := io.ReadAll(resp.Body)
		if err != nil {
			return "", retry.RetryableError(fmt.Errorf("reading steam api response: %w", err))
		}
		var parsed nextCodeResponse
		if err := json.Unmarshal(body, &parsed); err != nil {
			return "", fmt.Errorf("decoding steam api response: %w", err)
		}
		if parsed.Result.NextCode == noMoreCodes {
			return "", ErrNoMoreCodes
		}
		if parsed.Result.NextCode == "" {
			return "", fmt.Errorf("steam api response missing nextcode: %s", body)
		}
		return parsed.Result.NextCode, nil

	case http.StatusForbidden:
		body, _ := io.ReadAll(resp.Body)
		if strings.Contains(string(body), invalidAPIKeyMarker) {
			c.logger.Error(ctx, "steam api rejected our api key", "response", string(body))
			return "", ErrInvalidAPIKey
		}
		return "", fmt.Errorf("%w: steamId %d", ErrAuthInvalid, user.SteamID)

	case http.StatusTooManyRequests, http.StatusServiceUnavailable:
		return "", ErrRateLimited

	default:
		err := fmt.Errorf("unexpected steam api status %d", resp.StatusCode)
		if resp.StatusCode >= 500 {
			return "", retry.RetryableError(err)
		}
		return "", err
	}
}

// ValidateAuthData probes the chain once to check whether the user's token
// works. An exhausted chain still proves the token is good.
func (c *Client) ValidateAuthData(ctx context.Context, user *models.User) (bool, error) {
	_, err := c.NextSharingCode(ctx, user)
	if err != nil {
		if errors.Is(err, ErrAuthInvalid) {
			return false, nil
		}
		if errors.Is(err, ErrNoMoreCodes) {
			return true, nil
		}
		return false, err
	}
	return true, nil
}
