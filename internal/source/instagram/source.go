package instagram

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/goccy/go-json"

	"insta_syncer/internal/domain"
)

// Config holds Instagram API configuration.
type Config struct {
	BaseURL     string
	AccessToken string
	MediaLimit  int
	Timeout     time.Duration
}

// Source fetches raw account data from the external API. Every call is a
// single request: no retries, no logging, no persistence.
type Source struct {
	httpClient  *http.Client
	baseURL     string
	accessToken string
	mediaLimit  int
}

// New creates a new Instagram source.
func New(cfg Config) *Source {
	return &Source{
		httpClient: &http.Client{
			Timeout: cfg.Timeout,
		},
		baseURL:     strings.TrimRight(cfg.BaseURL, "/"),
		accessToken: cfg.AccessToken,
		mediaLimit:  cfg.MediaLimit,
	}
}

// FetchProfile fetches the account profile for handle.
func (s *Source) FetchProfile(ctx context.Context, handle string) (*ProfilePayload, error) {
	var resp ProfilePayload
	if err := s.get(ctx, domain.CategoryProfile, handle, nil, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

// FetchMedia fetches the most recent media window for handle.
func (s *Source) FetchMedia(ctx context.Context, handle string) ([]MediaPayload, error) {
	query := url.Values{}
	if s.mediaLimit > 0 {
		query.Set("limit", strconv.Itoa(s.mediaLimit))
	}

	var resp MediaResponse
	if err := s.get(ctx, domain.CategoryMedia, handle, query, &resp); err != nil {
		return nil, err
	}
	return resp.Data, nil
}

// FetchStories fetches the currently live stories for handle.
func (s *Source) FetchStories(ctx context.Context, handle string) ([]StoryPayload, error) {
	var resp StoriesResponse
	if err := s.get(ctx, domain.CategoryStories, handle, nil, &resp); err != nil {
		return nil, err
	}
	return resp.Data, nil
}

func (s *Source) get(ctx context.Context, category domain.Category, handle string, query url.Values, out any) error {
	endpoint := fmt.Sprintf("%s/users/%s/%s", s.baseURL, url.PathEscape(handle), category)
	if len(query) > 0 {
		endpoint += "?" + query.Encode()
	}

	transportErr := func(status int, err error) error {
		return &domain.TransportError{Category: category, Handle: handle, StatusCode: status, Err: err}
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return transportErr(0, fmt.Errorf("create request: %w", err))
	}

	req.Header.Set("Accept", "application/json")
	req.Header.Set("Authorization", "Bearer "+s.accessToken)
	req.Header.Set("User-Agent", "InstaSyncer/1.0")

	resp, err := s.httpClient.Do(req)
	if err != nil {
		return transportErr(0, fmt.Errorf("execute request: %w", err))
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		msg := strings.TrimSpace(string(body))
		if msg == "" {
			msg = http.StatusText(resp.StatusCode)
		}
		return transportErr(resp.StatusCode, errors.New(msg))
	}

	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return transportErr(resp.StatusCode, fmt.Errorf("decode response: %w", err))
	}

	return nil
}
