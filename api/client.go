package api

import (
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"sync"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/placeholderlabs/placeholder-insights/models"
)

const (
	defaultBaseURL = "https://jsonplaceholder.typicode.com"

	usersPath    = "/users"
	postsPath    = "/posts"
	commentsPath = "/comments"
)

// TokenBucket implements a rate limiter using the token bucket algorithm
type TokenBucket struct {
	mutex       sync.Mutex
	capacity    int           // maximum tokens the bucket can hold
	tokens      float64       // current number of tokens
	fillRate    float64       // rate at which tokens are added (tokens per second)
	lastRefill  time.Time     // time of last token refill
	waitTimeout time.Duration // max time to wait for a token
}

// NewTokenBucket creates a new token bucket rate limiter
func NewTokenBucket(capacity int, fillRate float64, waitTimeout time.Duration) *TokenBucket {
	return &TokenBucket{
		capacity:    capacity,
		tokens:      1, // start with just 1 token to avoid an initial burst
		fillRate:    fillRate,
		lastRefill:  time.Now(),
		waitTimeout: waitTimeout,
	}
}

// Take attempts to take a token from the bucket.
// Returns true if successful, false if no token was available.
func (tb *TokenBucket) Take() bool {
	tb.mutex.Lock()
	defer tb.mutex.Unlock()

	now := time.Now()
	elapsed := now.Sub(tb.lastRefill).Seconds()
	tb.lastRefill = now

	newTokens := elapsed * tb.fillRate
	if newTokens > 0 {
		tb.tokens = tb.tokens + newTokens
		if tb.tokens > float64(tb.capacity) {
			tb.tokens = float64(tb.capacity)
		}
	}

	if tb.tokens >= 1 {
		tb.tokens--
		return true
	}

	return false
}

// TakeWithTimeout attempts to take a token from the bucket, waiting up to waitTimeout
func (tb *TokenBucket) TakeWithTimeout() bool {
	if tb.Take() {
		return true
	}

	tb.mutex.Lock()
	tokensNeeded := 1 - tb.tokens
	timeToWait := time.Duration(tokensNeeded / tb.fillRate * float64(time.Second))
	if timeToWait > tb.waitTimeout {
		timeToWait = tb.waitTimeout
	}
	tb.mutex.Unlock()

	time.Sleep(timeToWait)
	return tb.Take()
}

// Client fetches the three entity collections from a JSONPlaceholder-style API
type Client struct {
	baseURL     string
	httpClient  *http.Client
	rateLimiter *TokenBucket
	maxRecords  int
	log         *logrus.Logger
}

// NewClient creates a new API client. maxRecords caps each fetched
// collection; zero means unlimited.
func NewClient(baseURL string, maxRecords, requestsPerMinute int, log *logrus.Logger) *Client {
	if baseURL == "" {
		baseURL = defaultBaseURL
	}

	if requestsPerMinute <= 0 {
		requestsPerMinute = 60
	}

	return &Client{
		baseURL:     baseURL,
		httpClient:  &http.Client{Timeout: 30 * time.Second},
		rateLimiter: NewTokenBucket(1, float64(requestsPerMinute)/60.0, 30*time.Second),
		maxRecords:  maxRecords,
		log:         log,
	}
}

// FetchUsers fetches the users collection
func (c *Client) FetchUsers() ([]models.User, error) {
	var users []models.User
	if err := c.fetchJSON(usersPath, &users); err != nil {
		return nil, err
	}

	users = users[:c.capped(len(users))]
	return users, nil
}

// FetchPosts fetches the posts collection
func (c *Client) FetchPosts() ([]models.Post, error) {
	var posts []models.Post
	if err := c.fetchJSON(postsPath, &posts); err != nil {
		return nil, err
	}

	posts = posts[:c.capped(len(posts))]
	return posts, nil
}

// FetchComments fetches the comments collection
func (c *Client) FetchComments() ([]models.Comment, error) {
	var comments []models.Comment
	if err := c.fetchJSON(commentsPath, &comments); err != nil {
		return nil, err
	}

	comments = comments[:c.capped(len(comments))]
	return comments, nil
}

func (c *Client) capped(n int) int {
	if c.maxRecords > 0 && n > c.maxRecords {
		return c.maxRecords
	}

	return n
}

func (c *Client) fetchJSON(path string, out any) error {
	if !c.rateLimiter.TakeWithTimeout() {
		return fmt.Errorf("rate limit exceeded fetching %s", path)
	}

	endpoint := c.baseURL + path

	c.log.WithField("endpoint", endpoint).Debug("Fetching collection")

	req, err := http.NewRequest(http.MethodGet, endpoint, nil)
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}

	req.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("failed to execute request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(resp.Body)
		c.log.WithFields(logrus.Fields{
			"endpoint":    endpoint,
			"status_code": resp.StatusCode,
		}).Error("API error response")

		return fmt.Errorf("request failed with status %d: %s", resp.StatusCode, string(body))
	}

	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("failed to decode response: %w", err)
	}

	return nil
}
