package sms

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"sync"
	"time"
	"unicode/utf8"

	"github.com/go-resty/resty/v2"
	"github.com/oggyb/skebby-gateway/internal/request"
	"github.com/sirupsen/logrus"
	"golang.org/x/sync/singleflight"
)

const (
	// DefaultBaseURL is the Skebby REST API root.
	DefaultBaseURL = "https://api.skebby.it/API/v1.0/REST/"

	// DefaultTimeout bounds every provider request.
	DefaultTimeout = 30 * time.Second

	// MaxMessageLength covers concatenated multi-part messages.
	MaxMessageLength = 1600
)

// SkebbyConfig holds the account settings of a SkebbyClient.
type SkebbyConfig struct {
	Username string
	Password string
	// Alias is the sender shown to recipients. Optional.
	Alias string
	// Quality is the default message quality.
	Quality Quality

	// BaseURL overrides DefaultBaseURL.
	BaseURL string
	// Timeout overrides DefaultTimeout.
	Timeout time.Duration
	// HTTPClient, when set, is used as the underlying transport.
	HTTPClient *http.Client
	// Logger defaults to the logrus standard logger.
	Logger *logrus.Entry
}

var _ Client = (*SkebbyClient)(nil)

// SkebbyClient is a Skebby REST API client bound to a single account.
//
// The session returned by login is cached in memory and reused until
// ClearAuthCache is called. It is never refreshed implicitly: an expired
// session surfaces as an ErrAPIRequest from the call that used it.
// Concurrent first logins are collapsed into a single request.
type SkebbyClient struct {
	username string
	password string
	alias    string
	quality  Quality
	timeout  time.Duration

	http *resty.Client
	log  *logrus.Entry

	mu      sync.RWMutex
	session *Session
	// gen is bumped by ClearAuthCache; a login started under an older gen
	// does not store its session.
	gen    uint64
	logins singleflight.Group
}

// NewSkebbyClient validates cfg and returns a client. It does not touch the
// network.
func NewSkebbyClient(cfg SkebbyConfig) (*SkebbyClient, error) {
	if cfg.Username == "" || cfg.Password == "" {
		return nil, validationFailed("Skebby username and password are required")
	}
	if !cfg.Quality.Valid() {
		return nil, validationFailed("invalid SMS quality %q, must be one of: %s", cfg.Quality, qualityList())
	}

	baseURL := cfg.BaseURL
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	logger := cfg.Logger
	if logger == nil {
		logger = logrus.WithField("component", "skebby")
	}

	var rc *resty.Client
	if cfg.HTTPClient != nil {
		rc = resty.NewWithClient(cfg.HTTPClient)
	} else {
		rc = resty.New()
	}
	rc.SetBaseURL(baseURL).
		SetTimeout(timeout).
		SetLogger(logger)

	return &SkebbyClient{
		username: cfg.Username,
		password: cfg.Password,
		alias:    cfg.Alias,
		quality:  cfg.Quality,
		timeout:  timeout,
		http:     rc,
		log:      logger,
	}, nil
}

// Quality returns the default message quality.
func (c *SkebbyClient) Quality() Quality { return c.quality }

// withTimeout wraps the context with a timeout if it doesn't already have one.
func withTimeout(ctx context.Context, d time.Duration) (context.Context, context.CancelFunc) {
	if _, ok := ctx.Deadline(); ok {
		return ctx, func() {}
	}
	return context.WithTimeout(ctx, d)
}

// Login returns the cached session, or authenticates against the provider
// when there is none.
func (c *SkebbyClient) Login(ctx context.Context) (Session, error) {
	if s, ok := c.cached(); ok {
		return s, nil
	}

	// The shared login outlives any single caller; each caller only stops
	// waiting when its own ctx is done.
	loginCtx := context.WithoutCancel(ctx)
	ch := c.logins.DoChan("login", func() (any, error) {
		// Another caller may have finished a login while we were queued.
		if s, ok := c.cached(); ok {
			return s, nil
		}

		c.mu.RLock()
		gen := c.gen
		c.mu.RUnlock()

		s, err := c.login(loginCtx)
		if err != nil {
			return nil, err
		}

		c.mu.Lock()
		if c.gen == gen {
			c.session = &s
		}
		c.mu.Unlock()
		return s, nil
	})

	select {
	case res := <-ch:
		if res.Err != nil {
			return Session{}, res.Err
		}
		return res.Val.(Session), nil
	case <-ctx.Done():
		return Session{}, authenticationFailed(0, ctx.Err(), "Login aborted")
	}
}

func (c *SkebbyClient) cached() (Session, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	if c.session == nil {
		return Session{}, false
	}
	return *c.session, true
}

func (c *SkebbyClient) login(ctx context.Context) (Session, error) {
	ctx, cancel := withTimeout(ctx, c.timeout)
	defer cancel()

	c.log.WithField("username", c.username).Debug("logging in")

	resp, err := c.http.R().
		SetContext(ctx).
		SetQueryParams(map[string]string{
			"username": c.username,
			"password": c.password,
		}).
		Get("login")
	if err != nil {
		return Session{}, authenticationFailed(0, redactURL(err), "Login failed")
	}

	if !resp.IsSuccess() {
		return Session{}, authenticationFailed(resp.StatusCode(), nil, "Authentication failed: HTTP %d", resp.StatusCode())
	}

	s, err := parseSession(resp.String())
	if err != nil {
		return Session{}, err
	}

	c.log.Info("logged in")
	return s, nil
}

// redactURL drops the request URL from a transport error. The login URL
// carries the password in its query string.
func redactURL(err error) error {
	var urlErr *url.Error
	if errors.As(err, &urlErr) {
		return fmt.Errorf("%s login: %w", urlErr.Op, urlErr.Err)
	}
	return err
}

// parseSession parses a "user_key;session_key" login body.
func parseSession(body string) (Session, error) {
	body = strings.TrimSpace(body)
	if body == "" {
		return Session{}, authenticationFailed(0, nil, "Empty response from authentication server")
	}

	parts := strings.Split(body, ";")
	if len(parts) != 2 || parts[0] == "" || parts[1] == "" {
		return Session{}, authenticationFailed(0, nil, "Invalid authentication response format")
	}

	return Session{UserKey: parts[0], SessionKey: parts[1]}, nil
}

// ClearAuthCache drops the cached session. The next call logs in again,
// and a login already in flight does not repopulate the cache.
func (c *SkebbyClient) ClearAuthCache() {
	c.mu.Lock()
	c.session = nil
	c.gen++
	c.mu.Unlock()
}

// Health implements Client.Health by logging in.
func (c *SkebbyClient) Health(ctx context.Context) error {
	_, err := c.Login(ctx)
	return err
}

func (c *SkebbyClient) resolveQuality(q Quality) (Quality, error) {
	if q == "" {
		return c.quality, nil
	}
	if !q.Valid() {
		return "", validationFailed("invalid message type: %s", q)
	}
	return q, nil
}

// Send implements Client.Send.
func (c *SkebbyClient) Send(ctx context.Context, phone, message string, quality Quality) (Payload, error) {
	if phone == "" {
		return nil, validationFailed("phone number cannot be empty")
	}
	if message == "" {
		return nil, validationFailed("message cannot be empty")
	}
	if utf8.RuneCountInString(message) > MaxMessageLength {
		return nil, validationFailed("message is too long (max %d characters)", MaxMessageLength)
	}
	quality, err := c.resolveQuality(quality)
	if err != nil {
		return nil, err
	}

	s, err := c.Login(ctx)
	if err != nil {
		return nil, err
	}

	ctx, cancel := withTimeout(ctx, c.timeout)
	defer cancel()

	payload := request.SkebbySMSRequest{
		Message:         message,
		MessageType:     string(quality),
		ReturnRemaining: true,
		Recipient:       []string{phone},
		Sender:          c.alias,
	}

	resp, err := c.authorized(ctx, s).
		SetBody(payload).
		Post("sms")
	if err != nil {
		return nil, apiRequestFailed(0, "", err, "SMS sending failed")
	}
	if !resp.IsSuccess() {
		return nil, apiRequestFailed(resp.StatusCode(), resp.String(), nil,
			"SMS sending failed: HTTP %d - %s", resp.StatusCode(), resp.String())
	}

	out, err := decodePayload(resp.Body())
	if err != nil {
		return nil, apiRequestFailed(resp.StatusCode(), resp.String(), err, "SMS sending failed: invalid response")
	}

	c.log.WithFields(logrus.Fields{
		"quality":  quality,
		"order_id": out.OrderID(),
	}).Debug("sms sent")

	return out, nil
}

// Info implements Client.Info.
func (c *SkebbyClient) Info(ctx context.Context) (Payload, error) {
	s, err := c.Login(ctx)
	if err != nil {
		return nil, err
	}

	ctx, cancel := withTimeout(ctx, c.timeout)
	defer cancel()

	resp, err := c.authorized(ctx, s).Get("status")
	if err != nil {
		return nil, apiRequestFailed(0, "", err, "Account info retrieval failed")
	}
	if !resp.IsSuccess() {
		return nil, apiRequestFailed(resp.StatusCode(), resp.String(), nil,
			"Failed to retrieve account info: HTTP %d - %s", resp.StatusCode(), resp.String())
	}

	out, err := decodePayload(resp.Body())
	if err != nil {
		return nil, apiRequestFailed(resp.StatusCode(), resp.String(), err, "Account info retrieval failed: invalid response")
	}
	return out, nil
}

// Remaining implements Client.Remaining. Every call fetches the status again.
func (c *SkebbyClient) Remaining(ctx context.Context, quality Quality) (int, error) {
	quality, err := c.resolveQuality(quality)
	if err != nil {
		return 0, err
	}
	index, _ := quality.CreditIndex()

	info, err := c.Info(ctx)
	if err != nil {
		return 0, err
	}

	entries, ok := creditEntries(info)
	if !ok {
		return 0, apiRequestFailed(0, "", nil, "Unable to retrieve SMS credit information")
	}

	n, ok := quantityAt(entries, index)
	if !ok {
		return 0, apiRequestFailed(0, "", nil, "Credit information not available for message type: %s", quality)
	}
	return n, nil
}

// AllRemainingCredits implements Client.AllRemainingCredits. Qualities the
// provider does not report are left out.
func (c *SkebbyClient) AllRemainingCredits(ctx context.Context) (Credits, error) {
	info, err := c.Info(ctx)
	if err != nil {
		return nil, err
	}

	entries, ok := creditEntries(info)
	if !ok {
		return nil, apiRequestFailed(0, "", nil, "Unable to retrieve SMS credit information")
	}

	credits := make(Credits, len(Qualities))
	for _, q := range Qualities {
		index, _ := q.CreditIndex()
		if n, ok := quantityAt(entries, index); ok {
			credits[q] = n
		}
	}
	return credits, nil
}

// authorized returns a request carrying the session headers.
func (c *SkebbyClient) authorized(ctx context.Context, s Session) *resty.Request {
	return c.http.R().
		SetContext(ctx).
		SetHeaders(map[string]string{
			"Content-Type": "application/json",
			"user_key":     s.UserKey,
			"Session_key":  s.SessionKey,
		})
}

func decodePayload(body []byte) (Payload, error) {
	dec := json.NewDecoder(bytes.NewReader(body))
	dec.UseNumber()

	var p Payload
	if err := dec.Decode(&p); err != nil {
		return nil, err
	}
	if p == nil {
		p = Payload{}
	}
	return p, nil
}

func creditEntries(info Payload) ([]any, bool) {
	entries, ok := info["sms"].([]any)
	return entries, ok
}

// quantityAt reads entries[index].quantity as an integer.
func quantityAt(entries []any, index int) (int, bool) {
	if index < 0 || index >= len(entries) {
		return 0, false
	}
	entry, ok := entries[index].(map[string]any)
	if !ok {
		return 0, false
	}
	return toInt(entry["quantity"])
}

func toInt(v any) (int, bool) {
	switch n := v.(type) {
	case json.Number:
		if i, err := n.Int64(); err == nil {
			return int(i), true
		}
		if f, err := n.Float64(); err == nil {
			return int(f), true
		}
	case float64:
		return int(n), true
	case int:
		return n, true
	case int64:
		return int(n), true
	case string:
		if i, err := strconv.Atoi(strings.TrimSpace(n)); err == nil {
			return i, true
		}
	}
	return 0, false
}
