package vsclient

import (
	"log/slog"
	"net/http"
	"strings"
	"time"
)

const (
	// DefaultTimeout is the default per-request timeout.
	DefaultTimeout = 60 * time.Second

	// sdkDefaultRetries leaves the SDK's own retry count in place.
	sdkDefaultRetries = -1
)

// Client is the resource client for files, vector stores and vector store
// file memberships. It is safe for concurrent use.
//
// Every lookup issues a fresh remote listing; nothing is cached locally.
type Client struct {
	backend  Backend
	logger   *slog.Logger
	hook     Hook
	tieBreak TieBreak
	locks    *keyedMutex
}

// clientConfig holds the client configuration.
type clientConfig struct {
	baseURL      string
	organization string
	project      string
	httpClient   *http.Client
	timeout      time.Duration
	maxRetries   int

	logger      *slog.Logger
	hook        Hook
	tieBreak    TieBreak
	nameLocking bool
}

// Option is a function that configures the client.
type Option func(*clientConfig)

// WithBaseURL sets a custom base URL for the API.
func WithBaseURL(url string) Option {
	return func(c *clientConfig) {
		c.baseURL = url
	}
}

// WithHTTPClient sets a custom HTTP client.
func WithHTTPClient(client *http.Client) Option {
	return func(c *clientConfig) {
		c.httpClient = client
	}
}

// WithTimeout sets the request timeout.
func WithTimeout(timeout time.Duration) Option {
	return func(c *clientConfig) {
		c.timeout = timeout
	}
}

// WithRetry sets the maximum number of retries the SDK performs on transient
// errors. The client itself never retries.
func WithRetry(maxRetries int) Option {
	return func(c *clientConfig) {
		c.maxRetries = maxRetries
	}
}

// WithOrganization sets the OpenAI-Organization header.
func WithOrganization(org string) Option {
	return func(c *clientConfig) {
		c.organization = org
	}
}

// WithProject sets the OpenAI-Project header.
func WithProject(project string) Option {
	return func(c *clientConfig) {
		c.project = project
	}
}

// WithLogger sets the logger used for get/create decisions and
// partial failures. Defaults to slog.Default().
func WithLogger(l *slog.Logger) Option {
	return func(c *clientConfig) {
		c.logger = l
	}
}

// WithHook registers a callback invoked for every get-or-create decision.
func WithHook(h Hook) Option {
	return func(c *clientConfig) {
		c.hook = h
	}
}

// WithTieBreak sets how name lookups choose among duplicate names.
func WithTieBreak(t TieBreak) Option {
	return func(c *clientConfig) {
		c.tieBreak = t
	}
}

// WithNameLocking enables or disables in-process serialization of
// get-or-create calls on the same key. Enabled by default. The lock only
// covers callers sharing this Client; it cannot prevent duplicates created
// by other processes.
func WithNameLocking(enabled bool) Option {
	return func(c *clientConfig) {
		c.nameLocking = enabled
	}
}

func newConfig(opts []Option) *clientConfig {
	cfg := &clientConfig{
		timeout:     DefaultTimeout,
		maxRetries:  sdkDefaultRetries,
		tieBreak:    TieBreakFirst,
		nameLocking: true,
	}
	for _, opt := range opts {
		opt(cfg)
	}
	if cfg.logger == nil {
		cfg.logger = slog.Default()
	}
	return cfg
}

// New creates a client backed by the OpenAI API.
//
// The apiKey is required; an empty or blank key fails with
// ErrInvalidCredential before any connection is set up.
//
// Example:
//
//	client, err := vsclient.New(apiKey, vsclient.WithTimeout(30*time.Second))
func New(apiKey string, opts ...Option) (*Client, error) {
	apiKey = strings.TrimSpace(apiKey)
	if apiKey == "" {
		return nil, ErrInvalidCredential
	}
	cfg := newConfig(opts)
	return newClient(newOpenAIBackend(apiKey, cfg), cfg), nil
}

// NewWithBackend wraps an existing backend (e.g. the in-memory mock).
// Transport options such as WithBaseURL are ignored.
func NewWithBackend(b Backend, opts ...Option) *Client {
	return newClient(b, newConfig(opts))
}

func newClient(b Backend, cfg *clientConfig) *Client {
	c := &Client{
		backend:  b,
		logger:   cfg.logger,
		hook:     cfg.hook,
		tieBreak: cfg.tieBreak,
	}
	if cfg.nameLocking {
		c.locks = newKeyedMutex()
	}
	return c
}

// Backend returns the underlying backend.
func (c *Client) Backend() Backend {
	return c.backend
}
