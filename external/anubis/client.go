package anubis

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

	"github.com/matchday/league-api/internal/domain/user"
	"github.com/matchday/league-api/internal/platform/logging"
	"github.com/matchday/league-api/internal/platform/resilience"
	"github.com/matchday/league-api/internal/usecase"
)

var errAnubisTransient = errors.New("anubis: transient failure")

// Client talks to the external identity provider that owns credential
// verification. The Identity Service maps usernames to a
// stable internal email before calling this client; it never forwards the
// real user-facing email.
type Client struct {
	httpClient *http.Client
	verifyURL  string
	adminKey   string
	breaker    *resilience.CircuitBreaker
	cache      *inMemoryPrincipalCache
	logger     *logging.Logger
}

type ClientConfig struct {
	BaseURL        string
	VerifyPath     string
	AdminKey       string
	Timeout        time.Duration
	CircuitBreaker resilience.CircuitBreakerConfig
	CacheTTL       time.Duration
	CacheMaxSize   int
}

func NewClient(cfg ClientConfig, logger *logging.Logger) *Client {
	if logger == nil {
		logger = logging.Default()
	}
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = 3 * time.Second
	}

	return &Client{
		httpClient: &http.Client{Timeout: timeout},
		verifyURL:  buildURL(cfg.BaseURL, cfg.VerifyPath),
		adminKey:   cfg.AdminKey,
		breaker:    newBreaker(cfg.CircuitBreaker),
		cache:      newInMemoryPrincipalCache(cfg.CacheTTL, cfg.CacheMaxSize),
		logger:     logger,
	}
}

// VerifyCredentials authenticates internalEmail/password against the IdP.
// Successful verifications are cached briefly by credential fingerprint so
// repeated logins with the same credentials do not all reach the IdP;
// failed verifications are not cached.
func (c *Client) VerifyCredentials(ctx context.Context, internalEmail, password string) (user.Principal, error) {
	internalEmail = strings.TrimSpace(internalEmail)
	if internalEmail == "" || password == "" {
		return user.Principal{}, fmt.Errorf("%w: credentials are required", usecase.ErrInvalidCredentials)
	}

	cacheKey := hashToken(internalEmail + "\x00" + password)
	if principal, ok := c.cache.Get(cacheKey); ok {
		return principal, nil
	}

	if c.breaker != nil {
		if err := c.breaker.Allow(); err != nil {
			return user.Principal{}, fmt.Errorf("%w: %v", usecase.ErrDependencyUnavailable, err)
		}
	}

	principal, err := c.doVerify(ctx, internalEmail, password)
	if err != nil {
		if c.breaker != nil && isCircuitFailure(err) {
			c.breaker.RecordFailure()
		}
		return user.Principal{}, err
	}

	if c.breaker != nil {
		c.breaker.RecordSuccess()
	}
	c.cache.Set(cacheKey, principal)
	return principal, nil
}

func newBreaker(cfg resilience.CircuitBreakerConfig) *resilience.CircuitBreaker {
	if !cfg.Enabled {
		return nil
	}
	normalized := resilience.NormalizeCircuitBreakerConfig(cfg)
	return resilience.NewCircuitBreaker(normalized.FailureThreshold, normalized.OpenTimeout, normalized.HalfOpenMaxReq)
}

func (c *Client) doVerify(ctx context.Context, internalEmail, password string) (user.Principal, error) {
	payload := verifyRequest{Email: internalEmail, Password: password}
	encoded, err := json.Marshal(payload)
	if err != nil {
		return user.Principal{}, fmt.Errorf("marshal verify request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.verifyURL, bytes.NewReader(encoded))
	if err != nil {
		return user.Principal{}, fmt.Errorf("create verify request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")
	if c.adminKey != "" {
		req.Header.Set("X-Admin-Key", c.adminKey)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return user.Principal{}, fmt.Errorf("%w: request verification to anubis: %v", errAnubisTransient, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusUnauthorized || resp.StatusCode == http.StatusForbidden {
		return user.Principal{}, usecase.ErrInvalidCredentials
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, 1<<20))
	if err != nil {
		return user.Principal{}, fmt.Errorf("%w: read verify response: %v", errAnubisTransient, err)
	}

	if resp.StatusCode >= http.StatusInternalServerError {
		c.logger.WarnContext(ctx, "anubis verify non-2xx",
			"status_code", resp.StatusCode,
		)
		return user.Principal{}, fmt.Errorf("%w: anubis verify failed with status %d", errAnubisTransient, resp.StatusCode)
	}
	if resp.StatusCode != http.StatusOK {
		return user.Principal{}, fmt.Errorf("anubis verify failed with status %d", resp.StatusCode)
	}

	var decoded verifyResponse
	if err := json.Unmarshal(body, &decoded); err != nil {
		return user.Principal{}, fmt.Errorf("unmarshal verify response: %w", err)
	}
	if !decoded.Valid || strings.TrimSpace(decoded.Subject) == "" {
		return user.Principal{}, usecase.ErrInvalidCredentials
	}

	return user.Principal{UserID: decoded.Subject}, nil
}

type verifyRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type verifyResponse struct {
	Valid   bool   `json:"valid"`
	Subject string `json:"subject"`
}
