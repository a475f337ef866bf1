package vault

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/hashicorp/vault/api"

	"github.com/jonwraymond/vaultexec/auth"
	"github.com/jonwraymond/vaultexec/observe"
	"github.com/jonwraymond/vaultexec/resilience"
	"github.com/jonwraymond/vaultexec/secret"
	"github.com/jonwraymond/vaultexec/value"
)

// Defaults applied by New.
const (
	DefaultAddress   = "https://localhost:8200"
	DefaultLoginPath = "/auth/jwt/login"
	DefaultTimeout   = 30 * time.Second
)

// Config configures a Client.
type Config struct {
	// Address is the Vault server address without the /v1 prefix.
	Address string

	// LoginPath is the JWT login endpoint relative to /v1.
	LoginPath string

	// Token supplies the JWT presented at login.
	Token auth.TokenSource

	// Timeout bounds each HTTP round trip.
	Timeout time.Duration

	// Attempts is the number of tries per round trip. Values below 2
	// disable retries.
	Attempts int

	Logger observe.Logger

	// HTTPClient overrides the transport, mainly for tests.
	HTTPClient *http.Client
}

// Client is a Vault session holding one token per role.
//
// Not safe for concurrent use.
type Client struct {
	base      *api.Client
	roles     map[string]*api.Client
	loginPath string
	token     auth.TokenSource
	exec      *resilience.Executor
	logger    observe.Logger
}

// New creates a Client. Environment variables understood by the Vault API
// (VAULT_CACERT, VAULT_SKIP_VERIFY, ...) configure TLS; VAULT_TOKEN is ignored.
func New(cfg Config) (*Client, error) {
	if cfg.Token == nil {
		return nil, ErrNoTokenSource
	}
	if cfg.Address == "" {
		cfg.Address = DefaultAddress
	}
	if cfg.LoginPath == "" {
		cfg.LoginPath = DefaultLoginPath
	}
	if cfg.Timeout <= 0 {
		cfg.Timeout = DefaultTimeout
	}
	if cfg.Logger == nil {
		cfg.Logger = observe.NopLogger()
	}

	apiCfg := api.DefaultConfig()
	if apiCfg.Error != nil {
		return nil, fmt.Errorf("vault config: %w", apiCfg.Error)
	}
	apiCfg.Address = strings.TrimSuffix(cfg.Address, "/")
	apiCfg.AgentAddress = ""
	// Retries are owned by the resilience executor.
	apiCfg.MaxRetries = 0
	if cfg.HTTPClient != nil {
		apiCfg.HttpClient = cfg.HTTPClient
	}

	base, err := api.NewClient(apiCfg)
	if err != nil {
		return nil, fmt.Errorf("vault client: %w", err)
	}
	base.ClearToken()

	opts := []resilience.ExecutorOption{resilience.WithTimeout(cfg.Timeout)}
	if cfg.Attempts > 1 {
		opts = append(opts, resilience.WithRetry(resilience.NewRetry(resilience.RetryConfig{
			MaxAttempts: cfg.Attempts,
			Jitter:      true,
			OnRetry: func(attempt int, err error, delay time.Duration) {
				cfg.Logger.Warn(context.Background(), "vault request failed, retrying",
					observe.F("attempt", attempt), observe.F("delay", delay.String()), observe.F("error", err))
			},
		})))
	}

	return &Client{
		base:      base,
		roles:     make(map[string]*api.Client),
		loginPath: strings.TrimPrefix(cfg.LoginPath, "/"),
		token:     cfg.Token,
		exec:      resilience.NewExecutor(opts...),
		logger:    cfg.Logger.With(observe.F("address", apiCfg.Address)),
	}, nil
}

// IsLogged reports whether role has a session.
func (c *Client) IsLogged(role string) bool {
	_, ok := c.roles[role]
	return ok
}

// Login exchanges the JWT for a Vault token bound to role.
func (c *Client) Login(ctx context.Context, role string) error {
	jwt, err := c.token.Token(ctx)
	if err != nil {
		return err
	}

	rc, err := c.base.Clone()
	if err != nil {
		return fmt.Errorf("vault client: %w", err)
	}
	rc.ClearToken()

	var resp *api.Secret
	err = c.exec.Execute(ctx, func(ctx context.Context) error {
		s, err := rc.Logical().WriteWithContext(ctx, c.loginPath, map[string]any{
			"role": role,
			"jwt":  jwt,
		})
		if err != nil {
			return classify(err)
		}
		resp = s
		return nil
	})
	if err != nil {
		return fmt.Errorf("vault login: %w", err)
	}
	if resp == nil || resp.Auth == nil || resp.Auth.ClientToken == "" {
		return fmt.Errorf("%w (role %q)", ErrNoAuth, role)
	}

	rc.SetToken(resp.Auth.ClientToken)
	c.roles[role] = rc

	c.logger.Info(ctx, "logged in",
		observe.F("role", role),
		observe.F("login_path", c.loginPath),
		observe.F("token_ttl", strconv.Itoa(resp.Auth.LeaseDuration)+"s"),
		observe.F("policies", resp.Auth.Policies),
	)
	return nil
}

// GetSecret fetches path with the session of role. kwargs are sent as
// query parameters for GET and LIST and as a JSON object body otherwise.
// An empty method is sent as GET.
func (c *Client) GetSecret(ctx context.Context, role, method, path string, kwargs []secret.KV) (*secret.Secret, error) {
	rc, ok := c.roles[role]
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrNotLogged, role)
	}
	method = strings.ToUpper(method)
	if method == "" {
		method = http.MethodGet
	}

	var body []byte
	err := c.exec.Execute(ctx, func(ctx context.Context) error {
		req := rc.NewRequest(method, "/v1/"+strings.TrimPrefix(path, "/"))
		if len(kwargs) > 0 {
			if err := setArgs(req, method, kwargs); err != nil {
				return resilience.Permanent(err)
			}
		}

		//nolint:staticcheck // the raw body keeps field order, api.Secret does not
		resp, err := rc.RawRequestWithContext(ctx, req)
		if resp != nil {
			defer resp.Body.Close()
		}
		if err != nil {
			return classify(err)
		}
		body, err = io.ReadAll(resp.Body)
		return err
	})
	if err != nil {
		return nil, fmt.Errorf("vault %s %s: %w", method, path, err)
	}

	v, err := decodeBody(body)
	if err != nil {
		return nil, fmt.Errorf("vault %s %s: %w", method, path, err)
	}
	sec := newSecret(v)

	c.logger.Debug(ctx, "secret fetched",
		observe.F("role", role),
		observe.F("method", method),
		observe.F("path", path),
		observe.F("request_id", sec.RequestID),
		observe.F("lease_id", sec.LeaseID),
	)
	return sec, nil
}

func setArgs(req *api.Request, method string, kwargs []secret.KV) error {
	if method == http.MethodGet || method == "LIST" {
		for _, kv := range kwargs {
			req.Params.Add(kv.Key, kv.Value)
		}
		return nil
	}
	data := make(map[string]string, len(kwargs))
	for _, kv := range kwargs {
		data[kv.Key] = kv.Value
	}
	return req.SetJSONBody(data)
}

// classify marks client errors as permanent so they are not retried.
func classify(err error) error {
	var re *api.ResponseError
	if errors.As(err, &re) && re.StatusCode >= 400 && re.StatusCode < 500 && re.StatusCode != http.StatusTooManyRequests {
		return resilience.Permanent(err)
	}
	return err
}

func decodeBody(body []byte) (value.Value, error) {
	if len(bytes.TrimSpace(body)) == 0 {
		return value.Null{}, nil
	}
	return value.Parse(body)
}

// newSecret lifts response metadata out of the document.
func newSecret(v value.Value) *secret.Secret {
	s := &secret.Secret{Value: v}
	obj, ok := v.(*value.Object)
	if !ok {
		return s
	}

	if x, ok := obj.Get("request_id"); ok {
		if str, ok := x.(value.String); ok {
			s.RequestID = string(str)
		}
	}
	if x, ok := obj.Get("lease_id"); ok {
		if str, ok := x.(value.String); ok {
			s.LeaseID = string(str)
		}
	}
	if x, ok := obj.Get("lease_duration"); ok {
		if n, ok := x.(value.Number); ok {
			if secs, err := strconv.ParseInt(string(n), 10, 64); err == nil {
				s.LeaseDuration = time.Duration(secs) * time.Second
			}
		}
	}
	if x, ok := obj.Get("renewable"); ok {
		if b, ok := x.(value.Bool); ok {
			s.Renewable = bool(b)
		}
	}
	if x, ok := obj.Get("warnings"); ok {
		if arr, ok := x.(value.Array); ok {
			for _, w := range arr {
				if str, ok := w.(value.String); ok {
					s.Warnings = append(s.Warnings, string(str))
				}
			}
		}
	}
	return s
}

var _ secret.Client = (*Client)(nil)
