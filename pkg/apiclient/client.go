package apiclient

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"expvar"
	"fmt"
	"io"
	"mime"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/sirupsen/logrus"
	"golang.org/x/sync/singleflight"
)

const defaultReissuePath = "/auth/reissue"

var (
	reissueCount = expvar.NewInt("apiclient_reissues")
	expiryCount  = expvar.NewInt("apiclient_session_expiries")
)

// Request describes one backend call.
type Request struct {
	Method string
	Path   string
	Query  url.Values
	Body   any
	// Auth marks the call as requiring the bearer token.
	Auth bool
}

// Client wraps outgoing backend calls with bearer injection and a single
// reissue-and-retry on 401.
type Client struct {
	baseURL     string
	http        *http.Client
	reissuePath string
	nav         Navigator
	logger      *logrus.Logger
	group       singleflight.Group
	timeout     time.Duration
}

type Option func(*Client)

// WithHTTPClient replaces the underlying client. Its CheckRedirect is
// overridden so redirects are never followed.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) {
		if hc != nil {
			cp := *hc
			c.http = &cp
		}
	}
}

// WithTimeout bounds every call, including the reissue. It applies to
// the client passed with WithHTTPClient regardless of option order.
func WithTimeout(d time.Duration) Option {
	return func(c *Client) { c.timeout = d }
}

func WithReissuePath(p string) Option {
	return func(c *Client) {
		if p != "" {
			c.reissuePath = p
		}
	}
}

func WithNavigator(n Navigator) Option {
	return func(c *Client) { c.nav = n }
}

func WithLogger(l *logrus.Logger) Option {
	return func(c *Client) {
		if l != nil {
			c.logger = l
		}
	}
}

func New(baseURL string, opts ...Option) *Client {
	c := &Client{
		baseURL:     strings.TrimRight(baseURL, "/"),
		http:        &http.Client{Timeout: 15 * time.Second},
		reissuePath: defaultReissuePath,
		logger:      logrus.StandardLogger(),
	}
	for _, o := range opts {
		o(c)
	}
	if c.timeout > 0 {
		c.http.Timeout = c.timeout
	}
	c.http.CheckRedirect = func(*http.Request, []*http.Request) error {
		return http.ErrUseLastResponse
	}
	return c
}

// BaseURL returns the backend root the client was built with.
func (c *Client) BaseURL() string { return c.baseURL }

type reply struct {
	status  int
	header  http.Header
	body    []byte
	cookies []*http.Cookie
}

func (r *reply) contentType() string { return r.header.Get("Content-Type") }

func (r *reply) isJSON() bool {
	mt, _, err := mime.ParseMediaType(r.contentType())
	if err != nil {
		return false
	}
	return mt == "application/json" || strings.HasSuffix(mt, "+json")
}

func (r *reply) ok() bool       { return r.status >= 200 && r.status < 300 }
func (r *reply) redirect() bool { return r.status >= 300 && r.status < 400 }

// Do sends req and decodes a successful body into out. JSON bodies are
// unmarshalled; other bodies are assigned when out is *string or *[]byte.
// sess may be nil for public calls.
func (c *Client) Do(ctx context.Context, sess Session, req Request, out any) error {
	payload, err := encodeBody(req.Body)
	if err != nil {
		return err
	}

	rep, err := c.send(ctx, sess, req, payload, tokenOf(sess))
	if err != nil {
		return err
	}
	c.keepCookies(ctx, sess, rep.cookies)

	if req.Auth {
		switch {
		case rep.redirect():
			return c.expire(ctx, sess, "session redirected")
		case rep.status == http.StatusUnauthorized:
			token, err := c.reissue(ctx, sess)
			if IsNetwork(err) {
				return err
			}
			if err != nil {
				return c.expire(ctx, sess, "reissue failed")
			}
			rep, err = c.send(ctx, sess, req, payload, token)
			if err != nil {
				return err
			}
			c.keepCookies(ctx, sess, rep.cookies)
			if rep.redirect() || rep.status == http.StatusUnauthorized {
				return c.expire(ctx, sess, "retry rejected")
			}
		}
	}
	return decode(rep, out)
}

func tokenOf(sess Session) string {
	if sess == nil {
		return ""
	}
	return sess.AccessToken()
}

func encodeBody(body any) ([]byte, error) {
	switch b := body.(type) {
	case nil:
		return nil, nil
	case []byte:
		return b, nil
	case json.RawMessage:
		return b, nil
	}
	b, err := json.Marshal(body)
	if err != nil {
		return nil, fmt.Errorf("encode request body: %w", err)
	}
	return b, nil
}

func (c *Client) url(path string, q url.Values) string {
	if !strings.HasPrefix(path, "/") {
		path = "/" + path
	}
	u := c.baseURL + path
	if len(q) > 0 {
		u += "?" + q.Encode()
	}
	return u
}

func (c *Client) send(ctx context.Context, sess Session, req Request, payload []byte, token string) (*reply, error) {
	var body io.Reader
	if payload != nil {
		body = bytes.NewReader(payload)
	}
	method := req.Method
	if method == "" {
		method = http.MethodGet
	}
	hr, err := http.NewRequestWithContext(ctx, method, c.url(req.Path, req.Query), body)
	if err != nil {
		return nil, fmt.Errorf("build request: %w", err)
	}
	hr.Header.Set("Accept", "application/json")
	if payload != nil {
		hr.Header.Set("Content-Type", "application/json")
	}
	if req.Auth && token != "" {
		hr.Header.Set("Authorization", "Bearer "+token)
	}
	attachCookies(hr, sess)
	return c.roundTrip(hr)
}

func attachCookies(hr *http.Request, sess Session) {
	if sess == nil {
		return
	}
	for _, ck := range sess.Cookies() {
		hr.AddCookie(&http.Cookie{Name: ck.Name, Value: ck.Value})
	}
}

func (c *Client) roundTrip(hr *http.Request) (*reply, error) {
	resp, err := c.http.Do(hr)
	if err != nil {
		return nil, networkError(err)
	}
	defer func() { _ = resp.Body.Close() }()
	b, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, networkError(err)
	}
	return &reply{status: resp.StatusCode, header: resp.Header, body: b, cookies: resp.Cookies()}, nil
}

func (c *Client) keepCookies(ctx context.Context, sess Session, cookies []*http.Cookie) {
	if sess == nil || len(cookies) == 0 {
		return
	}
	if err := sess.SetCookies(ctx, cookies); err != nil {
		c.logger.WithError(err).Warn("store backend cookies failed")
	}
}

type reissued struct {
	token   string
	cookies []*http.Cookie
}

// reissue exchanges the cookie-carried refresh token for a new access
// token. Concurrent calls for the same session share one backend call,
// which runs detached from any single caller's cancellation and stores
// its result even if every caller has gone. A reissue that got no answer
// is a network error and leaves the session alone; any other error means
// the refresh was rejected.
func (c *Client) reissue(ctx context.Context, sess Session) (string, error) {
	if sess == nil {
		return "", errors.New("no session to reissue")
	}
	shared := context.WithoutCancel(ctx)
	fn := func() (any, error) { return c.refresh(shared, sess) }

	var (
		v   any
		err error
	)
	if key := sess.ID(); key != "" {
		select {
		case <-ctx.Done():
			return "", networkError(ctx.Err())
		case r := <-c.group.DoChan(key, fn):
			v, err = r.Val, r.Err
		}
	} else {
		v, err = fn()
	}
	if err != nil {
		return "", err
	}
	return v.(string), nil
}

func (c *Client) refresh(ctx context.Context, sess Session) (string, error) {
	res, err := c.callReissue(ctx, sess)
	if err != nil {
		if IsNetwork(err) {
			c.logger.WithError(err).WithField("session", sess.ID()).Warn("token reissue unreachable")
		} else {
			c.logger.WithError(err).WithField("session", sess.ID()).Info("token reissue rejected")
		}
		return "", err
	}
	c.keepCookies(ctx, sess, res.cookies)
	if err := sess.SetAccessToken(ctx, res.token); err != nil {
		c.logger.WithError(err).WithField("session", sess.ID()).Warn("store reissued token failed")
		return "", err
	}
	reissueCount.Add(1)
	c.logger.WithField("session", sess.ID()).Debug("access token reissued")
	return res.token, nil
}

func (c *Client) callReissue(ctx context.Context, sess Session) (*reissued, error) {
	hr, err := http.NewRequestWithContext(ctx, http.MethodPost, c.url(c.reissuePath, nil), nil)
	if err != nil {
		return nil, err
	}
	hr.Header.Set("Accept", "application/json")
	attachCookies(hr, sess)
	rep, err := c.roundTrip(hr)
	if err != nil {
		return nil, err
	}
	if !rep.ok() {
		return nil, rep.httpError()
	}
	if !rep.isJSON() {
		return nil, errors.New("reissue returned non-json body")
	}
	var body struct {
		AccessToken string `json:"accessToken"`
		Data        *struct {
			AccessToken string `json:"accessToken"`
		} `json:"data"`
	}
	if err := json.Unmarshal(rep.body, &body); err != nil {
		return nil, fmt.Errorf("decode reissue: %w", err)
	}
	token := body.AccessToken
	if token == "" && body.Data != nil {
		token = body.Data.AccessToken
	}
	if token == "" {
		return nil, errors.New("reissue returned no access token")
	}
	return &reissued{token: token, cookies: rep.cookies}, nil
}

// expire clears local session state and sends the user agent to login.
func (c *Client) expire(ctx context.Context, sess Session, reason string) error {
	if sess != nil {
		if err := sess.Clear(ctx); err != nil {
			c.logger.WithError(err).WithField("session", sess.ID()).Warn("clear session failed")
		}
	}
	if c.nav != nil {
		c.nav.ToLogin(ctx)
	}
	expiryCount.Add(1)
	fields := logrus.Fields{"reason": reason}
	if sess != nil {
		fields["session"] = sess.ID()
	}
	c.logger.WithFields(fields).Info("session expired")
	return unauthorized(reason)
}

func decode(rep *reply, out any) error {
	if !rep.ok() {
		return rep.httpError()
	}
	if out == nil || len(rep.body) == 0 {
		return nil
	}
	if rep.isJSON() {
		if err := json.Unmarshal(rep.body, out); err != nil {
			return fmt.Errorf("decode response: %w", err)
		}
		return nil
	}
	switch v := out.(type) {
	case *string:
		*v = string(rep.body)
	case *[]byte:
		*v = rep.body
	default:
		return fmt.Errorf("unexpected content type %q", rep.contentType())
	}
	return nil
}

func (r *reply) httpError() *Error {
	e := &Error{Kind: KindHTTP, Status: r.status}
	if r.isJSON() {
		var body map[string]any
		if json.Unmarshal(r.body, &body) == nil {
			e.Message = stringField(body, "message")
			if e.Message == "" {
				e.Message = stringField(body, "error")
			}
			e.Code = stringField(body, "code")
		}
	} else {
		e.Message = strings.TrimSpace(string(r.body))
	}
	if e.Message == "" {
		e.Message = http.StatusText(r.status)
	}
	return e
}

func stringField(m map[string]any, key string) string {
	switch v := m[key].(type) {
	case string:
		return v
	case float64:
		return fmt.Sprintf("%v", v)
	}
	return ""
}
