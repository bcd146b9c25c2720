package pastebin

import (
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/sirupsen/logrus"
)

// DefaultBaseURL is the paste service the client talks to.
const DefaultBaseURL = "https://pastebin.com"

const (
	postPath      = "/api/api_post.php"
	loginPath     = "/api/api_login.php"
	rawPath       = "/api/api_raw.php"
	publicRawPath = "/raw/"
)

// Bounds of api_results_limit.
const (
	DefaultResultsLimit = 50
	MaxResultsLimit     = 1000
)

// Client issues queries against the paste service. It keeps no state between
// calls other than its transport and endpoints; every operation is a fresh
// round trip.
type Client struct {
	transport Transport
	baseURL   string
	logger    *logrus.Logger
}

var _ ClientAPI = (*Client)(nil)

// ClientOption configures a Client.
type ClientOption func(*Client)

// WithTransport replaces the HTTP transport, typically with a mock.
func WithTransport(transport Transport) ClientOption {
	return func(c *Client) {
		c.transport = transport
	}
}

// WithHTTPClient sends requests through httpClient. The client should not
// pool connections. A nil client is ignored.
func WithHTTPClient(httpClient *http.Client) ClientOption {
	return func(c *Client) {
		if httpClient != nil {
			c.transport = &HTTPTransport{httpClient: httpClient}
		}
	}
}

// WithTimeout bounds every exchange. Without it requests may block forever.
// The timeout is set on a copy, so a client passed to WithHTTPClient is left
// untouched. It has no effect on a transport set by WithTransport.
func WithTimeout(timeout time.Duration) ClientOption {
	return func(c *Client) {
		if t, ok := c.transport.(*HTTPTransport); ok {
			hc := *t.httpClient
			hc.Timeout = timeout
			c.transport = &HTTPTransport{httpClient: &hc}
		}
	}
}

// WithBaseURL points the client at another host serving the same API, such
// as the local sandbox.
func WithBaseURL(baseURL string) ClientOption {
	return func(c *Client) {
		c.baseURL = strings.TrimSuffix(baseURL, "/")
	}
}

// WithLogger sets the logger used for request tracing.
func WithLogger(logger *logrus.Logger) ClientOption {
	return func(c *Client) {
		if logger != nil {
			c.logger = logger
		}
	}
}

// NewClient creates a new client for the paste service.
func NewClient(opts ...ClientOption) *Client {
	c := &Client{
		transport: NewHTTPTransport(),
		baseURL:   DefaultBaseURL,
		logger:    logrus.StandardLogger(),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// PasteOptions holds the optional fields of paste creation. Zero values are
// left out of the request so the service applies its defaults: untitled,
// public, never expiring, format "text", anonymous.
type PasteOptions struct {
	Name       string
	Visibility *Visibility
	ExpireDate string
	Format     string
	UserKey    string
}

// query posts params to endpoint and validates the answer.
func (c *Client) query(endpoint string, params Params) ([]string, error) {
	option, _ := params.Get("api_option")
	lines, err := c.transport.Post(endpoint, params.Encode())
	if err != nil {
		c.logger.Debugf("POST %s (%s) failed: %v", endpoint, option, err)
		return nil, err
	}
	c.logger.Debugf("POST %s (%s): %d lines", endpoint, option, len(lines))
	if err := validate(lines); err != nil {
		return nil, err
	}
	return lines, nil
}

// validate rejects empty answers and the service's bad request marker.
func validate(lines []string) error {
	if len(lines) == 0 {
		return newError(ErrEmptyResponse, "empty response")
	}
	if strings.HasPrefix(lines[0], BadRequestMarker) {
		return &Error{Code: ErrAPIRequest, Message: lines[0]}
	}
	return nil
}

// ObtainUserKey logs in and returns the session key. The key stays valid
// until it is requested again.
func (c *Client) ObtainUserKey(devKey, username, password string) (string, error) {
	lines, err := c.query(c.baseURL+loginPath, Params{
		DevKey(devKey),
		UserName(username),
		UserPassword(password),
	})
	if err != nil {
		return "", err
	}
	return strings.TrimSpace(lines[0]), nil
}

// CreatePaste uploads code and returns the URL of the new paste.
func (c *Client) CreatePaste(devKey, code string, opts PasteOptions) (string, error) {
	lines, err := c.query(c.baseURL+postPath, Params{
		DevKey(devKey),
		APIOption(OptionPaste),
		PasteCode(code),
		PasteName(opts.Name),
		PastePrivate(opts.Visibility),
		ExpireDate(opts.ExpireDate),
		PasteFormat(opts.Format),
		OptionalUserKey(opts.UserKey),
	})
	if err != nil {
		return "", err
	}
	return strings.TrimSpace(lines[0]), nil
}

// ListPastes returns the raw list response. A limit of zero or less lets the
// service pick its default of 50. Limits above MaxResultsLimit are clamped.
func (c *Client) ListPastes(devKey, userKey string, limit int) ([]string, error) {
	if limit > MaxResultsLimit {
		limit = MaxResultsLimit
	}
	return c.query(c.baseURL+postPath, Params{
		DevKey(devKey),
		UserKey(userKey),
		APIOption(OptionList),
		ResultsLimit(limit),
	})
}

// ListPastesParsed returns the user's pastes in the order the service lists
// them.
func (c *Client) ListPastesParsed(devKey, userKey string, limit int) ([]Paste, error) {
	lines, err := c.ListPastes(devKey, userKey, limit)
	if err != nil {
		return nil, err
	}
	return ParseList(lines)
}

// DeletePaste removes a paste owned by the user.
func (c *Client) DeletePaste(devKey, userKey, pasteKey string) ([]string, error) {
	return c.query(c.baseURL+postPath, Params{
		DevKey(devKey),
		UserKey(userKey),
		PasteKey(pasteKey),
		APIOption(OptionDelete),
	})
}

// DeletePasteByName removes the first paste titled name. The list and the
// delete are two separate round trips.
func (c *Client) DeletePasteByName(devKey, userKey, name string) ([]string, error) {
	paste, err := c.resolve(devKey, userKey, name)
	if err != nil {
		return nil, err
	}
	return c.DeletePaste(devKey, userKey, paste.Key)
}

// FetchPrivateRaw returns the content of a private paste, or of a public one
// the user owns.
func (c *Client) FetchPrivateRaw(devKey, userKey, pasteKey string) ([]string, error) {
	return c.query(c.baseURL+rawPath, Params{
		DevKey(devKey),
		UserKey(userKey),
		PasteKey(pasteKey),
		APIOption(OptionShowPaste),
	})
}

// FetchPublicRaw returns the content of a public paste. No credentials are
// sent. The content is returned as is, even when it starts with the bad
// request marker; only an empty answer is an error.
func (c *Client) FetchPublicRaw(pasteKey string) ([]string, error) {
	endpoint := c.baseURL + publicRawPath + url.PathEscape(pasteKey)
	lines, err := c.transport.Get(endpoint)
	if err != nil {
		c.logger.Debugf("GET %s failed: %v", endpoint, err)
		return nil, err
	}
	c.logger.Debugf("GET %s: %d lines", endpoint, len(lines))
	if len(lines) == 0 {
		return nil, newError(ErrEmptyResponse, "empty response")
	}
	return lines, nil
}

// FetchRawByName returns the content of the first paste titled name.
func (c *Client) FetchRawByName(devKey, userKey, name string) ([]string, error) {
	paste, err := c.resolve(devKey, userKey, name)
	if err != nil {
		return nil, err
	}
	return c.FetchPrivateRaw(devKey, userKey, paste.Key)
}

// resolve maps a title to a paste, searching as many pastes as the service
// will list. Errors from the list query are returned unchanged.
func (c *Client) resolve(devKey, userKey, name string) (Paste, error) {
	pastes, err := c.ListPastesParsed(devKey, userKey, MaxResultsLimit)
	if err != nil {
		return Paste{}, err
	}
	paste, ok := FindByTitle(pastes, name)
	if !ok {
		return Paste{}, newError(ErrNotFound, "no paste titled %q", name)
	}
	return paste, nil
}
