package pastebin

import (
	"bufio"
	"io"
	"net/http"
	"strings"

	"github.com/pkg/errors"
)

const maxLineSize = 10 << 20

// Transport performs exactly one request/response exchange per call and
// returns the response body as lines. Implementations must not reuse
// connections between calls.
type Transport interface {
	Post(endpoint, body string) ([]string, error)
	Get(endpoint string) ([]string, error)
}

// HTTPTransport is the net/http implementation of Transport.
type HTTPTransport struct {
	httpClient *http.Client
}

var _ Transport = (*HTTPTransport)(nil)

// NewHTTPTransport creates a transport with keep-alives disabled and no
// timeout.
func NewHTTPTransport() *HTTPTransport {
	return &HTTPTransport{
		httpClient: &http.Client{
			Transport: &http.Transport{
				Proxy:             http.ProxyFromEnvironment,
				DisableKeepAlives: true,
			},
		},
	}
}

// Post sends a form-encoded body to endpoint.
func (t *HTTPTransport) Post(endpoint, body string) ([]string, error) {
	req, err := open(http.MethodPost, endpoint, strings.NewReader(body))
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded; charset=UTF-8")
	return t.exchange(req)
}

// Get fetches endpoint without a body.
func (t *HTTPTransport) Get(endpoint string) ([]string, error) {
	req, err := open(http.MethodGet, endpoint, nil)
	if err != nil {
		return nil, err
	}
	return t.exchange(req)
}

func open(method, endpoint string, body io.Reader) (*http.Request, error) {
	req, err := http.NewRequest(method, endpoint, body)
	if err != nil {
		return nil, &Error{Code: ErrConnection, Message: "opening " + endpoint, Err: err}
	}
	req.Close = true
	req.Header.Set("Cache-Control", "no-cache")
	req.Header.Set("Pragma", "no-cache")
	req.Header.Set("Accept-Charset", "utf-8")
	return req, nil
}

func (t *HTTPTransport) exchange(req *http.Request) ([]string, error) {
	resp, err := t.httpClient.Do(req)
	if err != nil {
		return nil, &Error{Code: ErrConnection, Message: req.Method + " " + req.URL.String(), Err: err}
	}
	defer resp.Body.Close()

	lines, err := receive(resp.Body)
	if err != nil {
		return nil, &Error{Code: ErrConnection, Message: "reading response", Err: err}
	}

	if resp.StatusCode < http.StatusOK || resp.StatusCode >= http.StatusMultipleChoices {
		if len(lines) > 0 && strings.HasPrefix(lines[0], BadRequestMarker) {
			return nil, &Error{Code: ErrAPIRequest, Message: lines[0]}
		}
		msg := "unexpected status " + resp.Status
		if len(lines) > 0 {
			msg += ": " + lines[0]
		}
		return nil, &Error{Code: ErrAPIRequest, Message: msg}
	}

	return lines, nil
}

// receive reads r to the end as lines. An empty body yields an empty,
// non-nil slice.
func receive(r io.Reader) ([]string, error) {
	lines := []string{}
	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 0, 64*1024), maxLineSize)
	for scanner.Scan() {
		lines = append(lines, scanner.Text())
	}
	if err := scanner.Err(); err != nil {
		return nil, errors.Wrap(err, "scanning response")
	}
	return lines, nil
}
