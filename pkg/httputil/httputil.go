package httputil

import (
	"context"
	"io/ioutil"
	"net/http"
	"strings"
	"time"
)

const defaultTimeout = 30 * time.Second

// Client is a thin wrapper around http.Client returning plain string bodies,
// enough for the REST explorers the daemon talks to.
type Client struct {
	hc *http.Client
}

// NewClient returns a Client with the given request timeout, or a 30s default
// if zero.
func NewClient(timeout time.Duration) *Client {
	if timeout <= 0 {
		timeout = defaultTimeout
	}
	return &Client{
		hc: &http.Client{Timeout: timeout},
	}
}

// Get performs a GET request against the given url and returns the response
// status code and body.
func (c *Client) Get(
	ctx context.Context, url string, header map[string]string,
) (int, string, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return 0, "", err
	}
	return c.do(req, header)
}

// Post performs a POST request with the given body against the given url and
// returns the response status code and body.
func (c *Client) Post(
	ctx context.Context, url, bodyString string, header map[string]string,
) (int, string, error) {
	req, err := http.NewRequestWithContext(
		ctx, http.MethodPost, url, strings.NewReader(bodyString),
	)
	if err != nil {
		return 0, "", err
	}
	return c.do(req, header)
}

func (c *Client) do(
	req *http.Request, header map[string]string,
) (int, string, error) {
	for key, value := range header {
		req.Header.Set(key, value)
	}

	rs, err := c.hc.Do(req)
	if err != nil {
		return 0, "", err
	}
	defer rs.Body.Close()

	bodyBytes, err := ioutil.ReadAll(rs.Body)
	if err != nil {
		return 0, "", err
	}

	return rs.StatusCode, string(bodyBytes), nil
}
