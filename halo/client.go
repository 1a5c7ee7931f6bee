package halo

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"

	"golang.org/x/net/context/ctxhttp"
	"golang.org/x/oauth2"

	"github.com/jcbmsp/halopsa-template-creator/config"
)

// Client is a HaloPSA REST API client bound to a single configuration and bearer token.
type Client struct {
	conf config.Config
	http *http.Client
}

// Connect obtains a bearer token and returns a Client that sends it with every request.
func Connect(ctx context.Context, conf config.Config) (*Client, error) {
	token, err := Authenticate(ctx, conf)
	if err != nil {
		return nil, err
	}

	return NewClient(ctx, conf, token.AccessToken), nil
}

// NewClient returns a Client that authorises every request with the bearer token. The token is used as
// is for the lifetime of the client and is never refreshed. The underlying HTTP client can be replaced
// by setting oauth2.HTTPClient in the context.
func NewClient(ctx context.Context, conf config.Config, token string) *Client {
	static := oauth2.StaticTokenSource(&oauth2.Token{
		AccessToken: token,
		TokenType:   "Bearer",
	})

	return &Client{
		conf: conf,
		http: oauth2.NewClient(ctx, static),
	}
}

func (c *Client) Config() config.Config {
	return c.conf
}

func (c *Client) get(ctx context.Context, resource string) (int, []byte, error) {
	response, err := ctxhttp.Get(ctx, c.http, c.conf.Endpoint(resource))
	if err != nil {
		return 0, nil, err
	}

	defer response.Body.Close()

	body, err := io.ReadAll(response.Body)

	return response.StatusCode, body, err
}

// post sends the item wrapped in a single element JSON array, which is how the HaloPSA API expects
// resources to be created. Category names contain '>' so HTML escaping is disabled.
func (c *Client) post(ctx context.Context, resource string, item any) (int, []byte, error) {
	var b bytes.Buffer

	encoder := json.NewEncoder(&b)
	encoder.SetEscapeHTML(false)

	if err := encoder.Encode([]any{item}); err != nil {
		return 0, nil, err
	}

	response, err := ctxhttp.Post(ctx, c.http, c.conf.Endpoint(resource), "application/json", bytes.NewReader(bytes.TrimSpace(b.Bytes())))
	if err != nil {
		return 0, nil, err
	}

	defer response.Body.Close()

	body, err := io.ReadAll(response.Body)

	return response.StatusCode, body, err
}
