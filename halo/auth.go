package halo

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"

	"golang.org/x/oauth2"
	"golang.org/x/oauth2/clientcredentials"

	"github.com/jcbmsp/halopsa-template-creator/config"
	"github.com/jcbmsp/halopsa-template-creator/report"
)

// Authenticate exchanges the configured client credentials for a bearer token using the OAuth2
// client credentials grant. The credentials are sent in the form body, which is what HaloPSA expects.
//
// Any response from the token endpoint other than 200 OK is returned as a report.Authentication error
// with the response body. A network failure is returned as a report.Transport error.
func Authenticate(ctx context.Context, conf config.Config) (*oauth2.Token, error) {
	cc := clientcredentials.Config{
		ClientID:     conf.ClientID,
		ClientSecret: conf.ClientSecret,
		TokenURL:     conf.TokenURL,
		Scopes:       conf.Scopes(),
		AuthStyle:    oauth2.AuthStyleInParams,
	}

	token, err := cc.Token(strict(ctx))
	if err != nil {
		var rerr *oauth2.RetrieveError
		var serr *statusError
		var uerr *url.Error

		switch {
		case errors.As(err, &serr):
			return nil, &report.Error{
				Kind:   report.Authentication,
				Op:     "failed to obtain OAuth token",
				Status: serr.status,
				Body:   string(serr.body),
				Err:    serr,
			}

		case errors.As(err, &rerr):
			status := 0
			if rerr.Response != nil {
				status = rerr.Response.StatusCode
			}

			return nil, &report.Error{
				Kind:   report.Authentication,
				Op:     "failed to obtain OAuth token",
				Status: status,
				Body:   string(rerr.Body),
				Err:    err,
			}

		case errors.As(err, &uerr):
			return nil, &report.Error{Kind: report.Transport, Op: "failed to obtain OAuth token", Err: err}

		default:
			return nil, &report.Error{Kind: report.Authentication, Op: "failed to obtain OAuth token", Err: err}
		}
	}

	return token, nil
}

// statusError is returned by the token transport for a response other than 200 OK, which x/oauth2
// would otherwise accept if it is any 2xx.
type statusError struct {
	status int
	body   []byte
}

func (e *statusError) Error() string {
	return fmt.Sprintf("unexpected token response %d %s", e.status, http.StatusText(e.status))
}

type statusTransport struct {
	base http.RoundTripper
}

func (t statusTransport) RoundTrip(rq *http.Request) (*http.Response, error) {
	response, err := t.base.RoundTrip(rq)
	if err != nil || response.StatusCode == http.StatusOK {
		return response, err
	}

	defer response.Body.Close()

	body, _ := io.ReadAll(io.LimitReader(response.Body, 1<<20))

	return nil, &statusError{
		status: response.StatusCode,
		body:   body,
	}
}

// strict returns a context whose oauth2.HTTPClient only accepts 200 OK, wrapping the HTTP client
// already in the context if there is one.
func strict(ctx context.Context) context.Context {
	client := http.Client{}
	if c, ok := ctx.Value(oauth2.HTTPClient).(*http.Client); ok && c != nil {
		client = *c
	}

	base := client.Transport
	if base == nil {
		base = http.DefaultTransport
	}

	client.Transport = statusTransport{base: base}

	return context.WithValue(ctx, oauth2.HTTPClient, &client)
}
