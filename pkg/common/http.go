package common

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"regexp"
	"strings"
	"time"

	"github.com/cenkalti/backoff/v5"
)

const (
	ContentTypeJSON = "application/json"
	ContentTypeYAML = "application/x-yaml"
	ContentTypeHTML = "text/html"
)

var linkHeaderRegex = regexp.MustCompile(`\s*<(.*)>; *rel="(.*)"\s*`)

// A response that was completely read into memory.
type HttpResponse struct {
	StatusCode int
	Header     http.Header
	// The url of the last request after following redirects.
	FinalUrl *url.URL
	Body     []byte
}

// Checks if the status code is a 2xx code.
func (r *HttpResponse) IsSuccess() bool {
	return r.StatusCode >= 200 && r.StatusCode < 300
}

// Modifies a request before it is sent.
type RequestModifier func(request *http.Request)

func WithBearer(token string) RequestModifier {
	return func(request *http.Request) {
		if len(token) > 0 {
			request.Header.Set("Authorization", fmt.Sprintf("Bearer %s", token))
		}
	}
}

func WithBasicAuth(username, password string) RequestModifier {
	return func(request *http.Request) {
		if len(username) > 0 && len(password) > 0 {
			request.SetBasicAuth(username, password)
		}
	}
}

func WithAccept(contentTypes ...string) RequestModifier {
	return func(request *http.Request) {
		request.Header.Set("Accept", strings.Join(contentTypes, ", "))
	}
}

// Http client with a per request timeout and bounded retries on network errors and 5xx responses.
type HttpUtil struct {
	// How many times a failed request is repeated.
	Retries int
	// The wait time before the first retry. Doubles with every retry.
	RetryInterval time.Duration
	// The user agent sent with every request.
	UserAgent string
	client    *http.Client
}

func NewHttpUtil(timeout time.Duration, retries int) *HttpUtil {
	if timeout <= 0 {
		timeout = DefaultRequestTimeout
	}
	return &HttpUtil{
		Retries:       max(retries, 0),
		RetryInterval: 500 * time.Millisecond,
		UserAgent:     DefaultUserAgent,
		client:        &http.Client{Timeout: timeout},
	}
}

// Gets the underlying http client, eg. for third party SDKs.
func (h *HttpUtil) Client() *http.Client {
	return h.client
}

// Sends a GET request and reads the full response.
// Responses with a status code below 500 are returned without error so the caller can inspect them.
func (h *HttpUtil) Fetch(ctx context.Context, urlString string, modifiers ...RequestModifier) (*HttpResponse, error) {
	expBackoff := backoff.NewExponentialBackOff()
	expBackoff.InitialInterval = h.RetryInterval
	expBackoff.Multiplier = 2

	response, err := backoff.Retry(ctx, func() (*HttpResponse, error) {
		return h.fetchOnce(ctx, urlString, modifiers)
	}, backoff.WithBackOff(expBackoff), backoff.WithMaxTries(uint(h.Retries+1)))
	if err != nil {
		var permanentErr *backoff.PermanentError
		if errors.As(err, &permanentErr) {
			err = permanentErr.Err
		}
		var networkErr *NetworkError
		var statusErr *HttpStatusError
		if !errors.As(err, &networkErr) && !errors.As(err, &statusErr) {
			// Context cancellation or deadline while waiting for a retry
			err = &NetworkError{Url: urlString, Err: err}
		}
		return nil, err
	}
	return response, nil
}

// Downloads the content of the given url. Every status code other than 2xx is an error.
func (h *HttpUtil) DownloadToMemory(ctx context.Context, urlString string, modifiers ...RequestModifier) ([]byte, error) {
	response, err := h.Fetch(ctx, urlString, modifiers...)
	if err != nil {
		return nil, err
	}
	if !response.IsSuccess() {
		return nil, &HttpStatusError{Url: urlString, StatusCode: response.StatusCode}
	}
	return response.Body, nil
}

// Gets the "next" link from the "Link" header from a response.
func (h *HttpUtil) GetNextPageURL(response *HttpResponse) (*url.URL, error) {
	// See if we have the link header
	linkHeaderRaw := response.Header.Get("Link")
	if linkHeaderRaw == "" || response.FinalUrl == nil {
		return nil, nil
	}

	// Split it in case there are multiple links inside the header
	for _, linkRaw := range strings.Split(linkHeaderRaw, ",") {
		if matches := linkHeaderRegex.FindStringSubmatch(linkRaw); matches != nil {
			if matches[2] != "next" {
				continue
			}
			linkURL, err := url.Parse(matches[1])
			if err != nil {
				return nil, err
			}
			// Resolve and return the url
			return response.FinalUrl.ResolveReference(linkURL), nil
		}
	}

	// Nothing found, return
	return nil, nil
}

////////////////////////////////////////////////////////////
// Internal
////////////////////////////////////////////////////////////

func (h *HttpUtil) fetchOnce(ctx context.Context, urlString string, modifiers []RequestModifier) (*HttpResponse, error) {
	request, err := http.NewRequestWithContext(ctx, http.MethodGet, urlString, nil)
	if err != nil {
		return nil, backoff.Permanent(&NetworkError{Url: urlString, Err: err})
	}
	if h.UserAgent != "" {
		request.Header.Set("User-Agent", h.UserAgent)
	}
	for _, modifier := range modifiers {
		modifier(request)
	}

	resp, err := h.client.Do(request)
	if err != nil {
		if ctx.Err() != nil {
			return nil, backoff.Permanent(&NetworkError{Url: urlString, Err: err})
		}
		return nil, &NetworkError{Url: urlString, Err: err}
	}
	defer resp.Body.Close()

	bodyBytes, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, &NetworkError{Url: urlString, Err: fmt.Errorf("failed to read body: %w", err)}
	}
	if resp.StatusCode >= 500 {
		return nil, &HttpStatusError{Url: urlString, StatusCode: resp.StatusCode}
	}
	return &HttpResponse{
		StatusCode: resp.StatusCode,
		Header:     resp.Header,
		FinalUrl:   resp.Request.URL,
		Body:       bodyBytes,
	}, nil
}
