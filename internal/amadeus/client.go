// README: Amadeus self-service API client (OAuth2 client credentials, rate limited).
package amadeus

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"

	"golang.org/x/oauth2"
	"golang.org/x/oauth2/clientcredentials"
	"golang.org/x/time/rate"
)

const tokenPath = "/v1/security/oauth2/token"

type Config struct {
	BaseURL           string
	ClientID          string
	ClientSecret      string
	RequestsPerSecond float64
	// HTTPClient is the transport used for token and API calls. nil means http.DefaultClient.
	HTTPClient *http.Client
	// Geocoder is optional; when set it fills in coordinates the provider lacks.
	Geocoder Geocoder
}

// Client is safe for concurrent use. Build one per process and inject it.
type Client struct {
	baseURL  string
	http     *http.Client
	limiter  *rate.Limiter
	geocoder Geocoder
}

func NewClient(cfg Config) (*Client, error) {
	if cfg.ClientID == "" || cfg.ClientSecret == "" {
		return nil, errors.New("amadeus: client id and secret are required")
	}
	if cfg.BaseURL == "" {
		return nil, errors.New("amadeus: base url is required")
	}
	base := cfg.HTTPClient
	if base == nil {
		base = http.DefaultClient
	}
	rps := cfg.RequestsPerSecond
	if rps <= 0 {
		rps = 10
	}
	burst := int(rps)
	if burst < 1 {
		burst = 1
	}

	baseURL := strings.TrimRight(cfg.BaseURL, "/")
	cc := clientcredentials.Config{
		ClientID:     cfg.ClientID,
		ClientSecret: cfg.ClientSecret,
		TokenURL:     baseURL + tokenPath,
		AuthStyle:    oauth2.AuthStyleInParams,
	}
	// The token source keeps this context for refreshes, so it must outlive any request.
	tokenCtx := context.WithValue(context.Background(), oauth2.HTTPClient, base)

	return &Client{
		baseURL:  baseURL,
		http:     cc.Client(tokenCtx),
		limiter:  rate.NewLimiter(rate.Limit(rps), burst),
		geocoder: cfg.Geocoder,
	}, nil
}

type apiErrors struct {
	Errors []struct {
		Code   int    `json:"code"`
		Title  string `json:"title"`
		Detail string `json:"detail"`
	} `json:"errors"`
}

// get issues one authenticated GET and decodes the JSON body into out.
func (c *Client) get(ctx context.Context, path string, q url.Values, out any) error {
	if err := c.limiter.Wait(ctx); err != nil {
		return fmt.Errorf("%w: %v", ErrProviderUnavailable, err)
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+path+"?"+q.Encode(), nil)
	if err != nil {
		return fmt.Errorf("amadeus: build request: %w", err)
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("%w: %s: %v", ErrProviderUnavailable, path, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		raw, _ := io.ReadAll(io.LimitReader(resp.Body, 4<<10))
		perr := &ProviderError{Status: resp.StatusCode, Detail: strings.TrimSpace(string(raw))}
		var body apiErrors
		if json.Unmarshal(raw, &body) == nil {
			for _, e := range body.Errors {
				perr.Codes = append(perr.Codes, e.Code)
			}
		}
		return perr
	}

	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return &MalformedResponseError{Resource: path, Field: "body: " + err.Error()}
	}
	return nil
}
