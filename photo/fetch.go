package photo

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	v4 "github.com/aws/aws-sdk-go-v2/aws/signer/v4"
	"github.com/aws/aws-sdk-go-v2/config"
)

var (
	// ErrStatus is returned when a photo server answers with a non-2xx status.
	ErrStatus = errors.New("photo: unexpected status")
	// ErrUnsupported is returned for locators no fetcher handles.
	ErrUnsupported = errors.New("photo: unsupported locator")
)

// MaxPhotoBytes caps the size of a fetched photo.
const MaxPhotoBytes = 16 << 20

// emptyPayloadHash is the SHA-256 of an empty body, sent with signed GETs.
const emptyPayloadHash = "e3b0c44298fc1c149afbf4c8996fb92427ae41e4649b934ca495991b7852b855"

// Fetcher retrieves the raw bytes behind a remote locator.
type Fetcher interface {
	Fetch(ctx context.Context, locator string) ([]byte, error)
}

// HTTPFetcher fetches photos over plain HTTP(S).
type HTTPFetcher struct {
	client *http.Client
}

// NewHTTPFetcher returns a fetcher whose requests time out after timeout.
func NewHTTPFetcher(timeout time.Duration) *HTTPFetcher {
	return &HTTPFetcher{client: &http.Client{Timeout: timeout}}
}

// Fetch implements Fetcher.
func (f *HTTPFetcher) Fetch(ctx context.Context, locator string) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, locator, nil)
	if err != nil {
		return nil, fmt.Errorf("%w: %s", ErrUnsupported, redactURL(locator))
	}
	return do(f.client, req)
}

// S3Fetcher fetches s3://bucket/key locators with SigV4-signed GETs.
type S3Fetcher struct {
	client   *http.Client
	creds    aws.CredentialsProvider
	region   string
	endpoint string
	signer   *v4.Signer
	now      func() time.Time
}

// S3Option configures an S3Fetcher.
type S3Option func(*S3Fetcher)

// WithEndpoint sends path-style requests to an S3-compatible endpoint
// instead of AWS virtual-hosted buckets.
func WithEndpoint(endpoint string) S3Option {
	return func(f *S3Fetcher) {
		f.endpoint = strings.TrimRight(endpoint, "/")
	}
}

// WithHTTPClient replaces the HTTP client.
func WithHTTPClient(c *http.Client) S3Option {
	return func(f *S3Fetcher) {
		if c != nil {
			f.client = c
		}
	}
}

// NewS3Fetcher builds a fetcher from an AWS configuration.
func NewS3Fetcher(cfg aws.Config, opts ...S3Option) *S3Fetcher {
	f := &S3Fetcher{
		client: &http.Client{Timeout: 10 * time.Second},
		creds:  cfg.Credentials,
		region: cfg.Region,
		signer: v4.NewSigner(),
		now:    time.Now,
	}
	for _, opt := range opts {
		opt(f)
	}
	return f
}

// LoadS3Fetcher resolves credentials from the default AWS chain
// (environment, shared config, instance role).
func LoadS3Fetcher(ctx context.Context, region string, opts ...S3Option) (*S3Fetcher, error) {
	var loadOpts []func(*config.LoadOptions) error
	if region != "" {
		loadOpts = append(loadOpts, config.WithRegion(region))
	}
	cfg, err := config.LoadDefaultConfig(ctx, loadOpts...)
	if err != nil {
		return nil, fmt.Errorf("photo: load aws config: %w", err)
	}
	return NewS3Fetcher(cfg, opts...), nil
}

// objectURL maps s3://bucket/key onto an HTTPS object URL.
func (f *S3Fetcher) objectURL(locator string) (string, error) {
	u, err := url.Parse(locator)
	if err != nil {
		return "", fmt.Errorf("%w: %s", ErrUnsupported, redactURL(locator))
	}
	if !strings.EqualFold(u.Scheme, "s3") || u.Host == "" {
		return "", fmt.Errorf("%w: %s", ErrUnsupported, redactURL(locator))
	}
	key := strings.TrimPrefix(u.Path, "/")
	if f.endpoint != "" {
		return f.endpoint + "/" + u.Host + "/" + key, nil
	}
	return fmt.Sprintf("https://%s.s3.%s.amazonaws.com/%s", u.Host, f.region, key), nil
}

// Fetch implements Fetcher.
func (f *S3Fetcher) Fetch(ctx context.Context, locator string) ([]byte, error) {
	target, err := f.objectURL(locator)
	if err != nil {
		return nil, err
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, target, nil)
	if err != nil {
		return nil, fmt.Errorf("photo: %w", err)
	}
	if f.creds != nil {
		creds, err := f.creds.Retrieve(ctx)
		if err != nil {
			return nil, fmt.Errorf("photo: retrieve credentials: %w", err)
		}
		req.Header.Set("X-Amz-Content-Sha256", emptyPayloadHash)
		if err := f.signer.SignHTTP(ctx, creds, req, emptyPayloadHash, "s3", f.region, f.now()); err != nil {
			return nil, fmt.Errorf("photo: sign request: %w", err)
		}
	}
	return do(f.client, req)
}

// Router dispatches on the locator scheme.
type Router struct {
	HTTP Fetcher
	S3   Fetcher // nil disables s3:// refs
}

// Fetch implements Fetcher.
func (r Router) Fetch(ctx context.Context, locator string) ([]byte, error) {
	scheme, _, _ := strings.Cut(locator, "://")
	switch strings.ToLower(scheme) {
	case "http", "https":
		if r.HTTP != nil {
			return r.HTTP.Fetch(ctx, locator)
		}
	case "s3":
		if r.S3 != nil {
			return r.S3.Fetch(ctx, locator)
		}
	}
	return nil, fmt.Errorf("%w: %s", ErrUnsupported, redactURL(locator))
}

func do(client *http.Client, req *http.Request) ([]byte, error) {
	target := redactURL(req.URL.String())
	resp, err := client.Do(req)
	if err != nil {
		// url.Error repeats the full request URL, query included.
		var ue *url.Error
		if errors.As(err, &ue) {
			err = ue.Err
		}
		return nil, fmt.Errorf("photo: get %s: %w", target, err)
	}
	defer resp.Body.Close()
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		io.Copy(io.Discard, io.LimitReader(resp.Body, 4096))
		return nil, fmt.Errorf("%w: %s %d", ErrStatus, target, resp.StatusCode)
	}
	data, err := io.ReadAll(io.LimitReader(resp.Body, MaxPhotoBytes+1))
	if err != nil {
		return nil, fmt.Errorf("photo: read %s: %w", target, err)
	}
	if len(data) > MaxPhotoBytes {
		return nil, fmt.Errorf("photo: %s exceeds %d bytes", target, MaxPhotoBytes)
	}
	return data, nil
}
