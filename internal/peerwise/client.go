// Package peerwise drives the PeerWise web interface the way a browser would:
// a cookie session, a form login and scraping of the server rendered pages.
package peerwise

import (
	"botwise/internal/components/assert"
	"botwise/internal/components/telemetry"
	libtelemetry "botwise/lib/telemetry"
	"context"
	"fmt"
	"net/http"
	"net/http/cookiejar"
	"time"

	cloudflarebp "github.com/DaRealFreak/cloudflare-bp-go"
	"github.com/go-resty/resty/v2"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"golang.org/x/time/rate"
)

const (
	report_client_log_in = "client.log-in"
	report_client_answer = "client.answer"
)

// the login form is posted this long after the login page is fetched
const loginThrottle = 500 * time.Millisecond

// where the platform sends a browser after a successful login
const loginRedirect = "../home/"

const userAgent = "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/123.0.0.0 Safari/537.36"

var tracer = otel.Tracer("botwise/peerwise")

type Credentials struct {
	User        string
	Pass        string
	Institution string
}

type ClientOptions struct {
	Endpoints   Endpoints
	Credentials Credentials
	// wraps the transport so requests look like they come from a browser,
	// this is what production uses
	CloudflareBypass bool
}

// Client is a single logged in (or about to be) session with the platform,
// every client has its own cookie jar.
type Client struct {
	http      *resty.Client
	endpoints Endpoints
	creds     Credentials
	tel       telemetry.API
}

func NewClient(opts ClientOptions, tel telemetry.API) (*Client, error) {
	assert.NotNil(tel)
	assert.NotEmptyStr(opts.Endpoints.Login)

	tel = telemetry.NewScopedAPI("peerwise", tel)

	httpClient := resty.New()
	jar, err := cookiejar.New(nil)
	if err != nil {
		return nil, err
	}
	httpClient.SetCookieJar(jar)
	if opts.CloudflareBypass {
		httpClient.GetClient().Transport = cloudflarebp.AddCloudFlareByPass(httpClient.GetClient().Transport)
	}

	httpClient.SetHeader("user-agent", userAgent)
	// every status, including redirects, is part of what the platform is
	// telling us so redirects are never followed
	httpClient.SetRedirectPolicy(resty.RedirectPolicyFunc(func(*http.Request, []*http.Request) error {
		return http.ErrUseLastResponse
	}))
	httpClient.SetTimeout(time.Second * 30)

	// 2 requests max per second
	rateLimiter := rate.NewLimiter(2, 2)
	httpClient.OnBeforeRequest(func(_ *resty.Client, req *resty.Request) error {
		return rateLimiter.Wait(req.Context())
	})

	telemetry.InstrumentResty(httpClient, tel)
	libtelemetry.TraceResty(httpClient, "botwise/peerwise/http")

	return &Client{
		http:      httpClient,
		endpoints: opts.Endpoints,
		creds:     opts.Credentials,
		tel:       tel,
	}, nil
}

func (c *Client) get(ctx context.Context, url string) (*resty.Response, error) {
	return c.http.R().
		SetContext(ctx).
		Get(url)
}

// LogIn performs the login handshake, every step must match the platform's
// known behavior exactly or an *AuthError is returned.
func (c *Client) LogIn(ctx context.Context) error {
	ctx, span := tracer.Start(ctx, "client:LogIn")
	defer span.End()

	fail := func(err error) error {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		c.tel.ReportBroken(report_client_log_in, err)
		return err
	}
	transportError := func(step string, err error) error {
		return fail(fmt.Errorf("peerwise: login: %s: %w", step, err))
	}

	res, err := c.get(ctx, c.endpoints.Login)
	if err != nil {
		return transportError("fetch login page", err)
	}
	if !res.IsSuccess() {
		return fail(&AuthError{
			Reason: ErrUnexpectedStatus,
			Url:    c.endpoints.Login,
			Status: res.StatusCode(),
		})
	}

	select {
	case <-time.After(loginThrottle):
	case <-ctx.Done():
		return fail(ctx.Err())
	}

	res, err = c.http.R().
		SetContext(ctx).
		SetFormData(map[string]string{
			"user":           c.creds.User,
			"pass":           c.creds.Pass,
			"inst_shortcode": c.creds.Institution,
			"cmd":            "login",
		}).
		Post(c.endpoints.Login)
	if err != nil {
		return transportError("post credentials", err)
	}
	location := res.Header().Get("Location")
	if res.StatusCode() != http.StatusFound || location != loginRedirect {
		return fail(&AuthError{
			Reason:   ErrLoginRejected,
			Url:      c.endpoints.Login,
			Status:   res.StatusCode(),
			Location: location,
		})
	}

	for _, url := range []string{c.endpoints.Home, c.endpoints.Course} {
		res, err = c.get(ctx, url)
		if err != nil {
			return transportError("post-login check", err)
		}
		if res.StatusCode() != http.StatusOK {
			return fail(&AuthError{
				Reason:   ErrPostLoginCheckFailed,
				Url:      url,
				Status:   res.StatusCode(),
				Location: res.Header().Get("Location"),
			})
		}
	}

	span.SetAttributes(attribute.String("user", c.creds.User))
	c.tel.ReportInfo("logged in", c.creds.User)
	return nil
}
