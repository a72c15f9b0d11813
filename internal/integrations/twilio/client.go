package twilio

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"

	twiliosdk "github.com/twilio/twilio-go"
	twilioclient "github.com/twilio/twilio-go/client"
	openapi "github.com/twilio/twilio-go/rest/api/v2010"
)

// DefaultBaseURL адрес Twilio REST API
const DefaultBaseURL = "https://api.twilio.com"

var (
	// ErrSendFailed возвращается, когда Twilio не принял сообщение
	ErrSendFailed = errors.New("twilio client: send failed")
)

// Client отправка SMS через Twilio Messages API
type Client struct {
	accountSID string
	from       string
	rest       *twiliosdk.RestClient
}

// NewClient создает клиента Twilio
// baseURL отличный от DefaultBaseURL перенаправляет запросы SDK на этот адрес
func NewClient(baseURL, accountSID, authToken, from string, timeout time.Duration) *Client {
	httpClient := &http.Client{Timeout: timeout}
	if baseURL != "" && strings.TrimRight(baseURL, "/") != DefaultBaseURL {
		if target, err := url.Parse(baseURL); err == nil {
			httpClient.Transport = &rewriteTransport{target: target, next: http.DefaultTransport}
		}
	}

	base := &twilioclient.Client{
		Credentials: twilioclient.NewCredentials(accountSID, authToken),
		HTTPClient:  httpClient,
	}
	base.SetAccountSid(accountSID)

	return &Client{
		accountSID: accountSID,
		from:       from,
		rest: twiliosdk.NewRestClientWithParams(twiliosdk.ClientParams{
			Username: accountSID,
			Password: authToken,
			Client:   base,
		}),
	}
}

// SendSMS отправляет SMS и возвращает SID сообщения
// SDK не принимает контекст, запрос ограничен таймаутом HTTP клиента
func (c *Client) SendSMS(ctx context.Context, to, body string) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", fmt.Errorf("%w: %v", ErrSendFailed, err)
	}

	params := &openapi.CreateMessageParams{}
	params.SetPathAccountSid(c.accountSID)
	params.SetTo(to)
	params.SetFrom(c.from)
	params.SetBody(body)

	msg, err := c.rest.Api.CreateMessage(params)
	if err != nil {
		var apiErr *twilioclient.TwilioRestError
		if errors.As(err, &apiErr) {
			return "", fmt.Errorf("%w: status %d code %d: %s", ErrSendFailed, apiErr.Status, apiErr.Code, apiErr.Message)
		}
		return "", fmt.Errorf("%w: %v", ErrSendFailed, err)
	}

	if msg.ErrorCode != nil {
		return "", fmt.Errorf("%w: message failed with code %d", ErrSendFailed, *msg.ErrorCode)
	}
	if msg.Sid == nil {
		return "", fmt.Errorf("%w: response without sid", ErrSendFailed)
	}
	return *msg.Sid, nil
}

// rewriteTransport подменяет схему и хост запросов SDK
type rewriteTransport struct {
	target *url.URL
	next   http.RoundTripper
}

func (t *rewriteTransport) RoundTrip(req *http.Request) (*http.Response, error) {
	rewritten := req.Clone(req.Context())
	rewritten.URL.Scheme = t.target.Scheme
	rewritten.URL.Host = t.target.Host
	rewritten.Host = t.target.Host
	return t.next.RoundTrip(rewritten)
}
