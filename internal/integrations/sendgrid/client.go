package sendgrid

import (
	"context"
	"errors"
	"fmt"
	"net/http"

	"github.com/sendgrid/sendgrid-go"
	sgmail "github.com/sendgrid/sendgrid-go/helpers/mail"
)

const (
	DefaultHost = "https://api.sendgrid.com"
	endpoint    = "/v3/mail/send"
)

var (
	// ErrSendFailed возвращается, когда SendGrid не принял письмо
	ErrSendFailed = errors.New("sendgrid client: send failed")
)

// Client отправка писем через SendGrid v3 API
type Client struct {
	key        string
	host       string
	from       *sgmail.Email
	subjPrefix string
}

// NewClient создает клиента SendGrid
func NewClient(key, host, fromName, fromEmail string) *Client {
	if host == "" {
		host = DefaultHost
	}
	return &Client{
		key:        key,
		host:       host,
		from:       sgmail.NewEmail(fromName, fromEmail),
		subjPrefix: "[" + fromName + "] ",
	}
}

// SendEmail отправляет текстовое письмо и возвращает X-Message-Id
func (c *Client) SendEmail(ctx context.Context, toName, toAddress, subject, body string) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", fmt.Errorf("%w: %v", ErrSendFailed, err)
	}

	p := sgmail.NewPersonalization()
	p.Subject = c.subjPrefix + subject
	p.AddTos(sgmail.NewEmail(toName, toAddress))

	m := sgmail.NewV3Mail()
	m.SetFrom(c.from)
	m.AddPersonalizations(p)
	m.AddContent(sgmail.NewContent("text/plain", body))

	req := sendgrid.GetRequest(c.key, endpoint, c.host)
	req.Method = http.MethodPost
	req.Body = sgmail.GetRequestBody(m)

	res, err := sendgrid.API(req)
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrSendFailed, err)
	}
	if res.StatusCode >= http.StatusBadRequest {
		return "", fmt.Errorf("%w: status %d: %s", ErrSendFailed, res.StatusCode, res.Body)
	}

	if ids := res.Headers["X-Message-Id"]; len(ids) > 0 {
		return ids[0], nil
	}
	return "", nil
}
