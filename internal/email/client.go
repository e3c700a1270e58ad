package email

import (
	"context"
	"crypto/tls"
	"fmt"
	"io"
	"log/slog"
	"net"
	"strings"
	"time"

	"github.com/emersion/go-imap"
	"github.com/emersion/go-imap/client"
	"github.com/emersion/go-message"
	"github.com/emersion/go-message/mail"

	"github.com/apave/jobwatch/pkg/models"

	// Registers extended charset decoders so non-UTF-8 parts decode instead of erroring.
	_ "github.com/emersion/go-message/charset"
)

// ClientConfig configuration for the IMAP intake client
type ClientConfig struct {
	User        string
	Password    string
	Server      string // host:port
	Folder      string
	DialTimeout time.Duration
}

// Client fetches messages for a lookback window from one IMAP mailbox.
// A run is sequential: Connect, FetchSince, Close.
type Client struct {
	config ClientConfig
	client *client.Client
	logger *slog.Logger
}

// NewClient creates a new IMAP intake client
func NewClient(cfg ClientConfig, logger *slog.Logger) *Client {
	return &Client{
		config: cfg,
		logger: logger.With("mailbox", cfg.User),
	}
}

// Connect connects and authenticates to the IMAP server
func (c *Client) Connect(ctx context.Context) error {
	if c.client != nil {
		return nil
	}

	c.logger.Info("connecting to IMAP server", "server", c.config.Server)

	timeout := c.config.DialTimeout
	if timeout == 0 {
		timeout = 30 * time.Second
	}

	dialer := &net.Dialer{Timeout: timeout}
	conn, err := tls.DialWithDialer(dialer, "tcp", c.config.Server, nil)
	if err != nil {
		return fmt.Errorf("failed to connect to %s: %w", c.config.Server, err)
	}

	imapClient, err := client.New(conn)
	if err != nil {
		conn.Close()
		return fmt.Errorf("failed to create IMAP client: %w", err)
	}

	if err := imapClient.Login(c.config.User, c.config.Password); err != nil {
		imapClient.Logout()
		return fmt.Errorf("IMAP authentication failed for %s (check that IMAP access is enabled and the password is an app password, not the account password): %w", c.config.User, err)
	}

	c.client = imapClient
	c.logger.Info("connected to IMAP server")

	return nil
}

// FetchSince returns every message in the configured folder received on or
// after the given date. Messages that fail to parse are skipped with a
// warning; the returned slice follows mailbox listing order.
func (c *Client) FetchSince(ctx context.Context, since time.Time) ([]models.RawMessage, error) {
	if c.client == nil {
		return nil, fmt.Errorf("not connected")
	}

	if _, err := c.client.Select(c.config.Folder, true); err != nil {
		return nil, fmt.Errorf("failed to select %s: %w", c.config.Folder, err)
	}

	criteria := imap.NewSearchCriteria()
	criteria.Since = since
	uids, err := c.client.UidSearch(criteria)
	if err != nil {
		return nil, fmt.Errorf("failed to search since %s: %w", since.Format("2006-01-02"), err)
	}
	if len(uids) == 0 {
		return nil, nil
	}

	seqSet := new(imap.SeqSet)
	seqSet.AddNum(uids...)

	section := &imap.BodySectionName{Peek: true}
	items := []imap.FetchItem{imap.FetchEnvelope, imap.FetchUid, section.FetchItem()}

	messages := make(chan *imap.Message, 100)
	done := make(chan error, 1)

	go func() {
		done <- c.client.UidFetch(seqSet, items, messages)
	}()

	var fetched []models.RawMessage
	for msg := range messages {
		raw, err := c.parseMessage(msg, section)
		if err != nil {
			c.logger.Warn("failed to parse message", "uid", msg.Uid, "error", err)
			continue
		}
		fetched = append(fetched, raw)
	}

	if err := <-done; err != nil {
		return fetched, fmt.Errorf("failed to fetch: %w", err)
	}

	c.logger.Info("fetched messages", "count", len(fetched), "since", since.Format("2006-01-02"))
	return fetched, nil
}

// parseMessage parses an IMAP message into a RawMessage
func (c *Client) parseMessage(msg *imap.Message, section *imap.BodySectionName) (models.RawMessage, error) {
	raw := models.RawMessage{
		UID: msg.Uid,
	}

	if msg.Envelope != nil {
		raw.Subject = msg.Envelope.Subject
		raw.ReceivedAt = msg.Envelope.Date
		raw.MessageID = msg.Envelope.MessageId

		if len(msg.Envelope.From) > 0 {
			from := msg.Envelope.From[0]
			raw.Sender = from.Address()
			raw.SenderName = from.PersonalName
		}
	}

	bodyReader := msg.GetBody(section)
	if bodyReader == nil {
		return raw, nil
	}

	mr, err := mail.CreateReader(bodyReader)
	if err != nil {
		// Header-level failure: keep the envelope data, body stays empty.
		c.logger.Warn("failed to create mail reader", "uid", msg.Uid, "error", err)
		return raw, nil
	}

	for {
		part, err := mr.NextPart()
		if err == io.EOF {
			break
		}
		if err != nil && (part == nil || !message.IsUnknownCharset(err)) {
			c.logger.Warn("failed to read part", "uid", msg.Uid, "error", err)
			break
		}

		switch h := part.Header.(type) {
		case *mail.InlineHeader:
			ct, _, _ := h.ContentType()
			body, err := io.ReadAll(part.Body)
			if err != nil {
				continue
			}

			if strings.HasPrefix(ct, "text/html") && raw.BodyHTML == "" {
				raw.BodyHTML = string(body)
			} else if strings.HasPrefix(ct, "text/plain") && raw.BodyText == "" {
				raw.BodyText = string(body)
			}
		}
	}

	return raw, nil
}

// Close logs out from the IMAP server
func (c *Client) Close() {
	if c.client == nil {
		return
	}

	imapClient := c.client
	c.client = nil

	done := make(chan struct{})
	go func() {
		imapClient.Logout()
		close(done)
	}()
	select {
	case <-done:
	case <-time.After(2 * time.Second):
		imapClient.Terminate()
	}
}
