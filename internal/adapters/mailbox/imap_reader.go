package mailbox

import (
	"context"
	"fmt"

	"github.com/emersion/go-imap"
	"github.com/emersion/go-imap/client"
	"github.com/mikey/email-guardian/internal/adapters/filter"
	"github.com/mikey/email-guardian/internal/core"
	"go.uber.org/zap"
)

// IMAPReader reads recent messages from an IMAP mailbox
type IMAPReader struct {
	client *client.Client
	logger *zap.Logger
}

// Dial connects to server over TLS and logs in
func Dial(server string, port int, username, password string, logger *zap.Logger) (*IMAPReader, error) {
	if server == "" {
		return nil, fmt.Errorf("IMAP server is required")
	}

	addr := fmt.Sprintf("%s:%d", server, port)
	logger.Info("Connecting to IMAP server", zap.String("address", addr))

	c, err := client.DialTLS(addr, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to IMAP server: %w", err)
	}

	if err := c.Login(username, password); err != nil {
		c.Logout()
		return nil, fmt.Errorf("failed to log in as %s: %w", username, err)
	}

	return NewIMAPReader(c, logger), nil
}

// NewIMAPReader wraps an authenticated IMAP client
func NewIMAPReader(c *client.Client, logger *zap.Logger) *IMAPReader {
	return &IMAPReader{
		client: c,
		logger: logger,
	}
}

// FetchRecent returns up to limit of the most recent undeleted messages in folder, oldest first.
// The messages are not marked as seen.
func (r *IMAPReader) FetchRecent(ctx context.Context, folder string, limit int) ([]*core.Email, error) {
	if _, err := r.client.Select(folder, true); err != nil {
		return nil, fmt.Errorf("failed to select folder %s: %w", folder, err)
	}

	criteria := imap.NewSearchCriteria()
	criteria.WithoutFlags = []string{imap.DeletedFlag}
	seqNums, err := r.client.Search(criteria)
	if err != nil {
		return nil, fmt.Errorf("failed to search folder %s: %w", folder, err)
	}
	if limit > 0 && len(seqNums) > limit {
		seqNums = seqNums[len(seqNums)-limit:]
	}
	if len(seqNums) == 0 {
		return []*core.Email{}, nil
	}

	seqSet := new(imap.SeqSet)
	seqSet.AddNum(seqNums...)

	section := &imap.BodySectionName{Peek: true}
	items := []imap.FetchItem{section.FetchItem(), imap.FetchEnvelope}

	messages := make(chan *imap.Message, 10)
	done := make(chan error, 1)
	go func() {
		done <- r.client.Fetch(seqSet, items, messages)
	}()

	emails := make([]*core.Email, 0, len(seqNums))
	for msg := range messages {
		if ctx.Err() != nil {
			// drain so the fetch goroutine can finish
			continue
		}

		body := msg.GetBody(section)
		if body == nil {
			r.logger.Warn("Server returned no body", zap.Uint32("seq_num", msg.SeqNum))
			continue
		}

		email, err := filter.ParseEmail(body)
		if err != nil {
			r.logger.Warn("Failed to parse message", zap.Uint32("seq_num", msg.SeqNum), zap.Error(err))
			continue
		}
		applyEnvelope(email, msg.Envelope)

		emails = append(emails, email)
	}

	if err := <-done; err != nil {
		return nil, fmt.Errorf("failed to fetch messages from %s: %w", folder, err)
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	r.logger.Info("Fetched messages", zap.String("folder", folder), zap.Int("count", len(emails)))
	return emails, nil
}

// applyEnvelope fills fields the message headers did not provide
func applyEnvelope(email *core.Email, envelope *imap.Envelope) {
	if envelope == nil {
		return
	}
	if email.From == "" && len(envelope.From) > 0 {
		email.From = envelope.From[0].Address()
	}
	if email.Subject == "" {
		email.Subject = envelope.Subject
	}
	if email.Date.IsZero() {
		email.Date = envelope.Date
	}
}

// Close logs out and closes the connection
func (r *IMAPReader) Close() error {
	return r.client.Logout()
}
