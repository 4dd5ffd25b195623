package filter

import (
	"bufio"
	"bytes"
	"context"
	"fmt"
	"io"
	"net"
	"os"
	"strings"
	"time"

	"github.com/emersion/go-message"
	"github.com/emersion/go-message/mail"
	"github.com/emersion/go-message/textproto"
	"github.com/emersion/go-smtp"
	"github.com/mikey/email-guardian/internal/core"
	"go.uber.org/zap"
)

const analysisErrorHeader = "X-Email-Guard-Analysis-Error"

// PostfixFilter implements a Postfix content filter
type PostfixFilter struct {
	service              *core.GuardService
	logger               *zap.Logger
	listenAddr           string
	server               *smtp.Server
	blockClassifications map[core.Classification]struct{}
	classificationHeader string
	confidenceHeader     string
	reasonHeader         string
	postfixAddr          string
	postfixPort          int
	postfixEnabled       bool
	subjectPrefix        string
	modifySubject        bool
	deliver              func(sender string, recipients []string, data []byte) error
}

// NewPostfixFilter creates a new Postfix content filter
func NewPostfixFilter(
	service *core.GuardService,
	logger *zap.Logger,
	listenAddr string,
	blockClassifications []string,
	classificationHeader string,
	confidenceHeader string,
	reasonHeader string,
	postfixAddr string,
	postfixPort int,
	postfixEnabled bool,
	subjectPrefix string,
	modifySubject bool,
) *PostfixFilter {
	// If subject prefix is not set but modify subject is enabled, use default prefix
	if subjectPrefix == "" && modifySubject {
		subjectPrefix = "[**SPAM**] "
	}

	blocked := make(map[core.Classification]struct{}, len(blockClassifications))
	for _, c := range blockClassifications {
		blocked[core.Classification(strings.ToLower(strings.TrimSpace(c)))] = struct{}{}
	}

	f := &PostfixFilter{
		service:              service,
		logger:               logger,
		listenAddr:           listenAddr,
		blockClassifications: blocked,
		classificationHeader: classificationHeader,
		confidenceHeader:     confidenceHeader,
		reasonHeader:         reasonHeader,
		postfixAddr:          postfixAddr,
		postfixPort:          postfixPort,
		postfixEnabled:       postfixEnabled,
		subjectPrefix:        subjectPrefix,
		modifySubject:        modifySubject,
	}
	f.deliver = f.sendToPostfix

	return f
}

// Start starts the Postfix filter service
func (f *PostfixFilter) Start() error {
	f.server = smtp.NewServer(&smtpBackend{filter: f})

	f.server.Addr = f.listenAddr
	f.server.Domain = "localhost"
	f.server.ReadTimeout = 30 * time.Second
	f.server.WriteTimeout = 30 * time.Second
	f.server.MaxMessageBytes = 30 * 1024 * 1024 // 30MB
	f.server.MaxRecipients = 50
	f.server.AllowInsecureAuth = true

	f.logger.Info("Postfix filter starting", zap.String("address", f.listenAddr))

	go func() {
		if err := f.server.ListenAndServe(); err != nil {
			if err != smtp.ErrServerClosed {
				f.logger.Error("SMTP server error", zap.Error(err))
			}
		}
	}()

	return nil
}

// Stop stops the Postfix filter service
func (f *PostfixFilter) Stop() error {
	if f.server != nil {
		return f.server.Close()
	}
	return nil
}

// ProcessEmail classifies an already parsed email
func (f *PostfixFilter) ProcessEmail(ctx context.Context, email *core.Email) (*core.AnalysisResult, error) {
	return f.service.AnalyzeEmail(ctx, email), nil
}

// isBlocked reports whether mail with this classification must be rejected
func (f *PostfixFilter) isBlocked(c core.Classification) bool {
	_, ok := f.blockClassifications[c]
	return ok
}

// processMessage analyzes a raw message and returns it with the classification headers added.
// A non-nil error means the message must be rejected.
func (f *PostfixFilter) processMessage(ctx context.Context, sender string, recipients []string, rawData []byte) ([]byte, *core.AnalysisResult, error) {
	var analysisErr error
	var result *core.AnalysisResult

	email, err := ParseEmail(bytes.NewReader(rawData))
	if err != nil {
		analysisErr = err
		f.logger.Error("Failed to parse email message", zap.Error(err), zap.String("sender", sender))

		// deliver unanalyzed mail rather than lose it
		result = &core.AnalysisResult{
			Classification: core.ClassificationInvalid,
			Confidence:     0.0,
			Explanation:    fmt.Sprintf("Error during analysis: %v", err),
			Indicators:     core.IndicatorSet{},
		}
	} else {
		if sender != "" {
			email.From = sender
		}
		if len(recipients) > 0 {
			email.To = recipients
		}
		result = f.service.AnalyzeEmail(ctx, email)
	}

	if analysisErr == nil && f.isBlocked(result.Classification) {
		return nil, result, &smtp.SMTPError{
			Code:         550,
			EnhancedCode: smtp.EnhancedCode{5, 7, 1},
			Message:      fmt.Sprintf("Rejected as %s (confidence: %.2f)", result.Classification, result.Confidence),
		}
	}

	modified, err := f.addHeaders(rawData, result, analysisErr)
	if err != nil {
		return nil, result, err
	}

	return modified, result, nil
}

// addHeaders prepends the classification headers and optionally tags the subject,
// keeping the original header order and body untouched
func (f *PostfixFilter) addHeaders(rawData []byte, result *core.AnalysisResult, analysisErr error) ([]byte, error) {
	br := bufio.NewReader(bytes.NewReader(rawData))
	header, err := textproto.ReadHeader(br)
	if err != nil {
		return nil, fmt.Errorf("failed to read message header: %w", err)
	}

	h := mail.Header{Header: message.Header{Header: header}}

	if result.Classification.IsThreat() && f.modifySubject && f.subjectPrefix != "" {
		subject, err := h.Subject()
		if err != nil {
			subject = h.Get("Subject")
		}
		if !strings.HasPrefix(subject, f.subjectPrefix) {
			h.SetSubject(f.subjectPrefix + subject)
		}
	}

	if analysisErr != nil {
		h.Add(analysisErrorHeader, analysisErr.Error())
	}
	h.Add(f.reasonHeader, result.Explanation)
	h.Add(f.confidenceHeader, fmt.Sprintf("%.4f", result.Confidence))
	h.Add(f.classificationHeader, string(result.Classification))

	var modified bytes.Buffer
	if err := textproto.WriteHeader(&modified, h.Header.Header); err != nil {
		return nil, fmt.Errorf("failed to write message header: %w", err)
	}
	if _, err := io.Copy(&modified, br); err != nil {
		return nil, fmt.Errorf("failed to copy message body: %w", err)
	}

	return modified.Bytes(), nil
}

// sendToPostfix sends the processed email back to Postfix on the configured port using go-smtp
func (f *PostfixFilter) sendToPostfix(sender string, recipients []string, emailData []byte) error {
	postfixAddr := fmt.Sprintf("%s:%d", f.postfixAddr, f.postfixPort)

	hostname, err := os.Hostname()
	if err != nil {
		hostname = "localhost"
	}

	conn, err := net.DialTimeout("tcp", postfixAddr, 10*time.Second)
	if err != nil {
		return fmt.Errorf("failed to connect to Postfix: %w", err)
	}

	if err := conn.SetDeadline(time.Now().Add(30 * time.Second)); err != nil {
		conn.Close()
		return fmt.Errorf("failed to set connection deadline: %w", err)
	}

	c := smtp.NewClient(conn)
	defer c.Close()

	if err := c.Hello(hostname); err != nil {
		return fmt.Errorf("EHLO failed: %w", err)
	}

	if err := c.Mail(sender, nil); err != nil {
		return fmt.Errorf("MAIL FROM failed: %w", err)
	}

	recipientOK := false
	for _, recipient := range recipients {
		if err := c.Rcpt(recipient, nil); err != nil {
			f.logger.Warn("RCPT TO failed for recipient",
				zap.String("recipient", recipient),
				zap.Error(err))
		} else {
			recipientOK = true
		}
	}

	if !recipientOK {
		return fmt.Errorf("all recipients were rejected")
	}

	wc, err := c.Data()
	if err != nil {
		return fmt.Errorf("DATA command failed: %w", err)
	}

	if _, err := wc.Write(emailData); err != nil {
		wc.Close()
		return fmt.Errorf("failed to send email data: %w", err)
	}

	if err := wc.Close(); err != nil {
		return fmt.Errorf("failed to close data writer: %w", err)
	}

	if err := c.Quit(); err != nil {
		// the message is already accepted at this point
		f.logger.Warn("QUIT command failed", zap.Error(err))
	}

	return nil
}

// smtpBackend implements the go-smtp Backend interface
type smtpBackend struct {
	filter *PostfixFilter
}

// NewSession creates a new SMTP session
func (b *smtpBackend) NewSession(_ *smtp.Conn) (smtp.Session, error) {
	return &smtpSession{
		filter:     b.filter,
		recipients: make([]string, 0),
	}, nil
}

// smtpSession implements the go-smtp Session interface
type smtpSession struct {
	filter     *PostfixFilter
	sender     string
	recipients []string
}

// Reset resets the session state
func (s *smtpSession) Reset() {
	s.sender = ""
	s.recipients = make([]string, 0)
}

// Mail sets the sender address
func (s *smtpSession) Mail(from string, _ *smtp.MailOptions) error {
	s.sender = from
	return nil
}

// Rcpt adds a recipient
func (s *smtpSession) Rcpt(to string, _ *smtp.RcptOptions) error {
	s.recipients = append(s.recipients, to)
	return nil
}

// Data analyzes the message and re-injects it into Postfix
func (s *smtpSession) Data(r io.Reader) error {
	rawData, err := io.ReadAll(r)
	if err != nil {
		s.filter.logger.Error("Failed to read message data", zap.Error(err))
		return err
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	modified, result, err := s.filter.processMessage(ctx, s.sender, s.recipients, rawData)
	if err != nil {
		s.filter.logger.Info("Rejecting email",
			zap.String("from", s.sender),
			zap.String("classification", string(result.Classification)),
			zap.Float64("confidence", result.Confidence),
			zap.String("reason", result.Explanation))
		return err
	}

	if s.filter.postfixEnabled {
		if err := s.filter.deliver(s.sender, s.recipients, modified); err != nil {
			s.filter.logger.Error("Failed to send email back to Postfix",
				zap.Error(err),
				zap.String("sender", s.sender))
			return err
		}
	} else {
		s.filter.logger.Warn("Postfix forwarding disabled, this is likely a misconfiguration")
	}

	s.filter.logger.Info("Processed email",
		zap.String("from", s.sender),
		zap.String("classification", string(result.Classification)),
		zap.Float64("confidence", result.Confidence),
		zap.Strings("indicators", result.Indicators.Names()))

	return nil
}

// Logout handles SMTP logout
func (s *smtpSession) Logout() error {
	return nil
}
