package filter

import (
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/emersion/go-message"
	"github.com/emersion/go-message/charset"
	"github.com/emersion/go-message/mail"
	"github.com/mikey/email-guardian/internal/core"
	"golang.org/x/net/html"
	"golang.org/x/text/encoding/unicode"
)

const noTextPlaceholder = "[No text content found in message]"

func init() {
	charset.RegisterEncoding("utf-8", unicode.UTF8)
}

// ParseEmail reads an RFC 5322 message and extracts its headers and readable text.
// text/plain parts are preferred; HTML parts are converted to text when no plain part exists.
func ParseEmail(r io.Reader) (*core.Email, error) {
	mr, err := mail.CreateReader(r)
	if err != nil && !message.IsUnknownCharset(err) {
		return nil, fmt.Errorf("failed to parse email message: %w", err)
	}

	email := &core.Email{
		Headers: mr.Header.Map(),
	}

	if subject, err := mr.Header.Subject(); err == nil {
		email.Subject = subject
	} else {
		email.Subject = mr.Header.Get("Subject")
	}
	if from, err := mr.Header.AddressList("From"); err == nil && len(from) > 0 {
		email.From = from[0].Address
	} else {
		email.From = mr.Header.Get("From")
	}
	if to, err := mr.Header.AddressList("To"); err == nil {
		for _, addr := range to {
			email.To = append(email.To, addr.Address)
		}
	}
	if date, err := mr.Header.Date(); err == nil {
		email.Date = date
	}

	body, err := extractText(mr)
	if err != nil {
		return nil, err
	}
	email.Body = body

	return email, nil
}

// extractText concatenates the text/plain parts of a message, falling back to HTML parts
func extractText(mr *mail.Reader) (string, error) {
	var plain, htmlText strings.Builder

	for {
		part, err := mr.NextPart()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil && !message.IsUnknownCharset(err) {
			// keep whatever was readable before the broken part
			if plain.Len() > 0 || htmlText.Len() > 0 {
				break
			}
			return "", fmt.Errorf("failed to read message part: %w", err)
		}

		header, ok := part.Header.(*mail.InlineHeader)
		if !ok {
			continue
		}

		contentType, _, err := header.ContentType()
		if err != nil {
			contentType = "text/plain"
		}

		switch {
		case strings.HasPrefix(contentType, "text/plain"):
			data, err := io.ReadAll(part.Body)
			if err != nil {
				continue
			}
			plain.Write(data)
			plain.WriteString("\n")
		case strings.HasPrefix(contentType, "text/html"):
			data, err := io.ReadAll(part.Body)
			if err != nil {
				continue
			}
			htmlText.WriteString(HTMLToText(string(data)))
			htmlText.WriteString("\n")
		}
	}

	switch {
	case plain.Len() > 0:
		return plain.String(), nil
	case htmlText.Len() > 0:
		return htmlText.String(), nil
	default:
		return noTextPlaceholder, nil
	}
}

// HTMLToText returns the visible text of an HTML document, skipping scripts and styles
func HTMLToText(htmlBody string) string {
	tokenizer := html.NewTokenizer(strings.NewReader(htmlBody))

	var words []string
	skip := 0
	for {
		switch tokenizer.Next() {
		case html.ErrorToken:
			return strings.Join(words, " ")
		case html.StartTagToken:
			name, _ := tokenizer.TagName()
			if tag := string(name); tag == "script" || tag == "style" {
				skip++
			}
		case html.EndTagToken:
			name, _ := tokenizer.TagName()
			if tag := string(name); (tag == "script" || tag == "style") && skip > 0 {
				skip--
			}
		case html.TextToken:
			if skip > 0 {
				continue
			}
			if text := strings.Join(strings.Fields(string(tokenizer.Text())), " "); text != "" {
				words = append(words, text)
			}
		}
	}
}
