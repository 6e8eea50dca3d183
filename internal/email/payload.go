// Package email models the inbound email-forwarding webhook payload and
// parses the provider shapes we recognize.
package email

import (
	"bytes"
	"io"
	"mime"
	"mime/multipart"
	"net/url"
	"regexp"
	"strings"

	"github.com/emersion/go-message/mail"

	"dealflow/internal/common/errors"
)

// Inbound is the parsed, trusted form of a forwarded email. It is built only
// after signature verification has passed on the raw request bytes.
type Inbound struct {
	To      string
	From    string
	Subject string
	Text    string
	HTML    string
}

// Body returns the preferred body text for downstream fingerprinting and
// extraction: the plain-text part when present, the HTML part otherwise.
func (in *Inbound) Body() string {
	if strings.TrimSpace(in.Text) != "" {
		return in.Text
	}
	return in.HTML
}

// ParsePayload parses the raw request body using the declared content type.
// Recognized shapes are url-encoded and multipart forms carrying the
// provider's to/from/subject/text/html fields, with an optional raw MIME
// message under the "email" field. Anything else is an unrecognized payload
// and a validation error.
func ParsePayload(contentType string, raw []byte) (*Inbound, error) {
	mediaType, params, err := mime.ParseMediaType(contentType)
	if err != nil {
		return nil, errors.ValidationError("unparseable content type")
	}

	switch mediaType {
	case "application/x-www-form-urlencoded":
		values, err := url.ParseQuery(string(raw))
		if err != nil {
			return nil, errors.ValidationError("malformed form body")
		}
		return fromFormValues(values)

	case "multipart/form-data":
		boundary := params["boundary"]
		if boundary == "" {
			return nil, errors.ValidationError("multipart body without boundary")
		}
		values, err := parseMultipart(raw, boundary)
		if err != nil {
			return nil, err
		}
		return fromFormValues(values)

	case "message/rfc822":
		return ParseRawMIME(raw)

	default:
		return nil, errors.ValidationError("unrecognized payload shape: " + mediaType)
	}
}

func parseMultipart(raw []byte, boundary string) (url.Values, error) {
	values := url.Values{}
	reader := multipart.NewReader(bytes.NewReader(raw), boundary)

	for {
		part, err := reader.NextPart()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, errors.ValidationError("malformed multipart body")
		}

		name := part.FormName()
		if name == "" {
			continue
		}

		data, err := io.ReadAll(part)
		if err != nil {
			return nil, errors.ValidationError("unreadable multipart field")
		}
		values.Add(name, string(data))
	}

	return values, nil
}

func fromFormValues(values url.Values) (*Inbound, error) {
	// Some providers forward the original message verbatim instead of
	// pre-split fields
	if rawEmail := values.Get("email"); rawEmail != "" {
		return ParseRawMIME([]byte(rawEmail))
	}

	in := &Inbound{
		To:      values.Get("to"),
		From:    values.Get("from"),
		Subject: values.Get("subject"),
		Text:    values.Get("text"),
		HTML:    values.Get("html"),
	}

	if in.From == "" && in.Subject == "" && in.Body() == "" {
		return nil, errors.ValidationError("payload carries none of the expected fields")
	}

	return in, nil
}

// ParseRawMIME parses a full MIME message into the Inbound shape.
func ParseRawMIME(raw []byte) (*Inbound, error) {
	mr, err := mail.CreateReader(bytes.NewReader(raw))
	if err != nil {
		return nil, errors.ValidationError("malformed MIME message")
	}
	defer mr.Close()

	in := &Inbound{}
	in.Subject, _ = mr.Header.Subject()
	in.From = headerAddress(mr.Header, "From")
	in.To = headerAddress(mr.Header, "To")

	for {
		part, err := mr.NextPart()
		if err == io.EOF {
			break
		}
		if err != nil {
			// Keep whatever parts already parsed; a broken attachment should
			// not discard the message text
			break
		}

		header, ok := part.Header.(*mail.InlineHeader)
		if !ok {
			continue
		}

		contentType, _, err := header.ContentType()
		if err != nil {
			continue
		}

		data, err := io.ReadAll(part.Body)
		if err != nil {
			continue
		}

		switch contentType {
		case "text/plain":
			if in.Text == "" {
				in.Text = string(data)
			}
		case "text/html":
			if in.HTML == "" {
				in.HTML = string(data)
			}
		}
	}

	if in.From == "" && in.Subject == "" && in.Body() == "" {
		return nil, errors.ValidationError("MIME message carries no usable content")
	}

	return in, nil
}

func headerAddress(header mail.Header, field string) string {
	addrs, err := header.AddressList(field)
	if err != nil || len(addrs) == 0 {
		return header.Get(field)
	}

	parts := make([]string, 0, len(addrs))
	for _, a := range addrs {
		parts = append(parts, a.Address)
	}
	return strings.Join(parts, ", ")
}

var plusTagPattern = regexp.MustCompile(`\+([^+@\s<>,]+)@`)

// ExtractUserID pulls the plus-address tag out of the recipient list.
// Forwarding addresses look like deals+user123@ourdomain.com; the tag is the
// dashboard user the deal belongs to. Empty when no plus-addressed recipient
// is present.
func ExtractUserID(to string) string {
	m := plusTagPattern.FindStringSubmatch(to)
	if m == nil {
		return ""
	}
	return m[1]
}
