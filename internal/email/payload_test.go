package email

import (
	"bytes"
	"mime/multipart"
	"net/url"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParsePayload_URLEncodedForm(t *testing.T) {
	form := url.Values{}
	form.Set("to", "deals+user123@dealflow.app")
	form.Set("from", "agent@mls.example.com")
	form.Set("subject", "New Listing: 123 Main St")
	form.Set("text", "Price: $250,000")

	in, err := ParsePayload("application/x-www-form-urlencoded", []byte(form.Encode()))
	require.NoError(t, err)

	assert.Equal(t, "deals+user123@dealflow.app", in.To)
	assert.Equal(t, "agent@mls.example.com", in.From)
	assert.Equal(t, "New Listing: 123 Main St", in.Subject)
	assert.Equal(t, "Price: $250,000", in.Body())
}

func TestParsePayload_MultipartForm(t *testing.T) {
	var buf bytes.Buffer
	w := multipart.NewWriter(&buf)
	require.NoError(t, w.WriteField("to", "deals+abc@dealflow.app"))
	require.NoError(t, w.WriteField("from", "sender@x.com"))
	require.NoError(t, w.WriteField("subject", "Listing"))
	require.NoError(t, w.WriteField("html", "<p>Rent: $1,800</p>"))
	require.NoError(t, w.Close())

	in, err := ParsePayload(w.FormDataContentType(), buf.Bytes())
	require.NoError(t, err)

	assert.Equal(t, "deals+abc@dealflow.app", in.To)
	assert.Equal(t, "<p>Rent: $1,800</p>", in.Body(), "html is the body when text is absent")
}

func TestParsePayload_UnrecognizedShape(t *testing.T) {
	_, err := ParsePayload("application/json", []byte(`{"anything":true}`))
	assert.Error(t, err)
}

func TestParsePayload_EmptyForm(t *testing.T) {
	_, err := ParsePayload("application/x-www-form-urlencoded", []byte("unrelated=1"))
	assert.Error(t, err)
}

func TestParsePayload_BadContentType(t *testing.T) {
	_, err := ParsePayload("", []byte("x"))
	assert.Error(t, err)
}

const rawMessage = "From: Agent <agent@mls.example.com>\r\n" +
	"To: deals+user9@dealflow.app\r\n" +
	"Subject: Off-market duplex\r\n" +
	"MIME-Version: 1.0\r\n" +
	"Content-Type: text/plain; charset=utf-8\r\n" +
	"\r\n" +
	"Address: 44 Oak Ave\r\nPrice: $410,000\r\n"

func TestParseRawMIME(t *testing.T) {
	in, err := ParseRawMIME([]byte(rawMessage))
	require.NoError(t, err)

	assert.Equal(t, "agent@mls.example.com", in.From)
	assert.Equal(t, "deals+user9@dealflow.app", in.To)
	assert.Equal(t, "Off-market duplex", in.Subject)
	assert.Contains(t, in.Body(), "44 Oak Ave")
}

func TestParsePayload_RawEmailField(t *testing.T) {
	form := url.Values{}
	form.Set("email", rawMessage)

	in, err := ParsePayload("application/x-www-form-urlencoded", []byte(form.Encode()))
	require.NoError(t, err)

	assert.Equal(t, "Off-market duplex", in.Subject)
}

func TestBody_PrefersText(t *testing.T) {
	in := &Inbound{Text: "plain", HTML: "<p>rich</p>"}
	assert.Equal(t, "plain", in.Body())

	in = &Inbound{Text: "   ", HTML: "<p>rich</p>"}
	assert.Equal(t, "<p>rich</p>", in.Body())
}

func TestExtractUserID(t *testing.T) {
	tests := []struct {
		to   string
		want string
	}{
		{"deals+user123@dealflow.app", "user123"},
		{"Deals <deals+abc-9@dealflow.app>", "abc-9"},
		{"other@x.com, deals+tag@dealflow.app", "tag"},
		{"plain@x.com", ""},
		{"", ""},
	}

	for _, tt := range tests {
		if got := ExtractUserID(tt.to); got != tt.want {
			t.Errorf("ExtractUserID(%q) = %q, want %q", tt.to, got, tt.want)
		}
	}
}

func TestParsePayload_LargeBody(t *testing.T) {
	form := url.Values{}
	form.Set("from", "a@b.c")
	form.Set("subject", "big")
	form.Set("text", strings.Repeat("line of property details\n", 10000))

	in, err := ParsePayload("application/x-www-form-urlencoded", []byte(form.Encode()))
	require.NoError(t, err)
	assert.Greater(t, len(in.Body()), 100000)
}
