package signature

import (
	"crypto/ecdsa"
	"crypto/sha256"
	"crypto/x509"
	"encoding/base64"
	"encoding/pem"
	"strconv"
	"time"

	"dealflow/internal/common/errors"
	"dealflow/internal/common/logging"
)

// Config holds verifier settings
type Config struct {
	// PublicKeyPEM is the provider's PEM-encoded public key. Empty means no
	// key is configured; see Production for the resulting behavior.
	PublicKeyPEM string

	// MaxAge is the maximum accepted age of the declared timestamp
	MaxAge time.Duration

	// ClockSkew is the allowance for sender clocks running ahead of ours
	ClockSkew time.Duration

	// Production controls the no-key behavior: fail closed when true, accept
	// with a warning when false
	Production bool
}

// Verifier validates webhook signatures against the raw request body
type Verifier struct {
	config    *Config
	publicKey *ecdsa.PublicKey
	logger    logging.Logger
	now       func() time.Time
}

// NewVerifier creates a verifier, parsing the configured public key once up
// front. A malformed key is a configuration error, not a per-request one.
func NewVerifier(config *Config, logger logging.Logger) (*Verifier, error) {
	if logger == nil {
		logger = logging.NewDefaultLogger()
	}
	if config.MaxAge <= 0 {
		config.MaxAge = 300 * time.Second
	}
	if config.ClockSkew <= 0 {
		config.ClockSkew = 30 * time.Second
	}

	v := &Verifier{
		config: config,
		logger: logger,
		now:    time.Now,
	}

	if config.PublicKeyPEM != "" {
		key, err := parsePublicKey(config.PublicKeyPEM)
		if err != nil {
			return nil, err
		}
		v.publicKey = key
	}

	return v, nil
}

// Verify checks the signature and timestamp headers against the raw body.
// rawBody must be the untouched request bytes.
func (v *Verifier) Verify(rawBody []byte, signatureHeader, timestampHeader string) error {
	if v.publicKey == nil {
		if v.config.Production {
			// Fail closed: absence of the verification key must never
			// silently pass in production
			return NewVerificationError(KindInvalid, "no verification key configured")
		}
		v.logger.Warn("Webhook signature verification skipped: no public key configured",
			logging.Int("body_len", len(rawBody)),
		)
		return nil
	}

	if signatureHeader == "" || timestampHeader == "" {
		return NewVerificationError(KindMissing, "signature or timestamp header absent")
	}

	ts, err := strconv.ParseInt(timestampHeader, 10, 64)
	if err != nil {
		return NewVerificationError(KindMalformed, "timestamp is not an integer")
	}

	age := v.now().Sub(time.Unix(ts, 0))
	if age > v.config.MaxAge {
		return NewVerificationError(KindStale, "request is %s old, max age %s", age.Round(time.Second), v.config.MaxAge)
	}
	if age < -v.config.ClockSkew {
		return NewVerificationError(KindStale, "timestamp is %s in the future", (-age).Round(time.Second))
	}

	sig, err := base64.StdEncoding.DecodeString(signatureHeader)
	if err != nil {
		return NewVerificationError(KindInvalid, "signature is not valid base64")
	}

	// The provider signs timestamp||rawBody as raw bytes. Re-parsing the body
	// into structured form before this point is forbidden.
	signed := make([]byte, 0, len(timestampHeader)+len(rawBody))
	signed = append(signed, timestampHeader...)
	signed = append(signed, rawBody...)

	digest := sha256.Sum256(signed)
	if !ecdsa.VerifyASN1(v.publicKey, digest[:], sig) {
		v.logger.Debug("Webhook signature mismatch",
			logging.Int("body_len", len(rawBody)),
			logging.Int64("timestamp", ts),
		)
		return NewVerificationError(KindInvalid, "signature does not match")
	}

	return nil
}

func parsePublicKey(pemData string) (*ecdsa.PublicKey, error) {
	block, _ := pem.Decode([]byte(pemData))
	if block == nil {
		return nil, errors.ConfigError("inbound public key is not valid PEM")
	}

	parsed, err := x509.ParsePKIXPublicKey(block.Bytes)
	if err != nil {
		return nil, errors.ConfigError("inbound public key did not parse: " + err.Error())
	}

	key, ok := parsed.(*ecdsa.PublicKey)
	if !ok {
		return nil, errors.ConfigError("inbound public key is not an ECDSA key")
	}

	return key, nil
}
