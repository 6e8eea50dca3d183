// Package signature verifies that inbound email-forwarding webhooks actually
// originated from the configured provider and are fresh.
//
// The provider signs the concatenation of the declared unix timestamp and the
// raw request body with an elliptic-curve key (SHA-256 digest, ASN.1 DER
// signature, base64-encoded in the signature header). Verification therefore
// runs against the untouched request bytes — never a parsed and re-serialized
// form, which would let a forged body pass against a signature computed over
// different bytes.
//
// # Freshness
//
// The declared timestamp bounds the replay window: requests older than the
// configured maximum age are rejected, as are requests whose timestamp sits
// further in the future than the small clock-skew allowance.
//
// # Failure behavior
//
// Every failure is a tagged VerificationError distinguishing missing
// credentials, a malformed timestamp, a stale request, and an invalid
// signature. Callers map all of them to HTTP 401/403 and stop processing.
//
// When no public key is configured the verifier fails closed in production.
// In development it accepts unconditionally and logs a warning, as an explicit
// escape hatch for local testing against unsigned requests.
package signature
