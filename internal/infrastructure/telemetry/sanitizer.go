package telemetry

import (
	"crypto/sha256"
	"encoding/hex"
	"strings"
)

const redacted = "[REDACTED]"

// Sanitizer keeps provider credentials out of logs and spans.
type Sanitizer struct {
	salt string
}

// NewSanitizer creates a sanitizer whose fingerprints are salted with the service name.
func NewSanitizer(salt string) *Sanitizer {
	return &Sanitizer{salt: salt}
}

// Fingerprint returns a short salted hash that identifies a credential without revealing it.
func (s *Sanitizer) Fingerprint(credential string) string {
	if credential == "" {
		return ""
	}
	h := sha256.New()
	h.Write([]byte(credential + s.salt))
	return hex.EncodeToString(h.Sum(nil))[:8]
}

// Redact replaces every occurrence of the given secrets in text.
func (s *Sanitizer) Redact(text string, secrets ...string) string {
	for _, secret := range secrets {
		if secret == "" {
			continue
		}
		text = strings.ReplaceAll(text, secret, redacted)
	}
	return text
}

// RedactError returns err with the given secrets removed from its message.
// The original error stays reachable through errors.Is and errors.As.
func (s *Sanitizer) RedactError(err error, secrets ...string) error {
	if err == nil {
		return nil
	}
	msg := err.Error()
	clean := s.Redact(msg, secrets...)
	if clean == msg {
		return err
	}
	return &redactedError{msg: clean, err: err}
}

type redactedError struct {
	msg string
	err error
}

func (e *redactedError) Error() string { return e.msg }

func (e *redactedError) Unwrap() error { return e.err }
