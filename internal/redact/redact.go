// Package redact scrubs secret-like values out of structured log fields
// before they reach the logger backend. Grounded on the observation that the
// teacher's own encrypter/hasher packages exist so raw API keys never sit in
// a datastore unmasked — the same discipline applies here to log output,
// which is the only place a secret could otherwise leak.
package redact

import (
	"strings"

	"go.uber.org/zap"
)

const masked = "***REDACTED***"

// secretKeys is the table of field/header names considered secret-like.
// Matching is case-insensitive and tolerant of common separators so
// "Authorization", "authorization", "X-Api-Key", and "x_api_key" all hit.
var secretKeys = map[string]struct{}{
	"authorization":       {},
	"x-api-key":           {},
	"api-key":             {},
	"apikey":              {},
	"api_key":             {},
	"allowed_api_keys":    {},
	"allowed-api-keys":    {},
	"bearer":              {},
	"token":               {},
	"cerebras_api_key":    {},
	"cerebras-api-key":    {},
	"cookie":              {},
	"set-cookie":          {},
}

func normalize(key string) string {
	return strings.ToLower(strings.ReplaceAll(key, "_", "-"))
}

// IsSecretKey reports whether a field/header name is known to carry
// secret-like values.
func IsSecretKey(key string) bool {
	_, found := secretKeys[normalize(key)]
	return found
}

// String returns value unchanged unless key names a secret-like field, in
// which case it returns the masked placeholder.
func String(key, value string) string {
	if IsSecretKey(key) {
		return masked
	}
	return value
}

// Headers returns a copy of headers with every secret-like entry masked.
// Never mutates the input map.
func Headers(headers map[string][]string) map[string][]string {
	out := make(map[string][]string, len(headers))
	for k, v := range headers {
		if IsSecretKey(k) {
			out[k] = []string{masked}
			continue
		}
		out[k] = v
	}
	return out
}

// Fields scrubs a slice of zap.Field values, masking the ones whose key is
// secret-like. It never inspects field values for secret-shaped content —
// only the field's declared key — because this logger never receives raw
// request/response bodies as fields in the first place (see §4.8: message
// content, prompts, and embedding vectors are logged only by length).
func Fields(fields ...zap.Field) []zap.Field {
	out := make([]zap.Field, 0, len(fields))
	for _, f := range fields {
		if IsSecretKey(f.Key) {
			out = append(out, zap.String(f.Key, masked))
			continue
		}
		out = append(out, f)
	}
	return out
}
