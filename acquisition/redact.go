package acquisition

import (
	"net/url"
	"strings"
)

// redact removes the api key from an error message, in raw and in query escaped form
func redact(err error, apiKey string) string {
	msg := err.Error()
	if apiKey == "" {
		return msg
	}
	msg = strings.ReplaceAll(msg, url.QueryEscape(apiKey), "REDACTED")
	return strings.ReplaceAll(msg, apiKey, "REDACTED")
}
