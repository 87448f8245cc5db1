package env

import (
	"net/url"
	"strings"
)

// RedactSecret masks a secret, showing only the first 2 and
// last 2 characters of values longer than 8 characters.
func RedactSecret(secret string) string {
	if len(secret) <= 8 {
		return strings.Repeat("*", len(secret))
	}
	return secret[:2] + strings.Repeat("*", len(secret)-4) + secret[len(secret)-2:]
}

// RedactURL masks the password and sensitive query values in
// a URL string, e.g. webhook keys.
func RedactURL(rawURL string) string {
	u, err := url.Parse(rawURL)
	if err != nil {
		return rawURL
	}
	if u.User != nil {
		if password, ok := u.User.Password(); ok {
			u.User = url.UserPassword(u.User.Username(), RedactSecret(password))
		}
	}
	if u.RawQuery != "" {
		q := u.Query()
		for k, vs := range q {
			if !sensitiveQueryKeys[strings.ToLower(k)] {
				continue
			}
			for i := range vs {
				vs[i] = RedactSecret(vs[i])
			}
			q[k] = vs
		}
		u.RawQuery = q.Encode()
	}
	return u.String()
}

var sensitiveQueryKeys = map[string]bool{
	"key":          true,
	"token":        true,
	"access_token": true,
	"password":     true,
	"secret":       true,
}

// RedactHeaders masks sensitive header values.
func RedactHeaders(headers map[string]string) map[string]string {
	sensitive := map[string]bool{
		"authorization":       true,
		"x-api-key":           true,
		"api-key":             true,
		"x-auth-token":        true,
		"cookie":              true,
		"set-cookie":          true,
		"proxy-authorization": true,
	}

	result := make(map[string]string, len(headers))
	for k, v := range headers {
		if sensitive[strings.ToLower(k)] {
			result[k] = RedactSecret(v)
		} else {
			result[k] = v
		}
	}
	return result
}
