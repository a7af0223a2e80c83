package session

import (
	"net/url"
	"strconv"
	"strings"
	"time"
)

// CookieName is the name of the admin session cookie.
const CookieName = "quotevault-admin"

const cookieAttributes = "Path=/; HttpOnly; SameSite=Lax"

// SetCookie returns the Set-Cookie header value carrying token.
func SetCookie(token string, secure bool) string {
	return setCookie(token, MaxAge, secure)
}

func setCookie(token string, maxAge time.Duration, secure bool) string {
	var b strings.Builder

	b.WriteString(CookieName)
	b.WriteString("=")
	b.WriteString(url.QueryEscape(token))
	b.WriteString("; ")
	b.WriteString(cookieAttributes)
	b.WriteString("; Max-Age=")
	b.WriteString(strconv.FormatInt(int64(maxAge/time.Second), 10))

	if secure {
		b.WriteString("; Secure")
	}

	return b.String()
}

// ClearCookie returns the Set-Cookie header value that removes the session.
func ClearCookie() string {
	return CookieName + "=; " + cookieAttributes + "; Max-Age=0"
}

// TokenFromCookieHeader extracts the session token from a raw Cookie header.
// It returns "" when the cookie is absent or cannot be decoded.
func TokenFromCookieHeader(header string) string {
	prefix := CookieName + "="

	for part := range strings.SplitSeq(header, ";") {
		part = strings.TrimSpace(part)
		if !strings.HasPrefix(part, prefix) {
			continue
		}

		value := strings.TrimSuffix(strings.TrimPrefix(part[len(prefix):], `"`), `"`)

		decoded, err := url.QueryUnescape(value)
		if err != nil {
			return ""
		}

		return decoded
	}

	return ""
}
