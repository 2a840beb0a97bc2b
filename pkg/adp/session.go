package adp

import (
	"fmt"
	"net/http"
	"net/http/cookiejar"
	"net/url"
	"time"
)

// Session carries the state the portal accumulates across the login
// sequence. Cookies collect in the jar as each step runs; the identity
// step additionally records the associate ID and locale here, so the data
// a later step depends on is visible rather than hidden in client state.
type Session struct {
	httpClient *http.Client

	// AssociateID is the unique account identifier, set by Identify
	AssociateID string

	// Locale is the locale cookie value in effect, set by Identify
	Locale string
}

// NewSession creates a session with an empty cookie jar. A timeout of zero
// means portal calls block until the remote answers.
func NewSession(timeout time.Duration) (*Session, error) {
	jar, err := cookiejar.New(nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create cookie jar: %w", err)
	}

	return &Session{
		httpClient: &http.Client{
			Jar:     jar,
			Timeout: timeout,
		},
	}, nil
}

// InjectCookies sets additional cookies on the jar, scoped to the given URL
func (s *Session) InjectCookies(rawURL string, cookies map[string]string) error {
	u, err := url.Parse(rawURL)
	if err != nil {
		return fmt.Errorf("failed to parse cookie scope URL: %w", err)
	}

	set := make([]*http.Cookie, 0, len(cookies))
	for name, value := range cookies {
		set = append(set, &http.Cookie{Name: name, Value: value, Path: "/"})
	}
	s.httpClient.Jar.SetCookies(u, set)

	return nil
}

// SetTransport replaces the session's HTTP transport. Tests use this to
// point the fixed portal endpoints at a fake round tripper.
func (s *Session) SetTransport(rt http.RoundTripper) {
	s.httpClient.Transport = rt
}

// Cookies returns the cookies the jar would send to the given URL
func (s *Session) Cookies(rawURL string) []*http.Cookie {
	u, err := url.Parse(rawURL)
	if err != nil {
		return nil
	}
	return s.httpClient.Jar.Cookies(u)
}
