package adp

import (
	"encoding/json"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"adpfetch/pkg/errors"
	"adpfetch/pkg/logger"
)

// defaultUserAgent is sent when no user agent is configured. The portal's
// login form rejects obviously non-browser agents.
const defaultUserAgent = "Mozilla/5.0 (X11; Linux x86_64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/121.0.0.0 Safari/537.36"

// Client drives the portal's login and statement endpoints. It holds no
// session state of its own; every step takes the Session it operates on
// and leaves its contribution there.
type Client struct {
	headers map[string]string
	logger  logger.Logger
}

// NewClient creates a new portal client
func NewClient(userAgent string, log logger.Logger) *Client {
	if log == nil {
		log = logger.GetLogger()
	}
	if userAgent == "" {
		userAgent = defaultUserAgent
	}

	return &Client{
		headers: map[string]string{
			"User-Agent":      userAgent,
			"Accept":          "text/html,application/xhtml+xml,application/xml;q=0.9,*/*;q=0.8",
			"Accept-Language": "en-US,en;q=0.9",
		},
		logger: log,
	}
}

// SetHeader sets a custom header for the client
func (c *Client) SetHeader(key, value string) {
	c.headers[key] = value
}

// doRequest performs an HTTP request with the configured headers using the
// session's cookie-carrying HTTP client
func (c *Client) doRequest(s *Session, req *http.Request) (*http.Response, error) {
	for key, value := range c.headers {
		req.Header.Set(key, value)
	}

	start := time.Now()
	c.logger.DebugWithFields("sending HTTP request", map[string]interface{}{
		"method": req.Method,
		"url":    req.URL.String(),
	})

	resp, err := s.httpClient.Do(req)
	duration := time.Since(start)

	if err != nil {
		c.logger.ErrorWithFields("HTTP request failed", map[string]interface{}{
			"method":   req.Method,
			"url":      req.URL.String(),
			"error":    err.Error(),
			"duration": duration,
		})
		return nil, errors.Newf(errors.ErrorTypeNetwork, "network error: %v", err)
	}

	c.logger.DebugWithFields("HTTP request completed", map[string]interface{}{
		"method":   req.Method,
		"url":      req.URL.String(),
		"status":   resp.StatusCode,
		"duration": duration,
	})

	return resp, nil
}

// get performs a GET request against the given URL
func (c *Client) get(s *Session, rawURL string) (*http.Response, error) {
	req, err := http.NewRequest("GET", rawURL, nil)
	if err != nil {
		return nil, errors.Newf(errors.ErrorTypeUnknown, "failed to create request: %v", err)
	}

	return c.doRequest(s, req)
}

// getJSON performs a GET request and decodes the JSON response
func (c *Client) getJSON(s *Session, rawURL string, target interface{}) error {
	resp, err := c.get(s, rawURL)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if err := c.checkResponseStatus(resp); err != nil {
		return err
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return &errors.Error{
			Type:    errors.ErrorTypeNetwork,
			Message: "failed to read response body: " + err.Error(),
			Code:    resp.StatusCode,
		}
	}

	if err := json.Unmarshal(body, target); err != nil {
		bodyPreview := string(body)
		if len(bodyPreview) > 200 {
			bodyPreview = bodyPreview[:200] + "..."
		}

		c.logger.ErrorWithFields("failed to parse JSON response", map[string]interface{}{
			"url":          rawURL,
			"status":       resp.StatusCode,
			"error":        err.Error(),
			"body_preview": bodyPreview,
		})
		return &errors.Error{
			Type:    errors.ErrorTypeParsing,
			Message: "failed to parse JSON: " + err.Error(),
			Code:    resp.StatusCode,
		}
	}

	return nil
}

// checkResponseStatus checks the HTTP response status and returns appropriate errors
func (c *Client) checkResponseStatus(resp *http.Response) error {
	switch {
	case resp.StatusCode == http.StatusOK:
		return nil
	case resp.StatusCode == http.StatusUnauthorized || resp.StatusCode == http.StatusForbidden:
		c.logger.WarnWithFields("authentication error", map[string]interface{}{
			"status": resp.StatusCode,
			"url":    resp.Request.URL.String(),
		})
		return &errors.Error{
			Type:    errors.ErrorTypeAuth,
			Message: "portal rejected the session",
			Code:    resp.StatusCode,
		}
	default:
		c.logger.ErrorWithFields("unexpected portal response", map[string]interface{}{
			"status": resp.StatusCode,
			"url":    resp.Request.URL.String(),
		})
		return &errors.Error{
			Type:    errors.ErrorTypeHTTP,
			Message: "unexpected status code",
			Code:    resp.StatusCode,
		}
	}
}

// Login submits the credentials and intended destination to the login
// form. Success is not checked here: the portal answers with a redirect
// either way, and a bad password only becomes visible when the identity
// call returns something other than the expected JSON.
func (c *Client) Login(s *Session, username, password string) error {
	form := url.Values{}
	form.Set("user", username)
	form.Set("password", password)
	form.Set("target", LandingURL)

	req, err := http.NewRequest("POST", LoginURL, strings.NewReader(form.Encode()))
	if err != nil {
		return errors.Newf(errors.ErrorTypeUnknown, "failed to create login request: %v", err)
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")

	resp, err := c.doRequest(s, req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()
	_, _ = io.Copy(io.Discard, resp.Body)

	c.logger.DebugWithFields("login form submitted", map[string]interface{}{
		"username": username,
		"status":   resp.StatusCode,
	})

	return nil
}

// WarmUp visits the landing page for its cookie side effects. The body is
// discarded.
func (c *Client) WarmUp(s *Session) error {
	resp, err := c.get(s, LandingURL)
	if err != nil {
		return err
	}
	defer resp.Body.Close()
	_, _ = io.Copy(io.Discard, resp.Body)

	return nil
}

// Identify resolves the associate identifier and injects the idtoken and
// locale cookies the listing endpoint requires. The session records both
// values.
func (c *Client) Identify(s *Session, locale string) error {
	if locale == "" {
		locale = DefaultLocale
	}

	var identity IdentityResponse
	if err := c.getJSON(s, IdentityURL, &identity); err != nil {
		return err
	}

	if identity.AssociateOID == "" {
		return errors.New(errors.ErrorTypeParsing, "identity response is missing the associateoid field")
	}

	if err := s.InjectCookies(PortalBaseURL, map[string]string{
		"idtoken":            identity.AssociateOID,
		"ADPLangLocalCookie": locale,
	}); err != nil {
		return errors.Newf(errors.ErrorTypeUnknown, "failed to inject identity cookies: %v", err)
	}

	s.AssociateID = identity.AssociateOID
	s.Locale = locale

	c.logger.DebugWithFields("resolved associate identity", map[string]interface{}{
		"associate_id": identity.AssociateOID,
		"locale":       locale,
	})

	return nil
}

// ListStatements fetches the listing of the limit most recent pay dates
// and returns a pay-date to document-URL mapping
func (c *Client) ListStatements(s *Session, limit int, adjustments string) (map[string]string, error) {
	if adjustments == "" {
		adjustments = DefaultAdjustments
	}

	var listing StatementListResponse
	if err := c.getJSON(s, StatementListQueryURL(limit, adjustments), &listing); err != nil {
		return nil, err
	}

	urls := make(map[string]string, len(listing.PayStatements))
	for _, statement := range listing.PayStatements {
		urls[statement.PayDate] = statement.StatementImageURI.Href
	}

	c.logger.DebugWithFields("fetched statement listing", map[string]interface{}{
		"limit":      limit,
		"statements": len(urls),
	})

	return urls, nil
}

// Download fetches a statement document, rewriting portal-relative URLs
// first. The raw response is returned for streaming; the caller owns the
// status check and the body.
func (c *Client) Download(s *Session, rawURL string) (*http.Response, error) {
	return c.get(s, TransformDownloadURL(rawURL))
}
