package adp

import (
	"io"
	"net/http"
	"strings"
	"testing"

	"adpfetch/pkg/errors"
	"adpfetch/pkg/logger"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// mockRoundTripper allows us to intercept HTTP requests
type mockRoundTripper struct {
	handler func(req *http.Request) (*http.Response, error)
}

func (m *mockRoundTripper) RoundTrip(req *http.Request) (*http.Response, error) {
	return m.handler(req)
}

// Helper function to create a response
func newResponse(statusCode int, body string) *http.Response {
	return &http.Response{
		StatusCode: statusCode,
		Body:       io.NopCloser(strings.NewReader(body)),
		Header:     make(http.Header),
	}
}

// newTestSession creates a session whose transport answers from a map of
// URL string to canned response body or status code
func newTestSession(t *testing.T, responses map[string]interface{}) *Session {
	t.Helper()

	sess, err := NewSession(0)
	require.NoError(t, err)

	sess.SetTransport(&mockRoundTripper{handler: func(req *http.Request) (*http.Response, error) {
		// The real transport always sets Response.Request; mirror that here.
		if response, exists := responses[req.URL.String()]; exists {
			switch v := response.(type) {
			case error:
				return nil, v
			case int:
				resp := newResponse(v, "")
				resp.Request = req
				return resp, nil
			case string:
				resp := newResponse(http.StatusOK, v)
				resp.Request = req
				return resp, nil
			}
		}
		resp := newResponse(http.StatusNotFound, "")
		resp.Request = req
		return resp, nil
	}})

	return sess
}

func TestNewClient(t *testing.T) {
	log := logger.NewTestLogger()
	client := NewClient("", log)

	assert.NotNil(t, client)
	assert.Contains(t, client.headers["User-Agent"], "Mozilla")
	assert.Equal(t, log, client.logger)
}

func TestNewClientCustomUserAgent(t *testing.T) {
	client := NewClient("test-agent/1.0", logger.NewTestLogger())
	assert.Equal(t, "test-agent/1.0", client.headers["User-Agent"])
}

func TestSetHeader(t *testing.T) {
	client := NewClient("", logger.NewTestLogger())
	client.SetHeader("X-Custom-Header", "test-value")
	assert.Equal(t, "test-value", client.headers["X-Custom-Header"])
}

func TestLogin(t *testing.T) {
	log := logger.NewTestLogger()
	client := NewClient("", log)

	var captured *http.Request
	var capturedBody string

	sess, err := NewSession(0)
	require.NoError(t, err)
	sess.SetTransport(&mockRoundTripper{handler: func(req *http.Request) (*http.Response, error) {
		captured = req
		body, _ := io.ReadAll(req.Body)
		capturedBody = string(body)

		resp := newResponse(http.StatusFound, "")
		resp.Header.Add("Set-Cookie", "FORMCRED=abc123; Path=/")
		return resp, nil
	}})

	err = client.Login(sess, "jdoe", "hunter2")
	require.NoError(t, err)

	assert.Equal(t, "POST", captured.Method)
	assert.Equal(t, LoginURL, captured.URL.String())
	assert.Equal(t, "application/x-www-form-urlencoded", captured.Header.Get("Content-Type"))
	assert.Contains(t, capturedBody, "user=jdoe")
	assert.Contains(t, capturedBody, "password=hunter2")
	assert.Contains(t, capturedBody, "target=")

	// The auth cookie lands in the session's jar
	var names []string
	for _, c := range sess.Cookies(LoginURL) {
		names = append(names, c.Name)
	}
	assert.Contains(t, names, "FORMCRED")
}

func TestLoginNetworkError(t *testing.T) {
	client := NewClient("", logger.NewTestLogger())
	sess := newTestSession(t, map[string]interface{}{
		LoginURL: io.ErrUnexpectedEOF,
	})

	err := client.Login(sess, "jdoe", "hunter2")
	require.Error(t, err)

	var portalErr *errors.Error
	require.ErrorAs(t, err, &portalErr)
	assert.Equal(t, errors.ErrorTypeNetwork, portalErr.Type)
}

func TestWarmUp(t *testing.T) {
	client := NewClient("", logger.NewTestLogger())
	sess := newTestSession(t, map[string]interface{}{
		LandingURL: "<html>landing</html>",
	})

	require.NoError(t, client.WarmUp(sess))
}

func TestIdentify(t *testing.T) {
	client := NewClient("", logger.NewTestLogger())
	sess := newTestSession(t, map[string]interface{}{
		IdentityURL: `{"associateoid": "G4F8N9XY"}`,
	})

	err := client.Identify(sess, "en_US")
	require.NoError(t, err)

	assert.Equal(t, "G4F8N9XY", sess.AssociateID)
	assert.Equal(t, "en_US", sess.Locale)

	cookies := make(map[string]string)
	for _, c := range sess.Cookies(PortalBaseURL) {
		cookies[c.Name] = c.Value
	}
	assert.Equal(t, "G4F8N9XY", cookies["idtoken"])
	assert.Equal(t, "en_US", cookies["ADPLangLocalCookie"])
}

func TestIdentifyDefaultLocale(t *testing.T) {
	client := NewClient("", logger.NewTestLogger())
	sess := newTestSession(t, map[string]interface{}{
		IdentityURL: `{"associateoid": "G4F8N9XY"}`,
	})

	require.NoError(t, client.Identify(sess, ""))
	assert.Equal(t, DefaultLocale, sess.Locale)
}

func TestIdentifyMalformedJSON(t *testing.T) {
	client := NewClient("", logger.NewTestLogger())
	sess := newTestSession(t, map[string]interface{}{
		// An expired session answers with the login page, not JSON
		IdentityURL: "<html>please log in</html>",
	})

	err := client.Identify(sess, "en_US")
	require.Error(t, err)

	var portalErr *errors.Error
	require.ErrorAs(t, err, &portalErr)
	assert.Equal(t, errors.ErrorTypeParsing, portalErr.Type)
	assert.Empty(t, sess.AssociateID)
}

func TestIdentifyMissingField(t *testing.T) {
	client := NewClient("", logger.NewTestLogger())
	sess := newTestSession(t, map[string]interface{}{
		IdentityURL: `{"something_else": "value"}`,
	})

	err := client.Identify(sess, "en_US")
	require.Error(t, err)

	var portalErr *errors.Error
	require.ErrorAs(t, err, &portalErr)
	assert.Equal(t, errors.ErrorTypeParsing, portalErr.Type)
}

func TestIdentifyUnauthorized(t *testing.T) {
	client := NewClient("", logger.NewTestLogger())
	sess := newTestSession(t, map[string]interface{}{
		IdentityURL: http.StatusUnauthorized,
	})

	err := client.Identify(sess, "en_US")
	require.Error(t, err)

	var portalErr *errors.Error
	require.ErrorAs(t, err, &portalErr)
	assert.Equal(t, errors.ErrorTypeAuth, portalErr.Type)
}

func TestListStatements(t *testing.T) {
	client := NewClient("", logger.NewTestLogger())
	sess := newTestSession(t, map[string]interface{}{
		StatementListQueryURL(2, "yes"): `{
			"payStatements": [
				{"payDate": "2023-01-15", "statementImageUri": {"href": "/l2/doc1"}},
				{"payDate": "2023-02-15", "statementImageUri": {"href": "https://my.adp.com/doc2"}}
			]
		}`,
	})

	urls, err := client.ListStatements(sess, 2, "yes")
	require.NoError(t, err)

	assert.Len(t, urls, 2)
	assert.Equal(t, "/l2/doc1", urls["2023-01-15"])
	assert.Equal(t, "https://my.adp.com/doc2", urls["2023-02-15"])
}

func TestListStatementsEmpty(t *testing.T) {
	client := NewClient("", logger.NewTestLogger())
	sess := newTestSession(t, map[string]interface{}{
		StatementListQueryURL(30, "yes"): `{"payStatements": []}`,
	})

	urls, err := client.ListStatements(sess, 30, "yes")
	require.NoError(t, err)
	assert.Empty(t, urls)
}

func TestListStatementsDefaultAdjustments(t *testing.T) {
	client := NewClient("", logger.NewTestLogger())
	sess := newTestSession(t, map[string]interface{}{
		StatementListQueryURL(30, DefaultAdjustments): `{"payStatements": []}`,
	})

	// An empty adjustments value falls back to the portal default
	_, err := client.ListStatements(sess, 30, "")
	require.NoError(t, err)
}

func TestListStatementsMalformedJSON(t *testing.T) {
	client := NewClient("", logger.NewTestLogger())
	sess := newTestSession(t, map[string]interface{}{
		StatementListQueryURL(30, "yes"): "not json at all",
	})

	_, err := client.ListStatements(sess, 30, "yes")
	require.Error(t, err)

	var portalErr *errors.Error
	require.ErrorAs(t, err, &portalErr)
	assert.Equal(t, errors.ErrorTypeParsing, portalErr.Type)
}

func TestDownloadTransformsRelativeURL(t *testing.T) {
	client := NewClient("", logger.NewTestLogger())
	sess := newTestSession(t, map[string]interface{}{
		"https://my.adp.com/l2/doc1": "%PDF-1.4 fake statement",
	})

	resp, err := client.Download(sess, "/l2/doc1")
	require.NoError(t, err)
	defer resp.Body.Close()

	assert.Equal(t, http.StatusOK, resp.StatusCode)
	body, _ := io.ReadAll(resp.Body)
	assert.Equal(t, "%PDF-1.4 fake statement", string(body))
}

func TestDownloadAbsoluteURL(t *testing.T) {
	client := NewClient("", logger.NewTestLogger())
	sess := newTestSession(t, map[string]interface{}{
		"https://my.adp.com/doc2": "%PDF-1.4 another one",
	})

	resp, err := client.Download(sess, "https://my.adp.com/doc2")
	require.NoError(t, err)
	defer resp.Body.Close()

	assert.Equal(t, http.StatusOK, resp.StatusCode)
}

func TestDownloadReturnsNonOKResponse(t *testing.T) {
	client := NewClient("", logger.NewTestLogger())
	sess := newTestSession(t, map[string]interface{}{
		"https://my.adp.com/l2/gone": http.StatusInternalServerError,
	})

	// The caller owns the status decision, so a 500 is not an error here
	resp, err := client.Download(sess, "/l2/gone")
	require.NoError(t, err)
	defer resp.Body.Close()

	assert.Equal(t, http.StatusInternalServerError, resp.StatusCode)
}
