package adp

import (
	"net/url"
	"strconv"
	"strings"
)

const (
	// PortalBaseURL is the host that serves the authenticated portal
	PortalBaseURL = "https://my.adp.com"

	// LoginURL is the SiteMinder form login endpoint. Posting credentials
	// here sets the FORMCRED cookie.
	LoginURL = "https://agateway.adp.com/siteminderagent/forms/login.fcc"

	// LandingURL is the portal landing page. Fetching it seeds the
	// SMSESSION and keep-alive cookies.
	LandingURL = "https://my.adp.com/static/redbox/"

	// IdentityURL returns the associate identifier for the logged-in user
	IdentityURL = "https://my.adp.com/redboxapi/identity/v1/self"

	// StatementListURL lists the available pay statements
	StatementListURL = "https://my.adp.com/v1_0/O/A/payStatements"

	// DefaultLocale is the fallback locale cookie value
	DefaultLocale = "en_US"

	// DefaultAdjustments is the listing endpoint's adjustments flag.
	// Its upstream semantics are undocumented; the portal default is kept.
	DefaultAdjustments = "yes"

	// relativePrefix marks statement URLs served relative to the portal host
	relativePrefix = "/l2"
)

// StatementListQueryURL constructs the listing URL for the given lookback
// count and adjustments flag
func StatementListQueryURL(limit int, adjustments string) string {
	params := url.Values{}
	params.Set("adjustments", adjustments)
	params.Set("numberoflastpaydates", strconv.Itoa(limit))

	return StatementListURL + "?" + params.Encode()
}

// TransformDownloadURL rewrites portal-relative statement URLs to absolute
// ones. URLs that don't carry the relative prefix pass through unchanged,
// so the function is idempotent.
func TransformDownloadURL(rawURL string) string {
	if !strings.HasPrefix(rawURL, relativePrefix) {
		return rawURL
	}
	return PortalBaseURL + rawURL
}
