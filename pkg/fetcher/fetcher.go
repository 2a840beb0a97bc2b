package fetcher

import (
	"fmt"
	"io"
	"net/http"
	"sort"

	"adpfetch/pkg/adp"
	"adpfetch/pkg/auth"
	"adpfetch/pkg/config"
	"adpfetch/pkg/logger"
	"adpfetch/pkg/storage"
	"adpfetch/pkg/ui"
)

// Paystub is one statement the portal offers: its pay date and the URL
// its document can be fetched from
type Paystub struct {
	Date string
	URL  string
}

// Fetcher orchestrates the portal login sequence and the selective
// download of missing statements
type Fetcher struct {
	client  *adp.Client
	session *adp.Session
	store   *storage.Manager
	account *auth.Account
	config  *config.Config
	logger  logger.Logger
}

// New creates a new Fetcher instance
func New(cfg *config.Config, account *auth.Account) (*Fetcher, error) {
	return NewWithLogger(cfg, account, logger.GetLogger())
}

// NewWithLogger creates a Fetcher with an explicit logger
func NewWithLogger(cfg *config.Config, account *auth.Account, log logger.Logger) (*Fetcher, error) {
	session, err := adp.NewSession(cfg.ADP.Timeout)
	if err != nil {
		return nil, fmt.Errorf("failed to create session: %w", err)
	}

	store, err := storage.NewManager(cfg.Output.Directory)
	if err != nil {
		return nil, fmt.Errorf("failed to create storage manager: %w", err)
	}

	return &Fetcher{
		client:  adp.NewClient(cfg.ADP.UserAgent, log),
		session: session,
		store:   store,
		account: account,
		config:  cfg,
		logger:  log,
	}, nil
}

// Session exposes the portal session, mainly so tests can swap transports
func (f *Fetcher) Session() *adp.Session {
	return f.session
}

// Needed filters the pay-date to URL mapping down to the statements not
// already on disk, sorted ascending by pay date. The YYYY-MM-DD format
// makes the lexicographic order chronological.
func (f *Fetcher) Needed(urls map[string]string) []Paystub {
	var needed []Paystub
	for date, url := range urls {
		if f.store.Has(date) {
			continue
		}
		needed = append(needed, Paystub{Date: date, URL: url})
	}

	sort.Slice(needed, func(i, j int) bool {
		return needed[i].Date < needed[j].Date
	})

	return needed
}

// DownloadNeeded runs the full sequence: login, landing-page cookies,
// identity resolution, statement listing, then one download per missing
// statement, strictly in order.
func (f *Fetcher) DownloadNeeded() error {
	log := f.logger.WithField("username", f.account.Username)

	log.Info("logging in to portal")
	if err := f.client.Login(f.session, f.account.Username, f.account.Password); err != nil {
		return fmt.Errorf("login failed: %w", err)
	}

	if err := f.client.WarmUp(f.session); err != nil {
		return fmt.Errorf("landing page fetch failed: %w", err)
	}

	if err := f.client.Identify(f.session, f.config.ADP.Locale); err != nil {
		return fmt.Errorf("identity resolution failed: %w", err)
	}
	log.WithField("associate_id", f.session.AssociateID).Debug("session established")

	urls, err := f.client.ListStatements(f.session, f.config.Fetch.Limit, f.config.Fetch.Adjustments)
	if err != nil {
		return fmt.Errorf("statement listing failed: %w", err)
	}

	needed := f.Needed(urls)
	f.logger.InfoWithFields("computed needed statements", map[string]interface{}{
		"available": len(urls),
		"needed":    len(needed),
	})

	if len(needed) == 0 {
		ui.PrintSuccess("Nothing to download, everything is already here")
		return nil
	}

	for _, paystub := range needed {
		if err := f.downloadPaystub(paystub); err != nil {
			return err
		}
	}

	return nil
}

// downloadPaystub fetches one statement and writes it to disk. A non-200
// response is logged and skipped so the remaining statements still get
// their chance; network failures abort the run.
func (f *Fetcher) downloadPaystub(paystub Paystub) error {
	resp, err := f.client.Download(f.session, paystub.URL)
	if err != nil {
		return fmt.Errorf("download of %s failed: %w", paystub.Date, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		f.logger.WarnWithFields("skipping statement after bad response", map[string]interface{}{
			"status": resp.StatusCode,
			"date":   paystub.Date,
			"url":    paystub.URL,
		})
		ui.PrintWarning(fmt.Sprintf("Got back %d when trying to fetch %s at %s",
			resp.StatusCode, paystub.Date, paystub.URL))
		_, _ = io.Copy(io.Discard, resp.Body)
		return nil
	}

	if err := f.store.Save(paystub.Date, resp.Body); err != nil {
		return fmt.Errorf("failed to save %s: %w", paystub.Date, err)
	}

	name := storage.ExpectedFileName(paystub.Date)
	f.logger.InfoWithFields("downloaded statement", map[string]interface{}{
		"date": paystub.Date,
		"file": name,
	})
	ui.PrintSuccess("Downloaded " + name)

	return nil
}
