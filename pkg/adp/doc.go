// Package adp provides a client for the ADP employee portal's login and
// pay-statement endpoints.
//
// The portal has no documented API; the client replays the same request
// sequence a browser performs:
//
//	sess, _ := adp.NewSession(0)
//	client := adp.NewClient("", nil)
//
//	client.Login(sess, username, password)
//	client.WarmUp(sess)
//	client.Identify(sess, "en_US")
//	urls, err := client.ListStatements(sess, 30, adp.DefaultAdjustments)
//
// Each step contributes cookies to the Session it is given; Identify also
// records the associate identifier there. Errors carry a type from
// pkg/errors so callers can tell a parse failure from a network one.
package adp
