// Package mail delivers plain-text messages over SMTP, or to the log when no
// SMTP host is configured.
package mail
