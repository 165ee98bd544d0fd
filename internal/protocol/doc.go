// Package protocol implements the client side of the SMTP recipient probe.
//
// A probe resolves the domain's primary mail exchanger, opens a connection,
// walks the dialogue up to RCPT TO and reads the reply code. No message is
// ever transferred:
//
//	S: 220 mx.example.com ESMTP
//	C: EHLO example.com
//	S: 250 mx.example.com
//	C: MAIL FROM:<test@example.com>
//	S: 250 OK
//	C: RCPT TO:<jane@example.com>
//	S: 250 OK            <- deliverable
//	C: QUIT
//
// Only a 250 reply to RCPT TO counts as deliverable. Every other result,
// including resolution and transport failures, is not deliverable; the
// Outcome type keeps the reason for logging and statistics.
//
// The package also provides the catch-all detector, a caching MX resolver
// and a per-host rate limiter.
package protocol
