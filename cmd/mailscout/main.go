// Package main provides the entry point for the mailscout CLI.
//
// mailscout finds deliverable email addresses for a domain. It builds
// candidate addresses from people's names or common role prefixes and asks
// the domain's mail exchanger about each one over SMTP, without sending
// any mail.
//
// Usage:
//
//	mailscout find example.com John Smith
//	mailscout bulk jobs.yaml
//
// See --help for all available options.
package main

// main is the entry point for mailscout.
func main() {
	Execute()
}
