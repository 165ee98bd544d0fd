// Package scout is the entry point of mailscout as a library.
//
// A Scout is built once from a config.Config and then answers the public
// operations: probing one address, detecting catch-all domains, generating
// candidates, and finding the deliverable addresses of one domain or of a
// list of jobs. Network failures never surface as errors; an unreachable
// domain yields the same empty result as a domain with no valid addresses.
package scout
