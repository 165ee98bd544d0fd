// Package candidate builds the set of addresses to probe for one domain.
//
// Two sources exist. Prefix mode pairs the domain with a catalogue of role
// local-parts (info, sales, support ...). Variant mode derives local-parts
// from a person's name tokens: every ordering of the full token list, joined
// with and without a dot, plus each token and each token's initial.
// Orderings of a strict subset of the tokens are not generated, so
// "John Paul Smith" yields john.paul.smith and smith.john.paul but not
// john.smith; a caller wanting those passes the shorter name as its own
// entry.
//
// Variant mode grows factorially with the number of tokens, so a Generator
// refuses names with more than MaxTokens tokens.
package candidate
