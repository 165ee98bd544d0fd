// Package normalize turns human names into email-safe ASCII tokens.
//
// A token is produced by lowercasing the input, transliterating letters
// that have no canonical decomposition (ı, ł, ø, ß ...), decomposing the
// rest with NFKD and dropping the combining marks, and finally keeping
// only ASCII letters and digits.
//
// Name never fails: input that cannot be transliterated degrades to a
// shorter or empty token. Callers decide what an empty token means.
package normalize
