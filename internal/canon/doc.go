// Package canon provides the canonical byte encoding used to identify
// instances, matchings and traces.
//
// Encoding follows RFC 8785 for the subset of JSON the oracle produces:
// object keys sorted by UTF-16 code units, strings NFC normalized with no
// HTML escaping, integers only (floats and null are rejected).
//
// Fingerprints are SHA-256 over a domain prefix, a 0x00 separator and the
// canonical bytes, so an instance fingerprint can never collide with a trace
// fingerprint over identical data.
package canon
