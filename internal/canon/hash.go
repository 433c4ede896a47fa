package canon

import (
	"crypto/sha256"
	"encoding/hex"
	"fmt"

	"github.com/roach88/smoracle/internal/market"
)

// Domain prefixes for fingerprints. The version suffix allows the encoding
// to change without old and new fingerprints comparing equal.
const (
	DomainInstance = "smoracle/instance/v1"
	DomainMatching = "smoracle/matching/v1"
	DomainTrace    = "smoracle/trace/v1"
)

// hashWithDomain computes SHA256(domain + 0x00 + data).
func hashWithDomain(domain string, data []byte) string {
	h := sha256.New()
	h.Write([]byte(domain))
	h.Write([]byte{0x00})
	h.Write(data)
	return hex.EncodeToString(h.Sum(nil))
}

// Fingerprint returns the domain-separated hash of v's canonical encoding.
func Fingerprint(domain string, v any) (string, error) {
	data, err := Marshal(v)
	if err != nil {
		return "", fmt.Errorf("fingerprint %s: %w", domain, err)
	}
	return hashWithDomain(domain, data), nil
}

// InstanceFingerprint identifies an instance by content.
// Instances only hold integers, so encoding cannot fail.
func InstanceFingerprint(inst market.Instance) string {
	fp, err := Fingerprint(DomainInstance, InstanceValue(inst))
	if err != nil {
		panic(err)
	}
	return fp
}

// MatchingFingerprint identifies a matching by content and order.
func MatchingFingerprint(m market.Matching) string {
	fp, err := Fingerprint(DomainMatching, MatchingValue(m))
	if err != nil {
		panic(err)
	}
	return fp
}

// TraceFingerprint identifies a trace by content and order.
func TraceFingerprint(tr market.Trace) string {
	fp, err := Fingerprint(DomainTrace, TraceValue(tr))
	if err != nil {
		panic(err)
	}
	return fp
}

// Short returns the first 12 hex digits of a fingerprint for log lines.
func Short(fp string) string {
	if len(fp) > 12 {
		return fp[:12]
	}
	return fp
}
