// Package dane computes and checks TLSA certificate associations (RFC 6698).
package dane

import (
	"bytes"
	"crypto/x509"
	"encoding/hex"
	"errors"
	"fmt"
	"strings"

	"github.com/miekg/dns"
)

// Selectors
const (
	SelectorFullCertificate = 0
	SelectorSPKI            = 1
)

// Matching types
const (
	MatchingTypeExact  = 0
	MatchingTypeSHA256 = 1
	MatchingTypeSHA512 = 2
)

// usageDomainIssued is DANE-EE: the record pins the end entity certificate itself
const usageDomainIssued = 3

var errUnsupported = errors.New("unsupported selector or matching type")

// ComputeHash returns the association data of cert for the given selector and matching type.
// cert is the DER encoding of the certificate.
func ComputeHash(cert []byte, selector, matchingType uint8) ([]byte, error) {
	if selector > SelectorSPKI || matchingType > MatchingTypeSHA512 {
		return nil, fmt.Errorf("%w: %d %d", errUnsupported, selector, matchingType)
	}

	parsed, err := x509.ParseCertificate(cert)
	if err != nil {
		return nil, fmt.Errorf("can't parse certificate: %w", err)
	}

	data, err := dns.CertificateToDANE(selector, matchingType, parsed)
	if err != nil {
		return nil, err
	}

	return hex.DecodeString(data)
}

// Verify returns true if hash is the association data of cert for selector and matchingType
func Verify(cert []byte, selector, matchingType uint8, hash []byte) bool {
	computed, err := ComputeHash(cert, selector, matchingType)
	if err != nil {
		return false
	}

	return bytes.Equal(computed, hash)
}

// VerifyRecord checks cert against the parameters and data of a TLSA record
func VerifyRecord(cert []byte, record *dns.TLSA) bool {
	if record == nil {
		return false
	}

	hash, err := hex.DecodeString(record.Certificate)
	if err != nil {
		return false
	}

	return Verify(cert, record.Selector, record.MatchingType, hash)
}

// SuggestedRecord returns the TLSA record data pinning the public key of cert
func SuggestedRecord(cert []byte) (string, error) {
	hash, err := ComputeHash(cert, SelectorSPKI, MatchingTypeSHA256)
	if err != nil {
		return "", err
	}

	return fmt.Sprintf("%d %d %d %s", usageDomainIssued, SelectorSPKI, MatchingTypeSHA256,
		strings.ToUpper(hex.EncodeToString(hash))), nil
}
