package model

import (
	"strings"

	"github.com/miekg/dns"
)

// DefaultResourceTTL is the TTL hsd uses when rendering resource records
const DefaultResourceTTL = 21600

// Answer is one DNSSEC enabled lookup result
type Answer struct {
	Name          string
	Qtype         uint16
	Rcode         int
	Authenticated bool
	Answer        []dns.RR
	Authority     []dns.RR
}

// IsAnswer returns true if the answer section carries records for a final rcode
func (a *Answer) IsAnswer() bool {
	if a == nil || len(a.Answer) == 0 {
		return false
	}

	switch a.Rcode {
	case dns.RcodeSuccess, dns.RcodeNameError, dns.RcodeYXDomain:
		return true
	}

	return false
}

// Signed returns true if the answer or authority section contains a signature
func (a *Answer) Signed() bool {
	if a == nil {
		return false
	}

	return hasType(a.Answer, dns.TypeRRSIG) || hasType(a.Authority, dns.TypeRRSIG)
}

func hasType(records []dns.RR, rrType uint16) bool {
	for _, rr := range records {
		if rr.Header().Rrtype == rrType {
			return true
		}
	}

	return false
}

// ResolutionState is the DNS side of the prerequisites
type ResolutionState struct {
	Address *Answer
	TLSA    *Answer
}

// ResolvedAddress returns the first IPv4 address of the address answer
func (s *ResolutionState) ResolvedAddress() string {
	if s == nil || s.Address == nil {
		return ""
	}

	for _, rr := range s.Address.Answer {
		if a, ok := rr.(*dns.A); ok {
			return a.A.String()
		}
	}

	return ""
}

// TLSARecord returns the first TLSA record of the TLSA answer
func (s *ResolutionState) TLSARecord() *dns.TLSA {
	if s == nil || s.TLSA == nil {
		return nil
	}

	for _, rr := range s.TLSA.Answer {
		if t, ok := rr.(*dns.TLSA); ok {
			return t
		}
	}

	return nil
}

// ChainState is the ledger side of the prerequisites
type ChainState struct {
	CurrentHeight      int64
	LatestUpdateHeight int64
	Resource           *Resource
}

// Update is the most recent on-chain record update of a name
type Update struct {
	Height   int64
	Resource *Resource
}

// Record types of an on-chain name resource
const (
	RecordTypeDS     = "DS"
	RecordTypeNS     = "NS"
	RecordTypeGlue4  = "GLUE4"
	RecordTypeGlue6  = "GLUE6"
	RecordTypeSynth4 = "SYNTH4"
	RecordTypeSynth6 = "SYNTH6"
	RecordTypeTXT    = "TXT"
)

// Record is one entry of a name resource, in the JSON shape of the hsd node
type Record struct {
	Type       string   `json:"type"`
	KeyTag     uint16   `json:"keyTag,omitempty"`
	Algorithm  uint8    `json:"algorithm,omitempty"`
	DigestType uint8    `json:"digestType,omitempty"`
	Digest     string   `json:"digest,omitempty"`
	NS         string   `json:"ns,omitempty"`
	Address    string   `json:"address,omitempty"`
	TXT        []string `json:"txt,omitempty"`
}

// Resource is the record payload stored on chain for a name
type Resource struct {
	Records []Record `json:"records"`
}

// HasDS returns true if the resource carries at least one DS record
func (r *Resource) HasDS() bool {
	if r == nil {
		return false
	}

	for _, rec := range r.Records {
		if rec.Type == RecordTypeDS {
			return true
		}
	}

	return false
}

// DS returns the DS records of the resource as records of name
func (r *Resource) DS(name string) []*dns.DS {
	if r == nil {
		return nil
	}

	var result []*dns.DS

	for _, rec := range r.Records {
		if rec.Type != RecordTypeDS {
			continue
		}

		result = append(result, &dns.DS{
			Hdr: dns.RR_Header{
				Name:   dns.Fqdn(name),
				Rrtype: dns.TypeDS,
				Class:  dns.ClassINET,
				Ttl:    DefaultResourceTTL,
			},
			KeyTag:     rec.KeyTag,
			Algorithm:  rec.Algorithm,
			DigestType: rec.DigestType,
			Digest:     strings.ToUpper(rec.Digest),
		})
	}

	return result
}
