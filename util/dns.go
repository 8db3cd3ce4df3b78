package util

import (
	"fmt"
	"strings"

	"github.com/miekg/dns"
)

// AnswerToString renders a record section for logging
func AnswerToString(answer []dns.RR) string {
	answers := make([]string, len(answer))

	for i, record := range answer {
		switch v := record.(type) {
		case *dns.A:
			answers[i] = fmt.Sprintf("A (%s)", v.A)
		case *dns.AAAA:
			answers[i] = fmt.Sprintf("AAAA (%s)", v.AAAA)
		case *dns.TLSA:
			answers[i] = fmt.Sprintf("TLSA (%d %d %d)", v.Usage, v.Selector, v.MatchingType)
		case *dns.RRSIG:
			answers[i] = fmt.Sprintf("RRSIG (%s)", dns.TypeToString[v.TypeCovered])
		default:
			answers[i] = dns.TypeToString[record.Header().Rrtype]
		}
	}

	return strings.Join(answers, ", ")
}

// HasType returns true if one of the records has the given type
func HasType(records []dns.RR, rrType uint16) bool {
	for _, rr := range records {
		if rr.Header().Rrtype == rrType {
			return true
		}
	}

	return false
}

// FirstOf returns the first record of type T
func FirstOf[T dns.RR](records []dns.RR) (T, bool) {
	for _, rr := range records {
		if typed, ok := rr.(T); ok {
			return typed, true
		}
	}

	var zero T

	return zero, false
}

// RRData returns the presentation format of a record without its header
func RRData(rr dns.RR) string {
	return strings.TrimPrefix(rr.String(), rr.Header().String())
}

// QuestionToString renders the question section for logging
func QuestionToString(questions []dns.Question) string {
	result := make([]string, len(questions))
	for i, question := range questions {
		result[i] = fmt.Sprintf("%s (%s)", dns.TypeToString[question.Qtype], question.Name)
	}

	return strings.Join(result, ", ")
}
