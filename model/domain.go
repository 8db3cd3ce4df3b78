package model

import (
	"fmt"
	"regexp"
	"strings"
)

const (
	maxDomainLength = 253
	maxLabelLength  = 63
)

// nolint:gochecknoglobals
var labelRegex = regexp.MustCompile(`^[a-z0-9_-]+$`)

// InputError is returned for malformed domain names, before any network activity
type InputError struct {
	Input  string
	Reason string
}

func (e *InputError) Error() string {
	return fmt.Sprintf("invalid domain name '%s': %s", e.Input, e.Reason)
}

// Domain is a validated, lower case domain name without trailing dot
type Domain struct {
	name   string
	labels []string
}

// ParseDomain validates input against the permitted hostname character set
func ParseDomain(input string) (Domain, error) {
	name := strings.ToLower(strings.TrimSuffix(strings.TrimSpace(input), "."))

	if name == "" {
		return Domain{}, &InputError{Input: input, Reason: "empty name"}
	}

	if len(name) > maxDomainLength {
		return Domain{}, &InputError{Input: input, Reason: "name too long"}
	}

	labels := strings.Split(name, ".")
	for _, label := range labels {
		if !labelRegex.MatchString(label) {
			return Domain{}, &InputError{Input: input, Reason: fmt.Sprintf("illegal label '%s'", label)}
		}

		if len(label) > maxLabelLength {
			return Domain{}, &InputError{Input: input, Reason: "label too long"}
		}
	}

	return Domain{name: name, labels: labels}, nil
}

// MustParseDomain is ParseDomain for constants and tests
func MustParseDomain(input string) Domain {
	d, err := ParseDomain(input)
	if err != nil {
		panic(err)
	}

	return d
}

// String returns the domain name
func (d Domain) String() string {
	return d.name
}

// FQDN returns the domain name with trailing dot
func (d Domain) FQDN() string {
	return d.name + "."
}

// TLD returns the top-level label, the key of the on-chain name
func (d Domain) TLD() string {
	if len(d.labels) == 0 {
		return ""
	}

	return d.labels[len(d.labels)-1]
}

// TLSAName returns the service name of the HTTPS TLSA record
func (d Domain) TLSAName() string {
	return "_443._tcp." + d.name
}

// IsZero returns true for the zero value
func (d Domain) IsZero() bool {
	return d.name == ""
}
