package model

import (
	"bytes"
	"encoding/json"
)

// CheckName identifies a diagnostic check in the report
type CheckName string

const (
	CheckDSExists         CheckName = "dsExists"
	CheckTreeUpdated      CheckName = "treeUpdated"
	CheckNSDnssecEnabled  CheckName = "nsDnssecEnabled"
	CheckDnssecChainValid CheckName = "dnssecChainValid"
	CheckTLSAExists       CheckName = "tlsaExists"
	CheckWebserverContent CheckName = "webserverContent"
	CheckCorrectTLSA      CheckName = "correctTlsa"
)

// CheckNames returns all checks in report order
func CheckNames() []CheckName {
	return []CheckName{
		CheckDSExists,
		CheckTreeUpdated,
		CheckNSDnssecEnabled,
		CheckDnssecChainValid,
		CheckTLSAExists,
		CheckWebserverContent,
		CheckCorrectTLSA,
	}
}

// DiagnosticResult is the verdict of one check
type DiagnosticResult struct {
	OK          bool   `json:"ok"`
	Title       string `json:"title"`
	Description string `json:"desc"`
	Current     string `json:"current"`
	Solution    string `json:"solution,omitempty"`
	RefURL      string `json:"refUrl,omitempty"`
}

// NamedResult is a DiagnosticResult with its check name
type NamedResult struct {
	Name   CheckName
	Result DiagnosticResult
}

// Report is the outcome of one validation run
type Report struct {
	Domain    string
	IPAddress string
	Checks    []NamedResult

	// collaborator output, nil if the tool was unavailable
	Delv        *string
	DnsvizProbe *string
	DnsvizGraph *string
}

// Result returns the result of the named check
func (r *Report) Result(name CheckName) (DiagnosticResult, bool) {
	for _, c := range r.Checks {
		if c.Name == name {
			return c.Result, true
		}
	}

	return DiagnosticResult{}, false
}

// Failed returns the names of all failing checks in report order
func (r *Report) Failed() []CheckName {
	var failed []CheckName

	for _, c := range r.Checks {
		if !c.Result.OK {
			failed = append(failed, c.Name)
		}
	}

	return failed
}

// MarshalJSON writes a flat object that keeps the check order
func (r *Report) MarshalJSON() ([]byte, error) {
	var buf bytes.Buffer

	buf.WriteByte('{')

	first := true
	write := func(key string, value interface{}) error {
		b, err := json.Marshal(value)
		if err != nil {
			return err
		}

		if !first {
			buf.WriteByte(',')
		}

		first = false

		k, err := json.Marshal(key)
		if err != nil {
			return err
		}

		buf.Write(k)
		buf.WriteByte(':')
		buf.Write(b)

		return nil
	}

	var ip *string
	if r.IPAddress != "" {
		ip = &r.IPAddress
	}

	if err := write("domain", r.Domain); err != nil {
		return nil, err
	}

	if err := write("ipAddress", ip); err != nil {
		return nil, err
	}

	for _, c := range r.Checks {
		if err := write(string(c.Name), c.Result); err != nil {
			return nil, err
		}
	}

	for _, tool := range []struct {
		key   string
		value *string
	}{
		{"delv", r.Delv},
		{"dnsvizProbe", r.DnsvizProbe},
		{"dnsvizGraph", r.DnsvizGraph},
	} {
		if err := write(tool.key, tool.value); err != nil {
			return nil, err
		}
	}

	buf.WriteByte('}')

	return buf.Bytes(), nil
}
