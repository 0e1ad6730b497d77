package models

import (
	"encoding/json"
	"fmt"
	"strings"
)

// DiagnosisPurpose is the closed set of things a diagnosis can be asked for.
type DiagnosisPurpose int

const (
	PurposeDisease DiagnosisPurpose = iota + 1
	PurposePest
	PurposeMaturity
	PurposeGrowth
)

// Purposes lists every purpose in display order.
var Purposes = []DiagnosisPurpose{PurposeDisease, PurposePest, PurposeMaturity, PurposeGrowth}

// ID is the stable ASCII identifier used in URLs and flags.
func (p DiagnosisPurpose) ID() string {
	switch p {
	case PurposeDisease:
		return "disease"
	case PurposePest:
		return "pest"
	case PurposeMaturity:
		return "maturity"
	case PurposeGrowth:
		return "growth"
	}
	panic(fmt.Sprintf("models: invalid DiagnosisPurpose %d", int(p)))
}

// String is the Korean label sent to the relay as the diagnosis purpose.
func (p DiagnosisPurpose) String() string {
	switch p {
	case PurposeDisease:
		return "병해 진단"
	case PurposePest:
		return "충해 진단"
	case PurposeMaturity:
		return "성숙도 확인"
	case PurposeGrowth:
		return "생육 상태"
	}
	return fmt.Sprintf("DiagnosisPurpose(%d)", int(p))
}

func (p DiagnosisPurpose) Valid() bool {
	return p >= PurposeDisease && p <= PurposeGrowth
}

// ParsePurpose accepts either the ID or the Korean label.
func ParsePurpose(s string) (DiagnosisPurpose, error) {
	s = strings.TrimSpace(s)
	for _, p := range Purposes {
		if strings.EqualFold(s, p.ID()) || s == p.String() {
			return p, nil
		}
	}
	return 0, fmt.Errorf("unknown diagnosis purpose %q", s)
}

func (p DiagnosisPurpose) MarshalJSON() ([]byte, error) {
	if !p.Valid() {
		return nil, fmt.Errorf("invalid diagnosis purpose %d", int(p))
	}
	return json.Marshal(p.ID())
}

func (p *DiagnosisPurpose) UnmarshalJSON(data []byte) error {
	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		return err
	}
	parsed, err := ParsePurpose(s)
	if err != nil {
		return err
	}
	*p = parsed
	return nil
}

// Severity grades pest alerts and local diagnosis reports.
type Severity int

const (
	SeverityLow Severity = iota + 1
	SeverityMedium
	SeverityHigh
	SeverityCritical
)

var Severities = []Severity{SeverityLow, SeverityMedium, SeverityHigh, SeverityCritical}

func (s Severity) ID() string {
	switch s {
	case SeverityLow:
		return "low"
	case SeverityMedium:
		return "medium"
	case SeverityHigh:
		return "high"
	case SeverityCritical:
		return "critical"
	}
	panic(fmt.Sprintf("models: invalid Severity %d", int(s)))
}

func (s Severity) String() string {
	switch s {
	case SeverityLow:
		return "낮음"
	case SeverityMedium:
		return "보통"
	case SeverityHigh:
		return "높음"
	case SeverityCritical:
		return "심각"
	}
	return fmt.Sprintf("Severity(%d)", int(s))
}

func (s Severity) Valid() bool {
	return s >= SeverityLow && s <= SeverityCritical
}

func ParseSeverity(v string) (Severity, error) {
	v = strings.TrimSpace(v)
	for _, s := range Severities {
		if strings.EqualFold(v, s.ID()) || v == s.String() {
			return s, nil
		}
	}
	return 0, fmt.Errorf("unknown severity %q", v)
}

func (s Severity) MarshalJSON() ([]byte, error) {
	if !s.Valid() {
		return nil, fmt.Errorf("invalid severity %d", int(s))
	}
	return json.Marshal(s.ID())
}

func (s *Severity) UnmarshalJSON(data []byte) error {
	var v string
	if err := json.Unmarshal(data, &v); err != nil {
		return err
	}
	parsed, err := ParseSeverity(v)
	if err != nil {
		return err
	}
	*s = parsed
	return nil
}
