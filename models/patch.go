package models

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/go-playground/validator/v10"
)

// Patchable report fields, keyed by their JSON name.
const (
	FieldType                = "type"
	FieldSeverity            = "severity"
	FieldPriority            = "priority"
	FieldLocation            = "location"
	FieldDescription         = "description"
	FieldReporter            = "reporter"
	FieldAffectedPopulation  = "affectedPopulation"
	FieldEconomicImpact      = "economicImpact"
	FieldEnvironmentalImpact = "environmentalImpact"
	FieldResponseTime        = "responseTime"
	FieldTags                = "tags"
)

// ReportPatch is a partial update. Fields keeps the keys in the order the
// caller supplied them; the values live in the typed pointers.
//
// id, timestamp, status, comments and auditTrail are not patchable: identity
// and history are immutable, and status has its own audited operation.
// A nil ResponseTime or Tags with its name in Fields clears the value.
type ReportPatch struct {
	Fields []string

	Type                *HazardType
	Severity            *Severity
	Priority            *Priority
	Location            *Location
	Description         *string
	Reporter            *string
	AffectedPopulation  *int
	EconomicImpact      *float64
	EnvironmentalImpact *string
	ResponseTime        *int
	Tags                []string
}

// UnknownFieldError is returned when a patch names a field that cannot be merged.
type UnknownFieldError struct {
	Field string
}

func (e *UnknownFieldError) Error() string {
	return fmt.Sprintf("field %q cannot be updated", e.Field)
}

var patchValidate = validator.New()

// InvalidValueError is returned when a patch value fails the same checks a
// submission would.
type InvalidValueError struct {
	Field  string
	Reason string
}

func (e *InvalidValueError) Error() string {
	return fmt.Sprintf("field %s: %s", e.Field, e.Reason)
}

func isNull(raw json.RawMessage) bool {
	return bytes.Equal(bytes.TrimSpace(raw), []byte("null"))
}

// Set records a field value, appending the name to Fields on first use.
// null clears responseTime and tags; other fields cannot be null.
func (p *ReportPatch) Set(field string, raw json.RawMessage) error {
	if err := p.set(field, raw); err != nil {
		var unknown *UnknownFieldError
		var invalid *InvalidValueError
		if errors.As(err, &unknown) || errors.As(err, &invalid) {
			return err
		}
		return &InvalidValueError{Field: field, Reason: err.Error()}
	}
	for _, f := range p.Fields {
		if f == field {
			return nil
		}
	}
	p.Fields = append(p.Fields, field)
	return nil
}

func (p *ReportPatch) set(field string, raw json.RawMessage) error {
	null := isNull(raw)
	switch field {
	case FieldResponseTime:
		if null {
			p.ResponseTime = nil
			return nil
		}
		p.ResponseTime = new(int)
		if err := json.Unmarshal(raw, p.ResponseTime); err != nil {
			return err
		}
		return checkVar(field, *p.ResponseTime, "gte=0")
	case FieldTags:
		if null {
			p.Tags = nil
			return nil
		}
		p.Tags = []string{}
		return json.Unmarshal(raw, &p.Tags)
	case FieldType, FieldSeverity, FieldPriority, FieldLocation, FieldDescription,
		FieldReporter, FieldAffectedPopulation, FieldEconomicImpact, FieldEnvironmentalImpact:
		if null {
			return &InvalidValueError{Field: field, Reason: "cannot be null"}
		}
	default:
		return &UnknownFieldError{Field: field}
	}

	switch field {
	case FieldType:
		var t HazardType
		if err := json.Unmarshal(raw, &t); err != nil {
			return err
		}
		t = NormalizeHazardType(t)
		if t == "" {
			return &InvalidValueError{Field: field, Reason: "cannot be empty"}
		}
		p.Type = &t
	case FieldSeverity:
		p.Severity = new(Severity)
		if err := json.Unmarshal(raw, p.Severity); err != nil {
			return err
		}
		if !p.Severity.Valid() {
			return &InvalidValueError{Field: field, Reason: fmt.Sprintf("invalid severity %q", *p.Severity)}
		}
	case FieldPriority:
		p.Priority = new(Priority)
		return json.Unmarshal(raw, p.Priority)
	case FieldLocation:
		p.Location = new(Location)
		if err := json.Unmarshal(raw, p.Location); err != nil {
			return err
		}
		if err := patchValidate.Struct(p.Location); err != nil {
			return &InvalidValueError{Field: field, Reason: err.Error()}
		}
	case FieldDescription:
		p.Description = new(string)
		if err := json.Unmarshal(raw, p.Description); err != nil {
			return err
		}
		return checkVar(field, *p.Description, "max=2000")
	case FieldReporter:
		p.Reporter = new(string)
		return json.Unmarshal(raw, p.Reporter)
	case FieldAffectedPopulation:
		p.AffectedPopulation = new(int)
		if err := json.Unmarshal(raw, p.AffectedPopulation); err != nil {
			return err
		}
		return checkVar(field, *p.AffectedPopulation, "gte=0")
	case FieldEconomicImpact:
		p.EconomicImpact = new(float64)
		if err := json.Unmarshal(raw, p.EconomicImpact); err != nil {
			return err
		}
		return checkVar(field, *p.EconomicImpact, "gte=0")
	case FieldEnvironmentalImpact:
		p.EnvironmentalImpact = new(string)
		return json.Unmarshal(raw, p.EnvironmentalImpact)
	}
	return nil
}

func checkVar(field string, v interface{}, tag string) error {
	if err := patchValidate.Var(v, tag); err != nil {
		return &InvalidValueError{Field: field, Reason: fmt.Sprintf("must satisfy %s", tag)}
	}
	return nil
}

// UnmarshalJSON walks the object token by token so key order survives decoding.
func (p *ReportPatch) UnmarshalJSON(data []byte) error {
	dec := json.NewDecoder(bytes.NewReader(data))
	tok, err := dec.Token()
	if err != nil {
		return err
	}
	if delim, ok := tok.(json.Delim); !ok || delim != '{' {
		return fmt.Errorf("report patch must be a JSON object")
	}
	*p = ReportPatch{}
	for dec.More() {
		tok, err := dec.Token()
		if err != nil {
			return err
		}
		key, ok := tok.(string)
		if !ok {
			return fmt.Errorf("unexpected token %v", tok)
		}
		var raw json.RawMessage
		if err := dec.Decode(&raw); err != nil {
			return err
		}
		if err := p.Set(key, raw); err != nil {
			return err
		}
	}
	_, err = dec.Token()
	return err
}

// Empty reports whether the patch carries no fields.
func (p ReportPatch) Empty() bool { return len(p.Fields) == 0 }

// Apply shallow-merges the patch into r in field order.
func (p ReportPatch) Apply(r *Report) {
	for _, f := range p.Fields {
		switch f {
		case FieldType:
			r.Type = *p.Type
		case FieldSeverity:
			r.Severity = *p.Severity
		case FieldPriority:
			r.Priority = *p.Priority
		case FieldLocation:
			r.Location = *p.Location
		case FieldDescription:
			r.Description = *p.Description
		case FieldReporter:
			r.Reporter = *p.Reporter
		case FieldAffectedPopulation:
			r.AffectedPopulation = *p.AffectedPopulation
		case FieldEconomicImpact:
			r.EconomicImpact = *p.EconomicImpact
		case FieldEnvironmentalImpact:
			r.EnvironmentalImpact = *p.EnvironmentalImpact
		case FieldResponseTime:
			if p.ResponseTime == nil {
				r.ResponseTime = nil
				continue
			}
			v := *p.ResponseTime
			r.ResponseTime = &v
		case FieldTags:
			if p.Tags == nil {
				r.Tags = nil
				continue
			}
			r.Tags = append([]string(nil), p.Tags...)
		}
	}
}
