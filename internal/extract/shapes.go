package extract

import (
	"encoding/json"
	"fmt"

	apperrors "github.com/glintlabs/glint/internal/errors"
)

// Kind identifies which accepted shape a decoded payload matched.
type Kind int

const (
	// KindProblem is a problem-statement record.
	KindProblem Kind = iota
	// KindSolution is a code/thoughts record.
	KindSolution
	// KindText is a free-text record.
	KindText
	// KindOpaque is any other decodable payload, accepted as-is.
	KindOpaque
)

// String returns the lowercase shape label.
func (k Kind) String() string {
	switch k {
	case KindProblem:
		return "problem"
	case KindSolution:
		return "solution"
	case KindText:
		return "text"
	default:
		return "opaque"
	}
}

// ProblemRecord is the problem-statement shape produced by extraction calls.
type ProblemRecord struct {
	ProblemStatement string `json:"problem_statement"`
	Constraints      string `json:"constraints,omitempty"`
	ExampleInput     string `json:"example_input,omitempty"`
	ExampleOutput    string `json:"example_output,omitempty"`
}

// SolutionRecord is the code/thoughts shape produced by solution and debug
// calls.
type SolutionRecord struct {
	Code            string   `json:"code"`
	Thoughts        []string `json:"thoughts,omitempty"`
	TimeComplexity  string   `json:"time_complexity,omitempty"`
	SpaceComplexity string   `json:"space_complexity,omitempty"`
}

// Data is the result of a successful extraction or recovery.
type Data struct {
	// Kind reports which shape matched.
	Kind Kind

	// Problem is set when Kind is KindProblem.
	Problem *ProblemRecord

	// Solution is set when Kind is KindSolution.
	Solution *SolutionRecord

	// Text is set when Kind is KindText.
	Text string

	// Opaque holds the decoded value for KindOpaque payloads.
	Opaque any

	// Raw is the JSON text the value was decoded from. Empty for
	// recovered free text.
	Raw json.RawMessage

	// Recovered marks best-effort free text salvaged by Recover rather
	// than a structured decode.
	Recovered bool
}

// interpret validates a decoded value against the accepted shapes. The
// validation is deliberately permissive: only type mismatches on known
// fields are rejected, unknown shapes pass through as opaque payloads.
func interpret(value any, raw json.RawMessage) (*Data, *apperrors.ClassifiedError) {
	switch v := value.(type) {
	case map[string]any:
		return interpretObject(v, raw)
	case string:
		return &Data{Kind: KindText, Text: v, Raw: raw}, nil
	default:
		return &Data{Kind: KindOpaque, Opaque: value, Raw: raw}, nil
	}
}

func interpretObject(m map[string]any, raw json.RawMessage) (*Data, *apperrors.ClassifiedError) {
	// An explicit error field short-circuits validation as a failure.
	if errVal, ok := m["error"]; ok {
		if msg, ok := errVal.(string); ok && msg != "" {
			ce := apperrors.NewResponseError("the backend reported an error: " + msg)
			ce.Code = "BACKEND_REPORTED_ERROR"
			return nil, ce
		}
	}

	if _, ok := m["problem_statement"]; ok {
		rec := &ProblemRecord{}
		var err *apperrors.ClassifiedError
		if rec.ProblemStatement, err = stringField(m, "problem_statement"); err != nil {
			return nil, err
		}
		if rec.Constraints, err = stringField(m, "constraints"); err != nil {
			return nil, err
		}
		if rec.ExampleInput, err = stringField(m, "example_input"); err != nil {
			return nil, err
		}
		if rec.ExampleOutput, err = stringField(m, "example_output"); err != nil {
			return nil, err
		}
		return &Data{Kind: KindProblem, Problem: rec, Raw: raw}, nil
	}

	if _, ok := m["code"]; ok {
		rec := &SolutionRecord{}
		var err *apperrors.ClassifiedError
		if rec.Code, err = stringField(m, "code"); err != nil {
			return nil, err
		}
		if rec.Thoughts, err = thoughtsField(m); err != nil {
			return nil, err
		}
		if rec.TimeComplexity, err = stringField(m, "time_complexity"); err != nil {
			return nil, err
		}
		if rec.SpaceComplexity, err = stringField(m, "space_complexity"); err != nil {
			return nil, err
		}
		return &Data{Kind: KindSolution, Solution: rec, Raw: raw}, nil
	}

	for _, key := range []string{"text", "content"} {
		if v, ok := m[key]; ok {
			s, ok := v.(string)
			if !ok {
				return nil, typeMismatch(key, v)
			}
			return &Data{Kind: KindText, Text: s, Raw: raw}, nil
		}
	}

	return &Data{Kind: KindOpaque, Opaque: m, Raw: raw}, nil
}

// stringField reads an optional string field; present-but-wrong-type is the
// one thing the permissive validator rejects.
func stringField(m map[string]any, key string) (string, *apperrors.ClassifiedError) {
	v, ok := m[key]
	if !ok || v == nil {
		return "", nil
	}
	s, ok := v.(string)
	if !ok {
		return "", typeMismatch(key, v)
	}
	return s, nil
}

// thoughtsField accepts a string or a list of strings.
func thoughtsField(m map[string]any) ([]string, *apperrors.ClassifiedError) {
	v, ok := m["thoughts"]
	if !ok || v == nil {
		return nil, nil
	}
	switch t := v.(type) {
	case string:
		return []string{t}, nil
	case []any:
		out := make([]string, 0, len(t))
		for _, item := range t {
			s, ok := item.(string)
			if !ok {
				return nil, typeMismatch("thoughts", item)
			}
			out = append(out, s)
		}
		return out, nil
	default:
		return nil, typeMismatch("thoughts", v)
	}
}

func typeMismatch(key string, v any) *apperrors.ClassifiedError {
	ce := apperrors.NewResponseError(
		fmt.Sprintf("field %q has unexpected type %T", key, v),
		"Retry the operation",
	)
	ce.Code = "SHAPE_MISMATCH"
	return ce
}
