// Package extract tests the staged decode strategies and shape validation.
// Related: internal/extract/extract.go, internal/extract/shapes.go
// Tags: extract, json, strategies, validation
package extract

import (
	"testing"

	apperrors "github.com/glintlabs/glint/internal/errors"
)

func TestExtractProblemRecord(t *testing.T) {
	t.Parallel()

	data, err := Extract(`{"problem_statement":"Find max","constraints":"n>0"}`)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if data.Kind != KindProblem {
		t.Fatalf("expected KindProblem, got %v", data.Kind)
	}
	if data.Problem.ProblemStatement != "Find max" {
		t.Errorf("expected problem statement %q, got %q", "Find max", data.Problem.ProblemStatement)
	}
	if data.Problem.Constraints != "n>0" {
		t.Errorf("expected constraints %q, got %q", "n>0", data.Problem.Constraints)
	}
}

func TestExtractStrategies(t *testing.T) {
	t.Parallel()

	tests := map[string]struct {
		input    string
		wantKind Kind
	}{
		"bare object": {
			input:    `{"code":"print(1)","thoughts":["start simple"]}`,
			wantKind: KindSolution,
		},
		"object surrounded by log noise": {
			input:    "INFO starting\n{\"problem_statement\":\"x\"}\ndone",
			wantKind: KindProblem,
		},
		"ansi wrapped": {
			input:    "\x1b[32m{\"text\":\"hello\"}\x1b[0m",
			wantKind: KindText,
		},
		"fenced json block": {
			input:    "Here you go:\n```json\n{\"content\":\"answer\"}\n```\n",
			wantKind: KindText,
		},
		"untagged fence": {
			input:    "```\n{\"problem_statement\":\"y\"}\n```",
			wantKind: KindProblem,
		},
		"top level array": {
			input:    `[1, 2, 3]`,
			wantKind: KindOpaque,
		},
		"quoted string whole output": {
			input:    `"just a string"`,
			wantKind: KindText,
		},
		"unknown object shape accepted as opaque": {
			input:    `{"something":"else","n":3}`,
			wantKind: KindOpaque,
		},
	}

	for name, test := range tests {
		t.Run(name, func(t *testing.T) {
			data, err := Extract(test.input)
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if data.Kind != test.wantKind {
				t.Errorf("expected kind %v, got %v", test.wantKind, data.Kind)
			}
		})
	}
}

func TestExtractFailures(t *testing.T) {
	t.Parallel()

	tests := map[string]struct {
		input    string
		wantCode string
	}{
		"no structured data":  {input: "plain prose with no json at all", wantCode: "NO_STRUCTURED_DATA"},
		"empty output":        {input: "   \n  ", wantCode: "EMPTY_RESPONSE"},
		"explicit error":      {input: `{"error":"model overloaded"}`, wantCode: "BACKEND_REPORTED_ERROR"},
		"known field mistype": {input: `{"problem_statement": 42}`, wantCode: "SHAPE_MISMATCH"},
		"thoughts mistyped":   {input: `{"code":"x","thoughts":{"a":1}}`, wantCode: "SHAPE_MISMATCH"},
	}

	for name, test := range tests {
		t.Run(name, func(t *testing.T) {
			_, err := Extract(test.input)
			if err == nil {
				t.Fatal("expected extraction failure")
			}
			if err.Code != test.wantCode {
				t.Errorf("expected code %q, got %q (%s)", test.wantCode, err.Code, err.Message)
			}
			if err.Category != apperrors.Response {
				t.Errorf("extraction failures must be response-category, got %v", err.Category)
			}
		})
	}
}

func TestExtractThoughtsStringOrList(t *testing.T) {
	t.Parallel()

	data, err := Extract(`{"code":"x","thoughts":"single thought"}`)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(data.Solution.Thoughts) != 1 || data.Solution.Thoughts[0] != "single thought" {
		t.Errorf("expected single-element thoughts, got %v", data.Solution.Thoughts)
	}

	data, err = Extract(`{"code":"x","thoughts":["a","b"]}`)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(data.Solution.Thoughts) != 2 {
		t.Errorf("expected two thoughts, got %v", data.Solution.Thoughts)
	}
}

func TestStripANSI(t *testing.T) {
	t.Parallel()

	in := "\x1b[1;32mgreen\x1b[0m and \x1b]0;title\x07plain"
	if got := StripANSI(in); got != "green and plain" {
		t.Errorf("StripANSI = %q", got)
	}
}
