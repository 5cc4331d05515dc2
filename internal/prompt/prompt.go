// Package prompt renders the text sent to the completion backend. Each
// operation has one template; the JSON shape the backend must answer with is
// embedded in the template so the extractor on the other side has something
// to find.
package prompt

import (
	"bytes"
	"fmt"
	"strings"
	"text/template"
)

// Operation selects a prompt template.
type Operation string

const (
	// OpExtract asks the backend to read a problem statement from a screenshot.
	OpExtract Operation = "extract"
	// OpSolve asks for a solution to an extracted problem.
	OpSolve Operation = "solve"
	// OpDebug asks for a corrected solution given code and feedback.
	OpDebug Operation = "debug"
)

// Data is the template input. Fields are used per operation: Problem for
// solve, Code and Feedback for debug; Language applies everywhere.
type Data struct {
	Language string
	Problem  string
	Code     string
	Feedback string
}

const extractTemplate = `Look at the attached screenshot of a coding problem.
Extract the complete problem description.

Respond with only a JSON object in this exact shape:
{"problem_statement": "...", "constraints": "...", "example_input": "...", "example_output": "..."}

Use empty strings for fields the screenshot does not show. Do not add any
text outside the JSON object.`

const solveTemplate = `Solve the following coding problem in {{.Language}}.

Problem:
{{.Problem}}

Respond with only a JSON object in this exact shape:
{"code": "...", "thoughts": ["..."], "time_complexity": "...", "space_complexity": "..."}

The code field holds the complete {{.Language}} solution. The thoughts list
explains the approach step by step. Do not add any text outside the JSON
object.`

const debugTemplate = `The following {{.Language}} solution needs to be fixed.

Current code:
{{.Code}}

Observed problem:
{{.Feedback}}

Respond with only a JSON object in this exact shape:
{"code": "...", "thoughts": ["..."], "time_complexity": "...", "space_complexity": "..."}

The code field holds the corrected {{.Language}} solution. Do not add any
text outside the JSON object.`

var templates = map[Operation]*template.Template{
	OpExtract: template.Must(template.New(string(OpExtract)).Parse(extractTemplate)),
	OpSolve:   template.Must(template.New(string(OpSolve)).Parse(solveTemplate)),
	OpDebug:   template.Must(template.New(string(OpDebug)).Parse(debugTemplate)),
}

// Render produces the prompt text for op. Language defaults to python when
// unset so a template never renders an empty language slot.
func Render(op Operation, data Data) (string, error) {
	tmpl, ok := templates[op]
	if !ok {
		return "", fmt.Errorf("unknown operation %q", op)
	}
	if strings.TrimSpace(data.Language) == "" {
		data.Language = "python"
	}

	var buf bytes.Buffer
	if err := tmpl.Execute(&buf, data); err != nil {
		return "", fmt.Errorf("rendering %s prompt: %w", op, err)
	}
	return buf.String(), nil
}
