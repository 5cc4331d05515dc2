// Package extract converts raw backend CLI output into structured data.
// The backend is a text-oriented tool whose output format is not
// contractually stable: stdout may interleave log noise, ANSI escape
// sequences, and markdown around the payload. The extractor tries an
// ordered list of named strategies and never panics or loses output --
// every failure path returns a classified error carrying the evidence.
package extract

import (
	"encoding/json"
	"regexp"
	"strings"

	apperrors "github.com/glintlabs/glint/internal/errors"
)

// previewLen bounds the raw-output excerpt attached to extraction errors.
const previewLen = 120

var ansiPattern = regexp.MustCompile(`\x1b\[[0-9;?]*[a-zA-Z]|\x1b\][^\x07]*(\x07|\x1b\\)`)

// strategy is one stage of the fallback chain. It yields candidate JSON
// texts from the cleaned output; the first candidate that decodes wins.
type strategy struct {
	name       string
	candidates func(cleaned string) []string
}

// strategies are tried in order; the ordering is part of the contract.
var strategies = []strategy{
	{name: "json-search", candidates: jsonSearchCandidates},
	{name: "code-block", candidates: codeBlockCandidates},
	{name: "whole-string", candidates: wholeStringCandidate},
}

// Extract parses rawOutput into structured data. On failure the returned
// error is response-category and carries a truncated preview of the output.
func Extract(rawOutput string) (*Data, *apperrors.ClassifiedError) {
	cleaned := strings.TrimSpace(StripANSI(rawOutput))
	if cleaned == "" {
		return nil, apperrors.EmptyResponse()
	}

	for _, s := range strategies {
		for _, candidate := range s.candidates(cleaned) {
			var value any
			if err := json.Unmarshal([]byte(candidate), &value); err != nil {
				continue
			}
			data, cerr := interpret(value, json.RawMessage(candidate))
			if cerr != nil {
				// The payload decoded but told us it is an error,
				// or a known field had the wrong type. No later
				// strategy can do better with the same payload.
				return nil, cerr
			}
			return data, nil
		}
	}

	return nil, apperrors.NoStructuredData(preview(cleaned))
}

// StripANSI removes ANSI escape sequences (CSI and OSC) from s.
func StripANSI(s string) string {
	return ansiPattern.ReplaceAllString(s, "")
}

// jsonSearchCandidates locates brace-delimited and bracket-delimited spans.
// The outermost span is offered first; decoding validates the guess.
func jsonSearchCandidates(cleaned string) []string {
	var out []string
	if c := delimitedSpan(cleaned, '{', '}'); c != "" {
		out = append(out, c)
	}
	if c := delimitedSpan(cleaned, '[', ']'); c != "" {
		out = append(out, c)
	}
	return out
}

func delimitedSpan(s string, open, close byte) string {
	start := strings.IndexByte(s, open)
	if start < 0 {
		return ""
	}
	end := strings.LastIndexByte(s, close)
	if end <= start {
		return ""
	}
	return s[start : end+1]
}

var codeBlockPattern = regexp.MustCompile("(?s)```(?:json)?[ \\t]*\\n(.*?)```")

// codeBlockCandidates returns the interiors of fenced code blocks.
func codeBlockCandidates(cleaned string) []string {
	matches := codeBlockPattern.FindAllStringSubmatch(cleaned, -1)
	out := make([]string, 0, len(matches))
	for _, m := range matches {
		if body := strings.TrimSpace(m[1]); body != "" {
			out = append(out, body)
		}
	}
	return out
}

func wholeStringCandidate(cleaned string) []string {
	return []string{cleaned}
}

func preview(s string) string {
	s = strings.TrimSpace(s)
	if len(s) > previewLen {
		return s[:previewLen] + "..."
	}
	return s
}
