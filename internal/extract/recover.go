package extract

import (
	"regexp"
	"strings"

	apperrors "github.com/glintlabs/glint/internal/errors"
)

// minRecoveredLen is the minimum cleaned length for output to count as
// recoverable free text. Anything shorter is noise, not an answer.
const minRecoveredLen = 10

var (
	chromePrefixPattern = regexp.MustCompile(`(?m)^[>$#]\s?|^[-*\x{2022}]\s+`)
	blankRunPattern     = regexp.MustCompile(`\n{3,}`)
	errorLinePattern    = regexp.MustCompile(`(?im)^\s*error:?\s+(.+)$`)
)

var (
	// Short markers only: anything long enough to carry a full phrase has
	// already been returned as recovered free text by the length stage.
	recoverAuthPhrases    = []string{"401", "login", "auth"}
	recoverInstallPhrases = []string{"enoent", "127"}
)

// Recover is the best-effort path invoked only after Extract fails. It
// accepts some false-positive recoveries in exchange for never losing a
// usable response. Stages, first match wins:
//
//  1. Clean CLI chrome; long-enough remainder becomes recovered free text.
//  2. An explicit "error: ..." line becomes an execution error.
//  3. Authentication or installation phrases become their classified errors.
//  4. Otherwise the original error is returned with an output preview.
func Recover(rawOutput string, originalErr *apperrors.ClassifiedError) (*Data, *apperrors.ClassifiedError) {
	cleaned := cleanChrome(rawOutput)

	if len(cleaned) >= minRecoveredLen {
		return &Data{Kind: KindText, Text: cleaned, Recovered: true}, nil
	}

	lowered := strings.ToLower(rawOutput)

	if m := errorLinePattern.FindStringSubmatch(rawOutput); m != nil {
		ce := apperrors.NewExecutionError("the backend reported: " + strings.TrimSpace(m[1]))
		ce.Code = "CLI_REPORTED_ERROR"
		return nil, ce
	}

	for _, p := range recoverAuthPhrases {
		if strings.Contains(lowered, p) {
			return nil, apperrors.NewAuthenticationError(
				"the backend CLI rejected the session credentials",
				"Run the CLI once interactively to log in",
			)
		}
	}
	for _, p := range recoverInstallPhrases {
		if strings.Contains(lowered, p) {
			return nil, apperrors.NewInstallationError(
				"the backend CLI installation appears broken",
				"Reinstall the backend CLI",
				"Run `glint doctor` to re-check",
			)
		}
	}

	if originalErr == nil {
		return nil, apperrors.NoStructuredData(preview(cleaned))
	}
	augmented := *originalErr
	if p := preview(rawOutput); p != "" {
		augmented.Message = augmented.Message + " (output began: " + p + ")"
	}
	return nil, &augmented
}

// cleanChrome strips ANSI codes and interactive-CLI decoration: prompt
// prefixes, bullet markers, and runs of blank lines.
func cleanChrome(s string) string {
	s = StripANSI(s)
	s = chromePrefixPattern.ReplaceAllString(s, "")
	s = blankRunPattern.ReplaceAllString(s, "\n\n")
	return strings.TrimSpace(s)
}
