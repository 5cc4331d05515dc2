package progress

import (
	"fmt"
	"io"
	"os"
	"time"

	"github.com/briandowns/spinner"

	"github.com/glintlabs/glint/internal/notify"
)

// Display orchestrates terminal progress indicators. It also implements
// notify.Sink so the retry engine's progress messages land on the same
// surface as the step lines.
type Display struct {
	capabilities TerminalCapabilities
	currentStep  *StepInfo
	spinner      *spinner.Spinner
	symbols      Symbols

	// out receives the non-spinner lines. Defaults to stdout; the spinner
	// itself always animates on stderr so piped stdout stays clean.
	out io.Writer
}

// NewDisplay creates a progress display for the given terminal capabilities.
func NewDisplay(caps TerminalCapabilities) *Display {
	return &Display{
		capabilities: caps,
		symbols:      SelectSymbols(caps),
		out:          os.Stdout,
	}
}

// StartStep begins displaying progress for a step.
func (d *Display) StartStep(step StepInfo) error {
	if err := step.Validate(); err != nil {
		return err
	}

	d.currentStep = &step
	msg := buildStepMessage(step, "Running")

	if d.capabilities.IsTTY {
		d.spinner = spinner.New(
			spinner.CharSets[d.symbols.SpinnerSet],
			100*time.Millisecond,
		)
		d.spinner.Writer = os.Stderr
		d.spinner.Suffix = " " + msg
		d.spinner.Start()
	} else {
		fmt.Fprintln(d.out, msg)
	}

	return nil
}

// UpdateAttempt refreshes the display with the current attempt counter.
func (d *Display) UpdateAttempt(step StepInfo) error {
	if d.spinner != nil {
		d.spinner.Suffix = " " + buildStepMessage(step, "Retrying")
		d.currentStep = &step
		return nil
	}
	return d.StartStep(step)
}

// CompleteStep stops the spinner and displays completion status.
func (d *Display) CompleteStep(step StepInfo) error {
	d.StopSpinner()

	mark := checkmark(d.symbols, d.capabilities.SupportsColor)
	counter := formatStepCounter(step.Number, step.TotalSteps)
	fmt.Fprintf(d.out, "%s %s %s complete\n", mark, counter, capitalize(step.Name))

	d.currentStep = nil
	return nil
}

// FailStep stops the spinner and displays failure status.
func (d *Display) FailStep(step StepInfo, err error) error {
	d.StopSpinner()

	mark := failureMark(d.symbols, d.capabilities.SupportsColor)
	counter := formatStepCounter(step.Number, step.TotalSteps)
	fmt.Fprintf(d.out, "%s %s %s failed: %v\n", mark, counter, capitalize(step.Name), err)

	d.currentStep = nil
	return nil
}

// StopSpinner stops the spinner without a completion or failure line. Used
// to hand the terminal back before interactive output.
func (d *Display) StopSpinner() {
	if d.spinner != nil {
		d.spinner.Stop()
		d.spinner = nil
	}
}

// Publish implements notify.Sink. While a spinner runs, messages replace
// its suffix; otherwise warnings and errors print as plain lines and info
// messages are dropped to keep non-TTY output quiet.
func (d *Display) Publish(m notify.Message) {
	if d.spinner != nil {
		d.spinner.Suffix = " " + m.Text
		return
	}
	switch m.Severity {
	case notify.SeverityWarning:
		fmt.Fprintln(d.out, "! "+m.Text)
	case notify.SeverityError:
		fmt.Fprintln(d.out, failureMark(d.symbols, d.capabilities.SupportsColor)+" "+m.Text)
	}
}
