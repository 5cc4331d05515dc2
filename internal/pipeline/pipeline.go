// Package pipeline implements the three logical operations the desktop tool
// delegates: problem extraction from screenshots, solution generation, and
// solution debugging. Each operation renders a prompt, runs one backend
// completion (the backend handles its own retries), and interprets the
// response into a typed result.
package pipeline

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/google/uuid"

	"github.com/glintlabs/glint/internal/backend"
	apperrors "github.com/glintlabs/glint/internal/errors"
	"github.com/glintlabs/glint/internal/extract"
	"github.com/glintlabs/glint/internal/notify"
	"github.com/glintlabs/glint/internal/prompt"
)

// ProblemStatement is the typed result of an extraction operation.
type ProblemStatement struct {
	// ID correlates progress and log lines for one operation.
	ID string

	Statement     string
	Constraints   string
	ExampleInput  string
	ExampleOutput string

	// Recovered marks a degraded result salvaged from free text instead
	// of a structured payload.
	Recovered bool
}

// Render flattens the problem back into prompt-ready text.
func (p *ProblemStatement) Render() string {
	var b strings.Builder
	b.WriteString(p.Statement)
	if p.Constraints != "" {
		b.WriteString("\n\nConstraints:\n")
		b.WriteString(p.Constraints)
	}
	if p.ExampleInput != "" {
		b.WriteString("\n\nExample input:\n")
		b.WriteString(p.ExampleInput)
	}
	if p.ExampleOutput != "" {
		b.WriteString("\n\nExample output:\n")
		b.WriteString(p.ExampleOutput)
	}
	return b.String()
}

// Solution is the typed result of a generation operation.
type Solution struct {
	ID string

	Code            string
	Thoughts        []string
	TimeComplexity  string
	SpaceComplexity string

	Recovered bool
}

// DebugResult is the typed result of a debug operation. Same shape as a
// Solution; kept distinct so callers cannot confuse the flows.
type DebugResult struct {
	Solution
}

// Options tune a Pipeline. Zero values mean: backend default model, python,
// discarded progress and logs.
type Options struct {
	Language string
	Model    string
	Sink     notify.Sink
	Log      *slog.Logger
}

// Pipeline drives operations against one backend.
type Pipeline struct {
	backend  backend.Backend
	language string
	model    string
	sink     notify.Sink
	log      *slog.Logger

	// Swappable for tests.
	newID func() string
}

// New creates a Pipeline over b.
func New(b backend.Backend, opts Options) *Pipeline {
	if opts.Sink == nil {
		opts.Sink = notify.NopSink{}
	}
	if opts.Log == nil {
		opts.Log = slog.New(slog.DiscardHandler)
	}
	return &Pipeline{
		backend:  b,
		language: opts.Language,
		model:    opts.Model,
		sink:     opts.Sink,
		log:      opts.Log,
		newID:    uuid.NewString,
	}
}

// ExtractProblem reads a problem statement out of screenshot payloads.
func (p *Pipeline) ExtractProblem(ctx context.Context, screenshots [][]byte) (*ProblemStatement, error) {
	opID := p.newID()
	if len(screenshots) > 0 && !p.backend.Caps().Images {
		return nil, apperrors.NewExecutionError(
			fmt.Sprintf("the %s backend does not accept image inputs", p.backend.Name()),
			"Use a backend with image support for screenshot extraction",
		)
	}

	text, err := p.complete(ctx, opID, "extracting problem", prompt.OpExtract, prompt.Data{}, screenshots)
	if err != nil {
		return nil, err
	}

	data, ce := p.interpret(text)
	if ce != nil {
		return nil, ce
	}

	result := &ProblemStatement{ID: opID, Recovered: data.Recovered}
	switch data.Kind {
	case extract.KindProblem:
		result.Statement = data.Problem.ProblemStatement
		result.Constraints = data.Problem.Constraints
		result.ExampleInput = data.Problem.ExampleInput
		result.ExampleOutput = data.Problem.ExampleOutput
	case extract.KindText:
		result.Statement = data.Text
		result.Recovered = true
	default:
		return nil, shapeError("a problem statement", data.Kind)
	}

	p.log.Info("problem extracted", "op", opID, "recovered", result.Recovered)
	return result, nil
}

// GenerateSolution produces code for an extracted problem.
func (p *Pipeline) GenerateSolution(ctx context.Context, problem *ProblemStatement) (*Solution, error) {
	opID := p.newID()

	text, err := p.complete(ctx, opID, "generating solution", prompt.OpSolve, prompt.Data{
		Problem: problem.Render(),
	}, nil)
	if err != nil {
		return nil, err
	}

	sol, err := p.interpretSolution(opID, text)
	if err != nil {
		return nil, err
	}
	p.log.Info("solution generated", "op", opID, "recovered", sol.Recovered)
	return sol, nil
}

// DebugSolution produces a corrected solution from the current code and
// error screenshots.
func (p *Pipeline) DebugSolution(ctx context.Context, problem *ProblemStatement, code string, screenshots [][]byte) (*DebugResult, error) {
	opID := p.newID()
	if len(screenshots) > 0 && !p.backend.Caps().Images {
		return nil, apperrors.NewExecutionError(
			fmt.Sprintf("the %s backend does not accept image inputs", p.backend.Name()),
			"Use a backend with image support for screenshot debugging",
		)
	}

	feedback := "The solution is incorrect or incomplete."
	if len(screenshots) > 0 {
		feedback = "See the attached screenshot(s) of the failing run."
	}
	if problem != nil && problem.Statement != "" {
		feedback += "\n\nThe problem being solved:\n" + problem.Render()
	}

	text, err := p.complete(ctx, opID, "debugging solution", prompt.OpDebug, prompt.Data{
		Code:     code,
		Feedback: feedback,
	}, screenshots)
	if err != nil {
		return nil, err
	}

	sol, err := p.interpretSolution(opID, text)
	if err != nil {
		return nil, err
	}
	p.log.Info("solution debugged", "op", opID, "recovered", sol.Recovered)
	return &DebugResult{Solution: *sol}, nil
}

// complete renders the prompt and runs one backend completion.
func (p *Pipeline) complete(ctx context.Context, opID, action string, op prompt.Operation, data prompt.Data, images [][]byte) (string, error) {
	data.Language = p.language
	rendered, err := prompt.Render(op, data)
	if err != nil {
		return "", apperrors.WrapWithMessage(err, apperrors.Execution, "rendering prompt")
	}

	p.sink.Publish(notify.NewMessage(action, notify.SeverityInfo))
	p.log.Debug("running operation", "op", opID, "action", action, "images", len(images))

	resp, err := p.backend.Complete(ctx, backend.Request{
		Prompt: rendered,
		Model:  p.model,
		Images: images,
	})
	if err != nil {
		return "", err
	}
	return resp.Text, nil
}

// interpret decodes structured data, degrading to recovery when no payload
// is found.
func (p *Pipeline) interpret(text string) (*extract.Data, *apperrors.ClassifiedError) {
	data, ce := extract.Extract(text)
	if ce == nil {
		return data, nil
	}
	data, recoverErr := extract.Recover(text, ce)
	if recoverErr != nil {
		return nil, recoverErr
	}
	return data, nil
}

// interpretSolution maps a response onto a Solution, accepting the code
// shape directly and falling back to free text as a recovered result.
func (p *Pipeline) interpretSolution(opID, text string) (*Solution, error) {
	data, ce := p.interpret(text)
	if ce != nil {
		return nil, ce
	}

	sol := &Solution{ID: opID, Recovered: data.Recovered}
	switch data.Kind {
	case extract.KindSolution:
		sol.Code = data.Solution.Code
		sol.Thoughts = data.Solution.Thoughts
		sol.TimeComplexity = data.Solution.TimeComplexity
		sol.SpaceComplexity = data.Solution.SpaceComplexity
	case extract.KindText:
		sol.Code = data.Text
		sol.Recovered = true
	default:
		return nil, shapeError("a solution", data.Kind)
	}
	return sol, nil
}

func shapeError(want string, got extract.Kind) *apperrors.ClassifiedError {
	ce := apperrors.NewResponseError(
		fmt.Sprintf("expected %s but the backend returned a %s payload", want, got),
		"Retry the operation",
	)
	ce.Code = "SHAPE_MISMATCH"
	return ce
}
