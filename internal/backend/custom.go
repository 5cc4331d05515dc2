package backend

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"os"
	"strings"
	"time"

	"gopkg.in/yaml.v3"

	apperrors "github.com/glintlabs/glint/internal/errors"
)

const (
	defaultCustomTimeout = 60 * time.Second

	// maxCustomResponseBytes bounds how much of a response body is read.
	maxCustomResponseBytes = 4 << 20
)

// CustomDefinition is the YAML description of a user-provided HTTP backend.
// Header values run through environment expansion so API keys stay out of
// the file:
//
//	name: local-llm
//	url: http://localhost:8080/v1/complete
//	headers:
//	  Authorization: Bearer ${LOCAL_LLM_KEY}
//	prompt_field: prompt
//	response_field: result.text
//	models: [llama-3.3-70b]
type CustomDefinition struct {
	Name          string            `yaml:"name"`
	URL           string            `yaml:"url"`
	Method        string            `yaml:"method"`
	Headers       map[string]string `yaml:"headers"`
	PromptField   string            `yaml:"prompt_field"`
	ModelField    string            `yaml:"model_field"`
	ResponseField string            `yaml:"response_field"`
	Model         string            `yaml:"model"`
	Models        []string          `yaml:"models"`
	TimeoutSecs   int               `yaml:"timeout"`
}

// Custom is an HTTP completion backend built from a CustomDefinition.
type Custom struct {
	def    CustomDefinition
	client *http.Client
}

// LoadCustom reads and validates a backend definition file.
func LoadCustom(path string) (*Custom, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading backend definition: %w", err)
	}
	var def CustomDefinition
	if err := yaml.Unmarshal(data, &def); err != nil {
		return nil, fmt.Errorf("parsing backend definition %s: %w", path, err)
	}
	return NewCustom(def)
}

// NewCustom validates def and applies defaults.
func NewCustom(def CustomDefinition) (*Custom, error) {
	if strings.TrimSpace(def.Name) == "" {
		return nil, fmt.Errorf("backend definition is missing a name")
	}
	if _, err := url.ParseRequestURI(def.URL); err != nil {
		return nil, fmt.Errorf("backend %s has an invalid url: %w", def.Name, err)
	}
	if def.Method == "" {
		def.Method = http.MethodPost
	}
	if def.PromptField == "" {
		def.PromptField = "prompt"
	}
	if def.ModelField == "" {
		def.ModelField = "model"
	}
	if def.ResponseField == "" {
		def.ResponseField = "text"
	}

	timeout := defaultCustomTimeout
	if def.TimeoutSecs > 0 {
		timeout = time.Duration(def.TimeoutSecs) * time.Second
	}
	return &Custom{
		def:    def,
		client: &http.Client{Timeout: timeout},
	}, nil
}

func (c *Custom) Name() string { return c.def.Name }

func (c *Custom) Caps() Caps { return Caps{} }

// Validate only re-checks the definition; remote reachability is left to
// the first completion so doctor runs stay offline.
func (c *Custom) Validate(ctx context.Context) error {
	if _, err := url.ParseRequestURI(c.def.URL); err != nil {
		return apperrors.WrapWithMessage(err, apperrors.Execution,
			fmt.Sprintf("backend %s has an invalid url", c.def.Name))
	}
	return nil
}

func (c *Custom) Complete(ctx context.Context, req Request) (*Response, error) {
	if len(req.Images) > 0 {
		return nil, apperrors.NewExecutionError(
			fmt.Sprintf("the %s backend does not accept image inputs", c.def.Name),
			"Use the claude-cli or anthropic backend for screenshot extraction",
		)
	}

	model := req.Model
	if model == "" {
		model = c.def.Model
	}

	body := map[string]any{c.def.PromptField: req.Prompt}
	if model != "" {
		body[c.def.ModelField] = model
	}
	payload, err := json.Marshal(body)
	if err != nil {
		return nil, apperrors.WrapWithMessage(err, apperrors.Execution, "encoding request body")
	}

	httpReq, err := http.NewRequestWithContext(ctx, c.def.Method, c.def.URL, bytes.NewReader(payload))
	if err != nil {
		return nil, apperrors.WrapWithMessage(err, apperrors.Execution, "building request")
	}
	httpReq.Header.Set("Content-Type", "application/json")
	for k, v := range c.def.Headers {
		httpReq.Header.Set(k, os.ExpandEnv(v))
	}

	resp, err := c.client.Do(httpReq)
	if err != nil {
		if ctx.Err() != nil {
			return nil, apperrors.Aborted()
		}
		return nil, apperrors.WrapWithMessage(err, apperrors.Network,
			fmt.Sprintf("calling %s backend", c.def.Name))
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(io.LimitReader(resp.Body, maxCustomResponseBytes))
	if err != nil {
		return nil, apperrors.WrapWithMessage(err, apperrors.Network, "reading response body")
	}

	if ce := classifyHTTPStatus(c.def.Name, resp.StatusCode, raw); ce != nil {
		return nil, ce
	}

	text, err := extractField(raw, c.def.ResponseField)
	if err != nil {
		return nil, err
	}
	if strings.TrimSpace(text) == "" {
		return nil, apperrors.EmptyResponse()
	}
	return &Response{Text: text, Model: model}, nil
}

func (c *Custom) Models(ctx context.Context) ([]string, error) {
	models := make([]string, len(c.def.Models))
	copy(models, c.def.Models)
	return models, nil
}

// classifyHTTPStatus maps an HTTP status onto the failure taxonomy. Returns
// nil for 2xx.
func classifyHTTPStatus(name string, status int, body []byte) *apperrors.ClassifiedError {
	if status >= 200 && status < 300 {
		return nil
	}
	detail := strings.TrimSpace(string(body))
	if len(detail) > 200 {
		detail = detail[:200]
	}
	msg := fmt.Sprintf("%s backend returned HTTP %d", name, status)
	if detail != "" {
		msg += ": " + detail
	}

	switch {
	case status == http.StatusUnauthorized || status == http.StatusForbidden:
		return apperrors.NewAuthenticationError(msg,
			"Check the credentials referenced in the backend definition headers")
	case status == http.StatusTooManyRequests:
		ce := apperrors.NewQuotaError(msg, "Wait before retrying")
		ce.Code = "RATE_LIMITED"
		ce.Retryable = true
		return ce
	case status >= 500:
		return apperrors.NewNetworkError(msg, "The backend may be down; retry shortly")
	default:
		return apperrors.NewExecutionError(msg)
	}
}

// extractField walks a dot-separated path through a JSON object.
func extractField(raw []byte, path string) (string, error) {
	var doc any
	if err := json.Unmarshal(raw, &doc); err != nil {
		preview := strings.TrimSpace(string(raw))
		if len(preview) > 120 {
			preview = preview[:120]
		}
		return "", apperrors.NoStructuredData(preview)
	}

	cur := doc
	for _, part := range strings.Split(path, ".") {
		obj, ok := cur.(map[string]any)
		if !ok {
			return "", apperrors.NewResponseError(
				fmt.Sprintf("response has no %q field", path))
		}
		cur, ok = obj[part]
		if !ok {
			return "", apperrors.NewResponseError(
				fmt.Sprintf("response has no %q field", path))
		}
	}

	text, ok := cur.(string)
	if !ok {
		return "", apperrors.NewResponseError(
			fmt.Sprintf("response field %q is not a string", path))
	}
	return text, nil
}
