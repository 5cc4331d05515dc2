package backend

import (
	"context"
	"encoding/base64"
	"strings"

	"github.com/anthropics/anthropic-sdk-go"
	"github.com/anthropics/anthropic-sdk-go/option"

	apperrors "github.com/glintlabs/glint/internal/errors"
)

const (
	anthropicOAuthBetaHeader = "oauth-2025-04-20"

	defaultAnthropicModel     = "claude-sonnet-4-5"
	defaultAnthropicMaxTokens = 4096
)

// anthropicModels are the models the hosted backend advertises. The API has
// no cheap list endpoint worth a call per `glint models`, so this is static.
var anthropicModels = []string{
	"claude-sonnet-4-5",
	"claude-opus-4-1",
	"claude-haiku-4-5",
}

// Anthropic completes requests against the hosted Anthropic API.
type Anthropic struct {
	client     *anthropic.Client
	model      string
	oauthToken bool
	hasToken   bool
}

// NewAnthropic builds the hosted backend from a token. Both API keys and
// OAuth access tokens work; OAuth tokens (sk-ant-oat prefix) additionally
// require the beta header on every request.
func NewAnthropic(token, model string) *Anthropic {
	if model == "" {
		model = defaultAnthropicModel
	}
	client := anthropic.NewClient(
		option.WithAuthToken(token),
		option.WithBaseURL("https://api.anthropic.com"),
	)
	return &Anthropic{
		client:     &client,
		model:      model,
		oauthToken: isOAuthToken(token),
		hasToken:   strings.TrimSpace(token) != "",
	}
}

func (a *Anthropic) Name() string { return "anthropic" }

func (a *Anthropic) Caps() Caps { return Caps{Images: true} }

// Validate only checks for a credential; it never spends tokens.
func (a *Anthropic) Validate(ctx context.Context) error {
	if !a.hasToken {
		return apperrors.NewAuthenticationError(
			"no Anthropic API credential configured",
			"Set the API key environment variable or switch backends with 'glint config set backend claude-cli'",
		)
	}
	return nil
}

func (a *Anthropic) Complete(ctx context.Context, req Request) (*Response, error) {
	if err := a.Validate(ctx); err != nil {
		return nil, err
	}

	model := req.Model
	if model == "" {
		model = a.model
	}
	maxTokens := int64(req.MaxTokens)
	if maxTokens <= 0 {
		maxTokens = defaultAnthropicMaxTokens
	}

	blocks := make([]anthropic.ContentBlockParamUnion, 0, len(req.Images)+1)
	for _, img := range req.Images {
		encoded := base64.StdEncoding.EncodeToString(img)
		blocks = append(blocks, anthropic.NewImageBlockBase64("image/png", encoded))
	}
	blocks = append(blocks, anthropic.NewTextBlock(req.Prompt))

	params := anthropic.MessageNewParams{
		Model:     anthropic.Model(model),
		MaxTokens: maxTokens,
		Messages:  []anthropic.MessageParam{anthropic.NewUserMessage(blocks...)},
	}

	var opts []option.RequestOption
	if a.oauthToken {
		opts = append(opts, option.WithHeader("anthropic-beta", anthropicOAuthBetaHeader))
	}

	resp, err := a.client.Messages.New(ctx, params, opts...)
	if err != nil {
		return nil, classifyAPIError(err)
	}

	var text strings.Builder
	for _, block := range resp.Content {
		if block.Type == "text" {
			text.WriteString(block.AsText().Text)
		}
	}
	if strings.TrimSpace(text.String()) == "" {
		return nil, apperrors.EmptyResponse()
	}
	return &Response{Text: text.String(), Model: model}, nil
}

func (a *Anthropic) Models(ctx context.Context) ([]string, error) {
	models := make([]string, len(anthropicModels))
	copy(models, anthropicModels)
	return models, nil
}

func isOAuthToken(token string) bool {
	return strings.HasPrefix(strings.TrimSpace(token), "sk-ant-oat")
}

// classifyAPIError reuses the phrase-based classifier so hosted API failures
// land in the same taxonomy as CLI failures. The exit code slot carries 1:
// no process was involved.
func classifyAPIError(err error) *apperrors.ClassifiedError {
	if ce := apperrors.AsClassified(err); ce != nil {
		return ce
	}
	return apperrors.Classify(err.Error(), 1).WithCause(err)
}
