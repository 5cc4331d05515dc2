package backend

import (
	"context"
	"fmt"
	"strings"

	"github.com/openai/openai-go/v3"
	"github.com/openai/openai-go/v3/option"
	"github.com/openai/openai-go/v3/responses"

	apperrors "github.com/glintlabs/glint/internal/errors"
)

const defaultOpenAIModel = "gpt-5.2"

var openAIModels = []string{
	"gpt-5.2",
	"gpt-5.2-mini",
	"o4-mini",
}

// OpenAI completes requests against the OpenAI Responses API. Text only:
// extraction requests with screenshots must go through a backend with image
// support.
type OpenAI struct {
	client   *openai.Client
	model    string
	hasToken bool
}

// NewOpenAI builds the hosted backend from an API key.
func NewOpenAI(apiKey, model string) *OpenAI {
	if model == "" {
		model = defaultOpenAIModel
	}
	client := openai.NewClient(option.WithAPIKey(apiKey))
	return &OpenAI{
		client:   &client,
		model:    model,
		hasToken: strings.TrimSpace(apiKey) != "",
	}
}

func (o *OpenAI) Name() string { return "openai" }

func (o *OpenAI) Caps() Caps { return Caps{} }

func (o *OpenAI) Validate(ctx context.Context) error {
	if !o.hasToken {
		return apperrors.NewAuthenticationError(
			"no OpenAI API credential configured",
			"Set OPENAI_API_KEY or switch backends with 'glint config set backend claude-cli'",
		)
	}
	return nil
}

func (o *OpenAI) Complete(ctx context.Context, req Request) (*Response, error) {
	if err := o.Validate(ctx); err != nil {
		return nil, err
	}
	if len(req.Images) > 0 {
		return nil, apperrors.NewExecutionError(
			"the openai backend does not accept image inputs",
			"Use the claude-cli or anthropic backend for screenshot extraction",
		)
	}

	model := req.Model
	if model == "" {
		model = o.model
	}

	params := responses.ResponseNewParams{
		Model: model,
		Input: responses.ResponseNewParamsInputUnion{
			OfInputItemList: responses.ResponseInputParam{
				{
					OfMessage: &responses.EasyInputMessageParam{
						Role:    responses.EasyInputMessageRoleUser,
						Content: responses.EasyInputMessageContentUnionParam{OfString: openai.Opt(req.Prompt)},
					},
				},
			},
		},
		Store: openai.Opt(false),
	}
	if req.MaxTokens > 0 {
		params.MaxOutputTokens = openai.Opt(int64(req.MaxTokens))
	}

	stream := o.client.Responses.NewStreaming(ctx, params)
	if stream == nil {
		return nil, apperrors.NewNetworkError("openai API call returned an empty stream")
	}
	defer stream.Close()

	var finalResp *responses.Response
	for stream.Next() {
		switch event := stream.Current().AsAny().(type) {
		case responses.ResponseCompletedEvent:
			resp := event.Response
			finalResp = &resp
		case responses.ResponseIncompleteEvent:
			resp := event.Response
			finalResp = &resp
		case responses.ResponseErrorEvent:
			return nil, classifyAPIError(fmt.Errorf("response error (%s): %s", event.Code, event.Message))
		case responses.ResponseFailedEvent:
			return nil, classifyAPIError(fmt.Errorf("response failed with status %q", event.Response.Status))
		}
	}
	if err := stream.Err(); err != nil {
		return nil, classifyAPIError(err)
	}
	if finalResp == nil {
		return nil, apperrors.NewResponseError("stream ended without a response payload")
	}

	var text strings.Builder
	for _, item := range finalResp.Output {
		if item.Type != "message" {
			continue
		}
		for _, c := range item.Content {
			if c.Type == "output_text" {
				text.WriteString(c.Text)
			}
		}
	}
	if strings.TrimSpace(text.String()) == "" {
		return nil, apperrors.EmptyResponse()
	}
	return &Response{Text: text.String(), Model: model}, nil
}

func (o *OpenAI) Models(ctx context.Context) ([]string, error) {
	models := make([]string, len(openAIModels))
	copy(models, openAIModels)
	return models, nil
}
