package summary

import (
	"context"
	"errors"
	"fmt"
	"net/url"
	"strings"

	"github.com/go-resty/resty/v2"
	jsoniter "github.com/json-iterator/go"
	"go.uber.org/zap"

	repoerrors "github.com/temirov/gitdigest/internal/repos/errors"
)

const (
	azureCompletionsPathTemplateConstant  = "%s/openai/deployments/%s/chat/completions"
	compatibleCompletionsPathTemplate     = "%s/chat/completions"
	apiVersionQueryParameterConstant      = "api-version"
	apiKeyHeaderConstant                  = "api-key"
	contentTypeHeaderConstant             = "Content-Type"
	jsonContentTypeConstant               = "application/json"
	userPromptTemplateConstant            = "Please summarize the following git commit history on %s:\n\n%s"
	encodeRequestErrorTemplateConstant    = "failed to encode completion request: %w"
	decodeResponseErrorTemplateConstant   = "failed to decode completion response: %w"
	apiReportedErrorTemplateConstant      = "API error: %s"
	unexpectedStatusErrorTemplateConstant = "unexpected response: %s"
	emptyChoicesErrorMessageConstant      = "response contained no choices"
	missingEndpointErrorMessageConstant   = "summary endpoint is not configured"

	logMessageSendingRequest   = "Requesting commit summary"
	logMessageReceivedResponse = "Received commit summary"
	logFieldEndpoint           = "endpoint"
	logFieldModel              = "model"
	logFieldPromptTokens       = "prompt_tokens"
	logFieldCompletionTokens   = "completion_tokens"
)

var (
	jsonCodec = jsoniter.ConfigCompatibleWithStandardLibrary

	errEmptyChoices    = errors.New(emptyChoicesErrorMessageConstant)
	errMissingEndpoint = errors.New(missingEndpointErrorMessageConstant)
)

// Summarizer turns a digest into a short activity summary.
type Summarizer interface {
	Summarize(executionContext context.Context, digestText string, dateLabel string) (string, error)
}

// Client calls a chat-completions endpoint once per request.
type Client struct {
	config     Config
	httpClient *resty.Client
	logger     *zap.Logger
}

// NewClient constructs a Client from config after sanitizing it.
func NewClient(config Config, logger *zap.Logger) *Client {
	if logger == nil {
		logger = zap.NewNop()
	}
	sanitizedConfig := config.Sanitize()

	httpClient := resty.New().
		SetTimeout(sanitizedConfig.Timeout).
		SetRetryCount(0).
		SetJSONMarshaler(jsonCodec.Marshal).
		SetJSONUnmarshaler(jsonCodec.Unmarshal)

	return &Client{config: sanitizedConfig, httpClient: httpClient, logger: logger}
}

// BuildUserPrompt renders the user message sent alongside the system prompt.
func BuildUserPrompt(digestText string, dateLabel string) string {
	return fmt.Sprintf(userPromptTemplateConstant, dateLabel, digestText)
}

// Summarize sends digestText for summarization. Every failure is reported as SummaryServiceError.
func (client *Client) Summarize(executionContext context.Context, digestText string, dateLabel string) (string, error) {
	requestURL := client.completionsURL()
	if len(client.config.Endpoint) == 0 {
		return "", repoerrors.SummaryServiceError{Endpoint: requestURL, Cause: errMissingEndpoint}
	}

	requestPayload := chatCompletionRequest{
		Messages: []chatMessage{
			{Role: roleSystemConstant, Content: client.config.SystemPrompt},
			{Role: roleUserConstant, Content: BuildUserPrompt(digestText, dateLabel)},
		},
		Temperature: client.config.Temperature,
		MaxTokens:   client.config.MaxTokens,
	}
	if !client.config.UsesAzureDeployment() {
		requestPayload.Model = client.config.Model
	}

	encodedPayload, encodeError := jsonCodec.Marshal(requestPayload)
	if encodeError != nil {
		return "", repoerrors.SummaryServiceError{Endpoint: requestURL, Cause: fmt.Errorf(encodeRequestErrorTemplateConstant, encodeError)}
	}

	request := client.httpClient.R().
		SetContext(executionContext).
		SetHeader(contentTypeHeaderConstant, jsonContentTypeConstant).
		SetBody(encodedPayload)
	if client.config.UsesAzureDeployment() {
		request.SetHeader(apiKeyHeaderConstant, client.config.APIKey).
			SetQueryParam(apiVersionQueryParameterConstant, client.config.APIVersion)
	} else {
		request.SetAuthToken(client.config.APIKey)
	}

	client.logger.Debug(logMessageSendingRequest,
		zap.String(logFieldEndpoint, requestURL),
		zap.String(logFieldModel, client.config.Model),
	)

	response, requestError := request.Post(requestURL)
	if requestError != nil {
		return "", repoerrors.SummaryServiceError{Endpoint: requestURL, Cause: requestError}
	}

	var responsePayload chatCompletionResponse
	decodeError := jsonCodec.Unmarshal(response.Body(), &responsePayload)

	if response.IsError() {
		cause := fmt.Errorf(unexpectedStatusErrorTemplateConstant, response.Status())
		if decodeError == nil && responsePayload.Error != nil {
			cause = fmt.Errorf(apiReportedErrorTemplateConstant, responsePayload.Error.Message)
		}
		return "", repoerrors.SummaryServiceError{Endpoint: requestURL, StatusCode: response.StatusCode(), Cause: cause}
	}
	if decodeError != nil {
		return "", repoerrors.SummaryServiceError{Endpoint: requestURL, StatusCode: response.StatusCode(), Cause: fmt.Errorf(decodeResponseErrorTemplateConstant, decodeError)}
	}
	if responsePayload.Error != nil {
		return "", repoerrors.SummaryServiceError{Endpoint: requestURL, StatusCode: response.StatusCode(), Cause: fmt.Errorf(apiReportedErrorTemplateConstant, responsePayload.Error.Message)}
	}
	if len(responsePayload.Choices) == 0 {
		return "", repoerrors.SummaryServiceError{Endpoint: requestURL, StatusCode: response.StatusCode(), Cause: errEmptyChoices}
	}

	client.logger.Debug(logMessageReceivedResponse,
		zap.String(logFieldEndpoint, requestURL),
		zap.Int(logFieldPromptTokens, responsePayload.Usage.PromptTokens),
		zap.Int(logFieldCompletionTokens, responsePayload.Usage.CompletionTokens),
	)

	return strings.TrimSpace(responsePayload.Choices[0].Message.Content), nil
}

func (client *Client) completionsURL() string {
	if client.config.UsesAzureDeployment() {
		return fmt.Sprintf(azureCompletionsPathTemplateConstant, client.config.Endpoint, url.PathEscape(client.config.Deployment))
	}
	return fmt.Sprintf(compatibleCompletionsPathTemplate, client.config.Endpoint)
}
