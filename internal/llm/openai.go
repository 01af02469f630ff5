package llm

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"regexp"
	"strings"
	"time"

	"github.com/sashabaranov/go-openai"
)

// OpenAIProvider talks to OpenAI or any OpenAI-compatible endpoint
type OpenAIProvider struct {
	client *openai.Client
	config Config
	name   string
}

// NewOpenAIProvider creates a new OpenAI provider
func NewOpenAIProvider(config Config) (*OpenAIProvider, error) {
	if config.APIKey == "" {
		return nil, fmt.Errorf("OpenAI API key is required")
	}

	clientConfig := openai.DefaultConfig(config.APIKey)
	if config.BaseURL != "" {
		clientConfig.BaseURL = config.BaseURL
	}
	if config.HTTPProxy != "" || config.HTTPSProxy != "" {
		clientConfig.HTTPClient = &http.Client{
			Transport: &http.Transport{Proxy: newProxyFunc(config.HTTPProxy, config.HTTPSProxy, config.NoProxy)},
		}
	}

	return &OpenAIProvider{
		client: openai.NewClientWithConfig(clientConfig),
		config: config,
		name:   "openai",
	}, nil
}

// Name returns the provider name
func (p *OpenAIProvider) Name() string {
	return p.name
}

// IsAvailable lists models as a lightweight reachability check
func (p *OpenAIProvider) IsAvailable(ctx context.Context) bool {
	if _, err := p.client.ListModels(ctx); err != nil {
		slog.Warn("LLM provider check failed", slog.String("provider", p.name), slog.Any("error", err))
		return false
	}
	return true
}

// Summarize narrates the report using the Chat Completions API
func (p *OpenAIProvider) Summarize(ctx context.Context, req SummarizeRequest) (*SummarizeResponse, error) {
	prompt := req.Prompt
	if prompt == "" {
		prompt = BuildPrompt(req.Report)
	}

	model := req.Model
	if model == "" {
		model = p.config.Model
	}
	if model == "" {
		model = openai.GPT4oMini
	}

	maxTokens := req.MaxTokens
	if maxTokens == 0 {
		maxTokens = p.config.MaxTokens
	}
	if maxTokens == 0 {
		maxTokens = 600
	}

	timeout := time.Duration(p.config.Timeout) * time.Second
	if timeout == 0 {
		timeout = 30 * time.Second
	}
	ctxWithTimeout, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	chatReq := openai.ChatCompletionRequest{
		Model: model,
		Messages: []openai.ChatCompletionMessage{
			{
				Role:    openai.ChatMessageRoleSystem,
				Content: "You explain induced boolean rules in plain language and only use the attribute vocabulary you are given.",
			},
			{
				Role:    openai.ChatMessageRoleUser,
				Content: prompt,
			},
		},
		MaxTokens:   maxTokens,
		Temperature: 0.2,
	}

	resp, err := p.client.CreateChatCompletion(ctxWithTimeout, chatReq)
	if err != nil {
		return nil, fmt.Errorf("%s API error: %w", p.name, err)
	}
	if len(resp.Choices) == 0 {
		return nil, fmt.Errorf("no response from %s", p.name)
	}

	summary := strings.TrimSpace(resp.Choices[0].Message.Content)
	cited := extractLiterals(summary)

	if p.config.StrictVocabulary {
		if lit, ok := firstUnknown(cited, req.Vocabulary); ok {
			return nil, fmt.Errorf("VOCABULARY LEAK: LLM cited unknown literal: %s", lit)
		}
	}

	return &SummarizeResponse{
		Summary:       summary,
		CitedLiterals: cited,
		Model:         model,
		TokensUsed:    resp.Usage.TotalTokens,
	}, nil
}

var literalPattern = regexp.MustCompile(`([A-Za-z_][\w-]*)\s*(!=|=)\s*([\w][\w.-]*)`)

// extractLiterals finds a=v and a!=v mentions, deduplicated in order
func extractLiterals(text string) []string {
	seen := make(map[string]bool)
	var out []string
	for _, m := range literalPattern.FindAllStringSubmatch(text, -1) {
		val := strings.TrimRight(m[3], ".-")
		lit := m[1] + m[2] + val
		if !seen[lit] {
			seen[lit] = true
			out = append(out, lit)
		}
	}
	return out
}

// firstUnknown returns the first cited literal outside vocab
func firstUnknown(cited []string, vocab map[string][]string) (string, bool) {
	for _, lit := range cited {
		m := literalPattern.FindStringSubmatch(lit)
		if m == nil {
			return lit, true
		}
		if !contains(vocab[m[1]], m[3]) {
			return lit, true
		}
	}
	return "", false
}

func contains(slice []string, item string) bool {
	for _, s := range slice {
		if s == item {
			return true
		}
	}
	return false
}
