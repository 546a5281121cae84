package adapter

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"path/filepath"
	"regexp"
	"strings"
	"text/template"
	"time"

	openai "github.com/sashabaranov/go-openai"
	"golang.org/x/time/rate"

	m "suitesync.dev/pkg/suitesync/internal/model"
)

// ErrEmptyGeneration is returned when the backend answers with no code.
var ErrEmptyGeneration = errors.New("generation returned no test code")

// DeclarationRequest asks for tests covering one declaration.
type DeclarationRequest struct {
	FilePath    m.Path
	Declaration m.Declaration
	Snippet     string
}

// MutationRequest asks for supplementary tests for a file below the threshold.
type MutationRequest struct {
	FilePath        m.Path
	CoveragePercent float64
	ExistingTests   string
}

// GeneratorAdapter requests test code from a text-generation backend. Results
// are plain test code with any markdown fencing removed.
type GeneratorAdapter interface {
	GenerateForDeclaration(ctx context.Context, req DeclarationRequest) (string, error)
	GenerateMutation(ctx context.Context, req MutationRequest) (string, error)
}

// GeneratorConfig configures an OpenAIGeneratorAdapter.
type GeneratorConfig struct {
	// Endpoint is the base URL of an OpenAI compatible API, e.g. Ollama's /v1.
	Endpoint string
	Model    string
	APIKey   string
	Timeout  time.Duration
	// Rate caps requests per second. Zero disables limiting.
	Rate float64
}

// OpenAIGeneratorAdapter talks to any OpenAI compatible chat completion API.
type OpenAIGeneratorAdapter struct {
	client  *openai.Client
	model   string
	timeout time.Duration
	limiter *rate.Limiter
}

// NewOpenAIGeneratorAdapter constructs the adapter from cfg.
func NewOpenAIGeneratorAdapter(cfg GeneratorConfig) *OpenAIGeneratorAdapter {
	apiKey := cfg.APIKey
	if apiKey == "" {
		// Ollama ignores the key but the client always sends one
		apiKey = "ollama"
	}

	clientConfig := openai.DefaultConfig(apiKey)
	if cfg.Endpoint != "" {
		clientConfig.BaseURL = strings.TrimRight(cfg.Endpoint, "/")
	}

	limiter := rate.NewLimiter(rate.Inf, 1)
	if cfg.Rate > 0 {
		limiter = rate.NewLimiter(rate.Limit(cfg.Rate), 1)
	}

	return &OpenAIGeneratorAdapter{
		client:  openai.NewClientWithConfig(clientConfig),
		model:   cfg.Model,
		timeout: cfg.Timeout,
		limiter: limiter,
	}
}

// GenerateForDeclaration builds the declaration prompt and returns test code.
func (a *OpenAIGeneratorAdapter) GenerateForDeclaration(ctx context.Context, req DeclarationRequest) (string, error) {
	prompt, err := DeclarationPrompt(req)
	if err != nil {
		return "", err
	}

	return a.complete(ctx, prompt)
}

// GenerateMutation builds the coverage-gap prompt and returns test code.
func (a *OpenAIGeneratorAdapter) GenerateMutation(ctx context.Context, req MutationRequest) (string, error) {
	prompt, err := MutationPrompt(req)
	if err != nil {
		return "", err
	}

	return a.complete(ctx, prompt)
}

func (a *OpenAIGeneratorAdapter) complete(ctx context.Context, prompt string) (string, error) {
	if err := a.limiter.Wait(ctx); err != nil {
		return "", fmt.Errorf("wait for rate limiter: %w", err)
	}

	if a.timeout > 0 {
		var cancel context.CancelFunc

		ctx, cancel = context.WithTimeout(ctx, a.timeout)
		defer cancel()
	}

	slog.Debug("Requesting test generation", "model", a.model)

	resp, err := a.client.CreateChatCompletion(ctx, openai.ChatCompletionRequest{
		Model: a.model,
		Messages: []openai.ChatCompletionMessage{
			{Role: openai.ChatMessageRoleSystem, Content: systemPrompt},
			{Role: openai.ChatMessageRoleUser, Content: prompt},
		},
	})
	if err != nil {
		return "", fmt.Errorf("create chat completion: %w", err)
	}

	if len(resp.Choices) == 0 {
		return "", ErrEmptyGeneration
	}

	code := StripCodeFence(resp.Choices[0].Message.Content)
	if code == "" {
		return "", ErrEmptyGeneration
	}

	return code, nil
}

const systemPrompt = "You are a test-generation assistant. You answer with test code only."

type framework struct {
	Name     string
	Language string
	Fence    string
}

func frameworkFor(path m.Path) framework {
	switch strings.ToLower(filepath.Ext(string(path))) {
	case ".go":
		return framework{Name: "Go testing package", Language: "Go", Fence: "go"}
	case ".ts", ".tsx", ".mts", ".cts":
		return framework{Name: "Jest", Language: "TypeScript", Fence: "ts"}
	default:
		return framework{Name: "Jest", Language: "JavaScript", Fence: "js"}
	}
}

var declarationTemplate = template.Must(template.New("declaration").Parse(`Generate {{.Framework.Name}} unit tests for the following {{.Framework.Language}} {{.Kind}}.
File: {{.File}}
Declaration: {{.Kind}} {{.Name}}
Code:
` + "```" + `{{.Framework.Fence}}
{{.Snippet}}
` + "```" + `

Requirements:
- Do NOT add any package, require or import lines.
- Annotate each generated test block with the marker {{.Marker}}
- Cover normal cases and edge cases (invalid inputs, empty collections, nil or null, boundary values).
- If the code is asynchronous, include asynchronous tests.
- Return only the test code, no explanations.
`))

var mutationTemplate = template.Must(template.New("mutation").Parse(`Generate additional {{.Framework.Name}} tests for {{.File}}.
Current coverage: {{printf "%.2f" .Coverage}}%.
Existing tests:
{{if .Existing}}{{.Existing}}{{else}}N/A{{end}}

Focus on branches and edge cases that are likely missing.
Output only the test code and annotate it with {{.Marker}}
`))

// DeclarationPrompt renders the prompt for one declaration.
func DeclarationPrompt(req DeclarationRequest) (string, error) {
	var sb strings.Builder

	err := declarationTemplate.Execute(&sb, map[string]any{
		"Framework": frameworkFor(req.FilePath),
		"File":      req.FilePath,
		"Kind":      req.Declaration.Kind,
		"Name":      req.Declaration.DisplayName(),
		"Snippet":   req.Snippet,
		"Marker":    Marker(req.Declaration.Identifier),
	})
	if err != nil {
		return "", fmt.Errorf("render declaration prompt: %w", err)
	}

	return sb.String(), nil
}

// MutationPrompt renders the coverage-gap prompt for one file.
func MutationPrompt(req MutationRequest) (string, error) {
	var sb strings.Builder

	err := mutationTemplate.Execute(&sb, map[string]any{
		"Framework": frameworkFor(req.FilePath),
		"File":      req.FilePath,
		"Coverage":  req.CoveragePercent,
		"Existing":  strings.TrimSpace(req.ExistingTests),
		"Marker":    Marker(m.MutationIdentifier),
	})
	if err != nil {
		return "", fmt.Errorf("render mutation prompt: %w", err)
	}

	return sb.String(), nil
}

var fencePattern = regexp.MustCompile("(?s)```[A-Za-z0-9_+-]*[ \\t]*\\r?\\n(.*?)```")

// StripCodeFence returns the content of every fenced block joined together, or
// the trimmed text when it has no fences.
func StripCodeFence(text string) string {
	matches := fencePattern.FindAllStringSubmatch(text, -1)
	if len(matches) == 0 {
		return strings.TrimSpace(text)
	}

	blocks := make([]string, 0, len(matches))
	for _, match := range matches {
		if block := strings.TrimSpace(match[1]); block != "" {
			blocks = append(blocks, block)
		}
	}

	return strings.Join(blocks, "\n\n")
}
