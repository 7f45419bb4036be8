package edugo

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"regexp"
	"strings"

	openai "github.com/sashabaranov/go-openai"
)

// Generator produces a batch of questions from extracted document text.
// Implementations may block on network I/O and must honor ctx cancellation;
// callers absorb failures and degrade to placeholder sets.
type Generator interface {
	Generate(ctx context.Context, text string, n int) ([]Question, error)
}

// OpenAIGenerator generates questions with a chat completion tool call.
type OpenAIGenerator struct {
	client   *openai.Client
	model    string
	maxChars int
	logDir   string
}

// NewOpenAIGenerator creates a generator. Source text is truncated to
// maxChars before prompting. logDir, when non-empty, receives one request/
// response log per generation run.
func NewOpenAIGenerator(apiKey, model string, maxChars int, logDir string) *OpenAIGenerator {
	if model == "" {
		model = openai.GPT4o
	}
	return &OpenAIGenerator{
		client:   openai.NewClient(apiKey),
		model:    model,
		maxChars: maxChars,
		logDir:   logDir,
	}
}

// jsonArray locates a JSON array of objects inside a free-form model reply,
// for the fallback path when the model answers in plain content instead of
// the tool call.
var jsonArray = regexp.MustCompile(`(?s)\[\s*\{.*\}\s*\]`)

// Generate asks the model for exactly n questions about the given text.
func (g *OpenAIGenerator) Generate(ctx context.Context, text string, n int) ([]Question, error) {
	if g.maxChars > 0 && len(text) > g.maxChars {
		text = text[:g.maxChars]
	}

	prompt := g.buildPrompt(text, n)

	var genLog *GenLogger
	if g.logDir != "" {
		var err error
		genLog, err = NewGenLogger(g.logDir, CacheKey(text, n), len(text), n)
		if err != nil {
			log.Printf("Failed to create generation log: %v", err)
		} else {
			defer genLog.Close()
			genLog.LogRequest(prompt)
		}
	}

	resp, err := g.client.CreateChatCompletion(
		ctx,
		openai.ChatCompletionRequest{
			Model: g.model,
			Messages: []openai.ChatCompletionMessage{
				{
					Role:    openai.ChatMessageRoleSystem,
					Content: "You are an expert quiz question generator. Generate questions strictly from the provided source text.",
				},
				{
					Role:    openai.ChatMessageRoleUser,
					Content: prompt,
				},
			},
			Tools: []openai.Tool{
				{
					Type: openai.ToolTypeFunction,
					Function: &openai.FunctionDefinition{
						Name:        "submit_questions",
						Description: "Submit generated quiz questions",
						Parameters: map[string]interface{}{
							"type": "object",
							"properties": map[string]interface{}{
								"questions": map[string]interface{}{
									"type": "array",
									"items": map[string]interface{}{
										"type": "object",
										"properties": map[string]interface{}{
											"question": map[string]interface{}{
												"type":        "string",
												"description": "The question text",
											},
											"type": map[string]interface{}{
												"type":        "string",
												"enum":        []string{"multiple", "true_false"},
												"description": "Question kind",
											},
											"options": map[string]interface{}{
												"type": "array",
												"items": map[string]interface{}{
													"type": "string",
												},
												"description": "Answer options; for multiple, 5 options labeled 'A.' through 'E.'",
											},
											"correct": map[string]interface{}{
												"type":        "string",
												"description": "For multiple the letter of the correct option, for true_false the correct option text",
											},
										},
										"required": []string{"question", "type", "options", "correct"},
									},
								},
							},
							"required": []string{"questions"},
						},
					},
				},
			},
			ToolChoice: openai.ToolChoice{
				Type: openai.ToolTypeFunction,
				Function: openai.ToolFunction{
					Name: "submit_questions",
				},
			},
		},
	)

	if err != nil {
		return nil, fmt.Errorf("failed to generate questions: %w", err)
	}

	if len(resp.Choices) == 0 {
		return nil, fmt.Errorf("no response from model")
	}

	choice := resp.Choices[0]
	var questions []Question
	if len(choice.Message.ToolCalls) > 0 {
		toolCall := choice.Message.ToolCalls[0]
		if genLog != nil {
			genLog.LogResponse(toolCall.Function.Arguments)
		}
		if toolCall.Function.Name != "submit_questions" {
			return nil, fmt.Errorf("unexpected tool call: %s", toolCall.Function.Name)
		}
		var toolArgs struct {
			Questions []Question `json:"questions"`
		}
		if err := json.Unmarshal([]byte(toolCall.Function.Arguments), &toolArgs); err != nil {
			return nil, fmt.Errorf("failed to parse tool arguments: %w", err)
		}
		questions = toolArgs.Questions
	} else {
		// Some models reply in plain content; salvage the first JSON array.
		content := choice.Message.Content
		if genLog != nil {
			genLog.LogResponse(content)
		}
		raw := jsonArray.FindString(content)
		if raw == "" {
			return nil, fmt.Errorf("no extractable JSON in response")
		}
		if err := json.Unmarshal([]byte(raw), &questions); err != nil {
			return nil, fmt.Errorf("failed to parse response JSON: %w", err)
		}
	}

	VerboseLog("Generated %d questions (%d requested)", len(questions), n)
	return questions, nil
}

func (g *OpenAIGenerator) buildPrompt(text string, n int) string {
	var sb strings.Builder

	sb.WriteString(fmt.Sprintf("Generate exactly %d quiz questions based on the following source text.\n\n", n))
	sb.WriteString("Requirements:\n")
	sb.WriteString("- Each question has the keys: \"question\", \"type\", \"options\", \"correct\"\n")
	sb.WriteString("- type is either \"multiple\" (5 options labeled \"A.\" through \"E.\") or \"true_false\"\n")
	sb.WriteString("- For multiple, \"correct\" is the letter of the correct option; for true_false it is the correct option text\n")
	sb.WriteString("- Questions must be answerable from the source text alone\n")
	sb.WriteString("- Use the submit_questions tool to return the questions, nothing else\n\n")
	sb.WriteString("Source text:\n")
	sb.WriteString(text)

	return sb.String()
}

// StaticGenerator ignores the source text and serves placeholder questions.
// Used when no API key is configured, and as a fake in tests.
type StaticGenerator struct{}

func (StaticGenerator) Generate(ctx context.Context, text string, n int) ([]Question, error) {
	return PlaceholderSet(n), nil
}
