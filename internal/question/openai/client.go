// Package openai generates question snapshots with the OpenAI chat
// completions API. It implements question.Generator so the pool manager can
// use it interchangeably with the local strategy generator.
package openai

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/avast/retry-go"
	"resty.dev/v3"

	"github.com/t-yamaguchi/revoca/internal/question"
	"github.com/t-yamaguchi/revoca/internal/word"
)

type Client struct {
	httpClient       *resty.Client
	model            string
	maxRetryAttempts uint
}

func NewClient(apiKey, model string, retryAttempts uint) *Client {
	client := resty.New()
	client.SetBaseURL("https://api.openai.com/v1")
	client.SetHeader("Authorization", "Bearer "+apiKey)
	client.SetHeader("Content-Type", "application/json")

	return &Client{
		httpClient:       client,
		model:            model,
		maxRetryAttempts: retryAttempts,
	}
}

func (client *Client) Close() error {
	return client.httpClient.Close()
}

// GetModel returns the model name configured for this client
func (client *Client) GetModel() string {
	return client.model
}

type ChatCompletionRequest struct {
	Model       string    `json:"model"`
	Messages    []Message `json:"messages"`
	Temperature float32   `json:"temperature,omitempty"`
}

type Message struct {
	Role    Role   `json:"role"`
	Content string `json:"content"`
}

type Role string

const (
	RoleSystem    Role = "system"
	RoleUser      Role = "user"
	RoleAssistant Role = "assistant"
)

type ChatCompletionResponse struct {
	ID      string   `json:"id"`
	Object  string   `json:"object"`
	Created int64    `json:"created"`
	Model   string   `json:"model"`
	Choices []Choice `json:"choices"`
	Usage   Usage    `json:"usage"`
}

type Choice struct {
	Index        int           `json:"index"`
	Message      ChoiceMessage `json:"message"`
	FinishReason string        `json:"finish_reason"`
}

type ChoiceMessage struct {
	Role    Role   `json:"role"`
	Content string `json:"content"`
}

type Usage struct {
	PromptTokens     int `json:"prompt_tokens"`
	CompletionTokens int `json:"completion_tokens"`
	TotalTokens      int `json:"total_tokens"`
}

// isRetryableError determines if an error should trigger a retry
func isRetryableError(err error) bool {
	if err == nil {
		return false
	}

	// Retry on JSON parsing errors as they might be due to incomplete responses
	errStr := err.Error()
	if strings.Contains(errStr, "json.Unmarshal") || strings.Contains(errStr, "unexpected end of JSON input") {
		return true
	}

	// Retry on network-related errors
	if strings.Contains(errStr, "connection refused") || strings.Contains(errStr, "i/o timeout") {
		return true
	}

	// Retry on 5xx errors (server errors)
	if strings.Contains(errStr, "response error 5") {
		return true
	}

	// Retry on rate limiting (429)
	if strings.Contains(errStr, "response error 429") {
		return true
	}

	return false
}

const systemPrompt = `You are a vocabulary exercise writer for a spaced repetition trainer.

You will receive one English word with its definitions and example sentences,
plus a list of other vocabulary words that may be used as distractors.

Produce the requested number of practice questions. Each question is ONE JSON
object with these fields:
- "question_type": one of "meaning_recall", "meaning_from_word", "fill_blank",
  "multiple_choice", "dictation", "synonym_mcq", "definition_mcq", "usage_mcq"
- "question_text": the prompt shown to the learner
- "correct_answer": the exact expected answer
- "options": for *_mcq and multiple_choice types, exactly 4 options including
  the correct answer, shuffled; omit for other types
- "context_sentence": an example sentence using the word, when one helps
- "explanation": one short sentence explaining the answer

RULES
- The correct_answer for recall, fill_blank and dictation questions is the
  word itself; for meaning_from_word it is a definition.
- Never leak the answer inside question_text except for fill_blank, where the
  word is replaced with "___".
- Multiple choice distractors must be plausible: same part of speech, taken
  from the provided distractor words where possible.
- Output ONLY a JSON array of question objects, no text outside the JSON.`

// generatedQuestion is the shape the model is asked to produce.
type generatedQuestion struct {
	QuestionType    string   `json:"question_type"`
	QuestionText    string   `json:"question_text"`
	CorrectAnswer   string   `json:"correct_answer"`
	Options         []string `json:"options,omitempty"`
	ContextSentence string   `json:"context_sentence,omitempty"`
	Explanation     string   `json:"explanation,omitempty"`
}

// Synthesize implements question.Generator by asking the model for a single
// question about the word.
func (client *Client) Synthesize(
	ctx context.Context,
	w *word.Word,
	difficulty question.Difficulty,
	distractors []word.Word,
) (question.Snapshot, error) {
	snapshots, err := client.SynthesizeVariety(ctx, w, difficulty, distractors, 1)
	if err != nil {
		return question.Snapshot{}, err
	}
	return snapshots[0], nil
}

// SynthesizeVariety asks the model for count questions of varied types.
func (client *Client) SynthesizeVariety(
	ctx context.Context,
	w *word.Word,
	difficulty question.Difficulty,
	distractors []word.Word,
	count int,
) ([]question.Snapshot, error) {
	var result []question.Snapshot
	if err := retry.Do(
		func() error {
			snapshots, err := client.synthesize(ctx, w, difficulty, distractors, count)
			if err != nil {
				if !isRetryableError(err) {
					return retry.Unrecoverable(err)
				}
				return err
			}
			result = snapshots
			return nil
		},
		retry.Context(ctx),
		retry.Attempts(client.maxRetryAttempts+1),
		retry.DelayType(func(n uint, err error, config *retry.Config) time.Duration {
			return retry.BackOffDelay(n, err, config)
		}),
	); err != nil {
		return nil, err
	}
	return result, nil
}

type wordPrompt struct {
	Word        string   `json:"word"`
	WordType    string   `json:"word_type"`
	Definitions []string `json:"definitions"`
	Sentences   []string `json:"sentences,omitempty"`
	Difficulty  string   `json:"difficulty"`
	Count       int      `json:"count"`
	Distractors []string `json:"distractor_words,omitempty"`
}

func (client *Client) getRequestBody(w *word.Word, difficulty question.Difficulty, distractors []word.Word, count int) (ChatCompletionRequest, error) {
	prompt := wordPrompt{
		Word:       w.Text,
		WordType:   string(w.WordType),
		Difficulty: string(difficulty),
		Count:      count,
	}
	for _, meaning := range w.Meanings {
		prompt.Definitions = append(prompt.Definitions, meaning.Definition)
	}
	for _, sentence := range w.Contexts {
		prompt.Sentences = append(prompt.Sentences, sentence.Sentence)
	}
	for _, distractor := range distractors {
		prompt.Distractors = append(prompt.Distractors, distractor.Text)
	}

	userJSON, err := json.Marshal(prompt)
	if err != nil {
		return ChatCompletionRequest{}, fmt.Errorf("json.Marshal(word prompt) > %w", err)
	}

	return ChatCompletionRequest{
		Model:       client.model,
		Temperature: 0.7,
		Messages: []Message{
			{Role: RoleSystem, Content: systemPrompt},
			{Role: RoleUser, Content: string(userJSON)},
		},
	}, nil
}

func (client *Client) synthesize(
	ctx context.Context,
	w *word.Word,
	difficulty question.Difficulty,
	distractors []word.Word,
	count int,
) ([]question.Snapshot, error) {
	requestBody, err := client.getRequestBody(w, difficulty, distractors, count)
	if err != nil {
		return nil, fmt.Errorf("getRequestBody > %w", err)
	}

	response, err := client.httpClient.R().
		SetContext(ctx).
		SetBody(requestBody).
		SetResult(&ChatCompletionResponse{}).
		Post("/chat/completions")
	if err != nil {
		return nil, fmt.Errorf("httpClient.Post > %w", err)
	}
	if response.IsError() {
		return nil, fmt.Errorf("response error %d: %s", response.StatusCode(), response.String())
	}

	responseBody := response.Result().(*ChatCompletionResponse)
	if responseBody == nil || len(responseBody.Choices) == 0 {
		return nil, fmt.Errorf("empty response body or choices: %s", response.String())
	}

	content := responseBody.Choices[0].Message.Content
	if content == "" {
		return nil, fmt.Errorf("empty response content: %s", response.String())
	}
	slog.Default().Debug("openai question generation response",
		"word", w.Text,
		"usage", responseBody.Usage,
	)

	var decoded []generatedQuestion
	if err := json.Unmarshal([]byte(extractJSONArray(content)), &decoded); err != nil {
		slog.Default().Error("Failed to parse OpenAI response as JSON",
			"word", w.Text,
			"error", err)
		return nil, fmt.Errorf("json.Unmarshal(%s) > %w", content, err)
	}
	if len(decoded) == 0 {
		return nil, fmt.Errorf("model returned no questions for %q", w.Text)
	}

	snapshots := make([]question.Snapshot, 0, len(decoded))
	for _, generated := range decoded {
		snapshot, err := toSnapshot(generated, w, difficulty)
		if err != nil {
			return nil, err
		}
		snapshots = append(snapshots, snapshot)
	}
	return snapshots, nil
}

var knownTypes = map[question.Type]struct{}{
	question.TypeMeaningRecall:   {},
	question.TypeMeaningFromWord: {},
	question.TypeFillBlank:       {},
	question.TypeMultipleChoice:  {},
	question.TypeDictation:       {},
	question.TypeSynonymMCQ:      {},
	question.TypeDefinitionMCQ:   {},
	question.TypeUsageMCQ:        {},
}

func toSnapshot(generated generatedQuestion, w *word.Word, difficulty question.Difficulty) (question.Snapshot, error) {
	questionType := question.Type(generated.QuestionType)
	if _, ok := knownTypes[questionType]; !ok {
		return question.Snapshot{}, fmt.Errorf("unknown question type %q for %q", generated.QuestionType, w.Text)
	}
	if generated.QuestionText == "" || generated.CorrectAnswer == "" {
		return question.Snapshot{}, fmt.Errorf("incomplete question payload for %q", w.Text)
	}

	content := question.Content{
		question.ContentQuestionText:  generated.QuestionText,
		question.ContentCorrectAnswer: generated.CorrectAnswer,
		question.ContentWord:          w.Text,
	}
	if len(generated.Options) > 0 {
		content[question.ContentOptions] = generated.Options
	}
	if generated.ContextSentence != "" {
		content[question.ContentContextSentence] = generated.ContextSentence
	}
	if generated.Explanation != "" {
		content[question.ContentExplanation] = generated.Explanation
	}

	return question.Snapshot{
		Type:       questionType,
		Difficulty: difficulty,
		Content:    content,
	}, nil
}

// extractJSONArray trims any prose the model wrapped around the JSON array,
// such as markdown code fences.
func extractJSONArray(content string) string {
	first := strings.Index(content, "[")
	last := strings.LastIndex(content, "]")
	if first >= 0 && last > first {
		return content[first : last+1]
	}
	return content
}
