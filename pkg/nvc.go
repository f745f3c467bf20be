package pkg

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"nvcoach-backend/models"
)

// Decomposition is the structured output the model returns for one original text
type Decomposition struct {
	Observation      string              `json:"observation"`
	Feeling          string              `json:"feeling"`
	Need             string              `json:"need"`
	Request          string              `json:"request"`
	Improvements     models.Improvements `json:"improvements"`
	OverallFeedback  string              `json:"overall_feedback"`
	Score            int                 `json:"score"`
	StandardResponse string              `json:"standard_response"`
}

// DecompositionError reports an unusable decomposition response. Raw carries
// the model's content for diagnostics; no partial structure is ever guessed.
type DecompositionError struct {
	Reason string
	Raw    string
	Err    error
}

func (e *DecompositionError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("decomposition failed: %s: %v", e.Reason, e.Err)
	}
	return fmt.Sprintf("decomposition failed: %s", e.Reason)
}

func (e *DecompositionError) Unwrap() error { return e.Err }

// AnswerError reports a failed or empty follow-up answer
type AnswerError struct {
	Reason string
	Err    error
}

func (e *AnswerError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("answer failed: %s: %v", e.Reason, e.Err)
	}
	return fmt.Sprintf("answer failed: %s", e.Reason)
}

func (e *AnswerError) Unwrap() error { return e.Err }

// NVCGateway talks to the chat API for decomposition and follow-up answering.
// It owns prompt construction and response parsing so callers never see the
// model's raw output format. Single attempt per call, no retries.
type NVCGateway struct {
	client             *ChatClient
	model              string
	decomposeMaxTokens uint32
	answerMaxTokens    uint32
	temperature        float32
}

func NewNVCGateway(client *ChatClient, model string, decomposeMaxTokens, answerMaxTokens uint32, temperature float32) *NVCGateway {
	return &NVCGateway{
		client:             client,
		model:              model,
		decomposeMaxTokens: decomposeMaxTokens,
		answerMaxTokens:    answerMaxTokens,
		temperature:        temperature,
	}
}

// Decompose sends the coaching prompt for originalText and parses the
// structured JSON out of the completion
func (g *NVCGateway) Decompose(ctx context.Context, originalText string) (*Decomposition, error) {
	temperature := g.temperature
	resp, err := g.client.CreateChatCompletion(ctx, ChatCompletionRequest{
		Model: g.model,
		Messages: []RequestMessage{
			{Role: "system", Content: decomposeSystemPrompt},
			{Role: "user", Content: buildDecomposePrompt(originalText)},
		},
		MaxTokens:   g.decomposeMaxTokens,
		Temperature: &temperature,
	})
	if err != nil {
		return nil, &DecompositionError{Reason: "chat API call failed", Err: err}
	}

	content := ""
	if len(resp.Choices) > 0 {
		content = resp.Choices[0].Message.Content
	}
	if strings.TrimSpace(content) == "" {
		return nil, &DecompositionError{Reason: "model returned empty content"}
	}

	return parseDecomposition(content)
}

// AnswerFollowUp answers a new question grounded on the session and all
// prior exchanges. Returns the trimmed answer text.
func (g *NVCGateway) AnswerFollowUp(ctx context.Context, session *models.ConversionSession, question string, prior []models.FollowUpExchange) (string, error) {
	temperature := g.temperature
	resp, err := g.client.CreateChatCompletion(ctx, ChatCompletionRequest{
		Model: g.model,
		Messages: []RequestMessage{
			{Role: "system", Content: buildAnswerContext(session, prior)},
			{Role: "user", Content: buildAnswerPrompt(question)},
		},
		MaxTokens:   g.answerMaxTokens,
		Temperature: &temperature,
	})
	if err != nil {
		return "", &AnswerError{Reason: "chat API call failed", Err: err}
	}

	answer := ""
	if len(resp.Choices) > 0 {
		answer = strings.TrimSpace(resp.Choices[0].Message.Content)
	}
	if answer == "" {
		return "", &AnswerError{Reason: "model returned empty content"}
	}

	return answer, nil
}

// stripCodeFence removes a markdown code-fence wrapper when the model ignores
// "return only JSON"
func stripCodeFence(content string) string {
	s := strings.TrimSpace(content)
	switch {
	case strings.HasPrefix(s, "```json"):
		s = strings.TrimPrefix(s, "```json")
	case strings.HasPrefix(s, "```"):
		s = strings.TrimPrefix(s, "```")
	default:
		return s
	}
	s = strings.TrimSuffix(strings.TrimSpace(s), "```")
	return strings.TrimSpace(s)
}

// parseDecomposition strips known wrappers, then parses strictly and checks
// required fields
func parseDecomposition(content string) (*Decomposition, error) {
	cleaned := stripCodeFence(content)

	var parsed Decomposition
	if err := json.Unmarshal([]byte(cleaned), &parsed); err != nil {
		return nil, &DecompositionError{Reason: "content is not valid JSON", Raw: content, Err: err}
	}

	required := []struct {
		name  string
		value string
	}{
		{"observation", parsed.Observation},
		{"feeling", parsed.Feeling},
		{"need", parsed.Need},
		{"request", parsed.Request},
		{"standard_response", parsed.StandardResponse},
	}
	var missing []string
	for _, f := range required {
		if strings.TrimSpace(f.value) == "" {
			missing = append(missing, f.name)
		}
	}
	if len(missing) > 0 {
		return nil, &DecompositionError{
			Reason: fmt.Sprintf("required fields missing: %s", strings.Join(missing, ", ")),
			Raw:    content,
		}
	}
	if parsed.Score < 1 || parsed.Score > 10 {
		return nil, &DecompositionError{
			Reason: fmt.Sprintf("score %d out of range 1-10", parsed.Score),
			Raw:    content,
		}
	}

	return &parsed, nil
}
