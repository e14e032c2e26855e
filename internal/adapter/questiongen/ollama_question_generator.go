package questiongen

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"studyhall/internal/domain"
	"studyhall/internal/logger"

	"github.com/tmc/langchaingo/llms"
	"github.com/tmc/langchaingo/llms/ollama"
	"go.uber.org/zap"
)

// ollamaQuestionGenerator implements domain.QuestionGenerationService
type ollamaQuestionGenerator struct {
	llmClient *ollama.LLM
}

// NewOllamaQuestionGenerator creates a new instance of ollamaQuestionGenerator
func NewOllamaQuestionGenerator(llm *ollama.LLM) domain.QuestionGenerationService {
	return &ollamaQuestionGenerator{
		llmClient: llm,
	}
}

// GenerateQuestionCandidates implements domain.QuestionGenerationService
func (g *ollamaQuestionGenerator) GenerateQuestionCandidates(ctx context.Context, subTopicName string, existingPrompts []string, numQuestions int) ([]*domain.NewQuestionData, error) {
	l := logger.Get()
	l.Info("Generating question candidates with LLM",
		zap.String("sub_topic", subTopicName),
		zap.Int("num_questions", numQuestions))

	prompt := fmt.Sprintf(`You are a quiz author for a programming education platform. Create %d multiple-choice questions for the topic "%s".

Avoid questions that are too similar to these existing prompts: [%s].

Respond with ONLY a JSON array. Each element must have this shape:
{
    "prompt": "the question text",
    "options": ["option a", "option b", "option c", "option d"],
    "correct_answer": "the correct option text, verbatim from options",
    "sub_topic_name": "%s",
    "difficulty": "easy"
}

Rules:
1. Exactly 4 options per question, one of which is correct
2. "correct_answer" must match one entry of "options" exactly
3. "difficulty" is one of "easy", "medium", or "hard"
4. Do not repeat prompts within the batch`,
		numQuestions, subTopicName, strings.Join(existingPrompts, "; "), subTopicName)

	rawResponse, err := g.callLLM(ctx, prompt)
	if err != nil {
		l.Error("callLLM failed during question generation", zap.Error(err), zap.String("sub_topic", subTopicName))
		return nil, domain.NewLLMServiceError(fmt.Errorf("callLLM failed: %w", err))
	}

	l.Debug("Raw LLM response received", zap.String("raw_response", rawResponse))

	cleaned := strings.TrimSpace(rawResponse)

	if thinkStart := strings.Index(cleaned, "<think>"); thinkStart != -1 {
		if thinkEnd := strings.Index(cleaned, "</think>"); thinkEnd != -1 && thinkEnd > thinkStart {
			cleaned = cleaned[:thinkStart] + cleaned[thinkEnd+len("</think>"):]
			cleaned = strings.TrimSpace(cleaned)
		}
	}

	// Some models wrap JSON in markdown fences.
	cleaned = strings.TrimPrefix(cleaned, "```json")
	cleaned = strings.TrimPrefix(cleaned, "```")
	cleaned = strings.TrimSuffix(cleaned, "```")
	cleaned = strings.TrimSpace(cleaned)

	jsonStart := strings.Index(cleaned, "[")
	jsonEnd := strings.LastIndex(cleaned, "]")
	if jsonStart == -1 || jsonEnd == -1 || jsonEnd <= jsonStart {
		l.Error("Could not find JSON array delimiters in LLM response",
			zap.String("cleaned_response", cleaned))
		return nil, domain.NewLLMServiceError(fmt.Errorf("no JSON array found in LLM response: %s", cleaned))
	}

	extracted := cleaned[jsonStart : jsonEnd+1]

	var candidates []*domain.NewQuestionData
	if errUnmarshal := json.Unmarshal([]byte(extracted), &candidates); errUnmarshal != nil {
		l.Error("Failed to unmarshal extracted JSON from LLM response",
			zap.Error(errUnmarshal),
			zap.String("json_string_tried_to_parse", extracted))
		return nil, domain.NewLLMServiceError(fmt.Errorf("failed to unmarshal JSON from LLM: %w", errUnmarshal))
	}

	var generated []*domain.NewQuestionData
	for _, c := range candidates {
		if c.Prompt == "" || c.CorrectAnswer == "" || len(c.Options) == 0 || c.Difficulty == "" {
			l.Warn("LLM generated incomplete question data", zap.Any("question_data", c))
			continue
		}
		if c.SubTopicName == "" {
			c.SubTopicName = subTopicName
		}
		generated = append(generated, c)
	}

	l.Info("Successfully parsed LLM response", zap.Int("num_questions_generated", len(generated)))
	return generated, nil
}

func (g *ollamaQuestionGenerator) callLLM(ctx context.Context, prompt string) (string, error) {
	l := logger.Get()

	ctx, cancel := context.WithTimeout(ctx, 60*time.Second)
	defer cancel()

	response, err := g.llmClient.Call(ctx, prompt, llms.WithTemperature(0.3))
	if err != nil {
		if err == context.DeadlineExceeded {
			l.Error("LLM request timed out", zap.Error(err))
			return "", fmt.Errorf("LLM request timed out: %w", err)
		}
		l.Error("Failed to get response from LLM", zap.Error(err))
		return "", fmt.Errorf("LLM call failed: %w", err)
	}

	return response, nil
}

var _ domain.QuestionGenerationService = (*ollamaQuestionGenerator)(nil)
