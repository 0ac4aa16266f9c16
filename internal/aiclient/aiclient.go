// Package aiclient wraps the generative model behind a text-in/text-out
// interface and owns the prompt contracts plus the tolerant parsing of the
// model's semi-structured JSON replies.
package aiclient

import (
	"context"
	"encoding/json"
	"fmt"

	"donsflow/api-gateway/internal/transcript"
	"donsflow/api-gateway/models"
)

// Model is the opaque text-in/text-out contract. The production
// implementation is Gemini; tests substitute a fake.
type Model interface {
	Generate(ctx context.Context, prompt string) (string, error)
}

// Client builds prompts, invokes the model, and validates its replies.
type Client struct {
	model Model
}

// New wraps a model in a Client.
func New(model Model) *Client {
	return &Client{model: model}
}

// GenerateChapters asks the model to chapter the given transcript and
// returns the validated chapter descriptors.
func (c *Client) GenerateChapters(ctx context.Context, items []transcript.Item) ([]transcript.ChapterDescriptor, error) {
	payload, err := json.Marshal(items)
	if err != nil {
		return nil, fmt.Errorf("marshal transcript: %w", err)
	}

	prompt := chapterPrompt + "\n\nTranscript JSON:\n" + string(payload)
	raw, err := c.model.Generate(ctx, prompt)
	if err != nil {
		return nil, fmt.Errorf("generate chapters: %w", err)
	}
	return decodeChapters(raw)
}

// GenerateQuiz asks the model for quiz questions covering the given
// transcript segment. quizType selects the multiple-choice or open-ended
// prompt.
func (c *Client) GenerateQuiz(ctx context.Context, segment []transcript.Item, quizType string) ([]models.QuizQuestion, error) {
	payload, err := json.Marshal(segment)
	if err != nil {
		return nil, fmt.Errorf("marshal transcript segment: %w", err)
	}

	base := multipleChoicePrompt
	if quizType == models.QuizTypeOpen {
		base = openEndedPrompt
	}

	prompt := base + "\n\nHere is the transcript segment to generate questions from:\n" + string(payload)
	raw, err := c.model.Generate(ctx, prompt)
	if err != nil {
		return nil, fmt.Errorf("generate quiz: %w", err)
	}
	return decodeQuiz(raw, quizType)
}

// CheckAnswer asks the model whether a user's free-text answer matches the
// expected one.
func (c *Client) CheckAnswer(ctx context.Context, question, answer, userAnswer string) (models.AnswerCheck, error) {
	prompt := fmt.Sprintf(answerCheckPrompt, question, answer, userAnswer)
	raw, err := c.model.Generate(ctx, prompt)
	if err != nil {
		return models.AnswerCheck{}, fmt.Errorf("check answer: %w", err)
	}
	return decodeAnswerCheck(raw)
}
