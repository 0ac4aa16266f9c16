package aiclient

import (
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"donsflow/api-gateway/internal/transcript"
	"donsflow/api-gateway/models"
)

// ErrInvalidResponse is returned when the model's output, after fence
// stripping, is not valid JSON or does not match the documented schema.
// Shape mismatches are rejected, never coerced.
var ErrInvalidResponse = errors.New("model response does not match expected schema")

// stripFences removes a wrapping markdown code fence (with an optional
// language tag) and surrounding whitespace. Models regularly wrap JSON in
// fences despite being told not to.
func stripFences(s string) string {
	t := strings.TrimSpace(s)
	if strings.HasPrefix(t, "```") {
		if i := strings.Index(t, "\n"); i >= 0 {
			t = t[i+1:]
		} else {
			t = strings.TrimPrefix(t, "```json")
			t = strings.TrimPrefix(t, "```")
		}
		if j := strings.LastIndex(t, "```"); j >= 0 {
			t = t[:j]
		}
		t = strings.TrimSpace(t)
	}
	return t
}

// chapterWire mirrors ChapterDescriptor with pointer ids so an absent field
// is distinguishable from zero.
type chapterWire struct {
	Chapter           string `json:"chapter"`
	Summary           string `json:"summary"`
	TranscriptStartID *int   `json:"transcript_start_id"`
	TranscriptEndID   *int   `json:"transcript_end_id"`
}

// decodeChapters parses the chaptering response into descriptors, rejecting
// entries with missing titles or id bounds.
func decodeChapters(raw string) ([]transcript.ChapterDescriptor, error) {
	clean := stripFences(raw)

	var wire []chapterWire
	if err := json.Unmarshal([]byte(clean), &wire); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidResponse, err)
	}
	if len(wire) == 0 {
		return nil, fmt.Errorf("%w: empty chapter list", ErrInvalidResponse)
	}

	descriptors := make([]transcript.ChapterDescriptor, 0, len(wire))
	for i, ch := range wire {
		if ch.Chapter == "" {
			return nil, fmt.Errorf("%w: chapter %d has no title", ErrInvalidResponse, i)
		}
		if ch.TranscriptStartID == nil || ch.TranscriptEndID == nil {
			return nil, fmt.Errorf("%w: chapter %q is missing transcript id bounds", ErrInvalidResponse, ch.Chapter)
		}
		descriptors = append(descriptors, transcript.ChapterDescriptor{
			Chapter:           ch.Chapter,
			Summary:           ch.Summary,
			TranscriptStartID: *ch.TranscriptStartID,
			TranscriptEndID:   *ch.TranscriptEndID,
		})
	}
	return descriptors, nil
}

// decodeQuiz parses a quiz response. Multiple-choice questions must carry
// options that include the answer; open questions must carry none.
func decodeQuiz(raw, quizType string) ([]models.QuizQuestion, error) {
	clean := stripFences(raw)

	var questions []models.QuizQuestion
	if err := json.Unmarshal([]byte(clean), &questions); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidResponse, err)
	}
	if len(questions) == 0 {
		return nil, fmt.Errorf("%w: empty question list", ErrInvalidResponse)
	}

	for i, q := range questions {
		if q.Question == "" || q.Answer == "" {
			return nil, fmt.Errorf("%w: question %d is missing question or answer text", ErrInvalidResponse, i)
		}
		if quizType == models.QuizTypeMultiple {
			if len(q.Options) < 2 {
				return nil, fmt.Errorf("%w: question %d has %d options", ErrInvalidResponse, i, len(q.Options))
			}
			if !contains(q.Options, q.Answer) {
				return nil, fmt.Errorf("%w: question %d answer is not among its options", ErrInvalidResponse, i)
			}
		} else if len(q.Options) > 0 {
			return nil, fmt.Errorf("%w: open question %d carries options", ErrInvalidResponse, i)
		}
	}
	return questions, nil
}

// answerCheckWire uses a pointer bool so a response without a "correct"
// field is rejected rather than read as false.
type answerCheckWire struct {
	Correct     *bool  `json:"correct"`
	Explanation string `json:"explanation"`
}

func decodeAnswerCheck(raw string) (models.AnswerCheck, error) {
	clean := stripFences(raw)

	var wire answerCheckWire
	if err := json.Unmarshal([]byte(clean), &wire); err != nil {
		return models.AnswerCheck{}, fmt.Errorf("%w: %v", ErrInvalidResponse, err)
	}
	if wire.Correct == nil {
		return models.AnswerCheck{}, fmt.Errorf("%w: missing correct field", ErrInvalidResponse)
	}
	return models.AnswerCheck{Correct: *wire.Correct, Explanation: wire.Explanation}, nil
}

func contains(options []string, answer string) bool {
	for _, o := range options {
		if o == answer {
			return true
		}
	}
	return false
}
