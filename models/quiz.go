package models

// QuizQuestion is one generated question. Options is populated for
// multiple-choice quizzes and empty for open-ended ones. Questions are
// produced per request and never persisted.
type QuizQuestion struct {
	Question    string   `json:"question"`
	Options     []string `json:"options,omitempty"`
	Answer      string   `json:"answer"`
	Explanation string   `json:"explanation"`
}

// AnswerCheck is the model's judgement of a free-text answer.
type AnswerCheck struct {
	Correct     bool   `json:"correct"`
	Explanation string `json:"explanation"`
}

// Quiz types accepted by the quiz endpoint.
const (
	QuizTypeMultiple = "multiple"
	QuizTypeOpen     = "open"
)
