package questionbank

import (
	"errors"
	"strings"

	"github.com/ielts-speaking/backend/internal/domain/speaking"
	"github.com/ielts-speaking/backend/internal/id"
)

var ErrEmptyQuestion = errors.New("question text cannot be empty")

// Question is one practice prompt from the bank.
type Question struct {
	ID    string
	Part  speaking.Part
	Topic string // Optional - e.g. "Hometown", "Travel"
	Text  string
}

// QuestionBank groups the questions of one topic within a part.
type QuestionBank struct {
	Part      speaking.Part
	Topic     string
	Questions []Question
}

func New(part speaking.Part, topic string) *QuestionBank {
	return &QuestionBank{
		Part:      part,
		Topic:     strings.TrimSpace(topic),
		Questions: []Question{},
	}
}

func NewQuestion(part speaking.Part, topic, text string) (*Question, error) {
	text = strings.TrimSpace(text)
	if text == "" {
		return nil, ErrEmptyQuestion
	}
	return &Question{
		ID:    id.WithPrefix("q"),
		Part:  part,
		Topic: strings.TrimSpace(topic),
		Text:  text,
	}, nil
}

func (qb *QuestionBank) AddQuestion(text string) error {
	q, err := NewQuestion(qb.Part, qb.Topic, text)
	if err != nil {
		return err
	}
	qb.Questions = append(qb.Questions, *q)
	return nil
}
