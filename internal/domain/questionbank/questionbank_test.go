package questionbank_test

import (
	"errors"
	"strings"
	"testing"

	"github.com/ielts-speaking/backend/internal/domain/questionbank"
	"github.com/ielts-speaking/backend/internal/domain/speaking"
)

func TestNewQuestionBank(t *testing.T) {
	bank := questionbank.New(speaking.Part1, " Hometown ")

	if bank.Topic != "Hometown" {
		t.Errorf("expected topic %q, got %q", "Hometown", bank.Topic)
	}

	if len(bank.Questions) != 0 {
		t.Errorf("expected empty question bank, got %d questions", len(bank.Questions))
	}
}

func TestAddQuestion(t *testing.T) {
	bank := questionbank.New(speaking.Part2, "Travel")

	err := bank.AddQuestion("Describe a memorable trip.")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if len(bank.Questions) != 1 {
		t.Fatalf("expected 1 question, got %d", len(bank.Questions))
	}

	q := bank.Questions[0]
	if q.Text != "Describe a memorable trip." {
		t.Errorf("expected text %q, got %q", "Describe a memorable trip.", q.Text)
	}
	if q.Part != speaking.Part2 || q.Topic != "Travel" {
		t.Errorf("expected part and topic inherited from bank, got %v %q", q.Part, q.Topic)
	}
	if !strings.HasPrefix(q.ID, "q_") {
		t.Errorf("unexpected id %q", q.ID)
	}
}

func TestAddQuestion_EmptyText(t *testing.T) {
	bank := questionbank.New(speaking.Part1, "Work")

	err := bank.AddQuestion("   ")
	if !errors.Is(err, questionbank.ErrEmptyQuestion) {
		t.Errorf("expected ErrEmptyQuestion, got %v", err)
	}

	// Verify nothing was added
	if len(bank.Questions) != 0 {
		t.Error("expected no questions after failed add")
	}
}

func TestAddMultipleQuestions(t *testing.T) {
	bank := questionbank.New(speaking.Part3, "Technology")

	questions := []string{
		"How has technology changed the way people communicate?",
		"Do you think children use phones too much?",
		"Will robots replace teachers?",
	}

	for _, q := range questions {
		if err := bank.AddQuestion(q); err != nil {
			t.Fatalf("failed to add question: %v", err)
		}
	}

	if len(bank.Questions) != 3 {
		t.Errorf("expected 3 questions, got %d", len(bank.Questions))
	}
	if bank.Questions[0].ID == bank.Questions[1].ID {
		t.Error("expected distinct question IDs")
	}
}
