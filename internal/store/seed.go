package store

import (
	_ "embed"
	"fmt"
	"strconv"

	"gopkg.in/yaml.v3"

	"github.com/ielts-speaking/backend/internal/domain/questionbank"
	"github.com/ielts-speaking/backend/internal/domain/speaking"
)

//go:embed seed/questions.yaml
var seedYAML []byte

type seedTopic struct {
	Part      int      `yaml:"part"`
	Topic     string   `yaml:"topic"`
	Questions []string `yaml:"questions"`
}

// LoadSeed parses a YAML list of topics into question banks.
func LoadSeed(data []byte) ([]*questionbank.QuestionBank, error) {
	var topics []seedTopic
	if err := yaml.Unmarshal(data, &topics); err != nil {
		return nil, fmt.Errorf("parse seed: %w", err)
	}

	banks := make([]*questionbank.QuestionBank, 0, len(topics))
	for i, t := range topics {
		part, err := speaking.ParsePart(strconv.Itoa(t.Part))
		if err != nil {
			return nil, fmt.Errorf("seed topic %d (%s): %w", i, t.Topic, err)
		}

		bank := questionbank.New(part, t.Topic)
		for _, text := range t.Questions {
			if err := bank.AddQuestion(text); err != nil {
				return nil, fmt.Errorf("seed topic %d (%s): %w", i, t.Topic, err)
			}
		}
		banks = append(banks, bank)
	}
	return banks, nil
}
