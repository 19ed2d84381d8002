package ingestion

import (
	"fmt"
	"strings"
	"unicode/utf8"

	"github.com/google/uuid"
	"github.com/phrazzld/lingo-api/internal/domain"
)

// DefaultMaxBatchSize caps the vocabulary array when no limit is configured.
const DefaultMaxBatchSize = 100

// Request is one lesson's vocabulary to ingest for an owner.
type Request struct {
	Topic       string                  `json:"topic"`
	Language    string                  `json:"language"`
	Proficiency string                  `json:"proficiency"`
	Vocabulary  []domain.VocabularyItem `json:"vocabulary"`
}

// Result summarizes an ingestion. Errors may be non-empty when Success is true,
// meaning some items failed while the batch as a whole completed.
type Result struct {
	Success  bool      `json:"success"`
	DeckID   uuid.UUID `json:"deck_id"`
	DeckName string    `json:"deck_name"`
	Created  int       `json:"created"`
	Skipped  int       `json:"skipped"`
	Errors   []string  `json:"errors,omitempty"`
}

// Validate checks req before any storage access and returns its parsed
// proficiency. Every returned error wraps domain.ErrValidation; item errors name
// the offending index.
func (req Request) Validate(maxBatchSize int) (domain.Proficiency, error) {
	if maxBatchSize <= 0 {
		maxBatchSize = DefaultMaxBatchSize
	}

	topic := strings.TrimSpace(req.Topic)
	switch {
	case topic == "":
		return "", domain.ErrTopicEmpty
	case utf8.RuneCountInString(topic) > domain.MaxTopicLength:
		return "", domain.ErrTopicTooLong
	case strings.TrimSpace(req.Language) == "":
		return "", domain.ErrLanguageEmpty
	}
	proficiency, err := domain.ParseProficiency(req.Proficiency)
	if err != nil {
		return "", err
	}

	if len(req.Vocabulary) == 0 {
		return "", fmt.Errorf("%w: vocabulary must be a non-empty array", domain.ErrValidation)
	}
	if len(req.Vocabulary) > maxBatchSize {
		return "", fmt.Errorf("%w: vocabulary has %d items, at most %d allowed",
			domain.ErrValidation, len(req.Vocabulary), maxBatchSize)
	}
	for i, item := range req.Vocabulary {
		if err := item.Validate(); err != nil {
			return "", fmt.Errorf("vocabulary item at index %d: %w", i, err)
		}
	}
	return proficiency, nil
}
