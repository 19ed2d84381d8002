package api

import (
	"time"

	"github.com/google/uuid"
	"github.com/phrazzld/lingo-api/internal/domain"
	"github.com/phrazzld/lingo-api/internal/service/ingestion"
	"github.com/samber/lo"
)

// SaveVocabularyRequest is the body of POST /api/lessons/vocabulary.
type SaveVocabularyRequest struct {
	Topic       string                  `json:"topic"       validate:"required,max=200"`
	Language    string                  `json:"language"    validate:"required,max=64"`
	Proficiency string                  `json:"proficiency" validate:"required"`
	Vocabulary  []VocabularyItemRequest `json:"vocabulary"  validate:"required,min=1,dive"`
}

// VocabularyItemRequest is one proposed word.
type VocabularyItemRequest struct {
	Word       string `json:"word"       validate:"required,max=200"`
	Type       string `json:"type"       validate:"required"`
	Meaning    string `json:"meaning"    validate:"required"`
	Definition string `json:"definition"`
}

func (req SaveVocabularyRequest) toIngestion() ingestion.Request {
	return ingestion.Request{
		Topic:       req.Topic,
		Language:    req.Language,
		Proficiency: req.Proficiency,
		Vocabulary: lo.Map(req.Vocabulary, func(item VocabularyItemRequest, _ int) domain.VocabularyItem {
			return domain.VocabularyItem{
				Word:       item.Word,
				Type:       item.Type,
				Meaning:    item.Meaning,
				Definition: item.Definition,
			}
		}),
	}
}

// GradeRequest is the body of POST /api/reviews.
type GradeRequest struct {
	FlashcardID string `json:"flashcard_id" validate:"required,uuid"`
	Quality     *int   `json:"quality"      validate:"required,gte=0,lte=5"`
}

// CreateDeckRequest is the body of POST /api/decks.
type CreateDeckRequest struct {
	Name        string `json:"name"        validate:"required,max=200"`
	Description string `json:"description" validate:"max=1000"`
	Language    string `json:"language"    validate:"max=64"`
	Proficiency string `json:"proficiency"`
}

// ReviewResponse is the scheduling state of one flashcard for the caller.
type ReviewResponse struct {
	ID          uuid.UUID `json:"id"`
	FlashcardID uuid.UUID `json:"flashcard_id"`
	Quality     int       `json:"quality"`
	Interval    int       `json:"interval"`
	Repetitions int       `json:"repetitions"`
	EaseFactor  float64   `json:"ease_factor"`
	NextReview  time.Time `json:"next_review"`
	UpdatedAt   time.Time `json:"updated_at"`
}

// FlashcardResponse is a flashcard as returned to clients.
type FlashcardResponse struct {
	ID         uuid.UUID `json:"id"`
	DeckID     uuid.UUID `json:"deck_id"`
	Front      string    `json:"front"`
	Back       string    `json:"back"`
	WordType   string    `json:"word_type"`
	Language   string    `json:"language"`
	Difficulty int       `json:"difficulty"`
	CreatedAt  time.Time `json:"created_at"`
}

// DueFlashcardResponse is a due flashcard with the caller's review, or null.
type DueFlashcardResponse struct {
	FlashcardResponse
	Review *ReviewResponse `json:"review"`
}

// DueResponse is the body of GET /api/reviews/due.
type DueResponse struct {
	Flashcards []DueFlashcardResponse `json:"flashcards"`
	Count      int                    `json:"count"`
}

// DeckResponse is a deck as returned to clients.
type DeckResponse struct {
	ID             uuid.UUID `json:"id"`
	Name           string    `json:"name"`
	Description    string    `json:"description,omitempty"`
	Language       string    `json:"language"`
	Proficiency    string    `json:"proficiency"`
	FlashcardCount *int      `json:"flashcard_count,omitempty"`
	DueCount       *int      `json:"due_count,omitempty"`
	CreatedAt      time.Time `json:"created_at"`
	UpdatedAt      time.Time `json:"updated_at"`
}

// DeckListResponse is the body of GET /api/decks.
type DeckListResponse struct {
	Decks []DeckResponse `json:"decks"`
}

func reviewToResponse(r *domain.Review) *ReviewResponse {
	if r == nil {
		return nil
	}
	return &ReviewResponse{
		ID:          r.ID,
		FlashcardID: r.FlashcardID,
		Quality:     r.Quality,
		Interval:    r.Interval,
		Repetitions: r.Repetitions,
		EaseFactor:  r.EaseFactor,
		NextReview:  r.NextReview,
		UpdatedAt:   r.UpdatedAt,
	}
}

func flashcardToResponse(f domain.Flashcard) FlashcardResponse {
	return FlashcardResponse{
		ID:         f.ID,
		DeckID:     f.DeckID,
		Front:      f.Front,
		Back:       f.Back,
		WordType:   f.WordType,
		Language:   f.Language,
		Difficulty: f.Difficulty,
		CreatedAt:  f.CreatedAt,
	}
}

func dueToResponse(due []domain.DueFlashcard) DueResponse {
	return DueResponse{
		Flashcards: lo.Map(due, func(d domain.DueFlashcard, _ int) DueFlashcardResponse {
			return DueFlashcardResponse{
				FlashcardResponse: flashcardToResponse(d.Flashcard),
				Review:            reviewToResponse(d.Review),
			}
		}),
		Count: len(due),
	}
}

func deckToResponse(d *domain.Deck) DeckResponse {
	return DeckResponse{
		ID:          d.ID,
		Name:        d.Name,
		Description: d.Description,
		Language:    d.Language,
		Proficiency: string(d.Proficiency),
		CreatedAt:   d.CreatedAt,
		UpdatedAt:   d.UpdatedAt,
	}
}

func summariesToResponse(summaries []domain.DeckSummary) DeckListResponse {
	return DeckListResponse{
		Decks: lo.Map(summaries, func(s domain.DeckSummary, _ int) DeckResponse {
			resp := deckToResponse(&s.Deck)
			resp.FlashcardCount = lo.ToPtr(s.FlashcardCount)
			resp.DueCount = lo.ToPtr(s.DueCount)
			return resp
		}),
	}
}
