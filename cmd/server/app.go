package main

import (
	"database/sql"
	"fmt"
	"log/slog"

	"github.com/phrazzld/lingo-api/internal/config"
	"github.com/phrazzld/lingo-api/internal/domain/srs"
	"github.com/phrazzld/lingo-api/internal/events"
	"github.com/phrazzld/lingo-api/internal/platform/postgres"
	"github.com/phrazzld/lingo-api/internal/service/auth"
	"github.com/phrazzld/lingo-api/internal/service/deck"
	"github.com/phrazzld/lingo-api/internal/service/ingestion"
	"github.com/phrazzld/lingo-api/internal/service/review"
	"github.com/phrazzld/lingo-api/internal/store"
)

// storage bundles the persistence dependencies shared by the services.
type storage struct {
	decks      store.DeckStore
	flashcards store.FlashcardStore
	reviews    store.ReviewStore
	tx         store.TxRunner
}

// postgresStorage builds the PostgreSQL-backed stores over db.
func postgresStorage(db *sql.DB, logger *slog.Logger) storage {
	return storage{
		decks:      postgres.NewPostgresDeckStore(db, logger),
		flashcards: postgres.NewPostgresFlashcardStore(db, logger),
		reviews:    postgres.NewPostgresReviewStore(db, logger),
		tx:         store.NewSQLTxRunner(db),
	}
}

// application holds the shared dependencies of every command and ensures
// proper cleanup on shutdown.
type application struct {
	config *config.Config
	logger *slog.Logger
	// db is nil when the application runs over non-SQL storage.
	db *sql.DB

	emitter       *events.InMemoryEventEmitter
	jwtService    auth.JWTService
	deckService   deck.Service
	pipeline      *ingestion.Pipeline
	reviewService review.Service
}

// newApplication wires the services over st.
func newApplication(cfg *config.Config, logger *slog.Logger, st storage) (*application, error) {
	app := &application{
		config: cfg,
		logger: logger,
	}

	var err error
	app.jwtService, err = auth.NewJWTService(cfg.Auth)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize JWT service: %w", err)
	}

	app.emitter = events.NewInMemoryEventEmitter(logger)
	app.emitter.RegisterHandler(events.NewAuditLogHandler(logger))

	app.deckService = deck.NewService(st.decks, app.emitter, logger)

	app.pipeline = ingestion.NewPipeline(ingestion.Deps{
		Decks:        app.deckService,
		Detector:     ingestion.NewDuplicateDetector(st.flashcards),
		Flashcards:   st.flashcards,
		Reviews:      st.reviews,
		Tx:           st.tx,
		Emitter:      app.emitter,
		Logger:       logger,
		MaxBatchSize: cfg.Ingestion.MaxBatchSize,
	})

	app.reviewService = review.NewService(review.Deps{
		Decks:      st.decks,
		Flashcards: st.flashcards,
		Reviews:    st.reviews,
		SRS:        srs.NewServiceWithParams(srsParams(cfg.SRS)),
		Tx:         st.tx,
		Emitter:    app.emitter,
		Logger:     logger,
	})

	logger.Debug("application initialized",
		slog.Int("max_batch_size", app.pipeline.MaxBatchSize()),
		slog.Int("token_lifetime_minutes", cfg.Auth.TokenLifetimeMinutes))
	return app, nil
}

// cleanup releases the database connection.
func (app *application) cleanup() {
	if app.db != nil {
		if err := app.db.Close(); err != nil {
			app.logger.Error("error closing database connection", slog.String("error", err.Error()))
		}
	}
	app.logger.Debug("application shutdown completed")
}

func srsParams(c config.SRSConfig) *srs.Params {
	return srs.NewParams(srs.ParamsConfig{
		MinEaseFactor:      c.MinEaseFactor,
		PassingQuality:     c.PassingQuality,
		FailureEasePenalty: c.FailureEasePenalty,
		ResetInterval:      c.ResetInterval,
		FirstInterval:      c.FirstInterval,
		SecondInterval:     c.SecondInterval,
	})
}
