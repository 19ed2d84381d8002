// Package domain contains the core business entities, value objects, and
// domain logic of the vocabulary service: decks, flashcards, per-owner review
// state, and the incoming vocabulary items produced by lesson generation.
// It is independent of any specific infrastructure or delivery mechanism.
package domain
