// Package service groups the application use cases. Each subpackage owns one
// area and orchestrates domain objects and the store interfaces:
//
//   - deck: resolving, creating and listing decks
//   - ingestion: turning lesson vocabulary into flashcards without duplicates
//   - review: grading flashcards and listing the due set
//   - auth: bearer token issue and validation
//
// Services receive their dependencies through constructor injection, wrap
// failures in a per-package ServiceError, and never depend on a concrete
// storage implementation.
package service
