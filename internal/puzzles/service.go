// internal/puzzles/service.go
//
// Create/fetch flow for shared puzzles.
//
// Create: validate → (strict checks) → encode → new identifier → store insert.
// Fetch:  parse identifier → store lookup → token returned unmodified.
//
// Identifiers are random (v4) UUIDs, generated independently of the content,
// so two creators submitting the same grid get two different links.

package puzzles

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"

	"github.com/robalobadob/connections/internal/metrics"
	"github.com/robalobadob/connections/internal/puzzle"
	"github.com/robalobadob/connections/internal/store"
)

// ErrCorruptToken is returned by Fetch (with VerifyOnRead) when a stored
// token no longer decodes into a valid puzzle.
var ErrCorruptToken = errors.New("stored puzzle is corrupt")

// Options tunes a Service.
type Options struct {
	// Strict enables duplicate and blocklist checks after Validate.
	Strict bool
	// Blocklist is consulted when Strict is set. May be nil.
	Blocklist puzzle.Blocklist
	// VerifyOnRead decodes and validates tokens before returning them.
	VerifyOnRead bool
	// Metrics may be nil.
	Metrics *metrics.Metrics
	// NewID overrides identifier generation (tests). Defaults to uuid.New.
	NewID func() uuid.UUID
}

// Service runs the create/fetch flow against a Store.
// It holds no per-request state and is safe for concurrent use.
type Service struct {
	store store.Store
	opts  Options
}

// New builds a Service on top of st.
func New(st store.Store, opts Options) *Service {
	if opts.NewID == nil {
		opts.NewID = uuid.New
	}
	return &Service{store: st, opts: opts}
}

// Check runs every validation the service would apply on Create.
func (s *Service) Check(state puzzle.GameState) error {
	if err := puzzle.Validate(state); err != nil {
		return err
	}
	if !s.opts.Strict {
		return nil
	}
	if err := puzzle.CheckDistinct(state); err != nil {
		return err
	}
	return puzzle.CheckBlocked(state, s.opts.Blocklist)
}

// Create validates and encodes state, stores the token and returns its identifier.
// Errors: *puzzle.ValidationError (client), puzzle.ErrEncoding or store
// failures (internal).
func (s *Service) Create(ctx context.Context, state puzzle.GameState) (uuid.UUID, error) {
	if err := s.Check(state); err != nil {
		s.opts.Metrics.RecordPuzzle("create", metrics.ResultInvalid)
		return uuid.Nil, err
	}

	token, err := puzzle.Encode(state)
	if err != nil {
		s.opts.Metrics.RecordPuzzle("create", metrics.ResultError)
		return uuid.Nil, err
	}

	id := s.opts.NewID()
	start := time.Now()
	err = s.store.Put(ctx, id.String(), token)
	s.opts.Metrics.ObserveStore("put", time.Since(start))
	if err != nil {
		s.opts.Metrics.RecordPuzzle("create", metrics.ResultError)
		return uuid.Nil, fmt.Errorf("save puzzle %s: %w", id, err)
	}

	s.opts.Metrics.RecordPuzzle("create", metrics.ResultOK)
	return id, nil
}

// Fetch returns the token stored under id exactly as it was written.
// Malformed identifiers cannot have been issued, so they report
// store.ErrNotFound without a lookup.
func (s *Service) Fetch(ctx context.Context, id string) (string, error) {
	parsed, err := uuid.Parse(id)
	if err != nil {
		s.opts.Metrics.RecordPuzzle("fetch", metrics.ResultNotFound)
		return "", store.ErrNotFound
	}

	start := time.Now()
	token, err := s.store.Get(ctx, parsed.String())
	s.opts.Metrics.ObserveStore("get", time.Since(start))
	if err != nil {
		if store.IsNotFound(err) {
			s.opts.Metrics.RecordPuzzle("fetch", metrics.ResultNotFound)
			return "", err
		}
		s.opts.Metrics.RecordPuzzle("fetch", metrics.ResultError)
		return "", fmt.Errorf("load puzzle %s: %w", parsed, err)
	}

	if s.opts.VerifyOnRead {
		if err := verify(token); err != nil {
			s.opts.Metrics.RecordPuzzle("fetch", metrics.ResultError)
			log.Error().Err(err).Str("id", parsed.String()).Msg("stored token failed verification")
			return "", fmt.Errorf("%w: %v", ErrCorruptToken, err)
		}
	}

	s.opts.Metrics.RecordPuzzle("fetch", metrics.ResultOK)
	return token, nil
}

func verify(token string) error {
	state, err := puzzle.Decode(token)
	if err != nil {
		return err
	}
	return puzzle.Validate(state)
}
