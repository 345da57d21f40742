//-------------------------------------------------------------------------
//
// pgEdge Inventory Loader
//
// Portions copyright (c) 2025 - 2026, pgEdge, Inc.
// This software is released under The PostgreSQL License
//
//-------------------------------------------------------------------------

// Package normalize rebuilds the dimension and device tables from one
// staged import session.
package normalize

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/pgEdge/pgedge-inventory/internal/catalog"
	"github.com/pgEdge/pgedge-inventory/internal/db"
	"github.com/pgEdge/pgedge-inventory/internal/logging"
	"github.com/pgEdge/pgedge-inventory/internal/schema"
	"github.com/pgEdge/pgedge-inventory/internal/staging"
)

// ErrNormalizeFailed wraps every failure inside the normalization
// transaction. The previous normalized state is left untouched.
var ErrNormalizeFailed = errors.New("normalization failed")

// ErrSessionNotStaged is returned for a session that is not waiting for
// normalization.
var ErrSessionNotStaged = errors.New("import session is not staged")

// Result summarizes a successful run.
type Result struct {
	SessionID uuid.UUID

	// Counts maps each populated table to the rows inserted.
	Counts map[string]int64

	Devices  int64
	Duration time.Duration
}

// Normalizer applies the catalog-derived plan.
type Normalizer struct {
	conn db.DB
	plan []Step
}

// New creates a Normalizer.
func New(conn db.DB) *Normalizer {
	return &Normalizer{conn: conn, plan: BuildPlan()}
}

// Plan returns the statements Run executes, in order.
func (n *Normalizer) Plan() []Step {
	return n.plan
}

// Run replaces the normalized tables with the contents of a staged session.
// Everything happens in one transaction holding the inventory lock: either
// all tables reflect the session or none of them change. A failure marks
// the session failed.
func (n *Normalizer) Run(ctx context.Context, sessionID uuid.UUID) (*Result, error) {
	log := logging.WithSession(sessionID.String())
	start := time.Now()
	res := &Result{SessionID: sessionID, Counts: make(map[string]int64, len(n.plan))}

	err := pgx.BeginFunc(ctx, n.conn, func(tx pgx.Tx) error {
		if err := db.LockInventory(ctx, tx); err != nil {
			return fmt.Errorf("%w: lock inventory: %w", ErrNormalizeFailed, err)
		}
		if err := checkStaged(ctx, tx, sessionID); err != nil {
			return err
		}

		if _, err := tx.Exec(ctx, schema.TruncateNormalizedSQL()); err != nil {
			return fmt.Errorf("%w: truncate: %w", ErrNormalizeFailed, err)
		}

		for _, step := range n.plan {
			tag, err := tx.Exec(ctx, step.SQL, sessionID)
			if err != nil {
				return fmt.Errorf("%w: step %s: %w", ErrNormalizeFailed, step.Name, err)
			}
			res.Counts[step.Table] = tag.RowsAffected()
			log.Debug().
				Str("step", step.Name).
				Int64("rows", tag.RowsAffected()).
				Msg("Normalization step complete")
		}
		res.Devices = res.Counts[catalog.DeviceTable]

		if err := schema.EnsureView(ctx, tx); err != nil {
			return fmt.Errorf("%w: %w", ErrNormalizeFailed, err)
		}
		if err := staging.MarkNormalized(ctx, tx, sessionID, res.Devices); err != nil {
			return fmt.Errorf("%w: %w", ErrNormalizeFailed, err)
		}
		err := db.SaveMetadata(ctx, tx, map[string]string{
			db.KeyLastSession:    sessionID.String(),
			db.KeyLastNormalized: time.Now().UTC().Format(time.RFC3339),
			db.KeyLastDevices:    strconv.FormatInt(res.Devices, 10),
		})
		if err != nil {
			return fmt.Errorf("%w: %w", ErrNormalizeFailed, err)
		}
		return nil
	})
	if err != nil {
		if !errors.Is(err, ErrSessionNotStaged) && !errors.Is(err, staging.ErrNoSession) {
			if markErr := staging.MarkFailed(context.WithoutCancel(ctx), n.conn, sessionID, err); markErr != nil {
				log.Warn().Err(markErr).Msg("Could not record failed session")
			}
		}
		log.Error().Err(err).Msg("Normalization rolled back")
		return nil, err
	}

	res.Duration = time.Since(start)
	log.Info().
		Int64("devices", res.Devices).
		Dur("duration", res.Duration).
		Msg("Normalization complete")
	return res, nil
}

func checkStaged(ctx context.Context, tx pgx.Tx, sessionID uuid.UUID) error {
	s, err := staging.Get(ctx, tx, sessionID)
	if errors.Is(err, staging.ErrNoSession) {
		return err
	}
	if err != nil {
		return fmt.Errorf("%w: %w", ErrNormalizeFailed, err)
	}
	if s.Status != staging.StatusStaged {
		return fmt.Errorf("%w: %s is %s", ErrSessionNotStaged, sessionID, s.Status)
	}
	return nil
}
