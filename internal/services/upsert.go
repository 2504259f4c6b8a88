package services

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/sirupsen/logrus"

	"masterdata-service/internal/audit"
	"masterdata-service/internal/repository"
)

var (
	// ErrValidation is returned for bad input the caller can fix. Handlers
	// map it to HTTP 400.
	ErrValidation = errors.New("validation failed")
)

// UpsertRequest is one save attempt against a lookup table.
type UpsertRequest struct {
	// ID is the client-supplied surrogate id, zero when unknown.
	ID int64
	// Key is the raw natural-key value as sent by the client.
	Key string
	// Attrs holds the non-key columns to write.
	Attrs map[string]interface{}
}

// UpsertResult reports where the row ended up.
type UpsertResult struct {
	ID      int64
	Created bool
}

// Actor identifies who performed the mutation for the audit trail.
type Actor struct {
	UserID int64
	CompID int64
	IsWeb  bool
}

// Engine implements save-by-natural-key over any described lookup table.
//
// Resolution order is fixed: the natural key is checked first under trimmed
// case-insensitive matching, then the surrogate id, and only when both miss
// is a new row created. A client holding a stale id therefore cannot create
// a duplicate of a row that still exists under the same key.
type Engine struct {
	store repository.LookupStore
	audit audit.Logger
	log   *logrus.Logger
}

func NewEngine(store repository.LookupStore, auditLog audit.Logger, log *logrus.Logger) *Engine {
	return &Engine{store: store, audit: auditLog, log: log}
}

// WithStore returns a copy of the engine bound to a different store,
// typically one scoped to a transaction.
func (e *Engine) WithStore(store repository.LookupStore) *Engine {
	return &Engine{store: store, audit: e.audit, log: e.log}
}

// WithAudit returns a copy of the engine writing its trail through a
// different sink, typically a buffer held back until commit.
func (e *Engine) WithAudit(auditLog audit.Logger) *Engine {
	return &Engine{store: e.store, audit: auditLog, log: e.log}
}

func (e *Engine) Upsert(ctx context.Context, desc repository.Descriptor, req UpsertRequest, actor Actor) (UpsertResult, error) {
	trimmed := strings.TrimSpace(req.Key)
	if trimmed == "" {
		return UpsertResult{}, fmt.Errorf("%w: %s requires a non-empty natural key", ErrValidation, desc.Entity)
	}

	matchID, err := e.store.Resolve(ctx, desc, req.Key)
	if err != nil {
		return UpsertResult{}, err
	}

	if matchID != 0 {
		values := cloneValues(req.Attrs)
		if desc.TrimKeyOnMatch {
			values[desc.KeyColumn] = trimmed
		} else {
			values[desc.KeyColumn] = req.Key
		}
		if err := e.store.UpdateByID(ctx, desc, matchID, values); err != nil {
			return UpsertResult{}, err
		}
		e.audit.Record(ctx, actor.UserID, actor.CompID, actor.IsWeb,
			audit.Activity("Updated", desc.Entity, req.Key))
		return UpsertResult{ID: matchID}, nil
	}

	if req.ID != 0 {
		exists, err := e.store.ExistsByID(ctx, desc, req.ID)
		if err != nil {
			return UpsertResult{}, err
		}
		if exists {
			values := cloneValues(req.Attrs)
			values[desc.KeyColumn] = req.Key
			if err := e.store.UpdateByID(ctx, desc, req.ID, values); err != nil {
				return UpsertResult{}, err
			}
			e.audit.Record(ctx, actor.UserID, actor.CompID, actor.IsWeb,
				audit.Activity("Updated", desc.Entity, req.Key))
			return UpsertResult{ID: req.ID}, nil
		}
	}

	values := cloneValues(req.Attrs)
	values[desc.KeyColumn] = req.Key
	newID, err := e.store.Insert(ctx, desc, values)
	if err != nil {
		return UpsertResult{}, err
	}
	e.audit.Record(ctx, actor.UserID, actor.CompID, actor.IsWeb,
		audit.Activity("Created", desc.Entity, req.Key))
	return UpsertResult{ID: newID, Created: true}, nil
}

func cloneValues(attrs map[string]interface{}) map[string]interface{} {
	values := make(map[string]interface{}, len(attrs)+1)
	for col, val := range attrs {
		values[col] = val
	}
	return values
}
