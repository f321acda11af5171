// Package memstore implements repository.EntityRepository and
// repository.RelationshipRepository entirely in-process: a
// mutex-guarded map, no external dependency. It backs tests and
// ephemeral runs, one of three interchangeable repository backends.
package memstore

import (
	"context"
	"sort"
	"sync"

	"github.com/niiniyare/schemaforge/pkg/errors"
	"github.com/niiniyare/schemaforge/pkg/schemakit/aggregate"
	"github.com/niiniyare/schemaforge/pkg/schemakit/ids"
	"github.com/niiniyare/schemaforge/pkg/schemakit/repository"
)

// Store is an in-memory repository.Repository.
type Store struct {
	mu            sync.RWMutex
	entities      map[ids.EntityId]*aggregate.Entity
	relationships map[ids.RelationshipId]*aggregate.Relationship
}

// New constructs an empty Store.
func New() *Store {
	return &Store{
		entities:      make(map[ids.EntityId]*aggregate.Entity),
		relationships: make(map[ids.RelationshipId]*aggregate.Relationship),
	}
}

func (s *Store) Exists(_ context.Context, id ids.EntityId) (bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	_, ok := s.entities[id]
	return ok, nil
}

func (s *Store) GetByID(_ context.Context, id ids.EntityId) (*aggregate.Entity, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	e, ok := s.entities[id]
	if !ok {
		return nil, errors.ErrEntityNotFound
	}
	return e, nil
}

// GetAll returns every entity sorted by id, matching the lexicographic
// listing order of the file and S3 backends.
func (s *Store) GetAll(_ context.Context) ([]*aggregate.Entity, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return allEntitiesLocked(s), nil
}

// Save inserts entity, or upserts its fields if it already exists
// ("insert-or-upsert-fields semantics").
func (s *Store) Save(_ context.Context, entity *aggregate.Entity) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.entities[entity.ID] = entity
	return nil
}

// Update replaces entity's metadata. Callers pass the already-mutated
// aggregate; memstore does not distinguish metadata from field changes.
func (s *Store) Update(_ context.Context, entity *aggregate.Entity) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, exists := s.entities[entity.ID]; !exists {
		return errors.ErrEntityNotFound
	}
	s.entities[entity.ID] = entity
	return nil
}

// Delete removes id and its fields (cascading is implicit: the Entity
// value holds its own fields).
func (s *Store) Delete(_ context.Context, id ids.EntityId) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, exists := s.entities[id]; !exists {
		return errors.ErrEntityNotFound
	}
	delete(s.entities, id)
	return nil
}

func (s *Store) GetEntityDependencies(_ context.Context, id ids.EntityId) ([]repository.EntityDependency, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return repository.ComputeEntityDependencies(allEntitiesLocked(s), id), nil
}

func (s *Store) GetFieldDependencies(_ context.Context, entityID ids.EntityId, fieldID ids.FieldId) ([]repository.FieldDependency, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return repository.ComputeFieldDependencies(allEntitiesLocked(s), entityID, fieldID), nil
}

func allEntitiesLocked(s *Store) []*aggregate.Entity {
	out := make([]*aggregate.Entity, 0, len(s.entities))
	for _, e := range s.entities {
		out = append(out, e)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out
}

// RelationshipRepository method names (Exists/GetByID/...) collide with
// EntityRepository's, so the relationship side is implemented on a
// distinct type backed by the same Store, returned by Relationships.

// Relationships returns the relationship-side repository backed by the
// same Store instance.
func (s *Store) Relationships() repository.RelationshipRepository { return relStore{s} }

type relStore struct{ s *Store }

func (r relStore) Exists(_ context.Context, id ids.RelationshipId) (bool, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	_, ok := r.s.relationships[id]
	return ok, nil
}

func (r relStore) GetByID(_ context.Context, id ids.RelationshipId) (*aggregate.Relationship, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	rel, ok := r.s.relationships[id]
	if !ok {
		return nil, errors.NewBusinessError(errors.CodeRelationshipNotFound, "relationship not found")
	}
	return rel, nil
}

func (r relStore) GetAll(_ context.Context) ([]*aggregate.Relationship, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	out := make([]*aggregate.Relationship, 0, len(r.s.relationships))
	for _, rel := range r.s.relationships {
		out = append(out, rel)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (r relStore) Save(_ context.Context, rel *aggregate.Relationship) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	r.s.relationships[rel.ID] = rel
	return nil
}

func (r relStore) Update(_ context.Context, rel *aggregate.Relationship) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if _, exists := r.s.relationships[rel.ID]; !exists {
		return errors.NewBusinessError(errors.CodeRelationshipNotFound, "relationship not found")
	}
	r.s.relationships[rel.ID] = rel
	return nil
}

func (r relStore) Delete(_ context.Context, id ids.RelationshipId) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if _, exists := r.s.relationships[id]; !exists {
		return errors.NewBusinessError(errors.CodeRelationshipNotFound, "relationship not found")
	}
	delete(r.s.relationships, id)
	return nil
}
