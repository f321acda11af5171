// Package filestore implements repository.EntityRepository and
// repository.RelationshipRepository on local JSON-on-disk files, one file
// per aggregate under a configured base directory — the "local
// persistence" repository backend.
package filestore

import (
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"sync"

	"github.com/niiniyare/schemaforge/pkg/errors"
	"github.com/niiniyare/schemaforge/pkg/schemakit/aggregate"
	"github.com/niiniyare/schemaforge/pkg/schemakit/ids"
	"github.com/niiniyare/schemaforge/pkg/schemakit/interchange"
	"github.com/niiniyare/schemaforge/pkg/schemakit/repository"
)

// Store is a filesystem-backed repository. Entities live under
// <baseDir>/entities/<id>.json, relationships under
// <baseDir>/relationships/<id>.json.
type Store struct {
	mu      sync.Mutex
	baseDir string
}

// New constructs a Store rooted at baseDir, creating it if absent.
func New(baseDir string) (*Store, error) {
	if err := os.MkdirAll(filepath.Join(baseDir, "entities"), 0o755); err != nil {
		return nil, errors.NewRepositoryError(errors.CodeFileReadFailed, "create entities directory", err)
	}
	if err := os.MkdirAll(filepath.Join(baseDir, "relationships"), 0o755); err != nil {
		return nil, errors.NewRepositoryError(errors.CodeFileReadFailed, "create relationships directory", err)
	}
	return &Store{baseDir: baseDir}, nil
}

func (s *Store) entityPath(id ids.EntityId) string {
	return filepath.Join(s.baseDir, "entities", string(id)+".json")
}

func (s *Store) relPath(id ids.RelationshipId) string {
	return filepath.Join(s.baseDir, "relationships", string(id)+".json")
}

func (s *Store) Exists(_ context.Context, id ids.EntityId) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	_, err := os.Stat(s.entityPath(id))
	if os.IsNotExist(err) {
		return false, nil
	}
	if err != nil {
		return false, errors.NewRepositoryError(errors.CodeFileReadFailed, "stat entity file", err)
	}
	return true, nil
}

func (s *Store) GetByID(_ context.Context, id ids.EntityId) (*aggregate.Entity, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.readEntity(id)
}

func (s *Store) readEntity(id ids.EntityId) (*aggregate.Entity, error) {
	data, err := os.ReadFile(s.entityPath(id))
	if os.IsNotExist(err) {
		return nil, errors.ErrEntityNotFound
	}
	if err != nil {
		return nil, errors.NewRepositoryError(errors.CodeFileReadFailed, "read entity file", err)
	}
	var rec interchange.EntityRecord
	if jsonErr := json.Unmarshal(data, &rec); jsonErr != nil {
		return nil, errors.NewRepositoryError(errors.CodeJSONSyntax, "decode entity file", jsonErr)
	}
	return rec.ToDomain(), nil
}

func (s *Store) GetAll(_ context.Context) ([]*aggregate.Entity, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	entries, err := os.ReadDir(filepath.Join(s.baseDir, "entities"))
	if err != nil {
		return nil, errors.NewRepositoryError(errors.CodeFileReadFailed, "list entities directory", err)
	}
	out := make([]*aggregate.Entity, 0, len(entries))
	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		id := ids.EntityId(trimJSONExt(entry.Name()))
		e, err := s.readEntity(id)
		if err != nil {
			return nil, err
		}
		out = append(out, e)
	}
	return out, nil
}

func (s *Store) Save(_ context.Context, entity *aggregate.Entity) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.writeEntity(entity)
}

func (s *Store) Update(_ context.Context, entity *aggregate.Entity) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, err := os.Stat(s.entityPath(entity.ID)); os.IsNotExist(err) {
		return errors.ErrEntityNotFound
	}
	return s.writeEntity(entity)
}

func (s *Store) writeEntity(entity *aggregate.Entity) error {
	rec := interchange.EntityRecordFromDomain(entity)
	data, err := json.MarshalIndent(rec, "", "  ")
	if err != nil {
		return errors.NewRepositoryError(errors.CodeJSONSyntax, "encode entity file", err)
	}
	if err := os.WriteFile(s.entityPath(entity.ID), data, 0o644); err != nil {
		return errors.NewRepositoryError(errors.CodeFileReadFailed, "write entity file", err)
	}
	return nil
}

func (s *Store) Delete(_ context.Context, id ids.EntityId) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := os.Remove(s.entityPath(id)); err != nil {
		if os.IsNotExist(err) {
			return errors.ErrEntityNotFound
		}
		return errors.NewRepositoryError(errors.CodeFileReadFailed, "remove entity file", err)
	}
	return nil
}

func (s *Store) GetEntityDependencies(ctx context.Context, id ids.EntityId) ([]repository.EntityDependency, error) {
	all, err := s.GetAll(ctx)
	if err != nil {
		return nil, err
	}
	return repository.ComputeEntityDependencies(all, id), nil
}

func (s *Store) GetFieldDependencies(ctx context.Context, entityID ids.EntityId, fieldID ids.FieldId) ([]repository.FieldDependency, error) {
	all, err := s.GetAll(ctx)
	if err != nil {
		return nil, err
	}
	return repository.ComputeFieldDependencies(all, entityID, fieldID), nil
}

// Relationships returns the relationship-side repository backed by the
// same Store instance (mirrors memstore.Store.Relationships).
func (s *Store) Relationships() repository.RelationshipRepository { return relStore{s} }

type relStore struct{ s *Store }

func (r relStore) Exists(_ context.Context, id ids.RelationshipId) (bool, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	_, err := os.Stat(r.s.relPath(id))
	if os.IsNotExist(err) {
		return false, nil
	}
	return err == nil, err
}

func (r relStore) GetByID(_ context.Context, id ids.RelationshipId) (*aggregate.Relationship, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	return r.read(id)
}

func (r relStore) read(id ids.RelationshipId) (*aggregate.Relationship, error) {
	data, err := os.ReadFile(r.s.relPath(id))
	if os.IsNotExist(err) {
		return nil, errors.NewBusinessError(errors.CodeRelationshipNotFound, "relationship not found")
	}
	if err != nil {
		return nil, errors.NewRepositoryError(errors.CodeFileReadFailed, "read relationship file", err)
	}
	var dto interchange.RelationshipDTO
	if jsonErr := json.Unmarshal(data, &dto); jsonErr != nil {
		return nil, errors.NewRepositoryError(errors.CodeJSONSyntax, "decode relationship file", jsonErr)
	}
	return dto.ToDomain(), nil
}

func (r relStore) GetAll(_ context.Context) ([]*aggregate.Relationship, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	entries, err := os.ReadDir(filepath.Join(r.s.baseDir, "relationships"))
	if err != nil {
		return nil, errors.NewRepositoryError(errors.CodeFileReadFailed, "list relationships directory", err)
	}
	out := make([]*aggregate.Relationship, 0, len(entries))
	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		rel, err := r.read(ids.RelationshipId(trimJSONExt(entry.Name())))
		if err != nil {
			return nil, err
		}
		out = append(out, rel)
	}
	return out, nil
}

func (r relStore) Save(_ context.Context, rel *aggregate.Relationship) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	return r.write(rel)
}

func (r relStore) Update(_ context.Context, rel *aggregate.Relationship) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if _, err := os.Stat(r.s.relPath(rel.ID)); os.IsNotExist(err) {
		return errors.NewBusinessError(errors.CodeRelationshipNotFound, "relationship not found")
	}
	return r.write(rel)
}

func (r relStore) write(rel *aggregate.Relationship) error {
	dto := interchange.RelationshipFromDomain(rel)
	data, err := json.MarshalIndent(dto, "", "  ")
	if err != nil {
		return errors.NewRepositoryError(errors.CodeJSONSyntax, "encode relationship file", err)
	}
	if err := os.WriteFile(r.s.relPath(rel.ID), data, 0o644); err != nil {
		return errors.NewRepositoryError(errors.CodeFileReadFailed, "write relationship file", err)
	}
	return nil
}

func (r relStore) Delete(_ context.Context, id ids.RelationshipId) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if err := os.Remove(r.s.relPath(id)); err != nil {
		if os.IsNotExist(err) {
			return errors.NewBusinessError(errors.CodeRelationshipNotFound, "relationship not found")
		}
		return errors.NewRepositoryError(errors.CodeFileReadFailed, "remove relationship file", err)
	}
	return nil
}

func trimJSONExt(name string) string {
	return name[:len(name)-len(filepath.Ext(name))]
}
