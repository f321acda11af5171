// Package s3store implements repository.EntityRepository and
// repository.RelationshipRepository on an S3-compatible object store via
// aws-sdk-go-v2 — the deployed-environment repository backend.
// One object per aggregate, keyed by id.
package s3store

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"io"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/aws/aws-sdk-go-v2/service/s3/types"

	schemaerrors "github.com/niiniyare/schemaforge/pkg/errors"
	"github.com/niiniyare/schemaforge/pkg/schemakit/aggregate"
	"github.com/niiniyare/schemaforge/pkg/schemakit/ids"
	"github.com/niiniyare/schemaforge/pkg/schemakit/interchange"
	"github.com/niiniyare/schemaforge/pkg/schemakit/repository"
)

// Client is the subset of *s3.Client this package calls, so tests can
// supply a fake without spinning up a real bucket.
type Client interface {
	HeadObject(ctx context.Context, in *s3.HeadObjectInput, opts ...func(*s3.Options)) (*s3.HeadObjectOutput, error)
	GetObject(ctx context.Context, in *s3.GetObjectInput, opts ...func(*s3.Options)) (*s3.GetObjectOutput, error)
	PutObject(ctx context.Context, in *s3.PutObjectInput, opts ...func(*s3.Options)) (*s3.PutObjectOutput, error)
	DeleteObject(ctx context.Context, in *s3.DeleteObjectInput, opts ...func(*s3.Options)) (*s3.DeleteObjectOutput, error)
	ListObjectsV2(ctx context.Context, in *s3.ListObjectsV2Input, opts ...func(*s3.Options)) (*s3.ListObjectsV2Output, error)
}

// Store is an S3-backed repository. Entities live under
// <prefix>entities/<id>.json, relationships under
// <prefix>relationships/<id>.json within bucket.
type Store struct {
	client Client
	bucket string
	prefix string
}

// New constructs a Store against bucket, storing every key under prefix
// (pass "" for no prefix).
func New(client Client, bucket, prefix string) *Store {
	return &Store{client: client, bucket: bucket, prefix: prefix}
}

func (s *Store) entityKey(id ids.EntityId) string {
	return s.prefix + "entities/" + string(id) + ".json"
}

func (s *Store) relKey(id ids.RelationshipId) string {
	return s.prefix + "relationships/" + string(id) + ".json"
}

func isNotFound(err error) bool {
	var nsk *types.NoSuchKey
	var nf *types.NotFound
	return errors.As(err, &nsk) || errors.As(err, &nf)
}

func (s *Store) Exists(ctx context.Context, id ids.EntityId) (bool, error) {
	_, err := s.client.HeadObject(ctx, &s3.HeadObjectInput{
		Bucket: aws.String(s.bucket),
		Key:    aws.String(s.entityKey(id)),
	})
	if isNotFound(err) {
		return false, nil
	}
	if err != nil {
		return false, schemaerrors.NewRepositoryError(schemaerrors.CodeRepositoryError, "head entity object", err)
	}
	return true, nil
}

func (s *Store) GetByID(ctx context.Context, id ids.EntityId) (*aggregate.Entity, error) {
	out, err := s.client.GetObject(ctx, &s3.GetObjectInput{
		Bucket: aws.String(s.bucket),
		Key:    aws.String(s.entityKey(id)),
	})
	if isNotFound(err) {
		return nil, schemaerrors.ErrEntityNotFound
	}
	if err != nil {
		return nil, schemaerrors.NewRepositoryError(schemaerrors.CodeRepositoryError, "get entity object", err)
	}
	defer out.Body.Close()
	data, err := io.ReadAll(out.Body)
	if err != nil {
		return nil, schemaerrors.NewRepositoryError(schemaerrors.CodeRepositoryError, "read entity object body", err)
	}
	var rec interchange.EntityRecord
	if err := json.Unmarshal(data, &rec); err != nil {
		return nil, schemaerrors.NewRepositoryError(schemaerrors.CodeJSONSyntax, "decode entity object", err)
	}
	return rec.ToDomain(), nil
}

func (s *Store) GetAll(ctx context.Context) ([]*aggregate.Entity, error) {
	keys, err := s.listKeys(ctx, s.prefix+"entities/")
	if err != nil {
		return nil, err
	}
	out := make([]*aggregate.Entity, 0, len(keys))
	for _, key := range keys {
		id := ids.EntityId(trimPrefixAndSuffix(key, s.prefix+"entities/", ".json"))
		e, err := s.GetByID(ctx, id)
		if err != nil {
			return nil, err
		}
		out = append(out, e)
	}
	return out, nil
}

func (s *Store) listKeys(ctx context.Context, prefix string) ([]string, error) {
	var keys []string
	var token *string
	for {
		resp, err := s.client.ListObjectsV2(ctx, &s3.ListObjectsV2Input{
			Bucket:            aws.String(s.bucket),
			Prefix:            aws.String(prefix),
			ContinuationToken: token,
		})
		if err != nil {
			return nil, schemaerrors.NewRepositoryError(schemaerrors.CodeRepositoryError, "list objects", err)
		}
		for _, obj := range resp.Contents {
			keys = append(keys, aws.ToString(obj.Key))
		}
		if resp.IsTruncated == nil || !*resp.IsTruncated {
			break
		}
		token = resp.NextContinuationToken
	}
	return keys, nil
}

func (s *Store) Save(ctx context.Context, entity *aggregate.Entity) error {
	return s.putEntity(ctx, entity)
}

func (s *Store) Update(ctx context.Context, entity *aggregate.Entity) error {
	exists, err := s.Exists(ctx, entity.ID)
	if err != nil {
		return err
	}
	if !exists {
		return schemaerrors.ErrEntityNotFound
	}
	return s.putEntity(ctx, entity)
}

func (s *Store) putEntity(ctx context.Context, entity *aggregate.Entity) error {
	rec := interchange.EntityRecordFromDomain(entity)
	data, err := json.Marshal(rec)
	if err != nil {
		return schemaerrors.NewRepositoryError(schemaerrors.CodeJSONSyntax, "encode entity object", err)
	}
	_, err = s.client.PutObject(ctx, &s3.PutObjectInput{
		Bucket: aws.String(s.bucket),
		Key:    aws.String(s.entityKey(entity.ID)),
		Body:   bytes.NewReader(data),
	})
	if err != nil {
		return schemaerrors.NewRepositoryError(schemaerrors.CodeRepositoryError, "put entity object", err)
	}
	return nil
}

func (s *Store) Delete(ctx context.Context, id ids.EntityId) error {
	exists, err := s.Exists(ctx, id)
	if err != nil {
		return err
	}
	if !exists {
		return schemaerrors.ErrEntityNotFound
	}
	_, err = s.client.DeleteObject(ctx, &s3.DeleteObjectInput{
		Bucket: aws.String(s.bucket),
		Key:    aws.String(s.entityKey(id)),
	})
	if err != nil {
		return schemaerrors.NewRepositoryError(schemaerrors.CodeRepositoryError, "delete entity object", err)
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

func (r relStore) Exists(ctx context.Context, id ids.RelationshipId) (bool, error) {
	_, err := r.s.client.HeadObject(ctx, &s3.HeadObjectInput{
		Bucket: aws.String(r.s.bucket),
		Key:    aws.String(r.s.relKey(id)),
	})
	if isNotFound(err) {
		return false, nil
	}
	if err != nil {
		return false, schemaerrors.NewRepositoryError(schemaerrors.CodeRepositoryError, "head relationship object", err)
	}
	return true, nil
}

func (r relStore) GetByID(ctx context.Context, id ids.RelationshipId) (*aggregate.Relationship, error) {
	out, err := r.s.client.GetObject(ctx, &s3.GetObjectInput{
		Bucket: aws.String(r.s.bucket),
		Key:    aws.String(r.s.relKey(id)),
	})
	if isNotFound(err) {
		return nil, schemaerrors.NewBusinessError(schemaerrors.CodeRelationshipNotFound, "relationship not found")
	}
	if err != nil {
		return nil, schemaerrors.NewRepositoryError(schemaerrors.CodeRepositoryError, "get relationship object", err)
	}
	defer out.Body.Close()
	data, err := io.ReadAll(out.Body)
	if err != nil {
		return nil, schemaerrors.NewRepositoryError(schemaerrors.CodeRepositoryError, "read relationship object body", err)
	}
	var dto interchange.RelationshipDTO
	if err := json.Unmarshal(data, &dto); err != nil {
		return nil, schemaerrors.NewRepositoryError(schemaerrors.CodeJSONSyntax, "decode relationship object", err)
	}
	return dto.ToDomain(), nil
}

func (r relStore) GetAll(ctx context.Context) ([]*aggregate.Relationship, error) {
	keys, err := r.s.listKeys(ctx, r.s.prefix+"relationships/")
	if err != nil {
		return nil, err
	}
	out := make([]*aggregate.Relationship, 0, len(keys))
	for _, key := range keys {
		id := ids.RelationshipId(trimPrefixAndSuffix(key, r.s.prefix+"relationships/", ".json"))
		rel, err := r.GetByID(ctx, id)
		if err != nil {
			return nil, err
		}
		out = append(out, rel)
	}
	return out, nil
}

func (r relStore) Save(ctx context.Context, rel *aggregate.Relationship) error {
	return r.put(ctx, rel)
}

func (r relStore) Update(ctx context.Context, rel *aggregate.Relationship) error {
	exists, err := r.Exists(ctx, rel.ID)
	if err != nil {
		return err
	}
	if !exists {
		return schemaerrors.NewBusinessError(schemaerrors.CodeRelationshipNotFound, "relationship not found")
	}
	return r.put(ctx, rel)
}

func (r relStore) put(ctx context.Context, rel *aggregate.Relationship) error {
	dto := interchange.RelationshipFromDomain(rel)
	data, err := json.Marshal(dto)
	if err != nil {
		return schemaerrors.NewRepositoryError(schemaerrors.CodeJSONSyntax, "encode relationship object", err)
	}
	_, err = r.s.client.PutObject(ctx, &s3.PutObjectInput{
		Bucket: aws.String(r.s.bucket),
		Key:    aws.String(r.s.relKey(rel.ID)),
		Body:   bytes.NewReader(data),
	})
	if err != nil {
		return schemaerrors.NewRepositoryError(schemaerrors.CodeRepositoryError, "put relationship object", err)
	}
	return nil
}

func (r relStore) Delete(ctx context.Context, id ids.RelationshipId) error {
	exists, err := r.Exists(ctx, id)
	if err != nil {
		return err
	}
	if !exists {
		return schemaerrors.NewBusinessError(schemaerrors.CodeRelationshipNotFound, "relationship not found")
	}
	_, err = r.s.client.DeleteObject(ctx, &s3.DeleteObjectInput{
		Bucket: aws.String(r.s.bucket),
		Key:    aws.String(r.s.relKey(id)),
	})
	if err != nil {
		return schemaerrors.NewRepositoryError(schemaerrors.CodeRepositoryError, "delete relationship object", err)
	}
	return nil
}

func trimPrefixAndSuffix(s, prefix, suffix string) string {
	s = s[len(prefix):]
	return s[:len(s)-len(suffix)]
}
