package repositories

import (
	"errors"
	"fmt"
)

// Repositories holds all the repository instances
type Repositories struct {
	Store                 RecordStore
	StudentRepository     *StudentRepository
	ApplicationRepository *ApplicationRepository
	DocumentRepository    *DocumentRepository
	UniversityRepository  *UniversityRepository
}

// NewRepositories initializes all repositories over one record store
func NewRepositories(store RecordStore) *Repositories {
	return &Repositories{
		Store:                 store,
		StudentRepository:     NewStudentRepository(store),
		ApplicationRepository: NewApplicationRepository(store),
		DocumentRepository:    NewDocumentRepository(store),
		UniversityRepository:  NewUniversityRepository(store),
	}
}

func decodeAll[T any](records []Record) ([]*T, error) {
	out := make([]*T, 0, len(records))
	for _, rec := range records {
		var v T
		if err := FromRecord(rec, &v); err != nil {
			return nil, err
		}
		out = append(out, &v)
	}
	return out, nil
}

func decodeOne[T any](rec Record, err error, notFound error) (*T, error) {
	if err != nil {
		if errors.Is(err, ErrRecordNotFound) {
			return nil, notFound
		}
		return nil, err
	}
	var v T
	if err := FromRecord(rec, &v); err != nil {
		return nil, fmt.Errorf("decode record: %w", err)
	}
	return &v, nil
}

// withoutKeys returns a copy of r minus the given keys, for full-record updates
func withoutKeys(r Record, keys ...string) Record {
	out := make(Record, len(r))
	for k, v := range r {
		out[k] = v
	}
	for _, k := range keys {
		delete(out, k)
	}
	return out
}
