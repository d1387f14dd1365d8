package repositories

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"reflect"
	"strconv"
)

// Collection names used by the typed repositories
const (
	CollectionStudents     = "students"
	CollectionApplications = "applications"
	CollectionDocuments    = "documents"
	CollectionUniversities = "universities"
)

// Collections lists every collection the store must serve
var Collections = []string{
	CollectionStudents,
	CollectionApplications,
	CollectionDocuments,
	CollectionUniversities,
}

// ErrRecordNotFound is returned by FindOne when no record matches
var ErrRecordNotFound = errors.New("record not found")

// ErrDuplicateRecord is returned by Insert when the id is already taken
var ErrDuplicateRecord = errors.New("record already exists")

// Record is one stored document. Keys are the snake_case json field names.
type Record map[string]any

// Filter matches records whose fields equal the given values
type Filter map[string]any

// Query selects records from a collection
type Query struct {
	Filter Filter
	// OrderBy holds "field" or "field DESC" terms, applied in order
	OrderBy []string
	// Columns restricts the returned fields; empty means all
	Columns []string
	Limit   uint64
}

// RecordStore is CRUD over named collections. It is the only persistence
// dependency of the services, so tests run against MemoryStore.
type RecordStore interface {
	Find(ctx context.Context, collection string, q Query) ([]Record, error)
	FindOne(ctx context.Context, collection string, filter Filter) (Record, error)
	Insert(ctx context.Context, collection string, record Record) error
	// Update merges changes into every matching record and reports how many matched
	Update(ctx context.Context, collection string, filter Filter, changes Record) (int64, error)
	Delete(ctx context.Context, collection string, filter Filter) (int64, error)
}

// ToRecord converts a model into a Record through its json encoding
func ToRecord(v any) (Record, error) {
	data, err := json.Marshal(v)
	if err != nil {
		return nil, fmt.Errorf("encode record: %w", err)
	}
	return decodeRecord(data)
}

// FromRecord fills v from a Record
func FromRecord(r Record, v any) error {
	data, err := json.Marshal(r)
	if err != nil {
		return fmt.Errorf("encode record: %w", err)
	}
	if err := json.Unmarshal(data, v); err != nil {
		return fmt.Errorf("decode record: %w", err)
	}
	return nil
}

func decodeRecord(data []byte) (Record, error) {
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.UseNumber()
	var r Record
	if err := dec.Decode(&r); err != nil {
		return nil, fmt.Errorf("decode record: %w", err)
	}
	return r, nil
}

// normalizeValue gives filter values and stored values one comparable text form,
// the same form Postgres returns for data->>'field'
func normalizeValue(v any) string {
	if v == nil {
		return ""
	}
	if s, ok := v.(fmt.Stringer); ok {
		return s.String()
	}
	rv := reflect.ValueOf(v)
	switch rv.Kind() {
	case reflect.String:
		return rv.String()
	case reflect.Bool:
		return strconv.FormatBool(rv.Bool())
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		return strconv.FormatInt(rv.Int(), 10)
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64:
		return strconv.FormatUint(rv.Uint(), 10)
	case reflect.Float32, reflect.Float64:
		return strconv.FormatFloat(rv.Float(), 'f', -1, 64)
	}
	data, err := json.Marshal(v)
	if err != nil {
		return fmt.Sprint(v)
	}
	return string(data)
}
