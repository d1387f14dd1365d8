package repositories

import (
	"context"
	"encoding/json"
	"fmt"
	"sort"
	"strings"
	"sync"
	"time"
)

type memoryEntry struct {
	seq    int64
	record Record
}

// MemoryStore is an in-process RecordStore used by tests and the memory storage driver
type MemoryStore struct {
	mu          sync.RWMutex
	seq         int64
	collections map[string]map[string]*memoryEntry
}

// NewMemoryStore creates an empty store
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{collections: make(map[string]map[string]*memoryEntry)}
}

// Find returns copies of every matching record
func (s *MemoryStore) Find(ctx context.Context, collection string, q Query) ([]Record, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	s.mu.RLock()
	var entries []*memoryEntry
	for _, e := range s.collections[collection] {
		if !matches(e.record, q.Filter) {
			continue
		}
		rec, err := copyRecord(e.record)
		if err != nil {
			s.mu.RUnlock()
			return nil, err
		}
		entries = append(entries, &memoryEntry{seq: e.seq, record: rec})
	}
	s.mu.RUnlock()

	orderings := parseOrderBy(q.OrderBy)
	sort.SliceStable(entries, func(i, j int) bool {
		for _, o := range orderings {
			c := compareValues(entries[i].record[o.field], entries[j].record[o.field])
			if c == 0 {
				continue
			}
			if o.desc {
				return c > 0
			}
			return c < 0
		}
		return entries[i].seq < entries[j].seq
	})

	if q.Limit > 0 && uint64(len(entries)) > q.Limit {
		entries = entries[:q.Limit]
	}

	out := make([]Record, 0, len(entries))
	for _, e := range entries {
		out = append(out, project(e.record, q.Columns))
	}
	return out, nil
}

// FindOne returns the first matching record or ErrRecordNotFound
func (s *MemoryStore) FindOne(ctx context.Context, collection string, filter Filter) (Record, error) {
	records, err := s.Find(ctx, collection, Query{Filter: filter, Limit: 1})
	if err != nil {
		return nil, err
	}
	if len(records) == 0 {
		return nil, ErrRecordNotFound
	}
	return records[0], nil
}

// Insert stores a copy of record; the record must carry an id
func (s *MemoryStore) Insert(ctx context.Context, collection string, record Record) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	id := normalizeValue(record["id"])
	if id == "" {
		return fmt.Errorf("insert into %s: record id is required", collection)
	}
	rec, err := copyRecord(record)
	if err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	coll, ok := s.collections[collection]
	if !ok {
		coll = make(map[string]*memoryEntry)
		s.collections[collection] = coll
	}
	if _, exists := coll[id]; exists {
		return fmt.Errorf("insert into %s: %w", collection, ErrDuplicateRecord)
	}
	s.seq++
	coll[id] = &memoryEntry{seq: s.seq, record: rec}
	return nil
}

// Update merges changes into every matching record
func (s *MemoryStore) Update(ctx context.Context, collection string, filter Filter, changes Record) (int64, error) {
	if err := ctx.Err(); err != nil {
		return 0, err
	}
	patch, err := copyRecord(changes)
	if err != nil {
		return 0, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	var affected int64
	for _, e := range s.collections[collection] {
		if !matches(e.record, filter) {
			continue
		}
		for k, v := range patch {
			e.record[k] = v
		}
		affected++
	}
	return affected, nil
}

// Delete removes every matching record
func (s *MemoryStore) Delete(ctx context.Context, collection string, filter Filter) (int64, error) {
	if err := ctx.Err(); err != nil {
		return 0, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	var affected int64
	coll := s.collections[collection]
	for id, e := range coll {
		if matches(e.record, filter) {
			delete(coll, id)
			affected++
		}
	}
	return affected, nil
}

func matches(record Record, filter Filter) bool {
	for k, want := range filter {
		got, ok := record[k]
		if !ok || normalizeValue(got) != normalizeValue(want) {
			return false
		}
	}
	return true
}

func project(record Record, columns []string) Record {
	if len(columns) == 0 {
		return record
	}
	out := make(Record, len(columns))
	for _, c := range columns {
		if v, ok := record[c]; ok {
			out[c] = v
		}
	}
	return out
}

func copyRecord(r Record) (Record, error) {
	data, err := json.Marshal(r)
	if err != nil {
		return nil, fmt.Errorf("copy record: %w", err)
	}
	return decodeRecord(data)
}

type ordering struct {
	field string
	desc  bool
}

func parseOrderBy(terms []string) []ordering {
	out := make([]ordering, 0, len(terms))
	for _, term := range terms {
		parts := strings.Fields(term)
		if len(parts) == 0 {
			continue
		}
		o := ordering{field: parts[0]}
		if len(parts) > 1 && strings.EqualFold(parts[1], "desc") {
			o.desc = true
		}
		out = append(out, o)
	}
	return out
}

// compareValues orders timestamps chronologically, numbers numerically and the rest as text
func compareValues(a, b any) int {
	as, bs := normalizeValue(a), normalizeValue(b)
	if ta, err := time.Parse(time.RFC3339Nano, as); err == nil {
		if tb, err := time.Parse(time.RFC3339Nano, bs); err == nil {
			return ta.Compare(tb)
		}
	}
	if na, ok := a.(json.Number); ok {
		if nb, ok := b.(json.Number); ok {
			fa, errA := na.Float64()
			fb, errB := nb.Float64()
			if errA == nil && errB == nil {
				switch {
				case fa < fb:
					return -1
				case fa > fb:
					return 1
				}
				return 0
			}
		}
	}
	return strings.Compare(as, bs)
}
