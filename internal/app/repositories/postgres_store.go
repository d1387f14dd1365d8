package repositories

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/Masterminds/squirrel"
	"github.com/agentcommand/tracker/internal/pkg/dberrors"
	"github.com/agentcommand/tracker/internal/pkg/logger"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// PostgresStore keeps each collection in its own table of
// (id text primary key, data jsonb, created_at timestamptz).
// Filters and orderings address fields inside data.
type PostgresStore struct {
	db *pgxpool.Pool
	sb squirrel.StatementBuilderType
}

// NewPostgresStore creates a store over an open pool
func NewPostgresStore(db *pgxpool.Pool) *PostgresStore {
	return &PostgresStore{
		db: db,
		sb: squirrel.StatementBuilder.PlaceholderFormat(squirrel.Dollar),
	}
}

func tableName(collection string) (string, error) {
	for _, known := range Collections {
		if collection == known {
			return pgx.Identifier{collection}.Sanitize(), nil
		}
	}
	return "", fmt.Errorf("unknown collection %q", collection)
}

func whereFilter(filter Filter) squirrel.And {
	conds := squirrel.And{}
	for k, v := range filter {
		if k == "id" {
			conds = append(conds, squirrel.Eq{"id": normalizeValue(v)})
			continue
		}
		conds = append(conds, squirrel.Expr("data->>(?::text) = ?::text", k, normalizeValue(v)))
	}
	return conds
}

func orderTerm(term string) (string, error) {
	parts := strings.Fields(term)
	if len(parts) == 0 || len(parts) > 2 {
		return "", fmt.Errorf("invalid order term %q", term)
	}
	dir := "ASC"
	if len(parts) == 2 {
		switch strings.ToUpper(parts[1]) {
		case "ASC":
		case "DESC":
			dir = "DESC"
		default:
			return "", fmt.Errorf("invalid order direction %q", parts[1])
		}
	}
	field := parts[0]
	switch field {
	case "id", "created_at":
		return field + " " + dir, nil
	}
	// field names become jsonb keys, never raw SQL
	key := strings.ReplaceAll(field, "'", "''")
	return fmt.Sprintf("data->>'%s' %s", key, dir), nil
}

// Find returns matching records
func (s *PostgresStore) Find(ctx context.Context, collection string, q Query) ([]Record, error) {
	table, err := tableName(collection)
	if err != nil {
		return nil, err
	}

	query := s.sb.Select("data").From(table)
	if len(q.Filter) > 0 {
		query = query.Where(whereFilter(q.Filter))
	}
	for _, term := range q.OrderBy {
		clause, err := orderTerm(term)
		if err != nil {
			return nil, err
		}
		query = query.OrderBy(clause)
	}
	if len(q.OrderBy) == 0 {
		query = query.OrderBy("created_at ASC")
	}
	if q.Limit > 0 {
		query = query.Limit(q.Limit)
	}

	sqlStr, args, err := query.ToSql()
	if err != nil {
		return nil, fmt.Errorf("build find query for %s: %w", collection, err)
	}

	rows, err := s.db.Query(ctx, sqlStr, args...)
	if err != nil {
		logger.Error().Err(err).Str("collection", collection).Msg("Error querying records")
		return nil, fmt.Errorf("query %s: %w", collection, err)
	}
	defer rows.Close()

	var records []Record
	for rows.Next() {
		var raw []byte
		if err := rows.Scan(&raw); err != nil {
			return nil, fmt.Errorf("scan %s: %w", collection, err)
		}
		rec, err := decodeRecord(raw)
		if err != nil {
			return nil, err
		}
		records = append(records, project(rec, q.Columns))
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate %s: %w", collection, err)
	}
	return records, nil
}

// FindOne returns the first matching record or ErrRecordNotFound
func (s *PostgresStore) FindOne(ctx context.Context, collection string, filter Filter) (Record, error) {
	records, err := s.Find(ctx, collection, Query{Filter: filter, Limit: 1})
	if err != nil {
		return nil, err
	}
	if len(records) == 0 {
		return nil, ErrRecordNotFound
	}
	return records[0], nil
}

// Insert writes a new record. The record's id and created_at fields are mirrored into columns.
func (s *PostgresStore) Insert(ctx context.Context, collection string, record Record) error {
	table, err := tableName(collection)
	if err != nil {
		return err
	}
	id := normalizeValue(record["id"])
	if id == "" {
		return fmt.Errorf("insert into %s: record id is required", collection)
	}
	payload, err := json.Marshal(record)
	if err != nil {
		return fmt.Errorf("encode %s record: %w", collection, err)
	}
	createdAt := time.Now().UTC()
	if raw, ok := record["created_at"].(string); ok {
		if t, err := time.Parse(time.RFC3339Nano, raw); err == nil {
			createdAt = t
		}
	}

	sqlStr, args, err := s.sb.Insert(table).
		Columns("id", "data", "created_at").
		Values(id, string(payload), createdAt).
		ToSql()
	if err != nil {
		return fmt.Errorf("build insert for %s: %w", collection, err)
	}

	if _, err := s.db.Exec(ctx, sqlStr, args...); err != nil {
		if dberrors.IsDuplicateKeyError(err) {
			return fmt.Errorf("insert into %s: %w", collection, ErrDuplicateRecord)
		}
		logger.Error().Err(err).Str("collection", collection).Str("id", id).Msg("Error inserting record")
		return fmt.Errorf("insert into %s: %w", collection, err)
	}
	return nil
}

// Update merges changes into the jsonb document of every matching record
func (s *PostgresStore) Update(ctx context.Context, collection string, filter Filter, changes Record) (int64, error) {
	table, err := tableName(collection)
	if err != nil {
		return 0, err
	}
	if len(changes) == 0 {
		return 0, errors.New("update requires at least one change")
	}
	payload, err := json.Marshal(changes)
	if err != nil {
		return 0, fmt.Errorf("encode %s changes: %w", collection, err)
	}

	query := s.sb.Update(table).Set("data", squirrel.Expr("data || ?::jsonb", string(payload)))
	if len(filter) > 0 {
		query = query.Where(whereFilter(filter))
	}
	sqlStr, args, err := query.ToSql()
	if err != nil {
		return 0, fmt.Errorf("build update for %s: %w", collection, err)
	}

	tag, err := s.db.Exec(ctx, sqlStr, args...)
	if err != nil {
		logger.Error().Err(err).Str("collection", collection).Msg("Error updating records")
		return 0, fmt.Errorf("update %s: %w", collection, err)
	}
	return tag.RowsAffected(), nil
}

// Delete removes every matching record
func (s *PostgresStore) Delete(ctx context.Context, collection string, filter Filter) (int64, error) {
	table, err := tableName(collection)
	if err != nil {
		return 0, err
	}
	if len(filter) == 0 {
		return 0, errors.New("delete requires a filter")
	}

	sqlStr, args, err := s.sb.Delete(table).Where(whereFilter(filter)).ToSql()
	if err != nil {
		return 0, fmt.Errorf("build delete for %s: %w", collection, err)
	}

	tag, err := s.db.Exec(ctx, sqlStr, args...)
	if err != nil {
		logger.Error().Err(err).Str("collection", collection).Msg("Error deleting records")
		return 0, fmt.Errorf("delete from %s: %w", collection, err)
	}
	return tag.RowsAffected(), nil
}
