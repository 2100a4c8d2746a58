package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"kharchapal/internal/database"
)

// ops implements Handle against either the database or a transaction
type ops struct {
	q database.DBTX
	s *Store
}

func (o *ops) collection(name string) (Collection, error) {
	c, ok := o.s.collections[name]
	if !ok {
		return Collection{}, fmt.Errorf("%w: %s", ErrUnknownCollection, name)
	}
	return c, nil
}

// encoded is a record ready to be written: its key, JSON and index values
type encoded struct {
	key     string
	data    []byte
	columns []string
	values  []any
}

// encode serializes record and pulls the primary key and index values
// out of its top-level JSON fields.
func encode(c Collection, record any) (*encoded, error) {
	data, err := json.Marshal(record)
	if err != nil {
		return nil, fmt.Errorf("%w: %s: %w", ErrWrite, c.Name, err)
	}

	var fields map[string]any
	if err := json.Unmarshal(data, &fields); err != nil {
		return nil, fmt.Errorf("%w: %s: record is not an object: %w", ErrWrite, c.Name, err)
	}

	key, _ := fields["id"].(string)
	if key == "" {
		return nil, fmt.Errorf("%w: %s: record has no id", ErrWrite, c.Name)
	}

	e := &encoded{
		key:     key,
		data:    data,
		columns: []string{"id", "data"},
		values:  []any{key, string(data)},
	}
	for _, idx := range c.Indexes {
		e.columns = append(e.columns, database.IndexColumn(idx))
		e.values = append(e.values, indexValue(fields[idx]))
	}
	return e, nil
}

func indexValue(v any) any {
	switch t := v.(type) {
	case nil:
		return nil
	case string:
		if t == "" {
			return nil
		}
		return t
	default:
		return fmt.Sprint(t)
	}
}

// Add inserts record; the key must not exist yet
func (o *ops) Add(ctx context.Context, collection string, record any) error {
	c, err := o.collection(collection)
	if err != nil {
		return err
	}
	e, err := encode(c, record)
	if err != nil {
		return err
	}

	var count int
	query := fmt.Sprintf("SELECT COUNT(*) FROM %s WHERE id = ?", c.table())
	if err := o.q.QueryRowContext(ctx, query, e.key).Scan(&count); err != nil {
		return fmt.Errorf("%w: %s/%s: %w", ErrWrite, c.Name, e.key, err)
	}
	if count > 0 {
		return fmt.Errorf("%w: %s/%s", ErrDuplicateKey, c.Name, e.key)
	}

	marks := "?, ?"
	for range c.Indexes {
		marks += ", ?"
	}
	query = fmt.Sprintf("INSERT INTO %s (%s) VALUES (%s)", c.table(), strings.Join(e.columns, ", "), marks)
	if _, err := o.q.ExecContext(ctx, query, e.values...); err != nil {
		return fmt.Errorf("%w: %s/%s: %w", ErrWrite, c.Name, e.key, err)
	}
	return nil
}

// Put inserts or replaces record by its key
func (o *ops) Put(ctx context.Context, collection string, record any) error {
	c, err := o.collection(collection)
	if err != nil {
		return err
	}
	e, err := encode(c, record)
	if err != nil {
		return err
	}

	query := o.q.GetDialect().UpsertQuery(c.table(), "id", e.columns)
	if _, err := o.q.ExecContext(ctx, query, e.values...); err != nil {
		return fmt.Errorf("%w: %s/%s: %w", ErrWrite, c.Name, e.key, err)
	}
	return nil
}

// Get loads the record stored under key into out
func (o *ops) Get(ctx context.Context, collection, key string, out any) error {
	c, err := o.collection(collection)
	if err != nil {
		return err
	}

	var data string
	query := fmt.Sprintf("SELECT data FROM %s WHERE id = ?", c.table())
	err = o.q.QueryRowContext(ctx, query, key).Scan(&data)
	if errors.Is(err, sql.ErrNoRows) {
		return fmt.Errorf("%w: %s/%s", ErrNotFound, c.Name, key)
	}
	if err != nil {
		return fmt.Errorf("%w: %s/%s: %w", ErrRead, c.Name, key, err)
	}

	if err := json.Unmarshal([]byte(data), out); err != nil {
		return fmt.Errorf("%w: %s/%s: %w", ErrRead, c.Name, key, err)
	}
	return nil
}

// GetAll returns every record in the collection
func (o *ops) GetAll(ctx context.Context, collection string) ([]json.RawMessage, error) {
	c, err := o.collection(collection)
	if err != nil {
		return nil, err
	}
	query := fmt.Sprintf("SELECT data FROM %s ORDER BY id", c.table())
	return o.scan(ctx, c, query)
}

// GetAllByIndex returns the records whose indexed field equals value
func (o *ops) GetAllByIndex(ctx context.Context, collection, index, value string) ([]json.RawMessage, error) {
	c, err := o.collection(collection)
	if err != nil {
		return nil, err
	}
	if !c.hasIndex(index) {
		return nil, fmt.Errorf("%w: %s.%s", ErrUnknownIndex, c.Name, index)
	}
	query := fmt.Sprintf("SELECT data FROM %s WHERE %s = ? ORDER BY id", c.table(), database.IndexColumn(index))
	return o.scan(ctx, c, query, value)
}

func (o *ops) scan(ctx context.Context, c Collection, query string, args ...any) ([]json.RawMessage, error) {
	rows, err := o.q.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("%w: %s: %w", ErrRead, c.Name, err)
	}
	defer rows.Close()

	var out []json.RawMessage
	for rows.Next() {
		var data string
		if err := rows.Scan(&data); err != nil {
			return nil, fmt.Errorf("%w: %s: %w", ErrRead, c.Name, err)
		}
		out = append(out, json.RawMessage(data))
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%w: %s: %w", ErrRead, c.Name, err)
	}
	return out, nil
}

// Delete removes the record stored under key
func (o *ops) Delete(ctx context.Context, collection, key string) error {
	c, err := o.collection(collection)
	if err != nil {
		return err
	}
	query := fmt.Sprintf("DELETE FROM %s WHERE id = ?", c.table())
	if _, err := o.q.ExecContext(ctx, query, key); err != nil {
		return fmt.Errorf("%w: %s/%s: %w", ErrWrite, c.Name, key, err)
	}
	return nil
}

// Clear removes every record in the collection
func (o *ops) Clear(ctx context.Context, collection string) error {
	c, err := o.collection(collection)
	if err != nil {
		return err
	}
	if _, err := o.q.ExecContext(ctx, "DELETE FROM "+c.table()); err != nil {
		return fmt.Errorf("%w: %s: %w", ErrWrite, c.Name, err)
	}
	return nil
}
