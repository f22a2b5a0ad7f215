package core

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"sort"
	"strings"

	"github.com/JonMunkholm/standings/internal/store"
)

// ResolveChunkSize caps the number of keys bound into one lookup query.
var ResolveChunkSize = 500

type domainTable struct {
	table   string
	natural string
}

var domainTables = map[Domain]domainTable{
	DomainCompetitor:  {table: "competitors", natural: "competitor_id"},
	DomainCompetition: {table: "competitions", natural: "code"},
}

func lookupDomain(d Domain) (domainTable, error) {
	dt, ok := domainTables[d]
	if !ok {
		return domainTable{}, fmt.Errorf("unknown reference domain %q", d)
	}
	return dt, nil
}

// Resolver maps natural keys to the surrogate ids the store assigned.
//
// Lookups are read-only. When several rows share a natural key the lowest id
// wins, so resolving one key at a time and resolving a whole batch agree.
type Resolver struct {
	db      store.DBTX
	dialect store.Dialect
}

// NewResolver creates a resolver over db.
func NewResolver(db store.DBTX, dialect store.Dialect) *Resolver {
	return &Resolver{db: db, dialect: dialect}
}

// Resolve returns the surrogate id for key in domain. found is false when no
// row carries the key.
func (r *Resolver) Resolve(ctx context.Context, domain Domain, key string) (id int64, found bool, err error) {
	dt, err := lookupDomain(domain)
	if err != nil {
		return 0, false, err
	}

	query := fmt.Sprintf("SELECT MIN(id) FROM %s WHERE %s = %s",
		dt.table, dt.natural, r.dialect.Placeholder(1))

	var got sql.NullInt64
	if err := r.db.QueryRowContext(ctx, query, key).Scan(&got); err != nil {
		return 0, false, store.Classify(fmt.Errorf("resolve %s %q: %w", domain, key, err))
	}
	if !got.Valid {
		return 0, false, nil
	}
	return got.Int64, true, nil
}

// ResolveMany resolves distinct keys in domain. Keys missing from the
// returned map have no matching row.
func (r *Resolver) ResolveMany(ctx context.Context, domain Domain, keys []string) (map[string]int64, error) {
	dt, err := lookupDomain(domain)
	if err != nil {
		return nil, err
	}

	distinct := distinctKeys(keys)
	found := make(map[string]int64, len(distinct))

	for start := 0; start < len(distinct); start += ResolveChunkSize {
		end := min(start+ResolveChunkSize, len(distinct))
		if err := r.resolveChunk(ctx, dt, domain, distinct[start:end], found); err != nil {
			return nil, err
		}
	}
	return found, nil
}

func (r *Resolver) resolveChunk(ctx context.Context, dt domainTable, domain Domain, keys []string, found map[string]int64) error {
	query := fmt.Sprintf("SELECT %s, MIN(id) FROM %s WHERE %s IN (%s) GROUP BY %s",
		dt.natural, dt.table, dt.natural, r.dialect.Placeholders(1, len(keys)), dt.natural)

	args := make([]any, len(keys))
	for i, k := range keys {
		args[i] = k
	}

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return store.Classify(fmt.Errorf("resolve %d %s keys: %w", len(keys), domain, err))
	}
	defer rows.Close()

	for rows.Next() {
		var (
			key string
			id  int64
		)
		if err := rows.Scan(&key, &id); err != nil {
			return fmt.Errorf("scan %s key: %w", domain, err)
		}
		found[key] = id
	}
	if err := rows.Err(); err != nil {
		return store.Classify(fmt.Errorf("resolve %s keys: %w", domain, err))
	}
	return nil
}

// Exists reports whether a row with surrogate id exists in domain.
func (r *Resolver) Exists(ctx context.Context, domain Domain, id int64) (bool, error) {
	dt, err := lookupDomain(domain)
	if err != nil {
		return false, err
	}

	query := fmt.Sprintf("SELECT 1 FROM %s WHERE id = %s", dt.table, r.dialect.Placeholder(1))

	var one int
	err = r.db.QueryRowContext(ctx, query, id).Scan(&one)
	if errors.Is(err, sql.ErrNoRows) {
		return false, nil
	}
	if err != nil {
		return false, store.Classify(fmt.Errorf("check %s id %d: %w", domain, id, err))
	}
	return true, nil
}

// distinctKeys returns the non-empty keys of keys, deduplicated and sorted.
func distinctKeys(keys []string) []string {
	seen := make(map[string]struct{}, len(keys))
	out := make([]string, 0, len(keys))
	for _, k := range keys {
		if strings.TrimSpace(k) == "" {
			continue
		}
		if _, ok := seen[k]; ok {
			continue
		}
		seen[k] = struct{}{}
		out = append(out, k)
	}
	sort.Strings(out)
	return out
}
