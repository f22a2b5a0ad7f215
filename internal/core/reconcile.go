package core

import (
	"context"
	"fmt"
	"maps"
)

// Reconciliation is the outcome of reconciling one batch.
type Reconciliation struct {
	Resolved []Record // Rows with every reference replaced by a surrogate id
	Report   Report   // References that could not be resolved
}

// Engine substitutes surrogate ids for the natural keys of a batch.
type Engine struct {
	resolver *Resolver
}

// NewEngine creates an engine resolving through r.
func NewEngine(r *Resolver) *Engine {
	return &Engine{resolver: r}
}

// Reconcile splits batch into resolvable rows and a report of unresolvable
// ones.
//
// All keys are resolved before anything of the batch is written, so rows only
// resolve against what the store held when the call started. A row is kept
// only if every reference it carries resolves; resolved rows get the surrogate
// id in the reference column and nothing else changes. The batch itself is
// not modified.
//
// A miss is reported, never returned as an error. Errors are store failures.
func (e *Engine) Reconcile(ctx context.Context, def TableDefinition, batch *Batch) (*Reconciliation, error) {
	out := &Reconciliation{}
	if batch.Len() == 0 {
		return out, nil
	}

	lookups, err := e.resolveReferences(ctx, def.References, batch.Records)
	if err != nil {
		return nil, err
	}

	out.Resolved = make([]Record, 0, len(batch.Records))
	for _, rec := range batch.Records {
		resolved, misses := applyReferences(def.References, rec, lookups)
		if len(misses) > 0 {
			for _, m := range misses {
				m.File = batch.File
				m.Line = rec.Line
				out.Report = append(out.Report, m)
			}
			continue
		}
		out.Resolved = append(out.Resolved, resolved)
	}

	return out, nil
}

// referenceLookup holds the batch-level resolution results for one reference.
type referenceLookup struct {
	natural  map[string]int64
	explicit map[int64]bool
}

func (e *Engine) resolveReferences(ctx context.Context, refs []Reference, records []Record) ([]referenceLookup, error) {
	lookups := make([]referenceLookup, len(refs))

	for i, ref := range refs {
		var (
			keys []string
			ids  = make(map[int64]bool)
		)
		for _, rec := range records {
			if id, ok := rec.Refs[ref.Column]; ok {
				ids[id] = false
				continue
			}
			if key := rec.Keys[ref.Column]; key != "" {
				keys = append(keys, key)
			}
		}

		found, err := e.resolver.ResolveMany(ctx, ref.Domain, keys)
		if err != nil {
			return nil, fmt.Errorf("resolve %s: %w", ref.Label(), err)
		}

		for id := range ids {
			ok, err := e.resolver.Exists(ctx, ref.Domain, id)
			if err != nil {
				return nil, fmt.Errorf("verify %s: %w", ref.Label(), err)
			}
			ids[id] = ok
		}

		lookups[i] = referenceLookup{natural: found, explicit: ids}
	}

	return lookups, nil
}

// applyReferences returns a copy of rec with every reference column set, or
// the references that did not resolve.
func applyReferences(refs []Reference, rec Record, lookups []referenceLookup) (Record, []UnresolvedRow) {
	var misses []UnresolvedRow

	values := maps.Clone(rec.Values)
	if values == nil {
		values = make(map[string]any, len(refs))
	}

	for i, ref := range refs {
		if id, ok := rec.Refs[ref.Column]; ok {
			if !lookups[i].explicit[id] {
				misses = append(misses, UnresolvedRow{
					Field:  ref.RefField,
					Domain: ref.Domain,
					Key:    fmt.Sprintf("%d", id),
					Reason: ReasonNotFound,
				})
				continue
			}
			values[ref.Column] = id
			continue
		}

		key := rec.Keys[ref.Column]
		if key == "" {
			misses = append(misses, UnresolvedRow{
				Field:  ref.Label(),
				Domain: ref.Domain,
				Reason: ReasonNoKey,
			})
			continue
		}

		id, ok := lookups[i].natural[key]
		if !ok {
			misses = append(misses, UnresolvedRow{
				Field:  ref.Label(),
				Domain: ref.Domain,
				Key:    key,
				Reason: ReasonNotFound,
			})
			continue
		}
		values[ref.Column] = id
	}

	if len(misses) > 0 {
		return Record{}, misses
	}

	return Record{Line: rec.Line, Values: values}, nil
}
