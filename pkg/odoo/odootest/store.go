package odootest

import (
	"sync"
)

// ModelStore is an in-memory record store that wires the standard CRUD methods
// of one model into a Server. It implements just enough search semantics
// (equality conditions, implicit AND) for scenario tests.
type ModelStore struct {
	mu      sync.Mutex
	nextID  int64
	records map[int64]map[string]any
}

// NewModelStore registers CRUD handlers for the model on the server and
// returns the backing store for direct inspection.
func NewModelStore(s *Server, model string) *ModelStore {
	st := &ModelStore{
		nextID:  1,
		records: map[int64]map[string]any{},
	}

	s.Handle(model, "create", func(args []any, kwargs map[string]any) (any, *ServerError) {
		values, ok := firstArgMap(args)
		if !ok {
			return nil, &ServerError{Name: "builtins.TypeError", Message: "create expects a values map"}
		}
		return st.Create(values), nil
	})

	s.Handle(model, "read", func(args []any, kwargs map[string]any) (any, *ServerError) {
		ids := idsFromArg(args, 0)
		fields := stringsFromKwarg(kwargs, "fields")
		return st.Read(ids, fields), nil
	})

	s.Handle(model, "write", func(args []any, kwargs map[string]any) (any, *ServerError) {
		if len(args) < 2 {
			return nil, &ServerError{Name: "builtins.TypeError", Message: "write expects ids and values"}
		}
		ids := idsFromArg(args, 0)
		values, ok := args[1].(map[string]any)
		if !ok {
			return nil, &ServerError{Name: "builtins.TypeError", Message: "write expects a values map"}
		}
		if !st.Write(ids, values) {
			return nil, &ServerError{Name: "odoo.exceptions.MissingError", Message: "record does not exist"}
		}
		return true, nil
	})

	s.Handle(model, "unlink", func(args []any, kwargs map[string]any) (any, *ServerError) {
		st.Unlink(idsFromArg(args, 0))
		return true, nil
	})

	s.Handle(model, "search", func(args []any, kwargs map[string]any) (any, *ServerError) {
		domain, _ := args[0].([]any)
		return st.Search(domain), nil
	})

	s.Handle(model, "search_read", func(args []any, kwargs map[string]any) (any, *ServerError) {
		var domain []any
		if len(args) > 0 {
			domain, _ = args[0].([]any)
		}
		fields := stringsFromKwarg(kwargs, "fields")
		return st.Read(st.Search(domain), fields), nil
	})

	return st
}

// Create inserts a record and returns its id.
func (st *ModelStore) Create(values map[string]any) int64 {
	st.mu.Lock()
	defer st.mu.Unlock()
	id := st.nextID
	st.nextID++
	rec := map[string]any{}
	for k, v := range values {
		rec[k] = v
	}
	st.records[id] = rec
	return id
}

// Read returns records for the given ids, skipping stale ids like the real
// server does. An empty fields list returns all fields.
func (st *ModelStore) Read(ids []int64, fields []string) []map[string]any {
	st.mu.Lock()
	defer st.mu.Unlock()
	out := []map[string]any{}
	for _, id := range ids {
		rec, ok := st.records[id]
		if !ok {
			continue
		}
		projected := map[string]any{"id": id}
		if len(fields) == 0 {
			for k, v := range rec {
				projected[k] = v
			}
		} else {
			for _, f := range fields {
				if v, ok := rec[f]; ok {
					projected[f] = v
				} else {
					projected[f] = false
				}
			}
		}
		out = append(out, projected)
	}
	return out
}

// Write overlays values on the given ids. Returns false if any id is stale.
func (st *ModelStore) Write(ids []int64, values map[string]any) bool {
	st.mu.Lock()
	defer st.mu.Unlock()
	for _, id := range ids {
		if _, ok := st.records[id]; !ok {
			return false
		}
	}
	for _, id := range ids {
		for k, v := range values {
			st.records[id][k] = v
		}
	}
	return true
}

// Unlink removes the given ids.
func (st *ModelStore) Unlink(ids []int64) {
	st.mu.Lock()
	defer st.mu.Unlock()
	for _, id := range ids {
		delete(st.records, id)
	}
}

// Search evaluates equality conditions with implicit AND, in id order.
// Prefix operators are not supported; tests needing them register their own
// search handler.
func (st *ModelStore) Search(domain []any) []int64 {
	st.mu.Lock()
	defer st.mu.Unlock()
	var ids []int64
	for id := int64(1); id < st.nextID; id++ {
		rec, ok := st.records[id]
		if !ok {
			continue
		}
		if matchesDomain(rec, domain) {
			ids = append(ids, id)
		}
	}
	if ids == nil {
		ids = []int64{}
	}
	return ids
}

// Get returns the raw stored record for direct assertions.
func (st *ModelStore) Get(id int64) (map[string]any, bool) {
	st.mu.Lock()
	defer st.mu.Unlock()
	rec, ok := st.records[id]
	return rec, ok
}

func matchesDomain(rec map[string]any, domain []any) bool {
	for _, clause := range domain {
		cond, ok := clause.([]any)
		if !ok || len(cond) != 3 {
			continue // ignore prefix operators
		}
		field, _ := cond[0].(string)
		op, _ := cond[1].(string)
		if op != "=" {
			continue
		}
		if !looselyEqual(rec[field], cond[2]) {
			return false
		}
	}
	return true
}

// looselyEqual compares values across the int/float boundary JSON decoding
// introduces.
func looselyEqual(a, b any) bool {
	if af, aok := toFloat(a); aok {
		if bf, bok := toFloat(b); bok {
			return af == bf
		}
	}
	return a == b
}

func toFloat(v any) (float64, bool) {
	switch n := v.(type) {
	case float64:
		return n, true
	case int64:
		return float64(n), true
	case int:
		return float64(n), true
	}
	return 0, false
}

func firstArgMap(args []any) (map[string]any, bool) {
	if len(args) == 0 {
		return nil, false
	}
	m, ok := args[0].(map[string]any)
	return m, ok
}

func idsFromArg(args []any, idx int) []int64 {
	if len(args) <= idx {
		return nil
	}
	var ids []int64
	switch v := args[idx].(type) {
	case []any:
		for _, raw := range v {
			if f, ok := toFloat(raw); ok {
				ids = append(ids, int64(f))
			}
		}
	case float64:
		ids = append(ids, int64(v))
	}
	return ids
}

func stringsFromKwarg(kwargs map[string]any, key string) []string {
	raw, ok := kwargs[key].([]any)
	if !ok {
		return nil
	}
	var out []string
	for _, v := range raw {
		if s, ok := v.(string); ok {
			out = append(out, s)
		}
	}
	return out
}
