package introspect

import (
	"context"
	"sort"
	"strings"
	"sync"

	lru "github.com/hashicorp/golang-lru/v2"
	"github.com/rs/zerolog/log"

	"github.com/odoogo/odoogo/internal/common/apperrors"
	"github.com/odoogo/odoogo/pkg/odoo"
)

// fieldCacheSize bounds the per-model field cache. A deployment rarely has
// more than a couple thousand models; evictions just cost a refetch.
const fieldCacheSize = 1024

// fieldAttributes is the attribute subset requested from fields_get.
var fieldAttributes = []string{"string", "type", "required", "readonly", "relation", "help", "selection"}

// Inspector queries and caches server metadata. The caches are process-local
// snapshots; two concurrent cache misses for the same model may both hit the
// network, with last-write-wins into the cache. Both results are equivalent
// snapshots of the same schema, so this is an inefficiency, not a hazard.
type Inspector struct {
	client *odoo.Client

	fields *lru.Cache[string, []Field]

	mu         sync.Mutex
	modelList  []Model
	haveModels bool
}

// ModelsOptions filter the model registry listing.
type ModelsOptions struct {
	IncludeTransient bool     // include wizard/transient models
	Modules          []string // keep models whose module list contains any of these
	BypassCache      bool     // force a fresh query
}

// FieldsOptions control field metadata lookups.
type FieldsOptions struct {
	BypassCache bool
}

// NewInspector creates an Inspector over the given client.
func NewInspector(client *odoo.Client) *Inspector {
	cache, _ := lru.New[string, []Field](fieldCacheSize)
	return &Inspector{
		client: client,
		fields: cache,
	}
}

// Models lists the model registry. The unfiltered list is cached; filters are
// applied per call.
func (in *Inspector) Models(ctx context.Context, opts ModelsOptions) ([]Model, apperrors.Error) {
	models, err := in.allModels(ctx, opts.BypassCache)
	if err != nil {
		return nil, err
	}

	out := make([]Model, 0, len(models))
	for _, m := range models {
		if m.Transient && !opts.IncludeTransient {
			continue
		}
		if len(opts.Modules) > 0 && !modulesMatch(m.Modules, opts.Modules) {
			continue
		}
		out = append(out, m)
	}
	return out, nil
}

// Fields returns the field definitions of a model. A nonexistent model yields
// an empty slice, not an error; this asymmetry with ModelMetadata is
// deliberate and kept for compatibility with existing callers.
func (in *Inspector) Fields(ctx context.Context, model string, opts FieldsOptions) ([]Field, apperrors.Error) {
	if !opts.BypassCache {
		if cached, ok := in.fields.Get(model); ok {
			return cached, nil
		}
	}

	result, err := in.client.Call(ctx, model, "fields_get", []any{}, map[string]any{
		"attributes": fieldAttributes,
	})
	if err != nil {
		if isUnknownModel(err) {
			return []Field{}, nil
		}
		return nil, err
	}

	var raw map[string]map[string]any
	if gerr := result.GetAs(&raw); gerr != nil {
		return nil, odoo.ErrRPC.MsgErr("unexpected fields_get result shape", gerr)
	}

	fields := make([]Field, 0, len(raw))
	for name, attrs := range raw {
		var f Field
		if derr := odoo.DecodeRecord(attrs, &f); derr != nil {
			return nil, derr
		}
		f.Name = name
		fields = append(fields, f)
	}
	sort.Slice(fields, func(i, j int) bool { return fields[i].Name < fields[j].Name })

	in.fields.Add(model, fields)
	log.Ctx(ctx).Debug().Str("model", model).Int("fields", len(fields)).Msg("cached field metadata")
	return fields, nil
}

// ModelMetadata returns the model descriptor together with its fields.
// Unlike Fields, a nonexistent model is an error here.
func (in *Inspector) ModelMetadata(ctx context.Context, model string) (*Metadata, apperrors.Error) {
	records, err := in.client.SearchRead(ctx, "ir.model",
		odoo.NewDomain(odoo.Eq("model", model)),
		[]string{"model", "name", "transient", "modules"}, nil)
	if err != nil {
		return nil, err
	}
	if len(records) == 0 {
		return nil, odoo.ErrMissing.Msg("model not found: " + model)
	}

	var m Model
	if derr := odoo.DecodeRecord(records[0], &m); derr != nil {
		return nil, derr
	}

	fields, err := in.Fields(ctx, model, FieldsOptions{})
	if err != nil {
		return nil, err
	}
	return &Metadata{Model: m, Fields: fields}, nil
}

// ClearCache drops every cached entry.
func (in *Inspector) ClearCache() {
	in.fields.Purge()
	in.mu.Lock()
	in.modelList = nil
	in.haveModels = false
	in.mu.Unlock()
}

// ClearModelCache drops the cached fields of one model.
func (in *Inspector) ClearModelCache(model string) {
	in.fields.Remove(model)
}

func (in *Inspector) allModels(ctx context.Context, bypass bool) ([]Model, apperrors.Error) {
	if !bypass {
		in.mu.Lock()
		if in.haveModels {
			cached := in.modelList
			in.mu.Unlock()
			return cached, nil
		}
		in.mu.Unlock()
	}

	records, err := in.client.SearchRead(ctx, "ir.model", nil,
		[]string{"model", "name", "transient", "modules"},
		&odoo.SearchOptions{Order: "model asc"})
	if err != nil {
		return nil, err
	}

	models := make([]Model, 0, len(records))
	for _, rec := range records {
		var m Model
		if derr := odoo.DecodeRecord(rec, &m); derr != nil {
			return nil, derr
		}
		models = append(models, m)
	}

	in.mu.Lock()
	in.modelList = models
	in.haveModels = true
	in.mu.Unlock()
	return models, nil
}

// isUnknownModel detects the server's reaction to fields_get on a model that
// does not exist, which surfaces as a KeyError rather than a MissingError.
func isUnknownModel(err apperrors.Error) bool {
	if err.Kind() == odoo.KindMissingError {
		return true
	}
	details, ok := err.Details().(map[string]any)
	if !ok {
		return false
	}
	name, _ := details["exception_name"].(string)
	return strings.Contains(name, "KeyError")
}

func modulesMatch(modules string, wanted []string) bool {
	for _, part := range strings.Split(modules, ",") {
		part = strings.TrimSpace(part)
		for _, w := range wanted {
			if part == w {
				return true
			}
		}
	}
	return false
}
