package doctest

import (
	"context"
	"fmt"
	"time"

	"github.com/dop251/goja"
	"github.com/rs/zerolog/log"

	"github.com/odoogo/odoogo/internal/common/apperrors"
	"github.com/odoogo/odoogo/pkg/odoo"
	"github.com/odoogo/odoogo/pkg/odoo/introspect"
)

// runJSBody executes a javascript block body in a fresh VM. The body sees an
// `odoo` object bridging the injected client and, when available, an
// `inspector` object. The value of the last evaluated expression is the
// block result.
func (r *Runner) runJSBody(ctx context.Context, block Block) (any, apperrors.Error) {
	vm := goja.New()
	bindConsole(ctx, vm)
	if r.deps.Client != nil {
		if err := bindClient(ctx, vm, r.deps.Client); err != nil {
			return nil, err
		}
	}
	if r.deps.Inspector != nil {
		if err := bindInspector(ctx, vm, r.deps.Inspector); err != nil {
			return nil, err
		}
	}

	timer := time.AfterFunc(r.blockTimeout, func() {
		vm.Interrupt("block timeout")
	})
	defer timer.Stop()

	value, err := vm.RunString(block.Body)
	if err != nil {
		if _, ok := err.(*goja.InterruptedError); ok {
			return nil, ErrExpectTimeout.Msg(block.ID)
		}
		if jsErr, ok := err.(*goja.Exception); ok {
			return nil, ErrDoctest.Msg(jsErr.Value().String())
		}
		return nil, ErrDoctest.Err(err)
	}
	return value.Export(), nil
}

func bindConsole(ctx context.Context, vm *goja.Runtime) {
	console := vm.NewObject()
	_ = console.Set("log", func(call goja.FunctionCall) goja.Value {
		args := make([]any, len(call.Arguments))
		for i, arg := range call.Arguments {
			args[i] = arg.Export()
		}
		log.Ctx(ctx).Info().Msg(fmt.Sprintf("%v", args))
		return goja.Undefined()
	})
	_ = console.Set("error", func(call goja.FunctionCall) goja.Value {
		args := make([]any, len(call.Arguments))
		for i, arg := range call.Arguments {
			args[i] = arg.Export()
		}
		log.Ctx(ctx).Error().Msg(fmt.Sprintf("%v", args))
		return goja.Undefined()
	})
	_ = vm.Set("console", console)
}

// bindClient exposes the model operations as odoo.<op>(...) functions.
// Failures surface as javascript exceptions so block bodies can try/catch.
func bindClient(ctx context.Context, vm *goja.Runtime, client *odoo.Client) apperrors.Error {
	obj := vm.NewObject()

	throw := func(err error) {
		panic(vm.ToValue(err.Error()))
	}

	_ = obj.Set("searchCount", func(model string, domain []any) int64 {
		count, err := client.SearchCount(ctx, model, odoo.Domain(domain))
		if err != nil {
			throw(err)
		}
		return count
	})
	_ = obj.Set("search", func(model string, domain []any) []int64 {
		ids, err := client.Search(ctx, model, odoo.Domain(domain), nil)
		if err != nil {
			throw(err)
		}
		return ids
	})
	_ = obj.Set("searchRead", func(model string, domain []any, fields []string) []odoo.Record {
		records, err := client.SearchRead(ctx, model, odoo.Domain(domain), fields, nil)
		if err != nil {
			throw(err)
		}
		return records
	})
	_ = obj.Set("read", func(model string, id int64, fields []string) odoo.Record {
		record, err := client.ReadOne(ctx, model, id, fields)
		if err != nil {
			throw(err)
		}
		return record
	})
	_ = obj.Set("create", func(model string, values map[string]any) int64 {
		id, err := client.Create(ctx, model, odoo.Record(values), nil)
		if err != nil {
			throw(err)
		}
		return id
	})
	_ = obj.Set("write", func(model string, id int64, values map[string]any) bool {
		ok, err := client.WriteOne(ctx, model, id, odoo.Record(values), nil)
		if err != nil {
			throw(err)
		}
		return ok
	})
	_ = obj.Set("unlink", func(model string, id int64) bool {
		ok, err := client.UnlinkOne(ctx, model, id)
		if err != nil {
			throw(err)
		}
		return ok
	})

	if err := vm.Set("odoo", obj); err != nil {
		return ErrDoctest.Err(err)
	}
	return nil
}

func bindInspector(ctx context.Context, vm *goja.Runtime, inspector *introspect.Inspector) apperrors.Error {
	obj := vm.NewObject()

	_ = obj.Set("models", func() []introspect.Model {
		models, err := inspector.Models(ctx, introspect.ModelsOptions{})
		if err != nil {
			panic(vm.ToValue(err.Error()))
		}
		return models
	})
	_ = obj.Set("fields", func(model string) []introspect.Field {
		fields, err := inspector.Fields(ctx, model, introspect.FieldsOptions{})
		if err != nil {
			panic(vm.ToValue(err.Error()))
		}
		return fields
	})

	if err := vm.Set("inspector", obj); err != nil {
		return ErrDoctest.Err(err)
	}
	return nil
}
