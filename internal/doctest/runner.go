package doctest

import (
	"context"
	"fmt"
	"time"

	"github.com/anand-gl/jsoncanonicalizer"
	"github.com/dop251/goja"
	"github.com/google/uuid"
	jsoniter "github.com/json-iterator/go"
	"github.com/rs/zerolog/log"

	"github.com/odoogo/odoogo/internal/common/apperrors"
	"github.com/odoogo/odoogo/pkg/odoo"
	"github.com/odoogo/odoogo/pkg/odoo/introspect"
)

var json = jsoniter.ConfigCompatibleWithStandardLibrary

// Deps are the dependencies a block can request through its needs attribute.
type Deps struct {
	Client    *odoo.Client
	Inspector *introspect.Inspector
}

// BlockFunc executes one block's behavior and returns its result value.
type BlockFunc func(ctx context.Context, deps Deps) (any, apperrors.Error)

// BlockResult is the outcome of one executed block.
type BlockResult struct {
	Block  Block
	Passed bool
	Result any
	Err    apperrors.Error
}

// Report summarizes one runner invocation.
type Report struct {
	RunID   string
	Results []BlockResult
}

// Passed reports whether every block in the run passed.
func (r *Report) Passed() bool {
	for _, res := range r.Results {
		if !res.Passed {
			return false
		}
	}
	return true
}

// Failed returns the number of failed blocks.
func (r *Report) Failed() int {
	n := 0
	for _, res := range r.Results {
		if !res.Passed {
			n++
		}
	}
	return n
}

// Runner executes registered block functions and evaluates their expect
// expressions. Records created by blocks with a creates attribute are
// deleted best-effort when the run finishes.
type Runner struct {
	deps          Deps
	funcs         map[string]BlockFunc
	expectTimeout time.Duration
	blockTimeout  time.Duration

	created []createdRecord
}

type createdRecord struct {
	model string
	id    int64
}

// NewRunner creates a Runner with the given injectable dependencies.
func NewRunner(deps Deps) *Runner {
	return &Runner{
		deps:          deps,
		funcs:         map[string]BlockFunc{},
		expectTimeout: 2 * time.Second,
		blockTimeout:  30 * time.Second,
	}
}

// Register binds a block id to the function that executes it.
func (r *Runner) Register(id string, fn BlockFunc) {
	r.funcs[id] = fn
}

// Run executes the given blocks in order and returns the aggregated report.
// Execution continues past failing blocks so a single run reports every
// broken example. Cleanup of created records happens before returning.
func (r *Runner) Run(ctx context.Context, blocks []Block) *Report {
	report := &Report{RunID: uuid.New().String()}
	defer r.cleanup(ctx)

	for _, block := range blocks {
		result := r.runBlock(ctx, block)
		evt := log.Ctx(ctx).Info()
		if !result.Passed {
			evt = log.Ctx(ctx).Error().Err(result.Err)
		}
		evt.Str("run_id", report.RunID).
			Str("block", block.ID).
			Bool("passed", result.Passed).
			Msg("doctest block")
		report.Results = append(report.Results, result)
	}
	return report
}

func (r *Runner) runBlock(ctx context.Context, block Block) BlockResult {
	var result any
	var err apperrors.Error
	if fn, ok := r.funcs[block.ID]; ok {
		result, err = fn(ctx, r.deps)
	} else if block.Lang == "js" {
		result, err = r.runJSBody(ctx, block)
	} else {
		return BlockResult{Block: block, Err: ErrUnknownBlock.Msg(block.ID)}
	}
	if err != nil {
		return BlockResult{Block: block, Result: result, Err: err}
	}

	if block.Creates != "" {
		if id, ok := numericID(result); ok {
			r.created = append(r.created, createdRecord{model: block.Creates, id: id})
		}
	}

	if block.Expect != "" {
		if eerr := r.evalExpect(block.Expect, result); eerr != nil {
			return BlockResult{Block: block, Result: result, Err: eerr}
		}
	}
	return BlockResult{Block: block, Passed: true, Result: result}
}

// evalExpect evaluates the javascript expression with the block result bound
// as `result`. A boolean outcome is the pass verdict; any other outcome is
// compared to the result by canonicalized JSON, so object-valued expectations
// are insensitive to key order.
func (r *Runner) evalExpect(expr string, result any) apperrors.Error {
	vm := goja.New()
	if err := vm.Set("result", result); err != nil {
		return ErrExpectInvalid.Err(err)
	}

	timer := time.AfterFunc(r.expectTimeout, func() {
		vm.Interrupt("expect timeout")
	})
	defer timer.Stop()

	value, err := vm.RunString(expr)
	if err != nil {
		if _, ok := err.(*goja.InterruptedError); ok {
			return ErrExpectTimeout.Msg(expr)
		}
		return ErrExpectInvalid.Msg(expr).Err(err)
	}

	exported := value.Export()
	if verdict, ok := exported.(bool); ok {
		if !verdict {
			return ErrExpectFailed.Msg(fmt.Sprintf("%s (result %v)", expr, result))
		}
		return nil
	}

	same, cerr := canonicallyEqual(exported, result)
	if cerr != nil {
		return cerr
	}
	if !same {
		return ErrExpectFailed.Msg(fmt.Sprintf("%s evaluated to %v, result was %v", expr, exported, result))
	}
	return nil
}

func canonicallyEqual(a, b any) (bool, apperrors.Error) {
	ca, err := canonicalize(a)
	if err != nil {
		return false, err
	}
	cb, err := canonicalize(b)
	if err != nil {
		return false, err
	}
	return ca == cb, nil
}

func canonicalize(v any) (string, apperrors.Error) {
	raw, err := json.Marshal(v)
	if err != nil {
		return "", ErrExpectInvalid.Err(err)
	}
	canon, err := jsoncanonicalizer.Transform(raw)
	if err != nil {
		return "", ErrExpectInvalid.Err(err)
	}
	return string(canon), nil
}

// cleanup deletes created records in reverse order. This is the one place
// where errors are deliberately swallowed: teardown must not mask the run's
// own verdict, and a half-deleted fixture set is logged, not fatal.
func (r *Runner) cleanup(ctx context.Context) {
	for i := len(r.created) - 1; i >= 0; i-- {
		rec := r.created[i]
		if r.deps.Client == nil {
			continue
		}
		if _, err := r.deps.Client.UnlinkOne(ctx, rec.model, rec.id); err != nil {
			log.Ctx(ctx).Warn().
				Str("model", rec.model).
				Int64("id", rec.id).
				Err(err).
				Msg("doctest cleanup failed")
		}
	}
	r.created = nil
}

func numericID(result any) (int64, bool) {
	switch v := result.(type) {
	case int64:
		return v, true
	case int:
		return int64(v), true
	case float64:
		return int64(v), true
	}
	return 0, false
}
