// Package batch stages many plugins concurrently and reports each outcome on
// its own, so one failing plugin never stops the others.
package batch

import (
	"context"
	"errors"
	"fmt"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/conn-castle/plugin-stage/internal/logging"
	"github.com/conn-castle/plugin-stage/internal/messages"
	"github.com/conn-castle/plugin-stage/internal/pluginfs"
)

// DefaultJobs is the concurrency used when Runner.Jobs is not positive.
const DefaultJobs = 4

// ErrBatchFailed is joined into the strict-mode error when any item failed.
var ErrBatchFailed = errors.New(messages.BatchFailed)

// Stager stages one plugin. *pluginfs.Manager satisfies it.
type Stager interface {
	Stage(ctx context.Context, pluginName string, locator string, baseDir string) (pluginfs.Descriptor, error)
}

// Item is one plugin to stage.
type Item struct {
	Name   string `toml:"name" json:"name" validate:"required"`
	Source string `toml:"source" json:"source" validate:"required"`
}

// Result is the outcome of staging one Item.
type Result struct {
	Item       Item
	Descriptor pluginfs.Descriptor
	Err        error
	Elapsed    time.Duration
}

// OK reports whether the item staged successfully.
func (r Result) OK() bool {
	return r.Err == nil
}

// Runner stages items against one base directory.
type Runner struct {
	Stager  Stager
	BaseDir string
	// Jobs caps concurrent stagings. Zero or less uses DefaultJobs.
	Jobs int
	// Strict makes Run return an error when any item failed.
	Strict bool
	// Now is the clock used for Result.Elapsed. Defaults to time.Now.
	Now func() time.Time
}

// Run stages every item and returns one Result per item, in input order.
// Items not started before ctx is done are reported with the context error.
// Without Strict the returned error is always nil; per-item failures live in
// the results.
func (r Runner) Run(ctx context.Context, items []Item) ([]Result, error) {
	if r.Stager == nil {
		return nil, errors.New(messages.BatchStagerRequired)
	}
	now := r.Now
	if now == nil {
		now = time.Now
	}
	jobs := r.Jobs
	if jobs <= 0 {
		jobs = DefaultJobs
	}

	results := make([]Result, len(items))
	var group errgroup.Group
	group.SetLimit(jobs)
	for i, item := range items {
		results[i].Item = item
		group.Go(func() error {
			if err := ctx.Err(); err != nil {
				results[i].Err = err
				return nil
			}
			itemCtx := logging.WithAttrs(ctx, "plugin", item.Name)
			start := now()
			desc, err := r.Stager.Stage(itemCtx, item.Name, item.Source, r.BaseDir)
			results[i].Descriptor = desc
			results[i].Err = err
			results[i].Elapsed = now().Sub(start)
			logger := logging.FromContext(itemCtx)
			if err != nil {
				logger.Error(messages.BatchLogItemFailed, "source", item.Source, "error", err)
			} else {
				logger.Debug(messages.BatchLogItemStaged, "version", desc.Version)
			}
			return nil
		})
	}
	_ = group.Wait()

	if !r.Strict {
		return results, nil
	}
	return results, Failures(results)
}

// Failures joins the errors of failed results, or returns nil when all succeeded.
func Failures(results []Result) error {
	var errs []error
	for _, result := range results {
		if result.Err != nil {
			errs = append(errs, fmt.Errorf(messages.BatchItemFailedFmt, result.Item.Name, result.Err))
		}
	}
	if len(errs) == 0 {
		return nil
	}
	return errors.Join(append([]error{ErrBatchFailed}, errs...)...)
}
