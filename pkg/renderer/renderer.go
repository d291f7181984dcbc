// Package renderer runs the versions page procedure: load the shell and the
// manifest, render the table, patch the page.
package renderer

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"time"

	"github.com/dtnitsch/versions-page/models"
	"github.com/dtnitsch/versions-page/pkg/fetcher"
	"github.com/dtnitsch/versions-page/pkg/loader"
	"github.com/dtnitsch/versions-page/pkg/page"
	"github.com/dtnitsch/versions-page/pkg/patcher"
	"github.com/dtnitsch/versions-page/pkg/table"
)

// Options configures a Renderer. Zero values fall back to defaults.
type Options struct {
	Resources loader.Resources
	Selectors patcher.Selectors
	Logger    *slog.Logger
}

// Result describes how far a render got.
type Result struct {
	State        State
	FailedStage  Stage
	VersionCount int
	StartedAt    time.Time
	FinishedAt   time.Time
}

// Succeeded reports whether every step completed.
func (r *Result) Succeeded() bool {
	return r.State == StateSidebarRemoved
}

// Renderer is the explicit entry point for one page render.
type Renderer struct {
	resources loader.Resources
	patcher   *patcher.Patcher
	logger    *slog.Logger
}

func New(opts Options) *Renderer {
	res := opts.Resources
	defaults := loader.DefaultResources()
	if res.Shell == "" {
		res.Shell = defaults.Shell
	}
	if res.Manifest == "" {
		res.Manifest = defaults.Manifest
	}

	sel := opts.Selectors
	defSel := patcher.DefaultSelectors()
	if sel.Primary == "" {
		sel.Primary = defSel.Primary
	}
	if sel.Navigation == "" {
		sel.Navigation = defSel.Navigation
	}

	logger := opts.Logger
	if logger == nil {
		logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}

	return &Renderer{resources: res, patcher: patcher.New(sel), logger: logger}
}

// Run renders the versions page with default options.
func Run(ctx context.Context, p *page.Page, retrieve fetcher.RetrieveFunc) (*Result, error) {
	return New(Options{}).Run(ctx, p, retrieve)
}

// Run executes the procedure against p once. It always returns a Result;
// the error, when set, is the first failure. Mutations made before a
// failure stay on the page.
func (r *Renderer) Run(ctx context.Context, p *page.Page, retrieve fetcher.RetrieveFunc) (*Result, error) {
	res := &Result{State: StateNotStarted, StartedAt: time.Now()}
	fail := func(stage Stage, err error) (*Result, error) {
		res.State = StateFailed
		res.FailedStage = stage
		res.FinishedAt = time.Now()
		r.logger.Error("versions page render failed",
			"stage", stage,
			"page_touched", stage.PageTouched(),
			"error_kind", ErrorKind(err),
			"error", err)
		return res, fmt.Errorf("%s: %w", stage, err)
	}

	content, err := loader.Load(ctx, p.Location(), r.resources, retrieve)
	if err != nil {
		return fail(StageLoad, err)
	}
	res.VersionCount = len(content.Manifest)
	r.logger.Debug("content loaded", "shell_bytes", len(content.Shell), "versions", res.VersionCount)

	fragment := table.Render(content.Manifest)

	if err := r.patcher.LoadShell(p, content.Shell); err != nil {
		return fail(StageShell, err)
	}
	res.State = StateShellLoaded

	if err := r.patcher.ReplacePrimary(p, fragment); err != nil {
		return fail(StageReplaceArticle, err)
	}
	res.State = StateArticleReplaced

	if err := r.patcher.RemoveNavigation(p); err != nil {
		return fail(StageRemoveSidebar, err)
	}
	res.State = StateSidebarRemoved
	res.FinishedAt = time.Now()

	r.logger.Info("versions page rendered", "versions", res.VersionCount, "duration_ms", res.FinishedAt.Sub(res.StartedAt).Milliseconds())
	return res, nil
}

// ErrorKind classifies err for diagnostics.
func ErrorKind(err error) string {
	var fetchErr *models.FetchError
	var parseErr *models.ParseError
	var notFound *models.ElementNotFoundError
	switch {
	case err == nil:
		return ""
	case errors.As(err, &fetchErr):
		return models.ErrorKindFetch
	case errors.As(err, &parseErr):
		return models.ErrorKindParse
	case errors.As(err, &notFound):
		return models.ErrorKindElementNotFound
	default:
		return models.ErrorKindUnknown
	}
}
