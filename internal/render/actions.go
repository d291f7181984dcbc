package render

import (
	"bytes"
	"fmt"
	"log/slog"
	"net/url"
	"os"

	"github.com/urfave/cli/v2"

	"github.com/dtnitsch/versions-page/internal/common"
	"github.com/dtnitsch/versions-page/models"
	"github.com/dtnitsch/versions-page/pkg/db"
	"github.com/dtnitsch/versions-page/pkg/fetcher"
	"github.com/dtnitsch/versions-page/pkg/loader"
	"github.com/dtnitsch/versions-page/pkg/page"
	"github.com/dtnitsch/versions-page/pkg/patcher"
	"github.com/dtnitsch/versions-page/pkg/renderer"
	"github.com/dtnitsch/versions-page/pkg/storage"
)

// Exit codes: 1 for a failed render, 2 for anything that stops the render
// from starting.
const (
	exitRenderFailed = 1
	exitSetupFailed  = 2
)

func RenderAction(c *cli.Context) error {
	logLevel := slog.LevelInfo
	if c.Bool("quiet") {
		logLevel = slog.LevelError
	}
	logger := slog.New(slog.NewJSONHandler(os.Stderr, &slog.HandlerOptions{Level: logLevel}))

	cfg, err := ResolveConfig(c)
	if err != nil {
		logger.Error("invalid configuration", "error", err)
		return cli.Exit(err.Error(), exitSetupFailed)
	}

	location, err := common.ResolveLocation(c.String("page"))
	if err != nil {
		logger.Error("invalid page location", "error", err)
		return cli.Exit(err.Error(), exitSetupFailed)
	}

	f := fetcher.NewFetcher(cfg.UserAgent)

	// The page itself must load; a browser would never run the patch otherwise.
	resp, err := f.Retrieve(c.Context, location.String())
	if err != nil {
		logger.Error("failed to load page", "page", location.String(), "error", err)
		return cli.Exit(err.Error(), exitSetupFailed)
	}
	if !resp.OK() {
		logger.Error("failed to load page", "page", location.String(), "status_code", resp.StatusCode)
		return cli.Exit(fmt.Sprintf("page %s returned status %d", location, resp.StatusCode), exitSetupFailed)
	}

	p, err := page.New(bytes.NewReader(resp.Body), location)
	if err != nil {
		logger.Error("failed to parse page", "page", location.String(), "error", err)
		return cli.Exit(err.Error(), exitSetupFailed)
	}

	r := renderer.New(renderer.Options{
		Resources: loader.Resources{Shell: cfg.ShellResource, Manifest: cfg.ManifestResource},
		Selectors: patcher.Selectors{Primary: cfg.PrimarySelector, Navigation: cfg.NavigationSelector},
		Logger:    logger.With("page", location.String()),
	})
	result, runErr := r.Run(c.Context, p, f.Retrieve)

	// Whatever state the page is in is what a reader would see, so it is
	// written even when the render failed part way.
	out, err := p.HTML()
	if err != nil {
		logger.Error("failed to serialize page", "error", err)
		return cli.Exit(err.Error(), exitSetupFailed)
	}
	s := &storage.Storage{}
	if err := s.WriteTo(c.App.Writer, cfg.Output, []byte(out)); err != nil {
		logger.Error("failed to write page", "output", cfg.Output, "error", err)
		return cli.Exit(err.Error(), exitSetupFailed)
	}

	if cfg.History {
		if err := recordRun(cfg, location, result, runErr, out); err != nil {
			// History is diagnostic only; it never changes the outcome.
			logger.Warn("failed to record run", "error", err)
		}
	}

	if runErr != nil {
		return cli.Exit(fmt.Sprintf("render failed: %v", runErr), exitRenderFailed)
	}
	logger.Info("page written", "title", p.Title(), "versions", result.VersionCount, "output", cfg.Output)
	if cfg.Output != "" {
		fmt.Fprintf(c.App.ErrWriter, "Rendered %d versions into %s\n", result.VersionCount, cfg.Output)
	}
	return nil
}

// ResolveConfig loads the config file and applies flag overrides.
func ResolveConfig(c *cli.Context) (*models.RenderConfig, error) {
	cfg, err := models.LoadConfig(c.String("config"))
	if err != nil {
		return nil, err
	}

	if c.IsSet("output") {
		cfg.Output = c.String("output")
	}
	if c.IsSet("db") {
		cfg.DBPath = c.String("db")
	}
	if c.Bool("no-history") {
		cfg.History = false
	}
	if c.IsSet("shell") {
		cfg.ShellResource = c.String("shell")
	}
	if c.IsSet("manifest") {
		cfg.ManifestResource = c.String("manifest")
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func recordRun(cfg *models.RenderConfig, location *url.URL, result *renderer.Result, runErr error, out string) error {
	database, err := db.Open(cfg.DBPath)
	if err != nil {
		return err
	}
	defer database.Close()

	shellURL, _ := common.ResolveResource(location, cfg.ShellResource)
	manifestURL, _ := common.ResolveResource(location, cfg.ManifestResource)

	run := &db.Run{
		PageURL:      location.String(),
		ShellURL:     shellURL,
		ManifestURL:  manifestURL,
		State:        string(result.State),
		FailedStage:  string(result.FailedStage),
		ErrorKind:    renderer.ErrorKind(runErr),
		VersionCount: result.VersionCount,
		OutputPath:   cfg.Output,
		OutputHash:   common.ContentHash([]byte(out)),
		StartedAt:    result.StartedAt,
		FinishedAt:   result.FinishedAt,
	}
	if runErr != nil {
		run.ErrorMessage = runErr.Error()
		run.PageTouched = result.FailedStage.PageTouched()
	}

	_, err = database.RecordRun(run)
	return err
}
