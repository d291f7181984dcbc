package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/urfave/cli/v2"

	dbcmd "github.com/dtnitsch/versions-page/internal/db"
	"github.com/dtnitsch/versions-page/internal/render"
)

var version = "dev"

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := newApp().RunContext(ctx, os.Args); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func newApp() *cli.App {
	return &cli.App{
		Name:    "versions-page",
		Usage:   "Patch a documentation versions page with the site shell and the release list",
		Version: version,
		Commands: []*cli.Command{
			{
				Name:  "render",
				Usage: "Render the versions page",
				Flags: []cli.Flag{
					&cli.StringFlag{
						Name:     "page",
						Aliases:  []string{"p"},
						Usage:    "path or URL of the versions page; index.html and versions.json are resolved next to it",
						Required: true,
					},
					&cli.StringFlag{
						Name:    "output",
						Aliases: []string{"o"},
						Usage:   "write the patched page here instead of stdout",
					},
					&cli.StringFlag{
						Name:  "config",
						Usage: "YAML config file",
						Value: "versions-page.yaml",
					},
					&cli.StringFlag{
						Name:  "shell",
						Usage: "shell document, relative to the page",
					},
					&cli.StringFlag{
						Name:  "manifest",
						Usage: "version manifest, relative to the page",
					},
					dbFlag(),
					&cli.BoolFlag{
						Name:  "no-history",
						Usage: "do not record the run",
					},
					&cli.BoolFlag{
						Name:    "quiet",
						Aliases: []string{"q"},
						Usage:   "only log errors",
					},
				},
				Action: render.RenderAction,
			},
			{
				Name:  "history",
				Usage: "List recorded renders",
				Flags: []cli.Flag{
					dbFlag(),
					&cli.IntFlag{Name: "limit", Value: 20, Usage: "maximum number of runs"},
					&cli.BoolFlag{Name: "failed-only", Usage: "only failed runs"},
					&cli.BoolFlag{Name: "yaml", Usage: "print as YAML"},
				},
				Action: dbcmd.HistoryAction,
			},
			{
				Name:      "run",
				Usage:     "Show one recorded render (latest if no ID is given)",
				ArgsUsage: "[id]",
				Flags:     []cli.Flag{dbFlag()},
				Action:    dbcmd.RunAction,
			},
			{
				Name:  "prune",
				Usage: "Delete old run history",
				Flags: []cli.Flag{
					dbFlag(),
					&cli.StringFlag{Name: "older-than", Value: "720h", Usage: "age cutoff"},
				},
				Action: dbcmd.PruneAction,
			},
		},
	}
}

func dbFlag() cli.Flag {
	return &cli.StringFlag{
		Name:    "db",
		Usage:   "run history database (default: next to the binary)",
		EnvVars: []string{"VERSIONS_PAGE_DB_PATH"},
	}
}
