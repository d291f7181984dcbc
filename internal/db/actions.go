package db

import (
	"fmt"
	"io"
	"strings"
	"time"

	dbpkg "github.com/dtnitsch/versions-page/pkg/db"
	"github.com/urfave/cli/v2"
	"gopkg.in/yaml.v3"
)

func openFromFlags(c *cli.Context) (*dbpkg.DB, error) {
	database, err := dbpkg.Open(c.String("db"))
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}
	return database, nil
}

// HistoryAction lists recorded renders, newest first.
func HistoryAction(c *cli.Context) error {
	database, err := openFromFlags(c)
	if err != nil {
		return err
	}
	defer database.Close()

	runs, err := database.ListRuns(c.Int("limit"), c.Bool("failed-only"))
	if err != nil {
		return err
	}

	w := c.App.Writer
	if c.Bool("yaml") {
		return writeYAML(w, map[string][]dbpkg.Run{"runs": runs})
	}

	if len(runs) == 0 {
		fmt.Fprintln(w, "No runs found")
		return nil
	}

	fmt.Fprintf(w, "%-6s %-20s %-17s %-16s %-9s %-50s\n",
		"ID", "Started", "State", "Failed Stage", "Versions", "Page")
	fmt.Fprintln(w, strings.Repeat("-", 120))

	for _, r := range runs {
		fmt.Fprintf(w, "%-6d %-20s %-17s %-16s %-9d %-50s\n",
			r.RunID,
			r.StartedAt.Local().Format("2006-01-02 15:04:05"),
			r.State,
			dash(r.FailedStage),
			r.VersionCount,
			r.PageURL,
		)
	}

	fmt.Fprintf(w, "\nTotal: %d runs\n", len(runs))
	fmt.Fprintf(w, "\nTip: Use 'versions-page run <id>' to see details\n")

	return nil
}

// RunAction prints one recorded render as YAML.
func RunAction(c *cli.Context) error {
	database, err := openFromFlags(c)
	if err != nil {
		return err
	}
	defer database.Close()

	run, err := GetRunOrLatest(c, database)
	if err != nil {
		return err
	}

	return writeYAML(c.App.Writer, run)
}

// PruneAction deletes runs older than --older-than.
func PruneAction(c *cli.Context) error {
	age, err := time.ParseDuration(c.String("older-than"))
	if err != nil {
		return fmt.Errorf("invalid older-than duration: %w", err)
	}

	database, err := openFromFlags(c)
	if err != nil {
		return err
	}
	defer database.Close()

	deleted, err := database.PruneRuns(time.Now().Add(-age))
	if err != nil {
		return err
	}
	fmt.Fprintf(c.App.Writer, "Deleted %d runs older than %s\n", deleted, age)
	return nil
}

func writeYAML(w io.Writer, v interface{}) error {
	enc := yaml.NewEncoder(w)
	enc.SetIndent(2)
	if err := enc.Encode(v); err != nil {
		return fmt.Errorf("failed to encode YAML: %w", err)
	}
	return enc.Close()
}

func dash(s string) string {
	if s == "" {
		return "-"
	}
	return s
}
