package db

import (
	"fmt"

	dbpkg "github.com/dtnitsch/versions-page/pkg/db"
	"github.com/urfave/cli/v2"
)

// GetRunOrLatest returns the run named by the first argument, or the latest
// run if no argument is given.
func GetRunOrLatest(c *cli.Context, database *dbpkg.DB) (*dbpkg.Run, error) {
	if c.NArg() == 0 {
		run, err := database.LatestRun()
		if err != nil {
			return nil, fmt.Errorf("no runs found. Run 'versions-page render --page ...' first: %w", err)
		}
		return run, nil
	}

	var runID int64
	if _, err := fmt.Sscanf(c.Args().First(), "%d", &runID); err != nil {
		return nil, fmt.Errorf("invalid run ID: %s", c.Args().First())
	}
	return database.GetRun(runID)
}
