package main

import (
	"errors"
	"fmt"
	"os"
	"text/tabwriter"

	"github.com/themizzi/swaglabs/internal/autoheal"
	"github.com/urfave/cli/v2"
)

func cacheFileFlag() cli.Flag {
	return &cli.StringFlag{
		Name:     "file",
		Usage:    "selector cache file",
		EnvVars:  []string{"AUTOHEAL_CACHE_FILE"},
		Required: true,
	}
}

// CacheCommand inspects and clears the persisted selector cache
func CacheCommand() *cli.Command {
	return &cli.Command{
		Name:  "cache",
		Usage: "Inspect the persisted selector cache",
		Subcommands: []*cli.Command{
			{
				Name:  "stats",
				Usage: "List cached selectors",
				Flags: []cli.Flag{cacheFileFlag()},
				Action: func(c *cli.Context) error {
					entries, err := autoheal.ReadCacheFile(c.String("file"))
					if errors.Is(err, os.ErrNotExist) {
						fmt.Fprintln(c.App.Writer, "Cache is empty")
						return nil
					}
					if err != nil {
						return err
					}

					fmt.Fprintf(c.App.Writer, "%d entries\n", len(entries))
					tw := tabwriter.NewWriter(c.App.Writer, 0, 4, 2, ' ', 0)
					fmt.Fprintln(tw, "KEY\tSELECTOR\tSOURCE\tSTORED")
					for _, e := range entries {
						fmt.Fprintf(tw, "%s\t%s\t%s\t%s\n", e.Key, e.Selector, e.Source, e.StoredAt.Format("2006-01-02 15:04:05"))
					}
					return tw.Flush()
				},
			},
			{
				Name:  "clear",
				Usage: "Delete the cache file",
				Flags: []cli.Flag{cacheFileFlag()},
				Action: func(c *cli.Context) error {
					err := os.Remove(c.String("file"))
					if err != nil && !errors.Is(err, os.ErrNotExist) {
						return fmt.Errorf("failed to clear cache: %w", err)
					}
					fmt.Fprintln(c.App.Writer, "Cache cleared")
					return nil
				},
			},
		},
	}
}
