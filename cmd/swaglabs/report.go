package main

import (
	"fmt"
	"io"
	"sort"
	"text/tabwriter"

	"github.com/themizzi/swaglabs/internal/autoheal"
	"github.com/themizzi/swaglabs/internal/config"
	"github.com/urfave/cli/v2"
)

// HealReportCommand prints a summary of the newest self-healing report
func HealReportCommand() *cli.Command {
	return &cli.Command{
		Name:  "heal-report",
		Usage: "Summarise the latest self-healing report",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "dir",
				Usage:   "report directory",
				Value:   config.DefaultAutoHealConfig().ReportsDir,
				EnvVars: []string{"AUTOHEAL_REPORTS_DIR"},
			},
			&cli.StringFlag{Name: "file", Usage: "report file (defaults to the newest in --dir)"},
		},
		Action: func(c *cli.Context) error {
			path := c.String("file")
			if path == "" {
				latest, err := autoheal.LatestReport(c.String("dir"))
				if err != nil {
					return err
				}
				path = latest
			}

			report, err := autoheal.ReadReport(path)
			if err != nil {
				return err
			}
			return printReport(c.App.Writer, path, report)
		},
	}
}

func printReport(w io.Writer, path string, r autoheal.Report) error {
	fmt.Fprintf(w, "Report:    %s\n", path)
	fmt.Fprintf(w, "Generated: %s\n", r.GeneratedAt.Format("2006-01-02 15:04:05 MST"))
	fmt.Fprintf(w, "Strategy:  %s (provider %s)\n", r.Strategy, r.Provider)
	fmt.Fprintf(w, "Requests:  %d (original %d, cache %d, healed %d, failed %d)\n",
		r.Healing.TotalRequests, r.Healing.OriginalSuccesses, r.Healing.CacheHits, r.Healing.TotalHeals(), r.Healing.Failures)
	fmt.Fprintf(w, "Cache:     %.2f%% hit rate, %d entries\n", r.Cache.HitRate*100, r.Cache.TotalEntries)

	sources := make([]string, 0, len(r.Summary.BySource))
	for source := range r.Summary.BySource {
		sources = append(sources, string(source))
	}
	sort.Strings(sources)
	for _, source := range sources {
		fmt.Fprintf(w, "  %-10s %d\n", source, r.Summary.BySource[autoheal.Source(source)])
	}

	if len(r.Events) == 0 {
		return nil
	}
	fmt.Fprintln(w)
	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "SELECTOR\tDESCRIPTION\tRESULT\tSOURCE\tCONFIDENCE")
	for _, e := range r.Events {
		result := e.HealedSelector
		if !e.Success {
			result = "FAILED"
		}
		fmt.Fprintf(tw, "%s\t%s\t%s\t%s\t%.2f\n", e.Selector, e.Description, result, e.Source, e.Confidence)
	}
	return tw.Flush()
}
