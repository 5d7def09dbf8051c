package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/fleetsight/gasdash-backend/internal/app"
	"github.com/fleetsight/gasdash-backend/internal/platform/dbctx"
)

type cylinderList []string

func (l *cylinderList) String() string { return strings.Join(*l, ",") }
func (l *cylinderList) Set(v string) error {
	v = strings.TrimSpace(v)
	if v != "" {
		*l = append(*l, v)
	}
	return nil
}

func main() {
	var cylinders cylinderList
	var incremental bool
	var hours int
	var dryRun bool
	flag.Var(&cylinders, "cylinder", "cylinder number to resync (repeatable); overrides full/incremental")
	flag.BoolVar(&incremental, "incremental", false, "only resync cylinders changed within the lookback window")
	flag.IntVar(&hours, "hours", 1, "incremental lookback window in hours")
	flag.BoolVar(&dryRun, "dry-run", false, "report what would be resynced without writing")
	flag.Parse()

	application, err := app.New()
	if err != nil {
		fmt.Printf("init app: %v\n", err)
		os.Exit(1)
	}
	defer application.Close()

	dbc := dbctx.Context{Ctx: context.Background()}

	if len(cylinders) > 0 {
		resyncListed(dbc, application, cylinders, dryRun)
		return
	}

	if dryRun {
		dryRunCount(dbc, application, incremental, hours)
		return
	}

	if incremental {
		result, err := application.Services.Sync.IncrementalResync(dbc, time.Duration(hours)*time.Hour)
		if err != nil {
			fmt.Printf("incremental resync: %v\n", err)
			os.Exit(1)
		}
		fmt.Printf("done; total=%d succeeded=%d failed=%d missing=%d\n",
			result.Total, result.Succeeded, result.Failed, result.Missing)
		return
	}

	result, err := application.Services.Sync.FullResync(dbc)
	if err != nil {
		fmt.Printf("full resync: %v\n", err)
		os.Exit(1)
	}
	fmt.Printf("done; total=%d succeeded=%d failed=%d missing=%d\n",
		result.Total, result.Succeeded, result.Failed, result.Missing)
	if result.Failed > 0 {
		os.Exit(1)
	}
}

func resyncListed(dbc dbctx.Context, application *app.App, cylinders []string, dryRun bool) {
	failed := 0
	for _, no := range cylinders {
		if dryRun {
			fmt.Printf("[dry-run] would resync %s\n", no)
			continue
		}
		found, err := application.Services.Sync.ResyncCylinder(dbc, no)
		switch {
		case err != nil:
			failed++
			fmt.Printf("resync %s failed: %v\n", no, err)
		case !found:
			fmt.Printf("%s not found in source (skipped)\n", no)
		default:
			fmt.Printf("resynced %s\n", no)
		}
	}
	if failed > 0 {
		os.Exit(1)
	}
}

func dryRunCount(dbc dbctx.Context, application *app.App, incremental bool, hours int) {
	if incremental {
		since := time.Now().UTC().Add(-time.Duration(hours) * time.Hour)
		nos, err := application.Repos.CylinderSource.ListChangedSince(dbc, since)
		if err != nil {
			fmt.Printf("list changed cylinders: %v\n", err)
			os.Exit(1)
		}
		fmt.Printf("[dry-run] %d cylinders changed since %s\n", len(nos), since.Format(time.RFC3339))
		return
	}
	count, err := application.Repos.CylinderSource.Count(dbc)
	if err != nil {
		fmt.Printf("count source cylinders: %v\n", err)
		os.Exit(1)
	}
	fmt.Printf("[dry-run] full resync would process %d cylinders\n", count)
}
