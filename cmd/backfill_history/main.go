package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"time"

	"github.com/fleetsight/gasdash-backend/internal/app"
	"github.com/fleetsight/gasdash-backend/internal/platform/dbctx"
	"github.com/fleetsight/gasdash-backend/internal/services"
)

func main() {
	var start, end, date string
	var overwrite, force, dryRun bool
	var requestedBy, reason string
	flag.StringVar(&start, "start", "", "range backfill start date (YYYY-MM-DD)")
	flag.StringVar(&end, "end", "", "range backfill end date (YYYY-MM-DD)")
	flag.StringVar(&date, "date", "", "single month-end snapshot for this date's month (YYYY-MM-DD)")
	flag.BoolVar(&overwrite, "overwrite", false, "delete existing rows in each bucket before inserting")
	flag.BoolVar(&force, "force", false, "run the month-end snapshot on any day of the month")
	flag.BoolVar(&dryRun, "dry-run", false, "aggregate but do not write history rows")
	flag.StringVar(&requestedBy, "requested-by", "cli", "recorded in the audit log")
	flag.StringVar(&reason, "reason", "", "recorded in the audit log")
	flag.Parse()

	application, err := app.New()
	if err != nil {
		fmt.Printf("init app: %v\n", err)
		os.Exit(1)
	}
	defer application.Close()

	dbc := dbctx.Context{Ctx: context.Background()}

	if start != "" || end != "" {
		runRange(dbc, application, start, end, overwrite, dryRun, requestedBy, reason)
		return
	}
	runMonthEnd(dbc, application, date, force, dryRun, requestedBy, reason)
}

func runRange(dbc dbctx.Context, application *app.App, start, end string, overwrite, dryRun bool, requestedBy, reason string) {
	startDate, err := time.Parse("2006-01-02", start)
	if err != nil {
		fmt.Printf("-start: expected YYYY-MM-DD: %v\n", err)
		os.Exit(1)
	}
	endDate, err := time.Parse("2006-01-02", end)
	if err != nil {
		fmt.Printf("-end: expected YYYY-MM-DD: %v\n", err)
		os.Exit(1)
	}
	results, err := application.Services.History.BackfillRange(dbc, services.BackfillOptions{
		Start:       startDate,
		End:         endDate,
		Overwrite:   overwrite,
		DryRun:      dryRun,
		RequestedBy: requestedBy,
		Reason:      reason,
	})
	for _, r := range results {
		fmt.Printf("%s inserted=%d skipped_duplicate=%d failed=%d deleted=%d\n",
			r.Timestamp.Format("2006-01-02 15:04:05"), r.Inserted, r.SkippedDuplicate, r.Failed, r.Deleted)
	}
	if err != nil {
		fmt.Printf("backfill: %v\n", err)
		os.Exit(1)
	}
}

func runMonthEnd(dbc dbctx.Context, application *app.App, date string, force, dryRun bool, requestedBy, reason string) {
	opts := services.MonthEndOptions{
		Force:       force,
		DryRun:      dryRun,
		RequestedBy: requestedBy,
		Reason:      reason,
	}
	if date != "" {
		target, err := time.Parse("2006-01-02", date)
		if err != nil {
			fmt.Printf("-date: expected YYYY-MM-DD: %v\n", err)
			os.Exit(1)
		}
		opts.TargetDate = &target
	}
	result, err := application.Services.History.MonthEndSnapshot(dbc, opts)
	if err != nil {
		fmt.Printf("month-end snapshot: %v\n", err)
		os.Exit(1)
	}
	fmt.Printf("%s inserted=%d skipped_duplicate=%d failed=%d\n",
		result.Timestamp.Format("2006-01-02 15:04:05"), result.Inserted, result.SkippedDuplicate, result.Failed)
}
