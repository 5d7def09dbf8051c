package main

import (
	"context"
	"flag"
	"fmt"
	"os"

	"github.com/fleetsight/gasdash-backend/internal/app"
	"github.com/fleetsight/gasdash-backend/internal/platform/dbctx"
)

// Reports snapshot rows whose cylinder no longer exists in the CDC source.
// Deleting them requires both -cleanup and -confirm: a broken or partial
// replication feed makes every row look orphaned, and this is the last stop
// before data loss.
func main() {
	var cleanup, confirm bool
	flag.BoolVar(&cleanup, "cleanup", false, "delete the orphaned snapshot rows")
	flag.BoolVar(&confirm, "confirm", false, "required together with -cleanup")
	flag.Parse()

	application, err := app.New()
	if err != nil {
		fmt.Printf("init app: %v\n", err)
		os.Exit(1)
	}
	defer application.Close()

	dbc := dbctx.Context{Ctx: context.Background()}

	orphans, err := application.Services.Sync.DetectOrphans(dbc)
	if err != nil {
		fmt.Printf("orphan detection: %v\n", err)
		os.Exit(1)
	}
	if len(orphans) == 0 {
		fmt.Println("no orphaned snapshot rows")
		return
	}
	for _, no := range orphans {
		fmt.Println(no)
	}
	fmt.Printf("total: %d orphaned snapshot rows\n", len(orphans))

	if !cleanup {
		return
	}
	if !confirm {
		fmt.Println("refusing to delete without -confirm")
		os.Exit(1)
	}
	deleted, err := application.Services.Sync.CleanupOrphans(dbc, orphans)
	if err != nil {
		fmt.Printf("cleanup: %v\n", err)
		os.Exit(1)
	}
	fmt.Printf("deleted %d rows\n", deleted)
}
