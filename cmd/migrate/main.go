package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"sort"
	"syscall"

	"github.com/yungbote/fundgraph/internal/app"
	"github.com/yungbote/fundgraph/internal/migrate"
)

func main() {
	var opts migrate.Options
	flag.IntVar(&opts.Limit, "limit", 0, "limit rows per node table, and series or fund keys per grouped table (0 = all)")
	flag.BoolVar(&opts.SkipSchema, "skip-schema", false, "skip constraint and index creation")
	flag.StringVar(&opts.TenantID, "tenant", "", "migrate a single tenant")
	flag.BoolVar(&opts.Resume, "resume", false, "skip stages completed by earlier unfinished runs")
	flag.IntVar(&opts.BatchSize, "batch-size", 0, "records per graph write (default MIGRATION_BATCH_SIZE or 50)")
	flag.BoolVar(&opts.RepairEdges, "repair-edges", false, "remove duplicate relationships after reconciling")
	flag.IntVar(&opts.Parallelism, "parallelism", 0, "concurrent edge writers (default RECONCILE_PARALLELISM or 1)")
	flag.Parse()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	os.Exit(run(ctx, opts))
}

func run(ctx context.Context, opts migrate.Options) int {
	application, err := app.New(ctx)
	if err != nil {
		fmt.Fprintf(os.Stderr, "init app: %v\n", err)
		return 1
	}
	defer application.Close()

	if opts.BatchSize <= 0 {
		opts.BatchSize = application.Cfg.BatchSize
	}
	if opts.Parallelism <= 0 {
		opts.Parallelism = application.Cfg.Parallelism
	}

	orch, err := application.NewMigrator(ctx, os.Stdout)
	if err != nil {
		fmt.Fprintf(os.Stderr, "init migration: %v\n", err)
		return 1
	}

	rep, err := orch.Run(ctx, opts)
	if err != nil {
		fmt.Fprintf(os.Stderr, "migration failed: %v\n", err)
		return 1
	}

	fmt.Printf("migration %s complete\n", rep.RunID)
	printCounts("nodes", rep.NodeCounts)
	printCounts("relationships", rep.EdgeCounts)
	if rc := rep.Reconcile; rc != nil {
		fmt.Printf("reconcile: %d created, %d stale interest removed, %d duplicates removed\n",
			rc.Created, rc.StaleInterest, rc.DuplicatesRemoved)
	}
	return 0
}

func printCounts(title string, counts map[string]int64) {
	if len(counts) == 0 {
		return
	}
	keys := make([]string, 0, len(counts))
	for k := range counts {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	fmt.Printf("%s:\n", title)
	for _, k := range keys {
		fmt.Printf("  %-24s %d\n", k, counts[k])
	}
}
