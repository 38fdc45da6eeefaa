package commands

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"

	"github.com/allisson/reportgate/internal/store"
)

// RunCleanExpiredEntries removes expired entries from the key-value store.
// Expired idempotency records, rate-limit windows, and audit events are
// already invisible to reads; this reclaims their rows. Supports dry-run mode
// to preview the deletion count and both text/JSON output formats.
//
// Requirements: Database must be migrated and accessible.
func RunCleanExpiredEntries(
	ctx context.Context,
	kvStore store.KVStore,
	logger *slog.Logger,
	out io.Writer,
	dryRun bool,
	format string,
) error {
	logger.Info("cleaning expired entries", slog.Bool("dry_run", dryRun))

	var count int64
	var err error
	if dryRun {
		count, err = kvStore.CountExpired(ctx)
	} else {
		count, err = kvStore.DeleteExpired(ctx)
	}
	if err != nil {
		return fmt.Errorf("failed to clean expired entries: %w", err)
	}

	if format == "json" {
		outputCleanExpiredJSON(out, count, dryRun)
	} else {
		outputCleanExpiredText(out, count, dryRun)
	}

	logger.Info("cleanup completed",
		slog.Int64("count", count),
		slog.Bool("dry_run", dryRun),
	)

	return nil
}

// outputCleanExpiredText outputs the result in human-readable text format.
func outputCleanExpiredText(out io.Writer, count int64, dryRun bool) {
	if dryRun {
		fmt.Fprintf(out, "Dry-run mode: Would delete %d expired entry(ies)\n", count)
	} else {
		fmt.Fprintf(out, "Successfully deleted %d expired entry(ies)\n", count)
	}
}

// outputCleanExpiredJSON outputs the result in JSON format for machine consumption.
func outputCleanExpiredJSON(out io.Writer, count int64, dryRun bool) {
	result := map[string]interface{}{
		"count":   count,
		"dry_run": dryRun,
	}

	jsonBytes, err := json.MarshalIndent(result, "", "  ")
	if err != nil {
		fmt.Fprintf(out, "failed to marshal JSON: %v\n", err)
		return
	}

	fmt.Fprintln(out, string(jsonBytes))
}
