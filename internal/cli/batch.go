package cli

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"runtime"
	"time"

	"github.com/spf13/cobra"

	"github.com/yojanadost/yojanadost/internal/respond"
	"github.com/yojanadost/yojanadost/internal/worker"
)

var (
	concurrency  int
	batchTimeout time.Duration
	batchJSON    bool
	batchHTML    bool
	batchRate    float64
)

// batchCmd represents the batch command
var batchCmd = &cobra.Command{
	Use:   "batch <file>",
	Short: "Answer many queries from a file in parallel",
	Long: `Batch answers one query per line concurrently:
- Blank lines and lines starting with # are skipped
- Responses are printed in input order
- --rate throttles the whole batch, useful when the fallback LLM is enabled

Example:
  yojanadost batch queries.txt
  yojanadost batch queries.txt --concurrency 8 --json
  yojanadost batch queries.txt --rate 2 --timeout 5m`,
	Args: cobra.ExactArgs(1),
	RunE: runBatch,
}

func init() {
	rootCmd.AddCommand(batchCmd)

	batchCmd.Flags().IntVar(&concurrency, "concurrency", runtime.NumCPU(), "number of concurrent workers")
	batchCmd.Flags().DurationVar(&batchTimeout, "timeout", 10*time.Minute, "total timeout for the batch")
	batchCmd.Flags().BoolVar(&batchJSON, "json", false, "print results as a JSON array")
	batchCmd.Flags().BoolVar(&batchHTML, "html", false, "keep HTML markup in responses")
	batchCmd.Flags().Float64Var(&batchRate, "rate", 0, "max queries per second across the batch (0 = unlimited)")
}

// batchRecord is one line of --json output
type batchRecord struct {
	Query    string `json:"query"`
	Response string `json:"response,omitempty"`
	Path     string `json:"path,omitempty"`
	Matches  int    `json:"matches"`
	Category string `json:"category,omitempty"`
	Error    string `json:"error,omitempty"`
}

func runBatch(cmd *cobra.Command, args []string) error {
	file := args[0]
	ctx, cancel := context.WithTimeout(context.Background(), batchTimeout)
	defer cancel()

	a, err := bootstrap(ctx)
	if err != nil {
		return err
	}

	processor := worker.NewBatchProcessor(a.engine, concurrency, batchRate, 1)

	start := time.Now()
	results, err := processor.ProcessFile(ctx, file)
	if err != nil {
		return fmt.Errorf("process file: %w", err)
	}

	records := make([]batchRecord, len(results))
	failures := 0
	for i, r := range results {
		records[i] = toRecord(r, batchHTML)
		if r.Error != nil {
			failures++
		}
	}

	a.logger.Info().
		Int("queries", len(results)).
		Int("failures", failures).
		Int("workers", concurrency).
		Dur("elapsed", time.Since(start)).
		Msg("Batch complete")

	out := cmd.OutOrStdout()
	if batchJSON {
		return writeBatchJSON(out, records)
	}
	return writeBatchText(out, records)
}

func toRecord(r *worker.QueryResult, asHTML bool) batchRecord {
	rec := batchRecord{Query: r.Query}
	if r.Error != nil {
		rec.Error = r.Error.Error()
		return rec
	}

	rec.Response = r.Response.Text
	if !asHTML {
		rec.Response = respond.PlainText(rec.Response)
	}
	rec.Path = string(r.Response.Path)
	rec.Matches = r.Response.Matches
	rec.Category = r.Response.Category
	return rec
}

func writeBatchJSON(w io.Writer, records []batchRecord) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	if err := enc.Encode(records); err != nil {
		return fmt.Errorf("encode results: %w", err)
	}
	return nil
}

func writeBatchText(w io.Writer, records []batchRecord) error {
	for i, rec := range records {
		if i > 0 {
			if _, err := fmt.Fprintln(w); err != nil {
				return err
			}
		}

		body := rec.Response
		if rec.Error != "" {
			body = "error: " + rec.Error
		}
		if _, err := fmt.Fprintf(w, "> %s\n%s\n", rec.Query, body); err != nil {
			return err
		}
	}
	return nil
}
