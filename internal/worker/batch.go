package worker

import (
	"bufio"
	"context"
	"fmt"
	"os"
	"strings"

	"github.com/yojanadost/yojanadost/internal/engine"
)

// batchKey is the limiter bucket shared by every query in a batch
const batchKey = "batch"

// Answerer answers one query. *engine.Engine implements it.
type Answerer interface {
	Respond(ctx context.Context, query string) engine.Result
}

// QueryJob answers a single query
type QueryJob struct {
	Query    string
	Answerer Answerer
	Limiter  *Limiter // optional
}

// Execute executes the query job
func (j *QueryJob) Execute(ctx context.Context) Result {
	if j.Limiter != nil {
		if err := j.Limiter.Wait(ctx, batchKey); err != nil {
			return &QueryResult{Query: j.Query, Error: fmt.Errorf("rate limit: %w", err)}
		}
	}
	if err := ctx.Err(); err != nil {
		return &QueryResult{Query: j.Query, Error: err}
	}

	res := j.Answerer.Respond(ctx, j.Query)
	return &QueryResult{Query: j.Query, Response: &res}
}

// QueryResult represents the result of a query job
type QueryResult struct {
	Query    string
	Response *engine.Result
	Error    error
}

// GetError returns the error from the query result
func (r *QueryResult) GetError() error {
	return r.Error
}

// BatchProcessor answers many queries concurrently
type BatchProcessor struct {
	answerer    Answerer
	concurrency int
	limiter     *Limiter
}

// NewBatchProcessor creates a new batch processor. A positive
// requestsPerSecond throttles the whole batch.
func NewBatchProcessor(answerer Answerer, concurrency int, requestsPerSecond float64, burst int) *BatchProcessor {
	var limiter *Limiter
	if requestsPerSecond > 0 {
		limiter = NewLimiter(requestsPerSecond, burst)
	}

	return &BatchProcessor{
		answerer:    answerer,
		concurrency: concurrency,
		limiter:     limiter,
	}
}

// ProcessQueries answers queries concurrently. Results are in input order.
func (b *BatchProcessor) ProcessQueries(ctx context.Context, queries []string) []*QueryResult {
	jobs := make([]Job, len(queries))
	for i, q := range queries {
		jobs[i] = &QueryJob{Query: q, Answerer: b.answerer, Limiter: b.limiter}
	}

	results := Run(ctx, b.concurrency, jobs)

	out := make([]*QueryResult, len(results))
	for i, r := range results {
		if r == nil {
			out[i] = &QueryResult{Query: queries[i], Error: ctx.Err()}
			continue
		}
		out[i] = r.(*QueryResult)
	}
	return out
}

// ProcessFile reads queries from a file and answers them concurrently
func (b *BatchProcessor) ProcessFile(ctx context.Context, filePath string) ([]*QueryResult, error) {
	queries, err := ReadQueriesFromFile(filePath)
	if err != nil {
		return nil, fmt.Errorf("read queries: %w", err)
	}

	return b.ProcessQueries(ctx, queries), nil
}

// ReadQueriesFromFile reads queries from a file, one per line. Blank
// lines and lines starting with # are skipped.
func ReadQueriesFromFile(filePath string) ([]string, error) {
	file, err := os.Open(filePath)
	if err != nil {
		return nil, fmt.Errorf("open file: %w", err)
	}
	defer func() { _ = file.Close() }()

	var queries []string

	scanner := bufio.NewScanner(file)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		queries = append(queries, line)
	}

	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("scan file: %w", err)
	}

	return queries, nil
}
