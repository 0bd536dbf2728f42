package confirm

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
)

// Confirmer verifies that every file under a source tree has an
// identical-content counterpart somewhere among a set of destination trees.
// It is read-only and diagnostic: no file is ever copied or mutated.
//
// A Confirmer is configured once via options and may run any number of
// Confirm calls; each call is an independent run with its own pool, index,
// and report.
type Confirmer struct {
	workers   int
	hasher    Hasher
	progress  ProgressSink
	wantFound bool
	runIDs    RunIDGenerator
}

// Option configures a Confirmer.
type Option func(*Confirmer)

// WithWorkers sets the hash worker count. Confirm rejects counts < 1.
func WithWorkers(n int) Option {
	return func(c *Confirmer) { c.workers = n }
}

// WithHasher replaces the default BLAKE2b-512 hasher, e.g. with a
// cache-backed one.
func WithHasher(h Hasher) Option {
	return func(c *Confirmer) { c.hasher = h }
}

// WithFoundMap requests the source-path to destination-locations map in the
// Report.
func WithFoundMap(want bool) Option {
	return func(c *Confirmer) { c.wantFound = want }
}

// WithProgress attaches a progress sink. Defaults to NopSink.
func WithProgress(sink ProgressSink) Option {
	return func(c *Confirmer) { c.progress = sink }
}

// WithRunIDGenerator overrides the run ID generator (for deterministic
// tests). Defaults to UUIDv7Generator.
func WithRunIDGenerator(g RunIDGenerator) Option {
	return func(c *Confirmer) { c.runIDs = g }
}

// New creates a Confirmer. Without options it runs a single worker, hashes
// with BLAKE2b-512, reports no progress, and omits the found map.
func New(opts ...Option) *Confirmer {
	c := &Confirmer{
		workers:  1,
		hasher:   NewBLAKE2b512Hasher(DefaultHashBuffer),
		progress: NopSink{},
		runIDs:   UUIDv7Generator{},
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Confirm runs the two-phase verification of source against destinations
// and returns the Report.
//
// Phase one walks and hashes every destination root, building the
// digest-to-locations index. Phase two starts only after every destination
// job has produced a result: the source tree is walked and hashed, and each
// source digest is matched against the now-immutable index. This barrier is
// load-bearing — a destination result arriving after the index is consulted
// could produce a false Missing.
//
// Per-file failures degrade the Report but never fail the run; the returned
// error is non-nil only for configuration errors or context cancellation.
func (c *Confirmer) Confirm(ctx context.Context, source string, destinations []string) (*Report, error) {
	if err := c.validate(source, destinations); err != nil {
		return nil, err
	}

	report := &Report{
		RunID:        c.runIDs.Generate(),
		Source:       source,
		Destinations: append([]string(nil), destinations...),
	}

	poolCtx, cancel := context.WithCancel(ctx)
	p := newPool(poolCtx, c.workers, c.hasher, c.progress)
	defer func() {
		cancel()
		p.Close()
	}()

	// Phase one: hash every destination tree into the index.
	index := newTreeIndex()
	var destJobs []HashJob
	for _, root := range destinations {
		files, walkErrs := walkTree(root)
		recordWalkErrors(report, walkErrs)
		for _, rel := range files {
			destJobs = append(destJobs, HashJob{
				Root:    root,
				AbsPath: filepath.Join(root, filepath.FromSlash(rel)),
				RelPath: rel,
			})
		}
	}
	report.DestinationFiles = len(destJobs)
	slog.Info("hashing destinations", "roots", len(destinations), "files", len(destJobs), "workers", c.workers)

	err := c.runPhase(ctx, p, "destinations", destJobs, func(res HashResult) {
		if res.Err != nil {
			report.DestinationErrors = append(report.DestinationErrors, TreeError{
				Root:   res.Root,
				Path:   res.RelPath,
				Detail: res.Err.Error(),
			})
			return
		}
		index.Add(res.Digest, Location{Root: res.Root, Path: res.RelPath})
	})
	if err != nil {
		return nil, err
	}
	slog.Info("destination index complete", "digests", index.Len(), "errors", len(report.DestinationErrors))

	// Phase two: hash the source tree and match against the index.
	srcFiles, walkErrs := walkTree(source)
	recordWalkErrors(report, walkErrs)
	srcJobs := make([]HashJob, 0, len(srcFiles))
	for _, rel := range srcFiles {
		srcJobs = append(srcJobs, HashJob{
			Root:    source,
			AbsPath: filepath.Join(source, filepath.FromSlash(rel)),
			RelPath: rel,
		})
	}
	report.SourceFiles = len(srcJobs)
	slog.Info("hashing source", "files", len(srcJobs))

	outcomes := make([]MatchOutcome, 0, len(srcJobs))
	err = c.runPhase(ctx, p, "source", srcJobs, func(res HashResult) {
		outcomes = append(outcomes, match(index, res))
	})
	if err != nil {
		return nil, err
	}

	finishReport(report, outcomes, c.wantFound)
	slog.Info("run complete", "run_id", report.RunID, "all_present", report.AllPresent, "missing", len(report.Missing))
	return report, nil
}

// validate checks the run configuration before any hashing starts.
func (c *Confirmer) validate(source string, destinations []string) error {
	if c.workers < 1 {
		return &ConfigError{Field: "workers", Message: fmt.Sprintf("worker count must be >= 1, got %d", c.workers)}
	}
	if err := checkRoot("source", source); err != nil {
		return err
	}
	if len(destinations) == 0 {
		return &ConfigError{Field: "destinations", Message: "at least one destination root is required"}
	}
	for _, root := range destinations {
		if err := checkRoot("destinations", root); err != nil {
			return err
		}
	}
	return nil
}

// checkRoot verifies that root exists and is a directory.
func checkRoot(field, root string) error {
	info, err := os.Stat(root)
	if err != nil {
		return &ConfigError{Field: field, Message: fmt.Sprintf("cannot access %q: %v", root, err)}
	}
	if !info.IsDir() {
		return &ConfigError{Field: field, Message: fmt.Sprintf("%q is not a directory", root)}
	}
	return nil
}

// runPhase submits every job and drains exactly one result per job into
// collect. Results arrive in completion order, not submission order; collect
// runs on the calling goroutine, so it needs no locking.
func (c *Confirmer) runPhase(ctx context.Context, p *pool, name string, jobs []HashJob, collect func(HashResult)) error {
	c.progress.BeginPhase(name, len(jobs))
	defer c.progress.EndPhase()

	for _, j := range jobs {
		p.Submit(j)
	}
	for i := 0; i < len(jobs); i++ {
		select {
		case res := <-p.Results():
			collect(res)
		case <-ctx.Done():
			return ctx.Err()
		}
	}
	return nil
}

// match classifies one source hash result against the destination index.
//
// A source-side read error forces Missing: a file that cannot be read
// cannot be confirmed copied, regardless of destination content.
func match(index *TreeIndex, res HashResult) MatchOutcome {
	out := MatchOutcome{Path: res.RelPath}
	if res.Err != nil {
		out.Reason = ReasonUnreadable
		out.Err = res.Err
		return out
	}
	if locs := index.Lookup(res.Digest); len(locs) > 0 {
		out.Found = true
		out.Locations = locs
		return out
	}
	out.Reason = ReasonAbsent
	return out
}

// recordWalkErrors folds per-entry traversal failures into the report.
func recordWalkErrors(report *Report, walkErrs []*WalkError) {
	for _, we := range walkErrs {
		report.WalkErrors = append(report.WalkErrors, TreeError{
			Root:   we.Root,
			Path:   we.Path,
			Detail: we.Err.Error(),
		})
	}
}
