package execution

import (
	"io"
	"os"
	"time"

	"github.com/ethereum/go-ethereum/log"

	"ftr/internal/discovery"
	"ftr/internal/domain"
	"ftr/internal/logging"
)

const (
	// DefaultSlowTicks heartbeats without progress before running jobs are listed.
	DefaultSlowTicks = 3
	// DefaultPanicTicks heartbeats without progress before the run is aborted.
	DefaultPanicTicks = 10
)

// Listener observes job progress. It is only ever called from the goroutine
// running TestRunner.Run.
type Listener interface {
	JobStarted(id int, path string)
	JobFinished(id int, job domain.Job)
}

// Options configure a TestRunner. Zero values select the defaults.
type Options struct {
	Verbose    bool              // Print a line for passing jobs too
	Extension  string            // Test file extension, without the dot
	Filter     *discovery.Filter // Applied to files found by scanning
	Heartbeat  time.Duration     // Watchdog tick period, stall times are reported as ticks * Heartbeat
	SlowTicks  int
	PanicTicks int
	Out        io.Writer // Report lines, stdout by default
	Logger     log.Logger
	Listener   Listener
}

// TestRunner discovers test files, runs them either inline or on a worker
// pool, and reports results in the order the jobs were registered.
//
// All job state lives here and is only touched by the goroutine calling Run;
// workers communicate exclusively through the pool's channels.
type TestRunner struct {
	executor Executor
	opts     Options
	out      io.Writer
	log      log.Logger
	scanner  *discovery.Scanner
	filter   *discovery.Filter
	listener Listener

	// Tests to run, in registration order. The index is the job id.
	jobs []domain.Job

	// Index of the first job still in the New state.
	newTests int

	// Number of contiguous reported jobs at the front of jobs.
	reportedTests int

	// Failed jobs plus scan errors.
	errors     int
	scanErrors int

	// Heartbeats received since the last finished job.
	ticksSinceProgress int

	pool    *WorkerPool
	workers int

	started time.Time
	elapsed time.Duration
}

// NewTestRunner creates a runner that executes jobs synchronously until
// StartThreads is called.
func NewTestRunner(executor Executor, opts Options) *TestRunner {
	if opts.Out == nil {
		opts.Out = os.Stdout
	}
	if opts.Logger == nil {
		opts.Logger = logging.Discard()
	}
	if opts.Filter == nil {
		opts.Filter = discovery.NewFilter("")
	}
	if opts.Listener == nil {
		opts.Listener = noopListener{}
	}
	if opts.Heartbeat <= 0 {
		opts.Heartbeat = DefaultHeartbeat
	}
	if opts.SlowTicks <= 0 {
		opts.SlowTicks = DefaultSlowTicks
	}
	if opts.PanicTicks <= 0 {
		opts.PanicTicks = DefaultPanicTicks
	}
	return &TestRunner{
		executor: executor,
		opts:     opts,
		out:      opts.Out,
		log:      opts.Logger.New("component", "test-runner"),
		scanner:  discovery.NewScanner(opts.Extension),
		filter:   opts.Filter,
		listener: opts.Listener,
	}
}

// PushDir adds a directory to be scanned later. If dir turns out to be a
// regular file it is silently ignored; other read problems are reported.
func (r *TestRunner) PushDir(dir string) {
	r.scanner.Push(dir)
}

// PushTest adds a test file to be executed later, bypassing extension and
// name filtering. Problems reading it are reported as a test failure.
func (r *TestRunner) PushTest(file string) {
	r.jobs = append(r.jobs, domain.Job{Path: file, State: domain.New})
}

// StartThreads switches the runner to concurrent execution on n workers.
func (r *TestRunner) StartThreads(n int) {
	if r.pool != nil {
		panic("execution: StartThreads called twice")
	}
	r.pool = NewWorkerPool(r.executor, n, r.opts.Heartbeat, r.opts.Logger)
	r.workers = n
}

// Run scans the pushed directories, runs every job and prints the report.
// It returns the wall time on success, a *FailuresError when jobs failed or
// directories could not be read, and a *StallError when the workers stopped
// making progress.
func (r *TestRunner) Run() (time.Duration, error) {
	r.started = time.Now()
	r.log.Info("Starting test run", "workers", r.workers, "pending_dirs", r.scanner.Pending(), "tests", len(r.jobs))

	if err := r.scanDirs(); err != nil {
		return time.Since(r.started), err
	}
	if err := r.scheduleJobs(); err != nil {
		return time.Since(r.started), err
	}
	if err := r.drainThreads(); err != nil {
		return time.Since(r.started), err
	}
	r.reportSlowTests()
	printf(r.out, "%d tests\n", len(r.jobs))

	r.elapsed = time.Since(r.started)
	r.log.Info("Test run finished", "tests", len(r.jobs), "errors", r.errors, "elapsed", r.elapsed)
	if r.errors == 0 {
		return r.elapsed, nil
	}
	return r.elapsed, &FailuresError{Count: r.errors}
}

// scanDirs drains the directory frontier, getting newly found jobs running
// before moving on to the next directory.
func (r *TestRunner) scanDirs() error {
	for {
		batch, ok := r.scanner.Next()
		if !ok {
			return nil
		}
		if batch.Err != nil {
			r.pathError(batch.Dir, batch.Err)
		}
		for _, test := range batch.Tests {
			if r.filter.Match(test) {
				r.PushTest(test)
			}
		}
		if err := r.scheduleJobs(); err != nil {
			return err
		}
	}
}

// pathError records a scan error.
func (r *TestRunner) pathError(path string, err error) {
	r.errors++
	r.scanErrors++
	r.log.Debug("Scan error", "path", path, "err", err)
	printf(r.out, "%s: %v\n", path, err)
}

// Summary returns the per-job results of a finished run, in job id order.
func (r *TestRunner) Summary() domain.RunSummary {
	s := domain.RunSummary{
		StartedAt:  r.started,
		Elapsed:    r.elapsed,
		Total:      len(r.jobs),
		Errors:     r.errors,
		ScanErrors: r.scanErrors,
		Workers:    r.workers,
		Jobs:       make([]domain.JobResult, 0, len(r.jobs)),
	}
	for id, job := range r.jobs {
		if job.State != domain.Done {
			continue
		}
		res := domain.JobResult{ID: id, Path: job.Path, Passed: job.Outcome.OK()}
		if res.Passed {
			res.Elapsed = job.Outcome.Elapsed
			s.Passed++
		} else {
			res.Description = job.Outcome.Description
			s.Failed++
		}
		s.Jobs = append(s.Jobs, res)
	}
	return s
}

type noopListener struct{}

func (noopListener) JobStarted(int, string)      {}
func (noopListener) JobFinished(int, domain.Job) {}
