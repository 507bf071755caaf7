package execution

import (
	"fmt"
	"time"

	"ftr/internal/domain"
	"ftr/internal/stats"
)

// advance moves job id from one state to the next. A job in any other state
// means the coordinator and the pool disagree, which cannot be recovered.
func (r *TestRunner) advance(id int, from, to domain.JobState) *domain.Job {
	job := &r.jobs[id]
	if job.State != from {
		panic(fmt.Sprintf("execution: job %d (%s) is %s, expected %s", id, job.Path, job.State, from))
	}
	job.State = to
	return job
}

// scheduleJobs starts every job still in the New state, then handles the
// replies that are already waiting. It never blocks on the pool.
func (r *TestRunner) scheduleJobs() error {
	for id := r.newTests; id < len(r.jobs); id++ {
		if r.pool != nil {
			job := r.advance(id, domain.New, domain.Queued)
			r.pool.Put(id, job.Path)
			r.log.Trace("Queued job", "job", id, "path", job.Path)
		} else {
			job := r.advance(id, domain.New, domain.Running)
			r.listener.JobStarted(id, job.Path)
			outcome := r.executor.Run(job.Path)
			r.finishJob(id, outcome)
		}
		r.newTests = id + 1
	}

	if r.pool == nil {
		return nil
	}
	for {
		reply, ok := r.pool.TryReceive()
		if !ok {
			return nil
		}
		if err := r.handleReply(reply); err != nil {
			return err
		}
	}
}

// finishJob records the outcome of a running job and reports every job at
// the front of the queue that is now done.
func (r *TestRunner) finishJob(id int, outcome domain.Outcome) {
	job := r.advance(id, domain.Running, domain.Done)
	job.Outcome = outcome
	if !outcome.OK() {
		r.errors++
	}
	r.listener.JobFinished(id, *job)

	for r.reportJob() {
		r.reportedTests++
	}
}

// reportJob prints the next in-order job if it is done.
func (r *TestRunner) reportJob() bool {
	if r.reportedTests >= len(r.jobs) {
		return false
	}
	job := &r.jobs[r.reportedTests]
	if job.State != domain.Done {
		return false
	}
	if r.opts.Verbose || !job.Outcome.OK() {
		printReportLine(r.out, job)
	}
	return true
}

// handleReply applies one message from the worker pool.
func (r *TestRunner) handleReply(reply Reply) error {
	switch reply.Kind {
	case ReplyStarting:
		job := r.advance(reply.JobID, domain.Queued, domain.Running)
		r.listener.JobStarted(reply.JobID, job.Path)
	case ReplyDone:
		r.ticksSinceProgress = 0
		r.finishJob(reply.JobID, reply.Outcome)
	case ReplyHeartbeat:
		r.ticksSinceProgress++
		if r.ticksSinceProgress == r.opts.SlowTicks {
			printStalled(r.out, r.stalledFor(), r.reportedTests, len(r.jobs))
			for _, id := range r.runningJobs() {
				printf(r.out, "slow: %s\n", &r.jobs[id])
			}
		}
		if r.ticksSinceProgress >= r.opts.PanicTicks {
			stall := &StallError{
				Ticks:    r.ticksSinceProgress,
				Stalled:  r.stalledFor(),
				Finished: r.reportedTests,
				Total:    len(r.jobs),
			}
			for _, id := range r.runningJobs() {
				stall.Running = append(stall.Running, r.jobs[id].Path)
			}
			r.log.Error("Worker pool stalled", "ticks", stall.Ticks, "finished", stall.Finished, "total", stall.Total, "running", len(stall.Running))
			return stall
		}
	default:
		panic(fmt.Sprintf("execution: unknown reply kind %d", reply.Kind))
	}
	return nil
}

// stalledFor is the time covered by the heartbeats since the last finished job.
func (r *TestRunner) stalledFor() time.Duration {
	return time.Duration(r.ticksSinceProgress) * r.opts.Heartbeat
}

// runningJobs returns the ids of running jobs beyond the report frontier.
func (r *TestRunner) runningJobs() []int {
	var ids []int
	for id := r.reportedTests; id < len(r.jobs); id++ {
		if r.jobs[id].State == domain.Running {
			ids = append(ids, id)
		}
	}
	return ids
}

// drainThreads waits for every queued job and shuts the pool down. Workers
// are not joined when the run stalls; they may never return.
func (r *TestRunner) drainThreads() error {
	pool := r.pool
	if pool == nil {
		return nil
	}
	r.pool = nil

	pool.Shutdown()
	for r.reportedTests < len(r.jobs) {
		reply, ok := pool.Receive()
		if !ok {
			break
		}
		if err := r.handleReply(reply); err != nil {
			return err
		}
	}
	pool.Join()
	return nil
}

// reportSlowTests prints the passing jobs whose run time is an outlier.
func (r *TestRunner) reportSlowTests() {
	var ids []int
	var times []time.Duration
	for id, job := range r.jobs {
		if job.State == domain.Done && job.Outcome.OK() {
			ids = append(ids, id)
			times = append(times, job.Outcome.Elapsed)
		}
	}

	for _, i := range stats.Outliers(times) {
		printf(r.out, "slow: %s\n", &r.jobs[ids[i]])
	}
}
