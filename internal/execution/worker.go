package execution

import (
	"fmt"
	"sync"
	"time"

	"github.com/ethereum/go-ethereum/log"
	"golang.org/x/sync/errgroup"

	"ftr/internal/domain"
)

// DefaultHeartbeat is the period of the heartbeat reply.
const DefaultHeartbeat = time.Second

// ReplyKind identifies a message sent from the pool to the coordinator.
type ReplyKind int

const (
	ReplyStarting  ReplyKind = iota // A worker picked up the job
	ReplyDone                       // The job finished, Outcome is set
	ReplyHeartbeat                  // Periodic tick, carries no job
)

func (k ReplyKind) String() string {
	switch k {
	case ReplyStarting:
		return "starting"
	case ReplyDone:
		return "done"
	case ReplyHeartbeat:
		return "heartbeat"
	default:
		return "unknown"
	}
}

// Reply is an asynchronous message from a worker or the heartbeat timer.
type Reply struct {
	Kind    ReplyKind
	JobID   int
	Outcome domain.Outcome
}

type work struct {
	id   int
	path string
}

// WorkerPool runs jobs on a fixed number of goroutines. Work goes in through
// Put, replies come back through TryReceive/Receive. Both channels are owned by
// the pool; the caller is the only reader of replies.
type WorkerPool struct {
	executor Executor
	log      log.Logger

	submit      chan work // caller -> dispatcher, never blocks for long
	intake      chan work // dispatcher -> workers
	replies     chan Reply
	workersDone chan struct{}

	group        errgroup.Group
	shutdownOnce sync.Once
}

// NewWorkerPool starts n workers and one heartbeat goroutine ticking every
// period.
func NewWorkerPool(executor Executor, n int, period time.Duration, logger log.Logger) *WorkerPool {
	if n < 1 {
		n = 1
	}
	if period <= 0 {
		period = DefaultHeartbeat
	}
	p := &WorkerPool{
		executor:    executor,
		log:         logger.New("component", "worker-pool"),
		submit:      make(chan work),
		intake:      make(chan work),
		replies:     make(chan Reply, 2*n+8),
		workersDone: make(chan struct{}),
	}

	var workers errgroup.Group
	for i := 1; i <= n; i++ {
		i := i
		workers.Go(func() error {
			p.work(i)
			return nil
		})
	}

	var ticker errgroup.Group
	ticker.Go(func() error {
		p.heartbeat(period)
		return nil
	})

	p.group.Go(func() error {
		p.dispatch()
		return nil
	})
	p.group.Go(func() error {
		err := workers.Wait()
		close(p.workersDone)
		ticker.Wait()
		close(p.replies)
		return err
	})

	p.log.Debug("Worker pool started", "workers", n, "heartbeat", period)
	return p
}

// Put queues a job. It does not wait for a worker to become available.
// Put must not be called after Shutdown.
func (p *WorkerPool) Put(id int, path string) {
	p.submit <- work{id: id, path: path}
}

// TryReceive returns the next reply if one is ready.
func (p *WorkerPool) TryReceive() (Reply, bool) {
	select {
	case reply, ok := <-p.replies:
		return reply, ok
	default:
		return Reply{}, false
	}
}

// Receive blocks until a reply is available. It returns false once every
// worker has exited and all replies have been consumed.
func (p *WorkerPool) Receive() (Reply, bool) {
	reply, ok := <-p.replies
	return reply, ok
}

// Shutdown stops accepting work. Queued jobs still run; the heartbeat stops
// after the last worker exits.
func (p *WorkerPool) Shutdown() {
	p.shutdownOnce.Do(func() {
		close(p.submit)
	})
}

// Join waits for all pool goroutines to exit. Call Shutdown first and keep
// consuming replies, workers block while the reply buffer is full.
func (p *WorkerPool) Join() {
	_ = p.group.Wait()
	p.log.Debug("Worker pool stopped")
}

// dispatch moves submitted work into the intake channel, buffering without
// bound so that Put never waits on busy workers.
func (p *WorkerPool) dispatch() {
	var queue []work
	submit := p.submit
	for submit != nil || len(queue) > 0 {
		var intake chan work
		var next work
		if len(queue) > 0 {
			intake = p.intake
			next = queue[0]
		}
		select {
		case w, ok := <-submit:
			if !ok {
				submit = nil
				continue
			}
			queue = append(queue, w)
		case intake <- next:
			queue = queue[1:]
		}
	}
	close(p.intake)
}

func (p *WorkerPool) work(worker int) {
	for w := range p.intake {
		p.replies <- Reply{Kind: ReplyStarting, JobID: w.id}
		outcome := p.run(worker, w)
		p.replies <- Reply{Kind: ReplyDone, JobID: w.id, Outcome: outcome}
	}
}

// run invokes the executor, turning a panic into a failed outcome.
func (p *WorkerPool) run(worker int, w work) (outcome domain.Outcome) {
	defer func() {
		if r := recover(); r != nil {
			p.log.Error("Executor panicked", "worker", worker, "job", w.id, "path", w.path, "panic", r)
			outcome = domain.Failed(fmt.Sprintf("panicked in worker %d: %v", worker, r))
		}
	}()
	return p.executor.Run(w.path)
}

func (p *WorkerPool) heartbeat(period time.Duration) {
	ticker := time.NewTicker(period)
	defer ticker.Stop()
	for {
		select {
		case <-p.workersDone:
			return
		case <-ticker.C:
			select {
			case p.replies <- Reply{Kind: ReplyHeartbeat}:
			case <-p.workersDone:
				return
			}
		}
	}
}
