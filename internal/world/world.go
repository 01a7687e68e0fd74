// Package world defines the collective transport adapter the
// de-replication engine runs over (SPEC_FULL.md §4.5): a fixed-size,
// ranked, point-to-point message-passing world, in the spirit of the
// reference system's MPI_COMM_WORLD. The engine is written against the
// World interface alone; this package's Local type is the one concrete
// adapter shipped in this repo, simulating the ranked world with
// goroutines and channels inside a single process.
package world

import "context"

// World is the capability interface the engine requires of its
// transport. Any conforming implementation suffices; a real MPI-backed
// adapter would satisfy the same interface.
type World interface {
	// Rank returns this participant's rank, fixed at construction.
	Rank() int
	// Size returns the total number of ranks in the world, fixed at
	// construction.
	Size() int
	// Send blocks until data has been handed to dest. Delivery between
	// any (src, dest) pair is reliable and FIFO.
	Send(dest int, data []byte) error
	// Recv blocks until the next pending send from src is available,
	// and returns its payload.
	Recv(src int) ([]byte, error)
	// Abort terminates the entire world; every rank's in-flight Send or
	// Recv unblocks with an error.
	Abort(reason error)
}

// message is one payload in flight between a given (src, dest) pair.
type message struct {
	data []byte
}

// Local is a World that runs size simulated ranks as goroutines within
// one OS process, communicating over per-(src,dst) buffered channels.
// Each handle returned by the ranks of a single Local world shares the
// same underlying links and abort signal.
type Local struct {
	rank  int
	size  int
	links [][]chan message // links[src][dst]
	ctx   context.Context
	abort context.CancelFunc
	err   *abortErr
}

// abortErr carries the reason the world was aborted, shared by every
// rank's handle onto the same Local world.
type abortErr struct {
	reason error
}

// NewLocalWorld constructs size Local handles, one per rank, sharing a
// common set of channels and a common abort signal. Callers typically
// run each handle's rank-local work in its own goroutine (the bundled
// cmd/pipeclust CLI does this via golang.org/x/sync/errgroup).
func NewLocalWorld(ctx context.Context, size int) []*Local {
	ctx, cancel := context.WithCancel(ctx)
	links := make([][]chan message, size)
	for i := range links {
		links[i] = make([]chan message, size)
		for j := range links[i] {
			// Buffered so Send does not require its matching Recv to
			// already be waiting, matching MPI's asynchronous sends for
			// small messages.
			links[i][j] = make(chan message, 4)
		}
	}
	shared := &abortErr{}
	worlds := make([]*Local, size)
	for r := 0; r < size; r++ {
		worlds[r] = &Local{
			rank:  r,
			size:  size,
			links: links,
			ctx:   ctx,
			abort: cancel,
			err:   shared,
		}
	}
	return worlds
}

func (l *Local) Rank() int { return l.rank }
func (l *Local) Size() int { return l.size }

func (l *Local) Send(dest int, data []byte) error {
	payload := append([]byte(nil), data...)
	select {
	case l.links[l.rank][dest] <- message{data: payload}:
		return nil
	case <-l.ctx.Done():
		return l.abortedErr()
	}
}

func (l *Local) Recv(src int) ([]byte, error) {
	select {
	case m := <-l.links[src][l.rank]:
		return m.data, nil
	case <-l.ctx.Done():
		return nil, l.abortedErr()
	}
}

func (l *Local) Abort(reason error) {
	l.err.reason = reason
	l.abort()
}

func (l *Local) abortedErr() error {
	if l.err.reason != nil {
		return l.err.reason
	}
	return l.ctx.Err()
}
