// Package engineservice is a worker-adapter: it turns the synchronous
// molsurf.VDW/SAS/SES/MS call into a request/response channel API, so a
// caller that wants off-thread dispatch gets a thin wrapper rather than
// the engine growing concurrency of its own.
//
// Work is queued onto a fixed pool of worker goroutines and drained with
// a graceful Shutdown.
package engineservice

import (
	"context"
	"sync"

	"github.com/molsurf/molsurf/pkg/molsurf"
)

// Kind selects which surface a Request computes: vdw, sas, ses, or ms.
type Kind int

const (
	VDW Kind = iota
	SAS
	SES
	MS
)

// Request is one unit of work submitted to a Pool.
type Request struct {
	Kind       Kind
	Atoms      []molsurf.Atom
	Options    molsurf.Options
	ResultChan chan Response
}

// Response is either {ok:true, positions, normals, indices, atomIndex}
// or {ok:false, error}.
type Response struct {
	OK        bool
	Positions []float32
	Normals   []float32
	Indices   []uint32
	AtomIndex []uint32
	Err       error
}

// Pool runs Requests across a fixed number of worker goroutines.
type Pool struct {
	jobQueue chan Request
	ctx      context.Context
	cancel   context.CancelFunc
	wg       sync.WaitGroup
}

// NewPool starts a Pool with the given worker count and queue capacity.
func NewPool(workers, queueSize int) *Pool {
	ctx, cancel := context.WithCancel(context.Background())
	p := &Pool{
		jobQueue: make(chan Request, queueSize),
		ctx:      ctx,
		cancel:   cancel,
	}
	for i := 0; i < workers; i++ {
		p.wg.Add(1)
		go p.worker()
	}
	return p
}

// Submit enqueues req without blocking, returning false if the queue is
// full.
func (p *Pool) Submit(req Request) bool {
	select {
	case p.jobQueue <- req:
		return true
	default:
		return false
	}
}

// SubmitBlocking enqueues req, blocking until there's room or the pool is
// shut down.
func (p *Pool) SubmitBlocking(req Request) {
	select {
	case p.jobQueue <- req:
	case <-p.ctx.Done():
	}
}

func (p *Pool) worker() {
	defer p.wg.Done()
	for {
		select {
		case req := <-p.jobQueue:
			resp := compute(req)
			select {
			case req.ResultChan <- resp:
			case <-p.ctx.Done():
				return
			}
		case <-p.ctx.Done():
			return
		}
	}
}

func compute(req Request) Response {
	var (
		mesh *molsurf.Mesh
		err  error
	)
	switch req.Kind {
	case VDW:
		mesh, err = molsurf.VDW(req.Atoms, req.Options)
	case SAS:
		mesh, err = molsurf.SAS(req.Atoms, req.Options)
	case SES:
		mesh, err = molsurf.SES(req.Atoms, req.Options)
	case MS:
		mesh, err = molsurf.MS(req.Atoms, req.Options)
	}
	if err != nil {
		return Response{OK: false, Err: err}
	}
	return Response{
		OK:        true,
		Positions: mesh.Positions,
		Normals:   mesh.Normals,
		Indices:   mesh.Indices,
		AtomIndex: mesh.AtomIndex,
	}
}

// Shutdown cancels in-flight waits and blocks until all workers exit.
func (p *Pool) Shutdown() {
	p.cancel()
	p.wg.Wait()
}
