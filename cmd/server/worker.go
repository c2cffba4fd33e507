package main

import (
	"log"
	"sync"

	"github.com/marben/mandel/render"
)

// jobTracker counts the renders in flight, like a pool of busy workers.
type jobTracker struct {
	m      sync.Mutex
	nextID int
	active int
}

// renderJob follows the progress of one render as its bands finish.
type renderJob struct {
	tracker *jobTracker
	id      int
	params  render.Params

	m            sync.Mutex
	finishedRows int
}

func (jt *jobTracker) start(p render.Params) *renderJob {
	jt.m.Lock()
	jt.nextID++
	jt.active++
	id, active := jt.nextID, jt.active
	jt.m.Unlock()

	log.Printf("job %d: %v of %v, limit %d, workers %d (renders: %d)",
		id, p.Bounds, p.Viewport, p.Limit, p.Workers, active)
	return &renderJob{tracker: jt, id: id, params: p}
}

func (jt *jobTracker) Active() int {
	jt.m.Lock()
	defer jt.m.Unlock()
	return jt.active
}

// finished returns the fraction of rows done.
func (j *renderJob) finished() float32 {
	j.m.Lock()
	defer j.m.Unlock()
	return float32(j.finishedRows) / float32(j.params.Bounds.Height)
}

// bandFinished is registered with render.WithBandDone, so it runs on the
// worker goroutines.
func (j *renderJob) bandFinished(b render.Band) {
	j.m.Lock()
	j.finishedRows += b.Rows()
	j.m.Unlock()

	log.Printf("job %d finished: %f", j.id, j.finished())
}

// end must be called once the render returned, successfully or not.
func (j *renderJob) end(err error) {
	j.tracker.m.Lock()
	j.tracker.active--
	active := j.tracker.active
	j.tracker.m.Unlock()

	if err != nil {
		log.Printf("job %d failed: %v (renders: %d)", j.id, err, active)
		return
	}
	log.Printf("job %d done (renders: %d)", j.id, active)
}
