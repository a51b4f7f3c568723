// Package report turns training output into something a person can read:
// a live progress line, an HTML reward chart and a colored Q-table dump.
package report

import (
	"fmt"
	"io"
	"sync"

	"github.com/gosuri/uilive"

	"github.com/vovakirdan/arcade-gym/internal/qlearn"
)

// Progress is a qlearn.Observer that keeps one live-updating status line.
type Progress struct {
	mu     sync.Mutex
	w      *uilive.Writer
	total  int
	seen   int
	best   float64
	sum    float64
	closed bool
}

var _ qlearn.Observer = (*Progress)(nil)

// NewProgress starts a live writer on out for a run of total episodes.
func NewProgress(out io.Writer, total int) *Progress {
	w := uilive.New()
	w.Out = out
	w.Start()
	return &Progress{w: w, total: total}
}

// OnEpisode updates the status line.
func (p *Progress) OnEpisode(s qlearn.EpisodeStats) {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.closed {
		return
	}
	if p.seen == 0 || s.Reward > p.best {
		p.best = s.Reward
	}
	p.seen++
	p.sum += s.Reward
	fmt.Fprintf(p.w, "episode %d/%d  reward %.2f  mean %.2f  best %.2f  epsilon %.3f\n",
		s.Episode+1, p.total, s.Reward, p.sum/float64(p.seen), p.best, s.Epsilon)
}

// Close flushes the last line and stops the writer.
func (p *Progress) Close() {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.closed {
		return
	}
	p.closed = true
	p.w.Stop()
}
