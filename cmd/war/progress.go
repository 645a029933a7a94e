package main

import (
	"fmt"
	"io"
	"sync"
	"time"
)

// progressDots prints a fixed-width row of dots as games complete, without
// redrawing the line.
type progressDots struct {
	mu          sync.Mutex
	w           io.Writer
	dotsTotal   int
	dotsPrinted int
	finished    bool
	startTime   time.Time
}

func newProgressDots(w io.Writer) *progressDots {
	return &progressDots{w: w, dotsTotal: 40, startTime: time.Now()}
}

// Update is safe to call from several goroutines
func (p *progressDots) Update(done, total int) {
	p.mu.Lock()
	defer p.mu.Unlock()

	if total <= 0 {
		total = 1
	}
	pct := min(done*100/total, 100)
	target := pct * p.dotsTotal / 100

	for ; p.dotsPrinted < target; p.dotsPrinted++ {
		fmt.Fprint(p.w, ".")
	}
	if done >= total && !p.finished {
		p.finished = true
		fmt.Fprintf(p.w, " %d games in %.1fs\n", total, time.Since(p.startTime).Seconds())
	}
}
