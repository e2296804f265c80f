package display

import (
	"io"
	"sync"
	"time"

	"github.com/schollz/progressbar/v3"
)

// HashProgress draws a progress bar while files are hashed
type HashProgress struct {
	writer  io.Writer
	enabled bool

	mu   sync.Mutex
	bar  *progressbar.ProgressBar
	last int
}

// NewHashProgress creates a progress renderer writing to w.
// When enabled is false every method is a no-op.
func NewHashProgress(w io.Writer, enabled bool) *HashProgress {
	return &HashProgress{
		writer:  w,
		enabled: enabled && w != nil,
	}
}

// Update matches finder.ProgressFunc. The bar is created on the first call,
// once the total is known.
func (p *HashProgress) Update(done, total int) {
	if !p.enabled || total <= 0 {
		return
	}

	p.mu.Lock()
	defer p.mu.Unlock()

	if p.bar == nil {
		p.bar = progressbar.NewOptions(total,
			progressbar.OptionSetWriter(p.writer),
			progressbar.OptionShowCount(),
			progressbar.OptionSetWidth(15),
			progressbar.OptionSetDescription("Hashing files..."),
			progressbar.OptionShowElapsedTimeOnFinish(),
			progressbar.OptionThrottle(65*time.Millisecond),
			progressbar.OptionOnCompletion(func() {
				io.WriteString(p.writer, "\n")
			}),
		)
	}

	if done < p.last {
		return
	}
	p.last = done
	p.bar.Set(done)
}

// Finish completes the bar if one was drawn.
func (p *HashProgress) Finish() {
	p.mu.Lock()
	defer p.mu.Unlock()

	if p.bar != nil && !p.bar.IsFinished() {
		p.bar.Finish()
	}
}
