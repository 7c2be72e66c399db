// FILE: lixenwraith/stylecheck/internal/app/progress.go
package app

import (
	"fmt"
	"io"
	"strings"
)

const progressWidth = 28

// progressBar draws a single redrawn line like " 12/40 [========>-------]  30%".
type progressBar struct {
	w       io.Writer
	total   int
	current int
}

func newProgressBar(w io.Writer, total int) *progressBar {
	if w == nil {
		w = io.Discard
	}
	p := &progressBar{w: w, total: total}
	p.draw()
	return p
}

func (p *progressBar) Advance() {
	if p.current < p.total {
		p.current++
	}
	p.draw()
}

func (p *progressBar) Finish() {
	p.current = p.total
	p.draw()
	fmt.Fprintln(p.w)
}

func (p *progressBar) draw() {
	percent := 100
	filled := progressWidth
	if p.total > 0 {
		percent = p.current * 100 / p.total
		filled = p.current * progressWidth / p.total
	}

	bar := strings.Repeat("=", filled)
	if filled < progressWidth {
		bar += ">" + strings.Repeat("-", progressWidth-filled-1)
	}
	digits := len(fmt.Sprint(p.total))
	fmt.Fprintf(p.w, "\r %*d/%d [%s] %3d%%", digits, p.current, p.total, bar, percent)
}
