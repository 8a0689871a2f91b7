// Package progress provides a really simple progress bar for bulk
// table summaries.
package progress

import (
	"github.com/schollz/progressbar/v3"
)

type Bar struct {
	pb          *progressbar.ProgressBar
	description string
	maxItems    int
}

func NewBar(description string, maxItems int) *Bar {
	pb := progressbar.Default(int64(maxItems), description)
	_ = pb.Set(0)

	return &Bar{
		pb:          pb,
		description: description,
		maxItems:    maxItems,
	}
}

func (b *Bar) Inc() {
	_ = b.pb.Add(1)
}

func (b *Bar) Finish() {
	_ = b.pb.Finish()
	_ = b.pb.Close()
}
