package model

import (
	"io"
	"time"

	pb "gopkg.in/cheggaaa/pb.v1"
)

// progress is a training progress bar that does nothing when no output is set.
type progress struct {
	bar *pb.ProgressBar
}

func newProgress(w io.Writer, total int, prefix string) progress {
	if w == nil || total <= 0 {
		return progress{}
	}
	bar := pb.New(total)
	bar.Output = w
	bar.SetRefreshRate(time.Second)
	bar.SetMaxWidth(80)
	bar.Prefix(prefix)
	bar.Start()
	return progress{bar: bar}
}

func (p progress) increment() {
	if p.bar != nil {
		p.bar.Increment()
	}
}

func (p progress) finish() {
	if p.bar != nil {
		p.bar.Finish()
	}
}
