package noodles

import (
	"io"
	"os"
	"sync"
)

// Output is the interpreter's standard output sink
type Output struct {
	mu sync.Mutex
	w  io.Writer
}

// NewOutput wraps w; a nil writer means os.Stdout
func NewOutput(w io.Writer) *Output {
	if w == nil {
		w = os.Stdout
	}
	return &Output{w: w}
}

// Write implements io.Writer
func (o *Output) Write(p []byte) (int, error) {
	o.mu.Lock()
	defer o.mu.Unlock()
	return o.w.Write(p)
}

// Println writes s followed by a newline
func (o *Output) Println(s string) error {
	_, err := o.Write([]byte(s + "\n"))
	return err
}
