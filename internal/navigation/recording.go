package navigation

import "sync"

// OpKind distinguishes the two navigation operations a handler can perform.
type OpKind string

const (
	OpPush    OpKind = "push"
	OpReplace OpKind = "replace"
)

// Op is one recorded navigation operation.
type Op struct {
	Kind OpKind `json:"kind"`
	Path string `json:"path"`
}

// Recording is a navigator that captures every operation instead of keeping
// stack semantics. A fresh Recording is created per resolve request so the
// caller can see exactly what a dispatch would do to a real stack.
type Recording struct {
	mu  sync.Mutex
	ops []Op
}

// NewRecording creates an empty recording navigator.
func NewRecording() *Recording {
	return &Recording{ops: make([]Op, 0)}
}

func (r *Recording) Push(path string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.ops = append(r.ops, Op{Kind: OpPush, Path: path})
}

func (r *Recording) Replace(path string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.ops = append(r.ops, Op{Kind: OpReplace, Path: path})
}

// Ops returns a copy of the recorded operations in order.
func (r *Recording) Ops() []Op {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]Op, len(r.ops))
	copy(out, r.ops)
	return out
}

// Len returns the number of recorded operations.
func (r *Recording) Len() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.ops)
}
