// Package history implements a fixed-length sliding window over the most
// recent environment frames. The window is used to build the stacked
// state that an agent selects actions with.
package history

import (
	"fmt"

	"github.com/samuelfneumann/godqn/utils/matutils"
	"gonum.org/v1/gonum/mat"
)

// History stores the last Len() frames seen, oldest first. Frames are
// copied into a single pre-allocated ring, so adding a frame never
// allocates and never aliases the caller's data.
type History struct {
	frames    []float64
	length    int
	rows      int
	cols      int
	frameSize int

	// oldest is the ring position of the oldest frame in the window
	oldest int
}

// New returns a new History holding length frames of shape (rows, cols).
// All frames are initially zero; call Reset at the start of each episode.
func New(length, rows, cols int) (*History, error) {
	if length < 1 {
		return nil, fmt.Errorf("new: history length must be positive "+
			"\n\twant(>0) \n\thave(%v)", length)
	}
	if rows < 1 || cols < 1 {
		return nil, fmt.Errorf("new: invalid frame shape (%v, %v)", rows,
			cols)
	}

	return &History{
		frames:    make([]float64, length*rows*cols),
		length:    length,
		rows:      rows,
		cols:      cols,
		frameSize: rows * cols,
	}, nil
}

// Len returns the number of frames in the window
func (h *History) Len() int {
	return h.length
}

// FrameSize returns the number of elements in a single frame
func (h *History) FrameSize() int {
	return h.frameSize
}

// StateSize returns the number of elements in the stacked state returned
// by Get
func (h *History) StateSize() int {
	return h.length * h.frameSize
}

// Add appends frame to the window, evicting the oldest frame
func (h *History) Add(frame *mat.Dense) {
	h.checkShape(frame)

	start := h.oldest * h.frameSize
	matutils.FlattenInto(h.frames[start:start+h.frameSize], frame)
	h.oldest = (h.oldest + 1) % h.length
}

// Reset fills the entire window with frame
func (h *History) Reset(frame *mat.Dense) {
	h.checkShape(frame)

	matutils.FlattenInto(h.frames[:h.frameSize], frame)
	for i := 1; i < h.length; i++ {
		copy(h.frames[i*h.frameSize:(i+1)*h.frameSize], h.frames[:h.frameSize])
	}
	h.oldest = 0
}

// Get returns a copy of the window as a single stacked state, oldest
// frame first. Get does not modify the window.
func (h *History) Get() []float64 {
	state := make([]float64, h.StateSize())

	// The ring is [oldest, ..., end) followed by [0, oldest)
	split := h.oldest * h.frameSize
	n := copy(state, h.frames[split:])
	copy(state[n:], h.frames[:split])

	return state
}

// checkShape panics if frame does not have the shape of the frames in
// the window
func (h *History) checkShape(frame *mat.Dense) {
	r, c := frame.Dims()
	if r != h.rows || c != h.cols {
		panic(fmt.Sprintf("history: invalid frame shape\n\twant(%v, %v)"+
			"\n\thave(%v, %v)", h.rows, h.cols, r, c))
	}
}
