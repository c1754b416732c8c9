// Package expreplay implements a bounded experience replay memory that
// stores a stream of environment frames and samples mini-batches of
// stacked states from it.
//
// The memory stores each frame only once. States are rebuilt at sampling
// time by stacking historyLength consecutive frames, and windows that
// would splice together frames from two different episodes, or the
// newest and oldest data around the write cursor, are rejected and
// redrawn.
package expreplay

import (
	"fmt"

	"github.com/samuelfneumann/godqn/agent"
	"github.com/samuelfneumann/godqn/utils/matutils"
	"gonum.org/v1/gonum/mat"
)

// MaxResampleAttempts is the number of draws made for a single batch
// element before sampling gives up with ErrWindowExhausted
const MaxResampleAttempts = 1000

// Transition is a single stored environment step: the frame that was
// observed, the action that led to it, the (clipped) reward received
// and whether the frame is the last of its episode.
type Transition struct {
	Observation *mat.Dense
	Action      int
	Reward      float64
	Terminal    bool
}

// Memory implements a circular experience replay buffer. Once the
// buffer is full, each new transition overwrites the oldest one.
//
// A Memory is not safe for concurrent use.
type Memory struct {
	frameCache    []float64
	actionCache   []int
	rewardCache   []float64
	terminalCache []bool

	// current is the slot the next transition will be written to
	current int
	count   int

	capacity      int
	historyLength int
	rows, cols    int
	frameSize     int
	batchSize     int

	seed    uint64
	sampler Selector
}

// New returns a new Memory that holds at most capacity transitions of
// frames with shape (rows, cols). States sampled from the memory stack
// historyLength consecutive frames and Sample returns batchSize of them.
func New(capacity, historyLength, rows, cols, batchSize int,
	seed uint64) (*Memory, error) {
	if historyLength < 1 {
		return nil, fmt.Errorf("new: history length must be positive "+
			"\n\twant(>0) \n\thave(%v)", historyLength)
	}
	if capacity < historyLength {
		return nil, fmt.Errorf("new: capacity cannot be smaller than the "+
			"history length \n\twant(>=%v) \n\thave(%v)", historyLength,
			capacity)
	}
	if rows < 1 || cols < 1 {
		return nil, fmt.Errorf("new: invalid frame shape (%v, %v)", rows,
			cols)
	}
	if batchSize < 1 {
		return nil, fmt.Errorf("new: batch size must be positive "+
			"\n\twant(>0) \n\thave(%v)", batchSize)
	}

	frameSize := rows * cols
	return &Memory{
		frameCache:    make([]float64, capacity*frameSize),
		actionCache:   make([]int, capacity),
		rewardCache:   make([]float64, capacity),
		terminalCache: make([]bool, capacity),

		capacity:      capacity,
		historyLength: historyLength,
		rows:          rows,
		cols:          cols,
		frameSize:     frameSize,
		batchSize:     batchSize,

		seed:    seed,
		sampler: NewUniformSelector(seed),
	}, nil
}

// String returns the string representation of the Memory
func (m *Memory) String() string {
	baseStr := "Memory | Count: %v  |  Capacity: %v  |  Cursor: %v  |  " +
		"History: %v"
	return fmt.Sprintf(baseStr, m.count, m.capacity, m.current,
		m.historyLength)
}

// Count returns the number of transitions currently stored
func (m *Memory) Count() int {
	return m.count
}

// Capacity returns the maximum number of transitions that can be stored
func (m *Memory) Capacity() int {
	return m.capacity
}

// HistoryLength returns the number of frames stacked into one state
func (m *Memory) HistoryLength() int {
	return m.historyLength
}

// BatchSize returns the number of samples returned by Sample()
func (m *Memory) BatchSize() int {
	return m.batchSize
}

// FrameShape returns the shape of the frames stored in the memory
func (m *Memory) FrameShape() (rows, cols int) {
	return m.rows, m.cols
}

// StateSize returns the number of elements in a single stacked state
func (m *Memory) StateSize() int {
	return m.historyLength * m.frameSize
}

// Add adds a transition to the memory, overwriting the oldest stored
// transition if the memory is full. The frame is copied. Add panics if
// the frame does not have the shape the memory was created with.
func (m *Memory) Add(frame *mat.Dense, reward float64, action int,
	terminal bool) {
	r, c := frame.Dims()
	if r != m.rows || c != m.cols {
		panic(fmt.Sprintf("add: invalid frame shape\n\twant(%v, %v)"+
			"\n\thave(%v, %v)", m.rows, m.cols, r, c))
	}

	start := m.current * m.frameSize
	matutils.FlattenInto(m.frameCache[start:start+m.frameSize], frame)
	m.actionCache[m.current] = action
	m.rewardCache[m.current] = reward
	m.terminalCache[m.current] = terminal

	if m.count < m.capacity {
		m.count++
	}
	m.current = (m.current + 1) % m.capacity
}

// At returns a copy of the i-th oldest transition in the memory
func (m *Memory) At(i int) Transition {
	if i < 0 || i >= m.count {
		panic(fmt.Sprintf("at: index %v out of range [0, %v)", i, m.count))
	}

	start := 0
	if m.count == m.capacity {
		start = m.current
	}
	index := (start + i) % m.capacity

	frame := make([]float64, m.frameSize)
	copy(frame, m.frameCache[index*m.frameSize:(index+1)*m.frameSize])

	return Transition{
		Observation: mat.NewDense(m.rows, m.cols, frame),
		Action:      m.actionCache[index],
		Reward:      m.rewardCache[index],
		Terminal:    m.terminalCache[index],
	}
}

// Sample samples and returns a batch of BatchSize() transitions
func (m *Memory) Sample() (agent.Batch, error) {
	return m.SampleN(m.batchSize)
}

// SampleN samples and returns a batch of n transitions. Each element of
// the batch is drawn independently and uniformly from the valid state
// windows in the memory.
//
// For a drawn index i, the state is made of the frames at slots
// [i-historyLength, i-1] and the next state of those at
// [i-historyLength+1, i]. The action, reward, and terminal signal are
// those stored with frame i, that is, the action which produced frame i.
func (m *Memory) SampleN(n int) (agent.Batch, error) {
	if n < 1 {
		return agent.Batch{}, &ExpReplayError{
			Op:  "sample",
			Err: fmt.Errorf("batch size must be positive \n\twant(>0) "+
				"\n\thave(%v)", n),
		}
	}
	if m.count <= m.historyLength {
		err := &ExpReplayError{
			Op:  "sample",
			Err: ErrInsufficientSamples,
		}
		return agent.Batch{}, err
	}

	stateSize := m.StateSize()
	states := mat.NewDense(n, stateSize, nil)
	nextStates := mat.NewDense(n, stateSize, nil)
	actions := make([]int, n)
	rewards := make([]float64, n)
	terminals := make([]bool, n)

	for i := 0; i < n; i++ {
		index, err := m.draw()
		if err != nil {
			return agent.Batch{}, err
		}

		m.stateInto(states.RawRowView(i), index-1)
		m.stateInto(nextStates.RawRowView(i), index)
		actions[i] = m.actionCache[index]
		rewards[i] = m.rewardCache[index]
		terminals[i] = m.terminalCache[index]
	}

	return agent.Batch{
		States:     states,
		Actions:    actions,
		Rewards:    rewards,
		NextStates: nextStates,
		Terminals:  terminals,
	}, nil
}

// draw draws an index i such that the frames [i-historyLength, i] are
// contiguous in time and belong to a single episode
func (m *Memory) draw() (int, error) {
	for attempt := 0; attempt < MaxResampleAttempts; attempt++ {
		index := m.sampler.choose(m.historyLength, m.count)

		// The window would contain both the newest and the oldest data
		if index >= m.current && index-m.historyLength < m.current {
			continue
		}

		// A terminal frame before the last frame of the next state means
		// the window crosses an episode boundary
		if m.anyTerminal(index-m.historyLength, index) {
			continue
		}

		return index, nil
	}

	return 0, &ExpReplayError{Op: "sample", Err: ErrWindowExhausted}
}

// anyTerminal returns whether any of the slots in [low, high) holds a
// terminal transition
func (m *Memory) anyTerminal(low, high int) bool {
	for _, terminal := range m.terminalCache[low:high] {
		if terminal {
			return true
		}
	}
	return false
}

// stateInto copies the historyLength frames ending at slot last into
// dst, oldest first. The slots must not wrap around the buffer.
func (m *Memory) stateInto(dst []float64, last int) {
	first := last - m.historyLength + 1
	copy(dst, m.frameCache[first*m.frameSize:(last+1)*m.frameSize])
}
