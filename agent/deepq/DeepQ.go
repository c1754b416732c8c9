// Package deepq implements the deep Q-learning algorithm with
// experience replay and a frozen target action-value function.
//
// A DeepQ agent is driven by a single monotonically increasing step
// counter. The counter decides the exploration rate and when learning,
// target synchronization, reporting, and checkpointing happen.
package deepq

import (
	"errors"
	"fmt"
	"io"
	"log"
	"math"
	"os"

	"github.com/samuelfneumann/godqn/agent"
	"github.com/samuelfneumann/godqn/experiment/checkpointer"
	"github.com/samuelfneumann/godqn/experiment/tracker"
	"github.com/samuelfneumann/godqn/exploration"
	"github.com/samuelfneumann/godqn/expreplay"
	"github.com/samuelfneumann/godqn/history"
	"github.com/samuelfneumann/godqn/utils/floatutils"
	"github.com/samuelfneumann/godqn/utils/matutils"
	"golang.org/x/exp/rand"
	"gonum.org/v1/gonum/mat"
)

// Phase is the phase of training an agent is in
type Phase int

const (
	// Warmup is the phase in which the agent only acts and fills its
	// replay memory
	Warmup Phase = iota

	// Training is the phase in which the agent also learns, synchronizes
	// its target, reports, and checkpoints
	Training
)

func (p Phase) String() string {
	switch p {
	case Warmup:
		return "Warmup"
	case Training:
		return "Training"
	}
	return fmt.Sprintf("Phase(%d)", int(p))
}

// DeepQ implements the deep Q-learning algorithm. A DeepQ owns its
// replay memory and is not safe for concurrent use.
type DeepQ struct {
	config     Config
	q          agent.QFunction
	numActions int
	rows, cols int

	memory      *expreplay.Memory
	history     *history.History // Training history
	evalHistory *history.History // Evaluation history
	schedule    exploration.LinearDecay
	rng         *rand.Rand

	step int

	// Window accumulators, reset after each report
	totalReward float64
	totalLoss   float64
	totalQ      float64
	updateCount int

	// Episode accumulators. The min and max episodic rewards are NaN
	// until an episode finishes in the window.
	episodeReward float64
	minEpReward   float64
	maxEpReward   float64
	numGames      int

	runID           string
	logger          *log.Logger
	tracker         tracker.Tracker
	memCheckpointer *checkpointer.Checkpointer
	progressOut     io.Writer
}

// Option configures optional collaborators of a DeepQ agent
type Option func(*DeepQ)

// WithLogger sets the logger warnings are written to
func WithLogger(l *log.Logger) Option {
	return func(d *DeepQ) {
		d.logger = l
	}
}

// WithTrackers registers Trackers that receive the periodic reports
func WithTrackers(t ...tracker.Tracker) Option {
	return func(d *DeepQ) {
		d.tracker = tracker.Register(append([]tracker.Tracker{d.tracker},
			t...)...)
	}
}

// WithRunID sets the run ID stamped on each report
func WithRunID(id string) Option {
	return func(d *DeepQ) {
		d.runID = id
	}
}

// WithMemoryCheckpointer sets the Checkpointer the replay memory is
// saved with when Config.SaveMemory is set
func WithMemoryCheckpointer(c *checkpointer.Checkpointer) Option {
	return func(d *DeepQ) {
		d.memCheckpointer = c
	}
}

// WithProgressOutput sets where the progress bar is drawn
func WithProgressOutput(w io.Writer) Option {
	return func(d *DeepQ) {
		d.progressOut = w
	}
}

// New creates and returns a new DeepQ agent which learns q in an
// environment with numActions actions and frames of shape (rows, cols)
func New(c Config, q agent.QFunction, numActions, rows, cols int,
	opts ...Option) (*DeepQ, error) {
	if err := c.Validate(); err != nil {
		return nil, err
	}
	if q == nil {
		return nil, fmt.Errorf("new: an action-value function is required")
	}
	if numActions < 1 {
		return nil, fmt.Errorf("new: number of actions must be positive "+
			"\n\twant(>0) \n\thave(%v)", numActions)
	}

	memory, err := expreplay.New(c.MemoryCapacity, c.HistoryLength, rows,
		cols, c.BatchSize, c.Seed)
	if err != nil {
		return nil, fmt.Errorf("new: could not create replay memory: %w", err)
	}
	hist, err := history.New(c.HistoryLength, rows, cols)
	if err != nil {
		return nil, fmt.Errorf("new: could not create history: %w", err)
	}
	evalHist, err := history.New(c.HistoryLength, rows, cols)
	if err != nil {
		return nil, fmt.Errorf("new: could not create history: %w", err)
	}

	d := &DeepQ{
		config:     c,
		q:          q,
		numActions: numActions,
		rows:       rows,
		cols:       cols,

		memory:      memory,
		history:     hist,
		evalHistory: evalHist,
		schedule:    c.Schedule(),
		rng:         rand.New(rand.NewSource(c.Seed)),

		logger:      log.New(os.Stderr, "deepq: ", log.LstdFlags),
		progressOut: os.Stderr,
	}
	d.resetWindow()

	for _, opt := range opts {
		opt(d)
	}
	return d, nil
}

// Config returns the configuration of the agent
func (d *DeepQ) Config() Config {
	return d.config
}

// Step returns the current value of the step counter
func (d *DeepQ) Step() int {
	return d.step
}

// Phase returns the phase of training at the current step
func (d *DeepQ) Phase() Phase {
	if d.step > d.config.LearnStart {
		return Training
	}
	return Warmup
}

// Epsilon returns the exploration rate at the current step
func (d *DeepQ) Epsilon() float64 {
	return d.schedule.Epsilon(d.step)
}

// Memory returns the replay memory of the agent
func (d *DeepQ) Memory() *expreplay.Memory {
	return d.memory
}

// Perceive observes the frame obs reached by taking action and
// receiving reward, stores the transition, and returns the next action
// to take. When in the Training phase, Perceive also performs the
// periodic learning steps and target synchronizations.
//
// The action argument is only recorded in the replay memory; the first
// frame of an episode should be perceived with action 0 and reward 0.
func (d *DeepQ) Perceive(obs *mat.Dense, reward float64, action int,
	terminal bool) (int, error) {
	reward = floatutils.Clip(reward, d.config.MinReward, d.config.MaxReward)
	d.memory.Add(obs, reward, action, terminal)
	d.history.Add(obs)

	next, err := d.selectAction(d.history, d.Epsilon())
	if err != nil {
		return 0, fmt.Errorf("perceive: %w", err)
	}

	if d.Phase() == Training {
		if d.step%d.config.TrainFrequency == 0 {
			if err := d.learn(); err != nil {
				return 0, fmt.Errorf("perceive: %w", err)
			}
		}

		if d.step%d.config.TargetUpdateStep == d.config.TargetUpdateStep-1 {
			if err := d.q.SyncTarget(); err != nil {
				return 0, fmt.Errorf("perceive: target sync: %w", err)
			}
		}
	}

	return next, nil
}

// PerceiveEval observes the frame obs during evaluation and returns the
// next action, chosen epsilon-greedily with the given epsilon. Nothing
// is stored and nothing is learned. Evaluation uses its own history,
// which Play resets at the start of each episode.
func (d *DeepQ) PerceiveEval(obs *mat.Dense, _ float64, _ int, _ bool,
	epsilon float64) (int, error) {
	d.evalHistory.Add(obs)

	next, err := d.selectAction(d.evalHistory, epsilon)
	if err != nil {
		return 0, fmt.Errorf("perceiveEval: %w", err)
	}
	return next, nil
}

// selectAction selects an action epsilon-greedily with respect to the
// online action-value function in the state stored in h. Ties are
// broken towards the lowest action.
func (d *DeepQ) selectAction(h *history.History, epsilon float64) (int,
	error) {
	if d.rng.Float64() < epsilon {
		return d.rng.Intn(d.numActions), nil
	}

	values, err := d.q.Predict(h.Get())
	if err != nil {
		return 0, fmt.Errorf("predict: %w", err)
	}
	if len(values) != d.numActions {
		return 0, fmt.Errorf("predict: invalid number of action values "+
			"\n\twant(%v) \n\thave(%v)", d.numActions, len(values))
	}

	return floatutils.ArgMax(values), nil
}

// learn performs a single learning step on a mini-batch sampled from
// the replay memory. If the memory cannot yet produce a batch, learn
// does nothing.
func (d *DeepQ) learn() error {
	if d.memory.Count() < d.config.HistoryLength {
		return nil
	}

	batch, err := d.memory.Sample()
	if expreplay.IsWindowExhausted(err) {
		d.logger.Printf("learn: skipping update at step %v: %v", d.step, err)
		return nil
	} else if expreplay.IsInsufficientSamples(err) {
		return nil
	} else if err != nil {
		return fmt.Errorf("learn: sample: %w", err)
	}

	qNext, err := d.q.TargetPredict(batch.NextStates)
	if err != nil {
		return fmt.Errorf("learn: target predict: %w", err)
	}
	if r, c := qNext.Dims(); r != batch.Len() || c != d.numActions {
		return fmt.Errorf("learn: invalid target prediction shape "+
			"\n\twant(%v, %v) \n\thave(%v, %v)", batch.Len(), d.numActions,
			r, c)
	}
	maxQNext := matutils.RowMax(qNext)

	// target = (1 - terminal) * γ * max[Q(s', a')] + r
	targets := make([]float64, batch.Len())
	for i := range targets {
		if batch.Terminals[i] {
			targets[i] = batch.Rewards[i]
			continue
		}
		targets[i] = d.config.Discount*maxQNext[i] + batch.Rewards[i]
	}

	loss, err := d.q.TrainStep(batch.States, batch.Actions, targets)
	if err != nil {
		return fmt.Errorf("learn: train step: %w", err)
	}

	d.totalLoss += loss
	d.totalQ += matutils.Mean(qNext)
	d.updateCount++
	return nil
}

// endEpisode folds the reward of the episode that just ended into the
// window statistics
func (d *DeepQ) endEpisode() {
	if d.numGames == 0 {
		d.minEpReward, d.maxEpReward = d.episodeReward, d.episodeReward
	} else {
		d.minEpReward = math.Min(d.minEpReward, d.episodeReward)
		d.maxEpReward = math.Max(d.maxEpReward, d.episodeReward)
	}
	d.numGames++
	d.episodeReward = 0
}

// report returns the report of the current window
func (d *DeepQ) report() tracker.Report {
	r := tracker.Report{
		RunID:       d.runID,
		Step:        d.step,
		Epsilon:     d.Epsilon(),
		AvgReward:   d.totalReward / float64(d.config.TestStep),
		AvgLoss:     math.NaN(),
		AvgQ:        math.NaN(),
		MaxEpReward: d.maxEpReward,
		MinEpReward: d.minEpReward,
		NumGames:    d.numGames,
		Updates:     d.updateCount,
	}

	if d.updateCount > 0 {
		r.AvgLoss = d.totalLoss / float64(d.updateCount)
		r.AvgQ = d.totalQ / float64(d.updateCount)
	}
	return r
}

// resetWindow resets the window and episode statistics. The reward of
// the episode in progress is kept.
func (d *DeepQ) resetWindow() {
	d.totalReward = 0
	d.totalLoss = 0
	d.totalQ = 0
	d.updateCount = 0

	d.numGames = 0
	d.minEpReward = math.NaN()
	d.maxEpReward = math.NaN()
}

// checkpoint saves the action-value function, and the replay memory if
// configured, so that training resumes at step
func (d *DeepQ) checkpoint(step int) error {
	if err := d.q.Save(step); err != nil {
		return fmt.Errorf("checkpoint: %w", err)
	}

	if d.config.SaveMemory && d.memCheckpointer != nil {
		if err := d.memCheckpointer.Save(step, d.memory); err != nil {
			return fmt.Errorf("checkpoint: replay memory: %w", err)
		}
	}
	return nil
}

// restoreMemory restores the replay memory saved at step, if one was
// saved. A memory saved at another step or with another geometry is
// ignored with a warning.
func (d *DeepQ) restoreMemory(step int) error {
	if !d.config.SaveMemory || d.memCheckpointer == nil || step == 0 {
		return nil
	}

	mem := &expreplay.Memory{}
	saved, err := d.memCheckpointer.Latest(mem)
	if errors.Is(err, checkpointer.ErrNoCheckpoint) {
		return nil
	} else if err != nil {
		return fmt.Errorf("restoreMemory: %w", err)
	}

	if saved != step {
		d.logger.Printf("restoreMemory: ignoring replay memory saved at "+
			"step %v, resuming at step %v", saved, step)
		return nil
	}
	rows, cols := mem.FrameShape()
	if mem.Capacity() != d.memory.Capacity() ||
		mem.HistoryLength() != d.memory.HistoryLength() ||
		mem.BatchSize() != d.memory.BatchSize() ||
		rows != d.rows || cols != d.cols {
		d.logger.Printf("restoreMemory: ignoring replay memory with "+
			"different geometry: %v", mem)
		return nil
	}

	d.memory = mem
	return nil
}
