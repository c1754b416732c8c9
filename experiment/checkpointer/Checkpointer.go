// Package checkpointer saves and restores gob encoded objects in
// files indexed by the training step at which they were saved
package checkpointer

import (
	"encoding/gob"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
)

// ErrNoCheckpoint is returned when a directory holds no checkpoints
var ErrNoCheckpoint = errors.New("no checkpoint found")

// Checkpointer writes checkpoints to files named <prefix>-<step>.gob in
// a single directory. Only the Keep most recent checkpoints are kept on
// disk; if Keep is not positive, every checkpoint is kept.
type Checkpointer struct {
	dir    string
	prefix string
	Keep   int
}

// New returns a new Checkpointer writing to dir, creating dir if
// needed
func New(dir, prefix string, keep int) (*Checkpointer, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("new: could not create checkpoint "+
			"directory: %v", err)
	}
	return &Checkpointer{dir: dir, prefix: prefix, Keep: keep}, nil
}

// Dir returns the checkpoint directory
func (c *Checkpointer) Dir() string {
	return c.dir
}

// Save gob encodes each of values, in order, into the checkpoint file
// for step. The file is written under a temporary name and then
// renamed, so a crash never leaves a partial checkpoint behind.
func (c *Checkpointer) Save(step int, values ...interface{}) error {
	filename := filepath.Join(c.dir, checkpointName(c.prefix, step))
	tmp := filename + ".tmp"

	file, err := os.Create(tmp)
	if err != nil {
		return fmt.Errorf("save: could not create checkpoint file: %v", err)
	}

	enc := gob.NewEncoder(file)
	for i, v := range values {
		if err := enc.Encode(v); err != nil {
			file.Close()
			os.Remove(tmp)
			return fmt.Errorf("save: could not encode value %v: %v", i, err)
		}
	}
	if err := file.Close(); err != nil {
		os.Remove(tmp)
		return fmt.Errorf("save: could not close checkpoint file: %v", err)
	}

	if err := os.Rename(tmp, filename); err != nil {
		return fmt.Errorf("save: could not commit checkpoint: %v", err)
	}

	return c.prune()
}

// Latest decodes the most recent checkpoint into values, in the order
// they were saved, and returns its step. If there are no checkpoints,
// Latest returns ErrNoCheckpoint.
func (c *Checkpointer) Latest(values ...interface{}) (int, error) {
	steps, err := c.Steps()
	if err != nil {
		return 0, err
	}
	if len(steps) == 0 {
		return 0, ErrNoCheckpoint
	}

	step := steps[len(steps)-1]
	return step, c.Load(step, values...)
}

// Load decodes the checkpoint saved at step into values
func (c *Checkpointer) Load(step int, values ...interface{}) error {
	filename := filepath.Join(c.dir, checkpointName(c.prefix, step))
	file, err := os.Open(filename)
	if err != nil {
		return fmt.Errorf("load: could not open checkpoint: %v", err)
	}
	defer file.Close()

	dec := gob.NewDecoder(file)
	for i, v := range values {
		if err := dec.Decode(v); err != nil {
			return fmt.Errorf("load: could not decode value %v: %v", i, err)
		}
	}
	return nil
}

// Steps returns the steps of all checkpoints on disk in increasing
// order
func (c *Checkpointer) Steps() ([]int, error) {
	entries, err := os.ReadDir(c.dir)
	if err != nil {
		return nil, fmt.Errorf("steps: could not read checkpoint "+
			"directory: %v", err)
	}

	var steps []int
	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		if step, ok := parseCheckpointName(c.prefix, entry.Name()); ok {
			steps = append(steps, step)
		}
	}
	sort.Ints(steps)

	return steps, nil
}

// prune removes all but the Keep most recent checkpoints
func (c *Checkpointer) prune() error {
	if c.Keep <= 0 {
		return nil
	}

	steps, err := c.Steps()
	if err != nil {
		return err
	}

	for len(steps) > c.Keep {
		filename := filepath.Join(c.dir, checkpointName(c.prefix, steps[0]))
		if err := os.Remove(filename); err != nil {
			return fmt.Errorf("prune: %v", err)
		}
		steps = steps[1:]
	}
	return nil
}
