package expreplay

import (
	"bytes"
	"encoding/gob"
	"fmt"
)

// GobEncode implements the gob.GobEncoder interface. Only the stored
// transitions and the buffer geometry are encoded; a decoded Memory
// samples with a selector re-seeded from the original seed.
func (m *Memory) GobEncode() ([]byte, error) {
	var buf bytes.Buffer
	enc := gob.NewEncoder(&buf)

	header := []int{
		m.current, m.count, m.capacity, m.historyLength, m.rows, m.cols,
		m.batchSize,
	}
	if err := enc.Encode(header); err != nil {
		return nil, fmt.Errorf("gobencode: could not encode header: %v", err)
	}

	if err := enc.Encode(m.seed); err != nil {
		return nil, fmt.Errorf("gobencode: could not encode seed: %v", err)
	}

	// Only the filled prefix of each cache needs to be stored
	if err := enc.Encode(m.frameCache[:m.count*m.frameSize]); err != nil {
		return nil, fmt.Errorf("gobencode: could not encode frames: %v", err)
	}
	if err := enc.Encode(m.actionCache[:m.count]); err != nil {
		return nil, fmt.Errorf("gobencode: could not encode actions: %v", err)
	}
	if err := enc.Encode(m.rewardCache[:m.count]); err != nil {
		return nil, fmt.Errorf("gobencode: could not encode rewards: %v", err)
	}
	if err := enc.Encode(m.terminalCache[:m.count]); err != nil {
		return nil, fmt.Errorf("gobencode: could not encode terminals: %v",
			err)
	}

	return buf.Bytes(), nil
}

// GobDecode implements the gob.GobDecoder interface
func (m *Memory) GobDecode(in []byte) error {
	dec := gob.NewDecoder(bytes.NewReader(in))

	var header []int
	if err := dec.Decode(&header); err != nil {
		return fmt.Errorf("gobdecode: could not decode header: %v", err)
	}
	if len(header) != 7 {
		return fmt.Errorf("gobdecode: invalid header length\n\twant(7)"+
			"\n\thave(%v)", len(header))
	}
	current, count := header[0], header[1]

	var seed uint64
	if err := dec.Decode(&seed); err != nil {
		return fmt.Errorf("gobdecode: could not decode seed: %v", err)
	}

	newMem, err := New(header[2], header[3], header[4], header[5], header[6],
		seed)
	if err != nil {
		return fmt.Errorf("gobdecode: %v", err)
	}
	if count < 0 || count > newMem.capacity || current < 0 ||
		current >= newMem.capacity {
		return fmt.Errorf("gobdecode: invalid cursor (%v) or count (%v) for "+
			"capacity %v", current, count, newMem.capacity)
	}

	var frames []float64
	if err := dec.Decode(&frames); err != nil {
		return fmt.Errorf("gobdecode: could not decode frames: %v", err)
	}
	var actions []int
	if err := dec.Decode(&actions); err != nil {
		return fmt.Errorf("gobdecode: could not decode actions: %v", err)
	}
	var rewards []float64
	if err := dec.Decode(&rewards); err != nil {
		return fmt.Errorf("gobdecode: could not decode rewards: %v", err)
	}
	var terminals []bool
	if err := dec.Decode(&terminals); err != nil {
		return fmt.Errorf("gobdecode: could not decode terminals: %v", err)
	}

	if len(frames) != count*newMem.frameSize || len(actions) != count ||
		len(rewards) != count || len(terminals) != count {
		return fmt.Errorf("gobdecode: cache lengths do not match count %v",
			count)
	}

	copy(newMem.frameCache, frames)
	copy(newMem.actionCache, actions)
	copy(newMem.rewardCache, rewards)
	copy(newMem.terminalCache, terminals)
	newMem.current = current
	newMem.count = count

	*m = *newMem
	return nil
}
