package checkpointer

import (
	"fmt"
	"strconv"
	"strings"
)

const extension = ".gob"

// checkpointName returns the filename of the checkpoint saved at step
func checkpointName(prefix string, step int) string {
	return fmt.Sprintf("%v-%v%v", prefix, step, extension)
}

// parseCheckpointName returns the step encoded in a checkpoint filename
// and whether the filename is a checkpoint filename with the given
// prefix
func parseCheckpointName(prefix, name string) (int, bool) {
	if !strings.HasPrefix(name, prefix+"-") ||
		!strings.HasSuffix(name, extension) {
		return 0, false
	}

	digits := strings.TrimSuffix(strings.TrimPrefix(name, prefix+"-"),
		extension)
	step, err := strconv.Atoi(digits)
	if err != nil || step < 0 {
		return 0, false
	}
	return step, true
}
