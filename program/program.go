// Package program loads Intcode program text from disk: read the whole
// file, hand the bytes to process.Load, wrap any failure with the path for
// context.
package program

import (
	"fmt"
	"os"

	"github.com/dmartin/intcode/process"
)

// Load reads the file at path and parses it as program text
// (process.Load), returning a fresh process.State.
func Load(path string) (*process.State, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("program: reading %s: %w", path, err)
	}

	state, err := process.Load(string(data))
	if err != nil {
		return nil, fmt.Errorf("program: parsing %s: %w", path, err)
	}
	return state, nil
}
