package core

import (
	"crypto/sha256"
	"encoding/binary"
	"encoding/hex"
	"hash"
	"slices"
)

// TaskHash is the hex-encoded fingerprint of a probed task.
//
// It changes whenever anything the task depends on changes: its command,
// declared environment, properties, outputs, input contents, working
// directory, or the ambient state it was observed to read.
type TaskHash string

func (t TaskHash) String() string { return string(t) }

// HashInput holds every component of a task fingerprint.
type HashInput struct {
	// Inputs is the resolved InputSet, already sorted.
	Inputs *InputSet

	// Command is the run string as declared, before placeholder expansion.
	// Expanded values enter through AccessTraceHash.
	Command string

	Env        map[string]string
	Properties map[string]string
	Outputs    []string
	WorkingDir string

	// AccessTraceHash is the hash of the canonical access trace.
	AccessTraceHash string
}

// TaskHasher computes fingerprints.
type TaskHasher struct{}

func NewTaskHasher() *TaskHasher {
	return &TaskHasher{}
}

// ComputeHash returns the fingerprint of in.
//
// Every field is length-prefixed and collections carry an element count, so
// moving bytes between adjacent fields always changes the result. Maps and
// outputs are sorted first.
func (h *TaskHasher) ComputeHash(in HashInput) TaskHash {
	w := fieldWriter{h: sha256.New()}

	w.writeString(in.WorkingDir)
	w.writeString(in.Command)
	w.writeMap(in.Env)
	w.writeMap(in.Properties)

	outputs := slices.Clone(in.Outputs)
	slices.Sort(outputs)
	w.writeCount(len(outputs))
	for _, out := range outputs {
		w.writeString(out)
	}

	var inputs []Input
	if in.Inputs != nil {
		inputs = in.Inputs.Inputs
	}
	w.writeCount(len(inputs))
	for _, inp := range inputs {
		w.writeString(inp.Path)
		w.writeBytes(inp.Content)
	}

	w.writeString(in.AccessTraceHash)
	return TaskHash(hex.EncodeToString(w.h.Sum(nil)))
}

type fieldWriter struct {
	h   hash.Hash
	buf [8]byte
}

func (w *fieldWriter) writeCount(n int) {
	binary.BigEndian.PutUint64(w.buf[:], uint64(n))
	w.h.Write(w.buf[:])
}

func (w *fieldWriter) writeBytes(b []byte) {
	w.writeCount(len(b))
	w.h.Write(b)
}

func (w *fieldWriter) writeString(s string) { w.writeBytes([]byte(s)) }

func (w *fieldWriter) writeMap(m map[string]string) {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	slices.Sort(keys)
	w.writeCount(len(keys))
	for _, k := range keys {
		w.writeString(k)
		w.writeString(m[k])
	}
}
