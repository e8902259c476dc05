package core

// Input is a resolved input file and the content that was read from it.
type Input struct {
	// Path is the slash-separated path, sorted within an InputSet.
	Path string

	// Content is the raw file content. Metadata is never read.
	Content []byte
}

// InputSet is the resolved inputs of a task, sorted by Path.
type InputSet struct {
	Inputs []Input
}

// Paths returns the input paths in order.
func (s *InputSet) Paths() []string {
	if s == nil {
		return nil
	}
	out := make([]string, len(s.Inputs))
	for i, in := range s.Inputs {
		out[i] = in.Path
	}
	return out
}
