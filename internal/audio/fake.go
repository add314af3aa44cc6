package audio

// FakeSink records written samples for test assertions.
type FakeSink struct {
	// Writes contains every buffer passed to Write, in order.
	Writes [][]int16

	// WriteError, if set, will be returned by Write.
	WriteError error

	// Closed tracks if Close was called.
	Closed bool
}

// NewFakeSink creates a FakeSink for testing.
func NewFakeSink() *FakeSink {
	return &FakeSink{}
}

// Write records a copy of the samples.
func (f *FakeSink) Write(samples []int16) error {
	if f.WriteError != nil {
		return f.WriteError
	}
	cp := make([]int16, len(samples))
	copy(cp, samples)
	f.Writes = append(f.Writes, cp)
	return nil
}

// Close marks the sink as closed.
func (f *FakeSink) Close() error {
	f.Closed = true
	return nil
}

// Tones returns the buffers that contain sound, skipping silence flushes.
func (f *FakeSink) Tones() [][]int16 {
	var out [][]int16
	for _, w := range f.Writes {
		for _, s := range w {
			if s != 0 {
				out = append(out, w)
				break
			}
		}
	}
	return out
}

// Reset clears recorded writes.
func (f *FakeSink) Reset() {
	f.Writes = nil
	f.WriteError = nil
	f.Closed = false
}
