package audio

import (
	"encoding/binary"
	"fmt"
	"io"
	"os/exec"
	"strconv"
	"time"
)

// aplayBufferTime is aplay's ring buffer length in microseconds. Kept short so
// Write returning means the samples have nearly finished sounding.
const aplayBufferTime = 50000

// AplaySink streams raw PCM into a long-running aplay process.
type AplaySink struct {
	w    io.WriteCloser
	wait func() error
	buf  []byte

	now   func() time.Time
	sleep func(time.Duration)
}

// NewAplaySink starts aplay on the given ALSA device ("" for the default device).
func NewAplaySink(device string) (*AplaySink, error) {
	args := []string{"-q", "-t", "raw", "-f", "S16_LE", "-r", strconv.Itoa(SampleRate), "-c", "1",
		"-B", strconv.Itoa(aplayBufferTime)}
	if device != "" {
		args = append(args, "-D", device)
	}
	args = append(args, "-")

	cmd := exec.Command("aplay", args...)
	stdin, err := cmd.StdinPipe()
	if err != nil {
		return nil, fmt.Errorf("aplay stdin: %w", err)
	}
	if err := cmd.Start(); err != nil {
		return nil, fmt.Errorf("start aplay: %w", err)
	}
	return newPCMSink(stdin, cmd.Wait), nil
}

func newPCMSink(w io.WriteCloser, wait func() error) *AplaySink {
	return &AplaySink{w: w, wait: wait, now: time.Now, sleep: time.Sleep}
}

// Write encodes the samples as little-endian PCM and writes them to aplay. It
// returns no earlier than the playback time of the samples, so a tone blocks
// for its duration even though the pipe accepts it at once.
func (s *AplaySink) Write(samples []int16) error {
	start := s.now()
	n := len(samples) * 2
	if cap(s.buf) < n {
		s.buf = make([]byte, n)
	}
	buf := s.buf[:n]
	for i, v := range samples {
		binary.LittleEndian.PutUint16(buf[i*2:], uint16(v))
	}
	if _, err := s.w.Write(buf); err != nil {
		return fmt.Errorf("write pcm: %w", err)
	}
	if rest := PlaybackTime(len(samples)) - s.now().Sub(start); rest > 0 {
		s.sleep(rest)
	}
	return nil
}

// Close ends the aplay input and waits for playback to drain.
func (s *AplaySink) Close() error {
	if err := s.w.Close(); err != nil {
		return fmt.Errorf("close aplay stdin: %w", err)
	}
	if s.wait != nil {
		if err := s.wait(); err != nil {
			return fmt.Errorf("aplay exit: %w", err)
		}
	}
	return nil
}
