package audio

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"os/exec"
	"strings"
	"sync"
	"time"
)

// Default device commands; both speak raw mono S16_LE on stdio.
var (
	DefaultRecordCommand = []string{"arecord", "-q", "-f", "S16_LE", "-r", "16000", "-c", "1", "-t", "raw"}
	DefaultPlayCommand   = []string{"aplay", "-q", "-f", "S16_LE", "-r", "24000", "-c", "1", "-t", "raw"}
)

// startGrace is how long Acquire waits for the capture command to fail.
const startGrace = 150 * time.Millisecond

// ParseCommand splits a configured command line on whitespace.
func ParseCommand(line string) []string {
	return strings.Fields(line)
}

// CommandMicrophone records by running an external command that writes raw
// PCM at CaptureRate to stdout.
type CommandMicrophone struct {
	Args []string
}

// NewCommandMicrophone returns a microphone using args, or the default command.
func NewCommandMicrophone(args []string) *CommandMicrophone {
	if len(args) == 0 {
		args = DefaultRecordCommand
	}
	return &CommandMicrophone{Args: args}
}

// Acquire starts the capture command.
func (m *CommandMicrophone) Acquire(ctx context.Context) (Capture, error) {
	if len(m.Args) == 0 {
		return nil, fmt.Errorf("%w: no record command", ErrMicAccessDenied)
	}
	if _, err := exec.LookPath(m.Args[0]); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrMicAccessDenied, err)
	}
	cmd := exec.Command(m.Args[0], m.Args[1:]...)
	var stderr bytes.Buffer
	cmd.Stderr = &stderr
	stdout, err := cmd.StdoutPipe()
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrMicAccessDenied, err)
	}
	if err := cmd.Start(); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrMicAccessDenied, err)
	}

	c := &commandCapture{cmd: cmd, exited: make(chan struct{}), copied: make(chan struct{})}
	go func() {
		_, _ = io.Copy(&c.buf, stdout)
		close(c.copied)
	}()
	go func() {
		<-c.copied
		c.waitErr = cmd.Wait()
		close(c.exited)
	}()

	select {
	case <-c.exited:
		if c.buf.Len() == 0 {
			return nil, fmt.Errorf("%w: %s", ErrMicAccessDenied, strings.TrimSpace(stderr.String()))
		}
	case <-ctx.Done():
		c.Cancel()
		return nil, ctx.Err()
	case <-time.After(startGrace):
	}
	return c, nil
}

type commandCapture struct {
	cmd     *exec.Cmd
	buf     lockedBuffer
	copied  chan struct{}
	exited  chan struct{}
	waitErr error
	once    sync.Once
}

func (c *commandCapture) halt() {
	c.once.Do(func() {
		select {
		case <-c.exited:
		default:
			_ = c.cmd.Process.Kill()
		}
		<-c.exited
	})
}

func (c *commandCapture) Stop() ([]byte, error) {
	c.halt()
	pcm := c.buf.Bytes()
	if len(pcm) == 0 {
		return nil, ErrEmptyCapture
	}
	return EncodeWAV(pcm, CaptureRate, Channels), nil
}

func (c *commandCapture) Cancel() {
	c.halt()
}

type lockedBuffer struct {
	mu  sync.Mutex
	buf bytes.Buffer
}

func (b *lockedBuffer) Write(p []byte) (int, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.buf.Write(p)
}

func (b *lockedBuffer) Len() int {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.buf.Len()
}

func (b *lockedBuffer) Bytes() []byte {
	b.mu.Lock()
	defer b.mu.Unlock()
	return append([]byte(nil), b.buf.Bytes()...)
}

// CommandPlayer plays PCM by piping it to an external command.
type CommandPlayer struct {
	Args []string
}

// NewCommandPlayer returns a player using args, or the default command.
func NewCommandPlayer(args []string) *CommandPlayer {
	if len(args) == 0 {
		args = DefaultPlayCommand
	}
	return &CommandPlayer{Args: args}
}

// Play starts the playback command with pcm on stdin.
func (p *CommandPlayer) Play(pcm []byte) (Playback, error) {
	if len(p.Args) == 0 {
		return nil, fmt.Errorf("audio: no play command")
	}
	cmd := exec.Command(p.Args[0], p.Args[1:]...)
	cmd.Stdin = bytes.NewReader(pcm)
	if err := cmd.Start(); err != nil {
		return nil, fmt.Errorf("audio: start player: %w", err)
	}
	pb := &commandPlayback{cmd: cmd, done: make(chan struct{})}
	go func() {
		_ = cmd.Wait()
		close(pb.done)
	}()
	return pb, nil
}

type commandPlayback struct {
	cmd  *exec.Cmd
	done chan struct{}
	once sync.Once
}

func (p *commandPlayback) Stop() {
	p.once.Do(func() {
		select {
		case <-p.done:
		default:
			_ = p.cmd.Process.Kill()
		}
	})
	<-p.done
}

func (p *commandPlayback) Done() <-chan struct{} {
	return p.done
}
