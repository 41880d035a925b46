package transport

import (
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.bug.st/serial"
)

// scriptedPort answers each written command after delay.
type scriptedPort struct {
	serial.Port

	replies map[string]string
	delays  map[string]time.Duration

	lock       sync.Mutex
	input      []byte
	writing    int
	overlapped bool
}

func (p *scriptedPort) Write(b []byte) (int, error) {
	cmd := strings.TrimSuffix(string(b), "\r")
	p.lock.Lock()
	if p.writing > 0 {
		p.overlapped = true
	}
	p.writing++
	p.lock.Unlock()

	time.Sleep(p.delays[cmd])

	p.lock.Lock()
	defer p.lock.Unlock()
	p.writing--
	if reply, ok := p.replies[cmd]; ok {
		p.input = append(p.input, reply+"\n"...)
	}
	return len(b), nil
}

func (p *scriptedPort) Read(b []byte) (int, error) {
	p.lock.Lock()
	defer p.lock.Unlock()
	n := copy(b, p.input)
	p.input = p.input[n:]
	return n, nil
}

func (p *scriptedPort) SetReadTimeout(time.Duration) error { return nil }

func (p *scriptedPort) ResetInputBuffer() error {
	p.lock.Lock()
	p.input = nil
	p.lock.Unlock()
	return nil
}

func (p *scriptedPort) Close() error { return nil }

func TestSerialWriteTimeoutDropsLateReply(t *testing.T) {
	port := &scriptedPort{
		replies: map[string]string{"a 0": "512", "w 13 1": "OK"},
		delays:  map[string]time.Duration{"a 0": 30 * time.Millisecond},
	}
	s := &Serial{port: port, cfg: Config{ReadTimeout: 50 * time.Millisecond, WriteTimeout: 10 * time.Millisecond}}

	_, err := s.Write([]byte("a 0\r"))
	assert.Equal(t, ErrWriteTimeout, err)

	_, err = s.Write([]byte("w 13 1\r"))
	require.NoError(t, err)
	line, err := s.ReadLine()
	require.NoError(t, err)
	assert.Equal(t, "OK\n", string(line))
	assert.False(t, port.overlapped)
}

func TestSerialReadLine(t *testing.T) {
	port := &scriptedPort{replies: map[string]string{"e": "1 2"}}
	s := &Serial{port: port, cfg: Config{ReadTimeout: 10 * time.Millisecond}}

	_, err := s.Write([]byte("e\r"))
	require.NoError(t, err)
	line, err := s.ReadLine()
	require.NoError(t, err)
	assert.Equal(t, "1 2\n", string(line))

	_, err = s.ReadLine()
	assert.Equal(t, ErrTimeout, err)
}
