package transport

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFakeReply(t *testing.T) {
	f := NewFake(ReplyMap(map[string]string{"b": "57600"}))
	f.Timeout = time.Millisecond

	_, err := f.Write([]byte("b\r"))
	require.NoError(t, err)
	line, err := f.ReadLine()
	require.NoError(t, err)
	assert.Equal(t, "57600\r\n", string(line))

	_, err = f.Write([]byte("x\r"))
	require.NoError(t, err)
	_, err = f.ReadLine()
	assert.Equal(t, ErrTimeout, err)

	assert.Equal(t, []string{"b", "x"}, f.Commands())
	assert.False(t, f.Interleaved())
}

func TestFakeInterleaved(t *testing.T) {
	f := NewFake(ReplyAll("OK"))
	f.Write([]byte("a\r"))
	f.Write([]byte("b\r"))
	assert.True(t, f.Interleaved())
}

func TestFakeFlush(t *testing.T) {
	f := NewFake(nil)
	f.Timeout = time.Millisecond
	f.Inject("stale")
	require.NoError(t, f.Flush())
	_, err := f.ReadLine()
	assert.Equal(t, ErrTimeout, err)
	assert.Equal(t, 1, f.Flushes())
}

func TestReplySeq(t *testing.T) {
	reply := ReplySeq("1", "2")
	for _, want := range []string{"1", "2"} {
		got, ok := reply("any")
		assert.True(t, ok)
		assert.Equal(t, want, got)
	}
	_, ok := reply("any")
	assert.False(t, ok)
}

func TestFakeOpener(t *testing.T) {
	f := NewFake(nil)
	o := &FakeOpener{Fake: f}
	tr, err := o.Open(Config{Port: "p", BaudRate: 9600})
	require.NoError(t, err)
	tr.Close()
	assert.True(t, f.Closed())
	_, err = o.Open(Config{Port: "p", BaudRate: 57600})
	require.NoError(t, err)
	assert.False(t, f.Closed())
	_, err = f.Write([]byte("b\r"))
	assert.NoError(t, err)
	require.Len(t, o.Opened(), 2)
	assert.Equal(t, 57600, o.Opened()[1].BaudRate)
}

func TestOpenSerialRequiresPort(t *testing.T) {
	_, err := OpenSerial(Config{})
	assert.Error(t, err)
}
