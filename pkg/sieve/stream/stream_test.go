package stream

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSendRecvOrder(t *testing.T) {
	t.Parallel()
	s := New[int](4)

	for _, v := range []int{3, 5, 7, 9} {
		require.NoError(t, s.Send(v))
	}
	s.CloseWrite()

	got := []int{}
	for {
		v, ok := s.Recv()
		if !ok {
			break
		}
		got = append(got, v)
	}
	assert.Equal(t, []int{3, 5, 7, 9}, got)
}

func TestCloseWriteSignalsEndOfStream(t *testing.T) {
	t.Parallel()
	s := New[int](1)
	require.NoError(t, s.Send(11))
	s.CloseWrite()

	v, ok := s.Recv()
	assert.True(t, ok)
	assert.Equal(t, 11, v)

	_, ok = s.Recv()
	assert.False(t, ok, "end-of-stream expected after buffer drained")
}

func TestSendAfterCloseWrite(t *testing.T) {
	t.Parallel()
	s := New[int](1)
	s.CloseWrite()

	err := s.Send(13)
	assert.ErrorIs(t, err, ErrWriteClosed)
}

func TestSendAfterCloseRead(t *testing.T) {
	t.Parallel()
	s := New[int](1)
	s.CloseRead()

	err := s.Send(13)
	assert.ErrorIs(t, err, ErrReadClosed)
}

func TestCloseReadUnblocksPendingSend(t *testing.T) {
	t.Parallel()
	s := New[int](0)

	errc := make(chan error, 1)
	go func() {
		errc <- s.Send(17)
	}()

	// give the sender time to block on the empty-capacity stream
	time.Sleep(10 * time.Millisecond)
	s.CloseRead()

	select {
	case err := <-errc:
		assert.ErrorIs(t, err, ErrReadClosed)
	case <-time.After(time.Second):
		t.Fatal("Send still blocked after CloseRead")
	}
}

func TestCloseIdempotent(t *testing.T) {
	t.Parallel()
	s := New[int](1)

	s.CloseWrite()
	s.CloseWrite()
	s.CloseRead()
	s.CloseRead()

	assert.True(t, s.WriteClosed())
	assert.True(t, s.ReadClosed())
}

func TestLenCap(t *testing.T) {
	t.Parallel()
	s := New[int](3)
	assert.Equal(t, 3, s.Cap())
	assert.Equal(t, 0, s.Len())

	require.NoError(t, s.Send(19))
	require.NoError(t, s.Send(23))
	assert.Equal(t, 2, s.Len())
}

func TestNegativeCapacityMeansSynchronous(t *testing.T) {
	t.Parallel()
	s := New[int](-1)
	assert.Equal(t, 0, s.Cap())
}
