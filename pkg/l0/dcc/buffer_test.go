package dcc

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestBufferHandoff(t *testing.T) {
	b := NewBuffer()
	require.False(t, b.Free())
	require.False(t, b.Claim())

	var tx Packet
	require.True(t, b.refresh(&tx))
	require.Equal(t, IdlePacket, tx)
	require.True(t, b.Free())

	require.True(t, b.Claim())
	require.False(t, b.Claim(), "producer can claim only once per refresh")
	p := NewPacket(0x03, 0x69)
	p.LongPreamble = true
	b.Publish(p)
	require.True(t, b.nextLongPreamble())

	require.True(t, b.refresh(&tx))
	require.Equal(t, p, tx)

	// nothing new published: previous packet is kept
	require.True(t, b.Claim())
	require.False(t, b.refresh(&tx))
	require.Equal(t, p, tx)
}

func TestBufferTicks(t *testing.T) {
	b := NewBuffer()
	require.False(t, b.TakeTick())
	b.raiseTick()
	b.raiseMilliTick()
	require.True(t, b.TakeTick())
	require.False(t, b.TakeTick())
	require.True(t, b.TakeMilliTick())
	require.False(t, b.TakeMilliTick())

	require.False(t, b.TrackPower())
	b.SetTrackPower(true)
	require.True(t, b.TrackPower())
}

func TestBufferPublishClampsLength(t *testing.T) {
	b := NewBuffer()
	var tx Packet
	b.refresh(&tx)
	require.True(t, b.Claim())
	b.Publish(Packet{Len: 9})
	b.refresh(&tx)
	require.Equal(t, MaxPacketLen, tx.Len)
}

func TestBufferTake(t *testing.T) {
	b := NewBuffer()
	notified := 0
	b.Notify = func() { notified++ }

	p, ok := b.Take()
	require.True(t, ok)
	require.Equal(t, IdlePacket, p)
	require.Equal(t, 1, notified)

	_, ok = b.Take()
	require.False(t, ok)

	require.True(t, b.Claim())
	b.Publish(ResetPacket)
	p, ok = b.Take()
	require.True(t, ok)
	require.Equal(t, ResetPacket, p)
	require.True(t, b.Free())
}
