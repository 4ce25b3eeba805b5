package dcc

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestSniffer(t *testing.T) {
	got := make(chan Packet, 16)
	s := NewSniffer(HandlePacketFunc(func(ctx context.Context, p *Packet) {
		got <- *p
	}))
	s.SkipRepeats = true

	speed := NewPacket(0x03, 0x69)
	for _, b := range bitsOf(IdlePacket, IdlePacket, speed, corrupt(speed), speed) {
		s.TapBit(b)
	}
	require.Equal(t, uint64(1), s.Errors())
	require.Zero(t, s.Dropped())

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- s.Run(ctx) }()

	for _, expect := range []Packet{IdlePacket, speed} {
		select {
		case p := <-got:
			require.Equal(t, expect, p)
		case <-time.After(time.Second):
			require.FailNow(t, "packet not delivered")
		}
	}
	cancel()
	require.Equal(t, context.Canceled, <-done)
	require.Empty(t, got)
}

func TestSnifferDrops(t *testing.T) {
	s := NewSniffer(nil)
	for i := 0; i < cap(s.pktCh)+5; i++ {
		for _, b := range bitsOf(IdlePacket) {
			s.TapBit(b)
		}
	}
	require.Equal(t, uint64(5), s.Dropped())
}

func TestTransmitterSniffer(t *testing.T) {
	buf := NewBuffer()
	tx := NewTransmitter(buf, nil)
	s := NewSniffer(nil)
	tx.Tap = s
	for i := 0; i < 1000; i++ {
		tx.Step()
	}
	require.Zero(t, s.Errors())
	require.NotEmpty(t, s.pktCh)
}
