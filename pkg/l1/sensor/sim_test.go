package sensor

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/robotalks/dcc.go/pkg/l0/dcc"
)

func service(b ...byte) *dcc.Packet {
	p := dcc.NewPacket(b...)
	p.LongPreamble = true
	return &p
}

func (s *Sim) acked(t *testing.T) bool {
	ma, _, err := s.Sample()
	require.NoError(t, err)
	return ma-s.MilliAmps > 20
}

func TestSimDecoder(t *testing.T) {
	ctx := context.Background()
	s := NewSim()
	s.SetCV(29, 0x06) // 0000 0110

	testCases := []struct {
		name string
		pkt  *dcc.Packet
		ack  bool
	}{
		{"bit 2 is 1", service(0x78, 28, 0xe8|2), true},
		{"bit 0 is 0", service(0x78, 28, 0xe8|0), false},
		{"byte verify match", service(0x74, 28, 0x06), true},
		{"byte verify mismatch", service(0x74, 28, 0x07), false},
		{"reset", service(0, 0, 0), false},
		{"CV8", service(0x74, 7, DefaultSimDecoderCV8), true},
	}
	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			require.NoError(t, s.SetMode(Trigger))
			s.HandlePacket(ctx, tc.pkt)
			require.Equal(t, tc.ack, s.acked(t))
		})
	}
}

func TestSimDecoderWrites(t *testing.T) {
	ctx := context.Background()
	s := NewSim()

	s.HandlePacket(ctx, service(0x7c, 0, 42))
	v, ok := s.CV(1)
	require.True(t, ok)
	require.Equal(t, byte(42), v)

	// CV 10 through paged mode: page 3, register 1
	s.HandlePacket(ctx, service(0x7d, 3))
	s.HandlePacket(ctx, service(0x79, 0x55))
	v, ok = s.CV(10)
	require.True(t, ok)
	require.Equal(t, byte(0x55), v)

	// bit write: set bit 7 of CV 10
	s.HandlePacket(ctx, service(0x78, 9, 0xf0|0x08|7))
	v, _ = s.CV(10)
	require.Equal(t, byte(0xd5), v)

	// main track packets to short address 0x78 are ignored
	main := dcc.NewPacket(0x78, 0x7f)
	s.HandlePacket(ctx, &main)
	v, _ = s.CV(10)
	require.Equal(t, byte(0xd5), v)
}

func TestSimAckOnlyInTrigger(t *testing.T) {
	s := NewSim()
	s.HandlePacket(context.Background(), service(0x74, 0, DefaultSimDecoderCV1))
	require.False(t, s.acked(t))
	require.Equal(t, Averaging, s.Mode())
}

func TestSimOverload(t *testing.T) {
	s := NewSim()
	s.Overload(3000)
	ma, _, _ := s.Sample()
	require.Equal(t, 3000.0, ma)
	s.Overload(-1)
	ma, _, _ = s.Sample()
	require.Equal(t, float64(DefaultSimMilliAmps), ma)
}

func TestOpen(t *testing.T) {
	s, err := Open("sim:")
	require.NoError(t, err)
	require.IsType(t, &Sim{}, s)
	_, err = Open("serial:///dev/ttyUSB0")
	require.True(t, errors.Is(err, ErrUnsupportedURL))
	require.Equal(t, "trigger", Trigger.String())
}
