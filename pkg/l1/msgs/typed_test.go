package msgs

import (
	"testing"

	"github.com/stretchr/testify/require"

	pb "github.com/robotalks/dcc.go/pkg/proto/dcc/l1/v1"
)

func TestTypedKinds(t *testing.T) {
	tests := []struct {
		name    string
		typeID  uint32
		command bool
	}{
		{"loco speed", LocoSpeedTypeID, true},
		{"station status reply", StationStatusTypeID, true},
		{"loco changed", LocoChangedTypeID, false},
		{"cv read result", CVReadResultTypeID, false},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			msg, ok := MessageTypes[tc.typeID]
			require.True(t, ok)
			typed, err := TypedFrom(msg.NewMessage())
			require.NoError(t, err)
			require.Equal(t, tc.typeID, typed.TypeId)
			require.Equal(t, tc.command, typed.IsCommand())
			require.Equal(t, !tc.command, typed.IsEvent())
		})
	}
}

func TestTypedEncodeDecode(t *testing.T) {
	var speed LocoSpeed
	speed.Slot, speed.SpeedStep, speed.Forward = 2, 57, true
	typed, err := TypedFrom(&speed)
	require.NoError(t, err)
	typed.Sequence = 7
	data, err := typed.Encode()
	require.NoError(t, err)

	decoded, err := DecodeTyped(data)
	require.NoError(t, err)
	require.Equal(t, uint32(7), decoded.Sequence)
	msg, err := decoded.Decode()
	require.NoError(t, err)
	require.IsType(t, &LocoSpeed{}, msg)
	m := msg.(*LocoSpeed)
	require.Equal(t, int32(2), m.Slot)
	require.Equal(t, uint32(57), m.SpeedStep)
	require.True(t, m.Forward)
}

func TestTypedRepeatedFields(t *testing.T) {
	var roster Roster
	roster.Locos = append(roster.Locos, &pb.LocoState{Slot: 1, Address: 3})
	typed, err := TypedFrom(&roster)
	require.NoError(t, err)
	msg, err := typed.Decode()
	require.NoError(t, err)
	require.Len(t, msg.(*Roster).Locos, 1)
	require.Equal(t, uint32(3), msg.(*Roster).Locos[0].Address)
}

func TestTypedDecodeUnknown(t *testing.T) {
	typed := &Typed{}
	typed.TypeId = GroupCustom | 0x42
	_, err := typed.Decode()
	require.Error(t, err)
	require.IsType(t, &ErrUnknownType{}, err)
}

func TestCommandErr(t *testing.T) {
	err := NewCommandErr(ErrUnsupportedCommand)
	require.EqualError(t, err, ErrUnsupportedCommand.Error())
	typed, e := TypedFrom(err)
	require.NoError(t, e)
	require.Equal(t, CommandErrTypeID, typed.TypeId)
}
