package msgs

import (
	"errors"

	"github.com/golang/protobuf/proto"

	fx "github.com/robotalks/dcc.go/pkg/framework"
	pb "github.com/robotalks/dcc.go/pkg/proto/dcc/l1/v1"
)

// CommandOK is the generic reply indicating success for commands.
type CommandOK struct {
	pb.CommandOK
}

// NewCommandOK creates a CommandOK.
func NewCommandOK() *CommandOK {
	return &CommandOK{}
}

// NewMessage implements Message.
func (m *CommandOK) NewMessage() fx.Message { return &CommandOK{} }

// TypeID implements SerializableMessage.
func (m *CommandOK) TypeID() uint32 { return CommandOKTypeID }

// Serializable implements SerializableMessage.
func (m *CommandOK) Serializable() proto.Message { return &m.CommandOK }

// CommandErr is the generic message representing command error.
type CommandErr struct {
	pb.CommandErr
}

// NewCommandErr creates a CommandErr from an error.
func NewCommandErr(err error) *CommandErr {
	return NewCommandErrFromMsg(err.Error())
}

// NewCommandErrFromMsg creates a CommandErr.
func NewCommandErrFromMsg(message string) *CommandErr {
	return &CommandErr{
		CommandErr: pb.CommandErr{
			Message: message,
		},
	}
}

// NewMessage implements Message.
func (m *CommandErr) NewMessage() fx.Message { return &CommandErr{} }

// TypeID implements SerializableMessage.
func (m *CommandErr) TypeID() uint32 { return CommandErrTypeID }

// Serializable implements SerializableMessage.
func (m *CommandErr) Serializable() proto.Message { return &m.CommandErr }

// Error implements error.
func (m *CommandErr) Error() string { return m.Message }

// StationStatusQuery requests the StationStatus.
type StationStatusQuery struct {
	pb.StationStatusQuery
}

// NewMessage implements Message.
func (m *StationStatusQuery) NewMessage() fx.Message { return &StationStatusQuery{} }

// TypeID implements SerializableMessage.
func (m *StationStatusQuery) TypeID() uint32 { return StationStatusQueryTypeID }

// Serializable implements SerializableMessage.
func (m *StationStatusQuery) Serializable() proto.Message { return &m.StationStatusQuery }

// PowerSet switches the track power; switching on clears a trip.
type PowerSet struct {
	pb.PowerSet
}

// NewMessage implements Message.
func (m *PowerSet) NewMessage() fx.Message { return &PowerSet{} }

// TypeID implements SerializableMessage.
func (m *PowerSet) TypeID() uint32 { return PowerSetTypeID }

// Serializable implements SerializableMessage.
func (m *PowerSet) Serializable() proto.Message { return &m.PowerSet }

// EmergencyStop stops every loco and restores tripped track power.
type EmergencyStop struct {
	pb.EmergencyStop
}

// NewMessage implements Message.
func (m *EmergencyStop) NewMessage() fx.Message { return &EmergencyStop{} }

// TypeID implements SerializableMessage.
func (m *EmergencyStop) TypeID() uint32 { return EmergencyStopTypeID }

// Serializable implements SerializableMessage.
func (m *EmergencyStop) Serializable() proto.Message { return &m.EmergencyStop }

// RosterQuery requests the Roster.
type RosterQuery struct {
	pb.RosterQuery
}

// NewMessage implements Message.
func (m *RosterQuery) NewMessage() fx.Message { return &RosterQuery{} }

// TypeID implements SerializableMessage.
func (m *RosterQuery) TypeID() uint32 { return RosterQueryTypeID }

// Serializable implements SerializableMessage.
func (m *RosterQuery) Serializable() proto.Message { return &m.RosterQuery }

// LocoAcquire finds or assigns a roster slot, replied with LocoState.
type LocoAcquire struct {
	pb.LocoAcquire
}

// NewMessage implements Message.
func (m *LocoAcquire) NewMessage() fx.Message { return &LocoAcquire{} }

// TypeID implements SerializableMessage.
func (m *LocoAcquire) TypeID() uint32 { return LocoAcquireTypeID }

// Serializable implements SerializableMessage.
func (m *LocoAcquire) Serializable() proto.Message { return &m.LocoAcquire }

// LocoRelease empties a roster slot.
type LocoRelease struct {
	pb.LocoRelease
}

// NewMessage implements Message.
func (m *LocoRelease) NewMessage() fx.Message { return &LocoRelease{} }

// TypeID implements SerializableMessage.
func (m *LocoRelease) TypeID() uint32 { return LocoReleaseTypeID }

// Serializable implements SerializableMessage.
func (m *LocoRelease) Serializable() proto.Message { return &m.LocoRelease }

// LocoStep changes the speed by a step, or stops the loco with delta -2.
type LocoStep struct {
	pb.LocoStep
}

// NewMessage implements Message.
func (m *LocoStep) NewMessage() fx.Message { return &LocoStep{} }

// TypeID implements SerializableMessage.
func (m *LocoStep) TypeID() uint32 { return LocoStepTypeID }

// Serializable implements SerializableMessage.
func (m *LocoStep) Serializable() proto.Message { return &m.LocoStep }

// LocoSpeed sets absolute speed step and direction.
type LocoSpeed struct {
	pb.LocoSpeed
}

// NewMessage implements Message.
func (m *LocoSpeed) NewMessage() fx.Message { return &LocoSpeed{} }

// TypeID implements SerializableMessage.
func (m *LocoSpeed) TypeID() uint32 { return LocoSpeedTypeID }

// Serializable implements SerializableMessage.
func (m *LocoSpeed) Serializable() proto.Message { return &m.LocoSpeed }

// LocoMode switches between 28 and 128 speed steps.
type LocoMode struct {
	pb.LocoMode
}

// NewMessage implements Message.
func (m *LocoMode) NewMessage() fx.Message { return &LocoMode{} }

// TypeID implements SerializableMessage.
func (m *LocoMode) TypeID() uint32 { return LocoModeTypeID }

// Serializable implements SerializableMessage.
func (m *LocoMode) Serializable() proto.Message { return &m.LocoMode }

// LocoBrake command.
type LocoBrake struct {
	pb.LocoBrake
}

// NewMessage implements Message.
func (m *LocoBrake) NewMessage() fx.Message { return &LocoBrake{} }

// TypeID implements SerializableMessage.
func (m *LocoBrake) TypeID() uint32 { return LocoBrakeTypeID }

// Serializable implements SerializableMessage.
func (m *LocoBrake) Serializable() proto.Message { return &m.LocoBrake }

// LocoFunction switches one of F0..F12.
type LocoFunction struct {
	pb.LocoFunction
}

// NewMessage implements Message.
func (m *LocoFunction) NewMessage() fx.Message { return &LocoFunction{} }

// TypeID implements SerializableMessage.
func (m *LocoFunction) TypeID() uint32 { return LocoFunctionTypeID }

// Serializable implements SerializableMessage.
func (m *LocoFunction) Serializable() proto.Message { return &m.LocoFunction }

// LocoConsist assigns the consist, 0 removes the loco from its consist.
type LocoConsist struct {
	pb.LocoConsist
}

// NewMessage implements Message.
func (m *LocoConsist) NewMessage() fx.Message { return &LocoConsist{} }

// TypeID implements SerializableMessage.
func (m *LocoConsist) TypeID() uint32 { return LocoConsistTypeID }

// Serializable implements SerializableMessage.
func (m *LocoConsist) Serializable() proto.Message { return &m.LocoConsist }

// TurnoutSet throws or closes a turnout.
type TurnoutSet struct {
	pb.TurnoutSet
}

// NewMessage implements Message.
func (m *TurnoutSet) NewMessage() fx.Message { return &TurnoutSet{} }

// TypeID implements SerializableMessage.
func (m *TurnoutSet) TypeID() uint32 { return TurnoutSetTypeID }

// Serializable implements SerializableMessage.
func (m *TurnoutSet) Serializable() proto.Message { return &m.TurnoutSet }

// POMWrite writes a CV on the main track.
type POMWrite struct {
	pb.POMWrite
}

// NewMessage implements Message.
func (m *POMWrite) NewMessage() fx.Message { return &POMWrite{} }

// TypeID implements SerializableMessage.
func (m *POMWrite) TypeID() uint32 { return POMWriteTypeID }

// Serializable implements SerializableMessage.
func (m *POMWrite) Serializable() proto.Message { return &m.POMWrite }

// ServiceModeSet enters or leaves service mode.
type ServiceModeSet struct {
	pb.ServiceModeSet
}

// NewMessage implements Message.
func (m *ServiceModeSet) NewMessage() fx.Message { return &ServiceModeSet{} }

// TypeID implements SerializableMessage.
func (m *ServiceModeSet) TypeID() uint32 { return ServiceModeSetTypeID }

// Serializable implements SerializableMessage.
func (m *ServiceModeSet) Serializable() proto.Message { return &m.ServiceModeSet }

// CVWrite writes a CV on the programming track.
type CVWrite struct {
	pb.CVWrite
}

// NewMessage implements Message.
func (m *CVWrite) NewMessage() fx.Message { return &CVWrite{} }

// TypeID implements SerializableMessage.
func (m *CVWrite) TypeID() uint32 { return CVWriteTypeID }

// Serializable implements SerializableMessage.
func (m *CVWrite) Serializable() proto.Message { return &m.CVWrite }

// CVRead starts reading a CV on the programming track, the value is
// reported by CVReadResult.
type CVRead struct {
	pb.CVRead
}

// NewMessage implements Message.
func (m *CVRead) NewMessage() fx.Message { return &CVRead{} }

// TypeID implements SerializableMessage.
func (m *CVRead) TypeID() uint32 { return CVReadTypeID }

// Serializable implements SerializableMessage.
func (m *CVRead) Serializable() proto.Message { return &m.CVRead }

// StationStatus is the reply to StationStatusQuery and is also sent as
// an event when the power state changes.
type StationStatus struct {
	pb.StationStatus
}

// NewMessage implements Message.
func (m *StationStatus) NewMessage() fx.Message { return &StationStatus{} }

// TypeID implements SerializableMessage.
func (m *StationStatus) TypeID() uint32 { return StationStatusTypeID }

// Serializable implements SerializableMessage.
func (m *StationStatus) Serializable() proto.Message { return &m.StationStatus }

// Roster is the reply to RosterQuery.
type Roster struct {
	pb.Roster
}

// NewMessage implements Message.
func (m *Roster) NewMessage() fx.Message { return &Roster{} }

// TypeID implements SerializableMessage.
func (m *Roster) TypeID() uint32 { return RosterTypeID }

// Serializable implements SerializableMessage.
func (m *Roster) Serializable() proto.Message { return &m.Roster }

// LocoState is the reply to LocoAcquire and the event of a changed slot.
type LocoState struct {
	pb.LocoState
}

// NewMessage implements Message.
func (m *LocoState) NewMessage() fx.Message { return &LocoState{} }

// TypeID implements SerializableMessage.
func (m *LocoState) TypeID() uint32 { return LocoStateTypeID }

// Serializable implements SerializableMessage.
func (m *LocoState) Serializable() proto.Message { return &m.LocoState }

// LocoChanged event reports a changed roster slot.
type LocoChanged struct {
	pb.LocoState
}

// NewMessage implements Message.
func (m *LocoChanged) NewMessage() fx.Message { return &LocoChanged{} }

// TypeID implements SerializableMessage.
func (m *LocoChanged) TypeID() uint32 { return LocoChangedTypeID }

// Serializable implements SerializableMessage.
func (m *LocoChanged) Serializable() proto.Message { return &m.LocoState }

// TurnoutChanged event reports a changed turnout.
type TurnoutChanged struct {
	pb.TurnoutState
}

// NewMessage implements Message.
func (m *TurnoutChanged) NewMessage() fx.Message { return &TurnoutChanged{} }

// TypeID implements SerializableMessage.
func (m *TurnoutChanged) TypeID() uint32 { return TurnoutChangedTypeID }

// Serializable implements SerializableMessage.
func (m *TurnoutChanged) Serializable() proto.Message { return &m.TurnoutState }

// StationChanged event reports a power or mode change.
type StationChanged struct {
	pb.StationStatus
}

// NewMessage implements Message.
func (m *StationChanged) NewMessage() fx.Message { return &StationChanged{} }

// TypeID implements SerializableMessage.
func (m *StationChanged) TypeID() uint32 { return StationChangedTypeID }

// Serializable implements SerializableMessage.
func (m *StationChanged) Serializable() proto.Message { return &m.StationStatus }

// CVReadResult event reports a finished CV read. Value is -1 when the
// read could not be verified.
type CVReadResult struct {
	pb.CVReadResult
}

// NewMessage implements Message.
func (m *CVReadResult) NewMessage() fx.Message { return &CVReadResult{} }

// TypeID implements SerializableMessage.
func (m *CVReadResult) TypeID() uint32 { return CVReadResultTypeID }

// Serializable implements SerializableMessage.
func (m *CVReadResult) Serializable() proto.Message { return &m.CVReadResult }

// TypeID Groups
const (
	GroupCommand uint32 = 0x00000000
	GroupStation uint32 = 0x00010000
	GroupRoster  uint32 = 0x00020000
	GroupProgram uint32 = 0x00030000
	GroupCustom  uint32 = 0x7f000000 // base group id for custom messages.
)

// TypeIDs
const (
	CommandOKTypeID  uint32 = GroupCommand | TypeIDMaskReply | 0x0000
	CommandErrTypeID uint32 = GroupCommand | TypeIDMaskReply | 0x0001
)

// Station TypeIDs
const (
	StationStatusQueryTypeID uint32 = GroupStation | 0x0000
	PowerSetTypeID           uint32 = GroupStation | 0x0001
	EmergencyStopTypeID      uint32 = GroupStation | 0x0002
	RosterQueryTypeID        uint32 = GroupRoster | 0x0000
	LocoAcquireTypeID        uint32 = GroupRoster | 0x0001
	LocoReleaseTypeID        uint32 = GroupRoster | 0x0002
	LocoStepTypeID           uint32 = GroupRoster | 0x0003
	LocoSpeedTypeID          uint32 = GroupRoster | 0x0004
	LocoModeTypeID           uint32 = GroupRoster | 0x0005
	LocoBrakeTypeID          uint32 = GroupRoster | 0x0006
	LocoFunctionTypeID       uint32 = GroupRoster | 0x0007
	LocoConsistTypeID        uint32 = GroupRoster | 0x0008
	TurnoutSetTypeID         uint32 = GroupRoster | 0x0009
	POMWriteTypeID           uint32 = GroupProgram | 0x0000
	ServiceModeSetTypeID     uint32 = GroupProgram | 0x0001
	CVWriteTypeID            uint32 = GroupProgram | 0x0002
	CVReadTypeID             uint32 = GroupProgram | 0x0003
	StationStatusTypeID      uint32 = StationStatusQueryTypeID | TypeIDMaskReply
	RosterTypeID             uint32 = RosterQueryTypeID | TypeIDMaskReply
	LocoStateTypeID          uint32 = LocoAcquireTypeID | TypeIDMaskReply
	LocoChangedTypeID        uint32 = TypeIDKindEvent | GroupRoster | 0x0000
	TurnoutChangedTypeID     uint32 = TypeIDKindEvent | GroupRoster | 0x0001
	StationChangedTypeID     uint32 = TypeIDKindEvent | GroupStation | 0x0000
	CVReadResultTypeID       uint32 = TypeIDKindEvent | GroupProgram | 0x0000
)

var (
	// ErrUnknownCommand indicates the command is unknown.
	ErrUnknownCommand = errors.New("unknown command")
)
