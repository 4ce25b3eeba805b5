// Package v1 defines the wire messages of the station protocol.
//
// The types mirror l1.proto and are encoded with github.com/golang/protobuf.
package v1

import (
	"github.com/golang/protobuf/proto"
)

// Typed message.
type Typed struct {
	TypeId   uint32 `protobuf:"varint,1,opt,name=type_id,json=typeId,proto3" json:"type_id,omitempty"`
	Sequence uint32 `protobuf:"varint,2,opt,name=sequence,proto3" json:"sequence,omitempty"`
	Message  []byte `protobuf:"bytes,3,opt,name=message,proto3" json:"message,omitempty"`
}

func (m *Typed) Reset()         { *m = Typed{} }
func (m *Typed) String() string { return proto.CompactTextString(m) }
func (*Typed) ProtoMessage()    {}

func (m *Typed) GetTypeId() uint32 {
	if m != nil {
		return m.TypeId
	}
	return 0
}

func (m *Typed) GetSequence() uint32 {
	if m != nil {
		return m.Sequence
	}
	return 0
}

func (m *Typed) GetMessage() []byte {
	if m != nil {
		return m.Message
	}
	return nil
}

// CommandOK message.
type CommandOK struct {
}

func (m *CommandOK) Reset()         { *m = CommandOK{} }
func (m *CommandOK) String() string { return proto.CompactTextString(m) }
func (*CommandOK) ProtoMessage()    {}

// CommandErr message.
type CommandErr struct {
	Message string `protobuf:"bytes,1,opt,name=message,proto3" json:"message,omitempty"`
}

func (m *CommandErr) Reset()         { *m = CommandErr{} }
func (m *CommandErr) String() string { return proto.CompactTextString(m) }
func (*CommandErr) ProtoMessage()    {}

func (m *CommandErr) GetMessage() string {
	if m != nil {
		return m.Message
	}
	return ""
}

// StationStatusQuery message.
type StationStatusQuery struct {
}

func (m *StationStatusQuery) Reset()         { *m = StationStatusQuery{} }
func (m *StationStatusQuery) String() string { return proto.CompactTextString(m) }
func (*StationStatusQuery) ProtoMessage()    {}

// StationStatus message.
type StationStatus struct {
	BusMilliAmps float64 `protobuf:"fixed64,1,opt,name=bus_milli_amps,json=busMilliAmps,proto3" json:"bus_milli_amps,omitempty"`
	BusVolts     float64 `protobuf:"fixed64,2,opt,name=bus_volts,json=busVolts,proto3" json:"bus_volts,omitempty"`
	Quiescent    float64 `protobuf:"fixed64,3,opt,name=quiescent,proto3" json:"quiescent,omitempty"`
	Trip         bool    `protobuf:"varint,4,opt,name=trip,proto3" json:"trip,omitempty"`
	ServiceMode  bool    `protobuf:"varint,5,opt,name=service_mode,json=serviceMode,proto3" json:"service_mode,omitempty"`
	TrackPower   bool    `protobuf:"varint,6,opt,name=track_power,json=trackPower,proto3" json:"track_power,omitempty"`
	Family       string  `protobuf:"bytes,7,opt,name=family,proto3" json:"family,omitempty"`
	CvState      string  `protobuf:"bytes,8,opt,name=cv_state,json=cvState,proto3" json:"cv_state,omitempty"`
	Version      uint32  `protobuf:"varint,9,opt,name=version,proto3" json:"version,omitempty"`
	Quarters     uint64  `protobuf:"varint,10,opt,name=quarters,proto3" json:"quarters,omitempty"`
	Packets      uint64  `protobuf:"varint,11,opt,name=packets,proto3" json:"packets,omitempty"`
}

func (m *StationStatus) Reset()         { *m = StationStatus{} }
func (m *StationStatus) String() string { return proto.CompactTextString(m) }
func (*StationStatus) ProtoMessage()    {}

func (m *StationStatus) GetBusMilliAmps() float64 {
	if m != nil {
		return m.BusMilliAmps
	}
	return 0
}

func (m *StationStatus) GetBusVolts() float64 {
	if m != nil {
		return m.BusVolts
	}
	return 0
}

func (m *StationStatus) GetQuiescent() float64 {
	if m != nil {
		return m.Quiescent
	}
	return 0
}

func (m *StationStatus) GetTrip() bool {
	if m != nil {
		return m.Trip
	}
	return false
}

func (m *StationStatus) GetServiceMode() bool {
	if m != nil {
		return m.ServiceMode
	}
	return false
}

func (m *StationStatus) GetTrackPower() bool {
	if m != nil {
		return m.TrackPower
	}
	return false
}

func (m *StationStatus) GetFamily() string {
	if m != nil {
		return m.Family
	}
	return ""
}

func (m *StationStatus) GetCvState() string {
	if m != nil {
		return m.CvState
	}
	return ""
}

func (m *StationStatus) GetVersion() uint32 {
	if m != nil {
		return m.Version
	}
	return 0
}

func (m *StationStatus) GetQuarters() uint64 {
	if m != nil {
		return m.Quarters
	}
	return 0
}

func (m *StationStatus) GetPackets() uint64 {
	if m != nil {
		return m.Packets
	}
	return 0
}

// PowerSet message.
type PowerSet struct {
	On bool `protobuf:"varint,1,opt,name=on,proto3" json:"on,omitempty"`
}

func (m *PowerSet) Reset()         { *m = PowerSet{} }
func (m *PowerSet) String() string { return proto.CompactTextString(m) }
func (*PowerSet) ProtoMessage()    {}

func (m *PowerSet) GetOn() bool {
	if m != nil {
		return m.On
	}
	return false
}

// EmergencyStop message.
type EmergencyStop struct {
}

func (m *EmergencyStop) Reset()         { *m = EmergencyStop{} }
func (m *EmergencyStop) String() string { return proto.CompactTextString(m) }
func (*EmergencyStop) ProtoMessage()    {}

// LocoState message.
type LocoState struct {
	Slot        int32  `protobuf:"varint,1,opt,name=slot,proto3" json:"slot,omitempty"`
	Name        string `protobuf:"bytes,2,opt,name=name,proto3" json:"name,omitempty"`
	Address     uint32 `protobuf:"varint,3,opt,name=address,proto3" json:"address,omitempty"`
	LongAddress bool   `protobuf:"varint,4,opt,name=long_address,json=longAddress,proto3" json:"long_address,omitempty"`
	Use128      bool   `protobuf:"varint,5,opt,name=use128,proto3" json:"use128,omitempty"`
	SpeedStep   uint32 `protobuf:"varint,6,opt,name=speed_step,json=speedStep,proto3" json:"speed_step,omitempty"`
	Forward     bool   `protobuf:"varint,7,opt,name=forward,proto3" json:"forward,omitempty"`
	Brake       bool   `protobuf:"varint,8,opt,name=brake,proto3" json:"brake,omitempty"`
	Functions   uint32 `protobuf:"varint,9,opt,name=functions,proto3" json:"functions,omitempty"`
	Consist     uint32 `protobuf:"varint,10,opt,name=consist,proto3" json:"consist,omitempty"`
	Estop       bool   `protobuf:"varint,11,opt,name=estop,proto3" json:"estop,omitempty"`
}

func (m *LocoState) Reset()         { *m = LocoState{} }
func (m *LocoState) String() string { return proto.CompactTextString(m) }
func (*LocoState) ProtoMessage()    {}

func (m *LocoState) GetSlot() int32 {
	if m != nil {
		return m.Slot
	}
	return 0
}

func (m *LocoState) GetName() string {
	if m != nil {
		return m.Name
	}
	return ""
}

func (m *LocoState) GetAddress() uint32 {
	if m != nil {
		return m.Address
	}
	return 0
}

func (m *LocoState) GetLongAddress() bool {
	if m != nil {
		return m.LongAddress
	}
	return false
}

func (m *LocoState) GetUse128() bool {
	if m != nil {
		return m.Use128
	}
	return false
}

func (m *LocoState) GetSpeedStep() uint32 {
	if m != nil {
		return m.SpeedStep
	}
	return 0
}

func (m *LocoState) GetForward() bool {
	if m != nil {
		return m.Forward
	}
	return false
}

func (m *LocoState) GetBrake() bool {
	if m != nil {
		return m.Brake
	}
	return false
}

func (m *LocoState) GetFunctions() uint32 {
	if m != nil {
		return m.Functions
	}
	return 0
}

func (m *LocoState) GetConsist() uint32 {
	if m != nil {
		return m.Consist
	}
	return 0
}

func (m *LocoState) GetEstop() bool {
	if m != nil {
		return m.Estop
	}
	return false
}

// TurnoutState message.
type TurnoutState struct {
	Slot    int32  `protobuf:"varint,1,opt,name=slot,proto3" json:"slot,omitempty"`
	Name    string `protobuf:"bytes,2,opt,name=name,proto3" json:"name,omitempty"`
	Address uint32 `protobuf:"varint,3,opt,name=address,proto3" json:"address,omitempty"`
	Thrown  bool   `protobuf:"varint,4,opt,name=thrown,proto3" json:"thrown,omitempty"`
}

func (m *TurnoutState) Reset()         { *m = TurnoutState{} }
func (m *TurnoutState) String() string { return proto.CompactTextString(m) }
func (*TurnoutState) ProtoMessage()    {}

func (m *TurnoutState) GetSlot() int32 {
	if m != nil {
		return m.Slot
	}
	return 0
}

func (m *TurnoutState) GetName() string {
	if m != nil {
		return m.Name
	}
	return ""
}

func (m *TurnoutState) GetAddress() uint32 {
	if m != nil {
		return m.Address
	}
	return 0
}

func (m *TurnoutState) GetThrown() bool {
	if m != nil {
		return m.Thrown
	}
	return false
}

// RosterQuery message.
type RosterQuery struct {
}

func (m *RosterQuery) Reset()         { *m = RosterQuery{} }
func (m *RosterQuery) String() string { return proto.CompactTextString(m) }
func (*RosterQuery) ProtoMessage()    {}

// Roster message.
type Roster struct {
	Locos    []*LocoState    `protobuf:"bytes,1,rep,name=locos,proto3" json:"locos,omitempty"`
	Turnouts []*TurnoutState `protobuf:"bytes,2,rep,name=turnouts,proto3" json:"turnouts,omitempty"`
}

func (m *Roster) Reset()         { *m = Roster{} }
func (m *Roster) String() string { return proto.CompactTextString(m) }
func (*Roster) ProtoMessage()    {}

func (m *Roster) GetLocos() []*LocoState {
	if m != nil {
		return m.Locos
	}
	return nil
}

func (m *Roster) GetTurnouts() []*TurnoutState {
	if m != nil {
		return m.Turnouts
	}
	return nil
}

// LocoAcquire message.
type LocoAcquire struct {
	Address     uint32 `protobuf:"varint,1,opt,name=address,proto3" json:"address,omitempty"`
	LongAddress bool   `protobuf:"varint,2,opt,name=long_address,json=longAddress,proto3" json:"long_address,omitempty"`
}

func (m *LocoAcquire) Reset()         { *m = LocoAcquire{} }
func (m *LocoAcquire) String() string { return proto.CompactTextString(m) }
func (*LocoAcquire) ProtoMessage()    {}

func (m *LocoAcquire) GetAddress() uint32 {
	if m != nil {
		return m.Address
	}
	return 0
}

func (m *LocoAcquire) GetLongAddress() bool {
	if m != nil {
		return m.LongAddress
	}
	return false
}

// LocoRelease message.
type LocoRelease struct {
	Slot int32 `protobuf:"varint,1,opt,name=slot,proto3" json:"slot,omitempty"`
}

func (m *LocoRelease) Reset()         { *m = LocoRelease{} }
func (m *LocoRelease) String() string { return proto.CompactTextString(m) }
func (*LocoRelease) ProtoMessage()    {}

func (m *LocoRelease) GetSlot() int32 {
	if m != nil {
		return m.Slot
	}
	return 0
}

// LocoStep message.
type LocoStep struct {
	Slot      int32 `protobuf:"varint,1,opt,name=slot,proto3" json:"slot,omitempty"`
	Delta     int32 `protobuf:"varint,2,opt,name=delta,proto3" json:"delta,omitempty"`
	Direction bool  `protobuf:"varint,3,opt,name=direction,proto3" json:"direction,omitempty"`
}

func (m *LocoStep) Reset()         { *m = LocoStep{} }
func (m *LocoStep) String() string { return proto.CompactTextString(m) }
func (*LocoStep) ProtoMessage()    {}

func (m *LocoStep) GetSlot() int32 {
	if m != nil {
		return m.Slot
	}
	return 0
}

func (m *LocoStep) GetDelta() int32 {
	if m != nil {
		return m.Delta
	}
	return 0
}

func (m *LocoStep) GetDirection() bool {
	if m != nil {
		return m.Direction
	}
	return false
}

// LocoSpeed message.
type LocoSpeed struct {
	Slot      int32  `protobuf:"varint,1,opt,name=slot,proto3" json:"slot,omitempty"`
	SpeedStep uint32 `protobuf:"varint,2,opt,name=speed_step,json=speedStep,proto3" json:"speed_step,omitempty"`
	Forward   bool   `protobuf:"varint,3,opt,name=forward,proto3" json:"forward,omitempty"`
}

func (m *LocoSpeed) Reset()         { *m = LocoSpeed{} }
func (m *LocoSpeed) String() string { return proto.CompactTextString(m) }
func (*LocoSpeed) ProtoMessage()    {}

func (m *LocoSpeed) GetSlot() int32 {
	if m != nil {
		return m.Slot
	}
	return 0
}

func (m *LocoSpeed) GetSpeedStep() uint32 {
	if m != nil {
		return m.SpeedStep
	}
	return 0
}

func (m *LocoSpeed) GetForward() bool {
	if m != nil {
		return m.Forward
	}
	return false
}

// LocoMode message.
type LocoMode struct {
	Slot   int32 `protobuf:"varint,1,opt,name=slot,proto3" json:"slot,omitempty"`
	Use128 bool  `protobuf:"varint,2,opt,name=use128,proto3" json:"use128,omitempty"`
}

func (m *LocoMode) Reset()         { *m = LocoMode{} }
func (m *LocoMode) String() string { return proto.CompactTextString(m) }
func (*LocoMode) ProtoMessage()    {}

func (m *LocoMode) GetSlot() int32 {
	if m != nil {
		return m.Slot
	}
	return 0
}

func (m *LocoMode) GetUse128() bool {
	if m != nil {
		return m.Use128
	}
	return false
}

// LocoBrake message.
type LocoBrake struct {
	Slot int32 `protobuf:"varint,1,opt,name=slot,proto3" json:"slot,omitempty"`
	On   bool  `protobuf:"varint,2,opt,name=on,proto3" json:"on,omitempty"`
}

func (m *LocoBrake) Reset()         { *m = LocoBrake{} }
func (m *LocoBrake) String() string { return proto.CompactTextString(m) }
func (*LocoBrake) ProtoMessage()    {}

func (m *LocoBrake) GetSlot() int32 {
	if m != nil {
		return m.Slot
	}
	return 0
}

func (m *LocoBrake) GetOn() bool {
	if m != nil {
		return m.On
	}
	return false
}

// LocoFunction message.
type LocoFunction struct {
	Slot     int32  `protobuf:"varint,1,opt,name=slot,proto3" json:"slot,omitempty"`
	Function uint32 `protobuf:"varint,2,opt,name=function,proto3" json:"function,omitempty"`
	On       bool   `protobuf:"varint,3,opt,name=on,proto3" json:"on,omitempty"`
}

func (m *LocoFunction) Reset()         { *m = LocoFunction{} }
func (m *LocoFunction) String() string { return proto.CompactTextString(m) }
func (*LocoFunction) ProtoMessage()    {}

func (m *LocoFunction) GetSlot() int32 {
	if m != nil {
		return m.Slot
	}
	return 0
}

func (m *LocoFunction) GetFunction() uint32 {
	if m != nil {
		return m.Function
	}
	return 0
}

func (m *LocoFunction) GetOn() bool {
	if m != nil {
		return m.On
	}
	return false
}

// LocoConsist message.
type LocoConsist struct {
	Slot    int32  `protobuf:"varint,1,opt,name=slot,proto3" json:"slot,omitempty"`
	Consist uint32 `protobuf:"varint,2,opt,name=consist,proto3" json:"consist,omitempty"`
}

func (m *LocoConsist) Reset()         { *m = LocoConsist{} }
func (m *LocoConsist) String() string { return proto.CompactTextString(m) }
func (*LocoConsist) ProtoMessage()    {}

func (m *LocoConsist) GetSlot() int32 {
	if m != nil {
		return m.Slot
	}
	return 0
}

func (m *LocoConsist) GetConsist() uint32 {
	if m != nil {
		return m.Consist
	}
	return 0
}

// TurnoutSet message.
type TurnoutSet struct {
	Address uint32 `protobuf:"varint,1,opt,name=address,proto3" json:"address,omitempty"`
	Thrown  bool   `protobuf:"varint,2,opt,name=thrown,proto3" json:"thrown,omitempty"`
}

func (m *TurnoutSet) Reset()         { *m = TurnoutSet{} }
func (m *TurnoutSet) String() string { return proto.CompactTextString(m) }
func (*TurnoutSet) ProtoMessage()    {}

func (m *TurnoutSet) GetAddress() uint32 {
	if m != nil {
		return m.Address
	}
	return 0
}

func (m *TurnoutSet) GetThrown() bool {
	if m != nil {
		return m.Thrown
	}
	return false
}

// POMWrite message.
type POMWrite struct {
	Address string `protobuf:"bytes,1,opt,name=address,proto3" json:"address,omitempty"`
	Cv      int32  `protobuf:"varint,2,opt,name=cv,proto3" json:"cv,omitempty"`
	Value   string `protobuf:"bytes,3,opt,name=value,proto3" json:"value,omitempty"`
}

func (m *POMWrite) Reset()         { *m = POMWrite{} }
func (m *POMWrite) String() string { return proto.CompactTextString(m) }
func (*POMWrite) ProtoMessage()    {}

func (m *POMWrite) GetAddress() string {
	if m != nil {
		return m.Address
	}
	return ""
}

func (m *POMWrite) GetCv() int32 {
	if m != nil {
		return m.Cv
	}
	return 0
}

func (m *POMWrite) GetValue() string {
	if m != nil {
		return m.Value
	}
	return ""
}

// ServiceModeSet message.
type ServiceModeSet struct {
	Enter bool `protobuf:"varint,1,opt,name=enter,proto3" json:"enter,omitempty"`
}

func (m *ServiceModeSet) Reset()         { *m = ServiceModeSet{} }
func (m *ServiceModeSet) String() string { return proto.CompactTextString(m) }
func (*ServiceModeSet) ProtoMessage()    {}

func (m *ServiceModeSet) GetEnter() bool {
	if m != nil {
		return m.Enter
	}
	return false
}

// CVWrite message.
type CVWrite struct {
	Cv    int32 `protobuf:"varint,1,opt,name=cv,proto3" json:"cv,omitempty"`
	Value int32 `protobuf:"varint,2,opt,name=value,proto3" json:"value,omitempty"`
}

func (m *CVWrite) Reset()         { *m = CVWrite{} }
func (m *CVWrite) String() string { return proto.CompactTextString(m) }
func (*CVWrite) ProtoMessage()    {}

func (m *CVWrite) GetCv() int32 {
	if m != nil {
		return m.Cv
	}
	return 0
}

func (m *CVWrite) GetValue() int32 {
	if m != nil {
		return m.Value
	}
	return 0
}

// CVRead message.
type CVRead struct {
	Cv int32 `protobuf:"varint,1,opt,name=cv,proto3" json:"cv,omitempty"`
}

func (m *CVRead) Reset()         { *m = CVRead{} }
func (m *CVRead) String() string { return proto.CompactTextString(m) }
func (*CVRead) ProtoMessage()    {}

func (m *CVRead) GetCv() int32 {
	if m != nil {
		return m.Cv
	}
	return 0
}

// CVReadResult message.
type CVReadResult struct {
	Cv    int32 `protobuf:"varint,1,opt,name=cv,proto3" json:"cv,omitempty"`
	Value int32 `protobuf:"varint,2,opt,name=value,proto3" json:"value,omitempty"`
}

func (m *CVReadResult) Reset()         { *m = CVReadResult{} }
func (m *CVReadResult) String() string { return proto.CompactTextString(m) }
func (*CVReadResult) ProtoMessage()    {}

func (m *CVReadResult) GetCv() int32 {
	if m != nil {
		return m.Cv
	}
	return 0
}

func (m *CVReadResult) GetValue() int32 {
	if m != nil {
		return m.Value
	}
	return 0
}
