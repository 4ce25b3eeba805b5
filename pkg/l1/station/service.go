package station

import (
	"fmt"

	"github.com/robotalks/dcc.go/pkg/l0/dcc"
)

// ServiceState is the state of a service mode (programming track)
// operation.
type ServiceState int

// Service mode states.
const (
	CVIdle ServiceState = iota
	PGStart
	PGPageWrite
	PGReset
	PGWrite
	PGReset2
	DStart
	DWrite
	DReset
	RDStart
	RDVerify
	RDReset
	RDFinal
)

var serviceStateNames = [...]string{
	CVIdle:      "CV_IDLE",
	PGStart:     "PG_START",
	PGPageWrite: "PG_PG_WRITE",
	PGReset:     "PG_RESET",
	PGWrite:     "PG_WRITE",
	PGReset2:    "PG_RESET_2",
	DStart:      "D_START",
	DWrite:      "D_WRITE",
	DReset:      "D_RESET",
	RDStart:     "RD_START",
	RDVerify:    "RD_VERIFY",
	RDReset:     "RD_RESET",
	RDFinal:     "RD_FINAL",
}

func (s ServiceState) String() string {
	if s >= 0 && int(s) < len(serviceStateNames) {
		return serviceStateNames[s]
	}
	return fmt.Sprintf("ServiceState(%d)", int(s))
}

// Packet repeat counts of each service mode phase. The NMRA minimums
// are 3 resets before a sequence, 5 instructions and 6 (10 after a
// paged write) recovery resets.
const (
	ServiceStartRepeats       = 10
	ServiceInstructionRepeats = 6
	ServiceRecoveryRepeats    = 10
	ReadRecoveryRepeats       = 8
)

// AckThreshold is the current rise (mA) above the baseline taken as an
// acknowledgement pulse.
const AckThreshold = 20

// CVUnknown is the CV value reported when a read failed.
const CVUnknown = -1

// MaxCV is the highest addressable CV.
const MaxCV = 1024

// CVState is the service mode operation in progress.
type CVState struct {
	State ServiceState
	// Reg is the CV number, 1..1024.
	Reg uint16
	// Data is the value to write, or the value being assembled by a
	// read. CVUnknown after a failed read.
	Data int
	// Paged mode page and data register derived from Reg.
	Page    uint8
	PageReg uint8
	// Bit is the read cursor, 7 down to -1.
	Bit int
	// Count is the remaining number of transmissions of the last
	// packet.
	Count   int
	Timeout int
}

// SetReg sets the CV number and derives the paged mode address.
func (cv *CVState) SetReg(reg uint16) {
	cv.Reg = reg
	v := int(reg) - 1
	cv.Page = uint8(v/4 + 1)
	cv.PageReg = uint8(v % 4)
}

// Busy indicates an operation is in progress.
func (cv *CVState) Busy() bool {
	return cv.State != CVIdle
}

// ServiceInput is what the state machine reads from the outside.
type ServiceInput struct {
	// AckBase is the bus current captured when the read started.
	AckBase float64
	// AckSample is the current sampled after the verify burst.
	AckSample float64
}

// ServiceResult is the outcome of one ServiceStep.
type ServiceResult struct {
	CV CVState
	// Packet is the packet to send, nil to repeat the previous one.
	Packet *dcc.Packet
	// Arm switches the sensor to trigger mode before the recovery
	// burst so the acknowledgement pulse is captured.
	Arm bool
	// Disarm switches the sensor back to averaging.
	Disarm bool
	// Ack is the acknowledgement evaluated in RD_FINAL.
	Ack bool
	// Complete reports a finished read; CV.Data holds the value.
	Complete bool
}

func servicePacket(long bool, b ...byte) *dcc.Packet {
	p := dcc.NewPacket(b...)
	p.LongPreamble = long
	return &p
}

func resetPacket() *dcc.Packet {
	return servicePacket(true, 0, 0)
}

func cvAddress(reg uint16) (hi, lo byte) {
	v := reg - 1
	return byte(v>>8) & 0x03, byte(v)
}

// ServiceStep advances the service mode state machine by one claimed
// transmit buffer. A phase only advances once its packet has been sent
// Count times.
func ServiceStep(cv CVState, in ServiceInput) (r ServiceResult) {
	if cv.Count > 0 {
		cv.Count--
	}
	if cv.Count != 0 {
		r.CV = cv
		return
	}

	hi, lo := cvAddress(cv.Reg)
	switch cv.State {
	case PGStart:
		r.Packet, cv.Count, cv.State = resetPacket(), ServiceStartRepeats, PGPageWrite
	case PGPageWrite:
		r.Packet = servicePacket(true, 0x7d, cv.Page)
		cv.Count, cv.State = ServiceInstructionRepeats, PGReset
	case PGReset:
		r.Packet, cv.Count, cv.State = resetPacket(), ServiceRecoveryRepeats, PGWrite
	case PGWrite:
		r.Packet = servicePacket(true, 0x78|cv.PageReg&0x03, byte(cv.Data))
		cv.Count, cv.State = ServiceInstructionRepeats, PGReset2
	case PGReset2:
		r.Packet, cv.Count, cv.State = resetPacket(), ServiceRecoveryRepeats, CVIdle

	case DStart:
		r.Packet, cv.Count, cv.State = resetPacket(), ServiceStartRepeats, DWrite
	case DWrite:
		r.Packet = servicePacket(true, 0x7c|hi, lo, byte(cv.Data))
		cv.Count, cv.State = ServiceInstructionRepeats, DReset
	case DReset:
		r.Packet, cv.Count, cv.State = resetPacket(), ServiceRecoveryRepeats, CVIdle

	case RDStart:
		r.Packet, cv.Count, cv.State = resetPacket(), ServiceStartRepeats, RDVerify
	case RDVerify:
		if cv.Bit >= 0 {
			r.Packet = servicePacket(true, 0x78|hi, lo, 0xe8|byte(cv.Bit)&0x07)
		} else {
			r.Packet = servicePacket(true, 0x74|hi, lo, byte(cv.Data))
		}
		cv.Count, cv.State = ServiceInstructionRepeats, RDReset
		// the acknowledgement may come any time from the second
		// instruction to the end of the recovery burst
		r.Arm = true
	case RDReset:
		r.Packet, cv.Count, cv.State = resetPacket(), ReadRecoveryRepeats, RDFinal
	case RDFinal:
		// no new packet: the last reset goes out once more
		r.Ack = in.AckSample-in.AckBase > AckThreshold
		if cv.Bit >= 0 {
			cv.Data <<= 1
			if r.Ack {
				cv.Data++
			}
			cv.Bit--
			cv.State = RDStart
			break
		}
		if r.Ack {
			cv.Data &= 0xff
		} else {
			cv.Data = CVUnknown
		}
		cv.State = CVIdle
		r.Disarm, r.Complete = true, true

	default:
		r.Packet = servicePacket(false, 0xff, 0)
	}
	r.CV = cv
	return
}
