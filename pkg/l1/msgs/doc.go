// Package msgs provides the station protocol and all message schemas.
package msgs

// The station protocol is communicated between the command station
// (L1 controller) and remote throttles and tools (L2), using typed
// protobuf messages in a Typed envelope.
//
// Commands: sent by throttles, replied by the station with the reply
// type or CommandOK/CommandErr.
// Events: sent by the station on roster, power and CV read changes.
