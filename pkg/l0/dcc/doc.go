// Package dcc provides the L0 track signal: NMRA DCC packets, the
// transmit buffer shared with the packet encoder, and the bitstream
// transmitters.
package dcc

// The transmitter owns all signal timing. It runs one half-bit per Step,
// queuing the next bit while the low half of the current one is on the
// wire. Packets move from the encoder to the transmitter through Buffer,
// a single-producer/single-consumer handoff:
//
//   - the encoder may only build a packet after a successful Claim,
//     which is possible only while the transmitter reports "free";
//   - the transmitter locks the producer out 12 bits before it copies
//     the published packet, and marks the buffer free again right after
//     the copy;
//   - if the encoder is too slow, the previous packet is sent again.
//
// Neither side blocks or takes a lock.
//
// Producer: station packet encoder
// Consumer: Transmitter or PWMTransmitter
