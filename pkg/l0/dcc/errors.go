package dcc

import (
	"errors"
	"fmt"
)

var (
	// ErrChecksum indicates the trailing byte is not the XOR of the others.
	ErrChecksum = errors.New("checksum mismatch")
	// ErrShortPacket indicates fewer than 3 bytes between preamble and stop bit.
	ErrShortPacket = errors.New("short packet")
	// ErrPacketTooLong indicates more than MaxPacketLen bytes.
	ErrPacketTooLong = errors.New("packet too long")
)

// AddressError reports an address outside the valid range of its kind.
type AddressError struct {
	Kind    string
	Address int
}

// Error implements error.
func (e *AddressError) Error() string {
	return fmt.Sprintf("invalid %s address %d", e.Kind, e.Address)
}

// ValidateAddress checks a multi-function decoder address.
func ValidateAddress(addr int, long bool) error {
	if long {
		if addr < 1 || addr > MaxLongAddress {
			return &AddressError{Kind: "long", Address: addr}
		}
		return nil
	}
	if addr < 1 || addr > MaxShortAddress {
		return &AddressError{Kind: "short", Address: addr}
	}
	return nil
}

// ValidateAccessoryAddress checks an accessory decoder address.
func ValidateAccessoryAddress(addr int) error {
	if addr < 1 || addr > MaxAccessoryAddress {
		return &AddressError{Kind: "accessory", Address: addr}
	}
	return nil
}
