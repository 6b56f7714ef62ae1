// Package protocol frames the telemetry stream between the dimmer firmware
// and host tools.
//
// A frame is [len][seq][payload][crc16 hi][crc16 lo][0x7E]. The payload is a
// sequence of VLQ encoded integers, see package telemetry for their meaning.
package protocol

// Version is the telemetry stream version reported by the firmware banner.
const Version = "0.1.0"

// Protocol constants
const (
	MessageMax     = 512 // Scratch buffer size, room for several frames
	MessageMin     = 5   // Minimum message size (header + CRC)
	MessageHeader  = 2   // Message header size
	MessageTrailer = 3   // Message trailer size (CRC)

	// Message sequence masks
	MessageSeqMask  = 0x0F
	MessageSeqShift = 4
)

// Message is one decoded frame.
type Message struct {
	Length   uint8
	Sequence uint8
	Payload  []byte // Frame data without header/trailer
	CRC      uint16
}
