package modbusout

import (
	"math"

	"github.com/mikesmitty/mcc134"
)

// Register layout of one board: RegistersPerChannel holding registers per
// channel, channels in order. A channel block is the status code followed by
// the value as a big-endian IEEE-754 float32 (high word first).
const (
	RegistersPerChannel = 3
	RegistersPerBoard   = mcc134.NumChannels * RegistersPerChannel
)

// Status codes of a channel block.
const (
	CodeOK          uint16 = 0
	CodeOpenCircuit uint16 = 1
	CodeCommonMode  uint16 = 2
	CodeOverrange   uint16 = 3
	CodeUnavailable uint16 = 4
)

// Channel is one input as published.
type Channel struct {
	// Enabled is false for disabled inputs and inputs that failed to read.
	Enabled bool
	Reading mcc134.Reading
}

func statusCode(c Channel) uint16 {
	if !c.Enabled {
		return CodeUnavailable
	}
	switch c.Reading.Status {
	case mcc134.StatusOK:
		return CodeOK
	case mcc134.StatusOpenCircuit:
		return CodeOpenCircuit
	case mcc134.StatusCommonModeError:
		return CodeCommonMode
	default:
		return CodeOverrange
	}
}

// Encode builds the register block of a board. Missing channels are encoded
// as unavailable. Unavailable channels carry NaN, the other non-OK statuses
// carry the legacy out-of-range constants.
// No IO.
func Encode(chans []Channel) []uint16 {
	regs := make([]uint16, RegistersPerBoard)
	for i := 0; i < mcc134.NumChannels; i++ {
		var c Channel
		if i < len(chans) {
			c = chans[i]
		}
		code := statusCode(c)
		v := float32(math.NaN())
		if code != CodeUnavailable {
			v = float32(c.Reading.Value())
		}
		bits := math.Float32bits(v)

		base := i * RegistersPerChannel
		regs[base] = code
		regs[base+1] = uint16(bits >> 16)
		regs[base+2] = uint16(bits)
	}
	return regs
}

func packRegisters(regs []uint16) []byte {
	out := make([]byte, len(regs)*2)
	for i, r := range regs {
		out[2*i] = byte(r >> 8)
		out[2*i+1] = byte(r)
	}
	return out
}
