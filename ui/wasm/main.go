//go:build js && wasm

// Command wasm exposes the telemetry decoder to a browser page so captured
// dimmer streams can be inspected offline.
package main

import (
	"encoding/hex"
	"syscall/js"

	"starlight/protocol"
	"starlight/telemetry"
)

func main() {
	js.Global().Set("starlightWasm", js.ValueOf(map[string]interface{}{
		"decodeFrames": js.FuncOf(decodeFramesWrapper),
		"crc16":        js.FuncOf(crc16Wrapper),
		"version":      protocol.Version,
	}))

	// Keep the program running
	select {}
}

// decodeFramesWrapper decodes every frame in a captured stream
// Args: hexString (string)
// Returns: {events: [{sequence, kind, at, value, text, error}], lost, resyncs, error}
func decodeFramesWrapper(this js.Value, args []js.Value) interface{} {
	if len(args) < 1 {
		return makeStreamResult(nil, 0, 0, "missing hex string argument")
	}

	data, err := hex.DecodeString(args[0].String())
	if err != nil {
		return makeStreamResult(nil, 0, 0, "invalid hex string: "+err.Error())
	}

	var events []interface{}
	dec := protocol.NewFrameDecoder(func(msg *protocol.Message) {
		entry := map[string]interface{}{
			"sequence": int(msg.Sequence & protocol.MessageSeqMask),
		}
		ev, err := telemetry.Decode(msg.Payload)
		if err != nil {
			entry["error"] = err.Error()
		} else {
			entry["kind"] = int(ev.Kind)
			entry["at"] = int(ev.At)
			entry["value"] = int(ev.Value)
			entry["text"] = telemetry.Describe(ev)
		}
		events = append(events, entry)
	})
	dec.Receive(protocol.NewSliceInputBuffer(data))

	return makeStreamResult(events, int(dec.Lost()), int(dec.Resyncs()), "")
}

// crc16Wrapper calculates the frame checksum
// Args: hexString (string)
// Returns: number (uint16)
func crc16Wrapper(this js.Value, args []js.Value) interface{} {
	if len(args) < 1 {
		return js.ValueOf(0)
	}

	data, err := hex.DecodeString(args[0].String())
	if err != nil {
		return js.ValueOf(0)
	}
	return js.ValueOf(int(protocol.CRC16(data)))
}

func makeStreamResult(events []interface{}, lost, resyncs int, errMsg string) js.Value {
	if events == nil {
		events = []interface{}{}
	}
	result := map[string]interface{}{
		"events":  events,
		"lost":    lost,
		"resyncs": resyncs,
	}
	if errMsg != "" {
		result["error"] = errMsg
	}
	return js.ValueOf(result)
}
