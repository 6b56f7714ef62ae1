package core

// DebugWriter is a function type for writing debug messages
type DebugWriter func(string)

// TraceEvent captures a dimmer lifecycle event for post-mortem analysis
type TraceEvent struct {
	Kind   uint8  // Trace kind code
	Clock  uint32 // System clock (ms) at event
	Value1 uint32 // Context-dependent value
	Value2 uint32 // Context-dependent value
}

// Trace kind codes
const (
	TraceState      = 1 // State transition: v1=new state
	TraceGesture    = 2 // Gesture classified: v1=gesture, v2=distance
	TraceSwitch     = 3 // Switch callback: v1=on
	TraceRangeError = 4 // Range status error: v1=code
	TraceHotPlug    = 5 // Sensor reset detected: v1=state at detection, v2=ranging polls
	TraceBusError   = 6 // Bus transaction failed: v1=register
)

const (
	TraceRingSize = 32 // Keep last 32 events for post-mortem
)

var (
	// debugPrintln is the global debug print function (can be set by platform code)
	debugPrintln DebugWriter = func(s string) {} // No-op by default

	// debugEnabled controls whether debug output is active
	debugEnabled bool = false

	traceRing     [TraceRingSize]TraceEvent
	traceRingHead uint8
	traceEnabled  bool = true

	// Async debug output channel
	debugChan chan string
)

// SetDebugWriter sets the platform-specific debug output function
// This allows platforms to redirect debug output to UART, USB, etc.
func SetDebugWriter(writer DebugWriter) {
	debugPrintln = writer
}

// SetDebugEnabled enables or disables debug output
func SetDebugEnabled(enabled bool) {
	debugEnabled = enabled
}

// IsDebugEnabled returns whether debug output is enabled
func IsDebugEnabled() bool {
	return debugEnabled
}

// InitAsyncDebug starts the async debug output goroutine
// Call this from main() after SetDebugWriter
func InitAsyncDebug() {
	debugChan = make(chan string, 16)
	go debugOutputWorker()
}

func debugOutputWorker() {
	for msg := range debugChan {
		if debugPrintln != nil {
			debugPrintln(msg)
		}
	}
}

// DebugPrintln writes a debug message using the platform-specific writer.
// When async output is running the message is queued instead, so the poll
// loop never waits on a slow console.
func DebugPrintln(msg string) {
	if !debugEnabled || debugPrintln == nil {
		return
	}
	if debugChan != nil {
		DebugAsync(msg)
		return
	}
	debugPrintln(msg)
}

// DebugAsync queues a debug message for async output (non-blocking)
// Returns immediately even if channel is full (drops message)
func DebugAsync(msg string) {
	if debugChan != nil {
		select {
		case debugChan <- msg:
		default:
		}
	}
}

// RecordTrace captures an event in the ring buffer. Always non-blocking.
func RecordTrace(kind uint8, clock, value1, value2 uint32) {
	if !traceEnabled {
		return
	}
	idx := traceRingHead
	traceRing[idx] = TraceEvent{
		Kind:   kind,
		Clock:  clock,
		Value1: value1,
		Value2: value2,
	}
	traceRingHead = (idx + 1) % TraceRingSize
}

// TraceSnapshot returns the recorded events from oldest to newest
func TraceSnapshot() []TraceEvent {
	events := make([]TraceEvent, 0, TraceRingSize)
	start := traceRingHead
	for i := uint8(0); i < TraceRingSize; i++ {
		evt := traceRing[(start+i)%TraceRingSize]
		if evt.Kind == 0 {
			continue // Empty slot
		}
		events = append(events, evt)
	}
	return events
}

// DumpTraceRing outputs the trace ring buffer through the debug writer
func DumpTraceRing() {
	if debugPrintln == nil {
		return
	}

	debugPrintln("[TRACE] === Trace Ring Dump ===")
	for _, evt := range TraceSnapshot() {
		debugPrintln("[TRACE] " + traceKindName(evt.Kind) +
			" clock=" + Utoa(evt.Clock) +
			" v1=" + Utoa(evt.Value1) +
			" v2=" + Utoa(evt.Value2))
	}
	debugPrintln("[TRACE] === End Dump ===")
}

// ClearTraceRing clears the trace buffer
func ClearTraceRing() {
	for i := range traceRing {
		traceRing[i] = TraceEvent{}
	}
	traceRingHead = 0
}

func traceKindName(kind uint8) string {
	switch kind {
	case TraceState:
		return "STATE"
	case TraceGesture:
		return "GESTURE"
	case TraceSwitch:
		return "SWITCH"
	case TraceRangeError:
		return "RANGE_ERR"
	case TraceHotPlug:
		return "HOT_PLUG!"
	case TraceBusError:
		return "BUS_ERR"
	default:
		return "UNKNOWN"
	}
}
