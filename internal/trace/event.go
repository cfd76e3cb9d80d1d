package trace

import "time"

// Kind represents the type of trace event.
type Kind uint8

const (
	// KindSpanBegin marks the start of a logical operation.
	KindSpanBegin Kind = iota + 1
	// KindSpanEnd marks the end of a logical operation.
	KindSpanEnd
	// KindPoint represents an instant event.
	KindPoint
	// KindError reports a failure; it passes every level except off.
	KindError
)

var kindNames = [...]string{
	KindSpanBegin: "begin",
	KindSpanEnd:   "end",
	KindPoint:     "point",
	KindError:     "error",
}

func (k Kind) String() string { return lookupName(kindNames[:], int(k)) }

// Scope indicates the granularity level of the event.
// Lower numeric values represent coarser events.
type Scope uint8

const (
	// ScopeDriver covers whole CLI commands.
	ScopeDriver Scope = iota + 1
	// ScopePass covers load / analyze / render passes.
	ScopePass
	// ScopeFile covers the processing of one input file.
	ScopeFile
	// ScopeCache covers individual cache lookups.
	ScopeCache
)

var scopeNames = [...]string{
	ScopeDriver: "driver",
	ScopePass:   "pass",
	ScopeFile:   "file",
	ScopeCache:  "cache",
}

func (s Scope) String() string { return lookupName(scopeNames[:], int(s)) }

// lookupName отдаёт "unknown" для нулевых и выходящих за таблицу значений.
func lookupName(names []string, i int) string {
	if i < 0 || i >= len(names) || names[i] == "" {
		return "unknown"
	}
	return names[i]
}

// Event represents a single trace event.
type Event struct {
	Time     time.Time         // wall-clock timestamp
	Seq      uint64            // global sequence number (monotonic)
	Kind     Kind              // event kind
	Scope    Scope             // granularity level
	SpanID   uint64            // unique span identifier
	ParentID uint64            // parent span (0 if root)
	Name     string            // e.g. "check_dir", "analyze", "file:a.decl"
	Detail   string            // optional detail message
	Elapsed  time.Duration     // span duration, set on KindSpanEnd
	Extra    map[string]string // extensible key-value pairs
}
