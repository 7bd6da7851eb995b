package daemon

// State names a phase of the per-disc processing loop.
type State string

const (
	StateWaitingForMedia State = "waiting_for_media"
	StateProbing         State = "probing"
	StateClassifying     State = "classifying"
	StateIdentifying     State = "identifying"
	StateExtracting      State = "extracting"
	StateEncoding        State = "encoding"
	StateFinalizing      State = "finalizing"
	StateEjecting        State = "ejecting"
)

// String implements fmt.Stringer.
func (s State) String() string { return string(s) }
