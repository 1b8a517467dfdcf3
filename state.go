package mpd

// phase is where a connection stands in its request/response cycle.
type phase uint8

const (
	// phaseReady: no command outstanding, a command may be sent.
	phaseReady phase = iota

	// phaseAwaiting: a command was sent, its response is not fully read.
	phaseAwaiting

	// phaseInBatch: a list with acknowledgements was sent, sub-responses are
	// still owed.
	phaseInBatch

	// phaseBoundary: a list_OK was read and more sub-responses are owed. The
	// caller must move past it with NextListOK.
	phaseBoundary

	// phaseDone: the final OK was read.
	phaseDone

	// phaseErrored: the last response failed. The error is kept until the
	// next successful send.
	phaseErrored
)

var phaseNames = [...]string{
	phaseReady:    "ready",
	phaseAwaiting: "awaiting",
	phaseInBatch:  "in batch",
	phaseBoundary: "boundary",
	phaseDone:     "done",
	phaseErrored:  "errored",
}

func (p phase) String() string {
	if int(p) < len(phaseNames) {
		return phaseNames[p]
	}
	return "unknown"
}

// batchMode is the command-list accumulation mode.
type batchMode uint8

const (
	batchOff batchMode = iota
	batchPlain
	batchWithAck
)

// responseState replaces the done/list/listOK flag trio with a single phase
// plus the count of list_OK lines still owed.
type responseState struct {
	phase phase
	owed  int
}

// pending reports whether response lines remain to be read.
func (s *responseState) pending() bool {
	switch s.phase {
	case phaseAwaiting, phaseInBatch, phaseBoundary:
		return true
	default:
		return false
	}
}

// readable reports whether a response element may be pulled.
func (s *responseState) readable() bool {
	return s.phase == phaseAwaiting || s.phase == phaseInBatch
}

// onSent records a successful write of one command line.
func (s *responseState) onSent(mode batchMode) {
	switch mode {
	case batchOff:
		s.phase = phaseAwaiting
		s.owed = 0
	case batchWithAck:
		s.owed++
	}
}

// onBatchBegin starts a command list. Nothing is owed until commands are sent.
func (s *responseState) onBatchBegin() {
	s.phase = phaseReady
	s.owed = 0
}

// onBatchEnd records the command_list_end line.
func (s *responseState) onBatchEnd() {
	if s.owed > 0 {
		s.phase = phaseInBatch
	} else {
		s.phase = phaseAwaiting
	}
}

// onListOK records a list_OK line. It reports false when none was owed.
func (s *responseState) onListOK() bool {
	if s.owed == 0 {
		return false
	}
	s.owed--
	if s.owed > 0 {
		s.phase = phaseBoundary
	} else {
		s.phase = phaseAwaiting
	}
	return true
}

// onOK records the final OK line. It reports false when list_OK lines were
// still owed.
func (s *responseState) onOK() bool {
	if s.owed > 0 {
		return false
	}
	s.phase = phaseDone
	return true
}

// resume moves past a list boundary.
func (s *responseState) resume() {
	if s.phase == phaseBoundary {
		s.phase = phaseInBatch
	}
}

func (s *responseState) fail() {
	s.phase = phaseErrored
	s.owed = 0
}
