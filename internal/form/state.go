// Package form holds the state of one code-generation form: the three
// inputs and the outcome of the last request.
package form

import "errors"

var (
	ErrIncomplete = errors.New("all three fields are required")
	ErrInFlight   = errors.New("a generation request is already in flight")
	ErrNotLoading = errors.New("no generation request is in flight")
)

type Inputs struct {
	TechStack string `json:"techStack"`
	DBSchema  string `json:"dbSchema"`
	APIDesc   string `json:"apiDesc"`
}

// Complete reports whether every field is non-empty.
func (in Inputs) Complete() bool {
	return in.TechStack != "" && in.DBSchema != "" && in.APIDesc != ""
}

type Status int

const (
	Idle Status = iota
	Loading
	Success
	Failed
)

func (s Status) String() string {
	switch s {
	case Idle:
		return "idle"
	case Loading:
		return "loading"
	case Success:
		return "success"
	case Failed:
		return "failed"
	default:
		return "unknown"
	}
}

// State is not safe for concurrent use; the owning UI is its only writer.
type State struct {
	inputs Inputs
	status Status
	output string
	errMsg string
}

func (s *State) SetTechStack(v string) { s.inputs.TechStack = v }
func (s *State) SetDBSchema(v string) { s.inputs.DBSchema = v }
func (s *State) SetAPIDesc(v string) { s.inputs.APIDesc = v }

// SetInputs replaces all three fields at once.
func (s *State) SetInputs(in Inputs) { s.inputs = in }

func (s *State) Inputs() Inputs { return s.inputs }
func (s *State) Status() Status { return s.status }
func (s *State) Output() string { return s.output }
func (s *State) ErrorMessage() string { return s.errMsg }
func (s *State) Loading() bool { return s.status == Loading }

// CanSubmit is true when every field is filled in and nothing is in flight.
func (s *State) CanSubmit() bool {
	return s.inputs.Complete() && s.status != Loading
}

// Begin moves the form to Loading, clearing the previous output and error,
// and returns the inputs the request must be built from.
func (s *State) Begin() (Inputs, error) {
	if s.status == Loading {
		return Inputs{}, ErrInFlight
	}
	if !s.inputs.Complete() {
		return Inputs{}, ErrIncomplete
	}
	s.status = Loading
	s.output = ""
	s.errMsg = ""
	return s.inputs, nil
}

// Resolve records a successful response.
func (s *State) Resolve(output string) error {
	if s.status != Loading {
		return ErrNotLoading
	}
	s.status = Success
	s.output = output
	return nil
}

// Reject records a failed request with the message shown to the user.
func (s *State) Reject(message string) error {
	if s.status != Loading {
		return ErrNotLoading
	}
	s.status = Failed
	s.errMsg = message
	return nil
}

// Snapshot is a read-only copy of State for rendering and JSON.
type Snapshot struct {
	Inputs    Inputs `json:"inputs"`
	Status    string `json:"status"`
	Loading   bool   `json:"loading"`
	Output    string `json:"output"`
	Error     string `json:"error,omitempty"`
	CanSubmit bool   `json:"canSubmit"`
}

func (s *State) Snapshot() Snapshot {
	return Snapshot{
		Inputs:    s.inputs,
		Status:    s.status.String(),
		Loading:   s.Loading(),
		Output:    s.output,
		Error:     s.errMsg,
		CanSubmit: s.CanSubmit(),
	}
}
