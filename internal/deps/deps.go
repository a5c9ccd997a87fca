package deps

import (
	"fmt"
	"os/exec"
)

// Requirement pairs an external tool with the place it was resolved from.
type Requirement struct {
	Name       string
	Purpose    string
	Optional   bool
	Resolution Resolution
}

// Status is the availability verdict for one Requirement.
type Status struct {
	Requirement
	Available bool
	Detail    string
}

// Check confirms every resolved command can be executed from this process.
// A configured command that is not an absolute path is looked up on PATH.
func Check(requirements ...Requirement) []Status {
	statuses := make([]Status, 0, len(requirements))
	for _, req := range requirements {
		statuses = append(statuses, check(req))
	}
	return statuses
}

func check(req Requirement) Status {
	st := Status{Requirement: req}
	cmd := req.Resolution.Command
	switch {
	case cmd == "":
		st.Detail = "command not configured"
		return st
	case req.Resolution.Source == SourceMissing:
		st.Detail = fmt.Sprintf("%s not found on PATH or next to the executable", cmd)
		return st
	}
	full, err := exec.LookPath(cmd)
	if err != nil {
		st.Detail = fmt.Sprintf("%s is not executable: %v", cmd, err)
		return st
	}
	st.Resolution.Command = full
	st.Available = true
	return st
}
