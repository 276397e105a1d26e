// Copyright 2021-2022, Offchain Labs, Inc.
// For license information, see https://github.com/nitro/blob/master/LICENSE

package settlement

import (
	"fmt"

	"github.com/pkg/errors"
)

var (
	ErrBuild         = errors.New("building settlement transaction failed")
	ErrSimulation    = errors.New("settlement call simulation failed")
	ErrGasEstimation = errors.New("settlement gas estimation failed")
	ErrSubmission    = errors.New("sending settlement transaction failed")
	ErrConfirmation  = errors.New("settlement receipt unavailable")
	ErrReverted      = errors.New("settlement transaction reverted")
)

// Stage is a step of a single settlement attempt.
type Stage int

const (
	StageBuilt Stage = iota
	StageSimulated
	StageGasEstimated
	StageSent
	StageConfirmed
)

func (s Stage) String() string {
	switch s {
	case StageBuilt:
		return "built"
	case StageSimulated:
		return "simulated"
	case StageGasEstimated:
		return "gas-estimated"
	case StageSent:
		return "sent"
	case StageConfirmed:
		return "confirmed"
	default:
		return fmt.Sprintf("stage(%d)", int(s))
	}
}

// sentinel is the error reported when the transition into s fails.
func (s Stage) sentinel() error {
	switch s {
	case StageBuilt:
		return ErrBuild
	case StageSimulated:
		return ErrSimulation
	case StageGasEstimated:
		return ErrGasEstimation
	case StageSent:
		return ErrSubmission
	default:
		return ErrConfirmation
	}
}

// StageError reports the stage a submission failed to reach and why.
// Both the stage sentinel and the cause match with errors.Is.
type StageError struct {
	Stage Stage
	Cause error
}

func newStageError(stage Stage, cause error) *StageError {
	return &StageError{Stage: stage, Cause: cause}
}

func (e *StageError) Error() string {
	return fmt.Sprintf("%v: %v", e.Stage.sentinel(), e.Cause)
}

func (e *StageError) Unwrap() []error {
	return []error{e.Stage.sentinel(), e.Cause}
}
