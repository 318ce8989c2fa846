package pipeline

import (
	"errors"
	"fmt"

	"github.com/rajashekharkeesari/Telcom-churn-prediction/pkg/dataprep"
)

// Per-request error kinds. The first three are caused by the input record; a shape
// mismatch means the schema and classifier disagree and is never the caller's fault.
var (
	ErrValidation      = dataprep.ErrValidation
	ErrOutOfRange      = dataprep.ErrOutOfRange
	ErrUnknownCategory = dataprep.ErrUnknownCategory
	ErrShapeMismatch   = errors.New("feature shape mismatch")
)

// Stage names a step of the transformation.
type Stage string

const (
	StageCoerce    Stage = "coerce"
	StageBin       Stage = "bin"
	StageEncode    Stage = "encode"
	StageAssemble  Stage = "assemble"
	StageClassify  Stage = "classify"
	StageInterpret Stage = "interpret"
)

// StageError records which stage failed and why.
type StageError struct {
	Stage Stage
	Field string
	Err   error
}

func (e *StageError) Error() string {
	if e.Field != "" {
		return fmt.Sprintf("%s %s: %v", e.Stage, e.Field, e.Err)
	}
	return fmt.Sprintf("%s: %v", e.Stage, e.Err)
}

func (e *StageError) Unwrap() error { return e.Err }

func stageError(stage Stage, err error) error {
	se := &StageError{Stage: stage, Err: err}
	var fe *dataprep.FieldError
	if errors.As(err, &fe) {
		se.Field = fe.Field
	}
	return se
}

// IsUserError reports whether err was caused by the input record rather than by an
// internal inconsistency.
func IsUserError(err error) bool {
	if errors.Is(err, ErrShapeMismatch) {
		return false
	}
	return errors.Is(err, ErrValidation) ||
		errors.Is(err, ErrOutOfRange) ||
		errors.Is(err, ErrUnknownCategory)
}

// ErrorStage returns the stage that produced err, or "" if err is not a StageError.
func ErrorStage(err error) Stage {
	var se *StageError
	if errors.As(err, &se) {
		return se.Stage
	}
	return ""
}
