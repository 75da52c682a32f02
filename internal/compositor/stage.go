package compositor

import (
	"fmt"

	"github.com/youruser/mockupapp/internal/errs"
)

// Stage is a render's progress. Stages only move forward, one step at a time.
type Stage int

const (
	StageInitialized Stage = iota
	StageBackgroundDrawn
	StageOutlineDrawn
	StageSlotsDrawn
	StageElementsDrawn
	StageExported
)

var stageNames = [...]string{
	StageInitialized:     "initialized",
	StageBackgroundDrawn: "background-drawn",
	StageOutlineDrawn:    "outline-drawn",
	StageSlotsDrawn:      "slots-drawn",
	StageElementsDrawn:   "elements-drawn",
	StageExported:        "exported",
}

func (s Stage) String() string {
	if s >= 0 && int(s) < len(stageNames) {
		return stageNames[s]
	}
	return fmt.Sprintf("Stage(%d)", int(s))
}

// next moves from s to to, which must be the immediate successor.
func (s Stage) next(to Stage) (Stage, error) {
	if to != s+1 || to > StageExported {
		return s, errs.New(errs.CodeInternal, "stage %s cannot follow %s", to, s)
	}
	return to, nil
}
