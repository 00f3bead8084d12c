package intake

import (
	"fmt"
	"strings"
)

// Stage identifies a step of the intake state machine.
type Stage int

const (
	StageStart Stage = iota
	StageClassify
	StageExtract
	StageDecide
	StageAnalyze
	StageExecute
	StageRespond
	StageEnd
)

var stageNames = [...]string{
	StageStart:    "start",
	StageClassify: "classify",
	StageExtract:  "extract",
	StageDecide:   "decide",
	StageAnalyze:  "analyze",
	StageExecute:  "execute",
	StageRespond:  "respond",
	StageEnd:      "end",
}

func (s Stage) String() string {
	if s < 0 || int(s) >= len(stageNames) {
		return fmt.Sprintf("stage(%d)", int(s))
	}
	return stageNames[s]
}

// Next returns the stage that follows stage for the given state. It reads
// state and never changes it.
func Next(stage Stage, state *State) Stage {
	switch stage {
	case StageStart:
		return StageClassify
	case StageClassify:
		if state.IsComplaint {
			return StageExtract
		}
		return StageRespond
	case StageExtract:
		return StageDecide
	case StageDecide:
		switch state.NextAction {
		case NextAnalyze:
			return StageAnalyze
		case NextExecute:
			return StageExecute
		default:
			return StageRespond
		}
	case StageAnalyze:
		return StageExecute
	case StageExecute:
		return StageRespond
	default:
		return StageEnd
	}
}

type transition struct {
	from, to Stage
	when     string
}

// transitions lists every edge Next can take.
var transitions = []transition{
	{StageStart, StageClassify, ""},
	{StageClassify, StageExtract, "is_complaint"},
	{StageClassify, StageRespond, "not is_complaint"},
	{StageExtract, StageDecide, ""},
	{StageDecide, StageAnalyze, "analyze"},
	{StageDecide, StageExecute, "execute"},
	{StageDecide, StageRespond, "respond / end"},
	{StageAnalyze, StageExecute, ""},
	{StageExecute, StageRespond, ""},
	{StageRespond, StageEnd, ""},
}

// Mermaid renders the stage graph as a Mermaid flowchart. Node ids are upper
// case because "end" is reserved in Mermaid.
func Mermaid() string {
	var b strings.Builder
	b.WriteString("graph TD\n")
	for _, t := range transitions {
		if t.when == "" {
			fmt.Fprintf(&b, "    %s --> %s\n", nodeID(t.from), nodeID(t.to))
			continue
		}
		fmt.Fprintf(&b, "    %s -->|%s| %s\n", nodeID(t.from), t.when, nodeID(t.to))
	}
	return b.String()
}

func nodeID(s Stage) string {
	return strings.ToUpper(s.String())
}
