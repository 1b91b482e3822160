package tui

import "time"

// Messages exposed for driving the model without a program.

func PlanMsg(stage string, subjects []string) any {
	return msgPlan{Stage: stage, Subjects: subjects}
}

func StartMsg(spanID, parentID, name string) any {
	return msgTaskStart{SpanID: spanID, ParentID: parentID, Name: name, StartTime: time.Time{}}
}

func ProgressMsg(spanID, step string) any {
	return msgTaskProgress{SpanID: spanID, Step: step}
}

func CompleteMsg(spanID string, err error) any {
	return msgTaskComplete{SpanID: spanID, Err: err}
}
