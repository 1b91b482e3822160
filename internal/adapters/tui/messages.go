package tui

import "time"

type msgPlan struct {
	Stage    string
	Subjects []string
}

type msgTaskStart struct {
	SpanID    string
	ParentID  string
	Name      string
	StartTime time.Time
}

type msgTaskProgress struct {
	SpanID string
	Step   string
}

type msgTaskComplete struct {
	SpanID  string
	EndTime time.Time
	Err     error
}
