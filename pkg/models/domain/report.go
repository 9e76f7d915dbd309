package domain

import "time"

// Report is a printable rendition of an analytics result
type Report struct {
	Title       string
	Business    string
	Period      TimePeriod
	Sections    []ReportSection
	TotalAmount float64
}

// TimePeriod represents a time range for the report
type TimePeriod struct {
	Start    time.Time
	End      time.Time
	Duration int // in days
}

// ReportSection represents a logical section in the report
type ReportSection struct {
	Title   string
	Summary map[string]interface{}
	Columns ReportColumns
	Details []ReportDetail
}

// ReportColumns names the row label and value columns of a section's table.
// Empty names fall back to "Name" and "Value".
type ReportColumns struct {
	Name  string
	Value string
}

// ReportDetail represents one row within a section
type ReportDetail struct {
	Name        string
	Value       interface{}
	Unit        string
	Description string
}
