package domain

// Report is the presentation structure terminal reporters render.
type Report struct {
	Title    string
	Range    DateRange
	Sections []ReportSection
}

// ReportSection is one logical block of a rendered report.
type ReportSection struct {
	Title   string
	Summary map[string]any
	Details []ReportDetail
}

// ReportDetail is one labeled line within a section.
type ReportDetail struct {
	Name        string
	Value       any
	Unit        string
	Description string
}
