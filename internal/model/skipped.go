package model

// SkippedRecord describes a stored record that could not be parsed.
type SkippedRecord struct {
	ID     string
	Reason string
	Index  int
}
