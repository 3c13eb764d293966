package constants

// Source markers recorded on ledger rows (who produced the line).
const (
	SourceAuto   = "auto"   // parsed out of an uploaded invoice
	SourceManual = "manual" // typed in by an operator
)
