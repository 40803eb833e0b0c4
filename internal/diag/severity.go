package diag

// Severity orders diagnostics. Any SevError in a file stops its Verilog from
// being written; warnings (lint, module naming) and info (OBS timings) never do.
type Severity uint8

const (
	SevInfo Severity = iota
	SevWarning
	SevError
)

// String is the upper-case form used by the pretty and JSON renderers.
func (s Severity) String() string {
	switch s {
	case SevInfo:
		return "INFO"
	case SevWarning:
		return "WARNING"
	case SevError:
		return "ERROR"
	}
	return "UNKNOWN"
}

// Label is the lower-case form of the short and golden formats.
func (s Severity) Label() string {
	switch s {
	case SevError:
		return "error"
	case SevWarning:
		return "warning"
	}
	return "info"
}

// SarifLevel maps s onto the SARIF result levels; info becomes "note".
func (s Severity) SarifLevel() string {
	if s == SevInfo {
		return "note"
	}
	return s.Label()
}

// Blocking reports whether s prevents code generation.
func (s Severity) Blocking() bool { return s >= SevError }
