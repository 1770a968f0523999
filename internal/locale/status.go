// Package locale provides the phrase catalog and status-name table used to
// render goods-return complaint notifications. Phrase rendering is template
// based and resolved per reseller locale; the rest of the system treats
// both as opaque collaborators.
package locale

import "claimrelay/internal/types"

// StatusUnknownName is rendered for status codes absent from the table.
// Unknown codes never fail rendering.
const StatusUnknownName = "Unknown"

// statusNames maps complaint status codes to display names.
var statusNames = map[int64]string{
	0: "Completed",
	1: "Pending",
	2: "In review",
	3: "Accepted",
	4: "Rejected",
}

// StatusTable implements types.StatusNamer over the static status table.
type StatusTable struct{}

// NewStatusTable returns the complaint status-name table.
func NewStatusTable() StatusTable {
	return StatusTable{}
}

// StatusName resolves a status code to its display name.
func (StatusTable) StatusName(code int64) string {
	if name, ok := statusNames[code]; ok {
		return name
	}
	return StatusUnknownName
}

// Compile-time assertion that StatusTable implements types.StatusNamer.
var _ types.StatusNamer = StatusTable{}
