// Package model is the typed, constant-folded form of a MaHDL module: the
// definition table, processed initializers and do-blocks. It is produced
// by sema and consumed by the Verilog generator.
package model
