// Package sema turns a MaHDL syntax tree into a typed model.Module.
//
// ProcessModule runs the definition collector and the constant evaluator in
// lockstep over the declarations, then processes signal initializers and
// do-blocks section by section while enforcing the assignment discipline.
// Every problem is reported through the diag.Reporter and replaced by an
// Unknown-typed value, so a single run reports everything it can.
package sema
