// Package verilog renders processed MaHDL modules as Verilog-2001 text.
//
// The output layout is fixed: header, port declarations, net and variable
// declarations, continuous assignments, one initial block, one always
// block per do-block, instantiations. Expressions Verilog cannot take
// where a plain identifier is required (clocks, selection bases, operands
// of signExtend and truncate) are moved into synthesized wires s0, s1, ...
package verilog
