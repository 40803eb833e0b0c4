// Package constant holds bit-precise compile-time values and the operations
// the constant evaluator folds with them.
//
// Vector bits live in a math/big.Int where bit 0 is the least significant
// bit. Values are immutable: operations always allocate new big.Ints.
package constant
