// Package lint checks processed modules against an embedded Rego policy.
//
// Facts about every definition (kind, type, position, read/assigned flags)
// are fed to OPA; each violation becomes an LNT warning.
package lint
