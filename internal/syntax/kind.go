package syntax

// Kind identifies a syntax tree node: a token leaf or a grammar production.
type Kind uint8

const (
	KindToken Kind = iota
	KindFile
	// KindError wraps everything discarded during one error recovery.
	KindError
	// KindErrorMarker is an empty node at the position where the error was detected.
	KindErrorMarker

	KindModule
	KindModuleHeader
	KindQualifiedName
	KindInterface
	KindPortGroups
	KindPortGroup
	KindIdentList

	KindBitType
	KindVectorType
	KindMemoryType
	KindIntegerType
	KindTextType

	KindImplItems
	KindSignalLikeGroup
	KindDefinitions
	KindDefinition
	KindModuleInstance
	KindDoBlock

	KindStatements
	KindAssignStmt
	KindIfStmt
	KindSwitchStmt
	KindBlockStmt
	KindCaseItems
	KindCaseItem
	KindDefaultItem

	KindExprList
	KindIdentExpr
	KindLiteralExpr
	KindParenExpr
	KindInstancePortExpr
	KindIndexExpr
	KindRangeExpr
	KindCallExpr
	KindUnaryExpr
	KindBinaryExpr
	KindConditionalExpr

	kindCount
)

var kindNames = [...]string{
	KindToken:            "Token",
	KindFile:             "File",
	KindError:            "Error",
	KindErrorMarker:      "ErrorMarker",
	KindModule:           "Module",
	KindModuleHeader:     "ModuleHeader",
	KindQualifiedName:    "QualifiedName",
	KindInterface:        "Interface",
	KindPortGroups:       "PortGroups",
	KindPortGroup:        "PortGroup",
	KindIdentList:        "IdentList",
	KindBitType:          "BitType",
	KindVectorType:       "VectorType",
	KindMemoryType:       "MemoryType",
	KindIntegerType:      "IntegerType",
	KindTextType:         "TextType",
	KindImplItems:        "ImplItems",
	KindSignalLikeGroup:  "SignalLikeGroup",
	KindDefinitions:      "Definitions",
	KindDefinition:       "Definition",
	KindModuleInstance:   "ModuleInstance",
	KindDoBlock:          "DoBlock",
	KindStatements:       "Statements",
	KindAssignStmt:       "AssignStmt",
	KindIfStmt:           "IfStmt",
	KindSwitchStmt:       "SwitchStmt",
	KindBlockStmt:        "BlockStmt",
	KindCaseItems:        "CaseItems",
	KindCaseItem:         "CaseItem",
	KindDefaultItem:      "DefaultItem",
	KindExprList:         "ExprList",
	KindIdentExpr:        "IdentExpr",
	KindLiteralExpr:      "LiteralExpr",
	KindParenExpr:        "ParenExpr",
	KindInstancePortExpr: "InstancePortExpr",
	KindIndexExpr:        "IndexExpr",
	KindRangeExpr:        "RangeExpr",
	KindCallExpr:         "CallExpr",
	KindUnaryExpr:        "UnaryExpr",
	KindBinaryExpr:       "BinaryExpr",
	KindConditionalExpr:  "ConditionalExpr",
}

func (k Kind) String() string {
	if int(k) < len(kindNames) && kindNames[k] != "" {
		return kindNames[k]
	}
	return "Kind(?)"
}

// IsExpr reports whether k is one of the expression productions.
func (k Kind) IsExpr() bool {
	return k >= KindIdentExpr && k <= KindConditionalExpr
}

// IsStmt reports whether k is one of the statement productions.
func (k Kind) IsStmt() bool {
	return k >= KindAssignStmt && k <= KindBlockStmt
}

// IsDataType reports whether k is one of the data type productions.
func (k Kind) IsDataType() bool {
	return k >= KindBitType && k <= KindTextType
}
