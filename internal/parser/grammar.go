package parser

import (
	"strings"

	"mahdl/internal/lr"
	"mahdl/internal/syntax"
	"mahdl/internal/token"
)

// PrecNoElse and PrecUnary are pseudo-terminals used only in %prec.
const (
	precNoElse = "PrecNoElse"
	precUnary  = "PrecUnary"
)

func seq(s string) []string { return strings.Fields(s) }

// terminals derives grammar terminals from token kinds: keywords and
// operators are named by their spelling, other kinds by their Kind name.
func terminals() []lr.Terminal {
	var out []lr.Terminal
	for _, k := range token.Kinds() {
		switch {
		case k == token.Invalid || k == token.EOF:
			continue
		case k.IsKeyword() || k.IsOperator():
			out = append(out, lr.Terminal{Name: k.Describe(), Kind: k, Display: "'" + k.Describe() + "'"})
		default:
			out = append(out, lr.Terminal{Name: k.String(), Kind: k, Display: k.Describe()})
		}
	}
	return out
}

func binary(op string) lr.Rule {
	return lr.Rule{LHS: "Expr", RHS: []string{"Expr", op, "Expr"}, Kind: syntax.KindBinaryExpr}
}

func list(lhs string, kind syntax.Kind, rhs string) lr.Rule {
	return lr.Rule{LHS: lhs, RHS: seq(rhs), Kind: kind, Flatten: true}
}

func recovery(lhs string) lr.Rule {
	return lr.Rule{LHS: lhs, RHS: []string{lr.ErrorName}, PassThrough: true}
}

// Grammar returns the MaHDL grammar.
func Grammar() *lr.Grammar {
	rules := []lr.Rule{
		{LHS: "Module", RHS: seq("ModuleHeader Interface ImplItems"), Kind: syntax.KindModule},

		{LHS: "ModuleHeader", RHS: seq("module QualifiedName ;"), Kind: syntax.KindModuleHeader},
		{LHS: "ModuleHeader", RHS: seq("native module QualifiedName ;"), Kind: syntax.KindModuleHeader},
		{LHS: "ModuleHeader", RHS: seq("error ;"), Kind: syntax.KindModuleHeader},

		{LHS: "QualifiedName", RHS: seq("Ident"), Kind: syntax.KindQualifiedName},
		list("QualifiedName", syntax.KindQualifiedName, "QualifiedName . Ident"),

		{LHS: "Interface", RHS: seq("interface { PortGroups }"), Kind: syntax.KindInterface},
		recovery("Interface"),

		{LHS: "PortGroups", Kind: syntax.KindPortGroups},
		list("PortGroups", syntax.KindPortGroups, "PortGroups PortGroup"),
		{LHS: "PortGroup", RHS: seq("in DataType IdentList ;"), Kind: syntax.KindPortGroup},
		{LHS: "PortGroup", RHS: seq("out DataType IdentList ;"), Kind: syntax.KindPortGroup},
		recovery("PortGroup"),

		{LHS: "IdentList", RHS: seq("Ident"), Kind: syntax.KindIdentList},
		list("IdentList", syntax.KindIdentList, "IdentList , Ident"),

		{LHS: "DataType", RHS: seq("bit"), Kind: syntax.KindBitType},
		{LHS: "DataType", RHS: seq("vector [ Expr ]"), Kind: syntax.KindVectorType},
		{LHS: "DataType", RHS: seq("memory [ Expr ] [ Expr ]"), Kind: syntax.KindMemoryType},
		{LHS: "DataType", RHS: seq("integer"), Kind: syntax.KindIntegerType},
		{LHS: "DataType", RHS: seq("text"), Kind: syntax.KindTextType},

		{LHS: "ImplItems", Kind: syntax.KindImplItems},
		list("ImplItems", syntax.KindImplItems, "ImplItems ImplItem"),
		{LHS: "ImplItem", RHS: seq("constant DataType Definitions ;"), Kind: syntax.KindSignalLikeGroup},
		{LHS: "ImplItem", RHS: seq("signal DataType Definitions ;"), Kind: syntax.KindSignalLikeGroup},
		{LHS: "ImplItem", RHS: seq("register DataType Definitions ;"), Kind: syntax.KindSignalLikeGroup},
		{LHS: "ImplItem", RHS: seq("QualifiedName Ident ;"), Kind: syntax.KindModuleInstance},
		{LHS: "ImplItem", RHS: seq("do ( * ) Stmt"), Kind: syntax.KindDoBlock},
		{LHS: "ImplItem", RHS: seq("do ( Expr ) Stmt"), Kind: syntax.KindDoBlock},
		recovery("ImplItem"),

		{LHS: "Definitions", RHS: seq("Definition"), Kind: syntax.KindDefinitions},
		list("Definitions", syntax.KindDefinitions, "Definitions , Definition"),
		{LHS: "Definition", RHS: seq("Ident"), Kind: syntax.KindDefinition},
		{LHS: "Definition", RHS: seq("Ident = Expr"), Kind: syntax.KindDefinition},

		{LHS: "Stmt", RHS: seq("Expr = Expr ;"), Kind: syntax.KindAssignStmt},
		{LHS: "Stmt", RHS: seq("if ( Expr ) Stmt"), Kind: syntax.KindIfStmt, Prec: precNoElse},
		{LHS: "Stmt", RHS: seq("if ( Expr ) Stmt else Stmt"), Kind: syntax.KindIfStmt},
		{LHS: "Stmt", RHS: seq("switch ( Expr ) { CaseItems }"), Kind: syntax.KindSwitchStmt},
		{LHS: "Stmt", RHS: seq("{ Statements }"), Kind: syntax.KindBlockStmt},
		recovery("Stmt"),

		{LHS: "Statements", Kind: syntax.KindStatements},
		list("Statements", syntax.KindStatements, "Statements Stmt"),

		{LHS: "CaseItems", Kind: syntax.KindCaseItems},
		list("CaseItems", syntax.KindCaseItems, "CaseItems CaseItem"),
		{LHS: "CaseItem", RHS: seq("case ExprList : Statements"), Kind: syntax.KindCaseItem},
		{LHS: "CaseItem", RHS: seq("default : Statements"), Kind: syntax.KindDefaultItem},

		{LHS: "ExprList", RHS: seq("Expr"), Kind: syntax.KindExprList},
		list("ExprList", syntax.KindExprList, "ExprList , Expr"),

		{LHS: "Expr", RHS: seq("Ident"), Kind: syntax.KindIdentExpr},
		{LHS: "Expr", RHS: seq("IntLit"), Kind: syntax.KindLiteralExpr},
		{LHS: "Expr", RHS: seq("VectorLit"), Kind: syntax.KindLiteralExpr},
		{LHS: "Expr", RHS: seq("TextLit"), Kind: syntax.KindLiteralExpr},
		{LHS: "Expr", RHS: seq("( Expr )"), Kind: syntax.KindParenExpr},
		{LHS: "Expr", RHS: seq("Ident . Ident"), Kind: syntax.KindInstancePortExpr},
		{LHS: "Expr", RHS: seq("Expr [ Expr ]"), Kind: syntax.KindIndexExpr},
		{LHS: "Expr", RHS: seq("Expr [ Expr : Expr ]"), Kind: syntax.KindRangeExpr},
		{LHS: "Expr", RHS: seq("Ident ( ExprList )"), Kind: syntax.KindCallExpr},
		{LHS: "Expr", RHS: seq("Ident ( )"), Kind: syntax.KindCallExpr},
		{LHS: "Expr", RHS: seq("! Expr"), Kind: syntax.KindUnaryExpr, Prec: precUnary},
		{LHS: "Expr", RHS: seq("- Expr"), Kind: syntax.KindUnaryExpr, Prec: precUnary},
		{LHS: "Expr", RHS: seq("+ Expr"), Kind: syntax.KindUnaryExpr, Prec: precUnary},
		{LHS: "Expr", RHS: seq("Expr ? Expr : Expr"), Kind: syntax.KindConditionalExpr, Prec: "?"},
	}
	for _, op := range seq("| ^ & == != < <= > >= _ << >> + - * / %") {
		rules = append(rules, binary(op))
	}

	return &lr.Grammar{
		Terminals: terminals(),
		Start:     "Module",
		Rules:     rules,
		// от низшего приоритета к высшему
		Precedence: []lr.PrecLevel{
			{Assoc: lr.AssocNonassoc, Terminals: []string{precNoElse}},
			{Assoc: lr.AssocNonassoc, Terminals: []string{"else"}},
			{Assoc: lr.AssocRight, Terminals: []string{"?"}},
			{Assoc: lr.AssocLeft, Terminals: []string{"|"}},
			{Assoc: lr.AssocLeft, Terminals: []string{"^"}},
			{Assoc: lr.AssocLeft, Terminals: []string{"&"}},
			{Assoc: lr.AssocNonassoc, Terminals: []string{"==", "!="}},
			{Assoc: lr.AssocNonassoc, Terminals: []string{"<", "<=", ">", ">="}},
			{Assoc: lr.AssocLeft, Terminals: []string{"_"}},
			{Assoc: lr.AssocLeft, Terminals: []string{"<<", ">>"}},
			{Assoc: lr.AssocLeft, Terminals: []string{"+", "-"}},
			{Assoc: lr.AssocLeft, Terminals: []string{"*", "/", "%"}},
			{Assoc: lr.AssocRight, Terminals: []string{precUnary}},
			{Assoc: lr.AssocLeft, Terminals: []string{"["}},
		},
	}
}
