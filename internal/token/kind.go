package token

// Kind represents the category of a source token.
type Kind uint8

const (
	// Invalid indicates an erroneous token.
	Invalid Kind = iota
	// EOF marks the end of the source input.
	EOF

	// Ident represents an identifier token.
	Ident

	KwNative    // native
	KwModule    // module
	KwInterface // interface
	KwIn        // in
	KwOut       // out
	KwConstant  // constant
	KwSignal    // signal
	KwRegister  // register
	KwDo        // do
	KwIf        // if
	KwElse      // else
	KwSwitch    // switch
	KwCase      // case
	KwDefault   // default
	KwBit       // bit
	KwVector    // vector
	KwMemory    // memory
	KwInteger   // integer
	KwText      // text

	// IntLit is a decimal integer literal such as 42.
	IntLit
	// VectorLit is a sized vector literal such as 8h1F.
	VectorLit
	// TextLit is a double-quoted text literal.
	TextLit

	Plus       // +
	Minus      // -
	Star       // *
	Slash      // /
	Percent    // %
	Assign     // =
	EqEq       // ==
	Bang       // !
	BangEq     // !=
	Lt         // <
	LtEq       // <=
	Gt         // >
	GtEq       // >=
	Shl        // <<
	Shr        // >>
	Amp        // &
	Pipe       // |
	Caret      // ^
	Question   // ?
	Colon      // :
	Semicolon  // ;
	Comma      // ,
	Dot        // .
	LParen     // (
	RParen     // )
	LBrace     // {
	RBrace     // }
	LBracket   // [
	RBracket   // ]
	Underscore // _ (concatenation)

	kindCount
)

var kindNames = [...]string{
	Invalid:     "Invalid",
	EOF:         "EOF",
	Ident:       "Ident",
	KwNative:    "KwNative",
	KwModule:    "KwModule",
	KwInterface: "KwInterface",
	KwIn:        "KwIn",
	KwOut:       "KwOut",
	KwConstant:  "KwConstant",
	KwSignal:    "KwSignal",
	KwRegister:  "KwRegister",
	KwDo:        "KwDo",
	KwIf:        "KwIf",
	KwElse:      "KwElse",
	KwSwitch:    "KwSwitch",
	KwCase:      "KwCase",
	KwDefault:   "KwDefault",
	KwBit:       "KwBit",
	KwVector:    "KwVector",
	KwMemory:    "KwMemory",
	KwInteger:   "KwInteger",
	KwText:      "KwText",
	IntLit:      "IntLit",
	VectorLit:   "VectorLit",
	TextLit:     "TextLit",
	Plus:        "Plus",
	Minus:       "Minus",
	Star:        "Star",
	Slash:       "Slash",
	Percent:     "Percent",
	Assign:      "Assign",
	EqEq:        "EqEq",
	Bang:        "Bang",
	BangEq:      "BangEq",
	Lt:          "Lt",
	LtEq:        "LtEq",
	Gt:          "Gt",
	GtEq:        "GtEq",
	Shl:         "Shl",
	Shr:         "Shr",
	Amp:         "Amp",
	Pipe:        "Pipe",
	Caret:       "Caret",
	Question:    "Question",
	Colon:       "Colon",
	Semicolon:   "Semicolon",
	Comma:       "Comma",
	Dot:         "Dot",
	LParen:      "LParen",
	RParen:      "RParen",
	LBrace:      "LBrace",
	RBrace:      "RBrace",
	LBracket:    "LBracket",
	RBracket:    "RBracket",
	Underscore:  "Underscore",
}

// кастомные подписи для сообщений об ошибках ("expected ';'")
var kindLexemes = map[Kind]string{
	EOF: "end of file", Ident: "identifier",
	IntLit: "integer literal", VectorLit: "vector literal", TextLit: "text literal",
	Plus: "+", Minus: "-", Star: "*", Slash: "/", Percent: "%", Assign: "=",
	EqEq: "==", Bang: "!", BangEq: "!=", Lt: "<", LtEq: "<=", Gt: ">", GtEq: ">=",
	Shl: "<<", Shr: ">>", Amp: "&", Pipe: "|", Caret: "^", Question: "?", Colon: ":",
	Semicolon: ";", Comma: ",", Dot: ".", LParen: "(", RParen: ")", LBrace: "{",
	RBrace: "}", LBracket: "[", RBracket: "]", Underscore: "_",
}

func (k Kind) String() string {
	if int(k) < len(kindNames) {
		return kindNames[k]
	}
	return "Kind(?)"
}

// Describe returns the user-facing spelling of the kind: the keyword or
// operator itself, or a category name such as "identifier".
func (k Kind) Describe() string {
	if s, ok := kindLexemes[k]; ok {
		return s
	}
	if k.IsKeyword() {
		for word, kw := range keywords {
			if kw == k {
				return word
			}
		}
	}
	return k.String()
}

// IsKeyword reports whether k is a language keyword.
func (k Kind) IsKeyword() bool {
	return k >= KwNative && k <= KwText
}

// Kinds returns every valid token kind, in declaration order.
func Kinds() []Kind {
	out := make([]Kind, 0, kindCount)
	for k := Invalid; k < kindCount; k++ {
		out = append(out, k)
	}
	return out
}

// IsOperator reports whether k is a punctuation or operator kind.
func (k Kind) IsOperator() bool {
	return k >= Plus && k <= Underscore
}
