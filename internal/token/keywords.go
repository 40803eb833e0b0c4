package token

var keywords = map[string]Kind{
	"native":    KwNative,
	"module":    KwModule,
	"interface": KwInterface,
	"in":        KwIn,
	"out":       KwOut,
	"constant":  KwConstant,
	"signal":    KwSignal,
	"register":  KwRegister,
	"do":        KwDo,
	"if":        KwIf,
	"else":      KwElse,
	"switch":    KwSwitch,
	"case":      KwCase,
	"default":   KwDefault,
	"bit":       KwBit,
	"vector":    KwVector,
	"memory":    KwMemory,
	"integer":   KwInteger,
	"text":      KwText,
}

// LookupKeyword возвращает тип и bool если это ключевое слово.
// Ключевые слова регистрозависимые — только lowercase версии распознаются.
func LookupKeyword(ident string) (Kind, bool) {
	k, ok := keywords[ident]
	return k, ok
}
