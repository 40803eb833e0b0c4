package lexer

import (
	"mahdl/internal/diag"
	"mahdl/internal/source"
)

// maxTokenLength ограничивает длину одного токена в байтах.
// Более длинный токен считается мусором: лексер репортит и проматывает до EOF.
const maxTokenLength = 64 * 1024

type Options struct {
	Reporter diag.Reporter // может быть nil — тогда ошибки игнорируем (но продолжаем лексить)
}

func (lx *Lexer) errLex(code diag.Code, sp source.Span, msg string) {
	if lx.opts.Reporter != nil {
		lx.opts.Reporter.Report(code, diag.SevError, sp, msg, nil)
	}
}
