package diag

import (
	"fmt"
)

type Code uint16

const (
	// Неизвестная ошибка - на первое время
	UnknownCode Code = 0

	// Лексические
	LexInfo                     Code = 1000
	LexUnknownChar              Code = 1001
	LexUnterminatedText         Code = 1002
	LexUnterminatedBlockComment Code = 1003
	LexBadNumber                Code = 1004
	LexTokenTooLong             Code = 1005

	// Парсерные
	SynInfo            Code = 2000
	SynUnexpectedToken Code = 2001
	SynUnrecoverable   Code = 2099

	// Семантические: имена
	SemaInfo                Code = 3000
	SemaRedeclaration       Code = 3001
	SemaUnresolvedSymbol    Code = 3002
	SemaUnresolvedModule    Code = 3003
	SemaUnknownInstancePort Code = 3004
	SemaNotAnInstance       Code = 3005
	SemaInstanceAsValue     Code = 3006
	SemaUnknownFunction     Code = 3007

	// типы
	SemaTypeMismatch     Code = 3010
	SemaOperandType      Code = 3011
	SemaDisallowedType   Code = 3012
	SemaConditionType    Code = 3013
	SemaIndexType        Code = 3014
	SemaArgumentCount    Code = 3015
	SemaClockType        Code = 3016
	SemaSelectorType     Code = 3017
	SemaRangeOnNonVector Code = 3018

	// константы
	SemaConstantRequired   Code = 3030
	SemaDivisionByZero     Code = 3031
	SemaShiftRange         Code = 3032
	SemaIndexOutOfRange    Code = 3033
	SemaInvalidSize        Code = 3034
	SemaMalformedLiteral   Code = 3035
	SemaLiteralOverflow    Code = 3036
	SemaValueDoesNotFit    Code = 3037
	SemaInvalidEscape      Code = 3038
	SemaUnterminatedEscape Code = 3039
	SemaInvalidArgument    Code = 3040

	// присваивания
	SemaInvalidTarget        Code = 3050
	SemaAssignInput          Code = 3051
	SemaMustBeContinuous     Code = 3052
	SemaMustBeClocked        Code = 3053
	SemaAssignConstant       Code = 3054
	SemaAlreadyAssigned      Code = 3055
	SemaMissingAssignment    Code = 3056
	SemaWholeMemoryAssign    Code = 3057
	SemaDuplicateCase        Code = 3058
	SemaDuplicateDefault     Code = 3059
	SemaNativeImplementation Code = 3060

	// IO
	IOLoadFileError Code = 4001
	IOWriteError    Code = 4002

	// Проектные
	ProjInfo                   Code = 5000
	ProjManifestInvalid        Code = 5001
	ProjDuplicateModule        Code = 5002
	ProjInconsistentModuleName Code = 5003
	ProjRecursiveInstance      Code = 5004

	// Observability
	ObsInfo    Code = 6000
	ObsTimings Code = 6001

	// Генерация Verilog
	GenInfo        Code = 7000
	GenUnknownType Code = 7001
	GenMalformed   Code = 7002

	// Линтер
	LintInfo                  Code = 8000
	LintUnused                Code = 8001
	LintNaming                Code = 8002
	LintUninitializedRegister Code = 8003
	LintPolicy                Code = 8099
)

var (
	codeDescription = map[Code]string{
		UnknownCode:                 "Unknown error",
		LexInfo:                     "Lexical information",
		LexUnknownChar:              "Unknown character",
		LexUnterminatedText:         "Unterminated text literal",
		LexUnterminatedBlockComment: "Unterminated block comment",
		LexBadNumber:                "Bad number literal",
		LexTokenTooLong:             "Token too long",
		SynInfo:                     "Syntax information",
		SynUnexpectedToken:          "Unexpected token",
		SynUnrecoverable:            "Unrecoverable syntax error",
		SemaInfo:                    "Semantic information",
		SemaRedeclaration:           "Name already defined",
		SemaUnresolvedSymbol:        "Unresolved identifier",
		SemaUnresolvedModule:        "Unresolved module",
		SemaUnknownInstancePort:     "Unknown instance port",
		SemaNotAnInstance:           "Not a module instance",
		SemaInstanceAsValue:         "Module instance used as a value",
		SemaUnknownFunction:         "Unknown function",
		SemaTypeMismatch:            "Type mismatch",
		SemaOperandType:             "Invalid operand types",
		SemaDisallowedType:          "Data type not allowed here",
		SemaConditionType:           "Condition must be a bit",
		SemaIndexType:               "Invalid index",
		SemaArgumentCount:           "Wrong number of arguments",
		SemaClockType:               "Clock must be a bit",
		SemaSelectorType:            "Invalid switch selector",
		SemaRangeOnNonVector:        "Range selection requires a vector",
		SemaConstantRequired:        "Constant expression required",
		SemaDivisionByZero:          "Division by zero",
		SemaShiftRange:              "Shift amount out of range",
		SemaIndexOutOfRange:         "Index out of range",
		SemaInvalidSize:             "Invalid size",
		SemaMalformedLiteral:        "Malformed literal",
		SemaLiteralOverflow:         "Literal does not fit its size",
		SemaValueDoesNotFit:         "Value does not fit the target type",
		SemaInvalidEscape:           "Unsupported escape sequence",
		SemaUnterminatedEscape:      "Unterminated escape sequence",
		SemaInvalidArgument:         "Invalid function argument",
		SemaInvalidTarget:           "Invalid assignment target",
		SemaAssignInput:             "Input port assigned",
		SemaMustBeContinuous:        "Assignment must be continuous",
		SemaMustBeClocked:           "Assignment must be clocked",
		SemaAssignConstant:          "Constant assigned",
		SemaAlreadyAssigned:         "Already assigned in another section",
		SemaMissingAssignment:       "Missing assignment",
		SemaWholeMemoryAssign:       "Memory assigned as a whole",
		SemaDuplicateCase:           "Duplicate case label",
		SemaDuplicateDefault:        "Duplicate default branch",
		SemaNativeImplementation:    "Native module with implementation",
		IOLoadFileError:             "I/O error",
		IOWriteError:                "Output write error",
		ProjInfo:                    "Project information",
		ProjManifestInvalid:         "Invalid project manifest",
		ProjDuplicateModule:         "Duplicate module name",
		ProjInconsistentModuleName:  "Module name does not match file name",
		ProjRecursiveInstance:       "Recursive module instantiation",
		ObsInfo:                     "Observability information",
		ObsTimings:                  "Phase timings",
		GenInfo:                     "Code generation information",
		GenUnknownType:              "Unresolved type reached code generation",
		GenMalformed:                "Malformed module definition",
		LintInfo:                    "Lint information",
		LintUnused:                  "Unused definition",
		LintNaming:                  "Naming convention",
		LintUninitializedRegister:   "Register without initializer",
		LintPolicy:                  "Policy violation",
	}
)

func (c Code) ID() string {
	switch ic := int(c); {
	case ic >= 1000 && ic < 2000:
		return fmt.Sprintf("LEX%04d", ic)
	case ic >= 2000 && ic < 3000:
		return fmt.Sprintf("SYN%04d", ic)
	case ic >= 3000 && ic < 4000:
		return fmt.Sprintf("SEM%04d", ic)
	case ic >= 4000 && ic < 5000:
		return fmt.Sprintf("IO%04d", ic)
	case ic >= 5000 && ic < 6000:
		return fmt.Sprintf("PRJ%04d", ic)
	case ic >= 6000 && ic < 7000:
		return fmt.Sprintf("OBS%04d", ic)
	case ic >= 7000 && ic < 8000:
		return fmt.Sprintf("GEN%04d", ic)
	case ic >= 8000 && ic < 9000:
		return fmt.Sprintf("LNT%04d", ic)
	}
	return "E0000"
}

func (c Code) Title() string {
	desc, ok := codeDescription[c]
	if !ok {
		return codeDescription[UnknownCode]
	}
	return desc
}

func (c Code) String() string {
	return fmt.Sprintf("[%s]: %s", c.ID(), c.Title())
}
