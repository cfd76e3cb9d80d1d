package diag

import (
	"fmt"
)

type Code uint16

const (
	// Неизвестная ошибка
	UnknownCode Code = 0

	// Синтаксис строки
	SynInfo                 Code = 1000
	SynMissingSemicolon     Code = 1001
	SynUnsupportedStatement Code = 1002

	// Литералы: по одному коду на тип
	LitInfo       Code = 2000
	LitBadInt     Code = 2001
	LitBadFloat   Code = 2002
	LitBadDouble  Code = 2003
	LitBadString  Code = 2004
	LitBadBoolean Code = 2005
	LitBadChar    Code = 2006

	// Семантические
	SemaInfo              Code = 3000
	SemaDuplicateVariable Code = 3001

	// Ввод/вывод
	IOLoadFileError Code = 4001
)

var (
	codeDescription = map[Code]string{
		UnknownCode:             "Unknown error",
		SynInfo:                 "Syntax information",
		SynMissingSemicolon:     "Missing semicolon",
		SynUnsupportedStatement: "Unsupported data type or invalid syntax",
		LitInfo:                 "Literal information",
		LitBadInt:               "Invalid int literal",
		LitBadFloat:             "Invalid float literal",
		LitBadDouble:            "Invalid double literal",
		LitBadString:            "Invalid String literal",
		LitBadBoolean:           "Invalid boolean literal",
		LitBadChar:              "Invalid char literal",
		SemaInfo:                "Semantic information",
		SemaDuplicateVariable:   "Duplicate variable",
		IOLoadFileError:         "I/O error",
	}
)

func (c Code) ID() string {
	switch ic := int(c); {
	case ic >= 1000 && ic < 2000:
		return fmt.Sprintf("SYN%04d", ic)
	case ic >= 2000 && ic < 3000:
		return fmt.Sprintf("LIT%04d", ic)
	case ic >= 3000 && ic < 4000:
		return fmt.Sprintf("SEM%04d", ic)
	case ic >= 4000 && ic < 5000:
		return fmt.Sprintf("IO%04d", ic)
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
