package analyzer

import (
	"regexp"

	"declcheck/internal/diag"
	"declcheck/internal/types"
)

const (
	msgMissingSemicolon = "missing semicolon at end of line"
	msgUnsupported      = "unsupported data type or invalid syntax"
	msgDuplicatePrefix  = "duplicate variable: "
)

// identPattern and the assignment around it are shared by every rule.
const identPattern = `([A-Za-z_][A-Za-z0-9_]*)`

// space это ASCII-пробелы вместе с \v. notEOL любой символ, кроме
// концов строк \n, \r, U+0085, U+2028 и U+2029.
const (
	space  = `[\t\n\x0B\f\r ]`
	notEOL = `[^\n\r\x{85}\x{2028}\x{2029}]`
)

// rule is the strict whole-body grammar of one declared type.
// Group 1 of pattern is the identifier, group 2 the literal value.
type rule struct {
	kind    types.Kind
	pattern *regexp.Regexp
	code    diag.Code
	message string
}

func newRule(kind types.Kind, literal string, code diag.Code, message string) rule {
	return rule{
		kind:    kind,
		pattern: regexp.MustCompile(`^` + kind.Keyword() + space + `+` + identPattern + space + `*=` + space + `*` + literal + `$`),
		code:    code,
		message: message,
	}
}

// Числовые литералы: знак, цифры, дробная часть и экспонента опциональны.
const (
	intLiteral   = `([+-]?\d+)`
	floatLiteral = `([+-]?\d+(?:\.\d+)?(?:[eE][+-]?\d+)?)`
)

var (
	intRule = newRule(types.KindInt, intLiteral, diag.LitBadInt,
		"value assigned to an int-typed variable is not a valid integer")
	floatRule = newRule(types.KindFloat, floatLiteral, diag.LitBadFloat,
		"value assigned to a float-typed variable is not a valid floating-point number")
	doubleRule = newRule(types.KindDouble, floatLiteral, diag.LitBadDouble,
		"value assigned to a double-typed variable is not a valid floating-point number")
	// Greedy up to the last quote on the line: embedded quotes end up in the value.
	stringRule = newRule(types.KindString, `"(`+notEOL+`*)"`, diag.LitBadString,
		"value assigned to a String-typed variable must be enclosed in double quotes")
	booleanRule = newRule(types.KindBoolean, `(true|false)`, diag.LitBadBoolean,
		"value assigned to a boolean-typed variable must be 'true' or 'false'")
	// Exactly one character, no escape sequences.
	charRule = newRule(types.KindChar, `'([^'])'`, diag.LitBadChar,
		"value assigned to a char-typed variable must be a single character enclosed in single quotes")
)

// ruleFor selects the validator for a declared type. Every valid kind has
// exactly one rule; KindInvalid (and anything out of range) has none.
func ruleFor(kind types.Kind) (rule, bool) {
	switch kind {
	case types.KindInt:
		return intRule, true
	case types.KindFloat:
		return floatRule, true
	case types.KindDouble:
		return doubleRule, true
	case types.KindString:
		return stringRule, true
	case types.KindBoolean:
		return booleanRule, true
	case types.KindChar:
		return charRule, true
	case types.KindInvalid:
		return rule{}, false
	}
	return rule{}, false
}

// match applies the rule to the statement body (semicolon already stripped).
func (r rule) match(body string) (name, value string, ok bool) {
	m := r.pattern.FindStringSubmatch(body)
	if m == nil {
		return "", "", false
	}
	return m[1], m[2], true
}
