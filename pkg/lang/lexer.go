package lang

import (
	"fmt"
	"strconv"
	"strings"
	"unicode"
)

type tokenType int

const (
	tkEOF tokenType = iota
	tkNewline
	tkIdent
	tkInt
	tkFloat
	tkString

	// Keywords
	tkTrue
	tkFalse
	tkNil
	tkDel
	tkPrint

	// Punctuation
	tkLParen
	tkRParen
	tkLBracket
	tkRBracket
	tkComma

	// Operators
	tkPlus
	tkMinus
	tkStar
	tkSlash
	tkPercent
	tkAssign
	tkEq
	tkNeq
	tkLt
	tkLte
	tkGt
	tkGte
	tkAnd
	tkOr
	tkNot
)

type token struct {
	typ  tokenType
	text string
	line int
	col  int
}

var keywords = map[string]tokenType{
	"true":  tkTrue,
	"false": tkFalse,
	"nil":   tkNil,
	"del":   tkDel,
	"print": tkPrint,
}

// SyntaxError reports a malformed fragment with its position.
type SyntaxError struct {
	Msg  string
	Line int
	Col  int
}

func (e *SyntaxError) Error() string {
	return fmt.Sprintf("syntax error: %s (line %d, col %d)", e.Msg, e.Line, e.Col)
}

func syntaxErrf(line, col int, format string, args ...any) *SyntaxError {
	return &SyntaxError{Msg: fmt.Sprintf(format, args...), Line: line, Col: col}
}

// lex tokenizes src. `;` and `\n` both produce tkNewline; `#` starts a
// comment running to end of line.
func lex(src string) ([]token, error) {
	var toks []token
	line, col := 1, 1
	runes := []rune(src)
	i := 0

	emit := func(typ tokenType, text string) {
		toks = append(toks, token{typ: typ, text: text, line: line, col: col})
	}
	advance := func(n int) {
		for k := 0; k < n && i < len(runes); k++ {
			if runes[i] == '\n' {
				line++
				col = 1
			} else {
				col++
			}
			i++
		}
	}

	for i < len(runes) {
		c := runes[i]
		switch {
		case c == '\n' || c == ';':
			emit(tkNewline, string(c))
			advance(1)
		case c == ' ' || c == '\t' || c == '\r':
			advance(1)
		case c == '#':
			for i < len(runes) && runes[i] != '\n' {
				advance(1)
			}
		case unicode.IsLetter(c) || c == '_':
			start := i
			for i < len(runes) && (unicode.IsLetter(runes[i]) || unicode.IsDigit(runes[i]) || runes[i] == '_') {
				i++
			}
			word := string(runes[start:i])
			startCol := col
			col += i - start
			if kw, ok := keywords[word]; ok {
				toks = append(toks, token{typ: kw, text: word, line: line, col: startCol})
			} else {
				toks = append(toks, token{typ: tkIdent, text: word, line: line, col: startCol})
			}
		case unicode.IsDigit(c):
			start := i
			isFloat := false
			for i < len(runes) && (unicode.IsDigit(runes[i]) || runes[i] == '.' || runes[i] == 'e' || runes[i] == 'E' ||
				((runes[i] == '+' || runes[i] == '-') && i > start && (runes[i-1] == 'e' || runes[i-1] == 'E'))) {
				if runes[i] == '.' || runes[i] == 'e' || runes[i] == 'E' {
					isFloat = true
				}
				i++
			}
			text := string(runes[start:i])
			startCol := col
			col += i - start
			typ := tkInt
			if isFloat {
				typ = tkFloat
				if _, err := strconv.ParseFloat(text, 64); err != nil {
					return nil, syntaxErrf(line, startCol, "malformed number %q", text)
				}
			} else if _, err := strconv.ParseInt(text, 10, 64); err != nil {
				return nil, syntaxErrf(line, startCol, "malformed number %q", text)
			}
			toks = append(toks, token{typ: typ, text: text, line: line, col: startCol})
		case c == '"' || c == '\'':
			quote := c
			var b strings.Builder
			startLine, startCol := line, col
			advance(1)
			closed := false
			for i < len(runes) {
				ch := runes[i]
				if ch == '\n' {
					break
				}
				if ch == '\\' && i+1 < len(runes) {
					esc := runes[i+1]
					advance(2)
					switch esc {
					case 'n':
						b.WriteRune('\n')
					case 't':
						b.WriteRune('\t')
					case '\\', '"', '\'':
						b.WriteRune(esc)
					default:
						return nil, syntaxErrf(line, col, "unknown escape \\%c", esc)
					}
					continue
				}
				if ch == quote {
					advance(1)
					closed = true
					break
				}
				b.WriteRune(ch)
				advance(1)
			}
			if !closed {
				return nil, syntaxErrf(startLine, startCol, "unterminated string literal")
			}
			toks = append(toks, token{typ: tkString, text: b.String(), line: startLine, col: startCol})
		default:
			two := ""
			if i+1 < len(runes) {
				two = string(runes[i : i+2])
			}
			switch two {
			case "==":
				emit(tkEq, two)
				advance(2)
				continue
			case "!=":
				emit(tkNeq, two)
				advance(2)
				continue
			case "<=":
				emit(tkLte, two)
				advance(2)
				continue
			case ">=":
				emit(tkGte, two)
				advance(2)
				continue
			case "&&":
				emit(tkAnd, two)
				advance(2)
				continue
			case "||":
				emit(tkOr, two)
				advance(2)
				continue
			}
			switch c {
			case '(':
				emit(tkLParen, "(")
			case ')':
				emit(tkRParen, ")")
			case '[':
				emit(tkLBracket, "[")
			case ']':
				emit(tkRBracket, "]")
			case ',':
				emit(tkComma, ",")
			case '+':
				emit(tkPlus, "+")
			case '-':
				emit(tkMinus, "-")
			case '*':
				emit(tkStar, "*")
			case '/':
				emit(tkSlash, "/")
			case '%':
				emit(tkPercent, "%")
			case '=':
				emit(tkAssign, "=")
			case '<':
				emit(tkLt, "<")
			case '>':
				emit(tkGt, ">")
			case '!':
				emit(tkNot, "!")
			default:
				return nil, syntaxErrf(line, col, "unexpected character %q", string(c))
			}
			advance(1)
		}
	}
	toks = append(toks, token{typ: tkEOF, line: line, col: col})
	return toks, nil
}
