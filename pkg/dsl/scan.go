package dsl

import "strings"

type fieldHead struct {
	name     string
	group    string
	optional bool
	body     string
	end      int
}

type selectionHead struct {
	name    string
	group   string
	at      bool
	options string
	end     int
}

// Scan returns every token in s in document order. Tokens never overlap; text
// that matches no rule is skipped.
func Scan(s string) []Token {
	var tokens []Token
	for i := 0; i < len(s); {
		tok, ok := match(s, i)
		if !ok {
			i++
			continue
		}
		tokens = append(tokens, tok)
		i = tok.End
	}
	return tokens
}

// Contains reports whether s holds at least one token of the given kinds. No
// kinds means any kind.
func Contains(s string, kinds ...Kind) bool {
	for _, tok := range Scan(s) {
		if len(kinds) == 0 || hasKind(kinds, tok.Kind) {
			return true
		}
	}
	return false
}

// Expand rebuilds s, substituting tokens for which fn reports ok. Other
// tokens and literal text are copied unchanged.
func Expand(s string, fn func(Token) (string, bool)) string {
	tokens := Scan(s)
	if len(tokens) == 0 {
		return s
	}
	var b strings.Builder
	last := 0
	for _, tok := range tokens {
		b.WriteString(s[last:tok.Start])
		if out, ok := fn(tok); ok {
			b.WriteString(out)
		} else {
			b.WriteString(tok.Raw)
		}
		last = tok.End
	}
	b.WriteString(s[last:])
	return b.String()
}

// ParseField parses s as exactly one field or selection token.
func ParseField(s string) (Token, bool) {
	tok, ok := match(s, 0)
	if !ok || tok.End != len(s) || tok.Kind == KindBackendRef {
		return Token{}, false
	}
	return tok, true
}

func hasKind(kinds []Kind, k Kind) bool {
	for _, kind := range kinds {
		if kind == k {
			return true
		}
	}
	return false
}

func match(s string, i int) (Token, bool) {
	switch {
	case strings.HasPrefix(s[i:], "{$"):
		head, ok := parseFieldHead(s, i)
		if !ok {
			return Token{}, false
		}
		for _, r := range rules {
			if f, ok := r.matchField(head); ok {
				return Token{Kind: KindField, Rule: r.Name, Start: i, End: head.end, Raw: s[i:head.end], Field: f}, true
			}
		}
	case strings.HasPrefix(s[i:], "($"):
		head, ok := parseSelectionHead(s, i)
		if !ok {
			return Token{}, false
		}
		for _, r := range rules {
			if f, ok := r.matchSelection(head); ok {
				return Token{Kind: KindSelection, Rule: r.Name, Start: i, End: head.end, Raw: s[i:head.end], Field: f}, true
			}
		}
	case strings.HasPrefix(s[i:], "{@"):
		j := i + 2
		for j < len(s) && isPathByte(s[j]) {
			j++
		}
		if j == i+2 || j >= len(s) || s[j] != '}' {
			return Token{}, false
		}
		return Token{Kind: KindBackendRef, Rule: "backend", Start: i, End: j + 1, Raw: s[i : j+1], Path: s[i+2 : j]}, true
	}
	return Token{}, false
}

func parseFieldHead(s string, i int) (fieldHead, bool) {
	var h fieldHead
	j := i + 2
	h.name, j = ident(s, j)
	if h.name == "" {
		return h, false
	}
	if j < len(s) && s[j] == '.' {
		h.group, j = ident(s, j+1)
		if h.group == "" {
			return h, false
		}
	}
	if j < len(s) && s[j] == '?' {
		h.optional = true
		j++
	}
	if j >= len(s) || s[j] != ':' {
		return h, false
	}
	j++
	closing := strings.IndexByte(s[j:], '}')
	if closing < 0 {
		return h, false
	}
	h.body = s[j : j+closing]
	h.end = j + closing + 1
	return h, true
}

func parseSelectionHead(s string, i int) (selectionHead, bool) {
	var h selectionHead
	j := i + 2
	h.name, j = ident(s, j)
	if h.name == "" {
		return h, false
	}
	if j < len(s) && s[j] == '.' {
		h.group, j = ident(s, j+1)
		if h.group == "" {
			return h, false
		}
	}
	if j < len(s) && s[j] == '@' {
		h.at = true
		j++
	}
	if j >= len(s) || s[j] != ':' {
		return h, false
	}
	j++
	closing := strings.IndexByte(s[j:], ')')
	if closing <= 0 {
		return h, false
	}
	h.options = s[j : j+closing]
	h.end = j + closing + 1
	return h, true
}

func ident(s string, j int) (string, int) {
	start := j
	for j < len(s) && isWordByte(s[j]) {
		j++
	}
	return s[start:j], j
}

func isWordByte(c byte) bool {
	return c == '_' || ('a' <= c && c <= 'z') || ('A' <= c && c <= 'Z') || ('0' <= c && c <= '9')
}

func isPathByte(c byte) bool {
	return isWordByte(c) || c == '.' || c == '[' || c == ']'
}
