// Copyright 2026 The Cockroach Authors.
//
// Use of this software is governed by the CockroachDB Software License
// included in the /LICENSE file.

package tree

import (
	"regexp"
	"strings"

	"github.com/cockroachdb/errors"
)

// likeOpType is an enum that describes all of the different variants of LIKE
// that we support.
type likeOpType int

const (
	likeConstant likeOpType = iota + 1
	likeAlwaysMatch
	likeSuffix
	likePrefix
	likeContains
	likeRegexp
)

// LikeMatcher matches strings against a compiled LIKE pattern. The zero value
// is not usable; build one with CompileLike.
type LikeMatcher struct {
	typ             likeOpType
	pattern         string
	re              *regexp.Regexp
	caseInsensitive bool
}

func isWildcard(c byte) bool {
	return c == '%' || c == '_'
}

func getLikeOperatorType(pattern string) likeOpType {
	if pattern == "" {
		return likeConstant
	}
	if strings.Trim(pattern, "%") == "" {
		return likeAlwaysMatch
	}
	if strings.ContainsRune(pattern, '\\') {
		return likeRegexp
	}
	if len(pattern) > 1 && !strings.ContainsAny(pattern[1:len(pattern)-1], "_%") {
		// There are no wildcards in the middle of the string, so we only need to
		// use a regular expression if the pattern has a single-char wildcard
		// at either end.
		firstChar := pattern[0]
		lastChar := pattern[len(pattern)-1]
		switch {
		case !isWildcard(firstChar) && !isWildcard(lastChar):
			return likeConstant
		case firstChar == '%' && lastChar == '%':
			return likeContains
		case firstChar == '%' && !isWildcard(lastChar):
			return likeSuffix
		case lastChar == '%' && !isWildcard(firstChar):
			return likePrefix
		}
	} else if len(pattern) == 1 && !isWildcard(pattern[0]) {
		return likeConstant
	}
	// Default (slow) case: execute as a regular expression match.
	return likeRegexp
}

// CompileLike compiles a LIKE pattern. '%' matches any sequence of characters,
// '_' matches exactly one, and '\' escapes the next character.
func CompileLike(pattern string, caseInsensitive bool) (*LikeMatcher, error) {
	if caseInsensitive {
		pattern = strings.ToLower(pattern)
	}
	m := &LikeMatcher{typ: getLikeOperatorType(pattern), caseInsensitive: caseInsensitive}
	switch m.typ {
	case likeConstant:
		m.pattern = pattern
	case likeSuffix:
		m.pattern = pattern[1:]
	case likePrefix:
		m.pattern = pattern[:len(pattern)-1]
	case likeContains:
		m.pattern = pattern[1 : len(pattern)-1]
	case likeRegexp:
		expr, err := likeToRegexp(pattern)
		if err != nil {
			return nil, err
		}
		m.re, err = regexp.Compile(expr)
		if err != nil {
			return nil, errors.Wrapf(err, "invalid LIKE pattern %q", pattern)
		}
	}
	return m, nil
}

// likeToRegexp translates a LIKE pattern into an anchored regular expression.
func likeToRegexp(pattern string) (string, error) {
	var sb strings.Builder
	sb.WriteString("(?s)^")
	for i := 0; i < len(pattern); i++ {
		switch c := pattern[i]; c {
		case '%':
			sb.WriteString(".*")
		case '_':
			sb.WriteByte('.')
		case '\\':
			if i == len(pattern)-1 {
				return "", errors.Newf("LIKE pattern must not end with escape character: %q", pattern)
			}
			i++
			sb.WriteString(regexp.QuoteMeta(pattern[i : i+1]))
		default:
			sb.WriteString(regexp.QuoteMeta(pattern[i : i+1]))
		}
	}
	sb.WriteByte('$')
	return sb.String(), nil
}

// Match returns whether s matches the pattern.
func (m *LikeMatcher) Match(s string) bool {
	if m.caseInsensitive {
		s = strings.ToLower(s)
	}
	switch m.typ {
	case likeConstant:
		return s == m.pattern
	case likeAlwaysMatch:
		return true
	case likeSuffix:
		return strings.HasSuffix(s, m.pattern)
	case likePrefix:
		return strings.HasPrefix(s, m.pattern)
	case likeContains:
		return strings.Contains(s, m.pattern)
	default:
		return m.re.MatchString(s)
	}
}
