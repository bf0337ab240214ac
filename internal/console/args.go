package console

import (
	"errors"
	"fmt"
	"strings"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

var (
	ErrMalformedArgs = errors.New("malformed argument, expected key=value")
	ErrArgNotFound   = errors.New("argument not found")
)

var upper = cases.Upper(language.Und)

// Pair is one key=value argument. Both halves are upper-cased.
type Pair struct {
	Key   string
	Value string
}

// FindArg looks up key in a line of space separated key=value tokens and
// returns the pair with the index of its token. Keys match without regard
// to case. Any token that is not exactly key=value fails the whole line.
func FindArg(line, key string) (Pair, int, error) {
	tokens := strings.Fields(line)
	pairs := make([][]string, len(tokens))
	for i, tok := range tokens {
		kv := strings.Split(tok, "=")
		if len(kv) != 2 {
			return Pair{}, -1, fmt.Errorf("%w: %q", ErrMalformedArgs, tok)
		}
		pairs[i] = kv
	}
	want := upper.String(key)
	for i, kv := range pairs {
		if upper.String(kv[0]) == want {
			return Pair{Key: want, Value: upper.String(kv[1])}, i, nil
		}
	}
	return Pair{}, -1, fmt.Errorf("%w: %s", ErrArgNotFound, key)
}

// RawArg returns the value of key exactly as typed. It does not validate the
// rest of the line.
func RawArg(line, key string) (string, bool) {
	for _, tok := range strings.Fields(line) {
		k, v, ok := strings.Cut(tok, "=")
		if ok && strings.EqualFold(k, key) {
			return v, true
		}
	}
	return "", false
}

// RawTail returns everything after "key=" up to the end of the line, so the
// value may itself contain spaces and further key=value tokens.
func RawTail(line, key string) (string, bool) {
	prefix := key + "="
	for i := 0; i+len(prefix) <= len(line); i++ {
		if i > 0 && line[i-1] != ' ' {
			continue
		}
		if strings.EqualFold(line[i:i+len(prefix)], prefix) {
			return strings.TrimSpace(line[i+len(prefix):]), true
		}
	}
	return "", false
}
