package core

import (
	"fmt"
	"strings"

	"github.com/anmitsu/go-shlex"
	"github.com/josephlewis42/mercury/core/config"
)

// Tokenizer splits a line of input into tokens.
type Tokenizer func(line string) ([]string, error)

// Tokenize splits line on every single space. Consecutive spaces produce
// empty tokens, they are not collapsed, but a single trailing space doesn't
// start a new token. An empty line has no tokens.
func Tokenize(line string) ([]string, error) {
	if line == "" {
		return nil, nil
	}

	tokens := strings.Split(line, " ")
	if strings.HasSuffix(line, " ") {
		tokens = tokens[:len(tokens)-1]
	}
	return tokens, nil
}

// ShlexTokenize splits line using POSIX shell quoting rules.
func ShlexTokenize(line string) ([]string, error) {
	return shlex.Split(line, true)
}

// TokenizerFor gets the tokenizer for a configuration mode.
func TokenizerFor(mode string) (Tokenizer, error) {
	switch mode {
	case config.TokenizerSplit, "":
		return Tokenize, nil
	case config.TokenizerShlex:
		return ShlexTokenize, nil
	default:
		return nil, fmt.Errorf("unknown tokenizer %q", mode)
	}
}
