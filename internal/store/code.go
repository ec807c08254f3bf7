package store

import (
	"crypto/rand"
	"math/big"
	"strings"
)

// CodeAlphabet leaves out 0/O and 1/I so codes can be read aloud. That
// leaves 32 symbols: 24 letters and the digits 2-9.
const CodeAlphabet = "ABCDEFGHJKLMNPQRSTUVWXYZ23456789"

const (
	CodeLength = 6
	// maxCodeAttempts bounds the collision retry loop.
	maxCodeAttempts = 16
)

func GenerateCode() (string, error) {
	code := make([]byte, CodeLength)
	for i := range code {
		num, err := rand.Int(rand.Reader, big.NewInt(int64(len(CodeAlphabet))))
		if err != nil {
			return "", err
		}
		code[i] = CodeAlphabet[num.Int64()]
	}
	return string(code), nil
}

// NormalizeCode upper-cases and trims user-typed codes.
func NormalizeCode(code string) string {
	return strings.ToUpper(strings.TrimSpace(code))
}

// uniqueCode draws codes until taken reports one as free.
func uniqueCode(taken func(string) (bool, error)) (string, error) {
	for i := 0; i < maxCodeAttempts; i++ {
		c, err := GenerateCode()
		if err != nil {
			return "", err
		}
		used, err := taken(c)
		if err != nil {
			return "", err
		}
		if !used {
			return c, nil
		}
	}
	return "", ErrCodeExhausted
}
