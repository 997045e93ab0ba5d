package invitecode

import (
	"context"
	"crypto/rand"
	"errors"
	"math/big"
	"strings"
)

const (
	Length   = 8
	Attempts = 10

	alphabet = "abcdefghijklmnopqrstuvwxyzABCDEFGHIJKLMNOPQRSTUVWXYZ0123456789"
)

var ErrGenerationFailed = errors.New("invite code generation failed")

// Generate returns a random code of the given length drawn from ASCII
// letters and digits.
func Generate(length int) (string, error) {
	max := big.NewInt(int64(len(alphabet)))

	var builder strings.Builder
	builder.Grow(length)

	for i := 0; i < length; i++ {
		n, err := rand.Int(rand.Reader, max)
		if err != nil {
			return "", err
		}
		builder.WriteByte(alphabet[n.Int64()])
	}

	return builder.String(), nil
}

// Unique draws codes until taken reports a free one or Attempts runs out.
func Unique(ctx context.Context, generate func(int) (string, error), taken func(context.Context, string) (bool, error)) (string, error) {
	for i := 0; i < Attempts; i++ {
		code, err := generate(Length)
		if err != nil {
			return "", err
		}
		used, err := taken(ctx, code)
		if err != nil {
			return "", err
		}
		if !used {
			return code, nil
		}
	}
	return "", ErrGenerationFailed
}
