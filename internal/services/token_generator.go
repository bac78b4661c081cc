package services

import (
	"fmt"

	"contractflow/pkg/utils"
)

const (
	tokenAlphabet   = "abcdefghijklmnopqrstuvwxyz0123456789"
	minTokenLength  = 12
	tokenMaxRetries = 5
)

// TokenGenerator mints the capability tokens that make up contract links.
type TokenGenerator interface {
	Generate() (string, error)
}

type randomTokenGenerator struct {
	length int
}

func NewTokenGenerator(length int) (TokenGenerator, error) {
	if length < minTokenLength {
		return nil, fmt.Errorf("token length must be at least %d, got %d", minTokenLength, length)
	}
	return &randomTokenGenerator{length: length}, nil
}

// Generate draws from crypto/rand so tokens cannot be predicted from
// earlier ones.
func (g *randomTokenGenerator) Generate() (string, error) {
	token, err := utils.RandomString(tokenAlphabet, g.length)
	if err != nil {
		return "", fmt.Errorf("generate contract token: %w", err)
	}
	return token, nil
}
