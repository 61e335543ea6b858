package domain

import (
	"crypto/rand"
	"math/big"
)

const codeAlphabet = "ABCDEFGHIJKLMNOPQRSTUVWXYZ0123456789"

const CodeLength = 7

// GenerateRoomCode returns a random candidate code. Uniqueness among
// live rooms is the registry's job, not ours.
func GenerateRoomCode() (RoomCode, error) {
	code := make([]byte, CodeLength)
	for i := range code {
		n, err := rand.Int(rand.Reader, big.NewInt(int64(len(codeAlphabet))))
		if err != nil {
			return "", err
		}
		code[i] = codeAlphabet[n.Int64()]
	}
	return RoomCode(code), nil
}
