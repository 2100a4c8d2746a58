package credentials

import (
	"crypto/rand"
	"math/big"
	"strings"
)

const inviteCodeChars = "ABCDEFGHIJKLMNOPQRSTUVWXYZ0123456789"

// InviteCodeLength is the number of characters in a family invite code
const InviteCodeLength = 6

// GenerateInviteCode generates a random upper-case alphanumeric join code
func GenerateInviteCode() (string, error) {
	code := make([]byte, InviteCodeLength)

	for i := range code {
		num, err := rand.Int(rand.Reader, big.NewInt(int64(len(inviteCodeChars))))
		if err != nil {
			return "", err
		}
		code[i] = inviteCodeChars[num.Int64()]
	}

	return string(code), nil
}

// NormalizeInviteCode makes user-typed codes comparable to stored ones
func NormalizeInviteCode(code string) string {
	return strings.ToUpper(strings.TrimSpace(code))
}
