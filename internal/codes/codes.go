package codes

import (
	"crypto/rand"
	"math/big"
	"strconv"
	"time"
)

const (
	inviteAlphabet = "ABCDEFGHIJKLMNOPQRSTUVWXYZ0123456789"
	idAlphabet     = "abcdefghijklmnopqrstuvwxyz0123456789"

	// InviteCodeLength is the number of characters in a session invite code
	InviteCodeLength = 8
	idSuffixLength   = 9
)

// Avatars is the fixed palette profiles pick their avatar from
var Avatars = []string{"🧒", "👦", "👧", "🧑", "👨", "👩", "🦁", "🐶", "🦊", "🐱", "🐮", "🐷"}

// GenerateID returns "<unix millis>-<random base36 suffix>". Unique enough for
// one device, not globally.
func GenerateID(now time.Time) (string, error) {
	suffix, err := randomString(idAlphabet, idSuffixLength)
	if err != nil {
		return "", err
	}
	return strconv.FormatInt(now.UnixMilli(), 10) + "-" + suffix, nil
}

// GenerateInviteCode generates an 8-character uppercase alphanumeric code
func GenerateInviteCode() (string, error) {
	return randomString(inviteAlphabet, InviteCodeLength)
}

// RandomAvatar picks an avatar from the palette
func RandomAvatar() (string, error) {
	return randomElement(Avatars)
}

func randomString(alphabet string, n int) (string, error) {
	out := make([]byte, n)
	for i := 0; i < n; i++ {
		num, err := rand.Int(rand.Reader, big.NewInt(int64(len(alphabet))))
		if err != nil {
			return "", err
		}
		out[i] = alphabet[num.Int64()]
	}
	return string(out), nil
}

// randomElement picks a random element from a string slice
func randomElement(slice []string) (string, error) {
	if len(slice) == 0 {
		return "", nil
	}

	num, err := rand.Int(rand.Reader, big.NewInt(int64(len(slice))))
	if err != nil {
		return "", err
	}

	return slice[num.Int64()], nil
}
