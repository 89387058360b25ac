package util

import (
	"crypto/rand"
	"math/big"

	"github.com/pkg/errors"
)

// Share codes use an uppercase-only alphabet so they survive being re-typed
// by hand; clients fold case before submitting.
const codeAlphabet = "ABCDEFGHIJKLMNOPQRSTUVWXYZ0123456789"

const maxCodeRetries = 5

// GenShareCode draws a random code of the given length and retries on
// collision, with exists consulting the authoritative store.
func GenShareCode(length int, exists func(string) (bool, error)) (string, error) {
	if length < 4 {
		return "", errors.New("share code length too short")
	}
	for retry := 0; retry < maxCodeRetries; retry++ {
		code, err := randomCode(length)
		if err != nil {
			return "", errors.Wrap(err, "rand fail")
		}
		exist, err := exists(code)
		if err != nil {
			return "", err
		}
		if !exist {
			return code, nil
		}
	}
	return "", errors.Errorf("share code collision after %d retries", maxCodeRetries)
}

func randomCode(length int) (string, error) {
	max := big.NewInt(int64(len(codeAlphabet)))
	buf := make([]byte, length)
	for i := range buf {
		n, err := rand.Int(rand.Reader, max)
		if err != nil {
			return "", err
		}
		buf[i] = codeAlphabet[n.Int64()]
	}
	return string(buf), nil
}
