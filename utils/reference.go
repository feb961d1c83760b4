package utils

import (
	"crypto/rand"
	"errors"
	"math/big"
	"strings"
)

const referenceCharset = "ABCDEFGHJKMNPQRSTUVWXYZ23456789"

// GenerateReferenceCode returns a short human-readable booking reference
// such as "BK-7HK3M2QD". Uses crypto/rand with rand.Int to avoid modulo
// bias; the charset drops lookalike characters (0/O, 1/I/L).
func GenerateReferenceCode(prefix string, n int) (string, error) {
	if n <= 0 {
		return "", errors.New("invalid reference length")
	}
	var sb strings.Builder
	alphaLen := big.NewInt(int64(len(referenceCharset)))
	for i := 0; i < n; i++ {
		num, err := rand.Int(rand.Reader, alphaLen)
		if err != nil {
			return "", err
		}
		sb.WriteByte(referenceCharset[num.Int64()])
	}
	if prefix == "" {
		return sb.String(), nil
	}
	return prefix + "-" + sb.String(), nil
}
