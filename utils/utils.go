package utils

import (
	"github.com/twmb/murmur3"
)

func HashString(s string) uint64 {
	hash := murmur3.New64()
	_, err := hash.Write([]byte(s))
	if err != nil {
		panic(err)
	}
	return hash.Sum64()
}

func AbsInt(n int) int {
	if n >= 0 {
		return n
	}

	return -n
}
