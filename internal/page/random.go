package page

import "math/rand/v2"

const (
	alphanumeric = "0123456789abcdefghijklmnopqrstuvwxyzABCDEFGHIJKLMNOPQRSTUVWXYZ"
	withSpace    = alphanumeric + " "
)

// RandomString returns n characters drawn uniformly from digits, ASCII
// letters and the space character.
func RandomString(n int) string {
	return randomFrom(withSpace, n)
}

// NoWhitespaceString returns n characters drawn uniformly from digits and
// ASCII letters.
func NoWhitespaceString(n int) string {
	return randomFrom(alphanumeric, n)
}

func randomFrom(charset string, n int) string {
	if n <= 0 {
		return ""
	}

	b := make([]byte, n)
	for i := range b {
		b[i] = charset[rand.IntN(len(charset))]
	}
	return string(b)
}
