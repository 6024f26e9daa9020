package xrand

import "math/rand"

var letters = []rune("abcdefghijklmnopqrstuvwxyz")

// RandomString returns n random lowercase letters. Used by tests to build
// key sets of a given size.
func RandomString(n uint) string {
	b := make([]rune, n)
	for i := range b {
		b[i] = letters[rand.Intn(len(letters))]
	}
	return string(b)
}

// RandomWords returns n distinct-ish random words of the given length; with
// short lengths duplicates are likely, which is fine for counting tests.
func RandomWords(n int, length uint) []string {
	words := make([]string, n)
	for i := range words {
		words[i] = RandomString(length)
	}
	return words
}
