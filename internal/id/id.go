// Package id generates short random identifiers for jobs and questions.
package id

import "crypto/rand"

const alphabet = "abcdefghijklmnopqrstuvwxyz0123456789"

// New returns a 16-character lowercase alphanumeric ID.
func New() string {
	b := make([]byte, 16)
	if _, err := rand.Read(b); err != nil {
		panic("crypto/rand failed: " + err.Error())
	}
	for i := range b {
		b[i] = alphabet[b[i]%byte(len(alphabet))]
	}
	return string(b)
}

// WithPrefix returns New() prefixed with p and an underscore, e.g. "job_…".
func WithPrefix(p string) string {
	return p + "_" + New()
}
