package ports

// PasswordHasher derives and verifies one-way password hashes.
type PasswordHasher interface {
	Hash(password string) (string, error)
	// Compare returns a non-nil error when password does not match hash.
	Compare(hash, password string) error
}
