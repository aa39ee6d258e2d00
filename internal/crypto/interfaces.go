package crypto

// Sealer encrypts data at rest. Open reverses Seal and fails when the blob
// was sealed with another key or has been tampered with.
type Sealer interface {
	Seal(plaintext []byte) ([]byte, error)
	Open(blob []byte) ([]byte, error)
}
