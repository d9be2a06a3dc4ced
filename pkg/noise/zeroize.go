package noise

// zeroize overwrites b with zero bytes. It is called on every scratch buffer
// that held key material, DH output, HKDF output or decrypted plaintext
// before that buffer is released or reused (spec section 5, "Memory and
// secrets").
func zeroize(b []byte) {
	for i := range b {
		b[i] = 0
	}
}

// isAllZero reports whether every byte of b is zero. Used to detect a
// received ephemeral public key equal to the DH group's null element.
func isAllZero(b []byte) bool {
	var acc byte
	for _, c := range b {
		acc |= c
	}
	return acc == 0
}
