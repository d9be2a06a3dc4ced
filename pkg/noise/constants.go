package noise

const (
	cipherKeySize   = 32
	cipherNonceSize = 12
	cipherTagSize   = 16
	dhMinSize       = 32
	hashMinSize     = 32
	hashMaxSize     = 64
	msgMaxSize      = 65535
	pskKeySize      = 32
)

// reservedNonce is the 64 bit nonce value the noise protocol specs reserve;
// a CipherContext must never be used to encrypt or decrypt with this nonce.
const reservedNonce = 0xFFFF_FFFF_FFFF_FFFF
