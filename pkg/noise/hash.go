package noise

import (
	"crypto"
	"hash"
	"io"

	_ "crypto/sha256"
	_ "crypto/sha512"
	_ "golang.org/x/crypto/blake2b"
	_ "golang.org/x/crypto/blake2s"

	"golang.org/x/crypto/hkdf"

	"code.kerpass.org/golang/internal/utils"
)

// Hash algorithm identifiers, used as the hash_id field of a ProtocolId and
// as the registration name in the Hash registry.
const (
	HASH_SHA256  = "SHA256"
	HASH_SHA512  = "SHA512"
	HASH_BLAKE2S = "BLAKE2s"
	HASH_BLAKE2B = "BLAKE2b"
)

var hashRegistry *utils.Registry[string, crypto.Hash]

// MustRegisterHash adds algo to the Hash registry. It panics if name is
// already in use or algo is unavailable.
func MustRegisterHash(name string, algo crypto.Hash) {
	if err := RegisterHash(name, algo); nil != err {
		panic(err)
	}
}

// RegisterHash adds algo to the Hash registry. It errors if name is already
// in use or algo is unavailable.
func RegisterHash(name string, algo crypto.Hash) error {
	if !algo.Available() {
		return newError(ErrInvalidParam, "missing implementation for hash %s", name)
	}
	return wrapError(
		utils.RegistrySet(hashRegistry, name, algo),
		ErrUnknownName,
		"failed registering hash algorithm %s", name,
	)
}

// GetHash loads the crypto.Hash registered with name.
func GetHash(name string) (crypto.Hash, error) {
	algo, found := utils.RegistryGet(hashRegistry, name)
	if !found {
		return 0, newError(ErrUnknownName, "unsupported hash algorithm %s", name)
	}
	return algo, nil
}

func init() {
	hashRegistry = utils.NewRegistry[string, crypto.Hash]()
	MustRegisterHash(HASH_SHA256, crypto.SHA256)
	MustRegisterHash(HASH_SHA512, crypto.SHA512)
	MustRegisterHash(HASH_BLAKE2S, crypto.BLAKE2s_256)
	MustRegisterHash(HASH_BLAKE2B, crypto.BLAKE2b_512)
}

// HashContext is the streaming hash and HKDF handle a SymmetricContext uses
// (spec section 6, "HashContext"). It is constructed fresh for each
// HandshakeContext from the negotiated hash algorithm.
type HashContext struct {
	algo crypto.Hash
	h    hash.Hash
}

// newHashContext returns a HashContext bound to algo.
func newHashContext(algo crypto.Hash) *HashContext {
	return &HashContext{algo: algo, h: algo.New()}
}

// Reset clears the running hash state.
func (self *HashContext) Reset() {
	self.h.Reset()
}

// Write appends p to the running hash.
func (self *HashContext) Write(p []byte) (int, error) {
	return self.h.Write(p)
}

// Sum appends the current digest to dst and returns the result. It does not
// change the underlying hash state.
func (self *HashContext) Sum(dst []byte) []byte {
	return self.h.Sum(dst)
}

// OutputLen returns the digest size in bytes.
func (self *HashContext) OutputLen() int {
	return self.algo.Size()
}

// BlockLen returns the hash's block size in bytes, as used by HKDF.
func (self *HashContext) BlockLen() int {
	return self.h.BlockSize()
}

// HKDF runs HKDF(salt, input) and returns numOutputs chaining outputs, each
// OutputLen() bytes, per the noise protocol specs sections 4.3 and 5.1.
// numOutputs must be 2 or 3.
func (self *HashContext) HKDF(salt, input []byte, numOutputs int) ([][]byte, error) {
	if numOutputs != 2 && numOutputs != 3 {
		return nil, newError(ErrInvalidParam, "HKDF numOutputs must be 2 or 3, got %d", numOutputs)
	}
	hsz := self.OutputLen()
	r := hkdf.New(self.algo.New, input, salt, nil)
	outs := make([][]byte, numOutputs)
	buf := make([]byte, numOutputs*hsz)
	if _, err := io.ReadFull(r, buf); nil != err {
		zeroize(buf)
		return nil, wrapError(err, ErrNoMemory, "failed HKDF expand")
	}
	for i := range numOutputs {
		outs[i] = make([]byte, hsz)
		copy(outs[i], buf[i*hsz:(i+1)*hsz])
	}
	zeroize(buf)
	return outs, nil
}
