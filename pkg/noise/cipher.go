package noise

import (
	"crypto/aes"
	"crypto/cipher"
	"encoding/binary"

	"golang.org/x/crypto/chacha20poly1305"

	"code.kerpass.org/golang/internal/utils"
)

// AEAD cipher identifiers, used as the cipher_id field of a ProtocolId and as
// the registration name in the AEAD registry.
const (
	CIPHER_AES256_GCM        = "AESGCM"
	CIPHER_CHACHA20_POLY1305 = "ChaChaPoly"
)

var aeadRegistry *utils.Registry[string, aeadFactory]

// aead extends cipher.AEAD with the nonce layout and rekey procedure the
// noise protocol specs mandate (sections 4.2 and 5.2), which stdlib
// cipher.AEAD implementations do not expose on their own.
type aead interface {
	cipher.AEAD
	rekey(newkey, nonce []byte) error
	fillNonce(nonce []byte, n uint64)
}

type aeadFactory func(key []byte) (aead, error)

// MustRegisterAEAD adds factory to the AEAD registry. It panics if name is
// already in use.
func MustRegisterAEAD(name string, factory aeadFactory) {
	if err := RegisterAEAD(name, factory); nil != err {
		panic(err)
	}
}

// RegisterAEAD adds factory to the AEAD registry.
func RegisterAEAD(name string, factory aeadFactory) error {
	if nil == factory {
		return newError(ErrInvalidParam, "nil AEAD factory for %s", name)
	}
	return wrapError(
		utils.RegistrySet(aeadRegistry, name, factory),
		ErrUnknownName,
		"failed registering AEAD algorithm %s", name,
	)
}

// GetAEADFactory loads the aeadFactory registered with name.
func GetAEADFactory(name string) (aeadFactory, error) {
	factory, found := utils.RegistryGet(aeadRegistry, name)
	if !found {
		return nil, newError(ErrUnknownName, "unsupported cipher algorithm %s", name)
	}
	return factory, nil
}

// CipherContext is the per-direction AEAD handle a SymmetricContext wraps
// (spec section 6, "CipherContext"). It owns the 64 bit nonce counter and
// enforces the reserved-nonce and rekey rules from sections 4.2 and 5.2.
type CipherContext struct {
	factory aeadFactory
	algo    aead
	k       [cipherKeySize]byte
	n       uint64
	nonce   [cipherNonceSize]byte
}

// newCipherContext binds a CipherContext to the named AEAD algorithm without
// installing a key (spec section 5.2, "empty" key).
func newCipherContext(name string) (*CipherContext, error) {
	factory, err := GetAEADFactory(name)
	if nil != err {
		return nil, err
	}
	return &CipherContext{factory: factory}, nil
}

// HasKey reports whether a key has been installed.
func (self *CipherContext) HasKey() bool {
	return nil != self.algo
}

// InitializeKey installs newkey as the running key and resets the nonce
// counter to zero. Passing a nil/empty key clears the key, matching the
// noise protocol specs' "empty" key (spec section 5.2).
func (self *CipherContext) InitializeKey(newkey []byte) error {
	if 0 == len(newkey) {
		zeroize(self.k[:])
		self.algo = nil
		self.n = 0
		return nil
	}
	if len(newkey) != cipherKeySize {
		return newError(ErrInvalidLength, "cipher key must be %d bytes, got %d", cipherKeySize, len(newkey))
	}
	copy(self.k[:], newkey)
	algo, err := self.factory(self.k[:])
	if nil != err {
		return wrapError(err, ErrNoMemory, "failed initializing AEAD")
	}
	self.algo = algo
	self.n = 0
	return nil
}

// SetNonce overrides the running nonce counter.
func (self *CipherContext) SetNonce(n uint64) {
	self.n = n
}

// Nonce returns the current nonce counter.
func (self *CipherContext) Nonce() uint64 {
	return self.n
}

// EncryptWithAd encrypts plaintext under ad and the running key/nonce. With
// no key installed, it returns plaintext unchanged (spec section 4.2).
func (self *CipherContext) EncryptWithAd(ad, plaintext []byte) ([]byte, error) {
	if !self.HasKey() {
		return plaintext, nil
	}
	if reservedNonce == self.n {
		return nil, newError(ErrInvalidState, "cipher nonce space exhausted")
	}
	nonce := self.nonce[:]
	self.algo.fillNonce(nonce, self.n)
	ciphertext := self.algo.Seal(nil, nonce, plaintext, ad)
	self.n += 1
	return ciphertext, nil
}

// DecryptWithAd decrypts ciphertext under ad and the running key/nonce. With
// no key installed, it returns ciphertext unchanged (spec section 4.2). It
// reports ErrMacFailure on authentication failure and, per the noise
// protocol specs, does not advance the nonce counter in that case.
func (self *CipherContext) DecryptWithAd(ad, ciphertext []byte) ([]byte, error) {
	if !self.HasKey() {
		return ciphertext, nil
	}
	if reservedNonce == self.n {
		return nil, newError(ErrInvalidState, "cipher nonce space exhausted")
	}
	nonce := self.nonce[:]
	self.algo.fillNonce(nonce, self.n)
	plaintext, err := self.algo.Open(nil, nonce, ciphertext, ad)
	if nil != err {
		return nil, wrapError(err, ErrMacFailure, "AEAD authentication failed")
	}
	self.n += 1
	return plaintext, nil
}

// Rekey replaces the running key with a new pseudo-random key derived from
// it, per the noise protocol specs' REKEY procedure (section 4.2).
func (self *CipherContext) Rekey() error {
	if !self.HasKey() {
		return newError(ErrInvalidState, "cannot rekey without an installed key")
	}
	newkey := self.k[:]
	if err := self.algo.rekey(newkey, self.nonce[:]); nil != err {
		return err
	}
	algo, err := self.factory(newkey)
	if nil != err {
		return wrapError(err, ErrNoMemory, "failed installing rekeyed AEAD")
	}
	self.algo = algo
	return nil
}

// Clone returns an independent copy of self (same algorithm, key and nonce
// counter) sharing no mutable state.
func (self *CipherContext) Clone() *CipherContext {
	clone := &CipherContext{factory: self.factory, n: self.n}
	copy(clone.k[:], self.k[:])
	if self.HasKey() {
		algo, err := self.factory(clone.k[:])
		if nil == err {
			clone.algo = algo
		}
	}
	return clone
}

type aesGCMAEAD struct {
	cipher.AEAD
}

func newAESGCM(key []byte) (aead, error) {
	if len(key) != cipherKeySize {
		return nil, newError(ErrInvalidLength, "AES256-GCM key must be %d bytes", cipherKeySize)
	}
	block, err := aes.NewCipher(key)
	if nil != err {
		return nil, err
	}
	gcm, err := cipher.NewGCM(block)
	if nil != err {
		return nil, err
	}
	return aesGCMAEAD{AEAD: gcm}, nil
}

func (self aesGCMAEAD) rekey(newkey []byte, nonce []byte) error {
	self.fillNonce(nonce, reservedNonce)
	zeros := make([]byte, hashMaxSize)
	defer zeroize(zeros)
	ciphertext := self.Seal(nil, nonce, zeros[:cipherKeySize], nil)
	defer zeroize(ciphertext)
	if copy(newkey, ciphertext) < cipherKeySize {
		return newError(ErrNoMemory, "rekey produced insufficient key material")
	}
	return nil
}

func (_ aesGCMAEAD) fillNonce(nonce []byte, n uint64) {
	if len(nonce) < cipherNonceSize {
		panic("noise: invalid nonce buffer size")
	}
	binary.BigEndian.PutUint32(nonce, 0)
	binary.BigEndian.PutUint64(nonce[4:], n)
}

type chachaPoly1305AEAD struct {
	aesGCMAEAD
}

func newChachaPoly1305(key []byte) (aead, error) {
	if len(key) != cipherKeySize {
		return nil, newError(ErrInvalidLength, "ChaCha20-Poly1305 key must be %d bytes", cipherKeySize)
	}
	algo, err := chacha20poly1305.New(key)
	if nil != err {
		return nil, err
	}
	rv := chachaPoly1305AEAD{}
	rv.AEAD = algo
	return rv, nil
}

func (_ chachaPoly1305AEAD) fillNonce(nonce []byte, n uint64) {
	if len(nonce) < cipherNonceSize {
		panic("noise: invalid nonce buffer size")
	}
	binary.LittleEndian.PutUint32(nonce, 0)
	binary.LittleEndian.PutUint64(nonce[4:], n)
}

func init() {
	aeadRegistry = utils.NewRegistry[string, aeadFactory]()
	MustRegisterAEAD(CIPHER_AES256_GCM, newAESGCM)
	MustRegisterAEAD(CIPHER_CHACHA20_POLY1305, newChachaPoly1305)
}
