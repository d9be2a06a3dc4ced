package noise

// SymmetricContext holds the noise protocol handshake's symmetric state: the
// chaining key ck, the running transcript hash h, and the CipherContext used
// to encrypt/decrypt handshake payloads (spec section 4.1 / 6,
// "SymmetricContext"; noise protocol specs section 5.2).
type SymmetricContext struct {
	CipherContext
	hash       HashContext
	cipherName string
	hb         [hashMaxSize]byte
	ckb        [hashMaxSize]byte
}

// initializeSymmetric sets SymmetricContext's initial state from protoName
// and the already-resolved hash/cipher algorithms, per noise protocol specs
// section 5.2's InitializeSymmetric.
func (self *SymmetricContext) initializeSymmetric(protoName string, cipherName string, hashAlgo *HashContext) error {
	self.hash = *hashAlgo
	self.cipherName = cipherName
	self.initCK(protoName)
	cc, err := newCipherContext(cipherName)
	if nil != err {
		return wrapError(err, ErrNoMemory, "failed initializing cipher context")
	}
	self.CipherContext = *cc
	return nil
}

// initCK seeds h and ck from protoName, per noise protocol specs section
// 5.2: hash it down if it overflows the digest size, otherwise pad with
// zeros.
func (self *SymmetricContext) initCK(protoName string) {
	psb := []byte(protoName)
	hsz := self.hash.OutputLen()
	h := self.hb[:hsz]
	if len(psb) <= hsz {
		zeroize(self.hb[:])
		copy(h, psb)
	} else {
		self.hash.Reset()
		self.hash.Write(psb)
		h = self.hash.Sum(self.hb[:0])
	}
	copy(self.ckb[:hsz], h)
}

// MixKey mixes input key material into ck and re-keys the inner
// CipherContext from the derived temporary key (noise protocol specs
// section 5.2).
func (self *SymmetricContext) MixKey(ikm []byte) error {
	hsz := self.hash.OutputLen()
	outs, err := self.hash.HKDF(self.ckb[:hsz], ikm, 2)
	if nil != err {
		return wrapError(err, ErrNoMemory, "failed HKDF during MixKey")
	}
	defer zeroize(outs[1])
	copy(self.ckb[:hsz], outs[0])
	zeroize(outs[0])
	return wrapError(self.InitializeKey(outs[1][:cipherKeySize]), ErrNoMemory, "failed installing mixed key")
}

// MixHash folds data into the running transcript hash h (noise protocol
// specs section 5.2).
func (self *SymmetricContext) MixHash(data []byte) {
	hsz := self.hash.OutputLen()
	self.hash.Reset()
	self.hash.Write(self.hb[:hsz])
	self.hash.Write(data)
	self.hash.Sum(self.hb[:0])
}

// MixKeyAndHash mixes ikm into both ck and h, used for the psk token (noise
// protocol specs section 5.2).
func (self *SymmetricContext) MixKeyAndHash(ikm []byte) error {
	hsz := self.hash.OutputLen()
	outs, err := self.hash.HKDF(self.ckb[:hsz], ikm, 3)
	if nil != err {
		return wrapError(err, ErrNoMemory, "failed HKDF during MixKeyAndHash")
	}
	defer zeroize(outs[2])
	copy(self.ckb[:hsz], outs[0])
	zeroize(outs[0])
	self.MixHash(outs[1])
	zeroize(outs[1])
	return wrapError(self.InitializeKey(outs[2][:cipherKeySize]), ErrNoMemory, "failed installing mixed key")
}

// mixPSK implements the handshake's single pre-shared-key configuration
// step (spec section 4.3, "set_pre_shared_key"): unlike MixKey, the second
// HKDF output is folded into h instead of being installed as the cipher
// key - the psk prefix's per-message key contribution instead comes from
// MixKey on each E token (spec section 4.5).
func (self *SymmetricContext) mixPSK(key []byte) error {
	hsz := self.hash.OutputLen()
	outs, err := self.hash.HKDF(self.ckb[:hsz], key, 2)
	if nil != err {
		return wrapError(err, ErrNoMemory, "failed HKDF during SetPreSharedKey")
	}
	defer zeroize(outs[1])
	copy(self.ckb[:hsz], outs[0])
	zeroize(outs[0])
	self.MixHash(outs[1])
	return nil
}

// HandshakeHash returns a copy of the running transcript hash h, used by
// callers to bind out-of-band channel identifiers after Split (spec section
// 4.4, noise protocol specs section 11.2).
func (self *SymmetricContext) HandshakeHash() []byte {
	hsz := self.hash.OutputLen()
	rv := make([]byte, hsz)
	copy(rv, self.hb[:hsz])
	return rv
}

// EncryptAndHash encrypts plaintext under h as associated data, then mixes
// the ciphertext into h (noise protocol specs section 5.2).
func (self *SymmetricContext) EncryptAndHash(plaintext []byte) ([]byte, error) {
	hsz := self.hash.OutputLen()
	ciphertext, err := self.EncryptWithAd(self.hb[:hsz], plaintext)
	if nil != err {
		return nil, wrapError(err, ErrNoMemory, "failed EncryptWithAd")
	}
	self.MixHash(ciphertext)
	return ciphertext, nil
}

// DecryptAndHash decrypts ciphertext under h as associated data, then mixes
// the ciphertext into h. On MAC failure h is left unmodified and the error
// wraps ErrMacFailure (noise protocol specs section 5.2).
func (self *SymmetricContext) DecryptAndHash(ciphertext []byte) ([]byte, error) {
	hsz := self.hash.OutputLen()
	plaintext, err := self.DecryptWithAd(self.hb[:hsz], ciphertext)
	if nil != err {
		return nil, err
	}
	self.MixHash(ciphertext)
	return plaintext, nil
}

// split derives the two transport CipherContexts from ck, per noise
// protocol specs section 5.2's Split. secondaryKey is optional extra input
// keying material (spec section 4.7); pass nil/empty for the common case.
// It is terminal for ck: the SymmetricContext must not be used again for
// handshake purposes afterwards. h is left intact since callers retrieve it
// via HandshakeHash after Split (spec section 4.7).
func (self *SymmetricContext) split(secondaryKey []byte) (c1, c2 *CipherContext, err error) {
	hsz := self.hash.OutputLen()
	outs, err := self.hash.HKDF(self.ckb[:hsz], secondaryKey, 2)
	if nil != err {
		return nil, nil, wrapError(err, ErrNoMemory, "failed HKDF during Split")
	}
	defer zeroize(outs[0])
	defer zeroize(outs[1])

	c1, err = newCipherContext(self.cipherName)
	if nil != err {
		return nil, nil, err
	}
	c2, err = newCipherContext(self.cipherName)
	if nil != err {
		return nil, nil, err
	}
	if err := c1.InitializeKey(outs[0][:cipherKeySize]); nil != err {
		return nil, nil, err
	}
	if err := c2.InitializeKey(outs[1][:cipherKeySize]); nil != err {
		return nil, nil, err
	}
	zeroize(self.ckb[:])
	return c1, c2, nil
}
