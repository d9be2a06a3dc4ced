package noise

import (
	"crypto/ecdh"
	"crypto/rand"
	"io"

	"code.kerpass.org/golang/internal/utils"
)

// Diffie-Hellman algorithm identifiers, used as the dh_id field of a ProtocolId
// and as the registration name in the DH registry.
const (
	DH_25519 = "25519"
)

var (
	dhRegistry *utils.Registry[string, dhAlgo]

	// rnd is kept private so the package never depends on a global
	// rand.Reader that could be swapped out from under it.
	rnd io.Reader
)

// dhAlgo is the algorithm-level capability a DH group registers: it knows
// how to generate keypairs and perform the raw scalar multiplication. It is
// distinct from DhContext, which is the per-handshake-slot handle the
// handshake core actually manipulates (spec section 6, "DhContext").
type dhAlgo interface {
	GenerateKeypair(rnd io.Reader) (*ecdh.PrivateKey, error)
	NewPrivateKey(priv []byte) (*ecdh.PrivateKey, error)
	NewPublicKey(pub []byte) (*ecdh.PublicKey, error)
	DH(priv *ecdh.PrivateKey, pub *ecdh.PublicKey) ([]byte, error)
	PublicKeyLen() int
	PrivateKeyLen() int
	SharedKeyLen() int
}

// MustRegisterDH adds algo to the DH registry. It panics if name is already
// in use or if algo is invalid.
func MustRegisterDH(name string, algo dhAlgo) {
	if err := RegisterDH(name, algo); nil != err {
		panic(err)
	}
}

// RegisterDH adds algo to the DH registry. It errors if name is already in
// use or if algo is invalid.
func RegisterDH(name string, algo dhAlgo) error {
	if nil == algo || algo.PublicKeyLen() < dhMinSize {
		return newError(ErrInvalidParam, "invalid DH algorithm")
	}
	return wrapError(
		utils.RegistrySet(dhRegistry, name, algo),
		ErrUnknownName,
		"failed registering DH algorithm %s", name,
	)
}

// GetDH loads the dhAlgo registered with name. It errors with ErrUnknownName
// if no DH algorithm was registered with name.
func GetDH(name string) (dhAlgo, error) {
	algo, found := utils.RegistryGet(dhRegistry, name)
	if !found {
		return nil, newError(ErrUnknownName, "unsupported DH algorithm %s", name)
	}
	return algo, nil
}

// ecdhAlgo adapts a stdlib crypto/ecdh.Curve to the dhAlgo interface.
type ecdhAlgo struct {
	curve  ecdh.Curve
	pubLen int
	shrLen int
}

func (self ecdhAlgo) GenerateKeypair(rnd io.Reader) (*ecdh.PrivateKey, error) {
	return self.curve.GenerateKey(rnd)
}

func (self ecdhAlgo) NewPrivateKey(priv []byte) (*ecdh.PrivateKey, error) {
	return self.curve.NewPrivateKey(priv)
}

func (self ecdhAlgo) NewPublicKey(pub []byte) (*ecdh.PublicKey, error) {
	return self.curve.NewPublicKey(pub)
}

func (self ecdhAlgo) DH(priv *ecdh.PrivateKey, pub *ecdh.PublicKey) ([]byte, error) {
	if nil == priv || priv.Curve() != self.curve {
		return nil, newError(ErrInvalidParam, "invalid keypair")
	}
	return priv.ECDH(pub)
}

func (self ecdhAlgo) PublicKeyLen() int  { return self.pubLen }
func (self ecdhAlgo) PrivateKeyLen() int { return self.pubLen }
func (self ecdhAlgo) SharedKeyLen() int  { return self.shrLen }

func init() {
	rnd = rand.Reader
	dhRegistry = utils.NewRegistry[string, dhAlgo]()
	MustRegisterDH(DH_25519, ecdhAlgo{curve: ecdh.X25519(), pubLen: 32, shrLen: 32})
}

// DhContext holds one side (local keypair, or remote public key, or both) of
// a Diffie-Hellman exchange for a single HandshakeContext slot (local
// static, local ephemeral, remote static or remote ephemeral - spec section
// 6, "DhContext").
type DhContext struct {
	algo dhAlgo
	priv *ecdh.PrivateKey
	pub  *ecdh.PublicKey
}

// newDhContext returns a DhContext bound to the named DH algorithm.
func newDhContext(algo dhAlgo) *DhContext {
	return &DhContext{algo: algo}
}

// GenerateKeypair draws a fresh keypair from rnd and installs it.
func (self *DhContext) GenerateKeypair(rnd io.Reader) error {
	priv, err := self.algo.GenerateKeypair(rnd)
	if nil != err {
		return wrapError(err, ErrNoMemory, "failed generating keypair")
	}
	self.priv = priv
	self.pub = priv.PublicKey()
	return nil
}

// SetKeypair installs priv/pub as this context's local keypair.
func (self *DhContext) SetKeypair(priv, pub []byte) error {
	p, err := self.algo.NewPrivateKey(priv)
	if nil != err {
		return wrapError(err, ErrInvalidLength, "invalid private key")
	}
	self.priv = p
	if len(pub) > 0 {
		pk, err := self.algo.NewPublicKey(pub)
		if nil != err {
			return wrapError(err, ErrInvalidLength, "invalid public key")
		}
		self.pub = pk
	} else {
		self.pub = p.PublicKey()
	}
	return nil
}

// SetPublicKey installs pub as this context's remote public key.
func (self *DhContext) SetPublicKey(pub []byte) error {
	pk, err := self.algo.NewPublicKey(pub)
	if nil != err {
		return wrapError(err, ErrInvalidPublicKey, "invalid public key")
	}
	self.priv = nil
	self.pub = pk
	return nil
}

// ClearKey discards whatever keypair or public key this context holds.
func (self *DhContext) ClearKey() {
	self.priv = nil
	self.pub = nil
}

// HasKeypair reports whether a local private key is installed.
func (self *DhContext) HasKeypair() bool {
	return nil != self.priv
}

// HasPublicKey reports whether a public key is installed.
func (self *DhContext) HasPublicKey() bool {
	return nil != self.pub
}

// PublicKeyBytes returns the raw public key bytes, or nil if none installed.
func (self *DhContext) PublicKeyBytes() []byte {
	if nil == self.pub {
		return nil
	}
	return self.pub.Bytes()
}

// PrivateKeyBytes returns the raw private key bytes, or nil if no keypair is
// installed. Used to copy a fixed test ephemeral into a handshake's local
// ephemeral slot (spec section 9, "Fixed ephemerals").
func (self *DhContext) PrivateKeyBytes() []byte {
	if nil == self.priv {
		return nil
	}
	return self.priv.Bytes()
}

// IsNullPublicKey reports whether the installed public key is the DH group's
// identity element - the all-zero point for X25519/X448. A received
// ephemeral that decodes to this value must be rejected (spec section 4.5).
func (self *DhContext) IsNullPublicKey() bool {
	if nil == self.pub {
		return false
	}
	return isAllZero(self.pub.Bytes())
}

// DH performs Diffie-Hellman between self's local keypair and other's public
// key.
func (self *DhContext) DH(other *DhContext) ([]byte, error) {
	if nil == self || nil == other || !self.HasKeypair() || !other.HasPublicKey() {
		return nil, newError(ErrInvalidParam, "missing key material for DH")
	}
	return self.algo.DH(self.priv, other.pub)
}

// PublicKeyLen returns the DH group's public key size in bytes.
func (self *DhContext) PublicKeyLen() int { return self.algo.PublicKeyLen() }

// PrivateKeyLen returns the DH group's private key size in bytes.
func (self *DhContext) PrivateKeyLen() int { return self.algo.PrivateKeyLen() }

// SharedKeyLen returns the DH group's shared secret size in bytes.
func (self *DhContext) SharedKeyLen() int { return self.algo.SharedKeyLen() }
