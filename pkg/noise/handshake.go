package noise

import (
	"log/slog"
)

// Role identifies which side of a handshake a HandshakeContext plays (spec
// section 3, "HandshakeContext").
type Role int

const (
	RoleInitiator Role = iota
	RoleResponder
)

// String implements fmt.Stringer, used only for Debug-level tracing (spec
// section 5).
func (self Role) String() string {
	if RoleResponder == self {
		return "responder"
	}
	return "initiator"
}

// Action is the HandshakeContext's current phase of the handshake state
// machine (spec section 3, "action").
type Action int

const (
	ActionNone Action = iota
	ActionWriteMessage
	ActionReadMessage
	ActionFailed
	ActionSplit
)

func (self Action) String() string {
	switch self {
	case ActionNone:
		return "none"
	case ActionWriteMessage:
		return "write_message"
	case ActionReadMessage:
		return "read_message"
	case ActionFailed:
		return "failed"
	case ActionSplit:
		return "split"
	default:
		return "unknown"
	}
}

// HandshakeContext drives one side of a noise protocol handshake: it owns
// the four DH key slots, the SymmetricContext, the requirements bitset, the
// pattern token cursor and the current Action (spec section 3,
// "HandshakeContext"; spec section 4).
type HandshakeContext struct {
	id      ProtocolId
	role    Role
	sym     SymmetricContext
	pattern HandshakePattern
	dhAlgo  dhAlgo

	localStatic     *DhContext
	localEphemeral  *DhContext
	remoteStatic    *DhContext
	remoteEphemeral *DhContext
	fixedEphemeral  *DhContext

	needLocalStatic, needLocalEphemeral   bool
	needRemoteStatic, needRemoteEphemeral bool

	req    requirements
	cursor int
	action Action

	// split is set once Split has succeeded, making the context inert even
	// though action stays ActionSplit so GetHandshakeHash keeps working
	// (spec section 4.7).
	split bool

	logger *slog.Logger
}

// NewHandshakeContext allocates a HandshakeContext bound to id's pattern,
// prefix and negotiated algorithms, ready for key configuration (spec
// section 3 / 4.3).
func NewHandshakeContext(id ProtocolId, role Role) (*HandshakeContext, error) {
	if RoleInitiator != role && RoleResponder != role {
		return nil, newError(ErrInvalidParam, "invalid role %d", role)
	}
	if PrefixStandard != id.PrefixID && PrefixPSK != id.PrefixID {
		return nil, newError(ErrUnknownId, "unknown prefix id %q", id.PrefixID)
	}
	pattern, err := GetPattern(id.PatternID)
	if nil != err {
		return nil, err
	}
	algo, err := GetDH(id.DHID)
	if nil != err {
		return nil, err
	}
	hashAlgo, err := GetHash(id.HashID)
	if nil != err {
		return nil, err
	}
	if _, err := GetAEADFactory(id.CipherID); nil != err {
		return nil, err
	}

	self := &HandshakeContext{
		id:      id,
		role:    role,
		pattern: pattern,
		dhAlgo:  algo,
		logger:  slog.Default(),
	}
	hashCtx := newHashContext(hashAlgo)
	if err := self.sym.initializeSymmetric(id.protocolName(), id.CipherID, hashCtx); nil != err {
		return nil, err
	}
	self.req = requirementsFor(pattern.flags, id.PrefixID, role, false)
	self.refreshSlotFlags()
	self.allocateSlots()
	self.action = ActionNone
	return self, nil
}

// SetLogger overrides the *slog.Logger used for Debug-level state-transition
// tracing (spec section 5, "expansion"). Never handed key material, MAC
// tags or plaintext/ciphertext - only pattern/action/token metadata.
func (self *HandshakeContext) SetLogger(logger *slog.Logger) {
	if nil == logger {
		logger = slog.Default()
	}
	self.logger = logger
}

// refreshSlotFlags recomputes which DH slots this role/pattern combination
// needs, from the pattern's flags byte reversed for the responder (spec
// section 4.2).
func (self *HandshakeContext) refreshSlotFlags() {
	eff := self.pattern.flags
	if RoleResponder == self.role {
		eff = reverseFlags(eff)
	}
	self.needLocalStatic = eff&patternLocalS != 0
	self.needLocalEphemeral = eff&patternLocalE != 0
	self.needRemoteStatic = eff&patternRemoteS != 0
	self.needRemoteEphemeral = eff&patternRemoteE != 0
}

// allocateSlots allocates a DhContext for every slot this role/pattern needs
// and does not already hold.
func (self *HandshakeContext) allocateSlots() {
	if self.needLocalStatic && nil == self.localStatic {
		self.localStatic = newDhContext(self.dhAlgo)
	}
	if self.needRemoteStatic && nil == self.remoteStatic {
		self.remoteStatic = newDhContext(self.dhAlgo)
	}
	if self.needLocalEphemeral && nil == self.localEphemeral {
		self.localEphemeral = newDhContext(self.dhAlgo)
	}
	if self.needRemoteEphemeral && nil == self.remoteEphemeral {
		self.remoteEphemeral = newDhContext(self.dhAlgo)
	}
}

// Role returns the role this HandshakeContext plays.
func (self *HandshakeContext) Role() Role { return self.role }

// Action returns the handshake's current state (spec section 6, "get_action").
func (self *HandshakeContext) Action() Action { return self.action }

// ProtocolID returns the protocol identifier this context was constructed with.
func (self *HandshakeContext) ProtocolID() ProtocolId { return self.id }

// NeedsLocalStatic reports whether the pattern requires a local static keypair.
func (self *HandshakeContext) NeedsLocalStatic() bool { return self.req.has(reqLocalRequired) }

// NeedsRemoteStatic reports whether the pattern requires a remote static public key.
func (self *HandshakeContext) NeedsRemoteStatic() bool { return self.req.has(reqRemoteRequired) }

// NeedsPSK reports whether a pre-shared key must still be configured.
func (self *HandshakeContext) NeedsPSK() bool { return self.req.has(reqPSK) }

// HasLocalStatic reports whether a local static keypair is installed.
func (self *HandshakeContext) HasLocalStatic() bool {
	return nil != self.localStatic && self.localStatic.HasKeypair()
}

// HasRemoteStatic reports whether a remote static public key is installed.
func (self *HandshakeContext) HasRemoteStatic() bool {
	return nil != self.remoteStatic && self.remoteStatic.HasPublicKey()
}

// LocalStatic returns the DhContext the caller populates with the local
// static keypair. It errors with ErrNotApplicable if the pattern never uses
// a local static key.
func (self *HandshakeContext) LocalStatic() (*DhContext, error) {
	if nil == self.localStatic {
		return nil, newError(ErrNotApplicable, "pattern %s does not use a local static key", self.id.PatternID)
	}
	return self.localStatic, nil
}

// RemoteStatic returns the DhContext the caller populates with the remote
// static public key. It errors with ErrNotApplicable if the pattern never
// uses a remote static key.
func (self *HandshakeContext) RemoteStatic() (*DhContext, error) {
	if nil == self.remoteStatic {
		return nil, newError(ErrNotApplicable, "pattern %s does not use a remote static key", self.id.PatternID)
	}
	return self.remoteStatic, nil
}

// LocalEphemeral returns the DhContext holding the local ephemeral keypair,
// populated lazily during the handshake's first local E token.
func (self *HandshakeContext) LocalEphemeral() (*DhContext, error) {
	if nil == self.localEphemeral {
		return nil, newError(ErrNotApplicable, "pattern %s does not use a local ephemeral key", self.id.PatternID)
	}
	return self.localEphemeral, nil
}

// RemoteEphemeral returns the DhContext holding the remote ephemeral public
// key, populated lazily during the handshake's first remote E token.
func (self *HandshakeContext) RemoteEphemeral() (*DhContext, error) {
	if nil == self.remoteEphemeral {
		return nil, newError(ErrNotApplicable, "pattern %s does not use a remote ephemeral key", self.id.PatternID)
	}
	return self.remoteEphemeral, nil
}

// FixedEphemeral returns a DhContext the caller populates with a fixed
// ephemeral keypair before Start, overriding fresh generation when the local
// E token is processed. Test-only entry point (spec section 9, "Fixed
// ephemerals").
func (self *HandshakeContext) FixedEphemeral() (*DhContext, error) {
	if !self.needLocalEphemeral {
		return nil, newError(ErrNotApplicable, "pattern %s does not use a local ephemeral key", self.id.PatternID)
	}
	if nil == self.fixedEphemeral {
		self.fixedEphemeral = newDhContext(self.dhAlgo)
	}
	return self.fixedEphemeral, nil
}

// SetPrologue mixes prologue into the transcript hash. Valid only before
// Start and only once (spec section 4.3).
func (self *HandshakeContext) SetPrologue(prologue []byte) error {
	if ActionNone != self.action {
		return newError(ErrInvalidState, "SetPrologue called outside the configuration phase")
	}
	if !self.req.has(reqPrologue) {
		return newError(ErrInvalidState, "prologue already set")
	}
	self.sym.MixHash(prologue)
	self.req.clear(reqPrologue)
	return nil
}

// SetPreSharedKey configures the handshake's pre-shared key. Valid only
// before Start, only under a psk-prefix protocol, and only once. If the
// prologue has not yet been set, an empty prologue is applied implicitly
// (spec section 4.3).
func (self *HandshakeContext) SetPreSharedKey(key []byte) error {
	if ActionNone != self.action {
		return newError(ErrInvalidState, "SetPreSharedKey called outside the configuration phase")
	}
	if PrefixPSK != self.id.PrefixID {
		return newError(ErrNotApplicable, "protocol %s does not use a psk prefix", self.id.PatternID)
	}
	if !self.req.has(reqPSK) {
		return newError(ErrInvalidState, "pre-shared key already set")
	}
	if len(key) != pskKeySize {
		return newError(ErrInvalidLength, "pre-shared key must be %d bytes, got %d", pskKeySize, len(key))
	}
	if self.req.has(reqPrologue) {
		if err := self.SetPrologue(nil); nil != err {
			return err
		}
	}
	if err := self.sym.mixPSK(key); nil != err {
		return err
	}
	self.req.clear(reqPSK)
	return nil
}

// Start validates that every key requirement is satisfied, mixes any
// premessage public keys into the transcript hash, and moves the context
// into its first WriteMessage/ReadMessage state (spec section 4.4).
func (self *HandshakeContext) Start() error {
	if ActionNone != self.action {
		return newError(ErrInvalidState, "Start called outside the configuration phase")
	}
	if "XXfallback" == self.id.PatternID && !self.req.has(reqFallbackPremsg) {
		return newError(ErrNotApplicable, "XXfallback requires a prior Fallback transition")
	}
	if self.req.has(reqLocalRequired) && !self.HasLocalStatic() {
		return newError(ErrLocalKeyRequired, "local static keypair required")
	}
	if self.req.has(reqRemoteRequired) && !self.HasRemoteStatic() {
		return newError(ErrRemoteKeyRequired, "remote static public key required")
	}
	if self.req.has(reqPSK) {
		return newError(ErrPskRequired, "pre-shared key required")
	}
	if self.req.has(reqPrologue) {
		if err := self.SetPrologue(nil); nil != err {
			return err
		}
	}

	if RoleInitiator == self.role {
		self.mixPremsg(self.localStatic, self.req.has(reqLocalPremsg))
		self.mixPremsg(self.remoteStatic, self.req.has(reqRemotePremsg))
		self.mixPremsg(self.remoteEphemeral, self.req.has(reqFallbackPremsg))
	} else {
		self.mixPremsg(self.remoteStatic, self.req.has(reqRemotePremsg))
		self.mixPremsg(self.localStatic, self.req.has(reqLocalPremsg))
		self.mixPremsg(self.localEphemeral, self.req.has(reqFallbackPremsg))
	}

	self.cursor = 0
	from := self.action
	if RoleInitiator == self.role {
		self.action = ActionWriteMessage
	} else {
		self.action = ActionReadMessage
	}
	self.logTransition(from)
	return nil
}

// mixPremsg mixes dh's public key into the transcript hash if required and
// present; absent optional premessages are silently skipped (spec section
// 4.4 point 6).
func (self *HandshakeContext) mixPremsg(dh *DhContext, required bool) {
	if !required || nil == dh {
		return
	}
	pub := dh.PublicKeyBytes()
	if nil == pub {
		return
	}
	self.sym.MixHash(pub)
}

// ensureLocalEphemeral lazily allocates the local ephemeral slot, used after
// Fallback clears it for regeneration.
func (self *HandshakeContext) ensureLocalEphemeral() (*DhContext, error) {
	if !self.needLocalEphemeral {
		return nil, newError(ErrInvalidState, "pattern %s does not define a local ephemeral key", self.id.PatternID)
	}
	if nil == self.localEphemeral {
		self.localEphemeral = newDhContext(self.dhAlgo)
	}
	return self.localEphemeral, nil
}

// ensureRemoteEphemeral lazily allocates the remote ephemeral slot, used
// after Fallback clears it for regeneration.
func (self *HandshakeContext) ensureRemoteEphemeral() (*DhContext, error) {
	if !self.needRemoteEphemeral {
		return nil, newError(ErrInvalidState, "pattern %s does not define a remote ephemeral key", self.id.PatternID)
	}
	if nil == self.remoteEphemeral {
		self.remoteEphemeral = newDhContext(self.dhAlgo)
	}
	return self.remoteEphemeral, nil
}

// WriteMessage runs the token interpreter forward through the writer's side
// of the current message, appends the encrypted payload, and returns the
// resulting wire message (spec section 4.5).
func (self *HandshakeContext) WriteMessage(payload []byte) ([]byte, error) {
	if ActionWriteMessage != self.action {
		return nil, newError(ErrInvalidState, "WriteMessage called while action is %s", self.action)
	}

	buf := make([]byte, 0, msgMaxSize)
	for {
		tok := self.pattern.tokens[self.cursor]
		if TokenEnd == tok {
			self.transition(ActionSplit)
			break
		}
		if TokenFlipDir == tok {
			self.cursor++
			self.transition(ActionReadMessage)
			break
		}
		self.logToken(tok)
		out, err := self.writeToken(tok)
		if nil != err {
			self.action = ActionFailed
			return nil, err
		}
		buf = append(buf, out...)
		self.cursor++
	}

	out, err := self.sym.EncryptAndHash(payload)
	if nil != err {
		self.action = ActionFailed
		return nil, err
	}
	buf = append(buf, out...)
	if len(buf) > msgMaxSize {
		self.action = ActionFailed
		return nil, newError(ErrInvalidLength, "generated message exceeds %d bytes", msgMaxSize)
	}
	return buf, nil
}

// ReadMessage runs the token interpreter forward through the reader's side
// of msg and returns the decrypted payload (spec section 4.5). Called while
// action is not ActionReadMessage, it fails with ErrInvalidState and leaves
// msg and the context unchanged; on any other error, msg is securely zeroed
// and the context transitions to ActionFailed.
func (self *HandshakeContext) ReadMessage(msg []byte) ([]byte, error) {
	if ActionReadMessage != self.action {
		return nil, newError(ErrInvalidState, "ReadMessage called while action is %s", self.action)
	}
	if len(msg) > msgMaxSize {
		zeroize(msg)
		self.action = ActionFailed
		return nil, newError(ErrInvalidLength, "received message exceeds %d bytes", msgMaxSize)
	}

	pos := 0
	for {
		tok := self.pattern.tokens[self.cursor]
		if TokenEnd == tok {
			self.transition(ActionSplit)
			break
		}
		if TokenFlipDir == tok {
			self.cursor++
			self.transition(ActionWriteMessage)
			break
		}
		self.logToken(tok)
		n, err := self.readToken(tok, msg[pos:])
		if nil != err {
			zeroize(msg)
			self.action = ActionFailed
			return nil, err
		}
		pos += n
		self.cursor++
	}

	payload, err := self.sym.DecryptAndHash(msg[pos:])
	if nil != err {
		zeroize(msg)
		self.action = ActionFailed
		return nil, err
	}
	return payload, nil
}

func (self *HandshakeContext) transition(to Action) {
	from := self.action
	self.action = to
	self.logTransition(from)
}

// writeToken performs one writer-side token operation and returns any bytes
// it appends to the message buffer (spec section 4.5, "Writer token
// semantics").
func (self *HandshakeContext) writeToken(tok Token) ([]byte, error) {
	switch tok {
	case TokenE:
		dh, err := self.ensureLocalEphemeral()
		if nil != err {
			return nil, err
		}
		if !dh.HasKeypair() {
			if nil != self.fixedEphemeral && self.fixedEphemeral.HasKeypair() {
				priv := self.fixedEphemeral.PrivateKeyBytes()
				defer zeroize(priv)
				if err := dh.SetKeypair(priv, self.fixedEphemeral.PublicKeyBytes()); nil != err {
					return nil, err
				}
			} else if err := dh.GenerateKeypair(rnd); nil != err {
				return nil, err
			}
		}
		pub := dh.PublicKeyBytes()
		self.sym.MixHash(pub)
		if PrefixPSK == self.id.PrefixID {
			if err := self.sym.MixKey(pub); nil != err {
				return nil, err
			}
		}
		return pub, nil

	case TokenS:
		if nil == self.localStatic || !self.localStatic.HasKeypair() {
			return nil, newError(ErrInvalidState, "missing local static keypair for token S")
		}
		return self.sym.EncryptAndHash(self.localStatic.PublicKeyBytes())

	case TokenDHEE, TokenDHES, TokenDHSE, TokenDHSS:
		return nil, self.mixDH(tok)

	default:
		panic("noise: unsupported token in pattern program")
	}
}

// readToken performs one reader-side token operation against the head of
// msg and returns the number of bytes it consumed (spec section 4.5,
// "Reader token semantics").
func (self *HandshakeContext) readToken(tok Token, msg []byte) (int, error) {
	switch tok {
	case TokenE:
		dh, err := self.ensureRemoteEphemeral()
		if nil != err {
			return 0, err
		}
		dhLen := self.dhAlgo.PublicKeyLen()
		if len(msg) < dhLen {
			return 0, newError(ErrInvalidLength, "message too small for e public key")
		}
		pub := msg[:dhLen]
		self.sym.MixHash(pub)
		if err := dh.SetPublicKey(pub); nil != err {
			return 0, err
		}
		if dh.IsNullPublicKey() {
			return 0, newError(ErrInvalidPublicKey, "received ephemeral is the DH group's null element")
		}
		if PrefixPSK == self.id.PrefixID {
			if err := self.sym.MixKey(pub); nil != err {
				return 0, err
			}
		}
		return dhLen, nil

	case TokenS:
		if nil == self.remoteStatic {
			return 0, newError(ErrInvalidState, "pattern %s does not define a remote static key", self.id.PatternID)
		}
		want := self.dhAlgo.PublicKeyLen()
		if self.sym.HasKey() {
			want += cipherTagSize
		}
		if len(msg) < want {
			return 0, newError(ErrInvalidLength, "message too small for s public key credential")
		}
		plaintext, err := self.sym.DecryptAndHash(msg[:want])
		if nil != err {
			return 0, err
		}
		if err := self.remoteStatic.SetPublicKey(plaintext); nil != err {
			return 0, err
		}
		return want, nil

	case TokenDHEE, TokenDHES, TokenDHSE, TokenDHSS:
		return 0, self.mixDH(tok)

	default:
		panic("noise: unsupported token in pattern program")
	}
}

// mixDH selects the two DH slots token names (from the initiator's
// perspective, crossed for the responder per spec section 4.5) and mixes
// their shared secret into ck.
func (self *HandshakeContext) mixDH(tok Token) error {
	var a, b *DhContext
	switch tok {
	case TokenDHEE:
		a, b = self.localEphemeral, self.remoteEphemeral
	case TokenDHES:
		if RoleInitiator == self.role {
			a, b = self.localEphemeral, self.remoteStatic
		} else {
			a, b = self.localStatic, self.remoteEphemeral
		}
	case TokenDHSE:
		if RoleInitiator == self.role {
			a, b = self.localStatic, self.remoteEphemeral
		} else {
			a, b = self.localEphemeral, self.remoteStatic
		}
	case TokenDHSS:
		a, b = self.localStatic, self.remoteStatic
	default:
		panic("noise: mixDH called with a non-DH token")
	}
	if nil == a || nil == b || !a.HasKeypair() || !b.HasPublicKey() {
		return newError(ErrInvalidState, "missing key material for DH token")
	}
	shared, err := a.DH(b)
	if nil != err {
		return wrapError(err, ErrInvalidState, "DH operation failed")
	}
	defer zeroize(shared)
	return self.sym.MixKey(shared)
}

// Fallback converts a failed IK session into an XXfallback session in
// place, preserving whichever ephemeral premessage the failed attempt
// already established (spec section 4.6).
func (self *HandshakeContext) Fallback() error {
	if "IK" != self.id.PatternID {
		return newError(ErrNotApplicable, "Fallback is only valid for the IK pattern")
	}
	switch self.role {
	case RoleInitiator:
		if ActionFailed != self.action && ActionReadMessage != self.action {
			return newError(ErrInvalidState, "initiator Fallback requires action Failed or ReadMessage")
		}
		if nil == self.localEphemeral || !self.localEphemeral.HasKeypair() {
			return newError(ErrInvalidState, "initiator Fallback requires a local ephemeral keypair")
		}
	case RoleResponder:
		if ActionFailed != self.action && ActionWriteMessage != self.action {
			return newError(ErrInvalidState, "responder Fallback requires action Failed or WriteMessage")
		}
		if nil == self.remoteEphemeral || !self.remoteEphemeral.HasPublicKey() {
			return newError(ErrInvalidState, "responder Fallback requires a remote ephemeral public key")
		}
	default:
		return newError(ErrInvalidParam, "invalid role")
	}

	pattern, err := GetPattern("XXfallback")
	if nil != err {
		return err
	}

	self.id.PatternID = "XXfallback"
	self.pattern = pattern
	if nil != self.remoteStatic {
		self.remoteStatic.ClearKey()
	}

	wasInitiator := RoleInitiator == self.role
	if wasInitiator {
		self.role = RoleResponder
		self.remoteEphemeral = nil
	} else {
		self.role = RoleInitiator
		self.localEphemeral = nil
	}

	self.req = requirementsFor(pattern.flags, self.id.PrefixID, self.role, true)
	self.refreshSlotFlags()
	self.allocateSlots()

	self.sym.initCK(self.id.protocolName())
	if err := self.sym.InitializeKey(nil); nil != err {
		return err
	}

	self.cursor = 0
	self.split = false
	from := self.action
	self.action = ActionNone
	self.logTransition(from)
	return nil
}

// Split is valid only once action == ActionSplit. It derives the two
// transport cipher contexts, swapping them for a responder so the first
// returned context is always "send" from the caller's perspective (spec
// section 4.7).
func (self *HandshakeContext) Split(secondaryKey []byte) (send, recv *CipherContext, err error) {
	if ActionSplit != self.action || self.split {
		return nil, nil, newError(ErrInvalidState, "Split called while action is %s", self.action)
	}
	if 0 != len(secondaryKey) && 32 != len(secondaryKey) {
		return nil, nil, newError(ErrInvalidLength, "secondary key must be empty or 32 bytes, got %d", len(secondaryKey))
	}
	c1, c2, err := self.sym.split(secondaryKey)
	if nil != err {
		return nil, nil, err
	}
	if RoleResponder == self.role {
		c1, c2 = c2, c1
	}
	self.split = true
	return c1, c2, nil
}

// GetHandshakeHash returns the running transcript hash, right-padded with
// zeros or truncated to len(buf). Valid only once action == ActionSplit,
// and remains valid after Split has been called (spec section 4.7).
func (self *HandshakeContext) GetHandshakeHash(buf []byte) ([]byte, error) {
	if ActionSplit != self.action {
		return nil, newError(ErrInvalidState, "handshake hash only available once the handshake reaches Split")
	}
	h := self.sym.HandshakeHash()
	if nil == buf {
		return h, nil
	}
	n := copy(buf, h)
	for i := n; i < len(buf); i++ {
		buf[i] = 0
	}
	return buf, nil
}

// Zeroize scrubs every secret this context holds - ck, h, the installed
// cipher key, and every DH keypair - and leaves the context inert. Call it
// once a handshake is abandoned, or after its cipher contexts have been
// extracted via Split.
func (self *HandshakeContext) Zeroize() {
	zeroize(self.sym.ckb[:])
	zeroize(self.sym.hb[:])
	self.sym.InitializeKey(nil)
	for _, dh := range [...]*DhContext{self.localStatic, self.localEphemeral, self.remoteStatic, self.remoteEphemeral, self.fixedEphemeral} {
		if nil != dh {
			dh.ClearKey()
		}
	}
	self.action = ActionFailed
}

func (self *HandshakeContext) logTransition(from Action) {
	if nil == self.logger {
		return
	}
	self.logger.Debug("noise: handshake action transition",
		"pattern", self.id.PatternID, "role", self.role.String(),
		"from", from.String(), "to", self.action.String(),
	)
}

func (self *HandshakeContext) logToken(tok Token) {
	if nil == self.logger {
		return
	}
	self.logger.Debug("noise: handshake token",
		"pattern", self.id.PatternID, "role", self.role.String(), "token", tok.String(),
	)
}
