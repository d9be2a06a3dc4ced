package noise

import (
	"sync"
)

// Token identifies a single instruction in a handshake pattern's token
// program (spec section 3, "Handshake pattern").
type Token byte

const (
	TokenE Token = iota
	TokenS
	TokenDHEE
	TokenDHES
	TokenDHSE
	TokenDHSS
	TokenFlipDir
	TokenEnd
)

// String implements fmt.Stringer, used only for Debug-level tracing (spec
// section 5).
func (self Token) String() string {
	switch self {
	case TokenE:
		return "E"
	case TokenS:
		return "S"
	case TokenDHEE:
		return "DHEE"
	case TokenDHES:
		return "DHES"
	case TokenDHSE:
		return "DHSE"
	case TokenDHSS:
		return "DHSS"
	case TokenFlipDir:
		return "FLIP_DIR"
	case TokenEnd:
		return "END"
	default:
		return "UNKNOWN"
	}
}

// Pattern flag bits, encoded from the initiator's perspective. The
// responder's view is obtained by swapping local<->remote bits (spec
// section 4.2, "For the responder role, the flags byte is first reversed").
const (
	patternLocalS      byte = 1 << iota // local static participates in the pattern
	patternLocalE                       // local ephemeral participates in the pattern
	patternRemoteS                      // remote static participates in the pattern
	patternRemoteE                      // remote ephemeral participates in the pattern
	patternLocalSPre                    // local static is premessaged to the remote party
	patternRemoteSPre                   // remote static is premessaged to the local party
)

// HandshakePattern is a pattern id's flags byte plus its token program (spec
// section 3): a flat sequence of tokens, TokenFlipDir marking the boundary
// between alternating messages, TokenEnd marking the program's end.
type HandshakePattern struct {
	flags  byte
	tokens []Token
}

// PatternTable is a static map from pattern id to HandshakePattern (spec
// section 2, "PatternTable").
type PatternTable struct {
	mut     sync.RWMutex
	entries map[string]HandshakePattern
}

// NewPatternTable returns an empty PatternTable.
func NewPatternTable() *PatternTable {
	return &PatternTable{entries: make(map[string]HandshakePattern)}
}

// Register adds pattern under id. It errors if id is already registered.
func (self *PatternTable) Register(id string, pattern HandshakePattern) error {
	self.mut.Lock()
	defer self.mut.Unlock()
	if _, conflict := self.entries[id]; conflict {
		return newError(ErrUnknownName, "pattern id %s already registered", id)
	}
	self.entries[id] = pattern
	return nil
}

// Get loads the HandshakePattern registered under id.
func (self *PatternTable) Get(id string) (HandshakePattern, error) {
	self.mut.RLock()
	defer self.mut.RUnlock()
	pattern, found := self.entries[id]
	if !found {
		return HandshakePattern{}, newError(ErrUnknownId, "unknown pattern id %s", id)
	}
	return pattern, nil
}

var defaultPatternTable *PatternTable

// GetPattern loads the HandshakePattern registered under id in the default
// PatternTable.
func GetPattern(id string) (HandshakePattern, error) {
	return defaultPatternTable.Get(id)
}

func mustRegisterPattern(id string, flags byte, tokens ...Token) {
	pattern := HandshakePattern{flags: flags, tokens: tokens}
	if err := defaultPatternTable.Register(id, pattern); nil != err {
		panic(err)
	}
}

func init() {
	defaultPatternTable = NewPatternTable()

	// one-way patterns
	mustRegisterPattern("N",
		patternLocalE|patternRemoteS|patternRemoteSPre,
		TokenE, TokenDHES, TokenEnd,
	)
	mustRegisterPattern("K",
		patternLocalS|patternLocalSPre|patternLocalE|patternRemoteS|patternRemoteSPre,
		TokenE, TokenDHES, TokenDHSS, TokenEnd,
	)
	mustRegisterPattern("X",
		patternLocalS|patternLocalE|patternRemoteS|patternRemoteSPre,
		TokenE, TokenDHES, TokenS, TokenDHSS, TokenEnd,
	)

	// interactive patterns
	mustRegisterPattern("NN",
		patternLocalE|patternRemoteE,
		TokenE, TokenFlipDir, TokenE, TokenDHEE, TokenEnd,
	)
	mustRegisterPattern("KN",
		patternLocalS|patternLocalSPre|patternLocalE|patternRemoteE,
		TokenE, TokenFlipDir, TokenE, TokenDHEE, TokenDHSE, TokenEnd,
	)
	mustRegisterPattern("NK",
		patternLocalE|patternRemoteE|patternRemoteS|patternRemoteSPre,
		TokenE, TokenDHES, TokenFlipDir, TokenE, TokenDHEE, TokenEnd,
	)
	mustRegisterPattern("KK",
		patternLocalS|patternLocalSPre|patternLocalE|patternRemoteS|patternRemoteSPre|patternRemoteE,
		TokenE, TokenDHES, TokenDHSS, TokenFlipDir, TokenE, TokenDHEE, TokenDHSE, TokenEnd,
	)
	mustRegisterPattern("NX",
		patternLocalE|patternRemoteE|patternRemoteS,
		TokenE, TokenFlipDir, TokenE, TokenDHEE, TokenS, TokenDHES, TokenEnd,
	)
	mustRegisterPattern("KX",
		patternLocalS|patternLocalSPre|patternLocalE|patternRemoteE|patternRemoteS,
		TokenE, TokenFlipDir, TokenE, TokenDHEE, TokenDHSE, TokenS, TokenDHES, TokenEnd,
	)
	mustRegisterPattern("XN",
		patternLocalE|patternRemoteE|patternLocalS,
		TokenE, TokenFlipDir, TokenE, TokenDHEE, TokenFlipDir, TokenS, TokenDHSE, TokenEnd,
	)
	mustRegisterPattern("IN",
		patternLocalE|patternLocalS|patternRemoteE,
		TokenE, TokenS, TokenFlipDir, TokenE, TokenDHEE, TokenDHSE, TokenEnd,
	)
	mustRegisterPattern("XK",
		patternLocalE|patternRemoteE|patternRemoteS|patternRemoteSPre|patternLocalS,
		TokenE, TokenDHES, TokenFlipDir, TokenE, TokenDHEE, TokenFlipDir, TokenS, TokenDHSE, TokenEnd,
	)
	mustRegisterPattern("IK",
		patternLocalE|patternLocalS|patternRemoteE|patternRemoteS|patternRemoteSPre,
		TokenE, TokenDHES, TokenS, TokenDHSS, TokenFlipDir, TokenE, TokenDHEE, TokenDHSE, TokenEnd,
	)
	mustRegisterPattern("XX",
		patternLocalE|patternRemoteE|patternRemoteS|patternLocalS,
		TokenE, TokenFlipDir, TokenE, TokenDHEE, TokenS, TokenDHES, TokenFlipDir, TokenS, TokenDHSE, TokenEnd,
	)
	mustRegisterPattern("IX",
		patternLocalE|patternLocalS|patternRemoteE|patternRemoteS,
		TokenE, TokenS, TokenFlipDir, TokenE, TokenDHEE, TokenDHSE, TokenS, TokenDHES, TokenEnd,
	)

	// XXfallback shares XX's token program; the already-known ephemeral
	// premessage from the failed IK attempt is handled structurally by
	// HandshakeContext.Fallback/Start rather than by a flags bit.
	mustRegisterPattern("XXfallback",
		patternLocalE|patternRemoteE|patternRemoteS|patternLocalS,
		TokenE, TokenFlipDir, TokenE, TokenDHEE, TokenS, TokenDHES, TokenFlipDir, TokenS, TokenDHSE, TokenEnd,
	)
}

// reverseFlags swaps local<->remote bits, turning an initiator-perspective
// flags byte into a responder-perspective one (spec section 4.2).
func reverseFlags(flags byte) byte {
	var out byte
	if flags&patternLocalS != 0 {
		out |= patternRemoteS
	}
	if flags&patternRemoteS != 0 {
		out |= patternLocalS
	}
	if flags&patternLocalE != 0 {
		out |= patternRemoteE
	}
	if flags&patternRemoteE != 0 {
		out |= patternLocalE
	}
	if flags&patternLocalSPre != 0 {
		out |= patternRemoteSPre
	}
	if flags&patternRemoteSPre != 0 {
		out |= patternLocalSPre
	}
	return out
}

// requirementsFor computes the requirements bitset for a pattern's flags
// byte, given the negotiated prefix, role and fallback status (spec section
// 4.2).
func requirementsFor(flags byte, prefix string, role Role, isFallback bool) requirements {
	if RoleResponder == role {
		flags = reverseFlags(flags)
	}

	req := newRequirements()
	req.set(reqPrologue)

	if flags&patternLocalS != 0 {
		req.set(reqLocalRequired)
		if flags&patternLocalSPre != 0 {
			req.set(reqLocalPremsg)
		}
	}
	if flags&patternRemoteSPre != 0 {
		req.set(reqRemoteRequired)
		req.set(reqRemotePremsg)
	}
	if isFallback {
		req.set(reqFallbackPremsg)
	}
	if PrefixPSK == prefix {
		req.set(reqPSK)
	}

	return req
}
