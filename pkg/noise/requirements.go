package noise

import "code.kerpass.org/golang/internal/utils"

// requirements is the bitset a HandshakeContext carries over
// {PROLOGUE, LOCAL_REQUIRED, REMOTE_REQUIRED, LOCAL_PREMSG, REMOTE_PREMSG,
// FALLBACK_PREMSG, PSK} (spec section 3, "requirements"). It is built on
// internal/utils.Bitset, the same compact flag storage the teacher uses
// elsewhere in the repository.
type requirements utils.Bitset

const (
	reqPrologue int = iota
	reqLocalRequired
	reqRemoteRequired
	reqLocalPremsg
	reqRemotePremsg
	reqFallbackPremsg
	reqPSK

	numRequirementBits = 8
)

func newRequirements() requirements {
	return requirements(make(utils.Bitset, numRequirementBits/8))
}

// set and clear never error because every call site uses one of the
// compile-time constants above, all within [0, numRequirementBits).

func (self requirements) set(bit int) {
	_ = utils.Bitset(self).SetBit(bit)
}

func (self requirements) clear(bit int) {
	_ = utils.Bitset(self).ClearBit(bit)
}

func (self requirements) has(bit int) bool {
	v, _ := utils.Bitset(self).GetBit(bit)
	return v
}
