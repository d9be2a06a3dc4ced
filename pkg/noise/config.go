package noise

import (
	"fmt"
	"regexp"
)

// Prefix identifiers, used as the prefix_id field of a ProtocolId (spec
// section 3, "Protocol identifier").
const (
	PrefixStandard = ""
	PrefixPSK      = "psk"
)

// ProtocolId names one fully negotiated noise protocol instance: a
// handshake pattern, the standard/psk prefix, and the DH/cipher/hash
// algorithm triple (spec section 3, "Protocol identifier"). It is
// comparable by value and immutable once constructed.
type ProtocolId struct {
	PatternID string
	PrefixID  string
	DHID      string
	CipherID  string
	HashID    string
}

// String renders the protocol name this id reconstructs to, eg
// "Noise_XX_25519_ChaChaPoly_BLAKE2s" or "NoisePSK_XX_25519_ChaChaPoly_SHA512".
func (self ProtocolId) String() string {
	return self.protocolName()
}

// protocolName is the exact byte string mixed into h at SymmetricContext
// construction (spec section 4.1).
func (self ProtocolId) protocolName() string {
	prefix := ""
	if PrefixPSK == self.PrefixID {
		prefix = "PSK"
	}
	return fmt.Sprintf("Noise%s_%s_%s_%s_%s", prefix, self.PatternID, self.DHID, self.CipherID, self.HashID)
}

var protoNameRe = regexp.MustCompile(
	`^Noise(PSK)?_([A-Za-z0-9]+)_([A-Za-z0-9/]+)_([A-Za-z0-9/]+)_([A-Za-z0-9/]+)$`,
)

// ParseProtocol parses a noise protocol name into a ProtocolId. Valid names
// look like "Noise_XX_25519_AESGCM_SHA256" or
// "NoisePSK_XX_25519_ChaChaPoly_SHA512" (spec section 9, "Protocol name
// parsing"; noise protocol specs section 8).
func ParseProtocol(name string) (ProtocolId, error) {
	parts := protoNameRe.FindStringSubmatch(name)
	if nil == parts {
		return ProtocolId{}, newError(ErrUnknownName, "invalid protocol name %q", name)
	}
	prefix := PrefixStandard
	if "PSK" == parts[1] {
		prefix = PrefixPSK
	}
	return ProtocolId{
		PatternID: parts[2],
		PrefixID:  prefix,
		DHID:      parts[3],
		CipherID:  parts[4],
		HashID:    parts[5],
	}, nil
}
