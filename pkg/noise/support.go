package noise

import (
	"encoding/json"
	"os"

	"code.kerpass.org/golang/internal/utils"
)

// TestVector mirrors the published noise protocol test vector JSON schema
// (the noise-c / Noise-Explorer vectors.json layout): one full handshake
// transcript plus the transport messages exchanged afterward. It lets a
// test assert this package's byte-for-byte output against an externally
// published vectors file instead of only against itself (spec section 8,
// "Round-trips").
type TestVector struct {
	ProtocolName                string            `json:"protocol_name"`
	InitiatorPrologue           utils.HexBinary   `json:"init_prologue"`
	InitiatorEphemeralKey       utils.HexBinary   `json:"init_ephemeral"`
	InitiatorStaticKey          utils.HexBinary   `json:"init_static"`
	InitiatorRemoteEphemeralKey utils.HexBinary   `json:"init_remote_ephemeral"`
	InitiatorRemoteStaticKey    utils.HexBinary   `json:"init_remote_static"`
	InitiatorPsks               []utils.HexBinary `json:"init_psks"`
	ResponderPrologue           utils.HexBinary   `json:"resp_prologue"`
	ResponderEphemeralKey       utils.HexBinary   `json:"resp_ephemeral"`
	ResponderStaticKey          utils.HexBinary   `json:"resp_static"`
	ResponderRemoteEphemeralKey utils.HexBinary   `json:"resp_remote_ephemeral"`
	ResponderRemoteStaticKey    utils.HexBinary   `json:"resp_remote_static"`
	ResponderPsks               []utils.HexBinary `json:"resp_psks"`
	HandshakeHash               utils.HexBinary   `json:"handshake_hash"`
	Messages                    []TestMessage     `json:"messages"`
}

// TestMessage holds one transport-phase payload/ciphertext pair from a
// TestVector.
type TestMessage struct {
	Payload    utils.HexBinary `json:"payload"`
	CipherText utils.HexBinary `json:"ciphertext"`
}

// LoadTestVectors reads a vectors.json file - the format published
// alongside the noise protocol specs' own test suite, keyed under a top
// level "vectors" array - from srcpath.
func LoadTestVectors(srcpath string) ([]TestVector, error) {
	src, err := os.Open(srcpath)
	if nil != err {
		return nil, wrapError(err, ErrNoMemory, "failed opening file %s", srcpath)
	}
	defer src.Close()

	holder := struct {
		Vectors []TestVector `json:"vectors"`
	}{}
	if err := json.NewDecoder(src).Decode(&holder); nil != err {
		return nil, wrapError(err, ErrInvalidParam, "failed decoding json test vectors from %s", srcpath)
	}
	return holder.Vectors, nil
}

// SaveTestVectors writes vectors to dstpath in the same "vectors" array
// layout LoadTestVectors reads, used by tooling that records a freshly run
// handshake as a fixture for later regression comparison.
func SaveTestVectors(dstpath string, vectors []TestVector) error {
	dst, err := os.Create(dstpath)
	if nil != err {
		return wrapError(err, ErrNoMemory, "failed creating file %s", dstpath)
	}
	defer dst.Close()

	holder := struct {
		Vectors []TestVector `json:"vectors"`
	}{Vectors: vectors}
	enc := json.NewEncoder(dst)
	enc.SetIndent("", "  ")
	return wrapError(enc.Encode(&holder), ErrInvalidParam, "failed encoding json test vectors to %s", dstpath)
}
