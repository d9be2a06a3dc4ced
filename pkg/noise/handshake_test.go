package noise

import (
	"bytes"
	"errors"
	"testing"
)

// newPair builds an initiator/responder HandshakeContext pair for name,
// generating a fresh static keypair on whichever side the pattern requires
// one, and loading the remote static public key into the other
// side from a premessage where the pattern calls for one.
func newPair(t *testing.T, name string) (*HandshakeContext, *HandshakeContext) {
	t.Helper()
	id, err := ParseProtocol(name)
	if nil != err {
		t.Fatalf("ParseProtocol(%q): %v", name, err)
	}
	ini, err := NewHandshakeContext(id, RoleInitiator)
	if nil != err {
		t.Fatalf("NewHandshakeContext(initiator): %v", err)
	}
	resp, err := NewHandshakeContext(id, RoleResponder)
	if nil != err {
		t.Fatalf("NewHandshakeContext(responder): %v", err)
	}

	if ini.NeedsLocalStatic() {
		dh, err := ini.LocalStatic()
		if nil != err {
			t.Fatalf("initiator LocalStatic: %v", err)
		}
		if err := dh.GenerateKeypair(rnd); nil != err {
			t.Fatalf("initiator GenerateKeypair: %v", err)
		}
	}
	if resp.NeedsLocalStatic() {
		dh, err := resp.LocalStatic()
		if nil != err {
			t.Fatalf("responder LocalStatic: %v", err)
		}
		if err := dh.GenerateKeypair(rnd); nil != err {
			t.Fatalf("responder GenerateKeypair: %v", err)
		}
	}

	// premessage exchange: whichever side needs the other's static key out
	// of band gets it copied over before Start, per the pattern's flags.
	if ini.NeedsRemoteStatic() {
		local, err := resp.LocalStatic()
		if nil != err {
			t.Fatalf("responder LocalStatic for premessage: %v", err)
		}
		remote, err := ini.RemoteStatic()
		if nil != err {
			t.Fatalf("initiator RemoteStatic: %v", err)
		}
		if err := remote.SetPublicKey(local.PublicKeyBytes()); nil != err {
			t.Fatalf("initiator RemoteStatic.SetPublicKey: %v", err)
		}
	}
	if resp.NeedsRemoteStatic() {
		local, err := ini.LocalStatic()
		if nil != err {
			t.Fatalf("initiator LocalStatic for premessage: %v", err)
		}
		remote, err := resp.RemoteStatic()
		if nil != err {
			t.Fatalf("responder RemoteStatic: %v", err)
		}
		if err := remote.SetPublicKey(local.PublicKeyBytes()); nil != err {
			t.Fatalf("responder RemoteStatic.SetPublicKey: %v", err)
		}
	}

	return ini, resp
}

// runHandshake drives ini/resp to completion, alternating WriteMessage and
// ReadMessage according to each side's Action, and returns the two sides'
// send/recv CipherContext pairs plus their handshake hashes.
func runHandshake(t *testing.T, ini, resp *HandshakeContext) (iSend, iRecv, rSend, rRecv *CipherContext, iHash, rHash []byte) {
	t.Helper()
	if err := ini.Start(); nil != err {
		t.Fatalf("initiator Start: %v", err)
	}
	if err := resp.Start(); nil != err {
		t.Fatalf("responder Start: %v", err)
	}

	writer, reader := ini, resp
	for {
		if ActionSplit == writer.Action() && ActionSplit == reader.Action() {
			break
		}
		msg, err := writer.WriteMessage(nil)
		if nil != err {
			t.Fatalf("WriteMessage: %v", err)
		}
		if _, err := reader.ReadMessage(msg); nil != err {
			t.Fatalf("ReadMessage: %v", err)
		}
		writer, reader = reader, writer
	}

	var err error
	iSend, iRecv, err = ini.Split(nil)
	if nil != err {
		t.Fatalf("initiator Split: %v", err)
	}
	rSend, rRecv, err = resp.Split(nil)
	if nil != err {
		t.Fatalf("responder Split: %v", err)
	}
	iHash, err = ini.GetHandshakeHash(nil)
	if nil != err {
		t.Fatalf("initiator GetHandshakeHash: %v", err)
	}
	rHash, err = resp.GetHandshakeHash(nil)
	if nil != err {
		t.Fatalf("responder GetHandshakeHash: %v", err)
	}
	return
}

func TestHandshakeRoundTrip(t *testing.T) {
	protocols := []string{
		"Noise_NN_25519_ChaChaPoly_BLAKE2s",
		"Noise_XX_25519_AESGCM_SHA256",
		"Noise_IK_25519_AESGCM_SHA256",
		"Noise_KK_25519_ChaChaPoly_SHA512",
		"Noise_XK_25519_AESGCM_SHA256",
	}
	for _, name := range protocols {
		t.Run(name, func(t *testing.T) {
			ini, resp := newPair(t, name)
			iSend, iRecv, rSend, rRecv, iHash, rHash := runHandshake(t, ini, resp)

			if !bytes.Equal(iHash, rHash) {
				t.Fatalf("handshake hashes differ: initiator %x, responder %x", iHash, rHash)
			}

			plaintext := []byte("the quick brown fox jumps over the lazy dog")
			ct, err := iSend.EncryptWithAd(nil, plaintext)
			if nil != err {
				t.Fatalf("initiator send EncryptWithAd: %v", err)
			}
			pt, err := rRecv.DecryptWithAd(nil, ct)
			if nil != err {
				t.Fatalf("responder recv DecryptWithAd: %v", err)
			}
			if !bytes.Equal(pt, plaintext) {
				t.Fatalf("initiator->responder round trip mismatch: got %q", pt)
			}

			ct, err = rSend.EncryptWithAd(nil, plaintext)
			if nil != err {
				t.Fatalf("responder send EncryptWithAd: %v", err)
			}
			pt, err = iRecv.DecryptWithAd(nil, ct)
			if nil != err {
				t.Fatalf("initiator recv DecryptWithAd: %v", err)
			}
			if !bytes.Equal(pt, plaintext) {
				t.Fatalf("responder->initiator round trip mismatch: got %q", pt)
			}
		})
	}
}

func TestHandshakeFixedEphemeral(t *testing.T) {
	ini, resp := newPair(t, "Noise_NN_25519_ChaChaPoly_BLAKE2s")

	iFixed, err := ini.FixedEphemeral()
	if nil != err {
		t.Fatalf("initiator FixedEphemeral: %v", err)
	}
	if err := iFixed.GenerateKeypair(rnd); nil != err {
		t.Fatalf("GenerateKeypair for fixed ephemeral: %v", err)
	}

	_, _, _, _, iHash, rHash := runHandshake(t, ini, resp)
	if !bytes.Equal(iHash, rHash) {
		t.Fatalf("handshake hashes differ with fixed ephemeral: initiator %x, responder %x", iHash, rHash)
	}

	le, err := ini.LocalEphemeral()
	if nil != err {
		t.Fatalf("initiator LocalEphemeral: %v", err)
	}
	if !bytes.Equal(le.PublicKeyBytes(), iFixed.PublicKeyBytes()) {
		t.Fatal("initiator's local ephemeral does not match the configured fixed ephemeral")
	}
}

func TestHandshakePreSharedKey(t *testing.T) {
	ini, resp := newPair(t, "NoisePSK_XX_25519_ChaChaPoly_SHA512")

	psk := make([]byte, pskKeySize)
	for i := range psk {
		psk[i] = byte(i)
	}
	if err := ini.SetPreSharedKey(psk); nil != err {
		t.Fatalf("initiator SetPreSharedKey: %v", err)
	}
	if err := resp.SetPreSharedKey(psk); nil != err {
		t.Fatalf("responder SetPreSharedKey: %v", err)
	}

	_, _, _, _, iHash, rHash := runHandshake(t, ini, resp)
	if !bytes.Equal(iHash, rHash) {
		t.Fatalf("handshake hashes differ for psk prefix: initiator %x, responder %x", iHash, rHash)
	}
}

func TestHandshakePreSharedKeyRequiredBeforeStart(t *testing.T) {
	ini, _ := newPair(t, "NoisePSK_XX_25519_ChaChaPoly_SHA512")
	if err := ini.Start(); nil == err {
		t.Fatal("expected Start to fail without a configured pre-shared key")
	} else if !errors.Is(err, ErrPskRequired) {
		t.Fatalf("expected ErrPskRequired, got %v", err)
	}
}

func TestHandshakeSetPreSharedKeyImpliesEmptyPrologue(t *testing.T) {
	id, err := ParseProtocol("NoisePSK_XX_25519_ChaChaPoly_SHA512")
	if nil != err {
		t.Fatalf("ParseProtocol: %v", err)
	}
	hs, err := NewHandshakeContext(id, RoleInitiator)
	if nil != err {
		t.Fatalf("NewHandshakeContext: %v", err)
	}
	psk := make([]byte, pskKeySize)
	if err := hs.SetPreSharedKey(psk); nil != err {
		t.Fatalf("SetPreSharedKey: %v", err)
	}
	if err := hs.SetPrologue(nil); nil == err {
		t.Fatal("expected SetPrologue to fail after SetPreSharedKey consumed the implicit empty prologue")
	}
}

func TestHandshakeDoublePrologueRejected(t *testing.T) {
	id, err := ParseProtocol("Noise_NN_25519_ChaChaPoly_BLAKE2s")
	if nil != err {
		t.Fatalf("ParseProtocol: %v", err)
	}
	hs, err := NewHandshakeContext(id, RoleInitiator)
	if nil != err {
		t.Fatalf("NewHandshakeContext: %v", err)
	}
	if err := hs.SetPrologue([]byte("ctx")); nil != err {
		t.Fatalf("first SetPrologue: %v", err)
	}
	if err := hs.SetPrologue([]byte("ctx")); nil == err {
		t.Fatal("expected second SetPrologue call to fail")
	} else if !errors.Is(err, ErrInvalidState) {
		t.Fatalf("expected ErrInvalidState, got %v", err)
	}
}

func TestHandshakeWriteMessageWrongState(t *testing.T) {
	_, resp := newPair(t, "Noise_NN_25519_ChaChaPoly_BLAKE2s")
	if err := resp.Start(); nil != err {
		t.Fatalf("Start: %v", err)
	}
	// responder is the reader for message 1; writing now is out of turn.
	if _, err := resp.WriteMessage(nil); nil == err {
		t.Fatal("expected WriteMessage to fail when action is read_message")
	} else if !errors.Is(err, ErrInvalidState) {
		t.Fatalf("expected ErrInvalidState, got %v", err)
	}
}

func TestHandshakeRejectsNullRemoteEphemeral(t *testing.T) {
	ini, resp := newPair(t, "Noise_NN_25519_ChaChaPoly_BLAKE2s")
	if err := ini.Start(); nil != err {
		t.Fatalf("initiator Start: %v", err)
	}
	if err := resp.Start(); nil != err {
		t.Fatalf("responder Start: %v", err)
	}
	algo, err := GetDH(DH_25519)
	if nil != err {
		t.Fatalf("GetDH: %v", err)
	}
	msg := make([]byte, algo.PublicKeyLen()+4)
	copy(msg[algo.PublicKeyLen():], []byte{0xde, 0xad, 0xbe, 0xef})

	if _, err := resp.ReadMessage(msg); nil == err {
		t.Fatal("expected ReadMessage to reject an all-zero ephemeral public key")
	} else if !errors.Is(err, ErrInvalidPublicKey) {
		t.Fatalf("expected ErrInvalidPublicKey, got %v", err)
	}
	if ActionFailed != resp.Action() {
		t.Fatalf("expected action failed after rejecting null ephemeral, got %s", resp.Action())
	}
	if !isAllZero(msg) {
		t.Fatal("expected the rejected message buffer to be zeroized")
	}
}

func TestHandshakeFallback(t *testing.T) {
	ini, resp := newPair(t, "Noise_IK_25519_AESGCM_SHA256")
	if err := ini.Start(); nil != err {
		t.Fatalf("initiator Start: %v", err)
	}
	if err := resp.Start(); nil != err {
		t.Fatalf("responder Start: %v", err)
	}

	// the initiator sends its IK first message and the responder reads it
	// successfully, but then decides (for reasons outside this exchange,
	// eg a policy check) not to continue the IK session and falls back to
	// XXfallback instead of writing message 2.
	msg, err := ini.WriteMessage(nil)
	if nil != err {
		t.Fatalf("initiator WriteMessage: %v", err)
	}
	if _, err := resp.ReadMessage(msg); nil != err {
		t.Fatalf("responder ReadMessage: %v", err)
	}

	if err := resp.Fallback(); nil != err {
		t.Fatalf("responder Fallback: %v", err)
	}
	if err := ini.Fallback(); nil != err {
		t.Fatalf("initiator Fallback: %v", err)
	}

	if "XXfallback" != resp.ProtocolID().PatternID || "XXfallback" != ini.ProtocolID().PatternID {
		t.Fatal("expected both sides to report the XXfallback pattern after Fallback")
	}
	// the old initiator is now the XXfallback responder and vice versa.
	if RoleResponder != ini.Role() {
		t.Fatalf("expected old initiator to become responder, got %s", ini.Role())
	}
	if RoleInitiator != resp.Role() {
		t.Fatalf("expected old responder to become initiator, got %s", resp.Role())
	}

	_, _, _, _, iHash, rHash := runHandshake(t, resp, ini)
	if !bytes.Equal(iHash, rHash) {
		t.Fatalf("handshake hashes differ after fallback: %x vs %x", iHash, rHash)
	}
}

func TestHandshakeSplitOnlyOnce(t *testing.T) {
	ini, resp := newPair(t, "Noise_NN_25519_ChaChaPoly_BLAKE2s")
	runHandshake(t, ini, resp)
	if _, _, err := ini.Split(nil); nil == err {
		t.Fatal("expected a second Split call to fail")
	} else if !errors.Is(err, ErrInvalidState) {
		t.Fatalf("expected ErrInvalidState, got %v", err)
	}
}

func TestHandshakeHashAvailableAfterSplit(t *testing.T) {
	ini, resp := newPair(t, "Noise_NN_25519_ChaChaPoly_BLAKE2s")
	runHandshake(t, ini, resp)
	// GetHandshakeHash must keep working after Split has consumed ck.
	h, err := ini.GetHandshakeHash(nil)
	if nil != err {
		t.Fatalf("GetHandshakeHash after Split: %v", err)
	}
	if 0 == len(h) {
		t.Fatal("expected a non-empty handshake hash after Split")
	}
}

func TestRequirementsForDeterministic(t *testing.T) {
	// K is a one-way pattern whose both static keys are premessaged, so
	// both roles should come out requiring both keys up front.
	pattern, err := GetPattern("K")
	if nil != err {
		t.Fatalf("GetPattern: %v", err)
	}
	a := requirementsFor(pattern.flags, PrefixStandard, RoleInitiator, false)
	b := requirementsFor(pattern.flags, PrefixStandard, RoleInitiator, false)
	if !bytes.Equal(a, b) {
		t.Fatal("requirementsFor is not deterministic for identical inputs")
	}
	ini := requirementsFor(pattern.flags, PrefixStandard, RoleInitiator, false)
	resp := requirementsFor(pattern.flags, PrefixStandard, RoleResponder, false)
	if !ini.has(reqLocalRequired) || !ini.has(reqRemoteRequired) {
		t.Fatal("expected K initiator to require both local and remote static keys")
	}
	if !resp.has(reqLocalRequired) || !resp.has(reqRemoteRequired) {
		t.Fatal("expected K responder to require both local and remote static keys")
	}

	// XX's own static key still must be supplied by the caller (it
	// participates in the pattern via an in-band S token), but the remote
	// static is learned entirely in-band, so it is never a Start
	// precondition.
	xx, err := GetPattern("XX")
	if nil != err {
		t.Fatalf("GetPattern: %v", err)
	}
	xxIni := requirementsFor(xx.flags, PrefixStandard, RoleInitiator, false)
	if !xxIni.has(reqLocalRequired) {
		t.Fatal("expected XX to require a local static key before Start")
	}
	if xxIni.has(reqRemoteRequired) {
		t.Fatal("expected XX to not require a premessaged remote static key")
	}
}

