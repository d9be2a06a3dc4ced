// Package noise implements the handshake engine of the Noise Protocol
// Framework: pattern-driven key agreement between an initiator and a
// responder, terminating in a pair of transport cipher contexts.
//
// The package is organized the way the noise protocol specs themselves are:
// a SymmetricContext (symmetric.go) that owns the chaining key and transcript
// hash, a HandshakeContext (handshake.go) that drives the token interpreter
// over a HandshakePattern (patterns.go), and three small concrete handle
// types - DhContext, CipherContext, HashContext - whose algorithms are
// selected by name from registries (dh.go: 25519; cipher.go: AESGCM,
// ChaChaPoly; hash.go: SHA256, SHA512, BLAKE2s, BLAKE2b).
//
// None of this package performs I/O. Callers own framing, retries and
// transport; HandshakeContext only ever turns bytes already in memory into
// other bytes in memory.
package noise
