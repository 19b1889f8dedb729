// Package storekit provides small, pure utilities for building, hashing,
// signing and checking Aleph STORE messages.
//
// Scope:
//   - Build the storage item content for a content address and serialize
//     it exactly the way JSON.stringify does (field order preserved, no
//     HTML escaping, shortest float form)
//   - Compute the item hash and the verification buffer a wallet signs
//   - Turn an unsigned envelope into a signed one
//   - Re-check a signed envelope's internal consistency
//
// Non-goals:
//   - No network or wallet dependencies (signing is left to callers)
//   - No logging; keep functions small and deterministic
package storekit
