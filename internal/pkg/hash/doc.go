// Package hash stores one-time codes as bcrypt digests so the sandbox
// backend never keeps a plaintext code.
package hash
