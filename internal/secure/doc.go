// Package secure provides memory-safe handling of sensitive data.
//
// This package wraps the memguard library to provide secure storage for
// secrets in memory. It ensures that sensitive data is:
//
//   - Encrypted at rest in memory (XSalsa20Poly1305)
//   - Protected from swapping via mlock
//   - Securely wiped when no longer needed
//   - Protected from buffer overflow via guard pages
//
// # Usage
//
// genesis's only holder of operator-typed plaintext is a `provided`
// plan's capture step (internal/executor's captureProvided): the
// value an operator types at a prompt, between leaving the terminal
// and landing in the secret store:
//
//	buf, err := secure.NewSecureBuffer([]byte(typedValue))
//	if err != nil {
//	    // Handle error - may indicate mlock unavailable
//	}
//	defer buf.Destroy()
//
//	err = buf.WithPlaintext(func(plaintext []byte) error {
//	    return store.Set(ctx, path, key, string(plaintext))
//	})
//
// # Platform Behavior
//
// Memory locking behavior varies by platform:
//
//   - Linux: Requires RLIMIT_MEMLOCK to be set appropriately
//   - macOS: Works out of the box
//   - Windows: Uses VirtualLock
//
// The package itself neither checks nor logs whether mlock succeeded;
// NewSecureBuffer always returns a nil error.
//
// # Security Guarantees
//
// This package provides defense-in-depth against memory-based attacks:
//
//   - Core dumps will not contain plaintext secrets
//   - Secrets won't be swapped to disk
//   - Memory is overwritten with zeros on destruction
//   - Guard pages detect buffer overflows
//
// It does NOT protect against:
//
//   - Attackers with root access to the running process
//   - Hardware-level attacks (cold boot, DMA)
//   - Spectre/Meltdown side-channel attacks
package secure
