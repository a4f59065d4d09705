package validator

import (
	"bytes"
	"crypto/rsa"
	"fmt"

	dserrors "github.com/mrferris/genesis/internal/errors"
	"github.com/mrferris/genesis/internal/plan"
	"golang.org/x/crypto/ssh"
)

func checkSSH(report *Report, p *plan.Plan, keys map[string]string) {
	signer, err := ssh.ParsePrivateKey([]byte(keys["private"]))
	if err != nil {
		report.add("parse-private", dserrors.OutcomeError, err.Error())
		return
	}
	report.add("parse-private", dserrors.OutcomeOK, "")

	declaredPublic, _, _, _, err := ssh.ParseAuthorizedKey([]byte(keys["public"]))
	if err != nil {
		report.add("parse-public", dserrors.OutcomeError, err.Error())
		return
	}
	report.add("parse-public", dserrors.OutcomeOK, "")

	if !bytes.Equal(signer.PublicKey().Marshal(), declaredPublic.Marshal()) {
		report.add("public-key-derivation", dserrors.OutcomeError, "private key does not re-derive the stored public key")
	} else {
		report.add("public-key-derivation", dserrors.OutcomeOK, "")
	}

	if storedFingerprint, ok := keys["fingerprint"]; ok {
		actualFingerprint := ssh.FingerprintSHA256(declaredPublic)
		if actualFingerprint != storedFingerprint {
			report.add("fingerprint", dserrors.OutcomeWarn, fmt.Sprintf("stored fingerprint %q does not match recomputed %q", storedFingerprint, actualFingerprint))
		} else {
			report.add("fingerprint", dserrors.OutcomeOK, "")
		}
	}

	if p.Size > 0 {
		if key, ok := signer.PublicKey().(ssh.CryptoPublicKey); ok {
			if rsaKey, ok := key.CryptoPublicKey().(*rsa.PublicKey); ok {
				bits := rsaKey.N.BitLen()
				if bits != p.Size {
					report.add("bit-size", dserrors.OutcomeWarn, fmt.Sprintf("key is %d bits, declared %d", bits, p.Size))
				} else {
					report.add("bit-size", dserrors.OutcomeOK, "")
				}
			}
		}
	}
}
