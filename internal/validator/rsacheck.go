package validator

import (
	"fmt"

	dserrors "github.com/mrferris/genesis/internal/errors"
	"github.com/mrferris/genesis/internal/plan"
)

func checkRSA(report *Report, p *plan.Plan, keys map[string]string) {
	private, err := parseRSAPrivateKeyPEM(keys["private"])
	if err != nil {
		report.add("parse-private", dserrors.OutcomeError, err.Error())
		return
	}
	report.add("parse-private", dserrors.OutcomeOK, "")

	public, err := parseRSAPublicKeyPEM(keys["public"])
	if err != nil {
		report.add("parse-public", dserrors.OutcomeError, err.Error())
		return
	}
	report.add("parse-public", dserrors.OutcomeOK, "")

	if private.N.Cmp(public.N) != 0 {
		report.add("modulus-agreement", dserrors.OutcomeError, "public and private key moduli disagree")
	} else {
		report.add("modulus-agreement", dserrors.OutcomeOK, "")
	}

	if p.Size > 0 {
		bits := private.N.BitLen()
		if bits != p.Size {
			report.add("bit-size", dserrors.OutcomeWarn, fmt.Sprintf("key is %d bits, declared %d", bits, p.Size))
		} else {
			report.add("bit-size", dserrors.OutcomeOK, "")
		}
	}
}
