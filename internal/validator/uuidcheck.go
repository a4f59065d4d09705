package validator

import (
	"fmt"

	"github.com/google/uuid"

	dserrors "github.com/mrferris/genesis/internal/errors"
	"github.com/mrferris/genesis/internal/plan"
)

var wellKnownNamespaces = map[string]uuid.UUID{
	"dns":  uuid.NameSpaceDNS,
	"url":  uuid.NameSpaceURL,
	"oid":  uuid.NameSpaceOID,
	"x500": uuid.NameSpaceX500,
}

func checkUUID(report *Report, p *plan.Plan, keys map[string]string) {
	_, key := splitPathKey(p.Path)
	value := keys[key]

	parsed, err := uuid.Parse(value)
	if err != nil {
		report.add("parse", dserrors.OutcomeError, err.Error())
		return
	}
	report.add("parse", dserrors.OutcomeOK, "")

	if p.UUIDVersion != plan.UUIDV3 && p.UUIDVersion != plan.UUIDV5 {
		return
	}

	namespace, err := resolveNamespace(p.UUIDNamespace)
	if err != nil {
		report.add("hash-recomputation", dserrors.OutcomeError, err.Error())
		return
	}

	var recomputed uuid.UUID
	if p.UUIDVersion == plan.UUIDV3 {
		recomputed = uuid.NewMD5(namespace, []byte(p.UUIDName))
	} else {
		recomputed = uuid.NewSHA1(namespace, []byte(p.UUIDName))
	}

	if recomputed != parsed {
		report.add("hash-recomputation", dserrors.OutcomeError,
			fmt.Sprintf("recomputed %s does not match stored %s", recomputed, parsed))
		return
	}
	report.add("hash-recomputation", dserrors.OutcomeOK, "")
}

func resolveNamespace(name string) (uuid.UUID, error) {
	if ns, ok := wellKnownNamespaces[name]; ok {
		return ns, nil
	}
	ns, err := uuid.Parse(name)
	if err != nil {
		return uuid.UUID{}, fmt.Errorf("namespace %q is neither a well-known name nor a UUID: %w", name, err)
	}
	return ns, nil
}
