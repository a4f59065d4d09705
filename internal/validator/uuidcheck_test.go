package validator

import (
	"testing"

	"github.com/google/uuid"

	dserrors "github.com/mrferris/genesis/internal/errors"
	"github.com/mrferris/genesis/internal/plan"
	"github.com/stretchr/testify/assert"
)

func TestCheckUUID_V4PlainParse(t *testing.T) {
	id := uuid.New()
	p := &plan.Plan{Kind: plan.KindUUID, Path: "work/instance:id", UUIDVersion: plan.UUIDV4}
	keys := map[string]string{"id": id.String()}

	report := newReport(p)
	checkUUID(report, p, keys)

	assert.Equal(t, dserrors.OutcomeOK, report.Outcome)
}

func TestCheckUUID_Malformed(t *testing.T) {
	p := &plan.Plan{Kind: plan.KindUUID, Path: "work/instance:id"}
	keys := map[string]string{"id": "not-a-uuid"}

	report := newReport(p)
	checkUUID(report, p, keys)

	assert.Equal(t, dserrors.OutcomeError, outcomeOf(report, "parse"))
}

func TestCheckUUID_V5WellKnownNamespaceRecomputes(t *testing.T) {
	expected := uuid.NewSHA1(uuid.NameSpaceDNS, []byte("example.com"))

	p := &plan.Plan{
		Kind:          plan.KindUUID,
		Path:          "work/instance:id",
		UUIDVersion:   plan.UUIDV5,
		UUIDNamespace: "dns",
		UUIDName:      "example.com",
	}
	keys := map[string]string{"id": expected.String()}

	report := newReport(p)
	checkUUID(report, p, keys)

	assert.Equal(t, dserrors.OutcomeOK, outcomeOf(report, "hash-recomputation"))
}

func TestCheckUUID_V3LiteralNamespaceRecomputes(t *testing.T) {
	ns := uuid.New()
	expected := uuid.NewMD5(ns, []byte("payload"))

	p := &plan.Plan{
		Kind:          plan.KindUUID,
		Path:          "work/instance:id",
		UUIDVersion:   plan.UUIDV3,
		UUIDNamespace: ns.String(),
		UUIDName:      "payload",
	}
	keys := map[string]string{"id": expected.String()}

	report := newReport(p)
	checkUUID(report, p, keys)

	assert.Equal(t, dserrors.OutcomeOK, outcomeOf(report, "hash-recomputation"))
}

func TestCheckUUID_V5MismatchedRecomputation(t *testing.T) {
	stored := uuid.NewSHA1(uuid.NameSpaceDNS, []byte("example.com"))

	p := &plan.Plan{
		Kind:          plan.KindUUID,
		Path:          "work/instance:id",
		UUIDVersion:   plan.UUIDV5,
		UUIDNamespace: "dns",
		UUIDName:      "different.example.com",
	}
	keys := map[string]string{"id": stored.String()}

	report := newReport(p)
	checkUUID(report, p, keys)

	assert.Equal(t, dserrors.OutcomeError, outcomeOf(report, "hash-recomputation"))
}

func TestCheckUUID_UnresolvableNamespace(t *testing.T) {
	p := &plan.Plan{
		Kind:          plan.KindUUID,
		Path:          "work/instance:id",
		UUIDVersion:   plan.UUIDV3,
		UUIDNamespace: "not-a-namespace-or-uuid",
		UUIDName:      "payload",
	}
	keys := map[string]string{"id": uuid.New().String()}

	report := newReport(p)
	checkUUID(report, p, keys)

	assert.Equal(t, dserrors.OutcomeError, outcomeOf(report, "hash-recomputation"))
}
