package validator

import (
	"context"
	"testing"

	dserrors "github.com/mrferris/genesis/internal/errors"
	"github.com/mrferris/genesis/internal/plan"
	"github.com/stretchr/testify/assert"
)

func TestValidatorFor_CoversEveryNonErrorKind(t *testing.T) {
	kinds := []plan.Kind{
		plan.KindX509, plan.KindRSA, plan.KindSSH, plan.KindDHParams,
		plan.KindRandom, plan.KindUUID, plan.KindProvided,
	}
	for _, k := range kinds {
		assert.NotNil(t, validatorFor(k), "expected a kindValidator for %s", k)
	}
	assert.Nil(t, validatorFor(plan.KindError), "KindError never reaches dispatch, so it has no kindValidator")
}

func TestProvidedValidator_AddsNoChecks(t *testing.T) {
	p := &plan.Plan{Kind: plan.KindProvided, Path: "work/secrets:token"}
	report := newReport(p)

	validatorFor(plan.KindProvided).Validate(validateArgs{ctx: context.Background()}, report, p)

	assert.Empty(t, report.Checks)
	assert.Equal(t, dserrors.OutcomeOK, report.Outcome)
}
