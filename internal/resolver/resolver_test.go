package resolver

import (
	"testing"

	"github.com/mrferris/genesis/internal/plan"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func buildSet(plans ...*plan.Plan) *plan.PlanSet {
	set := plan.NewPlanSet()
	for _, p := range plans {
		set.Add(p)
	}
	return set
}

func TestResolve_ScenarioOne_SelfSignedCAAndServer(t *testing.T) {
	set := buildSet(
		&plan.Plan{Kind: plan.KindX509, Path: "my-cert/ca", BasePath: "my-cert", IsCA: true},
		&plan.Plan{Kind: plan.KindX509, Path: "my-cert/server", BasePath: "my-cert", Names: []string{"srv.example"}},
	)

	Resolve(set, "")

	ordered := set.Ordered()
	require.Len(t, ordered, 2)
	assert.Equal(t, "my-cert/ca", ordered[0].Path)
	assert.Equal(t, plan.SelfSignedImplicit, ordered[0].SelfSigned)
	assert.Equal(t, "my-cert/server", ordered[1].Path)
	assert.Equal(t, "my-cert/ca", ordered[1].SignedBy)
}

func TestResolve_ScenarioTwo_AmbiguousCA(t *testing.T) {
	set := buildSet(
		&plan.Plan{Kind: plan.KindX509, Path: "base/a/ca", BasePath: "base", IsCA: true},
		&plan.Plan{Kind: plan.KindX509, Path: "base/b/ca", BasePath: "base", IsCA: true},
		&plan.Plan{Kind: plan.KindX509, Path: "base/leaf", BasePath: "base"},
	)

	Resolve(set, "")

	leaf, ok := set.Get("base/leaf")
	require.True(t, ok)
	assert.Equal(t, plan.KindError, leaf.Kind)
	assert.Contains(t, leaf.Error, "Ambiguous")
}

func TestResolve_ExplicitSelfSignedReordered(t *testing.T) {
	set := buildSet(
		&plan.Plan{Kind: plan.KindX509, Path: "root/ca", BasePath: "root", SignedBy: "root/ca"},
	)

	Resolve(set, "")

	ca, ok := set.Get("root/ca")
	require.True(t, ok)
	assert.Equal(t, plan.SelfSignedExplicit, ca.SelfSigned)
	assert.Equal(t, "", ca.SignedBy)
	assert.True(t, ca.IsCA)
}

func TestResolve_RootCAPathAssignedToUnsignedTopLevel(t *testing.T) {
	set := buildSet(
		&plan.Plan{Kind: plan.KindX509, Path: "app/cert", BasePath: "app", IsCA: true},
	)

	Resolve(set, "/env/root-ca")

	cert, ok := set.Get("app/cert")
	require.True(t, ok)
	assert.Equal(t, "/env/root-ca", cert.SignedBy)
	assert.True(t, cert.SignedByAbsPath)
}

func TestResolve_NonX509AppendedLexicographically(t *testing.T) {
	set := buildSet(
		&plan.Plan{Kind: plan.KindX509, Path: "z/ca", BasePath: "z", IsCA: true},
		&plan.Plan{Kind: plan.KindRandom, Path: "b:key"},
		&plan.Plan{Kind: plan.KindRandom, Path: "a:key"},
	)

	Resolve(set, "")

	paths := set.Paths()
	_ = paths
	ordered := set.Ordered()
	require.Len(t, ordered, 3)
	assert.Equal(t, "z/ca", ordered[0].Path)
	assert.Equal(t, "a:key", ordered[1].Path)
	assert.Equal(t, "b:key", ordered[2].Path)
}

func TestResolve_MutualSignersAreCyclical(t *testing.T) {
	set := buildSet(
		&plan.Plan{Kind: plan.KindX509, Path: "a/leaf", BasePath: "a", SignedBy: "b/leaf"},
		&plan.Plan{Kind: plan.KindX509, Path: "b/leaf", BasePath: "b", SignedBy: "a/leaf"},
	)

	Resolve(set, "")

	a, ok := set.Get("a/leaf")
	require.True(t, ok)
	assert.Equal(t, plan.KindError, a.Kind)
	assert.Contains(t, a.Error, "Cyclical")

	b, ok := set.Get("b/leaf")
	require.True(t, ok)
	assert.Equal(t, plan.KindError, b.Kind)
	assert.Contains(t, b.Error, "Cyclical")
}

func TestResolve_DanglingSignerIsOrphan(t *testing.T) {
	set := buildSet(
		&plan.Plan{Kind: plan.KindX509, Path: "orphan/leaf", BasePath: "orphan", SignedBy: "nowhere/ca"},
	)

	Resolve(set, "")

	leaf, ok := set.Get("orphan/leaf")
	require.True(t, ok)
	assert.Equal(t, plan.KindError, leaf.Kind)
	assert.Contains(t, leaf.Error, "Could not find associated signing CA")
}

func TestResolve_SignerPrecedesEverySignee(t *testing.T) {
	set := buildSet(
		&plan.Plan{Kind: plan.KindX509, Path: "base/ca", BasePath: "base", IsCA: true},
		&plan.Plan{Kind: plan.KindX509, Path: "base/leaf-a", BasePath: "base"},
		&plan.Plan{Kind: plan.KindX509, Path: "base/leaf-b", BasePath: "base"},
	)

	Resolve(set, "")

	ordered := set.Ordered()
	positions := make(map[string]int)
	for i, p := range ordered {
		positions[p.Path] = i
	}

	assert.Less(t, positions["base/ca"], positions["base/leaf-a"])
	assert.Less(t, positions["base/ca"], positions["base/leaf-b"])
}
