// Package resolver computes a build order for x509 plans honoring
// signer-before-signee edges, the way spec.md §4.C describes: infer
// each base path's CA, assign default signers to unsigned leaves,
// then emit a topological order grouped by signer.
package resolver

import (
	"sort"

	"github.com/mrferris/genesis/internal/errors"
	"github.com/mrferris/genesis/internal/plan"
)

// Resolve mutates and reorders the x509 plans in set, assigning
// default signers and computing the emission order described by
// spec.md §4.C. Non-x509 plans are appended after in lexicographic
// path order. rootCAPath, if non-empty, is assigned (with
// SignedByAbsPath=true) to top-level certs that remain unsigned after
// CA inference.
func Resolve(set *plan.PlanSet, rootCAPath string) {
	x509Plans := collectX509(set)

	inferCAs(x509Plans)
	assignDefaultSigners(x509Plans, rootCAPath)
	promoteExplicitSelfSigned(x509Plans)
	order := emit(x509Plans)

	nonX509 := collectNonX509Paths(set)
	sort.Strings(nonX509)

	set.SetOrder(append(order, nonX509...))
}

func collectX509(set *plan.PlanSet) map[string]*plan.Plan {
	result := make(map[string]*plan.Plan)
	for _, path := range set.Paths() {
		p, _ := set.Get(path)
		if p.Kind == plan.KindX509 {
			result[path] = p
		}
	}
	return result
}

func collectNonX509Paths(set *plan.PlanSet) []string {
	var paths []string
	for _, path := range set.Paths() {
		p, _ := set.Get(path)
		if p.Kind != plan.KindX509 {
			paths = append(paths, path)
		}
	}
	return paths
}

// inferCAs implements spec.md §4.C step 1: for each base_path, find
// the CA among its leaves (is_ca=true or leaf name "ca"). Exactly one
// candidate wins outright; with multiple candidates, a literal
// "<base>/ca" wins; otherwise every unsigned leaf under that base is
// error-plan'd.
func inferCAs(plans map[string]*plan.Plan) {
	byBase := groupByBasePath(plans)

	for basePath, leaves := range byBase {
		candidates := caCandidates(leaves)

		var ca *plan.Plan
		switch {
		case len(candidates) == 1:
			ca = candidates[0]
		case len(candidates) > 1:
			literal := basePath + "/ca"
			for _, c := range candidates {
				if c.Path == literal {
					ca = c
					break
				}
			}
		}

		if ca != nil {
			for _, leaf := range leaves {
				if leaf == ca || leaf.SignedBy != "" {
					continue
				}
				leaf.SignedBy = ca.Path
			}
			continue
		}

		if len(candidates) != 1 {
			for _, leaf := range leaves {
				if leaf.SignedBy != "" {
					continue
				}
				leaf.Kind = plan.KindError
				leaf.Error = errors.DependencyError{Kind: errors.DependencyAmbiguous, Path: leaf.Path}.Error()
			}
		}
	}
}

func groupByBasePath(plans map[string]*plan.Plan) map[string][]*plan.Plan {
	byBase := make(map[string][]*plan.Plan)
	for _, p := range plans {
		byBase[p.BasePath] = append(byBase[p.BasePath], p)
	}
	return byBase
}

func caCandidates(leaves []*plan.Plan) []*plan.Plan {
	var candidates []*plan.Plan
	for _, leaf := range leaves {
		if leaf.IsCA || leafName(leaf.Path) == "ca" {
			candidates = append(candidates, leaf)
		}
	}
	return candidates
}

func leafName(path string) string {
	for i := len(path) - 1; i >= 0; i-- {
		if path[i] == '/' {
			return path[i+1:]
		}
	}
	return path
}

// assignDefaultSigners implements spec.md §4.C step 2: any leaf still
// unsigned after CA inference is bound to rootCAPath if provided,
// otherwise marked implicitly self-signed.
func assignDefaultSigners(plans map[string]*plan.Plan, rootCAPath string) {
	for _, p := range plans {
		if p.Kind == plan.KindError || p.SignedBy != "" || p.SelfSigned != 0 {
			continue
		}
		if rootCAPath != "" {
			p.SignedBy = rootCAPath
			p.SignedByAbsPath = true
			continue
		}
		p.SelfSigned = plan.SelfSignedImplicit
	}
}

// promoteExplicitSelfSigned implements the self-reference half of
// spec.md §4.C step 3: a leaf whose signed_by is literally its own
// path never gets a signer to wait on, so it is promoted up front to
// self_signed=2, is_ca=true, signed_by="" and dropped straight into
// the frontier emit starts from. Without this, such a leaf (and
// anything genuinely signed by it) would sit in a signer group keyed
// by its own not-yet-emitted path and never be reached.
func promoteExplicitSelfSigned(plans map[string]*plan.Plan) {
	for _, p := range plans {
		if p.Kind == plan.KindError {
			continue
		}
		if p.SignedBy == p.Path {
			p.SelfSigned = plan.SelfSignedExplicit
			p.IsCA = true
			p.SignedBy = ""
		}
	}
}

// emit implements spec.md §4.C step 3: group by signer, starting from
// the self-signed/root-bound frontier ("" as signer key covers both
// implicitly and explicitly self-signed plans), emitting each plan
// then recursively its dependents. A plan whose signer path belongs
// to another real plan that itself never gets emitted is caught in a
// cycle; a plan whose signer path matches no plan at all is an
// orphan, per spec.md §4.C step 4.
func emit(plans map[string]*plan.Plan) []string {
	bySigner := make(map[string][]*plan.Plan)
	for _, p := range plans {
		if p.Kind == plan.KindError {
			continue
		}
		signer := p.SignedBy
		if p.SelfSigned != 0 {
			signer = ""
		}
		bySigner[signer] = append(bySigner[signer], p)
	}
	for signer := range bySigner {
		sortByPath(bySigner[signer])
	}

	emitted := make(map[string]bool)
	var order []string

	var visit func(signer string)
	visit = func(signer string) {
		for _, p := range bySigner[signer] {
			if emitted[p.Path] {
				continue
			}
			p.MarkProcessed()
			emitted[p.Path] = true
			order = append(order, p.Path)
			visit(p.Path)
		}
	}

	visit("")

	for _, p := range plans {
		if p.Kind == plan.KindError || emitted[p.Path] {
			continue
		}
		if _, exists := plans[p.SignedBy]; p.SignedBy != "" && exists {
			// The signer names a real plan that itself never made it
			// into order: the chain back to the frontier is circular.
			p.Kind = plan.KindError
			p.Error = errors.DependencyError{Kind: errors.DependencyCycle, Path: p.Path}.Error()
			continue
		}
		p.Kind = plan.KindError
		p.Error = errors.DependencyError{Kind: errors.DependencyOrphan, Path: p.Path}.Error()
	}

	return order
}

func sortByPath(plans []*plan.Plan) {
	sort.Slice(plans, func(i, j int) bool { return plans[i].Path < plans[j].Path })
}
