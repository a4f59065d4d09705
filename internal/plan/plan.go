// Package plan defines the Plan tagged-variant type and the Parser
// that turns merged kit metadata into a flat, path-keyed PlanSet.
package plan

// Kind discriminates the tagged-variant Plan payload.
type Kind string

const (
	KindX509     Kind = "x509"
	KindRSA      Kind = "rsa"
	KindSSH      Kind = "ssh"
	KindDHParams Kind = "dhparams"
	KindRandom   Kind = "random"
	KindUUID     Kind = "uuid"
	KindProvided Kind = "provided"
	KindError    Kind = "error"
)

// SelfSigned levels for x509 plans.
const (
	SelfSignedNone     = 0
	SelfSignedImplicit = 1 // unsigned leaf treated as self-signed
	SelfSignedExplicit = 2 // signed_by == own path
)

// UUIDVersion names the supported uuid generation algorithms.
type UUIDVersion string

const (
	UUIDV1 UUIDVersion = "v1"
	UUIDV3 UUIDVersion = "v3"
	UUIDV4 UUIDVersion = "v4"
	UUIDV5 UUIDVersion = "v5"
)

// Plan is a single declarative secret request. Exactly one of the
// Kind-tagged field groups below is meaningful for a given Plan; Kind
// selects which. This mirrors the source grammar's tagged variant
// rather than splitting into separate types per kind, since the
// Parser, Resolver, and Filter engine all operate on a single
// homogeneous slice/map keyed by path.
type Plan struct {
	Kind Kind
	Path string

	// Provenance, supplementing the base data model: which feature
	// and which kit-metadata source location produced this plan.
	Feature    string
	SourcePath string

	// x509
	BasePath         string
	IsCA             bool
	SelfSigned       int
	SignedBy         string
	SignedByAbsPath  bool
	Names            []string
	Usage            []string
	ValidFor         string
	processed        bool

	// rsa / ssh / dhparams
	Size  int
	Fixed bool

	// random
	RandomFormat     string
	RandomAt         string
	RandomValidChars string

	// uuid
	UUIDVersion   UUIDVersion
	UUIDNamespace string
	UUIDName      string

	// provided
	ProvidedSubtype   string
	Sensitive         bool
	Multiline         bool
	Prompt            string

	// error
	Error string
}

// Processed reports whether the resolver has already emitted this
// x509 plan. It is internal scratch state: callers outside this
// package and internal/resolver only ever see the ordered sequence.
func (p *Plan) Processed() bool { return p.processed }

// MarkProcessed is called exactly once by the resolver when emitting
// an x509 plan into the build order.
func (p *Plan) MarkProcessed() { p.processed = true }

// PlanSet is the ordered, resolved collection of plans for an
// environment: a path-keyed map for lookup, plus an ordering slice
// established by the resolver (or, for non-x509 plans, lexicographic
// path order per spec.md §4.C).
type PlanSet struct {
	byPath map[string]*Plan
	order  []string
}

// NewPlanSet creates an empty PlanSet.
func NewPlanSet() *PlanSet {
	return &PlanSet{byPath: make(map[string]*Plan)}
}

// Add inserts a plan, appending it to the ordering sequence. Re-adding
// an existing path replaces the plan in place without changing order.
func (s *PlanSet) Add(p *Plan) {
	if _, exists := s.byPath[p.Path]; !exists {
		s.order = append(s.order, p.Path)
	}
	s.byPath[p.Path] = p
}

// Get looks up a plan by path.
func (s *PlanSet) Get(path string) (*Plan, bool) {
	p, ok := s.byPath[path]
	return p, ok
}

// SetOrder replaces the ordering sequence, used by the resolver once
// it has computed the x509 build order.
func (s *PlanSet) SetOrder(order []string) {
	s.order = order
}

// Ordered returns plans in their established order.
func (s *PlanSet) Ordered() []*Plan {
	result := make([]*Plan, 0, len(s.order))
	for _, path := range s.order {
		if p, ok := s.byPath[path]; ok {
			result = append(result, p)
		}
	}
	return result
}

// Len returns the number of plans in the set.
func (s *PlanSet) Len() int { return len(s.byPath) }

// Paths returns every path in the set, in no particular order.
func (s *PlanSet) Paths() []string {
	paths := make([]string, 0, len(s.byPath))
	for path := range s.byPath {
		paths = append(paths, path)
	}
	return paths
}

// SecretSnapshot is a mapping vault-path -> key -> value, populated by
// one export per environment.
type SecretSnapshot map[string]map[string]string

// Get returns the value of key at path, and whether it was present.
func (s SecretSnapshot) Get(path, key string) (string, bool) {
	keys, ok := s[path]
	if !ok {
		return "", false
	}
	v, ok := keys[key]
	return v, ok
}

// HasPath reports whether any keys are recorded under path.
func (s SecretSnapshot) HasPath(path string) bool {
	_, ok := s[path]
	return ok
}
