package plan

import (
	"fmt"
	"sort"
	"strings"

	"github.com/mrferris/genesis/internal/envref"
	"gopkg.in/yaml.v3"
)

// RawMetadata is the already-merged kit.yml decoded into its three
// top-level groupings. Each grouping is heterogeneous per the grammar
// (spec.md §6), so leaves are decoded as map[string]interface{} and
// refined by the Parser rather than by strict yaml struct tags.
type RawMetadata struct {
	Certificates map[string]map[string]map[string]interface{} `yaml:"certificates"`
	Credentials  map[string]map[string]interface{}             `yaml:"credentials"`
	Provided     map[string]map[string]interface{}             `yaml:"provided"`
}

// DecodeMetadata unmarshals merged kit YAML into RawMetadata, first
// checking it against the grammar's top-level shape.
func DecodeMetadata(data []byte) (*RawMetadata, error) {
	if err := ValidateMetadataShape(data); err != nil {
		return nil, err
	}

	var raw RawMetadata
	if err := yaml.Unmarshal(data, &raw); err != nil {
		return nil, fmt.Errorf("decoding kit metadata: %w", err)
	}
	return &raw, nil
}

// Parser reads merged kit metadata for an active feature set and
// produces a flat PlanSet, with every failure captured as a
// KindError plan rather than a parse error or dropped record.
type Parser struct {
	// RootCAPath, if set, is the default signer assigned to an
	// unsigned top-level cert (spec.md §4.C step 2). The parser does
	// not read it or record it on any plan; the resolver applies the
	// root CA path it is given to Resolve.
	RootCAPath string
}

// Parse scans certificates/credentials/provided for every active
// feature and returns the resulting PlanSet.
func (pr *Parser) Parse(raw *RawMetadata, features []string) *PlanSet {
	active := activeFeatureSet(features)
	set := NewPlanSet()

	for feature, byBase := range raw.Certificates {
		if !active[feature] {
			continue
		}
		for basePath, leaves := range byBase {
			for leafName, spec := range leaves {
				path := basePath + "/" + leafName
				plan := pr.parseX509Leaf(feature, path, basePath, spec)
				set.Add(plan)
			}
		}
	}

	for feature, byPath := range raw.Credentials {
		if !active[feature] {
			continue
		}
		for path, spec := range byPath {
			for _, plan := range pr.parseCredentialEntry(feature, path, spec) {
				set.Add(plan)
			}
		}
	}

	for feature, byPath := range raw.Provided {
		if !active[feature] {
			continue
		}
		for path, spec := range byPath {
			for _, plan := range pr.parseProvidedEntry(feature, path, spec) {
				set.Add(plan)
			}
		}
	}

	// Non-x509 plans are ordered lexicographically by path per
	// spec.md §4.C; x509 plans get their real order from the
	// resolver later, so an initial lexicographic pass here is just
	// a stable placeholder.
	paths := set.Paths()
	sort.Strings(paths)
	set.SetOrder(paths)

	return set
}

func activeFeatureSet(features []string) map[string]bool {
	active := map[string]bool{"base": true}
	for _, f := range features {
		active[f] = true
	}
	return active
}

func (pr *Parser) parseX509Leaf(feature, path, basePath string, raw interface{}) *Plan {
	spec, ok := raw.(map[string]interface{})
	if !ok {
		return errorPlan(feature, path, fmt.Sprintf("x509 leaf at %s must be a map", path))
	}

	p := &Plan{Kind: KindX509, Path: path, BasePath: basePath, Feature: feature, SourcePath: path}

	if v, ok := spec["is_ca"].(bool); ok {
		p.IsCA = v
	}

	if signedBy, ok := spec["signed_by"].(string); ok {
		signedBy, err := envref.Resolve(signedBy)
		if err != nil {
			return errorPlan(feature, path, fmt.Sprintf("x509 signed_by at %s: %v", path, err))
		}
		p.SignedBy = rewriteLegacySignedBy(signedBy)
	}

	if names, ok := spec["names"]; ok {
		list, err := toStringSlice(names)
		if err != nil {
			return errorPlan(feature, path, fmt.Sprintf("x509 names at %s: %v", path, err))
		}
		for i, name := range list {
			resolved, err := envref.Resolve(name)
			if err != nil {
				return errorPlan(feature, path, fmt.Sprintf("x509 names at %s: %v", path, err))
			}
			list[i] = resolved
		}
		p.Names = list
	}

	if usage, ok := spec["usage"]; ok {
		list, err := toStringSlice(usage)
		if err != nil {
			return errorPlan(feature, path, fmt.Sprintf("x509 usage at %s: %v", path, err))
		}
		p.Usage = list
	}

	if validFor, ok := spec["valid_for"].(string); ok {
		validFor, err := envref.Resolve(validFor)
		if err != nil {
			return errorPlan(feature, path, fmt.Sprintf("x509 valid_for at %s: %v", path, err))
		}
		p.ValidFor = validFor
	}

	return p
}

// rewriteLegacySignedBy applies the carried legacy rewrite:
// "base.application/certs.ca" -> "application/certs/ca" (spec.md §9
// Open Question: preserved for compatibility, not removed).
func rewriteLegacySignedBy(signedBy string) string {
	if !strings.HasPrefix(signedBy, "base.") {
		return signedBy
	}
	rest := strings.TrimPrefix(signedBy, "base.")
	return strings.Replace(rest, ".", "/", 1)
}

func (pr *Parser) parseCredentialEntry(feature, path string, raw interface{}) []*Plan {
	switch v := raw.(type) {
	case string:
		line, err := envref.Resolve(v)
		if err != nil {
			return []*Plan{errorPlan(feature, path, fmt.Sprintf("credential spec at %s: %v", path, err))}
		}
		p, err := parseStringSpec(path, line)
		if err != nil {
			return []*Plan{errorPlan(feature, path, err.Error())}
		}
		p.Feature = feature
		p.SourcePath = path
		return []*Plan{p}

	case map[string]interface{}:
		var plans []*Plan
		for key, lineRaw := range v {
			pathKey := path + ":" + key
			rawLine, ok := lineRaw.(string)
			if !ok {
				plans = append(plans, errorPlan(feature, pathKey, fmt.Sprintf("credential line at %s must be a string", pathKey)))
				continue
			}
			line, err := envref.Resolve(rawLine)
			if err != nil {
				plans = append(plans, errorPlan(feature, pathKey, fmt.Sprintf("credential line at %s: %v", pathKey, err)))
				continue
			}
			p, err := parseCredLine(pathKey, line)
			if err != nil {
				plans = append(plans, errorPlan(feature, pathKey, err.Error()))
				continue
			}
			p.Feature = feature
			p.SourcePath = pathKey
			plans = append(plans, p)
		}
		return plans

	default:
		return []*Plan{errorPlan(feature, path, fmt.Sprintf("credentials entry at %s must be a string or map", path))}
	}
}

func (pr *Parser) parseProvidedEntry(feature, path string, raw interface{}) []*Plan {
	spec, ok := raw.(map[string]interface{})
	if !ok {
		return []*Plan{errorPlan(feature, path, fmt.Sprintf("provided entry at %s must be a map", path))}
	}

	if t, ok := spec["type"].(string); ok && t != "" && t != "generic" {
		return []*Plan{errorPlan(feature, path, fmt.Sprintf("provided entry at %s has unsupported type %q", path, t))}
	}

	keysRaw, ok := spec["keys"].(map[string]interface{})
	if !ok {
		return []*Plan{errorPlan(feature, path, fmt.Sprintf("provided entry at %s requires a 'keys' map", path))}
	}

	var plans []*Plan
	for key, keySpecRaw := range keysRaw {
		pathKey := path + ":" + key
		keySpec, _ := keySpecRaw.(map[string]interface{})

		p := &Plan{
			Kind:       KindProvided,
			Path:       pathKey,
			Feature:    feature,
			SourcePath: pathKey,
			Sensitive:  true,
		}

		if keySpec != nil {
			if subtype, ok := keySpec["type"].(string); ok {
				p.ProvidedSubtype = subtype
			}
			if sensitive, ok := keySpec["sensitive"].(bool); ok {
				p.Sensitive = sensitive
			}
			if multiline, ok := keySpec["multiline"].(bool); ok {
				p.Multiline = multiline
			}
			if prompt, ok := keySpec["prompt"].(string); ok {
				resolved, err := envref.Resolve(prompt)
				if err != nil {
					plans = append(plans, errorPlan(feature, pathKey, fmt.Sprintf("provided prompt at %s: %v", pathKey, err)))
					continue
				}
				p.Prompt = resolved
			}
			if fixed, ok := keySpec["fixed"].(bool); ok {
				p.Fixed = fixed
			}
		}

		plans = append(plans, p)
	}

	return plans
}

func errorPlan(feature, path, message string) *Plan {
	return &Plan{Kind: KindError, Path: path, Feature: feature, SourcePath: path, Error: message}
}

func toStringSlice(raw interface{}) ([]string, error) {
	list, ok := raw.([]interface{})
	if !ok {
		return nil, fmt.Errorf("expected a list")
	}
	result := make([]string, 0, len(list))
	for _, item := range list {
		s, ok := item.(string)
		if !ok {
			return nil, fmt.Errorf("expected a list of strings")
		}
		result = append(result, s)
	}
	return result, nil
}
