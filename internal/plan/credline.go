package plan

import (
	"fmt"
	"strconv"
	"strings"
)

// parseCredLine parses the grammar used for credentials[feature][path]
// map values (spec.md §6):
//
//	random <N:int> [fmt <F:ident> [at <K:ident>]] [allowed-chars <chars>] [fixed]
//	uuid [v1|time|v3|md5|v4|random|v5|sha1] [namespace <dns|url|oid|x500|UUID>] [name <s>] [fixed]
//
// pathKey is the "P:K" form the resulting plan is stored under.
func parseCredLine(pathKey, line string) (*Plan, error) {
	tokens := strings.Fields(line)
	if len(tokens) == 0 {
		return nil, fmt.Errorf("empty credential line")
	}

	switch tokens[0] {
	case "random":
		return parseRandomLine(pathKey, tokens[1:])
	case "uuid":
		return parseUUIDLine(pathKey, tokens[1:])
	default:
		return nil, fmt.Errorf("unknown credential kind %q (expected 'random' or 'uuid')", tokens[0])
	}
}

func parseRandomLine(pathKey string, tokens []string) (*Plan, error) {
	if len(tokens) == 0 {
		return nil, fmt.Errorf("random requires a size, e.g. 'random 32'")
	}

	size, err := strconv.Atoi(tokens[0])
	if err != nil {
		return nil, fmt.Errorf("random size %q is not an integer", tokens[0])
	}

	p := &Plan{Kind: KindRandom, Path: pathKey, Size: size}

	i := 1
	for i < len(tokens) {
		switch tokens[i] {
		case "fmt":
			if i+1 >= len(tokens) {
				return nil, fmt.Errorf("'fmt' requires a format name")
			}
			p.RandomFormat = tokens[i+1]
			i += 2
			if i < len(tokens) && tokens[i] == "at" {
				if i+1 >= len(tokens) {
					return nil, fmt.Errorf("'at' requires a destination key")
				}
				p.RandomAt = tokens[i+1]
				i += 2
			}
		case "allowed-chars":
			if i+1 >= len(tokens) {
				return nil, fmt.Errorf("'allowed-chars' requires a character set")
			}
			p.RandomValidChars = tokens[i+1]
			i += 2
		case "fixed":
			p.Fixed = true
			i++
		default:
			return nil, fmt.Errorf("unexpected token %q in random credential line", tokens[i])
		}
	}

	return p, nil
}

var uuidVersionAliases = map[string]UUIDVersion{
	"v1":     UUIDV1,
	"time":   UUIDV1,
	"v3":     UUIDV3,
	"md5":    UUIDV3,
	"v4":     UUIDV4,
	"random": UUIDV4,
	"v5":     UUIDV5,
	"sha1":   UUIDV5,
}

var uuidNamespaceAliases = map[string]bool{
	"dns": true, "url": true, "oid": true, "x500": true,
}

func parseUUIDLine(pathKey string, tokens []string) (*Plan, error) {
	p := &Plan{Kind: KindUUID, Path: pathKey, UUIDVersion: UUIDV4}

	i := 0
	if i < len(tokens) {
		if version, ok := uuidVersionAliases[tokens[i]]; ok {
			p.UUIDVersion = version
			i++
		}
	}

	for i < len(tokens) {
		switch tokens[i] {
		case "namespace":
			if i+1 >= len(tokens) {
				return nil, fmt.Errorf("'namespace' requires a value")
			}
			ns := tokens[i+1]
			if !uuidNamespaceAliases[ns] {
				if _, err := parseUUIDLiteral(ns); err != nil {
					return nil, fmt.Errorf("namespace %q is not a well-known name or UUID: %w", ns, err)
				}
			}
			p.UUIDNamespace = ns
			i += 2
		case "name":
			if i+1 >= len(tokens) {
				return nil, fmt.Errorf("'name' requires a value")
			}
			p.UUIDName = tokens[i+1]
			i += 2
		case "fixed":
			p.Fixed = true
			i++
		default:
			return nil, fmt.Errorf("unexpected token %q in uuid credential line", tokens[i])
		}
	}

	if (p.UUIDVersion == UUIDV3 || p.UUIDVersion == UUIDV5) && (p.UUIDNamespace == "" || p.UUIDName == "") {
		return nil, fmt.Errorf("uuid %s requires both 'namespace' and 'name'", p.UUIDVersion)
	}

	return p, nil
}

// parseUUIDLiteral validates that s has the canonical UUID string
// shape without depending on google/uuid in this low-level grammar
// helper (the plan parser's caller performs real parsing/generation
// via github.com/google/uuid).
func parseUUIDLiteral(s string) (string, error) {
	if len(s) != 36 {
		return "", fmt.Errorf("not a UUID")
	}
	for i, c := range s {
		if i == 8 || i == 13 || i == 18 || i == 23 {
			if c != '-' {
				return "", fmt.Errorf("not a UUID")
			}
			continue
		}
		if !isHex(byte(c)) {
			return "", fmt.Errorf("not a UUID")
		}
	}
	return s, nil
}

func isHex(b byte) bool {
	return (b >= '0' && b <= '9') || (b >= 'a' && b <= 'f') || (b >= 'A' && b <= 'F')
}

// parseStringSpec parses the top-level `credentials[feature][path]`
// string grammar:
//
//	ssh <bits> [fixed]
//	rsa <bits> [fixed]
//	dhparam[s] <bits> [fixed]
//
// A bare 'random ...' or 'uuid ...' at this level is a deliberate
// error per spec.md §9's carried diagnostic: those grammars are valid
// only inside a per-key map.
func parseStringSpec(path, line string) (*Plan, error) {
	tokens := strings.Fields(line)
	if len(tokens) == 0 {
		return nil, fmt.Errorf("empty credential spec")
	}

	switch tokens[0] {
	case "random", "uuid":
		return nil, fmt.Errorf("'%s' must be specified per-key, not as a bare credential spec at %s", tokens[0], path)
	case "ssh":
		return parseBitsSpec(path, KindSSH, tokens[1:])
	case "rsa":
		return parseBitsSpec(path, KindRSA, tokens[1:])
	case "dhparam", "dhparams":
		return parseBitsSpec(path, KindDHParams, tokens[1:])
	default:
		return nil, fmt.Errorf("unknown credential spec %q at %s", tokens[0], path)
	}
}

func parseBitsSpec(path string, kind Kind, tokens []string) (*Plan, error) {
	if len(tokens) == 0 {
		return nil, fmt.Errorf("%s requires a bit size", kind)
	}

	size, err := strconv.Atoi(tokens[0])
	if err != nil {
		return nil, fmt.Errorf("%s size %q is not an integer", kind, tokens[0])
	}

	p := &Plan{Kind: kind, Path: path, Size: size}

	for _, tok := range tokens[1:] {
		switch tok {
		case "fixed":
			p.Fixed = true
		default:
			return nil, fmt.Errorf("unexpected token %q in %s spec", tok, kind)
		}
	}

	return p, nil
}
