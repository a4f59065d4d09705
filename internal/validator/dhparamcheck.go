package validator

import (
	"context"
	"fmt"
	"os"
	"regexp"
	"strconv"

	dserrors "github.com/mrferris/genesis/internal/errors"
	"github.com/mrferris/genesis/internal/plan"
)

var dhBitsPattern = regexp.MustCompile(`\((\d+) bit\)`)

// checkDHParams shells out to the TLS toolchain (`openssl dhparam
// -check`) via the same argv-only executor the store client uses,
// since no third-party dhparam inspector appears anywhere in the
// example pack (spec.md §9's "no shell interpolation" guidance applies
// here too: the PEM content is written to a file, never interpolated
// into a command string).
func checkDHParams(ctx context.Context, tools ToolRunner, report *Report, p *plan.Plan, keys map[string]string) {
	if tools == nil {
		report.add("dhparam-check", dserrors.OutcomeWarn, "no tool runner configured; skipped")
		return
	}

	f, err := os.CreateTemp("", "genesis-dhparam-*.pem")
	if err != nil {
		report.add("dhparam-check", dserrors.OutcomeError, err.Error())
		return
	}
	tmpPath := f.Name()
	defer os.Remove(tmpPath)

	if _, err := f.WriteString(keys["dhparam-pem"]); err != nil {
		f.Close()
		report.add("dhparam-check", dserrors.OutcomeError, err.Error())
		return
	}
	f.Close()

	_, stderr, err := tools.Execute(ctx, nil, "openssl", "dhparam", "-in", tmpPath, "-check", "-noout")
	if err != nil {
		report.add("dhparam-check", dserrors.OutcomeError, fmt.Sprintf("dhparam check failed: %s", string(stderr)))
		return
	}
	report.add("dhparam-check", dserrors.OutcomeOK, "")

	if p.Size <= 0 {
		return
	}

	stdout, _, err := tools.Execute(ctx, nil, "openssl", "dhparam", "-in", tmpPath, "-text", "-noout")
	if err != nil {
		report.add("bit-size", dserrors.OutcomeWarn, "could not determine bit size")
		return
	}

	match := dhBitsPattern.FindStringSubmatch(string(stdout))
	if match == nil {
		report.add("bit-size", dserrors.OutcomeWarn, "could not parse bit size from openssl output")
		return
	}

	bits, _ := strconv.Atoi(match[1])
	if bits != p.Size {
		report.add("bit-size", dserrors.OutcomeWarn, fmt.Sprintf("dhparam is %d bits, declared %d", bits, p.Size))
		return
	}
	report.add("bit-size", dserrors.OutcomeOK, "")
}
