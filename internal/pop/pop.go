// Package pop declares the tool catalogue for the Pop CLI: descriptors,
// argument builders, and output post-processors for contract, chain,
// network, and utility tools. Builders are pure functions from validated
// params to argument vectors; every caller-supplied value lands in exactly
// one argv slot.
package pop

import (
	"context"
	"errors"

	"github.com/flemzord/popmcp/internal/command"
	"github.com/flemzord/popmcp/internal/executor"
	"github.com/flemzord/popmcp/internal/outcome"
	"github.com/flemzord/popmcp/internal/tool"
)

// DefaultProgram is the wrapped CLI binary, resolved via PATH.
const DefaultProgram = "pop"

// Options tunes the catalogue at registration time.
type Options struct {
	// ExtraMarkers appends failure markers per tool name. The marker lists
	// are version-specific to the wrapped CLI and may need extending from
	// configuration without a rebuild.
	ExtraMarkers map[string][]string
}

// Register adds every pop tool to the registry.
func Register(reg *tool.Registry, opts Options) {
	descriptors := []tool.Descriptor{
		checkPopInstallation(),
		installPopInstructions(),
		popHelp(),
		listTemplates(),
		createContract(),
		buildContract(),
		testContract(),
		deployContract(),
		callContract(),
		createChain(),
		buildChain(),
		testChain(),
		callChain(),
		upInkNode(),
		upNetwork(),
		cleanNodes(),
		convertAddress(),
	}

	for i := range descriptors {
		if extra, ok := opts.ExtraMarkers[descriptors[i].Name]; ok {
			descriptors[i].FailureMarkers = append(descriptors[i].FailureMarkers, extra...)
		}
	}

	reg.MustRegister(descriptors...)
}

// program returns the pop binary for this deployment.
func program(deps tool.Deps) string {
	if deps.Program != "" {
		return deps.Program
	}
	return DefaultProgram
}

// run executes a spec and classifies the result. Shared by handler tools
// that cannot use the standard pipeline but still follow its
// execute-then-classify discipline.
func run(ctx context.Context, deps tool.Deps, spec command.Spec, markers []string) outcome.Outcome {
	rec, err := deps.Exec.Run(ctx, spec)
	if err != nil {
		if errors.Is(err, executor.ErrStartFailed) {
			return outcome.Failure(outcome.KindStartFailed, err.Error())
		}
		return outcome.Failure(outcome.KindExecutionFailed, err.Error())
	}
	return outcome.Classify(rec, markers)
}
