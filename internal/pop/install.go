package pop

import (
	"context"
	"errors"
	"regexp"
	"strings"

	"github.com/flemzord/popmcp/internal/command"
	"github.com/flemzord/popmcp/internal/outcome"
	"github.com/flemzord/popmcp/internal/resources"
	"github.com/flemzord/popmcp/internal/schema"
	"github.com/flemzord/popmcp/internal/tool"
)

func checkPopInstallation() tool.Descriptor {
	return tool.Descriptor{
		Name:        "check_pop_installation",
		Description: "Check whether the Pop CLI is installed and report its version",
		Schema:      schema.New(),
		Handler: func(ctx context.Context, p schema.Params, deps tool.Deps) outcome.Outcome {
			out := run(ctx, deps, command.New(program(deps), "--version"), nil)
			if out.Kind == outcome.KindStartFailed {
				return outcome.Failure(outcome.KindStartFailed,
					"Pop CLI is not installed or not on PATH.\n\nCall install_pop_instructions for installation steps.")
			}
			if out.IsError() {
				return out
			}
			out.Text = "Pop CLI is installed!\n\n" + out.Text
			return out
		},
		ReadOnly: true,
	}
}

func installPopInstructions() tool.Descriptor {
	return tool.Descriptor{
		Name:        "install_pop_instructions",
		Description: "Get Pop CLI installation instructions for a platform",
		Schema: schema.New(
			schema.Field{
				Name:        "platform",
				Description: "Target platform",
				Type:        schema.TypeString,
				Enum:        []string{"macos", "linux", "source"},
				Default:     "macos",
			},
		),
		Handler: func(ctx context.Context, p schema.Params, deps tool.Deps) outcome.Outcome {
			return outcome.Success(resources.InstallFor(p.String("platform")))
		},
		ReadOnly: true,
	}
}

// helpTopicPattern constrains each token of a help topic to subcommand-shaped
// words, so splitting the topic into argv slots cannot smuggle flags or paths.
var helpTopicPattern = regexp.MustCompile(`^[A-Za-z][A-Za-z0-9-]*$`)

// helpTopic is a Check for the pop_help command field.
func helpTopic(value any) error {
	s, _ := value.(string)
	for _, token := range strings.Fields(s) {
		if !helpTopicPattern.MatchString(token) {
			return errors.New("must be a subcommand path like \"up network\"")
		}
	}
	return nil
}

func popHelp() tool.Descriptor {
	return tool.Descriptor{
		Name:        "pop_help",
		Description: "Show Pop CLI help, optionally for a specific subcommand",
		Schema: schema.New(
			schema.Field{
				Name:        "command",
				Description: "Subcommand path to get help for (e.g. \"up network\"); omit for top-level help",
				Type:        schema.TypeString,
				Check:       helpTopic,
			},
		),
		Handler: func(ctx context.Context, p schema.Params, deps tool.Deps) outcome.Outcome {
			spec := command.New(program(deps))
			for _, token := range strings.Fields(p.String("command")) {
				spec = spec.Append(token)
			}
			spec = spec.Append("--help")

			out := run(ctx, deps, spec, nil)
			if out.IsError() {
				return out
			}
			out.Text = "Pop CLI Help:\n\n" + out.Text
			return out
		},
		ReadOnly: true,
	}
}
