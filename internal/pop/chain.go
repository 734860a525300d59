package pop

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	"github.com/flemzord/popmcp/internal/command"
	"github.com/flemzord/popmcp/internal/outcome"
	"github.com/flemzord/popmcp/internal/resources"
	"github.com/flemzord/popmcp/internal/schema"
	"github.com/flemzord/popmcp/internal/tool"
)

// chainTemplates maps each chain provider to the templates it supports.
var chainTemplates = map[string][]string{
	"pop":          {"standard", "assets", "contracts", "evm"},
	"openzeppelin": {"generic-template", "evm-template"},
	"parity":       {"cpt", "fpt"},
}

var chainProviders = []string{"pop", "openzeppelin", "parity"}

func createChain() tool.Descriptor {
	return tool.Descriptor{
		Name:        "create_chain",
		Description: "Create a new parachain project from a provider template",
		Schema: schema.New(
			schema.Field{
				Name:        "name",
				Description: "Project name (alphanumeric and underscores)",
				Type:        schema.TypeString,
				Required:    true,
				Check:       schema.Ident,
			},
			schema.Field{
				Name:        "provider",
				Description: "Template provider",
				Type:        schema.TypeString,
				Required:    true,
				Enum:        chainProviders,
			},
			schema.Field{
				Name:        "template",
				Description: "Chain template (must belong to the chosen provider)",
				Type:        schema.TypeString,
				Required:    true,
				Check:       schema.NonEmpty,
			},
			schema.Field{
				Name:        "symbol",
				Description: "Token symbol for the new chain",
				Type:        schema.TypeString,
			},
			schema.Field{
				Name:        "decimals",
				Description: "Token decimals for the new chain",
				Type:        schema.TypeInt,
			},
		),
		CheckParams: func(p schema.Params) error {
			provider := p.String("provider")
			template := strings.ToLower(p.String("template"))
			for _, t := range chainTemplates[provider] {
				if template == t {
					return nil
				}
			}
			return fmt.Errorf("provider %q does not offer template %q (available: %s)",
				provider, p.String("template"), strings.Join(chainTemplates[provider], ", "))
		},
		Build: func(p schema.Params, deps tool.Deps) (command.Spec, error) {
			spec := command.New(program(deps),
				"new", "chain", p.String("name"), p.String("provider"),
				"--template", strings.ToLower(p.String("template")),
			)
			if p.Has("symbol") {
				spec = spec.Append("--symbol", p.String("symbol"))
			}
			if p.Has("decimals") {
				spec = spec.Append("--decimals", strconv.Itoa(p.Int("decimals")))
			}
			return spec, nil
		},
		FailureMarkers: []string{
			"directory already exists",
			"doesn't support",
			"incorrect initial endowment",
		},
		Finalize: func(ctx context.Context, p schema.Params, out outcome.Outcome, deps tool.Deps) outcome.Outcome {
			if out.IsError() {
				return out
			}
			out.Text = fmt.Sprintf(
				"Successfully created chain project: %s\n\nNext steps: build it with build_chain, then launch a network with up_network.\n\n%s",
				p.String("name"), out.Text)
			return out
		},
	}
}

func buildChain() tool.Descriptor {
	return tool.Descriptor{
		Name:        "build_chain",
		Description: "Build a parachain project (release profile by default)",
		Schema: schema.New(
			schema.Field{
				Name:        "path",
				Description: "Path to the chain project",
				Type:        schema.TypeString,
				Required:    true,
				Check:       schema.NonEmpty,
			},
			schema.Field{
				Name:        "release",
				Description: "Build with release optimizations",
				Type:        schema.TypeBool,
				Default:     true,
			},
		),
		Build: func(p schema.Params, deps tool.Deps) (command.Spec, error) {
			spec := command.New(program(deps), "build", "--path", p.String("path"))
			if p.Bool("release") {
				spec = spec.Append("--release")
			}
			return spec, nil
		},
		Finalize: successPrefix("Build successful!"),
	}
}

func testChain() tool.Descriptor {
	return tool.Descriptor{
		Name:        "test_chain",
		Description: "Run a parachain project's test suite",
		Schema: schema.New(
			schema.Field{
				Name:        "path",
				Description: "Path to the chain project",
				Type:        schema.TypeString,
				Required:    true,
				Check:       schema.NonEmpty,
			},
		),
		Build: func(p schema.Params, deps tool.Deps) (command.Spec, error) {
			return command.New(program(deps), "test", "--path", p.String("path")), nil
		},
		Finalize: successPrefix("Tests completed!"),
	}
}

// metadataMarkers flag exit-0 failures when querying pallet metadata.
var metadataMarkers = []string{"Failed to find the pallet"}

func callChain() tool.Descriptor {
	return tool.Descriptor{
		Name:        "call_chain",
		Description: "Dispatch an extrinsic on a chain, or query its pallet metadata",
		Schema: schema.New(
			schema.Field{
				Name:        "url",
				Description: "WebSocket URL of the target node",
				Type:        schema.TypeString,
				Required:    true,
				Check:       schema.NonEmpty,
			},
			schema.Field{
				Name:        "pallet",
				Description: "Pallet to call, or to filter metadata by",
				Type:        schema.TypeString,
			},
			schema.Field{
				Name:        "function",
				Description: "Dispatchable function to call (call mode only)",
				Type:        schema.TypeString,
			},
			schema.Field{
				Name:        "args",
				Description: "Function arguments, one list entry per argument",
				Type:        schema.TypeStringList,
			},
			schema.Field{
				Name:        "sudo",
				Description: "Dispatch the call via sudo",
				Type:        schema.TypeBool,
			},
			schema.Field{
				Name:        "metadata",
				Description: "Query pallet metadata instead of dispatching a call",
				Type:        schema.TypeBool,
			},
		),
		CheckParams: func(p schema.Params) error {
			if p.Bool("metadata") {
				for _, field := range []string{"function", "args", "sudo"} {
					if p.Has(field) {
						return fmt.Errorf("metadata mode does not accept %q", field)
					}
				}
				return nil
			}
			if !p.Has("pallet") || !p.Has("function") {
				return fmt.Errorf("call mode requires both pallet and function (or set metadata=true to browse)")
			}
			return nil
		},
		Handler: func(ctx context.Context, p schema.Params, deps tool.Deps) outcome.Outcome {
			spec := command.New(program(deps), "call", "chain", "--url", p.String("url"))

			if p.Bool("metadata") {
				spec = spec.Append("--metadata")
				if p.Has("pallet") {
					spec = spec.Append("--pallet", p.String("pallet"))
				}
				out := run(ctx, deps, spec, metadataMarkers)
				if out.IsError() {
					return out
				}
				out.Text = "Chain metadata:\n\n" + out.Text + resources.TypeHints()
				return out
			}

			spec = spec.Append("--pallet", p.String("pallet"), "--function", p.String("function"))
			if args := p.StringList("args"); len(args) > 0 {
				spec = spec.Append("--args").Append(args...)
			}
			if p.Bool("sudo") {
				spec = spec.Append("--sudo")
			}
			spec = spec.Append("-y")

			out := run(ctx, deps, spec, outcome.DefaultFailureMarkers)
			if out.IsError() {
				return out
			}
			out.Text = "Chain call successful!\n\n" + out.Text
			return out
		},
	}
}
