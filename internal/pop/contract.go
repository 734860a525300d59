package pop

import (
	"context"
	"errors"
	"strconv"
	"strings"

	"github.com/flemzord/popmcp/internal/command"
	"github.com/flemzord/popmcp/internal/outcome"
	"github.com/flemzord/popmcp/internal/schema"
	"github.com/flemzord/popmcp/internal/tool"
)

// contractTemplates are the project templates pop ships for new contracts.
var contractTemplates = []string{
	"standard",
	"erc20",
	"erc721",
	"erc1155",
	"dns",
	"cross-contract-calls",
	"multisig",
}

const templateListing = `Available ink! contract templates:

  standard              Flipper starter contract (boolean toggle)
  erc20                 Fungible token (ERC-20 interface)
  erc721                Non-fungible token (ERC-721 interface)
  erc1155               Multi-token standard (ERC-1155 interface)
  dns                   Domain name registry example
  cross-contract-calls  Calling one contract from another
  multisig              Multi-signature wallet

Use create_contract with one of these template names.`

func listTemplates() tool.Descriptor {
	return tool.Descriptor{
		Name:        "list_templates",
		Description: "List the ink! smart contract templates available to create_contract",
		Schema:      schema.New(),
		Handler: func(ctx context.Context, p schema.Params, deps tool.Deps) outcome.Outcome {
			return outcome.Success(templateListing)
		},
		ReadOnly: true,
	}
}

func createContract() tool.Descriptor {
	return tool.Descriptor{
		Name:        "create_contract",
		Description: "Create a new ink! smart contract project from a template",
		Schema: schema.New(
			schema.Field{
				Name:        "name",
				Description: "Project name (alphanumeric and underscores)",
				Type:        schema.TypeString,
				Required:    true,
				Check:       schema.Ident,
			},
			schema.Field{
				Name:        "template",
				Description: "Contract template to start from",
				Type:        schema.TypeString,
				Required:    true,
				Enum:        contractTemplates,
			},
			schema.Field{
				Name:        "with_frontend",
				Description: "Scaffold a typink frontend alongside the contract (requires Node.js 20+ and npm)",
				Type:        schema.TypeBool,
			},
		),
		Handler: func(ctx context.Context, p schema.Params, deps tool.Deps) outcome.Outcome {
			if p.Bool("with_frontend") {
				if out, ok := checkFrontendPrereqs(ctx, deps); !ok {
					return out
				}
			}

			args := []string{"new", "contract", p.String("name"), "--template", p.String("template")}
			if p.Bool("with_frontend") {
				args = append(args, "--with-frontend=typink", "--package-manager", "npm")
			}

			out := run(ctx, deps, command.New(program(deps), args...), nil)
			if out.IsError() {
				return out
			}
			return outcome.Successf("Successfully created contract: %s\n\n%s", p.String("name"), out.Text)
		},
	}
}

// checkFrontendPrereqs verifies the Node.js toolchain before a frontend
// scaffold is attempted, so the failure surfaces as one clear message instead
// of a half-created project.
func checkFrontendPrereqs(ctx context.Context, deps tool.Deps) (outcome.Outcome, bool) {
	rec, err := deps.Exec.Run(ctx, command.New("node", "--version"))
	if err != nil || rec.ExitCode != 0 {
		return outcome.Failure(outcome.KindStartFailed,
			"with_frontend requires Node.js 20 or newer, but node is not available on PATH"), false
	}
	if major := nodeMajor(string(rec.Stdout)); major < 20 {
		return outcome.Failuref(outcome.KindExecutionFailed,
			"with_frontend requires Node.js 20 or newer, found %s", strings.TrimSpace(string(rec.Stdout))), false
	}
	rec, err = deps.Exec.Run(ctx, command.New("npm", "--version"))
	if err != nil || rec.ExitCode != 0 {
		return outcome.Failure(outcome.KindStartFailed,
			"with_frontend requires npm, but npm is not available on PATH"), false
	}
	return outcome.Outcome{}, true
}

// nodeMajor parses the major version out of `node --version` output (v20.11.1).
func nodeMajor(version string) int {
	v := strings.TrimPrefix(strings.TrimSpace(version), "v")
	head, _, _ := strings.Cut(v, ".")
	n, _ := strconv.Atoi(head)
	return n
}

func buildContract() tool.Descriptor {
	return tool.Descriptor{
		Name:        "build_contract",
		Description: "Build an ink! smart contract project",
		Schema: schema.New(
			schema.Field{
				Name:        "path",
				Description: "Path to the contract project",
				Type:        schema.TypeString,
				Required:    true,
				Check:       schema.NonEmpty,
			},
			schema.Field{
				Name:        "release",
				Description: "Build with release optimizations",
				Type:        schema.TypeBool,
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

func testContract() tool.Descriptor {
	return tool.Descriptor{
		Name:        "test_contract",
		Description: "Run an ink! contract's unit tests, or its end-to-end tests against a node",
		Schema: schema.New(
			schema.Field{
				Name:        "path",
				Description: "Path to the contract project",
				Type:        schema.TypeString,
				Required:    true,
				Check:       schema.NonEmpty,
			},
			schema.Field{
				Name:        "e2e",
				Description: "Run end-to-end tests instead of unit tests",
				Type:        schema.TypeBool,
				Required:    true,
			},
		),
		Build: func(p schema.Params, deps tool.Deps) (command.Spec, error) {
			spec := command.New(program(deps), "test", "--path", p.String("path"))
			if p.Bool("e2e") {
				spec = spec.Append("--e2e")
			}
			return spec, nil
		},
		Finalize: successPrefix("Tests completed!"),
	}
}

func deployContract() tool.Descriptor {
	return tool.Descriptor{
		Name:        "deploy_contract",
		Description: "Deploy an ink! contract to a node (dry run unless execute is true)",
		Schema: schema.New(
			schema.Field{
				Name:        "path",
				Description: "Path to the built contract project",
				Type:        schema.TypeString,
				Required:    true,
				Check:       schema.NonEmpty,
			},
			schema.Field{
				Name:        "constructor",
				Description: "Constructor to instantiate (defaults to the contract's default constructor)",
				Type:        schema.TypeString,
			},
			schema.Field{
				Name:        "args",
				Description: "Constructor arguments, whitespace separated",
				Type:        schema.TypeString,
			},
			schema.Field{
				Name:        "value",
				Description: "Balance to transfer to the contract on instantiation",
				Type:        schema.TypeString,
			},
			schema.Field{
				Name:        "execute",
				Description: "Submit the deployment (requires the PRIVATE_KEY environment variable); false estimates gas only",
				Type:        schema.TypeBool,
			},
			schema.Field{
				Name:        "url",
				Description: "WebSocket URL of the target node (defaults to the tracked local node)",
				Type:        schema.TypeString,
			},
		),
		Build: func(p schema.Params, deps tool.Deps) (command.Spec, error) {
			spec := command.New(program(deps), "up", p.String("path"), "-y")
			if p.Has("constructor") {
				spec = spec.Append("--constructor", p.String("constructor"))
			}
			spec = appendSplitArgs(spec, p.String("args"))
			if p.Has("value") {
				spec = spec.Append("--value", p.String("value"))
			}
			if p.Bool("execute") {
				if _, ok := deps.SURI(); !ok {
					return command.Spec{}, errors.New(
						"execute=true requires a signing key: set the PRIVATE_KEY environment variable")
				}
				spec = spec.Append("--execute")
			}
			spec = appendURL(spec, p, deps)
			return spec, nil
		},
		Finalize: func(ctx context.Context, p schema.Params, out outcome.Outcome, deps tool.Deps) outcome.Outcome {
			if out.IsError() {
				return out
			}
			addr, found := outcome.ParseAddress(out.Text)
			if found {
				out = out.WithField("address", addr)
			} else if p.Bool("execute") {
				return outcome.Failuref(outcome.KindUnparseable,
					"command succeeded but its output could not be parsed: no contract address in output\n\n%s",
					out.Text)
			}
			out.Text = "Deployment successful!\n\n" + out.Text
			return out
		},
	}
}

func callContract() tool.Descriptor {
	return tool.Descriptor{
		Name:        "call_contract",
		Description: "Call a message on a deployed ink! contract (dry run unless execute is true)",
		Schema: schema.New(
			schema.Field{
				Name:        "path",
				Description: "Path to the contract project (for metadata)",
				Type:        schema.TypeString,
				Required:    true,
				Check:       schema.NonEmpty,
			},
			schema.Field{
				Name:        "contract",
				Description: "Address of the deployed contract",
				Type:        schema.TypeString,
				Required:    true,
				Check:       schema.NonEmpty,
			},
			schema.Field{
				Name:        "message",
				Description: "Contract message to call",
				Type:        schema.TypeString,
				Required:    true,
				Check:       schema.NonEmpty,
			},
			schema.Field{
				Name:        "args",
				Description: "Message arguments, whitespace separated",
				Type:        schema.TypeString,
			},
			schema.Field{
				Name:        "value",
				Description: "Balance to transfer with the call",
				Type:        schema.TypeString,
			},
			schema.Field{
				Name:        "execute",
				Description: "Submit the call as a transaction; false is a dry run",
				Type:        schema.TypeBool,
			},
			schema.Field{
				Name:        "suri",
				Description: "Signing key URI for the call (defaults to the PRIVATE_KEY environment variable)",
				Type:        schema.TypeString,
			},
			schema.Field{
				Name:        "url",
				Description: "WebSocket URL of the target node (defaults to the tracked local node)",
				Type:        schema.TypeString,
			},
		),
		Build: func(p schema.Params, deps tool.Deps) (command.Spec, error) {
			spec := command.New(program(deps), "call", "contract",
				"--path", p.String("path"),
				"--contract", p.String("contract"),
				"--message", p.String("message"),
			)
			spec = appendSplitArgs(spec, p.String("args"))
			if p.Has("value") {
				spec = spec.Append("--value", p.String("value"))
			}
			if p.Bool("execute") {
				switch {
				case p.Has("suri"):
					spec = spec.Append("--suri", p.String("suri"))
				default:
					if _, ok := deps.SURI(); !ok {
						return command.Spec{}, errors.New(
							"execute=true requires a signing key: pass suri or set the PRIVATE_KEY environment variable")
					}
				}
				spec = spec.Append("--execute")
			}
			spec = appendURL(spec, p, deps)
			spec = spec.Append("-y")
			return spec, nil
		},
		Finalize: successPrefix("Contract call successful!"),
	}
}

// appendSplitArgs splits a whitespace-separated argument string into one
// --args flag followed by each token in its own argv slot.
func appendSplitArgs(spec command.Spec, args string) command.Spec {
	tokens := strings.Fields(args)
	if len(tokens) == 0 {
		return spec
	}
	spec = spec.Append("--args")
	return spec.Append(tokens...)
}

// appendURL resolves the target node URL: caller value first, then the
// tracked node, then the configured default. No flag is appended when none is
// known; pop falls back to its own default endpoint.
func appendURL(spec command.Spec, p schema.Params, deps tool.Deps) command.Spec {
	if p.Has("url") {
		return spec.Append("--url", p.String("url"))
	}
	if url, ok := deps.NodeURL(); ok {
		return spec.Append("--url", url)
	}
	return spec
}

// successPrefix builds a Finalize hook that prepends a headline to
// successful output and passes failures through untouched.
func successPrefix(headline string) tool.FinalizeFunc {
	return func(ctx context.Context, p schema.Params, out outcome.Outcome, deps tool.Deps) outcome.Outcome {
		if out.IsError() {
			return out
		}
		out.Text = headline + "\n\n" + out.Text
		return out
	}
}
