package pop

import (
	"context"

	"github.com/flemzord/popmcp/internal/command"
	"github.com/flemzord/popmcp/internal/outcome"
	"github.com/flemzord/popmcp/internal/schema"
	"github.com/flemzord/popmcp/internal/tool"
)

func convertAddress() tool.Descriptor {
	return tool.Descriptor{
		Name:        "convert_address",
		Description: "Convert an address between SS58 and Ethereum (H160) formats",
		Schema: schema.New(
			schema.Field{
				Name:        "address",
				Description: "Address to convert (SS58 or 0x-prefixed hex)",
				Type:        schema.TypeString,
				Required:    true,
				Check:       schema.NonEmpty,
			},
		),
		Build: func(p schema.Params, deps tool.Deps) (command.Spec, error) {
			return command.New(program(deps), "convert", "address", p.String("address")), nil
		},
		Finalize: func(ctx context.Context, p schema.Params, out outcome.Outcome, deps tool.Deps) outcome.Outcome {
			if out.IsError() {
				out.Text = "Address conversion failed:\n\n" + out.Text
				return out
			}

			// The output echoes the input; the converted form is the first
			// address-shaped token that differs from it.
			converted := ""
			for _, m := range outcome.ParseAddresses(out.Text) {
				if m != p.String("address") {
					converted = m
					break
				}
			}
			if converted == "" {
				return outcome.Failuref(outcome.KindUnparseable,
					"command succeeded but its output could not be parsed: no converted address in output\n\n%s",
					out.Text)
			}
			return out.WithField("converted", converted)
		},
		ReadOnly: true,
	}
}
