package pop

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/flemzord/popmcp/internal/command"
	"github.com/flemzord/popmcp/internal/executor"
	"github.com/flemzord/popmcp/internal/node"
	"github.com/flemzord/popmcp/internal/outcome"
	"github.com/flemzord/popmcp/internal/schema"
	"github.com/flemzord/popmcp/internal/tool"
)

// Timings for the network launch watch loop. Vars so tests can shorten them.
var (
	networkLaunchTimeout = 5 * time.Minute
	endpointTimeout      = 60 * time.Second
	pollInterval         = 2 * time.Second
)

// launchFailedMarker in the launch log means zombienet gave up.
const launchFailedMarker = "Could not launch local network"

func upInkNode() tool.Descriptor {
	return tool.Descriptor{
		Name:        "up_ink_node",
		Description: "Start a local ink! development node and return its WebSocket URL",
		Schema:      schema.New(),
		Handler: func(ctx context.Context, p schema.Params, deps tool.Deps) outcome.Outcome {
			spec := command.New(program(deps), "up", "ink-node", "-y", "--detach")
			out := run(ctx, deps, spec, nil)
			if out.IsError() {
				return out
			}

			url, ok := outcome.ParseWSURL(out.Text)
			if !ok {
				return outcome.Failuref(outcome.KindUnparseable,
					"command succeeded but its output could not be parsed: no websocket url in output\n\n%s",
					out.Text)
			}

			n := node.Node{Kind: node.KindInkNode, WSURL: url}
			deps.Tracker.Set(n)
			if deps.History != nil {
				if err := deps.History.SaveNode(ctx, n); err != nil {
					deps.Logger.Warn("failed to persist node record", "error", err)
				}
			}

			return outcome.Successf("Local ink! node running at %s\n\n%s", url, out.Text).
				WithField("url", url)
		},
	}
}

func upNetwork() tool.Descriptor {
	return tool.Descriptor{
		Name:        "up_network",
		Description: "Launch a local relay chain and parachain network from a zombienet config",
		Schema: schema.New(
			schema.Field{
				Name:        "path",
				Description: "Path to the network configuration file",
				Type:        schema.TypeString,
				Required:    true,
				Check:       schema.NonEmpty,
			},
			schema.Field{
				Name:        "verbose",
				Description: "Pass --verbose to the launch",
				Type:        schema.TypeBool,
			},
		),
		Handler: func(ctx context.Context, p schema.Params, deps tool.Deps) outcome.Outcome {
			spec := command.New(program(deps), "up", "network", p.String("path"), "-y")
			if p.Bool("verbose") {
				spec = spec.Append("--verbose")
			}

			started := time.Now()
			proc, err := deps.Exec.Start(ctx, spec)
			if err != nil {
				if errors.Is(err, executor.ErrStartFailed) {
					return outcome.Failure(outcome.KindStartFailed, err.Error())
				}
				return outcome.Failure(outcome.KindExecutionFailed, err.Error())
			}

			zombiePath, logText, err := awaitNetwork(ctx, proc, started)
			if err != nil {
				_ = proc.Kill()
				return outcome.Failuref(outcome.KindExecutionFailed, "%v\n\n%s", err, logText)
			}

			relayWS, chainWS, err := awaitEndpoints(ctx, zombiePath)
			if err != nil {
				_ = proc.Kill()
				return outcome.Failuref(outcome.KindExecutionFailed, "%v\n\n%s", err, logText)
			}

			n := node.Node{
				Kind:       node.KindNetwork,
				WSURL:      chainWS,
				RelayWS:    relayWS,
				PID:        proc.PID,
				ZombieJSON: zombiePath,
				BaseDir:    filepath.Dir(zombiePath),
			}
			deps.Tracker.Set(n)
			if deps.History != nil {
				if err := deps.History.SaveNode(ctx, n); err != nil {
					deps.Logger.Warn("failed to persist node record", "error", err)
				}
			}

			// The network keeps running after this call returns; ownership
			// passes to clean_nodes (or the user).
			proc.Release()

			out := outcome.Successf("Network launched!\n\nRelay chain: %s\nParachain:   %s\n\n%s",
				relayWS, chainWS, logText)
			out.Structured = map[string]string{
				"relay_ws":    relayWS,
				"chain_ws":    chainWS,
				"pop_pid":     strconv.Itoa(proc.PID),
				"zombie_json": zombiePath,
				"base_dir":    filepath.Dir(zombiePath),
			}
			return out
		},
	}
}

// awaitNetwork polls the launch log until zombienet has written its state
// file, the log reports a launch failure, or the timeout expires. Returns the
// zombie.json path and the log contents at the time of return.
func awaitNetwork(ctx context.Context, proc *executor.Process, since time.Time) (string, string, error) {
	deadline := time.Now().Add(networkLaunchTimeout)
	var logText string
	for {
		if text, err := proc.ReadLog(); err == nil {
			logText = text
		}
		if strings.Contains(logText, launchFailedMarker) {
			return "", logText, errors.New("network launch failed")
		}
		if path, ok := findZombieJSON(since); ok {
			return path, logText, nil
		}
		if time.Now().After(deadline) {
			return "", logText, fmt.Errorf("network did not come up within %s", networkLaunchTimeout)
		}
		select {
		case <-ctx.Done():
			return "", logText, ctx.Err()
		case <-time.After(pollInterval):
		}
	}
}

// findZombieJSON locates the newest zombienet state file created after since.
// Zombienet writes its base directory under the temp dir as zombie-<id>.
func findZombieJSON(since time.Time) (string, bool) {
	entries, err := os.ReadDir(os.TempDir())
	if err != nil {
		return "", false
	}

	var newest string
	var newestMod time.Time
	for _, e := range entries {
		if !e.IsDir() || !strings.HasPrefix(e.Name(), "zombie-") {
			continue
		}
		info, err := e.Info()
		if err != nil || info.ModTime().Before(since) {
			continue
		}
		path := filepath.Join(os.TempDir(), e.Name(), "zombie.json")
		if _, err := os.Stat(path); err != nil {
			continue
		}
		if info.ModTime().After(newestMod) {
			newest, newestMod = path, info.ModTime()
		}
	}
	return newest, newest != ""
}

// awaitEndpoints reads the state file until both relay and parachain
// endpoints appear. The file exists before zombienet finishes filling it in,
// so transient parse failures are retried until the timeout.
func awaitEndpoints(ctx context.Context, zombiePath string) (relayWS, chainWS string, err error) {
	deadline := time.Now().Add(endpointTimeout)
	for {
		data, readErr := os.ReadFile(zombiePath)
		if readErr == nil {
			relayWS, chainWS, err = outcome.NetworkEndpoints(data)
			if err == nil {
				return relayWS, chainWS, nil
			}
		}
		if time.Now().After(deadline) {
			return "", "", fmt.Errorf("network endpoints not available within %s", endpointTimeout)
		}
		select {
		case <-ctx.Done():
			return "", "", ctx.Err()
		case <-time.After(pollInterval):
		}
	}
}

func cleanNodes() tool.Descriptor {
	return tool.Descriptor{
		Name:        "clean_nodes",
		Description: "Stop and remove all locally running nodes and networks",
		Schema:      schema.New(),
		Handler: func(ctx context.Context, p schema.Params, deps tool.Deps) outcome.Outcome {
			out := run(ctx, deps, command.New(program(deps), "clean", "node", "--all"), nil)

			// pop clean only knows about nodes it detached itself; networks
			// launched by up_network are reclaimed by PID, including ones
			// persisted by a previous server run.
			for _, n := range deps.Tracker.All() {
				terminateNode(deps, n)
			}
			if deps.History != nil {
				if persisted, err := deps.History.ListNodes(ctx); err == nil {
					for _, n := range persisted {
						terminateNode(deps, n)
					}
				}
				if err := deps.History.DeleteNodes(ctx); err != nil {
					deps.Logger.Warn("failed to clear persisted node records", "error", err)
				}
			}
			deps.Tracker.Clear()

			if out.IsError() {
				return out
			}
			out.Text = "Nodes cleaned!\n\n" + out.Text
			return out
		},
	}
}

// terminateNode best-effort kills a tracked node's process.
func terminateNode(deps tool.Deps, n node.Node) {
	if n.PID <= 0 {
		return
	}
	if err := executor.Terminate(n.PID); err != nil {
		deps.Logger.Debug("node process already gone", "pid", n.PID, "error", err)
	}
}
