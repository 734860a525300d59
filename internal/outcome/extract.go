package outcome

import (
	"encoding/json"
	"errors"
	"fmt"
	"regexp"
	"strings"
)

// ErrNoMatch is returned when a promised structured field is absent from the
// captured output.
var ErrNoMatch = errors.New("outcome: no match in output")

// ParseWSURL extracts the local node WebSocket URL from pop's launch
// narration. It looks for a line like
//
//	│  url: ws://localhost:9944/
//
// and returns the URL without its trailing slash. Only the node RPC port
// (9944) qualifies; the Ethereum RPC line on 8545 is ignored.
func ParseWSURL(output string) (string, bool) {
	for _, line := range strings.Split(output, "\n") {
		trimmed := strings.TrimSpace(strings.TrimPrefix(strings.TrimSpace(line), "│"))
		if !strings.HasPrefix(trimmed, "url:") {
			continue
		}
		if !strings.Contains(trimmed, "ws://") || !strings.Contains(trimmed, ":9944") {
			continue
		}
		if idx := strings.Index(trimmed, "ws://"); idx >= 0 {
			return strings.TrimSuffix(trimmed[idx:], "/"), true
		}
	}
	return "", false
}

// addressPattern matches SS58 (base58, 47-48 chars) and 20-byte hex addresses.
var addressPattern = regexp.MustCompile(`\b(?:[1-9A-HJ-NP-Za-km-z]{47,48}|0x[0-9a-fA-F]{40})\b`)

// ParseAddress extracts the first address-shaped token from output.
func ParseAddress(output string) (string, bool) {
	m := addressPattern.FindString(output)
	return m, m != ""
}

// ParseAddresses extracts every address-shaped token from output, in order.
func ParseAddresses(output string) []string {
	return addressPattern.FindAllString(output, -1)
}

// zombieNode is one node entry in zombienet's state file.
type zombieNode struct {
	WSURI string `json:"ws_uri"`
}

type zombieChain struct {
	Collators []zombieNode `json:"collators"`
}

// NetworkEndpoints extracts the relay-chain and parachain WebSocket
// endpoints from a zombienet zombie.json document. The parachains section
// has shipped both as an array and as a map keyed by para ID; both shapes
// are accepted.
func NetworkEndpoints(data []byte) (relayWS, chainWS string, err error) {
	var doc struct {
		Relay struct {
			Nodes []zombieNode `json:"nodes"`
		} `json:"relay"`
		Parachains json.RawMessage `json:"parachains"`
	}
	if err := json.Unmarshal(data, &doc); err != nil {
		return "", "", fmt.Errorf("outcome: parse zombie.json: %w", err)
	}

	for _, n := range doc.Relay.Nodes {
		if n.WSURI != "" {
			relayWS = n.WSURI
			break
		}
	}
	if relayWS == "" {
		return "", "", fmt.Errorf("%w: relay ws_uri", ErrNoMatch)
	}

	chainWS = firstCollatorURI(doc.Parachains)
	if chainWS == "" {
		return "", "", fmt.Errorf("%w: parachain ws_uri", ErrNoMatch)
	}

	return relayWS, chainWS, nil
}

// firstCollatorURI digs the first collator ws_uri out of the parachains
// section, whichever of its two historical shapes it has.
func firstCollatorURI(raw json.RawMessage) string {
	if len(raw) == 0 {
		return ""
	}

	var asArray []zombieChain
	if err := json.Unmarshal(raw, &asArray); err == nil {
		for _, chain := range asArray {
			for _, c := range chain.Collators {
				if c.WSURI != "" {
					return c.WSURI
				}
			}
		}
		return ""
	}

	var asMap map[string][]zombieChain
	if err := json.Unmarshal(raw, &asMap); err == nil {
		for _, chains := range asMap {
			for _, chain := range chains {
				for _, c := range chain.Collators {
					if c.WSURI != "" {
						return c.WSURI
					}
				}
			}
		}
	}
	return ""
}
