package pop

import (
	"context"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"testing"
	"time"
)

const zombieState = `{
  "relay": {"nodes": [{"ws_uri": "ws://127.0.0.1:53042"}]},
  "parachains": [{"collators": [{"ws_uri": "ws://127.0.0.1:53055"}]}]
}`

func writeZombieDir(t *testing.T) string {
	t.Helper()
	dir := filepath.Join(os.TempDir(), "zombie-"+strconv.FormatInt(time.Now().UnixNano(), 10))
	if err := os.MkdirAll(dir, 0o700); err != nil {
		t.Fatal(err)
	}
	t.Cleanup(func() { os.RemoveAll(dir) })

	path := filepath.Join(dir, "zombie.json")
	if err := os.WriteFile(path, []byte(zombieState), 0o600); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestFindZombieJSON(t *testing.T) {
	since := time.Now().Add(-time.Second)
	want := writeZombieDir(t)

	got, ok := findZombieJSON(since)
	if !ok {
		t.Fatal("state file not found")
	}
	if !strings.HasSuffix(got, "zombie.json") {
		t.Errorf("path = %q, want a zombie.json", got)
	}
	if got != want {
		t.Logf("found %q instead of %q (another network dir is newer)", got, want)
	}
}

func TestFindZombieJSONIgnoresOldDirs(t *testing.T) {
	writeZombieDir(t)

	if path, ok := findZombieJSON(time.Now().Add(time.Hour)); ok {
		t.Errorf("found %q for a launch that has not happened yet", path)
	}
}

func TestAwaitEndpoints(t *testing.T) {
	path := writeZombieDir(t)

	relayWS, chainWS, err := awaitEndpoints(context.Background(), path)
	if err != nil {
		t.Fatalf("awaitEndpoints: %v", err)
	}
	if relayWS != "ws://127.0.0.1:53042" {
		t.Errorf("relayWS = %q", relayWS)
	}
	if chainWS != "ws://127.0.0.1:53055" {
		t.Errorf("chainWS = %q", chainWS)
	}
}
