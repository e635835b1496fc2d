package cli

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"math"
	"net/http"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"gopkg.in/yaml.v3"

	api "github.com/felixgeelhaar/shapley-go/interfaces/api"
)

const bandwidthGame = `
name: bandwidth
version: "1"
worth:
  type: bandwidth
  params:
    capacity: 200
agents:
  - id: a
    contribution: 100
  - id: b
    contribution: 200
  - id: c
    contribution: 300
`

func run(t *testing.T, args ...string) (string, string, error) {
	t.Helper()
	var stdout, stderr bytes.Buffer
	app := New().WithOutput(&stdout, &stderr)
	err := app.ExecuteWithArgs(context.Background(), args)
	return stdout.String(), stderr.String(), err
}

func writeGame(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	if err := os.WriteFile(path, []byte(content), 0600); err != nil {
		t.Fatalf("failed to write game file: %v", err)
	}
	return path
}

// initGame writes the taxi game with the init command.
func initGame(t *testing.T) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "game.yaml")
	if _, _, err := run(t, "init", path); err != nil {
		t.Fatalf("init failed: %v", err)
	}
	return path
}

func valuesByID(views []api.ValueView) map[string]float64 {
	out := make(map[string]float64, len(views))
	for _, v := range views {
		out[v.ID] = v.Value
	}
	return out
}

func assertValues(t *testing.T, got map[string]float64, want map[string]float64) {
	t.Helper()
	if len(got) != len(want) {
		t.Fatalf("got %d values, want %d", len(got), len(want))
	}
	for id, w := range want {
		if math.Abs(got[id]-w) > 1e-9 {
			t.Errorf("value[%s] = %v, want %v", id, got[id], w)
		}
	}
}

func TestApp_Version(t *testing.T) {
	stdout, _, err := run(t, "version")
	if err != nil {
		t.Fatalf("version command failed: %v", err)
	}
	if !strings.Contains(stdout, "shapley version") {
		t.Errorf("version output missing 'shapley version', got: %s", stdout)
	}
}

func TestApp_Help(t *testing.T) {
	stdout, _, err := run(t, "--help")
	if err != nil {
		t.Fatalf("help command failed: %v", err)
	}
	for _, want := range []string{"exact Shapley value", "compute", "marginal", "watch", "serve"} {
		if !strings.Contains(stdout, want) {
			t.Errorf("help output missing %q", want)
		}
	}
}

func TestApp_Init(t *testing.T) {
	path := initGame(t)

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("failed to read game file: %v", err)
	}
	if !strings.Contains(string(data), "type: max") {
		t.Errorf("game file missing worth type, got:\n%s", data)
	}

	if _, _, err := run(t, "init", path); err == nil {
		t.Error("expected error when file exists")
	}
	if _, _, err := run(t, "init", path, "--force"); err != nil {
		t.Errorf("init --force failed: %v", err)
	}
	if _, _, err := run(t, "init", filepath.Join(t.TempDir(), "game.toml")); !errors.Is(err, api.ErrUnsupportedFormat) {
		t.Errorf("expected ErrUnsupportedFormat, got %v", err)
	}
}

func TestApp_Validate(t *testing.T) {
	path := initGame(t)

	stdout, _, err := run(t, "validate", "-c", path)
	if err != nil {
		t.Fatalf("validate command failed: %v", err)
	}
	for _, want := range []string{"Game is valid", "Name: taxi", "Worth: max", "Agents: 3", "Permutations: 6"} {
		if !strings.Contains(stdout, want) {
			t.Errorf("validate output missing %q, got: %s", want, stdout)
		}
	}
}

func TestApp_ValidateErrors(t *testing.T) {
	invalid := writeGame(t, "invalid.yaml", `
name: broken
version: "1"
worth:
  type: bandwidth
agents:
  - id: a
    contribution: 1
`)
	unknownField := writeGame(t, "unknown.yaml", `
name: taxi
version: "1"
worth:
  type: max
players: []
`)

	tests := []struct {
		name string
		args []string
		want error
	}{
		{"missing path", []string{"validate"}, nil},
		{"missing file", []string{"validate", "-c", filepath.Join(t.TempDir(), "none.yaml")}, api.ErrConfigNotFound},
		{"missing capacity", []string{"validate", "-c", invalid}, api.ErrValidationFailed},
		{"unknown field in strict mode", []string{"validate", "-c", unknownField, "--strict"}, api.ErrInvalidFormat},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, _, err := run(t, tt.args...)
			if err == nil {
				t.Fatal("expected error")
			}
			if tt.want != nil && !errors.Is(err, tt.want) {
				t.Errorf("expected %v, got %v", tt.want, err)
			}
		})
	}
}

func TestApp_ValidateSchema(t *testing.T) {
	stdout, _, err := run(t, "validate", "--schema")
	if err != nil {
		t.Fatalf("validate --schema failed: %v", err)
	}
	var schema map[string]any
	if err := json.Unmarshal([]byte(stdout), &schema); err != nil {
		t.Fatalf("schema is not JSON: %v", err)
	}
	if schema["title"] != "Cooperative Game" {
		t.Errorf("title = %v", schema["title"])
	}
}

func TestApp_ComputeText(t *testing.T) {
	path := initGame(t)

	stdout, _, err := run(t, "compute", "-c", path)
	if err != nil {
		t.Fatalf("compute command failed: %v", err)
	}
	for _, want := range []string{"Game: taxi", "AGENT", "p3", "35", "Sum: 42", "Grand coalition worth: 42", "Efficiency: ok", "Permutations: 6"} {
		if !strings.Contains(stdout, want) {
			t.Errorf("compute output missing %q, got:\n%s", want, stdout)
		}
	}
}

func TestApp_ComputeJSON(t *testing.T) {
	path := initGame(t)

	stdout, _, err := run(t, "compute", "-c", path, "-o", "json")
	if err != nil {
		t.Fatalf("compute command failed: %v", err)
	}

	var view api.ResultView
	if err := json.Unmarshal([]byte(stdout), &view); err != nil {
		t.Fatalf("output is not JSON: %v\n%s", err, stdout)
	}
	if view.Game != "taxi" || view.State != "done" || !view.Efficient {
		t.Errorf("unexpected result header: %+v", view)
	}
	if view.Permutations != 6 {
		t.Errorf("permutations = %d, want 6", view.Permutations)
	}
	assertValues(t, valuesByID(view.Values), map[string]float64{"p1": 2, "p2": 5, "p3": 35})
}

func TestApp_ComputeYAML(t *testing.T) {
	path := writeGame(t, "bandwidth.yaml", bandwidthGame)

	stdout, _, err := run(t, "compute", "-c", path, "-o", "yaml")
	if err != nil {
		t.Fatalf("compute command failed: %v", err)
	}

	var view api.ResultView
	if err := yaml.Unmarshal([]byte(stdout), &view); err != nil {
		t.Fatalf("output is not YAML: %v\n%s", err, stdout)
	}
	if view.GrandWorth != 200 {
		t.Errorf("grand worth = %v, want 200", view.GrandWorth)
	}
	assertValues(t, valuesByID(view.Values), map[string]float64{"a": 100.0 / 3, "b": 250.0 / 3, "c": 250.0 / 3})
}

func TestApp_ComputeErrors(t *testing.T) {
	path := initGame(t)

	if _, _, err := run(t, "compute"); err == nil {
		t.Error("expected error without -c")
	}
	if _, _, err := run(t, "compute", "-c", path, "--max-agents", "2"); !errors.Is(err, api.ErrTooManyAgents) {
		t.Errorf("expected ErrTooManyAgents, got %v", err)
	}
	if _, _, err := run(t, "compute", "-c", path, "-o", "xml"); err == nil {
		t.Error("expected error for unknown output format")
	}
	if _, _, err := run(t, "compute", "-c", path, "--trace", "zipkin"); err == nil {
		t.Error("expected error for unknown exporter")
	}
	if _, _, err := run(t, "compute", "-c", path, "--trace", "otlp"); err == nil {
		t.Error("expected error for otlp without endpoint")
	}
}

func TestApp_ComputeTelemetry(t *testing.T) {
	path := initGame(t)

	_, stderr, err := run(t, "compute", "-c", path, "--trace", "stdout", "--metrics")
	if err != nil {
		t.Fatalf("compute command failed: %v", err)
	}
	for _, want := range []string{"shapley.compute", "Metrics:", "shapley.computations", "shapley.worth.evaluations"} {
		if !strings.Contains(stderr, want) {
			t.Errorf("stderr missing %q, got:\n%s", want, stderr)
		}
	}
}

func TestApp_Marginal(t *testing.T) {
	path := initGame(t)

	stdout, _, err := run(t, "marginal", "-c", path, "--order", "p3,p1,p2", "-o", "json")
	if err != nil {
		t.Fatalf("marginal command failed: %v", err)
	}

	var view marginalView
	if err := json.Unmarshal([]byte(stdout), &view); err != nil {
		t.Fatalf("output is not JSON: %v", err)
	}
	if strings.Join(view.Order, ",") != "p3,p1,p2" {
		t.Errorf("order = %v", view.Order)
	}
	assertValues(t, valuesByID(view.Values), map[string]float64{"p1": 0, "p2": 0, "p3": 42})

	stdout, _, err = run(t, "marginal", "-c", path)
	if err != nil {
		t.Fatalf("marginal command failed: %v", err)
	}
	if !strings.Contains(stdout, "Sum: 42") {
		t.Errorf("marginal output missing sum, got:\n%s", stdout)
	}

	if _, _, err := run(t, "marginal", "-c", path, "--order", "p1,p9"); err == nil {
		t.Error("expected error for unknown agent")
	}
	if _, _, err := run(t, "marginal", "-c", path, "--order", "p1,p1,p2"); !errors.Is(err, api.ErrInvalidOrder) {
		t.Errorf("expected ErrInvalidOrder, got %v", err)
	}
}

func TestApp_InspectGame(t *testing.T) {
	path := writeGame(t, "additive.yaml", `
name: additive
version: "1"
worth:
  type: sum
agents:
  - id: a
    contribution: 3
  - id: b
    contribution: 3
  - id: z
    contribution: 0
`)

	stdout, _, err := run(t, "inspect", "game", "-c", path)
	if err != nil {
		t.Fatalf("inspect game failed: %v", err)
	}
	for _, want := range []string{"Efficient: true", "Null players: [z]", "Symmetric: a ~ b", "Coalitions evaluated: 8"} {
		if !strings.Contains(stdout, want) {
			t.Errorf("inspect output missing %q, got:\n%s", want, stdout)
		}
	}
}

func TestApp_InspectLifecycle(t *testing.T) {
	tests := []struct {
		format string
		want   string
	}{
		{"dot", "digraph computation"},
		{"mermaid", "stateDiagram-v2"},
	}

	for _, tt := range tests {
		t.Run(tt.format, func(t *testing.T) {
			stdout, _, err := run(t, "inspect", "lifecycle", "--format", tt.format)
			if err != nil {
				t.Fatalf("inspect lifecycle failed: %v", err)
			}
			if !strings.Contains(stdout, tt.want) {
				t.Errorf("output missing %q, got:\n%s", tt.want, stdout)
			}
		})
	}

	if _, _, err := run(t, "inspect", "lifecycle", "--format", "svg"); err == nil {
		t.Error("expected error for unknown format")
	}
}

func TestApp_WorthTypes(t *testing.T) {
	stdout, _, err := run(t, "worth-types", "-o", "json")
	if err != nil {
		t.Fatalf("worth-types failed: %v", err)
	}

	var types []api.WorthInfo
	if err := json.Unmarshal([]byte(stdout), &types); err != nil {
		t.Fatalf("output is not JSON: %v", err)
	}
	if len(types) != 6 {
		t.Errorf("got %d worth types, want 6", len(types))
	}

	stdout, _, err = run(t, "worth-types")
	if err != nil {
		t.Fatalf("worth-types failed: %v", err)
	}
	if !strings.Contains(stdout, "bandwidth") {
		t.Errorf("worth-types output missing bandwidth, got:\n%s", stdout)
	}
}

func TestApp_Watch(t *testing.T) {
	path := initGame(t)

	ctx, cancel := context.WithTimeout(context.Background(), 500*time.Millisecond)
	defer cancel()

	var stdout, stderr bytes.Buffer
	app := New().WithOutput(&stdout, &stderr)
	if err := app.ExecuteWithArgs(ctx, []string{"watch", "-c", path}); err != nil {
		t.Fatalf("watch failed: %v", err)
	}
	if !strings.Contains(stdout.String(), "Sum: 42") {
		t.Errorf("watch output missing initial computation, got:\n%s", stdout.String())
	}
}

func TestApp_GameLogging(t *testing.T) {
	path := writeGame(t, "logged.yaml", `
name: logged
version: "1"
worth:
  type: max
agents:
  - id: a
    contribution: 1
logging:
  level: info
  format: json
`)

	_, stderr, err := run(t, "compute", "-c", path)
	if err != nil {
		t.Fatalf("compute failed: %v", err)
	}
	if !strings.Contains(stderr, "computation completed") {
		t.Errorf("expected info log from game file settings, got:\n%s", stderr)
	}

	_, stderr, err = run(t, "compute", "-c", path, "--log-level", "error")
	if err != nil {
		t.Fatalf("compute failed: %v", err)
	}
	if strings.Contains(stderr, "computation completed") {
		t.Errorf("--log-level should override the game file, got:\n%s", stderr)
	}
}

func TestApp_InvalidLogLevel(t *testing.T) {
	if _, _, err := run(t, "version", "--log-level", "verbose"); err == nil {
		t.Error("expected error for invalid log level")
	}
	if _, _, err := run(t, "version", "--log-format", "xml"); err == nil {
		t.Error("expected error for invalid log format")
	}
}

func TestServeMetrics_StopsWithContext(t *testing.T) {
	ctx, cancel := context.WithTimeout(context.Background(), 100*time.Millisecond)
	defer cancel()

	if err := serveMetrics(ctx, "127.0.0.1:0", http.NotFoundHandler()); err != nil {
		t.Errorf("serveMetrics() error = %v, want nil after cancellation", err)
	}
}

func TestServeMCP_InvalidMaxAgents(t *testing.T) {
	if _, _, err := run(t, "serve", "mcp", "--max-agents", "21"); !errors.Is(err, api.ErrInvalidMaxAgents) {
		t.Errorf("expected ErrInvalidMaxAgents, got %v", err)
	}
}

func TestServeMCP_UnknownAllowWorth(t *testing.T) {
	_, _, err := run(t, "serve", "mcp", "--allow-worth", "shell")
	if err == nil || !strings.Contains(err.Error(), "--allow-worth") {
		t.Errorf("expected --allow-worth error, got %v", err)
	}
}

func TestAllowedWorthTypes(t *testing.T) {
	tests := []struct {
		name  string
		extra []string
		want  []string
	}{
		{name: "default", want: []string{"max", "sum", "bandwidth", "majority"}},
		{name: "remote", extra: []string{"remote"}, want: []string{"max", "sum", "bandwidth", "majority", "remote"}},
		{name: "duplicates", extra: []string{"sum", "wasm", "wasm"}, want: []string{"max", "sum", "bandwidth", "majority", "wasm"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := allowedWorthTypes(tt.extra)
			if err != nil {
				t.Fatalf("allowedWorthTypes() error = %v", err)
			}
			if strings.Join(got, ",") != strings.Join(tt.want, ",") {
				t.Errorf("allowedWorthTypes() = %v, want %v", got, tt.want)
			}
		})
	}
}
