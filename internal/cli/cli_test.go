package cli

import (
	"bytes"
	"encoding/json"
	"path/filepath"
	"strings"
	"testing"

	"github.com/rs/zerolog"

	"stf-simulator/internal/config"
	"stf-simulator/internal/errors"
)

func newTestConfig(t *testing.T) (*config.Config, string) {
	t.Helper()
	dir := t.TempDir()
	cfg := config.Default()
	cfg.Storage.Path = filepath.Join(dir, "presets.db")
	cfg.Logging.File = false
	cfg.UI.ColorEnabled = false
	return cfg, dir
}

// run executes the CLI with args against a fresh command tree.
func run(t *testing.T, cfg *config.Config, dir string, args ...string) (string, error) {
	t.Helper()
	root := NewRootCmd(cfg, dir, zerolog.Nop())
	var out bytes.Buffer
	root.SetOut(&out)
	root.SetErr(&out)
	root.SetArgs(args)
	err := root.Execute()
	return out.String(), err
}

func runJSON(t *testing.T, args ...string) map[string]interface{} {
	t.Helper()
	cfg, dir := newTestConfig(t)
	out, err := run(t, cfg, dir, append(args, "--json")...)
	if err != nil {
		t.Fatalf("%v: %v", args, err)
	}
	var v map[string]interface{}
	if err := json.Unmarshal([]byte(out), &v); err != nil {
		t.Fatalf("invalid JSON %q: %v", out, err)
	}
	return v
}

func TestConfigDirFromArgs(t *testing.T) {
	tests := []struct {
		args []string
		want string
	}{
		{nil, ""},
		{[]string{"payoff", "--rate", "2"}, ""},
		{[]string{"--config", "/tmp/a", "payoff"}, "/tmp/a"},
		{[]string{"payoff", "--config=/tmp/b"}, "/tmp/b"},
		{[]string{"--config"}, ""},
		{[]string{"--", "--config", "/tmp/c"}, ""},
	}
	for _, tt := range tests {
		if got := ConfigDirFromArgs(tt.args); got != tt.want {
			t.Errorf("ConfigDirFromArgs(%v) = %q, want %q", tt.args, got, tt.want)
		}
	}
}

func TestVersion(t *testing.T) {
	cfg, dir := newTestConfig(t)
	out, err := run(t, cfg, dir, "version")
	if err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(out, Version) {
		t.Errorf("output %q missing version", out)
	}
}

func TestConfigPathAndValidate(t *testing.T) {
	cfg, dir := newTestConfig(t)
	out, err := run(t, cfg, dir, "config", "path")
	if err != nil {
		t.Fatal(err)
	}
	if strings.TrimSpace(out) != filepath.Join(dir, "config.toml") {
		t.Errorf("config path = %q", out)
	}

	if _, err := run(t, cfg, dir, "config", "validate"); err != nil {
		t.Errorf("default config invalid: %v", err)
	}

	bad, dir := newTestConfig(t)
	bad.Hedge.SpeculationThreshold = bad.Hedge.Tolerance
	if _, err := run(t, bad, dir, "config", "validate"); !errors.Is(err, errors.ErrConfigInvalid) {
		t.Errorf("validate error = %v, want config error", err)
	}
}

func TestPayoffJSON(t *testing.T) {
	out := runJSON(t, "payoff", "--rate", "2.0")
	// 15M x (2.00 - 1.65) / 1.60
	loss, _ := out["loss"].(float64)
	if loss < 3_281_249.99 || loss > 3_281_250.01 {
		t.Errorf("loss = %v, want 3281250", out["loss"])
	}
	if out["high_risk"] != true {
		t.Errorf("high_risk = %v", out["high_risk"])
	}
}

func TestPayoffText(t *testing.T) {
	cfg, dir := newTestConfig(t)
	out, err := run(t, cfg, dir, "payoff", "--rate", "1.60")
	if err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(out, "Loss:") || strings.Contains(out, "High risk") {
		t.Errorf("unexpected output:\n%s", out)
	}
}

func TestPayoffErrors(t *testing.T) {
	cfg, dir := newTestConfig(t)
	if _, err := run(t, cfg, dir, "payoff"); err == nil {
		t.Error("expected error without --rate")
	}

	_, err := run(t, cfg, dir, "payoff", "--rate", "2", "--initial", "0")
	ce, ok := errors.IsConfigError(err)
	if !ok || ce == nil || ce.Field != "initial_rate" {
		t.Errorf("err = %v, want initial_rate config error", err)
	}
}

func TestProfile(t *testing.T) {
	cfg, dir := newTestConfig(t)
	out, err := run(t, cfg, dir, "profile", "--step", "25")
	if err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(out, "RATE") || !strings.Contains(out, "#") {
		t.Errorf("unexpected profile output:\n%s", out)
	}

	cfg, dir = newTestConfig(t)
	profileOut, err := run(t, cfg, dir, "profile", "--rate", "2.8", "--json")
	if err != nil {
		t.Fatal(err)
	}
	var points []map[string]interface{}
	if err := json.Unmarshal([]byte(profileOut), &points); err != nil || len(points) == 0 {
		t.Fatalf("profile JSON = %q (%v)", profileOut, err)
	}
	first, _ := points[0]["rate"].(float64)
	last, _ := points[len(points)-1]["rate"].(float64)
	if first > 2.8 || last < 2.8 {
		t.Errorf("grid %v..%v does not cover --rate 2.8", first, last)
	}
}

func TestScenarioKinds(t *testing.T) {
	for _, kind := range []string{"gradual_change", "sudden_shock", "typical_pre_2008", "crisis"} {
		t.Run(kind, func(t *testing.T) {
			out := runJSON(t, "scenario", kind, "--horizon", "24")
			rates, _ := out["rates"].([]interface{})
			if len(rates) != 25 {
				t.Errorf("rates = %d, want 25", len(rates))
			}
			losses, _ := out["losses"].([]interface{})
			if len(losses) != 25 {
				t.Fatalf("losses = %d, want 25", len(losses))
			}
			for _, l := range losses[12:] {
				if p, _ := l.(map[string]interface{}); p["monthly_loss"] != float64(0) {
					t.Errorf("month %v settled after the 12-month maturity", p["month"])
				}
			}
		})
	}
}

func TestScenarioRequiresKindOrPreset(t *testing.T) {
	cfg, dir := newTestConfig(t)
	if _, err := run(t, cfg, dir, "scenario"); err == nil {
		t.Error("expected error")
	}
	_, err := run(t, cfg, dir, "scenario", "random_walk")
	if !errors.Is(err, errors.ErrConfigInvalid) {
		t.Errorf("unknown kind err = %v", err)
	}
}

func TestScenarioFromPresetWithOverride(t *testing.T) {
	out := runJSON(t, "scenario", "--preset", "aracruz-2008", "--horizon", "6")
	spec, _ := out["spec"].(map[string]interface{})
	if spec["kind"] != "crisis_2008" || spec["horizon_months"] != float64(6) {
		t.Errorf("spec = %v", spec)
	}
}

func TestHedge(t *testing.T) {
	cfg, dir := newTestConfig(t)
	out, err := run(t, cfg, dir, "hedge", "--vol", "0.2", "--corr", "0.5", "--lambda", "2", "--actual", "1.0")
	if err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(out, "0.500") || !strings.Contains(out, "Moderately over-hedged") {
		t.Errorf("unexpected output:\n%s", out)
	}
	if !strings.Contains(out, "Note: risk aversion only affects") {
		t.Errorf("missing risk aversion note:\n%s", out)
	}

	out, err = run(t, cfg, dir, "hedge", "--mu", "0.02", "--actual", "0.75")
	if err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(out, "0.750") || strings.Contains(out, "Note:") {
		t.Errorf("unexpected output with expected return:\n%s", out)
	}

	_, err = run(t, cfg, dir, "hedge", "--corr", "1.5")
	if !errors.Is(err, errors.ErrConfigInvalid) {
		t.Errorf("bad correlation err = %v", err)
	}
}

func TestExposureAracruz(t *testing.T) {
	out := runJSON(t, "exposure", "--actual", "6300", "--points", "10")
	result, _ := out["result"].(map[string]interface{})
	if result["stance"] != "speculative" {
		t.Errorf("stance = %v", result["stance"])
	}
	if curve, _ := out["sensitivity"].([]interface{}); len(curve) != 10 {
		t.Errorf("sensitivity = %d points", len(curve))
	}
}

func TestCaseStudy(t *testing.T) {
	cfg, dir := newTestConfig(t)
	out, err := run(t, cfg, dir, "casestudy", "show")
	if err != nil {
		t.Fatal(err)
	}
	for _, want := range []string{"Aracruz", "Financial Metrics", "2008 Market Path", "Timeline"} {
		if !strings.Contains(out, want) {
			t.Errorf("output missing %q", want)
		}
	}

	if _, err := run(t, cfg, dir, "casestudy", "show", "--section", "bogus"); err == nil {
		t.Error("expected error for unknown section")
	}

	replay := runJSON(t, "casestudy", "replay")
	if replay["max_loss_label"] != "Dec 2008" {
		t.Errorf("max_loss_label = %v", replay["max_loss_label"])
	}
}

func TestPresetLifecycle(t *testing.T) {
	cfg, dir := newTestConfig(t)

	out, err := run(t, cfg, dir, "preset", "list", "--json")
	if err != nil {
		t.Fatal(err)
	}
	var list []map[string]interface{}
	if err := json.Unmarshal([]byte(out), &list); err != nil || len(list) != 4 {
		t.Fatalf("seeded list = %s (%v)", out, err)
	}

	if _, err := run(t, cfg, dir, "preset", "save", "q2-shock", "sudden_shock", "--shock", "0.35", "--shock-month", "4"); err != nil {
		t.Fatal(err)
	}
	out, err = run(t, cfg, dir, "preset", "show", "q2-shock")
	if err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(out, "+35.00%") {
		t.Errorf("show output:\n%s", out)
	}
	if _, err := run(t, cfg, dir, "preset", "run", "q2-shock"); err != nil {
		t.Fatal(err)
	}

	if _, err := run(t, cfg, dir, "preset", "delete", "q2-shock"); err != nil {
		t.Fatal(err)
	}
	if _, err := run(t, cfg, dir, "preset", "show", "q2-shock"); !errors.Is(err, errors.ErrPresetNotFound) {
		t.Errorf("show after delete err = %v", err)
	}

	if _, err := run(t, cfg, dir, "preset", "delete", "aracruz-2008"); err != nil {
		t.Fatal(err)
	}
	out, err = run(t, cfg, dir, "preset", "seed", "--json")
	if err != nil {
		t.Fatal(err)
	}
	if strings.TrimSpace(out) != `{
  "seeded": 1
}` {
		t.Errorf("seed output = %s", out)
	}
}

func TestPresetSaveRejectsBadName(t *testing.T) {
	cfg, dir := newTestConfig(t)
	_, err := run(t, cfg, dir, "preset", "save", "bad;name", "crisis_2008")
	ce, ok := errors.IsConfigError(err)
	if !ok || ce == nil || ce.Field != "name" {
		t.Errorf("err = %v, want name config error", err)
	}
}
