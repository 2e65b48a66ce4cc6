package cli

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/alecthomas/kong"

	"github.com/ardnew/q3/config"
	"github.com/ardnew/q3/pkg"
)

func TestMain(m *testing.M) {
	home, err := os.MkdirTemp("", "q3-cli-test")
	if err != nil {
		panic(err)
	}

	// Keep settings and cache directories out of the real home directory.
	for _, key := range []string{"HOME", "XDG_CONFIG_HOME", "XDG_CACHE_HOME"} {
		_ = os.Setenv(key, home)
	}

	code := m.Run()

	_ = os.RemoveAll(home)

	os.Exit(code)
}

func writeExample(t *testing.T) string {
	t.Helper()

	path := filepath.Join(t.TempDir(), "q3.toml")
	if err := config.Write(t.Context(), path, config.FormatTOML); err != nil {
		t.Fatal(err)
	}

	return path
}

func runArgs(t *testing.T, args ...string) (string, error) {
	t.Helper()

	var out bytes.Buffer

	err := run(t.Context(), func(code int) {
		t.Fatalf("unexpected exit %d: %s", code, out.String())
	}, args, kong.Writers(&out, &out))

	return out.String(), err
}

func TestRun(t *testing.T) {
	path := writeExample(t)

	tests := []struct {
		name string
		args []string
		want string
	}{
		{
			name: "default command",
			args: []string{path, "--get", "site"},
			want: "site:github.com\n",
		},
		{
			name: "show with log flags",
			args: []string{"--log-level=error", "--no-log-pretty", "show", path, "-g", "lang"},
			want: `("go" OR "rust" OR "zig")` + "\n",
		},
		{
			name: "export",
			args: []string{"export", path, "--to", "json", "--indent", "0"},
			want: `"site":"site:github.com"`,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			out, err := runArgs(t, tt.args...)
			if err != nil {
				t.Fatal(err)
			}

			if !strings.Contains(out, tt.want) {
				t.Errorf("output %q does not contain %q", out, tt.want)
			}
		})
	}
}

func TestRun_Errors(t *testing.T) {
	tests := []struct {
		name string
		args []string
	}{
		{name: "missing file", args: []string{"show", filepath.Join(t.TempDir(), "absent.toml")}},
		{name: "unknown format", args: []string{"show", writeExample(t), "--format=ini"}},
		{name: "unknown export encoding", args: []string{"export", writeExample(t), "--to=xml"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := runArgs(t, tt.args...); err == nil {
				t.Error("expected error, got nil")
			}
		})
	}
}

func TestRun_SettingsFile(t *testing.T) {
	settings := filepath.Join(pkg.ConfigDir(), baseConfig+".yaml")

	if err := os.MkdirAll(filepath.Dir(settings), 0o700); err != nil {
		t.Fatal(err)
	}

	if err := os.WriteFile(settings, []byte("get: topics\nlog:\n  level: error\n"), 0o600); err != nil {
		t.Fatal(err)
	}

	t.Cleanup(func() { _ = os.Remove(settings) })

	path := writeExample(t)

	out, err := runArgs(t, "show", path)
	if err != nil {
		t.Fatal(err)
	}

	if want := `"concurrency" AND "generics" AND "error handling"` + "\n"; out != want {
		t.Errorf("show = %q, want %q", out, want)
	}

	// Flags override settings.
	out, err = runArgs(t, "show", path, "--get=site")
	if err != nil {
		t.Fatal(err)
	}

	if out != "site:github.com\n" {
		t.Errorf("show --get=site = %q", out)
	}
}

func TestResolve(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  map[string]any
	}{
		{
			name:  "empty",
			input: "",
			want:  map[string]any{},
		},
		{
			name:  "flat keys",
			input: "log-level: debug\nlog_format: json\n",
			want:  map[string]any{"log-level": "debug", "log-format": "json"},
		},
		{
			name:  "nested keys",
			input: "log:\n  level: info\n  caller: true\npprof:\n  mode: cpu\n",
			want: map[string]any{
				"log-level":  "info",
				"log-caller": true,
				"pprof-mode": "cpu",
			},
		},
		{
			name:  "numbers become strings",
			input: "indent: 4\ninterval: 1.5\n",
			want:  map[string]any{"indent": "4", "interval": "1.5"},
		},
		{
			name:  "upper case",
			input: "Log_Level: warn\n",
			want:  map[string]any{"log-level": "warn"},
		},
		{
			name:  "malformed is ignored",
			input: "log: [unterminated\n",
			want:  map[string]any{},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r, err := resolve(strings.NewReader(tt.input))
			if err != nil {
				t.Fatal(err)
			}

			s, ok := r.(settings)
			if !ok {
				t.Fatalf("resolver type %T", r)
			}

			if len(s) != len(tt.want) {
				t.Errorf("settings = %v, want %v", s, tt.want)
			}

			for k, v := range tt.want {
				if s[k] != v {
					t.Errorf("settings[%q] = %v (%T), want %v", k, s[k], s[k], v)
				}
			}
		})
	}
}

func TestSettingsResolve(t *testing.T) {
	s := settings{"log-level": "debug"}

	for _, name := range []string{"log-level", "log_level", "LOG-LEVEL"} {
		v, err := s.Resolve(nil, nil, &kong.Flag{Value: &kong.Value{Name: name}})
		if err != nil {
			t.Fatal(err)
		}

		if v != "debug" {
			t.Errorf("Resolve(%q) = %v", name, v)
		}
	}

	v, err := s.Resolve(nil, nil, &kong.Flag{Value: &kong.Value{Name: "log-format"}})
	if err != nil || v != nil {
		t.Errorf("Resolve(log-format) = %v, %v; want nil", v, err)
	}
}

func TestLogConfigScan(t *testing.T) {
	tests := []struct {
		name string
		args []string
		want logConfig
	}{
		{
			name: "assigned values",
			args: []string{"--log-level=debug", "--log-format=json"},
			want: logConfig{Level: "debug", Format: "json", Pretty: true},
		},
		{
			name: "separate values",
			args: []string{"show", "--log-level", "info", "--log-format", "text", "q3.toml"},
			want: logConfig{Level: "info", Format: "text", Pretty: true},
		},
		{
			name: "negated booleans",
			args: []string{"--no-log-pretty", "--log-caller"},
			want: logConfig{Caller: true},
		},
		{
			name: "assigned booleans",
			args: []string{"--log-pretty=false", "--log-caller=true", "--log-caller=bogus"},
			want: logConfig{Caller: true},
		},
		{
			name: "stop at terminator",
			args: []string{"--", "--log-level=trace"},
			want: logConfig{Pretty: true},
		},
		{
			name: "value that looks like a flag",
			args: []string{"--log-level", "--log-caller"},
			want: logConfig{Caller: true, Pretty: true},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := logConfig{Pretty: true}
			got.scan(tt.args)

			if got.Level != tt.want.Level ||
				got.Format != tt.want.Format ||
				got.Caller != tt.want.Caller ||
				got.Pretty != tt.want.Pretty {
				t.Errorf("scan(%q) = %+v, want %+v", tt.args, got, tt.want)
			}
		})
	}
}
