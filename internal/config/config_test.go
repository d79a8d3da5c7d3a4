package config

import (
	"os"
	"path/filepath"
	"reflect"
	"strings"
	"testing"

	"github.com/matzehuels/dhcpdash/pkg/errors"
	"github.com/matzehuels/dhcpdash/pkg/jsontree"
)

func TestDefaultIsValid(t *testing.T) {
	if err := Default().Validate(); err != nil {
		t.Fatalf("Default().Validate() = %v", err)
	}
}

func TestParse(t *testing.T) {
	cfg, err := Parse([]byte(`
listen = ":9090"
secret_keys = ["password", "key"]
can_show_secrets = true
auto_expand = "all"
universe = 6
`))
	if err != nil {
		t.Fatal(err)
	}
	if cfg.Listen != ":9090" || !cfg.CanShowSecrets || cfg.Universe != 6 {
		t.Errorf("cfg = %+v", cfg)
	}
	if cfg.AutoExpand != jsontree.AutoExpandAll {
		t.Errorf("auto_expand = %v", cfg.AutoExpand)
	}
	if cfg.PageSize != jsontree.DefaultPageSize {
		t.Errorf("page_size should keep its default, got %d", cfg.PageSize)
	}
	if !reflect.DeepEqual(cfg.TreeOptions().SecretKeys, []string{"password", "key"}) {
		t.Errorf("tree options = %+v", cfg.TreeOptions())
	}
}

func TestEmptySecretKeysDisableRedaction(t *testing.T) {
	cfg, err := Parse([]byte("secret_keys = []\n"))
	if err != nil {
		t.Fatal(err)
	}
	opts := cfg.TreeOptions()
	if opts.SecretKeys == nil || len(opts.SecretKeys) != 0 {
		t.Fatalf("SecretKeys = %#v, want an empty list", opts.SecretKeys)
	}
	opts.AutoExpand = jsontree.AutoExpandAll
	out := jsontree.New(map[string]any{"password": "hunter2"}, opts).Render(jsontree.PlainStyles())
	if !strings.Contains(out, "hunter2") {
		t.Errorf("password should be shown:\n%s", out)
	}

	out = jsontree.New(map[string]any{"password": "hunter2"}, Default().TreeOptions()).Render(jsontree.PlainStyles())
	if strings.Contains(out, "hunter2") {
		t.Errorf("default settings should redact the password:\n%s", out)
	}
}

func TestParseErrors(t *testing.T) {
	tests := []struct {
		name string
		data string
		code errors.Code
	}{
		{"unknown key", `colour = "red"`, errors.ErrCodeInvalidInput},
		{"bad listen", `listen = "nowhere"`, errors.ErrCodeInvalidInput},
		{"bad page size", `page_size = 0`, errors.ErrCodeInvalidInput},
		{"bad universe", `universe = 5`, errors.ErrCodeInvalidUniverse},
		{"bad auto expand", `auto_expand = "some"`, errors.ErrCodeInvalidInput},
		{"empty secret key", `secret_keys = [""]`, errors.ErrCodeInvalidInput},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := Parse([]byte(tt.data)); !errors.Is(err, tt.code) {
				t.Errorf("err = %v, want %s", err, tt.code)
			}
		})
	}
}

func TestLoad(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "dhcpdash.toml")
	if err := os.WriteFile(path, []byte("page_size = 20\n"), 0o644); err != nil {
		t.Fatal(err)
	}
	cfg, err := Load(path)
	if err != nil || cfg.PageSize != 20 {
		t.Errorf("Load = %+v, %v", cfg, err)
	}
	if _, err := Load(filepath.Join(dir, "missing.toml")); !errors.Is(err, errors.ErrCodeFileNotFound) {
		t.Errorf("missing file err = %v", err)
	}
}
