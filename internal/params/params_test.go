package params

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

const devParams = `env: dev
project: keyshard-dev
docker_image: registry.example.com/keyshard/node:dev
account_creator_id: creator.dev.example
account_creator_sk_secret_id: account-creator-sk-dev
fast_auth_partners_secret_id: fast-auth-partners-dev
signer_configs:
  - cipher_key_secret_id: signer-0-cipher-key
    sk_share_secret_id: signer-0-sk-share
  - cipher_key_secret_id: signer-1-cipher-key
    sk_share_secret_id: signer-1-sk-share
  - cipher_key_secret_id: signer-2-cipher-key
    sk_share_secret_id: signer-2-sk-share
jwt_signature_pk_url: https://auth.example.com/jwt/pk
otlp_endpoint: https://otlp.dev.example.com:4317
opentelemetry_level: debug
`

func writeParams(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestLoad(t *testing.T) {
	set, err := Load(writeParams(t, t.TempDir(), "dev.yaml", devParams))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if set.Env != "dev" {
		t.Fatalf("env = %q, want dev", set.Env)
	}
	if set.DockerImage != "registry.example.com/keyshard/node:dev" {
		t.Fatalf("docker_image = %q", set.DockerImage)
	}
	if len(set.SignerConfigs) != 3 {
		t.Fatalf("len(signer_configs) = %d, want 3", len(set.SignerConfigs))
	}
}

// Signer order is protocol identity: entry i in the file must be entry i
// after loading. Asserting set membership is not enough.
func TestSignerConfigOrderPreserved(t *testing.T) {
	set, err := Load(writeParams(t, t.TempDir(), "dev.yaml", devParams))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	for i, wantPrefix := range []string{"signer-0", "signer-1", "signer-2"} {
		sc := set.SignerConfigs[i]
		if !strings.HasPrefix(sc.CipherKeySecretID, wantPrefix) {
			t.Fatalf("signer_configs[%d].cipher_key_secret_id = %q, want prefix %q", i, sc.CipherKeySecretID, wantPrefix)
		}
		if !strings.HasPrefix(sc.SKShareSecretID, wantPrefix) {
			t.Fatalf("signer_configs[%d].sk_share_secret_id = %q, want prefix %q", i, sc.SKShareSecretID, wantPrefix)
		}
	}
}

func TestSignerConfigReorderIsObservable(t *testing.T) {
	// Swap entries 0 and 2 in the file and check the swap survives loading.
	swapped := strings.Replace(devParams, "signer-0", "signer-TMP", -1)
	swapped = strings.Replace(swapped, "signer-2", "signer-0", -1)
	swapped = strings.Replace(swapped, "signer-TMP", "signer-2", -1)

	set, err := Load(writeParams(t, t.TempDir(), "dev.yaml", swapped))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if set.SignerConfigs[0].CipherKeySecretID != "signer-2-cipher-key" {
		t.Fatalf("signer_configs[0] = %q, want the swapped entry", set.SignerConfigs[0].CipherKeySecretID)
	}
	if set.SignerConfigs[2].CipherKeySecretID != "signer-0-cipher-key" {
		t.Fatalf("signer_configs[2] = %q, want the swapped entry", set.SignerConfigs[2].CipherKeySecretID)
	}
}

func TestValidateRejections(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(string) string
		wantSub string
	}{
		{
			name:    "missing env",
			mutate:  func(s string) string { return strings.Replace(s, "env: dev\n", "", 1) },
			wantSub: "env is required",
		},
		{
			name:    "bare image reference",
			mutate:  func(s string) string { return strings.Replace(s, "registry.example.com/keyshard/node:dev", "node", 1) },
			wantSub: "docker_image",
		},
		{
			name: "empty secret reference",
			mutate: func(s string) string {
				return strings.Replace(s, "account_creator_sk_secret_id: account-creator-sk-dev", "account_creator_sk_secret_id: \"\"", 1)
			},
			wantSub: "account_creator_sk_secret_id is required",
		},
		{
			name: "no signer configs",
			mutate: func(s string) string {
				i := strings.Index(s, "signer_configs:")
				j := strings.Index(s, "jwt_signature_pk_url:")
				return s[:i] + "signer_configs: []\n" + s[j:]
			},
			wantSub: "signer_configs must not be empty",
		},
		{
			name: "signer config missing share",
			mutate: func(s string) string {
				return strings.Replace(s, "    sk_share_secret_id: signer-1-sk-share\n", "", 1)
			},
			wantSub: "signer_configs[1]",
		},
		{
			name:    "relative otlp endpoint",
			mutate:  func(s string) string { return strings.Replace(s, "https://otlp.dev.example.com:4317", "otlp:4317", 1) },
			wantSub: "otlp_endpoint",
		},
		{
			name:    "unknown telemetry level",
			mutate:  func(s string) string { return strings.Replace(s, "opentelemetry_level: debug", "opentelemetry_level: loud", 1) },
			wantSub: "opentelemetry_level",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Load(writeParams(t, t.TempDir(), "dev.yaml", tt.mutate(devParams)))
			if !errors.Is(err, ErrInvalid) {
				t.Fatalf("err = %v, want ErrInvalid", err)
			}
			if !strings.Contains(err.Error(), tt.wantSub) {
				t.Fatalf("err = %v, want mention of %q", err, tt.wantSub)
			}
		})
	}
}

func TestLoadDir(t *testing.T) {
	dir := t.TempDir()
	writeParams(t, dir, "dev.yaml", devParams)
	writeParams(t, dir, "staging.yaml", strings.Replace(devParams, "env: dev", "env: staging", 1))

	sets, err := LoadDir(dir)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(sets) != 2 {
		t.Fatalf("len(sets) = %d, want 2", len(sets))
	}
	if sets["dev"] == nil || sets["staging"] == nil {
		t.Fatalf("sets = %v, want dev and staging", sets)
	}
}

func TestLoadDirRejectsDuplicateEnv(t *testing.T) {
	dir := t.TempDir()
	writeParams(t, dir, "dev.yaml", devParams)
	writeParams(t, dir, "dev-copy.yaml", devParams)

	_, err := LoadDir(dir)
	if !errors.Is(err, ErrDuplicateEnv) {
		t.Fatalf("err = %v, want ErrDuplicateEnv", err)
	}
}
