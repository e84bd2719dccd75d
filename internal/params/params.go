package params

import (
	"errors"
	"fmt"
	"net/url"
	"os"
	"path/filepath"
	"sort"

	"github.com/distribution/reference"
	"gopkg.in/yaml.v3"
)

var (
	ErrInvalid      = errors.New("invalid deployment parameters")
	ErrDuplicateEnv = errors.New("duplicate environment name")
)

// Telemetry verbosity levels accepted by the deployed service.
var telemetryLevels = map[string]bool{
	"debug": true,
	"info":  true,
	"warn":  true,
	"error": true,
}

// One signer's identity in the external signing protocol.
//
// Both fields are names of secrets in the external store, never values.
type SignerConfig struct {
	CipherKeySecretID string `yaml:"cipher_key_secret_id"`
	SKShareSecretID   string `yaml:"sk_share_secret_id"`
}

// Deployment parameters for one environment.
//
// All secret-like fields are indirections into the external secret
// store. The struct never holds a secret value.
type Set struct {
	Env                      string         `yaml:"env"`
	Project                  string         `yaml:"project"`
	DockerImage              string         `yaml:"docker_image"`
	AccountCreatorID         string         `yaml:"account_creator_id"`
	AccountCreatorSKSecretID string         `yaml:"account_creator_sk_secret_id"`
	FastAuthPartnersSecretID string         `yaml:"fast_auth_partners_secret_id"`
	SignerConfigs            []SignerConfig `yaml:"signer_configs"`
	JWTSignaturePKURL        string         `yaml:"jwt_signature_pk_url"`
	OTLPEndpoint             string         `yaml:"otlp_endpoint"`
	OpenTelemetryLevel       string         `yaml:"opentelemetry_level"`
}

// Reads and validates one environment's parameter file.
func Load(path string) (*Set, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading parameter file: %w", err)
	}

	var set Set
	if err := yaml.Unmarshal(raw, &set); err != nil {
		return nil, fmt.Errorf("%w: %s: %v", ErrInvalid, path, err)
	}

	if err := set.Validate(); err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return &set, nil
}

// Loads every *.yaml parameter file in a directory, keyed by environment
// name. Two files declaring the same environment is an error.
func LoadDir(dir string) (map[string]*Set, error) {
	files, err := filepath.Glob(filepath.Join(dir, "*.yaml"))
	if err != nil {
		return nil, err
	}
	sort.Strings(files)

	sets := make(map[string]*Set, len(files))
	for _, file := range files {
		set, err := Load(file)
		if err != nil {
			return nil, err
		}
		if _, ok := sets[set.Env]; ok {
			return nil, fmt.Errorf("%w: %q declared twice", ErrDuplicateEnv, set.Env)
		}
		sets[set.Env] = set
	}
	return sets, nil
}

// Checks the contract a provisioning environment must satisfy.
//
// The image reference must parse as a named reference. Secret fields
// must be non-empty identifiers. At least one signer config is required
// and each entry must name both of its secrets. Endpoint fields must be
// absolute URLs.
func (s *Set) Validate() error {
	if s.Env == "" {
		return fmt.Errorf("%w: env is required", ErrInvalid)
	}
	if s.Project == "" {
		return fmt.Errorf("%w: project is required", ErrInvalid)
	}

	if _, err := reference.ParseNamed(s.DockerImage); err != nil {
		return fmt.Errorf("%w: docker_image %q: %v", ErrInvalid, s.DockerImage, err)
	}

	for field, value := range map[string]string{
		"account_creator_id":           s.AccountCreatorID,
		"account_creator_sk_secret_id": s.AccountCreatorSKSecretID,
		"fast_auth_partners_secret_id": s.FastAuthPartnersSecretID,
	} {
		if value == "" {
			return fmt.Errorf("%w: %s is required", ErrInvalid, field)
		}
	}

	if len(s.SignerConfigs) == 0 {
		return fmt.Errorf("%w: signer_configs must not be empty", ErrInvalid)
	}
	for i, sc := range s.SignerConfigs {
		if sc.CipherKeySecretID == "" || sc.SKShareSecretID == "" {
			return fmt.Errorf("%w: signer_configs[%d] is missing a secret reference", ErrInvalid, i)
		}
	}

	for field, value := range map[string]string{
		"jwt_signature_pk_url": s.JWTSignaturePKURL,
		"otlp_endpoint":        s.OTLPEndpoint,
	} {
		u, err := url.Parse(value)
		if err != nil || u.Scheme == "" || u.Host == "" {
			return fmt.Errorf("%w: %s %q is not an absolute URL", ErrInvalid, field, value)
		}
	}

	if !telemetryLevels[s.OpenTelemetryLevel] {
		return fmt.Errorf("%w: opentelemetry_level %q is not recognized", ErrInvalid, s.OpenTelemetryLevel)
	}
	return nil
}
