package cli

import (
	"context"
	"fmt"
	"os"

	"github.com/keyshard/forge/internal/params"
)

// Represents the 'forge params' command group.
type ParamsCmd struct {
	Validate ParamsValidateCmd `cmd:"" help:"Validate deployment parameter files."`
}

// Represents the 'forge params validate' command.
type ParamsValidateCmd struct {
	Paths []string `arg:"" type:"path" help:"Parameter files or directories to validate."`
}

// Executes the validate command.
//
// Files are checked against the provisioning contract; directories are
// loaded as one environment set with unique environment names. The first
// violation fails the command.
func (c *ParamsValidateCmd) Run(ctx context.Context) error {
	for _, path := range c.Paths {
		if err := validatePath(path); err != nil {
			return err
		}
	}
	return nil
}

func validatePath(path string) error {
	if isDir(path) {
		sets, err := params.LoadDir(path)
		if err != nil {
			return err
		}
		for env, set := range sets {
			fmt.Printf("%s: ok (%d signers, image %s)\n", env, len(set.SignerConfigs), set.DockerImage)
		}
		return nil
	}

	set, err := params.Load(path)
	if err != nil {
		return err
	}
	fmt.Printf("%s: ok (%d signers, image %s)\n", set.Env, len(set.SignerConfigs), set.DockerImage)
	return nil
}

func isDir(path string) bool {
	info, err := os.Stat(path)
	return err == nil && info.IsDir()
}
