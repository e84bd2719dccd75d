package image

import (
	"encoding/json"
	"fmt"
	"strings"
)

// Renders the plan as a multi-stage container build file.
//
// Stage order and step order within a stage follow the plan exactly:
// base image, system packages, workdir, environment, copies, run steps,
// entrypoint. Package installs clean the package-manager lists in the
// same layer so no package metadata survives into the stage.
func (p Plan) Render() string {
	var b strings.Builder
	for i, stage := range p.Stages {
		if i > 0 {
			b.WriteString("\n")
		}
		renderStage(&b, stage)
	}
	return b.String()
}

func renderStage(b *strings.Builder, stage Stage) {
	fmt.Fprintf(b, "FROM %s AS %s\n", stage.Base, stage.Name)

	if len(stage.Packages) > 0 {
		fmt.Fprintf(b, "RUN apt-get update && apt-get install -y %s && rm -rf /var/lib/apt/lists/*\n",
			strings.Join(stage.Packages, " "))
	}
	if stage.Workdir != "" {
		fmt.Fprintf(b, "WORKDIR %s\n", stage.Workdir)
	}
	for _, key := range stage.EnvOrder {
		fmt.Fprintf(b, "ENV %s=%s\n", key, stage.Env[key])
	}
	for _, in := range stage.Inputs {
		if in.From != "" {
			fmt.Fprintf(b, "COPY --from=%s %s %s\n", in.From, in.Src, in.Dest)
		} else {
			fmt.Fprintf(b, "COPY %s %s\n", in.Src, in.Dest)
		}
	}
	for _, run := range stage.Run {
		fmt.Fprintf(b, "RUN %s\n", run)
	}
	if len(stage.Entrypoint) > 0 {
		entrypoint, _ := json.Marshal(stage.Entrypoint)
		fmt.Fprintf(b, "ENTRYPOINT %s\n", entrypoint)
	}
}
