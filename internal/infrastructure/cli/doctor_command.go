package cli

import (
	"context"
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"github.com/vocusapp/vocus/internal/app"
)

type checkStatus string

const (
	statusOK   checkStatus = "OK"
	statusWarn checkStatus = "WARN"
	statusFail checkStatus = "FAIL"
)

type healthCheck struct {
	Name    string
	Status  checkStatus
	Details string
}

func newDoctorCommand(container *app.Container) *cobra.Command {
	return &cobra.Command{
		Use:   "doctor",
		Short: "Diagnose environment setup",
		RunE: func(cmd *cobra.Command, args []string) error {
			checks := runDiagnostics(cmd.Context(), container)
			displayChecks(cmd.OutOrStdout(), checks)
			for _, c := range checks {
				if c.Status == statusFail {
					return fmt.Errorf("diagnostics found problems")
				}
			}
			return nil
		},
	}
}

func runDiagnostics(ctx context.Context, container *app.Container) []healthCheck {
	var checks []healthCheck

	checks = append(checks, checkConfig(container))
	checks = append(checks, checkStorage(ctx, container))
	checks = append(checks, checkRules(container))
	checks = append(checks, checkRemote(container))
	checks = append(checks, checkQuota(ctx, container))

	return checks
}

func checkConfig(container *app.Container) healthCheck {
	path := container.ConfigLoader.Path()
	if _, err := os.Stat(path); err != nil {
		return healthCheck{"config", statusWarn, fmt.Sprintf("%s missing, using defaults", path)}
	}
	return healthCheck{"config", statusOK, path}
}

func checkStorage(ctx context.Context, container *app.Container) healthCheck {
	if _, _, err := container.Storage.Get(ctx, "doctor:probe"); err != nil {
		return healthCheck{"storage", statusFail, err.Error()}
	}
	return healthCheck{"storage", statusOK, "key-value store reachable"}
}

func checkRules(container *app.Container) healthCheck {
	path := container.Config.Classifier.RulesFile
	if path == "" {
		return healthCheck{"classifier rules", statusOK, "using embedded defaults"}
	}
	if _, err := os.Stat(path); err != nil {
		return healthCheck{"classifier rules", statusWarn, fmt.Sprintf("%s missing, using embedded defaults", path)}
	}
	return healthCheck{"classifier rules", statusOK, path}
}

func checkRemote(container *app.Container) healthCheck {
	if !container.Config.Preferences.HybridMode {
		return healthCheck{"remote parser", statusOK, "hybrid mode disabled"}
	}
	if container.Remote == nil || !container.Remote.Available() {
		keyEnv := container.Config.Remote.APIKeyEnv
		return healthCheck{"remote parser", statusWarn,
			fmt.Sprintf("not configured (set remote.endpoint and %s); local parsing only", keyEnv)}
	}
	return healthCheck{"remote parser", statusOK, container.Config.Remote.Endpoint}
}

func checkQuota(ctx context.Context, container *app.Container) healthCheck {
	quota := container.Usage.Remaining(ctx)
	if quota.Unlimited {
		return healthCheck{"cloud quota", statusOK, "unlimited (premium)"}
	}
	if !quota.CanUse {
		return healthCheck{"cloud quota", statusWarn, "daily limit reached"}
	}
	return healthCheck{"cloud quota", statusOK, fmt.Sprintf("%d of %d remaining", quota.Remaining, quota.Limit)}
}

func displayChecks(out io.Writer, checks []healthCheck) {
	for _, c := range checks {
		fmt.Fprintf(out, "[%s] %s - %s\n", c.Status, c.Name, c.Details)
	}
}
