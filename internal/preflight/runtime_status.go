package preflight

import (
	"context"
	"strings"

	"curator/internal/config"
)

// CheckModelFromConfig evaluates language-model status from config and
// connectivity. Used by the CLI status command.
func CheckModelFromConfig(cfg *config.Config) Result {
	const name = "Language model"

	if cfg == nil {
		return Result{Name: name, Detail: "Unknown"}
	}
	if strings.TrimSpace(cfg.LLM.BaseURL) == "" {
		return Result{Name: name, Detail: "Missing base URL"}
	}
	check := CheckLanguageModel(context.Background(), name, cfg.LLM)
	if check.Passed {
		return Result{Name: name, Passed: true, Detail: check.Detail + " (" + cfg.LLM.Model + ")"}
	}
	return Result{Name: name, Detail: check.Detail}
}
