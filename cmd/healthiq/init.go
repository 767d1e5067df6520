package main

import (
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/sant0-9/healthiq/internal/config"
)

var (
	initProvider string
	initForce    bool
)

var initCmd = &cobra.Command{
	Use:   "init",
	Short: "Write a starter config file",
	Long: `Write a config file with the defaults for the chosen provider.

API keys are read from the environment (GEMINI_API_KEY, OPENAI_API_KEY, ...)
or a .env file, so the file written here does not contain one.`,
	RunE: runInit,
}

func init() {
	initCmd.Flags().StringVar(&initProvider, "provider", "gemini", "Model provider ("+providerIDs()+")")
	initCmd.Flags().BoolVar(&initForce, "force", false, "Overwrite an existing config file")
}

func providerIDs() string {
	ids := make([]string, 0, len(config.Providers))
	for _, p := range config.Providers {
		ids = append(ids, p.ID)
	}
	return strings.Join(ids, ", ")
}

func runInit(cmd *cobra.Command, args []string) error {
	info := config.GetProvider(initProvider)
	if info == nil {
		return fmt.Errorf("unknown provider %q (have %s)", initProvider, providerIDs())
	}

	cfg := config.DefaultConfig()
	cfg.Provider = info.ID
	cfg.Model = info.DefaultModel
	if err := cfg.Validate(); err != nil {
		return err
	}

	path := configPath
	if path == "" {
		var err error
		if path, err = config.ConfigPath(); err != nil {
			return err
		}
		if config.Exists() && !initForce {
			return fmt.Errorf("%s already exists (use --force to overwrite)", path)
		}
		if err := cfg.Save(); err != nil {
			return fmt.Errorf("write config: %w", err)
		}
	} else {
		if _, err := os.Stat(path); err == nil && !initForce {
			return fmt.Errorf("%s already exists (use --force to overwrite)", path)
		}
		if err := cfg.SaveFile(path); err != nil {
			return fmt.Errorf("write config: %w", err)
		}
	}

	out := cmd.OutOrStdout()
	fmt.Fprintf(out, "Wrote %s (%s, %s)\n", path, info.Name, cfg.Model)
	if info.NeedsAPIKey {
		fmt.Fprintf(out, "Set %s_API_KEY in your environment or .env. Get a key at %s\n", strings.ToUpper(info.ID), info.SignupURL)
	}
	return nil
}
