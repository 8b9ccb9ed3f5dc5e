package main

import (
	"context"
	"fmt"

	"github.com/alnah/go-pdfbridge/internal/yamlutil"
)

// runConfig prints the effective configuration: file (or defaults), then
// PDFBRIDGE_* overrides.
func runConfig(_ context.Context, args []string, env *Environment) error {
	flags, _, err := parseSimpleFlags("config", args, env.Stderr, nil)
	if err != nil {
		return err
	}

	cfg, err := loadConfig(flags.config, env.Getenv)
	if err != nil {
		return err
	}
	if err := cfg.Validate(); err != nil {
		return err
	}

	out, err := yamlutil.Marshal(cfg)
	if err != nil {
		return fmt.Errorf("encoding config: %w", err)
	}
	_, err = env.Stdout.Write(out)
	return err
}
