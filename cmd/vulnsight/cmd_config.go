package main

import (
	"bufio"
	"context"
	"fmt"
	"os"
	"strings"

	"vulnsight/internal/config"
	"vulnsight/internal/errs"
)

func runConfig(_ context.Context, args []string) {
	if len(args) < 1 {
		printConfigUsage()
		os.Exit(1)
	}

	store, err := config.NewFileStore("")
	if err != nil {
		fail(errs.Wrap(errs.KindConfiguration, "cannot locate configuration", err))
	}

	switch action := args[0]; action {
	case "setup", "update":
		configSetup(store)
	case "show":
		configShow(store)
	case "delete":
		if err := store.Delete(); err != nil {
			fail(errs.Wrap(errs.KindConfiguration, "cannot delete configuration", err))
		}
		fmt.Println("Configuration deleted.")
	default:
		fmt.Fprintf(os.Stderr, "Unknown config action: %s\n\n", action)
		printConfigUsage()
		os.Exit(1)
	}
}

func printConfigUsage() {
	fmt.Println(`Usage: vulnsight config <action>

Actions:
  setup   Store an API key and model interactively
  show    Print the stored configuration (key masked)
  update  Same as setup, preloading current values
  delete  Remove the stored configuration`)
}

func configSetup(store config.Store) {
	current, err := store.Load()
	if err != nil {
		fail(errs.Wrap(errs.KindConfiguration, "cannot read stored configuration", err))
	}

	reader := bufio.NewReader(os.Stdin)
	apiKey := promptLine(reader, "API key", maskKey(current.APIKey))
	if apiKey == "" {
		apiKey = current.APIKey
	}
	model := promptLine(reader, "Model", firstNonEmpty(current.Model, config.DefaultModel))
	if model == "" {
		model = firstNonEmpty(current.Model, config.DefaultModel)
	}

	if strings.TrimSpace(apiKey) == "" {
		fail(errs.New(errs.KindValidation, "API key must not be empty"))
	}
	if err := store.Save(&config.Config{APIKey: apiKey, Model: model}); err != nil {
		fail(errs.Wrap(errs.KindConfiguration, "cannot save configuration", err))
	}
	fmt.Printf("Configuration saved to %s\n", store.Path())
}

func configShow(store config.Store) {
	cfg, err := store.Load()
	if err != nil {
		fail(errs.Wrap(errs.KindConfiguration, "cannot read stored configuration", err))
	}
	if cfg.APIKey == "" && cfg.Model == "" {
		fmt.Println("No configuration stored. Run 'vulnsight config setup'.")
		return
	}
	fmt.Printf("API key: %s\n", maskKey(cfg.APIKey))
	fmt.Printf("Model:   %s\n", firstNonEmpty(cfg.Model, config.DefaultModel))
	fmt.Printf("Path:    %s\n", store.Path())
}

func promptLine(reader *bufio.Reader, label, current string) string {
	if current != "" {
		fmt.Printf("%s [%s]: ", label, current)
	} else {
		fmt.Printf("%s: ", label)
	}
	line, _ := reader.ReadString('\n')
	return strings.TrimSpace(line)
}

func maskKey(key string) string {
	if key == "" {
		return ""
	}
	if len(key) <= 8 {
		return "****"
	}
	return key[:4] + "..." + key[len(key)-4:]
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if strings.TrimSpace(v) != "" {
			return v
		}
	}
	return ""
}
