package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/vovakirdan/ghostmaze/internal/config"
)

var flagDefaults bool

var schemaCmd = &cobra.Command{
	Use:   "schema",
	Short: "Print the config file JSON schema",
	Long: `Print the JSON schema of ghostmaze.yaml, or with --defaults the default
config itself.

Config files are looked up in this order:
  --config <path>
  ~/.ghostmaze/configs/ghostmaze.yaml
  ./configs/ghostmaze.yaml
  built-in defaults

Examples:
  ghostmaze schema > ghostmaze.schema.json
  ghostmaze schema --defaults > ~/.ghostmaze/configs/ghostmaze.yaml`,
	Args: cobra.NoArgs,
	Run:  runSchema,
}

func init() {
	schemaCmd.Flags().BoolVar(&flagDefaults, "defaults", false, "Print the default config YAML instead")
}

func runSchema(_ *cobra.Command, _ []string) {
	if flagDefaults {
		os.Stdout.Write(config.GetDefaultYAML())
		return
	}
	data, err := config.SchemaJSON()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
	os.Stdout.Write(data)
}
