package main

import (
	"github.com/spf13/cobra"
)

var (
	configOut string

	configCmd = &cobra.Command{
		Use:   "config",
		Short: "Print the effective configuration (YAML, defaults and environment applied, secrets blanked)",
		RunE:  runConfig,
	}
)

// -----------------------------------------------------------------------------

func init() {
	configCmd.Flags().StringVarP(&configOut, "out", "o", "", "write to this file instead of stdout")
}

// -----------------------------------------------------------------------------

func runConfig(cmd *cobra.Command, _ []string) error {
	conf, _, err := loadConfig()
	if err != nil {
		return err
	}
	if configOut != "" {
		return conf.Save(configOut)
	}

	data, err := conf.Marshal()
	if err != nil {
		return err
	}
	_, err = cmd.OutOrStdout().Write(data)
	return err
}
