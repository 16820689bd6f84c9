package main

import (
	"os"

	"github.com/spf13/cobra"

	"github.com/prismdash/prism/internal/config"
)

func main() {
	root := &cobra.Command{
		Use:          "prism",
		Short:        "prism — game server dashboard backend",
		Long:         "Serves the dashboard API: panel-backed authorization, console relay, subuser sync and the plugin marketplace.",
		Version:      config.Version,
		SilenceUsage: true,
	}

	root.AddCommand(serveCmd())

	if err := root.Execute(); err != nil {
		os.Exit(1)
	}
}
