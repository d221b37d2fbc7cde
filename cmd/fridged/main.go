package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

func main() {
	rootCmd := &cobra.Command{
		Use:   "fridged",
		Short: "Smart-fridge monitor service",
		Long: `fridged ingests sensor/image reports from a smart-fridge camera unit,
runs object detection on captured images, keeps a snapshot of current
fridge contents, and suggests recipes for items that are about to expire.`,
	}

	rootCmd.AddCommand(serveCmd())
	rootCmd.AddCommand(detectCmd())

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
