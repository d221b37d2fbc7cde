package main

import (
	"encoding/base64"
	"encoding/json"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/smartfridge/fridge-monitor-service/internal/config"
	"github.com/smartfridge/fridge-monitor-service/internal/vision"
)

// detectCmd runs the vision worker against a local image file. Useful
// for appliance bring-up: verifies the worker command, the stdin/stdout
// protocol, and the model without going through HTTP.
func detectCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "detect <image-file>",
		Short: "Run object detection on a local image",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load()
			if err != nil {
				return err
			}

			raw, err := os.ReadFile(args[0])
			if err != nil {
				return err
			}

			runner := vision.NewRunner(cfg.VisionCommand, cfg.VisionTimeout, nil)
			items, err := runner.Detect(cmd.Context(), base64.StdEncoding.EncodeToString(raw), map[string]any{
				"source": "cli",
				"file":   args[0],
			})
			if err != nil {
				return err
			}

			out, err := json.MarshalIndent(items, "", "  ")
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), string(out))
			return nil
		},
	}
}
