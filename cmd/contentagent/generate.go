package main

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/mohammad-safakhou/contentagent/config"
	"github.com/mohammad-safakhou/contentagent/internal/agent"
	"github.com/mohammad-safakhou/contentagent/internal/telemetry"
	"github.com/spf13/cobra"
)

func generateCMD() *cobra.Command {
	var (
		cfgPath  string
		tone     string
		audience string
		formats  []string
	)
	var generate = &cobra.Command{
		Use:   "generate [topic]",
		Short: "Run one pipeline request and print the response as JSON",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.LoadConfig(cfgPath)
			if err != nil {
				return err
			}
			if err := cfg.Sources.Validate(); err != nil {
				return err
			}

			tele := telemetry.New(cfg.Telemetry)
			orch, err := agent.NewOrchestrator(cfg, tele)
			if err != nil {
				return err
			}

			opts := agent.Options{Tone: tone, Audience: audience}
			if cmd.Flags().Changed("format") {
				opts.ContentFormats = formats
			}
			resp, err := orch.Run(cmd.Context(), strings.Join(args, " "), opts)
			if err != nil {
				return err
			}

			out, err := json.MarshalIndent(resp, "", "  ")
			if err != nil {
				return err
			}
			fmt.Println(string(out))
			return nil
		},
	}
	generate.PersistentFlags().StringVarP(&cfgPath, "config", "c", "", "config file (default is .)")
	generate.Flags().StringVar(&tone, "tone", "", "tone of voice (insightful, playful, urgent, visionary, practical)")
	generate.Flags().StringVar(&audience, "audience", "", "target audience hint")
	generate.Flags().StringSliceVar(&formats, "format", nil, "content formats (headlines, blog_outline, social_thread, video_script)")

	return generate
}
