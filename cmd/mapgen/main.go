package main

import (
	"os"

	"github.com/spf13/cobra"
)

func main() {
	rootCmd := &cobra.Command{
		Use:   "mapgen",
		Short: "Procedural skirmish level generator for Hostile Waters",
	}

	rootCmd.AddCommand(generateCmd())
	rootCmd.AddCommand(regenCmd())
	rootCmd.AddCommand(validateCmd())

	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

// commonFlags binds the config override flags shared by generate and regen.
func commonFlags(cmd *cobra.Command, opts *options) {
	cmd.Flags().StringVarP(&opts.configPath, "config", "c", "", "path to mapgen.yaml")
	cmd.Flags().StringVarP(&opts.overrides.InstallDir, "install-dir", "i", "", "game install directory")
	cmd.Flags().StringVarP(&opts.overrides.LevelName, "name", "n", "", "level name")
	cmd.Flags().Int64VarP(&opts.overrides.Seed, "seed", "s", 0, "generation seed (0 = random)")
	cmd.Flags().IntVar(&opts.overrides.Teams, "teams", 0, "enemy team count (2-4)")
	cmd.Flags().IntVar(&opts.overrides.BaseCount, "bases", 0, "enemy base count")
	cmd.Flags().IntVar(&opts.overrides.ScrapCount, "scrap", 0, "scrap area count")
	cmd.Flags().IntVar(&opts.overrides.PumpCount, "pumps", 0, "pump outpost count")
	cmd.Flags().BoolVar(&opts.overrides.Debug, "debug", false, "enable debug logging")
}

func generateCmd() *cobra.Command {
	var opts options

	cmd := &cobra.Command{
		Use:   "generate",
		Short: "Generate a new skirmish level and install it",
		Args:  cobra.NoArgs,
		RunE: func(_ *cobra.Command, _ []string) error {
			return runGenerate(opts)
		},
	}
	commonFlags(cmd, &opts)
	return cmd
}

func regenCmd() *cobra.Command {
	var opts options

	cmd := &cobra.Command{
		Use:   "regen [regen-config]",
		Short: "Regenerate a level from its recorded run document",
		Args:  cobra.ExactArgs(1),
		RunE: func(_ *cobra.Command, args []string) error {
			return runRegen(opts, args[0])
		},
	}
	commonFlags(cmd, &opts)
	return cmd
}

func validateCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "validate [regen-config]",
		Short: "Validate a regeneration document without writing anything",
		Args:  cobra.ExactArgs(1),
		RunE: func(_ *cobra.Command, args []string) error {
			return runValidate(args[0])
		},
	}
}
