package cmd

import (
	"fmt"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"graft.dev/pkg/graft/internal/domain"
)

var generateMutationsFlag int
var generateMaxSizeFlag int
var generateSeedFlag int64
var generateReparseFlag bool
var generateChaoticFlag bool
var generateTestsFlag int
var generateParallelFlag int
var generateNodeTypesFlag string
var generateOnParseErrorFlag string

// generateCmd represents the generate command.
var generateCmd = newGenerateCmd()

func newGenerateCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "generate [paths...]",
		Short: "Generate test cases from a corpus",
		Long:  generateLongDescription,
		RunE: func(cmd *cobra.Command, args []string) error {
			workflowArgs := workflowArgs(args)
			workflowArgs.Generate = domain.GenerateArgs{
				Count:   viper.GetInt(testsConfigKey),
				Threads: viper.GetInt(parallelConfigKey),
				Session: domain.SessionConfig{
					Mutations: viper.GetInt(mutationsConfigKey),
					MaxSize:   viper.GetInt(maxSizeConfigKey),
					Seed:      viper.GetInt64(seedConfigKey),
					Reparse:   viper.GetBool(reparseConfigKey),
					Chaotic:   viper.GetBool(chaoticConfigKey),
				},
			}

			if workflowArgs.Generate.Count <= 0 {
				return fmt.Errorf("--%s must be positive, got %d", testsFlagName, workflowArgs.Generate.Count)
			}

			return workflow.Generate(cmd.Context(), workflowArgs)
		},
	}

	configureGenerateFlags(cmd)

	return cmd
}

func init() {
	rootCmd.AddCommand(generateCmd)
}

func configureGenerateFlags(cmd *cobra.Command) {
	cmd.Flags().IntVarP(&generateTestsFlag, testsFlagName, "t", viper.GetInt(testsConfigKey), "number of test cases to generate")
	bindFlagToConfig(cmd.Flags().Lookup(testsFlagName), testsConfigKey)

	cmd.Flags().IntVarP(&generateParallelFlag, parallelFlagName, "p", viper.GetInt(parallelConfigKey), "number of parallel generation workers")
	bindFlagToConfig(cmd.Flags().Lookup(parallelFlagName), parallelConfigKey)

	cmd.Flags().IntVarP(&generateMutationsFlag, mutationsFlagName, "m", viper.GetInt(mutationsConfigKey), "upper bound on mutation rounds per test case")
	bindFlagToConfig(cmd.Flags().Lookup(mutationsFlagName), mutationsConfigKey)

	cmd.Flags().IntVar(&generateMaxSizeFlag, maxSizeFlagName, viper.GetInt(maxSizeConfigKey), "maximum size of a generated test case in bytes")
	bindFlagToConfig(cmd.Flags().Lookup(maxSizeFlagName), maxSizeConfigKey)

	cmd.Flags().Int64VarP(&generateSeedFlag, seedFlagName, "s", viper.GetInt64(seedConfigKey), "random seed; negative draws one from the clock")
	bindFlagToConfig(cmd.Flags().Lookup(seedFlagName), seedConfigKey)

	cmd.Flags().BoolVar(&generateReparseFlag, reparseFlagName, viper.GetBool(reparseConfigKey), "re-parse the working text after each applied edit")
	bindFlagToConfig(cmd.Flags().Lookup(reparseFlagName), reparseConfigKey)

	cmd.Flags().BoolVarP(&generateChaoticFlag, chaoticFlagName, "c", viper.GetBool(chaoticConfigKey), "enable kind-ignoring chaotic splices")
	bindFlagToConfig(cmd.Flags().Lookup(chaoticFlagName), chaoticConfigKey)

	cmd.Flags().StringVar(&generateNodeTypesFlag, nodeTypesFlagName, viper.GetString(nodeTypesConfigKey), "path to a node-types.json for grammar-aware deletions")
	bindFlagToConfig(cmd.Flags().Lookup(nodeTypesFlagName), nodeTypesConfigKey)

	cmd.Flags().StringVar(&generateOnParseErrorFlag, onParseErrorFlagName, viper.GetString(onParseErrorConfigKey), "policy for inputs with parse errors: ignore, warn, or error")
	bindFlagToConfig(cmd.Flags().Lookup(onParseErrorFlagName), onParseErrorConfigKey)
}
