// Package cmd provides the root command and CLI setup for graft.
package cmd

import (
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"

	"graft.dev/pkg/graft/internal/adapter"
	"graft.dev/pkg/graft/internal/controller"
	"graft.dev/pkg/graft/internal/domain"
	m "graft.dev/pkg/graft/internal/model"
)

var fsAdapter adapter.SourceFSAdapter
var workflow domain.Workflow
var ui controller.UI

// outputDirFlag is a root-level flag shared by commands that write test cases.
var outputDirFlag string

// languageFlag selects the grammar used to parse the corpus.
var languageFlag string

// excludePatterns is a root-level flag that filters corpus files.
var excludePatterns []string

// verboseFlag raises the log level to debug.
var verboseFlag bool

func init() {
	configureRootFlags(rootCmd)

	// Initialize shared dependencies.
	ui = controller.NewUI(rootCmd, controller.IsTTY(os.Stdout))
	fsAdapter = adapter.NewLocalSourceFSAdapter()
	workflow = domain.NewWorkflow(fsAdapter, ui)
}

const corpusArgsHelp = `Corpus paths may be files, directories, or "-" for stdin:
  - grammar/         recursively scan a directory for matching files
  - a.go b.go        use the listed files as-is
  - -                read one input from standard input`

const rootLongDescription = `Graft is a grammar-driven test case generator. It parses a corpus of
input files with a tree-sitter grammar and produces new test cases by
splicing subtrees between files and deleting optional nodes.

` + corpusArgsHelp

const generateLongDescription = `Generate test cases from the given corpus paths.

` + corpusArgsHelp

const listLongDescription = `List corpus files with their node statistics and splice potential.

` + corpusArgsHelp

// rootCmd represents the base command when called without any subcommands.
var rootCmd = baseRootCmd()

func baseRootCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "graft",
		Short: "Grammar-driven test case generator",
		Long:  rootLongDescription,
		PersistentPreRun: func(_ *cobra.Command, _ []string) {
			configureLogger("", verboseFlag)
		},
		RunE: func(cmd *cobra.Command, _ []string) error {
			return cmd.Help()
		},
	}
}

func configureRootFlags(cmd *cobra.Command) {
	cmd.PersistentFlags().
		StringVarP(
			&outputDirFlag, outputFlagName, "o",
			viper.GetString(outputFlagName),
			"output directory for generated test cases",
		)
	bindFlagToConfig(cmd.PersistentFlags().Lookup(outputFlagName), outputFlagName)

	cmd.PersistentFlags().StringVarP(&languageFlag, languageFlagName, "l", viper.GetString(languageConfigKey), "corpus language: "+languagesHelp())
	bindFlagToConfig(cmd.PersistentFlags().Lookup(languageFlagName), languageConfigKey)

	cmd.PersistentFlags().StringArrayVarP(&excludePatterns, excludeFlagName, "x", viper.GetStringSlice(excludeConfigKey), "exclude files matching regex (can be repeated)")
	bindFlagToConfig(cmd.PersistentFlags().Lookup(excludeFlagName), excludeConfigKey)

	cmd.PersistentFlags().BoolVar(&verboseFlag, verboseFlagName, false, "enable debug logging")
}

func languagesHelp() string {
	return strings.Join(adapter.Languages(), ", ")
}

// bindFlagToConfig wires a Cobra flag to a Viper key so config/env values feed the flag.
func bindFlagToConfig(flag *pflag.Flag, key string) {
	if flag == nil {
		cobra.CheckErr(fmt.Errorf("flag for config key %q not found", key))
		return
	}

	cobra.CheckErr(viper.BindPFlag(key, flag))
}

// Execute adds all child commands to the root command and sets flags appropriately.
// This is called by main.main(). It only needs to happen once to the rootCmd.
func Execute() {
	err := rootCmd.Execute()
	if err != nil {
		os.Exit(1)
	}
}

func parsePaths(args []string) []m.Path {
	paths := make([]m.Path, 0, len(args))
	for _, arg := range args {
		paths = append(paths, m.Path(arg))
	}

	return paths
}

// workflowArgs resolves the shared corpus arguments from flags and config.
func workflowArgs(args []string) domain.WorkflowArgs {
	return domain.WorkflowArgs{
		Paths:         parsePaths(args),
		Exclude:       viper.GetStringSlice(excludeConfigKey),
		Language:      viper.GetString(languageConfigKey),
		NodeTypesPath: viper.GetString(nodeTypesConfigKey),
		Output:        m.Path(viper.GetString(outputFlagName)),
		OnParseError:  domain.ParseErrorPolicy(viper.GetString(onParseErrorConfigKey)),
	}
}
