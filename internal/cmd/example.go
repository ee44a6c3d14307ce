package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/Iron-Ham/bcnf/internal/sample"
)

var exampleCmd = &cobra.Command{
	Use:   "example",
	Short: "Print the built-in sample document",
	Long: `Print the travel-agency sample as a YAML document. Save it to a file
as a starting point for your own relations:

  bcnf example > travel.yaml
  bcnf decompose travel.yaml`,
	Args: cobra.NoArgs,
	RunE: runExample,
}

var exampleNoRows bool

func init() {
	rootCmd.AddCommand(exampleCmd)

	exampleCmd.Flags().BoolVar(&exampleNoRows, "no-rows", false, "omit the sample instance")
}

func runExample(cmd *cobra.Command, args []string) error {
	doc := sample.Travel()
	if exampleNoRows {
		doc.Rows = nil
	}
	data, err := doc.Marshal()
	if err != nil {
		return err
	}
	_, err = fmt.Fprint(cmd.OutOrStdout(), string(data))
	return err
}
