package cmd

import (
	"io"

	"github.com/spf13/cobra"

	"github.com/Iron-Ham/bcnf/internal/errors"
	"github.com/Iron-Ham/bcnf/internal/sample"
	"github.com/Iron-Ham/bcnf/internal/schema"
)

// loadDocument reads the document named by args: a path, "-" for stdin,
// or nothing for the built-in travel sample.
func loadDocument(cmd *cobra.Command, args []string) (*schema.Document, error) {
	if len(args) == 0 {
		return sample.Travel(), nil
	}
	if args[0] == "-" {
		data, err := io.ReadAll(cmd.InOrStdin())
		if err != nil {
			return nil, errors.Wrap(err, "failed to read stdin")
		}
		return schema.ParseDocument(data)
	}
	return schema.LoadDocument(args[0])
}
