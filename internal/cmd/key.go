package cmd

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/Iron-Ham/bcnf/internal/errors"
	"github.com/Iron-Ham/bcnf/internal/normalize"
	"github.com/Iron-Ham/bcnf/internal/schema"
)

var keyCmd = &cobra.Command{
	Use:   "key [file]",
	Short: "Print the primary key of a relation",
	Long: `Print the primary key derived for the document's relation.

By default the key comes from a single pass over the dependencies that
removes every attribute some applicable dependency determines. With
--strict-key the key is the closure-minimal one.`,
	Args: cobra.MaximumNArgs(1),
	RunE: runKey,
}

var coverCmd = &cobra.Command{
	Use:   "cover [file] --attrs a,b",
	Short: "Print the closure of a set of attributes",
	Long: `Print every attribute determined by --attrs under the document's
dependencies, including the attributes themselves.`,
	Args: cobra.MaximumNArgs(1),
	RunE: runCover,
}

var coverAttrs string

func init() {
	rootCmd.AddCommand(keyCmd)
	rootCmd.AddCommand(coverCmd)

	coverCmd.Flags().StringVarP(&coverAttrs, "attrs", "a", "", "comma-separated attributes to close over")
	_ = coverCmd.MarkFlagRequired("attrs")
}

func runKey(cmd *cobra.Command, args []string) error {
	r, err := newRun(cmd)
	if err != nil {
		return err
	}
	defer r.close()

	doc, err := loadDocument(cmd, args)
	if err != nil {
		return err
	}

	key := r.decomposer().Key(doc.Relation(), doc.FDs())
	r.logger.Debug("key derived", "key", schema.SortedNames(key))

	rend, err := r.renderer(cmd)
	if err != nil {
		return err
	}
	return rend.Attributes("Key", key)
}

func runCover(cmd *cobra.Command, args []string) error {
	r, err := newRun(cmd)
	if err != nil {
		return err
	}
	defer r.close()

	doc, err := loadDocument(cmd, args)
	if err != nil {
		return err
	}

	attrs, err := parseAttrs(coverAttrs, doc.Relation())
	if err != nil {
		return err
	}

	rend, err := r.renderer(cmd)
	if err != nil {
		return err
	}
	return rend.Attributes("Cover", normalize.Cover(attrs, doc.FDs()))
}

// parseAttrs splits a comma-separated list and checks every name against rel.
func parseAttrs(list string, rel schema.Relation) (schema.Attributes, error) {
	attrs := schema.NewAttributes()
	for _, name := range strings.Split(list, ",") {
		name = strings.TrimSpace(name)
		if name == "" {
			continue
		}
		if !rel.Attrs.Has(schema.Attribute(name)) {
			return nil, fmt.Errorf("%w: %q", errors.ErrUnknownAttribute, name)
		}
		attrs.Add(schema.Attribute(name))
	}
	if attrs.Len() == 0 {
		return nil, errors.NewValidationError("no attributes given").WithField("attrs")
	}
	return attrs, nil
}
