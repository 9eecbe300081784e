package main

import (
	"encoding/json"
	"io"
	"os"

	"github.com/rotisserie/eris"
	"github.com/spf13/cobra"

	"github.com/couchcryptid/pos-import-service/internal/domain"
)

var parseCmd = &cobra.Command{
	Use:   "parse [file]",
	Short: "Extract name and coordinates from an OSM node document without saving",
	Long:  "Reads an OSM API XML document from file, or stdin when no file is given, and prints the extracted fields as JSON.",
	Args:  cobra.MaximumNArgs(1),
	// Parsing needs no configuration.
	PersistentPreRunE: func(*cobra.Command, []string) error { return nil },
	RunE: func(cmd *cobra.Command, args []string) error {
		var (
			body []byte
			err  error
		)
		if len(args) == 1 && args[0] != "-" {
			body, err = os.ReadFile(args[0])
		} else {
			body, err = io.ReadAll(cmd.InOrStdin())
		}
		if err != nil {
			return eris.Wrap(err, "read document")
		}

		fields, err := domain.ParseNode(string(body))
		if err != nil {
			return err
		}

		enc := json.NewEncoder(cmd.OutOrStdout())
		enc.SetIndent("", "  ")
		return enc.Encode(fields)
	},
}

func init() {
	rootCmd.AddCommand(parseCmd)
}
