package main

import (
	"encoding/json"
	"fmt"

	"github.com/invopop/jsonschema"
	"github.com/spf13/cobra"

	"github.com/ddmoney420/moji/render"
)

func init() {
	rootCmd.AddCommand(schemaCmd)
}

var schemaCmd = &cobra.Command{
	Use:   "schema",
	Short: "Print the JSON schema of converted runs",
	RunE: func(cmd *cobra.Command, args []string) error {
		b, err := json.MarshalIndent(runSchema(), "", "  ")
		if err != nil {
			return err
		}
		fmt.Fprintln(cmd.OutOrStdout(), string(b))
		return nil
	},
}

// runSchema describes the "runs" array of convert output.
func runSchema() *jsonschema.Schema {
	r := jsonschema.Reflector{ExpandedStruct: true}
	runSch := r.Reflect(&render.Run{})
	// References inside Run resolve against the document root.
	defs := runSch.Definitions
	runSch.Definitions = nil
	runSch.Version = ""
	return &jsonschema.Schema{
		Version:     jsonschema.Version,
		Title:       "moji runs",
		Description: "Styled text runs produced by interpreting SGR escape codes.",
		Type:        "array",
		Items:       runSch,
		Definitions: defs,
	}
}
