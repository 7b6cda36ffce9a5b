package main

import (
	"encoding/json"
	"os"

	"github.com/spf13/cobra"

	"studio/internal/application/orchestrators"
)

func newImportMembersCmd() *cobra.Command {
	var (
		file   string
		dryRun bool
		update bool
	)
	cmd := &cobra.Command{
		Use:   "import-members",
		Short: "Import members from a CSV file (NAME, SURNAME, EMAIL required)",
		RunE: func(cmd *cobra.Command, args []string) error {
			f, err := os.Open(file)
			if err != nil {
				return err
			}
			defer f.Close()

			rt, err := openRuntime()
			if err != nil {
				return err
			}
			defer rt.Close()

			res, err := orchestrators.ExecuteImportMembers(cmd.Context(), orchestrators.ImportMembersInput{
				Reader:     f,
				ActorEmail: "cli",
				DryRun:     dryRun,
				UpdateMode: update,
			}, orchestrators.ImportMembersDeps{
				Tx:          rt.tx,
				MemberStore: rt.stores.MemberStore,
			})
			if err != nil {
				return err
			}
			enc := json.NewEncoder(cmd.OutOrStdout())
			enc.SetIndent("", "  ")
			return enc.Encode(res)
		},
	}
	cmd.Flags().StringVarP(&file, "file", "f", "", "CSV file to import (required)")
	cmd.Flags().BoolVar(&dryRun, "dry-run", false, "Validate rows without writing")
	cmd.Flags().BoolVar(&update, "update", false, "Update members matched by email and full name")
	_ = cmd.MarkFlagRequired("file")
	return cmd
}
