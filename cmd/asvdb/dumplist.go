package main

import (
	"fmt"
	"io"

	"github.com/asvspoof/asvdb/internal/query"
	"github.com/spf13/cobra"
)

var dumplistCmd = &cobra.Command{
	Use:   "dumplist",
	Short: "Print the sample paths matching a query",
	Long: `Print one path per sample selected by the filters, ordered by path.

Every filter may be repeated or given as a comma separated list. Omitted
filters select everything. Paths are the stored sample path with --directory
prepended and --extension appended.`,
	RunE: runDumplist,
}

func init() {
	rootCmd.AddCommand(dumplistCmd)

	dumplistCmd.Flags().StringSlice("purpose", nil, "sample purpose (genuine, spoof)")
	dumplistCmd.Flags().StringSlice("group", nil, "client group (train, dev, eval)")
	dumplistCmd.Flags().StringSlice("protocol", nil, "protocol name")
	dumplistCmd.Flags().StringSlice("client", nil, "client id")
	dumplistCmd.Flags().StringSlice("attack", nil, "attack type (undefined, unknown, spoof)")
	dumplistCmd.Flags().StringSlice("gender", nil, "client gender (male, female, undefined)")
	dumplistCmd.Flags().StringP("directory", "d", "", "directory prepended to every path")
	dumplistCmd.Flags().StringP("extension", "e", "", "extension appended to every path")
	dumplistCmd.Flags().Bool("self-test", false, "run the query without printing")
}

func runDumplist(cmd *cobra.Command, args []string) error {
	filter := query.ObjectFilter{}
	filter.Purposes, _ = cmd.Flags().GetStringSlice("purpose")
	filter.Groups, _ = cmd.Flags().GetStringSlice("group")
	filter.Protocols, _ = cmd.Flags().GetStringSlice("protocol")
	filter.Clients, _ = cmd.Flags().GetStringSlice("client")
	filter.Attacks, _ = cmd.Flags().GetStringSlice("attack")
	filter.Genders, _ = cmd.Flags().GetStringSlice("gender")
	directory, _ := cmd.Flags().GetString("directory")
	extension, _ := cmd.Flags().GetString("extension")
	selfTest, _ := cmd.Flags().GetBool("self-test")

	s, db, err := openDatabase()
	if err != nil {
		return err
	}
	defer s.Close()

	out := cmd.OutOrStdout()
	if selfTest {
		out = io.Discard
	}
	return dumplist(out, db, filter, directory, extension)
}

func dumplist(w io.Writer, db *query.Database, filter query.ObjectFilter, directory, extension string) error {
	files, err := db.Objects(filter)
	if err != nil {
		return err
	}
	for _, f := range files {
		fmt.Fprintln(w, f.MakePath(directory, extension))
	}
	return nil
}
