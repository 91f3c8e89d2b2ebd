package main

import (
	"fmt"
	"io"
	"os"

	"github.com/asvspoof/asvdb/internal/query"
	"github.com/asvspoof/asvdb/internal/store"
	"github.com/asvspoof/asvdb/internal/util"
	"github.com/dustin/go-humanize"
	"github.com/sourcegraph/conc/pool"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

const defaultConcurrency = 8

var checkfilesCmd = &cobra.Command{
	Use:   "checkfiles",
	Short: "Report samples missing on disk",
	Long: `Check that the file of every sample in the database exists.

The path checked is the stored sample path with --directory prepended and
--extension appended. Missing files are printed one per line.`,
	RunE: runCheckfiles,
}

func init() {
	rootCmd.AddCommand(checkfilesCmd)

	checkfilesCmd.Flags().StringP("directory", "d", "", "directory prepended to every path")
	checkfilesCmd.Flags().StringP("extension", "e", store.AudioExtension, "extension appended to every path")
	checkfilesCmd.Flags().Int("concurrency", defaultConcurrency, "number of concurrent file checks")
	checkfilesCmd.Flags().Bool("self-test", false, "run the check without printing or failing")

	viper.BindPFlag("concurrency", checkfilesCmd.Flags().Lookup("concurrency"))
}

func runCheckfiles(cmd *cobra.Command, args []string) error {
	directory, _ := cmd.Flags().GetString("directory")
	extension, _ := cmd.Flags().GetString("extension")
	concurrency := GetConfigInt("concurrency", defaultConcurrency)
	selfTest, _ := cmd.Flags().GetBool("self-test")

	s, db, err := openDatabase()
	if err != nil {
		return err
	}
	defer s.Close()

	files, err := db.Objects(query.ObjectFilter{})
	if err != nil {
		return err
	}

	missing := findMissing(files, directory, extension, concurrency)

	out := cmd.OutOrStdout()
	if selfTest {
		out = io.Discard
	}
	for _, path := range missing {
		fmt.Fprintln(out, path)
	}

	if len(missing) == 0 {
		util.SuccessLog("All %s files found", humanize.Comma(int64(len(files))))
		return nil
	}
	util.WarnLog("%s of %s files missing", humanize.Comma(int64(len(missing))), humanize.Comma(int64(len(files))))
	if selfTest {
		return nil
	}
	return fmt.Errorf("%d files missing", len(missing))
}

// findMissing stats every file path concurrently and returns the missing ones
// in the order of files
func findMissing(files []*store.File, directory, extension string, concurrency int) []string {
	if concurrency <= 0 {
		concurrency = 1
	}

	exists := make([]bool, len(files))
	p := pool.New().WithMaxGoroutines(concurrency)
	for i, f := range files {
		p.Go(func() {
			_, err := os.Stat(f.MakePath(directory, extension))
			exists[i] = err == nil
		})
	}
	p.Wait()

	var missing []string
	for i, f := range files {
		if !exists[i] {
			missing = append(missing, f.MakePath(directory, extension))
		}
	}
	return missing
}
