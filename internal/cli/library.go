package cli

import (
	"fmt"
	"io"
	"log/slog"
	"os"
	"strconv"
	"strings"

	"github.com/dustin/go-humanize"
	"github.com/spf13/cobra"

	"github.com/tessro/segue/internal/core"
	serrors "github.com/tessro/segue/internal/errors"
	"github.com/tessro/segue/internal/library"
)

var libraryFind string

var libraryCmd = &cobra.Command{
	Use:     "library [dir...]",
	Aliases: []string{"ls"},
	Short:   "List the tracks in a library",
	Long: `Scan one or more directories and list the tracks segue would play,
in play order.

Examples:
  segue library ~/Music
  segue library ~/Music --find "kind of blue"
  segue library --json | jq '.[].path'`,
	RunE: runLibrary,
}

func init() {
	libraryCmd.Flags().StringVarP(&libraryFind, "find", "f", "", "only list tracks matching a title, album or file name")
	rootCmd.AddCommand(libraryCmd)
}

// libraryEntry is a track with its row in the library.
type libraryEntry struct {
	Row int `json:"row"`
	core.Track
}

func runLibrary(cmd *cobra.Command, args []string) error {
	dirs, err := resolveDirs(args, cfg.Library.Dirs, "")
	if err != nil {
		return err
	}
	if len(dirs) == 0 {
		return serrors.ErrNoTracks
	}

	lib := library.New()
	result := lib.Import(scanOptions(cfg.Library), dirs...)
	for _, err := range result.Errors {
		slog.Warn("library import", "error", err)
	}
	if lib.Len() == 0 && result.HasErrors() {
		return fmt.Errorf("scan failed: %s", result.ErrorSummary())
	}

	entries := listLibrary(lib, libraryFind)
	if JSONOutput() {
		return printJSON(os.Stdout, entries)
	}
	renderLibrary(os.Stdout, entries)
	return nil
}

// listLibrary returns every track, or only those matching query.
func listLibrary(lib *library.Library, query string) []libraryEntry {
	entries := []libraryEntry{}
	if query != "" {
		for _, row := range lib.Find(query) {
			if t, ok := lib.At(row); ok {
				entries = append(entries, libraryEntry{Row: row, Track: t})
			}
		}
		return entries
	}
	for i, t := range lib.Tracks() {
		entries = append(entries, libraryEntry{Row: i, Track: t})
	}
	return entries
}

func renderLibrary(w io.Writer, entries []libraryEntry) {
	if len(entries) == 0 {
		_, _ = fmt.Fprintln(w, "No tracks found")
		return
	}

	var total uint64
	table := NewTableWriter(w, "#", "TITLE", "ALBUM", "FORMAT", "SIZE")
	for _, e := range entries {
		total += uint64(e.Size)
		table.Row(
			strconv.Itoa(e.Row),
			TruncateString(e.Title, 40),
			TruncateString(e.Album, 30),
			strings.ToUpper(string(e.Format)),
			humanize.Bytes(uint64(e.Size)),
		)
	}
	table.Flush()

	_, _ = fmt.Fprintf(w, "\n%s %s, %s\n",
		humanize.Comma(int64(len(entries))), plural(len(entries), "track", "tracks"), humanize.Bytes(total))
}
