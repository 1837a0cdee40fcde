package notifications

import (
	"encoding/json"
	"fmt"
	"io"
	"slices"
	"strings"

	"github.com/spf13/cobra"

	"github.com/ariel-frischer/usernotify/internal/cli/shared"
	clierrors "github.com/ariel-frischer/usernotify/internal/errors"
	"github.com/ariel-frischer/usernotify/pkg/notify"
)

type activeJSON struct {
	ID           string            `json:"id"`
	UserMetadata map[string]string `json:"user_metadata"`
}

func newActiveCmd() *cobra.Command {
	var asJSON bool
	cmd := &cobra.Command{
		Use:   "active",
		Short: "List notifications still shown",
		Long:  "List the notifications of this application that are still shown, one per line with their metadata",
		Example: `  usernotify active
  usernotify active --json`,
		Args:         cobra.NoArgs,
		SilenceUsage: true,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, cleanup, err := shared.Setup(cmd)
			if err != nil {
				return err
			}
			defer cleanup()

			m, release, err := shared.OpenManager(cfg)
			if err != nil {
				return err
			}
			defer release()

			handles, err := m.GetActiveNotifications(cmd.Context())
			if err != nil {
				return clierrors.FromNotifyError(err, "failed to list active notifications")
			}
			if asJSON {
				return printActiveJSON(cmd.OutOrStdout(), handles)
			}
			printActive(cmd.OutOrStdout(), handles)
			return nil
		},
	}
	cmd.GroupID = shared.GroupNotifications
	cmd.Flags().BoolVar(&asJSON, "json", false, "Print a JSON array")
	return cmd
}

func printActive(w io.Writer, handles []notify.Handle) {
	for _, h := range handles {
		md := h.Metadata()
		keys := make([]string, 0, len(md))
		for k := range md {
			keys = append(keys, k)
		}
		slices.Sort(keys)

		pairs := make([]string, 0, len(keys))
		for _, k := range keys {
			pairs = append(pairs, k+"="+md[k])
		}
		if len(pairs) == 0 {
			fmt.Fprintln(w, h.ID)
			continue
		}
		fmt.Fprintf(w, "%s\t%s\n", h.ID, strings.Join(pairs, " "))
	}
}

func printActiveJSON(w io.Writer, handles []notify.Handle) error {
	out := make([]activeJSON, 0, len(handles))
	for _, h := range handles {
		out = append(out, activeJSON{ID: h.ID, UserMetadata: h.Metadata()})
	}
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(out)
}
