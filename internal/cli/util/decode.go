package util

import (
	"github.com/spf13/cobra"

	"github.com/ariel-frischer/usernotify/internal/cli/shared"
	clierrors "github.com/ariel-frischer/usernotify/internal/errors"
	"github.com/ariel-frischer/usernotify/pkg/usernotify"
)

func newDecodeCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "decode <uri>",
		Short: "Decode a toast callback URI into a response",
		Long: `Decode the callback URI a toast activation launches the application with
and print the response as JSON, in the same form as 'usernotify listen'.`,
		Example:      `  usernotify decode 'myapp://3f2a9c41/reply?eyJjaGF0IjoiNDIifQ=='`,
		Args:         cobra.ExactArgs(1),
		GroupID:      shared.GroupUtilities,
		SilenceUsage: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			resp, err := usernotify.DecodeCallbackURI(args[0])
			if err != nil {
				return clierrors.InvalidCallbackURI(args[0], err)
			}
			return shared.WriteResponse(cmd.OutOrStdout(), resp)
		},
	}
}
