package cmd

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"mcpchat/config"
	"mcpchat/export"
	"mcpchat/render"
)

type exportOptions struct {
	output string
	format string
}

func newExportCmd(root *rootOptions) *cobra.Command {
	opts := &exportOptions{}

	cmd := &cobra.Command{
		Use:   "export <chat-id>",
		Short: "Export a conversation as HTML or JSON",
		Long: `Export loads a conversation from the backend and writes it as a
standalone HTML page or as JSON. Without --output the file is written to
<data_dir>/exports/<chat-id>.<format>; use --output - for stdout.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runExport(cmd, root, opts, args[0])
		},
	}

	cmd.Flags().StringVarP(&opts.output, "output", "o", "", "Output file, or - for stdout")
	cmd.Flags().StringVar(&opts.format, "format", string(export.FormatHTML), "Export format: html or json")
	return cmd
}

func runExport(cmd *cobra.Command, root *rootOptions, opts *exportOptions, chatID string) error {
	format, err := export.ParseFormat(opts.format)
	if err != nil {
		return err
	}

	e, err := setup(root)
	if err != nil {
		return err
	}
	defer config.CloseDebugLog()

	ctrl := e.newController(stderrNotifier(cmd.ErrOrStderr()))
	defer ctrl.Close()

	drive(ctrl, ctrl.SwitchConversation(chatID))
	state := ctrl.State()
	if state.Error != "" {
		return fmt.Errorf("failed to load conversation %s: %s", chatID, state.Error)
	}

	t := export.NewTranscript(state, time.Now())
	p := render.New(render.Options{CodeStyle: e.cfg.CodeStyle})

	if opts.output == "-" {
		return export.Write(cmd.OutOrStdout(), format, t, p)
	}

	path := opts.output
	if path == "" {
		path = export.DefaultPath(e.cfg.DataDir(), t, format)
	}
	if err := export.WriteFile(path, format, t, p); err != nil {
		return err
	}
	config.DebugLog.Infow("[export] wrote transcript", "path", path, "messages", len(t.Messages))
	fmt.Fprintf(cmd.ErrOrStderr(), "Exported %d messages to %s\n", len(t.Messages), path)
	return nil
}
