package cmd

import (
	"errors"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"mcpchat/config"
	"mcpchat/model"
	"mcpchat/render"
)

type askOptions struct {
	chatID   string
	tools    []string
	provider string
	modelID  string
	output   string
	width    int
}

func newAskCmd(root *rootOptions) *cobra.Command {
	opts := &askOptions{}

	cmd := &cobra.Command{
		Use:   "ask <question>",
		Short: "Ask a single question and print the answer",
		Long: `Ask sends one question to the backend and prints the answer.
With --chat the question continues an existing conversation; the
conversation id is printed to stderr so it can be reused.`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runAsk(cmd, root, opts, strings.Join(args, " "))
		},
	}

	cmd.Flags().StringVar(&opts.chatID, "chat", "", "Continue the conversation with this id")
	cmd.Flags().StringSliceVar(&opts.tools, "tool", nil, "Enable a tool for this question (repeatable, replaces configured tools)")
	cmd.Flags().StringVar(&opts.provider, "provider", "", "LLM provider to use (requires --model)")
	cmd.Flags().StringVar(&opts.modelID, "model", "", "Model id to use (requires --provider)")
	cmd.Flags().StringVarP(&opts.output, "output", "o", "terminal", "Answer format: terminal, html or markdown")
	cmd.Flags().IntVar(&opts.width, "width", 80, "Wrap width for terminal output")
	return cmd
}

func runAsk(cmd *cobra.Command, root *rootOptions, opts *askOptions, question string) error {
	switch opts.output {
	case "terminal", "html", "markdown":
	default:
		return fmt.Errorf("unknown output format %q (want terminal, html or markdown)", opts.output)
	}
	if (opts.provider == "") != (opts.modelID == "") {
		return errors.New("--provider and --model must be given together")
	}

	e, err := setup(root)
	if err != nil {
		return err
	}
	defer config.CloseDebugLog()

	ctrl := e.newController(stderrNotifier(cmd.ErrOrStderr()))
	defer ctrl.Close()

	if cmd.Flags().Changed("tool") {
		ctrl.SetSelectedTools(model.NewToolSet(opts.tools...))
	}
	if opts.provider != "" {
		ctrl.SetProvider(&model.ProviderSelection{Provider: opts.provider, ModelID: opts.modelID})
	}

	if opts.chatID != "" {
		drive(ctrl, ctrl.SwitchConversation(opts.chatID))
		if st := ctrl.State(); st.Error != "" {
			return fmt.Errorf("failed to load conversation %s: %s", opts.chatID, st.Error)
		}
	}

	send, err := ctrl.Submit(question)
	if err != nil {
		return err
	}
	drive(ctrl, send)

	state := ctrl.State()
	if state.Error != "" {
		return fmt.Errorf("ask failed: %s", state.Error)
	}
	answer, ok := state.LastAssistantMessage()
	if !ok {
		return errors.New("ask failed: no answer received")
	}

	out := cmd.OutOrStdout()
	switch opts.output {
	case "html":
		fmt.Fprintln(out, render.New(render.Options{CodeStyle: e.cfg.CodeStyle}).Render(answer.Text))
	case "markdown":
		fmt.Fprintln(out, answer.Text)
	default:
		fmt.Fprint(out, render.Terminal(answer.Text, opts.width))
	}

	if state.ID != "" {
		fmt.Fprintf(cmd.ErrOrStderr(), "chat: %s\n", state.ID)
	}
	return nil
}
