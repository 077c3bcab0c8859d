package cmd

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
	"github.com/mattn/go-runewidth"
	"github.com/spf13/cobra"

	"mcpchat/backend"
	"mcpchat/config"
)

const cellWidth = 60

// listing is what a catalog command prints: a header row, the rows, and the
// line shown instead when there are none.
type listing struct {
	headers []string
	rows    [][]string
	empty   string
}

func listCommand(root *rootOptions, use, short string, fetch func(ctx context.Context, c *backend.Client) (listing, error)) *cobra.Command {
	return &cobra.Command{
		Use:   use,
		Short: short,
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			e, err := setup(root)
			if err != nil {
				return err
			}
			defer config.CloseDebugLog()

			l, err := fetch(cmd.Context(), e.client)
			if err != nil {
				return err
			}
			if len(l.rows) == 0 {
				fmt.Fprintln(cmd.OutOrStdout(), l.empty)
				return nil
			}

			t := table.New().
				Border(lipgloss.NormalBorder()).
				BorderStyle(lipgloss.NewStyle().Foreground(lipgloss.Color("7"))).
				Headers(l.headers...).
				Rows(l.rows...)
			fmt.Fprintln(cmd.OutOrStdout(), t.Render())
			return nil
		},
	}
}

func newChatsCmd(root *rootOptions) *cobra.Command {
	return listCommand(root, "chats", "List saved conversations", func(ctx context.Context, c *backend.Client) (listing, error) {
		chats, err := c.Chats(ctx)
		if err != nil {
			return listing{}, err
		}
		l := listing{headers: []string{"ID", "CREATED", "MESSAGES", "TITLE"}, empty: "No conversations yet."}
		for _, chat := range chats {
			created := chat.CreatedAt
			if created == "" {
				created = "-"
			}
			l.rows = append(l.rows, []string{chat.UUID, created, strconv.Itoa(len(chat.Messages)), oneLine(chat.Title())})
		}
		return l, nil
	})
}

func newToolsCmd(root *rootOptions) *cobra.Command {
	return listCommand(root, "tools", "List tools the backend offers", func(ctx context.Context, c *backend.Client) (listing, error) {
		tools, err := c.Tools(ctx)
		if err != nil {
			return listing{}, err
		}
		l := listing{headers: []string{"NAME", "DESCRIPTION"}, empty: "No tools available."}
		for _, t := range tools {
			l.rows = append(l.rows, []string{t.Name, oneLine(t.Description)})
		}
		return l, nil
	})
}

func newProvidersCmd(root *rootOptions) *cobra.Command {
	return listCommand(root, "providers", "List LLM providers and their models", func(ctx context.Context, c *backend.Client) (listing, error) {
		providers, err := c.Providers(ctx)
		if err != nil {
			return listing{}, err
		}
		l := listing{headers: []string{"PROVIDER", "MODEL ID", "NAME"}, empty: "No providers configured on the backend."}
		for _, p := range providers {
			for _, m := range p.Models {
				l.rows = append(l.rows, []string{p.Name, m.ModelID, oneLine(m.Name)})
			}
		}
		return l, nil
	})
}

func oneLine(s string) string {
	s = strings.Join(strings.Fields(s), " ")
	return runewidth.Truncate(s, cellWidth, "…")
}
