package main

import (
	"fmt"
	"io"
	"os"
	"text/tabwriter"

	"github.com/ochronus/gopastebin/pastebin"
	"github.com/spf13/cobra"
)

func newCreateCmd() *cobra.Command {
	var (
		name       string
		visibility string
		expire     string
		format     string
		anonymous  bool
	)

	cmd := &cobra.Command{
		Use:   "create [file]",
		Short: "Create a paste from a file or stdin",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			code, err := readCode(cmd, args)
			if err != nil {
				return err
			}

			container, err := loadAPIContainer()
			if err != nil {
				return err
			}
			cfg := container.Config

			vis := cfg.DefaultVisibility()
			if anonymous {
				vis = pastebin.Public
			}
			if visibility != "" {
				if vis, err = pastebin.ParseVisibility(visibility); err != nil {
					return err
				}
			}
			opts := pastebin.PasteOptions{
				Name:       name,
				Visibility: vis.Ptr(),
				ExpireDate: valueOr(expire, cfg.Defaults.ExpireDate),
				Format:     valueOr(format, cfg.Defaults.Format),
			}

			var url string
			if anonymous {
				url, err = container.Client.CreatePaste(cfg.DevKey, code, opts)
			} else {
				session, serr := container.RequireSession()
				if serr != nil {
					return serr
				}
				url, err = session.CreatePaste(code, opts)
			}
			if err != nil {
				return describeError(err)
			}

			fmt.Fprintln(cmd.OutOrStdout(), url)
			return nil
		},
	}

	cmd.Flags().StringVarP(&name, "name", "n", "", "Paste title")
	cmd.Flags().StringVarP(&visibility, "visibility", "v", "", "public, unlisted or private (default from config, public with --anonymous)")
	cmd.Flags().StringVarP(&expire, "expire", "e", "", "Expiration: N, 10M, 1H, 1D, 1W, 2W, 1M, 6M, 1Y (default from config)")
	cmd.Flags().StringVarP(&format, "format", "f", "", "Syntax highlighting format (default from config)")
	cmd.Flags().BoolVar(&anonymous, "anonymous", false, "Create the paste as a guest")

	return cmd
}

func newListCmd() *cobra.Command {
	var (
		limit int
		raw   bool
	)

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List your pastes, newest first",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			container, err := loadAPIContainer()
			if err != nil {
				return err
			}
			session, err := container.RequireSession()
			if err != nil {
				return err
			}
			if limit == 0 {
				limit = container.Config.Defaults.ResultsLimit
			}

			if raw {
				lines, err := session.ListPastes(limit)
				if err != nil {
					return describeError(err)
				}
				printLines(cmd, lines)
				return nil
			}

			pastes, err := session.ListPastesParsed(limit)
			if err != nil {
				return describeError(err)
			}
			if len(pastes) == 0 {
				fmt.Fprintln(cmd.OutOrStdout(), "No pastes found.")
				return nil
			}
			return writePastes(cmd.OutOrStdout(), pastes)
		},
	}

	cmd.Flags().IntVarP(&limit, "limit", "l", 0, "Number of pastes to list, 1 to 1000 (default from config)")
	cmd.Flags().BoolVar(&raw, "raw", false, "Print the service response as is")

	return cmd
}

func newDeleteCmd() *cobra.Command {
	var name string

	cmd := &cobra.Command{
		Use:   "delete <key> | --name <title>",
		Short: "Delete one of your pastes",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := oneTarget(args, name); err != nil {
				return err
			}

			container, err := loadAPIContainer()
			if err != nil {
				return err
			}
			session, err := container.RequireSession()
			if err != nil {
				return err
			}

			var lines []string
			if name != "" {
				lines, err = session.DeletePasteByName(name)
			} else {
				lines, err = session.DeletePaste(args[0])
			}
			if err != nil {
				return describeError(err)
			}
			printLines(cmd, lines)
			return nil
		},
	}

	cmd.Flags().StringVarP(&name, "name", "n", "", "Delete the first paste with this title")

	return cmd
}

func newRawCmd() *cobra.Command {
	var (
		name   string
		public bool
	)

	cmd := &cobra.Command{
		Use:   "raw <key> | --name <title> | --public <key>",
		Short: "Print the content of a paste",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := oneTarget(args, name); err != nil {
				return err
			}
			if public && name != "" {
				return fmt.Errorf("--public needs a paste key, not --name")
			}

			var lines []string
			if public {
				cfg, err := loadConfig()
				if err != nil {
					return err
				}
				lines, err = buildPublicClient(cfg.BaseURL).FetchPublicRaw(args[0])
				if err != nil {
					return describeError(err)
				}
				printLines(cmd, lines)
				return nil
			}

			container, err := loadAPIContainer()
			if err != nil {
				return err
			}
			session, err := container.RequireSession()
			if err != nil {
				return err
			}
			if name != "" {
				lines, err = session.FetchRawByName(name)
			} else {
				lines, err = session.FetchRaw(args[0])
			}
			if err != nil {
				return describeError(err)
			}
			printLines(cmd, lines)
			return nil
		},
	}

	cmd.Flags().StringVarP(&name, "name", "n", "", "Print the first paste with this title")
	cmd.Flags().BoolVar(&public, "public", false, "Fetch a public paste without credentials")

	return cmd
}

func buildPublicClient(baseURL string) *pastebin.Client {
	if baseURL == "" {
		return pastebin.NewClient()
	}
	return pastebin.NewClient(pastebin.WithBaseURL(baseURL))
}

func readCode(cmd *cobra.Command, args []string) (string, error) {
	var (
		data []byte
		err  error
	)
	if len(args) == 1 && args[0] != "-" {
		data, err = os.ReadFile(args[0])
	} else {
		data, err = io.ReadAll(cmd.InOrStdin())
	}
	if err != nil {
		return "", fmt.Errorf("failed to read paste content: %w", err)
	}
	if len(data) == 0 {
		return "", fmt.Errorf("paste content is empty")
	}
	return string(data), nil
}

func oneTarget(args []string, name string) error {
	switch {
	case len(args) == 1 && name != "":
		return fmt.Errorf("give either a paste key or --name, not both")
	case len(args) == 0 && name == "":
		return fmt.Errorf("a paste key or --name is required")
	}
	return nil
}

func valueOr(value, fallback string) string {
	if value != "" {
		return value
	}
	return fallback
}

func writePastes(out io.Writer, pastes []pastebin.Paste) error {
	w := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "KEY\tTITLE\tVISIBILITY\tFORMAT\tHITS\tCREATED\tURL")
	for _, p := range pastes {
		fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%d\t%s\t%s\n",
			p.Key, p.Title, p.Visibility, p.FormatShort, p.Hits,
			p.CreatedAt().Format("2006-01-02 15:04"), p.URL)
	}
	return w.Flush()
}
