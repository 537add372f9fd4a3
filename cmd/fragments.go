package cmd

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"github.com/ziadkadry99/livepad/internal/clipboard"
	"github.com/ziadkadry99/livepad/internal/fragment"
	"github.com/ziadkadry99/livepad/internal/session"
)

var (
	clearYes  bool
	deleteYes bool
)

var setCmd = &cobra.Command{
	Use:   "set <html|css|js> <file|->",
	Short: "Replace one editor's code with a file or stdin",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		f, err := fragment.Parse(args[0])
		if err != nil {
			return err
		}

		var data []byte
		if args[1] == "-" {
			data, err = io.ReadAll(cmd.InOrStdin())
		} else {
			data, err = os.ReadFile(args[1])
		}
		if err != nil {
			return fmt.Errorf("reading %s: %w", args[1], err)
		}

		ctx := context.Background()
		a, err := openApp(ctx, nil)
		if err != nil {
			return err
		}
		defer a.Close()

		if err := a.session.OnEdit(ctx, f, string(data)); err != nil {
			return err
		}
		fmt.Printf("%s updated (%d bytes)\n", f.Label(), len(data))
		return nil
	},
}

var copyCmd = &cobra.Command{
	Use:   "copy <html|css|js>",
	Short: "Copy one editor's code to the system clipboard",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		f, err := fragment.Parse(args[0])
		if err != nil {
			return err
		}

		notifier := &printNotifier{out: os.Stdout}
		ctx := context.Background()
		a, err := openApp(ctx, func(a *app, opts *session.Options) {
			opts.Notifier = notifier
			opts.Clipboard = clipboard.System{}
		})
		if err != nil {
			return err
		}
		defer a.Close()

		if err := a.session.Copy(ctx, f); err != nil {
			return err
		}
		// Wait for the background write to report.
		a.session.Close()
		if notifier.failed() {
			return errors.New("clipboard write failed")
		}
		return nil
	},
}

var deleteCmd = &cobra.Command{
	Use:   "delete <html|css|js>",
	Short: "Empty one editor",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		f, err := fragment.Parse(args[0])
		if err != nil {
			return err
		}

		ctx := context.Background()
		a, err := openApp(ctx, func(a *app, opts *session.Options) {
			opts.Notifier = &printNotifier{out: os.Stdout}
		})
		if err != nil {
			return err
		}
		defer a.Close()

		src, _ := a.session.Snapshot()
		if !deleteYes && !fragment.IsBlank(src.Get(f)) {
			ok, err := confirm(fmt.Sprintf("Are you sure you want to delete all %s code", f.Label()))
			if err != nil {
				return err
			}
			if !ok {
				fmt.Println("Aborted.")
				return nil
			}
		}
		return a.session.DeleteFragment(ctx, f)
	},
}

var clearCmd = &cobra.Command{
	Use:   "clear",
	Short: "Empty every editor and forget all saved code and preferences",
	RunE: func(cmd *cobra.Command, args []string) error {
		if !clearYes {
			ok, err := confirm("Clear all code and preferences")
			if err != nil {
				return err
			}
			if !ok {
				fmt.Println("Aborted.")
				return nil
			}
		}

		ctx := context.Background()
		a, err := openApp(ctx, nil)
		if err != nil {
			return err
		}
		defer a.Close()

		if err := a.session.ClearAll(ctx); err != nil {
			return err
		}
		fmt.Println("All editors cleared.")
		return nil
	},
}

var prefCmd = &cobra.Command{
	Use:   "pref <theme|layout> [value]",
	Short: "Show or change a view preference",
	Long: `With no value, prints the current preference. Theme is light or dark;
layout is stacked, preview-left or preview-right.`,
	Args: cobra.RangeArgs(1, 2),
	RunE: func(cmd *cobra.Command, args []string) error {
		pref, err := fragment.ParsePreference(args[0])
		if err != nil {
			return err
		}

		ctx := context.Background()
		a, err := openApp(ctx, nil)
		if err != nil {
			return err
		}
		defer a.Close()

		if len(args) == 2 {
			if err := a.session.OnPreferenceChange(ctx, args[0], args[1]); err != nil {
				return err
			}
		}
		_, prefs := a.session.Snapshot()
		switch pref {
		case fragment.PrefTheme:
			fmt.Printf("theme: %s\n", prefs.Theme)
		default:
			fmt.Printf("layout: %s\n", prefs.Layout)
		}
		return nil
	},
}

func init() {
	clearCmd.Flags().BoolVarP(&clearYes, "yes", "y", false, "Skip the confirmation prompt")
	deleteCmd.Flags().BoolVarP(&deleteYes, "yes", "y", false, "Skip the confirmation prompt")
	rootCmd.AddCommand(setCmd)
	rootCmd.AddCommand(copyCmd)
	rootCmd.AddCommand(deleteCmd)
	rootCmd.AddCommand(clearCmd)
	rootCmd.AddCommand(prefCmd)
}
