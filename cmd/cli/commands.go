package main

import (
	"strings"

	"github.com/spf13/cobra"
)

func (c *cli) chatCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "chat",
		Short: "Start an interactive chat (default)",
		Args:  cobra.NoArgs,
		RunE:  c.runChat,
	}
}

func (c *cli) askCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "ask [question]",
		Short: "Ask one question and print the reply",
		Example: `  assistant ask "show my timetable"
  assistant ask exam`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			messages, err := c.app.Assistant.Submit(cmd.Context(), strings.Join(args, " "))
			if err != nil {
				return err
			}
			printMessage(cmd.OutOrStdout(), messages[len(messages)-1])
			return nil
		},
	}
}

func (c *cli) historyCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "history",
		Short: "List past exchanges, newest first",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			printHistory(cmd.OutOrStdout(), c.app.Assistant.History())
			return nil
		},
	}
}

func (c *cli) clearCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "clear",
		Short: "Clear the transcript",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			messages, err := c.app.Assistant.Clear(cmd.Context())
			if err != nil {
				return err
			}
			for _, m := range messages {
				printMessage(cmd.OutOrStdout(), m)
			}
			return nil
		},
	}
}

func (c *cli) profileCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "profile",
		Short: "Show or change your branch, semester and batch",
	}

	show := &cobra.Command{
		Use:   "show",
		Short: "Show the profile used for timetable and exam requests",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			a := c.app.Assistant
			printProfile(cmd.OutOrStdout(), a.Profile(), a.ResolvedProfile(), c.app.Options)
			return nil
		},
	}

	var (
		branch   string
		semester int
		batch    string
	)
	set := &cobra.Command{
		Use:   "set",
		Short: "Save profile fields; unset flags keep their saved value",
		Example: `  assistant profile set --branch ECE --semester 4 --batch 2023
  assistant profile set --semester 6`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			a := c.app.Assistant
			uc := a.Profile()
			flags := cmd.Flags()
			if flags.Changed("branch") {
				uc.Branch = branch
			}
			if flags.Changed("semester") {
				uc.Semester = semester
			}
			if flags.Changed("batch") {
				uc.Batch = batch
			}

			saved, err := a.SaveProfile(cmd.Context(), uc)
			if err != nil {
				return err
			}
			printProfile(cmd.OutOrStdout(), saved, a.ResolvedProfile(), c.app.Options)
			return nil
		},
	}
	set.Flags().StringVar(&branch, "branch", "", "branch code, e.g. CSE or ECE")
	set.Flags().IntVar(&semester, "semester", 0, "semester, 1 to 8")
	set.Flags().StringVar(&batch, "batch", "", "batch year, e.g. 2023")

	cmd.AddCommand(show, set)
	return cmd
}
