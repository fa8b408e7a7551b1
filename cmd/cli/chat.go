package main

import (
	"bufio"
	"fmt"
	"io"
	"strings"

	"github.com/spf13/cobra"
)

// replayLimit is how many stored messages are shown when a chat starts.
const replayLimit = 6

const chatHelp = `Commands:
  /history   list past exchanges
  /profile   show your branch, semester and batch
  /clear     clear the transcript
  /quit      leave the chat`

func (c *cli) runChat(cmd *cobra.Command, _ []string) error {
	out := cmd.OutOrStdout()
	a := c.app.Assistant

	fmt.Fprintln(out, titleStyle.Render("GCET academic assistant"))
	fmt.Fprintln(out, mutedStyle.Render("Type /help for commands."))

	transcript := a.Transcript()
	if len(transcript) > replayLimit {
		transcript = transcript[len(transcript)-replayLimit:]
	}
	for _, m := range transcript {
		printMessage(out, m)
	}

	sc := bufio.NewScanner(cmd.InOrStdin())
	for {
		fmt.Fprint(out, promptStyle.Render("› "))
		if !sc.Scan() {
			fmt.Fprintln(out)
			return sc.Err()
		}

		line := strings.TrimSpace(sc.Text())
		switch line {
		case "":
			continue
		case "/quit", "/exit":
			return nil
		case "/help":
			fmt.Fprintln(out, mutedStyle.Render(chatHelp))
		case "/history":
			printHistory(out, a.History())
		case "/profile":
			printProfile(out, a.Profile(), a.ResolvedProfile(), c.app.Options)
		case "/clear":
			c.clearInChat(cmd, out)
		default:
			messages, err := a.Submit(cmd.Context(), line)
			if err != nil {
				printError(out, err)
				continue
			}
			printMessage(out, messages[len(messages)-1])
		}
	}
}

func (c *cli) clearInChat(cmd *cobra.Command, out io.Writer) {
	messages, err := c.app.Assistant.Clear(cmd.Context())
	if err != nil {
		printError(out, err)
		return
	}
	for _, m := range messages {
		printMessage(out, m)
	}
}
