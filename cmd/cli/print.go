package main

import (
	"fmt"
	"io"
	"strconv"

	"github.com/gcet-assistant/backend/internal/model/chat"
	"github.com/gcet-assistant/backend/internal/model/profile"
	"github.com/gcet-assistant/backend/internal/render"
)

func printMessage(w io.Writer, msg chat.Message) {
	text := msg.Content
	if msg.IsMarkup {
		text = render.PlainText(text)
	}
	label := botStyle.Render("assistant ›")
	if msg.Role == chat.RoleUser {
		label = userStyle.Render("you ›")
	}
	fmt.Fprintf(w, "%s %s\n", label, text)
}

func printError(w io.Writer, err error) {
	fmt.Fprintln(w, errorStyle.Render("! "+err.Error()))
}

func printHistory(w io.Writer, conversations []chat.Conversation) {
	if len(conversations) == 0 {
		fmt.Fprintln(w, mutedStyle.Render("No conversations yet."))
		return
	}
	for _, c := range conversations {
		fmt.Fprintf(w, "%s %s\n  %s\n",
			mutedStyle.Render(c.Timestamp.Local().Format("02 Jan 15:04")),
			userStyle.Render(c.UserMessage),
			c.BotMessage,
		)
	}
}

func printProfile(w io.Writer, saved, resolved profile.UserContext, options profile.Options) {
	semester := ""
	if resolved.Semester != 0 {
		semester = strconv.Itoa(resolved.Semester)
	}
	rows := []struct {
		label string
		value string
		set   bool
	}{
		{"Branch", fmt.Sprintf("%s (%s)", resolved.Branch, options.BranchName(resolved.Branch)), saved.Branch != ""},
		{"Semester", semester, saved.Semester != 0},
		{"Batch", resolved.Batch, saved.Batch != ""},
	}
	for _, r := range rows {
		line := fmt.Sprintf("%-9s %s", r.label+":", r.value)
		if !r.set {
			line += " " + mutedStyle.Render("(default)")
		}
		fmt.Fprintln(w, line)
	}
}
