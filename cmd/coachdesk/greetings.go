package main

import (
	"fmt"
	"io"
	"math/rand/v2"

	"github.com/charmbracelet/lipgloss"
)

var tableTips = [...]string{
	"Loose grip, quick wrist. The paddle is not a hammer.",
	"Watch the ball off your opponent's racket, not the ball on your own.",
	"Footwork first. A good stroke from a bad position is a bad stroke.",
	"Short serves win points you never have to play.",
	"Return to the ready position after every shot. Every one.",
	"Spin you cannot read is spin you have not practised against.",
	"Ten minutes of shadow play beats an hour of watching matches.",
	"Brush the ball for spin. Hit through it for speed. Decide before you swing.",
	"The table is 2.74 metres long. Use all of it.",
	"Lose the rally, keep the lesson.",
}

func printHelp() {
	title := lipgloss.NewStyle().
		Foreground(lipgloss.Color("#ff8a3d")).
		Bold(true).
		Render("C O A C H D E S K")

	sub := lipgloss.NewStyle().
		Foreground(lipgloss.Color("245")).
		Italic(true).
		Render("Table tennis training, from the terminal.")

	cmdStyle := lipgloss.NewStyle().Bold(true)
	descStyle := lipgloss.NewStyle().Foreground(lipgloss.Color("245"))
	commands := []struct{ cmd, desc string }{
		{"coachdesk", "Open the training desk (interactive TUI)"},
		{"coachdesk login [user]", "Sign in with username and password"},
		{"coachdesk register", "Create a student account (-coach to apply as a coach)"},
		{"coachdesk logout", "Clear the stored session"},
		{"coachdesk whoami", "Show the signed-in account"},
		{"coachdesk profile", "Show your profile, or update it with -name -phone -email"},
		{"coachdesk passwd", "Change your password (signs you out)"},
		{"coachdesk --version", "Show version"},
		{"coachdesk help", "You are here"},
	}

	fmt.Printf("\n  %s\n\n  %s\n\n  Commands:\n", title, sub)
	for _, c := range commands {
		fmt.Printf("    %s  %s\n", cmdStyle.Render(fmt.Sprintf("%-24s", c.cmd)), descStyle.Render(c.desc))
	}
	env := lipgloss.NewStyle().Foreground(lipgloss.Color("245")).
		Render("Environment: COACHDESK_API_URL, COACHDESK_TOKEN, COACHDESK_HOME, COACHDESK_LOG_LEVEL")
	fmt.Printf("\n  %s\n\n", env)
}

func printSignedOutGreeting(out io.Writer) {
	tip := tableTips[rand.IntN(len(tableTips))]

	title := lipgloss.NewStyle().
		Foreground(lipgloss.Color("#ff8a3d")).
		Bold(true).
		Render("COACHDESK")

	quote := lipgloss.NewStyle().
		Foreground(lipgloss.Color("245")).
		Italic(true).
		Render(tip)

	hint := lipgloss.NewStyle().
		Foreground(lipgloss.Color("245")).
		Render("Not logged in. To sign in: coachdesk login")

	fmt.Fprintf(out, "\n%s\n\n%s\n\n%s\n\n", title, quote, hint) //nolint:errcheck
}
