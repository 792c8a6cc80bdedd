package cmd

import (
	"bufio"
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/MarijnSt/soccermatics-project-1/internal/report"
	"github.com/MarijnSt/soccermatics-project-1/internal/storage"
)

var (
	cPrompt   = color.New(color.FgCyan, color.Bold)
	cMuted    = color.New(color.Faint)
	cError    = color.New(color.FgRed, color.Bold)
	cWarn     = color.New(color.FgYellow)
	cCmd      = color.New(color.FgYellow, color.Bold)
	cGreeting = color.New(color.Bold)
)

var shellCmd = &cobra.Command{
	Use:   "shell",
	Short: "Start an interactive REPL session",
	Long:  "Open a persistent session against the database. Type 'help' for available commands.",
	Args:  cobra.NoArgs,
	RunE:  runShell,
}

func runShell(_ *cobra.Command, _ []string) error {
	db, err := storage.Open(dbPath)
	if err != nil {
		return fmt.Errorf("open storage: %w", err)
	}
	defer db.Close()

	cGreeting.Println("soccermetrics shell")
	cMuted.Println("type 'help' or 'exit'")
	fmt.Println()

	scanner := bufio.NewScanner(os.Stdin)
	for {
		cPrompt.Print("soccermetrics")
		cMuted.Print("> ")
		if !scanner.Scan() {
			fmt.Println()
			break
		}
		line := strings.TrimSpace(scanner.Text())
		if line == "" {
			continue
		}

		tokens := strings.Fields(line)
		cmd, args := tokens[0], tokens[1:]

		switch cmd {
		case "exit", "quit":
			return nil
		case "help":
			shellHelp()
		case "list":
			shellList(db)
		case "show":
			if len(args) == 0 {
				cError.Fprintln(os.Stderr, "usage: show <match-id> [--danger-only]")
				continue
			}
			matchID, err := strconv.ParseInt(args[0], 10, 64)
			if err != nil {
				cError.Fprintf(os.Stderr, "invalid match id %q\n", args[0])
				continue
			}
			dangerOnly := len(args) > 1 && args[1] == "--danger-only"
			if err := showMatch(os.Stdout, db, matchID, dangerOnly); err != nil {
				if errors.Is(err, storage.ErrNotFound) {
					cWarn.Fprintf(os.Stderr, "no match stored with id %d\n", matchID)
					continue
				}
				cError.Fprintf(os.Stderr, "error: %v\n", err)
			}
		case "players":
			shellPlayers(db, args)
		case "player":
			if len(args) == 0 {
				cError.Fprintln(os.Stderr, "usage: player <player-id> [<player-id>...]")
				continue
			}
			ids, err := parsePlayerIDs(args)
			if err != nil {
				cError.Fprintf(os.Stderr, "error: %v\n", err)
				continue
			}
			if err := printPlayerHistory(os.Stdout, db, ids); err != nil {
				cError.Fprintf(os.Stderr, "error: %v\n", err)
			}
		default:
			cWarn.Fprintf(os.Stderr, "unknown command %q, type 'help'\n", cmd)
		}
	}
	return scanner.Err()
}

func shellHelp() {
	fmt.Println()
	type entry struct{ cmd, desc string }
	rows := []entry{
		{"list", "list all stored matches"},
		{"show <match-id>", "clocks, playing time, dribbles and anomalies of a match"},
		{"show <match-id> --danger-only", "same, listing only danger dribbles"},
		{"players [sort] [limit]", "season table, default sort 'danger', limit 25"},
		{"player <player-id> [...]", "per-match history for one or more players"},
		{"help", "show this message"},
		{"exit / quit", "close the session"},
	}
	for _, r := range rows {
		fmt.Print("  ")
		cCmd.Printf("%-34s", r.cmd)
		fmt.Println(r.desc)
	}
	fmt.Println()
}

func shellList(db *storage.DB) {
	matches, err := db.ListMatches()
	if err != nil {
		cError.Fprintf(os.Stderr, "error: %v\n", err)
		return
	}
	if len(matches) == 0 {
		cMuted.Println("No matches stored yet.")
		return
	}
	report.PrintMatchList(os.Stdout, matches)
}

func shellPlayers(db *storage.DB, args []string) {
	q := seasonQuery{sortBy: "danger", limit: 25}
	if len(args) > 0 {
		q.sortBy = args[0]
	}
	if len(args) > 1 {
		n, err := strconv.Atoi(args[1])
		if err != nil {
			cError.Fprintf(os.Stderr, "invalid limit %q\n", args[1])
			return
		}
		q.limit = n
	}
	rows, err := loadSeason(db, q)
	if err != nil {
		cError.Fprintf(os.Stderr, "error: %v\n", err)
		return
	}
	if len(rows) == 0 {
		cMuted.Println("No players stored yet.")
		return
	}
	report.PrintSeasonTable(os.Stdout, rows)
}
