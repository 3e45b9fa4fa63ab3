package cli

import (
	"bufio"
	"context"
	"fmt"
	"slices"
	"strings"

	"github.com/dmitrijs2005/depositkeeper/internal/client/client"
	"github.com/dmitrijs2005/depositkeeper/internal/logging"
)

// printlnFn is a test seam for user-facing output.
var printlnFn = fmt.Println

// execIface is the command surface the REPL dispatches to. App implements
// it; tests use a recording stub.
type execIface interface {
	isLoggedIn() bool

	Register(ctx context.Context) error
	Verified(ctx context.Context) error
	Login(ctx context.Context) error
	Logout(ctx context.Context) error
	Whoami(ctx context.Context) error
	Theme(ctx context.Context, args []string) error

	Properties(ctx context.Context) error
	AddProperty(ctx context.Context) error
	UseProperty(ctx context.Context, args []string) error
	DeleteProperty(ctx context.Context, args []string) error

	Rooms(ctx context.Context) error
	AddRoom(ctx context.Context, args []string) error
	UseRoom(ctx context.Context, args []string) error
	DeleteRoom(ctx context.Context, args []string) error
	IssueNote(ctx context.Context) error
	MoveOutNote(ctx context.Context) error
	Quality(ctx context.Context, args []string) error
	Progress(ctx context.Context) error

	Capture(ctx context.Context, args []string) error
	Staged(ctx context.Context) error
	Upload(ctx context.Context, args []string) error
	Photos(ctx context.Context) error
	Tag(ctx context.Context, args []string) error
	Untag(ctx context.Context, args []string) error
	PhotoNote(ctx context.Context, args []string) error
	DeletePhoto(ctx context.Context, args []string) error

	Send(ctx context.Context, args []string) error
	ShareSuccess(ctx context.Context) error
	Reports(ctx context.Context, args []string) error
	Report(ctx context.Context, args []string) error
	RenameReport(ctx context.Context, args []string) error
	ArchiveReport(ctx context.Context, args []string) error
	DeleteReport(ctx context.Context, args []string) error
	Shared(ctx context.Context, args []string) error

	Stats(ctx context.Context) error
}

const (
	helpLoggedOut = `Commands:
  register | login          create an account or sign in
  verified                  confirm the email verification link was followed
  shared <uuid> [approve | reject <reason>]
                            open a report shared with you
  stats                     request counters
  exit | quit`

	helpLoggedIn = `Commands:
  properties                list your properties
  property add | property delete <id>
  use <property-id>         select a property and show its rooms
  rooms                     rooms of the selected property
  room add [id] | room use <id> | room delete <id>
  issue | note              add a move-in issue or a move-out note to the room
  quality <good|attention|none>
  progress                  walkthrough progress
  capture <file> [move-out] stage a photo for the room
  staged                    staged photos of the room
  upload [move-out]         upload staged photos
  photos                    uploaded photos of the room
  tag <photo> <tag> | untag <photo> <tag>
  photo note <id> | photo delete <id>
  send [type]               create the report and email the landlord
  shared-link               show the link of the last sent report
  reports [all]             reports of the selected property
  report <id> | report rename|archive|delete <id>
  shared <uuid> [approve | reject <reason> | notify]
  theme [light|dark] | whoami | stats | logout
  exit | quit`
)

// runREPL reads commands from scanner until EOF, "exit" or "quit". The
// first token picks the command; the rest are its arguments. Command
// errors are printed and the loop goes on.
func runREPL(ctx context.Context, a execIface, statusFn func() string, scanner *bufio.Scanner) {
	for {
		printlnFn(fmt.Sprintf("dk %s> ", statusFn()))
		if !scanner.Scan() {
			return
		}
		parts := strings.Fields(scanner.Text())
		if len(parts) == 0 {
			continue
		}
		cmd, args := parts[0], parts[1:]

		switch cmd {
		case "exit", "quit":
			printlnFn("Bye!")
			return
		case "help":
			if a.isLoggedIn() {
				printlnFn(helpLoggedIn)
			} else {
				printlnFn(helpLoggedOut)
			}
			continue
		}

		if err := dispatch(logging.WithFields(ctx, "command", cmd), a, cmd, args); err != nil {
			printlnFn("Error:", client.Message(err))
		}
	}
}

func dispatch(ctx context.Context, a execIface, cmd string, args []string) error {
	// available without a session
	switch cmd {
	case "register":
		return a.Register(ctx)
	case "verified":
		return a.Verified(ctx)
	case "login":
		return a.Login(ctx)
	case "shared":
		return a.Shared(ctx, args)
	case "stats":
		return a.Stats(ctx)
	}

	if !a.isLoggedIn() {
		if isKnown(cmd) {
			printlnFn("Please log in first")
		} else {
			printlnFn("Unknown command:", cmd)
		}
		return nil
	}

	sub, rest := "", []string(nil)
	if len(args) > 0 {
		sub, rest = args[0], args[1:]
	}

	switch cmd {
	case "logout":
		return a.Logout(ctx)
	case "whoami":
		return a.Whoami(ctx)
	case "theme":
		return a.Theme(ctx, args)

	case "properties":
		return a.Properties(ctx)
	case "property":
		switch sub {
		case "add":
			return a.AddProperty(ctx)
		case "delete":
			return a.DeleteProperty(ctx, rest)
		}
		return errUsage("property add | property delete <id>")
	case "use":
		return a.UseProperty(ctx, args)

	case "rooms":
		return a.Rooms(ctx)
	case "room":
		switch sub {
		case "add":
			return a.AddRoom(ctx, rest)
		case "use":
			return a.UseRoom(ctx, rest)
		case "delete":
			return a.DeleteRoom(ctx, rest)
		}
		return errUsage("room add [id] | room use <id> | room delete <id>")
	case "issue":
		return a.IssueNote(ctx)
	case "note":
		return a.MoveOutNote(ctx)
	case "quality":
		return a.Quality(ctx, args)
	case "progress":
		return a.Progress(ctx)

	case "capture":
		return a.Capture(ctx, args)
	case "staged":
		return a.Staged(ctx)
	case "upload":
		return a.Upload(ctx, args)
	case "photos":
		return a.Photos(ctx)
	case "tag":
		return a.Tag(ctx, args)
	case "untag":
		return a.Untag(ctx, args)
	case "photo":
		switch sub {
		case "note":
			return a.PhotoNote(ctx, rest)
		case "delete":
			return a.DeletePhoto(ctx, rest)
		}
		return errUsage("photo note <id> | photo delete <id>")

	case "send":
		return a.Send(ctx, args)
	case "shared-link":
		return a.ShareSuccess(ctx)
	case "reports":
		return a.Reports(ctx, args)
	case "report":
		switch sub {
		case "rename":
			return a.RenameReport(ctx, rest)
		case "archive":
			return a.ArchiveReport(ctx, rest)
		case "delete":
			return a.DeleteReport(ctx, rest)
		}
		return a.Report(ctx, args)
	}

	printlnFn("Unknown command:", cmd)
	return nil
}

var knownCommands = []string{
	"logout", "whoami", "theme", "properties", "property", "use", "rooms", "room",
	"issue", "note", "quality", "progress", "capture", "staged", "upload", "photos",
	"tag", "untag", "photo", "send", "shared-link", "reports", "report",
}

func isKnown(cmd string) bool {
	return slices.Contains(knownCommands, cmd)
}

// Root starts the connectivity watcher and runs the REPL on stdin.
func (a *App) Root(ctx context.Context) {
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	a.checkOnline(ctx)
	go a.StartOnlineStatusWatcher(ctx, a.config.OnlineCheckInterval)

	runREPL(ctx, a, a.status, bufio.NewScanner(a.reader))
}

// status is the prompt prefix: mode, user and selection.
func (a *App) status() string {
	parts := []string{string(a.mode())}
	if u := a.svc.Auth.User(); u != nil {
		parts = append(parts, u.Email)
	}
	a.mu.Lock()
	if a.propertyID != "" {
		parts = append(parts, "property "+string(a.propertyID))
	}
	if a.roomID != "" {
		parts = append(parts, "room "+string(a.roomID))
	}
	a.mu.Unlock()
	return strings.Join(parts, " | ")
}
