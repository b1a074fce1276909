// academyctl is a small operator CLI for the academy API: it drives
// the login handshake (including the two-step administrator flow) and
// a handful of read endpoints on top of pkg/academyclient.
package main

import (
	"bufio"
	"context"
	"flag"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"syscall"
	"time"

	"golang.org/x/term"

	"github.com/imusici/academy-system/pkg/academyclient"
)

const defaultServer = "http://localhost:8080"

// stdin is shared across prompts so a piped invocation does not lose
// buffered lines between reads.
var stdin = bufio.NewReader(os.Stdin)

func main() {
	if err := run(os.Args[1:]); err != nil {
		fmt.Fprintln(os.Stderr, "academyctl:", err)
		os.Exit(1)
	}
}

func run(args []string) error {
	if len(args) == 0 {
		usage()
		return fmt.Errorf("missing command")
	}

	client, err := newClient()
	if err != nil {
		return err
	}

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	command, rest := args[0], args[1:]
	switch command {
	case "login":
		return cmdLogin(ctx, client, rest)
	case "admin-login":
		return cmdAdminLogin(ctx, client, rest)
	case "whoami":
		return cmdWhoami(ctx, client)
	case "logout":
		return cmdLogout(ctx, client)
	case "seed":
		return cmdSeed(ctx, client)
	case "users":
		return cmdUsers(ctx, client, rest)
	case "slots":
		return cmdSlots(ctx, client, rest)
	case "stats":
		return cmdStats(ctx, client)
	case "help", "-h", "--help":
		usage()
		return nil
	default:
		usage()
		return fmt.Errorf("unknown command %q", command)
	}
}

func usage() {
	fmt.Fprintln(os.Stderr, `usage: academyctl <command> [flags]

commands:
  login        sign in with email and password
  admin-login  two-step administrator sign in (PIN + Google)
  whoami       show the current session
  logout       end the session
  seed         populate an empty database with demo accounts
  users        list accounts (admin)
  slots        list lesson slots
  stats        show the admin dashboard counters

The server defaults to http://localhost:8080; override with ACADEMY_SERVER.`)
}

// newClient builds a client whose credentials persist in the user's
// config directory, so sessions survive between invocations.
func newClient() (*academyclient.Client, error) {
	server := os.Getenv("ACADEMY_SERVER")
	if server == "" {
		server = defaultServer
	}

	configDir, err := os.UserConfigDir()
	if err != nil {
		return nil, fmt.Errorf("locate config dir: %w", err)
	}
	store := academyclient.NewFileStore(filepath.Join(configDir, "academyctl", "credentials.json"))
	return academyclient.New(server, store), nil
}

func cmdLogin(ctx context.Context, client *academyclient.Client, args []string) error {
	fs := flag.NewFlagSet("login", flag.ContinueOnError)
	email := fs.String("email", "", "account email")
	role := fs.String("role", "", "required role (insegnante, allievo, segretaria)")
	if err := fs.Parse(args); err != nil {
		return err
	}
	if *email == "" {
		return fmt.Errorf("login: -email is required")
	}

	password, err := promptSecret("Password: ")
	if err != nil {
		return err
	}

	user, err := client.LoginWithCredentials(ctx, *email, password, *role)
	if err != nil {
		return err
	}
	fmt.Printf("Logged in as %s %s (%s)\n", user.FirstName, user.LastName, user.Role)
	return nil
}

func cmdAdminLogin(ctx context.Context, client *academyclient.Client, args []string) error {
	fs := flag.NewFlagSet("admin-login", flag.ContinueOnError)
	email := fs.String("email", "", "administrator email")
	redirect := fs.String("redirect", defaultServer, "URL the provider should redirect back to")
	if err := fs.Parse(args); err != nil {
		return err
	}
	if *email == "" {
		return fmt.Errorf("admin-login: -email is required")
	}

	pin, err := promptSecret("PIN: ")
	if err != nil {
		return err
	}
	if err := client.LoginAdminPIN(ctx, *email, pin); err != nil {
		return err
	}

	fmt.Println("PIN accepted. Open this URL, sign in with Google, then paste the URL you are redirected to:")
	fmt.Println("  " + client.AdminAuthURL(*redirect))

	callback, err := promptLine("Redirect URL: ")
	if err != nil {
		return err
	}

	user, err := client.CompleteAdminLogin(ctx, callback)
	if err != nil {
		return err
	}
	fmt.Printf("Logged in as %s %s (%s)\n", user.FirstName, user.LastName, user.Role)
	return nil
}

func cmdWhoami(ctx context.Context, client *academyclient.Client) error {
	user, err := client.RestoreSession(ctx)
	if err != nil {
		return err
	}
	if user == nil {
		fmt.Println("Not logged in.")
		return nil
	}
	fmt.Printf("%s %s <%s> — %s\n", user.FirstName, user.LastName, user.Email, user.Role)
	return nil
}

func cmdLogout(ctx context.Context, client *academyclient.Client) error {
	if err := client.Logout(ctx); err != nil {
		// Local state is already cleared; the server will expire the
		// session on its own.
		fmt.Fprintln(os.Stderr, "warning: server logout failed:", err)
	}
	fmt.Println("Logged out.")
	return nil
}

func cmdSeed(ctx context.Context, client *academyclient.Client) error {
	message, err := client.Seed(ctx)
	if err != nil {
		return err
	}
	fmt.Println(message)
	return nil
}

func cmdUsers(ctx context.Context, client *academyclient.Client, args []string) error {
	fs := flag.NewFlagSet("users", flag.ContinueOnError)
	role := fs.String("role", "", "filter by role")
	active := fs.Bool("active", false, "only active accounts")
	if err := fs.Parse(args); err != nil {
		return err
	}

	users, err := client.Users(ctx, academyclient.ListUsersFilter{Role: *role, ActiveOnly: *active})
	if err != nil {
		return err
	}
	for _, u := range users {
		status := "active"
		if !u.Active {
			status = "disabled"
		}
		fmt.Printf("%-36s  %-12s  %-8s  %s %s <%s>\n", u.ID, u.Role, status, u.FirstName, u.LastName, u.Email)
	}
	return nil
}

func cmdSlots(ctx context.Context, client *academyclient.Client, args []string) error {
	fs := flag.NewFlagSet("slots", flag.ContinueOnError)
	teacher := fs.String("teacher", "", "filter by teacher id")
	status := fs.String("status", "", "filter by status (disponibile, prenotato, annullato)")
	from := fs.String("from", "", "start date YYYY-MM-DD")
	to := fs.String("to", "", "end date YYYY-MM-DD")
	if err := fs.Parse(args); err != nil {
		return err
	}

	slots, err := client.Slots(ctx, academyclient.ListSlotsFilter{
		TeacherID: *teacher,
		Status:    *status,
		From:      *from,
		To:        *to,
	})
	if err != nil {
		return err
	}
	for _, s := range slots {
		who := ""
		if s.Teacher != nil {
			who = s.Teacher.FirstName + " " + s.Teacher.LastName
		}
		fmt.Printf("%-36s  %s %s  %-12s  %-12s  %s\n",
			s.ID, s.Date.Format("2006-01-02"), s.Hour, s.Instrument, s.Status, who)
	}
	return nil
}

func cmdStats(ctx context.Context, client *academyclient.Client) error {
	stats, err := client.Stats(ctx)
	if err != nil {
		return err
	}
	fmt.Printf("Allievi attivi:      %d\n", stats.ActiveStudents)
	fmt.Printf("Insegnanti attivi:   %d\n", stats.ActiveTeachers)
	fmt.Printf("Pagamenti aperti:    %d\n", stats.UnpaidPayments)
	fmt.Printf("Notifiche attive:    %d\n", stats.ActiveNotifications)
	fmt.Printf("Presenze oggi:       %d\n", stats.AttendanceToday)
	return nil
}

// promptSecret reads a line without echoing it; falls back to a plain
// read when stdin is not a terminal (pipes in tests and scripts).
func promptSecret(prompt string) (string, error) {
	fmt.Fprint(os.Stderr, prompt)
	if term.IsTerminal(int(syscall.Stdin)) {
		secret, err := term.ReadPassword(int(syscall.Stdin))
		fmt.Fprintln(os.Stderr)
		if err != nil {
			return "", err
		}
		return string(secret), nil
	}
	return readLine()
}

func promptLine(prompt string) (string, error) {
	fmt.Fprint(os.Stderr, prompt)
	return readLine()
}

func readLine() (string, error) {
	line, err := stdin.ReadString('\n')
	if err != nil && line == "" {
		return "", err
	}
	return strings.TrimSpace(line), nil
}
