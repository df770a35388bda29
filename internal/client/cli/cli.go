// Package cli is the terminal front end for the session controller.
package cli

import (
	"bufio"
	"context"
	"errors"
	"flag"
	"fmt"
	"io"

	"github.com/hongminglow/authflow/internal/models/dto"
	"github.com/hongminglow/authflow/internal/session"
)

// ErrUsage is returned for an unknown command or bad flags.
var ErrUsage = errors.New("usage")

const usage = `usage: authflow <command> [flags]

commands:
  status                         show the current session
  login [-username name]         sign in and store the token
  logout                         forget the stored token
  register [-username name] [-firstname name] [-lastname name]
                                 create an account
`

// App runs one command against a session controller.
type App struct {
	ctrl *session.Controller
	in   *bufio.Reader
	out  io.Writer
}

// New builds an App reading prompts from in and writing to out.
func New(ctrl *session.Controller, in io.Reader, out io.Writer) *App {
	return &App{ctrl: ctrl, in: bufio.NewReader(in), out: out}
}

// Navigator prints navigation effects to w.
func Navigator(w io.Writer) session.Navigator {
	return session.NavigatorFunc(func(route session.Route) {
		fmt.Fprintf(w, "-> %s\n", route)
	})
}

// Run settles the session from the stored token and dispatches args[0].
func (a *App) Run(ctx context.Context, args []string) error {
	if len(args) == 0 {
		fmt.Fprint(a.out, usage)
		return ErrUsage
	}

	a.ctrl.Initialize(ctx)

	switch args[0] {
	case "status":
		return a.status()
	case "login":
		return a.login(ctx, args[1:])
	case "logout":
		a.ctrl.Logout(ctx)
		fmt.Fprintln(a.out, "logged out")
		return nil
	case "register":
		return a.register(ctx, args[1:])
	case "help", "-h", "--help":
		fmt.Fprint(a.out, usage)
		return nil
	default:
		fmt.Fprintf(a.out, "unknown command %q\n\n%s", args[0], usage)
		return ErrUsage
	}
}

func (a *App) status() error {
	snap := a.ctrl.Snapshot()
	if !snap.Authenticated() {
		fmt.Fprintf(a.out, "state: %s\n", snap.State)
		return nil
	}
	fmt.Fprintf(a.out, "state: %s\nuser:  %s (%s)\n", snap.State, snap.User.DisplayName(), snap.User.Username)
	return nil
}

func (a *App) login(ctx context.Context, args []string) error {
	fs := a.flagSet("login")
	username := fs.String("username", "", "account username")
	if err := fs.Parse(args); err != nil {
		return fmt.Errorf("%w: %v", ErrUsage, err)
	}

	if err := a.fill(username, "Username"); err != nil {
		return err
	}
	password, err := promptPassword(a.in, a.out)
	if err != nil {
		return fmt.Errorf("read password: %w", err)
	}

	if err := a.ctrl.Login(ctx, *username, password); err != nil {
		fmt.Fprintf(a.out, "login failed: %s\n", session.Message(err))
		return err
	}
	if user := a.ctrl.User(); user != nil {
		fmt.Fprintf(a.out, "welcome, %s\n", user.DisplayName())
	}
	return nil
}

func (a *App) register(ctx context.Context, args []string) error {
	fs := a.flagSet("register")
	var req dto.RegisterRequest
	fs.StringVar(&req.Username, "username", "", "account username")
	fs.StringVar(&req.Firstname, "firstname", "", "first name")
	fs.StringVar(&req.Lastname, "lastname", "", "last name")
	if err := fs.Parse(args); err != nil {
		return fmt.Errorf("%w: %v", ErrUsage, err)
	}

	for _, field := range []struct {
		dst    *string
		prompt string
	}{
		{&req.Username, "Username"},
		{&req.Firstname, "First name"},
		{&req.Lastname, "Last name"},
	} {
		if err := a.fill(field.dst, field.prompt); err != nil {
			return err
		}
	}

	password, err := promptPassword(a.in, a.out)
	if err != nil {
		return fmt.Errorf("read password: %w", err)
	}
	req.Password = password

	if err := a.ctrl.Register(ctx, req); err != nil {
		fmt.Fprintf(a.out, "registration failed: %s\n", session.Message(err))
		return err
	}
	fmt.Fprintln(a.out, "account created; run `authflow login` to sign in")
	return nil
}

// fill prompts for *dst when it was not given as a flag.
func (a *App) fill(dst *string, prompt string) error {
	if *dst != "" {
		return nil
	}
	v, err := promptText(a.in, a.out, prompt)
	if err != nil {
		return fmt.Errorf("read %s: %w", prompt, err)
	}
	*dst = v
	return nil
}

func (a *App) flagSet(name string) *flag.FlagSet {
	fs := flag.NewFlagSet(name, flag.ContinueOnError)
	fs.SetOutput(a.out)
	return fs
}
