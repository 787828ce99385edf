package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log"
	"net/http"
	"strconv"
	"strings"

	"booking-client/internal/pages"
)

// repl keeps one session open across commands until exit, EOF or ctx ends.
func (a *app) repl(ctx context.Context) error {
	if err := a.sh.Restore(ctx); err != nil {
		return err
	}

	if addr := a.cfg.Metrics.Addr; addr != "" {
		srv := &http.Server{Addr: addr, Handler: a.metrics.Handler()}
		go func() {
			log.Printf("metrics on %s", addr)
			if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
				log.Printf("metrics: %v", err)
			}
		}()
		defer srv.Close()
	}

	cmds := a.commands()
	a.greet()
	for {
		if ctx.Err() != nil {
			return nil
		}
		fmt.Fprintf(a.out, "%s> ", a.sh.Page())
		line, err := a.in.ReadString('\n')
		if err != nil && (line == "" || !errors.Is(err, io.EOF)) {
			if errors.Is(err, io.EOF) {
				fmt.Fprintln(a.out)
				return nil
			}
			return err
		}

		args, perr := splitArgs(line)
		if perr != nil {
			fmt.Fprintf(a.errOut, "error: %v\n", perr)
			continue
		}
		if len(args) == 0 {
			continue
		}

		switch args[0] {
		case "exit", "quit":
			return nil
		case "help":
			usage(a.out)
			fmt.Fprintln(a.out, "shell only: nav PAGE, pages, toasts, dismiss ID, exit")
		case "pages":
			pages.RenderSidebar(a.out, a.sh.Sidebar())
		case "nav":
			a.report(a.nav(ctx, args[1:]))
		case "toasts":
			for _, t := range a.toasts.List() {
				fmt.Fprintf(a.out, "%d [%s] %s\n", t.ID, t.Type, t.Message)
			}
		case "dismiss":
			if len(args) < 2 {
				fmt.Fprintln(a.errOut, "usage: dismiss ID")
				continue
			}
			id, err := strconv.Atoi(args[1])
			if err != nil {
				fmt.Fprintf(a.errOut, "error: bad toast id %q\n", args[1])
				continue
			}
			a.toasts.Remove(id)
		case "shell":
			fmt.Fprintln(a.errOut, "already in the shell")
		default:
			cmd, ok := cmds[args[0]]
			if !ok {
				fmt.Fprintf(a.errOut, "unknown command %q, try help\n", args[0])
				continue
			}
			if err := cmd(ctx, args[1:]); err != nil {
				a.report(err)
			}
		}
	}
}

func (a *app) greet() {
	if !a.sh.LoggedIn() {
		fmt.Fprintln(a.out, "Not logged in. Use login or register; help lists commands.")
		return
	}
	pages.RenderSidebar(a.out, a.sh.Sidebar())
	pages.RenderDashboard(a.out, a.sh.DashboardView())
}

// nav switches page and shows it.
func (a *app) nav(ctx context.Context, args []string) error {
	if len(args) == 0 {
		return errors.New("usage: nav dashboard|appointments|book|profile|admin")
	}
	p, err := pages.ParsePage(args[0])
	if err != nil {
		return err
	}
	switch p {
	case pages.Dashboard:
		return a.dashboard(ctx, nil)
	case pages.Appointments:
		return a.list(ctx, nil)
	case pages.Profile:
		return a.profile(ctx, nil)
	case pages.Admin:
		return a.admin(ctx, nil)
	}
	if err := a.sh.Navigate(p); err != nil {
		return err
	}
	fmt.Fprintln(a.out, "book -service S -date YYYY-MM-DD -time HH:MM")
	return nil
}

// splitArgs splits a line on blanks, keeping double-quoted runs together.
func splitArgs(line string) ([]string, error) {
	var (
		args    []string
		cur     strings.Builder
		quoted  bool
		started bool
	)
	for _, r := range line {
		switch {
		case r == '"':
			quoted = !quoted
			started = true
		case !quoted && (r == ' ' || r == '\t' || r == '\n' || r == '\r'):
			if started {
				args = append(args, cur.String())
				cur.Reset()
				started = false
			}
		default:
			cur.WriteRune(r)
			started = true
		}
	}
	if quoted {
		return nil, errors.New("unterminated quote")
	}
	if started {
		args = append(args, cur.String())
	}
	return args, nil
}
