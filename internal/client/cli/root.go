package cli

import (
	"bufio"
	"context"
	"fmt"
	"os"
	"strings"
)

func (a *App) getStatus() string {
	s := ""
	if u := a.state.User(); u != nil {
		s = u.Name() + " "
	}
	s += string(a.Mode)
	return fmt.Sprintf("(%s)", s)
}

func (a *App) Root(ctx context.Context) {
	fmt.Println("Welcome to the treeboard CLI (type 'help' for commands)")
	scanner := bufio.NewScanner(os.Stdin)

	a.login(ctx)

	go a.StartOnlineStatusWatcher(ctx, a.config.OnlineCheckInterval)

	for {
		fmt.Printf("tree %s> ", a.getStatus())
		if !scanner.Scan() {
			break
		}
		line := scanner.Text()
		parts := strings.Fields(line)
		if len(parts) == 0 {
			continue
		}

		cmd := parts[0]
		args := parts[1:]

		switch cmd {
		case "help":
			if a.isLoggedIn() {
				fmt.Println("Available commands: trees [query], view <email|id>, send <email|id>, open <n>, customize, missions, status, seed, connect, logout, exit")
			} else {
				fmt.Println("Available commands: login, connect, seed, status, exit")
			}

		case "login":
			a.login(ctx)
		case "trees":
			a.trees(ctx, strings.Join(args, " "))
		case "view":
			if len(args) == 0 {
				fmt.Println("Usage: view <email|id>")
				continue
			}
			a.view(ctx, args[0])
		case "send":
			if len(args) == 0 {
				fmt.Println("Usage: send <email|id>")
				continue
			}
			a.send(ctx, args[0])
		case "open":
			if len(args) == 0 {
				fmt.Println("Usage: open <n>")
				continue
			}
			a.open(args[0])
		case "customize":
			a.customize(ctx)
		case "missions":
			a.missionsProgress(ctx)
		case "status":
			a.status()
		case "seed":
			a.seed(ctx)
		case "connect":
			a.connect(ctx)
		case "logout":
			a.logout()
		case "exit", "quit":
			fmt.Println("Bye!")
			return
		default:
			fmt.Println("Unknown command:", cmd)
		}
	}
}

func (a *App) logout() {
	_ = a.sync.Close()
	a.state.SetUser(nil)
	a.state.SetView("")
	fmt.Println("Logged out")
}
