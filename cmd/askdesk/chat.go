package main

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/pkg/errors"
	"github.com/spf13/cobra"

	"github.com/askdesk/askdesk/internal/client"
	"github.com/askdesk/askdesk/internal/session"
)

func newChatCmd() *cobra.Command {
	var (
		serverURL string
		register  bool
	)

	cmd := &cobra.Command{
		Use:   "chat",
		Short: "Chat with the askdesk assistant from the terminal",
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runChat(cmd, serverURL, register)
		},
	}

	cmd.Flags().StringVar(&serverURL, "server", "http://localhost:8081", "askdesk server URL")
	cmd.Flags().BoolVar(&register, "register", false, "create a new account instead of signing in")
	return cmd
}

func runChat(cmd *cobra.Command, serverURL string, register bool) error {
	ctx := cmd.Context()
	out := cmd.OutOrStdout()
	in := bufio.NewScanner(cmd.InOrStdin())

	creds, err := client.NewCredentialStore("")
	if err != nil {
		return err
	}
	apiClient := client.New(serverURL)

	user, err := ensureSignedIn(ctx, apiClient, creds, in, out, register)
	if err != nil {
		return err
	}
	fmt.Fprintf(out, "Signed in as %s. Type a question, or /help for commands.\n", user.Name)

	controller := session.NewController(askAdapter{apiClient}, apiClient, user.ID, "terminal")
	picker := session.NewPicker(apiClient, user.ID)
	var labels []session.ConversationLabel

	for {
		fmt.Fprint(out, "> ")
		if !in.Scan() {
			return in.Err()
		}
		line := strings.TrimSpace(in.Text())
		if line == "" {
			continue
		}

		switch {
		case line == "/quit" || line == "/exit":
			return nil
		case line == "/help":
			fmt.Fprintln(out, "/new        start a new conversation")
			fmt.Fprintln(out, "/list       list stored conversations")
			fmt.Fprintln(out, "/open N     open conversation N from the last /list")
			fmt.Fprintln(out, "/delete N   delete conversation N from the last /list")
			fmt.Fprintln(out, "/quit       leave")
		case line == "/new":
			controller.NewChat()
			fmt.Fprintln(out, "Started a new conversation.")
		case line == "/list":
			labels, err = picker.List(ctx)
			if err != nil {
				fmt.Fprintf(out, "failed to list conversations: %v\n", err)
				continue
			}
			if len(labels) == 0 {
				fmt.Fprintln(out, "No stored conversations.")
				continue
			}
			for i, label := range labels {
				fmt.Fprintf(out, "%3d. %s\n", i+1, label.Title)
			}
		case strings.HasPrefix(line, "/open "):
			label, ok := pickLabel(out, labels, strings.TrimPrefix(line, "/open "))
			if !ok {
				continue
			}
			if err := controller.Load(ctx, label.SessionID); err != nil {
				fmt.Fprintf(out, "failed to open conversation: %v\n", err)
				continue
			}
			for _, turn := range controller.Turns() {
				printTurn(out, turn.QueryType, turn.QueryText)
			}
		case strings.HasPrefix(line, "/delete "):
			label, ok := pickLabel(out, labels, strings.TrimPrefix(line, "/delete "))
			if !ok {
				continue
			}
			if err := picker.Delete(ctx, label.SessionID); err != nil {
				fmt.Fprintf(out, "failed to delete conversation: %v\n", err)
				continue
			}
			if controller.SessionID() == label.SessionID {
				controller.NewChat()
			}
			fmt.Fprintln(out, "Deleted.")
		default:
			turn, err := controller.Submit(ctx, line)
			if err != nil {
				fmt.Fprintf(out, "%v\n", err)
				continue
			}
			if turn != nil {
				printTurn(out, turn.QueryType, turn.QueryText)
			}
		}
	}
}

// ensureSignedIn restores a saved session or walks through sign-in. A saved
// token that the server no longer accepts is cleared before prompting.
func ensureSignedIn(ctx context.Context, apiClient *client.Client, creds *client.CredentialStore, in *bufio.Scanner, out io.Writer, register bool) (*client.User, error) {
	token, err := creds.Load()
	if err != nil {
		return nil, err
	}
	if token != "" && !register {
		apiClient.SetToken(token)
		user, err := apiClient.Me(ctx)
		if err == nil {
			return user, nil
		}
		if !errors.Is(err, client.ErrUnauthenticated) {
			return nil, err
		}
		_ = creds.Clear()
		apiClient.SetToken("")
		fmt.Fprintln(out, "Your session has expired, please sign in again.")
	}

	var name string
	if register {
		name = promptLine(in, out, "Name: ")
	}
	email := promptLine(in, out, "Email: ")
	password := promptLine(in, out, "Password: ")

	var resp *client.AuthResponse
	if register {
		resp, err = apiClient.SignUp(ctx, name, email, password)
	} else {
		resp, err = apiClient.SignIn(ctx, email, password)
	}
	if err != nil {
		if errors.Is(err, client.ErrUnauthenticated) {
			return nil, errors.New("incorrect email or password")
		}
		return nil, err
	}

	if err := creds.Save(resp.AccessToken); err != nil {
		fmt.Fprintf(out, "warning: could not save credentials: %v\n", err)
	}
	return resp.User, nil
}

func promptLine(in *bufio.Scanner, out io.Writer, prompt string) string {
	fmt.Fprint(out, prompt)
	if !in.Scan() {
		return ""
	}
	return strings.TrimSpace(in.Text())
}

func pickLabel(out io.Writer, labels []session.ConversationLabel, raw string) (session.ConversationLabel, bool) {
	n, err := strconv.Atoi(strings.TrimSpace(raw))
	if err != nil || n < 1 || n > len(labels) {
		fmt.Fprintln(out, "Run /list first, then pick a number from it.")
		return session.ConversationLabel{}, false
	}
	return labels[n-1], true
}

func printTurn(out io.Writer, queryType, text string) {
	if queryType == "human" {
		fmt.Fprintf(out, "you: %s\n", text)
		return
	}
	fmt.Fprintf(out, "askdesk: %s\n", text)
}

// askAdapter narrows *client.Client to the controller's Asker interface.
type askAdapter struct {
	c *client.Client
}

func (a askAdapter) Ask(ctx context.Context, question, sessionID string) (string, error) {
	return a.c.Ask(ctx, question, sessionID)
}
