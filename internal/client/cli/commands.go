package cli

import (
	"context"
	"errors"
	"fmt"
	"strconv"

	"github.com/dmitrijs2005/postbox/internal/client/client"
	"github.com/dmitrijs2005/postbox/internal/common"
	"github.com/dmitrijs2005/postbox/internal/protocol"
	"github.com/dmitrijs2005/postbox/internal/shared"
)

// Register prompts for a display name, username and password and creates
// the account.
func (a *App) Register(ctx context.Context) error {
	displayName, err := GetSimpleText(a.reader, "Enter your name", a.out)
	if err != nil {
		return err
	}
	userName, err := GetSimpleText(a.reader, "Enter username", a.out)
	if err != nil {
		return err
	}
	password, err := GetPassword(a.out)
	if err != nil {
		return err
	}
	defer shared.WipeByteArray(password)

	ctx, cancel := a.requestCtx(ctx)
	defer cancel()

	if err := a.client.Register(ctx, displayName, userName, string(password)); err != nil {
		a.report(err)
		return err
	}

	fmt.Fprintln(a.out, "Registered. You can log in now.")
	return nil
}

// Login prompts for credentials and starts a session.
func (a *App) Login(ctx context.Context) error {
	userName, err := GetSimpleText(a.reader, "Enter username", a.out)
	if err != nil {
		return err
	}
	password, err := GetPassword(a.out)
	if err != nil {
		return err
	}
	defer shared.WipeByteArray(password)

	ctx, cancel := a.requestCtx(ctx)
	defer cancel()

	displayName, err := a.client.Login(ctx, userName, string(password))
	if err != nil {
		a.report(err)
		return err
	}

	fmt.Fprintf(a.out, "Welcome, %s!\n", displayName)
	return nil
}

// Send prompts for recipient, subject and a multi-line body.
func (a *App) Send(ctx context.Context) error {
	if !a.isLoggedIn() {
		a.report(client.ErrNotLoggedIn)
		return client.ErrNotLoggedIn
	}

	recipient, err := GetSimpleText(a.reader, "To", a.out)
	if err != nil {
		return err
	}
	subject, err := GetSimpleText(a.reader, "Subject", a.out)
	if err != nil {
		return err
	}
	body, err := GetMultiline(a.reader, "Body", a.out)
	if err != nil {
		return err
	}

	ctx, cancel := a.requestCtx(ctx)
	defer cancel()

	if _, err := a.client.Send(ctx, recipient, subject, body); err != nil {
		a.report(err)
		return err
	}

	fmt.Fprintln(a.out, "Message sent.")
	return nil
}

// Receive downloads the mailbox, lists it, and then shows messages picked
// by number until an empty line.
func (a *App) Receive(ctx context.Context) error {
	if !a.isLoggedIn() {
		a.report(client.ErrNotLoggedIn)
		return client.ErrNotLoggedIn
	}

	reqCtx, cancel := a.requestCtx(ctx)
	msgs, err := a.client.Download(reqCtx)
	cancel()

	if errors.Is(err, common.ErrEmptyMailbox) {
		fmt.Fprintln(a.out, "There are no messages.")
		return nil
	}
	if err != nil {
		a.report(err)
		return err
	}

	a.printList(msgs)

	for {
		choice, err := GetSimpleText(a.reader, "Message number to read (empty to return)", a.out)
		if err != nil || choice == "" {
			return nil
		}
		n, err := strconv.Atoi(choice)
		if err != nil || n < 1 || n > len(msgs) {
			fmt.Fprintf(a.out, "Pick a number from 1 to %d\n", len(msgs))
			continue
		}
		fmt.Fprintln(a.out, msgs[n-1].String())
	}
}

// Logout ends the session locally.
func (a *App) Logout(context.Context) error {
	a.client.Logout()
	fmt.Fprintln(a.out, "Logged out.")
	return nil
}

func (a *App) printList(msgs []protocol.Message) {
	fmt.Fprintf(a.out, "You have %d new message(s):\n", len(msgs))
	for i, m := range msgs {
		fmt.Fprintf(a.out, "%3d) %-16s %s  %s\n", i+1, m.Sender, m.Timestamp.Local().Format("2006-01-02 15:04"), m.Subject)
	}
}

// report prints err in terms the user can act on.
func (a *App) report(err error) {
	var se *client.ServerError
	switch {
	case errors.As(err, &se):
		fmt.Fprintln(a.out, "Error:", se.Reason)
	case errors.Is(err, client.ErrNotLoggedIn):
		fmt.Fprintln(a.out, "Please log in first.")
	case errors.Is(err, client.ErrUnavailable):
		fmt.Fprintln(a.out, "Server unavailable:", err)
	default:
		fmt.Fprintln(a.out, "Error:", err)
	}
}
