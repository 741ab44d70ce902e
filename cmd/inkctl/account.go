package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"strconv"
)

func runLogin(ctx context.Context, a *app, args []string) error {
	fs := flag.NewFlagSet("login", flag.ContinueOnError)
	email := fs.String("email", "", "account email")
	password := fs.String("password", "", "account password")
	if err := fs.Parse(args); err != nil {
		return err
	}
	if *email == "" || *password == "" {
		return errors.New("-email and -password are required")
	}

	issued, err := a.api.Login(ctx, *email, *password)
	if err != nil {
		return err
	}
	return a.signedIn(ctx, issued)
}

func runLogout(ctx context.Context, a *app, _ []string) error {
	return a.session.Clear(ctx)
}

func runWhoami(ctx context.Context, a *app, _ []string) error {
	if err := a.requireAuth(); err != nil {
		return err
	}
	me, err := a.api.GetMe(ctx)
	if err != nil {
		return err
	}
	fmt.Printf("%d %s %q %s\n", me.ID, me.Username, me.DisplayName, me.Role)

	unread, err := a.api.UnreadNotifications(ctx)
	if err != nil {
		return err
	}
	fmt.Printf("%d unread notifications\n", unread)
	return nil
}

// runInvite handles an opened invitation link. Signed-out users keep the
// token until their next sign-in.
func runInvite(ctx context.Context, a *app, args []string) error {
	if len(args) != 1 {
		return errors.New("usage: invite TOKEN")
	}
	if err := a.session.SetPendingInvitation(ctx, args[0]); err != nil {
		return err
	}
	if !a.session.Authenticated() {
		inv, err := a.api.PreviewInvitation(ctx, args[0])
		if err == nil {
			fmt.Printf("invitation to %s saved, sign in to accept\n", inv.StudioName)
		}
		return nil
	}

	m, err := a.session.ResolvePendingInvitation(ctx, a.api)
	if err != nil {
		return err
	}
	fmt.Printf("joined studio %d\n", m.StudioID)
	return nil
}

func runBlock(ctx context.Context, a *app, args []string) error {
	id, err := userArg(args)
	if err != nil {
		return err
	}
	return a.api.BlockUser(ctx, id)
}

func runUnblock(ctx context.Context, a *app, args []string) error {
	id, err := userArg(args)
	if err != nil {
		return err
	}
	return a.api.UnblockUser(ctx, id)
}

func userArg(args []string) (int64, error) {
	if len(args) != 1 {
		return 0, errors.New("expected one USER_ID")
	}
	return strconv.ParseInt(args[0], 10, 64)
}
