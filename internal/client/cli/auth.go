package cli

import (
	"context"
	"fmt"

	"github.com/dmitrijs2005/depositkeeper/internal/client/services"
	"github.com/dmitrijs2005/depositkeeper/internal/common"
)

// getSimpleText and getPassword are swapped in tests.
var getSimpleText = GetSimpleText
var getPassword = GetPassword

// Register creates an account. When the backend asks for email
// verification no session is started.
func (a *App) Register(ctx context.Context) error {
	name, err := getSimpleText(a.reader, "Enter your name", a.out)
	if err != nil {
		return err
	}
	email, err := getSimpleText(a.reader, "Enter email", a.out)
	if err != nil {
		return err
	}
	password, err := getPassword(a.out)
	if err != nil {
		return err
	}
	defer common.WipeByteArray(password)

	res := a.svc.Auth.Register(ctx, name, email, string(password))
	a.reportAuth(ctx, res)
	if res.NeedsVerification {
		fmt.Fprintln(a.out, "Verify your email, then log in.")
	}
	return nil
}

// Login asks for credentials. A failure is shown and leaves the session
// untouched; it is not returned as an error.
func (a *App) Login(ctx context.Context) error {
	email, err := getSimpleText(a.reader, "Enter email", a.out)
	if err != nil {
		return err
	}
	password, err := getPassword(a.out)
	if err != nil {
		return err
	}
	defer common.WipeByteArray(password)

	a.reportAuth(ctx, a.svc.Auth.Login(ctx, email, string(password)))
	return nil
}

func (a *App) reportAuth(ctx context.Context, res services.AuthResult) {
	if !res.Success {
		fmt.Fprintf(a.out, "Failed: %s\n", res.Message)
		return
	}
	if res.User != nil {
		a.setMode(ctx, ModeOnline)
		fmt.Fprintf(a.out, "Signed in as %s <%s>\n", res.User.Name, res.User.Email)
		if ok, err := a.svc.Auth.ConsumeNewlyVerified(ctx); err != nil {
			a.logger.Warn(ctx, "read verification flag", "error", err)
		} else if ok {
			fmt.Fprintln(a.out, "Your email is verified. Welcome aboard!")
		}
		return
	}
	if res.Message != "" {
		fmt.Fprintln(a.out, res.Message)
	}
}

// Verified records that the user followed the verification link; the next
// successful login greets them once.
func (a *App) Verified(ctx context.Context) error {
	if err := a.svc.Auth.MarkVerified(ctx); err != nil {
		return err
	}
	fmt.Fprintln(a.out, "Thanks! Log in to continue.")
	return nil
}

func (a *App) Logout(ctx context.Context) error {
	a.mu.Lock()
	a.propertyID, a.roomID = "", ""
	a.mu.Unlock()
	return a.svc.Auth.Logout(ctx)
}

func (a *App) Whoami(ctx context.Context) error {
	u := a.svc.Auth.Refresh(ctx)
	if u == nil {
		fmt.Fprintln(a.out, "Not logged in")
		return nil
	}
	fmt.Fprintf(a.out, "%s <%s> (id %s), theme %s\n", u.Name, u.Email, u.ID, a.svc.Auth.Theme(ctx))
	return nil
}

func (a *App) Theme(ctx context.Context, args []string) error {
	if len(args) == 0 {
		fmt.Fprintln(a.out, a.svc.Auth.Theme(ctx))
		return nil
	}
	if err := a.svc.Auth.SetTheme(ctx, args[0]); err != nil {
		return err
	}
	fmt.Fprintf(a.out, "Theme set to %s\n", args[0])
	return nil
}
