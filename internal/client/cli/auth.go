package cli

import (
	"context"
	"fmt"
	"log"
	"os"
)

// getSimpleText and getPassword are indirections used to facilitate testing.
// They point to interactive input helpers and can be swapped in tests.
var getSimpleText = GetSimpleText
var getPassword = GetPassword

// Register prompts for name, email and password and creates an account.
// The account still has to log in afterwards; registration does not start
// a session.
func (a *App) Register(ctx context.Context) error {
	name, err := getSimpleText(a.reader, "Enter name", os.Stdout)
	if err != nil {
		return err
	}

	email, err := getSimpleText(a.reader, "Enter email", os.Stdout)
	if err != nil {
		return err
	}

	password, err := getPassword(os.Stdout)
	if err != nil {
		return err
	}

	if err := a.api.Signup(ctx, name, email, password); err != nil {
		log.Printf("Registration failed: %s", err.Error())
		return err
	}

	fmt.Println("Account created, you can now log in.")
	return nil
}

// Login prompts for credentials, authenticates and loads the task list.
func (a *App) Login(ctx context.Context) error {
	email, err := getSimpleText(a.reader, "Enter email", os.Stdout)
	if err != nil {
		return err
	}

	password, err := getPassword(os.Stdout)
	if err != nil {
		return err
	}

	if err := a.api.Login(ctx, email, password); err != nil {
		log.Printf("Login failed: %s", err.Error())
		return err
	}

	log.Printf("Login successful")
	return a.refreshAfterLogin(ctx)
}

// GoogleSignIn prompts for the profile asserted by the external provider and
// signs in with it. A fresh email creates the account on the fly.
func (a *App) GoogleSignIn(ctx context.Context) error {
	email, err := getSimpleText(a.reader, "Enter Google account email", os.Stdout)
	if err != nil {
		return err
	}

	name, err := getSimpleText(a.reader, "Enter display name", os.Stdout)
	if err != nil {
		return err
	}

	subjectID, err := getSimpleText(a.reader, "Enter provider subject id", os.Stdout)
	if err != nil {
		return err
	}

	if err := a.api.GoogleSignIn(ctx, email, name, subjectID); err != nil {
		log.Printf("Sign-in failed: %s", err.Error())
		return err
	}

	log.Printf("Sign-in successful")
	return a.refreshAfterLogin(ctx)
}

func (a *App) refreshAfterLogin(ctx context.Context) error {
	if err := a.store.Refresh(ctx); err != nil {
		log.Printf("Could not load tasks: %s", err.Error())
		return err
	}
	return nil
}

// Logout drops the cached session. Tasks live on the server; nothing else
// needs cleaning up.
func (a *App) Logout(ctx context.Context) error {
	if err := a.api.Logout(); err != nil {
		return err
	}
	a.lastView = nil
	fmt.Println("Logged out.")
	return nil
}
