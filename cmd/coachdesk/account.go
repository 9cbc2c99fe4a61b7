package main

import (
	"bufio"
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"strings"

	"github.com/naveenspark/coachdesk/pkg/domain"
)

func (a *app) runRegister(in *bufio.Reader, out io.Writer, args []string) error {
	fs := flag.NewFlagSet("register", flag.ContinueOnError)
	fs.SetOutput(out)
	asCoach := fs.Bool("coach", false, "register as a coach (needs campus approval)")
	campus := fs.Int("campus", 0, "campus id")
	email := fs.String("email", "", "email address")
	if err := fs.Parse(args); err != nil {
		return err
	}

	form := domain.RegisterForm{Email: strings.TrimSpace(*email)}
	if *campus > 0 {
		form.CampusID = campus
	}
	fields := []struct {
		label string
		dst   *string
	}{
		{"username: ", &form.Username},
		{"password: ", &form.Password},
	}
	for _, f := range fields {
		v, err := prompt(in, out, f.label)
		if err != nil {
			return err
		}
		*f.dst = v
	}
	confirm, err := prompt(in, out, "confirm: ")
	if err != nil {
		return err
	}
	if form.Password != confirm {
		return errors.New("passwords do not match")
	}
	if form.RealName, err = prompt(in, out, "real name: "); err != nil {
		return err
	}
	if form.Phone, err = prompt(in, out, "phone: "); err != nil {
		return err
	}
	form.Username = strings.TrimSpace(form.Username)
	form.RealName = strings.TrimSpace(form.RealName)
	form.Phone = strings.TrimSpace(form.Phone)
	if form.Username == "" || form.RealName == "" || form.Phone == "" {
		return errors.New("username, real name and phone are required")
	}

	role := domain.RoleStudent
	if *asCoach {
		role = domain.RoleCoach
	}
	res := a.store.Register(context.Background(), form, role)
	if !res.OK {
		return errors.New(res.Message)
	}
	fmt.Fprintln(out, res.Message) //nolint:errcheck
	return nil
}

// runProfile prints the signed-in profile, or updates it when any flag is given.
func (a *app) runProfile(out io.Writer, args []string) error {
	fs := flag.NewFlagSet("profile", flag.ContinueOnError)
	fs.SetOutput(out)
	name := fs.String("name", "", "new real name")
	phone := fs.String("phone", "", "new phone number")
	email := fs.String("email", "", "new email address")
	if err := fs.Parse(args); err != nil {
		return err
	}

	if err := a.waitRestored(); err != nil {
		return fmt.Errorf("stored session is no longer valid: %w", err)
	}
	if !a.store.Snapshot().IsAuthenticated() {
		return errors.New("not logged in, run: coachdesk login")
	}

	var upd domain.UserUpdate
	fs.Visit(func(f *flag.Flag) {
		switch f.Name {
		case "name":
			upd.RealName = name
		case "phone":
			upd.Phone = phone
		case "email":
			upd.Email = email
		}
	})
	if !upd.Empty() {
		res := a.store.UpdateProfile(context.Background(), upd)
		if !res.OK {
			return errors.New(res.Message)
		}
		fmt.Fprintln(out, res.Message) //nolint:errcheck
	}

	u := a.store.Snapshot().User
	rows := [][2]string{
		{"username", u.Username},
		{"name", u.RealName},
		{"role", u.Role.Label()},
		{"phone", u.Phone},
		{"email", u.Email},
	}
	for _, r := range rows {
		if r[1] == "" {
			r[1] = "-"
		}
		fmt.Fprintf(out, "  %-9s %s\n", r[0], r[1]) //nolint:errcheck
	}
	return nil
}
