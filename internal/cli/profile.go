package cli

import (
	"fmt"
	"sort"
	"strings"

	"github.com/spf13/cobra"

	"github.com/idilsaglam/hcadmin/internal/api"
	"github.com/idilsaglam/hcadmin/internal/ui"
)

// profileFields maps --set keys onto the profile form.
var profileFields = map[string]func(*api.ProfileInput) *string{
	"firstName":       func(p *api.ProfileInput) *string { return &p.FirstName },
	"lastName":        func(p *api.ProfileInput) *string { return &p.LastName },
	"email":           func(p *api.ProfileInput) *string { return &p.Email },
	"cellphoneNumber": func(p *api.ProfileInput) *string { return &p.CellphoneNumber },
	"department":      func(p *api.ProfileInput) *string { return &p.Department },
}

func (e *env) profileCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "profile",
		Short: "Show or change your own account",
		Args:  exactArgs(0, "profile [update|password|avatar]"),
		RunE: func(cmd *cobra.Command, _ []string) error {
			snap, err := e.loggedIn()
			if err != nil {
				return err
			}
			u, t := snap.User, ui.Current()
			lines := []string{
				t.Title.Render(orDash(u.FullName())),
				"",
				t.Muted.Render("email       ") + orDash(u.Email),
				t.Muted.Render("cellphone   ") + orDash(u.CellphoneNumber),
				t.Muted.Render("department  ") + orDash(u.Department),
				t.Muted.Render("role        ") + orDash(u.DisplayRole()),
				t.Muted.Render("image       ") + orDash(e.cfg.ImageURL(u.ProfileImage)),
			}
			fmt.Fprintln(e.opt.Stdout, ui.Panel(lines))
			return nil
		},
	}

	var sets []string
	update := &cobra.Command{
		Use:   "update --set k=v...",
		Short: "Change your name, email, cellphone or department",
		Args:  exactArgs(0, "profile update --set k=v..."),
		RunE: func(cmd *cobra.Command, _ []string) error {
			values, err := pairs("set", sets)
			if err != nil {
				return err
			}
			snap, err := e.loggedIn()
			if err != nil {
				return err
			}
			u := snap.User
			in := api.ProfileInput{
				FirstName:       u.FirstName,
				LastName:        u.LastName,
				Email:           u.Email,
				CellphoneNumber: u.CellphoneNumber,
				Department:      u.Department,
			}
			for k, v := range values {
				field, ok := profileFields[k]
				if !ok {
					keys := make([]string, 0, len(profileFields))
					for name := range profileFields {
						keys = append(keys, name)
					}
					sort.Strings(keys)
					return usagef("unknown field %q (fields: %s)", k, strings.Join(keys, ", "))
				}
				*field(&in) = v
			}
			msg, err := e.sess.UpdateProfile(cmd.Context(), in)
			if err != nil {
				return err
			}
			ui.OK(e.opt.Stdout, msg)
			return nil
		},
	}
	update.Flags().StringArrayVar(&sets, "set", nil, "field value as key=value (repeatable)")

	password := &cobra.Command{
		Use:   "password",
		Short: "Change your password",
		Args:  exactArgs(0, "profile password"),
		RunE: func(cmd *cobra.Command, _ []string) error {
			if _, err := e.loggedIn(); err != nil {
				return err
			}
			p := e.prompter()
			var answers [3]string
			for i, label := range []string{"Current password: ", "New password: ", "Confirm new password: "} {
				s, err := p.secret(label)
				if err != nil {
					return err
				}
				answers[i] = s
			}
			msg, err := e.sess.ChangePassword(cmd.Context(), answers[0], answers[1], answers[2])
			if err != nil {
				return err
			}
			ui.OK(e.opt.Stdout, msg)
			return nil
		},
	}

	avatar := &cobra.Command{
		Use:   "avatar <file>",
		Short: "Upload a .jpg, .jpeg or .png profile picture",
		Args:  exactArgs(1, "profile avatar <file>"),
		RunE: func(cmd *cobra.Command, args []string) error {
			if _, err := e.loggedIn(); err != nil {
				return err
			}
			msg, err := e.sess.UploadAvatar(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			ui.OK(e.opt.Stdout, msg)
			return nil
		},
	}

	cmd.AddCommand(update, password, avatar)
	return cmd
}
