package cli

import (
	"errors"
	"strings"

	"github.com/spf13/cobra"

	"github.com/idilsaglam/hcadmin/internal/resource"
)

// act runs a named row action, or a bulk one when id is empty.
func (e *env) act(cmd *cobra.Command, name, action, id, input string, yes bool) error {
	snap, err := e.loggedIn()
	if err != nil {
		return err
	}
	v, err := e.view(name)
	if err != nil {
		return err
	}
	allowed := snap.Perms.Write
	for _, a := range v.Actions() {
		if a.Name == action {
			allowed = a.Allowed(snap.Perms)
			break
		}
	}
	if err := e.permitted(action+" "+name, allowed); err != nil {
		return err
	}
	if err := v.Load(cmd.Context()); err != nil {
		return err
	}
	if id == "" {
		err = v.DoAll(cmd.Context(), action, yes)
	} else {
		if v.Detail(id) == nil {
			return notFound(v, id)
		}
		err = v.Do(cmd.Context(), action, id, input)
	}
	switch {
	case errors.Is(err, resource.ErrNotConfirmed):
		return usagef("this touches every %s; add --yes to confirm", v.Singular())
	case errors.Is(err, resource.ErrNotSupported):
		var names []string
		for _, a := range v.Actions() {
			names = append(names, a.Name)
		}
		if len(names) == 0 {
			return usagef("%s has no actions", v.Name())
		}
		return usagef("%s has no %q action for this target (actions: %s)", v.Name(), action, strings.Join(names, ", "))
	}
	return err
}

func (e *env) doCmd() *cobra.Command {
	var (
		input string
		yes   bool
	)
	cmd := &cobra.Command{
		Use:   "do <resource> <action> [id]",
		Short: "Run a row action; without an id, run a bulk action",
		Args: func(cmd *cobra.Command, args []string) error {
			if len(args) < 2 || len(args) > 3 {
				return usagef("usage: hcadmin do <resource> <action> [id] [--input text] [--yes]")
			}
			return nil
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			id := ""
			if len(args) == 3 {
				id = args[2]
			}
			return e.act(cmd, args[0], args[1], id, input, yes)
		},
	}
	cmd.Flags().StringVar(&input, "input", "", "input the action asks for")
	cmd.Flags().BoolVarP(&yes, "yes", "y", false, "confirm a bulk action")
	return cmd
}

func (e *env) usersCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "users",
		Short: "Review app user documents",
	}
	cmd.AddCommand(&cobra.Command{
		Use:   "approve <id>",
		Short: "Approve a user's documents",
		Args:  exactArgs(1, "users approve <id>"),
		RunE: func(cmd *cobra.Command, args []string) error {
			return e.act(cmd, "users", "approve", args[0], "", false)
		},
	})
	var reason string
	reject := &cobra.Command{
		Use:   "reject <id> --reason text",
		Short: "Reject a user's documents and notify them",
		Args:  exactArgs(1, "users reject <id> --reason text"),
		RunE: func(cmd *cobra.Command, args []string) error {
			return e.act(cmd, "users", "reject", args[0], reason, false)
		},
	}
	reject.Flags().StringVar(&reason, "reason", "", "why the documents were rejected")
	cmd.AddCommand(reject)
	return cmd
}

func (e *env) issuesCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "issues",
		Short: "Work reported issues",
	}
	cmd.AddCommand(&cobra.Command{
		Use:   "status <id> <status>",
		Short: "Move an issue to Open, In Progress or Closed",
		Args:  exactArgs(2, "issues status <id> <status>"),
		RunE: func(cmd *cobra.Command, args []string) error {
			return e.act(cmd, "issues", "status", args[0], args[1], false)
		},
	})
	return cmd
}

func (e *env) notificationsCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:     "notifications",
		Aliases: []string{"notif"},
		Short:   "Read, clear and send notifications",
	}

	var readAll bool
	read := &cobra.Command{
		Use:   "read [id | --all]",
		Short: "Mark notifications as read",
		RunE: func(cmd *cobra.Command, args []string) error {
			switch {
			case readAll && len(args) == 0:
				return e.act(cmd, "notifications", "read-all", "", "", true)
			case !readAll && len(args) == 1:
				return e.act(cmd, "notifications", "read", args[0], "", false)
			}
			return usagef("usage: hcadmin notifications read <id> | --all")
		},
	}
	read.Flags().BoolVar(&readAll, "all", false, "mark every notification as read")

	var (
		rmAll bool
		yes   bool
	)
	rm := &cobra.Command{
		Use:   "rm [id | --all]",
		Short: "Delete notifications",
		RunE: func(cmd *cobra.Command, args []string) error {
			switch {
			case rmAll && len(args) == 0:
				return e.act(cmd, "notifications", "delete-all", "", "", yes)
			case !rmAll && len(args) == 1:
				return e.remove(cmd, "notifications", args[0], yes)
			}
			return usagef("usage: hcadmin notifications rm <id> | --all --yes")
		},
	}
	rm.Flags().BoolVar(&rmAll, "all", false, "delete every notification")
	rm.Flags().BoolVarP(&yes, "yes", "y", false, "confirm the deletion")

	var sendTo, title, message, kind string
	send := &cobra.Command{
		Use:   "send --title t --message m [--user id] [--type t]",
		Short: "Send a notification to one user, or to all users",
		Args:  exactArgs(0, "notifications send --title t --message m [--user id] [--type t]"),
		RunE: func(cmd *cobra.Command, args []string) error {
			values := map[string]string{"userId": sendTo, "title": title, "message": message}
			if kind != "" {
				values["type"] = kind
			}
			return e.create(cmd, "notifications", values)
		},
	}
	send.Flags().StringVar(&sendTo, "user", "", "recipient user id; omit to send to all users")
	send.Flags().StringVar(&title, "title", "", "notification title")
	send.Flags().StringVar(&message, "message", "", "notification body")
	send.Flags().StringVar(&kind, "type", "", "notification type")

	cmd.AddCommand(read, rm, send)
	return cmd
}
