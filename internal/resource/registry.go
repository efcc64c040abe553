package resource

import (
	"fmt"
	"strings"

	"github.com/rs/zerolog"

	"github.com/idilsaglam/hcadmin/internal/api"
)

// Names lists every resource in menu order.
var Names = []string{"users", "admins", "specializations", "ailments", "faqs", "transactions", "issues", "notifications"}

// Deps is what the entity configurations need.
type Deps struct {
	Client *api.Client
	UserID func() string
	Notify Notifier
	Log    zerolog.Logger
}

// Open builds the controller for the named resource.
func Open(name string, d Deps) (View, error) {
	switch strings.ToLower(name) {
	case "users", "registration":
		return New(AppUsers(d.Client), d.Notify, d.Log), nil
	case "admins", "administrators":
		return New(Admins(d.Client), d.Notify, d.Log), nil
	case "specializations":
		return New(Specializations(d.Client), d.Notify, d.Log), nil
	case "ailments":
		return New(Ailments(d.Client), d.Notify, d.Log), nil
	case "faqs", "faq":
		return New(FAQs(d.Client), d.Notify, d.Log), nil
	case "transactions":
		return New(Transactions(d.Client), d.Notify, d.Log), nil
	case "issues":
		return New(Issues(d.Client), d.Notify, d.Log), nil
	case "notifications":
		userID := d.UserID
		if userID == nil {
			userID = func() string { return "" }
		}
		return New(Notifications(d.Client, userID), d.Notify, d.Log), nil
	}
	return nil, fmt.Errorf("unknown resource %q (want one of %s)", name, strings.Join(Names, ", "))
}
