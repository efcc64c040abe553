package resource

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	"github.com/idilsaglam/hcadmin/internal/api"
	"github.com/idilsaglam/hcadmin/internal/model"
)

var appUserRoles = append(append([]string{}, model.ProviderRoles...), model.RolePatient)

// AppUsers is the registration screen: patients and health providers, with
// the document review actions.
func AppUsers(c *api.Client) Config[model.AppUser] {
	return Config[model.AppUser]{
		Name:     "users",
		Singular: "user",
		ID:       func(u model.AppUser) string { return u.ID },
		Columns: []Column[model.AppUser]{
			{Header: "Full name", Width: 22, Cell: func(u model.AppUser) string { return u.Fullname }},
			{Header: "Cellphone", Width: 13, Cell: func(u model.AppUser) string { return u.CellphoneNumber }},
			{Header: "Wallet", Width: 14, Cell: func(u model.AppUser) string { return u.WalletID }},
			{Header: "Address", Width: 22, Cell: func(u model.AppUser) string { return u.Address }},
			{Header: "Role", Width: 15, Cell: func(u model.AppUser) string { return model.TitleCase(u.Role) }},
			{Header: "Documents", Width: 13, Cell: func(u model.AppUser) string { return u.DocumentStatus() }},
			{Header: "Joined", Width: 11, Cell: func(u model.AppUser) string { return u.CreatedAt.Date() }},
		},
		Searchable: func(u model.AppUser) []string {
			return []string{u.Fullname, u.CellphoneNumber, u.WalletID, u.Address, u.Role}
		},
		Filters: []Filter[model.AppUser]{
			{Name: "role", Values: appUserRoles, Value: func(u model.AppUser) string { return u.Role }},
		},
		Detail: func(u model.AppUser) [][2]string {
			out := [][2]string{
				{"Full name", u.Fullname},
				{"Email", u.Email},
				{"Cellphone", u.CellphoneNumber},
				{"Wallet", u.WalletID},
				{"Balance", balance(u.Balance)},
				{"Address", u.Address},
				{"Role", model.TitleCase(u.Role)},
				{"Account verified", strconv.FormatBool(u.IsAccountVerified)},
				{"Documents", u.DocumentStatus()},
			}
			return append(out, u.Documents()...)
		},
		Stats: func(us []model.AppUser) []Stat {
			var patients, providers, pending int
			for _, u := range us {
				switch {
				case u.Role == model.RolePatient:
					patients++
				case model.IsHealthProvider(u.Role):
					providers++
				}
				if u.AwaitingReview() {
					pending++
				}
			}
			return []Stat{
				{Label: "Total users", Value: strconv.Itoa(len(us))},
				{Label: "Patients", Value: strconv.Itoa(patients)},
				{Label: "Health providers", Value: strconv.Itoa(providers)},
				{Label: "Pending verification", Value: strconv.Itoa(pending)},
			}
		},
		List: c.AppUsers,
		Actions: []Action[model.AppUser]{
			{
				Name: "approve", Label: "Approve documents", Key: "v",
				Applies: func(u model.AppUser) bool { return model.IsHealthProvider(u.Role) && !u.IsDocumentVerified },
				Run: func(ctx context.Context, u model.AppUser, _ string) (string, error) {
					_, err := c.ApproveDocuments(ctx, u.ID)
					return "", err
				},
				Done: "Documents approved successfully!",
			},
			{
				Name: "reject", Label: "Reject documents", Key: "x",
				Input:   &Field{Key: "reason", Label: "Rejection reason", Kind: KindLong, Required: true},
				Applies: func(u model.AppUser) bool { return model.IsHealthProvider(u.Role) && !u.IsDocumentVerified },
				Run: func(ctx context.Context, u model.AppUser, reason string) (string, error) {
					_, err := c.RejectDocuments(ctx, u.ID, reason)
					return "", err
				},
				Done: "Documents rejected. Notification sent to user.",
			},
		},
	}
}

var adminRoles = []Option{
	{Value: "admin", Label: "Admin"},
	{Value: "super admin", Label: "Super admin"},
	{Value: "health provider", Label: "Health Provider"},
}

// Admins lists portal accounts. The API offers creation only.
func Admins(c *api.Client) Config[model.Admin] {
	return Config[model.Admin]{
		Name:     "admins",
		Singular: "administrator",
		ID:       func(a model.Admin) string { return a.ID },
		Columns: []Column[model.Admin]{
			{Header: "First name", Width: 14, Cell: func(a model.Admin) string { return a.FirstName }},
			{Header: "Last name", Width: 14, Cell: func(a model.Admin) string { return a.LastName }},
			{Header: "Email", Width: 26, Cell: func(a model.Admin) string { return a.Email }},
			{Header: "Department", Width: 20, Cell: func(a model.Admin) string { return a.Department }},
			{Header: "Role", Width: 15, Cell: func(a model.Admin) string { return a.DisplayRole() }},
			{Header: "Created", Width: 11, Cell: func(a model.Admin) string { return a.CreatedAt.Date() }},
		},
		Searchable: func(a model.Admin) []string {
			return []string{a.FirstName, a.LastName, a.Email, a.Department, a.DisplayRole()}
		},
		Filters: []Filter[model.Admin]{
			{Name: "role", Values: []string{"Super admin", "Admin", "Health Provider"}, Value: model.Admin.DisplayRole},
		},
		Fields: []Field{
			{Key: "firstName", Label: "First name", Required: true},
			{Key: "lastName", Label: "Last name", Required: true},
			{Key: "email", Label: "Email", Required: true},
			{Key: "cellphoneNumber", Label: "Cellphone"},
			{Key: "department", Label: "Department", Kind: KindChoice, Required: true, Options: Options(model.Departments...)},
			{Key: "role", Label: "Role", Kind: KindChoice, Required: true, Default: "admin", Options: adminRoles},
			{Key: "password", Label: "Password", Kind: KindSecret, Required: true, CreateOnly: true},
		},
		List: c.Admins,
		Create: func(ctx context.Context, f Form) (string, error) {
			return c.CreateAdmin(ctx, api.AdminInput{
				FirstName:       f.Get("firstName"),
				LastName:        f.Get("lastName"),
				CellphoneNumber: f.Get("cellphoneNumber"),
				Email:           f.Get("email"),
				Password:        f.Values["password"],
				Role:            strings.ToLower(f.Get("role")),
				Department:      f.Get("department"),
			})
		},
	}
}

// Transactions is read-only; the wallet ledger belongs to the server.
func Transactions(c *api.Client) Config[model.Transaction] {
	return Config[model.Transaction]{
		Name:     "transactions",
		Singular: "transaction",
		ID:       func(t model.Transaction) string { return t.ID },
		Columns: []Column[model.Transaction]{
			{Header: "User", Width: 20, Cell: func(t model.Transaction) string { return t.User.Display() }},
			{Header: "Wallet", Width: 14, Cell: model.Transaction.Wallet},
			{Header: "Amount", Width: 12, Cell: model.Transaction.AmountText},
			{Header: "Type", Width: 11, Cell: func(t model.Transaction) string { return t.Type }},
			{Header: "Status", Width: 10, Cell: func(t model.Transaction) string { return t.Status }},
			{Header: "Reference", Width: 16, Cell: func(t model.Transaction) string { return t.Reference }},
			{Header: "Time", Width: 17, Cell: func(t model.Transaction) string { return t.Time.Stamp() }},
		},
		Searchable: func(t model.Transaction) []string {
			return []string{
				t.User.ID, t.User.Name, t.User.Email, t.Wallet(),
				t.Type, t.Status, t.Reference, fmt.Sprint(t.Amount),
			}
		},
		Filters: []Filter[model.Transaction]{
			{Name: "type", Values: model.TransactionTypes, Value: func(t model.Transaction) string { return t.Type }},
			{Name: "status", Values: model.TransactionStatuses, Value: func(t model.Transaction) string { return t.Status }},
		},
		Stats: func(ts []model.Transaction) []Stat {
			var in, out float64
			var pending int
			for _, t := range ts {
				if t.Status == "pending" {
					pending++
				}
				if t.Status != "completed" {
					continue
				}
				switch t.Type {
				case "deposit", "earning":
					in += t.Amount
				case "withdrawal":
					out += t.Amount
				}
			}
			return []Stat{
				{Label: "Transactions", Value: strconv.Itoa(len(ts))},
				{Label: "Money in", Value: "N$" + strconv.FormatFloat(in, 'f', 2, 64)},
				{Label: "Money out", Value: "N$" + strconv.FormatFloat(out, 'f', 2, 64)},
				{Label: "Pending", Value: strconv.Itoa(pending)},
			}
		},
		List: c.Transactions,
	}
}

// balance shows numeric balances with two decimals and anything else as sent.
func balance(x model.Flex) string {
	if f, err := strconv.ParseFloat(x.String(), 64); err == nil {
		return "N$" + strconv.FormatFloat(f, 'f', 2, 64)
	}
	if x == "" {
		return "N$0.00"
	}
	return "N$" + x.String()
}
