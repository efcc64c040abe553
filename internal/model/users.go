package model

// AppUser is a patient or health provider registered through the mobile app.
type AppUser struct {
	ID                   string `json:"_id"`
	Fullname             string `json:"fullname"`
	Email                string `json:"email"`
	CellphoneNumber      string `json:"cellphoneNumber"`
	WalletID             string `json:"walletID"`
	Balance              Flex   `json:"balance"`
	Address              string `json:"address"`
	Role                 string `json:"role"`
	Visibility           string `json:"visibility"`
	ProfileImage         string `json:"profileImage"`
	IsAccountVerified    bool   `json:"isAccountVerified"`
	IsDocumentVerified   bool   `json:"isDocumentVerified"`
	IsDocumentsSubmitted bool   `json:"isDocumentsSubmitted"`
	IDDocumentFront      string `json:"idDocumentFront"`
	IDDocumentBack       string `json:"idDocumentBack"`
	PrimaryQualification string `json:"primaryQualification"`
	AnnualQualification  string `json:"annualQualification"`
	CreatedAt            Time   `json:"createdAt"`
}

// DocumentStatus summarises the verification state for providers.
func (u AppUser) DocumentStatus() string {
	switch {
	case !IsHealthProvider(u.Role):
		return "N/A"
	case u.IsDocumentVerified:
		return "verified"
	case u.IsDocumentsSubmitted:
		return "pending"
	}
	return "not submitted"
}

// AwaitingReview is true for providers whose submitted documents are not yet verified.
func (u AppUser) AwaitingReview() bool {
	return IsHealthProvider(u.Role) && u.IsDocumentsSubmitted && !u.IsDocumentVerified
}

// Documents returns the uploaded document file names keyed by label.
func (u AppUser) Documents() [][2]string {
	var out [][2]string
	add := func(label, file string) {
		if file != "" {
			out = append(out, [2]string{label, file})
		}
	}
	add("ID document front", u.IDDocumentFront)
	add("ID document back", u.IDDocumentBack)
	add("Primary qualification", u.PrimaryQualification)
	add("Annual qualification", u.AnnualQualification)
	add("Profile image", u.ProfileImage)
	return out
}

// Permissions are the explicit capability flags of a portal user.
type Permissions struct {
	Read   bool `json:"read"`
	Write  bool `json:"write"`
	Delete bool `json:"delete"`
}

// Admin is a portal (staff) account. It is also the shape of the logged-in user.
type Admin struct {
	ID              string       `json:"_id"`
	FirstName       string       `json:"firstName"`
	LastName        string       `json:"lastName"`
	Email           string       `json:"email"`
	CellphoneNumber string       `json:"cellphoneNumber"`
	Department      string       `json:"department"`
	Role            string       `json:"role"`
	ProfileImage    string       `json:"profileImage,omitempty"`
	Permissions     *Permissions `json:"permissions,omitempty"`
	Token           string       `json:"token,omitempty"`
	CreatedAt       Time         `json:"createdAt"`
}

// FullName joins first and last name.
func (a Admin) FullName() string {
	switch {
	case a.FirstName == "":
		return a.LastName
	case a.LastName == "":
		return a.FirstName
	}
	return a.FirstName + " " + a.LastName
}

// DisplayRole maps the stored role to the label used in listings and filters.
func (a Admin) DisplayRole() string {
	switch a.Role {
	case "super admin":
		return "Super admin"
	case "health provider":
		return "Health Provider"
	}
	return "Admin"
}

// Departments offered when editing a profile.
var Departments = []string{
	"Human Resources",
	"Finance",
	"Marketing",
	"Sales",
	"Operations",
	"Information Technology",
	"Research and Development",
	"Customer Service",
	"Legal",
	"Administration",
}
