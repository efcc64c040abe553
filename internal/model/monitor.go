package model

import (
	"fmt"
	"strings"
)

// OnlineUsers is the payload of the onlineUsersUpdate push event and of the
// socket section of the request statistics.
type OnlineUsers struct {
	Total        int            `json:"total"`
	ByRole       map[string]int `json:"byRole"`
	TotalSockets int            `json:"totalSockets"`
}

// RequestTallies counts consultation requests per status.
type RequestTallies struct {
	Total      int `json:"total"`
	Searching  int `json:"searching"`
	Pending    int `json:"pending"`
	Accepted   int `json:"accepted"`
	EnRoute    int `json:"enRoute"`
	Arrived    int `json:"arrived"`
	InProgress int `json:"inProgress"`
	Completed  int `json:"completed"`
	Cancelled  int `json:"cancelled"`
	Expired    int `json:"expired"`
	Rejected   int `json:"rejected"`
}

// Rows returns label/count pairs in lifecycle order.
func (t RequestTallies) Rows() [][2]any {
	return [][2]any{
		{"searching", t.Searching}, {"pending", t.Pending}, {"accepted", t.Accepted},
		{"en route", t.EnRoute}, {"arrived", t.Arrived}, {"in progress", t.InProgress},
		{"completed", t.Completed}, {"cancelled", t.Cancelled}, {"expired", t.Expired},
		{"rejected", t.Rejected},
	}
}

// UserTallies counts registered app users per role.
type UserTallies struct {
	Total            int `json:"total"`
	Patients         int `json:"patients"`
	HealthProviders  int `json:"healthProviders"`
	Doctors          int `json:"doctors"`
	Nurses           int `json:"nurses"`
	Physiotherapists int `json:"physiotherapists"`
	SocialWorkers    int `json:"socialWorkers"`
}

// SocketStats is the server's own view of the push channel.
type SocketStats struct {
	IsConnected  bool           `json:"isConnected"`
	TotalOnline  int            `json:"totalOnline"`
	ByRole       map[string]int `json:"byRole"`
	TotalSockets int            `json:"totalSockets"`
}

// RequestStats is the body of GET /portal/request/stats.
type RequestStats struct {
	Requests       RequestTallies   `json:"requests"`
	Users          UserTallies      `json:"users"`
	Socket         *SocketStats     `json:"socket"`
	RecentRequests []ConsultRequest `json:"recentRequests"`
}

// Location is a GPS fix; either coordinate may be missing.
type Location struct {
	Latitude  *float64 `json:"latitude"`
	Longitude *float64 `json:"longitude"`
}

func (l *Location) String() string {
	if l == nil {
		return "Not available"
	}
	var parts []string
	if l.Latitude != nil {
		parts = append(parts, fmt.Sprintf("%.4f", *l.Latitude))
	}
	if l.Longitude != nil {
		parts = append(parts, fmt.Sprintf("%.4f", *l.Longitude))
	}
	if len(parts) == 0 {
		return "Not available"
	}
	return strings.Join(parts, ", ")
}

// Address as geocoded by the app.
type Address struct {
	Route    string `json:"route"`
	Locality string `json:"locality"`
	Region   string `json:"administrative_area_level_1"`
}

// ConsultRequest is a patient's request for a home visit.
type ConsultRequest struct {
	ID       string   `json:"_id"`
	Patient  Ref      `json:"patientId"`
	Provider Ref      `json:"providerId"`
	Status   string   `json:"status"`
	Urgency  string   `json:"urgency"`
	Address  *Address `json:"address"`
	Tracking struct {
		Patient  *Location `json:"patientLocation"`
		Provider *Location `json:"providerLocation"`
	} `json:"locationTracking"`
	CreatedAt Time `json:"createdAt"`
}

// PatientLocation prefers the geocoded address over raw coordinates.
func (r ConsultRequest) PatientLocation() string {
	if r.Address != nil {
		var parts []string
		for _, p := range []string{r.Address.Route, r.Address.Locality, r.Address.Region} {
			if p != "" {
				parts = append(parts, p)
			}
		}
		if len(parts) > 0 {
			return strings.Join(parts, ", ")
		}
		return "N/A"
	}
	if r.Tracking.Patient == nil {
		return "N/A"
	}
	return r.Tracking.Patient.String()
}

// ProviderLocation is "Not assigned" until a provider accepts.
func (r ConsultRequest) ProviderLocation() string {
	if r.Provider.IsZero() {
		return "Not assigned"
	}
	return r.Tracking.Provider.String()
}

// ProviderName is "Not assigned" until a provider accepts.
func (r ConsultRequest) ProviderName() string {
	if r.Provider.IsZero() {
		return "Not assigned"
	}
	return r.Provider.Display()
}

// UrgencyLabel defaults to medium.
func (r ConsultRequest) UrgencyLabel() string {
	if r.Urgency == "" {
		return "medium"
	}
	return r.Urgency
}
