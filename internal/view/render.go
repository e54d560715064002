package view

import (
	"fmt"

	"github.com/nexus-suite/helpdesk/internal/domain"
)

// SLAAchievement is the fixed figure shown on the admin dashboard.
const SLAAchievement = "99.2%"

// ChatState is what the employee dashboard shows of the chat session.
type ChatState struct {
	Messages []domain.ChatMessage
	Pending  bool
}

// Source supplies the data a dashboard needs at render time.
type Source interface {
	Chat() ChatState
	Tickets() []domain.Ticket
}

// Page is the rendered view model. Exactly one of the view fields is set.
type Page struct {
	View     Name          `json:"view"`
	Landing  *LandingPage  `json:"landing,omitempty"`
	Login    *LoginPage    `json:"login,omitempty"`
	Employee *EmployeePage `json:"employee,omitempty"`
	Admin    *AdminPage    `json:"admin,omitempty"`
}

type Feature struct {
	Title       string `json:"title"`
	Description string `json:"description"`
}

type LandingPage struct {
	Product  string    `json:"product"`
	Tagline  string    `json:"tagline"`
	Features []Feature `json:"features"`
}

type LoginPage struct {
	Roles []domain.Role `json:"roles"`
	Error string        `json:"error,omitempty"`
}

type SupportCategory struct {
	Title    string   `json:"title"`
	Featured bool     `json:"featured"`
	Items    []string `json:"items"`
}

// ChatTurn is a transcript entry; CanEscalate marks assistant replies that
// offer the escalation action.
type ChatTurn struct {
	Role        domain.ChatRole `json:"role"`
	Text        string          `json:"text"`
	CanEscalate bool            `json:"canEscalate"`
}

type EmployeePage struct {
	UserName   string            `json:"userName"`
	Categories []SupportCategory `json:"categories"`
	Chat       []ChatTurn        `json:"chat"`
	Pending    bool              `json:"pending"`
}

type Stat struct {
	Label string `json:"label"`
	Value string `json:"value"`
}

type AdminPage struct {
	UserName string          `json:"userName"`
	Stats    []Stat          `json:"stats"`
	Tickets  []domain.Ticket `json:"tickets"`
}

var landingFeatures = []Feature{
	{Title: "Instant Diagnostics", Description: "Immediate technical help for Wi-Fi, systems and hardware."},
	{Title: "HR Intelligence", Description: "Policy queries, leave management and payroll insights in natural conversation."},
	{Title: "Secure & Private", Description: "Internal requests remain confidential."},
}

var supportCategories = []SupportCategory{
	{Title: "IT Support", Items: []string{
		"Wi-Fi Connectivity Issues", "Password Reset", "Email Setup", "System Issues", "Software Installation",
	}},
	{Title: "HR Help", Featured: true, Items: []string{
		"Leave Management", "Payroll Queries", "ID Card Issues", "Policy Information", "Benefits Inquiry",
	}},
	{Title: "Admin Queries", Items: []string{
		"Office Facilities", "Access & Permissions", "Directory & Contacts", "Location Info", "General Inquiries",
	}},
}

// Render builds the view model for v. Every View variant has a case; an
// unknown implementation is an error.
func Render(v View, src Source) (Page, error) {
	switch v := v.(type) {
	case Landing:
		return Page{View: v.Name(), Landing: &LandingPage{
			Product:  "AI Chat Bot",
			Tagline:  "The Future of Service Ops.",
			Features: landingFeatures,
		}}, nil
	case Login:
		return Page{View: v.Name(), Login: &LoginPage{
			Roles: []domain.Role{domain.RoleUser, domain.RoleAdmin},
			Error: v.Error,
		}}, nil
	case EmployeeDashboard:
		chat := src.Chat()
		return Page{View: v.Name(), Employee: &EmployeePage{
			UserName:   v.Session.Name,
			Categories: supportCategories,
			Chat:       chatTurns(chat.Messages),
			Pending:    chat.Pending,
		}}, nil
	case AdminDashboard:
		tickets := src.Tickets()
		return Page{View: v.Name(), Admin: &AdminPage{
			UserName: v.Session.Name,
			Stats:    adminStats(tickets),
			Tickets:  tickets,
		}}, nil
	default:
		return Page{}, fmt.Errorf("view: unknown variant %T", v)
	}
}

func chatTurns(messages []domain.ChatMessage) []ChatTurn {
	turns := make([]ChatTurn, 0, len(messages))
	for i, m := range messages {
		turns = append(turns, ChatTurn{
			Role:        m.Role,
			Text:        m.Text,
			CanEscalate: m.Role == domain.ChatRoleAI && i > 0,
		})
	}
	return turns
}

func adminStats(tickets []domain.Ticket) []Stat {
	open, critical := 0, 0
	for _, t := range tickets {
		if t.IsOpen() {
			open++
		}
		if t.Priority == domain.TicketPriorityP1 {
			critical++
		}
	}
	return []Stat{
		{Label: "Active Queue", Value: fmt.Sprint(open)},
		{Label: "Pending SLA", Value: fmt.Sprint(critical)},
		{Label: "SLA Achievement", Value: SLAAchievement},
	}
}
