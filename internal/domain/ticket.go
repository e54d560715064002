package domain

// TicketStatus enumerates lifecycle states for tickets.
type TicketStatus string

const (
	TicketStatusOpen   TicketStatus = "Open"
	TicketStatusClosed TicketStatus = "Closed"
)

// Valid reports whether s is a known status.
func (s TicketStatus) Valid() bool {
	return s == TicketStatusOpen || s == TicketStatusClosed
}

// TicketPriority enumerates SLA urgency, P1 being critical.
type TicketPriority string

const (
	TicketPriorityP1 TicketPriority = "P1"
	TicketPriorityP2 TicketPriority = "P2"
	TicketPriorityP3 TicketPriority = "P3"
	TicketPriorityP4 TicketPriority = "P4"
)

// DefaultTicketPriority applies when a submission leaves priority unset.
const DefaultTicketPriority = TicketPriorityP3

// Label returns the human readable priority name.
func (p TicketPriority) Label() string {
	switch p {
	case TicketPriorityP1:
		return "Critical"
	case TicketPriorityP2:
		return "Urgent"
	case TicketPriorityP3:
		return "Standard"
	case TicketPriorityP4:
		return "Routine"
	default:
		return string(p)
	}
}

// TicketCategory routes a ticket to a service department.
type TicketCategory string

const (
	TicketCategoryIT    TicketCategory = "IT"
	TicketCategoryHR    TicketCategory = "HR"
	TicketCategoryAdmin TicketCategory = "Admin"
)

// DefaultTicketCategory applies when a submission leaves category unset.
const DefaultTicketCategory = TicketCategoryIT

// Label returns the department name shown on the submission form.
func (c TicketCategory) Label() string {
	switch c {
	case TicketCategoryIT:
		return "IT Infrastructure"
	case TicketCategoryHR:
		return "Human Capital"
	case TicketCategoryAdmin:
		return "Admin Ops"
	default:
		return string(c)
	}
}

// CreatedAtLayout is the locale format used for Ticket.CreatedAt.
const CreatedAtLayout = "1/2/2006, 3:04:05 PM"

// Ticket is a support incident raised by an employee.
// Closed is terminal: a ticket never moves back to Open.
type Ticket struct {
	ID          string         `json:"id"`
	UserName    string         `json:"userName"`
	Category    TicketCategory `json:"category"`
	Description string         `json:"description"`
	Priority    TicketPriority `json:"priority"`
	Status      TicketStatus   `json:"status"`
	CreatedAt   string         `json:"createdAt"`
	Replies     []string       `json:"replies"`
}

// IsOpen reports whether the ticket still awaits resolution.
func (t Ticket) IsOpen() bool {
	return t.Status == TicketStatusOpen
}
