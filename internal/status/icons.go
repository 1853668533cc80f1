package status

// Icon kinds rendered by clients.
const (
	IconCheck   = "check"
	IconCross   = "cross"
	IconClock   = "clock"
	IconNeutral = "neutral"
)

// Icon is a display hint for one status axis of a request.
type Icon struct {
	Kind    string `json:"kind"`
	Color   string `json:"color"`
	Tooltip string `json:"tooltip"`
}

// iconTable covers every enumerated value of the three status axes.
var iconTable = map[string]Icon{
	"in_progress":         {Kind: IconClock, Color: "yellow", Tooltip: "In progress"},
	"booked":              {Kind: IconClock, Color: "yellow", Tooltip: "Booked"},
	"confirmed":           {Kind: IconCheck, Color: "green", Tooltip: "Confirmed"},
	"cancelled":           {Kind: IconCross, Color: "red", Tooltip: "Cancelled"},
	"awaiting_payment":    {Kind: IconClock, Color: "yellow", Tooltip: "Awaiting payment"},
	"paid":                {Kind: IconCheck, Color: "green", Tooltip: "Paid"},
	"partially_paid":      {Kind: IconClock, Color: "yellow", Tooltip: "Partially paid"},
	"not_paid":            {Kind: IconCross, Color: "red", Tooltip: "Not paid"},
	"documents_ready":     {Kind: IconCheck, Color: "green", Tooltip: "Documents ready"},
	"documents_not_ready": {Kind: IconCross, Color: "red", Tooltip: "Documents not ready"},
}

// IconFor maps a status value to its display icon. Unrecognized values get
// a neutral icon with the raw value as the tooltip instead of an error.
func IconFor(value string) Icon {
	if icon, ok := iconTable[value]; ok {
		return icon
	}
	return Icon{Kind: IconNeutral, Color: "gray", Tooltip: value}
}

// Icons bundles the display hints for a request's three status axes.
type Icons struct {
	Reservation Icon `json:"reservation"`
	Payment     Icon `json:"payment"`
	Document    Icon `json:"document"`
}

// IconsFor derives the icon set for the three axes of a request.
func IconsFor(reservationStatus, paymentStatus, documentStatus string) Icons {
	return Icons{
		Reservation: IconFor(reservationStatus),
		Payment:     IconFor(paymentStatus),
		Document:    IconFor(documentStatus),
	}
}
