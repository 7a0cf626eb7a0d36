package types

import "time"

// Report represents a lost or found item submission.
// JSON field names match the wire format the web clients consume.
type Report struct {
	// ID is the unique identifier of the report.
	ID string `json:"id"`

	// Kind says whether the item was lost or found.
	Kind string `json:"type"`

	// Category is a free-text item category (e.g., "Accessories").
	Category string `json:"category"`

	// Name is the short name of the item.
	Name string `json:"name"`

	// Description is the free-text description of the item.
	Description string `json:"description"`

	// Location is where the item was lost or found.
	Location string `json:"location"`

	// Date is the user-supplied date of loss or find.
	Date string `json:"date"`

	// Contact is how the reporter can be reached.
	Contact string `json:"contact"`

	// ReportedBy identifies the user who filed the report.
	ReportedBy string `json:"reportedBy"`

	// ReportedByName is a denormalized copy of the reporter's display
	// name, captured at submission time.
	ReportedByName string `json:"reportedByName"`

	// Image is the path of the uploaded item image, empty when none
	// was attached.
	Image string `json:"image,omitempty"`

	// Status is the lifecycle state of the report.
	Status string `json:"status"`

	// MatchedWith identifies the paired report. Set exactly when
	// Status is StatusMatched, and the paired report points back here.
	MatchedWith string `json:"matchedWith,omitempty"`

	// ReportedAt is the timestamp when the report was created.
	ReportedAt time.Time `json:"reportedAt"`
}

// Report kinds.
const (
	KindLost  = "lost"
	KindFound = "found"
)

// Report statuses.
const (
	StatusActive  = "active"
	StatusMatched = "matched"
)
