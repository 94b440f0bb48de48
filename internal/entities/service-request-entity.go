package entities

// NoteDestination decides, once and for all, which list a note lands in.
type NoteDestination string

const (
	NoteInternal NoteDestination = "internal"
	NoteDisplay  NoteDestination = "display"
)

func (d NoteDestination) Valid() bool {
	return d == NoteInternal || d == NoteDisplay
}

type Note struct {
	Author    string `json:"author"`
	Message   string `json:"message"`
	Timestamp int64  `json:"timestamp"`
}

type StatusChange struct {
	Status      RequestStatus `json:"status"`
	ChangedTime int64         `json:"changedTime"`
}

// ServiceRequest is the admin projection. Times are nanoseconds since epoch.
type ServiceRequest struct {
	ID                 uint64         `json:"id"`
	CustomerName       string         `json:"customerName"`
	ContactInfo        string         `json:"contactInfo"`
	Description        string         `json:"description"`
	ServicesRequested  []string       `json:"servicesRequested"`
	TotalPriceEstimate string         `json:"totalPriceEstimate"`
	Status             RequestStatus  `json:"status"`
	StatusHistory      []StatusChange `json:"statusHistory"`
	SubmittedTime      int64          `json:"submittedTime"`
	LastUpdatedTime    int64          `json:"lastUpdatedTime"`
	InternalNotes      []Note         `json:"internalNotes"`
	PublicNotes        []Note         `json:"publicNotes"`
}

// PublicServiceRequest is what customers see. It has no internal notes field.
type PublicServiceRequest struct {
	ID                 uint64         `json:"id"`
	CustomerName       string         `json:"customerName"`
	ContactInfo        string         `json:"contactInfo"`
	Description        string         `json:"description"`
	ServicesRequested  []string       `json:"servicesRequested"`
	TotalPriceEstimate string         `json:"totalPriceEstimate"`
	Status             RequestStatus  `json:"status"`
	StatusHistory      []StatusChange `json:"statusHistory"`
	SubmittedTime      int64          `json:"submittedTime"`
	LastUpdatedTime    int64          `json:"lastUpdatedTime"`
	PublicNotes        []Note         `json:"publicNotes"`
}

// Public projects r for customer-facing lookups. Slices are copied so the
// projection never aliases the admin entity.
func (r *ServiceRequest) Public() *PublicServiceRequest {
	if r == nil {
		return nil
	}
	return &PublicServiceRequest{
		ID:                 r.ID,
		CustomerName:       r.CustomerName,
		ContactInfo:        r.ContactInfo,
		Description:        r.Description,
		ServicesRequested:  cloneSlice(r.ServicesRequested),
		TotalPriceEstimate: r.TotalPriceEstimate,
		Status:             r.Status,
		StatusHistory:      cloneSlice(r.StatusHistory),
		SubmittedTime:      r.SubmittedTime,
		LastUpdatedTime:    r.LastUpdatedTime,
		PublicNotes:        cloneSlice(r.PublicNotes),
	}
}

// Clone returns a deep copy.
func (r *ServiceRequest) Clone() *ServiceRequest {
	if r == nil {
		return nil
	}
	c := *r
	c.ServicesRequested = cloneSlice(r.ServicesRequested)
	c.StatusHistory = cloneSlice(r.StatusHistory)
	c.InternalNotes = cloneSlice(r.InternalNotes)
	c.PublicNotes = cloneSlice(r.PublicNotes)
	return &c
}

// cloneSlice never returns nil, so empty lists encode as [] rather than null.
func cloneSlice[T any](src []T) []T {
	out := make([]T, len(src))
	copy(out, src)
	return out
}
