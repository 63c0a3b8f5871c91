package domain

import "time"

// Status enumerates the extraction lifecycle of an uploaded label image.
type Status string

const (
	StatusQueued  Status = "queued"
	StatusLoading Status = "loading"
	StatusDone    Status = "done"
	StatusError   Status = "error"
)

// Terminal reports whether the status is a resting state.
func (s Status) Terminal() bool {
	return s == StatusDone || s == StatusError
}

// ExtractedFields holds the structured data read off a supply box label.
// Every field is optional: the label may simply not carry it, and the
// provider reports absence as null rather than failing. Once attached to an
// item the struct is never mutated; a fresh copy replaces it instead.
type ExtractedFields struct {
	ProductName    *string `json:"productName"`
	RefNumber      *string `json:"refNumber"`
	LotNumber      *string `json:"lotNumber"`
	ExpirationDate *string `json:"expirationDate"`
}

// Clone returns an independent copy of the fields.
func (f *ExtractedFields) Clone() *ExtractedFields {
	if f == nil {
		return nil
	}
	clone := ExtractedFields{
		ProductName:    cloneString(f.ProductName),
		RefNumber:      cloneString(f.RefNumber),
		LotNumber:      cloneString(f.LotNumber),
		ExpirationDate: cloneString(f.ExpirationDate),
	}
	return &clone
}

// Item is one uploaded label image and its extraction lifecycle state.
type Item struct {
	ID           string
	FileName     string
	MIMEType     string
	ImageData    []byte
	Status       Status
	Fields       *ExtractedFields
	ErrorMessage string
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

// Clone copies the item deeply enough that holders of a snapshot can never
// observe later store mutations. Image bytes are shared: they are written
// once at intake and treated as read-only afterwards.
func (it Item) Clone() Item {
	clone := it
	clone.Fields = it.Fields.Clone()
	return clone
}

func cloneString(s *string) *string {
	if s == nil {
		return nil
	}
	v := *s
	return &v
}
