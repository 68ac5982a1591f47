package domain

// Record is implemented by every catalog entity.
type Record interface {
	RecordID() string
	// OwnerID is empty for records without a creator.
	OwnerID() string
	// UploadedFile is the stored upload path, if any.
	UploadedFile() string
}

// RandomFilter narrows random sampling.
type RandomFilter struct {
	Type     string
	Genre    string
	IsSeries *bool
}
