package services

// OptionalText tracks tri-state semantics for nullable text fields in PATCH requests.
// Transport-agnostic (no JSON tags) - handlers map from httputil.OptionalString.
//   - Present=false: field absent from request (don't change)
//   - Present=true, Value=nil: field is null (clear)
//   - Present=true, Value=&"text": field has value
type OptionalText struct {
	Present bool
	Value   *string
}

// Apply returns the new value of a nullable column given its current value.
func (o OptionalText) Apply(current *string) *string {
	if !o.Present {
		return current
	}
	return o.Value
}

// UploadedFile is an image received from the admin UI.
type UploadedFile struct {
	Filename    string
	ContentType string
	Data        []byte
}
