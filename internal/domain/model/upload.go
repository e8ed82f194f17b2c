package model

// Upload is a binary file attached to a multipart request.
type Upload struct {
	Filename    string
	ContentType string
	Data        []byte
}
