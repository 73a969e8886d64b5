package domain

// FileUpload is one part of a multipart upload.
type FileUpload struct {
	Name string
	Data []byte
}

type FileContent struct {
	Data        []byte
	ContentType string
}
