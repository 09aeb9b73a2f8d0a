package analysis

// UploadedImage is the image submitted with a single request. It is owned by that
// request and dropped when the request completes.
type UploadedImage struct {
	Filename string
	MimeType string
	// Size is the size reported by the transport; 0 means it was not reported.
	Size int64
	Data []byte
}

// AnalysisRequest carries an upload plus the optional caller overrides.
// Empty APIKey or Model means the caller did not supply one.
type AnalysisRequest struct {
	Image  UploadedImage
	APIKey string
	Model  string
}

// AnalysisResult is the envelope returned for a successful analysis.
type AnalysisResult struct {
	Success     bool   `json:"success"`
	Analysis    string `json:"analysis"`
	Filename    string `json:"filename"`
	ContentType string `json:"content_type"`
}
