package models

// Media is an uploaded image or video
type Media struct {
	URL          string `json:"url"`
	PublicID     string `json:"publicId"`
	ResourceType string `json:"resourceType"`
	Format       string `json:"format"`
	Width        int    `json:"width,omitempty"`
	Height       int    `json:"height,omitempty"`
	Bytes        int    `json:"bytes"`
}

// UploadSignature lets the dashboard upload straight to the media host
type UploadSignature struct {
	Timestamp int64  `json:"timestamp"`
	Signature string `json:"signature"`
	APIKey    string `json:"apiKey"`
	CloudName string `json:"cloudName"`
	Folder    string `json:"folder"`
}
