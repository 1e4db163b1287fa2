package remix

// Wire types for the remix service

type generateRequest struct {
	Prompt string `json:"prompt"`
	Title  string `json:"title"`
	Genre  string `json:"genre,omitempty"`
	Year   string `json:"year,omitempty"`
	Author string `json:"author,omitempty"`
	Style  string `json:"style,omitempty"`
}

type posterResponse struct {
	MimeType string `json:"mimeType"`
	Data     []byte `json:"data"` // base64 in JSON
}

type videoResponse struct {
	Operation string `json:"operation"`
}

type operationResponse struct {
	Done     bool   `json:"done"`
	VideoURI string `json:"videoUri,omitempty"`
	Error    *struct {
		Message string `json:"message"`
	} `json:"error,omitempty"`
}
