package server

// EmitResponse is the response for the emit endpoint
type EmitResponse struct {
	Key      string `json:"key"`
	CNF      string `json:"cnf"`
	XMLName  string `json:"xml_name"`
	TextName string `json:"text_name"`
	XML      string `json:"xml"`
	Text     string `json:"text"`
}

// KeyCheckRequest carries a 44-digit access key, with or without the NFe
// prefix.
type KeyCheckRequest struct {
	Key string `json:"key" binding:"required"`
}

// KeyCheckResponse is the response for the key check endpoint
type KeyCheckResponse struct {
	Key   string `json:"key"`
	Valid bool   `json:"valid"`
}

// ErrorResponse is the standard error response
type ErrorResponse struct {
	Error   string `json:"error"`
	Details string `json:"details,omitempty"`
}
