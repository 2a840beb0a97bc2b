package adp

// IdentityResponse is the identity endpoint's answer for the logged-in user
type IdentityResponse struct {
	AssociateOID string `json:"associateoid"`
}

// StatementListResponse is the top-level listing endpoint response
type StatementListResponse struct {
	PayStatements []PayStatement `json:"payStatements"`
}

// PayStatement describes one available pay statement
type PayStatement struct {
	PayDate           string            `json:"payDate"`
	StatementImageURI StatementImageURI `json:"statementImageUri"`
}

// StatementImageURI wraps the document link for a statement
type StatementImageURI struct {
	Href string `json:"href"`
}
