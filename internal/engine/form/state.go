package form

// State is what the form shows: the inputs, the last payload and at most one
// of an error or success message.
type State struct {
	Identifier         string `json:"identifier"`
	Amount             string `json:"amount"`
	RememberPreference bool   `json:"remember_preference"`
	LastPayload        string `json:"last_payload"`
	ErrorMessage       string `json:"error_message"`
	SuccessMessage     string `json:"success_message"`
}

// Input is a form submission. A nil Remember keeps the current flag.
type Input struct {
	Identifier string `json:"identifier"`
	Amount     string `json:"amount"`
	Remember   *bool  `json:"remember,omitempty"`
}
