package models

// TokenPair is the credential pair issued after a successful activation,
// login, or refresh. RefreshToken is empty when rotation did not occur.
type TokenPair struct {
	AccessToken  string `json:"accessToken"`
	RefreshToken string `json:"refreshToken,omitempty"`
}

// LoginResult is what the login flow hands back to the transport layer.
// When MFARequired is set no tokens are issued and no session is created;
// completing the second factor happens in a separate exchange.
type LoginResult struct {
	Tokens      TokenPair
	MFARequired bool
}

// RegistrationTicket is the outcome of a registration request: nothing is
// persisted yet, the candidate fields travel inside the activation token and
// the plaintext code is delivered out of band.
type RegistrationTicket struct {
	Message         string `json:"message"`
	ActivationToken string `json:"activationToken"`
	Code            string `json:"code"`
}

// CandidateUser is the proposed field set wrapped inside an activation
// token. It only becomes a User document once the activation code is
// consumed.
type CandidateUser struct {
	AccountType string `json:"accountType"`
	Firstname   string `json:"firstname,omitempty"`
	Lastname    string `json:"lastname,omitempty"`
	Companyname string `json:"companyname,omitempty"`
	Username    string `json:"username"`
	Email       string `json:"email,omitempty"`
	Phone       string `json:"phone,omitempty"`
	Password    string `json:"password"`
	Birthday    string `json:"birthday,omitempty"`
	Date        string `json:"date,omitempty"`
}
