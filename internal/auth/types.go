package auth

// ProviderResponse is what the Google sign-in widget hands back on success.
// It mirrors the Identity Services credential response.
type ProviderResponse struct {
	Credential string `json:"credential"` // raw ID token, opaque to this package
	ClientID   string `json:"clientId,omitempty"`
	SelectBy   string `json:"select_by,omitempty"`
}
