package apiclient

// CredentialProvider supplies the credential attached to outbound requests.
// Implementations must return "" when no credential is stored.
type CredentialProvider interface {
	Credential() string
}

// CredentialFunc adapts a plain function to CredentialProvider.
type CredentialFunc func() string

func (f CredentialFunc) Credential() string {
	if f == nil {
		return ""
	}
	return f()
}

// StaticCredential always returns the same token.
type StaticCredential string

func (s StaticCredential) Credential() string { return string(s) }

type noCredential struct{}

func (noCredential) Credential() string { return "" }
