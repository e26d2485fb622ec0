package biz

// FormState holds the fields the user is editing. Login and signup share
// one email/password pair, so switching mode keeps what was typed.
type FormState struct {
	Mode            AuthMode
	Email           string
	Password        string
	ConfirmPassword string
}

// NewFormState returns an empty form in login mode.
func NewFormState() *FormState {
	return &FormState{Mode: ModeLogin}
}

func (f *FormState) SetMode(mode AuthMode)        { f.Mode = mode }
func (f *FormState) SetEmail(email string)        { f.Email = email }
func (f *FormState) SetPassword(password string)  { f.Password = password }
func (f *FormState) SetConfirmPassword(pw string) { f.ConfirmPassword = pw }

// Credentials snapshots the current field values.
func (f *FormState) Credentials() Credentials {
	return Credentials{
		Email:           f.Email,
		Password:        f.Password,
		ConfirmPassword: f.ConfirmPassword,
	}
}
