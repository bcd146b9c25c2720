package pastebin

// Session bundles a developer key and a user key and supplies them to every
// call that needs both. It adds no behavior of its own.
type Session struct {
	DevKey  string
	UserKey string
	api     ClientAPI
}

// NewSession binds the two keys to api.
func NewSession(api ClientAPI, devKey, userKey string) *Session {
	return &Session{DevKey: devKey, UserKey: userKey, api: api}
}

// Login obtains a user key and returns a session holding it.
func Login(api ClientAPI, devKey, username, password string) (*Session, error) {
	userKey, err := api.ObtainUserKey(devKey, username, password)
	if err != nil {
		return nil, err
	}
	return NewSession(api, devKey, userKey), nil
}

// CreatePaste creates a paste owned by the session's user.
func (s *Session) CreatePaste(code string, opts PasteOptions) (string, error) {
	opts.UserKey = s.UserKey
	return s.api.CreatePaste(s.DevKey, code, opts)
}

// CreatePrivatePaste creates a private, never expiring paste in format
// "text".
func (s *Session) CreatePrivatePaste(code, name string) (string, error) {
	return s.CreatePaste(code, PasteOptions{
		Name:       name,
		Visibility: Private.Ptr(),
		ExpireDate: "N",
		Format:     "text",
	})
}

// ListPastes returns the raw list response for the session's user.
func (s *Session) ListPastes(limit int) ([]string, error) {
	return s.api.ListPastes(s.DevKey, s.UserKey, limit)
}

// ListPastesParsed returns the session user's pastes.
func (s *Session) ListPastesParsed(limit int) ([]Paste, error) {
	return s.api.ListPastesParsed(s.DevKey, s.UserKey, limit)
}

// DeletePaste removes one of the session user's pastes.
func (s *Session) DeletePaste(pasteKey string) ([]string, error) {
	return s.api.DeletePaste(s.DevKey, s.UserKey, pasteKey)
}

// DeletePasteByName removes the first of the user's pastes titled name.
func (s *Session) DeletePasteByName(name string) ([]string, error) {
	return s.api.DeletePasteByName(s.DevKey, s.UserKey, name)
}

// FetchRaw returns the content of one of the user's pastes.
func (s *Session) FetchRaw(pasteKey string) ([]string, error) {
	return s.api.FetchPrivateRaw(s.DevKey, s.UserKey, pasteKey)
}

// FetchRawByName returns the content of the first of the user's pastes
// titled name.
func (s *Session) FetchRawByName(name string) ([]string, error) {
	return s.api.FetchRawByName(s.DevKey, s.UserKey, name)
}
