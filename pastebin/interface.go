package pastebin

// ClientAPI defines the operations offered by the paste service.
// It mirrors the concrete client so it can be mocked in tests.
type ClientAPI interface {
	ObtainUserKey(devKey, username, password string) (string, error)
	CreatePaste(devKey, code string, opts PasteOptions) (string, error)
	ListPastes(devKey, userKey string, limit int) ([]string, error)
	ListPastesParsed(devKey, userKey string, limit int) ([]Paste, error)
	DeletePaste(devKey, userKey, pasteKey string) ([]string, error)
	DeletePasteByName(devKey, userKey, name string) ([]string, error)
	FetchPrivateRaw(devKey, userKey, pasteKey string) ([]string, error)
	FetchPublicRaw(pasteKey string) ([]string, error)
	FetchRawByName(devKey, userKey, name string) ([]string, error)
}
